package logreader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/besslframework/claude-tune/pkg/config"
	"github.com/besslframework/claude-tune/pkg/logger"
)

// UUIDLength is the length of a session ID (36 chars with hyphens)
const UUIDLength = 36

// SessionInfo holds metadata about a discovered session transcript
type SessionInfo struct {
	SessionID      string
	TranscriptPath string
	ProjectPath    string // Relative path from projects dir
	ModTime        time.Time
	SizeBytes      int64
}

// Reader loads conversations from a Claude projects directory
type Reader struct {
	projectsDir string
}

// NewReader returns a Reader over an explicit projects directory.
// Components take the directory as configuration so the pipeline can be
// driven with synthetic inputs in tests.
func NewReader(projectsDir string) *Reader {
	return &Reader{projectsDir: projectsDir}
}

// DefaultReader returns a Reader over the standard Claude projects directory
func DefaultReader() (*Reader, error) {
	projectsDir, err := config.GetProjectsDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get projects directory: %w", err)
	}
	return NewReader(projectsDir), nil
}

// ScanSessions finds all session transcripts under the projects directory.
// A missing directory yields no sessions and no error.
// Returns sessions sorted by modification time (newest first).
func (r *Reader) ScanSessions() ([]SessionInfo, error) {
	if _, err := os.Stat(r.projectsDir); os.IsNotExist(err) {
		return nil, nil
	}

	var sessions []SessionInfo

	err := filepath.WalkDir(r.projectsDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			logger.Warn("Failed to access path during scan: %s: %v", path, err)
			return nil // Continue walking
		}

		session := parseSessionFromPath(path, d, r.projectsDir)
		if session != nil {
			sessions = append(sessions, *session)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk projects directory: %w", err)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].ModTime.After(sessions[j].ModTime)
	})

	return sessions, nil
}

// FindSession finds a session transcript by full or partial ID, or the most
// recent session when id is "latest".
func (r *Reader) FindSession(id string) (*SessionInfo, error) {
	sessions, err := r.ScanSessions()
	if err != nil {
		return nil, err
	}

	if id == "latest" {
		if len(sessions) == 0 {
			return nil, fmt.Errorf("no sessions found")
		}
		return &sessions[0], nil
	}

	var matches []SessionInfo
	for _, s := range sessions {
		if s.SessionID == id || strings.HasPrefix(s.SessionID, id) {
			matches = append(matches, s)
		}
	}

	if len(matches) == 0 {
		return nil, fmt.Errorf("session not found: %s", id)
	}
	if len(matches) > 1 {
		return nil, fmt.Errorf("ambiguous session ID '%s' matches %d sessions", id, len(matches))
	}
	return &matches[0], nil
}

// RecentConversations parses up to limit recent sessions into conversations,
// newest first. projectFilter, when non-empty, restricts sessions to those
// whose project path contains the filter substring. Empty conversations are
// dropped. The second return value is the total count of skipped malformed
// lines across all parsed transcripts.
func (r *Reader) RecentConversations(limit int, projectFilter string) ([]*Conversation, int, error) {
	sessions, err := r.ScanSessions()
	if err != nil {
		return nil, 0, err
	}

	var conversations []*Conversation
	skipped := 0

	for _, session := range sessions {
		if projectFilter != "" && !strings.Contains(session.ProjectPath, projectFilter) {
			continue
		}

		conv, err := ParseSessionFile(session.TranscriptPath, session.SessionID, session.ProjectPath)
		if err != nil {
			logger.Warn("Failed to parse transcript %s: %v", session.TranscriptPath, err)
			continue
		}
		skipped += conv.SkippedLines

		if len(conv.Turns) == 0 {
			continue
		}
		conversations = append(conversations, conv)

		if limit > 0 && len(conversations) >= limit {
			break
		}
	}

	return conversations, skipped, nil
}

// parseSessionFromPath checks if a path is a valid session transcript and returns SessionInfo
func parseSessionFromPath(path string, d os.DirEntry, projectsDir string) *SessionInfo {
	if d.IsDir() {
		return nil
	}

	if !strings.HasSuffix(path, ".jsonl") {
		return nil
	}

	name := d.Name()

	// Skip agent sidechain files
	if strings.HasPrefix(name, "agent-") {
		return nil
	}

	// Session ID is the filename without extension
	sessionID := strings.TrimSuffix(name, ".jsonl")

	// Validate it looks like a UUID
	if len(sessionID) != UUIDLength {
		return nil
	}

	info, err := d.Info()
	if err != nil {
		return nil
	}

	relPath, _ := filepath.Rel(projectsDir, filepath.Dir(path))

	return &SessionInfo{
		SessionID:      sessionID,
		TranscriptPath: path,
		ProjectPath:    relPath,
		ModTime:        info.ModTime(),
		SizeBytes:      info.Size(),
	}
}
