// Package patterns scans parsed conversations for recurring signals: user
// corrections, repeated request categories, file-edit habits, and tool
// workflow sequences. Signals below a minimum occurrence count are dropped
// so one-off noise never becomes a suggested rule.
package patterns

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/besslframework/claude-tune/pkg/logreader"
)

// Category classifies a detected pattern
type Category string

const (
	CategoryTone       Category = "tone"
	CategoryCorrection Category = "correction"
	CategoryRequest    Category = "request"
	CategoryEdit       Category = "edit"
	CategoryWorkflow   Category = "workflow"
)

// Pattern is one recurring signal detected across conversations
type Pattern struct {
	Category    Category
	Key         string // keyword, request category, extension, or tool pair
	Description string
	Occurrences int
	Examples    []string // evidence snippets, most recent first
	firstSeen   int      // scan sequence of the most recent evidence
}

// Correction is one user message that corrected the preceding assistant reply
type Correction struct {
	Keyword           string
	UserMessage       string
	AssistantResponse string
}

// Edit is one Edit-tool invocation
type Edit struct {
	FilePath  string
	OldString string
	NewString string
}

// Workflow is the tool invocation sequence of one conversation
type Workflow struct {
	SessionID string
	Sequence  []string
}

// Analysis is the full extraction result for a set of conversations
type Analysis struct {
	Corrections      []Correction
	RepeatedRequests map[string]int
	TotalEdits       int
	EditsByExtension map[string]int
	RecentEdits      []Edit
	Workflows        []Workflow
	Patterns         []Pattern // thresholded, ranked
}

// DefaultMinOccurrences is the threshold below which no pattern is emitted
const DefaultMinOccurrences = 2

// minWorkflowLength is the shortest tool sequence recorded as a workflow
const minWorkflowLength = 3

// Extractor runs the detection heuristics over conversations
type Extractor struct {
	MinOccurrences int

	requestRegexps map[string]*regexp.Regexp
}

// NewExtractor returns an Extractor with the default occurrence threshold
func NewExtractor() *Extractor {
	return NewExtractorWithThreshold(DefaultMinOccurrences)
}

// NewExtractorWithThreshold returns an Extractor with an explicit threshold
func NewExtractorWithThreshold(minOccurrences int) *Extractor {
	regexps := make(map[string]*regexp.Regexp, len(requestCategories))
	for _, rc := range requestCategories {
		regexps[rc.Name] = regexp.MustCompile(`(?i)` + rc.Pattern)
	}
	return &Extractor{
		MinOccurrences: minOccurrences,
		requestRegexps: regexps,
	}
}

// Analyze runs all detection passes over the conversations. The input is
// expected newest-conversation-first (as produced by the log reader), which
// determines the recency used for tie-breaking.
func (e *Extractor) Analyze(conversations []*logreader.Conversation) *Analysis {
	a := &Analysis{
		RepeatedRequests: make(map[string]int),
		EditsByExtension: make(map[string]int),
	}

	collector := newPatternCollector()
	seq := 0

	for _, conv := range conversations {
		var prevAssistant *logreader.Turn
		var toolSequence []string

		for i := range conv.Turns {
			turn := &conv.Turns[i]
			seq++

			switch turn.Role {
			case "assistant":
				prevAssistant = turn
				for _, call := range turn.ToolCalls {
					toolSequence = append(toolSequence, call.Name)
					if call.Name == "Edit" {
						e.recordEdit(a, collector, call, seq)
					}
				}

			case "user":
				e.detectCorrection(a, collector, turn, prevAssistant, seq)
				e.detectRequests(a, collector, turn, seq)
			}
		}

		if len(toolSequence) >= minWorkflowLength {
			a.Workflows = append(a.Workflows, Workflow{
				SessionID: conv.SessionID,
				Sequence:  truncateSequence(toolSequence, 10),
			})
			collector.addWorkflowPairs(toolSequence, seq)
		}
	}

	a.Patterns = collector.ranked(e.MinOccurrences)
	return a
}

// detectCorrection checks whether a user turn corrects the previous
// assistant reply. A turn with no preceding assistant reply cannot be a
// correction. Only the first matching keyword counts per turn.
func (e *Extractor) detectCorrection(a *Analysis, c *patternCollector, turn, prevAssistant *logreader.Turn, seq int) {
	if prevAssistant == nil {
		return
	}

	lower := strings.ToLower(turn.Content)
	for _, keyword := range correctionKeywords {
		if !strings.Contains(lower, keyword) {
			continue
		}

		assistantText := snippet(prevAssistant.Content)
		if assistantText == "" {
			assistantText = "[tool calls only]"
		}
		a.Corrections = append(a.Corrections, Correction{
			Keyword:           keyword,
			UserMessage:       snippet(turn.Content),
			AssistantResponse: assistantText,
		})

		if isToneKeyword(keyword) {
			c.add(CategoryTone, "tone", "말투 교정 (tone correction)", snippet(turn.Content), seq)
		} else {
			c.add(CategoryCorrection, keyword, "응답 교정 (correction after assistant reply)", snippet(turn.Content), seq)
		}
		return
	}
}

// detectRequests counts request categories present in a user turn
func (e *Extractor) detectRequests(a *Analysis, c *patternCollector, turn *logreader.Turn, seq int) {
	for _, rc := range requestCategories {
		if e.requestRegexps[rc.Name].MatchString(turn.Content) {
			a.RepeatedRequests[rc.Name]++
			c.add(CategoryRequest, rc.Name, "반복 요청: "+rc.Name, snippet(turn.Content), seq)
		}
	}
}

// recordEdit tracks an Edit tool call and its file extension
func (e *Extractor) recordEdit(a *Analysis, c *patternCollector, call logreader.ToolCall, seq int) {
	edit := Edit{
		FilePath:  stringInput(call.Input, "file_path"),
		OldString: snippet(stringInput(call.Input, "old_string")),
		NewString: snippet(stringInput(call.Input, "new_string")),
	}
	a.TotalEdits++
	if len(a.RecentEdits) < 5 {
		a.RecentEdits = append(a.RecentEdits, edit)
	}

	ext := strings.TrimPrefix(filepath.Ext(edit.FilePath), ".")
	if ext != "" {
		a.EditsByExtension[ext]++
		c.add(CategoryEdit, ext, "자주 편집하는 파일 유형: ."+ext, edit.FilePath, seq)
	}
}

// patternCollector accumulates occurrences keyed by category+key
type patternCollector struct {
	byKey map[string]*Pattern
}

func newPatternCollector() *patternCollector {
	return &patternCollector{byKey: make(map[string]*Pattern)}
}

func (c *patternCollector) add(category Category, key, description, example string, seq int) {
	mapKey := string(category) + "/" + key
	p, ok := c.byKey[mapKey]
	if !ok {
		p = &Pattern{
			Category:    category,
			Key:         key,
			Description: description,
			firstSeen:   seq,
		}
		c.byKey[mapKey] = p
	}
	p.Occurrences++
	if example != "" && len(p.Examples) < 3 {
		p.Examples = append(p.Examples, example)
	}
}

// addWorkflowPairs counts adjacent tool pairs within a sequence
func (c *patternCollector) addWorkflowPairs(sequence []string, seq int) {
	for i := 0; i+1 < len(sequence); i++ {
		pair := sequence[i] + " > " + sequence[i+1]
		c.add(CategoryWorkflow, pair, "반복 도구 순서: "+pair, "", seq)
	}
}

// ranked returns all patterns at or above the threshold, ordered by
// occurrence count descending. Equal counts order most-recent-evidence
// first; remaining ties order by key so output is fully deterministic.
func (c *patternCollector) ranked(minOccurrences int) []Pattern {
	var out []Pattern
	for _, p := range c.byKey {
		if p.Occurrences >= minOccurrences {
			out = append(out, *p)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Occurrences != out[j].Occurrences {
			return out[i].Occurrences > out[j].Occurrences
		}
		if out[i].firstSeen != out[j].firstSeen {
			return out[i].firstSeen < out[j].firstSeen
		}
		return out[i].Key < out[j].Key
	})

	return out
}

func isToneKeyword(keyword string) bool {
	for _, k := range toneKeywords {
		if k == keyword {
			return true
		}
	}
	return false
}

// snippet bounds a string to snippetLen runes for evidence display
func snippet(s string) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= snippetLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:snippetLen])
}

func stringInput(input map[string]interface{}, key string) string {
	if input == nil {
		return ""
	}
	if v, ok := input[key].(string); ok {
		return v
	}
	return ""
}

func truncateSequence(seq []string, max int) []string {
	if len(seq) <= max {
		return seq
	}
	return seq[:max]
}
