package logreader

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// ToolCall is a single tool invocation recorded in an assistant turn
type ToolCall struct {
	Name  string
	Input map[string]interface{}
}

// Turn is one parsed message from a session transcript
type Turn struct {
	Role        string // "user" or "assistant"
	Content     string
	Timestamp   time.Time
	ToolCalls   []ToolCall
	ToolResults []string
}

// Conversation is the ordered turn sequence of one session
type Conversation struct {
	SessionID    string
	ProjectPath  string
	Turns        []Turn
	TotalLines   int // non-empty lines seen in the transcript
	SkippedLines int // lines that failed to parse as JSON
}

// rawRecord is the subset of a transcript line we care about
type rawRecord struct {
	Type      string          `json:"type"`
	Timestamp string          `json:"timestamp"`
	Message   json.RawMessage `json:"message"`
	Content   json.RawMessage `json:"content"`
}

// rawMessage is the nested message object of user/assistant records
type rawMessage struct {
	Content json.RawMessage `json:"content"`
}

// contentBlock is one element of a block-list message content
type contentBlock struct {
	Type  string                 `json:"type"`
	Text  string                 `json:"text"`
	Name  string                 `json:"name"`
	Input map[string]interface{} `json:"input"`
}

// maxLineSize is the scanner buffer size for long transcript lines
// (default is 64KB, transcripts routinely exceed that)
const maxLineSize = 10 * 1024 * 1024

// ParseSessionFile reads one JSONL transcript into a Conversation.
// Malformed lines are skipped and counted, never fatal.
func ParseSessionFile(path, sessionID, projectPath string) (*Conversation, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open transcript: %w", err)
	}
	defer file.Close()

	conv := &Conversation{
		SessionID:   sessionID,
		ProjectPath: projectPath,
	}

	scanner := bufio.NewScanner(file)
	buf := make([]byte, 0, maxLineSize)
	scanner.Buffer(buf, maxLineSize)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		conv.TotalLines++

		var record rawRecord
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			conv.SkippedLines++
			continue
		}

		switch record.Type {
		case "user":
			conv.Turns = append(conv.Turns, Turn{
				Role:      "user",
				Content:   extractText(record.Message),
				Timestamp: parseTimestamp(record.Timestamp),
			})

		case "assistant":
			text, toolCalls := extractAssistantContent(record.Message)
			conv.Turns = append(conv.Turns, Turn{
				Role:      "assistant",
				Content:   text,
				Timestamp: parseTimestamp(record.Timestamp),
				ToolCalls: toolCalls,
			})

		case "tool_result":
			// Tool results attach to the assistant turn that issued the call
			if n := len(conv.Turns); n > 0 && conv.Turns[n-1].Role == "assistant" {
				conv.Turns[n-1].ToolResults = append(conv.Turns[n-1].ToolResults, decodeResultContent(record.Content))
			}

		default:
			// Summaries, progress markers and other record types carry no
			// conversational content; count them as parsed but emit nothing.
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transcript: %w", err)
	}

	return conv, nil
}

// extractText pulls the user-visible text out of a message object whose
// content may be a plain string or a list of content blocks.
func extractText(message json.RawMessage) string {
	if len(message) == 0 {
		return ""
	}

	var msg rawMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		// Some records carry the message as a bare string
		var s string
		if json.Unmarshal(message, &s) == nil {
			return s
		}
		return ""
	}

	return decodeContent(msg.Content)
}

// decodeContent handles content that is either a string or a block list
func decodeContent(content json.RawMessage) string {
	if len(content) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(content, &s); err == nil {
		return s
	}

	var blocks []contentBlock
	if err := json.Unmarshal(content, &blocks); err != nil {
		return ""
	}

	var parts []string
	for _, block := range blocks {
		if block.Type == "text" && block.Text != "" {
			parts = append(parts, block.Text)
		}
	}
	return strings.Join(parts, " ")
}

// decodeResultContent renders a tool_result content field as text
func decodeResultContent(content json.RawMessage) string {
	if len(content) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(content, &s); err == nil {
		return s
	}
	return string(content)
}

// extractAssistantContent splits an assistant message into its text and
// tool_use blocks
func extractAssistantContent(message json.RawMessage) (string, []ToolCall) {
	if len(message) == 0 {
		return "", nil
	}

	var msg rawMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		return "", nil
	}

	var blocks []contentBlock
	if err := json.Unmarshal(msg.Content, &blocks); err != nil {
		// Plain string content, no tool calls
		return decodeContent(msg.Content), nil
	}

	var text strings.Builder
	var toolCalls []ToolCall
	for _, block := range blocks {
		switch block.Type {
		case "text":
			text.WriteString(block.Text)
		case "tool_use":
			toolCalls = append(toolCalls, ToolCall{
				Name:  block.Name,
				Input: block.Input,
			})
		}
	}

	return text.String(), toolCalls
}

// parseTimestamp parses the RFC3339 timestamp Claude Code writes on each
// record; a missing or malformed timestamp yields the zero time.
func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
