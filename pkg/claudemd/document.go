// Package claudemd reads, updates, and writes CLAUDE.md configuration
// documents: an ordered list of named sections containing free-text rule
// lines. Merging is additive; user-authored sections are never removed.
package claudemd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// sectionPrefix marks a section heading line
const sectionPrefix = "## "

// Section is one named block of rule lines
type Section struct {
	Heading string // heading text without the "## " prefix
	Lines   []string
}

// Document is a parsed CLAUDE.md
type Document struct {
	Path     string
	Preamble []string // content before the first section heading
	Sections []Section
}

// Load reads and parses the document at path. A missing file yields an
// empty document bound to that path, not an error.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Document{Path: path}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	doc := Parse(string(data))
	doc.Path = path
	return doc, nil
}

// Parse splits document content into preamble and named sections
func Parse(content string) *Document {
	doc := &Document{}

	if content == "" {
		return doc
	}

	// A trailing newline terminates the last line rather than starting an
	// empty one; Render re-adds it.
	content = strings.TrimSuffix(content, "\n")

	var current *Section
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, sectionPrefix) {
			doc.Sections = append(doc.Sections, Section{
				Heading: strings.TrimSpace(strings.TrimPrefix(line, sectionPrefix)),
			})
			current = &doc.Sections[len(doc.Sections)-1]
			continue
		}
		if current != nil {
			current.Lines = append(current.Lines, line)
		} else {
			doc.Preamble = append(doc.Preamble, line)
		}
	}

	return doc
}

// Render serializes the document back to markdown
func (d *Document) Render() string {
	var b strings.Builder

	for _, line := range d.Preamble {
		b.WriteString(line)
		b.WriteString("\n")
	}

	for _, section := range d.Sections {
		b.WriteString(sectionPrefix)
		b.WriteString(section.Heading)
		b.WriteString("\n")
		for _, line := range section.Lines {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	return b.String()
}

// findSection returns the section with the given heading, or nil
func (d *Document) findSection(heading string) *Section {
	for i := range d.Sections {
		if d.Sections[i].Heading == heading {
			return &d.Sections[i]
		}
	}
	return nil
}

// HasRule reports whether the named section already contains the exact rule
// line. Dedup is exact-text only; semantic equivalence is out of scope.
func (d *Document) HasRule(heading, rule string) bool {
	section := d.findSection(heading)
	if section == nil {
		return false
	}
	rule = strings.TrimSpace(rule)
	for _, line := range section.Lines {
		if strings.TrimSpace(line) == rule {
			return true
		}
	}
	return false
}

// EnsureRule appends a rule line to the named section, creating the section
// at the end of the document if absent. Returns true if the document
// changed; an already-present rule line is left alone.
func (d *Document) EnsureRule(heading, rule string) bool {
	if d.HasRule(heading, rule) {
		return false
	}

	section := d.findSection(heading)
	if section == nil {
		d.Sections = append(d.Sections, Section{Heading: heading})
		section = &d.Sections[len(d.Sections)-1]
	}

	// Keep a blank line before the next heading when the section was
	// rendered with trailing whitespace
	insertAt := len(section.Lines)
	for insertAt > 0 && strings.TrimSpace(section.Lines[insertAt-1]) == "" {
		insertAt--
	}
	section.Lines = append(section.Lines[:insertAt], append([]string{rule}, section.Lines[insertAt:]...)...)
	return true
}

// Save writes the document atomically via a temp file and rename, so a
// failed write leaves any existing file untouched.
func (d *Document) Save() error {
	dir := filepath.Dir(d.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tempFile, err := os.CreateTemp(dir, ".claude-md-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	if _, err := tempFile.WriteString(d.Render()); err != nil {
		tempFile.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tempPath, 0644); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(tempPath, d.Path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}
