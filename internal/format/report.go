// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/inspire-refs/pkg/types"
)

// Entry is one processed record as seen by the renderers.
type Entry struct {
	ID        types.RecordID        `json:"id"`
	Note      string                `json:"note,omitempty"`
	Fields    *types.CitationFields `json:"fields,omitempty"`
	Reference string                `json:"reference,omitempty"`
	Error     string                `json:"error,omitempty"`
}

// Failed reports whether the record could not be fetched or parsed.
func (e Entry) Failed() bool { return e.Error != "" }

// Section is one group of entries with its optional header.
type Section struct {
	Name    string  `json:"name"`
	Title   string  `json:"title,omitempty"`
	Entries []Entry `json:"entries"`
}

// Lines flattens sections into display lines: the header of each titled
// section followed by one line per entry.
func Lines(sections []Section) []string {
	var lines []string
	for _, s := range sections {
		if s.Title != "" {
			lines = append(lines, s.Title)
		}
		for _, e := range s.Entries {
			if e.Failed() {
				lines = append(lines, Placeholder(e.ID, e.Error))
				continue
			}
			lines = append(lines, e.Reference)
		}
	}
	return lines
}

// Text writes the newline-joined lines followed by a final newline. Nothing
// is written for an empty report.
func Text(sections []Section, w io.Writer) error {
	lines := Lines(sections)
	if len(lines) == 0 {
		return nil
	}
	_, err := io.WriteString(w, strings.Join(lines, "\n")+"\n")
	return err
}

// JSON writes sections as an indented JSON array.
func JSON(sections []Section, w io.Writer) error {
	if sections == nil {
		sections = []Section{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sections)
}

// Render dispatches on the output format.
func Render(f types.OutputFormat, sections []Section, w io.Writer) error {
	switch f {
	case types.OutputText, "":
		return Text(sections, w)
	case types.OutputJSON:
		return JSON(sections, w)
	case types.OutputCSL:
		return CSL(sections, w)
	default:
		return fmt.Errorf("unknown output format %q", f)
	}
}
