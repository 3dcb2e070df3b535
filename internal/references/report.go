// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package references

import (
	"io"
	"strings"

	"github.com/pdiddy/inspire-refs/internal/format"
	"github.com/pdiddy/inspire-refs/pkg/types"
)

// GroupReport holds the results of one catalog group in record order.
type GroupReport struct {
	Group   types.Group
	Results []Result
}

// Report is the outcome of one build.
type Report struct {
	Groups []GroupReport
}

// BatchSummary counts the outcomes of a build.
type BatchSummary struct {
	Built   int
	Failed  int
	Network int
	Parse   int
	// Empty counts built references for which no field was found.
	Empty int
}

// Total returns the number of records processed.
func (s BatchSummary) Total() int { return s.Built + s.Failed }

// HasFailures reports whether any record failed.
func (s BatchSummary) HasFailures() bool { return s.Failed > 0 }

// Summary tallies the results of r.
func (r Report) Summary() BatchSummary {
	var s BatchSummary
	for _, res := range r.Results() {
		switch res.Failure {
		case FailureNone:
			s.Built++
			if res.Fields.IsEmpty() {
				s.Empty++
			}
		case FailureNetwork:
			s.Failed++
			s.Network++
		case FailureParse:
			s.Failed++
			s.Parse++
		}
	}
	return s
}

// Results returns every result in catalog order.
func (r Report) Results() []Result {
	var out []Result
	for _, g := range r.Groups {
		out = append(out, g.Results...)
	}
	return out
}

// Sections converts r for the renderers in package format.
func (r Report) Sections() []format.Section {
	sections := make([]format.Section, len(r.Groups))
	for i, g := range r.Groups {
		s := format.Section{
			Name:    g.Group.Name,
			Title:   g.Group.Title,
			Entries: make([]format.Entry, len(g.Results)),
		}
		for j, res := range g.Results {
			e := format.Entry{ID: res.Record.ID, Note: res.Record.Note}
			if res.OK() {
				fields := res.Fields
				e.Fields = &fields
				e.Reference = res.Reference
			} else {
				e.Error = res.Err.Error()
			}
			s.Entries[j] = e
		}
		sections[i] = s
	}
	return sections
}

// Lines returns the report as display lines: each group's header, when it
// has one, followed by a reference or error placeholder per record.
func (r Report) Lines() []string {
	return format.Lines(r.Sections())
}

// String joins Lines with newlines.
func (r Report) String() string {
	return strings.Join(r.Lines(), "\n")
}

// Render writes r to w in the requested format.
func (r Report) Render(f types.OutputFormat, w io.Writer) error {
	return format.Render(f, r.Sections(), w)
}
