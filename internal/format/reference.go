// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package format renders citation fields as reference lines and renders
// whole reports as text, JSON, or CSL-YAML.
package format

import (
	"fmt"
	"strings"

	"github.com/pdiddy/inspire-refs/pkg/types"
)

// Reference composes one citation line from fields. Present segments
// appear in the order collaboration, title, venue, identifiers, joined by
// ". " and terminated by a single period. Reference never returns an empty
// string; a zero value yields ".".
func Reference(f types.CitationFields) string {
	var segs []string
	for _, s := range []string{f.Collaboration, f.Title, f.PublishedIn} {
		if s != "" {
			segs = append(segs, s)
		}
	}

	var ids []string
	if f.DOI != "" {
		ids = append(ids, "doi:"+f.DOI)
	}
	if f.ArXiv != "" {
		ids = append(ids, "arXiv:"+f.ArXiv)
	}
	if len(ids) > 0 {
		segs = append(segs, strings.Join(ids, ", "))
	}

	out := strings.Join(segs, ". ")
	if !strings.HasSuffix(out, ".") {
		out += "."
	}
	return out
}

// Placeholder is the line printed in place of a reference when a record
// could not be fetched or parsed.
func Placeholder(id types.RecordID, msg string) string {
	return fmt.Sprintf("[%s] (error fetching/parsing: %s)", id, msg)
}
