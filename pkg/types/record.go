// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the inspire-refs pipeline:
// the record catalog, extracted citation fields, and stage configuration.
package types

// RecordID is an opaque token naming one record in the literature database
// (an INSPIRE record number such as "1124337").
type RecordID string

// Record is one catalog entry: the identifier to fetch and a maintainer note
// describing it.
type Record struct {
	ID   RecordID `json:"id" yaml:"id"`
	Note string   `json:"note,omitempty" yaml:"note,omitempty"`
}

// Group is an ordered list of records rendered under a common header.
type Group struct {
	// Name is the stable key used to select the group on the command line.
	Name string `json:"name" yaml:"name"`

	// Title is the header line printed before the group. An empty title
	// prints no header.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	Records []Record `json:"records" yaml:"records"`
}

// IDs returns the record identifiers of the group in order.
func (g Group) IDs() []RecordID {
	ids := make([]RecordID, len(g.Records))
	for i, r := range g.Records {
		ids[i] = r.ID
	}
	return ids
}

// Catalog is the ordered set of groups processed by one build.
type Catalog struct {
	Groups []Group `json:"groups" yaml:"groups"`
}

// Len returns the total number of records across all groups.
func (c Catalog) Len() int {
	n := 0
	for _, g := range c.Groups {
		n += len(g.Records)
	}
	return n
}

// CitationFields holds the fields extracted from one CV-format document.
// Every field is optional; an empty value means the field was not found.
type CitationFields struct {
	// Title is the record title.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// Collaboration is the credited research collaboration (e.g. "CMS Collaboration").
	Collaboration string `json:"collaboration,omitempty" yaml:"collaboration,omitempty"`

	// PublishedIn is the journal or proceedings reference.
	PublishedIn string `json:"published_in,omitempty" yaml:"published_in,omitempty"`

	// DOI is the display text of the first DOI link.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// ArXiv is the arXiv e-print identifier.
	ArXiv string `json:"arxiv,omitempty" yaml:"arxiv,omitempty"`
}

// IsEmpty reports whether no field was extracted.
func (f CitationFields) IsEmpty() bool {
	return f == CitationFields{}
}
