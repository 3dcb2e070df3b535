// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract locates citation fields in a parsed CV-format document.
// Each field has its own first-match heuristic; a field that cannot be found
// is left empty and extraction as a whole never fails.
package extract

import (
	"regexp"
	"strings"

	"github.com/pdiddy/inspire-refs/internal/document"
	"github.com/pdiddy/inspire-refs/pkg/types"
)

const publishedInLabel = "Published in:"

var (
	// collaborationRe matches the whole word "Collaboration" in any case.
	collaborationRe = regexp.MustCompile(`(?i)\bCollaboration\b`)

	// doiHrefRe matches DOI resolver links.
	doiHrefRe = regexp.MustCompile(`doi\.org/`)

	// arxivHrefRe matches arXiv abstract links. The dot matches any rune.
	arxivHrefRe = regexp.MustCompile(`arxiv.org/abs/`)
)

// Extract runs every field heuristic over doc.
func Extract(doc *document.Node) types.CitationFields {
	if doc == nil {
		return types.CitationFields{}
	}
	return types.CitationFields{
		Title:         Title(doc),
		Collaboration: Collaboration(doc),
		PublishedIn:   PublishedIn(doc),
		DOI:           DOI(doc),
		ArXiv:         ArXiv(doc),
	}
}

// Title returns the text of the first link set in bold directly inside a
// paragraph (p > b > a).
func Title(doc *document.Node) string {
	a := doc.FindFunc("a", func(n *document.Node) bool {
		return n.Parent.Is("b") && n.Parent.Parent.Is("p")
	})
	if a == nil {
		return ""
	}
	return Normalize(a.Text(" "))
}

// Collaboration returns the text of the first span that mentions a
// collaboration.
func Collaboration(doc *document.Node) string {
	for _, span := range doc.FindAll("span") {
		t := Normalize(span.Text(" "))
		if collaborationRe.MatchString(t) {
			return t
		}
	}
	return ""
}

// PublishedIn returns the journal reference from the first paragraph whose
// flattened text starts with "Published in:", without the label.
func PublishedIn(doc *document.Node) string {
	for _, p := range doc.FindAll("p") {
		t := Normalize(p.Text(" "))
		if strings.HasPrefix(t, publishedInLabel) {
			return Normalize(strings.Replace(t, publishedInLabel, "", 1))
		}
	}
	return ""
}

// DOI returns the display text of the first link to a DOI resolver. When a
// record carries several DOIs the first one in the document wins.
func DOI(doc *document.Node) string {
	for _, a := range doc.FindAll("a") {
		href, ok := a.Attr("href")
		if ok && doiHrefRe.MatchString(href) {
			return Normalize(a.Text(" "))
		}
	}
	return ""
}

// ArXiv returns the e-print identifier from the first paragraph that mentions
// an e-print and links to an arXiv abstract page.
func ArXiv(doc *document.Node) string {
	for _, p := range doc.FindAll("p") {
		raw := p.Text("")
		if !strings.Contains(raw, "e-Print") && !strings.Contains(raw, "arXiv") {
			continue
		}
		a := p.FindFunc("a", func(n *document.Node) bool {
			href, ok := n.Attr("href")
			return ok && arxivHrefRe.MatchString(href)
		})
		if a != nil {
			return Normalize(a.Text(" "))
		}
	}
	return ""
}
