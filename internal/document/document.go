// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package document parses HTML into a small element tree that extraction
// heuristics can query without depending on the HTML parser's API.
package document

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// NodeType distinguishes elements from text.
type NodeType int

const (
	ElementNode NodeType = iota
	TextNode
)

// Node is one element or text run in a parsed document. The root returned
// by Parse is an element with an empty Tag.
type Node struct {
	Type NodeType
	// Tag is the lower-case element name; empty for text and the root.
	Tag   string
	Attrs map[string]string
	// Data holds the text of a TextNode.
	Data     string
	Parent   *Node
	Children []*Node
}

// Parse reads an HTML document from r and converts it to a Node tree.
// Comments, doctypes, and the contents of script and style elements are
// dropped.
func Parse(r io.Reader) (*Node, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	root := &Node{Type: ElementNode}
	for _, n := range doc.Nodes {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			convert(c, root)
		}
	}
	return root, nil
}

// ParseString is Parse over a string.
func ParseString(s string) (*Node, error) {
	return Parse(strings.NewReader(s))
}

func convert(h *html.Node, parent *Node) {
	switch h.Type {
	case html.TextNode:
		parent.Children = append(parent.Children, &Node{Type: TextNode, Data: h.Data, Parent: parent})
	case html.ElementNode:
		if h.Data == "script" || h.Data == "style" {
			return
		}
		n := &Node{Type: ElementNode, Tag: h.Data, Parent: parent}
		if len(h.Attr) > 0 {
			n.Attrs = make(map[string]string, len(h.Attr))
			for _, a := range h.Attr {
				if _, dup := n.Attrs[a.Key]; !dup {
					n.Attrs[a.Key] = a.Val
				}
			}
		}
		parent.Children = append(parent.Children, n)
		for c := h.FirstChild; c != nil; c = c.NextSibling {
			convert(c, n)
		}
	}
}

// Attr returns the value of attribute key and whether it is present.
func (n *Node) Attr(key string) (string, bool) {
	v, ok := n.Attrs[key]
	return v, ok
}

// Is reports whether n is an element with the given tag.
func (n *Node) Is(tag string) bool {
	return n != nil && n.Type == ElementNode && n.Tag == tag
}

// Walk visits n and its descendants in document order. Returning false from
// fn stops the walk.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.Children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// FindAll returns every descendant element with the given tag in document
// order. Nested matches are included after their ancestors.
func (n *Node) FindAll(tag string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		c.Walk(func(d *Node) bool {
			if d.Is(tag) {
				out = append(out, d)
			}
			return true
		})
	}
	return out
}

// Find returns the first descendant element with the given tag, or nil.
func (n *Node) Find(tag string) *Node {
	var found *Node
	for _, c := range n.Children {
		if !c.Walk(func(d *Node) bool {
			if d.Is(tag) {
				found = d
				return false
			}
			return true
		}) {
			break
		}
	}
	return found
}

// FindFunc returns the first descendant element with the given tag for which
// match returns true, or nil.
func (n *Node) FindFunc(tag string, match func(*Node) bool) *Node {
	for _, d := range n.FindAll(tag) {
		if match(d) {
			return d
		}
	}
	return nil
}

// Text concatenates every descendant text run, separated by sep.
func (n *Node) Text(sep string) string {
	var parts []string
	n.Walk(func(d *Node) bool {
		if d.Type == TextNode {
			parts = append(parts, d.Data)
		}
		return true
	})
	return strings.Join(parts, sep)
}
