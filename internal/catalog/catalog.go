// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog holds the record groups a build processes: the built-in
// publication lists and an optional YAML file with the same shape.
package catalog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/inspire-refs/pkg/types"
)

// Group names of the built-in catalog.
const (
	Papers      = "papers"
	Proceedings = "proceedings"
	Reports     = "reports"
)

// Default returns the built-in catalog. Each call returns a fresh copy.
func Default() types.Catalog {
	return types.Catalog{Groups: []types.Group{
		{
			Name:  Papers,
			Title: "Papers",
			Records: []types.Record{
				{ID: "2925580", Note: "WWZ and ZH"},
				{ID: "2790366", Note: "WH"},
				{ID: "1802096", Note: "VVV"},
				{ID: "1734235", Note: "WWW"},
				{ID: "1468068", Note: "ATLAS-CMS Higgs Couplings Run 1"},
				{ID: "1333228", Note: "HWW"},
				{ID: "1241574", Note: "H diboson"},
				{ID: "1124337", Note: "H obs"},
			},
		},
		{
			Name:  Proceedings,
			Title: "Proceedings",
			Records: []types.Record{
				{ID: "2116280", Note: "LST CTD 2022"},
				{ID: "2157930", Note: "LST HEP 2022"},
				{ID: "1859744", Note: "ICHEP 2020"},
				{ID: "1769928", Note: "LHCP 2019"},
				{ID: "1422721", Note: "JINST TWEPP"},
				{ID: "1413646", Note: "VERTEX"},
				{ID: "1250567", Note: "NIMA"},
				{ID: "1202133", Note: "JINST WIT"},
			},
		},
		{
			Name:  Reports,
			Title: "Conference Reports",
			Records: []types.Record{
				{ID: "2811026", Note: "CMS-CR-2024-141"},
			},
		},
	}}
}

// Load reads a catalog from a YAML file and validates it.
func Load(path string) (types.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Catalog{}, fmt.Errorf("reading catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (types.Catalog, error) {
	var c types.Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return types.Catalog{}, fmt.Errorf("parsing catalog: %w", err)
	}
	if err := Validate(c); err != nil {
		return types.Catalog{}, err
	}
	return c, nil
}

// Write encodes c as YAML in the form Load accepts.
func Write(c types.Catalog, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("marshaling catalog: %w", err)
	}
	return enc.Close()
}

// Validate rejects groups without a name, duplicate group names, and records
// with an empty identifier. All problems are reported together.
func Validate(c types.Catalog) error {
	var errs []error
	seen := make(map[string]bool, len(c.Groups))
	for i, g := range c.Groups {
		name := strings.TrimSpace(g.Name)
		switch {
		case name == "":
			errs = append(errs, fmt.Errorf("group %d: missing name", i))
		case seen[name]:
			errs = append(errs, fmt.Errorf("group %q: duplicate name", name))
		}
		seen[name] = true
		for j, r := range g.Records {
			if strings.TrimSpace(string(r.ID)) == "" {
				errs = append(errs, fmt.Errorf("group %q record %d: empty id", name, j))
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid catalog: %w", errors.Join(errs...))
	}
	return nil
}

// Select returns the groups of c named in names, in catalog order. No names
// selects every group. An unknown name is an error.
func Select(c types.Catalog, names ...string) (types.Catalog, error) {
	if len(names) == 0 {
		return c, nil
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	var out types.Catalog
	for _, g := range c.Groups {
		if want[g.Name] {
			out.Groups = append(out.Groups, g)
			delete(want, g.Name)
		}
	}
	if len(want) > 0 {
		var missing []string
		for _, n := range names {
			if want[n] {
				missing = append(missing, n)
				delete(want, n)
			}
		}
		return types.Catalog{}, fmt.Errorf("unknown group(s): %s (have %s)",
			strings.Join(missing, ", "), strings.Join(Names(c), ", "))
	}
	return out, nil
}

// Names returns the group names of c in order.
func Names(c types.Catalog) []string {
	names := make([]string, len(c.Groups))
	for i, g := range c.Groups {
		names[i] = g.Name
	}
	return names
}
