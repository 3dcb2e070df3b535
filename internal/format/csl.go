package format

import (
	"io"
	"strings"

	"go.yaml.in/yaml/v3"
)

// CSLItem is one bibliographic entry in CSL-YAML form, consumable by Pandoc
// and reference managers.
type CSLItem struct {
	ID             string    `yaml:"id"`
	Type           string    `yaml:"type"`
	Title          string    `yaml:"title,omitempty"`
	Author         []CSLName `yaml:"author,omitempty"`
	ContainerTitle string    `yaml:"container-title,omitempty"`
	DOI            string    `yaml:"DOI,omitempty"`
	URL            string    `yaml:"URL,omitempty"`
	Note           string    `yaml:"note,omitempty"`
}

// CSLName is a CSL name. Collaborations are institutional authors and use
// the literal form.
type CSLName struct {
	Literal string `yaml:"literal,omitempty"`
}

const arxivAbsURL = "https://arxiv.org/abs/"

// CSL writes the successfully built entries of every section as a single
// CSL-YAML list. Failed entries are omitted.
func CSL(sections []Section, w io.Writer) error {
	items := []CSLItem{}
	for _, s := range sections {
		for _, e := range s.Entries {
			if e.Failed() || e.Fields == nil {
				continue
			}
			items = append(items, toCSLItem(s, e))
		}
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items)
}

// toCSLItem maps an entry to CSL. Proceedings become paper-conference,
// reports without a venue become report, and everything else is a journal
// article.
func toCSLItem(s Section, e Entry) CSLItem {
	f := e.Fields
	item := CSLItem{
		ID:             "inspire:" + string(e.ID),
		Type:           cslType(s.Name, f.PublishedIn != ""),
		Title:          f.Title,
		ContainerTitle: f.PublishedIn,
		DOI:            f.DOI,
		Note:           e.Note,
	}
	if f.Collaboration != "" {
		item.Author = []CSLName{{Literal: f.Collaboration}}
	}
	if f.ArXiv != "" {
		item.URL = arxivAbsURL + strings.TrimPrefix(f.ArXiv, "arXiv:")
	}
	return item
}

func cslType(section string, published bool) string {
	switch {
	case section == "proceedings":
		return "paper-conference"
	case section == "reports" && !published:
		return "report"
	default:
		return "article-journal"
	}
}
