package plan

import (
	"io"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/agentic-research/romsort/api"
	"github.com/agentic-research/romsort/internal/catalog"
	"github.com/agentic-research/romsort/internal/family"
	"github.com/agentic-research/romsort/internal/filter"
)

// FamilyReport is the per-family audit line: the winner (or none) and why
// every other member lost.
type FamilyReport struct {
	Root       string            `yaml:"root"`
	Winner     string            `yaml:"winner,omitempty"`
	Downgraded bool              `yaml:"downgraded,omitempty"`
	Rejections map[string]string `yaml:"rejections,omitempty"`
}

// Report is the structured diagnostics output for one run. It is meant for
// display by the front end, not for consumption by other runs.
type Report struct {
	Catalog      string         `yaml:"catalog"`
	TotalEntries int            `yaml:"total_entries"`
	Families     int            `yaml:"families"`
	Winners      int            `yaml:"winners"`
	PlanOps      int            `yaml:"plan_ops"`
	SkipCounts   map[string]int `yaml:"skip_counts,omitempty"`
	Selected     []FamilyReport `yaml:"selected,omitempty"`
	Empty        []FamilyReport `yaml:"empty,omitempty"`
	Warnings     []string       `yaml:"warnings,omitempty"`
}

// BuildReport assembles the report. Families are sorted by root identifier
// so the document is byte-stable across runs.
func BuildReport(catalogPath string, ix *catalog.Index, decisions []filter.Decision,
	selections map[string]*family.Selection, warnings []catalog.Warning, p api.CopyPlan) *Report {

	r := &Report{
		Catalog:      catalogPath,
		TotalEntries: ix.Len(),
		Families:     len(selections),
		PlanOps:      len(p),
		SkipCounts:   make(map[string]int),
	}

	for _, d := range decisions {
		if !d.Admit {
			r.SkipCounts[string(d.Reason)]++
		}
	}

	roots := make([]string, 0, len(selections))
	for root := range selections {
		roots = append(roots, root)
	}
	sort.Strings(roots)

	for _, root := range roots {
		sel := selections[root]
		fr := FamilyReport{Root: root, Downgraded: sel.Downgraded}
		if len(sel.Rejections) > 0 {
			fr.Rejections = make(map[string]string, len(sel.Rejections))
			for id, reason := range sel.Rejections {
				fr.Rejections[id] = string(reason)
			}
		}
		if sel.Winner != nil {
			fr.Winner = sel.Winner.ID
			r.Winners++
			r.Selected = append(r.Selected, fr)
		} else {
			r.Empty = append(r.Empty, fr)
		}
	}

	for _, w := range warnings {
		r.Warnings = append(r.Warnings, w.String())
	}
	return r
}

// EncodeYAML writes the report as a YAML document.
func (r *Report) EncodeYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return err
	}
	return enc.Close()
}
