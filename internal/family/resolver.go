// Package family groups catalog entries into parent/clone families and
// picks the single canonical representative per family. The tie-break
// order is total, so identical inputs always produce identical winners.
package family

import (
	"fmt"

	"github.com/agentic-research/romsort/api"
	"github.com/agentic-research/romsort/internal/catalog"
	"github.com/agentic-research/romsort/internal/filter"
)

// Selection is the per-family outcome: the winner (nil when the whole
// family was rejected) and the rejection reason of every non-winning
// member, retained for the report.
type Selection struct {
	Root       string
	Winner     *catalog.MachineEntry
	Downgraded bool
	Rejections map[string]filter.ReasonCode
}

// Resolve partitions the admitted, non-device, non-BIOS subset of the
// catalog into families and selects each family's winner. decisions must
// be parallel to ix.All(). A cycle in parent references is fatal; a parent
// reference that resolves to nothing promotes the orphan to a root of its
// own family and records a warning.
func Resolve(ix *catalog.Index, decisions []filter.Decision, cfg *api.FilterConfig) (map[string]*Selection, []catalog.Warning, error) {
	entries := ix.All()
	if len(decisions) != len(entries) {
		return nil, nil, fmt.Errorf("family: %d decisions for %d entries", len(decisions), len(entries))
	}

	var warnings []catalog.Warning
	members := make(map[string][]*catalog.MachineEntry)

	for _, m := range entries {
		// Devices and BIOS sets are closure material, not family members.
		if m.IsDevice || m.IsBIOS {
			continue
		}
		root, warn, err := rootOf(m, ix)
		if err != nil {
			return nil, nil, err
		}
		if warn != nil {
			warnings = append(warnings, *warn)
		}
		members[root] = append(members[root], m)
	}

	selections := make(map[string]*Selection, len(members))
	for root, fam := range members {
		selections[root] = pick(root, fam, ix, decisions, cfg)
	}
	return selections, warnings, nil
}

// rootOf follows parent references to the family root. The walk uses an
// explicit visited set instead of chasing live pointers, so a malformed
// catalog fails deterministically instead of recursing forever.
func rootOf(m *catalog.MachineEntry, ix *catalog.Index) (string, *catalog.Warning, error) {
	visited := map[string]struct{}{m.ID: {}}
	cur := m
	for cur.CloneOf != "" {
		parent, ok := ix.Lookup(cur.CloneOf)
		if !ok {
			// Promote the deepest resolvable ancestor to root.
			return cur.ID, &catalog.Warning{
				Kind:    catalog.WarnMissingParent,
				Machine: cur.ID,
				Ref:     cur.CloneOf,
			}, nil
		}
		if _, seen := visited[parent.ID]; seen {
			return "", nil, &catalog.IntegrityError{ID: m.ID, Detail: "cycle in parent references"}
		}
		visited[parent.ID] = struct{}{}
		cur = parent
	}
	return cur.ID, nil, nil
}

func pick(root string, fam []*catalog.MachineEntry, ix *catalog.Index, decisions []filter.Decision, cfg *api.FilterConfig) *Selection {
	sel := &Selection{Root: root, Rejections: make(map[string]filter.ReasonCode)}

	decisionFor := func(m *catalog.MachineEntry) filter.Decision {
		ord, _ := ix.Ordinal(m.ID)
		return decisions[ord]
	}

	var admitted []*catalog.MachineEntry
	for _, m := range fam {
		if decisionFor(m).Admit {
			admitted = append(admitted, m)
		}
	}

	switch {
	case len(admitted) > 0:
		sel.Winner = chooseWinner(root, admitted, ix, cfg)
	case cfg.KeepBestAvailableIfImperfect:
		// Re-admit the best member whose only failure was driver status,
		// marked downgraded. This is the one config-dependent override of
		// the per-entry decision.
		var fallback []*catalog.MachineEntry
		for _, m := range fam {
			if decisionFor(m).Reason == filter.ReasonDriverStatus {
				fallback = append(fallback, m)
			}
		}
		if len(fallback) > 0 {
			// Best available means best ranked; parent preference does not
			// apply when every member is below the status floor.
			sel.Winner = bestRanked(fallback, ix, cfg)
			sel.Downgraded = true
		}
	}

	for _, m := range fam {
		if sel.Winner != nil && m.ID == sel.Winner.ID {
			continue
		}
		d := decisionFor(m)
		if d.Admit {
			// Admitted but outranked; recorded so the report explains why
			// the file is absent from the output set.
			sel.Rejections[m.ID] = "outranked"
		} else {
			sel.Rejections[m.ID] = d.Reason
		}
	}
	return sel
}

// chooseWinner applies the priority order: the root entry when admitted and
// the config prefers parents, otherwise the best candidate under the
// tie-break comparator.
func chooseWinner(root string, candidates []*catalog.MachineEntry, ix *catalog.Index, cfg *api.FilterConfig) *catalog.MachineEntry {
	if cfg.PreferParentOverClone {
		for _, m := range candidates {
			if m.ID == root {
				return m
			}
		}
	}
	return bestRanked(candidates, ix, cfg)
}

func bestRanked(candidates []*catalog.MachineEntry, ix *catalog.Index, cfg *api.FilterConfig) *catalog.MachineEntry {
	best := candidates[0]
	for _, m := range candidates[1:] {
		if outranks(m, best, ix, cfg) {
			best = m
		}
	}
	return best
}
