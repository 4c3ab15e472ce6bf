// Package plan turns the selection results and their dependency closures
// into the flat copy plan handed to the copy collaborator, plus the
// per-family diagnostics report shown by the front end.
package plan

import (
	"path"
	"sort"

	"github.com/agentic-research/romsort/api"
	"github.com/agentic-research/romsort/internal/closure"
	"github.com/agentic-research/romsort/internal/family"
)

// Emit builds the copy plan: one op per ROM file and disk of every winner
// and closure entry, plus sample sets when requested. Ops are ordered by
// family root identifier, winner first, then dependency identifier, and
// deduplicated by destination, so a BIOS shared by many winners is copied
// once. Emit never runs after a fatal error, so a partial plan cannot
// escape.
func Emit(selections map[string]*family.Selection, res *closure.Resolver, cfg *api.FilterConfig) api.CopyPlan {
	roots := make([]string, 0, len(selections))
	for root := range selections {
		roots = append(roots, root)
	}
	sort.Strings(roots)

	var out api.CopyPlan
	seen := make(map[string]struct{})
	add := func(op api.CopyOp) {
		if _, dup := seen[op.Dest]; dup {
			return
		}
		seen[op.Dest] = struct{}{}
		out = append(out, op)
	}

	for _, root := range roots {
		sel := selections[root]
		if sel.Winner == nil {
			continue
		}
		for _, e := range res.CloseOver(sel.Winner) {
			for _, f := range e.ROMs {
				add(api.CopyOp{
					Source: path.Join(e.ID, f),
					Dest:   path.Join("roms", e.ID, f),
				})
			}
			for _, d := range e.Disks {
				add(api.CopyOp{
					Source: path.Join(e.ID, d+".chd"),
					Dest:   path.Join("roms", e.ID, d+".chd"),
				})
			}
			if cfg.IncludeSamples {
				if set := e.SampleSet(); set != "" {
					add(api.CopyOp{
						Source: path.Join("samples", set+".zip"),
						Dest:   path.Join("samples", set+".zip"),
					})
				}
			}
		}
	}
	return out
}
