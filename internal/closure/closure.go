// Package closure computes the transitive set of auxiliary entries (BIOS
// sets, slot devices) a selected machine needs. Results are memoized
// catalog-wide: a BIOS referenced by hundreds of winners is resolved once.
package closure

import (
	"sort"
	"sync"

	"github.com/RoaringBitmap/roaring"

	"github.com/agentic-research/romsort/internal/catalog"
)

// Resolver owns the shared memo cache. Safe for concurrent CloseOver
// calls: computation happens outside the lock and writes are idempotent,
// so a duplicated computation costs work, never correctness.
type Resolver struct {
	ix *catalog.Index

	mu       sync.Mutex
	memo     map[string][]string
	warned   map[string]struct{}
	warnings []catalog.Warning
}

func NewResolver(ix *catalog.Index) *Resolver {
	return &Resolver{
		ix:     ix,
		memo:   make(map[string][]string),
		warned: make(map[string]struct{}),
	}
}

// CloseOver returns the winner followed by every resolvable dependency
// entry, sorted by identifier for reproducible output. Missing references
// are recorded as warnings and omitted; reference cycles are broken by the
// visited set.
func (r *Resolver) CloseOver(m *catalog.MachineEntry) []*catalog.MachineEntry {
	r.mu.Lock()
	depIDs, ok := r.memo[m.ID]
	r.mu.Unlock()

	if !ok {
		var missing []catalog.Warning
		depIDs, missing = r.compute(m)

		r.mu.Lock()
		if prior, raced := r.memo[m.ID]; raced {
			depIDs = prior
		} else {
			r.memo[m.ID] = depIDs
			for _, w := range missing {
				key := w.Machine + "\x00" + w.Ref
				if _, seen := r.warned[key]; !seen {
					r.warned[key] = struct{}{}
					r.warnings = append(r.warnings, w)
				}
			}
		}
		r.mu.Unlock()
	}

	out := make([]*catalog.MachineEntry, 0, len(depIDs)+1)
	out = append(out, m)
	for _, id := range depIDs {
		if dep, ok := r.ix.Lookup(id); ok {
			out = append(out, dep)
		}
	}
	return out
}

// compute does the breadth-first expansion over declared references.
// Visited entries are tracked by catalog ordinal in a bitmap, so a
// malformed cyclic device graph terminates instead of looping.
func (r *Resolver) compute(m *catalog.MachineEntry) (deps []string, missing []catalog.Warning) {
	visited := roaring.New()
	if ord, ok := r.ix.Ordinal(m.ID); ok {
		visited.Add(ord)
	}

	queue := []*catalog.MachineEntry{m}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		refs, parent := declaredRefs(cur)
		if parent != "" {
			// The parent set itself is self-contained under the non-merged
			// convention, but its BIOS chain and devices still apply to the
			// clone. Walk through the parent without emitting it.
			p, ok := r.ix.Lookup(parent)
			if !ok {
				missing = append(missing, catalog.Warning{
					Kind:    catalog.WarnMissingDependency,
					Machine: cur.ID,
					Ref:     parent,
				})
			} else if ord, _ := r.ix.Ordinal(p.ID); !visited.Contains(ord) {
				visited.Add(ord)
				queue = append(queue, p)
			}
		}

		for _, ref := range refs {
			dep, ok := r.ix.Lookup(ref)
			if !ok {
				missing = append(missing, catalog.Warning{
					Kind:    catalog.WarnMissingDependency,
					Machine: cur.ID,
					Ref:     ref,
				})
				continue
			}
			ord, _ := r.ix.Ordinal(dep.ID)
			if visited.Contains(ord) {
				continue
			}
			visited.Add(ord)
			deps = append(deps, dep.ID)
			queue = append(queue, dep)
		}
	}

	sort.Strings(deps)
	return deps, missing
}

// declaredRefs lists the dependency references of one entry: its device
// references plus the BIOS chain. A clone's romof usually just names the
// parent set (cloneof == romof); that parent carries no extra files of its
// own, but the BIOS the family needs is declared on the parent, so the
// parent is returned separately as a pass-through to scan rather than a
// dependency to emit.
func declaredRefs(m *catalog.MachineEntry) (refs []string, viaParent string) {
	if m.ROMOf == "" {
		return m.DeviceRefs, ""
	}
	if m.ROMOf == m.CloneOf {
		return m.DeviceRefs, m.ROMOf
	}
	refs = make([]string, 0, len(m.DeviceRefs)+1)
	refs = append(refs, m.DeviceRefs...)
	refs = append(refs, m.ROMOf)
	return refs, ""
}

// Warnings returns the accumulated missing-dependency warnings, one per
// declaring machine and reference, in discovery order.
func (r *Resolver) Warnings() []catalog.Warning {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]catalog.Warning, len(r.warnings))
	copy(out, r.warnings)
	return out
}
