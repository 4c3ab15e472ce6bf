package family

import (
	"strings"

	"github.com/agentic-research/romsort/api"
	"github.com/agentic-research/romsort/internal/catalog"
)

// outranks reports whether a should win over b. Keys, in order:
// driver status (better first), region then language preference when the
// config carries preference lists, then the configurable tail: either
// fewest missing dependencies then smallest identifier (default), or the
// identifier directly. The final identifier key makes the order total, so
// the winner never depends on map iteration or scheduling.
func outranks(a, b *catalog.MachineEntry, ix *catalog.Index, cfg *api.FilterConfig) bool {
	if a.Status != b.Status {
		return a.Status > b.Status
	}
	if len(cfg.RegionOrder) > 0 {
		ra, rb := preferenceScore(a, cfg.RegionOrder), preferenceScore(b, cfg.RegionOrder)
		if ra != rb {
			return ra < rb
		}
	}
	if len(cfg.LanguageOrder) > 0 {
		la, lb := preferenceScore(a, cfg.LanguageOrder), preferenceScore(b, cfg.LanguageOrder)
		if la != lb {
			return la < lb
		}
	}
	if cfg.TieBreak != api.TieBreakNameFirst {
		ma, mb := missingDeps(a, ix), missingDeps(b, ix)
		if ma != mb {
			return ma < mb
		}
	}
	return a.ID < b.ID
}

// preferenceScore is the position of the first matching preference token
// in the entry's identifier and description; entries matching nothing sort
// after every match.
func preferenceScore(m *catalog.MachineEntry, order []string) int {
	text := strings.ToLower(m.ID + " " + m.Description)
	for i, token := range order {
		if strings.Contains(text, strings.ToLower(strings.TrimSpace(token))) {
			return i
		}
	}
	return len(order) + 1
}

// missingDeps is the cheap pre-check used by the tie-break: how many of the
// entry's declared references resolve to nothing. The full closure is not
// needed here, only a comparable count.
func missingDeps(m *catalog.MachineEntry, ix *catalog.Index) int {
	missing := 0
	for _, ref := range m.DeviceRefs {
		if _, ok := ix.Lookup(ref); !ok {
			missing++
		}
	}
	if m.ROMOf != "" && m.ROMOf != m.CloneOf {
		if _, ok := ix.Lookup(m.ROMOf); !ok {
			missing++
		}
	}
	return missing
}
