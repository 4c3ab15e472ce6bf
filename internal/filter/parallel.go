package filter

import (
	"runtime"
	"sync"

	"github.com/RoaringBitmap/roaring"

	"github.com/agentic-research/romsort/api"
	"github.com/agentic-research/romsort/internal/catalog"
)

// EvaluateAll evaluates every entry, fanning the work out over workers.
// Each worker owns a disjoint slice of the decision array, so there is no
// shared mutable state until the join. The returned bitmap holds the
// ordinal positions of admitted entries and is built serially after the
// join; its contents depend only on the inputs, never on scheduling.
func EvaluateAll(entries []*catalog.MachineEntry, cfg *api.FilterConfig, workers int) ([]Decision, *roaring.Bitmap) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(entries) {
		workers = len(entries)
	}

	decisions := make([]Decision, len(entries))
	if workers <= 1 {
		for i, m := range entries {
			decisions[i] = Evaluate(m, cfg)
		}
	} else {
		var wg sync.WaitGroup
		chunk := (len(entries) + workers - 1) / workers
		for start := 0; start < len(entries); start += chunk {
			end := start + chunk
			if end > len(entries) {
				end = len(entries)
			}
			wg.Add(1)
			go func(lo, hi int) {
				defer wg.Done()
				for i := lo; i < hi; i++ {
					decisions[i] = Evaluate(entries[i], cfg)
				}
			}(start, end)
		}
		wg.Wait()
	}

	admitted := roaring.New()
	for i, d := range decisions {
		if d.Admit {
			admitted.Add(uint32(i))
		}
	}
	return decisions, admitted
}
