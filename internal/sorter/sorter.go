// Package sorter orchestrates one sort run: parse the catalog, evaluate
// the filter, resolve families, close over dependencies, emit the plan.
// It owns no resources beyond the in-memory catalog, which is dropped when
// the Result goes out of scope.
package sorter

import (
	"errors"
	"fmt"

	"github.com/RoaringBitmap/roaring"

	"github.com/agentic-research/romsort/api"
	"github.com/agentic-research/romsort/internal/catalog"
	"github.com/agentic-research/romsort/internal/closure"
	"github.com/agentic-research/romsort/internal/family"
	"github.com/agentic-research/romsort/internal/filter"
	"github.com/agentic-research/romsort/internal/plan"
)

// Options are the run inputs that are not filter criteria.
type Options struct {
	CatalogPath string
	// CachePath, when set, names a SQLite snapshot of the parsed catalog.
	// A digest match skips the document parse entirely.
	CachePath string
	// Workers bounds filter-evaluation parallelism; <= 0 means GOMAXPROCS.
	Workers int
}

// Result is everything one run produces. Fatal errors return (nil, err):
// a partial plan is never handed out.
type Result struct {
	Index      *catalog.Index
	Decisions  []filter.Decision
	Admitted   *roaring.Bitmap
	Selections map[string]*family.Selection
	Plan       api.CopyPlan
	Report     *plan.Report
	Warnings   []catalog.Warning
}

// Run executes the full pipeline against one catalog and one config.
// Deterministic: identical inputs yield byte-identical plans and reports.
func Run(opts Options, cfg *api.FilterConfig) (*Result, error) {
	// 1. Load the catalog, through the cache when one is configured.
	ix, err := loadCatalog(opts)
	if err != nil {
		return nil, err
	}

	// 2. Per-entry admit/reject decisions.
	decisions, admitted := filter.EvaluateAll(ix.All(), cfg, opts.Workers)

	// 3. Family grouping and winner selection.
	selections, warnings, err := family.Resolve(ix, decisions, cfg)
	if err != nil {
		return nil, err
	}

	// 4. Dependency closure and plan emission.
	res := closure.NewResolver(ix)
	p := plan.Emit(selections, res, cfg)
	warnings = append(warnings, res.Warnings()...)

	// 5. Diagnostics.
	rep := plan.BuildReport(opts.CatalogPath, ix, decisions, selections, warnings, p)

	return &Result{
		Index:      ix,
		Decisions:  decisions,
		Admitted:   admitted,
		Selections: selections,
		Plan:       p,
		Report:     rep,
		Warnings:   warnings,
	}, nil
}

func loadCatalog(opts Options) (*catalog.Index, error) {
	if opts.CachePath == "" {
		return catalog.Load(opts.CatalogPath)
	}

	digest, err := catalog.SourceDigest(opts.CatalogPath)
	if err != nil {
		return nil, err
	}
	if ix, err := catalog.ReadCache(opts.CachePath, digest); err == nil {
		return ix, nil
	} else if !errors.Is(err, catalog.ErrCacheMiss) {
		return nil, fmt.Errorf("read catalog cache: %w", err)
	}

	ix, err := catalog.Load(opts.CatalogPath)
	if err != nil {
		return nil, err
	}
	// Cache writes are best-effort: a failure only costs the next run a
	// re-parse.
	_ = catalog.WriteCache(opts.CachePath, digest, ix)
	return ix, nil
}
