// Package preset persists FilterConfig snapshots as HCL files, so a front
// end can round-trip every recognized option losslessly between runs.
package preset

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/hashicorp/hcl/v2/hclwrite"

	"github.com/agentic-research/romsort/api"
)

// presetFile is the HCL-shaped mirror of api.FilterConfig. Enumerations
// travel as their string spellings; absent optional attributes fall back
// to the engine defaults on load.
type presetFile struct {
	MinDriverStatus   string   `hcl:"min_driver_status,optional"`
	AllowedCategories []string `hcl:"allowed_categories,optional"`

	Players *boundBlock `hcl:"players,block"`
	Buttons *boundBlock `hcl:"buttons,block"`

	ControlTypes []string `hcl:"control_types,optional"`
	// Pointer for the same reason as PreferParentOverClone below: an
	// omitted attribute keeps the default, an explicit value round-trips
	// as written.
	ControlsDontCare *bool    `hcl:"controls_dont_care,optional"`
	Directions       []string `hcl:"directions,optional"`
	Orientation      string   `hcl:"orientation,optional"`

	IncludeMature     bool `hcl:"include_mature,optional"`
	IncludeBootlegs   bool `hcl:"include_bootlegs,optional"`
	IncludePrototypes bool `hcl:"include_prototypes,optional"`

	RegionOrder   []string `hcl:"region_order,optional"`
	LanguageOrder []string `hcl:"language_order,optional"`

	// Pointer so a hand-written preset that omits the attribute keeps the
	// default (prefer the parent) instead of silently flipping it off.
	PreferParentOverClone        *bool `hcl:"prefer_parent_over_clone,optional"`
	KeepBestAvailableIfImperfect bool  `hcl:"keep_best_available,optional"`
	IncludeSamples               bool  `hcl:"include_samples,optional"`

	TieBreak string `hcl:"tie_break,optional"`
}

type boundBlock struct {
	Min      int  `hcl:"min,optional"`
	Max      int  `hcl:"max,optional"`
	DontCare bool `hcl:"dont_care,optional"`
}

// Save writes the config as an HCL preset. Every field is written
// explicitly, including defaults, so the file documents the full run.
func Save(path string, cfg *api.FilterConfig) error {
	pf := &presetFile{
		MinDriverStatus:              cfg.MinDriverStatus.String(),
		AllowedCategories:            cfg.AllowedCategories,
		Players:                      toBlock(cfg.Players),
		Buttons:                      toBlock(cfg.Buttons),
		ControlTypes:                 cfg.ControlTypes,
		ControlsDontCare:             &cfg.ControlsDontCare,
		Directions:                   cfg.Directions,
		Orientation:                  cfg.Orientation,
		IncludeMature:                cfg.IncludeMature,
		IncludeBootlegs:              cfg.IncludeBootlegs,
		IncludePrototypes:            cfg.IncludePrototypes,
		RegionOrder:                  cfg.RegionOrder,
		LanguageOrder:                cfg.LanguageOrder,
		PreferParentOverClone:        &cfg.PreferParentOverClone,
		KeepBestAvailableIfImperfect: cfg.KeepBestAvailableIfImperfect,
		IncludeSamples:               cfg.IncludeSamples,
		TieBreak:                     string(cfg.TieBreak),
	}

	f := hclwrite.NewEmptyFile()
	gohcl.EncodeIntoBody(pf, f.Body())
	if err := os.WriteFile(path, f.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write preset: %w", err)
	}
	return nil
}

// Load reads a preset and maps it back onto a FilterConfig. The path must
// carry the .hcl extension (hclsimple dispatches on it).
func Load(path string) (*api.FilterConfig, error) {
	var pf presetFile
	if err := hclsimple.DecodeFile(path, nil, &pf); err != nil {
		return nil, fmt.Errorf("load preset %s: %w", path, err)
	}

	cfg := api.DefaultFilterConfig()
	if pf.MinDriverStatus != "" {
		status, err := api.ParseDriverStatus(pf.MinDriverStatus)
		if err != nil {
			return nil, fmt.Errorf("preset %s: %w", path, err)
		}
		cfg.MinDriverStatus = status
	}
	if pf.AllowedCategories != nil {
		cfg.AllowedCategories = pf.AllowedCategories
	}
	if pf.Players != nil {
		cfg.Players = fromBlock(pf.Players)
	}
	if pf.Buttons != nil {
		cfg.Buttons = fromBlock(pf.Buttons)
	}
	cfg.ControlTypes = pf.ControlTypes
	if pf.ControlsDontCare != nil {
		cfg.ControlsDontCare = *pf.ControlsDontCare
	}
	cfg.Directions = pf.Directions
	if pf.Orientation != "" {
		cfg.Orientation = pf.Orientation
	}
	cfg.IncludeMature = pf.IncludeMature
	cfg.IncludeBootlegs = pf.IncludeBootlegs
	cfg.IncludePrototypes = pf.IncludePrototypes
	cfg.RegionOrder = pf.RegionOrder
	cfg.LanguageOrder = pf.LanguageOrder
	if pf.PreferParentOverClone != nil {
		cfg.PreferParentOverClone = *pf.PreferParentOverClone
	}
	cfg.KeepBestAvailableIfImperfect = pf.KeepBestAvailableIfImperfect
	cfg.IncludeSamples = pf.IncludeSamples
	if pf.TieBreak != "" {
		cfg.TieBreak = api.TieBreak(pf.TieBreak)
	}
	return cfg, nil
}

func toBlock(b api.Bound) *boundBlock {
	return &boundBlock{Min: b.Min, Max: b.Max, DontCare: b.DontCare}
}

func fromBlock(b *boundBlock) api.Bound {
	return api.Bound{Min: b.Min, Max: b.Max, DontCare: b.DontCare}
}
