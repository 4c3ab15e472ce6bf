// Package cmd wires the engine to the command line. All user-facing text
// lives here; the engine packages only return structured values.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"github.com/agentic-research/romsort/api"
	"github.com/agentic-research/romsort/internal/copier"
	"github.com/agentic-research/romsort/internal/preset"
	"github.com/agentic-research/romsort/internal/sorter"
)

var (
	archiveDir string
	outputDir  string
	presetPath string
	cachePath  string
	reportPath string
	dryRun     bool
	workers    int

	flagMinStatus   string
	flagCategories  []string
	flagMaxPlayers  int
	flagMaxButtons  int
	flagControls    []string
	flagDirections  []string
	flagOrientation string
	flagRegions     []string
	flagLanguages   []string
	flagMature      bool
	flagBootlegs    bool
	flagPrototypes  bool
	flagSamples     bool
	flagKeepBest    bool
	flagCloneFirst  bool
	flagTieBreak    string
)

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&archiveDir, "archive", "a", ".", "Path to the non-merged set (machine directories, plus samples/)")
	f.StringVarP(&outputDir, "out", "o", "filtered_set", "Output directory for the curated set")
	f.StringVarP(&presetPath, "preset", "p", "", "Preset file (.hcl) with filter criteria")
	f.StringVar(&cachePath, "cache", "", "SQLite catalog cache (skips re-parsing unchanged catalogs)")
	f.StringVar(&reportPath, "report", "filter_report.yaml", "Diagnostics report path (written into the output dir)")
	f.BoolVar(&dryRun, "dry-run", false, "Emit the plan and report without copying anything")
	f.IntVar(&workers, "workers", 0, "Filter evaluation workers (0 = all CPUs)")

	f.StringVar(&flagMinStatus, "min-status", "", "Minimum driver status: working, partial, any")
	f.StringSliceVar(&flagCategories, "categories", nil, "Allowed category tags")
	f.IntVar(&flagMaxPlayers, "max-players", 0, "Maximum simultaneous players")
	f.IntVar(&flagMaxButtons, "max-buttons", 0, "Maximum action buttons per player")
	f.StringSliceVar(&flagControls, "controls", nil, "Required control types")
	f.StringSliceVar(&flagDirections, "directions", nil, "Acceptable joystick directions")
	f.StringVar(&flagOrientation, "orientation", "", "Screen orientation: horizontal, vertical, both")
	f.StringSliceVar(&flagRegions, "regions", nil, "Preferred regions, best first")
	f.StringSliceVar(&flagLanguages, "languages", nil, "Preferred languages, best first")
	f.BoolVar(&flagMature, "include-mature", false, "Include mature titles")
	f.BoolVar(&flagBootlegs, "include-bootlegs", false, "Include bootlegs and hacks")
	f.BoolVar(&flagPrototypes, "include-prototypes", false, "Include prototypes and demos")
	f.BoolVar(&flagSamples, "include-samples", false, "Copy sample sets as well")
	f.BoolVar(&flagKeepBest, "keep-best", false, "Keep a family's best candidate even if its driver is imperfect")
	f.BoolVar(&flagCloneFirst, "no-parent-preference", false, "Rank clones against parents instead of preferring the parent")
	f.StringVar(&flagTieBreak, "tie-break", "", "Winner tie-break: missing-deps-first or name-first")
}

var rootCmd = &cobra.Command{
	Use:   "romsort [catalog]",
	Short: "Curate an arcade ROM archive down to a playable subset",
	Long: `romsort reads a machine-metadata catalog (full.xml or a JSON export),
selects the best representative per game family under your filter
criteria, resolves BIOS/device/sample dependencies, and copies the
resulting files into a plug-and-play output set.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := buildConfig(cmd)
		if err != nil {
			return err
		}

		fmt.Printf("Parsing catalog %s...\n", args[0])
		result, err := sorter.Run(sorter.Options{
			CatalogPath: args[0],
			CachePath:   cachePath,
			Workers:     workers,
		}, cfg)
		if err != nil {
			return err
		}

		fmt.Printf("Catalog: %d entries, %d admitted, %d families, %d winners.\n",
			result.Index.Len(), result.Admitted.GetCardinality(),
			len(result.Selections), result.Report.Winners)
		fmt.Printf("Plan: %d copy operations, %d warnings.\n",
			len(result.Plan), len(result.Warnings))

		if err := writeReport(result); err != nil {
			return err
		}
		if dryRun {
			fmt.Println("Dry run: nothing copied.")
			return nil
		}

		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		c := copier.New(osfs.New(archiveDir), osfs.New(outputDir))
		stats, err := c.Execute(result.Plan)
		if err != nil {
			return err
		}
		fmt.Printf("Copy complete: %d files copied, %d missing from the archive.\n",
			stats.Copied, len(stats.Skipped))
		return nil
	},
}

func writeReport(result *sorter.Result) error {
	if reportPath == "" {
		return nil
	}
	path := reportPath
	if !filepath.IsAbs(path) {
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		path = filepath.Join(outputDir, path)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer func() { _ = f.Close() }()
	if err := result.Report.EncodeYAML(f); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	fmt.Printf("Report written to %s\n", path)
	return nil
}

// buildConfig starts from the preset (or defaults) and layers explicitly
// set flags on top, so a preset and a one-off override compose.
func buildConfig(cmd *cobra.Command) (*api.FilterConfig, error) {
	cfg := api.DefaultFilterConfig()
	if presetPath != "" {
		loaded, err := preset.Load(presetPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	f := cmd.Flags()
	if f.Changed("min-status") {
		status, err := api.ParseDriverStatus(flagMinStatus)
		if err != nil {
			return nil, err
		}
		cfg.MinDriverStatus = status
	}
	if f.Changed("categories") {
		cfg.AllowedCategories = flagCategories
	}
	if f.Changed("max-players") {
		cfg.Players = api.Bound{Max: flagMaxPlayers}
	}
	if f.Changed("max-buttons") {
		cfg.Buttons = api.Bound{Max: flagMaxButtons}
	}
	if f.Changed("controls") {
		cfg.ControlTypes = flagControls
		cfg.ControlsDontCare = len(flagControls) == 0
	}
	if f.Changed("directions") {
		cfg.Directions = flagDirections
	}
	if f.Changed("orientation") {
		cfg.Orientation = flagOrientation
	}
	if f.Changed("regions") {
		cfg.RegionOrder = flagRegions
	}
	if f.Changed("languages") {
		cfg.LanguageOrder = flagLanguages
	}
	if f.Changed("include-mature") {
		cfg.IncludeMature = flagMature
	}
	if f.Changed("include-bootlegs") {
		cfg.IncludeBootlegs = flagBootlegs
	}
	if f.Changed("include-prototypes") {
		cfg.IncludePrototypes = flagPrototypes
	}
	if f.Changed("include-samples") {
		cfg.IncludeSamples = flagSamples
	}
	if f.Changed("keep-best") {
		cfg.KeepBestAvailableIfImperfect = flagKeepBest
	}
	if f.Changed("no-parent-preference") {
		cfg.PreferParentOverClone = !flagCloneFirst
	}
	if f.Changed("tie-break") {
		switch api.TieBreak(flagTieBreak) {
		case api.TieBreakMissingDepsFirst, api.TieBreakNameFirst:
			cfg.TieBreak = api.TieBreak(flagTieBreak)
		default:
			return nil, fmt.Errorf("unknown tie-break %q", flagTieBreak)
		}
	}
	return cfg, nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
