package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentic-research/romsort/api"
	"github.com/agentic-research/romsort/internal/preset"
)

var presetCmd = &cobra.Command{
	Use:   "preset",
	Short: "Manage filter presets",
}

var presetInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a preset with the default criteria, ready to edit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(args[0]); err == nil {
			return fmt.Errorf("%s already exists", args[0])
		}
		if err := preset.Save(args[0], api.DefaultFilterConfig()); err != nil {
			return err
		}
		fmt.Printf("Preset written to %s\n", args[0])
		return nil
	},
}

var presetShowCmd = &cobra.Command{
	Use:   "show [path]",
	Short: "Parse a preset and print the effective criteria",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := preset.Load(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("min driver status:  %s\n", cfg.MinDriverStatus)
		fmt.Printf("allowed categories: %v\n", cfg.AllowedCategories)
		fmt.Printf("players:            %s\n", boundString(cfg.Players))
		fmt.Printf("buttons:            %s\n", boundString(cfg.Buttons))
		fmt.Printf("control types:      %v (don't care: %v)\n", cfg.ControlTypes, cfg.ControlsDontCare)
		fmt.Printf("directions:         %v\n", cfg.Directions)
		fmt.Printf("orientation:        %s\n", cfg.Orientation)
		fmt.Printf("mature/bootlegs/prototypes: %v/%v/%v\n",
			cfg.IncludeMature, cfg.IncludeBootlegs, cfg.IncludePrototypes)
		fmt.Printf("region order:       %v\n", cfg.RegionOrder)
		fmt.Printf("language order:     %v\n", cfg.LanguageOrder)
		fmt.Printf("prefer parent:      %v\n", cfg.PreferParentOverClone)
		fmt.Printf("keep best:          %v\n", cfg.KeepBestAvailableIfImperfect)
		fmt.Printf("include samples:    %v\n", cfg.IncludeSamples)
		fmt.Printf("tie-break:          %s\n", cfg.TieBreak)
		return nil
	},
}

func boundString(b api.Bound) string {
	if b.DontCare {
		return "any"
	}
	return fmt.Sprintf("%d..%d", b.Min, b.Max)
}

func init() {
	presetCmd.AddCommand(presetInitCmd)
	presetCmd.AddCommand(presetShowCmd)
	rootCmd.AddCommand(presetCmd)
}
