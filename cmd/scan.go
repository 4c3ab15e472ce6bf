package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentic-research/romsort/internal/catalog"
)

// scanCmd discovers the region and language tokens actually present in a
// catalog, so a front end can offer real preference lists instead of a
// hardcoded menu.
var scanCmd = &cobra.Command{
	Use:   "scan [catalog]",
	Short: "List the regions and languages found in a catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ix, err := catalog.Load(args[0])
		if err != nil {
			return err
		}
		regions, languages := catalog.ScanLocales(ix)
		fmt.Printf("Scanned %d entries.\n", ix.Len())
		fmt.Printf("Regions (%d): %s\n", len(regions), strings.Join(regions, ", "))
		fmt.Printf("Languages (%d): %s\n", len(languages), strings.Join(languages, ", "))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
}
