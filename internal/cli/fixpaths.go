package cli

import (
	"github.com/spf13/cobra"

	"github.com/gabrielmiguelok/livesite/internal/export"
)

var fixpathsCmd = &cobra.Command{
	Use:   "fixpaths [dir]",
	Short: "Rewrite absolute paths in an exported site to relative ones",
	Long: `Rewrites src and href attributes that start with a single "/" to "./"
in HTML files, and quoted "/_live/" prefixes in HTML, JS and CSS files.
Use it on an export that will be served from a subdirectory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFixpaths,
}

func init() {
	rootCmd.AddCommand(fixpathsCmd)
}

func runFixpaths(cmd *cobra.Command, args []string) error {
	dir := "out"
	if len(args) > 0 {
		dir = args[0]
	}

	cmd.Printf("Fixing absolute paths in %s\n", dir)
	n, err := export.FixPaths(dir, nil)
	if err != nil {
		return err
	}
	cmd.Printf("Fixed %d files\n", n)
	return nil
}
