package cli

import (
	"github.com/spf13/cobra"

	"github.com/gabrielmiguelok/livesite/internal/export"
	"github.com/gabrielmiguelok/livesite/internal/website/pages"
)

var (
	exportOut      string
	exportRelative bool
	exportBaseURL  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the site as static files",
	Long: `Renders every page into the output directory using a trailing-slash
layout, copies the live client and writes robots.txt. Internal links that
robots.txt blocks or that point at no page are reported.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "out", "output directory")
	exportCmd.Flags().BoolVar(&exportRelative, "relative", false, "rewrite absolute paths to relative ones")
	exportCmd.Flags().StringVar(&exportBaseURL, "base-url", "", "site origin for the link audit (default site.page.url)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	site, err := pages.New(cfg.Site, pages.Deps{Classifier: cfg.Classifier(), Logger: cfg.Logger()})
	if err != nil {
		return err
	}

	report, err := export.Export(cmd.Context(), site, export.Options{
		Dir:      exportOut,
		Relative: exportRelative,
		Disallow: cfg.Robots.Disallow,
		BaseURL:  exportBaseURL,
		Logger:   cfg.Logger(),
	})
	if err != nil {
		return err
	}

	cmd.Printf("Exported %d pages to %s\n", len(report.Pages), exportOut)
	for _, p := range report.Pages {
		cmd.Printf("  %s\n", p)
	}
	if exportRelative {
		cmd.Printf("Fixed %d files\n", report.Fixed)
	}
	if len(report.Findings) > 0 {
		cmd.Printf("%d link findings:\n", len(report.Findings))
		for _, f := range report.Findings {
			cmd.Printf("  %s: %s (%s)\n", f.Page, f.Href, f.Problem)
		}
	}
	return nil
}
