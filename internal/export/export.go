// Package export writes the site to disk for static hosting.
//
// Pages use a trailing-slash layout: "/" becomes index.html and "/pricing"
// becomes pricing/index.html. The live client is copied to _live/ and a
// robots.txt is written next to the pages. With Relative set, absolute
// paths are rewritten so the output can be served from a subdirectory.
package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabrielmiguelok/livesite/client"
	"github.com/gabrielmiguelok/livesite/internal/website/pages"
	"github.com/gabrielmiguelok/livesite/pkg/logging"
)

// LiveDir is the output directory of the client script.
const LiveDir = "_live"

// ErrNoOutput is returned when no output directory is given.
var ErrNoOutput = errors.New("export: output directory is required")

// Options configures an export.
type Options struct {
	// Dir is the output directory. It is created if missing.
	Dir string
	// Relative rewrites absolute paths after writing.
	Relative bool
	// Disallow lists robots.txt Disallow rules.
	Disallow []string
	// BaseURL is the site origin used to audit links against robots.txt.
	// It defaults to the canonical page URL.
	BaseURL string
	Logger  logging.Logger
}

// Report summarizes an export.
type Report struct {
	// Pages are the files written for pages, relative to Dir.
	Pages []string
	// Fixed is the number of files rewritten by FixPaths.
	Fixed int
	// Findings are internal links that need attention.
	Findings []Finding
}

// Export renders every page of site into opts.Dir.
func Export(ctx context.Context, site *pages.Site, opts Options) (Report, error) {
	var report Report
	if opts.Dir == "" {
		return report, ErrNoOutput
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NopLogger{}
	}

	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return report, fmt.Errorf("create output dir: %w", err)
	}

	for _, path := range site.Paths() {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		doc, err := site.RenderStatic(ctx, path)
		if err != nil {
			return report, fmt.Errorf("render %s: %w", path, err)
		}

		rel := PageFile(path)
		if err := writeFile(filepath.Join(opts.Dir, rel), []byte(doc)); err != nil {
			return report, err
		}
		report.Pages = append(report.Pages, rel)
		logger.Debug("exported page", logging.String("path", path), logging.String("file", rel))
	}

	if err := writeFile(filepath.Join(opts.Dir, LiveDir, client.ScriptName), client.Script()); err != nil {
		return report, err
	}

	robotsTxt := RobotsTxt(opts.Disallow)
	if err := writeFile(filepath.Join(opts.Dir, RobotsFile), []byte(robotsTxt)); err != nil {
		return report, err
	}

	base := opts.BaseURL
	if base == "" {
		base = site.Config().Page.URL
	}
	findings, err := Audit(site, robotsTxt, base)
	if err != nil {
		return report, err
	}
	report.Findings = findings
	for _, f := range findings {
		logger.Warn("link finding",
			logging.String("page", f.Page),
			logging.String("href", f.Href),
			logging.String("problem", f.Problem.String()),
		)
	}

	if opts.Relative {
		n, err := FixPaths(opts.Dir, logger)
		if err != nil {
			return report, err
		}
		report.Fixed = n
	}

	logger.Info("export complete",
		logging.String("dir", opts.Dir),
		logging.Int("pages", len(report.Pages)),
		logging.Int("fixed", report.Fixed),
		logging.Int("findings", len(report.Findings)),
	)
	return report, nil
}

// PageFile maps a page path to its file in the trailing-slash layout.
func PageFile(path string) string {
	path = strings.Trim(pages.Normalize(path), "/")
	if path == "" {
		return "index.html"
	}
	return filepath.Join(filepath.FromSlash(path), "index.html")
}

func writeFile(name string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(name), err)
	}
	if err := os.WriteFile(name, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
