// Package cli is the livesite command tree.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/gabrielmiguelok/livesite/internal/config"
)

// version is set at build time with -ldflags "-X ...cli.version=...".
var version = "dev"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "livesite",
	Short: "Serve and export a config-driven marketing site",
	Long: `livesite renders a marketing site from a TOML file.

serve runs a live server that routes clicks, theme toggles and form
submissions over a WebSocket. export writes the same pages to disk for
static hosting.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"config file (default "+config.DefaultPath+" if present)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the config named by --config.
func loadConfig() (*config.Config, error) {
	return config.Load(configPath)
}
