package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gabrielmiguelok/livesite/internal/server"
	"github.com/gabrielmiguelok/livesite/pkg/logging"
)

var (
	serveAddr  string
	serveWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the live site server",
	Long: `Serves every configured page and the live client. Runs until
interrupted, then shuts down gracefully. With --watch the site is rebuilt
whenever the config file changes.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "listen address (overrides server.address)")
	serveCmd.Flags().BoolVarP(&serveWatch, "watch", "w", false, "reload the site when the config file changes")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Address = serveAddr
	}

	logger := cfg.Logger()
	logging.SetDefault(logger)

	opts := []server.Option{server.WithLogger(logger), server.WithVersion(version)}
	if serveWatch {
		if configPath == "" {
			return fmt.Errorf("--watch needs --config")
		}
		opts = append(opts, server.WithWatch(configPath))
	}

	srv, err := server.New(cfg, opts...)
	if err != nil {
		return err
	}
	return srv.Run(cmd.Context())
}
