// Command livesite serves and exports a config-driven marketing site.
package main

import (
	"os"

	"github.com/gabrielmiguelok/livesite/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
