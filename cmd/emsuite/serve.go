package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/gotrs-io/emsuite/internal/refapp"
	"github.com/gotrs-io/emsuite/internal/testdata"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the contract stub of the employee manager",
	Long: `Serve starts an in-memory rendition of the employee manager with the same
pages, form ids and validation messages. Point base_url at it to run the
browser suite without a deployment.`,
	RunE: runServe,
}

var (
	addrFlag        string
	seedFlag        bool
	seedFixtureFlag bool
)

func init() {
	serveCmd.Flags().StringVar(&addrFlag, "addr", ":8000", "Listen address")
	serveCmd.Flags().BoolVar(&seedFlag, "seed", true, "Create the default departments on start")
	serveCmd.Flags().BoolVar(&seedFixtureFlag, "seed-fixtures", false, "Seed from the fixture files in fixtures.dir instead")
}

func runServe(cmd *cobra.Command, args []string) error {
	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	opts := refapp.Options{Seed: seedFlag || seedFixtureFlag, Logger: log}
	if seedFixtureFlag {
		opts.Fixtures = &testdata.Fixtures{Dir: cfg.Fixtures.Dir}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithField("addr", addrFlag).Info("starting contract stub")
	return refapp.Serve(ctx, addrFlag, opts)
}
