package main

import (
	"fmt"
	"os"

	"github.com/gotrs-io/emsuite/internal/config"
	"github.com/gotrs-io/emsuite/internal/logging"
	"github.com/gotrs-io/emsuite/internal/version"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	configFileFlag string
	logLevelFlag   string

	cfg *config.Config
	log *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "emsuite",
	Short: "Browser test tooling for the employee manager",
	Long: `emsuite drives the employee and department screens of the employee manager
through a real browser. The test scenarios live under tests/e2e and run with
go test; this CLI covers the chores around them: serving the contract stub,
checking that a target is reachable and preparing fixture files.`,
	Version:       version.String(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configFileFlag)
		if err != nil {
			return err
		}
		if logLevelFlag != "" {
			loaded.Logging.Level = logLevelFlag
		}
		cfg = loaded
		log = logging.New(cfg.Logging)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "emsuite %s\n", version.Full())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFileFlag, "config", "", "Config file (default: emsuite.yaml in . or ./config)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(fixturesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
