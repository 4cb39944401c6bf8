package main

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/gotrs-io/emsuite/internal/config"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that the target application answers",
	Long: `Check probes base_url and, when it does not answer, the usual local
addresses (127.0.0.1 and localhost on 8000 and 8080). A candidate counts only
when /employees/ serves the employee list. It exits non-zero when nothing does.`,
	RunE: runCheck,
}

var baseURLFlag string

var (
	okColor   = color.New(color.FgGreen)
	failColor = color.New(color.FgRed)
	hintColor = color.New(color.Faint)
)

func init() {
	checkCmd.Flags().StringVar(&baseURLFlag, "base-url", "", "Override base_url from config")
}

func runCheck(cmd *cobra.Command, args []string) error {
	target := cfg.BaseURL
	if baseURLFlag != "" {
		target = baseURLFlag
	}
	timeout := cfg.Timeouts.Probe
	if timeout < 2*time.Second {
		timeout = 2 * time.Second
	}

	ctx := context.Background()
	w := cmd.OutOrStdout()
	for i, candidate := range config.Candidates(target) {
		res := config.Probe(ctx, candidate, timeout)
		if !res.Reachable {
			failColor.Fprintf(w, "❌ %s: %v\n", candidate, res.Err)
			continue
		}
		if err := config.VerifyApp(ctx, candidate, timeout); err != nil {
			failColor.Fprintf(w, "❌ %s answered but %v\n", candidate, err)
			continue
		}
		okColor.Fprintf(w, "✅ %s answered %d on %s in %s\n", candidate, res.StatusCode, res.Path, res.Elapsed.Round(time.Millisecond))
		if i > 0 {
			hintColor.Fprintf(w, "   configured %s is down; set EMSUITE_BASE_URL=%s\n", target, candidate)
		}
		return nil
	}
	hintColor.Fprintln(w, "   run 'emsuite serve' to start the contract stub")
	return fmt.Errorf("no reachable application for %s", target)
}
