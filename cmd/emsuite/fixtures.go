package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/gotrs-io/emsuite/internal/models"
	"github.com/gotrs-io/emsuite/internal/testdata"
	"github.com/spf13/cobra"
)

var fixturesCmd = &cobra.Command{
	Use:   "fixtures",
	Short: "Load the fixture files and print a summary",
	RunE:  runFixtures,
}

var (
	fixturesDirFlag   string
	fixturesWatchFlag bool
)

func init() {
	fixturesCmd.Flags().StringVar(&fixturesDirFlag, "dir", "", "Fixture directory (default: fixtures.dir)")
	fixturesCmd.Flags().BoolVar(&fixturesWatchFlag, "watch", false, "Print the summary again whenever a fixture file changes")
}

func runFixtures(cmd *cobra.Command, args []string) error {
	dir := fixturesDirFlag
	if dir == "" {
		dir = cfg.Fixtures.Dir
	}
	w := cmd.OutOrStdout()
	if !fixturesWatchFlag {
		return summarizeFixtures(w, dir)
	}
	if err := summarizeFixtures(w, dir); err != nil {
		log.WithError(err).Warn("fixtures invalid")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	log.WithField("dir", dir).Info("watching fixtures")
	return testdata.Watch(ctx, dir, 300*time.Millisecond, func(path string) {
		log.WithField("file", path).Info("fixture changed")
		if err := summarizeFixtures(w, dir); err != nil {
			log.WithError(err).Warn("fixtures invalid")
		}
	})
}

func summarizeFixtures(w io.Writer, dir string) error {
	f := &testdata.Fixtures{Dir: dir}

	deptTable, err := f.Table("departments")
	if err != nil {
		return fmt.Errorf("failed to load departments: %w", err)
	}
	empTable, err := f.Table("employees")
	if err != nil {
		return fmt.Errorf("failed to load employees: %w", err)
	}
	depts := testdata.Departments(deptTable.Records)
	emps, err := testdata.Employees(empTable.Records)
	if err != nil {
		return fmt.Errorf("failed to load employees: %w", err)
	}

	known := map[string]bool{}
	for _, d := range depts {
		known[d.Name] = true
	}
	perDept := map[string]int{}
	perStatus := map[models.Status]int{}
	var unknown []string
	for _, e := range emps {
		perDept[e.Department]++
		perStatus[e.Status]++
		if e.Department != "" && !known[e.Department] {
			unknown = append(unknown, fmt.Sprintf("%s (%s)", e.Name, e.Department))
		}
	}

	fmt.Fprintf(w, "📁 %s: %d departments, %d employees\n", dir, len(depts), len(emps))
	fmt.Fprintf(w, "   departments columns: %s\n", strings.Join(deptTable.Columns, ", "))
	fmt.Fprintf(w, "   employees columns:   %s\n", strings.Join(empTable.Columns, ", "))
	names := make([]string, 0, len(depts))
	for _, d := range depts {
		names = append(names, d.Name)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(w, "   %-28s %d\n", n, perDept[n])
	}
	for _, s := range models.Statuses {
		fmt.Fprintf(w, "   %-28s %d\n", s, perStatus[s])
	}
	if len(unknown) > 0 {
		fmt.Fprintf(w, "⚠️  %d employees reference departments missing from the fixture:\n", len(unknown))
		for _, u := range unknown {
			fmt.Fprintf(w, "   %s\n", u)
		}
	}
	return nil
}
