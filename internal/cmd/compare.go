package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/djdv/go-cachehits"
	"github.com/djdv/go-cachehits/internal/report"
)

type compareOptions struct {
	policies   []string
	capacities []int
	chart      string
	title      string
}

func newCompareCommand() *cobra.Command {
	var options compareOptions
	compare := &cobra.Command{
		Use:   "compare [file]",
		Short: "Compare policies over one access sequence at several capacities",
		Long: "Reads a test like run does and prints a table of hits per policy and capacity." +
			" The capacity of the test is used when no capacities are given.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return compareTest(cmd, args, &options)
		},
	}
	names := make([]string, 0, len(cachehits.Policies()))
	for _, policy := range cachehits.Policies() {
		names = append(names, string(policy))
	}
	flags := compare.Flags()
	flags.StringSliceVar(&options.policies, "policies", names,
		"Comma-separated policies to compare")
	flags.IntSliceVar(&options.capacities, "capacities", nil,
		"Comma-separated capacities to simulate")
	flags.StringVar(&options.chart, "chart", "",
		"Also write an HTML line chart to this path")
	flags.StringVar(&options.title, "title", "",
		"Chart title (defaults to the input name)")
	return compare
}

func compareTest(cmd *cobra.Command, args []string, options *compareOptions) error {
	test, err := readTest(cmd, args)
	if err != nil {
		return err
	}
	capacities := options.capacities
	if len(capacities) == 0 {
		capacities = []int{test.Capacity}
	}
	if len(options.policies) == 0 {
		return fmt.Errorf("%w: no policies given", cachehits.ErrUnknownPolicy)
	}
	policies := make([]cachehits.Policy, len(options.policies))
	for i, name := range options.policies {
		policies[i] = cachehits.Policy(strings.TrimSpace(name))
	}
	table, err := report.Compare(cmd.Context(), test.Accesses, policies, capacities)
	if err != nil {
		return err
	}
	logrus.Info("All simulations are complete")
	if err := report.Table(cmd.OutOrStdout(), table); err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if options.chart == "" {
		return nil
	}
	return writeChart(options.chart, chartTitle(options.title, args), table)
}

func chartTitle(title string, args []string) string {
	switch {
	case title != "":
		return title
	case len(args) == 0 || args[0] == stdinName:
		return "stdin"
	default:
		return filepath.Base(args[0])
	}
}

func writeChart(path, title string, table [][]report.Result) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart: %w", err)
	}
	defer func() {
		if cErr := file.Close(); cErr != nil && err == nil {
			err = fmt.Errorf("close chart: %w", cErr)
		}
	}()
	if err := report.Chart(file, title, table); err != nil {
		return err
	}
	logrus.Infof("chart written to %s", path)
	return nil
}
