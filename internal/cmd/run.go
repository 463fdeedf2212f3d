package cmd

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/djdv/go-cachehits"
)

type runOptions struct {
	policy    string
	countTime bool
	verbose   bool
}

func newRunCommand() *cobra.Command {
	var options runOptions
	run := &cobra.Command{
		Use:   "run [file]",
		Short: "Print the hit count of a policy for one test",
		Long: "Reads a test (capacity, length, then the keys) from file," +
			" or standard input when file is absent or \"-\"," +
			" and prints the number of hits.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTest(cmd, args, &options)
		},
	}
	flags := run.Flags()
	flags.StringVar(&options.policy, "policy", string(cachehits.PolicyOptimal),
		fmt.Sprintf("Replacement policy %v", cachehits.Policies()))
	flags.BoolVarP(&options.countTime, "count-time", "t", false,
		"Print the time spent simulating")
	flags.BoolVarP(&options.verbose, "verbose", "v", false,
		"Also print the optimal hit count")
	return run
}

func runTest(cmd *cobra.Command, args []string, options *runOptions) error {
	policy := cachehits.Policy(options.policy)
	simulator, err := cachehits.Lookup(policy)
	if err != nil {
		return err
	}
	test, err := readTest(cmd, args)
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"policy":   policy,
		"capacity": test.Capacity,
		"length":   len(test.Accesses),
	}).Info("simulating")
	hits, elapsed, err := timedSimulate(simulator, test.Accesses, test.Capacity)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if options.countTime {
		fmt.Fprintf(out, "Time elapsed for %s: %s\n", policy, elapsed)
	}
	if !options.verbose {
		fmt.Fprintln(out, hits)
		return nil
	}
	bound, boundElapsed, err := timedSimulate(cachehits.Optimal{}, test.Accesses, test.Capacity)
	if err != nil {
		return err
	}
	if options.countTime {
		fmt.Fprintf(out, "Time elapsed for %s: %s\n", cachehits.PolicyOptimal, boundElapsed)
	}
	fmt.Fprintf(out, "%s hits: %d\nMaximum possible hits: %d\n", policy, hits, bound)
	return nil
}

func timedSimulate(simulator cachehits.Simulator, accesses []cachehits.Key, capacity int) (int, time.Duration, error) {
	start := time.Now()
	hits, err := simulator.Simulate(accesses, capacity)
	return hits, time.Since(start), err
}
