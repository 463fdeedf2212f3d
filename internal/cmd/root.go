// Package cmd implements the cachehits command line interface.
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/djdv/go-cachehits/internal/trace"
)

const stdinName = "-"

// NewRootCommand returns the cachehits command and its subcommands.
func NewRootCommand() *cobra.Command {
	var logLevel string
	root := &cobra.Command{
		Use:   "cachehits",
		Short: "Exact hit counts for cache replacement policies",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level, err := logrus.ParseLevel(logLevel)
			if err != nil {
				return fmt.Errorf("invalid log level: %s", logLevel)
			}
			logrus.SetLevel(level)
			logrus.SetOutput(cmd.ErrOrStderr())
			return nil
		},
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&logLevel, "log", "warn",
		"Log level (trace, debug, info, warn, error, fatal, panic)")
	root.AddCommand(
		newRunCommand(),
		newGenerateCommand(),
		newVerifyCommand(),
		newCompareCommand(),
	)
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// readTest decodes the test named by args,
// or standard input if there is none.
func readTest(cmd *cobra.Command, args []string) (trace.Test, error) {
	if len(args) == 0 || args[0] == stdinName {
		logrus.Debug("reading test from standard input")
		return decodeFrom(cmd.InOrStdin())
	}
	file, err := trace.Open(args[0])
	if err != nil {
		return trace.Test{}, err
	}
	defer file.Close()
	logrus.Debugf("reading test from %s", args[0])
	return decodeFrom(file)
}

func decodeFrom(r io.Reader) (trace.Test, error) {
	test, err := trace.Decode(r)
	if err != nil {
		return trace.Test{}, fmt.Errorf("read test: %w", err)
	}
	return test, nil
}
