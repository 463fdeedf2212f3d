package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/djdv/go-cachehits/internal/config"
	"github.com/djdv/go-cachehits/internal/generate"
)

func newGenerateCommand() *cobra.Command {
	var configPath string
	command := &cobra.Command{
		Use:   "generate",
		Short: "Generate tests and their answers from a configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			manifest, err := generate.Generate(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(),
				"generated %d tests in %s (seed %d)\n",
				len(manifest.Cases), cfg.OutputPath, manifest.Seed)
			return nil
		},
	}
	command.Flags().StringVar(&configPath, "config", "config.json",
		"Path to configuration file (.json, .yaml or .toml)")
	return command
}

func newVerifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "verify dir",
		Short: "Recompute the answers of a generated directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mismatches, err := generate.Verify(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, mismatch := range mismatches {
				fmt.Fprintln(out, mismatch)
			}
			if len(mismatches) != 0 {
				return fmt.Errorf("%d cases do not match their answers", len(mismatches))
			}
			fmt.Fprintln(out, "all answers match")
			return nil
		},
	}
}
