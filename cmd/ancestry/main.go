package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teranos/ancestry/cmd/ancestry/commands"
	"github.com/teranos/ancestry/errors"
	"github.com/teranos/ancestry/logger"
	"github.com/teranos/ancestry/sym"
)

var rootCmd = &cobra.Command{
	Use:   "ancestry",
	Short: "ancestry - Reconstruct ancestor lineages from population records",
	Long: `ancestry - Reconstruct ancestor lineages from population records.

Load a population of individuals (identifier, father, mother, sex, birth
year, birth place), pick one or more individuals, and extract all of their
recorded ancestors, optionally cut by generation depth or birth year.

Available commands:
` + sym.Summary() + `
Examples:
  ancestry lineage build --csv pop.csv --ind probands.txt --out lineages.csv
  ancestry lineage depth --csv pop.csv 12
  ancestry ix ged family.ged pop.csv
  ancestry am show`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")

		// A broken config must not stop 'am validate' from reporting it
		jsonLogs := false
		if cfg, err := commands.LoadConfig(cmd); err == nil {
			jsonLogs = cfg.Log.JSON
		}

		if err := logger.InitializeWithVerbosity(jsonLogs, verbosity); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	// Add global flags
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().Bool("json", false, "Output results as JSON")
	rootCmd.PersistentFlags().String("config", "", "Configuration file (overrides the am.toml cascade)")

	// Add commands
	rootCmd.AddCommand(commands.AmCmd)
	rootCmd.AddCommand(commands.LineageCmd)
	rootCmd.AddCommand(commands.IxCmd)
	rootCmd.AddCommand(commands.DbCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		for _, hint := range errors.GetAllHints(err) {
			fmt.Fprintln(os.Stderr, "Hint:", hint)
		}
		stop()
		os.Exit(1)
	}
}
