package commands

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/teranos/ancestry/am"
	"github.com/teranos/ancestry/display"
	"github.com/teranos/ancestry/errors"
	"github.com/teranos/ancestry/sym"
)

// AmCmd represents the am (configuration) command
var AmCmd = &cobra.Command{
	Use:   "am",
	Short: sym.AM + " Manage ancestry configuration",
	Long: sym.AM + ` am - Manage ancestry configuration ("I am")

Display and manage ancestry configuration settings.

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (ANCESTRY_* prefix)
3. Project config (./am.toml, searched upward)
4. User config (~/.ancestry/am.toml)
5. System config (/etc/ancestry/config.toml)
6. Default values

Examples:
  ancestry am show                    # Show current configuration
  ancestry am show --format json      # Show configuration in JSON format
  ancestry am get lineage.max_depth   # Get specific config value
  ancestry am validate                # Validate current configuration
  ancestry am sources                 # Where each setting came from
  ancestry am init                    # Write ./am.toml with defaults`,
}

var amShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  "Display the current ancestry configuration from all sources",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := LoadConfig(cmd)
		if err != nil {
			return errors.Wrap(err, "failed to load config")
		}
		return runAmShow(cmd.OutOrStdout(), cfg, configFormat)
	},
}

var amGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a specific configuration value",
	Long:  "Get a specific configuration value using dot notation (e.g., database.path, lineage.max_depth)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]

		// Check if key exists in configuration
		v := am.GetViper()
		if !v.IsSet(key) {
			return errors.NewNotFoundError("configuration key %q", key)
		}

		fmt.Fprintln(cmd.OutOrStdout(), am.Get(key))
		return nil
	},
}

var amValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate current configuration",
	Long:  "Validate that the current ancestry configuration is valid",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := LoadConfig(cmd)
		if err != nil {
			return errors.Wrap(err, "failed to load config")
		}
		if err := cfg.Validate(); err != nil {
			return errors.Wrap(err, "configuration validation failed")
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration is valid")
		return nil
	},
}

var amSourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Show where each setting is loaded from",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings := am.Introspect()
		if display.ShouldOutputJSON(cmd) {
			return display.OutputJSON(cmd.OutOrStdout(), settings)
		}

		rows := make([][]string, 0, len(settings))
		for _, s := range settings {
			rows = append(rows, []string{s.Key, fmt.Sprint(s.Value), string(s.Source), s.SourcePath})
		}
		return display.Table(cmd.OutOrStdout(), []string{"Key", "Value", "Source", "From"}, rows)
	},
}

var amInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a configuration file with default values",
	Long: `Write the built-in defaults to path (default ./am.toml).
An existing file is rotated to .back1 first.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "am.toml"
		if len(args) == 1 {
			path = args[0]
		}
		return runAmInit(cmd.OutOrStdout(), path)
	},
}

var configFormat string

func init() {
	// Add flags
	amShowCmd.Flags().StringVar(&configFormat, "format", am.FormatTOML, "Output format: toml, json, yaml")

	// Add subcommands
	AmCmd.AddCommand(amShowCmd)
	AmCmd.AddCommand(amGetCmd)
	AmCmd.AddCommand(amValidateCmd)
	AmCmd.AddCommand(amSourcesCmd)
	AmCmd.AddCommand(amInitCmd)
}

func runAmShow(w io.Writer, cfg *am.Config, format string) error {
	if format != am.FormatJSON {
		fmt.Fprintln(w, "# ancestry configuration")
	}
	return am.Encode(w, cfg, format)
}

func runAmInit(w io.Writer, path string) error {
	if err := am.WriteDefault(path); err != nil {
		return err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	fmt.Fprintf(w, "✓ Wrote %s\n", abs)
	return nil
}
