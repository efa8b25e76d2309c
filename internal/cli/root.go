package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/PabloGalante/mandalart-agent/internal/observability"
)

var (
	configPath string
	forceMock  bool
	logLevel   string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mandalart",
	Short: "Generate and refine 9x9 mandalart goal plans",
	Long: `mandalart turns one main goal into a 9x9 mandalart plan: 8 sub-goals with
8 concrete actions each, generated by Gemini (or an offline mock).

Plans are stored as JSON documents that can be regenerated block by block,
validated, and printed as a grid.`,
	Version: "dev",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// logs go to stderr so stdout stays machine-readable
		level := logLevel
		if level == "" {
			level = os.Getenv("MANDALART_LOG_LEVEL")
		}
		if level == "" {
			level = "warn"
		}
		observability.Init(os.Stderr, level)
	},
}

// Execute runs the root command. Errors are printed by the printer package.
func Execute() error {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (default $MANDALART_CONFIG_FILE)")
	rootCmd.PersistentFlags().BoolVar(&forceMock, "mock", false, "Use the offline mock generator instead of Gemini")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default warn)")
}
