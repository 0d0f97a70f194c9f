package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/notesexport/pkg/cli"
	"mercator-hq/notesexport/pkg/config"
)

// defaultConfigFile is read when it exists; it is not an error if it does not.
const defaultConfigFile = "notesexport.yaml"

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "notesexport",
	Short: "notesexport - encrypted notes export server",
	Long: `notesexport accepts client-encrypted note bundles over HTTP and stores each
one as a timestamped JSON file. After every upload, exports from past days are
pruned so that a single bundle per day remains.

Configuration is read from a YAML file (default: notesexport.yaml, optional)
and NOTESEXPORT_* environment variables. PORT overrides the listen port.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", defaultConfigFile, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig loads the configuration for cmd. An explicitly passed --config
// must exist; the default path is optional.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if cmd.Flags().Changed("config") {
		cfg, err = config.LoadConfigWithEnvOverrides(cfgFile)
	} else {
		cfg, err = config.LoadOptional(cfgFile)
	}
	if err != nil {
		return nil, cli.WrapConfigError(err)
	}
	return cfg, nil
}
