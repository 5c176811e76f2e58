package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nctirs/nctirs-stack/cli/internal/config"
	"github.com/nctirs/nctirs-stack/cli/pkg/output"
)

var (
	cfgFile      string
	profileName  string
	outputFormat string
	cfg          *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "nctirs",
	Short: "NCTIRS threat telemetry CLI",
	Long: `nctirs is the command-line interface for the NCTIRS telemetry stack.

Generate synthetic threat telemetry offline, seed OpenSearch with alerts
for dashboard development, and follow the live alert stream from NATS.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		output.Error("%v", err)
	}
	return err
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.nctirs/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&profileName, "profile", "", "profile to use (default: current profile)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format: table, json, yaml")
}

func initConfig() {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not load config: %v\n", err)
		cfg = config.Default()
	}
}

func activeProfile() (*config.Profile, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	return cfg.GetProfile(profileName)
}
