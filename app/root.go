// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"

	"github.com/fabricstock/fabricstock/internal/config"
	"github.com/fabricstock/fabricstock/internal/logger"
)

var (
	configPath string // directory holding main.toml

	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "fabricstock",
	Short: "FabricStock tracks fabric rolls for a belt factory",
	Long: `FabricStock is a web application that records received fabric rolls,
labels them with QR codes and controls who may do what through roles
and per-account capabilities.`,
	Args:          cobra.OnlyValidArgs,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./etc/", "directory holding main.toml")
}

// loadConfig reads the configuration and initializes logging.
func loadConfig(_ *cobra.Command, _ []string) error {
	var err error

	if cfg, err = config.ReadConfig(configPath); err != nil {
		return err
	}

	return logger.Init(cfg.Log)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
