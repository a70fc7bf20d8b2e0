// Command ydb runs the YDB Wellness site and its maintenance tasks.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ydbwellness/ydb"
)

// version is set at build time via ldflags.
var version = "dev"

var configPath string

var rootCmd = &cobra.Command{
	Use:           "ydb",
	Short:         "YDB Wellness site server",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the ydb version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "ydb %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "ydb.yaml", "path to the YAML config file")
	rootCmd.AddCommand(serveCmd, seedCmd, userCmd, versionCmd)
}

// setup loads the config and builds the logger shared by every command.
func setup() (ydb.SiteConfig, *zap.Logger, error) {
	cfg, err := ydb.LoadConfig(configPath)
	if err != nil {
		return ydb.SiteConfig{}, nil, err
	}
	log, err := ydb.NewLogger(cfg.LogLevel, cfg.Dev)
	if err != nil {
		return ydb.SiteConfig{}, nil, err
	}
	return cfg, log, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
