package main

import (
	"github.com/spf13/cobra"

	"github.com/yangpin97/cisco-client-portal/tool"
	"github.com/yangpin97/cisco-client-portal/types"
)

// flags shared by every command
var cliConfig types.Config

var rootCmd = &cobra.Command{
	Use:          "portal",
	Short:        "Client download portal",
	Long:         "portal serves the client download page and the admin API that edits it.",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		tool.InitLogger()
		tool.SetLogMode(cliConfig.Log)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cliConfig.UseConfigPath, "config", "", "config file path (default ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&cliConfig.Log, "log", "", "log mode: dev|prod|none")
	rootCmd.PersistentFlags().StringVar(&cliConfig.UseDataPath, "data", "", "override document path")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(passwdCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config file and applies the flags given on the command line.
func loadConfig() (types.AppConfig, error) {
	cfg, err := tool.LoadConfig(cliConfig.UseConfigPath)
	if err != nil {
		return cfg, err
	}
	if cliConfig.UsePort > 0 {
		cfg.Port = cliConfig.UsePort
	}
	if cliConfig.UseDataPath != "" {
		cfg.DataPath = cliConfig.UseDataPath
	}
	if cliConfig.UseSeedPath != "" {
		cfg.SeedPath = cliConfig.UseSeedPath
	}
	if cliConfig.UsePublicDir != "" {
		cfg.PublicDir = cliConfig.UsePublicDir
	}
	if cliConfig.UseMetricsPort > 0 {
		cfg.MetricsPort = cliConfig.UseMetricsPort
	}
	return cfg, nil
}
