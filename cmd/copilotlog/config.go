package main

import (
	"github.com/spf13/cobra"

	"github.com/hejijunhao/copilotlog/internal/config"
	"github.com/hejijunhao/copilotlog/internal/output/file"
)

// loadConfig resolves configuration once, letting persistent flags override
// the file and environment.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return config.Config{}, err
	}
	if cmd.Flags().Changed("storage-dir") {
		cfg.StorageDir = storageDir
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	return cfg, nil
}

func logPath(cfg config.Config) string {
	return file.LogPath(cfg.StorageDir)
}
