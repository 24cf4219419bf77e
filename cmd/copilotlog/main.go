package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile    string
	storageDir string
	logLevel   string
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "copilotlog",
		Short: "Record likely AI completions from editor change events",
		Long: `copilotlog watches document edits and appends every insertion longer than
20 characters, or spanning several lines, to copilot-log.txt in its storage
directory.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: <user config dir>/copilotlog/config.yaml)")
	root.PersistentFlags().StringVar(&storageDir, "storage-dir", "", "directory holding copilot-log.txt")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "diagnostic log level: debug, info, warn, error")

	root.AddCommand(watchCmd())
	root.AddCommand(openCmd())
	root.AddCommand(showCmd())
	root.AddCommand(classifyCmd())
	root.AddCommand(pathCmd())
	return root
}
