package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hejijunhao/copilotlog/internal/engine/classifier"
	"github.com/hejijunhao/copilotlog/internal/viewer"
)

func openCmd() *cobra.Command {
	var viewerCmd string

	cmd := &cobra.Command{
		Use:   "open",
		Short: "Open the log file in an editor",
		Long: `Open copilot-log.txt with --viewer, $COPILOTLOG_VIEWER, $VISUAL, $EDITOR or the
platform's default application, in that order. The file is not required to exist.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("viewer") {
				cfg.Viewer = viewerCmd
			}
			return viewer.OpenLog(cmd.Context(), viewer.Command{Viewer: cfg.Viewer}, logPath(cfg))
		},
	}
	cmd.Flags().StringVar(&viewerCmd, "viewer", "", "command used to open the log, e.g. \"code --wait\"")
	return cmd
}

func showCmd() *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the log to the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			err = viewer.RenderFile(out, logPath(cfg), !noColor && !color.NoColor)
			if errors.Is(err, fs.ErrNotExist) {
				yellow := color.New(color.FgYellow).SprintFunc()
				fmt.Fprintf(out, "%s No records yet (%s)\n", yellow("!"), logPath(cfg))
				return nil
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
	return cmd
}

func classifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify [TEXT...]",
		Short: "Report whether an insertion would be recorded",
		Long: `Report whether TEXT, or stdin when no arguments are given, would be recorded.
Arguments are joined with single spaces.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if len(args) == 0 {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				text = string(data)
			}

			out := cmd.OutOrStdout()
			if classifier.Classify(text) {
				green := color.New(color.FgGreen).SprintFunc()
				fmt.Fprintf(out, "%s likely completion\n", green("✓"))
			} else {
				fmt.Fprintln(out, "- ordinary edit")
			}
			return nil
		},
	}
}

func pathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the log file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), logPath(cfg))
			return nil
		},
	}
}

