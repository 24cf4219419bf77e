package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hejijunhao/copilotlog/internal/config"
	"github.com/hejijunhao/copilotlog/internal/engine/classifier"
	"github.com/hejijunhao/copilotlog/internal/logging"
	"github.com/hejijunhao/copilotlog/internal/output"
	"github.com/hejijunhao/copilotlog/internal/output/file"
	"github.com/hejijunhao/copilotlog/internal/output/tee"
	"github.com/hejijunhao/copilotlog/internal/output/stdout"
	"github.com/hejijunhao/copilotlog/internal/pipeline"
	"github.com/hejijunhao/copilotlog/internal/source"

	// Register source implementations.
	_ "github.com/hejijunhao/copilotlog/internal/source/fswatch"
	_ "github.com/hejijunhao/copilotlog/internal/source/stream"
)

func watchCmd() *cobra.Command {
	var (
		sources []string
		dir     string
		echo    bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Record likely completions until interrupted",
		Long: `Subscribe to one or more change sources and record qualifying insertions.

Sources:
  stream   newline-delimited JSON notifications on stdin (native or LSP didChange)
  fswatch  files changing under --dir, diffed against their previous contents`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("source") {
				cfg.Sources = sources
			}
			if cmd.Flags().Changed("dir") {
				cfg.WatchDir = dir
			}
			if cmd.Flags().Changed("echo") {
				cfg.Echo = echo
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logging.Init(cfg.Echo, logging.ParseLevel(cfg.LogLevel))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			src, err := buildSource(cfg)
			if err != nil {
				return err
			}

			fl := file.New(cfg.StorageDir)
			var out output.Output = fl
			if cfg.Echo {
				out = tee.New(fl, stdout.NewStdout())
			}

			p := pipeline.New(src, classifier.New(), out)
			defer p.Close()

			slog.Info("copilotlog: watching", "sources", cfg.Sources, "log", fl.Path())
			if err := p.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("watch: %w", err)
			}
			slog.Info("copilotlog: stopped")
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&sources, "source", nil, fmt.Sprintf("change sources to subscribe to %v (default: stream)", source.Providers()))
	cmd.Flags().StringVar(&dir, "dir", "", "root directory for the fswatch source (default: .)")
	cmd.Flags().BoolVar(&echo, "echo", false, "also print recorded insertions to stdout")
	return cmd
}

// buildSource constructs every configured source, merged into one. The
// storage directory is excluded so the log never observes itself.
func buildSource(cfg config.Config) (source.Source, error) {
	scfg := source.Config{
		Reader:  os.Stdin,
		Dir:     cfg.WatchDir,
		Exclude: []string{cfg.StorageDir},
	}
	var srcs []source.Source
	for _, name := range cfg.Sources {
		ctor, err := source.Get(name)
		if err != nil {
			return nil, err
		}
		src, err := ctor(scfg)
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", name, err)
		}
		srcs = append(srcs, src)
	}
	if len(srcs) == 0 {
		return nil, errors.New("no sources configured")
	}
	return source.Merge(srcs...), nil
}
