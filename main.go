// Package main implements the main entry point for the working memory snapshot decoder
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/retroenv/memsnap/internal/cli"
	"github.com/retroenv/memsnap/internal/config"
	"github.com/retroenv/memsnap/internal/fileprocessor"
	"github.com/retroenv/memsnap/internal/options"
	"github.com/retroenv/retrogolib/log"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts, err := cli.ParseFlags()
	if err != nil {
		logger := config.CreateLogger(opts.Debug, opts.Quiet)
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			fileprocessor.PrintBanner(logger, opts, version, commit, date)
			usageErr.ShowUsage()
			if usageErr.Error() != "" {
				logger.Error("Invalid arguments", err)
			}
			stop()
			os.Exit(1)
		}
		stop()
		logger.Fatal(err.Error())
	}

	logger := config.CreateLogger(opts.Debug, opts.Quiet)
	fileprocessor.PrintBanner(logger, opts, version, commit, date)

	if err := run(ctx, logger, opts); err != nil {
		// Handle context cancellation (Ctrl+C) gracefully
		if errors.Is(err, context.Canceled) {
			logger.Info("Operation cancelled")
			return
		}
		logger.Error("Decoding failed", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *log.Logger, opts options.Program) error {
	if opts.Live() {
		return fileprocessor.ProcessLive(ctx, logger, opts)
	}

	files, err := fileprocessor.GetFilesToProcess(&opts)
	if err != nil {
		return err
	}
	return fileprocessor.ProcessFiles(ctx, logger, opts, files)
}
