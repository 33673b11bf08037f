package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/niclasedge/fast-teuxdeux/internal/api"
	"github.com/niclasedge/fast-teuxdeux/internal/auth"
	"github.com/niclasedge/fast-teuxdeux/internal/cli"
	"github.com/niclasedge/fast-teuxdeux/internal/config"
	"github.com/niclasedge/fast-teuxdeux/internal/logging"
	"github.com/niclasedge/fast-teuxdeux/internal/store/jsonstore"
	"github.com/niclasedge/fast-teuxdeux/internal/tui"
	"github.com/niclasedge/fast-teuxdeux/internal/ui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:])
	stop()
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}

func run(ctx context.Context, args []string) int {
	// Root flags (apply to every subcommand)
	fs := flag.NewFlagSet("teuxdeux", flag.ContinueOnError)
	fs.Usage = func() { cli.PrintHelp(os.Stderr) }
	cfg, rest, err := config.Load(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		ui.Fail(os.Stderr, "config: "+err.Error())
		return 2
	}
	ui.SetTheme(cfg.Theme, cfg.NoColor)

	logger := logging.Stderr(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if cfg.File != "" {
		logger.Debug("config loaded", "file", cfg.File)
	}

	store, err := auth.DefaultStore()
	if err != nil {
		ui.Fail(os.Stderr, "auth: "+err.Error())
		return 1
	}
	token := resolveToken(cfg, store, logger)

	client, err := newClient(cfg, token, logger)
	if err != nil {
		ui.Fail(os.Stderr, err.Error())
		return 2
	}

	// Hand the remaining args to the CLI runner.
	return cli.Run(ctx, rest, cli.Options{
		Backend: client,
		Auth:    store,
		Config:  cfg,
		Logger:  logger,
		TUI: func(ctx context.Context) error {
			return runBoard(ctx, cfg, token)
		},
	})
}

// resolveToken prefers the configured token and falls back to the
// credentials file.
func resolveToken(cfg *config.Config, store *auth.Store, logger *log.Logger) string {
	if cfg.Token != "" {
		return cfg.Token
	}
	ti, err := store.Get()
	if err != nil {
		if !errors.Is(err, auth.ErrNoToken) {
			logger.Warn("reading credentials", "err", err)
		}
		return ""
	}
	if ti.Expired(time.Now()) {
		logger.Warn("stored token has expired, run `teuxdeux auth login`", "expired", ti.ExpiresAt)
	}
	return ti.Token
}

func newClient(cfg *config.Config, token string, logger *log.Logger) (*api.Client, error) {
	return api.New(cfg.APIURL,
		api.WithToken(token),
		api.WithLogger(logger),
		api.WithTimeout(cfg.Timeout()),
		api.WithStrictSchema(cfg.StrictSchema),
	)
}

// runBoard starts the TUI. It owns the terminal, so its logs go to a file.
func runBoard(ctx context.Context, cfg *config.Config, token string) error {
	logger, closer, err := logging.File(cfg.LogFile, logging.Options{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		Timestamps: true,
	})
	if err != nil {
		return err
	}
	defer closer.Close()

	client, err := newClient(cfg, token, logger)
	if err != nil {
		return err
	}
	logger.Info("board starting", "api", client.BaseURL())
	return tui.Run(ctx, tui.Options{
		Backend: client,
		State:   jsonstore.New(cfg.StateFile),
		Logger:  logger,
		Flash:   cfg.FlashDuration(),
	})
}
