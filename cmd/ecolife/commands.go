package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/ecolife/inventory/internal/adapter/handler"
	"github.com/ecolife/inventory/internal/app"
	"github.com/ecolife/inventory/internal/config"
	"github.com/ecolife/inventory/internal/logging"
)

// setup merges flags over the environment and configures logging. Logs go to
// stderr so they never interleave with the menu on stdout.
func setup(c *cli.Context, defaultLevel string) (config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, zerolog.Nop(), err
	}
	if v := c.String("backend"); v != "" {
		cfg.Backend = v
	}
	if v := c.String("db"); v != "" {
		cfg.SQLitePath = v
	}
	if v := c.String("log-level"); v != "" {
		cfg.LogLevel = v
	}
	if v := c.String("log-format"); v != "" {
		cfg.LogFormat = v
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLevel
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return config.Config{}, zerolog.Nop(), err
	}

	logger, err := logging.Setup(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return config.Config{}, zerolog.Nop(), err
	}
	return cfg, logger, nil
}

// withConsole opens the inventory, runs fn against a console on stdio, and
// closes everything afterwards.
func withConsole(c *cli.Context, fn func(ctx context.Context, console *handler.Console) error) error {
	cfg, logger, err := setup(c, "warn")
	if err != nil {
		return cli.Exit(err, 2)
	}

	ctx := c.Context
	inventory, closeInventory, err := app.OpenInventory(ctx, cfg, logger)
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer closeInventory()

	if err := fn(ctx, handler.NewConsole(inventory, os.Stdin, os.Stdout)); err != nil {
		return cli.Exit(err, 1)
	}
	return nil
}

func shell(c *cli.Context) error {
	return withConsole(c, func(ctx context.Context, console *handler.Console) error {
		return console.Run(ctx)
	})
}

func add(c *cli.Context) error {
	if c.NArg() != 4 {
		return cli.Exit("usage: ecolife add ID NAME QUANTITY PRICE", 2)
	}
	args := c.Args()
	return withConsole(c, func(ctx context.Context, console *handler.Console) error {
		return console.Add(ctx, args.Get(0), args.Get(1), args.Get(2), args.Get(3))
	})
}

func remove(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: ecolife remove ID", 2)
	}
	return withConsole(c, func(ctx context.Context, console *handler.Console) error {
		return console.Remove(ctx, c.Args().First())
	})
}

func update(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: ecolife update ID [--quantity N] [--price P]", 2)
	}
	return withConsole(c, func(ctx context.Context, console *handler.Console) error {
		return console.Update(ctx, c.Args().First(), c.String("quantity"), c.String("price"))
	})
}

func search(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: ecolife search TEXT", 2)
	}
	return withConsole(c, func(ctx context.Context, console *handler.Console) error {
		return console.Search(c.Args().First())
	})
}

func list(c *cli.Context) error {
	return withConsole(c, func(ctx context.Context, console *handler.Console) error {
		return console.List()
	})
}

func serve(c *cli.Context) error {
	cfg, logger, err := setup(c, "info")
	if err != nil {
		return cli.Exit(err, 2)
	}
	if v := c.String("addr"); v != "" {
		cfg.HTTPAddr = v
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	inventory, closeInventory, err := app.OpenInventory(ctx, cfg, logger)
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer closeInventory()

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: handler.NewHTTPHandler(inventory, logger).Router(),
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return cli.Exit(errors.Wrap(err, "http server"), 1)
		}
	case <-ctx.Done():
		logger.Info().Msg("shutting down...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("HTTP server shutdown")
	}
	logger.Info().Msg("HTTP server stopped")
	return nil
}
