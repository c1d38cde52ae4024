// Package cli holds the start-up code shared by the commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackvalmadre/dataset-tools/config"
	"github.com/jackvalmadre/dataset-tools/report"
)

// Setup loads the configuration file, if any, and installs a text logger
// on stderr at the configured level. Verbose selects debug.
func Setup(configPath string, verbose bool) (*config.Config, *slog.Logger) {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	level := cfg.Level()
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return cfg, logger
}

// Context is cancelled on SIGINT or SIGTERM.
func Context() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// Exit reports err and exits. A configuration problem exits with status 2,
// any other failure with 1.
func Exit(log *slog.Logger, err error) {
	var cerr *report.ConfigError
	if errors.As(err, &cerr) {
		log.Error(cerr.Msg)
		os.Exit(2)
	}
	log.Error("failed", "err", err)
	os.Exit(1)
}

// Check prints every per-record failure to stderr and exits with status 1
// if there was any.
func Check(errs *report.Errors) {
	if errs.Len() == 0 {
		return
	}
	fmt.Fprintln(os.Stderr, errs.Error())
	os.Exit(1)
}
