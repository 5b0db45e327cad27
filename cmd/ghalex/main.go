// Entry point for the ghalex acquisition pipeline — scrape campaigns and a
// read-only HTTP API over the stored corpus.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/hazyhaar/ghalex/caselaw"
	"github.com/hazyhaar/ghalex/dbopen"
	_ "modernc.org/sqlite"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	logLevel := env("LOG_LEVEL", "info")
	var lvl slog.Level
	switch logLevel {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "scrape":
		err = runScrape(ctx, os.Args[2:])
	case "serve":
		err = runServe(ctx, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		slog.Error("command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

func runScrape(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("scrape", flag.ExitOnError)
	configPath := fs.String("config", "", "path to YAML config")
	testMode := fs.Bool("test", false, "cap the campaign at the test-mode candidate limit")
	fs.Parse(args)

	svc, db, err := newService(*configPath)
	if err != nil {
		return err
	}
	defer db.Close()

	mode := caselaw.ModeFull
	if *testMode {
		mode = caselaw.ModeTest
	}
	rep, err := svc.RunCampaign(ctx, mode)
	if err != nil {
		// An interrupted run still produced a partial report on disk.
		return err
	}
	slog.Info("campaign report",
		"mode", rep.Mode,
		"discovered", rep.Discovered,
		"stored", rep.Stored,
		"skipped", rep.Skipped,
		"rejected", rep.Rejected,
		"failed", rep.Failed)
	return nil
}

func runServe(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "path to YAML config")
	addr := fs.String("addr", env("ADDR", ":8086"), "listen address")
	fs.Parse(args)

	svc, db, err := newService(*configPath)
	if err != nil {
		return err
	}
	defer db.Close()

	srv := &http.Server{
		Addr:              *addr,
		Handler:           svc.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("api listening", "addr", *addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func newService(configPath string) (*caselaw.Service, *sql.DB, error) {
	cfg, err := caselaw.LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	// Schema is applied by caselaw.New.
	db, err := dbopen.Open(filepath.Join(cfg.DataDir, "cases.db"), dbopen.WithMkdirAll())
	if err != nil {
		return nil, nil, err
	}
	svc, err := caselaw.New(cfg, db, slog.Default())
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return svc, db, nil
}

func usage() {
	fmt.Fprintf(os.Stderr, `usage: ghalex <command> [flags]

commands:
  scrape   run an acquisition campaign (-test, -config)
  serve    serve the read-only API over the stored corpus (-addr, -config)
`)
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
