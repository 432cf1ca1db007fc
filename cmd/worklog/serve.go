// Package main is the entry point for the worklog application.
// This file contains the serve subcommand handler.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"worklog/internal/web"
)

// serveHelpText is the help message for the serve subcommand.
const serveHelpText = `worklog serve - Start the web dashboard

USAGE:
    worklog serve [OPTIONS]

OPTIONS:
    -l, --listen ADDR  Listen address (overrides config)
    -h, --help         Show this help message

DESCRIPTION:
    Serves the worklog web dashboard: project groups with totals, goal
    progress and pace, timers, per-project task lists, and downloadable
    reports. The listen address comes from the config file and defaults
    to 127.0.0.1:8484.

EXAMPLES:
    # Serve on the configured address
    worklog serve

    # Serve on a different port
    worklog serve --listen 127.0.0.1:9000
`

// runServe handles the "worklog serve" subcommand.
func runServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)

	listenFlag := fs.String("listen", "", "listen address (overrides config)")
	fs.StringVar(listenFlag, "l", "", "listen address (shorthand)")

	helpFlag := fs.Bool("help", false, "show help message")
	fs.BoolVar(helpFlag, "h", false, "show help message (shorthand)")

	fs.Usage = func() {
		fmt.Fprint(os.Stderr, serveHelpText)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *helpFlag {
		fmt.Print(serveHelpText)
		os.Exit(0)
	}

	cfg, store := openStorage()
	gitSync := setupSync(cfg, store)

	listen := cfg.Listen
	if *listenFlag != "" {
		listen = *listenFlag
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	srv, err := web.NewServer(store, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing server: %v\n", err)
		os.Exit(1)
	}

	httpSrv := &http.Server{
		Addr:              listen,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSrv.ListenAndServe()
	}()

	logger.Info("worklog listening", "addr", "http://"+listen)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
	}

	// Flush any pending git commits before exit
	if gitSync != nil {
		gitSync.Flush()
	}
}
