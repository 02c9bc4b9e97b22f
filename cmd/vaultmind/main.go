package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"vaultmind/internal/config"
	"vaultmind/internal/http"
	"vaultmind/internal/mcp"
)

// Set via ldflags at build time
var version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	rootCmd := &cobra.Command{
		Use:           "vaultmind",
		Short:         "Vault intelligence and persistent memory for markdown notes",
		Long:          "Analyzes a markdown vault (similar notes, duplicates, missing links, health) and keeps a persistent store of insights.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd(), mcpCmd(), statusCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func loadApp(logTo *os.File) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	setupLogging(cfg, logTo)
	return newApp(cfg)
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(os.Stdout)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := &nethttp.Server{
				Addr:              ":" + a.cfg.APIPort,
				Handler:           http.NewRouter(&http.Deps{Engine: a.engine, Metrics: a.metrics}),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				slog.Info("Starting API server", "addr", srv.Addr, "capabilities", a.engine.Capabilities())
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, nethttp.ErrServerClosed) {
					return nil
				}
				return fmt.Errorf("API server failed: %w", err)
			case <-ctx.Done():
			}

			slog.Info("Shutting down API server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}

func mcpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run as an MCP server over stdio",
		Long:  "Start a Model Context Protocol server on stdin/stdout so MCP clients can call the vault and memory tools.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(os.Stderr)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return mcp.NewServer(a.engine, version).Run(ctx)
		},
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print enabled capabilities and component health",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(os.Stderr)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			report := a.engine.Status(cmd.Context())
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}
			if !report.Healthy {
				return errors.New("one or more components are unavailable")
			}
			return nil
		},
	}
}
