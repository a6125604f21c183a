package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/drasla/my-own-accountbook/internal/api"
	"github.com/drasla/my-own-accountbook/internal/investment"
	"github.com/drasla/my-own-accountbook/internal/ledger"
	"github.com/drasla/my-own-accountbook/internal/report"
	"github.com/drasla/my-own-accountbook/pkg/db"
)

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the account book HTTP API",
	Long: `Run the HTTP API server.

The server initializes the SQLite schema on startup and exposes every
ledger, investment and reporting operation under /api/v1.

Example:
  accountbook serve
  PORT=9000 accountbook serve`,
	Run: runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	exitOnError(err, "failed to load configuration")

	conn, err := db.Open(cfg.DBPath)
	exitOnError(err, "failed to open database")
	defer func() {
		if err := conn.Close(); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	exitOnError(db.InitializeSchema(conn), "failed to initialize schema")
	slog.Info("database initialized", "db_path", cfg.DBPath)

	seeds, err := cfg.LoadCategorySeeds()
	exitOnError(err, "failed to load category seeds")

	ledgerEngine := ledger.NewEngine(conn, seeds)
	investEngine := investment.NewEngine(conn)
	reports := report.NewService(conn)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      api.NewRouter(conn, ledgerEngine, investEngine, reports),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}
	slog.Info("server stopped")
}
