package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/drasla/my-own-accountbook/internal/ledger"
	"github.com/drasla/my-own-accountbook/pkg/db"
)

var reconcileUser string

// reconcileCmd represents the reconcile command.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Repair the daily rollup series from the raw entries",
	Long: `Recompute the daily closing-balance series from the recorded
entries and repair any row that drifted, e.g. after an account was
deleted together with its history.

Example:
  accountbook reconcile --user <id>`,
	Run: runReconcile,
}

func init() {
	reconcileCmd.Flags().StringVar(&reconcileUser, "user", "", "user ID (required)")
	reconcileCmd.MarkFlagRequired("user")
}

func runReconcile(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	exitOnError(err, "failed to load configuration")

	conn, err := db.Open(cfg.DBPath)
	exitOnError(err, "failed to open database")
	defer conn.Close()

	seeds, err := cfg.LoadCategorySeeds()
	exitOnError(err, "failed to load category seeds")

	repaired, err := ledger.NewEngine(conn, seeds).Reconcile(context.Background(), reconcileUser)
	exitOnError(err, "failed to reconcile")

	slog.Info("reconcile finished", "repaired_rows", repaired)
	fmt.Printf("Repaired %d rollup rows\n", repaired)
}
