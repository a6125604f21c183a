package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/drasla/my-own-accountbook/internal/dateutil"
	"github.com/drasla/my-own-accountbook/internal/models"
	"github.com/drasla/my-own-accountbook/internal/report"
	"github.com/drasla/my-own-accountbook/pkg/db"
)

var (
	statsUser  string
	statsYear  int
	statsMonth int
)

// statsCmd represents the stats command.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Display monthly category statistics",
	Long: `Display one month's expense breakdown by category, largest first,
with each category's share of the total.

Example:
  accountbook stats --user <id> --year 2026 --month 8`,
	Run: runStats,
}

func init() {
	now := time.Now().In(dateutil.Seoul)
	statsCmd.Flags().StringVar(&statsUser, "user", "", "user ID (required)")
	statsCmd.Flags().IntVar(&statsYear, "year", now.Year(), "year")
	statsCmd.Flags().IntVar(&statsMonth, "month", int(now.Month()), "month (1-12)")
	statsCmd.MarkFlagRequired("user")
}

func runStats(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	exitOnError(err, "failed to load configuration")

	conn, err := db.Open(cfg.DBPath)
	exitOnError(err, "failed to open database")
	defer conn.Close()

	stats, err := report.NewService(conn).MonthlyCategoryStats(statsUser, statsYear, statsMonth, models.TxExpense)
	exitOnError(err, "failed to compute statistics")

	fmt.Printf("\n=== %d-%02d Expense by Category ===\n", statsYear, statsMonth)
	if len(stats) == 0 {
		fmt.Println("(no categorized expenses)")
		return
	}

	var total int64
	for _, s := range stats {
		total += s.Amount
	}
	for _, s := range stats {
		fmt.Printf("%-12s %12d won  %3d entries  %6s%%\n",
			s.CategoryName, s.Amount, s.Count, s.Percentage.String())
	}
	fmt.Printf("%-12s %12d won\n", "TOTAL", total)
	fmt.Println()
}
