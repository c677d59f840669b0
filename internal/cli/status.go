package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/sparfuchs-app/sparfuchs/internal/app/finance"
	"github.com/sparfuchs-app/sparfuchs/internal/app/xp"
	"github.com/sparfuchs-app/sparfuchs/internal/daemon"
	"github.com/sparfuchs-app/sparfuchs/internal/domain"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the financial summary and XP progress",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	income, err := d.Store.ListIncome()
	if err != nil {
		return err
	}
	expenses, err := d.Store.ListExpenses()
	if err != nil {
		return err
	}
	budgets, err := d.Store.ListBudgets()
	if err != nil {
		return err
	}

	summary := finance.Summarize(domain.Snapshot{
		Income:   income,
		Expenses: expenses,
		Budgets:  budgets,
	})

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Income\t%.2f %s\n", summary.TotalIncome, d.Config.Profile.Currency)
	fmt.Fprintf(w, "Fixed expenses\t%.2f %s\n", summary.TotalFixedExpenses, d.Config.Profile.Currency)
	fmt.Fprintf(w, "Variable expenses\t%.2f %s\n", summary.TotalVariableExpenses, d.Config.Profile.Currency)
	fmt.Fprintf(w, "Monthly budget\t%.2f %s\n", summary.MonthlyBudget, d.Config.Profile.Currency)
	fmt.Fprintf(w, "Balance\t%.2f %s\n", summary.Balance, d.Config.Profile.Currency)
	fmt.Fprintf(w, "Savings rate\t%.1f%%\n", summary.SavingsRate)
	if err := w.Flush(); err != nil {
		return err
	}

	progress := d.Engine.Progress()
	if progress == nil {
		return nil
	}
	cfg, err := d.Engine.Config()
	if err != nil {
		return err
	}
	level := xp.ResolveLevelByXP(cfg.Levels, progress.XPTotal)

	fmt.Println()
	if level != nil {
		fmt.Printf("Level %d %s %s — %d XP (%.0f%% to next)\n",
			level.LevelNumber, level.Emoji, level.Name,
			progress.XPTotal, xp.ProgressPct(cfg.Levels, progress.XPTotal))
	}
	fmt.Printf("Streak: %d days (longest %d)\n", progress.CurrentStreak, progress.LongestStreak)
	if !progress.LastLoginAt.IsZero() {
		fmt.Printf("Last login: %s\n", progress.LastLoginAt.Format(time.DateOnly))
	}
	return nil
}
