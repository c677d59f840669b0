package cli

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/sparfuchs-app/sparfuchs/internal/app/xp"
	"github.com/sparfuchs-app/sparfuchs/internal/daemon"
	"github.com/sparfuchs-app/sparfuchs/internal/domain"
)

var (
	txCategory string
	txIcon     string
)

func init() {
	txAddCmd.Flags().StringVar(&txCategory, "category", "Sonstiges", "spending category")
	txAddCmd.Flags().StringVar(&txIcon, "icon", "💳", "emoji shown next to the entry")
	txCmd.AddCommand(txAddCmd, txListCmd)
	rootCmd.AddCommand(txCmd)
}

var txCmd = &cobra.Command{
	Use:   "tx",
	Short: "Manage transactions",
}

var txAddCmd = &cobra.Command{
	Use:   "add <name> <amount>",
	Short: "Record a transaction (negative amount = expense)",
	Args:  cobra.ExactArgs(2),
	RunE:  runTxAdd,
}

var txListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded transactions",
	RunE:  runTxList,
}

func runTxAdd(cmd *cobra.Command, args []string) error {
	amount, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("parse amount %q: %w", args[1], err)
	}

	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	now := time.Now()
	created := d.Ledger.Add(domain.Transaction{
		Name:       args[0],
		Category:   txCategory,
		DateLabel:  now.Format("02.01.2006"),
		Amount:     amount,
		Icon:       txIcon,
		OccurredAt: now,
	})
	progress := d.Engine.Award(xp.AwardInput{
		EventKey:   domain.EventSnapCreated,
		SourceType: "transaction",
		SourceID:   created.ID,
	})
	d.Ledger.Flush()

	fmt.Printf("recorded %s %.2f %s\n", created.Name, created.Amount, d.Config.Profile.Currency)
	if progress != nil {
		fmt.Printf("%d XP total\n", progress.XPTotal)
	}
	return nil
}

func runTxList(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	txs := d.Ledger.Transactions()
	if len(txs) == 0 {
		fmt.Println("no transactions yet")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, t := range txs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f %s\n",
			t.DateLabel, t.Icon, t.Name, t.Amount, d.Config.Profile.Currency)
	}
	return w.Flush()
}
