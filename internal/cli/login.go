package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sparfuchs-app/sparfuchs/internal/daemon"
)

func init() {
	rootCmd.AddCommand(loginCmd)
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Record a daily login and advance the streak",
	RunE:  runLogin,
}

func runLogin(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	before := d.Engine.Progress()
	updated := d.Engine.HandleDailyLogin()
	if updated == nil {
		fmt.Println("no active session")
		return nil
	}
	if before != nil && updated.LastStreakDate == before.LastStreakDate && updated.XPTotal == before.XPTotal {
		fmt.Printf("already logged in today — streak %d days\n", updated.CurrentStreak)
		return nil
	}
	fmt.Printf("streak %d days, %d XP total\n", updated.CurrentStreak, updated.XPTotal)
	return nil
}
