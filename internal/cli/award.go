package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sparfuchs-app/sparfuchs/internal/app/xp"
	"github.com/sparfuchs-app/sparfuchs/internal/daemon"
	"github.com/sparfuchs-app/sparfuchs/internal/domain"
)

var awardSource string

func init() {
	awardCmd.Flags().StringVar(&awardSource, "source", "", "source id to record with the event")
	rootCmd.AddCommand(awardCmd)
}

var awardCmd = &cobra.Command{
	Use:   "award <event-key>",
	Short: "Grant XP for a catalog event",
	Args:  cobra.ExactArgs(1),
	RunE:  runAward,
}

func runAward(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	before := d.Engine.Progress()
	updated := d.Engine.Award(xp.AwardInput{
		EventKey:   args[0],
		SourceType: "cli",
		SourceID:   awardSource,
	})
	if updated == nil {
		return fmt.Errorf("award %s: %w", args[0], awardFailure(d, args[0]))
	}
	if before != nil && updated.XPTotal == before.XPTotal {
		fmt.Printf("no XP granted (cap or cooldown) — %d XP total\n", updated.XPTotal)
		return nil
	}
	fmt.Printf("%d XP total\n", updated.XPTotal)
	return nil
}

// awardFailure names the reason a nil award came back.
func awardFailure(d *daemon.Daemon, eventKey string) error {
	if d.Engine.Progress() == nil {
		return domain.ErrNoSession
	}
	cfg, err := d.Engine.Config()
	if err != nil {
		return err
	}
	et := cfg.EventTypeByKey(eventKey)
	if et == nil {
		return domain.ErrEventTypeUnknown
	}
	if !et.Active {
		return domain.ErrEventTypeInactive
	}
	return domain.ErrEventTypeUnknown
}
