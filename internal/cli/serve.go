package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/sparfuchs-app/sparfuchs/internal/daemon"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Sparfuchs daemon (HTTP API for the UI)",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	return d.Serve(context.Background())
}
