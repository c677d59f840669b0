// Package cli implements the Sparfuchs command-line interface using Cobra.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sparfuchs",
	Short: "Sparfuchs — local-first personal finance",
	Long: `Sparfuchs is a local-first personal-finance engine.
Track income, expenses, budgets, and savings goals — and level up while
doing it. All data stays on your machine.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
