package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/onboard-hub/onboard/internal/localstate"
)

var (
	// Global flags
	serverURL string

	// Local session mirror, resolved in PersistentPreRunE.
	mirror *localstate.Store
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "onboard",
	Short: "onboard - employee onboarding client",
	Long: `onboard is a client for the employee onboarding server.

It keeps a local mirror of your session so progress survives restarts,
and syncs every change to the server. The server copy is authoritative;
on conflict the mirror is replaced with the server's view.

Start with 'onboard start --name <you> --role <role>', then work
through modules with 'onboard view' and 'onboard quiz'.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := localstate.New()
		if err != nil {
			return fmt.Errorf("failed to resolve local state: %w", err)
		}
		mirror = s
		return nil
	},
}

func main() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", envOr("ONBOARD_SERVER", "http://localhost:8080"), "onboarding server base URL")

	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(modulesCmd)
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(resetCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
