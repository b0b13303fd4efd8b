package cmd

import (
	"github.com/spf13/cobra"

	"github.com/quizler/quizler/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "quizler",
	Short: "Quiz generation for web pages",
	Long:  "Quizler turns the page you are reading into a short multiple-choice quiz, scored locally and ranked on a shared leaderboard.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Database DSN: SQLite path or Postgres DSN (overrides QUIZLER_DB)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDSN returns the database DSN using --db flag (highest
// priority), then QUIZLER_DB, then the default XDG path.
func resolveDSN(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, nil
	}
	return store.DefaultDSN()
}
