package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quizler/quizler/internal/client"
	"github.com/quizler/quizler/internal/config"
)

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the top players by cumulative score",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		backend, _ := cmd.Flags().GetString("backend")
		if backend == "" {
			backend = config.FromEnv().BackendURL
		}

		c := client.New(backend)
		entries, err := c.Leaderboard(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("fetch leaderboard: %w", err)
		}

		if len(entries) == 0 {
			fmt.Println("No scores yet.")
			return nil
		}

		fmt.Printf("%-4s  %-20s  %8s  %8s  %7s\n", "#", "Player", "Quizzes", "Score", "Avg %")
		fmt.Println(strings.Repeat("─", 56))
		for i, e := range entries {
			name := e.Username
			if name == "" {
				name = e.Email
			}
			if len(name) > 20 {
				name = name[:20]
			}
			fmt.Printf("%-4d  %-20s  %8d  %8d  %6.1f%%\n",
				i+1, name, e.TotalQuizzes, e.TotalScore, e.AvgPercentage)
		}
		return nil
	},
}

func init() {
	leaderboardCmd.Flags().IntP("limit", "n", 10, "Number of players to show")
	leaderboardCmd.Flags().String("backend", "", "Backend base URL (overrides QUIZLER_BACKEND_URL)")
}
