package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quizler/quizler/internal/auth"
	"github.com/quizler/quizler/internal/config"
	"github.com/quizler/quizler/internal/extract"
	"github.com/quizler/quizler/internal/llm"
	"github.com/quizler/quizler/internal/logger"
	"github.com/quizler/quizler/internal/quizgen"
	"github.com/quizler/quizler/internal/server"
	"github.com/quizler/quizler/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Quizler backend API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg := config.FromEnv()

		log, err := logger.New(cfg.Mode)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer log.Sync()

		dsn := cfg.DSN
		if dsn == "" {
			dsn, err = resolveDSN(cmd)
			if err != nil {
				return fmt.Errorf("resolve database DSN: %w", err)
			}
		}
		st, err := store.Open(dsn)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		provider, err := llm.NewProviderFromEnv(ctx, st.LLMEventRepo())
		if err != nil {
			fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
			fmt.Fprintln(os.Stderr, "Set an API key (e.g. GEMINI_API_KEY) before serving.")
			return err
		}

		authService := auth.NewService(
			st.UserRepo(), st.TokenRepo(), log,
			cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL,
		)

		srv := server.New(server.Options{
			Config:    cfg,
			Log:       log,
			Generator: quizgen.New(provider, quizgen.DefaultConfig()),
			Fetcher:   extract.NewFetcher(cfg.FetchTimeout),
			Auth:      authService,
			Results:   st.ResultRepo(),
		})
		return srv.Run()
	},
}
