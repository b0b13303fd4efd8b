package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quizler/quizler/internal/client"
	"github.com/quizler/quizler/internal/config"
	"github.com/quizler/quizler/internal/logger"
	"github.com/quizler/quizler/internal/quiz"
	"github.com/quizler/quizler/internal/quizgen"
	"github.com/quizler/quizler/internal/results"
	"github.com/quizler/quizler/internal/widget"
)

var playCmd = &cobra.Command{
	Use:   "play <url>",
	Short: "Generate a quiz for a page and play it in the terminal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		pageURL := args[0]
		count, _ := cmd.Flags().GetInt("count")
		backend, _ := cmd.Flags().GetString("backend")
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")

		if backend == "" {
			backend = config.FromEnv().BackendURL
		}
		c := client.New(backend)

		if email != "" && password != "" {
			user, err := c.SignIn(ctx, email, password)
			if err != nil {
				return fmt.Errorf("sign in: %w", err)
			}
			fmt.Printf("Signed in as %s\n", user.Username)
		}

		log, err := logger.New("dev")
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer log.Sync()

		recorder := results.NewRecorder(
			clientResultStore{c: c},
			results.SessionSourceFunc(c.SignedIn),
			log,
		)
		notifier := results.NewNotifier()
		unsub := notifier.Subscribe(func(signedIn bool) {
			if signedIn {
				recorder.OnSignIn(ctx)
			}
		})
		defer unsub()

		session := quiz.NewSession(
			func(ctx context.Context) (*quizgen.Payload, error) {
				return c.RequestQuiz(ctx, quizgen.Request{URL: pageURL, Count: count})
			},
			quiz.ResultSinkFunc(func(score, total, percentage int) {
				recorder.SaveResult(ctx, results.Result{
					Score:      score,
					Total:      total,
					Percentage: percentage,
					PageURL:    pageURL,
				})
			}),
		)

		if err := widget.Run(ctx, session, pageURL); err != nil {
			return fmt.Errorf("run widget: %w", err)
		}

		// A score earned while signed out waits for a session. Offer
		// one sign-in before it is lost with the process.
		if recorder.HasPending() {
			if promptSignIn(ctx, c) {
				notifier.Publish(true)
				fmt.Println("Score saved.")
			} else {
				fmt.Println("Score discarded.")
			}
		}
		return nil
	},
}

// clientResultStore adapts the backend client to the recorder's store.
type clientResultStore struct {
	c *client.Client
}

func (s clientResultStore) SaveResult(ctx context.Context, res results.Result) error {
	return s.c.SaveResult(ctx, res.Score, res.Total, res.Percentage, res.PageURL, res.PageTitle)
}

// promptSignIn asks for credentials on stdin and signs the client in,
// registering a new account when the email is unknown. Returns true on
// a successful sign-in.
func promptSignIn(ctx context.Context, c *client.Client) bool {
	fmt.Println("Sign in to save your score (leave email blank to skip).")
	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Email: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}

	fmt.Print("Password: ")
	password, _ := reader.ReadString('\n')
	password = strings.TrimSpace(password)

	if _, err := c.SignIn(ctx, email, password); err == nil {
		return true
	}

	fmt.Print("No account found or wrong password. Create an account? [y/N] ")
	answer, _ := reader.ReadString('\n')
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(answer)), "y") {
		return false
	}

	if _, err := c.Register(ctx, email, "", password); err != nil {
		fmt.Println("Could not create account:", err)
		return false
	}
	return true
}

func init() {
	playCmd.Flags().IntP("count", "n", 0, "Number of questions (1-10, default 5)")
	playCmd.Flags().String("backend", "", "Backend base URL (overrides QUIZLER_BACKEND_URL)")
	playCmd.Flags().String("email", "", "Sign in before playing")
	playCmd.Flags().String("password", "", "Password for --email")
}
