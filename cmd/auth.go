package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teilen/drivetasks/internal/google"
	"github.com/teilen/drivetasks/internal/instrumentation"
	"github.com/teilen/drivetasks/internal/logging"
)

// newAuthCmd creates the auth command
func newAuthCmd() *cobra.Command {
	var code string

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with Google via OAuth",
		Long: `Authenticate with Google via the OAuth consent flow. This is the
fallback when no service account key is available.

Without --code the command prints the consent URL. Open it in a browser,
grant access, then run the command again with --code to exchange the
authorization code for a token. The token is cached on disk and used by
every task until it expires.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if code == "" {
				url, err := google.AuthURL()
				if err != nil {
					return err
				}
				if google.HasToken() {
					fmt.Fprintln(cmd.ErrOrStderr(), "A token is already cached; authenticating again replaces it.")
				}
				fmt.Fprintf(out, "Open the following URL in a browser and grant access:\n\n%s\n\nThen exchange the code Google hands back:\n\n  drivetasks auth --code <code>\n", url)
				return nil
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			instrConfig := instrumentation.DefaultConfig()
			instrConfig.ServiceVersion = version
			provider, err := instrumentation.NewProvider(ctx, instrConfig)
			if err != nil {
				return fmt.Errorf("failed to initialize instrumentation: %w", err)
			}
			defer func() {
				if err := provider.Shutdown(context.Background()); err != nil {
					slog.Error("Failed to shutdown instrumentation", logging.Err(err))
				}
			}()

			saveErr := google.SaveToken(ctx, code)
			if provider.Enabled() {
				result := instrumentation.OAuthResultSuccess
				if saveErr != nil {
					result = instrumentation.OAuthResultFailure
				}
				provider.Metrics().RecordOAuthAuth(ctx, result)
			}
			if saveErr != nil {
				return saveErr
			}

			fmt.Fprintln(out, "Token saved.")
			return nil
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "Authorization code from the consent page")

	return cmd
}
