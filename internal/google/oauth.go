package google

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/teilen/drivetasks/internal/logging"
	"github.com/teilen/drivetasks/internal/taskerror"
)

const (
	// EnvOAuthClientID and EnvOAuthClientSecret configure the OAuth client
	// used by the `auth` fallback flow. They are only needed when no service
	// account key is available.
	EnvOAuthClientID     = "DRIVETASKS_OAUTH_CLIENT_ID"
	EnvOAuthClientSecret = "DRIVETASKS_OAUTH_CLIENT_SECRET"
)

// HasToken checks if a cached user OAuth token exists.
func HasToken() bool {
	_, err := os.ReadFile(tokenFilePath())
	return err == nil
}

// AuthURL returns the OAuth URL for user authorization.
func AuthURL() (string, error) {
	conf, err := oauthConfig()
	if err != nil {
		return "", err
	}
	return conf.AuthCodeURL("state", oauth2.AccessTypeOffline), nil
}

// SaveToken exchanges an authorization code for tokens and caches them.
func SaveToken(ctx context.Context, authCode string) error {
	conf, err := oauthConfig()
	if err != nil {
		return err
	}

	t, err := conf.Exchange(ctx, authCode)
	if err != nil {
		return taskerror.Wrap(taskerror.KindAuth, "auth",
			fmt.Errorf("failed to exchange auth code: %w", err))
	}

	tokenFile := tokenFilePath()
	if err := os.MkdirAll(filepath.Dir(tokenFile), 0700); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	tokenData := t.AccessToken + " " + t.RefreshToken
	if err := os.WriteFile(tokenFile, []byte(tokenData), 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}

	slog.Debug("cached user token", slog.String("token", logging.SanitizeToken(t.AccessToken)))
	return nil
}

// cachedTokenSource returns a refreshing token source backed by the cached
// user token, validating it once before use.
func cachedTokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	conf, err := oauthConfig()
	if err != nil {
		return nil, err
	}

	slurp, err := os.ReadFile(tokenFilePath())
	if err != nil {
		return nil, taskerror.New(taskerror.KindAuth, AuthenticationErrorMessage())
	}

	f := strings.Fields(strings.TrimSpace(string(slurp)))
	if len(f) != 2 {
		return nil, taskerror.New(taskerror.KindAuth, "invalid cached token format")
	}

	ts := conf.TokenSource(ctx, &oauth2.Token{
		AccessToken:  f[0],
		TokenType:    "Bearer",
		RefreshToken: f[1],
		Expiry:       time.Unix(1, 0),
	})

	// Validate the token
	if _, err := ts.Token(); err != nil {
		return nil, taskerror.Wrap(taskerror.KindAuth, "auth",
			fmt.Errorf("cached token is invalid: %w", err))
	}

	return ts, nil
}

// oauthConfig returns the OAuth2 configuration for the auth fallback flow.
// The client ID and secret come from the environment so the binary never
// embeds application secrets.
func oauthConfig() (*oauth2.Config, error) {
	clientID := os.Getenv(EnvOAuthClientID)
	clientSecret := os.Getenv(EnvOAuthClientSecret)
	if clientID == "" || clientSecret == "" {
		return nil, taskerror.Newf(taskerror.KindAuth,
			"OAuth fallback requires %s and %s to be set", EnvOAuthClientID, EnvOAuthClientSecret)
	}

	const OOB = "urn:ietf:wg:oauth:2.0:oob"
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  OOB,
		Scopes:       DefaultScopes,
	}, nil
}

func tokenFilePath() string {
	return filepath.Join(userCacheDir(), "drivetasks", "google.token")
}
