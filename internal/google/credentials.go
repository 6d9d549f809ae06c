package google

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"runtime"

	"github.com/joho/godotenv"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"

	"github.com/teilen/drivetasks/internal/logging"
	"github.com/teilen/drivetasks/internal/taskerror"
)

const (
	// EnvCredentialsFile is the standard Google env var holding the full path
	// to a service account key file. It takes precedence over everything else.
	EnvCredentialsFile = "GOOGLE_APPLICATION_CREDENTIALS"

	// EnvTokenFile names a key file relative to $HOME. It may be set in the
	// process environment or in a .env file in the working directory.
	EnvTokenFile = "GTOKEN"
)

// ServiceAccount holds the identifying fields of a service account key file.
type ServiceAccount struct {
	Type        string `json:"type"`
	ProjectID   string `json:"project_id"`
	ClientEmail string `json:"client_email"`
}

// ParseServiceAccount extracts the identifying fields from a service account
// key. The private key material is deliberately not retained.
func ParseServiceAccount(data []byte) (*ServiceAccount, error) {
	var sa ServiceAccount
	if err := json.Unmarshal(data, &sa); err != nil {
		return nil, taskerror.Wrap(taskerror.KindAuth, "auth", err)
	}
	return &sa, nil
}

// ResolveCredentialsFile returns the path of the service account key file.
// Resolution order:
//
//  1. GOOGLE_APPLICATION_CREDENTIALS (absolute path, used verbatim)
//  2. GTOKEN from the environment or a .env file in the working directory,
//     resolved relative to $HOME
//  3. $HOME/.config/drivetasks/service-account.json
//
// The path is computed without checking that the file exists; callers that
// read it surface a missing file as an authentication error.
func ResolveCredentialsFile() string {
	if p := os.Getenv(EnvCredentialsFile); p != "" {
		return p
	}

	name := os.Getenv(EnvTokenFile)
	if name == "" {
		if env, err := godotenv.Read(); err == nil {
			name = env[EnvTokenFile]
		}
	}
	if name != "" {
		return filepath.Join(homeDir(), name)
	}

	return filepath.Join(userConfigDir(), "drivetasks", "service-account.json")
}

// HasCredentialsFile reports whether a service account key file is present at
// the resolved location.
func HasCredentialsFile() bool {
	_, err := os.Stat(ResolveCredentialsFile())
	return err == nil
}

// readCredentialsFile loads the resolved key file, mapping a missing or
// unreadable file to an authentication error.
func readCredentialsFile() ([]byte, error) {
	path := ResolveCredentialsFile()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, taskerror.Newf(taskerror.KindAuth,
			"no service account key at %s: %v", path, err)
	}
	return data, nil
}

// TokenSource returns an OAuth2 token source for Google API calls. A service
// account key file takes precedence; without one the cached user token from
// a previous `drivetasks auth` run is used.
func TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	if data, err := readCredentialsFile(); err == nil {
		creds, err := google.CredentialsFromJSON(ctx, data, DefaultScopes...)
		if err != nil {
			return nil, taskerror.Wrap(taskerror.KindAuth, "auth", err)
		}
		return creds.TokenSource, nil
	}

	if HasToken() {
		return cachedTokenSource(ctx)
	}

	return nil, taskerror.New(taskerror.KindAuth, AuthenticationErrorMessage())
}

// ClientOptions returns the option set for constructing Google API service
// clients. With a service account key the credentials are passed directly so
// the API client handles token refresh; otherwise the cached user token is
// wrapped in a token source.
func ClientOptions(ctx context.Context) ([]option.ClientOption, error) {
	if data, err := readCredentialsFile(); err == nil {
		if sa, err := ParseServiceAccount(data); err == nil {
			slog.Debug("using service account credentials", logging.Identity(sa.ClientEmail))
		}
		return []option.ClientOption{
			option.WithCredentialsJSON(data),
			option.WithScopes(DefaultScopes...),
		}, nil
	}

	if HasToken() {
		ts, err := cachedTokenSource(ctx)
		if err != nil {
			return nil, err
		}
		return []option.ClientOption{option.WithTokenSource(ts)}, nil
	}

	return nil, taskerror.New(taskerror.KindAuth, AuthenticationErrorMessage())
}

// GetHTTPClient returns an HTTP client configured with OAuth2 authentication.
// The client is configured to use HTTP/1.1 to avoid HTTP/2 protocol errors
// observed with Google's media endpoints.
func GetHTTPClient(ctx context.Context) (*http.Client, error) {
	ts, err := TokenSource(ctx)
	if err != nil {
		return nil, err
	}

	client := oauth2.NewClient(ctx, ts)

	// Force HTTP/1.1 by disabling HTTP/2
	if transport, ok := client.Transport.(*oauth2.Transport); ok {
		transport.Base = &http.Transport{
			ForceAttemptHTTP2: false,
		}
	}

	return client, nil
}

// AuthenticationErrorMessage explains how to authenticate when no credential
// source is available.
func AuthenticationErrorMessage() string {
	return "no Google credentials found. Either point " + EnvCredentialsFile +
		" (or a .env " + EnvTokenFile + " entry) at a service account key file, " +
		"or run 'drivetasks auth' to authorize with a Google account."
}

func userConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return xdg
	}
	return filepath.Join(homeDir(), ".config")
}

func userCacheDir() string {
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir(), "Library", "Caches")
	case "windows":
		for _, ev := range []string{"TEMP", "TMP"} {
			if v := os.Getenv(ev); v != "" {
				return v
			}
		}
		panic("No Windows TEMP or TMP environment variables found")
	}
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return xdg
	}
	return filepath.Join(homeDir(), ".cache")
}

func homeDir() string {
	if runtime.GOOS == "windows" {
		return os.Getenv("HOMEDRIVE") + os.Getenv("HOMEPATH")
	}
	return os.Getenv("HOME")
}
