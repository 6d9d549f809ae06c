package google

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"google.golang.org/api/option"

	"github.com/teilen/drivetasks/internal/taskerror"
)

// DefaultAccount is the account name used when no account is specified.
// It follows the standard credential resolution chain; any other account
// name maps to a key file in the accounts directory.
const DefaultAccount = "default"

// CredentialsFileForAccount returns the key file path for the named account.
// The default account (or an empty name) follows the standard resolution
// chain; other accounts map to <config>/drivetasks/accounts/<account>.json.
func CredentialsFileForAccount(account string) string {
	if isDefaultAccount(account) {
		return ResolveCredentialsFile()
	}
	return filepath.Join(userConfigDir(), "drivetasks", "accounts", account+".json")
}

// HasCredentialsForAccount reports whether the named account can authenticate.
// The default account may also fall back to the cached user token.
func HasCredentialsForAccount(account string) bool {
	if isDefaultAccount(account) {
		return HasCredentialsFile() || HasToken()
	}
	if !validAccountName(account) {
		return false
	}
	_, err := os.Stat(CredentialsFileForAccount(account))
	return err == nil
}

// ClientOptionsForAccount returns the option set for constructing Google API
// service clients for the named account.
func ClientOptionsForAccount(ctx context.Context, account string) ([]option.ClientOption, error) {
	if isDefaultAccount(account) {
		return ClientOptions(ctx)
	}
	if !validAccountName(account) {
		return nil, taskerror.Newf(taskerror.KindValidation, "invalid account name %q", account)
	}

	path := CredentialsFileForAccount(account)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, taskerror.Newf(taskerror.KindAuth,
			"no service account key for account %q at %s: %v", account, path, err)
	}

	return []option.ClientOption{
		option.WithCredentialsJSON(data),
		option.WithScopes(DefaultScopes...),
	}, nil
}

// IdentityForAccount returns the service account email behind the named
// account, or "" when it cannot be determined. Token-based authentication has
// no key file, so the default account may legitimately have no identity.
func IdentityForAccount(account string) string {
	if !isDefaultAccount(account) && !validAccountName(account) {
		return ""
	}
	data, err := os.ReadFile(CredentialsFileForAccount(account))
	if err != nil {
		return ""
	}
	sa, err := ParseServiceAccount(data)
	if err != nil {
		return ""
	}
	return sa.ClientEmail
}

// AuthenticationErrorMessageForAccount explains how to authenticate the named
// account. The default account points at the standard resolution chain; named
// accounts point at their key file path.
func AuthenticationErrorMessageForAccount(account string) string {
	if isDefaultAccount(account) {
		return AuthenticationErrorMessage()
	}
	return "no credentials for account " + strconv.Quote(account) +
		": place a service account key file at " + CredentialsFileForAccount(account)
}

func isDefaultAccount(account string) bool {
	return account == "" || account == DefaultAccount
}

// validAccountName reports whether account is usable as a file name component.
// Account names arrive from MCP tool arguments, so anything that could
// traverse out of the accounts directory is rejected.
func validAccountName(account string) bool {
	if account == "" || account == "." || account == ".." {
		return false
	}
	return !strings.ContainsAny(account, `/\`)
}
