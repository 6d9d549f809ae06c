package common

import (
	"github.com/teilen/drivetasks/internal/google"
)

// GetAccountFromArgs extracts the account name from request arguments.
// Tool callers may address a named account whose key file lives in the
// accounts directory; everything else uses the default resolution chain.
//
// Priority order:
//  1. Explicit "account" argument in the request
//  2. The default account
func GetAccountFromArgs(args map[string]interface{}) string {
	if account, ok := args["account"].(string); ok && account != "" {
		return account
	}
	return google.DefaultAccount
}
