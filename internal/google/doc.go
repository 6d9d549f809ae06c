// Package google provides credential resolution and authentication for Google APIs.
//
// The primary credential source is a service account key file, resolved from
// GOOGLE_APPLICATION_CREDENTIALS, a GTOKEN entry in the environment or a .env
// file, or the default config location. When no key file is available the
// package falls back to a user OAuth token cached by the `auth` command.
//
// The CredentialsProvider interface allows different credential sources to be
// plugged in, keeping API client construction independent of where the
// credentials came from.
package google
