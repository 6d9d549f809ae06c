package google

import (
	"context"

	"google.golang.org/api/option"
)

// CredentialsProvider is an interface for supplying Google API client options.
// This abstraction allows different credential sources (service account files,
// cached user tokens, in-memory test credentials) behind the server context.
type CredentialsProvider interface {
	// ClientOptions returns the option set for constructing API services.
	ClientOptions(ctx context.Context) ([]option.ClientOption, error)

	// HasCredentials reports whether any credential source is available.
	HasCredentials() bool
}

// FileCredentialsProvider provides credentials from disk: the resolved
// service account key file, falling back to the cached user token.
type FileCredentialsProvider struct{}

// NewFileCredentialsProvider creates a new file-based credentials provider.
func NewFileCredentialsProvider() *FileCredentialsProvider {
	return &FileCredentialsProvider{}
}

// ClientOptions resolves credentials from disk.
func (p *FileCredentialsProvider) ClientOptions(ctx context.Context) ([]option.ClientOption, error) {
	return ClientOptions(ctx)
}

// HasCredentials reports whether a key file or cached token exists.
func (p *FileCredentialsProvider) HasCredentials() bool {
	return HasCredentialsFile() || HasToken()
}
