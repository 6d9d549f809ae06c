package server

import (
	"context"
	"log/slog"
	"sync"

	"github.com/teilen/drivetasks/internal/drive"
	"github.com/teilen/drivetasks/internal/google"
	"github.com/teilen/drivetasks/internal/instrumentation"
	"github.com/teilen/drivetasks/internal/logging"
	"github.com/teilen/drivetasks/internal/sheets"
)

// ServerContext holds the shared state of the MCP server
type ServerContext struct {
	ctx           context.Context
	cancel        context.CancelFunc
	driveClients  map[string]*drive.Client  // Maps account name to Drive client
	sheetsClients map[string]*sheets.Client // Maps account name to Sheets client
	metrics       *instrumentation.Metrics
	auditLogger   *instrumentation.AuditLogger
	mu            sync.RWMutex
	shutdown      bool
}

// NewServerContext creates a new server context
func NewServerContext(ctx context.Context) (*ServerContext, error) {
	shutdownCtx, cancel := context.WithCancel(ctx)

	// Initialize client maps
	driveClients := make(map[string]*drive.Client)
	sheetsClients := make(map[string]*sheets.Client)

	// Try to create the default Drive client, but don't fail if credentials
	// are missing. Clients are lazily initialized when first needed.
	// Warnings go to slog (stderr); stdout carries the MCP protocol.
	if google.HasCredentialsForAccount(google.DefaultAccount) {
		client, err := drive.NewClientForAccount(shutdownCtx, google.DefaultAccount)
		if err != nil {
			slog.Warn("failed to create Drive client for default account", logging.Err(err))
		} else {
			driveClients[google.DefaultAccount] = client
		}
	}

	return &ServerContext{
		ctx:           shutdownCtx,
		cancel:        cancel,
		driveClients:  driveClients,
		sheetsClients: sheetsClients,
		shutdown:      false,
	}, nil
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// DriveClientForAccount returns the Drive client for a specific account
// Creates and caches the client if it doesn't exist yet
// Returns nil if the account has no credentials
func (sc *ServerContext) DriveClientForAccount(account string) *drive.Client {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	// Check if client already exists
	if client, ok := sc.driveClients[account]; ok {
		return client
	}

	// Try to create client if credentials exist
	if !drive.HasCredentialsForAccount(account) {
		return nil
	}

	client, err := drive.NewClientForAccount(sc.ctx, account)
	if err != nil {
		slog.Warn("failed to create Drive client", slog.String("account", account), logging.Err(err))
		return nil
	}

	sc.driveClients[account] = client
	return client
}

// DriveClient returns the Drive client for the default account
func (sc *ServerContext) DriveClient() *drive.Client {
	return sc.DriveClientForAccount(google.DefaultAccount)
}

// SetDriveClientForAccount sets the Drive client for a specific account
func (sc *ServerContext) SetDriveClientForAccount(account string, client *drive.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.driveClients[account] = client
}

// SetDriveClient sets the Drive client for the default account
func (sc *ServerContext) SetDriveClient(client *drive.Client) {
	sc.SetDriveClientForAccount(google.DefaultAccount, client)
}

// SheetsClientForAccount returns the Sheets client for a specific account
// Creates and caches the client if it doesn't exist yet
// Returns nil if the account has no credentials
func (sc *ServerContext) SheetsClientForAccount(account string) *sheets.Client {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	// Check if client already exists
	if client, ok := sc.sheetsClients[account]; ok {
		return client
	}

	// Try to create client if credentials exist
	if !sheets.HasCredentialsForAccount(account) {
		return nil
	}

	client, err := sheets.NewClientForAccount(sc.ctx, account)
	if err != nil {
		slog.Warn("failed to create Sheets client", slog.String("account", account), logging.Err(err))
		return nil
	}

	sc.sheetsClients[account] = client
	return client
}

// SheetsClient returns the Sheets client for the default account
func (sc *ServerContext) SheetsClient() *sheets.Client {
	return sc.SheetsClientForAccount(google.DefaultAccount)
}

// SetSheetsClientForAccount sets the Sheets client for a specific account
func (sc *ServerContext) SetSheetsClientForAccount(account string, client *sheets.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.sheetsClients[account] = client
}

// SetSheetsClient sets the Sheets client for the default account
func (sc *ServerContext) SetSheetsClient(client *sheets.Client) {
	sc.SetSheetsClientForAccount(google.DefaultAccount, client)
}

// IdentityForAccount returns the service account email behind the named
// account, or "" when it cannot be determined
func (sc *ServerContext) IdentityForAccount(account string) string {
	return google.IdentityForAccount(account)
}

// Metrics returns the metrics recorder, or nil when instrumentation is disabled
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// SetMetrics installs the metrics recorder used by tool handlers
func (sc *ServerContext) SetMetrics(m *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = m
}

// AuditLogger returns the audit logger, or nil when audit logging is disabled
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.auditLogger
}

// SetAuditLogger installs the audit logger used by tool handlers
func (sc *ServerContext) SetAuditLogger(l *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.auditLogger = l
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
