package server

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"go.opentelemetry.io/otel/metric/noop"

	"github.com/teilen/drivetasks/internal/drive"
	"github.com/teilen/drivetasks/internal/google"
	"github.com/teilen/drivetasks/internal/instrumentation"
	"github.com/teilen/drivetasks/internal/sheets"
)

// clearCredentialEnv points every credential source at an empty location so
// tests never pick up keys from the host environment.
func clearCredentialEnv(t *testing.T) {
	t.Helper()
	t.Setenv(google.EnvCredentialsFile, filepath.Join(t.TempDir(), "absent.json"))
	t.Setenv(google.EnvTokenFile, "")
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
}

func TestNewServerContext(t *testing.T) {
	clearCredentialEnv(t)

	sc, err := NewServerContext(context.Background())
	if err != nil {
		t.Fatalf("NewServerContext() error = %v", err)
	}
	defer func() { _ = sc.Shutdown() }()

	if sc.IsShutdown() {
		t.Error("new server context should not be shut down")
	}
	if sc.Context() == nil {
		t.Error("Context() should not be nil")
	}
	if sc.Metrics() != nil {
		t.Error("Metrics() should be nil before SetMetrics")
	}
	if sc.AuditLogger() != nil {
		t.Error("AuditLogger() should be nil before SetAuditLogger")
	}
}

func TestServerContext_ClientsNilWithoutCredentials(t *testing.T) {
	clearCredentialEnv(t)

	sc, err := NewServerContext(context.Background())
	if err != nil {
		t.Fatalf("NewServerContext() error = %v", err)
	}
	defer func() { _ = sc.Shutdown() }()

	if sc.DriveClient() != nil {
		t.Error("DriveClient() should be nil without credentials")
	}
	if sc.SheetsClient() != nil {
		t.Error("SheetsClient() should be nil without credentials")
	}
	if sc.DriveClientForAccount("staging") != nil {
		t.Error("DriveClientForAccount() should be nil for an unknown account")
	}
}

func TestServerContext_ClientCaching(t *testing.T) {
	clearCredentialEnv(t)

	sc, err := NewServerContext(context.Background())
	if err != nil {
		t.Fatalf("NewServerContext() error = %v", err)
	}
	defer func() { _ = sc.Shutdown() }()

	driveClient := &drive.Client{}
	sc.SetDriveClient(driveClient)
	if got := sc.DriveClient(); got != driveClient {
		t.Error("DriveClient() should return the injected client")
	}
	if got := sc.DriveClientForAccount(google.DefaultAccount); got != driveClient {
		t.Error("DriveClientForAccount(default) should return the injected client")
	}

	sheetsClient := &sheets.Client{}
	sc.SetSheetsClientForAccount("staging", sheetsClient)
	if got := sc.SheetsClientForAccount("staging"); got != sheetsClient {
		t.Error("SheetsClientForAccount(staging) should return the injected client")
	}
	if sc.SheetsClient() != nil {
		t.Error("default Sheets client should stay nil when only staging is set")
	}
}

func TestServerContext_MetricsAndAuditSetters(t *testing.T) {
	clearCredentialEnv(t)

	sc, err := NewServerContext(context.Background())
	if err != nil {
		t.Fatalf("NewServerContext() error = %v", err)
	}
	defer func() { _ = sc.Shutdown() }()

	meter := noop.NewMeterProvider().Meter("test")
	metrics, err := instrumentation.NewMetrics(meter, false)
	if err != nil {
		t.Fatalf("failed to create metrics: %v", err)
	}

	sc.SetMetrics(metrics)
	if sc.Metrics() != metrics {
		t.Error("Metrics() should return the installed recorder")
	}

	auditLogger := instrumentation.NewAuditLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	sc.SetAuditLogger(auditLogger)
	if sc.AuditLogger() != auditLogger {
		t.Error("AuditLogger() should return the installed logger")
	}
}

func TestServerContext_Shutdown(t *testing.T) {
	clearCredentialEnv(t)

	sc, err := NewServerContext(context.Background())
	if err != nil {
		t.Fatalf("NewServerContext() error = %v", err)
	}

	if err := sc.Shutdown(); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
	if !sc.IsShutdown() {
		t.Error("IsShutdown() should be true after Shutdown()")
	}

	select {
	case <-sc.Context().Done():
	case <-time.After(time.Second):
		t.Error("Context() should be canceled after Shutdown()")
	}

	// Shutdown is idempotent
	if err := sc.Shutdown(); err != nil {
		t.Errorf("second Shutdown() error = %v", err)
	}
}

func TestServerContext_IdentityForAccount(t *testing.T) {
	clearCredentialEnv(t)

	sc, err := NewServerContext(context.Background())
	if err != nil {
		t.Fatalf("NewServerContext() error = %v", err)
	}
	defer func() { _ = sc.Shutdown() }()

	if got := sc.IdentityForAccount(google.DefaultAccount); got != "" {
		t.Errorf("IdentityForAccount() = %q without credentials, want empty", got)
	}
}
