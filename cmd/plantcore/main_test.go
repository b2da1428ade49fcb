package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

// freePort asks the kernel for an unused TCP port.
func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func TestRun_InvalidConfig(t *testing.T) {
	t.Setenv("PLANTCORE_CONFIG", "/nonexistent/path/config.yaml")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := run(ctx)
	if err == nil {
		t.Fatal("run() should fail with invalid config path")
	}
	if !strings.Contains(err.Error(), "loading config") {
		t.Errorf("run() error = %v, want loading config error", err)
	}
}

func TestRun_MissingDatabasePath(t *testing.T) {
	t.Setenv("PLANTCORE_CONFIG", writeConfig(t, "database:\n  path: \"\"\n"))

	err := run(context.Background())
	if err == nil {
		t.Fatal("run() should fail with empty database path")
	}
}

func TestRun_StartsAndStops(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "data", "plants.db")
	cfg := fmt.Sprintf(`
database:
  path: %q
  wal_mode: true
  busy_timeout: 5
api:
  host: "127.0.0.1"
  port: %d
mqtt:
  enabled: true
  broker:
    host: "127.0.0.1"
    port: 19997
    client_id: "plantcore-run-test"
influxdb:
  enabled: false
logging:
  level: error
  format: text
  output: stderr
`, dbPath, freePort(t))
	t.Setenv("PLANTCORE_CONFIG", writeConfig(t, cfg))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	// An unreachable broker is logged, not fatal.
	if err := run(ctx); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if _, err := os.Stat(dbPath); err != nil {
		t.Errorf("database file not created: %v", err)
	}
}

func TestGetConfigPath(t *testing.T) {
	t.Setenv("PLANTCORE_CONFIG", "")
	if got := getConfigPath(); got != defaultConfigPath {
		t.Errorf("getConfigPath() = %q, want %q", got, defaultConfigPath)
	}

	t.Setenv("PLANTCORE_CONFIG", "/etc/plantcore.yaml")
	if got := getConfigPath(); got != "/etc/plantcore.yaml" {
		t.Errorf("getConfigPath() = %q, want /etc/plantcore.yaml", got)
	}
}

type stubChecker struct{ err error }

func (s stubChecker) HealthCheck(context.Context) error { return s.err }

func TestHealthCheck(t *testing.T) {
	down := errors.New("down")

	tests := []struct {
		name       string
		db, server stubChecker
		wantPrefix string
	}{
		{"all healthy", stubChecker{}, stubChecker{}, ""},
		{"database down", stubChecker{down}, stubChecker{}, "database"},
		{"api down", stubChecker{}, stubChecker{down}, "api"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := healthCheck(context.Background(), tt.db, tt.server)
			if tt.wantPrefix == "" {
				if err != nil {
					t.Errorf("healthCheck() error = %v", err)
				}
				return
			}
			if !errors.Is(err, down) || !strings.HasPrefix(err.Error(), tt.wantPrefix) {
				t.Errorf("healthCheck() error = %v, want %s: down", err, tt.wantPrefix)
			}
		})
	}
}
