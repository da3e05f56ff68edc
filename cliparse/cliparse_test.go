// cliparse/cliparse_test.go
package cliparse

import (
	"os"
	"testing"
	"time"
)

func TestParseFlags_EnvVars(t *testing.T) {
	// Set env vars
	os.Setenv("PORT", "9000")
	os.Setenv("DATABASE_URL", "postgres://test")
	os.Setenv("DATABASE_TYPE", "postgres")
	os.Setenv("SESSION_SECRET", "test-secret")
	os.Setenv("SESSION_TTL", "30m")
	os.Setenv("LEDGER_DELAY", "0s")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "postgres" {
		t.Errorf("expected postgres, got %s", cfg.DatabaseType)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Errorf("expected 30m session TTL, got %s", cfg.SessionTTL)
	}
	if cfg.LedgerDelay != 0 {
		t.Errorf("expected zero ledger delay, got %s", cfg.LedgerDelay)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	os.Setenv("PORT", "9000")
	os.Setenv("STORE", "sql")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{"-p", "8080", "-store", "memory", "-session-secret", "s1"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.Store != StoreMemory {
		t.Errorf("CLI should override env: expected memory store, got %s", cfg.Store)
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	os.Clearenv()
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{"-d", "file:test.db", "-session-secret", "s1"})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 3318 {
		t.Errorf("expected default port 3318, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("expected default sqlite, got %s", cfg.DatabaseType)
	}
	if cfg.Ledger != LedgerSimulated {
		t.Errorf("expected simulated ledger, got %s", cfg.Ledger)
	}
	if cfg.LedgerDelay != 2*time.Second {
		t.Errorf("expected 2s ledger delay, got %s", cfg.LedgerDelay)
	}
	if cfg.ReconcileSchedule != "@every 5m" {
		t.Errorf("unexpected reconcile schedule %q", cfg.ReconcileSchedule)
	}
	if cfg.StoreFallback != "none" {
		t.Errorf("fallback must be off unless configured, got %s", cfg.StoreFallback)
	}
	if cfg.AuthRateLimit != 1 || cfg.AuthRateBurst != 5 {
		t.Errorf("unexpected rate limit defaults %v/%d", cfg.AuthRateLimit, cfg.AuthRateBurst)
	}
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing database url", []string{"-session-secret", "s1"}},
		{"missing session secret", []string{"-d", "file:test.db"}},
		{"bad store", []string{"-store", "redis", "-session-secret", "s1"}},
		{"bad database type", []string{"-d", "x", "-t", "mysql", "-session-secret", "s1"}},
		{"rpc ledger without url", []string{"-store", "memory", "-session-secret", "s1", "-ledger", "rpc"}},
		{"admin email without password", []string{"-store", "memory", "-session-secret", "s1", "-admin-email", "a@x.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			if _, err := ParseFlags(tt.args); err == nil {
				t.Errorf("expected error for %v", tt.args)
			}
		})
	}
}

func TestParseFlags_TrustedProxies(t *testing.T) {
	os.Clearenv()
	os.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 192.168.1.10, ::1")
	os.Setenv("RATE_LIMIT_SALT", "salt-1")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{"-store", "memory", "-session-secret", "s1"})
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"10.0.0.0/8", "192.168.1.10/32", "::1/128"}
	if len(cfg.TrustedProxies) != len(want) {
		t.Fatalf("expected %d proxies, got %v", len(want), cfg.TrustedProxies)
	}
	for i, p := range cfg.TrustedProxies {
		if p.String() != want[i] {
			t.Errorf("proxy %d: expected %s, got %s", i, want[i], p)
		}
	}
	if cfg.RateLimitSalt != "salt-1" {
		t.Errorf("expected rate limit salt from env, got %q", cfg.RateLimitSalt)
	}

	os.Setenv("TRUSTED_PROXIES", "10.0.0.0/33")
	if _, err := ParseFlags([]string{"-store", "memory", "-session-secret", "s1"}); err == nil {
		t.Error("expected error for invalid TRUSTED_PROXIES")
	}

	os.Setenv("TRUSTED_PROXIES", "proxy.internal")
	if _, err := ParseFlags([]string{"-store", "memory", "-session-secret", "s1"}); err == nil {
		t.Error("expected error for hostname in TRUSTED_PROXIES")
	}
}
