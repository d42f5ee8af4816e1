package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load with defaults: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Fatalf("Port = %q", cfg.Server.Port)
	}
	if cfg.Upstream.GamesAPIURL == "" {
		t.Fatalf("upstream URL default missing")
	}
	if cfg.Catalog.SnapshotTTL != 24*time.Hour {
		t.Fatalf("SnapshotTTL = %v", cfg.Catalog.SnapshotTTL)
	}
	if cfg.Catalog.SearchDebounce != 500*time.Millisecond {
		t.Fatalf("SearchDebounce = %v", cfg.Catalog.SearchDebounce)
	}
	if cfg.Mail.SMTPPort != 587 {
		t.Fatalf("SMTPPort = %d", cfg.Mail.SMTPPort)
	}
	if cfg.Mail.MailEnabled() {
		t.Fatalf("mail should be disabled without SMTP settings")
	}
}

func TestLoadEnvMapOverrides(t *testing.T) {
	cfg, err := Load(WithoutSystemEnv(), WithEnvFile(""), WithEnvMap(map[string]string{
		"SITE_SERVER_PORT":          "9090",
		"SITE_UPSTREAM_MAX_RETRIES": "7",
		"SITE_CATALOG_SNAPSHOT_TTL": "1h",
		"SITE_MAIL_SMTP_HOST":       "smtp.example.com",
		"SITE_MAIL_FROM":            "noreply@example.com",
		"SITE_MAIL_ADMIN_TO":        "admin@example.com",
	}))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Fatalf("Port = %q", cfg.Server.Port)
	}
	if cfg.Upstream.MaxRetries != 7 {
		t.Fatalf("MaxRetries = %d", cfg.Upstream.MaxRetries)
	}
	if cfg.Catalog.SnapshotTTL != time.Hour {
		t.Fatalf("SnapshotTTL = %v", cfg.Catalog.SnapshotTTL)
	}
	if !cfg.Mail.MailEnabled() {
		t.Fatalf("mail should be enabled")
	}
}

func TestLoadDotEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# local overrides\nexport SITE_SERVER_PORT=3000\nSITE_UPSTREAM_USER_AGENT=\"test-agent\"\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	cfg, err := Load(WithoutSystemEnv(), WithEnvFile(path))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "3000" {
		t.Fatalf("Port = %q", cfg.Server.Port)
	}
	if cfg.Upstream.UserAgent != "test-agent" {
		t.Fatalf("UserAgent = %q", cfg.Upstream.UserAgent)
	}
}

func TestEnvMapBeatsDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("SITE_SERVER_PORT=3000\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	cfg, err := Load(WithoutSystemEnv(), WithEnvFile(path),
		WithEnvMap(map[string]string{"SITE_SERVER_PORT": "4000"}))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "4000" {
		t.Fatalf("env map should win over .env, got %q", cfg.Server.Port)
	}
}

func TestLoadValidation(t *testing.T) {
	_, err := Load(WithoutSystemEnv(), WithEnvFile(""), WithEnvMap(map[string]string{
		"SITE_CATALOG_SNAPSHOT_TTL": "-1h",
		"SITE_MAIL_SMTP_PORT":       "70000",
	}))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	fields := verr.Fields()
	want := map[string]bool{"Catalog.SnapshotTTL": false, "Mail.SMTPPort": false}
	for _, f := range fields {
		if _, ok := want[f]; ok {
			want[f] = true
		}
	}
	for f, seen := range want {
		if !seen {
			t.Fatalf("expected %s in invalid fields %v", f, fields)
		}
	}
}

func TestMalformedValuesFallBack(t *testing.T) {
	cfg, err := Load(WithoutSystemEnv(), WithEnvFile(""), WithEnvMap(map[string]string{
		"SITE_UPSTREAM_TIMEOUT":     "soon",
		"SITE_UPSTREAM_MAX_RETRIES": "lots",
	}))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Upstream.Timeout <= 0 {
		t.Fatalf("unparseable duration should fall back, got %v", cfg.Upstream.Timeout)
	}
	if cfg.Upstream.MaxRetries < 0 {
		t.Fatalf("unparseable int should fall back, got %d", cfg.Upstream.MaxRetries)
	}
}
