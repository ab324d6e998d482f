package config

import (
	"testing"
	"time"
)

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when DATABASE_URL is empty")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/leads")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.TrackingPrefix != "CNT" {
		t.Fatalf("expected default prefix CNT, got %q", cfg.TrackingPrefix)
	}
	if cfg.GetStepTimeout() != 10*time.Second {
		t.Fatalf("expected 10s step timeout, got %s", cfg.GetStepTimeout())
	}
	if cfg.GetLeadWebhookTimeout() != 5*time.Second {
		t.Fatalf("expected 5s webhook timeout, got %s", cfg.GetLeadWebhookTimeout())
	}
	if cfg.IsLeadWebhookEnabled() {
		t.Fatal("webhook should be disabled without LEAD_WEBHOOK_URL")
	}
	if cfg.IsSchedulerEnabled() || cfg.IsMinIOEnabled() {
		t.Fatal("optional collaborators should be disabled by default")
	}
	if cfg.GetAsynqQueue() != "notifications" {
		t.Fatalf("unexpected queue %q", cfg.GetAsynqQueue())
	}
}

func TestLoadRejectsLowercasePrefix(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/leads")
	t.Setenv("TRACKING_PREFIX", "cnt")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for lowercase prefix")
	}
}

func TestLoadRequiresFromAddressWhenEmailEnabled(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/leads")
	t.Setenv("EMAIL_PROVIDER", "sendgrid")
	t.Setenv("SENDGRID_API_KEY", "SG.key")
	t.Setenv("EMAIL_FROM_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when from address is missing")
	}
}

func TestSplitCSV(t *testing.T) {
	got := splitCSV(" https://a.mx, ,https://b.mx ")
	if len(got) != 2 || got[0] != "https://a.mx" || got[1] != "https://b.mx" {
		t.Fatalf("unexpected origins %v", got)
	}
}
