package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("SLOT_DURATION", "")
	t.Setenv("EMAIL_PROVIDER", "")
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.WorkdayStartHour != 8 || cfg.WorkdayEndHour != 17 {
		t.Fatalf("expected default workday 8-17, got %d-%d", cfg.WorkdayStartHour, cfg.WorkdayEndHour)
	}
	if cfg.SlotDuration != 30*time.Minute {
		t.Fatalf("expected default slot duration 30m, got %s", cfg.SlotDuration)
	}
	if cfg.MatchThreshold != 0.5 {
		t.Fatalf("expected default match threshold 0.5, got %f", cfg.MatchThreshold)
	}
	if cfg.EmailProvider != "stub" {
		t.Fatalf("expected default email provider stub, got %s", cfg.EmailProvider)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("WORKDAY_START_HOUR", "9")
	t.Setenv("WORKDAY_END_HOUR", "18")
	t.Setenv("SLOT_DURATION", "45m")
	t.Setenv("MATCH_THRESHOLD", "0.7")
	t.Setenv("EMAIL_PROVIDER", "SendGrid")
	t.Setenv("NOTIFY_RECIPIENTS", "front-desk@clinic.example, scheduling@clinic.example")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected port override, got %s", cfg.Port)
	}
	if cfg.WorkdayStartHour != 9 || cfg.WorkdayEndHour != 18 {
		t.Fatalf("expected workday 9-18, got %d-%d", cfg.WorkdayStartHour, cfg.WorkdayEndHour)
	}
	if cfg.SlotDuration != 45*time.Minute {
		t.Fatalf("expected slot duration 45m, got %s", cfg.SlotDuration)
	}
	if cfg.MatchThreshold != 0.7 {
		t.Fatalf("expected match threshold 0.7, got %f", cfg.MatchThreshold)
	}
	if cfg.EmailProvider != "sendgrid" {
		t.Fatalf("expected provider normalized to sendgrid, got %s", cfg.EmailProvider)
	}
	if len(cfg.NotifyRecipients) != 2 || cfg.NotifyRecipients[1] != "scheduling@clinic.example" {
		t.Fatalf("expected two trimmed recipients, got %v", cfg.NotifyRecipients)
	}
}

func TestLoadInvalidNumbersFallBack(t *testing.T) {
	t.Setenv("WORKDAY_START_HOUR", "not-a-number")
	t.Setenv("MATCH_THRESHOLD", "high")
	t.Setenv("SLOT_DURATION", "soon")

	cfg := Load()
	if cfg.WorkdayStartHour != 8 {
		t.Fatalf("expected fallback workday start, got %d", cfg.WorkdayStartHour)
	}
	if cfg.MatchThreshold != 0.5 {
		t.Fatalf("expected fallback threshold, got %f", cfg.MatchThreshold)
	}
	if cfg.SlotDuration != 30*time.Minute {
		t.Fatalf("expected fallback slot duration, got %s", cfg.SlotDuration)
	}
}
