package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.DBPath != "./data/onboard.db" {
		t.Errorf("unexpected default DB path %s", cfg.DBPath)
	}
	if cfg.Chat.Enabled() {
		t.Error("chat should be disabled without an API key")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("CHAT_MODEL", "gpt-5-mini")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Port)
	}
	if !cfg.Chat.Enabled() {
		t.Error("chat should be enabled with an API key")
	}
	if cfg.Chat.Model != "gpt-5-mini" {
		t.Errorf("unexpected model %s", cfg.Chat.Model)
	}
}

func TestInMemoryStoreFlag(t *testing.T) {
	t.Setenv("IN_MEMORY_STORE", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath != "" {
		t.Errorf("expected empty DB path, got %s", cfg.DBPath)
	}
}

func TestValidateRejectsEmptyPort(t *testing.T) {
	cfg := &Config{Port: ""}
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for empty port")
	}
}

func TestIsDevelopment(t *testing.T) {
	for _, tc := range []struct {
		url  string
		want bool
	}{
		{"", true},
		{"http://localhost:5173", true},
		{"http://127.0.0.1:3000", true},
		{"https://onboard.example.com", false},
	} {
		cfg := &Config{FrontendURL: tc.url}
		if got := cfg.IsDevelopment(); got != tc.want {
			t.Errorf("IsDevelopment(%q) = %v, want %v", tc.url, got, tc.want)
		}
	}
}
