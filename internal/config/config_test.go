package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func setHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("BOOKLYDESK_HOME", home)
	for _, key := range []string{
		"BOOKLYDESK_ENDPOINT", "BOOKLYDESK_SESSION", "BOOKLYDESK_BACKEND",
		"OPENAI_API_KEY", "OPENAI_BASE_URL", "OPENAI_MODEL",
	} {
		t.Setenv(key, "")
	}
	return home
}

func TestLoadConfigCreatesDefault(t *testing.T) {
	home := setHome(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.ActiveProfile != "default" {
		t.Errorf("ActiveProfile = %q", cfg.ActiveProfile)
	}
	if cfg.GetEndpoint() != DefaultEndpoint || cfg.GetSessionID() != DefaultSessionID {
		t.Errorf("endpoint = %q, session = %q", cfg.GetEndpoint(), cfg.GetSessionID())
	}
	if cfg.GetBackend() != BackendService || !cfg.IsValid() {
		t.Errorf("backend = %q, valid = %v", cfg.GetBackend(), cfg.IsValid())
	}

	if _, err := os.Stat(filepath.Join(home, ".booklydesk", "config.json")); err != nil {
		t.Errorf("config file not written: %v", err)
	}
	logPath, err := LogPath()
	if err != nil {
		t.Fatalf("LogPath() error = %v", err)
	}
	if logPath != filepath.Join(home, ".booklydesk", "booklydesk.log") {
		t.Errorf("LogPath() = %q", logPath)
	}
}

func writeConfig(t *testing.T, home string, cfg Config) {
	t.Helper()
	dir := filepath.Join(home, ".booklydesk")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.json"), data, 0600); err != nil {
		t.Fatal(err)
	}
}

func TestLoadConfigProfiles(t *testing.T) {
	home := setHome(t)
	writeConfig(t, home, Config{
		Profiles: map[string]Profile{
			"staging": {Endpoint: "https://staging.example.com/chat", SessionID: "stage-1"},
			"direct":  {Backend: "OpenAI", Model: "gpt-4o"},
		},
		ActiveProfile: "missing",
	})

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	// Unknown active profile falls back to the first by name.
	if cfg.ActiveProfile != "direct" {
		t.Errorf("ActiveProfile = %q, want direct", cfg.ActiveProfile)
	}
	if cfg.GetBackend() != BackendOpenAI || cfg.GetModel() != "gpt-4o" {
		t.Errorf("backend = %q, model = %q", cfg.GetBackend(), cfg.GetModel())
	}
	if cfg.IsValid() {
		t.Error("openai profile without key reported valid")
	}

	if err := cfg.UseProfile("staging"); err != nil {
		t.Fatalf("UseProfile() error = %v", err)
	}
	if cfg.GetEndpoint() != "https://staging.example.com/chat" || cfg.GetSessionID() != "stage-1" {
		t.Errorf("endpoint = %q, session = %q", cfg.GetEndpoint(), cfg.GetSessionID())
	}
	if err := cfg.UseProfile("nope"); err == nil {
		t.Error("UseProfile() accepted unknown profile")
	}
}

func TestEnvAndFlagOverrides(t *testing.T) {
	setHome(t)
	t.Setenv("BOOKLYDESK_ENDPOINT", "http://env.example.com/chat")
	t.Setenv("OPENAI_API_KEY", "sk-env")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.GetEndpoint() != "http://env.example.com/chat" || cfg.GetAPIKey() != "sk-env" {
		t.Errorf("endpoint = %q, key = %q", cfg.GetEndpoint(), cfg.GetAPIKey())
	}

	cfg.Override("http://flag.example.com/chat", "")
	if cfg.GetEndpoint() != "http://flag.example.com/chat" || cfg.GetSessionID() != DefaultSessionID {
		t.Errorf("endpoint = %q, session = %q", cfg.GetEndpoint(), cfg.GetSessionID())
	}

	// Overrides stay out of the saved file.
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if got := cfg.Profiles["default"]; got.Endpoint != DefaultEndpoint || got.APIKey != "" {
		t.Errorf("saved profile = %+v", got)
	}
}

func TestLoadMockServer(t *testing.T) {
	t.Setenv("BOOKLYDESK_MOCK_ADDR", "")
	t.Setenv("ALLOWED_ORIGIN", "http://localhost:5173")
	t.Setenv("BOOKLYDESK_MOCK_RULES", "")

	got := LoadMockServer()
	if got.Addr != ":8000" || got.AllowedOrigin != "http://localhost:5173" || got.RulesPath != "" {
		t.Errorf("LoadMockServer() = %+v", got)
	}
}
