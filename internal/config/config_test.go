package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
server:
  addr: ":9090"
  cors_origins: ["https://quiz.example"]
quiz:
  questions: 3
  verbose: true
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("addr = %q, want :9090", cfg.Server.Addr)
	}
	if len(cfg.Server.CORSOrigins) != 1 || cfg.Server.CORSOrigins[0] != "https://quiz.example" {
		t.Errorf("cors origins = %v", cfg.Server.CORSOrigins)
	}
	if cfg.Quiz.Questions != 3 || !cfg.Quiz.Verbose {
		t.Errorf("quiz = %+v", cfg.Quiz)
	}
	// Untouched keys keep their defaults.
	if cfg.Quiz.MaxTokens != 2048 {
		t.Errorf("max tokens = %d, want default 2048", cfg.Quiz.MaxTokens)
	}
	if cfg.Log.Mode != "dev" {
		t.Errorf("log mode = %q, want dev", cfg.Log.Mode)
	}
}

func TestParseEmptyDocument(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Quiz.Questions != 5 {
		t.Errorf("questions = %d, want 5", cfg.Quiz.Questions)
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("quiz:\n  questionz: 3\n"))
	if err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestParseRejectsMultipleDocuments(t *testing.T) {
	_, err := Parse([]byte("log:\n  mode: dev\n---\nlog:\n  mode: prod\n"))
	if err == nil || !strings.Contains(err.Error(), "multiple YAML documents") {
		t.Fatalf("err = %v, want multiple documents error", err)
	}
}

func TestLoadAppliesEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "studydesk.yaml")
	if err := os.WriteFile(path, []byte("server:\n  addr: \":7000\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("STUDYDESK_ADDR", ":7001")
	t.Setenv("STUDYDESK_CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("STUDYDESK_QUIZ_VERBOSE", "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":7001" {
		t.Errorf("addr = %q, want env override :7001", cfg.Server.Addr)
	}
	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[1] != "https://b.example" {
		t.Errorf("cors origins = %v", cfg.Server.CORSOrigins)
	}
	if !cfg.Quiz.Verbose {
		t.Error("expected verbose from env")
	}
}

func TestLoadRejectsBadEnvBool(t *testing.T) {
	t.Setenv("STUDYDESK_QUIZ_VERBOSE", "sometimes")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for invalid bool")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"zero questions", func(c *Config) { c.Quiz.Questions = 0 }, false},
		{"negative max tokens", func(c *Config) { c.Quiz.MaxTokens = -1 }, false},
		{"temperature too high", func(c *Config) { c.Quiz.Temperature = 2.5 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && err == nil {
				t.Error("expected error")
			}
		})
	}
}
