package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func observed(level zap.AtomicLevel) (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level.Level())
	return &Logger{SugaredLogger: zap.New(core).Sugar()}, logs
}

func TestRedactsSecretKeys(t *testing.T) {
	log, logs := observed(zap.NewAtomicLevelAt(zap.DebugLevel))

	log.Info("login", "username", "ada", "password", "hunter2", "api_key", "sk-123")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["username"] != "ada" {
		t.Errorf("username = %v, want ada", fields["username"])
	}
	for _, k := range []string{"password", "api_key"} {
		if fields[k] != "[REDACTED]" {
			t.Errorf("%s = %v, want [REDACTED]", k, fields[k])
		}
	}
}

func TestRedactsJWTValues(t *testing.T) {
	log, logs := observed(zap.NewAtomicLevelAt(zap.DebugLevel))

	log.Debug("auth", "header", "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxMjM0NTY3ODkwIn0.sig")

	if got := logs.All()[0].ContextMap()["header"]; got != "[REDACTED]" {
		t.Errorf("header = %v, want [REDACTED]", got)
	}
}

func TestWithCarriesFields(t *testing.T) {
	log, logs := observed(zap.NewAtomicLevelAt(zap.DebugLevel))

	log.With("component", "quizgen").Warn("skipped")

	if got := logs.All()[0].ContextMap()["component"]; got != "quizgen" {
		t.Errorf("component = %v, want quizgen", got)
	}
}

func TestDebugEnabled(t *testing.T) {
	debug, _ := observed(zap.NewAtomicLevelAt(zap.DebugLevel))
	if !debug.DebugEnabled() {
		t.Error("expected debug enabled")
	}
	warn, _ := observed(zap.NewAtomicLevelAt(zap.WarnLevel))
	if warn.DebugEnabled() {
		t.Error("expected debug disabled at warn level")
	}
	if Nop().DebugEnabled() {
		t.Error("expected debug disabled for nop logger")
	}
}

func TestNewRejectsUnknownMode(t *testing.T) {
	if _, err := New("verbose-ish"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestTokenCountsAreNotRedacted(t *testing.T) {
	log, logs := observed(zap.NewAtomicLevelAt(zap.DebugLevel))

	log.Info("llm call", "input_tokens", 120, "output_tokens", 40, "token", "abc")

	fields := logs.All()[0].ContextMap()
	if fields["input_tokens"] != int64(120) {
		t.Errorf("input_tokens = %v, want 120", fields["input_tokens"])
	}
	if fields["output_tokens"] != int64(40) {
		t.Errorf("output_tokens = %v, want 40", fields["output_tokens"])
	}
	if fields["token"] != "[REDACTED]" {
		t.Errorf("token = %v, want [REDACTED]", fields["token"])
	}
}
