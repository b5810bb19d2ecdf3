package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.Gorm() == nil {
		t.Fatal("expected non-nil gorm handle")
	}
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so we skip journal_mode here. It is tested with file-based DBs.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestWALModeFileDB(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	var mode string
	if err := s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("PRAGMA journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want %q", mode, "wal")
	}
}

func TestDefaultDBPathFromEnv(t *testing.T) {
	dir := t.TempDir()
	want := filepath.Join(dir, "sub", "custom.db")
	t.Setenv("STUDYDESK_DB", want)

	got, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("DefaultDBPath: %v", err)
	}
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDefaultDBPathXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("STUDYDESK_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)

	got, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("DefaultDBPath: %v", err)
	}
	want := filepath.Join(dir, "studydesk", "studydesk.db")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestIsPostgresDSN(t *testing.T) {
	tests := []struct {
		dsn  string
		want bool
	}{
		{"postgres://u:p@localhost:5432/studydesk", true},
		{"postgresql://localhost/studydesk", true},
		{"/var/lib/studydesk.db", false},
		{"file::memory:?cache=shared", false},
	}
	for _, tt := range tests {
		if got := IsPostgresDSN(tt.dsn); got != tt.want {
			t.Errorf("IsPostgresDSN(%q) = %v, want %v", tt.dsn, got, tt.want)
		}
	}
}

func TestAppendAndQueryLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for i, purpose := range []string{"quiz-gen", "quiz-gen", "other"} {
		err := repo.AppendLLMRequest(ctx, LLMRequestEventData{
			Provider:     "openai",
			Model:        "gpt-4o-mini",
			Purpose:      purpose,
			InputTokens:  100 * (i + 1),
			OutputTokens: 10,
			LatencyMs:    int64(200 * (i + 1)),
			Success:      true,
			RequestBody:  "[user]\nhello",
			ResponseBody: "[]",
		})
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 2})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].ID <= events[1].ID {
		t.Error("expected newest first")
	}
	if events[0].Timestamp.IsZero() {
		t.Error("expected timestamp to be set")
	}

	filtered, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "quiz-gen"})
	if err != nil {
		t.Fatalf("query purpose: %v", err)
	}
	if len(filtered) != 2 {
		t.Errorf("got %d quiz-gen events, want 2", len(filtered))
	}

	ev, err := repo.GetLLMEvent(ctx, events[0].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ev == nil || ev.RequestBody != "[user]\nhello" {
		t.Fatalf("unexpected event: %+v", ev)
	}

	missing, err := repo.GetLLMEvent(ctx, 9999)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing event")
	}
}

func TestLLMUsageAggregates(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	data := []LLMRequestEventData{
		{Model: "gpt-4o-mini", Purpose: "quiz-gen", InputTokens: 100, OutputTokens: 50, LatencyMs: 100},
		{Model: "gpt-4o-mini", Purpose: "quiz-gen", InputTokens: 200, OutputTokens: 50, LatencyMs: 300},
		{Model: "gemini-2.0-flash", Purpose: "other", InputTokens: 10, OutputTokens: 5, LatencyMs: 50},
	}
	for _, d := range data {
		if err := repo.AppendLLMRequest(ctx, d); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("by purpose: %v", err)
	}
	if len(byPurpose) != 2 {
		t.Fatalf("got %d purposes, want 2", len(byPurpose))
	}
	quiz := byPurpose[0]
	if quiz.Purpose != "quiz-gen" || quiz.Calls != 2 || quiz.InputTokens != 300 || quiz.OutputTokens != 100 {
		t.Errorf("unexpected quiz-gen usage: %+v", quiz)
	}
	if quiz.AvgLatencyMs != 200 {
		t.Errorf("avg latency = %d, want 200", quiz.AvgLatencyMs)
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("by model: %v", err)
	}
	if len(byModel) != 2 || byModel[0].Model != "gpt-4o-mini" || byModel[0].Calls != 2 {
		t.Errorf("unexpected model usage: %+v", byModel)
	}
}

func TestErrNotFoundWrapping(t *testing.T) {
	s := openTestStore(t)
	_, err := s.StudyRepo().Conversation(context.Background(), 42)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestTimestampsUseCreateTime(t *testing.T) {
	s := openTestStore(t)
	before := time.Now().Add(-time.Minute)
	conv := &StudyConversation{Name: "Go channels"}
	if err := s.StudyRepo().CreateConversation(context.Background(), conv); err != nil {
		t.Fatalf("create: %v", err)
	}
	if conv.CreatedAt.Before(before) {
		t.Errorf("created_at %v not set on insert", conv.CreatedAt)
	}
}
