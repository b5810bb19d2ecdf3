package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Store holds the gorm handle and provides access to repositories.
type Store struct {
	db    *gorm.DB
	sqlDB *sql.DB
}

// Open connects to dsn and runs auto-migration. A postgres:// or
// postgresql:// URL selects PostgreSQL; anything else is treated as a
// SQLite path or URI, opened with the pure Go driver and recommended pragmas.
func Open(dsn string) (*Store, error) {
	cfg := &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	}

	var (
		db     *gorm.DB
		err    error
		isLite = !IsPostgresDSN(dsn)
	)
	if isLite {
		conn, openErr := sql.Open("sqlite", dsn)
		if openErr != nil {
			return nil, fmt.Errorf("open database: %w", openErr)
		}
		// A single connection keeps pragmas and in-memory databases consistent.
		conn.SetMaxOpenConns(1)
		if err := applyPragmas(conn); err != nil {
			conn.Close()
			return nil, fmt.Errorf("apply pragmas: %w", err)
		}
		db, err = gorm.Open(sqlite.New(sqlite.Config{DriverName: "sqlite", Conn: conn}), cfg)
	} else {
		db, err = gorm.Open(postgres.Open(dsn), cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}

	if err := db.AutoMigrate(
		&StudyConversation{},
		&StudyQuestion{},
		&LLMRequestEvent{},
		&User{},
		&UserActivity{},
		&Project{},
		&Task{},
		&TaskHistory{},
	); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	return &Store{db: db, sqlDB: sqlDB}, nil
}

// IsPostgresDSN reports whether dsn addresses a PostgreSQL server.
func IsPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// Gorm returns the underlying gorm handle.
func (s *Store) Gorm() *gorm.DB {
	return s.db
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.sqlDB
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.sqlDB.Close()
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.sqlDB.PingContext(ctx)
}

// EventRepo returns the LLM event repository.
func (s *Store) EventRepo() EventRepo {
	return &eventRepo{db: s.db}
}

// StudyRepo returns the study conversation repository.
func (s *Store) StudyRepo() StudyRepo {
	return &studyRepo{db: s.db}
}

// ProjectRepo returns the user/project/task repository.
func (s *Store) ProjectRepo() ProjectRepo {
	return &projectRepo{db: s.db}
}

// applyPragmas configures SQLite for optimal single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. STUDYDESK_DB environment variable
// 2. $XDG_DATA_HOME/studydesk/studydesk.db
// 3. ~/.local/share/studydesk/studydesk.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("STUDYDESK_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "studydesk", "studydesk.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
// URIs and PostgreSQL URLs are left alone.
func EnsureDir(path string) error {
	if IsPostgresDSN(path) || strings.HasPrefix(path, "file:") {
		return nil
	}
	return os.MkdirAll(filepath.Dir(path), 0o755)
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
