package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Store wraps the gorm DB and provides access to repositories.
type Store struct {
	db *gorm.DB
}

// Open connects to the database identified by dsn and runs auto-migration.
// A dsn starting with "postgres://" or containing "host=" selects the
// Postgres driver; anything else is treated as a SQLite file path.
func Open(dsn string) (*Store, error) {
	var dialector gorm.Dialector
	if strings.HasPrefix(dsn, "postgres://") || strings.Contains(dsn, "host=") {
		dialector = postgres.Open(dsn)
	} else {
		if err := ensureDir(dsn); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.AutoMigrate(
		&User{},
		&UserToken{},
		&QuizResult{},
		&LLMRequestEvent{},
	); err != nil {
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	return &Store{db: db}, nil
}

// DB returns the underlying *gorm.DB for raw queries.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// UserRepo returns a UserRepo backed by this store.
func (s *Store) UserRepo() UserRepo {
	return &userRepo{db: s.db}
}

// TokenRepo returns a TokenRepo backed by this store.
func (s *Store) TokenRepo() TokenRepo {
	return &tokenRepo{db: s.db}
}

// ResultRepo returns a ResultRepo backed by this store.
func (s *Store) ResultRepo() ResultRepo {
	return &resultRepo{db: s.db}
}

// LLMEventRepo returns an LLMEventRepo backed by this store.
func (s *Store) LLMEventRepo() LLMEventRepo {
	return &llmEventRepo{db: s.db}
}

// DefaultDSN resolves the database DSN in priority order:
// 1. QUIZLER_DB environment variable (SQLite path or Postgres DSN)
// 2. $XDG_DATA_HOME/quizler/quizler.db
// 3. ~/.local/share/quizler/quizler.db
func DefaultDSN() (string, error) {
	if p := os.Getenv("QUIZLER_DB"); p != "" {
		return p, nil
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	return filepath.Join(dataHome, "quizler", "quizler.db"), nil
}

// ensureDir creates the parent directory of path if it doesn't exist.
func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
