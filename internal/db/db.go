package db

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/balkashynov/focuslens/internal/logging"
	"github.com/balkashynov/focuslens/internal/models"
)

// MemoryPath opens a private in-memory database
const MemoryPath = ":memory:"

// Store is the entity store for projects and tasks. It is opened once and
// handed to every component; a Store obtained inside Transaction is bound to
// that transaction.
type Store struct {
	db    *gorm.DB
	now   func() time.Time
	log   *slog.Logger
	dbLog logger.LogLevel
	inTx  bool
}

// Option configures a Store
type Option func(*Store)

// WithClock replaces time.Now, which drives every "today" computation
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithLogger sets the logger for store events
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithSQLLogLevel sets gorm's own logger level
func WithSQLLogLevel(level logger.LogLevel) Option {
	return func(s *Store) {
		s.dbLog = level
	}
}

// Open opens (creating if needed) the SQLite database at path and runs migrations
func Open(path string, opts ...Option) (*Store, error) {
	s := &Store{
		now:   time.Now,
		log:   logging.Discard(),
		dbLog: logger.Silent, // Quiet by default
	}
	for _, opt := range opts {
		opt(s)
	}

	if path != MemoryPath && !strings.HasPrefix(path, "file:") {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(s.dbLog),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// One connection: SQLite has a single writer, and an in-memory database
	// lives and dies with its connection.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	s.db = db

	if err := s.runMigrations(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	if err := s.syncDayZone(context.Background()); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	s.log.Debug("store opened", "path", path)
	return s, nil
}

// runMigrations creates/updates the database schema
func (s *Store) runMigrations() error {
	return s.db.AutoMigrate(
		&models.Project{},
		&models.Task{},
		&setting{},
	)
}

// Close closes the database connection
func (s *Store) Close() error {
	if s == nil || s.db == nil || s.inTx {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Now returns the store's current time
func (s *Store) Now() time.Time {
	return s.now()
}

// Logger returns the store's logger
func (s *Store) Logger() *slog.Logger {
	return s.log
}

// Transaction runs fn atomically. fn must only use the Store it is given;
// returning an error rolls every write back. Nested calls use savepoints.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(gtx *gorm.DB) error {
		return fn(s.bind(gtx))
	})
}

func (s *Store) bind(gtx *gorm.DB) *Store {
	return &Store{
		db:    gtx,
		now:   s.now,
		log:   s.log,
		dbLog: s.dbLog,
		inTx:  true,
	}
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// ParseSQLLogLevel maps a config string to gorm's logger level
func ParseSQLLogLevel(level string) (logger.LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "silent":
		return logger.Silent, nil
	case "error":
		return logger.Error, nil
	case "warn":
		return logger.Warn, nil
	case "info":
		return logger.Info, nil
	}
	return logger.Silent, fmt.Errorf("unknown database log level %q", level)
}
