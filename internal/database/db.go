package database

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/OliveCh12/assetsync-backend/internal/config"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// DB wraps the SQL connection together with the active dialect. It is
// opened once by the composition root and handed to every component that
// needs persistence.
type DB struct {
	conn    *sql.DB
	dialect string // "postgres" or "sqlite"
}

// Open establishes the database connection, verifies it and runs pending
// migrations. The caller owns the returned handle and must Close it on
// shutdown.
func Open(cfg *config.Config) (*DB, error) {
	var conn *sql.DB
	var err error

	switch cfg.Database.Type {
	case "postgres":
		conn, err = openPostgres(cfg)
	case "sqlite", "":
		conn, err = openSQLite(cfg)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Database.Type)
	}
	if err != nil {
		return nil, err
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %v", err)
	}

	db := &DB{conn: conn, dialect: cfg.Database.Type}
	if db.dialect == "" {
		db.dialect = "sqlite"
	}

	if err := RunMigrations(conn, db.dialect); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	log.Printf("Database initialized (%s)", db.dialect)
	return db, nil
}

func openPostgres(cfg *config.Config) (*sql.DB, error) {
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
		cfg.Database.SSLMode,
	)

	conn, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open PostgreSQL connection: %v", err)
	}

	conn.SetMaxOpenConns(cfg.Database.MaxConns)
	conn.SetMaxIdleConns(cfg.Database.MaxIdle)
	conn.SetConnMaxLifetime(time.Hour)
	return conn, nil
}

func openSQLite(cfg *config.Config) (*sql.DB, error) {
	if cfg.Database.Path != ":memory:" {
		dataDir := filepath.Dir(cfg.Database.Path)
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %v", err)
		}
	}

	conn, err := sql.Open("sqlite3", cfg.Database.Path+"?_journal=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %v", err)
	}

	// SQLite supports a single writer.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	return conn, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// Conn exposes the raw connection, used by tests and the composition root.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// GenerateID returns a new row ID. IDs are generated app-side so both
// dialects share one code path.
func GenerateID() string {
	return uuid.NewString()
}
