package database

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
)

// Migration is a single versioned schema change.
type Migration struct {
	Version     int
	Description string
	SQL         string
}

// GetMigrations returns all migrations for the given dialect.
func GetMigrations(dialect string) []Migration {
	if dialect == "postgres" {
		return getPostgresMigrations()
	}
	return getSQLiteMigrations()
}

func getPostgresMigrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "Create users table",
			SQL: `CREATE TABLE IF NOT EXISTS users (
				id VARCHAR(36) PRIMARY KEY,
				email VARCHAR(255) UNIQUE NOT NULL,
				password VARCHAR(255) NOT NULL,
				first_name VARCHAR(100) NOT NULL DEFAULT '',
				last_name VARCHAR(100) NOT NULL DEFAULT '',
				kind VARCHAR(20) NOT NULL DEFAULT 'personal',
				email_verified BOOLEAN NOT NULL DEFAULT FALSE,
				last_login_at TIMESTAMP WITH TIME ZONE,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				deleted_at TIMESTAMP WITH TIME ZONE
			)`,
		},
		{
			Version:     2,
			Description: "Create sessions table",
			SQL: `CREATE TABLE IF NOT EXISTS sessions (
				id VARCHAR(36) PRIMARY KEY,
				user_id VARCHAR(36) NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				token VARCHAR(1024) UNIQUE NOT NULL,
				user_agent VARCHAR(512) NOT NULL DEFAULT '',
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				expires_at TIMESTAMP WITH TIME ZONE NOT NULL
			)`,
		},
		{
			Version:     3,
			Description: "Create password_resets table",
			SQL: `CREATE TABLE IF NOT EXISTS password_resets (
				id VARCHAR(36) PRIMARY KEY,
				user_id VARCHAR(36) NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				token VARCHAR(255) UNIQUE NOT NULL,
				expires_at TIMESTAMP WITH TIME ZONE NOT NULL,
				used_at TIMESTAMP WITH TIME ZONE,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			)`,
		},
		{
			Version:     4,
			Description: "Create categories table",
			SQL: `CREATE TABLE IF NOT EXISTS categories (
				id VARCHAR(36) PRIMARY KEY,
				user_id VARCHAR(36) NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				name VARCHAR(255) NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				deleted_at TIMESTAMP WITH TIME ZONE
			)`,
		},
		{
			Version:     5,
			Description: "Create assets table",
			SQL: `CREATE TABLE IF NOT EXISTS assets (
				id VARCHAR(36) PRIMARY KEY,
				user_id VARCHAR(36) NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				category_id VARCHAR(36) REFERENCES categories(id) ON DELETE SET NULL,
				name VARCHAR(255) NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				serial_number VARCHAR(255) NOT NULL DEFAULT '',
				purchase_date TIMESTAMP WITH TIME ZONE,
				purchase_price DECIMAL(12,2),
				currency VARCHAR(3) NOT NULL DEFAULT '',
				condition VARCHAR(50) NOT NULL DEFAULT '',
				status VARCHAR(20) NOT NULL DEFAULT 'owned',
				listed_price DECIMAL(12,2),
				listed_at TIMESTAMP WITH TIME ZONE,
				value_pessimistic DECIMAL(12,2),
				value_realistic DECIMAL(12,2),
				value_optimistic DECIMAL(12,2),
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				deleted_at TIMESTAMP WITH TIME ZONE
			)`,
		},
		{
			Version:     6,
			Description: "Create asset_photos table",
			SQL: `CREATE TABLE IF NOT EXISTS asset_photos (
				id VARCHAR(36) PRIMARY KEY,
				asset_id VARCHAR(36) NOT NULL REFERENCES assets(id) ON DELETE CASCADE,
				key VARCHAR(1024) NOT NULL,
				content_type VARCHAR(100) NOT NULL DEFAULT '',
				size BIGINT NOT NULL DEFAULT 0,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			)`,
		},
		{
			Version:     7,
			Description: "Create indexes",
			SQL: `CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
				CREATE INDEX IF NOT EXISTS idx_sessions_token ON sessions(token);
				CREATE INDEX IF NOT EXISTS idx_sessions_user_id ON sessions(user_id);
				CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at);
				CREATE INDEX IF NOT EXISTS idx_password_resets_token ON password_resets(token);
				CREATE INDEX IF NOT EXISTS idx_categories_user_id ON categories(user_id);
				CREATE INDEX IF NOT EXISTS idx_assets_user_id ON assets(user_id);
				CREATE INDEX IF NOT EXISTS idx_assets_category_id ON assets(category_id);
				CREATE INDEX IF NOT EXISTS idx_assets_status ON assets(status);
				CREATE INDEX IF NOT EXISTS idx_asset_photos_asset_id ON asset_photos(asset_id);`,
		},
	}
}

func getSQLiteMigrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "Create users table",
			SQL: `CREATE TABLE IF NOT EXISTS users (
				id TEXT PRIMARY KEY,
				email TEXT UNIQUE NOT NULL,
				password TEXT NOT NULL,
				first_name TEXT NOT NULL DEFAULT '',
				last_name TEXT NOT NULL DEFAULT '',
				kind TEXT NOT NULL DEFAULT 'personal',
				email_verified BOOLEAN NOT NULL DEFAULT 0,
				last_login_at DATETIME,
				created_at DATETIME NOT NULL,
				updated_at DATETIME NOT NULL,
				deleted_at DATETIME
			)`,
		},
		{
			Version:     2,
			Description: "Create sessions table",
			SQL: `CREATE TABLE IF NOT EXISTS sessions (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL,
				token TEXT UNIQUE NOT NULL,
				user_agent TEXT NOT NULL DEFAULT '',
				created_at DATETIME NOT NULL,
				expires_at DATETIME NOT NULL,
				FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
			)`,
		},
		{
			Version:     3,
			Description: "Create password_resets table",
			SQL: `CREATE TABLE IF NOT EXISTS password_resets (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL,
				token TEXT UNIQUE NOT NULL,
				expires_at DATETIME NOT NULL,
				used_at DATETIME,
				created_at DATETIME NOT NULL,
				FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
			)`,
		},
		{
			Version:     4,
			Description: "Create categories table",
			SQL: `CREATE TABLE IF NOT EXISTS categories (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL,
				name TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				created_at DATETIME NOT NULL,
				updated_at DATETIME NOT NULL,
				deleted_at DATETIME,
				FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
			)`,
		},
		{
			Version:     5,
			Description: "Create assets table",
			SQL: `CREATE TABLE IF NOT EXISTS assets (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL,
				category_id TEXT,
				name TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				serial_number TEXT NOT NULL DEFAULT '',
				purchase_date DATETIME,
				purchase_price REAL,
				currency TEXT NOT NULL DEFAULT '',
				condition TEXT NOT NULL DEFAULT '',
				status TEXT NOT NULL DEFAULT 'owned',
				listed_price REAL,
				listed_at DATETIME,
				value_pessimistic REAL,
				value_realistic REAL,
				value_optimistic REAL,
				created_at DATETIME NOT NULL,
				updated_at DATETIME NOT NULL,
				deleted_at DATETIME,
				FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
				FOREIGN KEY (category_id) REFERENCES categories(id) ON DELETE SET NULL
			)`,
		},
		{
			Version:     6,
			Description: "Create asset_photos table",
			SQL: `CREATE TABLE IF NOT EXISTS asset_photos (
				id TEXT PRIMARY KEY,
				asset_id TEXT NOT NULL,
				key TEXT NOT NULL,
				content_type TEXT NOT NULL DEFAULT '',
				size INTEGER NOT NULL DEFAULT 0,
				created_at DATETIME NOT NULL,
				FOREIGN KEY (asset_id) REFERENCES assets(id) ON DELETE CASCADE
			)`,
		},
		{
			Version:     7,
			Description: "Create indexes",
			SQL: `CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
				CREATE INDEX IF NOT EXISTS idx_sessions_token ON sessions(token);
				CREATE INDEX IF NOT EXISTS idx_sessions_user_id ON sessions(user_id);
				CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at);
				CREATE INDEX IF NOT EXISTS idx_password_resets_token ON password_resets(token);
				CREATE INDEX IF NOT EXISTS idx_categories_user_id ON categories(user_id);
				CREATE INDEX IF NOT EXISTS idx_assets_user_id ON assets(user_id);
				CREATE INDEX IF NOT EXISTS idx_assets_category_id ON assets(category_id);
				CREATE INDEX IF NOT EXISTS idx_assets_status ON assets(status);
				CREATE INDEX IF NOT EXISTS idx_asset_photos_asset_id ON asset_photos(asset_id);`,
		},
	}
}

func createMigrationsTable(conn *sql.DB, dialect string) error {
	var query string
	if dialect == "postgres" {
		query = `CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		)`
	} else {
		query = `CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`
	}
	_, err := conn.Exec(query)
	return err
}

func getAppliedMigrations(conn *sql.DB) (map[int]bool, error) {
	applied := make(map[int]bool)

	rows, err := conn.Query("SELECT version FROM schema_migrations")
	if err != nil {
		return applied, err
	}
	defer rows.Close()

	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return applied, err
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

func recordMigration(conn *sql.DB, dialect string, version int) error {
	var query string
	if dialect == "postgres" {
		query = "INSERT INTO schema_migrations (version) VALUES ($1)"
	} else {
		query = "INSERT INTO schema_migrations (version) VALUES (?)"
	}
	_, err := conn.Exec(query, version)
	return err
}

// RunMigrations applies all pending migrations for the dialect.
func RunMigrations(conn *sql.DB, dialect string) error {
	if err := createMigrationsTable(conn, dialect); err != nil {
		return fmt.Errorf("failed to create migrations table: %v", err)
	}

	applied, err := getAppliedMigrations(conn)
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %v", err)
	}

	for _, migration := range GetMigrations(dialect) {
		if applied[migration.Version] {
			continue
		}

		log.Printf("Applying migration %d: %s", migration.Version, migration.Description)

		statements := strings.Split(migration.SQL, ";")
		for _, stmt := range statements {
			stmt = strings.TrimSpace(stmt)
			if stmt == "" {
				continue
			}
			if _, err := conn.Exec(stmt); err != nil {
				return fmt.Errorf("failed to apply migration %d: %v", migration.Version, err)
			}
		}

		if err := recordMigration(conn, dialect, migration.Version); err != nil {
			return fmt.Errorf("failed to record migration %d: %v", migration.Version, err)
		}
	}

	return nil
}
