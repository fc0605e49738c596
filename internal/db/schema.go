package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema. Decimal quantities are stored as TEXT
// so they survive round trips exactly; timestamps are stored in UTC.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    username      TEXT NOT NULL COLLATE NOCASE,
    password_hash TEXT NOT NULL,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username ON users(username);

CREATE TABLE IF NOT EXISTS units (
    id      INTEGER PRIMARY KEY,
    symbol  TEXT NOT NULL COLLATE NOCASE,
    plural  TEXT COLLATE NOCASE,
    code    TEXT COLLATE NOCASE,
    measure INTEGER NOT NULL,
    convert TEXT NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_units_symbol ON units(symbol);
CREATE UNIQUE INDEX IF NOT EXISTS idx_units_plural ON units(plural) WHERE plural IS NOT NULL;
CREATE UNIQUE INDEX IF NOT EXISTS idx_units_code ON units(code) WHERE code IS NOT NULL;

CREATE TABLE IF NOT EXISTS items (
    id      INTEGER PRIMARY KEY,
    user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    name    TEXT NOT NULL COLLATE NOCASE,
    ident   TEXT NOT NULL,
    unit_id INTEGER NOT NULL REFERENCES units(id) ON DELETE RESTRICT,
    minimum TEXT NOT NULL DEFAULT '0',
    added   DATETIME NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_items_user_name ON items(user_id, name);
CREATE UNIQUE INDEX IF NOT EXISTS idx_items_user_ident ON items(user_id, ident);

CREATE TABLE IF NOT EXISTS records (
    id       INTEGER PRIMARY KEY,
    item_id  INTEGER NOT NULL REFERENCES items(id) ON DELETE CASCADE,
    quantity TEXT NOT NULL,
    added    DATETIME NOT NULL,
    note     TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_records_item_added ON records(item_id, added);

CREATE TABLE IF NOT EXISTS presets (
    id      INTEGER PRIMARY KEY,
    name    TEXT NOT NULL COLLATE NOCASE,
    measure INTEGER
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_presets_name ON presets(name);
`

// migrations is a list of SQL statements applied in order after schema
// creation. Each migration must be idempotent. Append new migrations at the
// end.
var migrations = []string{}

// Migrate creates the schema and runs any pending migrations.
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
