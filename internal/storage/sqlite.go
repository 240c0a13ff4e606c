package storage

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lachiem1/budgetcharts/internal/auth"
)

type Mode string

const (
	ModePlain  Mode = "plain"
	ModeSecure Mode = "secure"
)

const schemaVersion = 3

type Config struct {
	Mode Mode
	Path string
}

// Open resolves the database location from the environment and opens it.
func Open(ctx context.Context) (*sql.DB, Config, error) {
	cfg, err := configFromEnv()
	if err != nil {
		return nil, Config{}, err
	}
	db, err := OpenWith(ctx, cfg)
	if err != nil {
		return nil, Config{}, err
	}
	return db, cfg, nil
}

// OpenWith opens the ledger at cfg.Path and brings its schema up to date.
func OpenWith(ctx context.Context, cfg Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, errors.New("open ledger db: empty path")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o700); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	var (
		db  *sql.DB
		err error
	)
	switch cfg.Mode {
	case ModeSecure:
		if !secureSQLiteSupported() {
			return nil, fmt.Errorf(
				"secure mode requires a sqlcipher-enabled build; rebuild with '-tags sqlcipher'",
			)
		}
		key, created, kerr := ensureDBKey()
		if kerr != nil {
			return nil, fmt.Errorf("ensure secure db key: %w", kerr)
		}
		if created {
			exists, herr := hasLocalDBFiles(cfg.Path)
			if herr != nil {
				return nil, fmt.Errorf("check db files: %w", herr)
			}
			// A db encrypted under a lost key is unreadable.
			if exists {
				if err := resetLocalDBFiles(cfg.Path); err != nil {
					return nil, fmt.Errorf("reset db after key creation: %w", err)
				}
			}
		}
		db, err = openSecureSQLite(cfg.Path, key)
	case ModePlain, "":
		db, err = openPlainSQLite(cfg.Path)
	default:
		return nil, fmt.Errorf("open ledger db: unknown mode %q", cfg.Mode)
	}
	if err != nil {
		return nil, err
	}

	if err := runMigrations(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Wipe removes the database file and its WAL and shared-memory companions.
func Wipe(cfg Config) error {
	if strings.TrimSpace(cfg.Path) == "" {
		return errors.New("wipe ledger db: empty path")
	}
	if err := resetLocalDBFiles(cfg.Path); err != nil {
		return fmt.Errorf("wipe local db files: %w", err)
	}
	return nil
}

// ResolveConfig applies the environment on top of a configured path and mode.
func ResolveConfig(path string, mode Mode) (Config, error) {
	cfg, err := configFromEnv()
	if err != nil {
		return Config{}, err
	}
	if strings.TrimSpace(os.Getenv("BUDGETCHARTS_DB_PATH")) == "" && strings.TrimSpace(path) != "" {
		cfg.Path = path
	}
	if strings.TrimSpace(os.Getenv("BUDGETCHARTS_DB_MODE")) == "" && mode != "" {
		cfg.Mode = mode
	}
	return cfg, nil
}

func configFromEnv() (Config, error) {
	mode := ModePlain
	if secureSQLiteSupported() {
		mode = ModeSecure
	}
	if raw := strings.ToLower(strings.TrimSpace(os.Getenv("BUDGETCHARTS_DB_MODE"))); raw != "" {
		switch Mode(raw) {
		case ModePlain, ModeSecure:
			mode = Mode(raw)
		default:
			return Config{}, fmt.Errorf("BUDGETCHARTS_DB_MODE: unknown mode %q", raw)
		}
	}

	if dbPath := strings.TrimSpace(os.Getenv("BUDGETCHARTS_DB_PATH")); dbPath != "" {
		return Config{Mode: mode, Path: dbPath}, nil
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return Config{}, fmt.Errorf("resolve user config directory: %w", err)
	}
	return Config{
		Mode: mode,
		Path: filepath.Join(configDir, "budgetcharts", "ledger.db"),
	}, nil
}

func ensureDBKey() (key string, created bool, err error) {
	key, err = auth.LoadDBKey()
	if err == nil && strings.TrimSpace(key) != "" {
		return key, false, nil
	}

	newKey, err := generateRandomKey()
	if err != nil {
		return "", false, err
	}
	if err := auth.SaveDBKey(newKey); err != nil {
		return "", false, err
	}
	return newKey, true, nil
}

func generateRandomKey() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate random bytes: %w", err)
	}
	return base64.RawStdEncoding.EncodeToString(buf), nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	const bootstrapSchema = `
CREATE TABLE IF NOT EXISTS schema_migrations (
  id INTEGER PRIMARY KEY CHECK (id = 1),
  version INTEGER NOT NULL
);

INSERT OR IGNORE INTO schema_migrations (id, version) VALUES (1, 1);
`
	if _, err := db.ExecContext(ctx, bootstrapSchema); err != nil {
		return fmt.Errorf("run sqlite migrations: %w", err)
	}

	var currentVersion int
	if err := db.QueryRowContext(ctx, "SELECT version FROM schema_migrations WHERE id = 1").Scan(&currentVersion); err != nil {
		return fmt.Errorf("read sqlite schema version: %w", err)
	}

	if currentVersion > schemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported version %d", currentVersion, schemaVersion)
	}
	if currentVersion < 2 {
		if err := applyV2Migrations(ctx, db); err != nil {
			return err
		}
		currentVersion = 2
	}
	if currentVersion < 3 {
		if err := applyV3Migrations(ctx, db); err != nil {
			return err
		}
	}
	return nil
}

func applyV2Migrations(ctx context.Context, db *sql.DB) (err error) {
	const schema = `
CREATE TABLE IF NOT EXISTS transactions (
  id TEXT PRIMARY KEY,
  occurred_on TEXT NOT NULL,
  kind TEXT NOT NULL CHECK (kind IN ('income','outlay')),
  category TEXT NOT NULL,
  description TEXT NOT NULL,
  amount_value TEXT NOT NULL,
  amount_value_in_base_units INTEGER NOT NULL CHECK (amount_value_in_base_units >= 0),
  tax_rate TEXT NOT NULL DEFAULT '0',
  created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transactions_occurred_on ON transactions(occurred_on);
CREATE INDEX IF NOT EXISTS idx_transactions_kind ON transactions(kind);

CREATE TABLE IF NOT EXISTS tax_rates (
  name TEXT PRIMARY KEY,
  rate TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
`
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin sqlite migration v2 transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("run sqlite v2 migrations: %w", err)
	}
	if _, err = tx.ExecContext(ctx, "UPDATE schema_migrations SET version = 2 WHERE id = 1"); err != nil {
		return fmt.Errorf("update sqlite schema version to 2: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit sqlite v2 migrations: %w", err)
	}
	return nil
}

// applyV3Migrations adds category_root, the first segment of a
// "Food/Groceries" style category path, used by the breakdown chart.
func applyV3Migrations(ctx context.Context, db *sql.DB) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin sqlite migration v3 transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	hasRoot, err := tableHasColumn(ctx, tx, "transactions", "category_root")
	if err != nil {
		return err
	}
	if !hasRoot {
		if _, err = tx.ExecContext(
			ctx,
			"ALTER TABLE transactions ADD COLUMN category_root TEXT NOT NULL DEFAULT ''",
		); err != nil {
			return fmt.Errorf("add transactions.category_root column: %w", err)
		}
	}
	if _, err = tx.ExecContext(
		ctx,
		`UPDATE transactions
		 SET category_root = CASE
		   WHEN instr(category, '/') > 0 THEN trim(substr(category, 1, instr(category, '/') - 1))
		   ELSE category
		 END
		 WHERE category_root = ''`,
	); err != nil {
		return fmt.Errorf("backfill transactions.category_root: %w", err)
	}
	if _, err = tx.ExecContext(
		ctx,
		"CREATE INDEX IF NOT EXISTS idx_transactions_category_root ON transactions(category_root)",
	); err != nil {
		return fmt.Errorf("create transactions category_root index: %w", err)
	}
	if _, err = tx.ExecContext(ctx, "UPDATE schema_migrations SET version = 3 WHERE id = 1"); err != nil {
		return fmt.Errorf("update sqlite schema version to 3: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit sqlite v3 migrations: %w", err)
	}
	return nil
}

func tableHasColumn(ctx context.Context, tx *sql.Tx, tableName, columnName string) (bool, error) {
	rows, err := tx.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", tableName))
	if err != nil {
		return false, fmt.Errorf("query table info for %s: %w", tableName, err)
	}
	defer rows.Close()

	for rows.Next() {
		var cid int
		var name string
		var ctype sql.NullString
		var notNull int
		var defaultValue sql.NullString
		var pk int
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &defaultValue, &pk); err != nil {
			return false, fmt.Errorf("scan table info for %s: %w", tableName, err)
		}
		if name == columnName {
			return true, nil
		}
	}
	if err := rows.Err(); err != nil {
		return false, fmt.Errorf("read table info rows for %s: %w", tableName, err)
	}
	return false, nil
}

func localDBFiles(path string) []string {
	return []string{path, path + "-wal", path + "-shm"}
}

func hasLocalDBFiles(path string) (bool, error) {
	for _, p := range localDBFiles(path) {
		_, err := os.Stat(p)
		if err == nil {
			return true, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return false, err
		}
	}
	return false, nil
}

func resetLocalDBFiles(path string) error {
	for _, p := range localDBFiles(path) {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}
