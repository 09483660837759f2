package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/marialclark/APIValidationExercise/internal/config"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

//go:embed sqlite/*.sql
var sqliteSchema embed.FS

const memoryPath = ":memory:"

func newSQLite(cfg *config.Config, logger *zerolog.Logger) (*Database, error) {
	db, err := OpenSQLite(context.Background(), cfg.Database.SQLitePath)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("driver", config.DriverSQLite).
		Str("path", cfg.Database.SQLitePath).
		Msg("connected to the database")

	return &Database{
		Driver: config.DriverSQLite,
		SQL:    db,
		log:    logger,
	}, nil
}

// OpenSQLite opens (or creates) the SQLite file at path and brings its schema
// up to date. ":memory:" is accepted and pinned to a single connection.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	dsn := "file::memory:?_foreign_keys=1"
	if path != memoryPath {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite dir: %w", err)
			}
		}
		dsn = fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=1", path)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if path == memoryPath {
		db.SetMaxOpenConns(1)
	}

	if err := applySQLiteSchema(ctx, db, path != memoryPath); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// applySQLiteSchema runs every embedded schema file newer than the version
// recorded in the meta table, in file name order.
func applySQLiteSchema(ctx context.Context, db *sql.DB, wal bool) error {
	if wal {
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
			return fmt.Errorf("enable WAL: %w", err)
		}
	}

	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);`); err != nil {
		return fmt.Errorf("create meta table: %w", err)
	}

	files, err := fs.Glob(sqliteSchema, "sqlite/*.sql")
	if err != nil {
		return fmt.Errorf("list sqlite schema: %w", err)
	}
	sort.Strings(files)

	var current int
	_ = db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key='schema_version';`).Scan(&current)
	if current >= len(files) {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, name := range files[current:] {
		stmt, err := fs.ReadFile(sqliteSchema, name)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx, string(stmt)); err != nil {
			return fmt.Errorf("apply %s: %w", name, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO meta(key, value) VALUES('schema_version', ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value;`,
		strconv.Itoa(len(files)),
	); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}

	return tx.Commit()
}

// SQLiteSchemaVersion reports the schema version recorded in the meta table.
func SQLiteSchemaVersion(ctx context.Context, db *sql.DB) (int, error) {
	var version int
	err := db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key='schema_version';`).Scan(&version)
	return version, err
}
