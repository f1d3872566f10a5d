/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package catalog stores block definitions (category, opcode, label, filter
// tags) in an embedded SQLite database. The block factory reads labels from
// it; the CLI imports order files into it.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"blockcanvas/internal/blockorder"
	applog "blockcanvas/internal/log"
	"blockcanvas/internal/version"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

// schemaVersion tracks the catalog schema. Bump it together with a migration step.
const schemaVersion = 2

// ErrNotFound is returned when a block definition does not exist.
var ErrNotFound = errors.New("block definition not found")

// Definition is one catalog row.
type Definition struct {
	Category string
	Opcode   string
	Label    string
	Tags     []string
}

// Catalog is an open block definition database.
type Catalog struct {
	db   *sql.DB
	path string
	log  *slog.Logger
}

// Open opens (creating if needed) the catalog at path. An empty path opens a
// private in-memory database.
func Open(ctx context.Context, path string) (*Catalog, error) {
	l := applog.WithOperation(applog.WithComponent("catalog"), "open").With(slog.String("path", path))
	dsn := ":memory:"
	path = strings.TrimSpace(path)
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			l.Error("create catalog dir failed", slog.Any("err", err))
			return nil, fmt.Errorf("create catalog dir: %w", err)
		}
		dsn = fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", filepath.ToSlash(path))
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection keeps the in-memory database alive and serializes writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if path != "" {
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
			_ = db.Close()
			l.Error("enable WAL failed", slog.Any("err", err))
			return nil, fmt.Errorf("enable WAL: %w", err)
		}
	}
	if err := ensureSchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure schema failed", slog.Any("err", err))
		return nil, err
	}
	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		l.Error("run migrations failed", slog.Any("err", err))
		return nil, err
	}
	l.Debug("catalog ready")
	return &Catalog{db: db, path: path, log: applog.WithComponent("catalog")}, nil
}

// Path is the database file, empty for in-memory catalogs.
func (c *Catalog) Path() string { return c.path }

// Close releases the database.
func (c *Catalog) Close() error { return c.db.Close() }

func ensureSchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS version (
			id          INTEGER PRIMARY KEY CHECK(id=1),
			schema      INTEGER NOT NULL,
			app         TEXT,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS block_defs (
			category TEXT NOT NULL,
			opcode   TEXT NOT NULL,
			label    TEXT NOT NULL,
			tags     TEXT NOT NULL DEFAULT '',
			position INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY(category, opcode)
		);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	now := time.Now().UTC().Format(time.RFC3339)
	appv := version.String()
	var cur int
	err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&cur)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// Fresh databases start at 1 and are migrated forward.
		if _, err := db.ExecContext(ctx, `INSERT INTO version (id, schema, app, created_at, updated_at) VALUES(1, 1, ?, ?, ?)`, appv, now, now); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	default:
		if _, err := db.ExecContext(ctx, `UPDATE version SET app=?, updated_at=? WHERE id=1`, appv, now); err != nil {
			return fmt.Errorf("update version: %w", err)
		}
	}
	return nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	var cur int
	if err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&cur); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	for cur < schemaVersion {
		next := cur + 1
		var stmts []string
		switch next {
		case 2:
			stmts = []string{`CREATE INDEX IF NOT EXISTS idx_block_defs_opcode ON block_defs(opcode);`}
		}
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", next, err)
		}
		for _, q := range stmts {
			if _, err := tx.ExecContext(ctx, q); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("migration %d stmt failed: %w", next, err)
			}
		}
		if _, err := tx.ExecContext(ctx, `UPDATE version SET schema=?, updated_at=? WHERE id=1`, next, time.Now().UTC().Format(time.RFC3339)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d update version: %w", next, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migration %d commit: %w", next, err)
		}
		cur = next
	}
	return nil
}

// SchemaVersion reports the schema version stored in the database.
func (c *Catalog) SchemaVersion(ctx context.Context) (int, error) {
	var v int
	if err := c.db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return v, nil
}

// Import upserts a definition for every block of o in one transaction and
// returns the number of rows written. Blocks without a label use their opcode.
func (c *Catalog) Import(ctx context.Context, o blockorder.Order) (int, error) {
	l := applog.WithOperation(c.log, "import")
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin import: %w", err)
	}
	const q = `INSERT INTO block_defs (category, opcode, label, tags, position) VALUES(?, ?, ?, ?, ?)
		ON CONFLICT(category, opcode) DO UPDATE SET label=excluded.label, tags=excluded.tags, position=excluded.position`
	n := 0
	for _, cat := range o.Categories {
		for _, it := range cat.Items {
			if it.Separator {
				continue
			}
			label := it.Label
			if label == "" {
				label = it.Opcode
			}
			if _, err := tx.ExecContext(ctx, q, cat.ID, it.Opcode, label, strings.Join(it.Filter, ","), n); err != nil {
				_ = tx.Rollback()
				l.Error("upsert failed", slog.String("opcode", it.Opcode), slog.Any("err", err))
				return 0, fmt.Errorf("upsert %s/%s: %w", cat.ID, it.Opcode, err)
			}
			n++
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	l.Info("catalog imported", slog.Int("blocks", n))
	return n, nil
}

// Put upserts a single definition.
func (c *Catalog) Put(ctx context.Context, d Definition) error {
	_, err := c.db.ExecContext(ctx, `INSERT INTO block_defs (category, opcode, label, tags) VALUES(?, ?, ?, ?)
		ON CONFLICT(category, opcode) DO UPDATE SET label=excluded.label, tags=excluded.tags`,
		d.Category, d.Opcode, d.Label, strings.Join(d.Tags, ","))
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", d.Category, d.Opcode, err)
	}
	return nil
}

// Get returns the definition of opcode in category, or ErrNotFound.
func (c *Catalog) Get(ctx context.Context, category, opcode string) (Definition, error) {
	d := Definition{Category: category, Opcode: opcode}
	var tags string
	err := c.db.QueryRowContext(ctx, `SELECT label, tags FROM block_defs WHERE category=? AND opcode=?`, category, opcode).Scan(&d.Label, &tags)
	if errors.Is(err, sql.ErrNoRows) {
		return Definition{}, fmt.Errorf("%s/%s: %w", category, opcode, ErrNotFound)
	}
	if err != nil {
		return Definition{}, fmt.Errorf("query definition: %w", err)
	}
	d.Tags = splitTags(tags)
	return d, nil
}

// Label returns the display label of a block.
func (c *Catalog) Label(ctx context.Context, category, opcode string) (string, error) {
	d, err := c.Get(ctx, category, opcode)
	if err != nil {
		return "", err
	}
	return d.Label, nil
}

// List returns the definitions of category in import order. An empty
// category lists every definition.
func (c *Catalog) List(ctx context.Context, category string) ([]Definition, error) {
	q := `SELECT category, opcode, label, tags FROM block_defs ORDER BY position, category, opcode`
	args := []any{}
	if category != "" {
		q = `SELECT category, opcode, label, tags FROM block_defs WHERE category=? ORDER BY position, opcode`
		args = append(args, category)
	}
	rows, err := c.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list definitions: %w", err)
	}
	defer rows.Close()
	var out []Definition
	for rows.Next() {
		var d Definition
		var tags string
		if err := rows.Scan(&d.Category, &d.Opcode, &d.Label, &tags); err != nil {
			return nil, fmt.Errorf("scan definition: %w", err)
		}
		d.Tags = splitTags(tags)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list definitions: %w", err)
	}
	return out, nil
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
