package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"time"

	"outline-cli/internal/model"

	_ "modernc.org/sqlite"
)

func (s Store) sqlitePath() string {
	return filepath.Join(s.Dir, sqliteFileName)
}

func (s Store) openSQLite(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.sqlitePath())
	if err != nil {
		return nil, err
	}
	// Pragmas for multi-process local usage. WAL enables one writer +
	// many readers; busy_timeout avoids "database is locked" flakiness
	// when the TUI and a scripted command touch the same workspace.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := s.migrateSQLite(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func (s Store) migrateSQLite(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			created_at_unixms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS blocks (
			id TEXT PRIMARY KEY,
			document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
			type TEXT NOT NULL,
			content TEXT NOT NULL,
			level INTEGER NOT NULL,
			parent_id TEXT,
			collapsed INTEGER NOT NULL DEFAULT 0,
			seq INTEGER NOT NULL,
			created_at_unixms INTEGER NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_blocks_doc_seq ON blocks(document_id, seq);`,
	}
	for _, q := range stmts {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

// LoadSQLite loads the full workspace state.
func (s Store) LoadSQLite(ctx context.Context) (*DB, error) {
	sdb, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer sdb.Close()

	out := &DB{Version: 1}

	rows, err := sdb.QueryContext(ctx, `SELECT id, name, created_at_unixms FROM documents ORDER BY created_at_unixms, id`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var d model.Document
		var created int64
		if err := rows.Scan(&d.ID, &d.Name, &created); err != nil {
			_ = rows.Close()
			return nil, err
		}
		d.CreatedAt = time.UnixMilli(created).UTC()
		out.Documents = append(out.Documents, d)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	_ = rows.Close()

	rows, err = sdb.QueryContext(ctx, `SELECT id, document_id, type, content, level, parent_id, collapsed, seq, created_at_unixms, updated_at_unixms FROM blocks ORDER BY document_id, seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var b model.Block
		var parent sql.NullString
		var collapsed int
		var created, updated int64
		if err := rows.Scan(&b.ID, &b.DocumentID, &b.Type, &b.Content, &b.Level, &parent, &collapsed, &b.Seq, &created, &updated); err != nil {
			return nil, err
		}
		if parent.Valid {
			pid := parent.String
			b.ParentID = &pid
		}
		b.Collapsed = collapsed != 0
		b.CreatedAt = time.UnixMilli(created).UTC()
		b.UpdatedAt = time.UnixMilli(updated).UTC()
		out.Blocks = append(out.Blocks, b)
	}
	return out, rows.Err()
}

// SaveSQLite replaces the stored state with db in one transaction.
func (s Store) SaveSQLite(ctx context.Context, db *DB) error {
	if db == nil {
		return errors.New("nil db")
	}
	sdb, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer sdb.Close()

	tx, err := sdb.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM blocks`); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM documents`); err != nil {
		return err
	}

	for _, d := range db.Documents {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO documents (id, name, created_at_unixms) VALUES (?, ?, ?)`,
			d.ID, d.Name, d.CreatedAt.UnixMilli(),
		); err != nil {
			return err
		}
	}
	for _, b := range db.Blocks {
		var parent any
		if b.ParentID != nil {
			parent = *b.ParentID
		}
		collapsed := 0
		if b.Collapsed {
			collapsed = 1
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO blocks (id, document_id, type, content, level, parent_id, collapsed, seq, created_at_unixms, updated_at_unixms)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			b.ID, b.DocumentID, string(b.Type), b.Content, b.Level, parent, collapsed, b.Seq,
			b.CreatedAt.UnixMilli(), b.UpdatedAt.UnixMilli(),
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}
