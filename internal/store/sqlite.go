package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	// Pure-Go SQLite driver, registered as "sqlite".
	_ "modernc.org/sqlite"

	"github.com/Sumatoshi-tech/codescope/internal/analysis"
	"github.com/Sumatoshi-tech/codescope/pkg/persist"
)

const createResultsTableSQL = `
CREATE TABLE IF NOT EXISTS results (
	id         TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	payload    BLOB NOT NULL
)`

const createHistoryTableSQL = `
CREATE TABLE IF NOT EXISTS history (
	seq     INTEGER PRIMARY KEY AUTOINCREMENT,
	id      TEXT NOT NULL UNIQUE,
	payload BLOB NOT NULL
)`

// SQLiteStore is the durable Store backend. Result and history payloads are
// stored as LZ4-compressed JSON blobs; columns queried by SQL stay relational.
type SQLiteStore struct {
	db    *sql.DB
	codec persist.Codec
}

// NewSQLite opens (creating if needed) a SQLite store at the given path.
// The connection pool is capped at one connection; SQLite serializes writers
// anyway and a single connection avoids SQLITE_BUSY churn.
func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}

	db.SetMaxOpenConns(1)

	for _, stmt := range []string{createResultsTableSQL, createHistoryTableSQL} {
		if _, err := db.Exec(stmt); err != nil {
			closeErr := db.Close()

			return nil, errors.Join(fmt.Errorf("create schema: %w", err), closeErr)
		}
	}

	return &SQLiteStore{
		db:    db,
		codec: persist.NewLZ4JSONCodec(),
	}, nil
}

// PutResult implements ReportStore.
func (ss *SQLiteStore) PutResult(ctx context.Context, result analysis.Result) error {
	payload, err := persist.Marshal(ss.codec, result)
	if err != nil {
		return fmt.Errorf("encode result %s: %w", result.ID, err)
	}

	res, err := ss.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO results (id, created_at, payload) VALUES (?, ?, ?)`,
		result.ID, result.Timestamp.UTC().Format(time.RFC3339Nano), payload)
	if err != nil {
		return fmt.Errorf("insert result %s: %w", result.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert result %s: %w", result.ID, err)
	}

	if affected == 0 {
		return fmt.Errorf("result %s: %w", result.ID, ErrDuplicateID)
	}

	return nil
}

// GetResult implements ReportStore.
func (ss *SQLiteStore) GetResult(ctx context.Context, id string) (analysis.Result, error) {
	var (
		row     *sql.Row
		payload []byte
	)

	if id == LatestAlias {
		// The alias tracks insertion order, not result timestamps.
		row = ss.db.QueryRowContext(ctx,
			`SELECT payload FROM results ORDER BY rowid DESC LIMIT 1`)
	} else {
		row = ss.db.QueryRowContext(ctx, `SELECT payload FROM results WHERE id = ?`, id)
	}

	err := row.Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return analysis.Result{}, fmt.Errorf("result %s: %w", id, ErrNotFound)
	}

	if err != nil {
		return analysis.Result{}, fmt.Errorf("query result %s: %w", id, err)
	}

	var result analysis.Result
	if err := persist.Unmarshal(ss.codec, payload, &result); err != nil {
		return analysis.Result{}, fmt.Errorf("decode result %s: %w", id, err)
	}

	return result, nil
}

// AppendItem implements HistoryIndex.
func (ss *SQLiteStore) AppendItem(ctx context.Context, item analysis.HistoryItem) error {
	payload, err := persist.Marshal(ss.codec, item)
	if err != nil {
		return fmt.Errorf("encode history item %s: %w", item.ID, err)
	}

	res, err := ss.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO history (id, payload) VALUES (?, ?)`, item.ID, payload)
	if err != nil {
		return fmt.Errorf("insert history item %s: %w", item.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert history item %s: %w", item.ID, err)
	}

	if affected == 0 {
		return fmt.Errorf("history item %s: %w", item.ID, ErrDuplicateID)
	}

	return nil
}

// FinalizeItem implements HistoryIndex. The single UPDATE swaps the payload
// atomically; readers see the old item or the new one, never a mix.
func (ss *SQLiteStore) FinalizeItem(ctx context.Context, id string, item analysis.HistoryItem) error {
	item.ID = id

	payload, err := persist.Marshal(ss.codec, item)
	if err != nil {
		return fmt.Errorf("encode history item %s: %w", id, err)
	}

	res, err := ss.db.ExecContext(ctx, `UPDATE history SET payload = ? WHERE id = ?`, payload, id)
	if err != nil {
		return fmt.Errorf("update history item %s: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update history item %s: %w", id, err)
	}

	if affected == 0 {
		return fmt.Errorf("history item %s: %w", id, ErrNotFound)
	}

	return nil
}

// ListItems implements HistoryIndex, returning items in insertion order.
func (ss *SQLiteStore) ListItems(ctx context.Context) ([]analysis.HistoryItem, error) {
	rows, err := ss.db.QueryContext(ctx, `SELECT payload FROM history ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var items []analysis.HistoryItem

	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}

		var item analysis.HistoryItem
		if err := persist.Unmarshal(ss.codec, payload, &item); err != nil {
			return nil, fmt.Errorf("decode history item: %w", err)
		}

		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}

	return items, nil
}

// DeleteItems implements HistoryIndex. Unknown ids are skipped.
func (ss *SQLiteStore) DeleteItems(ctx context.Context, ids []string) (int, error) {
	deleted := 0

	for _, id := range ids {
		res, err := ss.db.ExecContext(ctx, `DELETE FROM history WHERE id = ?`, id)
		if err != nil {
			return deleted, fmt.Errorf("delete history item %s: %w", id, err)
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return deleted, fmt.Errorf("delete history item %s: %w", id, err)
		}

		deleted += int(affected)
	}

	return deleted, nil
}

// ClearItems implements HistoryIndex.
func (ss *SQLiteStore) ClearItems(ctx context.Context) error {
	_, err := ss.db.ExecContext(ctx, `DELETE FROM history`)
	if err != nil {
		return fmt.Errorf("clear history: %w", err)
	}

	return nil
}

// Close implements Store.
func (ss *SQLiteStore) Close() error {
	err := ss.db.Close()
	if err != nil {
		return fmt.Errorf("close sqlite store: %w", err)
	}

	return nil
}
