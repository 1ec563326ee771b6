package keyvalue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/anantaclub/ananta/internal/dbx"
)

type SQLiteRepository struct {
	db  dbx.DBTX
	txb dbx.TxBeginner
}

// NewSQLiteRepository binds the repository to db. Multi-key operations open
// their own transaction on db.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db, txb: db}
}

// inTx runs fn against a repository bound to a single transaction.
func (r *SQLiteRepository) inTx(ctx context.Context, fn func(ctx context.Context, repo *SQLiteRepository) error) error {
	if r.txb == nil {
		return fn(ctx, r)
	}
	return dbx.WithTx(ctx, r.txb, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, &SQLiteRepository{db: tx})
	})
}

func (r *SQLiteRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM keyvalue WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get keyvalue[%s]: %w", key, err)
	}
	return string(value), true, nil
}

func (r *SQLiteRepository) Set(ctx context.Context, key string, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO keyvalue (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, []byte(value))
	if err != nil {
		return fmt.Errorf("failed to set keyvalue[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) MultiSet(ctx context.Context, pairs ...Pair) error {
	return r.inTx(ctx, func(ctx context.Context, repo *SQLiteRepository) error {
		for _, p := range pairs {
			if err := repo.Set(ctx, p.Key, p.Value); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *SQLiteRepository) Remove(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM keyvalue WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to remove keyvalue[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) MultiRemove(ctx context.Context, keys ...string) error {
	return r.inTx(ctx, func(ctx context.Context, repo *SQLiteRepository) error {
		for _, k := range keys {
			if err := repo.Remove(ctx, k); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM keyvalue`)
	if err != nil {
		return fmt.Errorf("failed to clear keyvalue: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM keyvalue`)
	if err != nil {
		return nil, fmt.Errorf("failed to list keyvalue: %w", err)
	}
	defer rows.Close()

	result := make(map[string]string)
	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan keyvalue row: %w", err)
		}
		result[key] = string(value)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate keyvalue rows: %w", err)
	}

	return result, nil
}
