package credentials

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/MarcosHRFerreira/receitasecreta-api-sub000/internal/client/models"
	"github.com/MarcosHRFerreira/receitasecreta-api-sub000/internal/dbx"
)

// SQLiteRepository persists credentials in a local SQLite database
// (table: credentials(key TEXT PRIMARY KEY, value BLOB)).
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, key string) ([]byte, error) {
	return get(ctx, r.db, key)
}

func (r *SQLiteRepository) Set(ctx context.Context, key string, value []byte) error {
	return set(ctx, r.db, key, value)
}

func (r *SQLiteRepository) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM credentials WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete credentials[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM credentials`)
	if err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}
	return nil
}

// Token returns the stored bearer token, or "" when absent.
func (r *SQLiteRepository) Token(ctx context.Context) (string, error) {
	v, err := r.Get(ctx, KeyToken)
	if err != nil {
		return "", err
	}
	return string(v), nil
}

// SaveSession writes token and user in one transaction so a crash between the
// two writes cannot leave the store holding half a session.
func (r *SQLiteRepository) SaveSession(ctx context.Context, token string, user *models.User) error {
	blob, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to serialize user: %w", err)
	}

	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := set(ctx, tx, KeyToken, []byte(token)); err != nil {
			return err
		}
		return set(ctx, tx, KeyUser, blob)
	})
}

// ClearSession removes both keys in one transaction.
func (r *SQLiteRepository) ClearSession(ctx context.Context) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM credentials WHERE key IN (?, ?)`, KeyToken, KeyUser); err != nil {
			return fmt.Errorf("failed to clear session: %w", err)
		}
		return nil
	})
}

func get(ctx context.Context, db dbx.DBTX, key string) ([]byte, error) {
	var value []byte
	err := db.QueryRowContext(ctx, `SELECT value FROM credentials WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get credentials[%s]: %w", key, err)
	}
	return value, nil
}

func set(ctx context.Context, db dbx.DBTX, key string, value []byte) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO credentials (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set credentials[%s]: %w", key, err)
	}
	return nil
}
