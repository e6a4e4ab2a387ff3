package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/atinyakov/LangHelper/internal/models"
	"github.com/jmoiron/sqlx"
)

// SessionRepository persists bearer-token sessions.
type SessionRepository struct {
	DB *sqlx.DB
}

// NewSessionRepository creates a SessionRepository using the provided connection.
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{DB: db}
}

// Create stores a new session.
func (r *SessionRepository) Create(ctx context.Context, s models.Session) error {
	_, err := r.DB.ExecContext(ctx,
		r.DB.Rebind(`INSERT INTO sessions (token, user_id, expires_at) VALUES (?, ?, ?)`),
		s.Token, s.UserID, s.ExpiresAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// Lookup resolves a token to its user while the session has not expired at now.
func (r *SessionRepository) Lookup(ctx context.Context, token string, now time.Time) (int64, bool, error) {
	var userID int64
	err := r.DB.QueryRowxContext(ctx,
		r.DB.Rebind(`SELECT user_id FROM sessions WHERE token = ? AND expires_at > ?`),
		token, now.UTC(),
	).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("lookup session: %w", err)
	}
	return userID, true, nil
}

// Delete removes the session. Deleting an unknown token is not an error.
func (r *SessionRepository) Delete(ctx context.Context, token string) error {
	_, err := r.DB.ExecContext(ctx, r.DB.Rebind(`DELETE FROM sessions WHERE token = ?`), token)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
