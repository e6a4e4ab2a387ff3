// Package repository provides SQL persistence for users, sessions, vocabulary
// entries and the extension word list. Queries are written with "?" placeholders
// and rebound for the connected driver.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/atinyakov/LangHelper/internal/models"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// UserRepository implements the credential store on top of a SQL database.
type UserRepository struct {
	// DB is the database handle for executing queries.
	DB *sqlx.DB
}

// NewUserRepository creates a new UserRepository with the given database connection.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{DB: db}
}

const userColumns = `id, username, password_hash, native_language, target_language, proficiency`

// Create inserts the user and fills in its ID. It returns false without an error
// when the username is already taken.
func (r *UserRepository) Create(ctx context.Context, user *models.User) (bool, error) {
	err := r.DB.QueryRowxContext(ctx, r.DB.Rebind(`
		INSERT INTO users (username, password_hash, native_language, target_language, proficiency)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`), user.Username, user.PasswordHash, user.NativeLanguage, user.TargetLanguage, user.Proficiency).Scan(&user.ID)
	if isUniqueViolation(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("insert user: %w", err)
	}
	return true, nil
}

// GetByUsername fetches a user by username. The boolean is false when no such user exists.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, bool, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
}

// GetByID fetches a user by ID. The boolean is false when no such user exists.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, bool, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (*models.User, bool, error) {
	var user models.User
	err := r.DB.GetContext(ctx, &user, r.DB.Rebind(query), arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get user: %w", err)
	}
	return &user, true, nil
}

// UpdateSettings overwrites the non-empty profile fields of the user.
// The username is never touched. Returns false if the user does not exist.
func (r *UserRepository) UpdateSettings(ctx context.Context, id int64, s models.Settings) (bool, error) {
	res, err := r.DB.ExecContext(ctx, r.DB.Rebind(`
		UPDATE users SET
			native_language = COALESCE(NULLIF(?, ''), native_language),
			target_language = COALESCE(NULLIF(?, ''), target_language),
			proficiency = COALESCE(NULLIF(?, ''), proficiency)
		WHERE id = ?
	`), s.NativeLanguage, s.TargetLanguage, s.Proficiency, id)
	if err != nil {
		return false, fmt.Errorf("update settings: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return rows > 0, nil
}

// isUniqueViolation reports whether err is a unique constraint failure on either driver.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
