// Package models defines the core data structures for users, vocabulary entries
// and the extension word list.
package models

import "time"

// User represents an application user with credentials and learning profile.
type User struct {
	// ID is the surrogate identifier for the user.
	ID int64 `json:"id" db:"id"`
	// Username is the login name chosen by the user. It never changes after registration.
	Username string `json:"username" db:"username"`
	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string `json:"-" db:"password_hash"`
	// NativeLanguage is the language the user already speaks.
	NativeLanguage string `json:"native_language" db:"native_language"`
	// TargetLanguage is the language the user is learning.
	TargetLanguage string `json:"target_language" db:"target_language"`
	// Proficiency is a free-form level such as "Beginner".
	Proficiency string `json:"proficiency" db:"proficiency"`
}

// Profile defaults applied on registration.
const (
	DefaultNativeLanguage = "English"
	DefaultTargetLanguage = "Spanish"
	DefaultProficiency    = "Beginner"
)

// Settings holds the mutable part of a user profile. Empty fields are left unchanged.
type Settings struct {
	NativeLanguage string `json:"native_language"`
	TargetLanguage string `json:"target_language"`
	Proficiency    string `json:"proficiency"`
}

// VocabularyEntry is one word known by one user.
type VocabularyEntry struct {
	// ID is the surrogate identifier for the entry.
	ID int64 `json:"id" db:"id"`
	// UserID is the owner of the entry.
	UserID int64 `json:"user_id" db:"user_id"`
	// Word is the trimmed word text, unique per user.
	Word string `json:"word" db:"word"`
	// Starred marks the word as a quiz candidate.
	Starred bool `json:"starred" db:"starred"`
	// CreatedAt is the time the entry was added.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Session binds a bearer token to a user until it expires.
type Session struct {
	Token     string    `json:"token" db:"token"`
	UserID    int64     `json:"user_id" db:"user_id"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
}

// SyncAction identifies the local mutation being mirrored to the extension list.
type SyncAction string

const (
	// SyncAdd mirrors a newly added word.
	SyncAdd SyncAction = "add"
	// SyncDelete mirrors a removed word.
	SyncDelete SyncAction = "delete"
	// SyncUpdateStar is local only and never leaves the process.
	SyncUpdateStar SyncAction = "update_star"
)

// SyncReport describes the best-effort mirror that followed a local mutation.
type SyncReport struct {
	// Attempted is false when no mirror was needed (e.g. a duplicate add).
	Attempted bool `json:"attempted"`
	// OK reports whether the extension list acknowledged the change.
	OK bool `json:"ok"`
	// Warning is a user-facing message set when the mirror failed.
	Warning string `json:"warning,omitempty"`
}

// AddResult is the outcome of adding a word to the vocabulary.
type AddResult struct {
	Entry *VocabularyEntry `json:"entry,omitempty"`
	Added bool             `json:"added"`
	Sync  SyncReport       `json:"sync"`
}

// RemoveResult is the outcome of removing a vocabulary entry.
type RemoveResult struct {
	Word    string     `json:"word,omitempty"`
	Removed bool       `json:"removed"`
	Sync    SyncReport `json:"sync"`
}

// Quiz is a generated question about one starred word.
type Quiz struct {
	Word     string `json:"word"`
	Question string `json:"question"`
}
