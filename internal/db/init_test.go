package db_test

import (
	"strings"
	"testing"

	"github.com/atinyakov/LangHelper/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_ErrorPaths(t *testing.T) {
	cases := []struct {
		name       string
		driver     string
		dsn        string
		wantSubstr string
	}{
		{"invalid DSN", db.DriverPostgres, "some=random", "ping postgres"},
		{"empty DSN", db.DriverPostgres, "", "ping postgres"},
		{"unknown driver", "mysql", "whatever", "unsupported driver"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := db.Open(tc.driver, tc.dsn)
			if err == nil {
				t.Fatalf("Open(%q, %q) did not return error", tc.driver, tc.dsn)
			}
			if !strings.Contains(err.Error(), tc.wantSubstr) {
				t.Errorf("Open(%q, %q) error = %q; want substring %q", tc.driver, tc.dsn, err.Error(), tc.wantSubstr)
			}
		})
	}
}

func TestOpen_SQLiteCreatesSchema(t *testing.T) {
	conn, err := db.Open(db.DriverSQLite, ":memory:")
	require.NoError(t, err)
	defer conn.Close()

	for _, table := range []string{"users", "vocabulary", "sessions", "extension_words"} {
		var name string
		err := conn.Get(&name, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table)
		assert.NoError(t, err, table)
		assert.Equal(t, table, name)
	}

	// schema creation is idempotent
	schema, err := db.Schema(db.DriverSQLite)
	require.NoError(t, err)
	_, err = conn.Exec(schema)
	assert.NoError(t, err)
}
