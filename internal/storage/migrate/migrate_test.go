package migrate

import (
	"context"
	"database/sql"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "migrate.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestApply(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	logger := slog.New(slog.DiscardHandler)

	migrations := fstest.MapFS{
		"002_notes.sql": {Data: []byte("-- +migrate Up\nCREATE TABLE notes (id INTEGER PRIMARY KEY, body TEXT);\n-- +migrate Down\nDROP TABLE notes;\n")},
		"001_users.sql": {Data: []byte("CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT);")},
		"README.md":     {Data: []byte("not a migration")},
	}

	applied, err := Apply(ctx, db, migrations, ".", logger)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if got := strings.Join(applied, ","); got != "001_users.sql,002_notes.sql" {
		t.Errorf("Apply() applied = %q, want both files in order", got)
	}

	// Down section must not have run
	if _, err := db.Exec("INSERT INTO notes (body) VALUES ('hi')"); err != nil {
		t.Errorf("notes table missing after migration: %v", err)
	}

	again, err := Apply(ctx, db, migrations, ".", logger)
	if err != nil {
		t.Fatalf("second Apply() error = %v", err)
	}
	if len(again) != 0 {
		t.Errorf("second Apply() applied = %v, want none", again)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + migrationTable).Scan(&count); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if count != 2 {
		t.Errorf("recorded migrations = %d, want 2", count)
	}
}

func TestApply_FailedMigrationIsNotRecorded(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	migrations := fstest.MapFS{
		"001_broken.sql": {Data: []byte("CREATE TABLE oops (")},
	}

	if _, err := Apply(ctx, db, migrations, ".", slog.New(slog.DiscardHandler)); err == nil {
		t.Fatal("Apply() expected error for broken migration")
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + migrationTable).Scan(&count); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if count != 0 {
		t.Errorf("recorded migrations = %d, want 0", count)
	}
}

func TestExtractUp(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "no markers", content: "SELECT 1;", want: "SELECT 1;"},
		{name: "up only", content: "-- +migrate Up\nSELECT 1;", want: "\nSELECT 1;"},
		{name: "up and down", content: "-- +migrate Up\nSELECT 1;\n-- +migrate Down\nSELECT 2;", want: "\nSELECT 1;\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractUp(tt.content); got != tt.want {
				t.Errorf("ExtractUp() = %q, want %q", got, tt.want)
			}
		})
	}
}
