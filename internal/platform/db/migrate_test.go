package db

import (
	"os"
	"path/filepath"
	"testing"
)

// =========== LoadMigrations ===========

func writeMigration(t *testing.T, dir, name, sql string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(sql), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoadMigrations_SortedByVersion(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "010_later.sql", "SELECT 10;")
	writeMigration(t, dir, "001_core.sql", "SELECT 1;")
	writeMigration(t, dir, "002_indexes.sql", "SELECT 2;")

	m := NewMigrator(nil, dir)
	migrations, err := m.LoadMigrations()
	if err != nil {
		t.Fatalf("LoadMigrations: %v", err)
	}
	if len(migrations) != 3 {
		t.Fatalf("expected 3 migrations, got %d", len(migrations))
	}
	wantVersions := []int{1, 2, 10}
	for i, w := range wantVersions {
		if migrations[i].Version != w {
			t.Errorf("migration %d: version = %d, want %d", i, migrations[i].Version, w)
		}
	}
	if migrations[0].SQL != "SELECT 1;" {
		t.Errorf("migration 0 SQL = %q", migrations[0].SQL)
	}
}

func TestLoadMigrations_SkipsNonMigrationFiles(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "001_core.sql", "SELECT 1;")
	writeMigration(t, dir, "README.md", "notes")
	writeMigration(t, dir, "notaversion_x.sql", "SELECT 0;")
	writeMigration(t, dir, "seed.sql", "SELECT 0;")

	m := NewMigrator(nil, dir)
	migrations, err := m.LoadMigrations()
	if err != nil {
		t.Fatalf("LoadMigrations: %v", err)
	}
	if len(migrations) != 1 {
		t.Fatalf("expected 1 migration, got %d", len(migrations))
	}
	if migrations[0].Name != "001_core.sql" {
		t.Errorf("name = %q, want 001_core.sql", migrations[0].Name)
	}
}

func TestLoadMigrations_MissingDirectory(t *testing.T) {
	m := NewMigrator(nil, filepath.Join(t.TempDir(), "does-not-exist"))
	if _, err := m.LoadMigrations(); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
