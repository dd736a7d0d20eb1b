package shared

import (
	"context"
	"path/filepath"
	"slices"
	"testing"
)

func newTestDatabase(t *testing.T) *DatabaseConfig {
	t.Helper()
	return &DatabaseConfig{Path: filepath.Join(t.TempDir(), "data", "test.db"), MaxOpenConns: 1, MaxIdleConns: 1}
}

func TestOpenDatabase(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates Parent Directory", func(t *testing.T) {
		cfg := newTestDatabase(t)
		db, err := OpenDatabase(ctx, *cfg)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		defer db.Close()

		var mode string
		if err := db.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&mode); err != nil {
			t.Fatalf("failed to read journal mode: %v", err)
		}
		if mode != "wal" {
			t.Errorf("expected wal journal mode, got %s", mode)
		}
	})

	t.Run("In Memory", func(t *testing.T) {
		db, err := OpenDatabase(ctx, DatabaseConfig{Path: ":memory:", MaxOpenConns: 1})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		db.Close()
	})

	t.Run("Missing Path", func(t *testing.T) {
		if _, err := OpenDatabase(ctx, DatabaseConfig{}); err == nil {
			t.Error("expected error for empty path")
		}
	})
}

func TestMigrationRunner(t *testing.T) {
	ctx := context.Background()

	t.Run("loadMigrations", func(t *testing.T) {
		migrations, err := loadMigrations()
		if err != nil {
			t.Fatalf("failed to load migrations: %v", err)
		}

		if len(migrations) == 0 {
			t.Fatal("expected at least one migration")
		}

		if migrations[0].Version != 0 || migrations[0].Name != "create_sessions" {
			t.Errorf("unexpected first migration %d %s", migrations[0].Version, migrations[0].Name)
		}

		for i := 1; i < len(migrations); i++ {
			if migrations[i].Version <= migrations[i-1].Version {
				t.Errorf("migrations not sorted: version %d comes after %d", migrations[i].Version, migrations[i-1].Version)
			}
		}

		for _, m := range migrations {
			if m.Up == "" || m.Down == "" {
				t.Errorf("migration version %d missing SQL", m.Version)
			}
		}
	})

	t.Run("RunMigrations And Rollback", func(t *testing.T) {
		db, err := OpenDatabase(ctx, *newTestDatabase(t))
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()

		applied, err := RunMigrations(ctx, db)
		if err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}
		if !slices.Contains(applied, 0) {
			t.Errorf("expected version 0 to be applied, got %v", applied)
		}

		if _, err := db.ExecContext(ctx, "SELECT 1 FROM sessions LIMIT 1"); err != nil {
			t.Errorf("sessions table should exist after migrations: %v", err)
		}

		latest := applied[len(applied)-1]
		version, err := RollbackMigration(ctx, db)
		if err != nil {
			t.Fatalf("failed to rollback migration: %v", err)
		}
		if version != latest {
			t.Errorf("expected rollback of %d, got %d", latest, version)
		}

		current, err := SchemaVersion(ctx, db)
		if err != nil {
			t.Fatalf("failed to read version: %v", err)
		}
		if current >= latest {
			t.Errorf("expected version below %d after rollback, got %d", latest, current)
		}

		if len(applied) == 1 {
			if _, err := db.ExecContext(ctx, "SELECT 1 FROM sessions LIMIT 1"); err == nil {
				t.Error("sessions table should be dropped after rollback")
			}
			if _, err := RollbackMigration(ctx, db); err == nil {
				t.Error("expected error when nothing is applied")
			}
		}
	})

	t.Run("Idempotent Migrations", func(t *testing.T) {
		db, err := OpenDatabase(ctx, *newTestDatabase(t))
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()

		if _, err := RunMigrations(ctx, db); err != nil {
			t.Fatalf("failed to run migrations first time: %v", err)
		}

		applied, err := RunMigrations(ctx, db)
		if err != nil {
			t.Fatalf("failed to run migrations second time: %v", err)
		}
		if len(applied) != 0 {
			t.Errorf("expected nothing applied on second run, got %v", applied)
		}

		var count int
		if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
			t.Fatalf("failed to query schema_migrations: %v", err)
		}

		migrations, _ := loadMigrations()
		if count != len(migrations) {
			t.Errorf("expected %d migrations to be applied, got %d", len(migrations), count)
		}
	})

	t.Run("splitStatements", func(t *testing.T) {
		script := "-- header\nCREATE TABLE a (x TEXT); -- trailing\n\nCREATE INDEX i ON a(x);\n"
		got := splitStatements(script)
		want := []string{"CREATE TABLE a (x TEXT)", "CREATE INDEX i ON a(x)"}
		if !slices.Equal(got, want) {
			t.Errorf("expected %q, got %q", want, got)
		}
	})
}
