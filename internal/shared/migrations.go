package shared

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strconv"
	"strings"
)

//go:embed sql/*.sql
var migrationFiles embed.FS

// Migration is one numbered schema change. Files are named NNNN_description_up.sql and NNNN_description_down.sql.
type Migration struct {
	Version int
	Name    string
	Up      string
	Down    string
}

// loadMigrations pairs the embedded up/down files and sorts them by version.
func loadMigrations() ([]Migration, error) {
	ups, err := fs.Glob(migrationFiles, "sql/*_up.sql")
	if err != nil {
		return nil, fmt.Errorf("failed to list migrations: %w", err)
	}

	migrations := make([]Migration, 0, len(ups))
	for _, up := range ups {
		base := strings.TrimSuffix(path.Base(up), "_up.sql")
		prefix, name, ok := strings.Cut(base, "_")
		if !ok {
			return nil, fmt.Errorf("migration %s has no version prefix", up)
		}

		version, err := strconv.Atoi(prefix)
		if err != nil {
			return nil, fmt.Errorf("migration %s: bad version %q", up, prefix)
		}

		upSQL, err := migrationFiles.ReadFile(up)
		if err != nil {
			return nil, err
		}
		downSQL, err := migrationFiles.ReadFile(path.Join("sql", base+"_down.sql"))
		if err != nil {
			return nil, fmt.Errorf("migration %d has no down file: %w", version, err)
		}

		migrations = append(migrations, Migration{Version: version, Name: name, Up: string(upSQL), Down: string(downSQL)})
	}

	slices.SortFunc(migrations, func(a, b Migration) int { return a.Version - b.Version })
	for i := 1; i < len(migrations); i++ {
		if migrations[i].Version == migrations[i-1].Version {
			return nil, fmt.Errorf("duplicate migration version %d", migrations[i].Version)
		}
	}

	return migrations, nil
}

// RunMigrations applies every migration newer than the recorded schema version and returns the versions it applied.
func RunMigrations(ctx context.Context, db *sql.DB) ([]int, error) {
	migrations, err := loadMigrations()
	if err != nil {
		return nil, err
	}

	if err := ensureMigrationsTable(ctx, db); err != nil {
		return nil, err
	}

	current, err := SchemaVersion(ctx, db)
	if err != nil {
		return nil, err
	}

	var applied []int
	for _, m := range migrations {
		if m.Version <= current {
			continue
		}
		if err := execMigration(ctx, db, m.Up, "INSERT INTO schema_migrations (version) VALUES (?)", m.Version); err != nil {
			return applied, fmt.Errorf("migration %d (%s): %w", m.Version, m.Name, err)
		}
		applied = append(applied, m.Version)
	}

	return applied, nil
}

// RollbackMigration reverts the most recently applied migration and returns its version.
func RollbackMigration(ctx context.Context, db *sql.DB) (int, error) {
	migrations, err := loadMigrations()
	if err != nil {
		return 0, err
	}

	if err := ensureMigrationsTable(ctx, db); err != nil {
		return 0, err
	}

	current, err := SchemaVersion(ctx, db)
	if err != nil {
		return 0, err
	}
	if current < 0 {
		return 0, fmt.Errorf("no migrations to roll back")
	}

	i := slices.IndexFunc(migrations, func(m Migration) bool { return m.Version == current })
	if i < 0 {
		return 0, fmt.Errorf("applied migration %d is unknown to this build", current)
	}

	m := migrations[i]
	if err := execMigration(ctx, db, m.Down, "DELETE FROM schema_migrations WHERE version = ?", m.Version); err != nil {
		return 0, fmt.Errorf("rollback %d (%s): %w", m.Version, m.Name, err)
	}
	return m.Version, nil
}

// SchemaVersion reports the highest applied migration, or -1 when none has been applied.
func SchemaVersion(ctx context.Context, db *sql.DB) (int, error) {
	var version int
	err := db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), -1) FROM schema_migrations").Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

func ensureMigrationsTable(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}
	return nil
}

// execMigration runs script and the bookkeeping statement in one transaction.
func execMigration(ctx context.Context, db *sql.DB, script, record string, version int) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range splitStatements(script) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%w\n%s", err, stmt)
		}
	}

	if _, err := tx.ExecContext(ctx, record, version); err != nil {
		return err
	}

	return tx.Commit()
}

// splitStatements drops -- comments and splits script on semicolons.
func splitStatements(script string) []string {
	var b strings.Builder
	for line := range strings.Lines(script) {
		if before, _, found := strings.Cut(line, "--"); found {
			line = before + "\n"
		}
		b.WriteString(line)
	}

	var stmts []string
	for stmt := range strings.SplitSeq(b.String(), ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}
