package testhelpers

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
)

// ApplyMigrations накатывает *.up.sql из dir в лексическом порядке имён.
// Любая ошибка валит тест: без схемы сьют не имеет смысла.
func ApplyMigrations(t testing.TB, db *sqlx.DB, dir string) {
	t.Helper()

	files, err := filepath.Glob(filepath.Join(dir, "*.up.sql"))
	if err != nil {
		t.Fatalf("bad migrations pattern in %s: %v", dir, err)
	}
	if len(files) == 0 {
		t.Fatalf("no up migrations found in %s", dir)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, file := range files {
		script, err := os.ReadFile(file)
		if err != nil {
			t.Fatalf("read migration %s: %v", filepath.Base(file), err)
		}
		if _, err := db.ExecContext(ctx, string(script)); err != nil {
			t.Fatalf("apply migration %s: %v", filepath.Base(file), err)
		}
		t.Logf("migration applied: %s", filepath.Base(file))
	}
}
