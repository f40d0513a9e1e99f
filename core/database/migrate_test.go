package database

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/citygreen/mastersbot/core/logger"
)

func TestParseVersion(t *testing.T) {
	cases := map[string]uint64{
		"000001_create_users.up.sql":     1,
		"000012_providers_index.up.sql":  12,
		"not_a_version.up.sql":           0,
		"20240101120000_initial.up.sql": 20240101120000,
	}
	for name, want := range cases {
		if got := parseVersion(name); got != want {
			t.Errorf("parseVersion(%q) = %d, want %d", name, got, want)
		}
	}
}

func TestSelectApplied(t *testing.T) {
	files := []string{"000001_a.up.sql", "000002_b.up.sql", "000003_c.up.sql"}

	if diff := cmp.Diff([]string{"000002_b.up.sql", "000003_c.up.sql"}, selectApplied(files, 1, 3)); diff != "" {
		t.Fatalf("selectApplied mismatch (-want +got):\n%s", diff)
	}
	if got := selectApplied(files, 3, 3); got != nil {
		t.Fatalf("expected nothing applied when versions match, got %v", got)
	}
}

func TestListMigrationFilesKeepsUpOnly(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"000002_b.up.sql", "000001_a.up.sql", "000001_a.down.sql", "README.md"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o600); err != nil {
			t.Fatal(err)
		}
	}
	got := listMigrationFiles(dir)
	if diff := cmp.Diff([]string{"000001_a.up.sql", "000002_b.up.sql"}, got); diff != "" {
		t.Fatalf("listMigrationFiles mismatch (-want +got):\n%s", diff)
	}
}

func TestConfigURLEscapesCredentials(t *testing.T) {
	cfg := Config{Host: "db", Port: "5432", User: "bot", Password: "p@ss:word", Name: "masters", SSLMode: "disable"}
	got := cfg.URL()
	if got != "postgres://bot:p%40ss%3Aword@db:5432/masters?sslmode=disable" {
		t.Fatalf("URL() = %s", got)
	}
	if strings.Contains(cfg.Redacted(), "word") {
		t.Fatalf("Redacted() leaked the password: %s", cfg.Redacted())
	}
}

func TestMigrationsDirDefault(t *testing.T) {
	if got := (Config{}).migrationsDir(); got != "migrations" {
		t.Fatalf("default migrations dir = %q", got)
	}
	if got := (Config{MigrationsDir: "db/sql"}).migrationsDir(); got != "db/sql" {
		t.Fatalf("custom migrations dir = %q", got)
	}
}

func TestResolveMigrationsLogsPreview(t *testing.T) {
	var buf bytes.Buffer
	prev := logger.MIG
	logger.MIG = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	t.Cleanup(func() { logger.MIG = prev })

	dir := t.TempDir()
	for i := 1; i <= previewFiles+2; i++ {
		name := fmt.Sprintf("%06d_step.up.sql", i)
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o600); err != nil {
			t.Fatal(err)
		}
	}
	gotDir, files, err := resolveMigrations(Config{MigrationsDir: dir})
	if err != nil {
		t.Fatal(err)
	}
	if gotDir != dir || len(files) != previewFiles+2 {
		t.Fatalf("resolve = %q, %d files", gotDir, len(files))
	}
	out := buf.String()
	for _, frag := range []string{"event=resolve", "files_total=8", "000006_step.up.sql", "files_truncated=true"} {
		if !strings.Contains(out, frag) {
			t.Fatalf("log %q missing %q", out, frag)
		}
	}
	if strings.Contains(out, "000007_step.up.sql") {
		t.Fatalf("preview must stop at %d files: %q", previewFiles, out)
	}

	buf.Reset()
	logFiles(slog.LevelDebug, "apply", nil)
	if buf.Len() != 0 {
		t.Fatalf("nothing applied must log nothing, got %q", buf.String())
	}
}

func TestLogFilesWithoutLogger(t *testing.T) {
	prev := logger.MIG
	logger.MIG = nil
	t.Cleanup(func() { logger.MIG = prev })
	logFiles(slog.LevelDebug, "apply", []string{"000001_a.up.sql"})
}
