package registry

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
)

func touch(t *testing.T, dir, name string, mod time.Time) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	if err := os.Chtimes(p, mod, mod); err != nil {
		t.Fatalf("chtimes %s: %v", name, err)
	}
	return p
}

func TestListFiltersAndOrders(t *testing.T) {
	dir := t.TempDir()
	base := time.Now().Add(-time.Hour)
	touch(t, dir, "old.gob", base)
	touch(t, dir, "new.gob", base.Add(10*time.Minute))
	touch(t, dir, "notes.txt", base.Add(20*time.Minute))
	touch(t, dir, ".artifact-123", base.Add(30*time.Minute))
	if err := os.Mkdir(filepath.Join(dir, "sub.gob"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got, err := List(dir)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 artifacts, got %d: %+v", len(got), got)
	}
	if got[0].Name != "new.gob" || got[1].Name != "old.gob" {
		t.Fatalf("unexpected order: %s, %s", got[0].Name, got[1].Name)
	}
	if !filepath.IsAbs(got[0].Path) {
		t.Fatalf("path not absolute: %s", got[0].Path)
	}
}

func TestListTieBreaksByName(t *testing.T) {
	dir := t.TempDir()
	ts := time.Now().Add(-time.Minute)
	touch(t, dir, "model-v1.gob", ts)
	touch(t, dir, "model-v2.gob", ts)
	got, err := List(dir)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if got[0].Name != "model-v2.gob" {
		t.Fatalf("expected model-v2.gob first, got %s", got[0].Name)
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	base := time.Now().Add(-time.Hour)
	touch(t, dir, "a.gob", base)
	newest := touch(t, dir, "b.gob", base.Add(time.Minute))

	p, err := Resolve(dir)
	if err != nil {
		t.Fatalf("resolve dir: %v", err)
	}
	if p != newest {
		t.Fatalf("expected %s, got %s", newest, p)
	}

	explicit := filepath.Join(dir, "a.gob")
	p, err = Resolve(explicit)
	if err != nil || p != explicit {
		t.Fatalf("resolve file: %q %v", p, err)
	}
}

func TestResolveErrors(t *testing.T) {
	if _, err := Resolve(""); err == nil {
		t.Fatalf("expected error on empty path")
	}
	if _, err := Resolve(filepath.Join(t.TempDir(), "missing.gob")); err == nil {
		t.Fatalf("expected error on missing path")
	}
	empty := t.TempDir()
	_, err := Resolve(empty)
	if !IsNoArtifacts(err) {
		t.Fatalf("expected no-artifacts error, got %v", err)
	}
}

func TestResolveErrorsCarryCauseAndStack(t *testing.T) {
	_, err := Resolve(filepath.Join(t.TempDir(), "missing.gob"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist in chain, got %v", err)
	}
	if errors.GetReportableStackTrace(err) == nil {
		t.Fatalf("expected a stack trace on %v", err)
	}
	_, err = List(filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, os.ErrNotExist) || errors.GetReportableStackTrace(err) == nil {
		t.Fatalf("List error lacks cause or stack: %v", err)
	}
}
