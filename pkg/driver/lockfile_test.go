package driver

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kr/pretty"
)

func TestLockfileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, LockfileName)

	lock := NewLockfile("my-app", " lox 0.1.0 ")
	lock.Packages = append(lock.Packages,
		&LockedPackage{Name: "zeta", Version: "v2@abc", Source: GitSource("https://example.com/zeta.git", "abc"), Checksum: "ff"},
		&LockedPackage{Name: "alpha-lib", Version: "local", Source: PathSource("/tmp/alpha"), Main: "lib.lox"},
	)
	if err := WriteLockfile(lock, path); err != nil {
		t.Fatalf("WriteLockfile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "root: my_app") || !strings.Contains(string(data), "- name: alpha_lib") {
		t.Fatalf("unexpected lockfile contents:\n%s", data)
	}

	loaded, err := LoadLockfile(path)
	if err != nil {
		t.Fatalf("LoadLockfile: %v", err)
	}
	want := &Lockfile{
		Path:      path,
		Root:      "my_app",
		Generated: lock.Generated,
		Tool:      "lox 0.1.0",
		Packages: []*LockedPackage{
			{Name: "alpha_lib", Version: "local", Source: "path:/tmp/alpha", Main: "lib.lox"},
			{Name: "zeta", Version: "v2@abc", Source: "git+https://example.com/zeta.git@abc", Checksum: "ff", Main: DefaultMain},
		},
	}
	if diff := pretty.Diff(loaded, want); len(diff) > 0 {
		t.Fatalf("lockfile mismatch:\n%s", strings.Join(diff, "\n"))
	}

	if pkg, ok := loaded.Find("alpha-lib"); !ok || pkg.Main != "lib.lox" {
		t.Fatalf("Find(alpha-lib) = %#v, %v", pkg, ok)
	}
	if _, ok := loaded.Find("missing"); ok {
		t.Fatalf("unexpected package")
	}
}

func TestWriteLockfileRequiresPath(t *testing.T) {
	if err := WriteLockfile(NewLockfile("x", "lox"), ""); err == nil {
		t.Fatalf("expected missing path error")
	}
	if err := WriteLockfile(nil, "lox.lock"); err == nil {
		t.Fatalf("expected nil lockfile error")
	}
}

func TestLoadLockfileRejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), LockfileName)
	if err := os.WriteFile(path, []byte("root: x\nextra: true\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadLockfile(path); err == nil {
		t.Fatalf("expected parse error")
	}
}
