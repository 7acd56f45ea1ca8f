package driver

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoaderOrdersScripts(t *testing.T) {
	root := t.TempDir()
	depDir := filepath.Join(root, "shared")
	projectDir := filepath.Join(root, "app")
	writeFile(t, filepath.Join(depDir, "main.lox"), "var shared = 1;\n")
	writeFile(t, filepath.Join(projectDir, "lib", "boot.lox"), "var boot = 2;\n")
	writeFile(t, filepath.Join(projectDir, "main.lox"), "print shared + boot;\n")
	writeFile(t, filepath.Join(projectDir, ManifestName), `name: app
preludes: [lib/boot.lox]
dependencies:
  shared: ../shared
`)

	sum, err := DirChecksum(depDir)
	if err != nil {
		t.Fatalf("checksum: %v", err)
	}
	lock := NewLockfile("app", "lox test")
	lock.Packages = []*LockedPackage{{Name: "shared", Version: "local", Source: PathSource(depDir), Checksum: sum}}
	if err := WriteLockfile(lock, filepath.Join(projectDir, LockfileName)); err != nil {
		t.Fatalf("write lockfile: %v", err)
	}

	program, err := NewLoader(t.TempDir()).Load(filepath.Join(projectDir, ManifestName), "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	var names []string
	for _, src := range program.Scripts() {
		names = append(names, src.Name)
	}
	if got := strings.Join(names, ","); got != "shared/main.lox,boot.lox,main.lox" {
		t.Fatalf("script order = %q", got)
	}

	writeFile(t, filepath.Join(depDir, "main.lox"), "var shared = 99;\n")
	if _, err := NewLoader("").Load(filepath.Join(projectDir, ManifestName), ""); err == nil || !strings.Contains(err.Error(), "checksum mismatch") {
		t.Fatalf("expected checksum mismatch, got %v", err)
	}
}

func TestLoaderRequiresLockfileForDependencies(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.lox"), "print 1;\n")
	writeFile(t, filepath.Join(dir, ManifestName), "name: app\ndependencies:\n  dep: ../dep\n")
	_, err := NewLoader("").Load(filepath.Join(dir, ManifestName), "")
	if !errors.Is(err, ErrLockfileMissing) {
		t.Fatalf("expected ErrLockfileMissing, got %v", err)
	}
}

func TestLoaderEntryOverride(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "other.lox"), "print 2;\n")
	writeFile(t, filepath.Join(dir, ManifestName), "name: app\n")
	program, err := NewLoader("").Load(filepath.Join(dir, ManifestName), "other.lox")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if program.Entry.Text != "print 2;\n" || len(program.Preludes) != 0 {
		t.Fatalf("unexpected program %#v", program)
	}
	if _, err := NewLoader("").Load(filepath.Join(dir, ManifestName), ""); err == nil {
		t.Fatalf("expected missing main.lox error")
	}
}

func TestPackageDir(t *testing.T) {
	home := filepath.Join("home", "lox")
	git := &LockedPackage{Name: "util", Version: "v1.0@abc/def", Source: GitSource("https://x/util.git", "abc")}
	dir, err := PackageDir(home, git)
	if err != nil {
		t.Fatalf("PackageDir: %v", err)
	}
	if want := filepath.Join(home, "pkg", "src", "util", "v1.0_abc_def"); dir != want {
		t.Fatalf("git dir = %q, want %q", dir, want)
	}
	if _, err := PackageDir(home, &LockedPackage{Name: "bad", Source: "ftp://x"}); err == nil {
		t.Fatalf("expected unsupported source error")
	}
}

func TestDirChecksumIgnoresGitMetadata(t *testing.T) {
	a := t.TempDir()
	b := t.TempDir()
	writeFile(t, filepath.Join(a, "main.lox"), "print 1;")
	writeFile(t, filepath.Join(b, "main.lox"), "print 1;")
	writeFile(t, filepath.Join(b, ".git", "HEAD"), "ref: refs/heads/main\n")
	sumA, err := DirChecksum(a)
	if err != nil {
		t.Fatalf("checksum a: %v", err)
	}
	sumB, err := DirChecksum(b)
	if err != nil {
		t.Fatalf("checksum b: %v", err)
	}
	if sumA != sumB {
		t.Fatalf("checksums differ: %s vs %s", sumA, sumB)
	}
}

func TestLoxHome(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LOX_HOME", dir)
	home, err := LoxHome()
	if err != nil || home != dir {
		t.Fatalf("LoxHome = %q, %v", home, err)
	}
}
