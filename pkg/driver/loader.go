package driver

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Source is one script handed to the pipeline.
type Source struct {
	// Name is how diagnostics and logs refer to the script.
	Name string
	Path string
	Text string
}

// ReadSource loads a script from disk.
func ReadSource(path string) (Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Source{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Source{Name: filepath.Base(path), Path: path, Text: string(data)}, nil
}

// Program lists the scripts of a project in execution order: locked
// dependency mains, then preludes, then the entry script.
type Program struct {
	Manifest *Manifest
	Lockfile *Lockfile
	Preludes []Source
	Entry    Source
}

// Scripts returns every source in execution order.
func (p *Program) Scripts() []Source {
	out := make([]Source, 0, len(p.Preludes)+1)
	out = append(out, p.Preludes...)
	return append(out, p.Entry)
}

// ErrLockfileMissing reports a manifest with dependencies but no lox.lock.
var ErrLockfileMissing = errors.New("lox.lock missing; run `lox deps install`")

// Loader assembles a Program from a manifest.
type Loader struct {
	// Home is the dependency cache root (see LoxHome).
	Home            string
	// VerifyChecksums rejects dependencies whose contents changed since locking.
	VerifyChecksums bool
}

// NewLoader constructs a loader rooted at home.
func NewLoader(home string) *Loader {
	return &Loader{Home: home, VerifyChecksums: true}
}

// Load reads the manifest at manifestPath and every script it references.
// A non-empty entry overrides the manifest's main.
func (l *Loader) Load(manifestPath, entry string) (*Program, error) {
	program, err := l.LoadLibraries(manifestPath)
	if err != nil {
		return nil, err
	}
	if entry == "" {
		entry = program.Manifest.Main
	}
	src, err := ReadSource(l.projectPath(program.Manifest, entry))
	if err != nil {
		return nil, fmt.Errorf("entry: %w", err)
	}
	program.Entry = src
	return program, nil
}

// LoadLibraries is Load without an entry script: only dependency mains and
// preludes are read.
func (l *Loader) LoadLibraries(manifestPath string) (*Program, error) {
	manifest, err := LoadManifest(manifestPath)
	if err != nil {
		return nil, err
	}
	program := &Program{Manifest: manifest}

	lock, err := LoadLockfile(filepath.Join(manifest.Dir(), LockfileName))
	switch {
	case err == nil:
		program.Lockfile = lock
	case errors.Is(err, fs.ErrNotExist):
		if len(manifest.Dependencies) > 0 {
			return nil, ErrLockfileMissing
		}
	default:
		return nil, err
	}

	if err := l.loadDependencies(program); err != nil {
		return nil, err
	}
	for _, prelude := range manifest.Preludes {
		src, err := ReadSource(l.projectPath(manifest, prelude))
		if err != nil {
			return nil, fmt.Errorf("prelude: %w", err)
		}
		program.Preludes = append(program.Preludes, src)
	}
	return program, nil
}

func (l *Loader) loadDependencies(program *Program) error {
	if program.Lockfile == nil {
		return nil
	}
	for _, name := range program.Manifest.DependencyNames() {
		if _, ok := program.Lockfile.Find(name); !ok {
			return fmt.Errorf("dependency %s is not locked; run `lox deps install`", name)
		}
	}
	for _, pkg := range program.Lockfile.Packages {
		dir, err := PackageDir(l.Home, pkg)
		if err != nil {
			return err
		}
		if l.VerifyChecksums && pkg.Checksum != "" {
			sum, err := DirChecksum(dir)
			if err != nil {
				return fmt.Errorf("dependency %s: %w", pkg.Name, err)
			}
			if sum != pkg.Checksum {
				return fmt.Errorf("dependency %s: checksum mismatch in %s; run `lox deps install`", pkg.Name, dir)
			}
		}
		src, err := ReadSource(filepath.Join(dir, filepath.FromSlash(pkg.Main)))
		if err != nil {
			return fmt.Errorf("dependency %s: %w", pkg.Name, err)
		}
		src.Name = pkg.Name + "/" + pkg.Main
		program.Preludes = append(program.Preludes, src)
	}
	return nil
}

func (l *Loader) projectPath(m *Manifest, rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(m.Dir(), filepath.FromSlash(rel))
}
