package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	sourcePathPrefix = "path:"
	sourceGitPrefix  = "git+"
)

// LoxHome returns the dependency cache root: $LOX_HOME, else ~/.lox.
func LoxHome() (string, error) {
	if home := strings.TrimSpace(os.Getenv("LOX_HOME")); home != "" {
		return filepath.Abs(home)
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("lox home: %w", err)
	}
	return filepath.Join(userHome, ".lox"), nil
}

// PathSource formats the lockfile source of a local path dependency.
func PathSource(dir string) string {
	return sourcePathPrefix + filepath.ToSlash(dir)
}

// GitSource formats the lockfile source of a git dependency.
func GitSource(url, commit string) string {
	return fmt.Sprintf("%s%s@%s", sourceGitPrefix, url, commit)
}

// GitCheckoutDir is where a git dependency version is materialised.
func GitCheckoutDir(home, name, version string) string {
	return filepath.Join(home, "pkg", "src", sanitizeSegment(name), SanitizePathSegment(version))
}

// PackageDir locates the on-disk directory of a locked package.
func PackageDir(home string, pkg *LockedPackage) (string, error) {
	switch {
	case strings.HasPrefix(pkg.Source, sourcePathPrefix):
		return filepath.FromSlash(strings.TrimPrefix(pkg.Source, sourcePathPrefix)), nil
	case strings.HasPrefix(pkg.Source, sourceGitPrefix):
		return GitCheckoutDir(home, pkg.Name, pkg.Version), nil
	default:
		return "", fmt.Errorf("lockfile: package %s has unsupported source %q", pkg.Name, pkg.Source)
	}
}

// SanitizePathSegment maps a version or ref to a safe directory name.
func SanitizePathSegment(segment string) string {
	segment = strings.TrimSpace(segment)
	if segment == "" {
		return "head"
	}
	var b strings.Builder
	for _, r := range segment {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// DirChecksum hashes file names and contents under path. Git metadata is
// skipped so a checkout hashes the same as its source tree.
func DirChecksum(path string) (string, error) {
	h := sha256.New()
	err := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(path, p)
		if err != nil {
			return err
		}
		h.Write([]byte(filepath.ToSlash(rel)))
		h.Write(data)
		return nil
	})
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
