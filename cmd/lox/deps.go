package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"lox/interpreter-go/pkg/driver"
	"lox/interpreter-go/pkg/logger"
)

func runDeps(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "lox deps requires a subcommand (install, update)")
		return driver.ExitUsage
	}
	switch args[0] {
	case "install":
		if len(args) > 1 {
			fmt.Fprintf(os.Stderr, "lox deps install does not take arguments (received %s)\n", strings.Join(args[1:], " "))
			return driver.ExitUsage
		}
		return runDepsInstall()
	case "update":
		return runDepsUpdate(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown deps subcommand %q\n", args[0])
		return driver.ExitUsage
	}
}

// depsContext is what both deps subcommands need before resolving.
type depsContext struct {
	manifest    *driver.Manifest
	home        string
	lock        *driver.Lockfile
	lockPath    string
	lockCreated bool
}

func loadDepsContext() (*depsContext, int) {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to determine working directory: %v\n", err)
		return nil, driver.ExitFailure
	}
	manifestPath, err := driver.FindManifest(cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "unable to locate %s: %v\n", driver.ManifestName, err)
		return nil, driver.ExitFailure
	}
	manifest, err := driver.LoadManifest(manifestPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read manifest: %v\n", err)
		return nil, driver.ExitFailure
	}
	home, err := driver.LoxHome()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve LOX_HOME: %v\n", err)
		return nil, driver.ExitFailure
	}

	ctx := &depsContext{
		manifest: manifest,
		home:     home,
		lockPath: filepath.Join(manifest.Dir(), driver.LockfileName),
	}
	lock, err := driver.LoadLockfile(ctx.lockPath)
	switch {
	case err == nil:
		if lock.Root != manifest.Name {
			fmt.Fprintf(os.Stderr, "lockfile root %q does not match manifest name %q\n", lock.Root, manifest.Name)
			return nil, driver.ExitFailure
		}
	case errors.Is(err, os.ErrNotExist):
		lock = driver.NewLockfile(manifest.Name, cliToolVersion)
		ctx.lockCreated = true
	default:
		fmt.Fprintf(os.Stderr, "failed to read lockfile: %v\n", err)
		return nil, driver.ExitFailure
	}
	lock.Path = ctx.lockPath
	lock.Tool = cliToolVersion
	ctx.lock = lock
	return ctx, driver.ExitOK
}

func runDepsInstall() int {
	ctx, code := loadDepsContext()
	if ctx == nil {
		return code
	}

	fmt.Fprintf(os.Stdout, "Manifest: %s\n", ctx.manifest.Path)
	fmt.Fprintf(os.Stdout, "Root package: %s\n", ctx.manifest.Name)
	fmt.Fprintf(os.Stdout, "Dependencies: %d\n", len(ctx.manifest.Dependencies))
	fmt.Fprintf(os.Stdout, "Cache directory: %s\n", ctx.home)

	installer := newDependencyInstaller(ctx.manifest, ctx.home)
	changed, logs, err := installer.Install(ctx.lock)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve dependencies: %v\n", err)
		return driver.ExitFailure
	}
	for _, line := range logs {
		fmt.Fprintln(os.Stdout, line)
	}

	if changed || ctx.lockCreated {
		action := "Updated"
		if ctx.lockCreated {
			action = "Created"
		}
		if err := driver.WriteLockfile(ctx.lock, ctx.lockPath); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write lockfile: %v\n", err)
			return driver.ExitFailure
		}
		fmt.Fprintf(os.Stdout, "%s %s: %s\n", action, driver.LockfileName, ctx.lockPath)
	} else {
		fmt.Fprintf(os.Stdout, "%s already up to date: %s\n", driver.LockfileName, ctx.lockPath)
	}

	fmt.Fprintln(os.Stdout, "Dependencies installed.")
	return driver.ExitOK
}

// runDepsUpdate re-resolves the named dependencies, or all of them when no
// names are given.
func runDepsUpdate(targets []string) int {
	ctx, code := loadDepsContext()
	if ctx == nil {
		return code
	}

	updateSet := make(map[string]struct{})
	for _, target := range targets {
		name := driver.SanitizeName(target)
		if _, ok := ctx.manifest.Dependencies[name]; !ok {
			fmt.Fprintf(os.Stderr, "dependency %q not declared in manifest\n", target)
			return driver.ExitFailure
		}
		updateSet[name] = struct{}{}
	}

	if len(updateSet) == 0 {
		ctx.lock.Packages = nil
	} else {
		filtered := make([]*driver.LockedPackage, 0, len(ctx.lock.Packages))
		for _, pkg := range ctx.lock.Packages {
			if pkg == nil {
				continue
			}
			if _, ok := updateSet[pkg.Name]; ok {
				continue
			}
			filtered = append(filtered, pkg)
		}
		ctx.lock.Packages = filtered
	}

	installer := newDependencyInstaller(ctx.manifest, ctx.home)
	installer.refresh = true
	changed, logs, err := installer.Install(ctx.lock)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to update dependencies: %v\n", err)
		return driver.ExitFailure
	}
	for _, line := range logs {
		fmt.Fprintln(os.Stdout, line)
	}

	if changed || ctx.lockCreated {
		if err := driver.WriteLockfile(ctx.lock, ctx.lockPath); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write lockfile: %v\n", err)
			return driver.ExitFailure
		}
		fmt.Fprintf(os.Stdout, "Updated %s: %s\n", driver.LockfileName, ctx.lockPath)
	} else {
		fmt.Fprintln(os.Stdout, "Dependencies already up to date.")
	}
	return driver.ExitOK
}

// dependencyInstaller brings a lockfile in line with the manifest.
type dependencyInstaller struct {
	manifest *driver.Manifest
	home     string
	git      *gitFetcher
	// refresh re-fetches git dependencies whose branch or tag may have moved.
	refresh  bool
}

func newDependencyInstaller(manifest *driver.Manifest, home string) *dependencyInstaller {
	return &dependencyInstaller{
		manifest: manifest,
		home:     home,
		git:      newGitFetcher(home),
	}
}

// Install resolves every manifest dependency missing from or outdated in
// lock and drops locked packages the manifest no longer names. It reports
// whether lock changed along with human-readable progress lines.
func (i *dependencyInstaller) Install(lock *driver.Lockfile) (bool, []string, error) {
	var logs []string
	changed := false

	kept := make([]*driver.LockedPackage, 0, len(lock.Packages))
	for _, pkg := range lock.Packages {
		if pkg == nil {
			continue
		}
		if _, ok := i.manifest.Dependencies[pkg.Name]; !ok {
			logs = append(logs, fmt.Sprintf("Removed %s %s", pkg.Name, pkg.Version))
			changed = true
			continue
		}
		kept = append(kept, pkg)
	}
	lock.Packages = kept

	for _, name := range i.manifest.DependencyNames() {
		spec := i.manifest.Dependencies[name]
		existing, locked := lock.Find(name)
		if locked && i.current(name, spec, existing) {
			logs = append(logs, fmt.Sprintf("Using %s %s", name, existing.Version))
			continue
		}

		pkg, err := i.resolve(name, spec)
		if err != nil {
			return changed, logs, err
		}
		if locked {
			if *existing == *pkg {
				logs = append(logs, fmt.Sprintf("Using %s %s", name, pkg.Version))
				continue
			}
			*existing = *pkg
		} else {
			lock.Packages = append(lock.Packages, pkg)
		}
		logs = append(logs, fmt.Sprintf("Installed %s %s (%s)", name, pkg.Version, pkg.Source))
		changed = true
	}
	return changed, logs, nil
}

// current reports whether a locked git package still satisfies spec and is
// present in the cache. Path packages are always re-resolved so edits to
// them refresh the recorded checksum.
func (i *dependencyInstaller) current(name string, spec *driver.DependencySpec, pkg *driver.LockedPackage) bool {
	if spec.Git == "" || i.refresh {
		return false
	}
	if !strings.HasPrefix(pkg.Source, driver.GitSource(strings.TrimSpace(spec.Git), "")) {
		return false
	}
	_, descriptor, err := gitRevisionFromSpec(spec)
	if err != nil || lockedDescriptor(pkg.Version) != descriptor {
		return false
	}
	if main := strings.TrimSpace(spec.Main); main != "" && pkg.Main != filepath.ToSlash(main) {
		return false
	}
	info, err := os.Stat(driver.GitCheckoutDir(i.home, name, pkg.Version))
	return err == nil && info.IsDir()
}

func (i *dependencyInstaller) resolve(name string, spec *driver.DependencySpec) (*driver.LockedPackage, error) {
	if spec.Git != "" {
		pkg, err := i.git.Fetch(name, spec)
		if err != nil {
			return nil, fmt.Errorf("dependency %s: %w", name, err)
		}
		return pkg, nil
	}
	return i.resolvePath(name, spec)
}

func (i *dependencyInstaller) resolvePath(name string, spec *driver.DependencySpec) (*driver.LockedPackage, error) {
	dir := filepath.FromSlash(spec.Path)
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(i.manifest.Dir(), dir)
	}
	dir = filepath.Clean(dir)
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("dependency %s: %w", name, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("dependency %s: %s is not a directory", name, dir)
	}

	depManifest, err := dependencyManifest(dir)
	if err != nil {
		return nil, fmt.Errorf("dependency %s: %w", name, err)
	}
	version := "local"
	if depManifest != nil && depManifest.Version != "" {
		version = depManifest.Version
	}
	checksum, err := driver.DirChecksum(dir)
	if err != nil {
		return nil, fmt.Errorf("dependency %s: checksum %s: %w", name, dir, err)
	}
	logger.LogFetch(name, driver.PathSource(dir), version)
	return &driver.LockedPackage{
		Name:     name,
		Version:  version,
		Source:   driver.PathSource(dir),
		Checksum: checksum,
		Main:     dependencyMain(spec, depManifest),
	}, nil
}

// dependencyManifest loads the lox.yml at the root of a dependency, if it
// has one.
func dependencyManifest(dir string) (*driver.Manifest, error) {
	path := filepath.Join(dir, driver.ManifestName)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return driver.LoadManifest(path)
}

// dependencyMain picks the script a dependency contributes: the manifest
// entry's main, else the dependency's own main, else main.lox.
func dependencyMain(spec *driver.DependencySpec, depManifest *driver.Manifest) string {
	if main := strings.TrimSpace(spec.Main); main != "" {
		return filepath.ToSlash(main)
	}
	if depManifest != nil && depManifest.Main != "" {
		return depManifest.Main
	}
	return driver.DefaultMain
}
