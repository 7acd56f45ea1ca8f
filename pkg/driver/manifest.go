package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// ManifestName is the project manifest file name.
	ManifestName = "lox.yml"
	// DefaultMain is the entry script used when the manifest names none.
	DefaultMain = "main.lox"
)

// Manifest represents the parsed contents of lox.yml.
type Manifest struct {
	Path         string
	Name         string
	Version      string
	Main         string
	Preludes     []string
	Dependencies map[string]*DependencySpec
	Settings     Settings
}

// Settings tunes the interpreter for this project.
type Settings struct {
	MaxCallDepth int
	// Strict refuses to interpret a script whose resolution reported errors.
	Strict       bool
}

// DependencySpec describes a dependency descriptor in the manifest.
type DependencySpec struct {
	Git    string
	Rev    string
	Tag    string
	Branch string
	Path   string
	Main   string
}

// ValidationError aggregates manifest validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// ErrManifestNotFound is returned by FindManifest when no lox.yml exists in
// the directory or any of its parents.
var ErrManifestNotFound = errors.New("manifest: lox.yml not found")

// FindManifest searches start and its parents for lox.yml.
func FindManifest(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("manifest: resolve %s: %w", start, err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrManifestNotFound
		}
		dir = parent
	}
}

// LoadManifest parses lox.yml from disk, returning a validated manifest.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw manifestFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest: %s is empty", absPath)
		}
		return nil, fmt.Errorf("manifest: parse %s: %w", absPath, err)
	}

	manifest := raw.toManifest(absPath)
	if err := manifest.validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

// Dir is the directory holding the manifest; relative paths resolve here.
func (m *Manifest) Dir() string {
	return filepath.Dir(m.Path)
}

// DependencyNames returns dependency names in sorted order.
func (m *Manifest) DependencyNames() []string {
	names := make([]string, 0, len(m.Dependencies))
	for name := range m.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m *Manifest) validate() error {
	var errs ValidationError
	if m.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}
	if m.Settings.MaxCallDepth < 0 {
		errs.Issues = append(errs.Issues, "settings.max_call_depth must not be negative")
	}
	if !strings.HasSuffix(m.Main, ".lox") {
		errs.Issues = append(errs.Issues, fmt.Sprintf("main %q must be a .lox file", m.Main))
	}
	for i, prelude := range m.Preludes {
		if !strings.HasSuffix(prelude, ".lox") {
			errs.Issues = append(errs.Issues, fmt.Sprintf("preludes[%d] %q must be a .lox file", i, prelude))
		}
	}
	for _, name := range m.DependencyNames() {
		for _, issue := range m.Dependencies[name].validate() {
			errs.Issues = append(errs.Issues, fmt.Sprintf("dependencies.%s: %s", name, issue))
		}
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

func (d *DependencySpec) validate() []string {
	var errs []string
	if d == nil {
		return errs
	}
	if d.Path != "" && d.Git != "" {
		errs = append(errs, "path dependencies cannot also specify git")
	}
	if d.Git == "" && d.Path == "" {
		errs = append(errs, "must specify git or path")
	}
	refs := 0
	for _, ref := range []string{d.Rev, d.Tag, d.Branch} {
		if ref != "" {
			refs++
		}
	}
	if d.Git != "" && refs == 0 {
		errs = append(errs, "git dependencies require rev, tag, or branch")
	}
	if refs > 1 {
		errs = append(errs, "specify only one of rev, tag, or branch")
	}
	if d.Path != "" && refs > 0 {
		errs = append(errs, "path dependencies cannot pin a revision")
	}
	return errs
}

type manifestFile struct {
	Name         string        `yaml:"name"`
	Version      string        `yaml:"version"`
	Main         string        `yaml:"main"`
	Preludes     stringList    `yaml:"preludes"`
	Dependencies dependencyMap `yaml:"dependencies"`
	Settings     settingsYAML  `yaml:"settings"`
}

type settingsYAML struct {
	MaxCallDepth int   `yaml:"max_call_depth"`
	Strict       *bool `yaml:"strict"`
}

type dependencyMap map[string]*DependencySpec

type stringList []string

func (mf manifestFile) toManifest(path string) *Manifest {
	result := &Manifest{
		Path:         path,
		Name:         sanitizeSegment(mf.Name),
		Version:      strings.TrimSpace(mf.Version),
		Main:         filepath.ToSlash(strings.TrimSpace(mf.Main)),
		Preludes:     mf.Preludes.Clone(),
		Dependencies: make(map[string]*DependencySpec, len(mf.Dependencies)),
		Settings: Settings{
			MaxCallDepth: mf.Settings.MaxCallDepth,
			Strict:       true,
		},
	}
	if result.Main == "" {
		result.Main = DefaultMain
	}
	if mf.Settings.Strict != nil {
		result.Settings.Strict = *mf.Settings.Strict
	}
	for name, dep := range mf.Dependencies {
		if dep == nil {
			continue
		}
		spec := *dep
		result.Dependencies[sanitizeSegment(name)] = &spec
	}
	return result
}

func (l stringList) Clone() []string {
	if len(l) == 0 {
		return nil
	}
	out := make([]string, 0, len(l))
	for _, item := range l {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}

func (l *stringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" || strings.TrimSpace(value.Value) == "" {
			*l = nil
			return nil
		}
		*l = stringList{strings.TrimSpace(value.Value)}
		return nil
	case yaml.SequenceNode:
		items := make([]string, 0, len(value.Content))
		for _, node := range value.Content {
			var str string
			if err := node.Decode(&str); err != nil {
				return err
			}
			items = append(items, str)
		}
		*l = stringList(items)
		return nil
	case yaml.AliasNode:
		return l.UnmarshalYAML(value.Alias)
	case 0:
		*l = nil
		return nil
	default:
		return fmt.Errorf("manifest: expected string or sequence for list but found %s", value.ShortTag())
	}
}

func (dm *dependencyMap) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == 0 || (value.Kind == yaml.ScalarNode && value.Tag == "!!null") {
		*dm = make(dependencyMap)
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("manifest: dependencies must be a mapping")
	}
	result := make(dependencyMap, len(value.Content)/2)
	for i := 0; i < len(value.Content); i += 2 {
		keyNode := value.Content[i]
		valNode := value.Content[i+1]

		var key string
		if err := keyNode.Decode(&key); err != nil {
			return err
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("manifest: dependency names must be non-empty")
		}
		var dep DependencySpec
		if err := dep.unmarshalYAML(valNode); err != nil {
			return fmt.Errorf("manifest: dependency %q: %w", key, err)
		}
		result[key] = &dep
	}
	*dm = result
	return nil
}

// A scalar dependency value is shorthand for a local path.
func (d *DependencySpec) unmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" || strings.TrimSpace(value.Value) == "" {
			*d = DependencySpec{}
			return nil
		}
		*d = DependencySpec{Path: strings.TrimSpace(value.Value)}
		return nil
	case yaml.MappingNode:
		var raw struct {
			Git    string `yaml:"git"`
			Rev    string `yaml:"rev"`
			Tag    string `yaml:"tag"`
			Branch string `yaml:"branch"`
			Path   string `yaml:"path"`
			Main   string `yaml:"main"`
		}
		if err := value.Decode(&raw); err != nil {
			return err
		}
		*d = DependencySpec{
			Git:    strings.TrimSpace(raw.Git),
			Rev:    strings.TrimSpace(raw.Rev),
			Tag:    strings.TrimSpace(raw.Tag),
			Branch: strings.TrimSpace(raw.Branch),
			Path:   strings.TrimSpace(raw.Path),
			Main:   strings.TrimSpace(raw.Main),
		}
		return nil
	case yaml.AliasNode:
		return d.unmarshalYAML(value.Alias)
	default:
		return fmt.Errorf("expected string or mapping, found %s", value.ShortTag())
	}
}

func sanitizeSegment(seg string) string {
	seg = strings.TrimSpace(seg)
	seg = strings.ReplaceAll(seg, "-", "_")
	return seg
}

// SanitizeName normalises a package name the way manifests and lockfiles
// store it.
func SanitizeName(name string) string {
	return sanitizeSegment(name)
}
