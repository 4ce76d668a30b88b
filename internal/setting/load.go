package setting

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed rulesets/*.yaml
var builtinFS embed.FS

// Decode reads one YAML ruleset and validates it. Unknown keys are rejected
// so that a misspelt table name does not silently become an empty table.
func Decode(r io.Reader) (*GameSetting, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode game setting: %w", err)
	}
	return New(cfg)
}

// LoadFile decodes the ruleset stored at path.
func LoadFile(path string) (*GameSetting, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read game setting: %w", err)
	}
	gs, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return gs, nil
}

// LoadDir decodes every *.yaml / *.yml file in dir, in name order.
func LoadDir(dir string) ([]*GameSetting, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read ruleset dir: %w", err)
	}
	var out []*GameSetting
	for _, e := range entries {
		if e.IsDir() || !isYAML(e.Name()) {
			continue
		}
		gs, err := LoadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		out = append(out, gs)
	}
	return out, nil
}

// Builtin decodes the rulesets shipped with the binary.
func Builtin() ([]*GameSetting, error) {
	names, err := fs.Glob(builtinFS, "rulesets/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("list builtin rulesets: %w", err)
	}
	sort.Strings(names)
	out := make([]*GameSetting, 0, len(names))
	for _, name := range names {
		data, err := builtinFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read builtin ruleset: %w", err)
		}
		gs, err := Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		out = append(out, gs)
	}
	return out, nil
}

// LoadManager registers the builtin rulesets plus any found in extraDir.
// An empty extraDir is skipped.
func LoadManager(extraDir string) (*Manager, error) {
	all, err := Builtin()
	if err != nil {
		return nil, err
	}
	if extraDir != "" {
		extra, err := LoadDir(extraDir)
		if err != nil {
			return nil, err
		}
		all = append(all, extra...)
	}
	return NewManager(all...)
}

func isYAML(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}
