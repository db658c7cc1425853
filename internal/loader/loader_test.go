package loader

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
)

// MemFS is an in-memory file system for testing.
type MemFS struct {
	files map[string][]byte
}

func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

func (m *MemFS) AddFile(path string, content string) {
	m.files[path] = []byte(content)
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

// getByPath gets a value from a nested map using a dot-separated path.
func getByPath(data map[string]any, path string) (any, bool) {
	parts := strings.Split(path, ".")
	current := data
	for i, part := range parts {
		val, ok := current[part]
		if !ok {
			return nil, false
		}
		if i == len(parts)-1 {
			return val, true
		}
		next, ok := val.(map[string]any)
		if !ok {
			return nil, false
		}
		current = next
	}
	return nil, false
}

const tomlConfig = `
default_priority = 50

[logging]
level = "debug"

[metrics]
enabled = true
namespace = "editor"
`

const yamlConfig = `
default_priority: 50
logging:
  level: debug
metrics:
  enabled: true
  namespace: editor
`

func TestFileLoaders(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		config string
	}{
		{name: "toml", path: "/etc/eventkit.toml", config: tomlConfig},
		{name: "yaml", path: "/etc/eventkit.yaml", config: yamlConfig},
		{name: "yml", path: "/etc/eventkit.yml", config: yamlConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := NewMemFS()
			fsys.AddFile(tt.path, tt.config)

			l, err := ForPath(fsys, tt.path)
			if err != nil {
				t.Fatalf("ForPath failed: %v", err)
			}
			config, err := l.Load()
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}

			if val, ok := getByPath(config, "logging.level"); !ok || val != "debug" {
				t.Errorf("logging.level = %v, want 'debug'", val)
			}
			if val, ok := getByPath(config, "metrics.enabled"); !ok || val != true {
				t.Errorf("metrics.enabled = %v, want true", val)
			}
			if val, ok := getByPath(config, "metrics.namespace"); !ok || val != "editor" {
				t.Errorf("metrics.namespace = %v, want 'editor'", val)
			}
			if _, ok := getByPath(config, "default_priority"); !ok {
				t.Error("expected default_priority to be present")
			}
		})
	}
}

func TestFileLoader_Missing(t *testing.T) {
	l := NewTOMLLoaderWithFS(NewMemFS(), "/missing.toml")

	config, err := l.Load()
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if config != nil {
		t.Errorf("expected nil config, got %v", config)
	}
}

func TestFileLoader_ParseError(t *testing.T) {
	fsys := NewMemFS()
	fsys.AddFile("/bad.toml", "default_priority = = 1")
	fsys.AddFile("/bad.yaml", "logging: [unclosed")

	for _, path := range []string{"/bad.toml", "/bad.yaml"} {
		l, err := ForPath(fsys, path)
		if err != nil {
			t.Fatalf("ForPath failed: %v", err)
		}

		_, err = l.Load()
		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Fatalf("%s: expected ParseError, got %v", path, err)
		}
		if parseErr.Path != path {
			t.Errorf("expected path %s, got %s", path, parseErr.Path)
		}
		if parseErr.Unwrap() == nil {
			t.Error("expected wrapped parser error")
		}
	}
}

func TestLoadFromReader(t *testing.T) {
	config, err := NewYAMLLoader("").LoadFromReader(strings.NewReader(yamlConfig))
	if err != nil {
		t.Fatalf("LoadFromReader failed: %v", err)
	}
	if val, ok := getByPath(config, "logging.level"); !ok || val != "debug" {
		t.Errorf("logging.level = %v, want 'debug'", val)
	}

	config, err = NewTOMLLoader("").LoadFromReader(strings.NewReader(tomlConfig))
	if err != nil {
		t.Fatalf("LoadFromReader failed: %v", err)
	}
	if val, ok := getByPath(config, "metrics.namespace"); !ok || val != "editor" {
		t.Errorf("metrics.namespace = %v, want 'editor'", val)
	}
}

func TestForPath_Unsupported(t *testing.T) {
	if _, err := ForPath(NewMemFS(), "/etc/eventkit.json"); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestDeepMerge(t *testing.T) {
	dst := map[string]any{
		"default_priority": int64(100),
		"logging": map[string]any{
			"level":       "info",
			"development": false,
		},
	}
	src := map[string]any{
		"logging": map[string]any{
			"level": "debug",
		},
		"metrics": map[string]any{
			"enabled": true,
		},
	}

	merged := DeepMerge(dst, src)

	if val, _ := getByPath(merged, "logging.level"); val != "debug" {
		t.Errorf("logging.level = %v, want 'debug'", val)
	}
	if val, _ := getByPath(merged, "logging.development"); val != false {
		t.Errorf("logging.development = %v, want false", val)
	}
	if val, _ := getByPath(merged, "metrics.enabled"); val != true {
		t.Errorf("metrics.enabled = %v, want true", val)
	}
	if val, _ := getByPath(merged, "default_priority"); val != int64(100) {
		t.Errorf("default_priority = %v, want 100", val)
	}
}

func TestDeepMerge_Nil(t *testing.T) {
	if got := DeepMerge(nil, nil); got == nil || len(got) != 0 {
		t.Errorf("expected empty map, got %v", got)
	}

	src := map[string]any{"a": 1}
	if got := DeepMerge(nil, src); got["a"] != 1 {
		t.Errorf("expected a=1, got %v", got["a"])
	}
}
