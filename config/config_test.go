package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"
)

type geminiSection struct {
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type testConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Gemini        geminiSection `mapstructure:"gemini"`
	Admins        []string      `mapstructure:"admins"`
}

func TestServiceConfigApplyDefaults(t *testing.T) {
	t.Run("empty environment defaults to development", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc"}
		cfg.ApplyDefaults()
		if cfg.Environment != "development" {
			t.Errorf("expected 'development', got %q", cfg.Environment)
		}
		if !cfg.Debug {
			t.Error("expected debug=true for development")
		}
		if cfg.Logging.Level != "info" {
			t.Errorf("expected logging defaults, got level %q", cfg.Logging.Level)
		}
	})

	t.Run("production keeps debug false", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc", Environment: "production"}
		cfg.ApplyDefaults()
		if cfg.Debug {
			t.Error("expected debug=false for production")
		}
		if !cfg.IsProduction() {
			t.Error("expected IsProduction")
		}
	})
}

func TestServiceConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ServiceConfig
		wantErr string
	}{
		{"valid", ServiceConfig{Name: "svc", Environment: "staging"}, ""},
		{"missing name", ServiceConfig{Environment: "production"}, "config.name is required"},
		{"invalid environment", ServiceConfig{Name: "svc", Environment: "qa"}, "config.environment must be one of"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.cfg.Logging.ApplyDefaults()
			err := tc.cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestKeys(t *testing.T) {
	keys := Keys(&testConfig{})
	for _, want := range []string{"name", "environment", "logging.level", "gemini.api_key", "gemini.timeout", "admins"} {
		if !slices.Contains(keys, want) {
			t.Errorf("missing key %q in %v", want, keys)
		}
	}
}

func TestEnvName(t *testing.T) {
	if got := EnvName("gemini.api_key"); got != "GEMINI_API_KEY" {
		t.Fatalf("EnvName = %q", got)
	}
}

func TestLoadConfigFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	yml := "name: speechturn\ngemini:\n  api_key: from-file\n  timeout: 30s\nadmins: [root]\n"
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Run("file values", func(t *testing.T) {
		var cfg testConfig
		if err := LoadConfig("speechturn", &cfg, WithConfigFile(path)); err != nil {
			t.Fatalf("LoadConfig: %v", err)
		}
		if cfg.Name != "speechturn" || cfg.Gemini.APIKey != "from-file" {
			t.Fatalf("unexpected config %+v", cfg)
		}
		if cfg.Gemini.Timeout != 30*time.Second {
			t.Fatalf("timeout = %v", cfg.Gemini.Timeout)
		}
	})

	t.Run("environment overrides file", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "from-env")
		var cfg testConfig
		if err := LoadConfig("speechturn", &cfg, WithConfigFile(path)); err != nil {
			t.Fatalf("LoadConfig: %v", err)
		}
		if cfg.Gemini.APIKey != "from-env" {
			t.Fatalf("api key = %q", cfg.Gemini.APIKey)
		}
	})

	t.Run("alias wins over derived name", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "derived")
		t.Setenv("GOOGLE_API_KEY", "alias")
		var cfg testConfig
		err := LoadConfig("speechturn", &cfg, WithConfigFile(path),
			WithEnvAliases(map[string]string{"gemini.api_key": "GOOGLE_API_KEY"}))
		if err != nil {
			t.Fatalf("LoadConfig: %v", err)
		}
		if cfg.Gemini.APIKey != "alias" {
			t.Fatalf("api key = %q", cfg.Gemini.APIKey)
		}
	})
}

type fakeFS struct {
	files  map[string]bool
	loaded []string
}

func (f *fakeFS) Exists(path string) bool { return f.files[path] }
func (f *fakeFS) LoadEnv(path string) error {
	f.loaded = append(f.loaded, path)
	return nil
}

func TestLoadConfigSearchesEnvFile(t *testing.T) {
	fs := &fakeFS{files: map[string]bool{".env": true}}
	var cfg testConfig
	if err := LoadConfig("speechturn", &cfg, WithFileSystem(fs)); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if len(fs.loaded) != 1 || fs.loaded[0] != ".env" {
		t.Fatalf("expected .env to be loaded, got %v", fs.loaded)
	}
}
