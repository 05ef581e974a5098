package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/iocboot/errors"
	"github.com/kbukum/iocboot/module"
)

type mockFS struct {
	files  map[string]bool
	loaded []string
}

func (m *mockFS) Exists(path string) bool { return m.files[path] }
func (m *mockFS) LoadEnv(path string) error {
	m.loaded = append(m.loaded, path)
	return nil
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// clearEnv blanks variables that would otherwise override file values.
// Viper treats empty variables as unset.
func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
	}
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
		if cfg.Logging.Level != "debug" {
			t.Errorf("expected debug log level, got %q", cfg.Logging.Level)
		}
	})

	t.Run("production keeps debug false", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc", Environment: "production"}
		cfg.ApplyDefaults()
		if cfg.Debug {
			t.Error("expected debug=false for production")
		}
		if cfg.Logging.Level != "info" {
			t.Errorf("expected info log level, got %q", cfg.Logging.Level)
		}
	})

	t.Run("identity propagates to sections", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc", Version: "1.2.3", Environment: "staging"}
		cfg.ApplyDefaults()
		if cfg.Logging.ServiceName != "svc" {
			t.Errorf("logging service name = %q", cfg.Logging.ServiceName)
		}
		if cfg.Telemetry.ServiceName != "svc" || cfg.Telemetry.ServiceVersion != "1.2.3" {
			t.Errorf("telemetry identity = %q/%q", cfg.Telemetry.ServiceName, cfg.Telemetry.ServiceVersion)
		}
		if cfg.Telemetry.Environment != "staging" {
			t.Errorf("telemetry environment = %q", cfg.Telemetry.Environment)
		}
		if cfg.Container.SkipPattern != module.DefaultSkipPattern {
			t.Errorf("skip pattern = %q", cfg.Container.SkipPattern)
		}
	})
}

func TestServiceConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ServiceConfig)
		wantErr string
	}{
		{"valid", func(*ServiceConfig) {}, ""},
		{"missing name", func(c *ServiceConfig) { c.Name = "" }, "name: is required"},
		{"invalid environment", func(c *ServiceConfig) { c.Environment = "qa" }, "environment: must be one of"},
		{"invalid log level", func(c *ServiceConfig) { c.Logging.Level = "loud" }, "config.logging"},
		{"invalid skip pattern", func(c *ServiceConfig) { c.Container.ExtraSkipPatterns = []string{"("} }, "config.container"},
		{"telemetry without endpoint", func(c *ServiceConfig) {
			c.Telemetry.Enabled = true
			c.Telemetry.Endpoint = ""
		}, "config.telemetry"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := ServiceConfig{Name: "svc"}
			cfg.ApplyDefaults()
			tc.mutate(&cfg)

			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("expected error containing %q, got %q", tc.wantErr, err.Error())
			}
		})
	}
}

func TestServiceConfigValidateReturnsAppError(t *testing.T) {
	cfg := ServiceConfig{}
	cfg.ApplyDefaults()
	if got := errors.CodeOf(cfg.Validate()); got != errors.ErrCodeInvalidInput {
		t.Errorf("code = %s, want %s", got, errors.ErrCodeInvalidInput)
	}
}

type testConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Database      struct {
		DSN          string        `mapstructure:"dsn"`
		MaxOpenConns int           `mapstructure:"max_open_conns"`
		Timeout      time.Duration `mapstructure:"timeout"`
	} `mapstructure:"database"`
}

func TestLoadConfigWithYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", `
name: test-service
environment: staging
version: "1.0.0"
container:
  hosted: true
  extra_skip_patterns: ["^internal/legacy"]
database:
  dsn: "file::memory:"
  max_open_conns: 5
  timeout: 3s
`)
	clearEnv(t, "NAME", "ENVIRONMENT", "VERSION", "DEBUG", "CONTAINER_HOSTED", "DATABASE_DSN")

	var cfg testConfig
	if err := LoadConfig("test-service", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Name != "test-service" {
		t.Errorf("expected name 'test-service', got %q", cfg.Name)
	}
	if cfg.Environment != "staging" {
		t.Errorf("expected environment 'staging', got %q", cfg.Environment)
	}
	if !cfg.Container.Hosted {
		t.Error("expected container.hosted=true")
	}
	if len(cfg.Container.ExtraSkipPatterns) != 1 {
		t.Errorf("expected one extra skip pattern, got %v", cfg.Container.ExtraSkipPatterns)
	}
	if cfg.Database.MaxOpenConns != 5 || cfg.Database.Timeout != 3*time.Second {
		t.Errorf("unexpected database section: %+v", cfg.Database)
	}
}

func TestLoadConfigEnvironmentOverrides(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", "name: from-file\n")

	t.Setenv("NAME", "from-env")
	t.Setenv("DATABASE_MAX_OPEN_CONNS", "42")
	t.Setenv("LOGGING_LEVEL", "warn")

	var cfg testConfig
	if err := LoadConfig("svc", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Name != "from-env" {
		t.Errorf("name = %q, want from-env", cfg.Name)
	}
	if cfg.Database.MaxOpenConns != 42 {
		t.Errorf("max_open_conns = %d, want 42", cfg.Database.MaxOpenConns)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("logging.level = %q, want warn", cfg.Logging.Level)
	}
}

func TestLoadConfigEnvPrefix(t *testing.T) {
	t.Setenv("GREETER_DATABASE_DSN", "prefixed")
	t.Setenv("DATABASE_DSN", "unprefixed")

	var cfg testConfig
	if err := LoadConfig("greeter", &cfg, WithFileSystem(&mockFS{}), WithEnvPrefix("greeter")); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Database.DSN != "prefixed" {
		t.Errorf("dsn = %q, want prefixed", cfg.Database.DSN)
	}
}

func TestLoadConfigEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := writeFile(t, dir, ".env", "DATABASE_DSN=from-dotenv\n")
	t.Setenv("DATABASE_DSN", "")
	os.Unsetenv("DATABASE_DSN")

	var cfg testConfig
	if err := LoadConfig("svc", &cfg, WithConfigFile(filepath.Join(dir, "missing.yml")), WithEnvFile(envPath)); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Database.DSN != "from-dotenv" {
		t.Errorf("dsn = %q, want from-dotenv", cfg.Database.DSN)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	var cfg testConfig
	err := LoadConfig("nonexistent-service", &cfg, WithConfigFile("/nonexistent/path.yml"))
	if err != nil {
		t.Fatalf("expected LoadConfig to succeed with missing file, got %v", err)
	}
}

func TestResolverWithMockFS(t *testing.T) {
	tests := []struct {
		name       string
		files      []string
		wantConfig string
		wantEnv    string
	}{
		{"service directory", []string{"./cmd/my-svc/config.yml"}, "./cmd/my-svc/config.yml", ""},
		{"short name", []string{"./cmd/svc/config.yml"}, "./cmd/svc/config.yml", ""},
		{"config directory", []string{"../config/config.yaml"}, "../config/config.yaml", ""},
		{"service env preferred", []string{"./.env", "./.env.my-svc"}, "", "./.env.my-svc"},
		{"plain env", []string{"../../.env"}, "", "../../.env"},
		{"nothing found", nil, "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fs := &mockFS{files: map[string]bool{}}
			for _, f := range tc.files {
				fs.files[f] = true
			}
			resolver := &Resolver{FileSystem: fs}
			files := resolver.ResolveFiles("my-svc", LoaderConfig{})
			if files.ConfigFile != tc.wantConfig {
				t.Errorf("config file = %q, want %q", files.ConfigFile, tc.wantConfig)
			}
			if files.EnvFile != tc.wantEnv {
				t.Errorf("env file = %q, want %q", files.EnvFile, tc.wantEnv)
			}
		})
	}
}

func TestResolverExplicitPathsWin(t *testing.T) {
	fs := &mockFS{files: map[string]bool{"./config.yml": true}}
	resolver := &Resolver{FileSystem: fs}
	files := resolver.ResolveFiles("svc", LoaderConfig{ConfigFile: "/etc/svc.yml", EnvFile: "/etc/svc.env"})
	if files.ConfigFile != "/etc/svc.yml" || files.EnvFile != "/etc/svc.env" {
		t.Errorf("unexpected resolution: %+v", files)
	}
}

func TestLoaderOptions(t *testing.T) {
	var lc LoaderConfig
	fs := &mockFS{}
	for _, opt := range []LoaderOption{
		WithFileSystem(fs),
		WithConfigFile("/path/to/config.yml"),
		WithEnvFile("/path/to/.env"),
		WithEnvPrefix("app"),
	} {
		opt(&lc)
	}
	if lc.FileSystem != fs {
		t.Error("expected FileSystem to be set")
	}
	if lc.ConfigFile != "/path/to/config.yml" || lc.EnvFile != "/path/to/.env" || lc.EnvPrefix != "app" {
		t.Errorf("unexpected loader config: %+v", lc)
	}
}
