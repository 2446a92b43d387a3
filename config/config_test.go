package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/backendclient/identity"
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

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadWithYAML(t *testing.T) {
	path := writeFile(t, "config.yml", `
name: probe
environment: staging
logging:
  level: debug
  format: json
backend:
  base_url: https://api.example.com
  timeout: 5s
  headers:
    x-tenant: acme
identity:
  mode: static
  token: fixed
  user:
    id: u-1
observability:
  enabled: true
  endpoint: collector:4318
  sample_rate: 0.5
`)

	cfg, err := Load(WithConfigFile(path), WithFileSystem(&mockFS{files: map[string]bool{path: true}}))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Name != "probe" || cfg.Environment != "staging" {
		t.Errorf("unexpected base fields %q %q", cfg.Name, cfg.Environment)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("unexpected logging %+v", cfg.Logging)
	}
	if cfg.Backend.BaseURL != "https://api.example.com" || cfg.Backend.Timeout != 5*time.Second {
		t.Errorf("unexpected backend %+v", cfg.Backend)
	}
	if cfg.Backend.Headers["X-Tenant"] != "acme" || cfg.Backend.Headers["Content-Type"] != "application/json" {
		t.Errorf("unexpected headers %v", cfg.Backend.Headers)
	}
	if cfg.Identity.Mode != identity.ModeStatic || cfg.Identity.User.ID != "u-1" {
		t.Errorf("unexpected identity %+v", cfg.Identity)
	}
	if !cfg.Observability.Enabled || cfg.Observability.SampleRate != 0.5 {
		t.Errorf("unexpected observability %+v", cfg.Observability)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(WithFileSystem(&mockFS{}))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Name != DefaultServiceName {
		t.Errorf("expected name %q, got %q", DefaultServiceName, cfg.Name)
	}
	if cfg.Environment != "development" {
		t.Errorf("expected development, got %q", cfg.Environment)
	}
	if cfg.Backend.Name != DefaultServiceName {
		t.Errorf("expected backend name to follow service name, got %q", cfg.Backend.Name)
	}
	if cfg.Identity.Mode != identity.ModeNone {
		t.Errorf("expected identity mode none, got %q", cfg.Identity.Mode)
	}
}

func TestLoadObservabilityDefaultSampleRate(t *testing.T) {
	path := writeFile(t, "config.yml", `
observability:
  enabled: true
  endpoint: collector:4318
`)

	cfg, err := Load(WithConfigFile(path), WithFileSystem(&mockFS{files: map[string]bool{path: true}}))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Observability.SampleRate != 1.0 {
		t.Errorf("expected sample rate 1.0, got %v", cfg.Observability.SampleRate)
	}
}

func TestLoadBaseURLFromEnvironment(t *testing.T) {
	path := writeFile(t, "config.yml", "backend:\n  base_url: http://from-file:8080\n")
	t.Setenv(EnvBaseURL, "http://from-env:9090")
	t.Setenv("LOGGING_LEVEL", "warn")

	cfg, err := Load(WithConfigFile(path), WithFileSystem(&mockFS{files: map[string]bool{path: true}}))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Backend.BaseURL != "http://from-env:9090" {
		t.Errorf("expected env base url, got %q", cfg.Backend.BaseURL)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected env logging level, got %q", cfg.Logging.Level)
	}
}

func TestLoadMissingBaseURLIsAccepted(t *testing.T) {
	cfg, err := Load(WithFileSystem(&mockFS{}))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Backend.BaseURL != "" {
		t.Errorf("expected empty base url, got %q", cfg.Backend.BaseURL)
	}
}

func TestLoadEnvFile(t *testing.T) {
	envPath := writeFile(t, ".env", EnvBaseURL+"=http://dotenv:7070\n")
	t.Setenv(EnvBaseURL, "")
	os.Unsetenv(EnvBaseURL)

	cfg, err := Load(WithEnvFile(envPath))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Backend.BaseURL != "http://dotenv:7070" {
		t.Errorf("expected base url from .env, got %q", cfg.Backend.BaseURL)
	}
}

func TestLoadValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		yaml   string
		errMsg string
	}{
		{"bad environment", "environment: qa\n", "environment: must be one of"},
		{"bad base url", "backend:\n  base_url: not-a-url\n", "backend.base_url: must be a valid URL"},
		{"negative timeout", "backend:\n  timeout: -1s\n", "backend.timeout"},
		{"bad log level", "logging:\n  level: loud\n", "logging.level"},
		{"bad identity mode", "identity:\n  mode: kerberos\n", "identity.mode"},
		{"static without token", "identity:\n  mode: static\n", "token is required"},
		{"otel without endpoint", "observability:\n  enabled: true\n", "observability.endpoint: is required"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFile(t, "config.yml", tc.yaml)
			_, err := Load(WithConfigFile(path), WithFileSystem(&mockFS{files: map[string]bool{path: true}}))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.errMsg) {
				t.Errorf("expected error containing %q, got %q", tc.errMsg, err.Error())
			}
		})
	}
}

func TestLoadUnreadableConfig(t *testing.T) {
	path := writeFile(t, "config.yml", "backend: [unclosed\n")
	_, err := Load(WithConfigFile(path), WithFileSystem(&mockFS{files: map[string]bool{path: true}}))
	if err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

func TestResolverWithMockFS(t *testing.T) {
	fs := &mockFS{files: map[string]bool{
		"./cmd/backendprobe/config.yml": true,
		".env":                          true,
	}}
	resolver := &Resolver{FileSystem: fs}
	files := resolver.ResolveFiles(DefaultServiceName, LoaderConfig{})
	if files.ConfigFile != "./cmd/backendprobe/config.yml" {
		t.Errorf("unexpected config file %q", files.ConfigFile)
	}
	if files.EnvFile != ".env" {
		t.Errorf("unexpected env file %q", files.EnvFile)
	}

	explicit := resolver.ResolveFiles(DefaultServiceName, LoaderConfig{ConfigFile: "/etc/probe.yml"})
	if explicit.ConfigFile != "/etc/probe.yml" {
		t.Errorf("explicit path ignored, got %q", explicit.ConfigFile)
	}
}

func TestLoadUsesEnvFileFromFileSystem(t *testing.T) {
	fs := &mockFS{files: map[string]bool{"./cmd/probe/.env": true}}
	if _, err := Load(WithServiceName("probe"), WithFileSystem(fs)); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(fs.loaded) != 1 || fs.loaded[0] != "./cmd/probe/.env" {
		t.Errorf("expected env file to be loaded, got %v", fs.loaded)
	}
}

func TestGenerateEnvKeyVariants(t *testing.T) {
	got := generateEnvKeyVariants("IDENTITY_JWT_SECRET")
	for _, want := range []string{"identity.jwt.secret", "identity.jwt_secret"} {
		if !slices.Contains(got, want) {
			t.Errorf("expected variant %q in %v", want, got)
		}
	}
	if got := generateEnvKeyVariants("PATH"); len(got) != 1 || got[0] != "path" {
		t.Errorf("unexpected variants for single word: %v", got)
	}
}
