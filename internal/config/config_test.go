package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// isolate points the config at a temp dir and clears the environment.
func isolate(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	for _, k := range []string{EnvAPIUser, EnvAPIToken, EnvLanguage, EnvBaseURL} {
		t.Setenv(k, "")
	}
	return tmpDir
}

func TestPath(t *testing.T) {
	p := Path()
	if filepath.Base(p) != "config.yaml" {
		t.Errorf("expected config.yaml, got %s", filepath.Base(p))
	}
	if filepath.Base(filepath.Dir(p)) != "clockodo" {
		t.Errorf("expected clockodo dir, got %s", filepath.Base(filepath.Dir(p)))
	}
}

func TestSaveAndLoad(t *testing.T) {
	isolate(t)

	cfg := &Config{
		APIUser:  "jane@example.com",
		APIToken: "test-token",
		Language: "de",
		BaseURL:  "http://localhost:8080/api",
	}

	if err := Save(cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	info, err := os.Stat(Path())
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("permissions = %o, want 600", perm)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.APIUser != cfg.APIUser {
		t.Errorf("APIUser: got %q, want %q", loaded.APIUser, cfg.APIUser)
	}
	if loaded.APIToken != cfg.APIToken {
		t.Errorf("APIToken: got %q, want %q", loaded.APIToken, cfg.APIToken)
	}
	if loaded.Language != cfg.Language {
		t.Errorf("Language: got %q, want %q", loaded.Language, cfg.Language)
	}
	if loaded.BaseURL != cfg.BaseURL {
		t.Errorf("BaseURL: got %q, want %q", loaded.BaseURL, cfg.BaseURL)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	isolate(t)

	if err := Save(&Config{APIUser: "file@example.com", APIToken: "file-token"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	t.Setenv(EnvAPIToken, "env-token")

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.APIUser != "file@example.com" {
		t.Errorf("APIUser: got %q", loaded.APIUser)
	}
	if loaded.APIToken != "env-token" {
		t.Errorf("APIToken: got %q, want env-token", loaded.APIToken)
	}
	if loaded.Language != "en" {
		t.Errorf("Language default: got %q, want en", loaded.Language)
	}
}

func TestLoadFromEnvOnly(t *testing.T) {
	isolate(t)
	t.Setenv(EnvAPIUser, "jane@example.com")
	t.Setenv(EnvAPIToken, "env-token")

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.APIUser != "jane@example.com" {
		t.Errorf("APIUser: got %q", loaded.APIUser)
	}
}

func TestLoadDotEnv(t *testing.T) {
	tmpDir := isolate(t)
	os.Unsetenv(EnvAPIUser)
	os.Unsetenv(EnvAPIToken)

	envFile := filepath.Join(tmpDir, ".env")
	content := EnvAPIUser + "=dotenv@example.com\n" + EnvAPIToken + "=dotenv-token\n"
	if err := os.WriteFile(envFile, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	loaded, err := load(envFile)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.APIUser != "dotenv@example.com" || loaded.APIToken != "dotenv-token" {
		t.Errorf("got %q / %q", loaded.APIUser, loaded.APIToken)
	}
}

func TestLoadMissingCredentials(t *testing.T) {
	isolate(t)

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing credentials, got nil")
	}
	for _, name := range []string{EnvAPIUser, EnvAPIToken} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error %q does not name %s", err, name)
		}
	}
}

func TestProjectConfig(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadProjectConfig(dir); err == nil {
		t.Error("expected error for missing project config")
	}

	pc := &ProjectConfig{CustomerID: 7, ProjectID: 3, ServiceID: 2}
	if err := SaveProjectConfig(dir, pc); err != nil {
		t.Fatalf("SaveProjectConfig failed: %v", err)
	}
	loaded, err := LoadProjectConfig(dir)
	if err != nil {
		t.Fatalf("LoadProjectConfig failed: %v", err)
	}
	if *loaded != *pc {
		t.Errorf("got %+v, want %+v", loaded, pc)
	}
}
