package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_FromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := []byte("url: https://api.example.com\ntoken: test-token-123\npage_size: 8\ntimeout: 5s\n")
	if err := os.WriteFile(configPath, content, 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.URL != "https://api.example.com" {
		t.Errorf("expected URL 'https://api.example.com', got '%s'", cfg.URL)
	}
	if cfg.Token != "test-token-123" {
		t.Errorf("expected Token 'test-token-123', got '%s'", cfg.Token)
	}
	if cfg.PageSize != 8 {
		t.Errorf("expected PageSize 8, got %d", cfg.PageSize)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("expected Timeout 5s, got %v", cfg.Timeout)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("expected default LogLevel '%s', got '%s'", DefaultLogLevel, cfg.LogLevel)
	}
}

func TestLoad_EnvVarOverride(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := []byte("url: https://file.example.com\ntoken: file-token\n")
	if err := os.WriteFile(configPath, content, 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	t.Setenv("ESTATE_URL", "https://env.example.com")
	t.Setenv("ESTATE_TOKEN", "env-token")
	t.Setenv("ESTATE_PAGE_SIZE", "12")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.URL != "https://env.example.com" {
		t.Errorf("expected URL from env 'https://env.example.com', got '%s'", cfg.URL)
	}
	if cfg.Token != "env-token" {
		t.Errorf("expected Token from env 'env-token', got '%s'", cfg.Token)
	}
	if cfg.PageSize != 12 {
		t.Errorf("expected PageSize from env 12, got %d", cfg.PageSize)
	}
}

func TestLoad_MissingConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nonexistent.yaml")

	_, err := Load(configPath)
	if err == nil {
		t.Fatal("expected error for missing config, got nil")
	}

	if !errors.Is(err, ErrNoConfig) {
		t.Errorf("expected ErrNoConfig, got '%v'", err)
	}
	if err.Error() != "no configuration found. Run 'estatectl config init' to set up" {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestLoad_MissingToken(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configPath, []byte("url: https://api.example.com\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("expected URL-only config to load, got %v", err)
	}

	if err := cfg.RequireToken(); !errors.Is(err, ErrNotLoggedIn) {
		t.Errorf("expected ErrNotLoggedIn, got %v", err)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "missing url",
			content: "token: test-token\n",
		},
		{
			name:    "empty file",
			content: "",
		},
		{
			name:    "negative page size",
			content: "url: https://api.example.com\npage_size: -1\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			configPath := filepath.Join(tmpDir, "config.yaml")

			if err := os.WriteFile(configPath, []byte(tt.content), 0644); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}

			if _, err := Load(configPath); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestLoad_NonYAMLFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	invalidContent := []byte("not: valid: yaml: content: [unclosed")
	if err := os.WriteFile(configPath, invalidContent, 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Fatal("expected error for invalid YAML, got nil")
	}

	if !strings.Contains(err.Error(), "failed to read config file") {
		t.Errorf("expected parse error, got '%v'", err)
	}
}

func TestLoad_EnvVarsOnly(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nonexistent.yaml")

	t.Setenv("ESTATE_URL", "https://envonly.example.com")
	t.Setenv("ESTATE_TOKEN", "envonly-token")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() failed with env vars only: %v", err)
	}

	if cfg.URL != "https://envonly.example.com" {
		t.Errorf("expected URL from env, got '%s'", cfg.URL)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("expected default timeout, got %v", cfg.Timeout)
	}
}

func TestSave(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	cfg := &Config{
		URL:      "https://save.example.com",
		Token:    "save-token-456",
		PageSize: 10,
		Timeout:  10 * time.Second,
	}

	if err := Save(cfg, configPath); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	loaded, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}

	if loaded.URL != cfg.URL {
		t.Errorf("expected URL '%s', got '%s'", cfg.URL, loaded.URL)
	}
	if loaded.Token != cfg.Token {
		t.Errorf("expected Token '%s', got '%s'", cfg.Token, loaded.Token)
	}
	if loaded.PageSize != 10 {
		t.Errorf("expected PageSize 10, got %d", loaded.PageSize)
	}
	if loaded.Timeout != 10*time.Second {
		t.Errorf("expected Timeout 10s, got %v", loaded.Timeout)
	}
}

func TestSave_PermissionsVerification(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "subdir", "config.yaml")

	cfg := &Config{
		URL:   "https://test.example.com",
		Token: "test-token",
	}

	if err := Save(cfg, configPath); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	dirInfo, err := os.Stat(filepath.Dir(configPath))
	if err != nil {
		t.Fatalf("failed to stat directory: %v", err)
	}
	if dirInfo.Mode().Perm() != os.FileMode(0700) {
		t.Errorf("expected directory permissions 0700, got %v", dirInfo.Mode().Perm())
	}

	fileInfo, err := os.Stat(configPath)
	if err != nil {
		t.Fatalf("failed to stat config file: %v", err)
	}
	if fileInfo.Mode().Perm() != os.FileMode(0600) {
		t.Errorf("expected file permissions 0600, got %v", fileInfo.Mode().Perm())
	}
}

func TestDefaultConfigPath(t *testing.T) {
	path, err := DefaultConfigPath()
	if err != nil {
		t.Fatalf("DefaultConfigPath() failed: %v", err)
	}

	if !filepath.IsAbs(path) {
		t.Error("expected absolute path")
	}
	if filepath.Base(path) != "config.yaml" {
		t.Errorf("expected path to end with 'config.yaml', got '%s'", path)
	}
	if filepath.Base(filepath.Dir(path)) != "estatectl" {
		t.Errorf("expected config dir 'estatectl', got '%s'", filepath.Dir(path))
	}
}
