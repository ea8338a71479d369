package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nikogura/resume-coach/pkg/diff"
	"github.com/nikogura/resume-coach/pkg/llm"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"RESUME_COACH_PROVIDER",
		"RESUME_COACH_API_KEY",
		"RESUME_COACH_BASE_URL",
		"RESUME_COACH_MODEL",
		"OPENAI_API_KEY",
		"ANTHROPIC_API_KEY",
	} {
		t.Setenv(name, "")
	}
}

func TestLoad(t *testing.T) {
	clearEnv(t)

	// Create a temporary config file.
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	testConfig := Config{
		Provider:       "anthropic",
		APIKey:         "test-key",
		TimeoutSeconds: 30,
		Diff: DiffConfig{
			Markup:        "text",
			HideUnchanged: true,
		},
		Defaults: DefaultConfig{
			OutputDir: "./test-output",
		},
	}

	data, err := json.MarshalIndent(testConfig, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal test config: %v", err)
	}

	err = os.WriteFile(configPath, data, 0600)
	if err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	// Test loading the config.
	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.APIKey != testConfig.APIKey {
		t.Errorf("Expected API key %s, got %s", testConfig.APIKey, cfg.APIKey)
	}

	if cfg.GetModel() != llm.ClaudeModel {
		t.Errorf("Expected default anthropic model, got %s", cfg.GetModel())
	}

	if cfg.GetTimeout() != 30*time.Second {
		t.Errorf("Expected 30s timeout, got %s", cfg.GetTimeout())
	}

	opts, err := cfg.DiffOptions()
	if err != nil {
		t.Fatalf("Unexpected diff options error: %v", err)
	}
	if opts.Markup != diff.MarkupText || !opts.HideUnchanged {
		t.Errorf("Unexpected diff options: %+v", opts)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)

	configPath := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(configPath, []byte(`{"provider": "openai", "api_key": "file-key"}`), 0600)
	if err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	t.Setenv("OPENAI_API_KEY", "vendor-key")
	t.Setenv("RESUME_COACH_BASE_URL", "http://localhost:11434/v1")
	t.Setenv("RESUME_COACH_MODEL", "llama3")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.APIKey != "vendor-key" {
		t.Errorf("Expected vendor key to override file, got %s", cfg.APIKey)
	}
	if cfg.BaseURL != "http://localhost:11434/v1" {
		t.Errorf("Expected base URL from env, got %s", cfg.BaseURL)
	}

	settings, err := cfg.LLMSettings()
	if err != nil {
		t.Fatalf("Unexpected settings error: %v", err)
	}
	if settings.Model != "llama3" || settings.Provider != llm.ProviderOpenAI {
		t.Errorf("Unexpected settings: %+v", settings)
	}

	t.Setenv("RESUME_COACH_API_KEY", "coach-key")
	cfg, err = Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.APIKey != "coach-key" {
		t.Errorf("Expected RESUME_COACH_API_KEY to win, got %s", cfg.APIKey)
	}
}

func TestLoadNonexistent(t *testing.T) {
	_, err := Load("/nonexistent/path/config.json")
	if err == nil {
		t.Error("Expected error loading nonexistent config, got nil")
	}
}

func TestLoadMalformed(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(configPath, []byte("{not json"), 0600)
	if err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	_, err = Load(configPath)
	if err == nil {
		t.Error("Expected error loading malformed config, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		config    Config
		wantError bool
	}{
		{
			name:      "empty config is valid",
			config:    Config{},
			wantError: false,
		},
		{
			name: "valid config",
			config: Config{
				Provider: "openai",
				APIKey:   "test-key",
				BaseURL:  "https://api.openai.com/v1",
				Diff:     DiffConfig{Markup: "html"},
			},
			wantError: false,
		},
		{
			name:      "unknown provider",
			config:    Config{Provider: "llama"},
			wantError: true,
		},
		{
			name:      "unknown markup",
			config:    Config{Diff: DiffConfig{Markup: "ansi"}},
			wantError: true,
		},
		{
			name:      "negative timeout",
			config:    Config{TimeoutSeconds: -1},
			wantError: true,
		},
		{
			name:      "bad base url",
			config:    Config{BaseURL: "localhost:8080"},
			wantError: true,
		},
		{
			name:      "missing prompts file",
			config:    Config{PromptsFile: "/nonexistent/prompts.yaml"},
			wantError: true,
		},
		{
			name:      "missing pandoc template",
			config:    Config{Pandoc: PandocConfig{Template: "/nonexistent/resume.tex"}},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantError && err == nil {
				t.Error("Expected error, got nil")
			}
			if !tt.wantError && err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
			if !tt.wantError && tt.config.Defaults.OutputDir != DefaultOutputDir {
				t.Errorf("Expected default output dir, got %q", tt.config.Defaults.OutputDir)
			}
		})
	}
}

func TestSessionPath(t *testing.T) {
	cfg := Config{Defaults: DefaultConfig{SessionFile: "/tmp/s.json"}}
	path, err := cfg.SessionPath()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if path != "/tmp/s.json" {
		t.Errorf("Expected configured session file, got %s", path)
	}

	cfg = Config{}
	path, err = cfg.SessionPath()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if filepath.Base(path) != SessionFileName || filepath.Base(filepath.Dir(path)) != DirName {
		t.Errorf("Expected default session path, got %s", path)
	}
}

func TestInitConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	err := InitConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to init config: %v", err)
	}

	// Verify file was created.
	_, err = os.Stat(configPath)
	if os.IsNotExist(err) {
		t.Error("Config file was not created")
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("Failed to read config file: %v", err)
	}

	var cfg Config
	err = json.Unmarshal(data, &cfg)
	if err != nil {
		t.Fatalf("Failed to unmarshal config: %v", err)
	}

	if cfg.Defaults.OutputDir == "" {
		t.Error("Default output dir was not set")
	}

	if cfg.Provider != "openai" {
		t.Errorf("Expected openai provider, got %s", cfg.Provider)
	}

	err = cfg.Validate()
	if err != nil {
		t.Errorf("Expected generated config to validate, got %v", err)
	}
}

func TestInitConfigAlreadyExists(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	// Create file first.
	err := os.WriteFile(configPath, []byte("{}"), 0600)
	if err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	// Try to init - should fail.
	err = InitConfig(configPath)
	if err == nil {
		t.Error("Expected error when config already exists, got nil")
	}
}
