package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/nikogura/resume-coach/pkg/diff"
	"github.com/nikogura/resume-coach/pkg/llm"
	"github.com/pkg/errors"
)

const (
	// DirName is the per-user configuration directory under $HOME.
	DirName = ".resume-coach"
	// FileName is the configuration file inside DirName.
	FileName = "config.json"
	// SessionFileName is the default session file inside DirName.
	SessionFileName = "session.json"
	// DefaultTimeoutSeconds bounds a single model call.
	DefaultTimeoutSeconds = 120
	// DefaultOutputDir receives written artifacts.
	DefaultOutputDir = "./coach-output"
)

// Config represents the application configuration.
type Config struct {
	Provider       string        `json:"provider"`
	APIKey         string        `json:"api_key,omitempty"`
	BaseURL        string        `json:"base_url,omitempty"`
	Model          string        `json:"model,omitempty"`
	TimeoutSeconds int           `json:"timeout_seconds,omitempty"`
	MaxTokens      int64         `json:"max_tokens,omitempty"`
	PromptsFile    string        `json:"prompts_file,omitempty"`
	Diff           DiffConfig    `json:"diff"`
	Pandoc         PandocConfig  `json:"pandoc"`
	Defaults       DefaultConfig `json:"defaults"`
}

// DiffConfig controls how change highlights are rendered.
type DiffConfig struct {
	Markup        string `json:"markup,omitempty"`
	HideUnchanged bool   `json:"hide_unchanged,omitempty"`
}

// PandocConfig holds pandoc-related configuration.
type PandocConfig struct {
	Binary    string `json:"binary,omitempty"`
	Template  string `json:"template,omitempty"`
	PDFEngine string `json:"pdf_engine,omitempty"`
}

// DefaultConfig holds default values for commands.
type DefaultConfig struct {
	OutputDir   string `json:"output_dir"`
	SessionFile string `json:"session_file,omitempty"`
}

// Dir returns the per-user configuration directory.
func Dir() (dir string, err error) {
	var homeDir string
	homeDir, err = os.UserHomeDir()
	if err != nil {
		err = errors.Wrap(err, "failed to get user home directory")
		return dir, err
	}
	dir = filepath.Join(homeDir, DirName)
	return dir, err
}

// GetModel returns the configured model, or the provider default when none is set.
func (c *Config) GetModel() (model string) {
	if c.Model != "" {
		model = c.Model
		return model
	}

	provider, err := llm.ParseProvider(c.Provider)
	if err == nil && provider == llm.ProviderAnthropic {
		model = llm.ClaudeModel
		return model
	}
	model = llm.OpenAIModel
	return model
}

// GetTimeout returns the per-call timeout.
func (c *Config) GetTimeout() (timeout time.Duration) {
	seconds := c.TimeoutSeconds
	if seconds <= 0 {
		seconds = DefaultTimeoutSeconds
	}
	timeout = time.Duration(seconds) * time.Second
	return timeout
}

// LLMSettings converts the configuration into client settings.
func (c *Config) LLMSettings() (settings llm.Settings, err error) {
	var provider llm.Provider
	provider, err = llm.ParseProvider(c.Provider)
	if err != nil {
		return settings, err
	}

	settings = llm.Settings{
		Provider:  provider,
		APIKey:    c.APIKey,
		BaseURL:   c.BaseURL,
		Model:     c.GetModel(),
		Timeout:   c.GetTimeout(),
		MaxTokens: c.MaxTokens,
	}
	return settings, err
}

// DiffOptions converts the diff section into highlighter options.
func (c *Config) DiffOptions() (opts diff.Options, err error) {
	var markup diff.Markup
	markup, err = diff.ParseMarkup(c.Diff.Markup)
	if err != nil {
		return opts, err
	}

	opts = diff.Options{
		Markup:        markup,
		HideUnchanged: c.Diff.HideUnchanged,
	}
	return opts, err
}

// Load reads configuration from file with .env and environment variable overrides.
// A missing file at the default location is not an error: the API key may come
// from the environment alone.
func Load(configPath string) (cfg Config, err error) {
	loadDotEnv()

	// Determine config file location
	path := configPath
	if path == "" {
		var dir string
		dir, err = Dir()
		if err != nil {
			return cfg, err
		}
		path = filepath.Join(dir, FileName)
	}

	// Read config file
	var data []byte
	data, err = os.ReadFile(path)
	switch {
	case err == nil:
		err = json.Unmarshal(data, &cfg)
		if err != nil {
			err = errors.Wrapf(err, "failed to parse config file: %s", path)
			return cfg, err
		}
	case os.IsNotExist(err) && configPath == "":
		err = nil
	case os.IsNotExist(err):
		err = errors.Errorf("config file not found: %s (run 'resume-coach init' to create)", path)
		return cfg, err
	default:
		err = errors.Wrapf(err, "failed to read config file: %s", path)
		return cfg, err
	}

	cfg.applyEnv()

	// Validate required fields
	err = cfg.Validate()
	if err != nil {
		err = errors.Wrap(err, "config validation failed")
		return cfg, err
	}

	return cfg, err
}

// loadDotEnv reads a .env file from the working directory when present.
func loadDotEnv() {
	if _, statErr := os.Stat(".env"); statErr == nil {
		_ = godotenv.Load(".env")
	}
}

// applyEnv overrides file values with environment variables.
// RESUME_COACH_API_KEY wins over the vendor variable of the selected provider.
func (c *Config) applyEnv() {
	if provider := os.Getenv("RESUME_COACH_PROVIDER"); provider != "" {
		c.Provider = provider
	}

	vendorKey := "OPENAI_API_KEY"
	if provider, err := llm.ParseProvider(c.Provider); err == nil && provider == llm.ProviderAnthropic {
		vendorKey = "ANTHROPIC_API_KEY"
	}
	if apiKey := os.Getenv(vendorKey); apiKey != "" {
		c.APIKey = apiKey
	}
	if apiKey := os.Getenv("RESUME_COACH_API_KEY"); apiKey != "" {
		c.APIKey = apiKey
	}

	if baseURL := os.Getenv("RESUME_COACH_BASE_URL"); baseURL != "" {
		c.BaseURL = baseURL
	}
	if model := os.Getenv("RESUME_COACH_MODEL"); model != "" {
		c.Model = model
	}
}

// Validate checks the configuration and fills in defaults. The API key is not
// required here: actions that need it fail with a precondition error instead.
func (c *Config) Validate() (err error) {
	_, err = llm.ParseProvider(c.Provider)
	if err != nil {
		return err
	}

	_, err = diff.ParseMarkup(c.Diff.Markup)
	if err != nil {
		return err
	}

	if c.TimeoutSeconds < 0 {
		err = errors.New("timeout_seconds must not be negative")
		return err
	}

	if c.MaxTokens < 0 {
		err = errors.New("max_tokens must not be negative")
		return err
	}

	if c.BaseURL != "" && !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		err = errors.Errorf("base_url must be an http(s) URL, got %q", c.BaseURL)
		return err
	}

	if c.PromptsFile != "" {
		_, err = os.Stat(c.PromptsFile)
		if os.IsNotExist(err) {
			err = errors.Errorf("prompts file not found: %s", c.PromptsFile)
			return err
		}
		err = nil
	}

	if c.Pandoc.Template != "" {
		_, err = os.Stat(c.Pandoc.Template)
		if os.IsNotExist(err) {
			err = errors.Errorf("pandoc template not found: %s", c.Pandoc.Template)
			return err
		}
		err = nil
	}

	// Set default output_dir if not specified
	if c.Defaults.OutputDir == "" {
		c.Defaults.OutputDir = DefaultOutputDir
	}

	return err
}

// SessionPath returns the configured session file, defaulting to the config directory.
func (c *Config) SessionPath() (path string, err error) {
	if c.Defaults.SessionFile != "" {
		path = c.Defaults.SessionFile
		return path, err
	}

	var dir string
	dir, err = Dir()
	if err != nil {
		return path, err
	}
	path = filepath.Join(dir, SessionFileName)
	return path, err
}

// InitConfig creates a default configuration file.
func InitConfig(configPath string) (err error) {
	// Determine config file location
	path := configPath
	if path == "" {
		var dir string
		dir, err = Dir()
		if err != nil {
			return err
		}
		path = filepath.Join(dir, FileName)
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	err = os.MkdirAll(dir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create config directory: %s", dir)
		return err
	}

	// Check if file already exists
	_, err = os.Stat(path)
	if err == nil {
		err = errors.Errorf("config file already exists: %s", path)
		return err
	}

	var homeDir string
	homeDir, err = os.UserHomeDir()
	if err != nil {
		err = errors.Wrap(err, "failed to get user home directory")
		return err
	}

	defaultConfig := Config{
		Provider:       string(llm.ProviderOpenAI),
		APIKey:         "sk-...",
		Model:          llm.OpenAIModel,
		TimeoutSeconds: DefaultTimeoutSeconds,
		Diff: DiffConfig{
			Markup: string(diff.MarkupHTML),
		},
		Pandoc: PandocConfig{
			Binary: "pandoc",
		},
		Defaults: DefaultConfig{
			OutputDir:   filepath.Join(homeDir, "Documents", "Resumes"),
			SessionFile: filepath.Join(dir, SessionFileName),
		},
	}

	// Write to file
	var data []byte
	data, err = json.MarshalIndent(defaultConfig, "", "  ")
	if err != nil {
		err = errors.Wrap(err, "failed to marshal default config")
		return err
	}

	err = os.WriteFile(path, data, 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write config file: %s", path)
		return err
	}

	return err
}
