package llm

import (
	"context"
	"strings"
	"time"

	"github.com/nikogura/resume-coach/pkg/failure"
)

const (
	// ProviderOpenAI talks to an OpenAI-compatible chat completions endpoint.
	ProviderOpenAI Provider = "openai"
	// ProviderAnthropic talks to the Anthropic messages endpoint.
	ProviderAnthropic Provider = "anthropic"

	// OpenAIModel is the default OpenAI model.
	OpenAIModel = "gpt-4o"
	// ClaudeModel is the default Anthropic model.
	ClaudeModel = "claude-sonnet-4-20250514"

	// DefaultTimeout bounds a single model call.
	DefaultTimeout = 120 * time.Second
	// DefaultMaxTokens caps the reply length.
	DefaultMaxTokens int64 = 4096
)

// Provider selects the model vendor.
type Provider string

// ParseProvider converts a configured name into a Provider. Empty means OpenAI.
func ParseProvider(name string) (provider Provider, err error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", string(ProviderOpenAI):
		provider = ProviderOpenAI
	case string(ProviderAnthropic), "claude":
		provider = ProviderAnthropic
	default:
		err = failure.Newf(failure.PreconditionNotMet, "unknown provider %q (expected openai or anthropic)", name)
	}
	return provider, err
}

// Settings configure a Client.
type Settings struct {
	Provider  Provider
	APIKey    string
	BaseURL   string
	Model     string
	Timeout   time.Duration
	MaxTokens int64
}

// Request is one instruction/query exchange. Instructions go out as the system
// message and describe the reply format; Query carries the user content.
type Request struct {
	Instructions string
	Query        string
}

// Completer sends a request to a language model and returns the raw reply text.
type Completer interface {
	// Ready reports whether the completer can make calls at all, without making one.
	Ready() error
	Complete(ctx context.Context, req Request) (reply string, err error)
}

type backend interface {
	complete(ctx context.Context, req Request) (reply string, err error)
}

// Client is a Completer backed by one of the supported vendor SDKs.
type Client struct {
	settings Settings
	backend  backend
}

// NewClient creates a client for the configured provider, filling in default model,
// timeout and token limit.
func NewClient(settings Settings) (client *Client, err error) {
	if settings.Provider == "" {
		settings.Provider = ProviderOpenAI
	}
	if settings.Timeout <= 0 {
		settings.Timeout = DefaultTimeout
	}
	if settings.MaxTokens <= 0 {
		settings.MaxTokens = DefaultMaxTokens
	}

	var b backend
	switch settings.Provider {
	case ProviderOpenAI:
		if settings.Model == "" {
			settings.Model = OpenAIModel
		}
		b = newOpenAIBackend(settings)
	case ProviderAnthropic:
		if settings.Model == "" {
			settings.Model = ClaudeModel
		}
		b = newAnthropicBackend(settings)
	default:
		err = failure.Newf(failure.PreconditionNotMet, "unknown provider %q", settings.Provider)
		return client, err
	}

	client = &Client{
		settings: settings,
		backend:  b,
	}
	return client, err
}

// Ready fails with PreconditionNotMet when no API key is configured.
func (c *Client) Ready() (err error) {
	if strings.TrimSpace(c.settings.APIKey) == "" {
		err = failure.Newf(failure.PreconditionNotMet, "no API key configured for provider %s", c.settings.Provider)
	}
	return err
}

// Complete sends the request. Nothing goes over the wire when Ready fails.
func (c *Client) Complete(ctx context.Context, req Request) (reply string, err error) {
	err = c.Ready()
	if err != nil {
		return reply, err
	}

	reply, err = c.backend.complete(ctx, req)
	if err != nil {
		if failure.KindOf(err) == failure.Unknown {
			err = failure.Wrap(failure.TransportError, err, string(c.settings.Provider)+" request failed")
		}
		return reply, err
	}

	return reply, err
}

// Model returns the model name in use.
func (c *Client) Model() (model string) {
	model = c.settings.Model
	return model
}

// Provider returns the configured provider.
func (c *Client) Provider() (provider Provider) {
	provider = c.settings.Provider
	return provider
}
