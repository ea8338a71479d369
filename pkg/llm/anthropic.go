package llm

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/nikogura/resume-coach/pkg/failure"
)

type anthropicBackend struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

func newAnthropicBackend(settings Settings) (b *anthropicBackend) {
	opts := []option.RequestOption{
		option.WithAPIKey(settings.APIKey),
		option.WithRequestTimeout(settings.Timeout),
		option.WithMaxRetries(0),
	}
	if settings.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(settings.BaseURL))
	}

	b = &anthropicBackend{
		client:    anthropic.NewClient(opts...),
		model:     settings.Model,
		maxTokens: settings.MaxTokens,
	}
	return b
}

func (b *anthropicBackend) complete(ctx context.Context, req Request) (reply string, err error) {
	var message *anthropic.Message
	message, err = b.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(b.model),
		MaxTokens: b.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: req.Instructions},
		},
		Messages: []anthropic.MessageParam{{
			Content: []anthropic.ContentBlockParamUnion{{
				OfText: &anthropic.TextBlockParam{Text: req.Query},
			}},
			Role: anthropic.MessageParamRoleUser,
		}},
	})
	if err != nil {
		return reply, err
	}

	var parts []string
	for _, block := range message.Content {
		if block.Type == "text" {
			parts = append(parts, block.Text)
		}
	}

	if len(parts) == 0 {
		err = failure.New(failure.ModelOutputInvalid, "no text content in anthropic response")
		return reply, err
	}

	reply = strings.Join(parts, "")
	return reply, err
}
