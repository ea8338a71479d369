package llm

import (
	"context"

	"github.com/nikogura/resume-coach/pkg/failure"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
	"github.com/openai/openai-go/v3/shared/constant"
)

type openAIBackend struct {
	client    openai.Client
	model     string
	maxTokens int64
}

func newOpenAIBackend(settings Settings) (b *openAIBackend) {
	opts := []option.RequestOption{
		option.WithAPIKey(settings.APIKey),
		option.WithRequestTimeout(settings.Timeout),
		option.WithMaxRetries(0),
	}
	if settings.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(settings.BaseURL))
	}

	b = &openAIBackend{
		client:    openai.NewClient(opts...),
		model:     settings.Model,
		maxTokens: settings.MaxTokens,
	}
	return b
}

func (b *openAIBackend) complete(ctx context.Context, req Request) (reply string, err error) {
	var completion *openai.ChatCompletion
	completion, err = b.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.Instructions),
			openai.UserMessage(req.Query),
		},
		Model: shared.ChatModel(b.model),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{
				Type: constant.JSONObject("json_object"),
			},
		},
		MaxTokens: openai.Int(b.maxTokens),
	})
	if err != nil {
		return reply, err
	}

	if len(completion.Choices) == 0 {
		err = failure.New(failure.ModelOutputInvalid, "no choices in openai response")
		return reply, err
	}

	reply = completion.Choices[0].Message.Content
	return reply, err
}
