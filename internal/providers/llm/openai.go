package llm

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	defaultOpenAIModel = "gpt-4o-mini"

	systemPrompt = "You are a warm, supportive mental health companion. " +
		"Answer in a few short sentences, validate the user's feelings and never give medical diagnoses."
)

type OpenAI struct {
	client openai.Client
	model  string
}

func NewOpenAI(apiKey, modelName string, opts ...option.RequestOption) *OpenAI {
	if modelName == "" {
		modelName = defaultOpenAIModel
	}
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &OpenAI{client: openai.NewClient(opts...), model: modelName}
}

func (o *OpenAI) Close() error { return nil }

func (o *OpenAI) StreamAnswer(ctx context.Context, prompt string) (<-chan string, <-chan error) {
	out := make(chan string, 32)
	errs := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errs)

		stream := o.client.Chat.Completions.NewStreaming(ctx, openai.ChatCompletionNewParams{
			Model: openai.ChatModel(o.model),
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.SystemMessage(systemPrompt),
				openai.UserMessage(prompt),
			},
		})
		defer stream.Close()

		for stream.Next() {
			chunk := stream.Current()
			for _, choice := range chunk.Choices {
				if choice.Delta.Content != "" {
					out <- choice.Delta.Content
				}
			}
		}
		if err := stream.Err(); err != nil {
			errs <- err
		}
	}()

	return out, errs
}
