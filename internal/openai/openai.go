// Package openai wraps the OpenAI chat API as a fallback summary provider.
package openai

import (
	"context"
	"errors"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"
)

type Client struct {
	client *goopenai.Client
	model  string
}

func NewClient(apiKey string) *Client {
	return &Client{
		client: goopenai.NewClient(apiKey),
		model:  goopenai.GPT4oMini,
	}
}

func (c *Client) Name() string {
	return "openai/" + c.model
}

// Summarize sends one prompt and returns the raw model text.
func (c *Client) Summarize(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: c.model,
		Messages: []goopenai.ChatCompletionMessage{
			{
				Role:    goopenai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxCompletionTokens: 300,
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no response from OpenAI")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
