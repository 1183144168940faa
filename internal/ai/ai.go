// Package ai answers free-form questions through a chat model when no
// deterministic command rule matches.
package ai

import (
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"net/http"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/Sumanthgs0005/VOICE-ENABLED-DESKTOP-AGENT/internal/intent"
)

const personaPrompt = `You are %s, a voice assistant running on the user's Linux desktop.
Answer briefly, in plain sentences suitable for reading aloud.
No markdown, no bullet lists, no code blocks.
If you are unsure, say so in one short sentence.`

// Client is the assistant's fallback brain.
type Client struct {
	api        openai.Client
	model      openai.ChatModel
	prompt     string
	timeout    time.Duration
	configured bool
}

// New builds a fallback client. An empty key is allowed: Ask then
// reports ErrNotConfigured instead of dialing out, so the assistant can
// run with the fallback disabled.
func New(name, key, model string, timeout time.Duration, hc *http.Client) *Client {
	if name == "" {
		name = "Leo"
	}
	if model == "" {
		model = string(openai.ChatModelGPT5Nano)
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	opts := []option.RequestOption{option.WithAPIKey(key)}
	if hc != nil {
		opts = append(opts, option.WithHTTPClient(hc))
	}

	return &Client{
		api:        openai.NewClient(opts...),
		model:      openai.ChatModel(model),
		prompt:     fmt.Sprintf(personaPrompt, name),
		timeout:    timeout,
		configured: key != "",
	}
}

func (c *Client) Ask(ctx context.Context, query string) (string, error) {
	if !c.configured {
		return "", fmt.Errorf("llm: %w", intent.ErrNotConfigured)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(c.prompt),
			openai.UserMessage(query),
		},
		Model: c.model,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no choices in response")
	}

	answer := strings.TrimSpace(resp.Choices[0].Message.Content)
	if answer == "" {
		return "", errors.New("empty message content")
	}

	log.Debug("LLM replied", "model", c.model, "chars", len(answer))

	return answer, nil
}
