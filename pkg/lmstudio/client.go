// Package lmstudio talks to an LM Studio server over its OpenAI-compatible
// API: one liveness probe at startup, then one chat completion per summary.
package lmstudio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Persona is the system prompt sent with every summarization request.
const Persona = "You are Melvin Tucker, an expert technical support analyst. Your task is to provide a concise, narrative summary of the following text, speaking in the first person as if you are explaining your findings."

const summaryTemperature = 0.7

// Config carries the endpoint settings, normally read from the environment.
// BaseURL follows the LM Studio convention of including the /v1 suffix.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
}

// Client is a connected summarization client. Obtain one via Connect.
type Client struct {
	api    *openai.Client
	model  string
	models []string
	log    *slog.Logger
}

// Connect builds a client and verifies the server is reachable with a single
// models listing. Any probe failure comes back as a *ConnectionError.
func Connect(ctx context.Context, cfg Config, log *slog.Logger) (*Client, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("lm studio base URL required")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, errors.New("lm studio model required")
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	oc.BaseURL = baseURL
	c := &Client{api: openai.NewClientWithConfig(oc), model: cfg.Model, log: log}

	log.Debug("probing LM Studio", "base_url", baseURL)
	list, err := c.api.ListModels(ctx)
	if err != nil {
		return nil, &ConnectionError{BaseURL: baseURL, Hint: classify(err), Err: err}
	}
	for _, m := range list.Models {
		c.models = append(c.models, m.ID)
	}
	log.Info("connected to LM Studio", "base_url", baseURL, "models", len(c.models))
	return c, nil
}

// Models returns the model IDs the server advertised during Connect.
func (c *Client) Models() []string {
	out := make([]string, len(c.models))
	copy(out, c.models)
	return out
}

// Summarize asks the configured model for a narrative summary of text.
// The trimmed first-choice content is returned; a response without choices
// yields an empty string.
func (c *Client) Summarize(ctx context.Context, text string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: summaryTemperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: Persona},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		c.log.Debug("completion returned no choices", "model", c.model)
		return "", nil
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
