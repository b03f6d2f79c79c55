package llm

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const (
	DefaultModel       = openai.GPT4o
	DefaultTemperature = 0.9
)

type Request struct {
	SystemPrompt string
	UserPrompt   string
	Temperature  float32
	// OnRetry, when set, replaces Options.OnRetry for this request.
	OnRetry func(attempt int, wait time.Duration, err error)
}

type Response struct {
	Text      string
	LatencyMS int64
}

// Generator turns a prompt into free text. It is the only non-deterministic
// step of a listing.
type Generator interface {
	Generate(ctx context.Context, req Request) (Response, error)
}

// chatCompleter is satisfied by *openai.Client.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type Options struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	OnRetry    func(attempt int, wait time.Duration, err error)
}

var _ Generator = (*Client)(nil)

type Client struct {
	chat    chatCompleter
	model   string
	timeout time.Duration
	retry   retryOptions
}

func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	cfg := openai.DefaultConfig(opts.APIKey)
	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		cfg.BaseURL = strings.TrimSuffix(base, "/")
	}
	cfg.HTTPClient = &http.Client{Timeout: timeout}
	return newClient(openai.NewClientWithConfig(cfg), opts, timeout)
}

func newClient(chat chatCompleter, opts Options, timeout time.Duration) *Client {
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		chat:    chat,
		model:   model,
		timeout: timeout,
		retry: retryOptions{
			MaxRetries: opts.MaxRetries,
			BaseDelay:  opts.BaseDelay,
			MaxDelay:   opts.MaxDelay,
			Jitter:     0.25,
			OnRetry:    opts.OnRetry,
		},
	}
}

func (c *Client) Generate(ctx context.Context, req Request) (Response, error) {
	start := time.Now()
	chatReq := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: req.UserPrompt},
		},
		Temperature: wireTemperature(req.Temperature),
	}

	retry := c.retry
	if req.OnRetry != nil {
		retry.OnRetry = req.OnRetry
	}
	var text string
	err := withExponentialBackoff(ctx, retry, func(attempt int) error {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()
		resp, err := c.chat.CreateChatCompletion(callCtx, chatReq)
		if err != nil {
			return classifyError(err)
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("aucun choix retourné : %w", ErrEmptyResponse)
		}
		out := strings.TrimSpace(resp.Choices[0].Message.Content)
		if out == "" {
			return fmt.Errorf("contenu vide : %w", ErrEmptyResponse)
		}
		text = out
		return nil
	})
	if err != nil {
		return Response{}, fmt.Errorf("%w: %w", ErrGeneration, err)
	}
	return Response{Text: text, LatencyMS: time.Since(start).Milliseconds()}, nil
}

// wireTemperature keeps an explicit 0 on the wire: the request field is
// omitempty, so a plain zero would fall back to the server default.
func wireTemperature(t float32) float32 {
	if t == 0 {
		return math.SmallestNonzeroFloat32
	}
	return t
}
