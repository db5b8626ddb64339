// Package llm wraps the upstream chat completion API behind a small
// interface the orchestration loop can be tested against.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/sndraw/bookroom-sub000/internal/logging"
	"github.com/sndraw/bookroom-sub000/internal/message"
	"github.com/sndraw/bookroom-sub000/internal/metrics"
)

// ErrNoChoices is returned when the provider answers without any choices.
var ErrNoChoices = errors.New("no choices returned from chat completion")

// GenerationParams are pass-through sampling knobs. Zero values defer to the
// provider's defaults.
type GenerationParams struct {
	Temperature      float32
	TopP             float32
	MaxTokens        int
	PresencePenalty  float32
	FrequencyPenalty float32
}

// Request is one round-trip with the model: the full message history so far
// plus the advertised tool set.
type Request struct {
	Messages []message.Message
	Tools    []openai.Tool
	Params   GenerationParams
}

// Turn is the unified buffered response: visible content plus any tool
// calls the model decided to make.
type Turn struct {
	Content   string
	ToolCalls []openai.ToolCall
}

// Chunk is one streamed increment. Content fragments are concatenated by
// the caller; ToolCalls carry partial deltas for the accumulator.
type Chunk struct {
	Content   string
	ToolCalls []openai.ToolCall
}

// Stream yields chunks until io.EOF.
type Stream interface {
	Recv() (Chunk, error)
	Close() error
}

// Completer is the loop-facing contract: one buffered or streamed round
// trip per call, no retries.
type Completer interface {
	Complete(ctx context.Context, req Request) (*Turn, error)
	Stream(ctx context.Context, req Request) (Stream, error)
}

// Config selects the OpenAI-compatible endpoint and model.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Client implements Completer on top of go-openai.
type Client struct {
	api   *openai.Client
	model string
}

func NewClient(cfg Config) *Client {
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	apiCfg.HTTPClient = &http.Client{Timeout: timeout}
	return &Client{
		api:   openai.NewClientWithConfig(apiCfg),
		model: cfg.Model,
	}
}

func (c *Client) request(req Request, stream bool) openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model:            c.model,
		Messages:         toOpenAI(req.Messages),
		Tools:            req.Tools,
		ToolChoice:       "auto",
		Stream:           stream,
		Temperature:      req.Params.Temperature,
		TopP:             req.Params.TopP,
		MaxTokens:        req.Params.MaxTokens,
		PresencePenalty:  req.Params.PresencePenalty,
		FrequencyPenalty: req.Params.FrequencyPenalty,
	}
}

// Complete performs one buffered round trip.
func (c *Client) Complete(ctx context.Context, req Request) (*Turn, error) {
	metrics.ModelRequestsTotal.WithLabelValues(c.model, "buffered").Inc()
	resp, err := c.api.CreateChatCompletion(ctx, c.request(req, false))
	if err != nil {
		metrics.ModelErrorsTotal.WithLabelValues(c.model).Inc()
		logging.Logger.Error().Err(err).Str("module", "llm").Str("model", c.model).Msg("chat completion failed")
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		metrics.ModelErrorsTotal.WithLabelValues(c.model).Inc()
		return nil, ErrNoChoices
	}
	metrics.TokensTotal.WithLabelValues("prompt").Add(float64(resp.Usage.PromptTokens))
	metrics.TokensTotal.WithLabelValues("completion").Add(float64(resp.Usage.CompletionTokens))
	msg := resp.Choices[0].Message
	return &Turn{Content: msg.Content, ToolCalls: msg.ToolCalls}, nil
}

// Stream opens a streamed round trip. The caller owns draining and closing.
func (c *Client) Stream(ctx context.Context, req Request) (Stream, error) {
	metrics.ModelRequestsTotal.WithLabelValues(c.model, "stream").Inc()
	s, err := c.api.CreateChatCompletionStream(ctx, c.request(req, true))
	if err != nil {
		metrics.ModelErrorsTotal.WithLabelValues(c.model).Inc()
		logging.Logger.Error().Err(err).Str("module", "llm").Str("model", c.model).Msg("chat completion stream failed")
		return nil, fmt.Errorf("chat completion stream: %w", err)
	}
	return &apiStream{inner: s}, nil
}

type apiStream struct {
	inner *openai.ChatCompletionStream
}

func (s *apiStream) Recv() (Chunk, error) {
	resp, err := s.inner.Recv()
	if err != nil {
		return Chunk{}, err
	}
	if len(resp.Choices) == 0 {
		return Chunk{}, nil
	}
	delta := resp.Choices[0].Delta
	return Chunk{Content: delta.Content, ToolCalls: delta.ToolCalls}, nil
}

func (s *apiStream) Close() error {
	return s.inner.Close()
}

// toOpenAI converts the internal message model to the wire shape. User
// messages with media parts become multi-part content; every other role is
// flattened to text.
func toOpenAI(msgs []message.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(msgs))
	for _, m := range msgs {
		converted := openai.ChatCompletionMessage{
			Role:       string(m.Role),
			Name:       m.Name,
			ToolCalls:  m.ToolCalls,
			ToolCallID: m.ToolCallID,
		}
		if m.Role == message.RoleUser && m.Content.IsParts() {
			converted.MultiContent = toParts(m.Content.Parts)
		} else {
			converted.Content = m.Content.String()
		}
		out = append(out, converted)
	}
	return out
}

func toParts(parts []message.Part) []openai.ChatMessagePart {
	out := make([]openai.ChatMessagePart, 0, len(parts))
	for _, p := range parts {
		switch p.Type {
		case message.PartText:
			out = append(out, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeText,
				Text: p.Text,
			})
		case message.PartImage:
			out = append(out, openai.ChatMessagePart{
				Type:     openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{URL: p.URL},
			})
		default:
			// Audio/video/file references degrade to their URL; the
			// OpenAI-compatible surface has no part type for them.
			out = append(out, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeText,
				Text: p.URL,
			})
		}
	}
	return out
}
