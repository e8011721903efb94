package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

var (
	// ErrEmptyResponse is returned when the model produces no choices.
	ErrEmptyResponse = errors.New("model returned no choices")

	// ErrMalformedResponse is returned when the model's reply cannot be decoded
	// or fails validation after every attempt.
	ErrMalformedResponse = errors.New("malformed model response")
)

// chatModel sends JSON-mode chat requests and decodes the replies.
type chatModel struct {
	client      llms.Model
	maxAttempts int
	logger      *slog.Logger
}

// newChatClient creates an OpenAI-compatible chat client.
// Local services that don't require authentication accept any token.
func newChatClient(host, model, token string) (llms.Model, error) {
	return openai.New(
		openai.WithBaseURL(host),
		openai.WithToken(token),
		openai.WithModel(model),
	)
}

// generateJSON asks the model to answer text under systemPrompt and decodes
// the reply into out, which must be a pointer. out is zeroed before every
// attempt. Replies that fail to decode, or that check rejects, are retried
// up to maxAttempts times. Transport errors are not retried.
func (c *chatModel) generateJSON(ctx context.Context, systemPrompt, text string, out any, check func() error) error {
	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(systemPrompt)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(text)},
		},
	}

	var lastErr error
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		response, err := c.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			c.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return err
		}

		if len(response.Choices) < 1 {
			c.logger.Debug("no choices returned from model", "attempt", attempt+1)
			lastErr = ErrEmptyResponse
			continue
		}

		responseText := repairJSON(stripCodeFence(response.Choices[0].Content))
		reset(out)
		if err := json.Unmarshal([]byte(responseText), out); err != nil {
			lastErr = fmt.Errorf("%w: %w", ErrMalformedResponse, err)
			c.logger.Warn("error parsing model response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}
		if check != nil {
			if err := check(); err != nil {
				lastErr = fmt.Errorf("%w: %w", ErrMalformedResponse, err)
				c.logger.Warn("model response failed validation",
					"attempt", attempt+1,
					"response", responseText,
					"err", err)
				continue
			}
		}
		return nil
	}

	c.logger.Error("failed to obtain a usable response after retries", "attempts", c.maxAttempts, "err", lastErr)
	return lastErr
}

func reset(out any) {
	if v := reflect.ValueOf(out); v.Kind() == reflect.Pointer && !v.IsNil() {
		v.Elem().SetZero()
	}
}

// stripCodeFence removes markdown code fences some models wrap JSON in.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// repairJSON fixes keys that are missing their opening quote, a common
// defect in small-model output: `{label": 1}` becomes `{"label": 1}`.
func repairJSON(s string) string {
	in := []rune(s)
	fixed := make([]rune, 0, len(in)+16)

	i := 0
	for i < len(in) {
		ch := in[i]
		fixed = append(fixed, ch)
		i++
		if ch != '{' && ch != ',' {
			continue
		}

		for i < len(in) && (in[i] == ' ' || in[i] == '\n' || in[i] == '\t') {
			fixed = append(fixed, in[i])
			i++
		}
		if i >= len(in) || in[i] == '"' || !isLetter(in[i]) {
			continue
		}

		keyStart := i
		for i < len(in) && (isLetter(in[i]) || in[i] == '_') {
			i++
		}
		if i+1 < len(in) && in[i] == '"' && in[i+1] == ':' {
			fixed = append(fixed, '"')
		}
		fixed = append(fixed, in[keyStart:i]...)
	}

	return string(fixed)
}

// isLetter returns true if the rune is an ASCII letter.
func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
