package openai

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/poiesic/semanalyzer/ai"
)

// Summarizer implements ai.Summarizer using OpenAI-compatible chat APIs.
type Summarizer struct {
	chat *chatModel
}

type summaryReply struct {
	Summary string `json:"summary"`
}

// newSummarizer is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newSummarizer(config *ai.Config) (*Summarizer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := newChatClient(config.ClassifierHost, config.SummarizerModel, config.APIKey)
	if err != nil {
		return nil, err
	}

	return &Summarizer{
		chat: &chatModel{
			client:      client,
			maxAttempts: config.MaxAttempts,
			logger:      slog.Default().With("component", "openai-summarizer"),
		},
	}, nil
}

// NewSummarizer creates a summarizer using the provided configuration.
//
// Returns ai.Summarizer interface to enforce abstraction.
func NewSummarizer(config *ai.Config) (ai.Summarizer, error) {
	return newSummarizer(config)
}

// Summarize asks the model for a theme statement of minWords to maxWords words.
// Replies longer than maxWords are cut at the word limit.
func (s *Summarizer) Summarize(ctx context.Context, text string, minWords, maxWords int) (string, error) {
	var reply summaryReply
	err := s.chat.generateJSON(ctx, buildSummaryPrompt(minWords, maxWords), text, &reply, func() error {
		if strings.TrimSpace(reply.Summary) == "" {
			return errors.New("summary is empty")
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	words := strings.Fields(reply.Summary)
	if maxWords > 0 && len(words) > maxWords {
		s.chat.logger.Debug("truncating summary", "words", len(words), "max", maxWords)
		words = words[:maxWords]
	}
	return strings.Join(words, " "), nil
}
