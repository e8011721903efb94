package openai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/semanalyzer/ai"
	"github.com/poiesic/semanalyzer/core"
)

// SentimentClassifier implements ai.SentimentClassifier using OpenAI-compatible chat APIs.
type SentimentClassifier struct {
	chat *chatModel
}

type sentimentReply struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// newSentimentClassifier is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newSentimentClassifier(config *ai.Config) (*SentimentClassifier, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := newChatClient(config.ClassifierHost, config.ClassifierModel, config.APIKey)
	if err != nil {
		return nil, err
	}

	return &SentimentClassifier{
		chat: &chatModel{
			client:      client,
			maxAttempts: config.MaxAttempts,
			logger:      slog.Default().With("component", "openai-sentiment"),
		},
	}, nil
}

// NewSentimentClassifier creates a sentiment classifier using the provided configuration.
//
// Returns ai.SentimentClassifier interface to enforce abstraction.
func NewSentimentClassifier(config *ai.Config) (ai.SentimentClassifier, error) {
	return newSentimentClassifier(config)
}

// ClassifySentiment asks the model for the dominant sentiment of text.
func (s *SentimentClassifier) ClassifySentiment(ctx context.Context, text string) (core.Label, error) {
	var reply sentimentReply
	err := s.chat.generateJSON(ctx, sentimentPrompt, text, &reply, func() error {
		reply.Label = strings.ToUpper(strings.TrimSpace(reply.Label))
		switch reply.Label {
		case ai.SentimentPositive, ai.SentimentNegative, ai.SentimentNeutral:
		default:
			return fmt.Errorf("unexpected sentiment label %q", reply.Label)
		}
		return core.ValidateLabel(core.Label{Label: reply.Label, Confidence: reply.Confidence})
	})
	if err != nil {
		return core.Label{}, err
	}

	s.chat.logger.Debug("classified sentiment", "label", reply.Label, "confidence", reply.Confidence)
	return core.Label{Label: reply.Label, Confidence: reply.Confidence}, nil
}
