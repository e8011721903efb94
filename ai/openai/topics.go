package openai

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/poiesic/semanalyzer/ai"
	"github.com/poiesic/semanalyzer/core"
)

// TopicLabeler implements ai.TopicLabeler using OpenAI-compatible chat APIs.
type TopicLabeler struct {
	chat *chatModel
}

type topicScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

type topicReply struct {
	Scores []topicScore `json:"scores"`
}

// newTopicLabeler is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newTopicLabeler(config *ai.Config) (*TopicLabeler, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := newChatClient(config.ClassifierHost, config.ClassifierModel, config.APIKey)
	if err != nil {
		return nil, err
	}

	return &TopicLabeler{
		chat: &chatModel{
			client:      client,
			maxAttempts: config.MaxAttempts,
			logger:      slog.Default().With("component", "openai-topics"),
		},
	}, nil
}

// NewTopicLabeler creates a topic labeler using the provided configuration.
//
// Returns ai.TopicLabeler interface to enforce abstraction.
func NewTopicLabeler(config *ai.Config) (ai.TopicLabeler, error) {
	return newTopicLabeler(config)
}

// ClassifyTopics asks the model to score text against each candidate label.
// Every candidate appears exactly once in the result; candidates the model
// omitted score 0, and labels outside the candidate set are discarded.
func (t *TopicLabeler) ClassifyTopics(ctx context.Context, text string, labels []string) ([]core.Label, error) {
	if len(labels) == 0 {
		return []core.Label{}, nil
	}

	canonical := make(map[string]string, len(labels))
	for _, label := range labels {
		canonical[strings.ToLower(label)] = label
	}

	var reply topicReply
	err := t.chat.generateJSON(ctx, buildTopicPrompt(labels), text, &reply, func() error {
		for _, s := range reply.Scores {
			if _, ok := canonical[strings.ToLower(strings.TrimSpace(s.Label))]; ok {
				return nil
			}
		}
		return errors.New("no candidate topic was scored")
	})
	if err != nil {
		return nil, err
	}

	scores := make(map[string]float64, len(labels))
	for _, s := range reply.Scores {
		label, ok := canonical[strings.ToLower(strings.TrimSpace(s.Label))]
		if !ok {
			t.chat.logger.Debug("discarding unknown topic", "label", s.Label)
			continue
		}
		if _, seen := scores[label]; !seen {
			scores[label] = max(0, min(1, s.Score))
		}
	}

	result := make([]core.Label, len(labels))
	for i, label := range labels {
		result[i] = core.Label{Label: label, Confidence: scores[label]}
	}
	return result, nil
}
