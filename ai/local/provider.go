package local

import (
	"log/slog"

	"github.com/poiesic/semanalyzer/ai"
)

// Provider implements ai.AIProvider with offline heuristics. It needs no
// model server and is safe for concurrent use.
type Provider struct {
	embedder   *Embedder
	sentiment  *SentimentClassifier
	summarizer *Summarizer
	topics     *TopicLabeler
	logger     *slog.Logger
}

// NewProvider creates the offline provider. Only the provider-independent
// fields of config are consulted.
//
// Returns ai.AIProvider interface (not *Provider) to enforce abstraction.
func NewProvider(config *ai.Config) (ai.AIProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	logger := slog.Default().With("component", "local-provider")
	logger.Debug("using offline heuristics", "dimension", DefaultDimension)

	return &Provider{
		embedder:   newEmbedder(DefaultDimension),
		sentiment:  &SentimentClassifier{},
		summarizer: &Summarizer{},
		topics:     &TopicLabeler{},
		logger:     logger,
	}, nil
}

func (p *Provider) Embedder() ai.Embedder                       { return p.embedder }
func (p *Provider) SentimentClassifier() ai.SentimentClassifier { return p.sentiment }
func (p *Provider) Summarizer() ai.Summarizer                   { return p.summarizer }
func (p *Provider) TopicLabeler() ai.TopicLabeler               { return p.topics }

// Close is a no-op.
func (p *Provider) Close() error {
	p.logger.Debug("closing local provider")
	return nil
}
