package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"

	"github.com/poiesic/semanalyzer"
	"github.com/poiesic/semanalyzer/config"
	"github.com/poiesic/semanalyzer/metrics"
	"github.com/poiesic/semanalyzer/report"
)

// application carries state shared by the commands of one run.
type application struct {
	stdout   io.Writer
	stderr   io.Writer
	cfg      *config.Config
	registry *prometheus.Registry
}

func newApp(stdout, stderr io.Writer) *cli.App {
	a := &application{stdout: stdout, stderr: stderr}

	return &cli.App{
		Name:      "semanalyzer",
		Usage:     "Semantic analysis tool for words, sentences, paragraphs and texts",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "warn",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML config file (default ~/.config/semanalyzer/config.yaml)",
				EnvVars: []string{"SEMANALYZER_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Load environment variables from this file if it exists",
				Value: ".env",
			},
			&cli.StringFlag{
				Name:  "provider",
				Usage: "Model provider (openai, local)",
			},
			&cli.StringFlag{
				Name:  "embedding-host",
				Usage: "Embedding service host URL",
			},
			&cli.StringFlag{
				Name:  "embedding-model",
				Usage: "Embedding model name",
			},
			&cli.StringFlag{
				Name:  "classifier-host",
				Usage: "Chat service host URL for sentiment, themes and topics",
			},
			&cli.StringFlag{
				Name:  "classifier-model",
				Usage: "Chat model name for sentiment, themes and topics",
			},
			&cli.StringFlag{
				Name:    "api-key",
				Usage:   "API key for the model services",
				EnvVars: []string{"SEMANALYZER_API_KEY", "OPENAI_API_KEY"},
			},
			&cli.StringFlag{
				Name:  "cache-dir",
				Usage: "Directory of the persistent embedding cache (disabled when empty)",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Number of texts processed concurrently",
			},
			&cli.StringFlag{
				Name:  "failure-policy",
				Usage: "How failed profiling stages affect a text (partial, fail-unit)",
			},
			&cli.StringFlag{
				Name:  "metrics-file",
				Usage: "Write Prometheus metrics to this file on exit",
			},
		},
		Before: a.before,
		After:  a.after,
		Commands: []*cli.Command{
			a.wordCommand(),
			a.similarityCommand("sentence", "sentences"),
			a.similarityCommand("paragraph", "paragraphs"),
			a.textCommand(),
			a.configCommand(),
		},
	}
}

func (a *application) before(c *cli.Context) error {
	if err := godotenv.Load(c.String("env-file")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", c.String("env-file"), err)
	}

	if err := setupLogger(c.String("log-level"), a.stderr); err != nil {
		return err
	}

	path, err := a.configPath(c)
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	applyFlags(c, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg
	a.registry = prometheus.NewRegistry()
	return nil
}

func (a *application) after(c *cli.Context) error {
	path := c.String("metrics-file")
	if path == "" || a.registry == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, a.registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}

func (a *application) configPath(c *cli.Context) (string, error) {
	if path := c.String("config"); path != "" {
		return path, nil
	}
	path, err := config.DefaultPath()
	if err != nil {
		slog.Debug("no home directory, using built-in defaults", "err", err)
		return "", nil
	}
	return path, nil
}

// applyFlags overrides file values with the flags given on the command line.
func applyFlags(c *cli.Context, cfg *config.Config) {
	if c.IsSet("provider") {
		cfg.AI.Provider = c.String("provider")
	}
	if c.IsSet("embedding-host") {
		cfg.AI.EmbeddingHost = c.String("embedding-host")
	}
	if c.IsSet("embedding-model") {
		cfg.AI.EmbeddingModel = c.String("embedding-model")
	}
	if c.IsSet("classifier-host") {
		cfg.AI.ClassifierHost = c.String("classifier-host")
	}
	if c.IsSet("classifier-model") {
		cfg.AI.ClassifierModel = c.String("classifier-model")
	}
	if c.IsSet("api-key") {
		cfg.AI.APIKey = c.String("api-key")
	}
	if c.IsSet("cache-dir") {
		cfg.Cache.Dir = c.String("cache-dir")
	}
	if c.IsSet("workers") {
		cfg.Profile.Workers = c.Int("workers")
	}
	if c.IsSet("failure-policy") {
		cfg.Profile.FailurePolicy = c.String("failure-policy")
	}
	if c.IsSet("log-level") {
		cfg.Logging.Level = c.String("log-level")
	}
	cfg.ApplyDefaults()
}

func (a *application) newSession(opts ...semanalyzer.Option) (*semanalyzer.Session, error) {
	cfg := a.cfg
	base := []semanalyzer.Option{
		semanalyzer.WithAIConfig(cfg.AIConfig()),
		semanalyzer.WithVectorPath(cfg.Vectors.Path),
		semanalyzer.WithVectorLimit(cfg.Vectors.Limit),
		semanalyzer.WithEmbeddingCacheDir(cfg.Cache.Dir),
		semanalyzer.WithWorkers(cfg.Profile.Workers),
		semanalyzer.WithFailurePolicy(cfg.FailurePolicy()),
		semanalyzer.WithRetry(cfg.Profile.RetryAttempts, cfg.RetryDelay()),
		semanalyzer.WithMetrics(metrics.New(a.registry)),
		semanalyzer.WithLogger(slog.Default()),
	}
	if cfg.Cache.Namespace != "" && cfg.Cache.Namespace != "default" {
		base = append(base, semanalyzer.WithEmbeddingNamespace(cfg.Cache.Namespace))
	}
	return semanalyzer.NewSession(append(base, opts...)...)
}

func setupLogger(levelStr string, w io.Writer) error {
	var level slog.Level
	switch strings.ToLower(levelStr) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return nil
}

// outputFlag is the --output-format flag shared by every analyze command.
func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output-format",
		Aliases: []string{"o"},
		Usage:   "Output format for results (json, table)",
		Value:   "table",
	}
}

// tabler is implemented by every report.
type tabler interface {
	Table() string
}

func checkFormat(format string) error {
	switch format {
	case "json", "table":
		return nil
	default:
		return fmt.Errorf("invalid output format %q: must be json or table", format)
	}
}

func (a *application) emit(format string, r tabler) error {
	if format == "json" {
		return report.WriteJSON(a.stdout, r)
	}
	_, err := io.WriteString(a.stdout, r.Table())
	return err
}
