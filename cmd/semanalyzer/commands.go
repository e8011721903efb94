package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/semanalyzer"
	"github.com/poiesic/semanalyzer/config"
	"github.com/poiesic/semanalyzer/core"
	"github.com/poiesic/semanalyzer/input"
)

const vectorGuidance = `
Error: Word2Vec model file not found!
Expected path: %s

To use word analysis, you need to download the Google News Word2Vec model:
1. Download the model from: https://code.google.com/archive/p/word2vec/
2. Extract the downloaded file
3. Either:
   a) Place the extracted file at the expected path above
   b) Or specify a different path using --vector-path

Example command with custom path:
semanalyzer word analyze -n 'heinous' -n 'cruel' -p /path/to/your/GoogleNews-vectors-negative300.bin
`

const textUsage = `
Example usage:
1. Direct input:
   semanalyzer text analyze -t 'First text segment.' -t 'Second text segment.'

2. From file:
   semanalyzer text analyze -f input.csv

File formats supported:
1. CSV: Must have a 'texts' column
2. JSON: Must have a 'texts' key with array value
3. TOML: Must have a 'texts' key with array value
`

const fileExamples = `
Example file formats:
CSV:
texts
"First text segment."
"Second text segment."

JSON:
{"texts": ["First text segment.", "Second text segment."]}

TOML:
texts = ["First text segment.", "Second text segment."]
`

func (a *application) wordCommand() *cli.Command {
	return &cli.Command{
		Name:  "word",
		Usage: "Word-level semantic analysis commands",
		Subcommands: []*cli.Command{
			{
				Name:   "analyze",
				Usage:  "Analyze word similarity based on near and far word constraints",
				Action: a.wordAnalyze,
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:    "near-words",
						Aliases: []string{"n"},
						Usage:   "Words that should be semantically similar",
					},
					&cli.StringSliceFlag{
						Name:    "far-words",
						Aliases: []string{"f"},
						Usage:   "Words that should be semantically different",
					},
					&cli.StringFlag{
						Name:    "input-file",
						Aliases: []string{"i"},
						Usage:   "CSV, JSON or TOML file with a 'words' list of near words",
					},
					&cli.IntFlag{
						Name:    "top-n",
						Aliases: []string{"t"},
						Usage:   "Number of similar words to return",
						Value:   5,
					},
					outputFlag(),
					&cli.StringFlag{
						Name:    "vector-path",
						Aliases: []string{"p"},
						Usage:   "Path to the word2vec vector file (default from config)",
					},
				},
			},
		},
	}
}

func (a *application) wordAnalyze(c *cli.Context) error {
	format := c.String("output-format")
	if err := checkFormat(format); err != nil {
		return err
	}

	near := c.StringSlice("near-words")
	if path := c.String("input-file"); path != "" {
		words, err := input.Read(path, input.Words)
		if err != nil {
			return err
		}
		near = append(near, words...)
	}
	far := c.StringSlice("far-words")
	if len(near) == 0 && len(far) == 0 {
		return errors.New("at least one near or far word must be specified")
	}

	vectorPath := c.String("vector-path")
	if vectorPath == "" {
		vectorPath = a.cfg.Vectors.Path
	}

	session, err := a.newSession()
	if err != nil {
		return err
	}
	defer session.Close()

	r, err := session.AnalyzeWords(context.Background(), semanalyzer.WordQuery{
		Near:       near,
		Far:        far,
		TopN:       c.Int("top-n"),
		VectorPath: vectorPath,
	})
	if errors.Is(err, core.ErrVectorResourceNotFound) {
		fmt.Fprintf(a.stdout, vectorGuidance, vectorPath)
		return err
	}
	if err != nil {
		return err
	}
	return a.emit(format, r)
}

// similarityCommand builds the sentence and paragraph command groups.
func (a *application) similarityCommand(noun, plural string) *cli.Command {
	granularity, err := core.ParseGranularity(noun)
	if err != nil {
		panic(err)
	}
	return &cli.Command{
		Name:  noun,
		Usage: capitalize(noun) + "-level semantic analysis commands",
		Subcommands: []*cli.Command{
			{
				Name:  "analyze",
				Usage: fmt.Sprintf("Analyze %s similarity based on near and far %s constraints", noun, noun),
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:    "near-" + plural,
						Aliases: []string{"n"},
						Usage:   capitalize(plural) + " that should be semantically similar",
					},
					&cli.StringSliceFlag{
						Name:    "far-" + plural,
						Aliases: []string{"f"},
						Usage:   capitalize(plural) + " that should be semantically different",
					},
					outputFlag(),
				},
				Action: func(c *cli.Context) error {
					format := c.String("output-format")
					if err := checkFormat(format); err != nil {
						return err
					}
					near := c.StringSlice("near-" + plural)
					far := c.StringSlice("far-" + plural)
					if len(near) == 0 && len(far) == 0 {
						return fmt.Errorf("at least one near or far %s must be specified", noun)
					}

					session, err := a.newSession()
					if err != nil {
						return err
					}
					defer session.Close()

					r, err := session.CompareTexts(context.Background(), granularity, near, far)
					if err != nil {
						return err
					}
					return a.emit(format, r)
				},
			},
		},
	}
}

func (a *application) textCommand() *cli.Command {
	return &cli.Command{
		Name:  "text",
		Usage: "Text-level semantic analysis commands",
		Subcommands: []*cli.Command{
			{
				Name:   "analyze",
				Usage:  "Qualitative analysis of text: sentiment, key themes, topics and lexical metrics",
				Action: a.textAnalyze,
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:    "texts",
						Aliases: []string{"t"},
						Usage:   "Text segments to analyze",
					},
					&cli.StringFlag{
						Name:    "input-file",
						Aliases: []string{"f"},
						Usage:   "Input file (CSV, JSON, or TOML) containing texts",
					},
					&cli.BoolFlag{
						Name:  "progress",
						Usage: "Report progress on stderr",
					},
					outputFlag(),
				},
			},
		},
	}
}

func (a *application) textAnalyze(c *cli.Context) error {
	format := c.String("output-format")
	if err := checkFormat(format); err != nil {
		return err
	}

	texts := c.StringSlice("texts")
	path := c.String("input-file")
	switch {
	case len(texts) == 0 && path == "":
		fmt.Fprint(a.stdout, textUsage)
		return errors.New("either --texts or --input-file must be provided")
	case len(texts) > 0 && path != "":
		return errors.New("cannot provide both --texts and --input-file")
	case path != "":
		var err error
		texts, err = input.Read(path, input.Texts)
		if err != nil {
			fmt.Fprint(a.stdout, fileExamples)
			return err
		}
	}

	var opts []semanalyzer.Option
	if c.Bool("progress") {
		opts = append(opts, semanalyzer.WithProgress(a.stderr))
	}
	session, err := a.newSession(opts...)
	if err != nil {
		return err
	}
	defer session.Close()

	r, err := session.ProfileTexts(context.Background(), texts)
	if err != nil {
		return err
	}
	if err := a.emit(format, r); err != nil {
		return err
	}
	if failed := r.Failed(); failed > 0 {
		fmt.Fprintf(a.stderr, "%d of %d texts had failed stages\n", failed, len(r.Analyses))
	}
	return nil
}

func (a *application) configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration commands",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Write the effective configuration to the config file",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing file",
					},
				},
				Action: func(c *cli.Context) error {
					path, err := a.configPath(c)
					if err != nil {
						return err
					}
					if path == "" {
						return errors.New("no config path: use --config")
					}
					if _, err := os.Stat(path); err == nil && !c.Bool("force") {
						return fmt.Errorf("%s already exists (use --force to overwrite)", path)
					}
					if err := config.Save(path, a.cfg); err != nil {
						return err
					}
					fmt.Fprintf(a.stdout, "Wrote %s\n", path)
					return nil
				},
			},
		},
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
