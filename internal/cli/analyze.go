package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/nlquery/internal/annotate"
	"github.com/ppiankov/nlquery/internal/model"
	"github.com/ppiankov/nlquery/internal/pipeline"
)

var (
	outJSON        string
	outMD          string
	sentenceFile   string
	analyzeTimeout time.Duration
	noFooter       bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [question]",
	Short: "Analyse one question and print its intent",
	Long: `Analyze reads the intent of a question:
- what kind of sentence it is and what it asks for (a value, places, years)
- its time window and the places it names, with their roles
- its comparisons (threshold, against a place, a year or two values)
- its ranking (top N, lowest)

The question is annotated by the CoreNLP server unless --sentence points at
pre-annotated JSON, in which case every sentence of the file is analysed.

Example:
  nlquery analyze "Which countries had higher GDP than Germany in 2015?"
  nlquery analyze "Top 10 countries with population over 50 million" --json intent.json
  nlquery analyze --sentence annotated.json --md intent.md`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path")
	analyzeCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path")
	analyzeCmd.Flags().StringVar(&sentenceFile, "sentence", "", "read annotated sentences from a JSON file instead of the annotator")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", time.Minute, "overall timeout")
	analyzeCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if noFooter {
		cfg.Output.IncludeFooter = false
	}
	if sentenceFile == "" && len(args) == 0 {
		return fmt.Errorf("give a question or --sentence")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), analyzeTimeout)
	defer cancel()

	var (
		reports   []*model.Report
		annotator annotate.Annotator
	)
	if sentenceFile == "" {
		a, err := pipeline.NewAnnotator(cfg, userAgent(), slog.Default())
		if err != nil {
			return fmt.Errorf("create annotator: %w", err)
		}
		annotator = a
	}

	p, err := pipeline.NewPipeline(cfg, annotator, slog.Default())
	if err != nil {
		return err
	}

	if sentenceFile != "" {
		sentences, err := annotate.ReadSentenceFile(sentenceFile)
		if err != nil {
			return fmt.Errorf("read sentences: %w", err)
		}
		for _, s := range sentences {
			r, err := p.AnalyzeSentence(ctx, s)
			if err != nil {
				return fmt.Errorf("analyze failed: %w", err)
			}
			reports = append(reports, r)
		}
	} else {
		question := strings.Join(args, " ")
		if verbose {
			fmt.Fprintf(os.Stderr, "Annotating with %s\n", cfg.Annotator.URL)
		}
		r, err := p.AnalyzeText(ctx, "", question)
		if err != nil {
			return fmt.Errorf("analyze failed: %w", err)
		}
		reports = append(reports, r)
	}

	for i, r := range reports {
		jsonPath, mdPath := outJSON, outMD
		if len(reports) > 1 {
			jsonPath, mdPath = numbered(jsonPath, i), numbered(mdPath, i)
		}
		if err := p.RenderReport(r, jsonPath, mdPath, cmd.OutOrStdout(), verbose); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
	}
	return nil
}

// numbered inserts a sequence number before the extension of path
func numbered(path string, i int) string {
	if path == "" {
		return ""
	}
	dot := strings.LastIndex(path, ".")
	if dot <= strings.LastIndex(path, "/") {
		return fmt.Sprintf("%s-%d", path, i+1)
	}
	return fmt.Sprintf("%s-%d%s", path[:dot], i+1, path[dot:])
}
