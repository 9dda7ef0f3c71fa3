package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/nlquery/internal/annotate"
	"github.com/ppiankov/nlquery/internal/model"
	"github.com/ppiankov/nlquery/internal/pipeline"
	"github.com/ppiankov/nlquery/internal/score"
	"github.com/ppiankov/nlquery/internal/worker"
)

var (
	evalJSON     string
	evalFailures bool
	evalTimeout  time.Duration
)

var evalCmd = &cobra.Command{
	Use:   "eval <cases>",
	Short: "Score extraction accuracy on labelled questions",
	Long: `Eval analyses labelled questions and prints the accuracy of each
scored aspect: sentence kind, result kind, comparison, aggregation, time
window and places.

Cases come as JSON lines ({"text": ..., "sentence": ..., "expect": {...}})
or as ';'-separated CSV with a Query column and any of Type, Returned,
Comp, Sup, Sens, Value, Date_from, Date_to, Date_than, Loc_from, Loc_to,
Loc_than. Cases without a pre-annotated sentence go to the annotator.

Example:
  nlquery eval cases.jsonl
  nlquery eval Time_Location_queries_test.csv --failures --json eval.json`,
	Args: cobra.ExactArgs(1),
	RunE: runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)

	evalCmd.Flags().StringVar(&evalJSON, "json", "", "write the evaluation report as JSON")
	evalCmd.Flags().BoolVar(&evalFailures, "failures", false, "list every mismatch")
	evalCmd.Flags().DurationVar(&evalTimeout, "timeout", 30*time.Minute, "total timeout")
}

func runEval(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cases, err := score.ReadCasesFile(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), evalTimeout)
	defer cancel()

	var annotator annotate.Annotator
	items := make([]worker.Item, len(cases))
	for i, c := range cases {
		items[i] = worker.Item{ID: c.ID, Text: c.Text, Sentence: c.Sentence}
		if c.Sentence == nil && annotator == nil {
			a, err := pipeline.NewAnnotator(cfg, userAgent(), slog.Default())
			if err != nil {
				return fmt.Errorf("create annotator: %w", err)
			}
			annotator = a
		}
	}

	p, err := pipeline.NewPipeline(cfg, annotator, slog.Default())
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "⚙️  Analysing %d cases with %d workers...\n", len(cases), cfg.Concurrency.Workers)
	results := worker.NewBatchProcessor(p, cfg.Concurrency.Workers).Process(ctx, items)

	scorer := score.NewScorer(cfg.Extract.Year(), cfg.Extract.EarliestYear)
	for i, r := range results {
		if r.Error != nil {
			scorer.AddError(cases[i], r.Error)
			continue
		}
		scorer.Add(cases[i], &r.Report.Intent)
	}
	report := scorer.Report()

	printEval(cmd, report)

	if evalJSON != "" {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal report: %w", err)
		}
		if err := os.WriteFile(evalJSON, append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", evalJSON)
		}
	}
	return nil
}

func printEval(cmd *cobra.Command, r model.EvalReport) {
	w := cmd.OutOrStdout()
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Cases:   %d (%d could not be analysed)\n", r.Cases, r.Errors)
	fmt.Fprintln(w)
	for _, m := range r.Metrics {
		fmt.Fprintf(w, "  %-18s %6.1f%%  (%d/%d)\n", m.Name, m.Accuracy*100, m.Correct, m.Total)
	}
	if evalFailures && len(r.Failures) > 0 {
		fmt.Fprintln(w)
		for _, f := range r.Failures {
			fmt.Fprintf(w, "  ✗ [%s] %s: %q\n      expected %s\n      got      %s\n", f.Metric, f.CaseID, f.Text, f.Expected, f.Got)
		}
	}
	fmt.Fprintln(w)
}
