package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/nlquery/internal/pipeline"
	"github.com/ppiankov/nlquery/internal/worker"
)

var (
	batchOutput  string
	batchWorkers int
	batchTimeout time.Duration
)

var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Analyse many questions in parallel",
	Long: `Batch analyses a file of questions with a pool of workers:
- one question per line, as plain text or as an annotated JSON sentence
- blank lines and lines starting with # are skipped
- intents are written as JSON lines, in input order

Example:
  nlquery batch questions.txt
  nlquery batch annotated.jsonl --output intents.jsonl --workers 8`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVarP(&batchOutput, "output", "o", "-", "output JSON lines path (- for stdout)")
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 0, "number of concurrent workers (0: from config)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for the batch")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if batchWorkers > 0 {
		cfg.Concurrency.Workers = batchWorkers
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	items, err := worker.ReadItemsFromFile(file)
	if err != nil {
		return fmt.Errorf("read questions: %w", err)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  nlquery batch\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Questions:    %d\n", len(items))
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Annotator:    %s\n", cfg.Annotator.URL)
	fmt.Fprintf(os.Stderr, "\n")

	annotator, err := pipeline.NewAnnotator(cfg, userAgent(), slog.Default())
	if err != nil {
		return fmt.Errorf("create annotator: %w", err)
	}
	p, err := pipeline.NewPipeline(cfg, annotator, slog.Default())
	if err != nil {
		return err
	}

	results := worker.NewBatchProcessor(p, cfg.Concurrency.Workers).Process(ctx, items)

	var out io.Writer = cmd.OutOrStdout()
	if batchOutput != "-" {
		f, err := os.Create(batchOutput)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
	success := 0
	for _, r := range results {
		if r.Error != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", r.Item.ID, r.Error)
			continue
		}
		if err := renderer.WriteJSONLine(out, r.Report); err != nil {
			return err
		}
		success++
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ %s: %s, %d comparison(s)\n", r.Item.ID, r.Report.Intent.Returned, len(r.Report.Intent.Comparisons))
		}
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d questions\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", success)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", len(results)-success)
	fmt.Fprintf(os.Stderr, "\n")
	return nil
}
