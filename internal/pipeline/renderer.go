package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ppiankov/nlquery/internal/model"
)

// Renderer writes reports as JSON, Markdown and a terminal summary
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the report as indented JSON
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return writeFile(path, append(data, '\n'))
}

// RenderMarkdown writes the report as Markdown
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	var b strings.Builder
	r.WriteMarkdown(&b, report)
	return writeFile(path, []byte(b.String()))
}

// WriteJSONLine writes the report as one line of JSON
func (r *Renderer) WriteJSONLine(w io.Writer, report *model.Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// WriteMarkdown renders the report as Markdown into b
func (r *Renderer) WriteMarkdown(b *strings.Builder, report *model.Report) {
	in := report.Intent

	fmt.Fprintf(b, "# %s\n\n", in.Text)
	if in.ID != "" {
		fmt.Fprintf(b, "- **ID:** %s\n", in.ID)
	}
	fmt.Fprintf(b, "- **Sentence kind:** %s\n", in.Type.Kind)
	fmt.Fprintf(b, "- **Returns:** %s\n", in.Returned)
	fmt.Fprintf(b, "- **Count requested:** %s\n", in.Type.Count)
	if len(in.Type.TriggerWords) > 0 {
		fmt.Fprintf(b, "- **Trigger words:** %s\n", strings.Join(in.Type.TriggerWords, ", "))
	}
	b.WriteString("\n## Scope\n\n")
	fmt.Fprintf(b, "- **Time:** %s\n", formatWindow(in.Time))
	fmt.Fprintf(b, "- **In:** %s\n", formatPlaces(in.Places.In))
	fmt.Fprintf(b, "- **To:** %s\n", formatPlaces(in.Places.To))
	fmt.Fprintf(b, "- **Than:** %s\n", formatPlaces(in.Places.Than))

	b.WriteString("\n## Comparisons\n\n")
	if len(in.Comparisons) == 0 {
		b.WriteString("None.\n")
	} else {
		b.WriteString("| # | Type | Sense | Common | Left | Right |\n")
		b.WriteString("|---|------|-------|--------|------|-------|\n")
		for i, c := range in.Comparisons {
			common, left, right := c.Attributes()
			fmt.Fprintf(b, "| %d | %s | %s | %s | %s | %s |\n",
				i+1, c.Type(), c.Direction(), formatAttributes(common), formatAttributes(left), formatAttributes(right))
		}
	}

	b.WriteString("\n## Aggregation\n\n")
	if in.Aggregation == nil {
		b.WriteString("None.\n")
	} else {
		fmt.Fprintf(b, "%s, %d\n", in.Aggregation.Sense, in.Aggregation.Count)
	}

	if len(in.Warnings) > 0 {
		b.WriteString("\n## Warnings\n\n")
		for _, w := range in.Warnings {
			fmt.Fprintf(b, "- %s\n", w)
		}
	}

	if r.includeFooter {
		b.WriteString("\n---\n\n")
		fmt.Fprintf(b, "_Analysed %s from %s", report.AnalyzedAt.Format("2006-01-02 15:04:05 UTC"), report.Source)
		if report.Annotator != "" {
			fmt.Fprintf(b, " (%s)", report.Annotator)
		}
		b.WriteString(" by nlquery. The intent is a reading of the question, not a query result._\n")
	}
}

// RenderSummary prints a short overview of the report
func (r *Renderer) RenderSummary(w io.Writer, report *model.Report) {
	in := report.Intent
	rule := strings.Repeat("═", 59)

	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "  %s\n", in.Text)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Kind:         %s\n", in.Type.Kind)
	fmt.Fprintf(w, "  Returns:      %s\n", in.Returned)
	fmt.Fprintf(w, "  Count:        %s\n", in.Type.Count)
	fmt.Fprintf(w, "  Time:         %s\n", formatWindow(in.Time))
	fmt.Fprintf(w, "  Places:       in %s; to %s; than %s\n",
		formatPlaces(in.Places.In), formatPlaces(in.Places.To), formatPlaces(in.Places.Than))
	for i, c := range in.Comparisons {
		common, left, right := c.Attributes()
		fmt.Fprintf(w, "  Comparison %d: %s %s common=%s left=%s right=%s\n",
			i+1, c.Type(), c.Direction(), formatAttributes(common), formatAttributes(left), formatAttributes(right))
	}
	if in.Aggregation != nil {
		fmt.Fprintf(w, "  Aggregation:  %s %d\n", in.Aggregation.Sense, in.Aggregation.Count)
	}
	for _, warn := range in.Warnings {
		fmt.Fprintf(w, "  ⚠ %s\n", warn)
	}
	fmt.Fprintln(w)
}

func formatWindow(t model.TimeWindow) string {
	if t.From == nil && t.To == nil && len(t.Than) == 0 {
		return "-"
	}
	year := func(y *int) string {
		if y == nil {
			return "…"
		}
		return strconv.Itoa(*y)
	}
	s := year(t.From) + "-" + year(t.To)
	if len(t.Than) > 0 {
		var than []string
		for _, y := range t.Than {
			than = append(than, strconv.Itoa(y))
		}
		s += " (than " + strings.Join(than, ", ") + ")"
	}
	return s
}

func formatPlaces(places []model.Place) string {
	if len(places) == 0 {
		return "-"
	}
	names := make([]string, len(places))
	for i, p := range places {
		names[i] = p.Name
	}
	return strings.Join(names, ", ")
}

func formatAttributes(a model.Attributes) string {
	var parts []string
	if a.Time != nil {
		if a.Time.From == a.Time.To {
			parts = append(parts, fmt.Sprintf("TIME=%d", a.Time.From))
		} else {
			parts = append(parts, fmt.Sprintf("TIME=%d-%d", a.Time.From, a.Time.To))
		}
	}
	if len(a.Area) > 0 {
		parts = append(parts, "AREA="+strings.Join(a.Area, "/"))
	}
	if a.Threshold != nil {
		parts = append(parts, "THRESHOLD="+strconv.FormatFloat(*a.Threshold, 'f', -1, 64))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}
