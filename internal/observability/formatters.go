// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/outliers/druknation/internal/answer"
	"github.com/outliers/druknation/internal/corpus"
	"github.com/outliers/druknation/internal/db"
	"github.com/outliers/druknation/internal/ingestion"
	"github.com/outliers/druknation/internal/pipeline"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// previewChars bounds the source previews shown in boxes
	previewChars = 120
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(line))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// pad truncates or right-pads line to the inner box width, counting runes.
func pad(line string) string {
	inner := boxWidth - 4
	n := utf8.RuneCountInString(line)
	if n > inner {
		return string([]rune(line)[:inner-3]) + "..."
	}
	return line + strings.Repeat(" ", inner-n)
}

// PrintDocuments outputs a summary of freshly loaded legal sources.
func (p *Printer) PrintDocuments(docs *pipeline.Documents) {
	if docs == nil {
		return
	}

	var sb strings.Builder
	writeSource(&sb, "Penal Code", docs.PrimaryMeta, docs.Primary)
	sb.WriteString("\n")
	writeSource(&sb, "Reference article", docs.SecondaryMeta, docs.Secondary)
	sb.WriteString("\n")

	combined := docs.Primary + corpus.Separator + docs.Secondary
	sb.WriteString(fmt.Sprintf("Combined length: %d characters\n", utf8.RuneCountInString(combined)))

	p.printBox("LEGAL DOCUMENTS", sb.String())
}

func writeSource(sb *strings.Builder, label string, meta *ingestion.Metadata, text string) {
	sb.WriteString(label + ":\n")
	if meta != nil && meta.Origin != "" {
		sb.WriteString(fmt.Sprintf("  Origin:  %s\n", meta.Origin))
	}
	if text == "" {
		sb.WriteString("  (not loaded)\n")
		return
	}
	sb.WriteString(fmt.Sprintf("  Length:  %d characters\n", utf8.RuneCountInString(text)))
	if meta != nil && len(meta.Hash) >= 12 {
		sb.WriteString(fmt.Sprintf("  SHA256:  %s…\n", meta.Hash[:12]))
	}
	preview := strings.Join(strings.Fields(corpus.Preview(text, previewChars)), " ")
	sb.WriteString(fmt.Sprintf("  Preview: %s\n", preview))
}

// PrintAnswer outputs a question and the model reply. The reply is printed
// in full below the box.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintAnswer(ans *answer.Answer) {
	if ans == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Question: %s\n", ans.Question))
	sb.WriteString(fmt.Sprintf("Model:    %s\n", ans.Model))
	sb.WriteString(fmt.Sprintf("Context:  %d characters\n", ans.ContextLength))
	sb.WriteString(fmt.Sprintf("Answered: %s\n", ans.AnsweredAt.Format(time.RFC3339)))

	p.printBox("ANSWER", sb.String())
	fmt.Fprintf(p.out, "\n%s\n", ans.Text)
}

// PrintIngestionRuns outputs recent ingestion audit records, newest first.
func (p *Printer) PrintIngestionRuns(runs []db.IngestionRun) {
	var sb strings.Builder
	if len(runs) == 0 {
		sb.WriteString("No ingestion runs recorded\n")
	}
	for _, run := range runs {
		sb.WriteString(fmt.Sprintf("%s  %-7s %-9s %s\n",
			run.StartedAt.UTC().Format("2006-01-02 15:04:05"),
			run.Trigger,
			run.Status,
			run.Duration().Round(time.Millisecond),
		))
		if run.ErrorMessage != nil {
			sb.WriteString(fmt.Sprintf("  error: %s\n", *run.ErrorMessage))
		}
	}

	p.printBox("INGESTION RUNS", sb.String())
}
