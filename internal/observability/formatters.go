// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/vishaaldeep/sahayak2-sub000/internal/recommend"
	"github.com/vishaaldeep/sahayak2-sub000/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
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
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintAssessment outputs a human-readable summary of one assessment result.
func (p *Printer) PrintAssessment(result *types.AssessmentResult) {
	if result == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Total Score:     %d/100\n", result.TotalScore))
	sb.WriteString(fmt.Sprintf("Recommendation:  %s\n", result.Recommendation))
	sb.WriteString(fmt.Sprintf("Confidence:      %s\n", result.Confidence))
	sb.WriteString(fmt.Sprintf("Method:          %s\n", result.MethodUsed))
	if result.FallbackReason != "" {
		sb.WriteString(fmt.Sprintf("Fallback:        %s\n", result.FallbackReason))
	}
	sb.WriteString("\n")

	sb.WriteString("Breakdown:\n")
	for _, dim := range types.Dimensions {
		ds, ok := result.Breakdown[dim]
		if !ok {
			continue
		}
		sb.WriteString(fmt.Sprintf("  %-20s %3d  (weight %.0f%%)\n", dim, ds.Score, ds.Weight*100))
	}

	if len(result.Strengths) > 0 {
		sb.WriteString("\nStrengths:\n")
		appendItems(&sb, result.Strengths)
	}
	if len(result.Concerns) > 0 {
		sb.WriteString("\nConcerns:\n")
		appendItems(&sb, result.Concerns)
	}
	if len(result.Suggestions) > 0 {
		sb.WriteString("\nSuggestions:\n")
		appendItems(&sb, result.Suggestions)
	}

	p.printBox("Hiring Assessment", sb.String())
}

// PrintRecommendations outputs a human-readable summary of one ranking run.
func (p *Printer) PrintRecommendations(result *recommend.Result) {
	if result == nil {
		return
	}

	var sb strings.Builder

	for i, rec := range result.Recommendations {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, rec.Title))
		sb.WriteString(fmt.Sprintf("   Score: %d", rec.Score))
		if rec.Score != rec.RawScore {
			sb.WriteString(fmt.Sprintf(" (pre-penalty %d)", rec.RawScore))
		}
		sb.WriteString("\n")
		for _, reason := range rec.Reasons {
			sb.WriteString(fmt.Sprintf("   + %s\n", reason))
		}
		for _, warning := range rec.Warnings {
			sb.WriteString(fmt.Sprintf("   ! %s\n", warning))
		}
	}

	sb.WriteString(fmt.Sprintf("\nHigh matches (>=80): %d\n", result.Insights.HighMatchJobs))
	sb.WriteString(fmt.Sprintf("Employers with warnings: %d\n", result.Insights.EmployersWithWarning))

	p.printBox("Job Recommendations", sb.String())
}

// PrintSession outputs a human-readable summary of one test session.
func (p *Printer) PrintSession(session *types.TestSession) {
	if session == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Session:   %s\n", session.ID))
	sb.WriteString(fmt.Sprintf("Status:    %s\n", session.Status))
	sb.WriteString(fmt.Sprintf("Questions: %d\n", len(session.Questions)))

	answered := 0
	for _, q := range session.Questions {
		if q.SelectedOption != nil {
			answered++
		}
	}
	sb.WriteString(fmt.Sprintf("Answered:  %d\n", answered))

	if session.StartTime != nil {
		sb.WriteString(fmt.Sprintf("Deadline:  %s\n", session.Deadline().Format("15:04:05")))
	}
	if session.Status == types.SessionCompleted {
		sb.WriteString(fmt.Sprintf("Result:    %d/%d correct (%d%%)\n",
			session.CorrectCount, len(session.Questions), session.Percentage))
	}

	p.printBox("Test Session", sb.String())
}

func appendItems(sb *strings.Builder, items []string) {
	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
	}
}
