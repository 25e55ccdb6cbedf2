package llm

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FallbackNarrative replaces the generated text whenever the provider fails
// or times out. Narrative generation is never allowed to fail a report run.
const FallbackNarrative = "Error generating financial summary with AI."

const narrativeSystemPrompt = `You are a financial analyst. Given an aggregated spending report, write a short narrative summary for a business stakeholder.

Rules:
- One or two paragraphs of plain prose, no markdown, no lists
- Lead with total spend and transaction count over the reporting period
- Call out the largest spending categories and top vendors by name
- Mention notable period-over-period changes as percentages
- Neutral tone, no advice, no speculation beyond the numbers given

Respond with the narrative text only, no other output.`

// ReportInput carries the aggregated report fields the prompt is built from.
type ReportInput struct {
	BeginDate           time.Time
	EndDate             time.Time
	TotalSpent          decimal.Decimal
	TotalTransactions   int
	SpendingPerCategory []SpendLine
	SpendingPerVendor   []SpendLine
	TopVendors          []SpendLine
	PctChangeCategory   map[string]decimal.Decimal
	PctChangeVendor     map[string]decimal.Decimal
	AvgCategory         map[string]decimal.Decimal
	AvgVendor           map[string]decimal.Decimal
}

type SpendLine struct {
	Name   string
	Amount decimal.Decimal
}

type NarrativeClient interface {
	GenerateNarrative(ctx context.Context, input ReportInput) (string, error)
}

func formatReportPrompt(input ReportInput) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Reporting period: %s to %s\n",
		input.BeginDate.Format("2006-01-02"), input.EndDate.Format("2006-01-02"))
	fmt.Fprintf(&sb, "Total spent: %s\n", input.TotalSpent.StringFixed(2))
	fmt.Fprintf(&sb, "Total transactions: %d\n\n", input.TotalTransactions)

	writeSpendLines(&sb, "Spending per category", input.SpendingPerCategory)
	writeSpendLines(&sb, "Top vendors", input.TopVendors)
	writeChangeLines(&sb, "Category change vs prior period", input.PctChangeCategory)
	writeChangeLines(&sb, "Vendor change vs prior period", input.PctChangeVendor)
	writeChangeLines(&sb, "Category average per period", input.AvgCategory)
	writeChangeLines(&sb, "Vendor average per period", input.AvgVendor)

	return sb.String()
}

func writeSpendLines(sb *strings.Builder, title string, lines []SpendLine) {
	if len(lines) == 0 {
		return
	}
	fmt.Fprintf(sb, "%s:\n", title)
	for _, line := range lines {
		fmt.Fprintf(sb, "- %s: %s\n", line.Name, line.Amount.StringFixed(2))
	}
	sb.WriteString("\n")
}

// writeChangeLines renders a map sorted by key so the prompt is stable
// between runs with the same report.
func writeChangeLines(sb *strings.Builder, title string, values map[string]decimal.Decimal) {
	if len(values) == 0 {
		return
	}
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintf(sb, "%s:\n", title)
	for _, name := range names {
		fmt.Fprintf(sb, "- %s: %s\n", name, values[name].StringFixed(2))
	}
	sb.WriteString("\n")
}
