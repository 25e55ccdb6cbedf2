package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/JustinDo720/SpendingAnalysisETL/internal/model"
	"github.com/JustinDo720/SpendingAnalysisETL/internal/reconcile"
	"github.com/JustinDo720/SpendingAnalysisETL/internal/report"
	"github.com/JustinDo720/SpendingAnalysisETL/pkg/llm"
	"github.com/JustinDo720/SpendingAnalysisETL/pkg/uploads"
)

const (
	fetchConcurrency = 8
	narrativeTimeout = 60 * time.Second
)

// Pipeline runs one fetch-aggregate-reconcile pass. It is built once at
// process start with its collaborators and invoked per scheduler tick; it
// holds no state between runs.
type Pipeline struct {
	source    uploads.Client
	narrative llm.NarrativeClient
	engine    *reconcile.Engine
}

// New wires a pipeline. narrative may be nil when no provider is configured;
// every report then carries the fallback narrative.
func New(source uploads.Client, narrative llm.NarrativeClient, engine *reconcile.Engine) *Pipeline {
	return &Pipeline{source: source, narrative: narrative, engine: engine}
}

// Result is what one pass produced. Report is set whenever aggregation
// succeeded, even if the reconciliation write failed afterwards.
type Result struct {
	Report  *model.AggregateReport
	Outcome reconcile.Outcome
}

func (p *Pipeline) RunOnce(ctx context.Context) (*Result, error) {
	ids, err := p.source.ListUploads(ctx)
	if err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}

	summaries := p.fetchSummaries(ctx, ids)

	rpt, err := report.Aggregate(summaries)
	if err != nil {
		return nil, fmt.Errorf("aggregate summaries: %w", err)
	}

	categorySeries := report.CategorySeries(summaries)
	vendorSeries := report.VendorSeries(summaries)
	rpt.PctChangeCategory = report.PctChange(categorySeries)
	rpt.AvgCategory = report.Averages(categorySeries)
	rpt.PctChangeVendor = report.PctChange(vendorSeries)
	rpt.AvgVendor = report.Averages(vendorSeries)

	rpt.Narrative = p.generateNarrative(ctx, rpt)

	outcome, err := p.engine.Reconcile(rpt)
	if err != nil {
		return &Result{Report: rpt}, fmt.Errorf("reconcile report: %w", err)
	}

	return &Result{Report: rpt, Outcome: outcome}, nil
}

// fetchSummaries retrieves every upload's summary concurrently, keeping the
// listing order. A failed fetch leaves a nil slot; downstream skips it.
func (p *Pipeline) fetchSummaries(ctx context.Context, ids []int64) []*model.RawSummary {
	summaries := make([]*model.RawSummary, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for i, id := range ids {
		g.Go(func() error {
			summary, err := p.source.FetchSummary(gctx, id)
			if err != nil {
				slog.Warn("skipping upload summary", "upload_id", id, "error", err)
				return nil
			}
			summaries[i] = toRawSummary(summary)
			return nil
		})
	}
	// Fetch errors are non-fatal and never returned through the group.
	_ = g.Wait()

	return summaries
}

func (p *Pipeline) generateNarrative(ctx context.Context, rpt *model.AggregateReport) string {
	if p.narrative == nil {
		return llm.FallbackNarrative
	}

	nctx, cancel := context.WithTimeout(ctx, narrativeTimeout)
	defer cancel()

	text, err := p.narrative.GenerateNarrative(nctx, toNarrativeInput(rpt))
	if err != nil {
		slog.Warn("narrative generation failed, using fallback", "error", err)
		return llm.FallbackNarrative
	}
	return text
}

func toRawSummary(s *uploads.Summary) *model.RawSummary {
	return &model.RawSummary{
		BeginDate:           s.BeginDate,
		EndDate:             s.EndDate,
		TotalSpent:          s.TotalSpent,
		TotalTransactions:   s.TotalTransactions,
		SpendingPerCategory: s.SpendingPerCategory,
		SpendingPerVendor:   s.SpendingPerVendor,
	}
}

func toNarrativeInput(rpt *model.AggregateReport) llm.ReportInput {
	return llm.ReportInput{
		BeginDate:           rpt.BeginDate,
		EndDate:             rpt.EndDate,
		TotalSpent:          rpt.TotalSpent,
		TotalTransactions:   rpt.TotalTransactions,
		SpendingPerCategory: toSpendLines(rpt.SpendingPerCategory),
		SpendingPerVendor:   toSpendLines(rpt.SpendingPerVendor),
		TopVendors:          toSpendLines(rpt.TopVendors),
		PctChangeCategory:   rpt.PctChangeCategory,
		PctChangeVendor:     rpt.PctChangeVendor,
		AvgCategory:         rpt.AvgCategory,
		AvgVendor:           rpt.AvgVendor,
	}
}

func toSpendLines(entries []model.SpendEntry) []llm.SpendLine {
	lines := make([]llm.SpendLine, len(entries))
	for i, e := range entries {
		lines[i] = llm.SpendLine{Name: e.Name, Amount: e.Amount}
	}
	return lines
}
