package report

import (
	"errors"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/JustinDo720/SpendingAnalysisETL/internal/model"
)

// ErrNoSummaries is returned when a run yields zero usable upload summaries.
// There is no date span or total to report, so the run must fail rather than
// persist an empty record.
var ErrNoSummaries = errors.New("no usable upload summaries")

const topVendorCount = 5

// Aggregate folds upload summaries into unified totals and the observed date
// span. Nil entries mark uploads whose summary could not be fetched; they are
// skipped. Per-key sums round each term to 2 decimal places as it is added,
// the grand total rounds once at the end.
//
// Trend fields (pct change, averages) are left empty; they come from the
// series builder over the same input.
func Aggregate(summaries []*model.RawSummary) (*model.AggregateReport, error) {
	var (
		totalSpent        decimal.Decimal
		totalTransactions int
		usable            int
	)
	categoryTotals := map[string]decimal.Decimal{}
	vendorTotals := map[string]decimal.Decimal{}

	report := &model.AggregateReport{}

	for _, s := range summaries {
		if s == nil {
			continue
		}

		if usable == 0 || s.BeginDate.Before(report.BeginDate) {
			report.BeginDate = s.BeginDate
		}
		if usable == 0 || s.EndDate.After(report.EndDate) {
			report.EndDate = s.EndDate
		}
		usable++

		totalSpent = totalSpent.Add(s.TotalSpent)
		totalTransactions += s.TotalTransactions

		for name, amount := range s.SpendingPerCategory {
			categoryTotals[name] = categoryTotals[name].Add(amount.Round(2))
		}
		for name, amount := range s.SpendingPerVendor {
			vendorTotals[name] = vendorTotals[name].Add(amount.Round(2))
		}
	}

	if usable == 0 {
		return nil, ErrNoSummaries
	}

	vendorSpend := rankAscending(vendorTotals)

	report.TotalSpent = totalSpent.Round(2)
	report.TotalTransactions = totalTransactions
	report.UniqueCategories = sortedKeys(categoryTotals)
	report.UniqueVendors = sortedKeys(vendorTotals)
	report.SpendingPerCategory = rankAscending(categoryTotals)
	report.SpendingPerVendor = vendorSpend
	report.TopVendors = topSpenders(vendorSpend, topVendorCount)

	return report, nil
}

func sortedKeys(totals map[string]decimal.Decimal) []string {
	keys := make([]string, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// rankAscending orders spend entries smallest amount first; ties break on
// name so the ordering is deterministic.
func rankAscending(totals map[string]decimal.Decimal) []model.SpendEntry {
	entries := make([]model.SpendEntry, 0, len(totals))
	for name, amount := range totals {
		entries = append(entries, model.SpendEntry{Name: name, Amount: amount})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Amount.Equal(entries[j].Amount) {
			return entries[i].Name < entries[j].Name
		}
		return entries[i].Amount.LessThan(entries[j].Amount)
	})
	return entries
}

// topSpenders returns the n highest entries, largest first.
func topSpenders(ascending []model.SpendEntry, n int) []model.SpendEntry {
	top := make([]model.SpendEntry, 0, n)
	for i := len(ascending) - 1; i >= 0 && len(top) < n; i-- {
		top = append(top, ascending[i])
	}
	return top
}
