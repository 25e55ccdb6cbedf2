package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/JustinDo720/SpendingAnalysisETL/internal/model"
)

// Series is a date-indexed table of amounts: one row per upload summary in
// fetch order, one column per category or vendor name seen anywhere in the
// input. Cells for names an upload never mentioned are zero, so uploads with
// disjoint key sets line up without shifting earlier rows.
type Series struct {
	Columns []string
	Rows    []SeriesRow
}

// SeriesRow is one upload's amounts, labelled with that upload's end date
// and aligned with the parent series' columns.
type SeriesRow struct {
	Date   time.Time
	Values []decimal.Decimal
}

// CategorySeries arranges per-upload category spending into a zero-filled
// table. Summaries that are nil or carry no category data contribute no row.
func CategorySeries(summaries []*model.RawSummary) Series {
	return buildSeries(summaries, func(s *model.RawSummary) map[string]decimal.Decimal {
		return s.SpendingPerCategory
	})
}

// VendorSeries is CategorySeries over per-vendor spending.
func VendorSeries(summaries []*model.RawSummary) Series {
	return buildSeries(summaries, func(s *model.RawSummary) map[string]decimal.Decimal {
		return s.SpendingPerVendor
	})
}

func buildSeries(summaries []*model.RawSummary, pick func(*model.RawSummary) map[string]decimal.Decimal) Series {
	columnSet := map[string]struct{}{}
	for _, s := range summaries {
		if s == nil {
			continue
		}
		for name := range pick(s) {
			columnSet[name] = struct{}{}
		}
	}

	columns := make([]string, 0, len(columnSet))
	for name := range columnSet {
		columns = append(columns, name)
	}
	sort.Strings(columns)

	var rows []SeriesRow
	for _, s := range summaries {
		if s == nil || len(pick(s)) == 0 {
			continue
		}
		values := make([]decimal.Decimal, len(columns))
		for i, name := range columns {
			values[i] = pick(s)[name]
		}
		rows = append(rows, SeriesRow{Date: s.EndDate, Values: values})
	}

	return Series{Columns: columns, Rows: rows}
}
