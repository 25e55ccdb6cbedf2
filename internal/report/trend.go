package report

import "github.com/shopspring/decimal"

// PctChange returns, per column, the fractional change of the last row
// against the row before it, rounded to 2 decimal places. With fewer than
// two rows, or a zero prior value, the change is 0 rather than a division
// fault.
func PctChange(s Series) map[string]decimal.Decimal {
	changes := make(map[string]decimal.Decimal, len(s.Columns))
	for i, name := range s.Columns {
		changes[name] = decimal.Zero
		if len(s.Rows) < 2 {
			continue
		}
		last := s.Rows[len(s.Rows)-1].Values[i]
		prior := s.Rows[len(s.Rows)-2].Values[i]
		if prior.IsZero() {
			continue
		}
		changes[name] = last.Sub(prior).Div(prior).Round(2)
	}
	return changes
}

// Averages returns the arithmetic mean of every column across all rows,
// zero-filled cells included, rounded to 2 decimal places.
func Averages(s Series) map[string]decimal.Decimal {
	avgs := make(map[string]decimal.Decimal, len(s.Columns))
	if len(s.Rows) == 0 {
		for _, name := range s.Columns {
			avgs[name] = decimal.Zero
		}
		return avgs
	}

	rowCount := decimal.NewFromInt(int64(len(s.Rows)))
	for i, name := range s.Columns {
		sum := decimal.Zero
		for _, row := range s.Rows {
			sum = sum.Add(row.Values[i])
		}
		avgs[name] = sum.Div(rowCount).Round(2)
	}
	return avgs
}
