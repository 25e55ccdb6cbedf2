package report

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/JustinDo720/SpendingAnalysisETL/internal/model"
)

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func amounts(pairs map[string]float64) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(pairs))
	for k, v := range pairs {
		out[k] = decimal.NewFromFloat(v)
	}
	return out
}

func januarySummary() *model.RawSummary {
	return &model.RawSummary{
		BeginDate:           date("2024-01-01"),
		EndDate:             date("2024-01-31"),
		TotalSpent:          decimal.NewFromInt(100),
		TotalTransactions:   5,
		SpendingPerCategory: amounts(map[string]float64{"food": 100}),
		SpendingPerVendor:   amounts(map[string]float64{"Costco": 100}),
	}
}

func februarySummary() *model.RawSummary {
	return &model.RawSummary{
		BeginDate:           date("2024-02-01"),
		EndDate:             date("2024-02-28"),
		TotalSpent:          decimal.NewFromInt(50),
		TotalTransactions:   3,
		SpendingPerCategory: amounts(map[string]float64{"food": 50}),
		SpendingPerVendor:   amounts(map[string]float64{"Aldi": 50}),
	}
}

func TestAggregateTwoUploads(t *testing.T) {
	report, err := Aggregate([]*model.RawSummary{januarySummary(), februarySummary()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got, want := report.TotalSpent.StringFixed(2), "150.00"; got != want {
		t.Errorf("TotalSpent = %s, want %s", got, want)
	}
	if report.TotalTransactions != 8 {
		t.Errorf("TotalTransactions = %d, want 8", report.TotalTransactions)
	}
	if !report.BeginDate.Equal(date("2024-01-01")) {
		t.Errorf("BeginDate = %v, want 2024-01-01", report.BeginDate)
	}
	if !report.EndDate.Equal(date("2024-02-28")) {
		t.Errorf("EndDate = %v, want 2024-02-28", report.EndDate)
	}

	if len(report.SpendingPerCategory) != 1 {
		t.Fatalf("SpendingPerCategory has %d entries, want 1", len(report.SpendingPerCategory))
	}
	food := report.SpendingPerCategory[0]
	if food.Name != "food" || food.Amount.StringFixed(2) != "150.00" {
		t.Errorf("category total = %s %s, want food 150.00", food.Name, food.Amount)
	}
}

func TestAggregateOrderIndependent(t *testing.T) {
	forward, err := Aggregate([]*model.RawSummary{januarySummary(), februarySummary()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	reversed, err := Aggregate([]*model.RawSummary{februarySummary(), januarySummary()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !forward.TotalSpent.Equal(reversed.TotalSpent) {
		t.Errorf("TotalSpent differs by order: %s vs %s", forward.TotalSpent, reversed.TotalSpent)
	}
	if !forward.BeginDate.Equal(reversed.BeginDate) || !forward.EndDate.Equal(reversed.EndDate) {
		t.Errorf("date span differs by order")
	}
}

func TestAggregateSkipsFailedFetches(t *testing.T) {
	report, err := Aggregate([]*model.RawSummary{nil, januarySummary(), nil})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.TotalTransactions != 5 {
		t.Errorf("TotalTransactions = %d, want 5", report.TotalTransactions)
	}
}

func TestAggregateEmptyInput(t *testing.T) {
	cases := [][]*model.RawSummary{
		nil,
		{},
		{nil, nil},
	}
	for _, summaries := range cases {
		_, err := Aggregate(summaries)
		if !errors.Is(err, ErrNoSummaries) {
			t.Errorf("Aggregate(%v) error = %v, want ErrNoSummaries", summaries, err)
		}
	}
}

func TestAggregateUniqueKeysAndRanking(t *testing.T) {
	first := januarySummary()
	first.SpendingPerVendor = amounts(map[string]float64{
		"Costco": 40, "Aldi": 10, "Target": 25, "Walmart": 15, "CVS": 5, "Wegmans": 5,
	})
	second := februarySummary()
	second.SpendingPerVendor = amounts(map[string]float64{"Costco": 10})

	report, err := Aggregate([]*model.RawSummary{first, second})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantVendors := []string{"Aldi", "CVS", "Costco", "Target", "Walmart", "Wegmans"}
	if len(report.UniqueVendors) != len(wantVendors) {
		t.Fatalf("UniqueVendors = %v, want %v", report.UniqueVendors, wantVendors)
	}
	for i, v := range wantVendors {
		if report.UniqueVendors[i] != v {
			t.Errorf("UniqueVendors[%d] = %s, want %s", i, report.UniqueVendors[i], v)
		}
	}

	// Ascending by amount: CVS 5, Wegmans 5 (name tiebreak), Aldi 10, ...
	if report.SpendingPerVendor[0].Name != "CVS" || report.SpendingPerVendor[1].Name != "Wegmans" {
		t.Errorf("ascending order wrong: %v", report.SpendingPerVendor)
	}

	if len(report.TopVendors) != 5 {
		t.Fatalf("TopVendors has %d entries, want 5", len(report.TopVendors))
	}
	if report.TopVendors[0].Name != "Costco" || report.TopVendors[0].Amount.StringFixed(2) != "50.00" {
		t.Errorf("TopVendors[0] = %v, want Costco 50.00", report.TopVendors[0])
	}
}

func TestAggregatePerTermRounding(t *testing.T) {
	first := januarySummary()
	first.SpendingPerCategory = map[string]decimal.Decimal{"food": decimal.RequireFromString("10.005")}
	second := februarySummary()
	second.SpendingPerCategory = map[string]decimal.Decimal{"food": decimal.RequireFromString("10.005")}

	report, err := Aggregate([]*model.RawSummary{first, second})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Each term rounds before it is added: 10.01 + 10.01, not round(20.01).
	if got := report.SpendingPerCategory[0].Amount.StringFixed(2); got != "20.02" {
		t.Errorf("food total = %s, want 20.02", got)
	}
}
