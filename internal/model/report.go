package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawSummary is one upload's pre-computed financial summary as fetched from
// the uploads service. It is read-only input; the pipeline never mutates it.
type RawSummary struct {
	BeginDate           time.Time
	EndDate             time.Time
	TotalSpent          decimal.Decimal
	TotalTransactions   int
	SpendingPerCategory map[string]decimal.Decimal
	SpendingPerVendor   map[string]decimal.Decimal
}

// SpendEntry pairs a category or vendor name with its accumulated amount.
// Ranked breakdowns serialize as arrays of these so ordering survives JSON.
type SpendEntry struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// AggregateReport is the result of one full reporting pass over every usable
// upload summary.
type AggregateReport struct {
	TotalSpent          decimal.Decimal
	TotalTransactions   int
	UniqueCategories    []string
	UniqueVendors       []string
	SpendingPerCategory []SpendEntry
	SpendingPerVendor   []SpendEntry
	TopVendors          []SpendEntry
	PctChangeCategory   map[string]decimal.Decimal
	PctChangeVendor     map[string]decimal.Decimal
	AvgCategory         map[string]decimal.Decimal
	AvgVendor           map[string]decimal.Decimal
	BeginDate           time.Time
	EndDate             time.Time
	Narrative           string
}

// ReportDetails is the persisted shape of an AggregateReport: everything but
// the date span (stored as columns) and the narrative (stored alongside).
type ReportDetails struct {
	TotalSpent          decimal.Decimal            `json:"total_spent"`
	TotalTransactions   int                        `json:"total_transactions"`
	UniqueCategories    []string                   `json:"unique_categories"`
	UniqueVendors       []string                   `json:"unique_vendors"`
	SpendingPerCategory []SpendEntry               `json:"spending_per_category"`
	SpendingPerVendor   []SpendEntry               `json:"spending_per_vendor"`
	TopVendors          []SpendEntry               `json:"top_vendors"`
	PctChangeCategory   map[string]decimal.Decimal `json:"pct_change_category"`
	PctChangeVendor     map[string]decimal.Decimal `json:"pct_change_vendor"`
	AvgCategory         map[string]decimal.Decimal `json:"avg_category"`
	AvgVendor           map[string]decimal.Decimal `json:"avg_vendor"`
}

func (r *AggregateReport) Details() ReportDetails {
	return ReportDetails{
		TotalSpent:          r.TotalSpent,
		TotalTransactions:   r.TotalTransactions,
		UniqueCategories:    r.UniqueCategories,
		UniqueVendors:       r.UniqueVendors,
		SpendingPerCategory: r.SpendingPerCategory,
		SpendingPerVendor:   r.SpendingPerVendor,
		TopVendors:          r.TopVendors,
		PctChangeCategory:   r.PctChangeCategory,
		PctChangeVendor:     r.PctChangeVendor,
		AvgCategory:         r.AvgCategory,
		AvgVendor:           r.AvgVendor,
	}
}

// StoredReport is the persisted report row, keyed by its exact date span.
// At most one row exists per (begin_date, end_date) pair.
type StoredReport struct {
	ID        string
	BeginDate time.Time
	EndDate   time.Time
	Details   []byte
	Narrative string
	CreatedAt time.Time
}

type DateRange struct {
	BeginDate time.Time
	EndDate   time.Time
}
