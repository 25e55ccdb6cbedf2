package uploads

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Summary is one upload's financial summary as served by the uploads API.
type Summary struct {
	BeginDate           time.Time
	EndDate             time.Time
	TotalSpent          decimal.Decimal
	TotalTransactions   int
	SpendingPerCategory map[string]decimal.Decimal
	SpendingPerVendor   map[string]decimal.Decimal
}

type Client interface {
	ListUploads(ctx context.Context) ([]int64, error)
	FetchSummary(ctx context.Context, id int64) (*Summary, error)
}
