package uploads

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) ListUploads(ctx context.Context) ([]int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/uploads/", nil)
	if err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list uploads: unexpected status %d", resp.StatusCode)
	}

	var raw uploadListResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("list uploads decode: %w", err)
	}

	ids := make([]int64, 0, len(raw.UploadedFiles))
	for _, f := range raw.UploadedFiles {
		ids = append(ids, f.ID)
	}
	return ids, nil
}

func (c *HTTPClient) FetchSummary(ctx context.Context, id int64) (*Summary, error) {
	url := fmt.Sprintf("%s/uploads/%d/summary", c.baseURL, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("summary %d: %w", id, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("summary %d: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("summary %d: unexpected status %d", id, resp.StatusCode)
	}

	var raw summaryResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("summary %d decode: %w", id, err)
	}

	beginDate, err := time.Parse(dateLayout, raw.BeginDate)
	if err != nil {
		return nil, fmt.Errorf("summary %d: parse begin_date: %w", id, err)
	}
	endDate, err := time.Parse(dateLayout, raw.EndDate)
	if err != nil {
		return nil, fmt.Errorf("summary %d: parse end_date: %w", id, err)
	}

	return &Summary{
		BeginDate:           beginDate,
		EndDate:             endDate,
		TotalSpent:          raw.TotalSpent,
		TotalTransactions:   raw.TotalTransactions,
		SpendingPerCategory: raw.SpendingPerCategory,
		SpendingPerVendor:   raw.SpendingPerVendor,
	}, nil
}

type uploadListResponse struct {
	UploadedFiles []uploadedFile `json:"uploaded_files"`
}

type uploadedFile struct {
	ID int64 `json:"id"`
}

type summaryResponse struct {
	BeginDate           string                     `json:"begin_date"`
	EndDate             string                     `json:"end_date"`
	TotalSpent          decimal.Decimal            `json:"total_spent"`
	TotalTransactions   int                        `json:"total_transactions"`
	SpendingPerCategory map[string]decimal.Decimal `json:"spending_per_category"`
	SpendingPerVendor   map[string]decimal.Decimal `json:"spending_per_vendor"`
}
