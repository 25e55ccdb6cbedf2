package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"

	"github.com/JustinDo720/SpendingAnalysisETL/internal/model"
)

type fakeReportStore struct {
	ranges []model.DateRange
	stored *model.StoredReport
	err    error
}

func (f *fakeReportStore) GetDateRanges() ([]model.DateRange, error) {
	return f.ranges, f.err
}

func (f *fakeReportStore) GetByRange(beginDate, endDate time.Time) (*model.StoredReport, error) {
	if f.err != nil {
		return nil, f.err
	}
	s := f.stored
	if s == nil || !s.BeginDate.Equal(beginDate) || !s.EndDate.Equal(endDate) {
		return nil, nil
	}
	return s, nil
}

func newTestReportRouter(store ReportStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewReportHandler(store, nil)
	r.GET("/reports/dates", h.GetDateRanges)
	r.POST("/reports/summary", h.GetRangeSummary)
	r.GET("/health", h.GetHealth)
	return r
}

func date(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func TestGetDateRanges(t *testing.T) {
	store := &fakeReportStore{
		ranges: []model.DateRange{
			{BeginDate: date("2024-01-01"), EndDate: date("2024-02-28")},
			{BeginDate: date("2024-03-01"), EndDate: date("2024-03-31")},
		},
	}

	r := newTestReportRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/reports/dates", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res DateRangesResponse
	json.Unmarshal(w.Body.Bytes(), &res)

	assert.Equal(t, 2, len(res.Dates))
	assert.Equal(t, "2024-01-01", res.Dates[0].BeginDate)
	assert.Equal(t, "2024-02-28", res.Dates[0].EndDate)
}

func TestGetDateRanges_Empty(t *testing.T) {
	r := newTestReportRouter(&fakeReportStore{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/reports/dates", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res DateRangesResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, 0, len(res.Dates))
}

func TestGetDateRanges_DBError(t *testing.T) {
	r := newTestReportRouter(&fakeReportStore{err: errors.New("DB down")})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/reports/dates", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetRangeSummary(t *testing.T) {
	details, _ := json.Marshal(model.ReportDetails{TotalTransactions: 8})
	store := &fakeReportStore{
		stored: &model.StoredReport{
			ID:        "report-1",
			BeginDate: date("2024-01-01"),
			EndDate:   date("2024-02-28"),
			Details:   details,
			Narrative: "spending held steady",
			CreatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		},
	}

	r := newTestReportRouter(store)

	body := strings.NewReader(`{"begin_date":"2024-01-01","end_date":"2024-02-28"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/reports/summary", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res StoredReportResponse
	json.Unmarshal(w.Body.Bytes(), &res)

	assert.Equal(t, "report-1", res.ID)
	assert.Equal(t, "2024-01-01", res.BeginDate)
	assert.Equal(t, "2024-02-28", res.EndDate)
	assert.Equal(t, "spending held steady", res.Narrative)

	var decoded model.ReportDetails
	json.Unmarshal(res.Details, &decoded)
	assert.Equal(t, 8, decoded.TotalTransactions)
}

func TestGetRangeSummary_NotFound(t *testing.T) {
	r := newTestReportRouter(&fakeReportStore{})

	body := strings.NewReader(`{"begin_date":"2024-01-01","end_date":"2024-02-28"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/reports/summary", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetRangeSummary_BadDate(t *testing.T) {
	r := newTestReportRouter(&fakeReportStore{})

	cases := []string{
		`{"begin_date":"01/15/2024","end_date":"2024-02-28"}`,
		`{"begin_date":"2024-01-01","end_date":"Feb 28 2024"}`,
		`{"begin_date":"2024-01-01"}`,
		`{}`,
	}

	for _, body := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/reports/summary", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
}

func TestGetHealth(t *testing.T) {
	r := newTestReportRouter(&fakeReportStore{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
