package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JustinDo720/SpendingAnalysisETL/db"
	"github.com/JustinDo720/SpendingAnalysisETL/internal/model"
)

const dateLayout = "2006-01-02"

type ReportStore interface {
	GetDateRanges() ([]model.DateRange, error)
	GetByRange(beginDate, endDate time.Time) (*model.StoredReport, error)
}

type ReportHandler struct {
	repository ReportStore
	cache      *db.ReportCache
}

// NewReportHandler builds the read-side handler. cache may be nil; lookups
// then always hit the database.
func NewReportHandler(repository ReportStore, cache *db.ReportCache) *ReportHandler {
	return &ReportHandler{repository: repository, cache: cache}
}

type DateRangeResponse struct {
	BeginDate string `json:"begin_date"`
	EndDate   string `json:"end_date"`
}

type DateRangesResponse struct {
	Dates []DateRangeResponse `json:"dates"`
}

func (h *ReportHandler) GetDateRanges(c *gin.Context) {
	ranges, err := h.repository.GetDateRanges()
	if err != nil {
		slog.Error("error fetching date ranges", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	res := DateRangesResponse{Dates: []DateRangeResponse{}}
	for _, r := range ranges {
		res.Dates = append(res.Dates, DateRangeResponse{
			BeginDate: r.BeginDate.Format(dateLayout),
			EndDate:   r.EndDate.Format(dateLayout),
		})
	}

	c.JSON(http.StatusOK, res)
}

type RangeSummaryRequest struct {
	BeginDate string `json:"begin_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

type StoredReportResponse struct {
	ID        string          `json:"id"`
	BeginDate string          `json:"begin_date"`
	EndDate   string          `json:"end_date"`
	Details   json.RawMessage `json:"details"`
	Narrative string          `json:"narrative"`
	CreatedAt string          `json:"created_at"`
}

func toStoredReportResponse(s model.StoredReport) StoredReportResponse {
	return StoredReportResponse{
		ID:        s.ID,
		BeginDate: s.BeginDate.Format(dateLayout),
		EndDate:   s.EndDate.Format(dateLayout),
		Details:   json.RawMessage(s.Details),
		Narrative: s.Narrative,
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
	}
}

func (h *ReportHandler) GetRangeSummary(c *gin.Context) {
	var req RangeSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "begin_date and end_date are required"})
		return
	}

	beginDate, err := time.Parse(dateLayout, req.BeginDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "begin_date must be a YYYY-MM-DD date"})
		return
	}
	endDate, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_date must be a YYYY-MM-DD date"})
		return
	}

	cacheKey := db.ReportCacheKey(beginDate, endDate)
	if h.cache != nil {
		if cached, ok := h.cache.Get(c.Request.Context(), cacheKey); ok {
			c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(cached))
			return
		}
	}

	stored, err := h.repository.GetByRange(beginDate, endDate)
	if err != nil {
		slog.Error("error fetching report", "begin_date", req.BeginDate, "end_date", req.EndDate, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if stored == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No financial report found for this date range"})
		return
	}

	res := toStoredReportResponse(*stored)

	if h.cache != nil {
		if payload, err := json.Marshal(res); err == nil {
			h.cache.Set(c.Request.Context(), cacheKey, string(payload))
		}
	}

	c.JSON(http.StatusOK, res)
}

func (h *ReportHandler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
