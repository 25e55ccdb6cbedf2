package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/JustinDo720/SpendingAnalysisETL/db"
	"github.com/JustinDo720/SpendingAnalysisETL/internal/pipeline"
	"github.com/JustinDo720/SpendingAnalysisETL/internal/reconcile"
	"github.com/JustinDo720/SpendingAnalysisETL/internal/repository"
	"github.com/JustinDo720/SpendingAnalysisETL/pkg/llm"
	"github.com/JustinDo720/SpendingAnalysisETL/pkg/uploads"
)

func main() {
	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	database, err := db.Connect()
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer database.Close()

	baseURL := os.Getenv("UPLOADS_BASE_URL")
	if baseURL == "" {
		baseURL = "http://127.0.0.1:8000"
	}
	source := uploads.NewHTTPClient(baseURL)

	repo := repository.NewReportRepository(database)
	engine := reconcile.NewEngine(repo)

	p := pipeline.New(source, newNarrativeClient(), engine)

	result, err := p.RunOnce(context.Background())
	if err != nil {
		log.Fatalf("report run failed: %v", err)
	}

	if result.Outcome != reconcile.OutcomeSkipped {
		invalidateCache(result)
	}

	slog.Info("report run complete",
		"outcome", string(result.Outcome),
		"begin_date", result.Report.BeginDate.Format("2006-01-02"),
		"end_date", result.Report.EndDate.Format("2006-01-02"),
		"total_spent", result.Report.TotalSpent.StringFixed(2),
		"total_transactions", result.Report.TotalTransactions,
	)
}

func newNarrativeClient() llm.NarrativeClient {
	provider := os.Getenv("NARRATIVE_PROVIDER")
	anthropicKey := os.Getenv("ANTHROPIC_API_KEY")
	openAIKey := os.Getenv("OPENAI_API_KEY")

	switch {
	case provider == "anthropic" && anthropicKey != "":
		return llm.NewAnthropicClient(anthropicKey)
	case openAIKey != "":
		return llm.NewOpenAIClient(openAIKey)
	case anthropicKey != "":
		return llm.NewAnthropicClient(anthropicKey)
	}

	slog.Warn("no narrative API key configured, reports will carry the fallback narrative")
	return nil
}

// invalidateCache drops the cached API response for the revised span so the
// read side never serves a stale report.
func invalidateCache(result *pipeline.Result) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return
	}

	cache, err := db.ConnectCache(redisURL)
	if err != nil {
		slog.Warn("error connecting to Redis, skipping cache invalidation", "error", err)
		return
	}
	defer cache.Close()

	cache.Delete(context.Background(), db.ReportCacheKey(result.Report.BeginDate, result.Report.EndDate))
}
