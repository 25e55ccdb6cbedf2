package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/JustinDo720/SpendingAnalysisETL/db"
	"github.com/JustinDo720/SpendingAnalysisETL/internal/handler"
	"github.com/JustinDo720/SpendingAnalysisETL/internal/repository"
)

func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	database, err := db.Connect()
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer database.Close()

	var cache *db.ReportCache
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		cache, err = db.ConnectCache(redisURL)
		if err != nil {
			slog.Warn("error connecting to Redis, serving without cache", "error", err)
			cache = nil
		} else {
			defer cache.Close()
		}
	}

	reportRepo := repository.NewReportRepository(database)
	reportHandler := handler.NewReportHandler(reportRepo, cache)

	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}

	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		allowedOrigins = append(allowedOrigins, frontendURL)
	}

	slog.Info("AllowOrigins URL:", "urls", allowedOrigins)

	r.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	r.GET("/reports/dates", reportHandler.GetDateRanges)
	r.POST("/reports/summary", reportHandler.GetRangeSummary)
	r.GET("/health", reportHandler.GetHealth)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	err = r.Run(":" + port)
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}
