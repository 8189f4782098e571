package main

import (
	"net/http"

	_ "menshub/docs"
	"menshub/internal/app"
	"menshub/internal/config"
	"menshub/internal/logger"

	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// @title Mens Hub Admin API
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @version 1.0
// @description Publishing admin backend: articles, ads, imports, keyword links and social autoposting.
// @BasePath /
func main() {
	cfg, err := config.LoadConfig()
	logger.InitLogger()
	defer logger.Log.Sync()

	if err != nil {
		logger.Log.Fatal("failed to load config", zap.Error(err))
	}
	warnings, err := cfg.Validate()
	if err != nil {
		logger.Log.Fatal("config is unusable", zap.Error(err))
	}
	for _, warn := range warnings {
		logger.Log.Warn("config warning", zap.String("warning", warn))
	}

	router, err := app.InitApp(cfg)
	if err != nil {
		logger.Log.Fatal("failed to init app", zap.Error(err))
	}

	logger.Log.Info("server starting",
		zap.String("port", cfg.Port),
		zap.String("db", cfg.GetDSNSafe()))

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
	})

	router.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	if err := http.ListenAndServe(":"+cfg.Port, corsMiddleware.Handler(router)); err != nil {
		logger.Log.Fatal("server stopped", zap.Error(err))
	}
}
