package app

import (
	"context"

	"menshub/internal/config"
	"menshub/internal/db"
	"menshub/internal/handlers"
	"menshub/internal/logger"
	"menshub/internal/repository"
	"menshub/internal/routes"
	"menshub/internal/services"
	"menshub/internal/socialapi"

	"github.com/gorilla/mux"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

func InitApp(cfg *config.Config) (*mux.Router, error) {
	conn, err := db.NewPostgresConnection(cfg)
	if err != nil {
		return nil, err
	}

	// Repositories
	userRepo := repository.NewUserRepository(conn)
	articleRepo := repository.NewArticleRepo(conn)
	adRepo := repository.NewAdRepo(conn)
	sourceRepo := repository.NewImportSourceRepo(conn)
	keywordRepo := repository.NewKeywordRepo(conn)
	ruleRepo := repository.NewAutomationRuleRepo(conn)
	platformRepo := repository.NewPlatformRepo(conn)
	queueRepo := repository.NewSocialQueueRepo(conn)
	postRepo := repository.NewSocialPostRepo(conn)
	statsRepo := repository.NewStatsRepo(conn)

	// Services
	authService := services.NewAuthService(userRepo, cfg)
	articleService := services.NewArticleService(articleRepo)
	adService := services.NewAdService(adRepo)
	importer := services.NewImporter(sourceRepo, articleRepo)
	keywordLinker := services.NewKeywordLinker(keywordRepo, articleRepo)
	rewriter := services.NewRewriter(articleRepo, cfg)
	unsplash := services.NewUnsplashService(cfg.UnsplashKey)
	tracking := services.NewTrackingService(postRepo, cfg.SiteURL, cfg.TrackingEndpoint)

	manager := socialapi.NewManager(platformRepo)
	automation := services.NewAutomationService(ruleRepo)
	detector := services.NewDetector(articleRepo, postRepo, queueRepo, platformRepo, automation, cfg.HighPriorityCategorySet())
	queue := services.NewQueue(queueRepo, postRepo, articleRepo, manager, tracking)
	syncer := services.NewEngagementSyncer(postRepo, manager)

	if cfg.ScheduleSeedFile != "" {
		if err := services.SeedSchedule(context.Background(), platformRepo, cfg.ScheduleSeedFile); err != nil {
			logger.Log.Warn("schedule seed failed", zap.Error(err), zap.String("file", cfg.ScheduleSeedFile))
		}
	}

	if cfg.AutopostEnabled {
		detector.StartMonitoring(cfg.DetectorInterval())
		queue.StartProcessing(cfg.QueueInterval())
		logger.Log.Info("autoposting enabled",
			zap.Duration("detector_interval", cfg.DetectorInterval()),
			zap.Duration("queue_interval", cfg.QueueInterval()))
	}

	startMaintenanceJobs(queue, syncer, importer)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, cfg.JWTSecret)
	articleHandler := handlers.NewArticleHandler(articleService, keywordLinker)
	adHandler := handlers.NewAdHandler(adService)
	importerHandler := handlers.NewImporterHandler(importer, sourceRepo)
	keywordHandler := handlers.NewKeywordHandler(keywordRepo)
	mediaHandler := handlers.NewMediaHandler(rewriter, unsplash)
	statsHandler := handlers.NewStatsHandler(statsRepo)
	socialHandler := handlers.NewSocialHandler(
		detector, queue, automation, syncer, manager,
		ruleRepo, platformRepo, articleRepo,
		cfg.DetectorInterval(), cfg.QueueInterval(),
	)

	router := mux.NewRouter()
	routes.InitRoutes(router, cfg.JWTSecret,
		authHandler, articleHandler, adHandler,
		importerHandler, keywordHandler, mediaHandler, statsHandler, socialHandler)

	return router, nil
}

// startMaintenanceJobs wires the recurring background work: nightly queue
// cleanup, hourly engagement refresh and a feed import sweep every 6 hours.
func startMaintenanceJobs(queue *services.Queue, syncer *services.EngagementSyncer, importer *services.Importer) {
	c := cron.New()

	_, _ = c.AddFunc("30 3 * * *", func() {
		removed, err := queue.Cleanup(context.Background(), 7)
		if err != nil {
			logger.Log.Error("nightly queue cleanup failed", zap.Error(err))
			return
		}
		logger.Log.Info("nightly queue cleanup done", zap.Int64("removed", removed))
	})

	_, _ = c.AddFunc("@hourly", func() {
		updated, err := syncer.Sync(context.Background())
		if err != nil {
			logger.Log.Error("engagement sync failed", zap.Error(err))
			return
		}
		logger.Log.Info("engagement sync done", zap.Int("updated", updated))
	})

	_, _ = c.AddFunc("0 */6 * * *", func() {
		reports, err := importer.RunAll(context.Background())
		if err != nil {
			logger.Log.Error("scheduled import failed", zap.Error(err))
			return
		}
		logger.Log.Info("scheduled import done", zap.Int("sources", len(reports)))
	})

	c.Start()
}
