package routes

import (
	"menshub/internal/handlers"
	"menshub/internal/middleware"

	"github.com/gorilla/mux"
)

func InitRoutes(
	router *mux.Router,
	jwtSecret string,
	authHandler *handlers.AuthHandler,
	articleHandler *handlers.ArticleHandler,
	adHandler *handlers.AdHandler,
	importerHandler *handlers.ImporterHandler,
	keywordHandler *handlers.KeywordHandler,
	mediaHandler *handlers.MediaHandler,
	statsHandler *handlers.StatsHandler,
	socialHandler *handlers.SocialHandler,
) {
	router.Use(middleware.Recoverer)
	router.Use(middleware.Logging)

	api := router.PathPrefix("/api").Subrouter()

	// --- public ---
	api.HandleFunc("/login", authHandler.Login).Methods("POST")
	api.HandleFunc("/refresh", authHandler.Refresh).Methods("POST")
	api.HandleFunc("/logout", authHandler.Logout).Methods("POST")

	api.HandleFunc("/articles", articleHandler.ListPublished).Methods("GET")
	api.HandleFunc("/articles/{id:[0-9]+}", articleHandler.GetArticle).Methods("GET")

	api.HandleFunc("/ads", adHandler.ActiveAds).Methods("GET")
	api.HandleFunc("/ads/{id:[0-9]+}/impression", adHandler.AdImpression).Methods("POST")
	api.HandleFunc("/ads/{id:[0-9]+}/click", adHandler.AdClick).Methods("GET")

	// --- admin, JWT protected ---
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.JWTAuth(jwtSecret))
	admin.Use(middleware.OnlyRole("admin"))

	admin.HandleFunc("/profile", authHandler.Profile).Methods("GET")
	admin.HandleFunc("/stats", statsHandler.Dashboard).Methods("GET")

	admin.HandleFunc("/articles", articleHandler.CreateArticle).Methods("POST")
	admin.HandleFunc("/articles", articleHandler.ListArticles).Methods("GET")
	admin.HandleFunc("/articles/{id:[0-9]+}", articleHandler.UpdateArticle).Methods("PATCH")
	admin.HandleFunc("/articles/{id:[0-9]+}", articleHandler.DeleteArticle).Methods("DELETE")
	admin.HandleFunc("/articles/{id:[0-9]+}/publish", articleHandler.PublishArticle).Methods("POST")
	admin.HandleFunc("/articles/{id:[0-9]+}/unpublish", articleHandler.UnpublishArticle).Methods("POST")
	admin.HandleFunc("/articles/{id:[0-9]+}/keyword-links/preview", articleHandler.PreviewKeywordLinks).Methods("GET")
	admin.HandleFunc("/articles/{id:[0-9]+}/keyword-links", articleHandler.ApplyKeywordLinks).Methods("POST")
	admin.HandleFunc("/articles/{id:[0-9]+}/rewrite", mediaHandler.RewriteArticle).Methods("POST")

	admin.HandleFunc("/ads", adHandler.CreateAd).Methods("POST")
	admin.HandleFunc("/ads", adHandler.ListAds).Methods("GET")
	admin.HandleFunc("/ads/{id:[0-9]+}", adHandler.UpdateAd).Methods("PATCH")
	admin.HandleFunc("/ads/{id:[0-9]+}", adHandler.DeleteAd).Methods("DELETE")
	admin.HandleFunc("/ads/{id:[0-9]+}/active", adHandler.SetAdActive).Methods("POST")

	admin.HandleFunc("/import/sources", importerHandler.CreateSource).Methods("POST")
	admin.HandleFunc("/import/sources", importerHandler.ListSources).Methods("GET")
	admin.HandleFunc("/import/sources/{id:[0-9]+}", importerHandler.UpdateSource).Methods("PATCH")
	admin.HandleFunc("/import/sources/{id:[0-9]+}", importerHandler.DeleteSource).Methods("DELETE")
	admin.HandleFunc("/import/sources/{id:[0-9]+}/run", importerHandler.RunSource).Methods("POST")
	admin.HandleFunc("/import/run", importerHandler.RunAllSources).Methods("POST")

	admin.HandleFunc("/keywords", keywordHandler.CreateKeyword).Methods("POST")
	admin.HandleFunc("/keywords", keywordHandler.ListKeywords).Methods("GET")
	admin.HandleFunc("/keywords/{id:[0-9]+}", keywordHandler.UpdateKeyword).Methods("PATCH")
	admin.HandleFunc("/keywords/{id:[0-9]+}", keywordHandler.DeleteKeyword).Methods("DELETE")

	admin.HandleFunc("/rewrite/providers", mediaHandler.RewriteProviders).Methods("GET")
	admin.HandleFunc("/images/search", mediaHandler.SearchImages).Methods("GET")

	social := admin.PathPrefix("/social-marketing").Subrouter()
	social.HandleFunc("/queue/status", socialHandler.QueueStatus).Methods("GET")
	social.HandleFunc("/queue/process", socialHandler.ProcessQueueNow).Methods("POST")
	social.HandleFunc("/queue/cleanup", socialHandler.CleanupQueue).Methods("POST")
	social.HandleFunc("/queue/{id:[0-9]+}/retry", socialHandler.RetryQueueItem).Methods("POST")
	social.HandleFunc("/autopost/start", socialHandler.StartAutoposting).Methods("POST")
	social.HandleFunc("/autopost/stop", socialHandler.StopAutoposting).Methods("POST")
	social.HandleFunc("/autopost/status", socialHandler.AutopostStatus).Methods("GET")
	social.HandleFunc("/detect", socialHandler.CheckNow).Methods("POST")
	social.HandleFunc("/detect/{articleID:[0-9]+}", socialHandler.DetectArticle).Methods("POST")
	social.HandleFunc("/rules", socialHandler.CreateRule).Methods("POST")
	social.HandleFunc("/rules", socialHandler.ListRules).Methods("GET")
	social.HandleFunc("/rules/{id:[0-9]+}", socialHandler.UpdateRule).Methods("PATCH")
	social.HandleFunc("/rules/{id:[0-9]+}", socialHandler.DeleteRule).Methods("DELETE")
	social.HandleFunc("/rules/test/{articleID:[0-9]+}", socialHandler.TestRules).Methods("GET")
	social.HandleFunc("/platforms", socialHandler.ListPlatforms).Methods("GET")
	social.HandleFunc("/platforms/{platform}", socialHandler.UpsertCredentials).Methods("PUT")
	social.HandleFunc("/platforms/{platform}/test", socialHandler.TestCredentials).Methods("POST")
	social.HandleFunc("/platforms/{platform}/active", socialHandler.SetPlatformActive).Methods("POST")
	social.HandleFunc("/schedule/{platform}", socialHandler.GetSchedule).Methods("GET")
	social.HandleFunc("/schedule/{platform}", socialHandler.PutSchedule).Methods("PUT")
	social.HandleFunc("/engagement/sync", socialHandler.SyncEngagement).Methods("POST")
}
