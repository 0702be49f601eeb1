package router

import (
	"net/http"
	"time"

	"github.com/doerhub/doerhub-backend/internal/config"
	"github.com/doerhub/doerhub-backend/internal/handler"
	"github.com/doerhub/doerhub-backend/internal/metrics"
	"github.com/doerhub/doerhub-backend/internal/middleware"
	"github.com/doerhub/doerhub-backend/internal/model"
	"github.com/doerhub/doerhub-backend/internal/response"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Profile    *handler.ProfileHandler
	Activation *handler.ActivationHandler
	Project    *handler.ProjectHandler
	Chat       *handler.ChatHandler
	Analysis   *handler.AnalysisHandler
	Push       *handler.PushHandler
	WS         *handler.WSHandler
}

// Guards are the request gates shared by the route groups.
type Guards struct {
	Auth            middleware.Authenticator
	Activation      middleware.ActivationChecker
	AnalysisLimiter *middleware.RateLimiter
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(guards *Guards, handlers *Handlers, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()
	router.MaxMultipartMemory = 8 << 20

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())
	router.Use(metrics.Middleware())

	router.Use(middleware.BrotliWithConfig(middleware.BrotliConfig{
		Quality:   middleware.DefaultBrotliConfig.Quality,
		MinLength: middleware.DefaultBrotliConfig.MinLength,
		Skipper: func(c *gin.Context) bool {
			return c.Request.URL.Path == "/metrics"
		},
	}))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", metrics.Handler())

	requireAuth := middleware.RequireAuth(guards.Auth)
	supervisorOnly := middleware.RequireRole(model.RoleSupervisor)
	activated := middleware.RequireActivated(guards.Activation)

	api := router.Group("/api/v1")

	// ─── 1. Session & Profile ──────────────────────────────────────────
	api.POST("/auth/logout", requireAuth, handlers.Profile.Logout)

	me := api.Group("/me", requireAuth)
	{
		me.GET("", handlers.Profile.GetMe)
		me.PUT("", handlers.Profile.UpdateMe)
		me.POST("/cv", handlers.Profile.UploadCV)
	}

	// ─── 2. Activation (doer onboarding) ───────────────────────────────
	act := api.Group("/activation", requireAuth, middleware.NoStore())
	{
		act.GET("", handlers.Activation.GetStatus)
		act.POST("/training/complete", handlers.Activation.CompleteTraining)
		act.GET("/quiz", handlers.Activation.GetQuiz)
		act.POST("/quiz/attempts", handlers.Activation.SubmitQuiz)
		act.GET("/quiz/attempts", handlers.Activation.ListAttempts)
		act.PUT("/bank-details", handlers.Activation.PutBankDetails)
		act.GET("/bank-details", handlers.Activation.GetBankDetails)
	}

	// ─── 3. Projects (activated doers and supervisors) ─────────────────
	projects := api.Group("/projects", requireAuth, activated)
	{
		projects.GET("", handlers.Project.ListProjects)
		projects.GET("/:id", handlers.Project.GetProject)
		projects.PATCH("/:id/status", supervisorOnly, handlers.Project.UpdateStatus)
		projects.POST("/:id/deliverables", handlers.Project.SubmitDeliverable)
		projects.POST("/:id/revisions", supervisorOnly, handlers.Project.RequestRevision)

		projects.GET("/:id/chat/messages", handlers.Chat.ListMessages)
		projects.POST("/:id/chat/messages", handlers.Chat.SendMessage)
	}

	api.GET("/deliverables/:id/analysis", requireAuth, activated, handlers.Analysis.AnalyzeDeliverable)

	// ─── 4. Text analysis (rate limited per user) ──────────────────────
	api.POST("/analysis/text", requireAuth, guards.AnalysisLimiter.Middleware(), handlers.Analysis.AnalyzeText)

	// ─── 5. Push subscriptions (supervisors) ───────────────────────────
	push := api.Group("/push/subscriptions", requireAuth, supervisorOnly)
	{
		push.POST("", handlers.Push.Subscribe)
		push.DELETE("", handlers.Push.Unsubscribe)
	}

	// ─── 6. WebSocket ──────────────────────────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireWSAuth(guards.Auth), activated)
	{
		ws.GET("/projects/:id/chat", handlers.WS.ChatStream)
	}

	return router
}
