package router

import (
	"time"

	"github.com/NomadCrew/comment-board/config"
	"github.com/NomadCrew/comment-board/handlers"
	"github.com/NomadCrew/comment-board/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// Dependencies struct holds all dependencies required for setting up routes.
type Dependencies struct {
	Config          *config.Config
	CommentHandler  *handlers.CommentHandler
	FeedbackHandler *handlers.FeedbackHandler
	HealthHandler   *handlers.HealthHandler
	// RedisClient is only required when rate limiting is enabled.
	RedisClient *redis.Client
}

// SetupRouter configures and returns the main Gin engine with all routes defined.
func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if !deps.Config.IsProduction() {
		r.Use(gin.Logger())
	}

	// Global Middleware
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(&deps.Config.Server))
	r.Use(middleware.SecurityHeadersMiddleware(deps.Config))

	// Health and Metrics Routes
	r.GET("/health", deps.HealthHandler.DetailedHealth)
	r.GET("/health/liveness", deps.HealthHandler.LivenessCheck)
	r.GET("/health/readiness", deps.HealthHandler.ReadinessCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	submit := []gin.HandlerFunc{}
	if deps.Config.RateLimit.Enabled && deps.RedisClient != nil {
		submit = append(submit, middleware.SubmissionRateLimiter(
			deps.RedisClient,
			deps.Config.RateLimit.SubmissionsPerMinute,
			time.Duration(deps.Config.RateLimit.WindowSeconds)*time.Second,
		))
	}

	comments := r.Group("/comments")
	{
		comments.GET("", deps.CommentHandler.ListComments)
		comments.GET("/search", deps.CommentHandler.SearchComments)
		comments.POST("", append(submit, deps.CommentHandler.SubmitComment)...)
	}

	feedback := r.Group("/feedback")
	{
		feedback.GET("", deps.FeedbackHandler.ListFeedback)
		feedback.POST("", append(submit, deps.FeedbackHandler.SubmitFeedback)...)
	}

	return r
}
