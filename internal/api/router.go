package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/talentflow/talentflow/internal/service"
)

// Dependencies holds everything the HTTP facade needs
type Dependencies struct {
	Logger  *slog.Logger
	Service *service.Service
}

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *Dependencies) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "talentflow",
		})
	})

	h := newHandlers(deps)

	api := r.Group("/api")
	{
		jobs := api.Group("/jobs")
		{
			jobs.GET("", h.ListJobs)
			jobs.POST("", h.CreateJob)
			jobs.PATCH("/:id", h.UpdateJob)
		}

		candidates := api.Group("/candidates")
		{
			candidates.GET("", h.ListCandidates)
			candidates.PATCH("/:id", h.UpdateCandidate)
			candidates.GET("/:id/timeline", h.GetTimeline)
		}

		assessments := api.Group("/assessments")
		{
			assessments.GET("/:jobId", h.GetAssessment)
			assessments.PUT("/:jobId", h.UpsertAssessment)
		}
	}

	return r
}
