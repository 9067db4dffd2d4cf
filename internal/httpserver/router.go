package httpserver

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"projectpulse/internal/handler"
	"projectpulse/pkg/mq"
)

func NewRouter(
	healthHandler *handler.HealthHandler,
	projectHandler *handler.ProjectHandler,
	logger *zap.Logger,
	db *pgxpool.Pool,
	consumer *mq.Consumer,
	jwtSecret string,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(logger))

	// probes stay in front of auth
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.HEAD("/healthz", func(c *gin.Context) {
		c.Status(200)
	})

	r.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c, 1*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			c.JSON(500, gin.H{"status": "db_not_ready", "error": err.Error()})
			return
		}

		if consumer != nil && !consumer.IsConnected() {
			c.JSON(500, gin.H{"status": "mq_not_ready"})
			return
		}

		c.JSON(200, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := r.Group("/")
	auth.Use(AuthMiddleware(jwtSecret))
	{
		auth.GET("/projects/:id/health", healthHandler.GetProjectHealth)
		auth.GET("/health/rollup", healthHandler.GetRollup)

		auth.POST("/projects", projectHandler.CreateProject)
		auth.GET("/projects/:id", projectHandler.GetProject)
		auth.PATCH("/projects/:id/progress", projectHandler.UpdateProjectProgress)
		auth.PATCH("/projects/:id/status", projectHandler.UpdateProjectStatus)

		auth.POST("/projects/:id/issues", projectHandler.CreateIssue)
		auth.GET("/projects/:id/issues", projectHandler.ListIssues)
		auth.PATCH("/projects/:id/issues/:issueId/status", projectHandler.UpdateIssueStatus)
		auth.PATCH("/projects/:id/issues/:issueId/progress", projectHandler.UpdateIssueProgress)

		auth.POST("/projects/:id/milestones", projectHandler.CreateMilestone)
		auth.GET("/projects/:id/milestones", projectHandler.ListMilestones)
		auth.PATCH("/projects/:id/milestones/:milestoneId/progress", projectHandler.UpdateMilestoneProgress)
	}

	return r
}
