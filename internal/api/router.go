// Package api exposes the admin notification endpoint and the public project feed over HTTP.
package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"estate-workers/internal/common/logger"
	"estate-workers/internal/common/metrics"
	"estate-workers/internal/models"
	"estate-workers/internal/service"
)

type NotificationSubmitter interface {
	Submit(ctx context.Context, req models.NotificationRequest) (*service.Submitted, error)
}

type ProjectLister interface {
	List(ctx context.Context, q service.ProjectQuery) ([]*models.Project, error)
}

// HealthCheck reports an error when a dependency is unreachable.
type HealthCheck func(ctx context.Context) error

type Dependencies struct {
	Notifications NotificationSubmitter
	Projects      ProjectLister
	Health        map[string]HealthCheck
	Logger        logger.Logger
}

// NewRouter builds the gin engine. mode is a gin mode such as "release" or "test".
func NewRouter(mode string, deps Dependencies) *gin.Engine {
	if mode != "" {
		gin.SetMode(mode)
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Recovery(), requestLogger(deps.Logger), requestMetrics())

	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	})
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	h := &handlers{deps: deps, logger: deps.Logger}

	r.GET("/health", h.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	v1.POST("/notifications", h.sendNotification)
	v1.GET("/projects", h.listProjects)

	return r
}

func requestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("request", map[string]interface{}{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
			"clientIp": c.ClientIP(),
		})
	}
}

func requestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
