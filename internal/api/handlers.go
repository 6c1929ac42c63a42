package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "estate-workers/internal/common/errors"
	"estate-workers/internal/common/logger"
	"estate-workers/internal/common/validation"
	"estate-workers/internal/models"
	"estate-workers/internal/service"
)

const healthTimeout = 3 * time.Second

type handlers struct {
	deps   Dependencies
	logger logger.Logger
}

// notificationBodySchema covers the fields accepted over HTTP.
var notificationBodySchema = validation.JSONSchema{
	Type:     "object",
	Required: []string{"title", "body", "type", "target"},
	Properties: map[string]validation.Property{
		"title":      {Type: "string", MinLength: validation.IntPtr(1)},
		"body":       {Type: "string", MinLength: validation.IntPtr(1)},
		"type":       {Type: "string", MinLength: validation.IntPtr(1)},
		"target":     {Type: "string", MinLength: validation.IntPtr(1)},
		"priority":   {Type: "string"},
		"imageUrl":   {Type: "string"},
		"actionUrl":  {Type: "string"},
		"propertyId": {Type: "string"},
		"userId":     {Type: "string"},
	},
	AdditionalProperties: true,
}

type notificationBody struct {
	Title      string `json:"title"`
	Body       string `json:"body"`
	Type       string `json:"type"`
	Target     string `json:"target"`
	Priority   string `json:"priority"`
	ImageURL   string `json:"imageUrl"`
	ActionURL  string `json:"actionUrl"`
	PropertyID string `json:"propertyId"`
	UserID     string `json:"userId"`
}

func (h *handlers) sendNotification(c *gin.Context) {
	var doc map[string]interface{}
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	result, err := validation.ValidateDocument(doc, notificationBodySchema)
	if err != nil {
		h.internalError(c, err)
		return
	}
	if !result.Valid {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "Missing required fields",
			"fields": result.Fields(),
		})
		return
	}

	var body notificationBody
	raw, _ := json.Marshal(doc)
	if err := json.Unmarshal(raw, &body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	submitted, err := h.deps.Notifications.Submit(c.Request.Context(), models.NotificationRequest{
		Title:      body.Title,
		Body:       body.Body,
		Type:       body.Type,
		Target:     body.Target,
		Priority:   body.Priority,
		ImageURL:   body.ImageURL,
		ActionURL:  body.ActionURL,
		PropertyID: body.PropertyID,
		UserID:     body.UserID,
	})
	if err != nil {
		var stdErr *apperrors.StandardError
		if errors.As(err, &stdErr) && stdErr.Code == apperrors.ErrCodeValidationFailed {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
			return
		}
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"notificationId": submitted.Notification.ID,
		"message":        "Notification sent successfully",
	})
}

func (h *handlers) listProjects(c *gin.Context) {
	limit := service.DefaultProjectLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
			return
		}
		limit = n
	}

	projects, err := h.deps.Projects.List(c.Request.Context(), service.ProjectQuery{
		Status: c.Query("status"),
		Text:   strings.TrimSpace(c.Query("q")),
		Limit:  limit,
	})
	if err != nil {
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"projects": projects,
		"count":    len(projects),
	})
}

func (h *handlers) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	checks := make(map[string]string, len(h.deps.Health))
	healthy := true
	for name, check := range h.deps.Health {
		if err := check(ctx); err != nil {
			checks[name] = err.Error()
			healthy = false
			continue
		}
		checks[name] = "ok"
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{
		"success":    healthy,
		"checks":     checks,
		"checked_at": time.Now().UTC(),
	})
}

func (h *handlers) internalError(c *gin.Context, err error) {
	h.logger.Error("request failed", map[string]interface{}{
		"path":  c.FullPath(),
		"error": err.Error(),
	})
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
