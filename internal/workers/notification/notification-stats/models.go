// internal/workers/notification/notification-stats/models.go
package notificationstats

import "estate-workers/internal/models"

const CacheKey = "notification:stats"

type Input struct {
	BypassCache bool `json:"bypassCache"`
}

type Output struct {
	models.NotificationStats
	Cached bool `json:"cached"`
}
