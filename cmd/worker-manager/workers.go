package main

import (
	"sort"

	"estate-workers/internal/common/camunda"
	"estate-workers/internal/common/config"
	"estate-workers/internal/common/logger"
	"estate-workers/internal/service"
	"estate-workers/internal/store"
	"estate-workers/internal/workers/catalog"

	ns "estate-workers/internal/workers/notification/notification-stats"
	rn "estate-workers/internal/workers/notification/recent-notifications"
	sn "estate-workers/internal/workers/notification/send-notification"

	aup "estate-workers/internal/workers/projects/add-upcoming-project"
	dup "estate-workers/internal/workers/projects/delete-upcoming-project"
	lup "estate-workers/internal/workers/projects/list-upcoming-projects"
	ups "estate-workers/internal/workers/projects/upcoming-project-stats"
	uup "estate-workers/internal/workers/projects/update-upcoming-project"

	dp "estate-workers/internal/workers/properties/delete-property"
	lp "estate-workers/internal/workers/properties/list-properties"
	ps "estate-workers/internal/workers/properties/property-stats"
	sp "estate-workers/internal/workers/properties/save-property"
	tps "estate-workers/internal/workers/properties/toggle-property-status"

	du "estate-workers/internal/workers/users/delete-user"
	lu "estate-workers/internal/workers/users/list-users"
	tus "estate-workers/internal/workers/users/toggle-user-status"
	us "estate-workers/internal/workers/users/user-stats"

	ais "estate-workers/internal/workers/arts-antiques/art-item-stats"
	dai "estate-workers/internal/workers/arts-antiques/delete-art-item"
	lai "estate-workers/internal/workers/arts-antiques/list-art-items"
	sai "estate-workers/internal/workers/arts-antiques/save-art-item"

	"github.com/redis/go-redis/v9"
)

type workerDeps struct {
	notifications       *store.NotificationStore
	notificationService *service.NotificationService
	projectService      *service.ProjectService
	propertyService     *service.PropertyService
	userService         *service.UserService
	artItemService      *service.ArtItemService
	redis               *redis.Client
	logger              logger.Logger
}

func registerWorkers(registry *camunda.JobWorkerRegistry, cfg *config.Config, deps workerDeps) {
	configured := make([]string, 0, len(cfg.Workers))
	for name := range cfg.Workers {
		configured = append(configured, name)
	}
	sort.Strings(configured)
	if unknown := catalog.UnknownWorkers(configured); len(unknown) > 0 {
		deps.logger.Warn("ignoring configuration for unknown workers", map[string]interface{}{"workers": unknown})
	}

	wc := func(taskType string) config.WorkerConfig {
		return config.GetWorkerConfig(cfg, taskType)
	}

	// --- Notifications ---
	registry.Start(sn.TaskType, wc(sn.TaskType),
		sn.NewHandler(sn.FromWorkerConfig(wc(sn.TaskType)), deps.notificationService, deps.logger).Handle)

	registry.Start(ns.TaskType, wc(ns.TaskType),
		ns.NewHandler(ns.LoadConfig(wc(ns.TaskType), cfg.Notifications.StatsCacheTTL),
			deps.notifications, deps.redis, deps.logger).Handle)

	registry.Start(rn.TaskType, wc(rn.TaskType),
		rn.NewHandler(rn.LoadConfig(wc(rn.TaskType)), deps.notifications, deps.logger).Handle)

	// --- Upcoming projects ---
	registry.Start(lup.TaskType, wc(lup.TaskType),
		lup.NewHandler(lup.LoadConfig(wc(lup.TaskType)), deps.projectService, deps.logger).Handle)

	registry.Start(aup.TaskType, wc(aup.TaskType),
		aup.NewHandler(aup.LoadConfig(wc(aup.TaskType)), deps.projectService, deps.logger).Handle)

	registry.Start(uup.TaskType, wc(uup.TaskType),
		uup.NewHandler(uup.LoadConfig(wc(uup.TaskType)), deps.projectService, deps.logger).Handle)

	registry.Start(dup.TaskType, wc(dup.TaskType),
		dup.NewHandler(dup.LoadConfig(wc(dup.TaskType)), deps.projectService, deps.logger).Handle)

	registry.Start(ups.TaskType, wc(ups.TaskType),
		ups.NewHandler(ups.LoadConfig(wc(ups.TaskType)), deps.projectService, deps.logger).Handle)

	// --- Properties ---
	registry.Start(lp.TaskType, wc(lp.TaskType),
		lp.NewHandler(lp.LoadConfig(wc(lp.TaskType)), deps.propertyService, deps.logger).Handle)

	registry.Start(sp.TaskType, wc(sp.TaskType),
		sp.NewHandler(sp.LoadConfig(wc(sp.TaskType)), deps.propertyService, deps.logger).Handle)

	registry.Start(tps.TaskType, wc(tps.TaskType),
		tps.NewHandler(tps.LoadConfig(wc(tps.TaskType)), deps.propertyService, deps.logger).Handle)

	registry.Start(dp.TaskType, wc(dp.TaskType),
		dp.NewHandler(dp.LoadConfig(wc(dp.TaskType)), deps.propertyService, deps.logger).Handle)

	registry.Start(ps.TaskType, wc(ps.TaskType),
		ps.NewHandler(ps.LoadConfig(wc(ps.TaskType)), deps.propertyService, deps.logger).Handle)

	// --- Users ---
	registry.Start(lu.TaskType, wc(lu.TaskType),
		lu.NewHandler(lu.LoadConfig(wc(lu.TaskType)), deps.userService, deps.logger).Handle)

	registry.Start(tus.TaskType, wc(tus.TaskType),
		tus.NewHandler(tus.LoadConfig(wc(tus.TaskType)), deps.userService, deps.logger).Handle)

	registry.Start(du.TaskType, wc(du.TaskType),
		du.NewHandler(du.LoadConfig(wc(du.TaskType)), deps.userService, deps.logger).Handle)

	registry.Start(us.TaskType, wc(us.TaskType),
		us.NewHandler(us.LoadConfig(wc(us.TaskType)), deps.userService, deps.logger).Handle)

	// --- Arts & antiques ---
	registry.Start(lai.TaskType, wc(lai.TaskType),
		lai.NewHandler(lai.LoadConfig(wc(lai.TaskType)), deps.artItemService, deps.logger).Handle)

	registry.Start(sai.TaskType, wc(sai.TaskType),
		sai.NewHandler(sai.LoadConfig(wc(sai.TaskType)), deps.artItemService, deps.logger).Handle)

	registry.Start(dai.TaskType, wc(dai.TaskType),
		dai.NewHandler(dai.LoadConfig(wc(dai.TaskType)), deps.artItemService, deps.logger).Handle)

	registry.Start(ais.TaskType, wc(ais.TaskType),
		ais.NewHandler(ais.LoadConfig(wc(ais.TaskType)), deps.artItemService, deps.logger).Handle)
}
