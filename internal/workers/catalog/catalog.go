// Package catalog describes the task types served by the worker manager.
package catalog

import (
	"time"

	apperrors "estate-workers/internal/common/errors"
	"estate-workers/internal/common/validation"
	"estate-workers/pkg/registry"

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
)

const (
	CategoryNotification = "notification"
	CategoryProjects     = "projects"
	CategoryProperties   = "properties"
	CategoryUsers        = "users"
	CategoryArts         = "arts-antiques"
)

func codes(cs ...apperrors.ErrorCode) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = string(c)
	}
	return out
}

func schema(s validation.JSONSchema) *validation.JSONSchema { return &s }

// Activities lists every task type in registration order.
func Activities() []registry.Activity {
	return []registry.Activity{
		{
			ID:          sn.TaskType,
			DisplayName: "Send Notification",
			Description: "Stores an admin notification and dispatches it over push, email and SMS unless it is scheduled",
			Category:    CategoryNotification,
			TaskType:    sn.TaskType,
			InputSchema: schema(sn.GetInputSchema()),
			ErrorCodes:  codes(apperrors.ErrCodeValidationFailed, apperrors.ErrCodeNotificationCreateFailed),
			Timeout:     sn.DefaultConfig().Timeout.String(),
			Retries:     apperrors.GetRetryCount(apperrors.ErrCodeNotificationCreateFailed),
		},
		{
			ID:          ns.TaskType,
			DisplayName: "Notification Stats",
			Description: "Dashboard counters, cached in Redis",
			Category:    CategoryNotification,
			TaskType:    ns.TaskType,
			ErrorCodes:  codes(apperrors.ErrCodeQueryExecutionFailed),
			Timeout:     ns.DefaultConfig().Timeout.String(),
			Retries:     apperrors.GetRetryCount(apperrors.ErrCodeQueryExecutionFailed),
		},
		{
			ID:          rn.TaskType,
			DisplayName: "Recent Notifications",
			Description: "Newest notification records first",
			Category:    CategoryNotification,
			TaskType:    rn.TaskType,
			InputSchema: schema(rn.GetInputSchema()),
			ErrorCodes:  codes(apperrors.ErrCodeValidationFailed, apperrors.ErrCodeQueryExecutionFailed),
			Timeout:     rn.DefaultConfig().Timeout.String(),
			Retries:     apperrors.GetRetryCount(apperrors.ErrCodeQueryExecutionFailed),
		},
		{
			ID:          lup.TaskType,
			DisplayName: "List Upcoming Projects",
			Description: "Lists projects by status, or searches them through Elasticsearch",
			Category:    CategoryProjects,
			TaskType:    lup.TaskType,
			InputSchema: schema(lup.GetInputSchema()),
			ErrorCodes: codes(apperrors.ErrCodeValidationFailed, apperrors.ErrCodeQueryExecutionFailed,
				apperrors.ErrCodeSearchQueryFailed),
			Timeout: projectTimeout,
			Retries: apperrors.GetRetryCount(apperrors.ErrCodeQueryExecutionFailed),
		},
		{
			ID:          aup.TaskType,
			DisplayName: "Add Upcoming Project",
			Category:    CategoryProjects,
			TaskType:    aup.TaskType,
			InputSchema: schema(aup.GetInputSchema()),
			ErrorCodes:  codes(apperrors.ErrCodeProjectValidationFailed, apperrors.ErrCodeQueryExecutionFailed),
			Timeout:     projectTimeout,
			Retries:     apperrors.GetRetryCount(apperrors.ErrCodeQueryExecutionFailed),
		},
		{
			ID:          uup.TaskType,
			DisplayName: "Update Upcoming Project",
			Description: "Changes only the fields present on the job",
			Category:    CategoryProjects,
			TaskType:    uup.TaskType,
			InputSchema: schema(uup.GetInputSchema()),
			ErrorCodes: codes(apperrors.ErrCodeProjectValidationFailed, apperrors.ErrCodeProjectNotFound,
				apperrors.ErrCodeQueryExecutionFailed),
			Timeout: projectTimeout,
			Retries: apperrors.GetRetryCount(apperrors.ErrCodeQueryExecutionFailed),
		},
		{
			ID:          dup.TaskType,
			DisplayName: "Delete Upcoming Project",
			Category:    CategoryProjects,
			TaskType:    dup.TaskType,
			ErrorCodes: codes(apperrors.ErrCodeProjectValidationFailed, apperrors.ErrCodeProjectNotFound,
				apperrors.ErrCodeQueryExecutionFailed),
			Timeout: projectTimeout,
			Retries: apperrors.GetRetryCount(apperrors.ErrCodeQueryExecutionFailed),
		},
		{
			ID:          ups.TaskType,
			DisplayName: "Upcoming Project Stats",
			Description: "Totals by lifecycle status",
			Category:    CategoryProjects,
			TaskType:    ups.TaskType,
			ErrorCodes:  codes(apperrors.ErrCodeQueryExecutionFailed),
			Timeout:     (10 * time.Second).String(),
			Retries:     apperrors.GetRetryCount(apperrors.ErrCodeQueryExecutionFailed),
		},
		{
			ID:          lp.TaskType,
			DisplayName: "List Properties",
			Description: "Admin listings newest first, filtered by status, type and category",
			Category:    CategoryProperties,
			TaskType:    lp.TaskType,
			InputSchema: schema(lp.GetInputSchema()),
			ErrorCodes: codes(apperrors.ErrCodeValidationFailed, apperrors.ErrCodePropertyValidationFailed,
				apperrors.ErrCodeQueryExecutionFailed),
			Timeout: listingTimeout,
			Retries: apperrors.GetRetryCount(apperrors.ErrCodeQueryExecutionFailed),
		},
		{
			ID:          sp.TaskType,
			DisplayName: "Save Property",
			Description: "Adds a listing and announces it in the in-app feed, or replaces an existing one when propertyId is set",
			Category:    CategoryProperties,
			TaskType:    sp.TaskType,
			InputSchema: schema(sp.GetInputSchema()),
			ErrorCodes: codes(apperrors.ErrCodePropertyValidationFailed, apperrors.ErrCodePropertyNotFound,
				apperrors.ErrCodeQueryExecutionFailed),
			Timeout: listingTimeout,
			Retries: apperrors.GetRetryCount(apperrors.ErrCodeQueryExecutionFailed),
		},
		{
			ID:          tps.TaskType,
			DisplayName: "Toggle Property Status",
			Category:    CategoryProperties,
			TaskType:    tps.TaskType,
			ErrorCodes: codes(apperrors.ErrCodePropertyValidationFailed, apperrors.ErrCodePropertyNotFound,
				apperrors.ErrCodeQueryExecutionFailed),
			Timeout: listingTimeout,
			Retries: apperrors.GetRetryCount(apperrors.ErrCodeQueryExecutionFailed),
		},
		{
			ID:          dp.TaskType,
			DisplayName: "Delete Property",
			Description: "Hides the listing; the row is kept",
			Category:    CategoryProperties,
			TaskType:    dp.TaskType,
			ErrorCodes: codes(apperrors.ErrCodePropertyValidationFailed, apperrors.ErrCodePropertyNotFound,
				apperrors.ErrCodeQueryExecutionFailed),
			Timeout: listingTimeout,
			Retries: apperrors.GetRetryCount(apperrors.ErrCodeQueryExecutionFailed),
		},
		{
			ID:          ps.TaskType,
			DisplayName: "Property Stats",
			Category:    CategoryProperties,
			TaskType:    ps.TaskType,
			ErrorCodes:  codes(apperrors.ErrCodeQueryExecutionFailed),
			Timeout:     statsTimeout,
			Retries:     apperrors.GetRetryCount(apperrors.ErrCodeQueryExecutionFailed),
		},
		{
			ID:          lu.TaskType,
			DisplayName: "List Users",
			Category:    CategoryUsers,
			TaskType:    lu.TaskType,
			InputSchema: schema(lu.GetInputSchema()),
			ErrorCodes:  codes(apperrors.ErrCodeValidationFailed, apperrors.ErrCodeQueryExecutionFailed),
			Timeout:     listingTimeout,
			Retries:     apperrors.GetRetryCount(apperrors.ErrCodeQueryExecutionFailed),
		},
		{
			ID:          tus.TaskType,
			DisplayName: "Toggle User Status",
			Category:    CategoryUsers,
			TaskType:    tus.TaskType,
			ErrorCodes: codes(apperrors.ErrCodeValidationFailed, apperrors.ErrCodeUserNotFound,
				apperrors.ErrCodeQueryExecutionFailed),
			Timeout: listingTimeout,
			Retries: apperrors.GetRetryCount(apperrors.ErrCodeQueryExecutionFailed),
		},
		{
			ID:          du.TaskType,
			DisplayName: "Delete User",
			Description: "Removes the account row",
			Category:    CategoryUsers,
			TaskType:    du.TaskType,
			ErrorCodes: codes(apperrors.ErrCodeValidationFailed, apperrors.ErrCodeUserNotFound,
				apperrors.ErrCodeQueryExecutionFailed),
			Timeout: listingTimeout,
			Retries: apperrors.GetRetryCount(apperrors.ErrCodeQueryExecutionFailed),
		},
		{
			ID:          us.TaskType,
			DisplayName: "User Stats",
			Category:    CategoryUsers,
			TaskType:    us.TaskType,
			ErrorCodes:  codes(apperrors.ErrCodeQueryExecutionFailed),
			Timeout:     statsTimeout,
			Retries:     apperrors.GetRetryCount(apperrors.ErrCodeQueryExecutionFailed),
		},
		{
			ID:          lai.TaskType,
			DisplayName: "List Art Items",
			Category:    CategoryArts,
			TaskType:    lai.TaskType,
			InputSchema: schema(lai.GetInputSchema()),
			ErrorCodes:  codes(apperrors.ErrCodeValidationFailed, apperrors.ErrCodeQueryExecutionFailed),
			Timeout:     listingTimeout,
			Retries:     apperrors.GetRetryCount(apperrors.ErrCodeQueryExecutionFailed),
		},
		{
			ID:          sai.TaskType,
			DisplayName: "Save Art Item",
			Description: "Adds a piece, or replaces an existing one when itemId is set",
			Category:    CategoryArts,
			TaskType:    sai.TaskType,
			InputSchema: schema(sai.GetInputSchema()),
			ErrorCodes: codes(apperrors.ErrCodeArtItemValidationFailed, apperrors.ErrCodeArtItemNotFound,
				apperrors.ErrCodeQueryExecutionFailed),
			Timeout: listingTimeout,
			Retries: apperrors.GetRetryCount(apperrors.ErrCodeQueryExecutionFailed),
		},
		{
			ID:          dai.TaskType,
			DisplayName: "Delete Art Item",
			Category:    CategoryArts,
			TaskType:    dai.TaskType,
			ErrorCodes: codes(apperrors.ErrCodeArtItemValidationFailed, apperrors.ErrCodeArtItemNotFound,
				apperrors.ErrCodeQueryExecutionFailed),
			Timeout: listingTimeout,
			Retries: apperrors.GetRetryCount(apperrors.ErrCodeQueryExecutionFailed),
		},
		{
			ID:          ais.TaskType,
			DisplayName: "Art Item Stats",
			Category:    CategoryArts,
			TaskType:    ais.TaskType,
			ErrorCodes:  codes(apperrors.ErrCodeQueryExecutionFailed),
			Timeout:     statsTimeout,
			Retries:     apperrors.GetRetryCount(apperrors.ErrCodeQueryExecutionFailed),
		},
	}
}

var (
	projectTimeout = (15 * time.Second).String()
	listingTimeout = (15 * time.Second).String()
	statsTimeout   = (10 * time.Second).String()
)

// Registry wraps Activities in a registry document.
func Registry(version string, now time.Time) *registry.ActivityRegistry {
	return &registry.ActivityRegistry{
		Version:     version,
		LastUpdated: now.UTC().Format(time.RFC3339),
		Activities:  Activities(),
	}
}

// UnknownWorkers returns the configured worker keys that match no task type.
func UnknownWorkers(configured []string) []string {
	known := make(map[string]bool)
	for _, a := range Activities() {
		known[a.TaskType] = true
	}
	var unknown []string
	for _, name := range configured {
		if !known[name] {
			unknown = append(unknown, name)
		}
	}
	return unknown
}
