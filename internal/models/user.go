package models

import "time"

const (
	UnknownUserName = "Unknown"

	ProfileFilterCompleted  = "completed"
	ProfileFilterIncomplete = "incomplete"

	SortNewest = "newest"
	SortOldest = "oldest"
)

// User is an app account as shown in the admin panel.
type User struct {
	ID                string     `json:"id"`
	FullName          string     `json:"fullName"`
	Email             string     `json:"email"`
	PhoneNumber       string     `json:"phoneNumber"`
	IsRealEstateAgent bool       `json:"isRealEstateAgent"`
	IsActive          bool       `json:"isActive"`
	ProfileCompleted  bool       `json:"profileCompleted"`
	ProfileImageURL   string     `json:"profileImageUrl,omitempty"`
	HasDeviceToken    bool       `json:"hasDeviceToken"`
	SubscribedTopics  []string   `json:"subscribedTopics"`
	CreatedAt         time.Time  `json:"createdAt"`
	LastActiveAt      *time.Time `json:"lastActiveAt,omitempty"`
}

type UserFilter struct {
	Search  string
	Status  string
	Profile string
	Sort    string
	Limit   int
}

type UserStats struct {
	TotalUsers        int `json:"totalUsers"`
	ActiveUsers       int `json:"activeUsers"`
	InactiveUsers     int `json:"inactiveUsers"`
	NewUsersThisMonth int `json:"newUsersThisMonth"`
}
