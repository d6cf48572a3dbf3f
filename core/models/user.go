package models

import "time"

// Preferences holds user settings that travel with backups.
type Preferences struct {
	Theme                string `json:"theme,omitempty"`
	NotificationsEnabled bool   `json:"notificationsEnabled"`
	DailyGoalMinutes     int    `json:"dailyGoalMinutes,omitempty"`
	CalendarSync         bool   `json:"calendarSync"`
}

// User is the local profile.
// ID, Username, Email and CreatedAt are identity fields; everything else is a setting.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"createdAt"`

	DisplayName string      `json:"displayName,omitempty"`
	School      string      `json:"school,omitempty"`
	Grade       string      `json:"grade,omitempty"`
	AvatarURL   string      `json:"avatarUrl,omitempty"`
	Preferences Preferences `json:"preferences"`
}

// IsEmpty reports whether u carries no profile data at all.
func (u User) IsEmpty() bool {
	return u.ID == "" && u.Username == "" && u.Email == "" && u.CreatedAt.IsZero() &&
		u.DisplayName == "" && u.School == "" && u.Grade == "" && u.AvatarURL == "" &&
		u.Preferences == Preferences{}
}

// Friend is an entry in the friends list.
type Friend struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"displayName,omitempty"`
	AddedAt     time.Time `json:"addedAt"`
}
