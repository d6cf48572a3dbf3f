package notify

// Config holds configuration for task reminders.
type Config struct {
	// LeadMinutes is how long before the due date a default reminder fires.
	LeadMinutes int `mapstructure:"lead_minutes" default:"15"`
}
