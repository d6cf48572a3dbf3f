package calendar

// Config holds configuration for calendar sync.
type Config struct {
	// Enabled turns on mirroring of tasks into the calendar.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// CredentialsFile is the OAuth client secrets JSON downloaded from Google Cloud.
	CredentialsFile string `mapstructure:"credentials_file" default:""`
	// TokenFile holds the user's OAuth token (access + refresh).
	TokenFile string `mapstructure:"token_file" default:"token.json"`
	// CalendarID is the calendar events are written to.
	CalendarID string `mapstructure:"calendar_id" default:"primary"`
}
