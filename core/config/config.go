package config

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"studyhub/core/calendar"
	"studyhub/core/database"
	"studyhub/core/logger"
	"studyhub/core/notify"
	"studyhub/core/server"
	"studyhub/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Backup targets.
const (
	BackupTargetFile   = "file"
	BackupTargetBucket = "bucket"
)

// BackupConfig controls where exports are written and read from.
type BackupConfig struct {
	// Target is "file" (Dir on the device) or "bucket" (the storage bucket).
	Target string `mapstructure:"target" default:"file"`
	// Dir is the export directory for the file target.
	Dir string `mapstructure:"dir" default:"backups"`
	// Prefix starts every export file name.
	Prefix string `mapstructure:"prefix" default:"studyhub-backup"`
	// BucketPrefix is the object key prefix for the bucket target.
	BucketPrefix string `mapstructure:"bucket_prefix" default:"exports/"`
}

// Config holds all configuration for the application.
type Config struct {
	// Server holds configuration for the local HTTP API.
	Server server.Config `mapstructure:"server"`
	// Database holds configuration for the collection store.
	Database database.Config `mapstructure:"database"`
	// Storage holds configuration for the backup bucket.
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Backup holds configuration for export/import.
	Backup BackupConfig `mapstructure:"backup"`
	// Calendar holds configuration for calendar sync.
	Calendar calendar.Config `mapstructure:"calendar"`
	// Notify holds configuration for reminders.
	Notify notify.Config `mapstructure:"notify"`
}

// LoadConfig loads configuration from environment variables and the .env file in path.
func LoadConfig(path string) (*Config, error) {
	// A missing .env is normal outside development
	_ = godotenv.Overload(filepath.Join(path, ".env"))

	v := viper.New()

	bindValues(v, Config{}, "")

	// SERVER_PORT -> server.port
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate rejects settings no component can run with.
func (c *Config) Validate() error {
	switch c.Backup.Target {
	case BackupTargetFile, BackupTargetBucket:
	default:
		return fmt.Errorf("invalid backup target %q (want %s or %s)", c.Backup.Target, BackupTargetFile, BackupTargetBucket)
	}
	switch c.Database.Driver {
	case database.DriverSQLite, database.DriverMySQL:
	default:
		return fmt.Errorf("invalid database driver %q", c.Database.Driver)
	}
	if c.Calendar.Enabled && c.Calendar.CredentialsFile == "" {
		return fmt.Errorf("calendar sync enabled without credentials_file")
	}
	return nil
}

// bindValues walks the struct and registers every mapstructure key in Viper
// with the value of its 'default' tag, so AutomaticEnv can find nested keys.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set, even if empty, to register the key for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
