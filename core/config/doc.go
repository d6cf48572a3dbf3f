// Package config loads the studyhub configuration.
//
// Values come from a .env file (via godotenv), then environment variables, with
// defaults declared in `default` struct tags and registered in Viper by
// reflection. Nested keys map to upper-case env names with underscores:
// server.port is SERVER_PORT, backup.target is BACKUP_TARGET.
//
// # Sections
//
//   - Server: local HTTP API (host, port, api key)
//   - Database: collection store (sqlite file or mysql)
//   - Storage: S3/MinIO bucket for backups
//   - Log: level and format
//   - Backup: export target, directory and file prefix
//   - Calendar: Google Calendar sync
//   - Notify: reminder lead time
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    return err
//	}
package config
