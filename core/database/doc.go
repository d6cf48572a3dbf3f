// Package database opens the gorm connection that backs the collection store.
//
// The default driver is sqlite (a single local file, or ":memory:" in tests);
// mysql is available for classroom deployments. The inspector helpers read
// table columns for the integrity checks.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    return err
//	}
//	missing, err := database.MissingColumns(db, "collections", []string{"name", "payload"})
package database
