package checks

import (
	"fmt"

	"studyhub/core/database"
	"studyhub/core/store"

	"gorm.io/gorm"
)

// SchemaReport strictly types the result of a schema check.
type SchemaReport struct {
	Table          string   `json:"table"`
	Matched        bool     `json:"matched"`
	MissingColumns []string `json:"missing_columns"`
	Status         string   `json:"status"` // "ok", "error"
}

// CheckSchema verifies that the collections table has every column the store
// reads and writes.
func CheckSchema(db *gorm.DB) (*SchemaReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	missing, err := database.MissingColumns(db, store.TableName, store.Columns)
	if err != nil {
		return nil, err
	}

	report := &SchemaReport{
		Table:          store.TableName,
		Matched:        len(missing) == 0,
		MissingColumns: missing,
		Status:         "ok",
	}
	if !report.Matched {
		report.Status = "error"
	}
	if report.MissingColumns == nil {
		report.MissingColumns = []string{}
	}
	return report, nil
}
