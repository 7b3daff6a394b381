package models

import (
	"database/sql/driver"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// JSON wraps gorm.io/datatypes.JSON to control the column type per driver.
// Product nutriment payloads use it so the same model migrates on every
// supported database.
type JSON struct {
	datatypes.JSON
}

// JSONFrom wraps raw bytes for assignment to a JSON column.
func JSONFrom(raw []byte) JSON {
	return JSON{JSON: datatypes.JSON(raw)}
}

// GormDBDataType picks the column type per dialect; MSSQL has no native
// json type, so it falls back to NVARCHAR(MAX).
func (JSON) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "mysql":
		return "JSON"
	case "postgres":
		return "JSONB"
	case "sqlserver", "mssql":
		return "NVARCHAR(MAX)"
	case "sqlite":
		return "JSON"
	}
	return "TEXT"
}

// Value defers to the embedded payload so drivers see plain bytes.
func (j JSON) Value() (driver.Value, error) {
	return j.JSON.Value()
}

// Scan defers to the embedded payload.
func (j *JSON) Scan(value interface{}) error {
	return j.JSON.Scan(value)
}
