package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// AvailabilityEntry is one worker's availability window on one date. Start
// and End are RFC3339 strings carrying the Europe/London offset they were
// written with, matching the shape persisted by the legacy system.
type AvailabilityEntry struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Late  bool   `json:"late"`
}

// AvailabilityList is the JSON availability column of a worker.
type AvailabilityList []AvailabilityEntry

// Value serialises the list for storage.
func (l AvailabilityList) Value() (driver.Value, error) {
	if l == nil {
		l = AvailabilityList{}
	}
	return json.Marshal(l)
}

// Scan deserialises the JSON column into the list.
func (l *AvailabilityList) Scan(src interface{}) error {
	return scanJSON(src, l)
}

// RoleList is the JSON roles column of a worker.
type RoleList []string

// Value serialises the list for storage.
func (l RoleList) Value() (driver.Value, error) {
	if l == nil {
		l = RoleList{}
	}
	return json.Marshal(l)
}

// Scan deserialises the JSON column into the list.
func (l *RoleList) Scan(src interface{}) error {
	return scanJSON(src, l)
}

// Worker represents a member of staff whose availability is maintained from
// the weekly rota uploads.
type Worker struct {
	ID           int64            `db:"id" json:"id"`
	Name         string           `db:"name" json:"name"`
	Roles        RoleList         `db:"roles" json:"roles"`
	Availability AvailabilityList `db:"availability" json:"availability"`
}

func scanJSON(src, dest interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("cannot scan %T into JSON column", src)
	}
}
