// Package sheet extracts worker availability from weekly rota workbooks.
//
// The source spreadsheets are human-authored and only loosely structured:
// every worksheet carries a single week date somewhere on a fixed header
// row, and from a fixed data row downwards each row holds a worker name and
// a shift time in one of several notations. Everything that cannot be
// parsed is skipped, never fatal.
package sheet

import (
	"fmt"
	"time"
)

// Config describes where the availability data lives inside a worksheet.
// Rows are 1-based, columns 0-based, matching how the rota templates are
// usually discussed ("row 22", "column B").
type Config struct {
	// HeaderRow is scanned for the week date.
	HeaderRow int
	// DataStartRow is the first row holding worker data.
	DataStartRow int
	// NameColumn holds the worker name.
	NameColumn int
	// TimeColumns are probed in order for a combined time range; the first
	// two also serve as the separate start/end columns for the fallback.
	TimeColumns []int
}

// DefaultConfig returns the layout of the current rota templates.
func DefaultConfig() Config {
	return Config{
		HeaderRow:    22,
		DataStartRow: 24,
		NameColumn:   1,
		TimeColumns:  []int{3, 4, 5},
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.HeaderRow <= 0 {
		c.HeaderRow = def.HeaderRow
	}
	if c.DataStartRow <= 0 {
		c.DataStartRow = def.DataStartRow
	}
	if c.NameColumn <= 0 {
		c.NameColumn = def.NameColumn
	}
	if len(c.TimeColumns) < 2 {
		c.TimeColumns = def.TimeColumns
	}
	return c
}

// Clock is a wall-clock time of day with minute precision.
type Clock struct {
	Hour   int
	Minute int
}

// String renders the clock as HH:MM.
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// At anchors the clock on the given calendar date in the given location.
func (c Clock) At(date time.Time, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), c.Hour, c.Minute, 0, 0, loc)
}

// TimeRange is a start/end pair of clock times with no date attached.
type TimeRange struct {
	Start Clock
	End   Clock
}

// String renders the range as "HH:MM - HH:MM".
func (r TimeRange) String() string {
	return r.Start.String() + " - " + r.End.String()
}

// Entry is one extracted availability row: a worker name, the worksheet's
// anchor date and the shift time range. Date carries the calendar day only.
type Entry struct {
	Sheet string
	Date  time.Time
	Name  string
	Range TimeRange
}
