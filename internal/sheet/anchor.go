package sheet

import (
	"regexp"
	"time"
)

var anchorDateRe = regexp.MustCompile(`\d{2}/\d{2}/\d{4}`)

// anchorDate scans the configured header row for the first cell containing
// a DD/MM/YYYY substring and returns it as a calendar date. A worksheet
// without one contributes nothing; the caller skips it.
func anchorDate(rows [][]string, headerRow int) (time.Time, bool) {
	if headerRow > len(rows) {
		return time.Time{}, false
	}
	for _, cell := range rows[headerRow-1] {
		match := anchorDateRe.FindString(cell)
		if match == "" {
			continue
		}
		date, err := time.Parse("02/01/2006", match)
		if err != nil {
			// Date-shaped text that is not a real date; keep scanning.
			continue
		}
		return date, true
	}
	return time.Time{}, false
}
