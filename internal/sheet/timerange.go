package sheet

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrUnrecognizedRange reports a cell that matches no known range notation.
var ErrUnrecognizedRange = errors.New("unrecognized time range")

// The separator between range halves may be a hyphen, en dash or em dash,
// with or without surrounding spaces.
const dashSep = `\s*[-\x{2013}\x{2014}]\s*`

var (
	range24Re = regexp.MustCompile(`(\d{1,2}:\d{2})` + dashSep + `(\d{1,2}:\d{2})`)
	range12Re = regexp.MustCompile(`(?i)(\d{1,2}:\d{2})\s*([AP]M)` + dashSep + `(\d{1,2}:\d{2})\s*([AP]M)`)
)

// ParseRange parses a combined "start - end" cell. It tries the 24-hour
// notation first ("08:00 - 16:00"), then the 12-hour one
// ("8:00 AM - 4:30 PM", meridiem case-insensitive, space optional).
func ParseRange(raw string) (TimeRange, error) {
	s := strings.TrimSpace(raw)

	if m := range24Re.FindStringSubmatch(s); m != nil {
		start, err := parse24(m[1])
		if err != nil {
			return TimeRange{}, err
		}
		end, err := parse24(m[2])
		if err != nil {
			return TimeRange{}, err
		}
		return TimeRange{Start: start, End: end}, nil
	}

	if m := range12Re.FindStringSubmatch(s); m != nil {
		start, err := parse12(m[1], m[2])
		if err != nil {
			return TimeRange{}, err
		}
		end, err := parse12(m[3], m[4])
		if err != nil {
			return TimeRange{}, err
		}
		return TimeRange{Start: start, End: end}, nil
	}

	return TimeRange{}, fmt.Errorf("%w: %q", ErrUnrecognizedRange, raw)
}

var clock12Re = regexp.MustCompile(`^(\d{1,2}:\d{2})\s*([AP]M)$`)

// ParseClock resolves a single cell value to a time of day. It accepts, in
// order: an Excel serial number (the fractional part is the time of day), a
// timestamp string, a 24-hour HH:MM[:SS] string, and a 12-hour HH:MM AM/PM
// string. Anything else is unresolved, which the extractor treats as a row
// skip rather than an error.
func ParseClock(raw string) (Clock, bool) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return Clock{}, false
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if f < 0 {
			return Clock{}, false
		}
		frac := f - math.Floor(f)
		minutes := int(math.Round(frac * 24 * 60))
		if minutes >= 24*60 {
			minutes = 0
		}
		return Clock{Hour: minutes / 60, Minute: minutes % 60}, true
	}

	timestampLayouts := []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		"1/2/06 15:04",
		"01-02-06 15:04",
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Clock{Hour: t.Hour(), Minute: t.Minute()}, true
		}
	}

	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return Clock{Hour: t.Hour(), Minute: t.Minute()}, true
		}
	}

	if m := clock12Re.FindStringSubmatch(s); m != nil {
		if c, err := parse12(m[1], m[2]); err == nil {
			return c, true
		}
	}

	return Clock{}, false
}

func parse24(token string) (Clock, error) {
	t, err := time.Parse("15:04", token)
	if err != nil {
		return Clock{}, fmt.Errorf("%w: %q", ErrUnrecognizedRange, token)
	}
	return Clock{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func parse12(token, meridiem string) (Clock, error) {
	t, err := time.Parse("3:04 PM", token+" "+strings.ToUpper(meridiem))
	if err != nil {
		return Clock{}, fmt.Errorf("%w: %q %s", ErrUnrecognizedRange, token, meridiem)
	}
	return Clock{Hour: t.Hour(), Minute: t.Minute()}, nil
}
