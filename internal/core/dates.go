package core

import "time"

// DateLayout is the canonical textual layout used when the engine writes dates.
const DateLayout = "2006-01-02"

// dateLayouts are the accepted input layouts, tried in order. The first layout
// that parses wins, so "2024-01-02" is always year-first, never day-first.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02-01-2006",
	"02/01/2006",
}

// ParseDate parses a textual date in any of the accepted layouts.
// Returns ErrInvalidDate when no layout matches.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

// FormatDate renders a time in the canonical layout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
