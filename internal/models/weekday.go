package models

import (
	"fmt"
	"strings"
)

// Weekday identifies one of the five teaching days.
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
)

// Weekdays lists the teaching days in calendar order.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday}

var weekdayNames = map[Weekday]string{
	Monday:    "Monday",
	Tuesday:   "Tuesday",
	Wednesday: "Wednesday",
	Thursday:  "Thursday",
	Friday:    "Friday",
}

// Catalog exports from the faculty use Romanian day names.
var weekdayAliases = map[string]Weekday{
	"monday":    Monday,
	"mon":       Monday,
	"luni":      Monday,
	"tuesday":   Tuesday,
	"tue":       Tuesday,
	"marti":     Tuesday,
	"marți":     Tuesday,
	"wednesday": Wednesday,
	"wed":       Wednesday,
	"miercuri":  Wednesday,
	"thursday":  Thursday,
	"thu":       Thursday,
	"joi":       Thursday,
	"friday":    Friday,
	"fri":       Friday,
	"vineri":    Friday,
}

// ParseWeekday resolves an English or Romanian day name.
func ParseWeekday(raw string) (Weekday, bool) {
	day, ok := weekdayAliases[strings.ToLower(strings.TrimSpace(raw))]
	return day, ok
}

// Valid reports whether the value is one of the five teaching days.
func (d Weekday) Valid() bool {
	return d >= Monday && d <= Friday
}

func (d Weekday) String() string {
	if name, ok := weekdayNames[d]; ok {
		return name
	}
	return fmt.Sprintf("Weekday(%d)", int(d))
}

// MarshalText implements encoding.TextMarshaler, which also covers map keys.
func (d Weekday) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("invalid weekday %d", int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Weekday) UnmarshalText(text []byte) error {
	day, ok := ParseWeekday(string(text))
	if !ok {
		return fmt.Errorf("unknown weekday %q", string(text))
	}
	*d = day
	return nil
}
