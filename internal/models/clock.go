package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Clock is a time of day expressed in minutes after midnight.
type Clock int

// Hour returns the clock value for a whole hour.
func Hour(h int) Clock {
	return Clock(h * 60)
}

// At returns the clock value for hour:minute.
func At(h, m int) Clock {
	return Clock(h*60 + m)
}

// Hour returns the hour component.
func (c Clock) Hour() int {
	return int(c) / 60
}

// Minute returns the minute component.
func (c Clock) Minute() int {
	return int(c) % 60
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// ParseClock accepts "14", "14:30" or "8:00".
func ParseClock(raw string) (Clock, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("empty time value")
	}
	hourPart, minutePart, hasMinutes := strings.Cut(raw, ":")
	h, err := strconv.Atoi(hourPart)
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q", raw)
	}
	m := 0
	if hasMinutes {
		if m, err = strconv.Atoi(minutePart); err != nil {
			return 0, fmt.Errorf("invalid minutes in %q", raw)
		}
	}
	if h < 0 || h > 24 || m < 0 || m > 59 {
		return 0, fmt.Errorf("time %q out of range", raw)
	}
	return At(h, m), nil
}

// MarshalJSON emits whole hours as numbers and anything else as "HH:MM".
func (c Clock) MarshalJSON() ([]byte, error) {
	if c.Minute() == 0 {
		return []byte(strconv.Itoa(c.Hour())), nil
	}
	return json.Marshal(c.String())
}

// UnmarshalJSON accepts an hour number (fractions allowed) or a clock string.
func (c *Clock) UnmarshalJSON(data []byte) error {
	var number float64
	if err := json.Unmarshal(data, &number); err == nil {
		*c = Clock(math.Round(number * 60))
		return nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return fmt.Errorf("time must be a number or string: %w", err)
	}
	parsed, err := ParseClock(text)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Scan reads hour integers or clock strings from the catalog table.
func (c *Clock) Scan(src any) error {
	switch v := src.(type) {
	case int64:
		*c = Hour(int(v))
		return nil
	case float64:
		*c = Clock(math.Round(v * 60))
		return nil
	case []byte:
		return c.scanText(string(v))
	case string:
		return c.scanText(v)
	case nil:
		return fmt.Errorf("time column is null")
	default:
		return fmt.Errorf("unsupported time column type %T", src)
	}
}

func (c *Clock) scanText(raw string) error {
	parsed, err := ParseClock(raw)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Value stores the clock as "HH:MM".
func (c Clock) Value() (driver.Value, error) {
	return c.String(), nil
}
