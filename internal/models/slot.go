package models

import (
	"fmt"
	"strings"
)

// Frequency states whether a slot recurs every week or on one parity only.
type Frequency string

const (
	FrequencyWeekly Frequency = "weekly"
	FrequencyOdd    Frequency = "odd"
	FrequencyEven   Frequency = "even"
)

// ParseFrequency treats anything other than odd/even as weekly.
func ParseFrequency(raw string) Frequency {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "odd":
		return FrequencyOdd
	case "even":
		return FrequencyEven
	default:
		return FrequencyWeekly
	}
}

// Complements reports whether the two frequencies never share a week.
func (f Frequency) Complements(other Frequency) bool {
	return (f == FrequencyOdd && other == FrequencyEven) || (f == FrequencyEven && other == FrequencyOdd)
}

// Slot is one concrete offering of a subject section. Slots are read-only once loaded.
type Slot struct {
	Subject   string    `json:"subject"`
	FullName  string    `json:"fullName,omitempty"`
	Type      SlotType  `json:"type"`
	Day       Weekday   `json:"day"`
	Start     Clock     `json:"start"`
	End       Clock     `json:"end"`
	Room      string    `json:"room,omitempty"`
	Weeks     WeekRange `json:"weeks"`
	Frequency Frequency `json:"frequency"`
	GroupID   string    `json:"groupId,omitempty"`
	Professor string    `json:"prof,omitempty"`
}

// Key returns the subject key the slot belongs to.
func (s Slot) Key() SubjectKey {
	return SubjectKey{Subject: s.Subject, Type: s.Type}
}

// Fingerprint is the content identity of the slot used for schedule deduplication.
func (s Slot) Fingerprint() string {
	return fmt.Sprintf("%s|%s|%d|%d|%d|%s|%s", s.Subject, s.Type, s.Day, s.Start, s.End, s.Frequency, s.GroupID)
}

// SlotRecord is the raw catalog row before normalisation.
type SlotRecord struct {
	Subject   string    `db:"subject" json:"subject"`
	FullName  string    `db:"full_name" json:"fullName"`
	Type      string    `db:"type" json:"type"`
	Day       string    `db:"day" json:"day"`
	Start     Clock     `db:"start_time" json:"start"`
	End       Clock     `db:"end_time" json:"end"`
	Room      string    `db:"room" json:"room"`
	Weeks     WeekRange `db:"weeks" json:"weeks"`
	Frequency string    `db:"frequency" json:"frequency"`
	GroupID   string    `db:"group_id" json:"group_id"`
	Professor string    `db:"prof" json:"prof"`
}

// Slot normalises the record. It fails only when the day cannot be resolved.
func (r SlotRecord) Slot() (Slot, error) {
	day, ok := ParseWeekday(r.Day)
	if !ok {
		return Slot{}, fmt.Errorf("subject %s: unknown day %q", r.Subject, r.Day)
	}
	return Slot{
		Subject:   strings.TrimSpace(r.Subject),
		FullName:  r.FullName,
		Type:      ParseSlotType(r.Type),
		Day:       day,
		Start:     r.Start,
		End:       r.End,
		Room:      r.Room,
		Weeks:     r.Weeks,
		Frequency: ParseFrequency(r.Frequency),
		GroupID:   strings.TrimSpace(r.GroupID),
		Professor: r.Professor,
	}, nil
}
