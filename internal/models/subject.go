package models

import (
	"strings"
)

// SlotType names the kind of session a slot offers.
type SlotType string

const (
	SlotLecture SlotType = "lecture"
	SlotLab     SlotType = "lab"
	SlotProject SlotType = "project"
	SlotSeminar SlotType = "seminar"
)

var slotTypeAliases = map[string]SlotType{
	"lecture": SlotLecture,
	"curs":    SlotLecture,
	"course":  SlotLecture,
	"lab":     SlotLab,
	"project": SlotProject,
	"proiect": SlotProject,
	"seminar": SlotSeminar,
	"sem":     SlotSeminar,
}

// ParseSlotType normalises known aliases and keeps unknown types verbatim.
func ParseSlotType(raw string) SlotType {
	key := strings.ToLower(strings.TrimSpace(raw))
	if t, ok := slotTypeAliases[key]; ok {
		return t
	}
	return SlotType(key)
}

// Selectable reports whether the type is picked by default; lectures are not.
func (t SlotType) Selectable() bool {
	return t == SlotLab || t == SlotProject || t == SlotSeminar
}

// SubjectKey identifies one (subject, type) pair. A schedule holds exactly one slot per key.
type SubjectKey struct {
	Subject string   `json:"subject"`
	Type    SlotType `json:"type"`
}

func (k SubjectKey) String() string {
	return k.Subject + " (" + string(k.Type) + ")"
}

// ParseSubjectKey reads the "SUBJECT (type)" notation used in saved settings.
// A bare subject name yields a key with an empty type.
func ParseSubjectKey(raw string) SubjectKey {
	raw = strings.TrimSpace(raw)
	open := strings.LastIndex(raw, "(")
	if open <= 0 || !strings.HasSuffix(raw, ")") {
		return SubjectKey{Subject: raw}
	}
	return SubjectKey{
		Subject: strings.TrimSpace(raw[:open]),
		Type:    ParseSlotType(raw[open+1 : len(raw)-1]),
	}
}

// MarshalText lets keys be used as JSON map keys and list items.
func (k SubjectKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *SubjectKey) UnmarshalText(text []byte) error {
	*k = ParseSubjectKey(string(text))
	return nil
}
