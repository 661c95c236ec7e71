package models

import (
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// Catalog is the immutable set of slots offered in a semester, grouped by subject key.
// It is safe to share between goroutines once built.
type Catalog struct {
	slots []Slot
	keys  []SubjectKey
	byKey map[SubjectKey][]Slot
}

// NewCatalog groups slots by key, keeping catalog order inside each group.
func NewCatalog(slots []Slot) *Catalog {
	c := &Catalog{
		slots: append([]Slot(nil), slots...),
		byKey: make(map[SubjectKey][]Slot),
	}
	for _, slot := range c.slots {
		key := slot.Key()
		if _, ok := c.byKey[key]; !ok {
			c.keys = append(c.keys, key)
		}
		c.byKey[key] = append(c.byKey[key], slot)
	}
	return c
}

// Slots returns every slot in catalog order.
func (c *Catalog) Slots() []Slot {
	if c == nil {
		return nil
	}
	return c.slots
}

// SlotsFor returns the slots offered for key in catalog order.
func (c *Catalog) SlotsFor(key SubjectKey) []Slot {
	if c == nil {
		return nil
	}
	return c.byKey[key]
}

// Has reports whether the catalog offers key at all.
func (c *Catalog) Has(key SubjectKey) bool {
	if c == nil {
		return false
	}
	_, ok := c.byKey[key]
	return ok
}

// Keys returns subject keys sorted by their display form.
func (c *Catalog) Keys() []SubjectKey {
	if c == nil {
		return nil
	}
	keys := append([]SubjectKey(nil), c.keys...)
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	return keys
}

// DefaultSelection returns every lab, project and seminar key.
func (c *Catalog) DefaultSelection() []SubjectKey {
	var selected []SubjectKey
	for _, key := range c.Keys() {
		if key.Type.Selectable() {
			selected = append(selected, key)
		}
	}
	return selected
}

// Groups returns the distinct group labels in natural order ("9" before "10").
func (c *Catalog) Groups() []string {
	if c == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var groups []string
	for _, slot := range c.slots {
		if slot.GroupID == "" {
			continue
		}
		if _, ok := seen[slot.GroupID]; ok {
			continue
		}
		seen[slot.GroupID] = struct{}{}
		groups = append(groups, slot.GroupID)
	}
	sort.SliceStable(groups, func(i, j int) bool { return naturalLess(groups[i], groups[j]) })
	return groups
}

// naturalLess compares leading numbers numerically, then the remainder lexically.
func naturalLess(a, b string) bool {
	na, ra := splitNumericPrefix(a)
	nb, rb := splitNumericPrefix(b)
	if na >= 0 && nb >= 0 && na != nb {
		return na < nb
	}
	if na >= 0 && nb < 0 {
		return true
	}
	if na < 0 && nb >= 0 {
		return false
	}
	return strings.ToLower(ra) < strings.ToLower(rb)
}

func splitNumericPrefix(s string) (int, string) {
	end := strings.IndexFunc(s, func(r rune) bool { return !unicode.IsDigit(r) })
	if end == -1 {
		end = len(s)
	}
	if end == 0 {
		return -1, s
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return -1, s
	}
	return n, s[end:]
}
