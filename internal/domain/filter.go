package domain

import "strings"

// Filter is the read-side predicate set. Zero-valued fields are unset, and
// all set predicates must hold. Date bounds are inclusive.
type Filter struct {
	DateFrom            Date
	DateTo              Date
	Type                EntryType
	ParticularsContains string // case-insensitive substring
}

// IsEmpty reports whether no predicate is set.
func (f Filter) IsEmpty() bool {
	return f.DateFrom.IsZero() && f.DateTo.IsZero() && f.Type == "" && f.ParticularsContains == ""
}

// Match reports whether e satisfies every set predicate.
func (f Filter) Match(e Entry) bool {
	if !f.DateFrom.IsZero() && e.Date.Before(f.DateFrom) {
		return false
	}
	if !f.DateTo.IsZero() && e.Date.After(f.DateTo) {
		return false
	}
	if f.Type != "" && e.Type != f.Type {
		return false
	}
	if f.ParticularsContains != "" &&
		!strings.Contains(strings.ToLower(e.Particulars), strings.ToLower(f.ParticularsContains)) {
		return false
	}
	return true
}

// Apply returns the entries matching f, keeping their order. The result is
// always a fresh slice; entries are copied, never modified.
func (f Filter) Apply(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	return out
}
