package domain

import (
	"strings"
	"unicode"
)

// Known upstream status values, in their canonical display form.
const (
	StatusNotStarted       = "Not Started"
	StatusDraft            = "Draft"
	StatusInProgress       = "In Progress"
	StatusAwaitingReview   = "Awaiting Review"
	StatusAwaitingApproval = "Awaiting Approval"
	StatusImplemented      = "Implemented"
	StatusAudited          = "Audited"
	StatusNeedsRework      = "Needs Rework"
)

// Item is a clause, sub-clause, annex control, annex category or NIST subcategory.
type Item struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status"`
	Owner  *int   `json:"owner,omitempty"`
}

// Implemented reports whether the normalized status is exactly "Implemented".
func (i Item) Implemented() bool {
	return NormalizeStatus(i.Status) == StatusImplemented
}

// Assigned reports whether the item has an owner. It is independent of Implemented.
func (i Item) Assigned() bool {
	return i.Owner != nil
}

// NormalizeStatus trims and collapses whitespace, defaults an empty value to
// "Not Started", and title-cases every word.
func NormalizeStatus(raw string) string {
	words := strings.Fields(raw)
	if len(words) == 0 {
		return StatusNotStarted
	}
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
