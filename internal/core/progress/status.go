// Package progress turns raw compliance payloads into the normalized
// progress, ratio and status-breakdown shapes used by dashboard cards.
// Everything here is pure: no I/O, no clocks, no shared mutable state.
package progress

import "github.com/kirillkom/framework-progress/internal/core/domain"

// Color is the closed status palette. ColorNotStarted doubles as the default.
type Color int

const (
	ColorNotStarted Color = iota
	ColorDraft
	ColorInProgress
	ColorAwaitingReview
	ColorAwaitingApproval
	ColorImplemented
	ColorAudited
	ColorNeedsRework
)

var colorHex = [...]string{
	ColorNotStarted:       "#94A3B8",
	ColorDraft:            "#D6B971",
	ColorInProgress:       "#FF9800",
	ColorAwaitingReview:   "#6C7BD9",
	ColorAwaitingApproval: "#A78BFA",
	ColorImplemented:      "#13715B",
	ColorAudited:          "#0E7490",
	ColorNeedsRework:      "#DB504A",
}

var colorNames = [...]string{
	ColorNotStarted:       "not_started",
	ColorDraft:            "draft",
	ColorInProgress:       "in_progress",
	ColorAwaitingReview:   "awaiting_review",
	ColorAwaitingApproval: "awaiting_approval",
	ColorImplemented:      "implemented",
	ColorAudited:          "audited",
	ColorNeedsRework:      "needs_rework",
}

func (c Color) valid() bool {
	return c >= ColorNotStarted && c <= ColorNeedsRework
}

// Hex returns the CSS color for c, falling back to the not-started gray.
func (c Color) Hex() string {
	if !c.valid() {
		return colorHex[ColorNotStarted]
	}
	return colorHex[c]
}

// String returns the stable color name used in JSON and logs.
func (c Color) String() string {
	if !c.valid() {
		return colorNames[ColorNotStarted]
	}
	return colorNames[c]
}

// MarshalText encodes c by name.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

var statusColors = map[string]Color{
	domain.StatusNotStarted:       ColorNotStarted,
	domain.StatusDraft:            ColorDraft,
	domain.StatusInProgress:       ColorInProgress,
	domain.StatusAwaitingReview:   ColorAwaitingReview,
	domain.StatusAwaitingApproval: ColorAwaitingApproval,
	domain.StatusImplemented:      ColorImplemented,
	domain.StatusAudited:          ColorAudited,
	domain.StatusNeedsRework:      ColorNeedsRework,
}

// ColorFor is total over all strings. Unknown statuses fall back to the
// "Not Started" color instead of failing.
func ColorFor(status string) Color {
	if c, ok := statusColors[domain.NormalizeStatus(status)]; ok {
		return c
	}
	return ColorNotStarted
}

var statusBuckets = map[string]domain.StatusBucket{
	domain.StatusNotStarted:       domain.BucketNotStarted,
	domain.StatusDraft:            domain.BucketDraft,
	domain.StatusInProgress:       domain.BucketInProgress,
	domain.StatusAwaitingReview:   domain.BucketAwaitingReview,
	domain.StatusAwaitingApproval: domain.BucketAwaitingReview,
	domain.StatusImplemented:      domain.BucketImplemented,
	domain.StatusAudited:          domain.BucketImplemented,
	domain.StatusNeedsRework:      domain.BucketNeedsRework,
}

// BucketFor folds a raw status into one of the six breakdown buckets.
// ok is false for statuses outside the known vocabulary.
func BucketFor(status string) (domain.StatusBucket, bool) {
	b, ok := statusBuckets[domain.NormalizeStatus(status)]
	return b, ok
}
