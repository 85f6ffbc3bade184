package progress

import (
	"math"
	"strings"

	"github.com/kirillkom/framework-progress/internal/core/domain"
)

// ApproximationStrategy produces a status breakdown when the backend only
// reports total/done counts. Its output is an estimate, never ground truth:
// cards built from it carry BreakdownApproximated=true.
type ApproximationStrategy interface {
	Approximate(total, done int) domain.StatusBreakdown
}

// ProportionalSplit allocates "done" across implemented, awaiting review and
// in progress by fixed shares. Items that are not done count as not started.
type ProportionalSplit struct {
	Implemented    float64
	AwaitingReview float64
	InProgress     float64
}

// DefaultApproximation is the 50/20/30 split the dashboards have always shown.
// The shares are product-decision constants awaiting confirmation from the
// domain owners; keep them literal.
func DefaultApproximation() ProportionalSplit {
	return ProportionalSplit{Implemented: 0.5, AwaitingReview: 0.2, InProgress: 0.3}
}

func (s ProportionalSplit) Approximate(total, done int) domain.StatusBreakdown {
	out := domain.NewStatusBreakdown()
	done = max(done, 0)
	total = max(total, 0)

	implemented := min(roundHalfUp(float64(done)*s.Implemented), done)
	review := min(roundHalfUp(float64(done)*s.AwaitingReview), done-implemented)

	out[domain.BucketImplemented] = implemented
	out[domain.BucketAwaitingReview] = review
	out[domain.BucketInProgress] = done - implemented - review
	out[domain.BucketNotStarted] = max(total-done, 0)
	return out
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

// breakdownFields maps normalized status-breakdown field names to buckets.
// awaitingApproval folds into the awaiting review bucket.
var breakdownFields = map[string]domain.StatusBucket{
	"notstarted":       domain.BucketNotStarted,
	"draft":            domain.BucketDraft,
	"inprogress":       domain.BucketInProgress,
	"awaitingreview":   domain.BucketAwaitingReview,
	"awaitingapproval": domain.BucketAwaitingReview,
	"implemented":      domain.BucketImplemented,
	"audited":          domain.BucketImplemented,
	"needsrework":      domain.BucketNeedsRework,
}

// Envelope fields that are not statuses.
var breakdownIgnored = map[string]bool{
	"total": true,
	"id":    true,
}

func normalizeFieldKey(key string) string {
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.ToLower(key))
}

func isBreakdownPayload(v any) bool {
	obj, ok := v.(map[string]any)
	if !ok {
		return false
	}
	for key := range obj {
		if _, known := breakdownFields[normalizeFieldKey(key)]; known {
			return true
		}
	}
	return false
}
