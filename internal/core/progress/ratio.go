package progress

import (
	"math"

	"github.com/kirillkom/framework-progress/internal/core/domain"
)

// Percent returns round-half-up(100*part/total) clamped to [0, 100].
// A zero or negative total yields 0.
func Percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	pct := math.Floor(100*float64(part)/float64(total) + 0.5)
	return clampPercent(int(math.Max(math.Min(pct, 100), 0)))
}

func clampPercent(pct int) int {
	switch {
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	default:
		return pct
	}
}

// ComputeRatios derives completion and assignment percentages from items.
func ComputeRatios(items []domain.Item) domain.Ratios {
	if len(items) == 0 {
		return domain.Ratios{}
	}
	done, assigned := countItems(items)
	return domain.Ratios{
		CompletionPct: Percent(done, len(items)),
		AssignmentPct: Percent(assigned, len(items)),
	}
}

func countItems(items []domain.Item) (done, assigned int) {
	for _, item := range items {
		if item.Implemented() {
			done++
		}
		if item.Assigned() {
			assigned++
		}
	}
	return done, assigned
}
