package progress

import (
	"fmt"

	"github.com/kirillkom/framework-progress/internal/core/domain"
)

// FetchKey names one upstream sub-fetch of a framework card.
type FetchKey string

const (
	FetchClauseProgress      FetchKey = "clause_progress"
	FetchAnnexProgress       FetchKey = "annex_progress"
	FetchClauseAssignments   FetchKey = "clause_assignments"
	FetchAnnexAssignments    FetchKey = "annex_assignments"
	FetchStatusBreakdown     FetchKey = "status_breakdown"
	FetchFunctionProgress    FetchKey = "function_progress"
	FetchFunctionAssignments FetchKey = "function_assignments"
)

type Fetch struct {
	Key   FetchKey
	Route string
}

// PlanFor lists the upstream routes needed for one framework card. Unknown
// families need no fetches.
func PlanFor(family domain.Family, projectFrameworkID int) []Fetch {
	switch family {
	case domain.FamilyISO27001, domain.FamilyISO42001:
		slug := family.Slug()
		return []Fetch{
			{Key: FetchClauseProgress, Route: fmt.Sprintf("/%s/clauses/progress/%d", slug, projectFrameworkID)},
			{Key: FetchAnnexProgress, Route: fmt.Sprintf("/%s/annexes/progress/%d", slug, projectFrameworkID)},
			{Key: FetchClauseAssignments, Route: fmt.Sprintf("/%s/clauses/assignments/%d", slug, projectFrameworkID)},
			{Key: FetchAnnexAssignments, Route: fmt.Sprintf("/%s/annexes/assignments/%d", slug, projectFrameworkID)},
		}
	case domain.FamilyNISTAIRMF:
		return []Fetch{
			{Key: FetchClauseProgress, Route: "/nist-ai-rmf/progress"},
			{Key: FetchClauseAssignments, Route: "/nist-ai-rmf/assignments"},
			{Key: FetchStatusBreakdown, Route: "/nist-ai-rmf/status-breakdown"},
			{Key: FetchFunctionProgress, Route: "/nist-ai-rmf/progress-by-function"},
			{Key: FetchFunctionAssignments, Route: "/nist-ai-rmf/assignments-by-function"},
		}
	default:
		return nil
	}
}

// Build runs the aggregator over fetched payloads keyed by FetchKey. Missing
// keys are treated as failed fetches.
func (a *Aggregator) Build(instance domain.FrameworkInstance, payloads map[FetchKey][]byte) domain.AggregatedProgress {
	out := a.Aggregate(instance, payloads[FetchClauseProgress], payloads[FetchAnnexProgress])
	out = a.ApplyAssignments(out, payloads[FetchClauseAssignments], payloads[FetchAnnexAssignments])
	if out.Family != domain.FamilyNISTAIRMF {
		return out
	}
	out = a.ApplyStatusBreakdown(out, payloads[FetchStatusBreakdown])
	return a.ApplyFunctions(out, payloads[FetchFunctionProgress], payloads[FetchFunctionAssignments])
}
