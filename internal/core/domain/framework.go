package domain

import (
	"fmt"
	"strings"
)

// Family is the discriminated framework type.
type Family string

const (
	FamilyUnknown   Family = "unknown"
	FamilyISO27001  Family = "iso27001"
	FamilyISO42001  Family = "iso42001"
	FamilyNISTAIRMF Family = "nist_ai_rmf"
)

// Families lists the known families in dashboard tab order.
var Families = []Family{FamilyISO27001, FamilyISO42001, FamilyNISTAIRMF}

func ParseFamily(raw string) (Family, error) {
	switch Family(strings.ToLower(strings.TrimSpace(raw))) {
	case FamilyISO27001:
		return FamilyISO27001, nil
	case FamilyISO42001:
		return FamilyISO42001, nil
	case FamilyNISTAIRMF:
		return FamilyNISTAIRMF, nil
	case FamilyUnknown:
		return FamilyUnknown, nil
	default:
		return FamilyUnknown, fmt.Errorf("unknown framework family %q", raw)
	}
}

// Slug is the route segment used by upstream endpoints and UI routes.
func (f Family) Slug() string {
	switch f {
	case FamilyISO27001:
		return "iso-27001"
	case FamilyISO42001:
		return "iso-42001"
	case FamilyNISTAIRMF:
		return "nist-ai-rmf"
	default:
		return ""
	}
}

// FrameworkInstance identifies one regulatory framework attached to one project.
type FrameworkInstance struct {
	FrameworkID        int    `json:"framework_id"`
	FrameworkName      string `json:"framework_name"`
	ProjectFrameworkID int    `json:"project_framework_id"`
}

// Section names a dashboard sub-collection.
type Section string

const (
	SectionClauses Section = "clauses"
	SectionAnnexes Section = "annexes"
)

type Progress struct {
	Total int `json:"total"`
	Done  int `json:"done"`
}

type Ratios struct {
	CompletionPct int `json:"completion_pct"`
	AssignmentPct int `json:"assignment_pct"`
}

type AssignmentCounts struct {
	ClauseAssigned int `json:"clause_assigned"`
	ClauseTotal    int `json:"clause_total"`
	AnnexAssigned  int `json:"annex_assigned"`
	AnnexTotal     int `json:"annex_total"`
}

// StatusBucket is one of the six canonical lifecycle states used by breakdown charts.
type StatusBucket string

const (
	BucketNotStarted     StatusBucket = "not started"
	BucketDraft          StatusBucket = "draft"
	BucketInProgress     StatusBucket = "in progress"
	BucketAwaitingReview StatusBucket = "awaiting review"
	BucketImplemented    StatusBucket = "implemented"
	BucketNeedsRework    StatusBucket = "needs rework"
)

// StatusBuckets is the closed bucket vocabulary in chart order.
var StatusBuckets = []StatusBucket{
	BucketNotStarted,
	BucketDraft,
	BucketInProgress,
	BucketAwaitingReview,
	BucketImplemented,
	BucketNeedsRework,
}

// StatusBreakdown maps every bucket to a count. There is no "other" bucket.
type StatusBreakdown map[StatusBucket]int

func NewStatusBreakdown() StatusBreakdown {
	out := make(StatusBreakdown, len(StatusBuckets))
	for _, b := range StatusBuckets {
		out[b] = 0
	}
	return out
}

func (b StatusBreakdown) Total() int {
	total := 0
	for _, n := range b {
		total += n
	}
	return total
}

// Terminology holds the family-specific labels shown on a dashboard card.
type Terminology struct {
	Clauses    string `json:"clauses"`
	Annexes    string `json:"annexes"`
	ClauseItem string `json:"clause_item"`
	AnnexItem  string `json:"annex_item"`
}

// FunctionProgress is the NIST AI RMF per-function detail.
type FunctionProgress struct {
	Function string `json:"function"`
	Total    int    `json:"total"`
	Done     int    `json:"done"`
	Assigned int    `json:"assigned"`
}

type WarningKind string

const (
	WarningShapeMismatch   WarningKind = "shape_mismatch"
	WarningAssignedClamped WarningKind = "assigned_clamped"
	WarningUnmappedStatus  WarningKind = "unmapped_status"
)

// Warning records a data problem that was corrected or absorbed during aggregation.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Section string      `json:"section"`
	Message string      `json:"message"`
}

// AggregatedProgress is derived per FrameworkInstance on every fetch cycle and never persisted.
type AggregatedProgress struct {
	Framework             FrameworkInstance  `json:"framework"`
	Family                Family             `json:"family"`
	ClauseProgress        Progress           `json:"clause_progress"`
	AnnexProgress         Progress           `json:"annex_progress"`
	ClauseRatios          Ratios             `json:"clause_ratios"`
	AnnexRatios           Ratios             `json:"annex_ratios"`
	Assignments           AssignmentCounts   `json:"assignments"`
	StatusBreakdown       StatusBreakdown    `json:"status_breakdown"`
	BreakdownApproximated bool               `json:"breakdown_approximated"`
	Functions             []FunctionProgress `json:"functions,omitempty"`
	Warnings              []Warning          `json:"warnings,omitempty"`
}

// ZeroProgress returns the empty aggregate used whenever data is missing.
func ZeroProgress(instance FrameworkInstance, family Family) AggregatedProgress {
	return AggregatedProgress{
		Framework:       instance,
		Family:          family,
		StatusBreakdown: NewStatusBreakdown(),
	}
}

// IsEmpty reports whether the aggregate carries no items at all.
func (p AggregatedProgress) IsEmpty() bool {
	return p.ClauseProgress.Total == 0 && p.AnnexProgress.Total == 0 && p.StatusBreakdown.Total() == 0
}
