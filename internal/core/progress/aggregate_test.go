package progress

import (
	"bytes"
	"log/slog"
	"reflect"
	"strings"
	"testing"

	"github.com/kirillkom/framework-progress/internal/core/domain"
)

var (
	iso27001 = domain.FrameworkInstance{FrameworkID: 3, FrameworkName: "ISO 27001", ProjectFrameworkID: 11}
	iso42001 = domain.FrameworkInstance{FrameworkID: 2, FrameworkName: "ISO 42001", ProjectFrameworkID: 12}
	nistRMF  = domain.FrameworkInstance{FrameworkID: 4, FrameworkName: "NIST AI RMF", ProjectFrameworkID: 13}
)

func newTestAggregator() (*Aggregator, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	return NewAggregator(logger, NewDiscriminator(DefaultFrameworkIDs()), nil), &buf
}

func logLines(buf *bytes.Buffer) []string {
	raw := strings.TrimSpace(buf.String())
	if raw == "" {
		return nil
	}
	return strings.Split(raw, "\n")
}

const iso42001Clauses = `[
	{"id": 1, "title": "Context", "subClauses": [
		{"id": 11, "title": "4.1", "status": "Implemented", "owner": 5},
		{"id": 12, "title": "4.2", "status": "implemented ", "owner": 5},
		{"id": 13, "title": "4.3", "status": "Draft", "owner": 6},
		{"id": 14, "title": "4.4", "status": "In Progress", "owner": null}
	]},
	{"id": 2, "title": "Leadership", "subClauses": [
		{"id": 21, "title": "5.1", "status": "IMPLEMENTED", "owner": 7},
		{"id": 22, "title": "5.2", "status": "Implemented", "owner": 7},
		{"id": 23, "title": "5.3", "status": "Awaiting Review", "owner": 8},
		{"id": 24, "title": "6.1", "status": "Implemented"},
		{"id": 25, "title": "6.2", "status": "Needs Rework"},
		{"id": 26, "title": "6.3", "status": "Implemented", "owner": "9"}
	]}
]`

func TestAggregateISO42001ItemScenario(t *testing.T) {
	agg, buf := newTestAggregator()

	got := agg.Aggregate(iso42001, []byte(iso42001Clauses), nil)

	if got.ClauseProgress != (domain.Progress{Total: 10, Done: 6}) {
		t.Fatalf("unexpected clause progress: %+v", got.ClauseProgress)
	}
	if got.ClauseRatios.CompletionPct != 60 || got.ClauseRatios.AssignmentPct != 70 {
		t.Fatalf("unexpected ratios: %+v", got.ClauseRatios)
	}
	if got.Assignments.ClauseAssigned != 7 || got.Assignments.ClauseTotal != 10 {
		t.Fatalf("unexpected assignments: %+v", got.Assignments)
	}
	if got.BreakdownApproximated {
		t.Fatalf("item breakdown must not be flagged as approximated")
	}
	want := domain.StatusBreakdown{
		domain.BucketNotStarted:     0,
		domain.BucketDraft:          1,
		domain.BucketInProgress:     1,
		domain.BucketAwaitingReview: 1,
		domain.BucketImplemented:    6,
		domain.BucketNeedsRework:    1,
	}
	if !reflect.DeepEqual(got.StatusBreakdown, want) {
		t.Fatalf("unexpected breakdown: %+v", got.StatusBreakdown)
	}
	if lines := logLines(buf); len(lines) != 0 {
		t.Fatalf("expected no warnings, got %v", lines)
	}
}

func TestAggregateIsIdempotent(t *testing.T) {
	agg, _ := newTestAggregator()
	annex := []byte(`{"data": {"totalAnnexcategories": 38, "doneAnnexcategories": 9}}`)

	first := agg.Aggregate(iso42001, []byte(iso42001Clauses), annex)
	second := agg.Aggregate(iso42001, []byte(iso42001Clauses), annex)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical aggregates:\n%+v\n%+v", first, second)
	}
}

func TestAggregateMalformedAnnexLogsKeys(t *testing.T) {
	agg, buf := newTestAggregator()

	got := agg.Aggregate(iso42001, nil, []byte(`{"foo": "bar"}`))

	if got.AnnexProgress != (domain.Progress{}) {
		t.Fatalf("expected zero annex progress, got %+v", got.AnnexProgress)
	}
	lines := logLines(buf)
	if len(lines) != 1 {
		t.Fatalf("expected exactly one warning, got %d: %v", len(lines), lines)
	}
	for _, fragment := range []string{`"level":"WARN"`, `"framework":"ISO 42001"`, `"keys":["foo"]`} {
		if !strings.Contains(lines[0], fragment) {
			t.Fatalf("expected %s in %s", fragment, lines[0])
		}
	}
	if len(got.Warnings) != 1 || got.Warnings[0].Kind != domain.WarningShapeMismatch {
		t.Fatalf("unexpected warnings: %+v", got.Warnings)
	}
}

func TestAggregateCountsPayloadApproximatesBreakdown(t *testing.T) {
	agg, _ := newTestAggregator()

	got := agg.Aggregate(iso27001,
		[]byte(`{"totalSubclauses": 20, "doneSubclauses": 10}`),
		[]byte(`{"data": {"totalAnnexControls": "0", "doneAnnexControls": "0"}}`),
	)

	if got.ClauseProgress != (domain.Progress{Total: 20, Done: 10}) {
		t.Fatalf("unexpected clause progress: %+v", got.ClauseProgress)
	}
	if got.ClauseRatios.CompletionPct != 50 {
		t.Fatalf("expected 50%%, got %d", got.ClauseRatios.CompletionPct)
	}
	if !got.BreakdownApproximated {
		t.Fatalf("expected approximated breakdown")
	}
	if got.StatusBreakdown[domain.BucketImplemented] != 5 ||
		got.StatusBreakdown[domain.BucketAwaitingReview] != 2 ||
		got.StatusBreakdown[domain.BucketInProgress] != 3 ||
		got.StatusBreakdown[domain.BucketNotStarted] != 10 {
		t.Fatalf("unexpected breakdown: %+v", got.StatusBreakdown)
	}
}

func TestAggregateClampsCompletionWhenDoneExceedsTotal(t *testing.T) {
	agg, _ := newTestAggregator()
	got := agg.Aggregate(iso27001, []byte(`{"totalSubclauses": 4, "doneSubclauses": 9}`), nil)
	if got.ClauseRatios.CompletionPct != 100 {
		t.Fatalf("expected clamp to 100, got %d", got.ClauseRatios.CompletionPct)
	}
}

func TestAggregateBoundsOversizedFloatCounts(t *testing.T) {
	agg, _ := newTestAggregator()
	got := agg.Aggregate(iso27001, []byte(`{"totalSubclauses": 10, "doneSubclauses": 1e30}`), nil)
	if got.ClauseProgress.Total != 10 || got.ClauseProgress.Done != maxCount {
		t.Fatalf("expected done bounded to %d, got %+v", maxCount, got.ClauseProgress)
	}
	if got.ClauseRatios.CompletionPct != 100 {
		t.Fatalf("expected clamp to 100, got %d", got.ClauseRatios.CompletionPct)
	}
}

func TestAggregatePrefersCamelCaseAnnexControls(t *testing.T) {
	agg, _ := newTestAggregator()
	annexes := `{"annexes": [
		{"id": 1, "annexControls": [{"id": 1, "status": "Implemented"}, {"id": 2, "status": "Draft"}],
		          "annexcontrols": [{"id": 9, "status": "Draft"}]},
		{"id": 2, "annexcontrols": [{"id": 3, "status": "Implemented", "owner": 4}]}
	]}`

	got := agg.Aggregate(iso27001, nil, []byte(annexes))

	if got.AnnexProgress != (domain.Progress{Total: 3, Done: 2}) {
		t.Fatalf("unexpected annex progress: %+v", got.AnnexProgress)
	}
	if got.Assignments.AnnexAssigned != 1 || got.Assignments.AnnexTotal != 3 {
		t.Fatalf("unexpected annex assignments: %+v", got.Assignments)
	}
}

func TestAggregateUnknownFamilyIsZero(t *testing.T) {
	agg, buf := newTestAggregator()
	instance := domain.FrameworkInstance{FrameworkID: 1, FrameworkName: "EU AI Act"}

	got := agg.Aggregate(instance, []byte(`{"totalSubclauses": 3}`), []byte(`garbage`))
	if !reflect.DeepEqual(got, domain.ZeroProgress(instance, domain.FamilyUnknown)) {
		t.Fatalf("expected zero aggregate, got %+v", got)
	}
	if buf.Len() != 0 {
		t.Fatalf("unknown family should not log, got %s", buf.String())
	}
}

func TestAggregateDropsUnmappedStatusesWithWarning(t *testing.T) {
	agg, buf := newTestAggregator()
	items := `[{"id": 1, "status": "Blocked"}, {"id": 2, "status": "blocked"}, {"id": 3, "status": "Implemented"}]`

	got := agg.Aggregate(iso27001, []byte(items), nil)

	if got.StatusBreakdown.Total() != 1 {
		t.Fatalf("expected unmapped statuses dropped, got %+v", got.StatusBreakdown)
	}
	if got.ClauseProgress.Total != 3 {
		t.Fatalf("progress must still count every item, got %+v", got.ClauseProgress)
	}
	if !strings.Contains(buf.String(), "status_bucket_unmapped") || len(logLines(buf)) != 1 {
		t.Fatalf("expected one unmapped warning, got %s", buf.String())
	}
}

func TestApplyAssignmentsClampsAssignedToTotal(t *testing.T) {
	agg, buf := newTestAggregator()
	base := agg.Aggregate(iso27001, []byte(`{"totalSubclauses": 10, "doneSubclauses": 4}`), nil)

	got := agg.ApplyAssignments(base, []byte(`{"totalSubclauses": 10, "assignedSubclauses": 12}`), nil)

	if got.Assignments.ClauseAssigned != 10 || got.Assignments.ClauseTotal != 10 {
		t.Fatalf("expected clamp to 10/10, got %+v", got.Assignments)
	}
	if got.ClauseRatios.AssignmentPct != 100 {
		t.Fatalf("expected 100%% assignment, got %d", got.ClauseRatios.AssignmentPct)
	}
	if len(got.Warnings) != 1 || got.Warnings[0].Kind != domain.WarningAssignedClamped {
		t.Fatalf("expected consistency warning, got %+v", got.Warnings)
	}
	if !strings.Contains(buf.String(), "assignment_count_clamped") {
		t.Fatalf("expected clamp log entry, got %s", buf.String())
	}
	if len(base.Warnings) != 0 {
		t.Fatalf("input aggregate must not be mutated, got %+v", base.Warnings)
	}
}

func TestApplyAssignmentsReadsDoublyNestedAnnexPayload(t *testing.T) {
	agg, _ := newTestAggregator()
	base := agg.Aggregate(iso27001, nil, []byte(`{"totalAnnexControls": 93, "doneAnnexControls": 30}`))

	got := agg.ApplyAssignments(base, nil,
		[]byte(`{"message": "OK", "data": {"data": {"totalAnnexControls": 93, "assignedAnnexControls": 40}}}`))

	if got.Assignments.AnnexAssigned != 40 || got.Assignments.AnnexTotal != 93 {
		t.Fatalf("unexpected annex assignments: %+v", got.Assignments)
	}
	if got.AnnexRatios.AssignmentPct != 43 {
		t.Fatalf("expected 43%%, got %d", got.AnnexRatios.AssignmentPct)
	}
}

func TestApplyStatusBreakdownFoldsAwaitingBuckets(t *testing.T) {
	agg, buf := newTestAggregator()
	base := agg.Aggregate(nistRMF, []byte(`{"totalSubcategories": 13, "doneSubcategories": 5}`), nil)

	got := agg.ApplyStatusBreakdown(base, []byte(`{"data": {
		"notStarted": 2, "draft": 1, "inProgress": 3, "awaitingReview": 1,
		"awaitingApproval": 2, "implemented": 5, "needsRework": 0}}`))

	want := domain.StatusBreakdown{
		domain.BucketNotStarted:     2,
		domain.BucketDraft:          1,
		domain.BucketInProgress:     3,
		domain.BucketAwaitingReview: 3,
		domain.BucketImplemented:    5,
		domain.BucketNeedsRework:    0,
	}
	if !reflect.DeepEqual(got.StatusBreakdown, want) {
		t.Fatalf("unexpected breakdown: %+v", got.StatusBreakdown)
	}
	if got.BreakdownApproximated {
		t.Fatalf("endpoint breakdown is ground truth")
	}
	if buf.Len() != 0 {
		t.Fatalf("unexpected logs: %s", buf.String())
	}
}

func TestAggregateNISTFlattensCategoryTree(t *testing.T) {
	agg, _ := newTestAggregator()
	tree := `{"categories": [
		{"id": 1, "subcategories": [{"id": 1, "status": "Implemented", "owner": 1}, {"id": 2, "status": "Draft"}]},
		{"id": 2, "subcategories": [{"id": 3, "status": "Not Started"}]}
	]}`

	got := agg.Aggregate(nistRMF, []byte(tree), []byte(`{"ignored": true}`))

	if got.ClauseProgress != (domain.Progress{Total: 3, Done: 1}) {
		t.Fatalf("unexpected progress: %+v", got.ClauseProgress)
	}
	if got.AnnexProgress != (domain.Progress{}) {
		t.Fatalf("nist has no annex section, got %+v", got.AnnexProgress)
	}
	if len(got.Warnings) != 0 {
		t.Fatalf("annex payload must be ignored for nist, got %+v", got.Warnings)
	}
}

func TestBuildNISTIncludesFunctions(t *testing.T) {
	agg, _ := newTestAggregator()
	payloads := map[FetchKey][]byte{
		FetchClauseProgress:      []byte(`{"totalSubcategories": 72, "doneSubcategories": 18}`),
		FetchClauseAssignments:   []byte(`{"totalSubcategories": 72, "assignedSubcategories": 36}`),
		FetchFunctionProgress:    []byte(`[{"function": "govern", "total": 19, "done": 5}, {"function": "MAP", "total": 18, "done": 4}]`),
		FetchFunctionAssignments: []byte(`{"data": [{"function": "GOVERN", "total": 19, "assigned": 25}, {"function": "MANAGE", "total": 13, "assigned": 2}]}`),
	}

	got := agg.Build(nistRMF, payloads)

	if got.ClauseRatios.CompletionPct != 25 || got.ClauseRatios.AssignmentPct != 50 {
		t.Fatalf("unexpected ratios: %+v", got.ClauseRatios)
	}
	want := []domain.FunctionProgress{
		{Function: "GOVERN", Total: 19, Done: 5, Assigned: 19},
		{Function: "MAP", Total: 18, Done: 4},
		{Function: "MANAGE", Total: 13, Assigned: 2},
	}
	if !reflect.DeepEqual(got.Functions, want) {
		t.Fatalf("unexpected functions: %+v", got.Functions)
	}
	if got.BreakdownApproximated {
		t.Fatalf("nist breakdown is never approximated")
	}
}
