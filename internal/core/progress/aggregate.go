package progress

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/kirillkom/framework-progress/internal/core/domain"
)

// Aggregator builds AggregatedProgress values from raw upstream payloads.
// It never returns errors: malformed or missing data degrades to zero counts
// and is reported through the logger and the Warnings field.
type Aggregator struct {
	logger        *slog.Logger
	families      *Discriminator
	approximation ApproximationStrategy
}

func NewAggregator(logger *slog.Logger, families *Discriminator, approximation ApproximationStrategy) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	if families == nil {
		families = NewDiscriminator(DefaultFrameworkIDs())
	}
	if approximation == nil {
		approximation = DefaultApproximation()
	}
	return &Aggregator{
		logger:        logger,
		families:      families,
		approximation: approximation,
	}
}

func (a *Aggregator) FamilyOf(instance domain.FrameworkInstance) domain.Family {
	return a.families.FamilyOf(instance)
}

// Aggregate builds clause and annex progress for one framework instance.
// A nil payload means the fetch already failed and was logged by the caller.
func (a *Aggregator) Aggregate(instance domain.FrameworkInstance, rawClause, rawAnnex []byte) domain.AggregatedProgress {
	family := a.families.FamilyOf(instance)
	out := domain.ZeroProgress(instance, family)
	if family == domain.FamilyUnknown {
		return out
	}

	clause := a.readSection(&out, domain.SectionClauses, "clauses", rawClause)
	var annex sectionData
	if family != domain.FamilyNISTAIRMF {
		annex = a.readSection(&out, domain.SectionAnnexes, "annexes", rawAnnex)
	}

	out.ClauseProgress = domain.Progress{Total: clause.total, Done: clause.done}
	out.AnnexProgress = domain.Progress{Total: annex.total, Done: annex.done}
	out.ClauseRatios = sectionRatios(clause)
	out.AnnexRatios = sectionRatios(annex)

	if clause.hasAssigned {
		out.Assignments.ClauseAssigned = a.clampAssigned(&out, "clauses", clause.assigned, clause.total)
		out.Assignments.ClauseTotal = clause.total
	}
	if annex.hasAssigned {
		out.Assignments.AnnexAssigned = a.clampAssigned(&out, "annexes", annex.assigned, annex.total)
		out.Assignments.AnnexTotal = annex.total
	}

	out.StatusBreakdown, out.BreakdownApproximated = a.breakdown(&out, clause, annex)
	return out
}

// ApplyAssignments overlays the dedicated assignment endpoints onto p.
func (a *Aggregator) ApplyAssignments(p domain.AggregatedProgress, rawClause, rawAnnex []byte) domain.AggregatedProgress {
	out := cloneProgress(p)
	if out.Family == domain.FamilyUnknown {
		return out
	}

	clause := a.readSection(&out, domain.SectionClauses, "clause_assignments", rawClause)
	if clause.present && clause.hasAssigned {
		assigned := a.clampAssigned(&out, "clause_assignments", clause.assigned, clause.total)
		out.Assignments.ClauseAssigned = assigned
		out.Assignments.ClauseTotal = clause.total
		out.ClauseRatios.AssignmentPct = Percent(assigned, clause.total)
	}
	if out.Family == domain.FamilyNISTAIRMF {
		return out
	}

	annex := a.readSection(&out, domain.SectionAnnexes, "annex_assignments", rawAnnex)
	if annex.present && annex.hasAssigned {
		assigned := a.clampAssigned(&out, "annex_assignments", annex.assigned, annex.total)
		out.Assignments.AnnexAssigned = assigned
		out.Assignments.AnnexTotal = annex.total
		out.AnnexRatios.AssignmentPct = Percent(assigned, annex.total)
	}
	return out
}

// ApplyStatusBreakdown replaces the breakdown with pre-computed per-status
// counts. Such a breakdown is ground truth.
func (a *Aggregator) ApplyStatusBreakdown(p domain.AggregatedProgress, raw []byte) domain.AggregatedProgress {
	out := cloneProgress(p)
	if raw == nil || out.Family == domain.FamilyUnknown {
		return out
	}

	payload, keys, ok := locate(raw, isBreakdownPayload)
	if !ok {
		a.shapeMismatch(&out, "status_breakdown", keys)
		return out
	}

	obj := payload.(map[string]any)
	breakdown := domain.NewStatusBreakdown()
	for _, key := range sortedKeys(obj) {
		normalized := normalizeFieldKey(key)
		if breakdownIgnored[normalized] {
			continue
		}
		n, isNumber := intValue(obj[key])
		if !isNumber {
			continue
		}
		bucket, known := breakdownFields[normalized]
		if !known {
			a.warn(&out, domain.WarningUnmappedStatus, "status_breakdown", "status_bucket_unmapped",
				fmt.Sprintf("status field %q has no bucket; %d items dropped", key, n),
				"status", key, "count", n)
			continue
		}
		breakdown[bucket] += max(n, 0)
	}

	out.StatusBreakdown = breakdown
	out.BreakdownApproximated = false
	return out
}

// ApplyFunctions attaches per-function progress and assignment counts.
func (a *Aggregator) ApplyFunctions(p domain.AggregatedProgress, rawProgress, rawAssignments []byte) domain.AggregatedProgress {
	out := cloneProgress(p)
	if out.Family == domain.FamilyUnknown {
		return out
	}

	var rows []functionRow
	if rawProgress != nil {
		payload, keys, ok := locate(rawProgress, isFunctionPayload)
		if ok {
			rows = readFunctions(payload)
		} else {
			a.shapeMismatch(&out, "function_progress", keys)
		}
	}
	if rawAssignments != nil {
		payload, keys, ok := locate(rawAssignments, isFunctionPayload)
		if ok {
			rows = mergeFunctionAssignments(rows, readFunctions(payload))
		} else {
			a.shapeMismatch(&out, "function_assignments", keys)
		}
	}
	if len(rows) == 0 {
		return out
	}

	functions := make([]domain.FunctionProgress, 0, len(rows))
	for _, row := range rows {
		functions = append(functions, domain.FunctionProgress{
			Function: row.name,
			Total:    row.total,
			Done:     row.done,
			Assigned: a.clampAssigned(&out, "function_assignments:"+row.name, row.assigned, row.total),
		})
	}
	out.Functions = functions
	return out
}

func (a *Aggregator) readSection(out *domain.AggregatedProgress, section domain.Section, label string, raw []byte) sectionData {
	if raw == nil {
		return sectionData{}
	}
	shape, ok := shapeFor(out.Family, section)
	if !ok {
		return sectionData{}
	}
	payload, keys, ok := locate(raw, shape.plausible)
	if !ok {
		a.shapeMismatch(out, label, keys)
		return sectionData{}
	}
	return shape.read(payload)
}

func (a *Aggregator) breakdown(out *domain.AggregatedProgress, sections ...sectionData) (domain.StatusBreakdown, bool) {
	breakdown := domain.NewStatusBreakdown()
	approximated := false
	var unmapped []string

	for _, s := range sections {
		switch {
		case s.fromItems:
			for _, item := range s.items {
				bucket, ok := BucketFor(item.Status)
				if !ok {
					unmapped = append(unmapped, domain.NormalizeStatus(item.Status))
					continue
				}
				breakdown[bucket]++
			}
		case s.present && out.Family != domain.FamilyNISTAIRMF:
			for bucket, n := range a.approximation.Approximate(s.total, s.done) {
				breakdown[bucket] += n
			}
			approximated = true
		}
	}

	for _, entry := range countDistinct(unmapped) {
		a.warn(out, domain.WarningUnmappedStatus, "items", "status_bucket_unmapped",
			fmt.Sprintf("status %q has no bucket; %d items dropped", entry.value, entry.count),
			"status", entry.value, "count", entry.count)
	}
	return breakdown, approximated
}

func (a *Aggregator) clampAssigned(out *domain.AggregatedProgress, label string, assigned, total int) int {
	assigned = max(assigned, 0)
	if assigned <= total {
		return assigned
	}
	a.warn(out, domain.WarningAssignedClamped, label, "assignment_count_clamped",
		fmt.Sprintf("assigned %d exceeds total %d", assigned, total),
		"assigned", assigned, "total", total)
	return max(total, 0)
}

func (a *Aggregator) shapeMismatch(out *domain.AggregatedProgress, label string, keys []string) {
	a.warn(out, domain.WarningShapeMismatch, label, "framework_shape_mismatch",
		fmt.Sprintf("no plausible payload at any nesting depth; keys=[%s]", strings.Join(keys, ",")),
		"keys", keys)
}

func (a *Aggregator) warn(out *domain.AggregatedProgress, kind domain.WarningKind, label, event, message string, attrs ...any) {
	out.Warnings = append(out.Warnings, domain.Warning{Kind: kind, Section: label, Message: message})
	logAttrs := append([]any{
		"framework", out.Framework.FrameworkName,
		"project_framework_id", out.Framework.ProjectFrameworkID,
		"section", label,
	}, attrs...)
	a.logger.Warn(event, logAttrs...)
}

func sectionRatios(s sectionData) domain.Ratios {
	if s.fromItems {
		return ComputeRatios(s.items)
	}
	ratios := domain.Ratios{CompletionPct: Percent(s.done, s.total)}
	if s.hasAssigned {
		ratios.AssignmentPct = Percent(s.assigned, s.total)
	}
	return ratios
}

type countEntry struct {
	value string
	count int
}

// countDistinct returns per-value counts sorted by value.
func countDistinct(values []string) []countEntry {
	counts := map[string]int{}
	for _, v := range values {
		counts[v]++
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]countEntry, 0, len(keys))
	for _, k := range keys {
		out = append(out, countEntry{value: k, count: counts[k]})
	}
	return out
}

func cloneProgress(p domain.AggregatedProgress) domain.AggregatedProgress {
	out := p
	out.StatusBreakdown = domain.NewStatusBreakdown()
	for bucket, n := range p.StatusBreakdown {
		out.StatusBreakdown[bucket] = n
	}
	if p.Warnings != nil {
		out.Warnings = append([]domain.Warning(nil), p.Warnings...)
	}
	if p.Functions != nil {
		out.Functions = append([]domain.FunctionProgress(nil), p.Functions...)
	}
	return out
}
