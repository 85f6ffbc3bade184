package progress

import (
	"strings"

	"github.com/kirillkom/framework-progress/internal/core/domain"
)

// DefaultFrameworkIDs is the id convention used when no registry is configured.
func DefaultFrameworkIDs() map[int]domain.Family {
	return map[int]domain.Family{
		2: domain.FamilyISO42001,
		3: domain.FamilyISO27001,
		4: domain.FamilyNISTAIRMF,
	}
}

// Checked in order; the first match wins.
var familyNameRules = []struct {
	needle string
	family domain.Family
}{
	{needle: "iso 27001", family: domain.FamilyISO27001},
	{needle: "iso 42001", family: domain.FamilyISO42001},
	{needle: "nist ai rmf", family: domain.FamilyNISTAIRMF},
}

// Discriminator resolves the framework family of an instance: first by id,
// then by name substring.
type Discriminator struct {
	ids map[int]domain.Family
}

func NewDiscriminator(ids map[int]domain.Family) *Discriminator {
	copied := make(map[int]domain.Family, len(ids))
	for id, family := range ids {
		copied[id] = family
	}
	return &Discriminator{ids: copied}
}

func (d *Discriminator) FamilyOf(instance domain.FrameworkInstance) domain.Family {
	if d != nil {
		if family, ok := d.ids[instance.FrameworkID]; ok && family != domain.FamilyUnknown {
			return family
		}
	}
	return familyFromName(instance.FrameworkName)
}

func familyFromName(name string) domain.Family {
	normalized := strings.NewReplacer("-", " ", "_", " ").Replace(strings.ToLower(name))
	normalized = strings.Join(strings.Fields(normalized), " ")
	for _, rule := range familyNameRules {
		if strings.Contains(normalized, rule.needle) {
			return rule.family
		}
	}
	return domain.FamilyUnknown
}

// TerminologyFor returns card labels. Unknown families get generic "Controls" wording.
func TerminologyFor(family domain.Family) domain.Terminology {
	switch family {
	case domain.FamilyISO27001:
		return domain.Terminology{Clauses: "Clauses", Annexes: "Annexes", ClauseItem: "Subclauses", AnnexItem: "Annex controls"}
	case domain.FamilyISO42001:
		return domain.Terminology{Clauses: "Clauses", Annexes: "Annexes", ClauseItem: "Subclauses", AnnexItem: "Annex categories"}
	case domain.FamilyNISTAIRMF:
		return domain.Terminology{Clauses: "Functions", ClauseItem: "Subcategories"}
	default:
		return domain.Terminology{Clauses: "Controls", Annexes: "Annexes", ClauseItem: "Controls", AnnexItem: "Controls"}
	}
}
