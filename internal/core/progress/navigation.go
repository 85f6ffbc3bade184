package progress

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/kirillkom/framework-progress/internal/core/domain"
)

// SectionsFor lists the sub-tabs a family's framework page offers.
func SectionsFor(family domain.Family) []string {
	switch family {
	case domain.FamilyISO27001, domain.FamilyISO42001:
		return []string{string(domain.SectionClauses), string(domain.SectionAnnexes)}
	case domain.FamilyNISTAIRMF:
		return []string{"govern", "map", "measure", "manage"}
	default:
		return nil
	}
}

// ApplyIntent turns a card click into the next navigation state and the
// route the page should open.
func ApplyIntent(families *Discriminator, state domain.NavigationState, intent domain.NavigationIntent) (domain.NavigationState, string, error) {
	family := families.FamilyOf(domain.FrameworkInstance{FrameworkName: intent.FrameworkName})
	if family == domain.FamilyUnknown {
		return state, "", domain.WrapError(domain.ErrInvalidInput, "apply navigation intent",
			fmt.Errorf("framework %q is not navigable", intent.FrameworkName))
	}

	section := strings.ToLower(strings.TrimSpace(intent.Section))
	if !slices.Contains(SectionsFor(family), section) {
		return state, "", domain.WrapError(domain.ErrInvalidInput, "apply navigation intent",
			errors.New("unknown section "+intent.Section))
	}

	next := domain.NewNavigationState(state.UserID)
	for f, s := range state.SubTabs {
		next.SubTabs[f] = s
	}
	next.DashboardTab = slices.Index(domain.Families, family)
	next.SubTabs[family] = section

	query := url.Values{}
	query.Set("framework", family.Slug())
	query.Set("section", section)
	return next, "/framework?" + query.Encode(), nil
}
