package progress

import "github.com/kirillkom/framework-progress/internal/core/domain"

// sectionShape describes one family's wire field names for a section so the
// aggregation code itself stays family-agnostic.
type sectionShape struct {
	totalKeys    []string
	doneKeys     []string
	assignedKeys []string
	// listKeys wrap the top-level item list when the payload is an object.
	listKeys []string
	// childKeys hold nested items, preferred key first.
	childKeys []string
}

var (
	subclauseShape = sectionShape{
		totalKeys:    []string{"totalSubclauses"},
		doneKeys:     []string{"doneSubclauses"},
		assignedKeys: []string{"assignedSubclauses"},
		listKeys:     []string{"clauses"},
		childKeys:    []string{"subClauses", "subclauses"},
	}
	annexControlShape = sectionShape{
		totalKeys:    []string{"totalAnnexControls", "totalAnnexcontrols"},
		doneKeys:     []string{"doneAnnexControls", "doneAnnexcontrols"},
		assignedKeys: []string{"assignedAnnexControls", "assignedAnnexcontrols"},
		listKeys:     []string{"annexes"},
		childKeys:    []string{"annexControls", "annexcontrols"},
	}
	annexCategoryShape = sectionShape{
		totalKeys:    []string{"totalAnnexcategories", "totalAnnexCategories"},
		doneKeys:     []string{"doneAnnexcategories", "doneAnnexCategories"},
		assignedKeys: []string{"assignedAnnexcategories", "assignedAnnexCategories"},
		listKeys:     []string{"annexes"},
		childKeys:    []string{"annexCategories", "annexcategories"},
	}
	subcategoryShape = sectionShape{
		totalKeys:    []string{"totalSubcategories"},
		doneKeys:     []string{"doneSubcategories"},
		assignedKeys: []string{"assignedSubcategories"},
		listKeys:     []string{"functions", "categories"},
		childKeys:    []string{"subcategories", "categories"},
	}
)

func shapeFor(family domain.Family, section domain.Section) (sectionShape, bool) {
	switch {
	case family == domain.FamilyISO27001 && section == domain.SectionClauses,
		family == domain.FamilyISO42001 && section == domain.SectionClauses:
		return subclauseShape, true
	case family == domain.FamilyISO27001 && section == domain.SectionAnnexes:
		return annexControlShape, true
	case family == domain.FamilyISO42001 && section == domain.SectionAnnexes:
		return annexCategoryShape, true
	case family == domain.FamilyNISTAIRMF && section == domain.SectionClauses:
		return subcategoryShape, true
	default:
		return sectionShape{}, false
	}
}

// sectionData is the canonical form of one section after the family adapter ran.
type sectionData struct {
	present     bool
	fromItems   bool
	total       int
	done        int
	assigned    int
	hasAssigned bool
	items       []domain.Item
}

func (s sectionShape) plausible(v any) bool {
	return s.countsPlausible(v) || s.list(v) != nil
}

func (s sectionShape) countsPlausible(v any) bool {
	obj, ok := v.(map[string]any)
	return ok && hasAnyKey(obj, s.totalKeys)
}

func (s sectionShape) read(v any) sectionData {
	if s.countsPlausible(v) {
		obj := v.(map[string]any)
		total, _ := firstInt(obj, s.totalKeys)
		done, _ := firstInt(obj, s.doneKeys)
		assigned, hasAssigned := firstInt(obj, s.assignedKeys)
		return sectionData{
			present:     true,
			total:       max(total, 0),
			done:        max(done, 0),
			assigned:    max(assigned, 0),
			hasAssigned: hasAssigned,
		}
	}

	items := s.flatten(s.list(v))
	done, assigned := countItems(items)
	return sectionData{
		present:     true,
		fromItems:   true,
		total:       len(items),
		done:        done,
		assigned:    assigned,
		hasAssigned: true,
		items:       items,
	}
}

func (s sectionShape) list(v any) []any {
	switch t := v.(type) {
	case []any:
		return t
	case map[string]any:
		for _, k := range s.listKeys {
			if l, ok := t[k].([]any); ok {
				return l
			}
		}
	}
	return nil
}

// flatten walks clause->subclause, annex->control and category->subcategory
// trees down to leaf items.
func (s sectionShape) flatten(list []any) []domain.Item {
	out := make([]domain.Item, 0, len(list))
	for _, entry := range list {
		obj, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if children, ok := s.children(obj); ok {
			out = append(out, s.flatten(children)...)
			continue
		}
		out = append(out, itemFrom(obj))
	}
	return out
}

func (s sectionShape) children(obj map[string]any) ([]any, bool) {
	for _, k := range s.childKeys {
		if c, ok := obj[k].([]any); ok {
			return c, true
		}
	}
	return nil, false
}

func itemFrom(obj map[string]any) domain.Item {
	item := domain.Item{
		Title:  firstString(obj, []string{"title", "name"}),
		Status: firstString(obj, []string{"status"}),
	}
	if id, ok := intValue(obj["id"]); ok {
		item.ID = id
	}
	if owner, ok := intValue(obj["owner"]); ok {
		item.Owner = &owner
	}
	return item
}
