package progress

import "strings"

var (
	functionNameKeys     = []string{"function", "name", "func"}
	functionTotalKeys    = []string{"total", "totalSubcategories"}
	functionDoneKeys     = []string{"done", "doneSubcategories"}
	functionAssignedKeys = []string{"assigned", "assignedSubcategories"}
)

type functionRow struct {
	name     string
	total    int
	done     int
	assigned int
}

func functionList(v any) []any {
	switch t := v.(type) {
	case []any:
		return t
	case map[string]any:
		if l, ok := t["functions"].([]any); ok {
			return l
		}
	}
	return nil
}

func isFunctionPayload(v any) bool {
	list := functionList(v)
	if list == nil {
		return false
	}
	for _, entry := range list {
		obj, ok := entry.(map[string]any)
		if !ok || firstString(obj, functionNameKeys) == "" {
			return false
		}
	}
	return true
}

// readFunctions keeps upstream order (GOVERN, MAP, MEASURE, MANAGE in practice).
func readFunctions(v any) []functionRow {
	list := functionList(v)
	out := make([]functionRow, 0, len(list))
	for _, entry := range list {
		obj := entry.(map[string]any)
		total, _ := firstInt(obj, functionTotalKeys)
		done, _ := firstInt(obj, functionDoneKeys)
		assigned, _ := firstInt(obj, functionAssignedKeys)
		out = append(out, functionRow{
			name:     strings.ToUpper(strings.TrimSpace(firstString(obj, functionNameKeys))),
			total:    max(total, 0),
			done:     max(done, 0),
			assigned: max(assigned, 0),
		})
	}
	return out
}

// mergeFunctionAssignments copies assigned counts onto progress rows by
// function name. Functions only present in the assignment payload are appended.
func mergeFunctionAssignments(rows, assignments []functionRow) []functionRow {
	index := make(map[string]int, len(rows))
	for i, row := range rows {
		index[row.name] = i
	}
	for _, a := range assignments {
		if i, ok := index[a.name]; ok {
			rows[i].assigned = a.assigned
			if rows[i].total == 0 {
				rows[i].total = a.total
			}
			continue
		}
		index[a.name] = len(rows)
		rows = append(rows, functionRow{name: a.name, total: a.total, assigned: a.assigned})
	}
	return rows
}
