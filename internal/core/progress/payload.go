package progress

import (
	"bytes"
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
)

func decodeDocument(raw []byte) (any, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, false
	}
	return doc, true
}

// envelopes lists the nesting depths tried for a payload in priority order:
// data.data, data, then the document itself.
func envelopes(doc any) []any {
	out := make([]any, 0, 3)
	obj, ok := doc.(map[string]any)
	if !ok {
		return append(out, doc)
	}
	if data, ok := obj["data"]; ok {
		if inner, ok := data.(map[string]any); ok {
			if nested, ok := inner["data"]; ok {
				out = append(out, nested)
			}
		}
		out = append(out, data)
	}
	return append(out, doc)
}

// locate returns the first envelope accepted by plausible. On failure it
// returns the sorted top-level keys of the document for diagnostics.
func locate(raw []byte, plausible func(any) bool) (any, []string, bool) {
	doc, ok := decodeDocument(raw)
	if !ok {
		return nil, []string{}, false
	}
	for _, candidate := range envelopes(doc) {
		if plausible(candidate) {
			return candidate, nil, true
		}
	}
	return nil, topLevelKeys(doc), false
}

func topLevelKeys(doc any) []string {
	obj, ok := doc.(map[string]any)
	if !ok {
		return []string{}
	}
	return sortedKeys(obj)
}

func sortedKeys(obj map[string]any) []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// maxCount bounds decoded counts so that float payloads never overflow int.
const maxCount = math.MaxInt32

// intValue accepts JSON numbers and numeric strings; count columns often
// arrive as strings from the backend.
func intValue(v any) (int, bool) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(max(min(i, maxCount), -maxCount)), true
		}
		if f, err := n.Float64(); err == nil {
			return countFromFloat(f)
		}
	case float64:
		return countFromFloat(n)
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return max(min(i, maxCount), -maxCount), true
		}
	}
	return 0, false
}

func countFromFloat(f float64) (int, bool) {
	if math.IsNaN(f) {
		return 0, false
	}
	return int(math.Round(math.Max(math.Min(f, maxCount), -maxCount))), true
}

func firstInt(obj map[string]any, keys []string) (int, bool) {
	for _, k := range keys {
		if v, ok := obj[k]; ok {
			if n, ok := intValue(v); ok {
				return n, true
			}
		}
	}
	return 0, false
}

func firstString(obj map[string]any, keys []string) string {
	for _, k := range keys {
		if s, ok := obj[k].(string); ok {
			return s
		}
	}
	return ""
}

func hasAnyKey(obj map[string]any, keys []string) bool {
	for _, k := range keys {
		if _, ok := obj[k]; ok {
			return true
		}
	}
	return false
}
