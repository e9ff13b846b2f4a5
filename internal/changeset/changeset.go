// Package changeset computes the minimal set of changed fields between a
// candidate field map and a baseline, so callers can skip no-op writes.
package changeset

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// FieldMap is a JSON-shaped record: string, bool, number, nil, slice or map
// values keyed by column name.
type FieldMap = map[string]interface{}

// Timestamp layouts accepted for *_at fields. The second is what an HTML
// datetime-local input submits.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
}

// Compute returns the subset of candidate whose values differ from baseline
// after normalization. Keys absent from candidate are never reported; the
// values in the result are the original candidate values, not the normalized
// forms. Compute(x, x) is empty for any x.
func Compute(candidate, baseline FieldMap) FieldMap {
	patch := FieldMap{}
	for key, value := range candidate {
		if !Equal(key, value, baseline[key]) {
			patch[key] = value
		}
	}
	return patch
}

// Equal reports whether two field values are equal under the normalization
// rules: timestamps by epoch, slices as order-insensitive string sets, maps by
// canonical JSON, everything else by string coercion.
func Equal(key string, a, b interface{}) bool {
	return normalize(key, a) == normalize(key, b)
}

// normalize reduces a value to a comparable string form.
func normalize(key string, value interface{}) string {
	if value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		if strings.HasSuffix(key, "_at") && v != "" {
			for _, layout := range timeLayouts {
				if t, err := time.Parse(layout, v); err == nil {
					return strconv.FormatInt(t.UnixMilli(), 10)
				}
			}
		}
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	}
	if items, ok := asSlice(value); ok {
		return strings.Join(NormalizeSet(items), "\x1f")
	}
	if data, err := json.Marshal(value); err == nil {
		return string(data)
	}
	return fmt.Sprintf("%v", value)
}

// NormalizeSet coerces slice elements to strings and sorts them, so two lists
// with the same members in different order compare equal.
func NormalizeSet(items []interface{}) []string {
	set := make([]string, 0, len(items))
	for _, item := range items {
		set = append(set, normalize("", item))
	}
	sort.Strings(set)
	return set
}

// StringSlice converts a decoded JSON field value to a []string, accepting
// []interface{}, []string, or nil.
func StringSlice(value interface{}) []string {
	switch v := value.(type) {
	case nil:
		return nil
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, normalize("", item))
		}
		return out
	}
	return nil
}

func asSlice(value interface{}) ([]interface{}, bool) {
	switch v := value.(type) {
	case []interface{}:
		return v, true
	case []string:
		items := make([]interface{}, len(v))
		for i, s := range v {
			items[i] = s
		}
		return items, true
	case []int:
		items := make([]interface{}, len(v))
		for i, n := range v {
			items[i] = n
		}
		return items, true
	}
	return nil, false
}
