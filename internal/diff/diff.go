// Package diff turns pairs of post field maps into human-readable change
// summaries for the admin version-history view.
package diff

import (
	"encoding/json"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/quillcms/quill/internal/changeset"
	"github.com/quillcms/quill/internal/models"
)

// summaryLimit caps the formatted from/to values of a field change. Content
// is exempt; it gets its own untruncated diff.
const summaryLimit = 140

const placeholder = "—"

// FieldChange is one tracked field that differs between two states, with both
// sides formatted for display.
type FieldChange struct {
	Field string `json:"field"`
	Label string `json:"label"`
	From  string `json:"from"`
	To    string `json:"to"`
}

// ContentChange carries the full body text of both sides plus a unified diff.
// Unlike field summaries it is never truncated.
type ContentChange struct {
	Before  string `json:"before"`
	After   string `json:"after"`
	Unified string `json:"unified"`
}

// Changes is the presented difference between two post states.
type Changes struct {
	Fields  []FieldChange  `json:"fields"`
	Content *ContentChange `json:"content,omitempty"`
}

// Empty reports whether nothing differs.
func (c Changes) Empty() bool {
	return len(c.Fields) == 0 && c.Content == nil
}

// trackedFields lists the fields shown in the history view, in display order.
// Content is handled separately.
var trackedFields = []struct {
	key   string
	label string
}{
	{"title", "Title"},
	{"slug", "Slug"},
	{"status", "Status"},
	{"excerpt", "Excerpt"},
	{"category_id", "Category (ID)"},
	{"published_at", "Published at"},
	{"cover_image_url", "Cover image"},
	{"youtube_url", "Video"},
	{"tag_ids", "Tags (IDs)"},
	{"seo_title", "SEO title"},
	{"seo_description", "SEO description"},
	{"canonical_url", "Canonical URL"},
	{"no_index", "No index"},
}

// Between computes the presented changes from an older state to a newer one.
// Field equality uses the same normalization as update detection, so a diff
// over a real update is never empty and a diff over identical states is.
func Between(before, after changeset.FieldMap) Changes {
	var out Changes

	for _, field := range trackedFields {
		if changeset.Equal(field.key, after[field.key], before[field.key]) {
			continue
		}
		out.Fields = append(out.Fields, FieldChange{
			Field: field.key,
			Label: field.label,
			From:  summarize(formatValue(before[field.key])),
			To:    summarize(formatValue(after[field.key])),
		})
	}

	if !changeset.Equal("content", after["content"], before["content"]) {
		beforeText := models.ContentText(before["content"])
		afterText := models.ContentText(after["content"])
		out.Content = &ContentChange{
			Before:  beforeText,
			After:   afterText,
			Unified: unifiedDiff(beforeText, afterText),
		}
	}

	return out
}

// Entry pairs a stored snapshot with the changes applied by the update that
// followed it.
type Entry struct {
	Version models.PostVersion `json:"version"`
	Changes Changes            `json:"changes"`
}

// Timeline walks a newest-first version list and diffs each snapshot against
// its successor; the newest snapshot diffs against the live record.
func Timeline(current changeset.FieldMap, versions []models.PostVersion) ([]Entry, error) {
	entries := make([]Entry, 0, len(versions))
	next := current
	for _, version := range versions {
		snapshot, err := version.Snapshot()
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{
			Version: version,
			Changes: Between(snapshot, next),
		})
		next = snapshot
	}
	return entries, nil
}

// formatValue renders one field value for display. Empty values of any shape
// collapse to the placeholder.
func formatValue(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return placeholder
	case string:
		if t == "" {
			return placeholder
		}
		return t
	case bool:
		if t {
			return "Yes"
		}
		return "No"
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case []string, []interface{}:
		items := changeset.StringSlice(t)
		if len(items) == 0 {
			return placeholder
		}
		return strings.Join(items, ", ")
	}
	data, err := json.Marshal(v)
	if err != nil {
		return placeholder
	}
	return string(data)
}

// summarize truncates a formatted value to the summary limit, rune-safe.
func summarize(s string) string {
	if utf8.RuneCountInString(s) <= summaryLimit {
		return s
	}
	runes := []rune(s)
	return string(runes[:summaryLimit]) + "…"
}

func unifiedDiff(before, after string) string {
	out, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: "before",
		ToFile:   "after",
		Context:  3,
	})
	if err != nil {
		return ""
	}
	return out
}
