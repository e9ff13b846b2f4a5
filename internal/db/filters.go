// Package db provides list filter building for post queries.
package db

import (
	"strings"

	"github.com/quillcms/quill/internal/models"
)

// Filter represents a single list filter condition.
type Filter interface {
	// SQL returns the SQL fragment for this filter
	SQL() string

	// Args returns the arguments for this filter
	Args() []interface{}

	// Valid checks if the filter is valid
	Valid() bool
}

// StatusFilter restricts posts to one publication status.
type StatusFilter struct {
	Status string
}

// Valid checks if the status is one of the known values.
func (f *StatusFilter) Valid() bool {
	switch f.Status {
	case models.StatusDraft, models.StatusPublished, models.StatusArchived:
		return true
	}
	return false
}

// SQL returns the SQL fragment for status filtering.
func (f *StatusFilter) SQL() string {
	return "status = ?"
}

// Args returns the arguments for status filtering.
func (f *StatusFilter) Args() []interface{} {
	return []interface{}{f.Status}
}

// SearchFilter matches a substring against title or slug, the same fields the
// admin list search box targets.
type SearchFilter struct {
	Query string
}

// Valid checks that the query is non-blank.
func (f *SearchFilter) Valid() bool {
	return strings.TrimSpace(f.Query) != ""
}

// SQL returns the SQL fragment for substring search.
func (f *SearchFilter) SQL() string {
	return "(title LIKE ? OR slug LIKE ?)"
}

// Args returns the arguments for substring search.
func (f *SearchFilter) Args() []interface{} {
	pattern := "%" + strings.TrimSpace(f.Query) + "%"
	return []interface{}{pattern, pattern}
}

// CategoryFilter restricts posts to one category.
type CategoryFilter struct {
	CategoryID string
}

// Valid checks that a category id is set.
func (f *CategoryFilter) Valid() bool {
	return f.CategoryID != ""
}

// SQL returns the SQL fragment for category filtering.
func (f *CategoryFilter) SQL() string {
	return "category_id = ?"
}

// Args returns the arguments for category filtering.
func (f *CategoryFilter) Args() []interface{} {
	return []interface{}{f.CategoryID}
}

// FilterBuilder combines filters into one WHERE clause.
type FilterBuilder struct {
	filters []Filter
}

// NewFilterBuilder creates a new FilterBuilder.
func NewFilterBuilder() *FilterBuilder {
	return &FilterBuilder{filters: make([]Filter, 0)}
}

// Status adds a status filter; "all" or unknown values add nothing.
func (fb *FilterBuilder) Status(status string) *FilterBuilder {
	filter := &StatusFilter{Status: status}
	if filter.Valid() {
		fb.filters = append(fb.filters, filter)
	}
	return fb
}

// Search adds a title/slug substring filter.
func (fb *FilterBuilder) Search(query string) *FilterBuilder {
	filter := &SearchFilter{Query: query}
	if filter.Valid() {
		fb.filters = append(fb.filters, filter)
	}
	return fb
}

// Category adds a category filter.
func (fb *FilterBuilder) Category(categoryID string) *FilterBuilder {
	filter := &CategoryFilter{CategoryID: categoryID}
	if filter.Valid() {
		fb.filters = append(fb.filters, filter)
	}
	return fb
}

// HasFilters returns true if any filters have been added.
func (fb *FilterBuilder) HasFilters() bool {
	return len(fb.filters) > 0
}

// Count returns the number of filters.
func (fb *FilterBuilder) Count() int {
	return len(fb.filters)
}

// Build returns the WHERE fragment (without the keyword) and its arguments.
func (fb *FilterBuilder) Build() (string, []interface{}) {
	if !fb.HasFilters() {
		return "", nil
	}

	var sqlParts []string
	var args []interface{}
	for _, filter := range fb.filters {
		sqlParts = append(sqlParts, filter.SQL())
		args = append(args, filter.Args()...)
	}
	return strings.Join(sqlParts, " AND "), args
}

// Reset clears all filters.
func (fb *FilterBuilder) Reset() *FilterBuilder {
	fb.filters = make([]Filter, 0)
	return fb
}
