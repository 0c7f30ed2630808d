package planner

import (
	"sort"
	"strings"
)

// CategoryPolicy maps an event type to the ordered list of vendor categories
// the allocator must try to fill. Making this an explicit input keeps the
// required-category list testable instead of a buried constant.
type CategoryPolicy map[string][]string

// DefaultCategoryPolicy returns the built-in event-type mapping.
func DefaultCategoryPolicy() CategoryPolicy {
	return CategoryPolicy{
		"wedding":   {"venue", "catering", "photography", "decoration", "music"},
		"birthday":  {"venue", "catering", "decoration", "entertainment"},
		"corporate": {"venue", "catering", "av_equipment"},
		"mehndi":    {"venue", "catering", "decoration", "music"},
	}
}

// defaultCategories is used for event types the policy does not know.
var defaultCategories = []string{"venue", "catering"}

// CategoriesFor resolves the required categories for an event type.
// Exact matches win; otherwise a policy key contained in the event type
// ("wedding reception" matches "wedding") applies, with keys tried in
// lexicographic order so events naming several keys always resolve the
// same way; otherwise the default venue+catering pair is used.
func (p CategoryPolicy) CategoriesFor(eventType string) []string {
	et := strings.ToLower(strings.TrimSpace(eventType))
	if cats, ok := p[et]; ok {
		return cats
	}
	keys := make([]string, 0, len(p))
	for key := range p {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if strings.Contains(et, key) {
			return p[key]
		}
	}
	return defaultCategories
}
