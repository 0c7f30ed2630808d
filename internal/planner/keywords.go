package planner

import "strings"

// DeriveKeywords builds the search keyword set for a request: the lower-cased
// event type plus preferences, expanded with event-specific terms.
// The result is deduplicated and order-stable.
func DeriveKeywords(req EventRequirements) []string {
	var keywords []string
	seen := make(map[string]struct{})
	add := func(k string) {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			return
		}
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		keywords = append(keywords, k)
	}

	add(req.EventType)
	for _, p := range req.Preferences {
		add(p)
	}

	eventType := strings.ToLower(req.EventType)
	switch {
	case strings.Contains(eventType, "wedding"):
		for _, k := range []string{"mehndi", "baraat", "walima", "venue", "catering", "photography"} {
			add(k)
		}
	case strings.Contains(eventType, "birthday"):
		for _, k := range []string{"party", "cake", "decoration", "entertainment"} {
			add(k)
		}
	case strings.Contains(eventType, "corporate"):
		for _, k := range []string{"conference", "meeting", "venue", "catering"} {
			add(k)
		}
	}

	return keywords
}
