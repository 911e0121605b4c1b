// Package grouping builds presentation views over extracted test cases and
// fetched stories.
package grouping

import (
	"sort"
	"strings"

	"github.com/fjglira/storycases/internal/domain"
)

// Group is the set of test cases that share a scenario.
type Group struct {
	ScenarioID string
	Scenario   string
	Cases      []domain.TestCaseRecord
}

// Ungrouped reports whether the group holds test cases without a scenario.
func (g Group) Ungrouped() bool {
	return g.ScenarioID == domain.UngroupedScenarioID
}

// GroupByScenario partitions records by scenario id, keeping first-seen
// order inside each group, and returns the groups sorted by scenario id.
func GroupByScenario(records []domain.TestCaseRecord) []Group {
	var keyOrder []string
	groups := make(map[string]*Group)
	for _, r := range records {
		key := r.ScenarioID
		if key == "" {
			key = domain.UngroupedScenarioID
		}
		g, seen := groups[key]
		if !seen {
			keyOrder = append(keyOrder, key)
			g = &Group{ScenarioID: key}
			groups[key] = g
		}
		if g.Scenario == "" {
			g.Scenario = r.Scenario
		}
		g.Cases = append(g.Cases, r)
	}

	sorted := make([]Group, 0, len(keyOrder))
	for _, key := range keyOrder {
		sorted = append(sorted, *groups[key])
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ScenarioID < sorted[j].ScenarioID
	})
	return sorted
}

// FilterStories returns the stories whose id, title or any tag contains term,
// ignoring case. An empty term matches every story.
func FilterStories(stories []domain.Story, term string) []domain.Story {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return stories
	}

	var matched []domain.Story
	for _, s := range stories {
		if storyMatches(s, term) {
			matched = append(matched, s)
		}
	}
	return matched
}

func storyMatches(s domain.Story, term string) bool {
	if strings.Contains(strings.ToLower(s.ID), term) ||
		strings.Contains(strings.ToLower(s.Title), term) {
		return true
	}
	for _, tag := range s.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}
