package insights

import "sort"

// Priority orders insights by urgency. Lower rank surfaces first.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

var priorityRank = map[Priority]int{
	PriorityCritical: 0,
	PriorityHigh:     1,
	PriorityMedium:   2,
	PriorityLow:      3,
}

// Insight is a single actionable finding about the store.
type Insight struct {
	Priority        Priority `json:"priority"`
	Category        string   `json:"category"`
	Title           string   `json:"title"`
	Detail          string   `json:"detail"`
	SuggestedAction string   `json:"suggestedAction"`
}

// Ranked is the ordered insight list plus per-priority counts.
type Ranked struct {
	Insights []Insight        `json:"insights"`
	Counts   map[Priority]int `json:"counts"`
}

// Rank sorts insights by priority, preserving the relative order of
// insights sharing a priority, and tallies counts per level.
func Rank(insights []Insight) Ranked {
	sorted := make([]Insight, len(insights))
	copy(sorted, insights)
	sort.SliceStable(sorted, func(i, j int) bool {
		return priorityRank[sorted[i].Priority] < priorityRank[sorted[j].Priority]
	})
	counts := make(map[Priority]int, len(priorityRank))
	for _, in := range sorted {
		counts[in.Priority]++
	}
	return Ranked{Insights: sorted, Counts: counts}
}
