package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankOrdersByPriority(t *testing.T) {
	ranked := Rank([]Insight{
		{Priority: PriorityLow, Title: "a"},
		{Priority: PriorityCritical, Title: "b"},
		{Priority: PriorityMedium, Title: "c"},
		{Priority: PriorityHigh, Title: "d"},
		{Priority: PriorityCritical, Title: "e"},
	})

	titles := make([]string, 0, len(ranked.Insights))
	for _, in := range ranked.Insights {
		titles = append(titles, in.Title)
	}
	assert.Equal(t, []string{"b", "e", "d", "c", "a"}, titles,
		"critical before high before medium before low, ties in input order")

	assert.Equal(t, 2, ranked.Counts[PriorityCritical])
	assert.Equal(t, 1, ranked.Counts[PriorityHigh])
	assert.Equal(t, 1, ranked.Counts[PriorityMedium])
	assert.Equal(t, 1, ranked.Counts[PriorityLow])
}

func TestRankIsStable(t *testing.T) {
	in := []Insight{
		{Priority: PriorityHigh, Title: "first"},
		{Priority: PriorityHigh, Title: "second"},
		{Priority: PriorityHigh, Title: "third"},
	}
	ranked := Rank(in)
	require.Len(t, ranked.Insights, 3)
	assert.Equal(t, "first", ranked.Insights[0].Title)
	assert.Equal(t, "second", ranked.Insights[1].Title)
	assert.Equal(t, "third", ranked.Insights[2].Title)
}

func TestRankDoesNotMutateInput(t *testing.T) {
	in := []Insight{
		{Priority: PriorityLow, Title: "a"},
		{Priority: PriorityCritical, Title: "b"},
	}
	_ = Rank(in)
	assert.Equal(t, PriorityLow, in[0].Priority)
	assert.Equal(t, "a", in[0].Title)
}
