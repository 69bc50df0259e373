package podds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRangeValues(t *testing.T) {
	assert.Equal(t, []int{40, 45, 50}, Range{Start: 40, Stop: 50, Step: 5}.Values())
	assert.Equal(t, []int{25, 50}, Range{Start: 25, Stop: 60, Step: 25}.Values())
	assert.Equal(t, []int{7}, Range{Start: 7, Stop: 100}.Values())
	assert.Empty(t, Range{Start: 10, Stop: 5, Step: 1}.Values())
}

func TestDefaultParameterSpace(t *testing.T) {
	space := DefaultParameterSpace()
	assert.Len(t, space.History.Values(), 19)
	assert.Len(t, space.Cutoff.Values(), 11)

	pairs := space.Pairs()
	require.Len(t, pairs, 19*11)

	t.Log("Cutoff is the outer loop")
	assert.Equal(t, Pair{History: 25, Cutoff: 40}, pairs[0])
	assert.Equal(t, Pair{History: 50, Cutoff: 40}, pairs[1])
	assert.Equal(t, Pair{History: 475, Cutoff: 40}, pairs[18])
	assert.Equal(t, Pair{History: 25, Cutoff: 45}, pairs[19])
	assert.Equal(t, Pair{History: 475, Cutoff: 90}, pairs[len(pairs)-1])
}

func TestWindows(t *testing.T) {
	search := SearchWindow(mustDate(t, "2025-06-30"), 365, 60)
	assert.Equal(t, mustDate(t, "2024-06-30"), search.Start)
	assert.Equal(t, mustDate(t, "2024-08-29"), search.End())

	dates := search.Dates()
	require.Len(t, dates, 60)
	assert.Equal(t, mustDate(t, "2024-06-30"), dates[0])
	assert.Equal(t, mustDate(t, "2024-08-28"), dates[59])

	validation := ValidationWindow(search)
	assert.Equal(t, search.End(), validation.Start)
	assert.Equal(t, 60, validation.Days)
	assert.Equal(t, "2024-08-29 to 2024-10-27", validation.String())
}
