package podds

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeason(t *testing.T) {
	for _, in := range []any{2014, "2014", "2014-2015", "2014/2015", "2014-15", "2014/15"} {
		season, err := ParseSeason(in)
		require.NoError(t, err, "%v", in)
		assert.Equal(t, 2014, season, "%v", in)
	}

	season, err := ParseSeason("1999/00")
	require.NoError(t, err)
	assert.Equal(t, 1999, season)

	for _, in := range []any{nil, "", "2014-2016", "14/15", "season"} {
		_, err := ParseSeason(in)
		assert.Error(t, err, "%v", in)
	}
}

func TestSeasonLabel(t *testing.T) {
	assert.Equal(t, "2014-2015", SeasonLabel(2014))
}

func TestCurrentSeason(t *testing.T) {
	assert.Equal(t, 2024, CurrentSeason(time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 2025, CurrentSeason(time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 2025, CurrentSeason(time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC)))
}
