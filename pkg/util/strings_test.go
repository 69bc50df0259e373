package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlug(t *testing.T) {
	assert.Equal(t, "Premier-League", Slug("Premier League"))
	assert.Equal(t, "Serie-A-B", Slug(" Serie A/B "))
}

func TestCleanTeamName(t *testing.T) {
	assert.Equal(t, "Arsenal", CleanTeamName(" Arsenal [ET]"))
	assert.Equal(t, "Chelsea", CleanTeamName("Chelsea [PS] [N]"))
}

func TestLevenshteinDistance(t *testing.T) {
	assert.Equal(t, 0, LevenshteinDistance("abc", "abc"))
	assert.Equal(t, 3, LevenshteinDistance("", "abc"))
	assert.Equal(t, 3, LevenshteinDistance("kitten", "sitting"))
}

func TestClosestMatch(t *testing.T) {
	best, d := ClosestMatch("Man Utd", []string{"Man City", "Manchester Utd", "Man Utd."})
	assert.Equal(t, "Man Utd.", best)
	assert.Equal(t, 1, d)

	best, _ = ClosestMatch("anything", nil)
	assert.Equal(t, "", best)
}

func TestGetAsInteger(t *testing.T) {
	tests := []struct {
		in      any
		want    int
		wantErr bool
	}{
		{in: 7, want: 7},
		{in: " 2014 ", want: 2014},
		{in: 3.0, want: 3},
		{in: 3.5, wantErr: true},
		{in: "x", wantErr: true},
		{in: nil, wantErr: true},
	}
	for _, tt := range tests {
		got, err := GetAsInteger(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %v", tt.in)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestGetAsString(t *testing.T) {
	s, err := GetAsString(42)
	require.NoError(t, err)
	assert.Equal(t, "42", s)

	_, err = GetAsString(nil)
	assert.Error(t, err)
}
