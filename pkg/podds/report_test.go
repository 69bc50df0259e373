package podds

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfidentPicks(t *testing.T) {
	date := mustDate(t, "2024-03-02")
	forecasts := []*Forecast{
		{Match: NewMatch(date, "Arsenal", "Leeds", 2023), Prediction: Prediction{HomeWin: 62.5, Draw: 22.5, AwayWin: 15}},
		{Match: NewMatch(date, "Burnley", "Chelsea", 2023), Prediction: Prediction{HomeWin: 20, Draw: 25, AwayWin: 55}},
		{Match: NewMatch(date, "Everton", "Fulham", 2023), Prediction: Prediction{HomeWin: 35, Draw: 33, AwayWin: 32}},
	}

	assert.Empty(t, ConfidentPicks(forecasts, -1))

	picks := ConfidentPicks(forecasts, 50)
	require.Len(t, picks, 2)
	assert.Equal(t, "Arsenal v Leeds : Prediction:Arsenal Win, Probability:62.50, Odds:1.60", picks[0].String())
	assert.Equal(t, "Burnley v Chelsea : Prediction:Chelsea Win, Probability:55.00, Odds:1.82", picks[1].String())

	var buf bytes.Buffer
	require.NoError(t, WritePicks(&buf, picks))
	assert.Equal(t, 2, bytes.Count(buf.Bytes(), []byte("\n")))
}

func TestWriteSearchReport(t *testing.T) {
	var buf bytes.Buffer
	result := &SearchResult{HistoryLength: 150, Cutoff: 55, Accuracy: 62.5, GamesAboveCutoff: 40}
	require.NoError(t, WriteSearchReport(&buf, DefaultPoddsConfig(), result, Score{Correct: 3, Total: 5, Possible: 30}))

	out := buf.String()
	assert.Contains(t, out, "Score of 62.50% with history setting of 150 and cutoff of 55")
	assert.Contains(t, out, "Validation score of 60.00%")
	assert.Contains(t, out, `soccerprediction -c "England" -l "Premier League" -y 150 -b 55`)
}
