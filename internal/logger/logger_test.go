package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(WARN, &buf)

	l.log(INFO, "hidden")
	l.log(WARN, "shown", 3)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[WARN]")
	assert.Contains(t, out, "shown 3")
}

func TestPrimitiveFormatting(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(DEBUG, &buf)

	l.log(INFO, "values", 1.23456, true, errors.New("boom"), nil)

	assert.Contains(t, buf.String(), "values 1.23 true boom nil")
}

func TestObjectsAreDumpedAsJSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(DEBUG, &buf)

	l.log(INFO, "result", struct {
		History int `json:"history"`
	}{History: 75})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Greater(t, len(lines), 1)
	assert.Contains(t, lines[0], "[Object of type")
	assert.Contains(t, buf.String(), `"history": 75`)
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, DEBUG, lvl)

	lvl, err = ParseLevel("Warning")
	require.NoError(t, err)
	assert.Equal(t, WARN, lvl)

	_, err = ParseLevel("chatty")
	assert.Error(t, err)
}

func TestInvalidOutputType(t *testing.T) {
	l := NewLogger(INFO)
	assert.Error(t, l.SetLogOutput('x'))
}
