package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleHandlerFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelDebug, Output: &buf})

	l.Info("rule added", "source", "10.0.0.0/8", "tag", "geogate:local")

	out := buf.String()
	assert.Contains(t, out, "[info]")
	assert.Contains(t, out, "rule added")
	assert.Contains(t, out, "source=10.0.0.0/8")
	assert.Contains(t, out, "tag=geogate:local")
}

func TestWithComponentPromotesHeader(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelInfo, Output: &buf}).WithComponent("geosync")

	l.Warn("skipping invalid entry", "line", "bad-entry")

	out := buf.String()
	assert.Contains(t, out, "geosync: skipping invalid entry")
	assert.NotContains(t, out, "component=")
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelWarn, Output: &buf})

	l.Info("not shown")
	l.Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "not shown")
	assert.Contains(t, out, "shown")

	l.SetLevel(LevelDebug)
	l.Debug("now visible")
	assert.Contains(t, buf.String(), "now visible")
}

func TestJSONHandler(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelInfo, Output: &buf, JSON: true})

	l.Info("sync complete", "added", 42)

	out := buf.String()
	require.True(t, strings.HasPrefix(out, "{"))
	assert.Contains(t, out, `"added":42`)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelWarn, ParseLevel("warning"))
	assert.Equal(t, LevelError, ParseLevel("error"))
	assert.Equal(t, LevelInfo, ParseLevel(""))
	assert.Equal(t, LevelInfo, ParseLevel("bogus"))
}

func TestQuotedAttrValues(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelInfo, Output: &buf})

	l.Info("fetch failed", "reason", "empty body")
	assert.Contains(t, buf.String(), `reason="empty body"`)
}
