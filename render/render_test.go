package render

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"word_etymology/etymology"
	"word_etymology/history"
)

var sample = etymology.Record{
	ModernMeaning:     "a device for *speaking* at a distance",
	CenturyOfOrigin:   "19th century",
	DetailedEtymology: "From Greek tele (far) + phone (voice).",
	FunFact:           "Bell's patent <b>174,465</b>.",
}

func TestMarkdown(t *testing.T) {
	md := Markdown("telephone", sample)
	assert.True(t, strings.HasPrefix(md, "## telephone\n"))
	assert.Contains(t, md, `a device for \*speaking\* at a distance`)
	assert.Contains(t, md, "**Century of origin:** 19th century")
}

func TestHTML_EscapesModelText(t *testing.T) {
	out, err := HTML(Markdown("telephone", sample))
	require.NoError(t, err)
	assert.Contains(t, out, "<h2>telephone</h2>")
	assert.Contains(t, out, "<strong>Modern meaning:</strong>")
	assert.Contains(t, out, "*speaking*")
	assert.NotContains(t, out, "<b>")
	assert.NotContains(t, out, "<em>")
}

func TestHistoryMarkdown(t *testing.T) {
	assert.Contains(t, HistoryMarkdown(nil), "No lookups yet")

	entries := []history.Entry{
		{Question: "phone", Answer: sample, UpdatedAt: time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC)},
		{Question: "tele", Answer: sample, UpdatedAt: time.Date(2026, 1, 1, 3, 4, 0, 0, time.UTC)},
	}
	md := HistoryMarkdown(entries)
	assert.Less(t, strings.Index(md, "## phone"), strings.Index(md, "## tele"))
	assert.Contains(t, md, "2026-01-02 03:04 UTC")
}

func TestPage(t *testing.T) {
	page := Page("History", "<p>x</p>")
	assert.Contains(t, page, "<title>History</title>")
	assert.Contains(t, page, "<p>x</p>")
}

func TestTerminal(t *testing.T) {
	out, err := Terminal(Markdown("telephone", sample), 60)
	require.NoError(t, err)
	assert.Contains(t, out, "telephone")
	assert.Contains(t, out, "19th century")
}
