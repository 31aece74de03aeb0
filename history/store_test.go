package history

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"word_etymology/etymology"
)

func setupTestStore(t *testing.T, maxEntries int) *Store {
	t.Helper()
	s, err := Open(context.Background(), ":memory:", maxEntries)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	// Deterministic, strictly increasing clock.
	base := time.Unix(1700000000, 0)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return s
}

func rec(meaning string) etymology.Record {
	return etymology.Record{ModernMeaning: meaning, CenturyOfOrigin: "c", DetailedEtymology: "d", FunFact: "f"}
}

func questions(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Question)
	}
	return out
}

func TestStore_NewestFirst(t *testing.T) {
	s := setupTestStore(t, 10)
	ctx := context.Background()
	require.NoError(t, s.Record(ctx, "apple", rec("a")))
	require.NoError(t, s.Record(ctx, "banana", rec("b")))
	require.NoError(t, s.Record(ctx, "cherry", rec("c")))

	entries, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"cherry", "banana", "apple"}, questions(entries))
	assert.Equal(t, rec("c"), entries[0].Answer)
}

func TestStore_DedupCaseInsensitive(t *testing.T) {
	s := setupTestStore(t, 10)
	ctx := context.Background()
	require.NoError(t, s.Record(ctx, "Apple", rec("first")))
	require.NoError(t, s.Record(ctx, "banana", rec("b")))
	require.NoError(t, s.Record(ctx, "APPLE", rec("second")))

	entries, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "APPLE", entries[0].Question)
	assert.Equal(t, rec("second"), entries[0].Answer)
	assert.Equal(t, "banana", entries[1].Question)
}

func TestStore_TrimsToMax(t *testing.T) {
	s := setupTestStore(t, 2)
	ctx := context.Background()
	for _, q := range []string{"one", "two", "three"} {
		require.NoError(t, s.Record(ctx, q, rec(q)))
	}
	entries, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"three", "two"}, questions(entries))
}

func TestStore_Clear(t *testing.T) {
	s := setupTestStore(t, 10)
	ctx := context.Background()
	require.NoError(t, s.Record(ctx, "apple", rec("a")))
	require.NoError(t, s.Clear(ctx))

	entries, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NotNil(t, entries)
}

func TestStore_RejectsBlankQuestion(t *testing.T) {
	s := setupTestStore(t, 10)
	require.Error(t, s.Record(context.Background(), "   ", rec("a")))
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open(context.Background(), "", 10)
	require.Error(t, err)
}

func TestKey(t *testing.T) {
	assert.Equal(t, Key("Straße"), Key("STRASSE"))
	assert.Equal(t, Key("word"), Key("WORD"))
}
