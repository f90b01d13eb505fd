package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestWriteThenReadRun(t *testing.T) {
	dir := t.TempDir()
	hdr := Header{RunID: uuid.NewString(), Seed: 42, StartedAt: time.Now().UTC()}

	w, err := NewWriter(dir, hdr)
	require.NoError(t, err)

	for i := uint64(0); i < 5; i++ {
		require.NoError(t, w.WriteTurn(TurnRecord{
			Seq:    i,
			Time:   i * 1000,
			Actor:  "0:1",
			Action: "move east",
			Events: []EventRecord{{Kind: "move", Actor: "0:1", X: int(i), Y: 3}},
		}))
	}
	require.NoError(t, w.Close())

	got, turns, err := Read(filepath.Join(dir, hdr.RunID+".jsonl.zst"))
	require.NoError(t, err)
	require.Equal(t, hdr.RunID, got.RunID)
	require.Equal(t, int64(42), got.Seed)
	require.Len(t, turns, 5)
	require.Equal(t, uint64(3000), turns[3].Time)
	require.Equal(t, "move", turns[3].Events[0].Kind)
}

func TestReadRejectsHeaderlessFile(t *testing.T) {
	dir := t.TempDir()
	hdr := Header{RunID: "short", Seed: 1, StartedAt: time.Now()}
	w, err := NewWriter(dir, hdr)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	// Well-formed single-header file reads back with zero turns.
	got, turns, err := Read(filepath.Join(dir, "short.jsonl.zst"))
	require.NoError(t, err)
	require.Equal(t, "short", got.RunID)
	require.Empty(t, turns)

	_, _, err = Read(filepath.Join(dir, "missing.jsonl.zst"))
	require.Error(t, err)
}
