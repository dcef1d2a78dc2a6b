package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/verte-zerg/lophoc/internal/model"
)

type memoryKV struct {
	data    map[string]string
	putErr  error
	getErr  error
	delErr  error
	putHits int
}

func newMemoryKV() *memoryKV {
	return &memoryKV{data: map[string]string{}}
}

func (m *memoryKV) Get(_ context.Context, key string) (string, bool, error) {
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memoryKV) Put(_ context.Context, key, value string) error {
	m.putHits++
	if m.putErr != nil {
		return m.putErr
	}
	m.data[key] = value
	return nil
}

func (m *memoryKV) Delete(_ context.Context, key string) error {
	if m.delErr != nil {
		return m.delErr
	}
	delete(m.data, key)
	return nil
}

func entry(id string, correct int, duration float64) model.Entry {
	return model.Entry{
		ID:              id,
		PlayerName:      "An",
		Timestamp:       time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC),
		DurationSeconds: duration,
		Correct:         correct,
		Incorrect:       10 - correct,
	}
}

func requireRanked(t *testing.T, b Board) {
	t.Helper()
	require.LessOrEqual(t, len(b), MaxEntries)
	for i := 1; i < len(b); i++ {
		prev, cur := b[i-1], b[i]
		if prev.Correct == cur.Correct {
			require.LessOrEqual(t, prev.DurationSeconds, cur.DurationSeconds)
			continue
		}
		require.Greater(t, prev.Correct, cur.Correct)
	}
}

func TestLoadMissingIsEmpty(t *testing.T) {
	s := New(newMemoryKV(), zaptest.NewLogger(t))
	require.Empty(t, s.Load(context.Background()))
}

func TestLoadCorruptIsEmpty(t *testing.T) {
	kv := newMemoryKV()
	kv.data[DefaultKey] = "{not json"
	s := New(kv, zaptest.NewLogger(t))
	require.Empty(t, s.Load(context.Background()))
}

func TestLoadReadErrorIsEmpty(t *testing.T) {
	kv := newMemoryKV()
	kv.getErr = errors.New("disk gone")
	require.Empty(t, New(kv, zaptest.NewLogger(t)).Load(context.Background()))
}

func TestLoadIdempotent(t *testing.T) {
	kv := newMemoryKV()
	s := New(kv, zaptest.NewLogger(t))
	ctx := context.Background()
	s.Record(ctx, entry("a", 7, 12))
	s.Record(ctx, entry("b", 9, 20))

	first := s.Load(ctx)
	second := s.Load(ctx)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("load not idempotent (-first +second):\n%s", diff)
	}
}

func TestRecordRoundTrip(t *testing.T) {
	kv := newMemoryKV()
	ctx := context.Background()
	e := entry("a", 8, 14.5)
	New(kv, zaptest.NewLogger(t)).Record(ctx, e)

	reloaded := New(kv, zaptest.NewLogger(t)).Load(ctx)
	require.Len(t, reloaded, 1)
	require.Equal(t, e.ID, reloaded[0].ID)
	require.Equal(t, e.Correct, reloaded[0].Correct)
	require.Equal(t, e.DurationSeconds, reloaded[0].DurationSeconds)
	require.True(t, e.Timestamp.Equal(reloaded[0].Timestamp))
}

func TestRecordFasterTieRanksFirst(t *testing.T) {
	s := New(newMemoryKV(), zaptest.NewLogger(t))
	ctx := context.Background()
	s.Record(ctx, entry("slow", 10, 5.0))
	board := s.Record(ctx, entry("fast", 10, 3.2))

	require.Equal(t, []string{"fast", "slow"}, []string{board[0].ID, board[1].ID})
	require.Equal(t, 1, board.Rank("fast"))
	require.Equal(t, 2, board.Rank("slow"))
	require.Equal(t, 0, board.Rank("missing"))
}

func TestRecordEvictsBeyondTopTen(t *testing.T) {
	s := New(newMemoryKV(), zaptest.NewLogger(t))
	ctx := context.Background()
	var board Board
	for correct := 0; correct <= 10; correct++ {
		board = s.Record(ctx, entry(fmt.Sprintf("c%d", correct), correct, 10))
		requireRanked(t, board)
	}
	require.Len(t, board, MaxEntries)
	require.Equal(t, 0, board.Rank("c0"))
	for correct := 1; correct <= 10; correct++ {
		require.NotZero(t, board.Rank(fmt.Sprintf("c%d", correct)))
	}
	require.Len(t, s.Load(ctx), MaxEntries)
}

func TestRecordKeepsSortedForMixedInput(t *testing.T) {
	s := New(newMemoryKV(), zaptest.NewLogger(t))
	ctx := context.Background()
	inputs := []model.Entry{
		entry("a", 3, 9), entry("b", 9, 30), entry("c", 9, 12), entry("d", 0, 1),
		entry("e", 10, 50), entry("f", 5, 5), entry("g", 9, 12.5), entry("h", 7, 7),
		entry("i", 1, 2), entry("j", 8, 8), entry("k", 6, 6), entry("l", 10, 40),
	}
	for _, e := range inputs {
		requireRanked(t, s.Record(ctx, e))
	}
	board := s.Load(ctx)
	requireRanked(t, board)
	require.Equal(t, "l", board[0].ID)
}

func TestRecordWriteFailureStillReturnsBoard(t *testing.T) {
	kv := newMemoryKV()
	kv.putErr = errors.New("read-only")
	s := New(kv, zaptest.NewLogger(t))

	board := s.Record(context.Background(), entry("a", 4, 4))
	require.Len(t, board, 1)
	require.Equal(t, 1, kv.putHits)
	require.Empty(t, s.Load(context.Background()))
}

func TestClear(t *testing.T) {
	kv := newMemoryKV()
	s := New(kv, zaptest.NewLogger(t))
	ctx := context.Background()
	s.Record(ctx, entry("a", 4, 4))
	require.NoError(t, s.Clear(ctx))
	_, ok := kv.data[DefaultKey]
	require.False(t, ok)
	require.Empty(t, s.Load(ctx))

	kv.delErr = errors.New("disk full")
	require.ErrorIs(t, s.Clear(ctx), kv.delErr)
}

func TestLoadBrowserSlot(t *testing.T) {
	kv := newMemoryKV()
	kv.data[DefaultKey] = `[` +
		`{"id":1700000000000,"playerName":"Lan","timestamp":1700000000000,"duration":3.2,"correct":10,"incorrect":0},` +
		`{"id":1700000005000,"playerName":"Minh","timestamp":1700000005000,"duration":4.5,"correct":9,"incorrect":1}]`
	board := New(kv, zaptest.NewLogger(t)).Load(context.Background())
	require.Len(t, board, 2)
	require.Equal(t, "1700000000000", board[0].ID)
	require.Equal(t, "Lan", board[0].PlayerName)
	require.True(t, board[0].Timestamp.Equal(time.UnixMilli(1700000000000)))
	require.Equal(t, 2, board.Rank("1700000005000"))
}

func TestLoadNormalizesOversizedData(t *testing.T) {
	kv := newMemoryKV()
	kv.data["custom"] = `[` +
		`{"id":"1","correct":1,"duration":1},{"id":"2","correct":2,"duration":1},` +
		`{"id":"3","correct":3,"duration":1},{"id":"4","correct":4,"duration":1},` +
		`{"id":"5","correct":5,"duration":1},{"id":"6","correct":6,"duration":1},` +
		`{"id":"7","correct":7,"duration":1},{"id":"8","correct":8,"duration":1},` +
		`{"id":"9","correct":9,"duration":1},{"id":"10","correct":10,"duration":1},` +
		`{"id":"0","correct":0,"duration":1}]`
	board := NewWithKey(kv, "custom", zaptest.NewLogger(t)).Load(context.Background())
	require.Len(t, board, MaxEntries)
	require.Equal(t, "10", board[0].ID)
	require.Equal(t, 0, board.Rank("0"))
}
