// Package leaderboard keeps the top sorting-session results in a key-value slot.
package leaderboard

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/verte-zerg/lophoc/internal/model"
)

const (
	// DefaultKey is the storage slot holding the serialized leaderboard.
	DefaultKey = "pet_furniture_leaderboard_v2"
	// MaxEntries caps the leaderboard length.
	MaxEntries = 10
)

// KV is a client-local key-value store.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Board is a ranked list of entries, best first.
type Board []model.Entry

// Rank returns the 1-based rank of the entry with id, or 0 if absent.
func (b Board) Rank(id string) int {
	for i, e := range b {
		if e.ID == id {
			return i + 1
		}
	}
	return 0
}

// Store loads and records leaderboard entries.
type Store struct {
	kv     KV
	key    string
	logger *zap.Logger
}

// New returns a Store persisting to kv under DefaultKey.
func New(kv KV, logger *zap.Logger) *Store {
	return NewWithKey(kv, DefaultKey, logger)
}

// NewWithKey returns a Store persisting to kv under key.
func NewWithKey(kv KV, key string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{kv: kv, key: key, logger: logger}
}

// Load returns the persisted board. Missing or corrupt data yields an empty board.
func (s *Store) Load(ctx context.Context) Board {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		s.logger.Warn("failed to read leaderboard", zap.String("key", s.key), zap.Error(err))
		return Board{}
	}
	if !ok || raw == "" {
		return Board{}
	}
	var entries []model.Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		s.logger.Warn("failed to parse leaderboard", zap.String("key", s.key), zap.Error(err))
		return Board{}
	}
	return rank(entries)
}

// Record inserts entry, re-ranks, truncates and persists the board. A failed
// write is logged and the updated board is still returned.
func (s *Store) Record(ctx context.Context, entry model.Entry) Board {
	board := s.Load(ctx)
	updated := rank(append(board, entry))
	if err := s.save(ctx, updated); err != nil {
		s.logger.Warn("failed to save leaderboard", zap.String("key", s.key), zap.Error(err))
	}
	return updated
}

// Clear removes the persisted board; a later Load returns an empty board.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("failed to clear leaderboard: %w", err)
	}
	return nil
}

func (s *Store) save(ctx context.Context, board Board) error {
	data, err := json.Marshal(board)
	if err != nil {
		return fmt.Errorf("failed to encode leaderboard: %w", err)
	}
	if err := s.kv.Put(ctx, s.key, string(data)); err != nil {
		return fmt.Errorf("failed to write leaderboard: %w", err)
	}
	return nil
}

// rank sorts by correct desc, duration asc and keeps the top MaxEntries.
func rank(entries []model.Entry) Board {
	out := make(Board, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Correct != out[j].Correct {
			return out[i].Correct > out[j].Correct
		}
		return out[i].DurationSeconds < out[j].DurationSeconds
	})
	if len(out) > MaxEntries {
		out = out[:MaxEntries]
	}
	return out
}
