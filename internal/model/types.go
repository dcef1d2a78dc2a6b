// Package model defines shared data structures.
package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Category is the classification target of an item.
type Category string

const (
	CategoryPet       Category = "pet"
	CategoryFurniture Category = "furniture"
)

// Categories lists the valid categories in display order.
var Categories = []Category{CategoryPet, CategoryFurniture}

// ParseCategory validates a category label.
func ParseCategory(s string) (Category, error) {
	label := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, c := range Categories {
		if c == label {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Label returns the display label of the category.
func (c Category) Label() string {
	switch c {
	case CategoryPet:
		return "Vật nuôi"
	case CategoryFurniture:
		return "Đồ đạc"
	default:
		return string(c)
	}
}

// Item is a single word to classify.
type Item struct {
	ID       string   `json:"id"`
	Text     string   `json:"text"`
	Category Category `json:"category"`
}

// Entry is a persisted leaderboard record of one completed session.
type Entry struct {
	ID              string    `json:"id"`
	PlayerName      string    `json:"playerName"`
	Timestamp       time.Time `json:"timestamp"`
	DurationSeconds float64   `json:"duration"`
	Correct         int       `json:"correct"`
	Incorrect       int       `json:"incorrect"`
}

// UnmarshalJSON accepts both the native form and the browser slot form, where
// id and timestamp are epoch-millisecond numbers.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID              json.RawMessage `json:"id"`
		PlayerName      string          `json:"playerName"`
		Timestamp       json.RawMessage `json:"timestamp"`
		DurationSeconds float64         `json:"duration"`
		Correct         int             `json:"correct"`
		Incorrect       int             `json:"incorrect"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	id, err := decodeEntryID(raw.ID)
	if err != nil {
		return err
	}
	ts, err := decodeTimestamp(raw.Timestamp)
	if err != nil {
		return err
	}
	*e = Entry{
		ID:              id,
		PlayerName:      raw.PlayerName,
		Timestamp:       ts,
		DurationSeconds: raw.DurationSeconds,
		Correct:         raw.Correct,
		Incorrect:       raw.Incorrect,
	}
	return nil
}

func decodeEntryID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("invalid entry id %s", raw)
	}
	return n.String(), nil
}

func decodeTimestamp(raw json.RawMessage) (time.Time, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return time.Time{}, nil
	}
	var t time.Time
	if err := json.Unmarshal(raw, &t); err == nil {
		return t, nil
	}
	var ms float64
	if err := json.Unmarshal(raw, &ms); err != nil {
		return time.Time{}, fmt.Errorf("invalid entry timestamp %s", raw)
	}
	return time.UnixMilli(int64(ms)).UTC(), nil
}

// SessionResult captures a completed sorting session for history.
type SessionResult struct {
	PlayerName      string
	StartedAt       time.Time
	EndedAt         time.Time
	Correct         int
	Incorrect       int
	DurationSeconds float64
	Source          string
}

// SessionAggregate summarizes a stored session for reporting.
type SessionAggregate struct {
	SessionID       int64
	PlayerName      string
	EndedAt         time.Time
	Correct         int
	Incorrect       int
	DurationSeconds float64
}

// PlayerAggregate sums sessions for one player.
type PlayerAggregate struct {
	PlayerName   string
	Sessions     int
	Correct      int
	Incorrect    int
	BestDuration float64
}

// Config defines play settings.
type Config struct {
	Model     string
	ItemsFile string
	APIKey    string
	Offline   bool
	Debug     bool
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Player      string
	Since       *time.Time
	Last        int
	CurveWindow int
}

// NormalizeText trims and NFC-normalizes user or provider text.
func NormalizeText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
