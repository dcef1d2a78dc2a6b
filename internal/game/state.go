// Package game implements the sorting exercise as an explicit state machine.
//
// Every transition is a pure function from a State and an event to a new
// State, so sessions can be driven and tested without any rendering surface.
// The Controller composes these transitions with content fetching and
// leaderboard persistence.
package game

import (
	"errors"
	"time"

	"github.com/verte-zerg/lophoc/internal/model"
)

var (
	// ErrBlankName rejects a blank or whitespace-only player name.
	ErrBlankName = errors.New("player name is required")
	// ErrNotIdle rejects a name submission outside the Idle state.
	ErrNotIdle = errors.New("session already started")
	// ErrStaleSession rejects items delivered for a superseded session.
	ErrStaleSession = errors.New("stale session")
	// ErrNoItems rejects an empty item delivery.
	ErrNoItems = errors.New("no items to classify")
	// ErrNotActive rejects a classification outside the Active state.
	ErrNotActive = errors.New("session is not active")
	// ErrNotCompleted rejects a replay before the session completed.
	ErrNotCompleted = errors.New("session is not completed")
)

// Status is the phase of a sorting session.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusActive
	StatusCompleted
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusActive:
		return "active"
	case StatusCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Feedback is the signal emitted by the last classification.
type Feedback int

const (
	FeedbackNone Feedback = iota
	FeedbackCorrect
	FeedbackIncorrect
)

// State is the full sorting session state.
type State struct {
	Status     Status
	PlayerName string
	// Token identifies the current session; it changes whenever a new
	// session starts or the player leaves, invalidating in-flight fetches.
	Token     uint64
	Source    string
	Queue     []model.Item
	Total     int
	Correct   int
	Incorrect int
	StartedAt time.Time
	EndedAt   time.Time
	Feedback  Feedback
}

// Decision describes one classification.
type Decision struct {
	Item      model.Item
	Choice    model.Category
	Correct   bool
	Completed bool
}

// Current returns the item awaiting classification.
func (s State) Current() (model.Item, bool) {
	if s.Status != StatusActive || len(s.Queue) == 0 {
		return model.Item{}, false
	}
	return s.Queue[0], true
}

// Consumed returns the number of classification decisions made.
func (s State) Consumed() int {
	return s.Correct + s.Incorrect
}

// Position returns the 1-based index of the current item.
func (s State) Position() int {
	return s.Consumed() + 1
}

// Duration returns the final session duration once completed.
func (s State) Duration() time.Duration {
	if s.Status != StatusCompleted || s.StartedAt.IsZero() {
		return 0
	}
	return s.EndedAt.Sub(s.StartedAt)
}

// Elapsed returns whole seconds for the running timer display. It is zero
// while loading and frozen at the final duration once completed.
func Elapsed(s State, now time.Time) int {
	switch s.Status {
	case StatusActive:
		if s.StartedAt.IsZero() || now.Before(s.StartedAt) {
			return 0
		}
		return int(now.Sub(s.StartedAt) / time.Second)
	case StatusCompleted:
		return int(s.Duration() / time.Second)
	default:
		return 0
	}
}

// Submit starts a session for name.
func Submit(s State, name string) (State, error) {
	if s.Status != StatusIdle {
		return s, ErrNotIdle
	}
	name = model.NormalizeText(name)
	if name == "" {
		return s, ErrBlankName
	}
	s.PlayerName = name
	return begin(s), nil
}

// Deliver moves a loading session to Active with items in their final order.
func Deliver(s State, token uint64, items []model.Item, source string, now time.Time) (State, error) {
	if s.Status != StatusLoading || token != s.Token {
		return s, ErrStaleSession
	}
	if len(items) == 0 {
		return s, ErrNoItems
	}
	queue := make([]model.Item, len(items))
	copy(queue, items)
	s.Status = StatusActive
	s.Source = source
	s.Queue = queue
	s.Total = len(queue)
	s.StartedAt = now
	return s, nil
}

// Classify assigns the current item to choice. A miss still consumes the item.
func Classify(s State, choice model.Category, now time.Time) (State, Decision, error) {
	current, ok := s.Current()
	if !ok {
		return s, Decision{}, ErrNotActive
	}
	decision := Decision{
		Item:    current,
		Choice:  choice,
		Correct: current.Category == choice,
	}
	remaining := s.Queue[1:]
	if len(remaining) == 0 {
		decision.Completed = true
		return finalize(s, decision.Correct, now), decision, nil
	}
	next := s
	next.Queue = remaining
	if decision.Correct {
		next.Correct++
		next.Feedback = FeedbackCorrect
	} else {
		next.Incorrect++
		next.Feedback = FeedbackIncorrect
	}
	return next, decision, nil
}

// finalize completes a session from the state before the last decision and
// that decision's outcome, so the final tallies always include it.
func finalize(prev State, lastCorrect bool, now time.Time) State {
	done := prev
	done.Queue = nil
	done.Status = StatusCompleted
	done.EndedAt = now
	if lastCorrect {
		done.Correct = prev.Correct + 1
		done.Feedback = FeedbackCorrect
	} else {
		done.Incorrect = prev.Incorrect + 1
		done.Feedback = FeedbackIncorrect
	}
	return done
}

// Replay starts a new session for the same player.
func Replay(s State) (State, error) {
	if s.Status != StatusCompleted {
		return s, ErrNotCompleted
	}
	return begin(s), nil
}

// Reset returns to Idle, keeping the player name as a prefill.
func Reset(s State) State {
	return State{
		Status:     StatusIdle,
		PlayerName: s.PlayerName,
		Token:      s.Token + 1,
	}
}

// Result returns the session outcome for history. ok is false until completed.
func Result(s State) (model.SessionResult, bool) {
	if s.Status != StatusCompleted {
		return model.SessionResult{}, false
	}
	return model.SessionResult{
		PlayerName:      s.PlayerName,
		StartedAt:       s.StartedAt,
		EndedAt:         s.EndedAt,
		Correct:         s.Correct,
		Incorrect:       s.Incorrect,
		DurationSeconds: s.Duration().Seconds(),
		Source:          s.Source,
	}, true
}

func begin(s State) State {
	return State{
		Status:     StatusLoading,
		PlayerName: s.PlayerName,
		Token:      s.Token + 1,
	}
}
