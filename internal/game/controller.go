package game

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/verte-zerg/lophoc/internal/content"
	"github.com/verte-zerg/lophoc/internal/leaderboard"
	"github.com/verte-zerg/lophoc/internal/model"
)

// Fetcher supplies items for a session and never fails.
type Fetcher interface {
	FetchItems(ctx context.Context) content.Batch
}

// Shuffler orders a session's items.
type Shuffler interface {
	Shuffle(items []model.Item) []model.Item
}

// Leaderboard loads and records ranked results.
type Leaderboard interface {
	Load(ctx context.Context) leaderboard.Board
	Record(ctx context.Context, entry model.Entry) leaderboard.Board
}

// History appends completed sessions.
type History interface {
	InsertSession(ctx context.Context, result model.SessionResult) (int64, error)
}

// Deps groups Controller collaborators. History, Now, NewID and Logger are optional.
type Deps struct {
	Fetcher     Fetcher
	Shuffler    Shuffler
	Leaderboard Leaderboard
	History     History
	Now         func() time.Time
	NewID       func() string
	Logger      *zap.Logger
}

// Outcome is the result of a classification.
type Outcome struct {
	Decision Decision
	// Entry is set when the decision completed the session.
	Entry *model.Entry
	Board leaderboard.Board
}

// Controller drives a sorting session.
type Controller struct {
	state       State
	fetcher     Fetcher
	shuffler    Shuffler
	leaderboard Leaderboard
	history     History
	now         func() time.Time
	newID       func() string
	logger      *zap.Logger
}

// NewController constructs a Controller in the Idle state.
func NewController(deps Deps) *Controller {
	c := &Controller{
		fetcher:     deps.Fetcher,
		shuffler:    deps.Shuffler,
		leaderboard: deps.Leaderboard,
		history:     deps.History,
		now:         deps.Now,
		newID:       deps.NewID,
		logger:      deps.Logger,
	}
	if c.shuffler == nil {
		c.shuffler = content.NewShuffler()
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.newID == nil {
		c.newID = newEntryID
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c
}

// State returns a snapshot of the session state.
func (c *Controller) State() State {
	return c.state
}

// Elapsed returns the timer value in whole seconds.
func (c *Controller) Elapsed() int {
	return Elapsed(c.state, c.now())
}

// Submit validates the player name and enters Loading. The returned token
// must accompany the matching Deliver call.
func (c *Controller) Submit(name string) (uint64, error) {
	next, err := Submit(c.state, name)
	if err != nil {
		return 0, err
	}
	c.state = next
	c.logger.Debug("session loading", zap.String("player", next.PlayerName), zap.Uint64("token", next.Token))
	return next.Token, nil
}

// Fetch requests items from the content source. It does not touch state and
// is safe to call off the UI goroutine.
func (c *Controller) Fetch(ctx context.Context) content.Batch {
	return c.fetcher.FetchItems(ctx)
}

// Deliver shuffles batch and activates the session identified by token.
func (c *Controller) Deliver(token uint64, batch content.Batch) error {
	next, err := Deliver(c.state, token, c.shuffler.Shuffle(batch.Items), batch.Source, c.now())
	if err != nil {
		c.logger.Debug("dropped item delivery", zap.Uint64("token", token), zap.Error(err))
		return err
	}
	c.state = next
	c.logger.Info("session started",
		zap.String("player", next.PlayerName),
		zap.String("source", next.Source),
		zap.Int("items", next.Total))
	return nil
}

// Start submits name, fetches and delivers items synchronously.
func (c *Controller) Start(ctx context.Context, name string) error {
	token, err := c.Submit(name)
	if err != nil {
		return err
	}
	return c.Deliver(token, c.Fetch(ctx))
}

// Classify records a decision for the current item. On the last item it
// finalizes the session and records the leaderboard entry.
func (c *Controller) Classify(ctx context.Context, choice model.Category) (Outcome, error) {
	next, decision, err := Classify(c.state, choice, c.now())
	if err != nil {
		return Outcome{}, err
	}
	c.state = next
	out := Outcome{Decision: decision}
	if !decision.Completed {
		return out, nil
	}

	entry := model.Entry{
		ID:              c.newID(),
		PlayerName:      next.PlayerName,
		Timestamp:       next.EndedAt,
		DurationSeconds: next.Duration().Seconds(),
		Correct:         next.Correct,
		Incorrect:       next.Incorrect,
	}
	out.Entry = &entry
	out.Board = c.leaderboard.Record(ctx, entry)
	c.logger.Info("session completed",
		zap.String("player", entry.PlayerName),
		zap.Int("correct", entry.Correct),
		zap.Int("incorrect", entry.Incorrect),
		zap.Float64("duration_s", entry.DurationSeconds),
		zap.Int("rank", out.Board.Rank(entry.ID)))

	if c.history != nil {
		if result, ok := Result(next); ok {
			if _, err := c.history.InsertSession(ctx, result); err != nil {
				c.logger.Warn("failed to save session history", zap.Error(err))
			}
		}
	}
	return out, nil
}

// Replay starts a new session for the same player.
func (c *Controller) Replay() (uint64, error) {
	next, err := Replay(c.state)
	if err != nil {
		return 0, err
	}
	c.state = next
	return next.Token, nil
}

// Reset abandons the current session and returns to Idle.
func (c *Controller) Reset() {
	c.state = Reset(c.state)
}

// Board returns the persisted leaderboard.
func (c *Controller) Board(ctx context.Context) leaderboard.Board {
	return c.leaderboard.Load(ctx)
}

func newEntryID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
