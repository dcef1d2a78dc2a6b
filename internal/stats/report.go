package stats

import (
	"context"
	"io"

	"github.com/verte-zerg/lophoc/internal/model"
)

// History is the session history a report is built from.
type History interface {
	ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error)
	ListPlayers(ctx context.Context, cfg model.StatsConfig) ([]model.PlayerAggregate, error)
}

// Report contains precomputed data for stats rendering.
type Report struct {
	Sessions []model.SessionAggregate
	Players  []model.PlayerAggregate
	Summary  Summary
}

// BuildReport loads and prepares data for stats rendering. cfg.Last trims to
// the most recent sessions; player aggregates cover the same sessions.
func BuildReport(ctx context.Context, h History, cfg model.StatsConfig) (Report, error) {
	sessions, err := h.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	var players []model.PlayerAggregate
	if cfg.Last > 0 && len(sessions) > cfg.Last {
		sessions = sessions[len(sessions)-cfg.Last:]
		players = AggregatePlayers(sessions)
	} else {
		players, err = h.ListPlayers(ctx, cfg)
		if err != nil {
			return Report{}, err
		}
	}
	return Report{
		Sessions: sessions,
		Players:  RankPlayers(players),
		Summary:  Summarize(sessions),
	}, nil
}

// Render writes the full plain-text report.
func (r Report) Render(w io.Writer, window int) error {
	if err := RenderSummary(w, r.Sessions); err != nil {
		return err
	}
	if err := RenderCurves(w, r.Sessions, window); err != nil {
		return err
	}
	if len(r.Sessions) == 0 {
		return nil
	}
	return RenderPlayerTable(w, r.Players)
}
