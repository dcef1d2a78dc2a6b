package stats

import (
	"math"
	"sort"

	"github.com/verte-zerg/lophoc/internal/model"
)

// PlayerAccuracy returns the share of correct answers across a player's sessions.
func PlayerAccuracy(p model.PlayerAggregate) float64 {
	acc, _ := SessionMetrics(p.Correct, p.Incorrect, 0)
	return acc
}

// AggregatePlayers sums sessions per player in first-seen order.
func AggregatePlayers(sessions []model.SessionAggregate) []model.PlayerAggregate {
	index := map[string]int{}
	var out []model.PlayerAggregate
	for _, s := range sessions {
		i, ok := index[s.PlayerName]
		if !ok {
			i = len(out)
			index[s.PlayerName] = i
			out = append(out, model.PlayerAggregate{PlayerName: s.PlayerName, BestDuration: s.DurationSeconds})
		}
		p := &out[i]
		p.Sessions++
		p.Correct += s.Correct
		p.Incorrect += s.Incorrect
		p.BestDuration = math.Min(p.BestDuration, s.DurationSeconds)
	}
	return out
}

// RankPlayers orders players by accuracy, then best time, then name.
func RankPlayers(players []model.PlayerAggregate) []model.PlayerAggregate {
	out := make([]model.PlayerAggregate, len(players))
	copy(out, players)
	sort.SliceStable(out, func(i, j int) bool {
		ai, aj := PlayerAccuracy(out[i]), PlayerAccuracy(out[j])
		if ai != aj {
			return ai > aj
		}
		if out[i].BestDuration != out[j].BestDuration {
			return out[i].BestDuration < out[j].BestDuration
		}
		return out[i].PlayerName < out[j].PlayerName
	})
	return out
}
