package statsui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/lophoc/internal/leaderboard"
	"github.com/verte-zerg/lophoc/internal/model"
)

type fakeHistory struct {
	sessions []model.SessionAggregate
	players  []model.PlayerAggregate
	err      error
	lastCfg  model.StatsConfig
}

func (h *fakeHistory) ListSessions(_ context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error) {
	h.lastCfg = cfg
	return h.sessions, h.err
}

func (h *fakeHistory) ListPlayers(context.Context, model.StatsConfig) ([]model.PlayerAggregate, error) {
	return h.players, h.err
}

type fakeBoards leaderboard.Board

func (b fakeBoards) Load(context.Context) leaderboard.Board { return leaderboard.Board(b) }

func sampleHistory() *fakeHistory {
	end := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	return &fakeHistory{
		sessions: []model.SessionAggregate{
			{SessionID: 1, PlayerName: "An", EndedAt: end, Correct: 8, Incorrect: 2, DurationSeconds: 30},
			{SessionID: 2, PlayerName: "An", EndedAt: end.Add(time.Hour), Correct: 10, DurationSeconds: 22},
		},
		players: []model.PlayerAggregate{{PlayerName: "An", Sessions: 2, Correct: 18, Incorrect: 2, BestDuration: 22}},
	}
}

func sized(t *testing.T, m *Model) *Model {
	t.Helper()
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(*Model)
}

func TestViewFitsWindow(t *testing.T) {
	m := sized(t, NewModel(sampleHistory(), fakeBoards{{ID: "x", PlayerName: "An", Correct: 10}}, model.StatsConfig{CurveWindow: 5}))
	view := m.View()
	require.Len(t, strings.Split(view, "\n"), 40)
	require.Contains(t, view, "Tổng quan")
	require.Contains(t, view, "Số lượt")
}

func TestTabsCycle(t *testing.T) {
	m := sized(t, NewModel(sampleHistory(), fakeBoards{}, model.StatsConfig{}))
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	require.Equal(t, tabPlayers, m.activeTab)
	require.True(t, m.tables[tabPlayers].Focused())
	require.Contains(t, m.View(), "An")

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	require.Equal(t, tabLeaderboard, m.activeTab)
	require.Contains(t, m.View(), "Chưa có thành tích nào. Hãy là người đầu tiên!")

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	require.Equal(t, tabOverview, m.activeTab)
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	require.Equal(t, tabLeaderboard, m.activeTab)
}

func TestFilterAppliesToHistory(t *testing.T) {
	h := sampleHistory()
	m := sized(t, NewModel(h, nil, model.StatsConfig{CurveWindow: 5}))
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	require.True(t, m.filterMode)

	m.filterInputs[fieldPlayer].SetValue("An")
	m.filterInputs[fieldLast].SetValue("1")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.False(t, m.filterMode)
	require.Equal(t, "An", h.lastCfg.Player)
	require.Len(t, m.report.Sessions, 1)
}

func TestFilterRejectsBadInput(t *testing.T) {
	m := sized(t, NewModel(sampleHistory(), nil, model.StatsConfig{}))
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	m.filterInputs[fieldSince].SetValue("17/10/2026")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, m.filterMode)
	require.Contains(t, m.filterError, "ngày bắt đầu")
}

func TestParseFilter(t *testing.T) {
	cfg, err := parseFilter([4]string{"", "2026-10-01", "3", "7"})
	require.NoError(t, err)
	require.NotNil(t, cfg.Since)
	require.Equal(t, 3, cfg.Last)
	require.Equal(t, 7, cfg.CurveWindow)

	_, err = parseFilter([4]string{"", "", "-1", ""})
	require.Error(t, err)
	_, err = parseFilter([4]string{"", "", "", "0"})
	require.Error(t, err)
}

func TestLoadErrorShown(t *testing.T) {
	m := sized(t, NewModel(&fakeHistory{err: errors.New("disk gone")}, nil, model.StatsConfig{}))
	view := m.View()
	require.Contains(t, view, "Không tải được thống kê.")
	require.Contains(t, view, "disk gone")
}

func TestCurveWindowSteps(t *testing.T) {
	require.Equal(t, 5, nextCurveWindow(1))
	require.Equal(t, 15, nextCurveWindow(10))
	require.Equal(t, 10, nextCurveWindow(7))
	require.Equal(t, 1, prevCurveWindow(5))
	require.Equal(t, 5, prevCurveWindow(10))
	require.Equal(t, 5, prevCurveWindow(7))
}
