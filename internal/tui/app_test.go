package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap/zaptest"

	"github.com/verte-zerg/lophoc/internal/content"
	"github.com/verte-zerg/lophoc/internal/game"
	"github.com/verte-zerg/lophoc/internal/leaderboard"
	"github.com/verte-zerg/lophoc/internal/matching"
	"github.com/verte-zerg/lophoc/internal/model"
	"github.com/verte-zerg/lophoc/internal/store"
)

func newTestApp(t *testing.T) (*App, *game.Controller) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "lophoc.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	logger := zaptest.NewLogger(t)
	ctrl := game.NewController(game.Deps{
		Fetcher:     content.NewFetcher(nil, logger),
		Shuffler:    content.NewSeededShuffler(7),
		Leaderboard: leaderboard.New(st, logger),
		History:     st,
		Logger:      logger,
	})
	app := NewApp(context.Background(), ctrl)
	app.Update(tea.WindowSizeMsg{Width: 120, Height: 60})
	return app, ctrl
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(app *App, s string) {
	for _, r := range s {
		app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestWelcomeToShellAndBack(t *testing.T) {
	app, _ := newTestApp(t)
	if !strings.Contains(app.View(), "Lớp 3A4!") {
		t.Fatalf("expected welcome screen")
	}
	app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if app.screen != screenShell {
		t.Fatalf("expected shell after enter")
	}
	if !strings.Contains(app.View(), "Chào bạn mới!") {
		t.Fatalf("expected name prompt in first tab")
	}

	app.Update(tea.KeyMsg{Type: tea.KeyTab})
	if app.active != 1 || !strings.Contains(app.View(), "Nhà Thuỷ") {
		t.Fatalf("expected reading tab, active=%d", app.active)
	}
	app.Update(keyRunes("h"))
	if app.screen != screenWelcome {
		t.Fatalf("expected h to return to welcome outside text input")
	}
}

func TestTypingHDoesNotLeaveNamePrompt(t *testing.T) {
	app, _ := newTestApp(t)
	app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	typeText(app, "Hoa")
	app.Update(keyRunes("h"))
	if app.screen != screenShell {
		t.Fatalf("typing h into the name must not navigate")
	}
	if got := app.panes[0].(*sortingPane).input.Value(); got != "Hoah" {
		t.Fatalf("expected typed name, got %q", got)
	}
}

func TestNamePromptCursorBlinks(t *testing.T) {
	app, _ := newTestApp(t)
	app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	pane := app.panes[0].(*sortingPane)

	msg := pane.input.Focus()()
	if _, ok := msg.(cursor.BlinkMsg); !ok {
		t.Fatalf("expected a blink message, got %T", msg)
	}
	before := pane.input.Cursor.Blink
	if _, cmd := app.Update(msg); cmd == nil {
		t.Fatalf("expected the next blink to be scheduled")
	}
	if pane.input.Cursor.Blink == before {
		t.Fatalf("expected the prompt cursor to toggle")
	}
}

func TestBlankNameShowsWarning(t *testing.T) {
	app, ctrl := newTestApp(t)
	app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	typeText(app, "   ")
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatalf("blank name must not start a fetch")
	}
	if ctrl.State().Status != game.StatusIdle {
		t.Fatalf("expected idle, got %s", ctrl.State().Status)
	}
	if !strings.Contains(app.View(), blankNameWarning) {
		t.Fatalf("expected blank name warning")
	}
}

func TestSortingSessionEndToEnd(t *testing.T) {
	app, ctrl := newTestApp(t)
	pane := app.panes[0].(*sortingPane)
	app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	typeText(app, "Minh")
	pane.start()
	if ctrl.State().Status != game.StatusLoading {
		t.Fatalf("expected loading, got %s", ctrl.State().Status)
	}
	if !strings.Contains(app.View(), "Cô giáo AI đang soạn câu hỏi mới...") {
		t.Fatalf("expected loading indicator")
	}

	token := ctrl.State().Token
	app.Update(itemsMsg{token: token, batch: ctrl.Fetch(context.Background())})
	if ctrl.State().Status != game.StatusActive {
		t.Fatalf("expected active, got %s", ctrl.State().Status)
	}
	if !strings.Contains(app.View(), "Câu 1/10") {
		t.Fatalf("expected progress line, got:\n%s", app.View())
	}

	for i := 0; i < 10; i++ {
		item, ok := ctrl.State().Current()
		if !ok {
			t.Fatalf("expected current item at step %d", i)
		}
		key := tea.KeyMsg{Type: tea.KeyLeft}
		if item.Category == model.CategoryFurniture {
			key = keyRunes("2")
		}
		if i == 0 {
			key = wrongKey(item.Category)
		}
		app.Update(key)
	}

	s := ctrl.State()
	if s.Status != game.StatusCompleted || s.Correct != 9 || s.Incorrect != 1 {
		t.Fatalf("unexpected final state: %+v", s)
	}
	view := app.View()
	for _, want := range []string{"Hoàn thành bài tập!", "Bảng Xếp Hạng", "Minh", "Em xếp hạng 1!", correctMessage} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in completed view:\n%s", want, view)
		}
	}
	if _, cmd := app.Update(tickMsg{token: token}); cmd != nil {
		t.Fatalf("timer must stop once the session completes")
	}

	app.Update(keyRunes("r"))
	if ctrl.State().Status != game.StatusLoading || ctrl.State().PlayerName != "Minh" {
		t.Fatalf("expected replay for the same player, got %+v", ctrl.State())
	}
}

func TestLeavingDropsPendingFetch(t *testing.T) {
	app, ctrl := newTestApp(t)
	pane := app.panes[0].(*sortingPane)
	app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	typeText(app, "Lan")
	pane.start()
	stale := itemsMsg{token: ctrl.State().Token, batch: content.Batch{Items: content.FallbackItems(), Source: content.FallbackName}}

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if ctrl.State().Status != game.StatusIdle {
		t.Fatalf("expected idle after leaving, got %s", ctrl.State().Status)
	}
	if _, cmd := app.Update(stale); cmd != nil {
		t.Fatalf("stale delivery must not start the timer")
	}
	if ctrl.State().Status != game.StatusIdle {
		t.Fatalf("stale delivery must be dropped, got %s", ctrl.State().Status)
	}
	if pane.input.Value() != "Lan" {
		t.Fatalf("expected name kept as prefill, got %q", pane.input.Value())
	}
}

func TestTickRescheduledOnlyWhileActive(t *testing.T) {
	app, ctrl := newTestApp(t)
	pane := app.panes[0].(*sortingPane)
	app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	typeText(app, "Vy")
	pane.start()
	token := ctrl.State().Token
	if cmd := pane.update(tickMsg{token: token}); cmd != nil {
		t.Fatalf("no ticks while loading")
	}
	app.Update(itemsMsg{token: token, batch: ctrl.Fetch(context.Background())})
	if cmd := pane.update(tickMsg{token: token}); cmd == nil {
		t.Fatalf("expected next tick while active")
	}
	if cmd := pane.update(tickMsg{token: token - 1}); cmd != nil {
		t.Fatalf("ticks from older sessions must stop")
	}
}

func TestReadingPaneFlow(t *testing.T) {
	app, _ := newTestApp(t)
	app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app.Update(tea.KeyMsg{Type: tea.KeyTab})
	pane := app.panes[1].(*readingPane)

	// q1: second option, q2: third option.
	app.Update(tea.KeyMsg{Type: tea.KeyDown})
	app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	for i := 0; i < 5; i++ {
		app.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !pane.quiz.CanCheck() {
		t.Fatalf("expected both questions answered")
	}
	app.Update(keyRunes("c"))
	if pane.result == nil || pane.result.Correct != 2 {
		t.Fatalf("expected 2 correct, got %+v", pane.result)
	}
	if !strings.Contains(app.View(), "Kết quả: 2/2 câu đúng") {
		t.Fatalf("expected score in view")
	}
	app.Update(keyRunes("r"))
	if pane.quiz.Checked() || pane.result != nil {
		t.Fatalf("expected reset quiz")
	}
}

func TestMatchingPaneMismatchClears(t *testing.T) {
	pane := newMatchingPane(matching.New(matching.DefaultPairs))
	pane.update(tea.KeyMsg{Type: tea.KeyEnter})
	if pane.board.Selected() != "1" || pane.column != 1 {
		t.Fatalf("expected left selection to move focus right")
	}
	// Right column is reversed, so row 0 holds pair 4.
	cmd := pane.update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil || pane.board.Mismatch() != "4" {
		t.Fatalf("expected mismatch with a clear timer")
	}
	pane.update(clearMismatchMsg{id: "4", seq: pane.seq - 1})
	if pane.board.Mismatch() != "4" {
		t.Fatalf("outdated clear must be ignored")
	}
	pane.update(clearMismatchMsg{id: "4", seq: pane.seq})
	if pane.board.Mismatch() != "" {
		t.Fatalf("expected mismatch cleared")
	}

	for i := 0; i < 3; i++ {
		pane.update(tea.KeyMsg{Type: tea.KeyDown})
	}
	pane.update(tea.KeyMsg{Type: tea.KeyEnter})
	if !pane.board.Matched("1") || pane.column != 0 {
		t.Fatalf("expected pair 1 matched")
	}
}

func TestMatchingPaneCompletes(t *testing.T) {
	pane := newMatchingPane(matching.New(matching.DefaultPairs))
	pairs := pane.board.Pairs()
	right := pane.board.RightOrder()
	for li, pair := range pairs {
		pane.column, pane.row = 0, li
		pane.pick()
		for ri, r := range right {
			if r.ID == pair.ID {
				pane.row = ri
			}
		}
		pane.pick()
	}
	if !pane.board.Complete() {
		t.Fatalf("expected all pairs matched")
	}
	if !strings.Contains(pane.view(80), "Em đã tìm ra tất cả các phép so sánh!") {
		t.Fatalf("expected completion message")
	}
}

func TestRenderStatusLine(t *testing.T) {
	app, _ := newTestApp(t)
	pane := app.panes[0].(*sortingPane)
	s := game.State{Status: game.StatusActive, Total: 10, Correct: 2, Incorrect: 1, StartedAt: time.Now()}
	out := pane.renderStatus(s)
	for _, want := range []string{"Câu 4/10", "Đúng 2", "Sai 1", "Thời gian 0s"} {
		if !strings.Contains(out, want) {
			t.Fatalf("status missing %q: %s", want, out)
		}
	}
}

func wrongKey(c model.Category) tea.KeyMsg {
	if c == model.CategoryPet {
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return keyRunes("1")
}
