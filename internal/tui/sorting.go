package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/lophoc/internal/content"
	"github.com/verte-zerg/lophoc/internal/game"
	"github.com/verte-zerg/lophoc/internal/leaderboard"
	"github.com/verte-zerg/lophoc/internal/model"
	"github.com/verte-zerg/lophoc/internal/stats"
)

const (
	blankNameWarning = "Em hãy nhập tên trước khi chơi nhé!"
	correctMessage   = "Chính xác! Giỏi quá!"
	incorrectMessage = "Tiếc quá! Sai rồi."
	emptyBoardNotice = "Chưa có thành tích nào. Hãy là người đầu tiên!"
)

// itemsMsg delivers fetched items for the session identified by token.
type itemsMsg struct {
	token uint64
	batch content.Batch
}

// tickMsg advances the timer display of session token.
type tickMsg struct {
	token uint64
}

type sortingPane struct {
	ctx  context.Context
	ctrl *game.Controller

	input   textinput.Model
	spinner spinner.Model
	ranking table.Model
	warning string

	entryID string
	board   leaderboard.Board
}

func newSortingPane(ctx context.Context, ctrl *game.Controller) *sortingPane {
	input := textinput.New()
	input.Placeholder = "Nhập tên của em..."
	input.CharLimit = 40
	input.Width = 30
	return &sortingPane{
		ctx:     ctx,
		ctrl:    ctrl,
		input:   input,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		ranking: newRankingTable(),
	}
}

func (p *sortingPane) title() string { return "Bài 1" }

func (p *sortingPane) enter() tea.Cmd {
	if p.ctrl.State().Status == game.StatusIdle {
		return p.input.Focus()
	}
	return nil
}

// leave abandons any session in progress; its pending fetch and ticks go stale.
func (p *sortingPane) leave() {
	if p.ctrl.State().Status != game.StatusIdle {
		p.ctrl.Reset()
	}
	p.input.SetValue(p.ctrl.State().PlayerName)
	p.input.Blur()
	p.warning = ""
}

func (p *sortingPane) typing() bool {
	return p.ctrl.State().Status == game.StatusIdle
}

func (p *sortingPane) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case itemsMsg:
		if err := p.ctrl.Deliver(msg.token, msg.batch); err != nil {
			return nil
		}
		return tick(msg.token)
	case tickMsg:
		s := p.ctrl.State()
		if msg.token != s.Token || s.Status != game.StatusActive {
			return nil
		}
		return tick(msg.token)
	case spinner.TickMsg:
		if p.ctrl.State().Status != game.StatusLoading {
			return nil
		}
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return cmd
	case tea.KeyMsg:
		return p.handleKey(msg)
	}
	// Cursor blinks and other input internals while the prompt is shown.
	if p.ctrl.State().Status == game.StatusIdle {
		var cmd tea.Cmd
		p.input, cmd = p.input.Update(msg)
		return cmd
	}
	return nil
}

func (p *sortingPane) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch p.ctrl.State().Status {
	case game.StatusIdle:
		if msg.Type == tea.KeyEnter {
			return p.start()
		}
		var cmd tea.Cmd
		p.input, cmd = p.input.Update(msg)
		if strings.TrimSpace(p.input.Value()) != "" {
			p.warning = ""
		}
		return cmd
	case game.StatusActive:
		switch msg.String() {
		case "left", "1":
			p.classify(model.CategoryPet)
		case "right", "2":
			p.classify(model.CategoryFurniture)
		}
	case game.StatusCompleted:
		switch msg.String() {
		case "r":
			token, err := p.ctrl.Replay()
			if err != nil {
				return nil
			}
			return p.load(token)
		case "n":
			p.ctrl.Reset()
			p.input.SetValue(p.ctrl.State().PlayerName)
			p.input.CursorEnd()
			return p.input.Focus()
		default:
			var cmd tea.Cmd
			p.ranking, cmd = p.ranking.Update(msg)
			return cmd
		}
	}
	return nil
}

func (p *sortingPane) start() tea.Cmd {
	token, err := p.ctrl.Submit(p.input.Value())
	if errors.Is(err, game.ErrBlankName) {
		p.warning = blankNameWarning
		return nil
	}
	if err != nil {
		return nil
	}
	p.warning = ""
	p.input.Blur()
	return p.load(token)
}

// load fetches items off the UI goroutine and animates the spinner meanwhile.
func (p *sortingPane) load(token uint64) tea.Cmd {
	ctx, ctrl := p.ctx, p.ctrl
	fetch := func() tea.Msg {
		return itemsMsg{token: token, batch: ctrl.Fetch(ctx)}
	}
	return tea.Batch(fetch, p.spinner.Tick)
}

func tick(token uint64) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{token: token}
	})
}

func (p *sortingPane) classify(choice model.Category) {
	out, err := p.ctrl.Classify(p.ctx, choice)
	if err != nil || out.Entry == nil {
		return
	}
	p.entryID = out.Entry.ID
	p.board = out.Board
	setRanking(&p.ranking, p.board, p.board.Rank(p.entryID))
}

func (p *sortingPane) help() string {
	switch p.ctrl.State().Status {
	case game.StatusIdle:
		return "enter: bắt đầu"
	case game.StatusActive:
		return "←/1: vật nuôi  →/2: đồ đạc"
	case game.StatusCompleted:
		return "r: chơi lại  n: đổi người chơi  ↑/↓: bảng xếp hạng"
	default:
		return ""
	}
}

func (p *sortingPane) view(width int) string {
	s := p.ctrl.State()
	switch s.Status {
	case game.StatusLoading:
		return p.spinner.View() + " " + mutedStyle.Render("Cô giáo AI đang soạn câu hỏi mới...")
	case game.StatusActive:
		return p.viewActive(s, width)
	case game.StatusCompleted:
		return p.viewCompleted(s, width)
	default:
		return p.viewIdle()
	}
}

func (p *sortingPane) viewIdle() string {
	lines := []string{
		titleStyle.Render("Chào bạn mới!"),
		mutedStyle.Render("Em hãy nhập tên để bắt đầu trò chơi nhé."),
		"",
		choiceStyle.Render(p.input.View()),
	}
	if p.warning != "" {
		lines = append(lines, warnStyle.Render(p.warning))
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (p *sortingPane) viewActive(s game.State, width int) string {
	item, _ := s.Current()
	card := cardStyle.Render(paragraph(item.Text, max(10, width/2), accentStyle, nil))
	pet := choiceStyle.Render(model.CategoryPet.Label() + "\n" + mutedStyle.Render("(Con mèo, Con chó...)"))
	furniture := choiceStyle.Render(model.CategoryFurniture.Label() + "\n" + mutedStyle.Render("(Cái quạt, Cái bàn...)"))
	lines := []string{
		titleStyle.Render("Bài 1  Tìm từ ngữ về bạn trong nhà"),
		mutedStyle.Render("Người chơi: ") + textStyle.Render(s.PlayerName),
		footerStyle.Render(p.renderStatus(s)),
		"",
		textStyle.Render("Hãy giúp tớ phân loại nhé!"),
		card,
		lipgloss.JoinHorizontal(lipgloss.Top, pet, "  ", furniture),
	}
	if fb := renderFeedback(s.Feedback); fb != "" {
		lines = append(lines, fb)
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (p *sortingPane) viewCompleted(s game.State, width int) string {
	summary := lipgloss.JoinHorizontal(lipgloss.Top,
		choiceStyle.Render(mutedStyle.Render("Thời gian")+"\n"+textStyle.Render(stats.FormatSeconds(s.Duration().Seconds()))),
		choiceStyle.Render(mutedStyle.Render("Đúng")+"\n"+correctStyle.Render(fmt.Sprintf("%d", s.Correct))),
		choiceStyle.Render(mutedStyle.Render("Sai")+"\n"+wrongStyle.Render(fmt.Sprintf("%d", s.Incorrect))),
	)
	ranking := mutedStyle.Render(emptyBoardNotice)
	if len(p.board) > 0 {
		ranking = p.ranking.View()
	}
	lines := []string{
		titleStyle.Render("Hoàn thành bài tập!"),
		mutedStyle.Render("Người chơi: ") + textStyle.Render(s.PlayerName),
		renderFeedback(s.Feedback),
		summary,
		"",
		emphStyle.Render("Bảng Xếp Hạng"),
		ranking,
	}
	if rank := p.board.Rank(p.entryID); rank > 0 {
		lines = append(lines, correctStyle.Render(fmt.Sprintf("Em xếp hạng %d!", rank)))
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (p *sortingPane) renderStatus(s game.State) string {
	segments := []string{
		fmt.Sprintf("Câu %d/%d", min(s.Position(), s.Total), s.Total),
		fmt.Sprintf("Đúng %d", s.Correct),
		fmt.Sprintf("Sai %d", s.Incorrect),
		fmt.Sprintf("Thời gian %ds", p.ctrl.Elapsed()),
	}
	return strings.Join(segments, "  ")
}

func renderFeedback(f game.Feedback) string {
	switch f {
	case game.FeedbackCorrect:
		return correctStyle.Render(correctMessage)
	case game.FeedbackIncorrect:
		return wrongStyle.Render(incorrectMessage)
	default:
		return ""
	}
}

func newRankingTable() table.Model {
	t := table.New(table.WithHeight(10))
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Bold(true)
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("#52C41A")).Bold(true)
	t.SetStyles(styles)
	return t
}

// setRanking fills t with board and moves the selection to rank, so the
// player's new entry stays highlighted.
func setRanking(t *table.Model, board leaderboard.Board, rank int) {
	headers, cells := stats.LeaderboardRows(board)
	headers, cells = headers[:5], trimColumns(cells, 5)
	cols := make([]table.Column, len(headers))
	for i, h := range headers {
		w := lipgloss.Width(h)
		for _, row := range cells {
			w = max(w, lipgloss.Width(row[i]))
		}
		cols[i] = table.Column{Title: h, Width: w}
	}
	rows := make([]table.Row, len(cells))
	for i, row := range cells {
		rows[i] = table.Row(row)
	}
	t.SetRows(nil)
	t.SetColumns(cols)
	t.SetRows(rows)
	// Header row plus its bottom border.
	t.SetHeight(min(len(rows), leaderboard.MaxEntries) + 2)
	if rank > 0 {
		t.Focus()
		t.SetCursor(rank - 1)
	} else {
		t.Blur()
	}
}

func trimColumns(cells [][]string, n int) [][]string {
	out := make([][]string, len(cells))
	for i, row := range cells {
		out[i] = row[:min(n, len(row))]
	}
	return out
}
