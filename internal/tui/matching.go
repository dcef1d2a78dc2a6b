package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/lophoc/internal/matching"
)

const mismatchDelay = time.Second

// clearMismatchMsg clears the wrong-pick flag set by attempt seq.
type clearMismatchMsg struct {
	id  string
	seq int
}

type matchingPane struct {
	board  *matching.Board
	column int
	row    int
	seq    int
}

func newMatchingPane(board *matching.Board) *matchingPane {
	return &matchingPane{board: board}
}

func (p *matchingPane) title() string { return "Bài 3" }

func (p *matchingPane) enter() tea.Cmd { return nil }

func (p *matchingPane) leave() {}

func (p *matchingPane) typing() bool { return false }

func (p *matchingPane) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case clearMismatchMsg:
		if msg.seq == p.seq {
			p.board.ClearMismatch(msg.id)
		}
	case tea.KeyMsg:
		return p.handleKey(msg)
	}
	return nil
}

func (p *matchingPane) handleKey(msg tea.KeyMsg) tea.Cmd {
	rows := len(p.board.Pairs())
	switch msg.String() {
	case "up", "k":
		if p.row > 0 {
			p.row--
		}
	case "down", "j":
		if p.row < rows-1 {
			p.row++
		}
	case "left":
		p.column = 0
	case "right":
		p.column = 1
	case "enter", " ":
		return p.pick()
	case "r":
		p.board.Reset()
		p.column, p.row = 0, 0
		p.seq++
	}
	return nil
}

func (p *matchingPane) pick() tea.Cmd {
	if p.column == 0 {
		if p.board.SelectLeft(p.board.Pairs()[p.row].ID) {
			p.column = 1
		}
		return nil
	}
	id := p.board.RightOrder()[p.row].ID
	switch p.board.SelectRight(id) {
	case matching.Match:
		p.column = 0
	case matching.Mismatch:
		p.seq++
		seq := p.seq
		return tea.Tick(mismatchDelay, func(time.Time) tea.Msg {
			return clearMismatchMsg{id: id, seq: seq}
		})
	}
	return nil
}

func (p *matchingPane) help() string {
	if p.board.Complete() {
		return "r: chơi lại bài này"
	}
	return "←/→: đổi cột  ↑/↓: chọn  enter: nối"
}

func (p *matchingPane) view(width int) string {
	colWidth := max(16, width/2-4)
	left := []string{titleStyle.Render("Sự vật")}
	for i, pair := range p.board.Pairs() {
		left = append(left, p.renderItem(pair.Left, pair.ID, p.column == 0 && p.row == i, p.board.Selected() == pair.ID, false, colWidth))
	}
	right := []string{titleStyle.Render("Hình ảnh so sánh")}
	for i, pair := range p.board.RightOrder() {
		right = append(right, p.renderItem(pair.Right, pair.ID, p.column == 1 && p.row == i, false, p.board.Mismatch() == pair.ID, colWidth))
	}
	columns := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.JoinVertical(lipgloss.Center, left...),
		"    ",
		lipgloss.JoinVertical(lipgloss.Center, right...))

	lines := []string{
		titleStyle.Render("Bài 3: Tìm hình ảnh so sánh"),
		mutedStyle.Render("Em hãy nối hình ảnh ở cột trái với hình ảnh so sánh tương ứng ở cột phải."),
		"",
		columns,
	}
	if p.board.Complete() {
		lines = append(lines, "", correctStyle.Render("Hoàn thành bài tập!"), textStyle.Render("Em đã tìm ra tất cả các phép so sánh!"))
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (p *matchingPane) renderItem(text, id string, focused, selected, wrong bool, width int) string {
	style := choiceStyle
	switch {
	case p.board.Matched(id):
		style = matchedChoiceStyle
		text += " ✓"
	case wrong:
		style = wrongChoiceStyle
	case selected:
		style = selectedChoiceStyle
	}
	if focused {
		text = "› " + text
	}
	return style.Width(width).Align(lipgloss.Center).Render(text)
}
