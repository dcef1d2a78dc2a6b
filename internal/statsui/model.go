// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/lophoc/internal/leaderboard"
	"github.com/verte-zerg/lophoc/internal/model"
	"github.com/verte-zerg/lophoc/internal/stats"
)

const (
	tabOverview = iota
	tabPlayers
	tabLeaderboard
)

const plotHeight = 10

const (
	fieldPlayer = iota
	fieldSince
	fieldLast
	fieldWindow
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// BoardLoader reads the persisted leaderboard.
type BoardLoader interface {
	Load(ctx context.Context) leaderboard.Board
}

// Model implements the Bubble Tea stats UI.
type Model struct {
	history stats.History
	boards  BoardLoader
	cfg     model.StatsConfig

	report stats.Report
	board  leaderboard.Board
	errMsg string

	tabs      []string
	activeTab int
	overview  viewport.Model
	tables    map[int]*table.Model

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string
}

// NewModel constructs a stats UI model.
func NewModel(history stats.History, boards BoardLoader, cfg model.StatsConfig) *Model {
	players := newTable()
	ranking := newTable()
	m := &Model{
		history:  history,
		boards:   boards,
		cfg:      cfg,
		tabs:     []string{"Tổng quan", "Người chơi", "Bảng xếp hạng"},
		overview: viewport.New(0, 0),
		tables:   map[int]*table.Model{tabPlayers: &players, tabLeaderboard: &ranking},
	}
	m.filterInputs = []textinput.Model{
		newFilterInput("Tên: "),
		newFilterInput("Từ ngày (YYYY-MM-DD): "),
		newFilterInput("Số lượt gần nhất: "),
		newFilterInput("Cửa sổ trung bình: "),
	}
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderOverview()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || (!m.filterMode && msg.String() == "q") {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l", "tab":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "=", "+":
			m.cfg.CurveWindow = nextCurveWindow(m.cfg.CurveWindow)
			m.renderOverview()
			return m, nil
		case "-":
			m.cfg.CurveWindow = prevCurveWindow(m.cfg.CurveWindow)
			m.renderOverview()
			return m, nil
		case "/":
			return m, m.startFilter()
		case "g", "home":
			if t, ok := m.tables[m.activeTab]; ok {
				t.GotoTop()
			} else {
				m.overview.GotoTop()
			}
			return m, nil
		case "G", "end":
			if t, ok := m.tables[m.activeTab]; ok {
				t.GotoBottom()
			} else {
				m.overview.GotoBottom()
			}
			return m, nil
		}
		if t, ok := m.tables[m.activeTab]; ok {
			var cmd tea.Cmd
			*t, cmd = t.Update(msg)
			return m, cmd
		}
		var cmd tea.Cmd
		m.overview, cmd = m.overview.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderTabs()+"\n"+m.renderFilterSummary(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	headerHeight = max(1, lipgloss.Height(activeNavStyle.Render("X"))) + 1
	footerHeight = 1
	if !m.filterMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = max(1, m.height-headerHeight-footerHeight)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.overview.Width = m.width
	m.overview.Height = bodyHeight
	for _, t := range m.tables {
		t.SetWidth(m.width)
		t.SetHeight(max(1, bodyHeight-1))
	}
	for i := range m.filterInputs {
		m.filterInputs[i].Width = max(10, m.width-lipgloss.Width(m.filterInputs[i].Prompt)-2)
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	m.activeTab = (m.activeTab + delta + count) % count
	for tab, t := range m.tables {
		if tab == m.activeTab {
			t.Focus()
		} else {
			t.Blur()
		}
	}
}

func (m *Model) refreshReport() {
	ctx := context.Background()
	report, err := stats.BuildReport(ctx, m.history, m.cfg)
	if err != nil {
		m.errMsg = err.Error()
		m.report = stats.Report{}
	} else {
		m.errMsg = ""
		m.report = report
	}
	if m.boards != nil {
		m.board = m.boards.Load(ctx)
	}
	headers, rows := stats.PlayerRows(m.report.Players)
	setTableData(m.tables[tabPlayers], headers, rows)
	headers, rows = stats.LeaderboardRows(m.board)
	setTableData(m.tables[tabLeaderboard], headers, rows)
	m.renderOverview()
}

func (m *Model) renderOverview() {
	if m.errMsg != "" {
		m.overview.SetContent("Không tải được thống kê.")
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	if len(m.report.Sessions) == 0 {
		m.overview.SetContent("Chưa có lượt chơi nào.")
		return
	}
	var buf bytes.Buffer
	curves := ""
	opts := stats.PlotOptions{Width: width, Height: plotHeight, Color: true}
	if err := stats.RenderCurvesWithSize(&buf, m.report.Sessions, m.cfg.CurveWindow, opts); err != nil {
		curves = fmt.Sprintf("Không vẽ được biểu đồ: %v", err)
	} else {
		curves = strings.TrimRight(buf.String(), "\n")
	}
	m.overview.SetContent(renderSummaryCards(m.report.Summary, width) + "\n\n" + curves)
}

func renderSummaryCards(sum stats.Summary, width int) string {
	cards := []string{
		metricCard("Số lượt", strconv.Itoa(sum.Sessions)),
		metricCard("Đúng hết", strconv.Itoa(sum.Perfect)),
		metricCard("Chính xác TB", fmt.Sprintf("%.1f%%", sum.AvgAccuracy*100)),
		metricCard("Tốt nhất", stats.FormatSeconds(sum.BestDuration)),
		metricCard("Thời gian TB", stats.FormatSeconds(sum.AvgDuration)),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4])
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricCard(label, value string) string {
	return cardStyle.Render(cardTitleStyle.Render(label) + "\n" + cardValueStyle.Render(value))
}

func (m *Model) renderTabs() string {
	parts := make([]string, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts[i] = activeNavStyle.Render(tab)
		} else {
			parts[i] = inactiveNavStyle.Render(tab)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderFilterSummary() string {
	player := m.cfg.Player
	if player == "" {
		player = "tất cả"
	}
	since := "tất cả"
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format("2006-01-02")
	}
	last := "tất cả"
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	summary := fmt.Sprintf("Bộ lọc: tên=%s  từ ngày=%s  gần nhất=%s  cửa sổ=%d", player, since, last, m.cfg.CurveWindow)
	return headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderBody() string {
	if m.filterMode {
		lines := []string{"Bộ lọc (enter để áp dụng, esc để huỷ)"}
		for _, input := range m.filterInputs {
			lines = append(lines, input.View())
		}
		if m.filterError != "" {
			lines = append(lines, errorStyle.Render(m.filterError))
		}
		return strings.Join(lines, "\n")
	}
	switch m.activeTab {
	case tabPlayers:
		if len(m.report.Players) == 0 {
			return "Chưa có người chơi nào."
		}
		return tableMutedStyle.Render(m.tables[tabPlayers].View())
	case tabLeaderboard:
		if len(m.board) == 0 {
			return "Chưa có thành tích nào. Hãy là người đầu tiên!"
		}
		return tableMutedStyle.Render(m.tables[tabLeaderboard].View())
	default:
		return m.overview.View()
	}
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return headerStyle.Render("tab/shift+tab: ô tiếp theo  enter: áp dụng  esc: huỷ")
	}
	help := headerStyle.Render("Chuyển: trái/phải  Cuộn: lên/xuống/pgup/pgdn  Cửa sổ: -/=  Bộ lọc: /  Thoát: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func (m *Model) startFilter() tea.Cmd {
	m.filterMode = true
	m.filterError = ""
	m.filterInputs[fieldPlayer].SetValue(m.cfg.Player)
	m.filterInputs[fieldSince].SetValue("")
	if m.cfg.Since != nil {
		m.filterInputs[fieldSince].SetValue(m.cfg.Since.Format("2006-01-02"))
	}
	m.filterInputs[fieldLast].SetValue("")
	if m.cfg.Last > 0 {
		m.filterInputs[fieldLast].SetValue(strconv.Itoa(m.cfg.Last))
	}
	m.filterInputs[fieldWindow].SetValue(strconv.Itoa(m.cfg.CurveWindow))
	return m.setFilterIndex(0)
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case tea.KeyEnter:
		cfg, err := parseFilter(m.filterValues())
		if err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.cfg = cfg
		m.filterMode = false
		m.filterError = ""
		m.refreshReport()
		m.updateLayout()
		return m, nil
	case tea.KeyTab:
		return m, m.setFilterIndex(m.filterIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setFilterIndex(m.filterIndex - 1)
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) filterValues() [4]string {
	var out [4]string
	for i := range out {
		out[i] = strings.TrimSpace(m.filterInputs[i].Value())
	}
	return out
}

func (m *Model) setFilterIndex(idx int) tea.Cmd {
	count := len(m.filterInputs)
	m.filterIndex = (idx + count) % count
	var cmd tea.Cmd
	for i := range m.filterInputs {
		if i == m.filterIndex {
			cmd = m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
	return cmd
}

func parseFilter(values [4]string) (model.StatsConfig, error) {
	cfg := model.StatsConfig{Player: model.NormalizeText(values[fieldPlayer]), CurveWindow: 1}
	if values[fieldSince] != "" {
		parsed, err := time.ParseInLocation("2006-01-02", values[fieldSince], time.Local)
		if err != nil {
			return cfg, fmt.Errorf("ngày bắt đầu không hợp lệ (dạng YYYY-MM-DD)")
		}
		cfg.Since = &parsed
	}
	if values[fieldLast] != "" {
		parsed, err := strconv.Atoi(values[fieldLast])
		if err != nil || parsed < 0 {
			return cfg, fmt.Errorf("số lượt không hợp lệ (0 hoặc số nguyên dương)")
		}
		cfg.Last = parsed
	}
	if values[fieldWindow] != "" {
		parsed, err := strconv.Atoi(values[fieldWindow])
		if err != nil || parsed < 1 {
			return cfg, fmt.Errorf("cửa sổ trung bình không hợp lệ (số nguyên >= 1)")
		}
		cfg.CurveWindow = parsed
	}
	return cfg, nil
}

func newFilterInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func newTable() table.Model {
	t := table.New(table.WithHeight(1))
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		PaddingLeft(0)
	styles.Cell = styles.Cell.PaddingLeft(0)
	styles.Selected = styles.Cell.Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	t.SetStyles(styles)
	return t
}

// setTableData sizes each column to its widest cell.
func setTableData(t *table.Model, headers []string, cells [][]string) {
	cols := make([]table.Column, len(headers))
	for i, h := range headers {
		width := lipgloss.Width(h)
		for _, row := range cells {
			if i < len(row) {
				width = max(width, lipgloss.Width(row[i]))
			}
		}
		cols[i] = table.Column{Title: h, Width: width}
	}
	rows := make([]table.Row, len(cells))
	for i, row := range cells {
		rows[i] = table.Row(row)
	}
	t.SetRows(nil)
	t.SetColumns(cols)
	t.SetRows(rows)
}

func nextCurveWindow(n int) int {
	if n < 5 {
		return 5
	}
	return (n/5 + 1) * 5
}

func prevCurveWindow(n int) int {
	if n <= 5 {
		return 1
	}
	if n%5 == 0 {
		return n - 5
	}
	return (n / 5) * 5
}
