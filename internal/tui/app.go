package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/lophoc/internal/game"
	"github.com/verte-zerg/lophoc/internal/matching"
	"github.com/verte-zerg/lophoc/internal/reading"
)

// pane is one exercise tab.
type pane interface {
	title() string
	// enter runs when the tab becomes visible.
	enter() tea.Cmd
	// leave runs when the tab is hidden.
	leave()
	// typing reports whether keys should go to a text field.
	typing() bool
	update(msg tea.Msg) tea.Cmd
	view(width int) string
	help() string
}

type screen int

const (
	screenWelcome screen = iota
	screenShell
)

// App is the root Bubble Tea model.
type App struct {
	screen screen
	active int
	panes  []pane

	width  int
	height int
}

// NewApp builds the application around a sorting controller.
func NewApp(ctx context.Context, ctrl *game.Controller) *App {
	return &App{
		panes: []pane{
			newSortingPane(ctx, ctrl),
			newReadingPane(reading.DefaultPassage, reading.New(reading.DefaultQuestions)),
			newMatchingPane(matching.New(matching.DefaultPairs)),
		},
	}
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return a, tea.Quit
		}
		if a.screen == screenWelcome {
			return a, a.updateWelcome(msg)
		}
		return a, a.updateShell(msg)
	}
	var cmds []tea.Cmd
	for _, p := range a.panes {
		cmds = append(cmds, p.update(msg))
	}
	return a, tea.Batch(cmds...)
}

func (a *App) updateWelcome(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter", " ":
		a.screen = screenShell
		return a.panes[a.active].enter()
	case "q", "esc":
		return tea.Quit
	}
	return nil
}

func (a *App) updateShell(msg tea.KeyMsg) tea.Cmd {
	current := a.panes[a.active]
	switch msg.String() {
	case "esc":
		return a.goHome()
	case "tab":
		return a.switchTo(a.active + 1)
	case "shift+tab":
		return a.switchTo(a.active - 1)
	}
	if !current.typing() {
		switch msg.String() {
		case "home", "h":
			return a.goHome()
		case "q":
			return tea.Quit
		}
	}
	return current.update(msg)
}

func (a *App) goHome() tea.Cmd {
	a.panes[a.active].leave()
	a.screen = screenWelcome
	return nil
}

func (a *App) switchTo(idx int) tea.Cmd {
	n := len(a.panes)
	idx = (idx + n) % n
	if idx == a.active {
		return nil
	}
	a.panes[a.active].leave()
	a.active = idx
	return a.panes[idx].enter()
}

// View implements tea.Model.
func (a *App) View() string {
	if a.screen == screenWelcome {
		return a.place(renderWelcome())
	}
	width := a.width
	if width <= 0 {
		width = 80
	}
	current := a.panes[a.active]
	body := current.view(contentWidth(width))
	header := lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render("Luyện tập Tiếng Việt 3"),
		a.renderTabs())
	help := footerStyle.Render(current.help() + "  tab: đổi bài  esc: trang chủ  ctrl+c: thoát")
	if a.height <= 0 {
		return strings.Join([]string{header, body, help}, "\n\n")
	}
	headerHeight := lipgloss.Height(header)
	bodyHeight := max(1, a.height-headerHeight-2)
	return lipgloss.Place(width, headerHeight, lipgloss.Center, lipgloss.Top, header) + "\n" +
		lipgloss.Place(width, bodyHeight, lipgloss.Center, lipgloss.Center, body) + "\n" +
		lipgloss.Place(width, 1, lipgloss.Center, lipgloss.Center, help)
}

func (a *App) place(s string) string {
	if a.width <= 0 || a.height <= 0 {
		return s
	}
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, s)
}

func (a *App) renderTabs() string {
	parts := make([]string, len(a.panes))
	for i, p := range a.panes {
		if i == a.active {
			parts[i] = activeTabStyle.Render(p.title())
		} else {
			parts[i] = inactiveTabStyle.Render(p.title())
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func renderWelcome() string {
	return lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render("Chào mừng các em học sinh"),
		accentStyle.Render("Lớp 3A4!"),
		"",
		textStyle.Render("Chúng mình cùng nhau ôn tập bài học hôm nay nhé!"),
		"",
		selectedChoiceStyle.Render("Enter  Bắt đầu thôi!"),
		"",
		footerStyle.Render("© Trò chơi học tập - Tiếng Việt 3"),
	)
}
