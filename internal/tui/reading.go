package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/lophoc/internal/reading"
)

type readingPane struct {
	passage reading.Passage
	quiz    *reading.Quiz
	cursor  int
	result  *reading.Result
}

type optionRef struct {
	question int
	option   int
}

func newReadingPane(passage reading.Passage, quiz *reading.Quiz) *readingPane {
	return &readingPane{passage: passage, quiz: quiz}
}

func (p *readingPane) title() string { return "Bài 2" }

func (p *readingPane) enter() tea.Cmd { return nil }

func (p *readingPane) leave() {}

func (p *readingPane) typing() bool { return false }

// options flattens every question's options into cursor order.
func (p *readingPane) options() []optionRef {
	var refs []optionRef
	for qi, q := range p.quiz.Questions() {
		for oi := range q.Options {
			refs = append(refs, optionRef{question: qi, option: oi})
		}
	}
	return refs
}

func (p *readingPane) update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	refs := p.options()
	switch key.String() {
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(refs)-1 {
			p.cursor++
		}
	case "enter", " ":
		if p.cursor < len(refs) {
			ref := refs[p.cursor]
			q := p.quiz.Questions()[ref.question]
			p.quiz.Select(q.ID, q.Options[ref.option])
		}
	case "c":
		if res, err := p.quiz.Check(); err == nil {
			p.result = &res
		}
	case "r":
		p.quiz.Reset()
		p.result = nil
		p.cursor = 0
	}
	return nil
}

func (p *readingPane) help() string {
	if p.quiz.Checked() {
		return "r: làm lại"
	}
	return "↑/↓: chọn  enter: trả lời  c: kiểm tra kết quả"
}

func (p *readingPane) view(width int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Bài 2: Đọc hiểu"))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, emphStyle.Render(p.passage.Title)))
	b.WriteString("\n")
	for _, para := range p.passage.Paragraphs {
		b.WriteString(paragraph(para, width, textStyle, p.passage.Highlights))
		b.WriteString("\n")
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Right, mutedStyle.Render(p.passage.Attribution)))
	b.WriteString("\n\n")
	b.WriteString(titleStyle.Render("Trả lời câu hỏi"))
	b.WriteString("\n")

	refs := p.options()
	for qi, q := range p.quiz.Questions() {
		b.WriteString("\n")
		b.WriteString(textStyle.Render(fmt.Sprintf("%d. %s", qi+1, q.Prompt)))
		b.WriteString("\n")
		for oi, opt := range q.Options {
			focused := p.cursor < len(refs) && refs[p.cursor] == optionRef{question: qi, option: oi}
			b.WriteString(renderOption(opt, p.quiz.State(q.ID, opt), focused))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	switch {
	case p.result != nil:
		b.WriteString(emphStyle.Render(fmt.Sprintf("Kết quả: %d/%d câu đúng", p.result.Correct, p.result.Total)))
	case p.quiz.CanCheck():
		b.WriteString(correctStyle.Render("Nhấn c để kiểm tra kết quả"))
	default:
		b.WriteString(mutedStyle.Render("Kiểm tra kết quả"))
	}
	return b.String()
}

func renderOption(text string, state reading.OptionState, focused bool) string {
	pointer := "  "
	if focused {
		pointer = "› "
	}
	switch state {
	case reading.OptionSelected:
		return pointer + emphStyle.Render("(•) "+text)
	case reading.OptionCorrect:
		return pointer + correctStyle.Render("(✓) "+text)
	case reading.OptionWrong:
		return pointer + wrongStyle.Render("(✗) "+text)
	case reading.OptionDimmed:
		return pointer + mutedStyle.Render("( ) "+text)
	default:
		if focused {
			return pointer + cursorStyle.Render("( ) "+text)
		}
		return pointer + textStyle.Render("( ) "+text)
	}
}
