// Package reading implements the reading-comprehension quiz.
package reading

import "errors"

// ErrIncomplete is returned when checking before every question is answered.
var ErrIncomplete = errors.New("not all questions answered")

// Passage is the text the questions refer to.
type Passage struct {
	Title       string
	Paragraphs  []string
	Attribution string
	// Highlights are phrases emphasized when displayed.
	Highlights  []string
}

// Question is a multiple-choice question.
type Question struct {
	ID      string
	Prompt  string
	Options []string
	Answer  string
}

// DefaultPassage is "Nhà Thuỷ".
var DefaultPassage = Passage{
	Title: "Nhà Thuỷ",
	Paragraphs: []string{
		"Nhà Thuỷ ở ngay dưới thuyền. Con sông thân yêu, nơi có \"nhà\" của Thuỷ ấy, là sông Hồng. Lòng sông mở mênh mông, quãng chảy qua Hà Nội càng mênh mông hơn.",
		"Mỗi cánh buồm nổi trên dòng sông, nom cứ như là một con bướm nhỏ. Lúc nắng ửng mây hồng, nước sông nhấp nháy như sao bay.",
	},
	Attribution: "(Theo Phong Thu)",
	Highlights:  []string{"cánh buồm", "một con bướm nhỏ", "nước sông", "sao bay"},
}

// DefaultQuestions are the questions for DefaultPassage.
var DefaultQuestions = []Question{
	{
		ID:      "q1",
		Prompt:  "Cánh buồm trên sông được so sánh với sự vật nào?",
		Options: []string{"Con chim én", "Con bướm nhỏ", "Chiếc lá bay", "Đám mây trắng"},
		Answer:  "Con bướm nhỏ",
	},
	{
		ID:      "q2",
		Prompt:  "Nước sông được ví với sự vật nào?",
		Options: []string{"Tấm gương khổng lồ", "Dải lụa đào", "Sao bay", "Bầu trời xanh"},
		Answer:  "Sao bay",
	},
}

// OptionState describes how an option should be displayed.
type OptionState int

const (
	OptionNeutral OptionState = iota
	OptionSelected
	OptionCorrect
	OptionWrong
	OptionDimmed
)

// Result is the score of a checked quiz.
type Result struct {
	Correct int
	Total   int
}

// Quiz tracks answers to a set of questions.
type Quiz struct {
	questions []Question
	answers   map[string]string
	checked   bool
}

// New returns a Quiz over questions.
func New(questions []Question) *Quiz {
	return &Quiz{questions: questions, answers: map[string]string{}}
}

// Questions returns the quiz questions.
func (q *Quiz) Questions() []Question {
	return q.questions
}

// Select records option for question id. It is ignored once checked or when
// the question or option is unknown.
func (q *Quiz) Select(id, option string) bool {
	if q.checked {
		return false
	}
	question, ok := q.find(id)
	if !ok || !hasOption(question, option) {
		return false
	}
	q.answers[id] = option
	return true
}

// Answer returns the selected option for question id.
func (q *Quiz) Answer(id string) string {
	return q.answers[id]
}

// CanCheck reports whether every question has a selection.
func (q *Quiz) CanCheck() bool {
	for _, question := range q.questions {
		if q.answers[question.ID] == "" {
			return false
		}
	}
	return true
}

// Checked reports whether results are shown.
func (q *Quiz) Checked() bool {
	return q.checked
}

// Check freezes the answers and scores them.
func (q *Quiz) Check() (Result, error) {
	if !q.CanCheck() {
		return Result{}, ErrIncomplete
	}
	q.checked = true
	return q.Result(), nil
}

// Result scores the current answers.
func (q *Quiz) Result() Result {
	res := Result{Total: len(q.questions)}
	for _, question := range q.questions {
		if q.answers[question.ID] == question.Answer {
			res.Correct++
		}
	}
	return res
}

// Reset clears answers and results.
func (q *Quiz) Reset() {
	q.answers = map[string]string{}
	q.checked = false
}

// State returns the display state of option for question id.
func (q *Quiz) State(id, option string) OptionState {
	question, ok := q.find(id)
	if !ok {
		return OptionNeutral
	}
	selected := q.answers[id] == option
	if !q.checked {
		if selected {
			return OptionSelected
		}
		return OptionNeutral
	}
	switch {
	case option == question.Answer:
		return OptionCorrect
	case selected:
		return OptionWrong
	default:
		return OptionDimmed
	}
}

func (q *Quiz) find(id string) (Question, bool) {
	for _, question := range q.questions {
		if question.ID == id {
			return question, true
		}
	}
	return Question{}, false
}

func hasOption(question Question, option string) bool {
	for _, o := range question.Options {
		if o == option {
			return true
		}
	}
	return false
}
