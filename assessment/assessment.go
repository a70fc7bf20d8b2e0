// Package assessment is the wellness quiz: a fixed list of questions walked
// one at a time, ending in one of three recommended pathways.
package assessment

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
)

var (
	ErrUnanswered    = errors.New("assessment: question not answered")
	ErrInvalidOption = errors.New("assessment: invalid option")
	ErrNotComplete   = errors.New("assessment: not complete")
)

// Kind is the answer shape of a question.
type Kind string

const (
	Select   Kind = "select"
	Multiple Kind = "multiple"
)

// Question is one step of the quiz.
type Question struct {
	ID      string
	Text    string
	Kind    Kind
	Options []string
}

// Recommendation is the outcome shown on completion.
type Recommendation struct {
	Pathway     string
	Products    []string
	Description string
}

// State is the quiz progress kept between requests.
type State struct {
	Step     int                 `json:"step"`
	Answers  map[string][]string `json:"answers,omitempty"`
	Complete bool                `json:"complete,omitempty"`
}

// Engine drives a State through Questions.
type Engine struct {
	Questions []Question
}

// New returns an engine over the standard questionnaire.
func New() *Engine {
	return &Engine{Questions: Questions}
}

// Current returns the question at st.Step.
func (e *Engine) Current(st State) Question {
	return e.Questions[e.clamp(st.Step)]
}

func (e *Engine) clamp(i int) int {
	return max(0, min(i, len(e.Questions)-1))
}

// Answer records values for the current question. A select question takes
// exactly one option; a multiple question takes any subset, in option order.
func (e *Engine) Answer(st State, values []string) (State, error) {
	if st.Complete {
		return st, nil
	}
	q := e.Current(st)
	var picked []string
	for _, opt := range q.Options {
		if slices.Contains(values, opt) {
			picked = append(picked, opt)
		}
	}
	for _, v := range values {
		if v != "" && !slices.Contains(q.Options, v) {
			return st, fmt.Errorf("%w: %q for %s", ErrInvalidOption, v, q.ID)
		}
	}
	if q.Kind == Select && len(picked) > 1 {
		return st, fmt.Errorf("%w: %s takes one answer", ErrInvalidOption, q.ID)
	}
	answers := make(map[string][]string, len(st.Answers)+1)
	for k, v := range st.Answers {
		answers[k] = v
	}
	if len(picked) == 0 {
		delete(answers, q.ID)
	} else {
		answers[q.ID] = picked
	}
	st.Answers = answers
	return st, nil
}

// Answered reports whether question i has a non-empty answer.
func (e *Engine) Answered(st State, i int) bool {
	return len(st.Answers[e.Questions[e.clamp(i)].ID]) > 0
}

// Next advances one question, or completes the quiz on the last one. It
// refuses to move past an unanswered question.
func (e *Engine) Next(st State) (State, error) {
	if st.Complete {
		return st, nil
	}
	st.Step = e.clamp(st.Step)
	if !e.Answered(st, st.Step) {
		return st, ErrUnanswered
	}
	if st.Step == len(e.Questions)-1 {
		st.Complete = true
		return st, nil
	}
	st.Step++
	return st, nil
}

// CanGoBack reports whether Previous would move.
func (e *Engine) CanGoBack(st State) bool {
	return !st.Complete && st.Step > 0
}

// Previous steps back one question; it is a no-op on the first question.
func (e *Engine) Previous(st State) State {
	if e.CanGoBack(st) {
		st.Step--
	}
	return st
}

// Restart clears every answer and returns to the first question.
func (e *Engine) Restart() State {
	return State{}
}

// Progress is the percentage shown above the current question.
func (e *Engine) Progress(st State) int {
	if st.Complete {
		return 100
	}
	return (e.clamp(st.Step) + 1) * 100 / len(e.Questions)
}

// Recommend evaluates a completed quiz.
func (e *Engine) Recommend(st State) (Recommendation, error) {
	if !st.Complete {
		return Recommendation{}, ErrNotComplete
	}
	for i := range e.Questions {
		if !e.Answered(st, i) {
			return Recommendation{}, ErrUnanswered
		}
	}
	return Recommend(st.Answers), nil
}

// Recommend maps answers to a pathway. PCOS signals win over perimenopause
// signals; anything else is general wellness.
func Recommend(answers map[string][]string) Recommendation {
	concern := ""
	if v := answers["primary_concern"]; len(v) > 0 {
		concern = v[0]
	}
	symptoms := answers["symptoms"]
	switch {
	case concern == "PCOS symptoms" || slices.Contains(symptoms, "Irregular periods"):
		return PCOSPathway
	case concern == "Perimenopause symptoms" || slices.Contains(symptoms, "Hot flashes"):
		return PerimenopausePathway
	default:
		return WellnessPathway
	}
}

// Encode serializes st for the session.
func Encode(st State) (string, error) {
	b, err := json.Marshal(st)
	return string(b), err
}

// Decode parses a session value, returning a fresh state for anything
// unreadable.
func Decode(s string) State {
	var st State
	if s == "" || json.Unmarshal([]byte(s), &st) != nil || st.Step < 0 {
		return State{}
	}
	return st
}
