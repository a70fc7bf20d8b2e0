package ydb

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ydbwellness/ydb/assessment"
	"github.com/ydbwellness/ydb/views"
)

func (a *App) quizState(c echo.Context) assessment.State {
	return assessment.Decode(sessionValue(c, sessionQuizKey))
}

func (a *App) saveQuizState(c echo.Context, st assessment.State) error {
	s, err := assessment.Encode(st)
	if err != nil {
		return err
	}
	return setSessionValue(c, sessionQuizKey, s)
}

func (a *App) handleAssessment(c echo.Context) error {
	return a.renderAssessment(c, http.StatusOK, a.quizState(c), "")
}

// handleAssessmentStep applies one button press: next, previous or restart.
// The state goes back into the session before the page is rendered.
func (a *App) handleAssessmentStep(c echo.Context) error {
	st := a.quizState(c)
	var msg string
	switch c.FormValue("action") {
	case "restart":
		st = a.Quiz.Restart()
	case "previous":
		if next, err := a.Quiz.Answer(st, a.answers(c)); err == nil {
			st = next
		}
		st = a.Quiz.Previous(st)
	default:
		next, err := a.Quiz.Answer(st, a.answers(c))
		if err != nil {
			msg = "Please choose from the listed options"
			break
		}
		st = next
		if next, err = a.Quiz.Next(st); errors.Is(err, assessment.ErrUnanswered) {
			msg = "Please select an answer"
		} else {
			st = next
		}
	}
	if err := a.saveQuizState(c, st); err != nil {
		a.Log.Warn("save assessment", zap.Error(err))
	}
	code := http.StatusOK
	if msg != "" {
		code = http.StatusUnprocessableEntity
	}
	return a.renderAssessment(c, code, st, msg)
}

func (a *App) answers(c echo.Context) []string {
	params, err := c.FormParams()
	if err != nil {
		return nil
	}
	return params["answer"]
}

func (a *App) renderAssessment(c echo.Context, code int, st assessment.State, msg string) error {
	q := a.Quiz.Current(st)
	selected := make(map[string]bool)
	for _, v := range st.Answers[q.ID] {
		selected[v] = true
	}
	data := views.Assessment{
		Question:  q,
		Step:      st.Step,
		Total:     len(a.Quiz.Questions),
		Progress:  a.Quiz.Progress(st),
		Selected:  selected,
		Multiple:  q.Kind == assessment.Multiple,
		CanGoBack: a.Quiz.CanGoBack(st),
		IsLast:    st.Step == len(a.Quiz.Questions)-1,
		Complete:  st.Complete,
		Error:     msg,
	}
	if st.Complete {
		rec, err := a.Quiz.Recommend(st)
		if err != nil {
			// An incomplete answer set in the session starts over.
			st = a.Quiz.Restart()
			_ = a.saveQuizState(c, st)
			return a.renderAssessment(c, code, st, msg)
		}
		data.Result = rec
	}
	meta := views.PageMeta{Title: "Wellness Assessment", URL: views.BuildURL(a.Config.URL, "assessment")}
	return a.renderPage(c, code, views.AssessmentPage, meta, data)
}
