package form

import (
	"fmt"

	"github.com/LRM-Solutions/fortelyne-app-checklist/model"
)

// ValidationError lists the questions still missing a usable answer.
// It is raised before any network call is made.
type ValidationError struct {
	Missing []model.Pergunta
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("formulario incomplete: %d pergunta(s) unanswered", len(e.Missing))
}

// Validate checks that every schema question has a non-empty answer per
// its type's emptiness rule. A nil return means the form may be
// submitted.
func Validate(answers model.AnswerMap, f model.Formulario) error {
	var missing []model.Pergunta
	for _, p := range f.Perguntas {
		a, ok := answers[p.ID]
		if !ok || a.Empty() {
			missing = append(missing, p)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}
