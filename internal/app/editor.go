package app

import (
	"fmt"

	"github.com/kitikazis/ELAC-Lectura/internal/domain"
)

// Editor holds an admin's working copy of a category's content. Edits stay
// in the draft until SaveContent persists them, matching how the admin screen
// batches changes before a save.
type Editor struct {
	readingText string
	questions   []domain.Question
}

// NewEditor starts a draft from the category's current content.
func NewEditor(category domain.Category) *Editor {
	snapshot := category.Clone()
	return &Editor{
		readingText: snapshot.ReadingText,
		questions:   snapshot.Questions,
	}
}

// SetReadingText replaces the passage text in the draft.
func (e *Editor) SetReadingText(text string) {
	e.readingText = text
}

// ReadingText returns the draft passage.
func (e *Editor) ReadingText() string { return e.readingText }

// Questions returns a copy of the draft questions.
func (e *Editor) Questions() []domain.Question {
	out := make([]domain.Question, len(e.questions))
	for i, q := range e.questions {
		out[i] = q
		out[i].Options = append([]string(nil), q.Options...)
	}
	return out
}

// AddQuestion appends a blank question with four empty options and the first
// option marked correct.
func (e *Editor) AddQuestion() {
	e.questions = append(e.questions, domain.Question{
		Options: make([]string, domain.OptionsPerQuestion),
	})
}

// RemoveQuestion deletes the question at index i.
func (e *Editor) RemoveQuestion(i int) error {
	if err := e.checkIndex(i); err != nil {
		return err
	}
	e.questions = append(e.questions[:i], e.questions[i+1:]...)
	return nil
}

// MoveQuestion swaps the question at i with its neighbor one step in the
// given direction (-1 up, +1 down). Moves past either end are no-ops.
func (e *Editor) MoveQuestion(i, direction int) error {
	if err := e.checkIndex(i); err != nil {
		return err
	}
	if direction != -1 && direction != 1 {
		return fmt.Errorf("%w: move direction must be -1 or 1", domain.ErrValidation)
	}
	j := i + direction
	if j < 0 || j >= len(e.questions) {
		return nil
	}
	e.questions[i], e.questions[j] = e.questions[j], e.questions[i]
	return nil
}

// SetQuestionText updates the prompt of question i.
func (e *Editor) SetQuestionText(i int, text string) error {
	if err := e.checkIndex(i); err != nil {
		return err
	}
	e.questions[i].Text = text
	return nil
}

// SetOption updates one option of question i.
func (e *Editor) SetOption(i, option int, text string) error {
	if err := e.checkIndex(i); err != nil {
		return err
	}
	if option < 0 || option >= len(e.questions[i].Options) {
		return fmt.Errorf("%w: option index %d out of range", domain.ErrValidation, option)
	}
	e.questions[i].Options[option] = text
	return nil
}

// SetCorrect marks which option of question i is the right answer.
func (e *Editor) SetCorrect(i, option int) error {
	if err := e.checkIndex(i); err != nil {
		return err
	}
	if option < 0 || option >= len(e.questions[i].Options) {
		return fmt.Errorf("%w: correct index %d out of range", domain.ErrValidation, option)
	}
	e.questions[i].Correct = option
	return nil
}

// SetExplanation updates the post-quiz explanation of question i.
func (e *Editor) SetExplanation(i int, text string) error {
	if err := e.checkIndex(i); err != nil {
		return err
	}
	e.questions[i].Explanation = text
	return nil
}

func (e *Editor) checkIndex(i int) error {
	if i < 0 || i >= len(e.questions) {
		return fmt.Errorf("%w: question index %d out of range", domain.ErrValidation, i)
	}
	return nil
}
