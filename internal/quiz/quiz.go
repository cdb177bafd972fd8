// Package quiz defines the quiz data feed consumed by the runner and the
// sources it can be loaded from.
package quiz

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyQuiz is returned when a feed contains no questions.
	ErrEmptyQuiz = errors.New("quiz: quiz must contain at least one question")
	// ErrNoCorrectAnswer is returned when a question has no answer flagged correct.
	ErrNoCorrectAnswer = errors.New("quiz: question has no correct answer")
	// ErrMultipleCorrect is returned when a question flags more than one answer.
	ErrMultipleCorrect = errors.New("quiz: question has more than one correct answer")
	// ErrNoAnswers is returned when a question has no answers at all.
	ErrNoAnswers = errors.New("quiz: question has no answers")
	// ErrTooManyAnswers is returned when a question has more than MaxAnswers.
	ErrTooManyAnswers = fmt.Errorf("quiz: question has more than %d answers", MaxAnswers)
)

// MaxAnswers is the number of answer letters the overlay can show.
const MaxAnswers = 4

// Answer is one selectable choice of a question.
type Answer struct {
	Text    string `json:"text" yaml:"text"`
	Correct bool   `json:"correct" yaml:"correct"`
}

// Question is one quiz item; it maps to one world segment.
type Question struct {
	Question string   `json:"question" yaml:"question"`
	Answers  []Answer `json:"answers" yaml:"answers"`
}

// CorrectIndex returns the index of the first correct answer, or -1.
func (q Question) CorrectIndex() int {
	for i, a := range q.Answers {
		if a.Correct {
			return i
		}
	}
	return -1
}

// Validate checks that there are at most MaxAnswers answers and exactly one
// is flagged correct.
func (q Question) Validate() error {
	switch {
	case len(q.Answers) == 0:
		return ErrNoAnswers
	case len(q.Answers) > MaxAnswers:
		return ErrTooManyAnswers
	}
	correct := 0
	for _, a := range q.Answers {
		if a.Correct {
			correct++
		}
	}
	switch {
	case correct == 0:
		return ErrNoCorrectAnswer
	case correct > 1:
		return ErrMultipleCorrect
	}
	return nil
}

// Quiz is an ordered list of questions.
type Quiz struct {
	ID        string     `json:"id,omitempty" yaml:"id,omitempty"`
	Title     string     `json:"title,omitempty" yaml:"title,omitempty"`
	Questions []Question `json:"quiz" yaml:"quiz"`
}

// Len returns the number of questions.
func (q *Quiz) Len() int {
	if q == nil {
		return 0
	}
	return len(q.Questions)
}

// At returns the question at index i. It panics when i is out of range,
// same as indexing the slice.
func (q *Quiz) At(i int) Question {
	return q.Questions[i]
}

// Validate checks the whole feed for data-integrity problems.
// The first failing question is reported with its 1-based number.
func (q *Quiz) Validate() error {
	if q.Len() == 0 {
		return ErrEmptyQuiz
	}
	for i, question := range q.Questions {
		if err := question.Validate(); err != nil {
			return fmt.Errorf("question %d: %w", i+1, err)
		}
	}
	return nil
}

// Letter returns the overlay letter for answer index i ("a", "b", ...).
func Letter(i int) string {
	if i < 0 || i >= 26 {
		return "?"
	}
	return string(rune('a' + i))
}
