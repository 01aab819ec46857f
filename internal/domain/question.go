package domain

import (
	"fmt"
	"math"
)

// QuestionKind tags a question as a poll or a quiz.
type QuestionKind string

const (
	KindPoll QuestionKind = "poll"
	KindQuiz QuestionKind = "quiz"
)

// Question is supplied by the room creator and never mutated afterwards.
// The quiz-only fields are ignored for polls.
type Question struct {
	Kind               QuestionKind `json:"type"`
	Prompt             string       `json:"question"`
	Options            []string     `json:"answers"`
	CorrectOption      int          `json:"correctAnswer,omitempty"`
	StartingPoints     float64      `json:"startingPoints,omitempty"`
	DecayRatePerSecond float64      `json:"decayRate,omitempty"` // points lost per second
	WrongAnswerPenalty float64      `json:"negativePoints,omitempty"`
}

// Validate checks the question is playable.
func (q Question) Validate() error {
	switch q.Kind {
	case KindPoll, KindQuiz:
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidQuestion, q.Kind)
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("%w: at least two answers required", ErrInvalidQuestion)
	}
	if q.Kind == KindPoll {
		return nil
	}
	if q.CorrectOption < 0 || q.CorrectOption >= len(q.Options) {
		return fmt.Errorf("%w: correct answer %d out of range", ErrInvalidQuestion, q.CorrectOption)
	}
	for _, v := range []float64{q.StartingPoints, q.DecayRatePerSecond, q.WrongAnswerPenalty} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: scoring parameters must be non-negative", ErrInvalidQuestion)
		}
	}
	return nil
}

// Public returns the question as shown to participants, with the correct answer hidden.
func (q Question) Public() Question {
	out := q
	out.Options = append([]string(nil), q.Options...)
	out.CorrectOption = 0
	return out
}

// HasOption reports whether i indexes one of the question's options.
func (q Question) HasOption(i int) bool {
	return i >= 0 && i < len(q.Options)
}
