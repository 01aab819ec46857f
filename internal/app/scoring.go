package app

import (
	"math"
	"sort"

	"pixel-poll-service/internal/domain"
)

// ScoreQuestion tallies votes and builds one result per user. users must be in
// join order; the returned slice holds their points after this question.
// Neither argument is modified.
func ScoreQuestion(question domain.Question, answers []domain.Answer, users []domain.User) (map[string]domain.Results, []domain.User) {
	votes := make([]int, len(question.Options))
	for _, a := range answers {
		if question.HasOption(a.OptionIndex) {
			votes[a.OptionIndex]++
		}
	}

	updated := append([]domain.User(nil), users...)
	results := make(map[string]domain.Results, len(updated))

	switch question.Kind {
	case domain.KindQuiz:
		scores := make(map[string]float64, len(answers))
		index := make(map[string]int, len(updated))
		for i := range updated {
			index[updated[i].Name] = i
		}
		for _, a := range answers {
			i, ok := index[a.User]
			if !ok {
				continue
			}
			if a.OptionIndex == question.CorrectOption {
				earned := earnedPoints(question, a)
				updated[i].Points += earned
				scores[a.User] = earned
			} else {
				updated[i].Points = math.Max(0, updated[i].Points-question.WrongAnswerPenalty)
				scores[a.User] = -question.WrongAnswerPenalty
			}
		}

		standings := Standings(updated)
		for _, u := range updated {
			results[u.Name] = domain.QuizResults{
				Type:          domain.KindQuiz,
				Question:      question.Prompt,
				Answers:       question.Options,
				CorrectAnswer: question.CorrectOption,
				Votes:         votes,
				UserScore:     scores[u.Name],
				Standings:     standings,
			}
		}
	default:
		poll := domain.PollResults{
			Type:       domain.KindPoll,
			Question:   question.Prompt,
			Answers:    question.Options,
			Votes:      votes,
			TotalVotes: len(answers),
		}
		for _, u := range updated {
			results[u.Name] = poll
		}
	}
	return results, updated
}

// earnedPoints applies the linear time decay to a correct answer.
func earnedPoints(question domain.Question, a domain.Answer) float64 {
	elapsedSeconds := float64(a.SubmittedAtOffsetMs) / 1000
	return math.Max(0, question.StartingPoints-elapsedSeconds*question.DecayRatePerSecond)
}

// Standings orders users by points descending; equal points keep join order.
func Standings(users []domain.User) []domain.Standing {
	out := make([]domain.Standing, 0, len(users))
	for _, u := range users {
		out = append(out, domain.Standing{Username: u.Name, Points: u.Points})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Points > out[j].Points
	})
	return out
}
