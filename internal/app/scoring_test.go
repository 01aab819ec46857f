package app

import (
	"reflect"
	"testing"

	"pixel-poll-service/internal/domain"
)

func quizQuestion() domain.Question {
	return domain.Question{
		Kind:               domain.KindQuiz,
		Prompt:             "2 + 2?",
		Options:            []string{"3", "4", "5"},
		CorrectOption:      1,
		StartingPoints:     1000,
		DecayRatePerSecond: 10,
		WrongAnswerPenalty: 200,
	}
}

func TestScoreQuizDecayAndClamp(t *testing.T) {
	users := []domain.User{
		{Name: "alice", IsCreator: true},
		{Name: "bob"},
		{Name: "carol", Points: 100},
		{Name: "dave", Points: 40},
	}
	answers := []domain.Answer{
		{User: "bob", OptionIndex: 1, SubmittedAtOffsetMs: 5000},
		{User: "alice", OptionIndex: 1, SubmittedAtOffsetMs: 150000},
		{User: "carol", OptionIndex: 0, SubmittedAtOffsetMs: 1000},
	}

	results, updated := ScoreQuestion(quizQuestion(), answers, users)

	points := map[string]float64{}
	for _, u := range updated {
		points[u.Name] = u.Points
	}
	if points["bob"] != 950 {
		t.Fatalf("expected bob to earn 950, got %v", points["bob"])
	}
	if points["alice"] != 0 {
		t.Fatalf("expected decay clamped to 0, got %v", points["alice"])
	}
	if points["carol"] != 0 {
		t.Fatalf("expected wrong answer clamped to 0, got %v", points["carol"])
	}
	if points["dave"] != 40 {
		t.Fatalf("non-answerer must keep points, got %v", points["dave"])
	}
	if users[2].Points != 100 {
		t.Fatalf("input users must not be modified")
	}

	bob := results["bob"].(domain.QuizResults)
	if bob.UserScore != 950 {
		t.Fatalf("expected bob userScore 950, got %v", bob.UserScore)
	}
	if carol := results["carol"].(domain.QuizResults); carol.UserScore != -200 {
		t.Fatalf("expected carol userScore -200, got %v", carol.UserScore)
	}
	if dave := results["dave"].(domain.QuizResults); dave.UserScore != 0 {
		t.Fatalf("expected dave userScore 0, got %v", dave.UserScore)
	}
	if !reflect.DeepEqual(bob.Votes, []int{1, 2, 0}) {
		t.Fatalf("unexpected votes %v", bob.Votes)
	}
	if bob.CorrectAnswer != 1 {
		t.Fatalf("expected correct answer 1, got %d", bob.CorrectAnswer)
	}

	// Shared parts are identical for every recipient.
	for name, res := range results {
		qr := res.(domain.QuizResults)
		if !reflect.DeepEqual(qr.Standings, bob.Standings) || !reflect.DeepEqual(qr.Votes, bob.Votes) {
			t.Fatalf("results for %s differ outside userScore", name)
		}
	}
}

func TestStandingsTieKeepsJoinOrder(t *testing.T) {
	users := []domain.User{
		{Name: "alice", Points: 10},
		{Name: "bob", Points: 50},
		{Name: "carol", Points: 10},
		{Name: "dave", Points: 50},
		{Name: "erin"},
	}
	got := Standings(users)
	want := []string{"bob", "dave", "alice", "carol", "erin"}
	for i, s := range got {
		if s.Username != want[i] {
			t.Fatalf("position %d: expected %s, got %s (%+v)", i, want[i], s.Username, got)
		}
	}
}

func TestScorePollIsSharedAndPointless(t *testing.T) {
	poll := domain.Question{
		Kind:    domain.KindPoll,
		Prompt:  "Tabs or spaces?",
		Options: []string{"Tabs", "Spaces"},
	}
	users := []domain.User{{Name: "alice", Points: 7}, {Name: "bob"}, {Name: "carol"}}
	answers := []domain.Answer{
		{User: "alice", OptionIndex: 1},
		{User: "bob", OptionIndex: 1},
	}

	results, updated := ScoreQuestion(poll, answers, users)
	if !reflect.DeepEqual(updated, users) {
		t.Fatalf("polls must not change points: %+v", updated)
	}
	if len(results) != 3 {
		t.Fatalf("expected a result for every user, got %d", len(results))
	}
	first := results["alice"]
	for name, res := range results {
		if !reflect.DeepEqual(res, first) {
			t.Fatalf("poll results for %s differ", name)
		}
	}
	pr := first.(domain.PollResults)
	if pr.TotalVotes != 2 || !reflect.DeepEqual(pr.Votes, []int{0, 2}) {
		t.Fatalf("unexpected poll results %+v", pr)
	}
}
