package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"pixel-poll-service/internal/domain"
)

func TestPresetRepositoryCaches(t *testing.T) {
	loader := &countingLoader{
		PresetLoader: NewStaticPresetLoader(map[string]domain.Question{
			"capitals": samplePreset(),
		}),
	}
	repo := NewPresetRepository(loader, time.Minute)

	q, err := repo.GetPreset(context.Background(), "capitals")
	if err != nil {
		t.Fatalf("get preset: %v", err)
	}
	if q.Prompt != "Capital of France?" {
		t.Fatalf("unexpected preset %+v", q)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	if _, err := repo.GetPreset(context.Background(), "capitals"); err != nil {
		t.Fatalf("get preset 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
}

func TestPresetRepositoryExpires(t *testing.T) {
	loader := &countingLoader{
		PresetLoader: NewStaticPresetLoader(map[string]domain.Question{
			"capitals": samplePreset(),
		}),
	}
	repo := NewPresetRepository(loader, time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	repo.clock = func() time.Time { return now }

	_, _ = repo.GetPreset(context.Background(), "capitals")
	now = now.Add(2 * time.Minute)
	_, _ = repo.GetPreset(context.Background(), "capitals")
	if loader.calls != 2 {
		t.Fatalf("expected reload after ttl, loader calls %d", loader.calls)
	}
}

func TestPresetRepositoryUnknown(t *testing.T) {
	repo := NewPresetRepository(NewStaticPresetLoader(nil), time.Minute)
	if _, err := repo.GetPreset(context.Background(), "missing"); !errors.Is(err, domain.ErrPresetNotFound) {
		t.Fatalf("expected preset not found, got %v", err)
	}
}

type countingLoader struct {
	PresetLoader
	calls int
}

func (l *countingLoader) LoadPreset(ctx context.Context, presetID string) (domain.Question, error) {
	l.calls++
	return l.PresetLoader.LoadPreset(ctx, presetID)
}

func samplePreset() domain.Question {
	return domain.Question{
		Kind:               domain.KindQuiz,
		Prompt:             "Capital of France?",
		Options:            []string{"Berlin", "Paris", "Rome"},
		CorrectOption:      1,
		StartingPoints:     1000,
		DecayRatePerSecond: 10,
		WrongAnswerPenalty: 200,
	}
}
