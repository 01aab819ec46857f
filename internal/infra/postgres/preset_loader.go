package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"pixel-poll-service/internal/domain"
)

// PresetLoader loads question presets stored as JSONB in Postgres.
type PresetLoader struct {
	pool *pgxpool.Pool
}

func NewPresetLoader(pool *pgxpool.Pool) *PresetLoader {
	return &PresetLoader{pool: pool}
}

func (l *PresetLoader) LoadPreset(ctx context.Context, presetID string) (domain.Question, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM question_presets WHERE id=$1`, presetID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Question{}, domain.ErrPresetNotFound
	}
	if err != nil {
		return domain.Question{}, fmt.Errorf("load preset: %w", err)
	}
	var q domain.Question
	if err := json.Unmarshal(raw, &q); err != nil {
		return domain.Question{}, fmt.Errorf("unmarshal preset: %w", err)
	}
	if err := q.Validate(); err != nil {
		return domain.Question{}, fmt.Errorf("preset %s: %w", presetID, err)
	}
	return q, nil
}

// SavePreset upserts a preset; used by seeding and tests.
func (l *PresetLoader) SavePreset(ctx context.Context, presetID string, q domain.Question) error {
	if err := q.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("marshal preset: %w", err)
	}
	_, err = l.pool.Exec(ctx,
		`INSERT INTO question_presets (id, data) VALUES ($1, $2::jsonb)
		 ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data`,
		presetID, string(data))
	if err != nil {
		return fmt.Errorf("save preset: %w", err)
	}
	return nil
}
