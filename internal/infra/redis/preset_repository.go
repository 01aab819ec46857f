package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
	"pixel-poll-service/internal/domain"
)

// PresetLoader fetches stored questions from a backing store (config, Postgres).
type PresetLoader interface {
	LoadPreset(ctx context.Context, presetID string) (domain.Question, error)
}

// PresetRepository caches presets in Redis and falls back to a loader on miss.
// Presets are stored as: SET pixelpoll:preset:{presetID} {question JSON} EX ttl
type PresetRepository struct {
	client *redis.Client
	loader PresetLoader
	ttl    time.Duration
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewPresetRepository(client *redis.Client, loader PresetLoader, ttl time.Duration) *PresetRepository {
	return &PresetRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *PresetRepository) GetPreset(ctx context.Context, presetID string) (domain.Question, error) {
	if q, ok := r.cached(ctx, presetID); ok {
		return q, nil
	}

	result, err, _ := r.sf.Do(presetID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if q, ok := r.cached(ctx, presetID); ok {
			return q, nil
		}

		q, err := r.loader.LoadPreset(ctx, presetID)
		if err != nil {
			return domain.Question{}, err
		}

		data, err := json.Marshal(q)
		if err != nil {
			return domain.Question{}, fmt.Errorf("marshal preset: %w", err)
		}
		_ = r.client.Set(ctx, r.key(presetID), data, r.ttlWithJitter()).Err()
		return q, nil
	})
	if err != nil {
		return domain.Question{}, err
	}
	return result.(domain.Question), nil
}

func (r *PresetRepository) cached(ctx context.Context, presetID string) (domain.Question, bool) {
	data, err := r.client.Get(ctx, r.key(presetID)).Bytes()
	if err != nil {
		return domain.Question{}, false
	}
	var q domain.Question
	if err := json.Unmarshal(data, &q); err != nil {
		return domain.Question{}, false
	}
	return q, true
}

func (r *PresetRepository) key(presetID string) string {
	return "pixelpoll:preset:" + presetID
}

func (r *PresetRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
