package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"pixel-poll-service/internal/domain"
)

// PresetLoader fetches stored questions from a backing store (config, Postgres).
type PresetLoader interface {
	LoadPreset(ctx context.Context, presetID string) (domain.Question, error)
}

// PresetRepository caches presets with TTL to avoid repeated DB hits.
type PresetRepository struct {
	loader PresetLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedPreset
}

type cachedPreset struct {
	question  domain.Question
	expiresAt time.Time
}

func NewPresetRepository(loader PresetLoader, ttl time.Duration) *PresetRepository {
	return &PresetRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedPreset),
	}
}

func (r *PresetRepository) GetPreset(ctx context.Context, presetID string) (domain.Question, error) {
	if q, ok := r.cached(presetID); ok {
		return q, nil
	}

	result, err, _ := r.sf.Do(presetID, func() (interface{}, error) {
		if q, ok := r.cached(presetID); ok {
			return q, nil
		}

		q, err := r.loader.LoadPreset(ctx, presetID)
		if err != nil {
			return domain.Question{}, err
		}

		expiresAt := r.clock().Add(r.ttlWithJitter())
		r.mu.Lock()
		r.cache[presetID] = cachedPreset{question: q, expiresAt: expiresAt}
		r.mu.Unlock()
		return q, nil
	})
	if err != nil {
		return domain.Question{}, err
	}
	return result.(domain.Question), nil
}

func (r *PresetRepository) cached(presetID string) (domain.Question, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.cache[presetID]
	if !ok || !entry.expiresAt.After(r.clock()) {
		return domain.Question{}, false
	}
	return entry.question, true
}

// ttlWithJitter adds up to 10% to spread expirations.
func (r *PresetRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticPresetLoader serves presets from an in-memory map (config file, tests, demos).
type StaticPresetLoader struct {
	presets map[string]domain.Question
}

func NewStaticPresetLoader(presets map[string]domain.Question) *StaticPresetLoader {
	return &StaticPresetLoader{presets: presets}
}

func (l *StaticPresetLoader) LoadPreset(_ context.Context, presetID string) (domain.Question, error) {
	if q, ok := l.presets[presetID]; ok {
		return q, nil
	}
	return domain.Question{}, domain.ErrPresetNotFound
}
