package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
	"pixel-poll-service/internal/domain"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Presets struct {
		TTL   string   `yaml:"ttl"`
		Items []Preset `yaml:"items"`
	} `yaml:"presets"`
	CORS struct {
		AllowedOrigins string `yaml:"allowedOrigins"`
	} `yaml:"cors"`
}

// Preset is a question defined in the config file.
type Preset struct {
	ID             string   `yaml:"id"`
	Type           string   `yaml:"type"`
	Question       string   `yaml:"question"`
	Answers        []string `yaml:"answers"`
	CorrectAnswer  int      `yaml:"correctAnswer"`
	StartingPoints float64  `yaml:"startingPoints"`
	DecayRate      float64  `yaml:"decayRate"`
	NegativePoints float64  `yaml:"negativePoints"`
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// PresetQuestions converts the configured presets, rejecting invalid ones.
func (c Config) PresetQuestions() (map[string]domain.Question, error) {
	out := make(map[string]domain.Question, len(c.Presets.Items))
	for _, p := range c.Presets.Items {
		if p.ID == "" {
			return nil, fmt.Errorf("preset without id")
		}
		if _, dup := out[p.ID]; dup {
			return nil, fmt.Errorf("duplicate preset %q", p.ID)
		}
		q := domain.Question{
			Kind:               domain.QuestionKind(p.Type),
			Prompt:             p.Question,
			Options:            p.Answers,
			CorrectOption:      p.CorrectAnswer,
			StartingPoints:     p.StartingPoints,
			DecayRatePerSecond: p.DecayRate,
			WrongAnswerPenalty: p.NegativePoints,
		}
		if err := q.Validate(); err != nil {
			return nil, fmt.Errorf("preset %q: %w", p.ID, err)
		}
		out[p.ID] = q
	}
	return out, nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
