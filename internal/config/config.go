package config

import (
	"os"
	"time"

	"github.com/Croissanton/Quiziosity/internal/game"
	"gopkg.in/yaml.v3"
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
	Trivia struct {
		BaseURL string `yaml:"base_url"`
		Limit   int    `yaml:"limit"`
		TTL     string `yaml:"ttl"`
	} `yaml:"trivia"`
	Game struct {
		QuestionTime string `yaml:"question_time"`
		TickInterval string `yaml:"tick_interval"`
		SettleDelay  string `yaml:"settle_delay"`
		StreakBonus  string `yaml:"streak_bonus"`
	} `yaml:"game"`
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

// TTLDuration parses a duration string or returns the fallback if empty or invalid.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

// GameRules maps the game section onto game.Rules, keeping defaults for
// anything unset.
func (c Config) GameRules() game.Rules {
	rules := game.DefaultRules()
	rules.QuestionTime = TTLDuration(c.Game.QuestionTime, rules.QuestionTime)
	rules.TickInterval = TTLDuration(c.Game.TickInterval, rules.TickInterval)
	rules.SettleDelay = TTLDuration(c.Game.SettleDelay, rules.SettleDelay)
	rules.StreakBonus = TTLDuration(c.Game.StreakBonus, rules.StreakBonus)
	return rules
}
