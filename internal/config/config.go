package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
	"icebreaker-service/internal/domain"
)

const (
	DefaultStorageKey = "gakri_insight_profiles"
	localTimeLayout   = "2006-01-02T15:04:05"
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
	Profiles struct {
		StorageKey string   `yaml:"storageKey"`
		CacheTTL   string   `yaml:"cacheTTL"`
		Groups     []string `yaml:"groups"`
	} `yaml:"profiles"`
	Gate struct {
		QuizPasscode       string `yaml:"quizPasscode"`
		GalleryPasscode    string `yaml:"galleryPasscode"`
		GalleryWindowStart string `yaml:"galleryWindowStart"`
		GalleryWindowEnd   string `yaml:"galleryWindowEnd"`
	} `yaml:"gate"`
	Share struct {
		PublicURL string `yaml:"publicURL"`
	} `yaml:"share"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	cfg := Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads YAML config from path. A missing file yields Default().
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Profiles.StorageKey == "" {
		c.Profiles.StorageKey = DefaultStorageKey
	}
	if len(c.Profiles.Groups) == 0 {
		c.Profiles.Groups = append([]string(nil), domain.DefaultGroups...)
	}
	if c.Gate.QuizPasscode == "" {
		c.Gate.QuizPasscode = "0000"
	}
	if c.Gate.GalleryPasscode == "" {
		c.Gate.GalleryPasscode = "4591"
	}
	if c.Gate.GalleryWindowStart == "" && c.Gate.GalleryWindowEnd == "" {
		c.Gate.GalleryWindowStart = "2026-01-23T00:00:00"
		c.Gate.GalleryWindowEnd = "2026-01-24T23:59:59"
	}
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

// LocalTime parses a wall-clock timestamp without zone in the local time zone.
// An empty string yields the zero time.
func LocalTime(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation(localTimeLayout, raw, time.Local)
}
