package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yanqian/weatherwise/internal/domain/weather"
)

const weightTolerance = 0.001

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Synthesis SynthesisConfig `yaml:"synthesis"`
	Session   SessionConfig   `yaml:"session"`
	Reports   ReportsConfig   `yaml:"reports"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address      string          `yaml:"address"`
	ReadTimeout  time.Duration   `yaml:"readTimeout"`
	WriteTimeout time.Duration   `yaml:"writeTimeout"`
	RateLimit    RateLimitConfig `yaml:"rateLimit"`
	CORSOrigins  []string        `yaml:"corsOrigins"`
}

// RateLimitConfig drives the per-client request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// SynthesisConfig tunes the metric synthesizer.
type SynthesisConfig struct {
	JitterEnabled bool           `yaml:"jitterEnabled"`
	JitterSeed    int64          `yaml:"jitterSeed"`
	Tuning        weather.Tuning `yaml:"tuning"`
}

// SessionConfig controls dashboard session state and the simulated load delay.
type SessionConfig struct {
	LoadDelay       time.Duration `yaml:"loadDelay"`
	SuggestionDelay time.Duration `yaml:"suggestionDelay"`
	TTL             time.Duration `yaml:"ttl"`
	Valkey          ValkeyConfig  `yaml:"valkey"`
}

// ValkeyConfig contains connection information for the session store.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Prefix  string `yaml:"prefix"`
}

// ReportsConfig controls report publishing.
type ReportsConfig struct {
	Storage StorageConfig `yaml:"storage"`
}

// StorageConfig holds S3-compatible object storage settings.
type StorageConfig struct {
	Enabled     bool          `yaml:"enabled"`
	Endpoint    string        `yaml:"endpoint"`
	AccessKey   string        `yaml:"accessKey"`
	SecretKey   string        `yaml:"secretKey"`
	Bucket      string        `yaml:"bucket"`
	Region      string        `yaml:"region"`
	BootTimeout time.Duration `yaml:"bootTimeout"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_CORS_ORIGINS"); v != "" {
		cfg.HTTP.CORSOrigins = splitList(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("SYNTHESIS_JITTER_ENABLED"); v != "" {
		cfg.Synthesis.JitterEnabled = parseBool(v)
	}
	if v := os.Getenv("SYNTHESIS_JITTER_SEED"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Synthesis.JitterSeed = parsed
		}
	}
	if v := os.Getenv("SESSION_LOAD_DELAY"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Session.LoadDelay = parsed
		}
	}
	if v := os.Getenv("SESSION_SUGGESTION_DELAY"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Session.SuggestionDelay = parsed
		}
	}
	if v := os.Getenv("SESSION_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Session.TTL = parsed
		}
	}
	if v := os.Getenv("SESSION_VALKEY_ENABLED"); v != "" {
		cfg.Session.Valkey.Enabled = parseBool(v)
	}
	if v := os.Getenv("SESSION_VALKEY_ADDR"); v != "" {
		cfg.Session.Valkey.Addr = v
	}
	if v := os.Getenv("REPORTS_STORAGE_ENABLED"); v != "" {
		cfg.Reports.Storage.Enabled = parseBool(v)
	}
	if v := os.Getenv("REPORTS_STORAGE_ENDPOINT"); v != "" {
		cfg.Reports.Storage.Endpoint = v
	}
	if v := os.Getenv("REPORTS_STORAGE_ACCESS_KEY"); v != "" {
		cfg.Reports.Storage.AccessKey = v
	}
	if v := os.Getenv("REPORTS_STORAGE_SECRET_KEY"); v != "" {
		cfg.Reports.Storage.SecretKey = v
	}
	if v := os.Getenv("REPORTS_STORAGE_BUCKET"); v != "" {
		cfg.Reports.Storage.Bucket = v
	}
	if v := os.Getenv("REPORTS_STORAGE_REGION"); v != "" {
		cfg.Reports.Storage.Region = v
	}
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 120,
				Burst:             30,
			},
		},
		Synthesis: SynthesisConfig{
			JitterEnabled: true,
			Tuning:        weather.DefaultTuning(),
		},
		Session: SessionConfig{
			LoadDelay:       1500 * time.Millisecond,
			SuggestionDelay: 500 * time.Millisecond,
			TTL:             2 * time.Hour,
			Valkey: ValkeyConfig{
				Prefix: "weatherwise:session",
			},
		},
		Reports: ReportsConfig{
			Storage: StorageConfig{
				Region:      "auto",
				BootTimeout: 10 * time.Second,
			},
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if err := validateTuning(c.Synthesis.Tuning); err != nil {
		return err
	}
	if c.Session.LoadDelay < 0 {
		return errors.New("session.loadDelay cannot be negative")
	}
	if c.Session.SuggestionDelay < 0 {
		return errors.New("session.suggestionDelay cannot be negative")
	}
	if c.Session.TTL < 0 {
		return errors.New("session.ttl cannot be negative")
	}
	if c.Session.Valkey.Enabled && strings.TrimSpace(c.Session.Valkey.Addr) == "" {
		return errors.New("session.valkey.addr cannot be empty when valkey is enabled")
	}
	if s := c.Reports.Storage; s.Enabled {
		if strings.TrimSpace(s.Endpoint) == "" {
			return errors.New("reports.storage.endpoint cannot be empty when storage is enabled")
		}
		if strings.TrimSpace(s.Bucket) == "" {
			return errors.New("reports.storage.bucket cannot be empty when storage is enabled")
		}
	}
	return nil
}

func validateTuning(t weather.Tuning) error {
	if err := validateWeights("synthesis.tuning.default", t.Default); err != nil {
		return err
	}
	for profile, entry := range t.Profiles {
		if weather.ParseProfile(string(profile)) != profile || profile == weather.ProfileNone {
			return fmt.Errorf("synthesis.tuning.profiles: unknown profile %q", profile)
		}
		field := "synthesis.tuning.profiles." + string(profile)
		m := entry.Multipliers
		if m.Heat < 0 || m.Wet < 0 || m.Windy < 0 || m.Cold < 0 {
			return fmt.Errorf("%s.multipliers cannot be negative", field)
		}
		if err := validateWeights(field+".weights", entry.Weights); err != nil {
			return err
		}
	}
	return nil
}

func validateWeights(field string, w weather.ComfortWeights) error {
	if w.Hot < 0 || w.Wet < 0 || w.Windy < 0 || w.Cold < 0 {
		return fmt.Errorf("%s cannot be negative", field)
	}
	if math.Abs(w.Sum()-1) > weightTolerance {
		return fmt.Errorf("%s must sum to 1.0, got %.3f", field, w.Sum())
	}
	return nil
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
