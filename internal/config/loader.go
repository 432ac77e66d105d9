// Package config loads housingd and housingctl settings from a file, the
// environment and built-in defaults.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the service and the trainer.
// Zero values mean "unspecified" and are replaced by Defaults.
type Config struct {
	Server ServerConfig `json:"server" yaml:"server" toml:"server"`
	Train  TrainConfig  `json:"train" yaml:"train" toml:"train"`
}

// ServerConfig configures housingd.
type ServerConfig struct {
	Addr  string `json:"addr" yaml:"addr" toml:"addr" validate:"required"`
	Model string `json:"model" yaml:"model" toml:"model" validate:"required"`
	// Watch reloads the model when the artifact on disk changes.
	Watch                  bool       `json:"watch" yaml:"watch" toml:"watch"`
	LogLevel               string     `json:"log_level" yaml:"log_level" toml:"log_level" validate:"oneof=trace debug info warn error"`
	RequestLog             string     `json:"request_log" yaml:"request_log" toml:"request_log" validate:"oneof=off error info debug"`
	MaxBodyBytes           int64      `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes" validate:"gt=0"`
	MaxBatch               int        `json:"max_batch" yaml:"max_batch" toml:"max_batch" validate:"gt=0,lte=100000"`
	PredictTimeoutSeconds  int        `json:"predict_timeout_seconds" yaml:"predict_timeout_seconds" toml:"predict_timeout_seconds" validate:"gte=0"`
	ShutdownTimeoutSeconds int        `json:"shutdown_timeout_seconds" yaml:"shutdown_timeout_seconds" toml:"shutdown_timeout_seconds" validate:"gt=0"`
	RateLimitRPS           float64    `json:"rate_limit_rps" yaml:"rate_limit_rps" toml:"rate_limit_rps" validate:"gte=0"`
	RateLimitBurst         int        `json:"rate_limit_burst" yaml:"rate_limit_burst" toml:"rate_limit_burst" validate:"gte=0"`
	CORS                   CORSConfig `json:"cors" yaml:"cors" toml:"cors"`
}

// CORSConfig is opt-in cross-origin support.
type CORSConfig struct {
	Enabled bool     `json:"enabled" yaml:"enabled" toml:"enabled"`
	Origins []string `json:"origins" yaml:"origins" toml:"origins"`
	Methods []string `json:"methods" yaml:"methods" toml:"methods"`
	Headers []string `json:"headers" yaml:"headers" toml:"headers"`
}

// TrainConfig configures housingctl train.
type TrainConfig struct {
	Data            string  `json:"data" yaml:"data" toml:"data"`
	Out             string  `json:"out" yaml:"out" toml:"out" validate:"required"`
	TestSize        float64 `json:"test_size" yaml:"test_size" toml:"test_size" validate:"gt=0,lt=1"`
	// Seed defaults to 42; a pointer keeps an explicit 0.
	Seed            *int64  `json:"seed" yaml:"seed" toml:"seed"`
	NEstimators     int     `json:"n_estimators" yaml:"n_estimators" toml:"n_estimators" validate:"gte=1"`
	MaxDepth        int     `json:"max_depth" yaml:"max_depth" toml:"max_depth" validate:"gte=0"`
	MinSamplesSplit int     `json:"min_samples_split" yaml:"min_samples_split" toml:"min_samples_split" validate:"gte=2"`
	MinSamplesLeaf  int     `json:"min_samples_leaf" yaml:"min_samples_leaf" toml:"min_samples_leaf" validate:"gte=1"`
	MaxFeatures     float64 `json:"max_features" yaml:"max_features" toml:"max_features" validate:"gt=0,lte=1"`
	// Bootstrap defaults to true; a pointer keeps an explicit false.
	Bootstrap *bool `json:"bootstrap" yaml:"bootstrap" toml:"bootstrap"`
	OOBScore  bool  `json:"oob_score" yaml:"oob_score" toml:"oob_score"`
	NJobs     int   `json:"n_jobs" yaml:"n_jobs" toml:"n_jobs" validate:"gte=0"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// Defaults fills unspecified values.
func (c *Config) Defaults() {
	s := &c.Server
	if s.Addr == "" {
		s.Addr = ":8080"
	}
	if s.Model == "" {
		s.Model = "models"
	}
	if s.LogLevel == "" {
		s.LogLevel = "info"
	}
	if s.RequestLog == "" {
		s.RequestLog = "error"
	}
	if s.MaxBodyBytes == 0 {
		s.MaxBodyBytes = 1 << 20
	}
	if s.MaxBatch == 0 {
		s.MaxBatch = 1000
	}
	if s.ShutdownTimeoutSeconds == 0 {
		s.ShutdownTimeoutSeconds = 5
	}
	if s.CORS.Enabled {
		if len(s.CORS.Origins) == 0 {
			s.CORS.Origins = []string{"*"}
		}
		if len(s.CORS.Methods) == 0 {
			s.CORS.Methods = []string{"GET", "POST", "OPTIONS"}
		}
		if len(s.CORS.Headers) == 0 {
			s.CORS.Headers = []string{"Content-Type", "X-Log-Level"}
		}
	}

	t := &c.Train
	if t.Out == "" {
		t.Out = "models/model.gob"
	}
	if t.TestSize == 0 {
		t.TestSize = 0.2
	}
	if t.Seed == nil {
		seed := int64(42)
		t.Seed = &seed
	}
	if t.NEstimators == 0 {
		t.NEstimators = 100
	}
	if t.MinSamplesSplit == 0 {
		t.MinSamplesSplit = 2
	}
	if t.MinSamplesLeaf == 0 {
		t.MinSamplesLeaf = 1
	}
	if t.MaxFeatures == 0 {
		t.MaxFeatures = 1
	}
	if t.Bootstrap == nil {
		on := true
		t.Bootstrap = &on
	}
}

// ApplyEnv overlays HOUSINGD_* environment variables. PORT is honored when
// HOUSINGD_ADDR is unset.
func (c *Config) ApplyEnv() error {
	s := &c.Server
	if v, ok := os.LookupEnv("HOUSINGD_ADDR"); ok && v != "" {
		s.Addr = v
	} else if v := os.Getenv("PORT"); v != "" {
		s.Addr = ":" + v
	}
	str := map[string]*string{
		"HOUSINGD_MODEL":       &s.Model,
		"HOUSINGD_LOG_LEVEL":   &s.LogLevel,
		"HOUSINGD_REQUEST_LOG": &s.RequestLog,
	}
	for k, dst := range str {
		if v := os.Getenv(k); v != "" {
			*dst = v
		}
	}
	ints := map[string]*int{
		"HOUSINGD_MAX_BATCH":               &s.MaxBatch,
		"HOUSINGD_PREDICT_TIMEOUT_SECONDS": &s.PredictTimeoutSeconds,
		"HOUSINGD_RATE_LIMIT_BURST":        &s.RateLimitBurst,
	}
	for k, dst := range ints {
		if v := os.Getenv(k); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s: %w", k, err)
			}
			*dst = n
		}
	}
	if v := os.Getenv("HOUSINGD_MAX_BODY_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("HOUSINGD_MAX_BODY_BYTES: %w", err)
		}
		s.MaxBodyBytes = n
	}
	if v := os.Getenv("HOUSINGD_RATE_LIMIT_RPS"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("HOUSINGD_RATE_LIMIT_RPS: %w", err)
		}
		s.RateLimitRPS = f
	}
	if v := os.Getenv("HOUSINGD_WATCH"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("HOUSINGD_WATCH: %w", err)
		}
		s.Watch = b
	}
	if v := os.Getenv("HOUSINGD_CORS_ORIGINS"); v != "" {
		s.CORS.Enabled = true
		s.CORS.Origins = splitList(v)
	}
	return nil
}

// Validate rejects out-of-range values. Call after Defaults.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			rule := fe.Tag()
			if fe.Param() != "" {
				rule += "=" + fe.Param()
			}
			msgs = append(msgs, fmt.Sprintf("%s (%s)", fe.Namespace(), rule))
		}
		return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
