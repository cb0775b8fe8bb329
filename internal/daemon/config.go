package daemon

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/tutu-network/reimburse/internal/domain"
)

// ─── Configuration ──────────────────────────────────────────────────────────
// Read by `reimbursectl serve` and `reimbursectl eval` only. The bare calculate
// command never touches a config file.

// Config is the top-level TOML document.
type Config struct {
	API     APIConfig     `toml:"api"`
	Metrics MetricsConfig `toml:"metrics"`
	Log     LogConfig     `toml:"log"`
	Eval    EvalConfig    `toml:"eval"`
	Rates   domain.Rates  `toml:"rates"`
}

// APIConfig controls the HTTP listener.
type APIConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	ReadTimeout  string `toml:"read_timeout"`  // Go duration, e.g. "10s"
	WriteTimeout string `toml:"write_timeout"` // Go duration
	MaxBatch     int    `toml:"max_batch"`
}

// Addr returns host:port.
func (a APIConfig) Addr() string {
	return fmt.Sprintf("%s:%d", a.Host, a.Port)
}

// MetricsConfig toggles the /metrics endpoint.
type MetricsConfig struct {
	Enabled bool `toml:"enabled"`
}

// LogConfig selects the zap logger.
type LogConfig struct {
	Level  string `toml:"level"`  // debug | info | warn | error
	Format string `toml:"format"` // json | console
}

// EvalConfig tunes the evaluation report.
type EvalConfig struct {
	ExactTolerance float64 `toml:"exact_tolerance"`
	CloseTolerance float64 `toml:"close_tolerance"`
	Worst          int     `toml:"worst"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			Host:         "127.0.0.1",
			Port:         8086,
			ReadTimeout:  "10s",
			WriteTimeout: "30s",
			MaxBatch:     1000,
		},
		Metrics: MetricsConfig{Enabled: true},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Eval: EvalConfig{
			ExactTolerance: 0.01,
			CloseTolerance: 1.00,
			Worst:          5,
		},
		Rates: domain.DefaultRates(),
	}
}

// Load decodes path over DefaultConfig. An empty path returns the defaults.
// Keys the schema does not know are rejected.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%w: decode %s: %v", domain.ErrInvalidConfig, path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%w: unknown keys in %s: %s", domain.ErrInvalidConfig, path, strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges and enumerations. All problems are reported together.
func (c Config) Validate() error {
	var errs []error

	if c.API.Port <= 0 || c.API.Port > 65535 {
		errs = append(errs, fmt.Errorf("api.port %d out of range", c.API.Port))
	}
	if _, err := time.ParseDuration(c.API.ReadTimeout); err != nil {
		errs = append(errs, fmt.Errorf("api.read_timeout: %v", err))
	}
	if _, err := time.ParseDuration(c.API.WriteTimeout); err != nil {
		errs = append(errs, fmt.Errorf("api.write_timeout: %v", err))
	}
	if c.API.MaxBatch <= 0 {
		errs = append(errs, fmt.Errorf("api.max_batch must be positive, got %d", c.API.MaxBatch))
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q not one of debug, info, warn, error", c.Log.Level))
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log.format %q not one of json, console", c.Log.Format))
	}

	if c.Eval.ExactTolerance <= 0 {
		errs = append(errs, fmt.Errorf("eval.exact_tolerance must be positive"))
	}
	if c.Eval.CloseTolerance < c.Eval.ExactTolerance {
		errs = append(errs, fmt.Errorf("eval.close_tolerance must be >= eval.exact_tolerance"))
	}
	if c.Eval.Worst < 0 {
		errs = append(errs, fmt.Errorf("eval.worst must not be negative"))
	}

	for _, f := range c.Rates.Fields() {
		if math.IsNaN(f.Value) || math.IsInf(f.Value, 0) {
			errs = append(errs, fmt.Errorf("rates.%s must be finite", f.Name))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", domain.ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// Timeouts returns the parsed API timeouts. Call after Validate.
func (a APIConfig) Timeouts() (read, write time.Duration) {
	return parseDuration(a.ReadTimeout, 10*time.Second), parseDuration(a.WriteTimeout, 30*time.Second)
}

// parseDuration falls back to def on an empty or malformed value.
func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
