// internal/config/config.go
//
// Process configuration.
// Sources, lowest precedence first:
//   - built-in defaults (DefaultConfig)
//   - an optional YAML file (--config / SOLVER_CONFIG)
//   - a .env file in the working directory (loaded into the environment)
//   - environment variables (PORT, LOG_LEVEL, CACHE_DRIVER, ...)

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/robalobadob/wordle/apps/go-solver/internal/solver"
)

// Cache drivers.
const (
	DriverNone   = "none"
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// DefaultJWTSecret is the development secret used when JWT_SECRET is unset.
const DefaultJWTSecret = "dev_secret_change_me"

// Config is the full process configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Words    WordsConfig    `yaml:"words"`
	Cache    CacheConfig    `yaml:"cache"`
	Database DatabaseConfig `yaml:"database"`
	Solver   SolverConfig   `yaml:"solver"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           string `yaml:"port"`
	ClientOrigin   string `yaml:"client_origin"`
	JWTSecret      string `yaml:"jwt_secret"`
	JWTExpiresDays int    `yaml:"jwt_expires_days"`
	DailySalt      string `yaml:"daily_salt"`
	RequestTimeout string `yaml:"request_timeout"`
	SessionTTL     string `yaml:"session_ttl"`
}

// LogConfig configures zerolog.
type LogConfig struct {
	Level  string `yaml:"level"` // trace, debug, info, warn, error
	Pretty bool   `yaml:"pretty"`
}

// WordsConfig points at word list files. Empty paths use the embedded lists.
type WordsConfig struct {
	AnswersFile string `yaml:"answers_file"`
	AllowedFile string `yaml:"allowed_file"`
}

// CacheConfig configures pattern table persistence.
type CacheConfig struct {
	Driver  string `yaml:"driver"` // none, memory, file, sqlite
	Dir     string `yaml:"dir"`    // file driver only
	Workers int    `yaml:"workers"`
}

// DatabaseConfig locates the SQLite database.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// SolverConfig holds defaults for new games.
type SolverConfig struct {
	Strategy    string `yaml:"strategy"`
	MaxAttempts int    `yaml:"max_attempts"`
	HardMode    bool   `yaml:"hard_mode"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "5175",
			ClientOrigin:   "http://localhost:5173",
			JWTSecret:      DefaultJWTSecret,
			JWTExpiresDays: 14,
			DailySalt:      "local_dev_salt",
			RequestTimeout: "30s",
			SessionTTL:     "1h",
		},
		Log: LogConfig{Level: "info"},
		Cache: CacheConfig{
			Driver: DriverSQLite,
			Dir:    "data/cache",
		},
		Database: DatabaseConfig{Path: "data/solver.db"},
		Solver: SolverConfig{
			Strategy:    solver.Entropy.String(),
			MaxAttempts: solver.DefaultMaxAttempts,
		},
	}
}

// Load builds the configuration. A missing YAML file is not an error
// unless path was given explicitly.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()
	explicit := path != ""
	if !explicit {
		path = os.Getenv("SOLVER_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist) && !explicit:
			log.Debug().Str("path", path).Msg("config file not found, using defaults")
		default:
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() error {
	envStr("PORT", &c.Server.Port)
	envStr("CLIENT_ORIGIN", &c.Server.ClientOrigin)
	envStr("JWT_SECRET", &c.Server.JWTSecret)
	envStr("DAILY_SALT", &c.Server.DailySalt)
	envStr("REQUEST_TIMEOUT", &c.Server.RequestTimeout)
	envStr("SESSION_TTL", &c.Server.SessionTTL)
	envStr("LOG_LEVEL", &c.Log.Level)
	envStr("WORDS_ANSWERS_FILE", &c.Words.AnswersFile)
	envStr("WORDS_ALLOWED_FILE", &c.Words.AllowedFile)
	envStr("CACHE_DRIVER", &c.Cache.Driver)
	envStr("CACHE_DIR", &c.Cache.Dir)
	envStr("DATABASE_PATH", &c.Database.Path)
	envStr("SOLVER_STRATEGY", &c.Solver.Strategy)

	return errors.Join(
		envInt("JWT_EXPIRES_DAYS", &c.Server.JWTExpiresDays),
		envInt("CACHE_WORKERS", &c.Cache.Workers),
		envInt("SOLVER_MAX_ATTEMPTS", &c.Solver.MaxAttempts),
		envBool("LOG_PRETTY", &c.Log.Pretty),
		envBool("SOLVER_HARD_MODE", &c.Solver.HardMode),
	)
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	var errs []error
	if _, err := solver.ParseStrategy(c.Solver.Strategy); err != nil {
		errs = append(errs, err)
	}
	if c.Solver.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("solver.max_attempts must be positive, got %d", c.Solver.MaxAttempts))
	}
	switch c.Cache.Driver {
	case DriverNone, DriverMemory, DriverFile, DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("unknown cache driver %q", c.Cache.Driver))
	}
	if c.Cache.Driver == DriverFile && c.Cache.Dir == "" {
		errs = append(errs, errors.New("cache.dir is required for the file driver"))
	}
	if c.Cache.Workers < 0 {
		errs = append(errs, fmt.Errorf("cache.workers must not be negative, got %d", c.Cache.Workers))
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if _, err := time.ParseDuration(c.Server.RequestTimeout); err != nil {
		errs = append(errs, fmt.Errorf("server.request_timeout: %w", err))
	}
	if d, err := time.ParseDuration(c.Server.SessionTTL); err != nil {
		errs = append(errs, fmt.Errorf("server.session_ttl: %w", err))
	} else if d <= 0 {
		errs = append(errs, fmt.Errorf("server.session_ttl must be positive, got %s", d))
	}
	return errors.Join(errs...)
}

// Strategy returns the parsed default strategy.
func (c *Config) Strategy() solver.Strategy {
	s, _ := solver.ParseStrategy(c.Solver.Strategy)
	return s
}

// RequestTimeout returns the parsed per-request timeout.
func (c *Config) RequestTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.RequestTimeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// SessionTTL returns how long idle game sessions are kept.
func (c *Config) SessionTTL() time.Duration {
	d, err := time.ParseDuration(c.Server.SessionTTL)
	if err != nil || d <= 0 {
		return time.Hour
	}
	return d
}

// AdminSecret returns the secret that guards /admin, or "" while the
// well-known default is still configured.
func (c *Config) AdminSecret() string {
	if c.Server.JWTSecret == DefaultJWTSecret {
		return ""
	}
	return c.Server.JWTSecret
}

// Apply installs the level and output format on the global logger.
func (l LogConfig) Apply() {
	if lvl, err := zerolog.ParseLevel(l.Level); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if l.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

func envStr(k string, dst *string) {
	if v := os.Getenv(k); v != "" {
		*dst = v
	}
}

func envInt(k string, dst *int) error {
	v := os.Getenv(k)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("%s: %w", k, err)
	}
	*dst = n
	return nil
}

func envBool(k string, dst *bool) error {
	v := os.Getenv(k)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("%s: %w", k, err)
	}
	*dst = b
	return nil
}
