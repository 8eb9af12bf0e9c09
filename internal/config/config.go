package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Env        string
	ServerPort string

	DBDriver  string
	DBPath    string
	DBHost    string
	DBPort    string
	DBUser    string
	DBPass    string
	DBName    string
	DBSSLMode string

	// RedisURL is optional; empty disables the relay and the shared rate limit store.
	RedisURL string

	FrontendURLs []string

	SearchStrategy     string
	SearchThreshold    float64
	SearchDefaultLimit int
	SearchMaxLimit     int

	VoteMaxAmount   int
	VoteMultipliers map[string]int

	RateLimitWrites int
	RateLimitWindow time.Duration

	DemoBoard string
	SeedDemo  bool
}

// LoadConfig reads defaults, then the optional YAML file at path, then the
// environment. Keys in the file are the lower-case environment names.
func LoadConfig(path string) (Config, error) {
	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	l := &loader{k: k}
	cfg := Config{
		Env:        l.getString("ENV", "dev"),
		ServerPort: l.getString("SERVER_PORT", "8080"),

		DBDriver:  strings.ToLower(l.getString("DB_DRIVER", DriverSQLite)),
		DBPath:    l.getString("DB_PATH", "board.db"),
		DBHost:    l.getString("DB_HOST", "localhost"),
		DBPort:    l.getString("DB_PORT", "5432"),
		DBUser:    l.getString("DB_USER", "postgres"),
		DBPass:    l.getString("DB_PASSWORD", "password"),
		DBName:    l.getString("DB_NAME", "questionboard"),
		DBSSLMode: l.getString("DB_SSLMODE", "disable"),

		RedisURL: l.getString("REDIS_URL", ""),

		FrontendURLs: splitList(l.getString("FRONTEND_URL", "http://localhost:3000,http://127.0.0.1:3000")),

		SearchStrategy:     strings.ToLower(l.getString("SEARCH_STRATEGY", "fuzzy")),
		SearchThreshold:    l.getFloat("SEARCH_THRESHOLD", 0.4),
		SearchDefaultLimit: l.getInt("SEARCH_DEFAULT_LIMIT", 20),
		SearchMaxLimit:     l.getInt("SEARCH_MAX_LIMIT", 100),

		VoteMaxAmount:   l.getInt("VOTE_MAX_AMOUNT", 100),
		VoteMultipliers: l.getMultipliers("VOTE_BOARD_MULTIPLIERS", map[string]int{"testing": 20}),

		RateLimitWrites: l.getInt("RATE_LIMIT_WRITES", 30),
		RateLimitWindow: l.getDuration("RATE_LIMIT_WINDOW", time.Minute),

		DemoBoard: l.getString("DEMO_BOARD", "demo"),
		SeedDemo:  l.getBool("SEED_DEMO", false),
	}

	if err := errors.Join(append(l.errs, cfg.Validate())...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	if c.ServerPort == "" {
		errs = append(errs, errors.New("SERVER_PORT is required"))
	}
	switch c.DBDriver {
	case DriverSQLite:
		if c.DBPath == "" {
			errs = append(errs, errors.New("DB_PATH is required for sqlite"))
		}
	case DriverPostgres:
		if c.DBHost == "" || c.DBName == "" {
			errs = append(errs, errors.New("DB_HOST and DB_NAME are required for postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverSQLite, DriverPostgres, c.DBDriver))
	}
	if c.SearchStrategy != "fuzzy" && c.SearchStrategy != "storage" {
		errs = append(errs, fmt.Errorf("SEARCH_STRATEGY must be \"fuzzy\" or \"storage\", got %q", c.SearchStrategy))
	}
	if c.SearchThreshold < 0 || c.SearchThreshold > 1 {
		errs = append(errs, fmt.Errorf("SEARCH_THRESHOLD must be within [0, 1], got %v", c.SearchThreshold))
	}
	if c.SearchDefaultLimit <= 0 {
		errs = append(errs, fmt.Errorf("SEARCH_DEFAULT_LIMIT must be > 0, got %d", c.SearchDefaultLimit))
	}
	if c.SearchMaxLimit < c.SearchDefaultLimit {
		errs = append(errs, fmt.Errorf("SEARCH_MAX_LIMIT (%d) must be >= SEARCH_DEFAULT_LIMIT (%d)", c.SearchMaxLimit, c.SearchDefaultLimit))
	}
	if c.VoteMaxAmount <= 0 {
		errs = append(errs, fmt.Errorf("VOTE_MAX_AMOUNT must be > 0, got %d", c.VoteMaxAmount))
	}
	for board, m := range c.VoteMultipliers {
		if m <= 0 {
			errs = append(errs, fmt.Errorf("VOTE_BOARD_MULTIPLIERS: multiplier for %q must be > 0, got %d", board, m))
		}
	}
	if c.RateLimitWrites < 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_WRITES must be >= 0, got %d", c.RateLimitWrites))
	}
	if c.RateLimitWindow <= 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_WINDOW must be > 0, got %s", c.RateLimitWindow))
	}
	if c.DemoBoard == "" {
		errs = append(errs, errors.New("DEMO_BOARD is required"))
	}

	return errors.Join(errs...)
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.DBHost, c.DBUser, c.DBPass, c.DBName, c.DBPort, c.DBSSLMode,
	)
}

type loader struct {
	k    *koanf.Koanf
	errs []error
}

// lookup returns the raw value for key from the environment, then the file.
func (l *loader) lookup(key string) (string, bool) {
	if value, exists := os.LookupEnv(key); exists {
		return value, true
	}
	if path := strings.ToLower(key); l.k.Exists(path) {
		return l.k.String(path), true
	}
	return "", false
}

func (l *loader) getString(key, fallback string) string {
	if value, ok := l.lookup(key); ok {
		return value
	}
	return fallback
}

func (l *loader) getInt(key string, fallback int) int {
	value, ok := l.lookup(key)
	if !ok {
		return fallback
	}
	v, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		l.errs = append(l.errs, fmt.Errorf("%s must be an integer, got %q", key, value))
		return fallback
	}
	return v
}

func (l *loader) getFloat(key string, fallback float64) float64 {
	value, ok := l.lookup(key)
	if !ok {
		return fallback
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		l.errs = append(l.errs, fmt.Errorf("%s must be a number, got %q", key, value))
		return fallback
	}
	return v
}

func (l *loader) getBool(key string, fallback bool) bool {
	value, ok := l.lookup(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off", "":
		return false
	}
	l.errs = append(l.errs, fmt.Errorf("%s must be a boolean, got %q", key, value))
	return fallback
}

func (l *loader) getDuration(key string, fallback time.Duration) time.Duration {
	value, ok := l.lookup(key)
	if !ok {
		return fallback
	}
	v, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		l.errs = append(l.errs, fmt.Errorf("%s must be a duration, got %q", key, value))
		return fallback
	}
	return v
}

// getMultipliers accepts "board:n,board:n" from the environment, or either that
// string or a board -> n mapping from the file.
func (l *loader) getMultipliers(key string, fallback map[string]int) map[string]int {
	if _, exists := os.LookupEnv(key); !exists {
		if path := strings.ToLower(key); l.k.Exists(path) && len(l.k.MapKeys(path)) > 0 {
			return l.k.IntMap(path)
		}
	}

	value, ok := l.lookup(key)
	if !ok {
		return fallback
	}

	out := make(map[string]int)
	for _, pair := range splitList(value) {
		board, raw, found := strings.Cut(pair, ":")
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if !found || strings.TrimSpace(board) == "" || err != nil {
			l.errs = append(l.errs, fmt.Errorf("%s: entry %q must look like board:multiplier", key, pair))
			continue
		}
		out[strings.TrimSpace(board)] = n
	}
	return out
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
