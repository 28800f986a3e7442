// Package config loads the blog server configuration.
//
// Sources are applied in order, later ones winning: built-in defaults, an
// optional YAML file, a .env file (skipped when GO_ENV=production) and the
// process environment.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Environment variable names.
const (
	EnvGoEnv           = "GO_ENV"
	EnvPort            = "PORT"
	EnvStrapiURL       = "STRAPI_GRAPHQL_URL"
	EnvRedisURL        = "REDIS_URL"
	EnvRedisPassword   = "REDIS_PASSWORD"
	EnvCacheTTL        = "CACHE_TTL"
	EnvUserAgent       = "USER_AGENT"
	EnvLogLevel        = "LOG_LEVEL"
	EnvLogPretty       = "LOG_PRETTY"
	EnvCORSOrigins     = "CORS_ORIGINS"
	EnvArticlesPerPage = "ARTICLES_PER_PAGE"
	EnvSiblingCount    = "SIBLING_COUNT"
)

// Config holds all configuration for the blog server.
type Config struct {
	Environment string `yaml:"-"`

	Port             string        `yaml:"port" validate:"required,numeric"`
	StrapiGraphQLURL string        `yaml:"strapi_graphql_url" validate:"required,url"`
	RedisURL         string        `yaml:"redis_url" validate:"omitempty,url"`
	RedisPassword    string        `yaml:"redis_password"`
	CacheTTL         time.Duration `yaml:"cache_ttl" validate:"gte=0"`
	UserAgent        string        `yaml:"user_agent" validate:"required"`

	LogLevel  string `yaml:"log_level" validate:"oneof=debug info warn warning error"`
	LogPretty bool   `yaml:"log_pretty"`

	CORSOrigins []string `yaml:"cors_origins" validate:"dive,required"`

	ArticlesPerPage int `yaml:"articles_per_page" validate:"gte=1,lte=100"`
	SiblingCount    int `yaml:"sibling_count" validate:"gte=0,lte=5"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Environment:      "development",
		Port:             "8080",
		StrapiGraphQLURL: "http://localhost:1337/graphql",
		CacheTTL:         5 * time.Minute,
		UserAgent:        "blog-next-strapi/1.0",
		LogLevel:         "info",
		CORSOrigins:      []string{"*"},
		ArticlesPerPage:  10,
		SiblingCount:     1,
	}
}

// Load builds the configuration from defaults, the YAML file at path (if not
// empty), envFiles (".env" when none are given) and the environment.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Default()

	env := os.Getenv(EnvGoEnv)
	if env == "" {
		env = "development"
	}
	cfg.Environment = env

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	// In production only the real environment counts
	if env != "production" {
		if len(envFiles) == 0 {
			envFiles = []string{".env"}
		}
		if err := godotenv.Load(envFiles...); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("load env files: %w", err)
			}
			log.Debug().Strs("files", envFiles).Msg("No .env file loaded")
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(name); ok && v != "" {
			*dst = v
		}
	}
	integer := func(name string, dst *int) error {
		v, ok := lookup(name)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: invalid integer %q", name, v)
		}
		*dst = n
		return nil
	}

	str(EnvPort, &c.Port)
	str(EnvStrapiURL, &c.StrapiGraphQLURL)
	str(EnvRedisURL, &c.RedisURL)
	str(EnvRedisPassword, &c.RedisPassword)
	str(EnvUserAgent, &c.UserAgent)
	str(EnvLogLevel, &c.LogLevel)

	if v, ok := lookup(EnvCacheTTL); ok && v != "" {
		ttl, err := parseTTL(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvCacheTTL, err)
		}
		c.CacheTTL = ttl
	}

	if v, ok := lookup(EnvLogPretty); ok && v != "" {
		pretty, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: invalid boolean %q", EnvLogPretty, v)
		}
		c.LogPretty = pretty
	}

	if v, ok := lookup(EnvCORSOrigins); ok && v != "" {
		c.CORSOrigins = splitList(v)
	}

	if err := integer(EnvArticlesPerPage, &c.ArticlesPerPage); err != nil {
		return err
	}
	return integer(EnvSiblingCount, &c.SiblingCount)
}

// parseTTL accepts a Go duration ("90s", "5m") or a number of seconds.
func parseTTL(v string) (time.Duration, error) {
	v = strings.TrimSpace(v)
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", v)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, ", "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Addr returns the listen address for Port.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// RedisOptions returns the go-redis options for RedisURL, or nil when no
// Redis is configured. REDIS_PASSWORD overrides a password in the URL.
func (c *Config) RedisOptions() (*redis.Options, error) {
	if c.RedisURL == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(c.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if c.RedisPassword != "" {
		opts.Password = c.RedisPassword
	}
	return opts, nil
}
