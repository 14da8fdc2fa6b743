package main

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/tunaaoguzhann/selfie-relay/core"
)

const (
	modeToken  = "token"
	modeSingle = "single"
)

// config is read once at startup from the environment.
type config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	Port        int    `envconfig:"PORT" default:"8080"`

	// TTLMinutes <= 0 keeps codes until they are replaced or deleted.
	TTLMinutes int    `envconfig:"SELFIE_TTL_MINUTES" default:"30"`
	Tokens     string `envconfig:"SELFIE_TOKENS"`      // comma-separated; empty = any token
	TokensFile string `envconfig:"SELFIE_TOKENS_FILE"` // YAML with a "tokens" list
	Mode       string `envconfig:"SELFIE_MODE" default:"token"`

	RedisAddr      string `envconfig:"REDIS_ADDR"`
	RedisKeyPrefix string `envconfig:"REDIS_KEY_PREFIX" default:"selfie:"`

	CORSOrigins     string        `envconfig:"CORS_ORIGINS" default:"*"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

func loadConfig() (*config, error) {
	var cfg config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return &cfg, nil
}

func (c *config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT %d is out of range [1, 65535]", c.Port)
	}
	switch c.Mode {
	case modeToken, modeSingle:
	default:
		return fmt.Errorf("SELFIE_MODE %q unknown: want token|single", c.Mode)
	}
	return nil
}

func (c *config) TTL() time.Duration {
	if c.TTLMinutes <= 0 {
		return 0
	}
	return time.Duration(c.TTLMinutes) * time.Minute
}

func (c *config) SingleSlot() bool {
	return c.Mode == modeSingle
}

// AllowedTokens merges SELFIE_TOKENS with the tokens file, if any.
func (c *config) AllowedTokens() ([]string, error) {
	tokens := core.ParseAllowlist(c.Tokens)
	if c.TokensFile == "" {
		return tokens, nil
	}
	fromFile, err := loadTokensFile(c.TokensFile)
	if err != nil {
		return nil, err
	}
	return append(tokens, fromFile...), nil
}

type tokensFile struct {
	Tokens []string `yaml:"tokens"`
}

func loadTokensFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tokens file: read %q: %w", path, err)
	}
	var f tokensFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("tokens file: parse yaml: %w", err)
	}
	return f.Tokens, nil
}

func (c *config) options() (core.Options, error) {
	tokens, err := c.AllowedTokens()
	if err != nil {
		return core.Options{}, err
	}
	return core.Options{
		RedisAddr:      c.RedisAddr,
		RedisKeyPrefix: c.RedisKeyPrefix,
		TTL:            c.TTL(),
		Tokens:         tokens,
		SingleSlot:     c.SingleSlot(),
	}, nil
}
