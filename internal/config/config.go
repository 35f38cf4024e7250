// Package config loads server settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config is the server configuration. Empty RedisAddr, DatabaseURL or
// JWTSecret switch the matching feature off.
type Config struct {
	HTTPAddr       string        `mapstructure:"HTTP_ADDR"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`
	RedisAddr      string        `mapstructure:"REDIS_ADDR"`
	DatabaseURL    string        `mapstructure:"DATABASE_URL"`
	JWTSecret      string        `mapstructure:"JWT_SECRET"`
	WriteTimeout   time.Duration `mapstructure:"WRITE_TIMEOUT"`
	DealAttempts   int           `mapstructure:"DEAL_ATTEMPTS"`
	AllowDebug     bool          `mapstructure:"ALLOW_DEBUG"`
	OriginPatterns string        `mapstructure:"ORIGIN_PATTERNS"`
}

var defaults = map[string]any{
	"HTTP_ADDR":       ":8080",
	"LOG_LEVEL":       "info",
	"REDIS_ADDR":      "",
	"DATABASE_URL":    "",
	"JWT_SECRET":      "",
	"WRITE_TIMEOUT":   "5s",
	"DEAL_ATTEMPTS":   100,
	"ALLOW_DEBUG":     false,
	"ORIGIN_PATTERNS": "",
}

// Load reads envFile (ignored when missing) and then the process
// environment, which wins.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if cfg.DealAttempts <= 0 {
		return nil, errors.New("DEAL_ATTEMPTS must be positive")
	}
	return &cfg, nil
}

// Origins splits ORIGIN_PATTERNS on commas.
func (c *Config) Origins() []string {
	var out []string
	for _, p := range strings.Split(c.OriginPatterns, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// InitLog sets the global logrus level and format.
func (c *Config) InitLog() {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		log.Warnf("unknown LOG_LEVEL %q, using info", c.LogLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
}
