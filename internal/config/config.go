// Package config loads server settings from a TOML file and the environment.
package config

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Rules     RulesConfig     `toml:"rules"`
	Scenarios ScenariosConfig `toml:"scenarios"`
	Log       LogConfig       `toml:"log"`
}

type ServerConfig struct {
	Host              string `toml:"host"`
	Port              int    `toml:"port"`
	CORSAllowedOrigin string `toml:"cors_allowed_origin"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

// RulesConfig points at an optional YAML file extending the keyword sets.
type RulesConfig struct {
	KeywordsFile string `toml:"keywords_file"`
}

// ScenariosConfig points at an optional YAML catalog replacing the built-in one.
type ScenariosConfig struct {
	File string `toml:"file"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

const defaultPath = "./threatscope.toml"

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              8080,
			CORSAllowedOrigin: "*",
		},
		Database: DatabaseConfig{Path: "./data/threatscope.db"},
		Log:      LogConfig{Level: "info"},
	}
}

// Load reads path over the defaults, then applies environment overrides.
// With an empty path ./threatscope.toml is used when it exists. An explicit
// path that does not exist is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		if _, err := os.Stat(defaultPath); err == nil {
			path = defaultPath
		}
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Server.Host = getEnv("THREATSCOPE_HOST", c.Server.Host)
	c.Server.CORSAllowedOrigin = getEnv("CORS_ALLOWED_ORIGIN", c.Server.CORSAllowedOrigin)
	c.Database.Path = getEnv("THREATSCOPE_DB_PATH", c.Database.Path)
	c.Rules.KeywordsFile = getEnv("THREATSCOPE_KEYWORDS_FILE", c.Rules.KeywordsFile)
	c.Scenarios.File = getEnv("THREATSCOPE_SCENARIOS_FILE", c.Scenarios.File)
	c.Log.Level = getEnv("THREATSCOPE_LOG_LEVEL", c.Log.Level)

	if port := getEnv("PORT", ""); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", port, err)
		}
		c.Server.Port = p
	}
	return nil
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// SlogLevel maps the configured level name; unknown names mean info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
