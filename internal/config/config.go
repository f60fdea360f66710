// ABOUTME: fitlog configuration: JSON file at the XDG config path plus FITLOG_* overrides.
// ABOUTME: Also resolves the data directory and opens the SQLite store.

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/fitlog/internal/autosave"
	"github.com/harperreed/fitlog/internal/logging"
	"github.com/harperreed/fitlog/internal/storage"
	"github.com/joho/godotenv"
)

// DefaultAddr is where `fitlog serve` listens when nothing is configured.
const DefaultAddr = "127.0.0.1:8080"

// Config stores fitlog configuration.
type Config struct {
	// DataDir is the root directory for data storage; fitlog.db lives here.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/fitlog.
	DataDir string `json:"data_dir,omitempty"`

	// UserID is the profile the CLI and MCP server act as.
	UserID string `json:"user_id,omitempty"`

	// AutosaveDelayMs is the debounce window for workout edits.
	AutosaveDelayMs int `json:"autosave_delay_ms,omitempty"`

	Server ServerConfig `json:"server"`
	Log    LogConfig    `json:"log"`
}

// ServerConfig configures `fitlog serve`.
type ServerConfig struct {
	Addr           string   `json:"addr,omitempty"`
	JWTSecret      string   `json:"jwt_secret,omitempty"`
	AllowedOrigins []string `json:"allowed_origins,omitempty"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level  string `json:"level,omitempty"`
	Format string `json:"format,omitempty"`
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetDBPath returns the SQLite database path.
func (c *Config) GetDBPath() string {
	return filepath.Join(c.GetDataDir(), "fitlog.db")
}

// GetAddr returns the API listen address.
func (c *Config) GetAddr() string {
	if c.Server.Addr == "" {
		return DefaultAddr
	}
	return c.Server.Addr
}

// AutosaveDelay returns the debounce window for workout edits.
func (c *Config) AutosaveDelay() time.Duration {
	if c.AutosaveDelayMs <= 0 {
		return autosave.DefaultDelay
	}
	return time.Duration(c.AutosaveDelayMs) * time.Millisecond
}

// CurrentUser parses UserID. ok is false when no user is configured.
func (c *Config) CurrentUser() (id uuid.UUID, ok bool, err error) {
	if c.UserID == "" {
		return uuid.Nil, false, nil
	}
	id, err = uuid.Parse(c.UserID)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("invalid user_id in config: %w", err)
	}
	return id, true, nil
}

// Logging returns the logger settings.
func (c *Config) Logging() logging.Config {
	return logging.Config{Level: c.Log.Level, Format: c.Log.Format}
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStorage opens the SQLite store in the data directory.
func (c *Config) OpenStorage() (*storage.DB, error) {
	return storage.Open(c.GetDBPath())
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "fitlog", "config.json")
}

// Load reads config from disk and applies environment overrides.
func Load() (*Config, error) {
	cfg, err := loadFile(GetConfigPath())
	if err != nil {
		return nil, err
	}
	if err := cfg.LoadEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadEnv reads an optional .env file from the working directory, then
// overlays any FITLOG_* variables onto c.
func (c *Config) LoadEnv() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load .env: %w", err)
	}

	c.DataDir = getEnv("FITLOG_DATA_DIR", c.DataDir)
	c.UserID = getEnv("FITLOG_USER_ID", c.UserID)
	c.Server.Addr = getEnv("FITLOG_ADDR", c.Server.Addr)
	c.Server.JWTSecret = getEnv("FITLOG_JWT_SECRET", c.Server.JWTSecret)
	c.Log.Level = getEnv("FITLOG_LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("FITLOG_LOG_FORMAT", c.Log.Format)

	if origins := os.Getenv("FITLOG_ALLOWED_ORIGINS"); origins != "" {
		c.Server.AllowedOrigins = nil
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				c.Server.AllowedOrigins = append(c.Server.AllowedOrigins, o)
			}
		}
	}
	if v := os.Getenv("FITLOG_AUTOSAVE_DELAY_MS"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("FITLOG_AUTOSAVE_DELAY_MS: %w", err)
		}
		c.AutosaveDelayMs = ms
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
