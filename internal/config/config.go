// ABOUTME: Configuration loader for the campus-events client
// ABOUTME: Layers environment variables (and .env) over a TOML file over defaults

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	DefaultAPIURL  = "http://localhost:8080"
	DefaultTimeout = 30 // seconds

	appDirName     = "campus-events"
	configFileName = "config.toml"
)

type Config struct {
	APIURL  string    `toml:"api_url"`
	Timeout int       `toml:"timeout"`  // seconds per request
	DataDir string    `toml:"data_dir"` // local storage and debug log
	Dedupe  bool      `toml:"dedupe"`   // share identical in-flight GETs
	Log     LogConfig `toml:"log"`

	DevServer DevServerConfig `toml:"devserver"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// DevServerConfig configures the in-memory API served by `campus-events devserver`
type DevServerConfig struct {
	Addr      string `toml:"addr"`
	JWTSecret string `toml:"jwt_secret"`
	RateLimit int    `toml:"rate_limit"` // requests per minute per client, 0 disables
	Seed      bool   `toml:"seed"`
	// SecureCookies marks the session cookie Secure, as the production server does
	SecureCookies bool `toml:"secure_cookies"`
}

func defaultConfig() *Config {
	return &Config{
		APIURL:  DefaultAPIURL,
		Timeout: DefaultTimeout,
		DataDir: DefaultConfigDir(),
		Dedupe:  true,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		DevServer: DevServerConfig{
			Addr:          ":8080",
			JWTSecret:     "campus-events-dev-secret",
			RateLimit:     300,
			Seed:          true,
			SecureCookies: true,
		},
	}
}

// Load builds the configuration.
// configPath empty means the default location, which may be absent.
// envFile empty means ".env" in the working directory, which may be absent.
func Load(configPath, envFile string) (*Config, error) {
	if err := loadEnvFile(envFile); err != nil {
		return nil, err
	}

	cfg := defaultConfig()

	explicit := configPath != ""
	if !explicit {
		configPath = DefaultConfigPath()
	}
	if configPath != "" {
		if _, err := toml.DecodeFile(configPath, cfg); err != nil {
			if !errors.Is(err, fs.ErrNotExist) || explicit {
				return nil, fmt.Errorf("failed to decode config file: %w", err)
			}
		}
	}

	cfg.APIURL = getEnv("CAMPUS_EVENTS_API_URL", cfg.APIURL)
	cfg.Timeout = getEnvInt("CAMPUS_EVENTS_TIMEOUT", cfg.Timeout)
	cfg.DataDir = getEnv("CAMPUS_EVENTS_DATA_DIR", cfg.DataDir)
	cfg.Dedupe = getEnvBool("CAMPUS_EVENTS_DEDUPE", cfg.Dedupe)
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LOG_FORMAT", cfg.Log.Format)
	cfg.DevServer.Addr = getEnv("CAMPUS_EVENTS_DEVSERVER_ADDR", cfg.DevServer.Addr)
	cfg.DevServer.JWTSecret = getEnv("CAMPUS_EVENTS_JWT_SECRET", cfg.DevServer.JWTSecret)
	cfg.DevServer.RateLimit = getEnvInt("CAMPUS_EVENTS_RATE_LIMIT", cfg.DevServer.RateLimit)
	cfg.DevServer.SecureCookies = getEnvBool("CAMPUS_EVENTS_SECURE_COOKIES", cfg.DevServer.SecureCookies)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.APIURL = NormalizeAPIURL(cfg.APIURL)

	return cfg, nil
}

// Validate checks field ranges and the API URL.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api_url must be an absolute URL, got %q", c.APIURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api_url scheme must be http or https, got %q", u.Scheme)
	}
	if c.Timeout < 1 || c.Timeout > 600 {
		return fmt.Errorf("timeout must be between 1 and 600 seconds, got %d", c.Timeout)
	}
	if c.DevServer.RateLimit < 0 || c.DevServer.RateLimit > 10000 {
		return fmt.Errorf("devserver rate_limit must be between 0 and 10000, got %d", c.DevServer.RateLimit)
	}
	return nil
}

// NormalizeAPIURL strips a trailing slash and a trailing /api segment, so
// both "http://host:8080" and "http://host:8080/api" address the same API.
func NormalizeAPIURL(raw string) string {
	u := strings.TrimRight(strings.TrimSpace(raw), "/")
	u = strings.TrimSuffix(u, "/api")
	return strings.TrimRight(u, "/")
}

// DefaultConfigDir returns the config directory following XDG spec
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appDirName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appDirName)
}

// DefaultConfigPath returns the path of config.toml in the config directory
func DefaultConfigPath() string {
	dir := DefaultConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, configFileName)
}

func loadEnvFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = ".env"
	}
	// godotenv never overrides variables that are already set
	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
