package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DotEnvFile is the file LoadDotEnv reads when no path is given.
const DotEnvFile = ".env"

type Config struct {
	APIURL         string        // SANKALP_API_URL (required for backend commands)
	Timeout        time.Duration // SANKALP_TIMEOUT (default 18s)
	StateDir       string        // SANKALP_STATE_DIR (default ~/.local/state/sankalp)
	NATSURL        string        // SANKALP_NATS_URL (optional, empty = no events)
	LogLevel       slog.Level    // SANKALP_LOG_LEVEL (default info)
	PersistSession bool          // SANKALP_PERSIST_SESSION (default true)
}

// ErrNoAPIURL is returned by RequireAPIURL when no backend is configured.
var ErrNoAPIURL = errors.New("SANKALP_API_URL is required")

// LoadDotEnv loads variables from a .env file into the environment without
// overriding ones already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = DotEnvFile
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("checking %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

func Load() (*Config, error) {
	c := &Config{
		APIURL:   strings.TrimSpace(os.Getenv("SANKALP_API_URL")),
		StateDir: os.Getenv("SANKALP_STATE_DIR"),
		NATSURL:  os.Getenv("SANKALP_NATS_URL"),
	}

	if c.StateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home directory: %w", err)
		}
		c.StateDir = filepath.Join(home, ".local", "state", "sankalp")
	}

	timeout, err := time.ParseDuration(envOrDefault("SANKALP_TIMEOUT", "18s"))
	if err != nil {
		return nil, fmt.Errorf("SANKALP_TIMEOUT: %w", err)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("SANKALP_TIMEOUT: must be positive, got %s", timeout)
	}
	c.Timeout = timeout

	if err := c.LogLevel.UnmarshalText([]byte(envOrDefault("SANKALP_LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("SANKALP_LOG_LEVEL: %w", err)
	}

	persist, err := strconv.ParseBool(envOrDefault("SANKALP_PERSIST_SESSION", "true"))
	if err != nil {
		return nil, fmt.Errorf("SANKALP_PERSIST_SESSION: %w", err)
	}
	c.PersistSession = persist

	return c, nil
}

// RequireAPIURL checks that a usable backend URL is configured.
func (c *Config) RequireAPIURL() error {
	if c.APIURL == "" {
		return ErrNoAPIURL
	}
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("SANKALP_API_URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("SANKALP_API_URL: expected an http(s) URL, got %q", c.APIURL)
	}
	return nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
