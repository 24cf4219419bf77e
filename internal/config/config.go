package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hejijunhao/copilotlog/internal/logging"
)

// appName names the per-user configuration and storage directory.
const appName = "copilotlog"

// Config holds all copilotlog configuration. It is resolved once at startup
// and passed explicitly to the components that need it.
type Config struct {
	StorageDir string   `yaml:"storageDir"` // directory holding copilot-log.txt
	LogLevel   string   `yaml:"logLevel"`   // "debug", "info", "warn", "error"
	Sources    []string `yaml:"sources"`    // registered source names, e.g. "stream", "fswatch"
	WatchDir   string   `yaml:"watchDir"`   // root for the fswatch source
	Viewer     string   `yaml:"viewer"`     // command used by "open"; empty uses $VISUAL/$EDITOR
	Echo       bool     `yaml:"echo"`       // also print records to stdout
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		StorageDir: DefaultStorageDir(),
		LogLevel:   "info",
		Sources:    []string{"stream"},
		WatchDir:   ".",
	}
}

// Load builds the configuration from defaults, an optional YAML file and
// COPILOTLOG_* environment variables, in increasing precedence.
// An empty path means DefaultConfigPath, which may be absent.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	cfg.StorageDir = getenv("COPILOTLOG_STORAGE_DIR", cfg.StorageDir)
	cfg.LogLevel = getenv("COPILOTLOG_LOG_LEVEL", cfg.LogLevel)
	cfg.Sources = getenvList("COPILOTLOG_SOURCES", cfg.Sources)
	cfg.WatchDir = getenv("COPILOTLOG_WATCH_DIR", cfg.WatchDir)
	cfg.Viewer = getenv("COPILOTLOG_VIEWER", cfg.Viewer)
	cfg.Echo = getenvBool("COPILOTLOG_ECHO", cfg.Echo)
	return cfg, nil
}

// Validate checks the configuration for invalid values.
// Returns all errors found (not just the first) via errors.Join.
func (c Config) Validate() error {
	var errs []error

	if c.StorageDir == "" {
		errs = append(errs, errors.New("storage directory must not be empty (COPILOTLOG_STORAGE_DIR)"))
	}
	if _, ok := logging.Levels[strings.ToLower(c.LogLevel)]; !ok {
		errs = append(errs, fmt.Errorf("log level must be one of debug, info, warn, error; got %q", c.LogLevel))
	}
	if len(c.Sources) == 0 {
		errs = append(errs, errors.New("at least one source is required (COPILOTLOG_SOURCES)"))
	}
	for _, s := range c.Sources {
		if s == "fswatch" {
			info, err := os.Stat(c.WatchDir)
			if err != nil || !info.IsDir() {
				errs = append(errs, fmt.Errorf("watch directory not found: %s", c.WatchDir))
			}
		}
	}

	return errors.Join(errs...)
}

// DefaultStorageDir returns the per-user storage directory.
func DefaultStorageDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appName)
	}
	return filepath.Join(dir, appName)
}

// DefaultConfigPath returns the location of the optional config file.
func DefaultConfigPath() string {
	if path := os.Getenv("COPILOTLOG_CONFIG"); path != "" {
		return path
	}
	return filepath.Join(DefaultStorageDir(), "config.yaml")
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

// getenvList reads a comma-separated list, dropping empty items.
func getenvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
