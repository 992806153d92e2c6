package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog"
)

type SystemConfig struct {
	DataDirectory string `toml:"data_directory"`
}

type RepositoryConfig struct {
	// Backend is "rest" for a remote content repository or "local" for the
	// sqlite store in the data directory.
	Backend      string `toml:"backend"`
	BaseURL      string `toml:"base_url"`
	Username     string `toml:"username"`
	Password     string `toml:"password,omitempty"`
	LanguageCode string `toml:"language_code"`
}

type EditorConfig struct {
	ParentLocationID      int    `toml:"parent_location_id"`
	ContentTypeIdentifier string `toml:"content_type_identifier"`
	// NotificationTimeout is the delay (seconds) before the notification of
	// a successful save is dismissed.
	NotificationTimeout int `toml:"notification_timeout"`
}

type UserConfig struct {
	Repository RepositoryConfig `toml:"repository"`
	Editor     EditorConfig     `toml:"editor"`
}

type Config struct {
	DataDirectory         string
	Backend               string
	BaseURL               string
	Username              string
	Password              string
	LanguageCode          string
	ParentLocationID      int
	ContentTypeIdentifier string
	NotificationTimeout   int
}

var Debug = false
var DebugLog *zerolog.Logger

const (
	BackendREST  = "rest"
	BackendLocal = "local"
)

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

func (c *Config) applyEnvOverrides() {
	if url := os.Getenv("DRAFTUI_REPOSITORY_URL"); url != "" {
		c.BaseURL = url
		c.Backend = BackendREST
	}
	if lang := os.Getenv("DRAFTUI_LANGUAGE"); lang != "" {
		c.LanguageCode = lang
	}
	if dataDir := os.Getenv("DRAFTUI_DATA_DIR"); dataDir != "" {
		c.DataDirectory = dataDir
	}
	if parent := os.Getenv("DRAFTUI_PARENT_LOCATION"); parent != "" {
		if id, err := strconv.Atoi(parent); err == nil {
			c.ParentLocationID = id
		}
	}
}

func CheckDebug() bool {
	debug := os.Getenv("DRAFTUI_DEBUG")
	return debug == "true" || debug == "1"
}

func InitDebugLog(dataDir string) {
	if !CheckDebug() {
		return
	}

	Debug = true
	logPath := filepath.Join(dataDir, "debug.log")

	// 0600: requests and field values end up in the log
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}

	logger := zerolog.New(zerolog.SyncWriter(f)).With().Timestamp().Caller().Logger().Level(zerolog.DebugLevel)
	DebugLog = &logger
	DebugLog.Info().Str("DRAFTUI_DEBUG", os.Getenv("DRAFTUI_DEBUG")).Msg("=== Debug logging started ===")
	DebugLog.Info().Str("path", logPath).Msg("log path")
}

// Load reads settings.toml and the user config of the data directory it
// points to, then applies environment overrides.
func Load() (*Config, error) {
	defaults := DefaultUserConfig()
	cfg := &Config{
		DataDirectory:         DefaultSystemConfig().DataDirectory,
		Backend:               defaults.Repository.Backend,
		BaseURL:               defaults.Repository.BaseURL,
		LanguageCode:          defaults.Repository.LanguageCode,
		ParentLocationID:      defaults.Editor.ParentLocationID,
		ContentTypeIdentifier: defaults.Editor.ContentTypeIdentifier,
		NotificationTimeout:   defaults.Editor.NotificationTimeout,
	}

	if dataDir := os.Getenv("DRAFTUI_DATA_DIR"); dataDir == "" {
		systemCfg, err := LoadSystemConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to load system config: %w", err)
		}
		cfg.DataDirectory = systemCfg.DataDirectory
	} else {
		cfg.DataDirectory = dataDir
	}

	dataDir := cfg.DataDir()
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	userCfg, err := LoadUserConfig(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}
	cfg.apply(userCfg)
	cfg.applyEnvOverrides()

	if cfg.Backend == BackendREST && cfg.Password == "" {
		creds, err := LoadCredentials(dataDir)
		if err != nil {
			return nil, fmt.Errorf("failed to load credentials: %w", err)
		}
		cfg.Password = creds.Get(cfg.BaseURL)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Ensure data directory has correct permissions (fix if needed)
	if err := EnsureDataDirPermissions(cfg.DataDir()); err != nil {
		return nil, fmt.Errorf("failed to set data directory permissions: %w", err)
	}

	return cfg, nil
}

func (c *Config) apply(u *UserConfig) {
	if u.Repository.Backend != "" {
		c.Backend = u.Repository.Backend
	}
	if u.Repository.BaseURL != "" {
		c.BaseURL = u.Repository.BaseURL
	}
	c.Username = u.Repository.Username
	c.Password = u.Repository.Password
	if u.Repository.LanguageCode != "" {
		c.LanguageCode = u.Repository.LanguageCode
	}
	if u.Editor.ParentLocationID != 0 {
		c.ParentLocationID = u.Editor.ParentLocationID
	}
	if u.Editor.ContentTypeIdentifier != "" {
		c.ContentTypeIdentifier = u.Editor.ContentTypeIdentifier
	}
	if u.Editor.NotificationTimeout != 0 {
		c.NotificationTimeout = u.Editor.NotificationTimeout
	}
}

// Validate checks the merged configuration.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendLocal:
	case BackendREST:
		if c.BaseURL == "" {
			return fmt.Errorf("repository base_url is required for the rest backend")
		}
	default:
		return fmt.Errorf("unknown repository backend %q", c.Backend)
	}
	if c.LanguageCode == "" {
		return fmt.Errorf("repository language_code cannot be empty")
	}
	if c.NotificationTimeout < 0 {
		return fmt.Errorf("editor notification_timeout cannot be negative")
	}
	return nil
}
