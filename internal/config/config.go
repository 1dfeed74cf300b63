package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// Config holds the unified application configuration.
type Config struct {
	NotesAPI    string `json:"notes_api"`
	ShippingAPI string `json:"shipping_api"`
	Token       string `json:"token,omitempty"`
	LabelDir    string `json:"label_dir"`
}

// Settings represents the config file structure.
type Settings struct {
	NotesAPI    string `json:"notes_api,omitempty"`
	ShippingAPI string `json:"shipping_api,omitempty"`
	Token       string `json:"token,omitempty"`
	LabelDir    string `json:"label_dir,omitempty"`
}

// CLIFlags holds parsed CLI flags.
type CLIFlags struct {
	NotesAPI    string
	ShippingAPI string
	LabelDir    string
}

const (
	defaultNotesAPI    = "http://localhost:3000"
	defaultShippingAPI = "http://localhost:8001/api/v1"
)

// Load loads configuration with priority: CLI flags > env vars > config
// file > defaults. The bearer token is obtained out-of-band; it is only
// ever read here, never requested.
func Load(flags CLIFlags) (*Config, error) {
	cfg := &Config{
		NotesAPI:    defaultNotesAPI,
		ShippingAPI: defaultShippingAPI,
	}

	// Try loading config file first for base values
	configPath, err := getConfigPath()
	if err == nil {
		if fileConfig, err := loadConfigFile(configPath); err == nil {
			if fileConfig.NotesAPI != "" {
				cfg.NotesAPI = fileConfig.NotesAPI
			}
			if fileConfig.ShippingAPI != "" {
				cfg.ShippingAPI = fileConfig.ShippingAPI
			}
			if fileConfig.Token != "" {
				cfg.Token = fileConfig.Token
			}
			if fileConfig.LabelDir != "" {
				cfg.LabelDir = expandPath(fileConfig.LabelDir)
			}
		}
	}

	// Priority 2: Environment variables override config file
	if v := os.Getenv("SHIPNOTE_NOTES_API"); v != "" {
		cfg.NotesAPI = v
	}
	if v := os.Getenv("SHIPNOTE_SHIPPING_API"); v != "" {
		cfg.ShippingAPI = v
	}
	if v := os.Getenv("SHIPNOTE_TOKEN"); v != "" {
		cfg.Token = v
	}
	if v := os.Getenv("SHIPNOTE_LABEL_DIR"); v != "" {
		cfg.LabelDir = expandPath(v)
	}

	// Priority 1: CLI flags override everything
	if flags.NotesAPI != "" {
		cfg.NotesAPI = flags.NotesAPI
	}
	if flags.ShippingAPI != "" {
		cfg.ShippingAPI = flags.ShippingAPI
	}
	if flags.LabelDir != "" {
		cfg.LabelDir = expandPath(flags.LabelDir)
	}

	if cfg.LabelDir == "" {
		defaultDir, err := GetDefaultLabelDir()
		if err != nil {
			return nil, err
		}
		cfg.LabelDir = defaultDir
	}

	return cfg, nil
}

// GetDefaultLabelDir returns the default label download directory.
func GetDefaultLabelDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, "shipnote", "labels"), nil
}

// getConfigPath returns the path to the configuration file.
func getConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "shipnote", "config.json"), nil
}

// loadConfigFile loads configuration from the settings file.
func loadConfigFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, err
	}

	return &settings, nil
}

// EnsureLabelDir ensures the label download directory exists.
func (c *Config) EnsureLabelDir() error {
	return os.MkdirAll(c.LabelDir, 0755)
}

// EnsureConfigFile creates the config file with defaults if it doesn't exist.
func EnsureConfigFile() error {
	configPath, err := getConfigPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(configPath); err == nil {
		return nil
	}

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}

	labelDir, err := GetDefaultLabelDir()
	if err != nil {
		return err
	}

	settings := Settings{
		NotesAPI:    defaultNotesAPI,
		ShippingAPI: defaultShippingAPI,
		LabelDir:    labelDir,
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(homeDir, path[2:])
	}
	return path
}
