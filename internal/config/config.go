package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	DBPath     string `json:"db_path" toml:"db_path"`
	WebEnabled bool   `json:"web_enabled" toml:"web_enabled"`
	WebPort    int    `json:"web_port" toml:"web_port"`
	Locale     string `json:"locale" toml:"locale"`
	StorageKey string `json:"storage_key" toml:"storage_key"`
	LogLevel   string `json:"log_level" toml:"log_level"`
	LogPath    string `json:"log_path,omitempty" toml:"log_path,omitempty"`
}

func Default() Config {
	return Config{
		WebPort:    8080,
		Locale:     "fr",
		StorageKey: "tasks",
		LogLevel:   "info",
	}
}

func DefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "mestaches", "config.json"), nil
}

func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}

// Load reads a JSON config, or TOML when the path ends in .toml. A missing
// file yields the defaults.
func Load(path string) (Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return Config{}, err
	}

	if isTOML(path) {
		if _, err := toml.Decode(string(data), &config); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
		return config, nil
	}

	if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return config, nil
}

func Save(path string, cfg Config) error {
	if err := EnsureDir(path); err != nil {
		return err
	}

	var data []byte
	if isTOML(path) {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return err
		}
		data = buf.Bytes()
	} else {
		encoded, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return err
		}
		data = encoded
	}

	return os.WriteFile(path, data, 0o644)
}

// ApplyEnv overrides fields from MESTACHES_* environment variables.
func ApplyEnv(cfg *Config, getenv func(string) string) error {
	if getenv == nil {
		getenv = os.Getenv
	}

	if v := getenv("MESTACHES_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := getenv("MESTACHES_WEB_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MESTACHES_WEB_PORT: %w", err)
		}
		cfg.WebPort = port
	}
	if v := getenv("MESTACHES_WEB"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("MESTACHES_WEB: %w", err)
		}
		cfg.WebEnabled = enabled
	}
	if v := getenv("MESTACHES_LOCALE"); v != "" {
		cfg.Locale = v
	}
	if v := getenv("MESTACHES_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := getenv("MESTACHES_LOG"); v != "" {
		cfg.LogPath = v
	}
	return nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}
