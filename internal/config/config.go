package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// GlobalFlags carries raw flag values before they are merged with file and
// env configuration. Precedence: flag > env > file > default.
type GlobalFlags struct {
	ConfigPath    string
	JSON          bool
	Plain         bool
	Chain         string
	ExecutorsPath string
	NoStore       bool
}

type Settings struct {
	OutputMode    string
	Chain         string
	ExecutorsPath string
	StoreEnabled  bool
	StorePath     string
	StoreLockPath string
}

type fileConfig struct {
	Output    string `yaml:"output"`
	Chain     string `yaml:"chain"`
	Executors string `yaml:"executors"`
	Store     struct {
		Enabled  *bool  `yaml:"enabled"`
		Path     string `yaml:"path"`
		LockPath string `yaml:"lock_path"`
	} `yaml:"store"`
}

func Load(flags GlobalFlags) (Settings, error) {
	settings, err := defaultSettings()
	if err != nil {
		return Settings{}, err
	}

	cfgPath, err := resolveConfigPath(flags.ConfigPath)
	if err != nil {
		return Settings{}, err
	}
	if err := applyFileConfig(cfgPath, &settings); err != nil {
		return Settings{}, err
	}

	applyEnv(&settings)
	applyFlags(flags, &settings)

	if settings.OutputMode != "json" && settings.OutputMode != "plain" {
		return Settings{}, fmt.Errorf("output mode must be json or plain, got %q", settings.OutputMode)
	}
	return settings, nil
}

func defaultSettings() (Settings, error) {
	storePath, lockPath, err := defaultStorePaths()
	if err != nil {
		return Settings{}, err
	}
	return Settings{
		OutputMode:    "json",
		Chain:         "ethereum",
		StoreEnabled:  true,
		StorePath:     storePath,
		StoreLockPath: lockPath,
	}, nil
}

func resolveConfigPath(input string) (string, error) {
	if strings.TrimSpace(input) != "" {
		return input, nil
	}
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "swapencode", "config.yaml"), nil
}

func defaultStorePaths() (string, string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", "", err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, "swapencode")
	return filepath.Join(dir, "encodes.db"), filepath.Join(dir, "encodes.lock"), nil
}

func applyFileConfig(path string, settings *Settings) error {
	buf, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}

	var cfg fileConfig
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return fmt.Errorf("parse config yaml: %w", err)
	}

	if cfg.Output != "" {
		settings.OutputMode = strings.ToLower(cfg.Output)
	}
	if cfg.Chain != "" {
		settings.Chain = strings.ToLower(cfg.Chain)
	}
	if cfg.Executors != "" {
		settings.ExecutorsPath = cfg.Executors
	}
	if cfg.Store.Enabled != nil {
		settings.StoreEnabled = *cfg.Store.Enabled
	}
	if cfg.Store.Path != "" {
		settings.StorePath = cfg.Store.Path
	}
	if cfg.Store.LockPath != "" {
		settings.StoreLockPath = cfg.Store.LockPath
	}
	return nil
}

func applyEnv(settings *Settings) {
	if v := os.Getenv("SWAPENCODE_OUTPUT"); v != "" {
		settings.OutputMode = strings.ToLower(v)
	}
	if v := os.Getenv("SWAPENCODE_CHAIN"); v != "" {
		settings.Chain = strings.ToLower(v)
	}
	if v := os.Getenv("SWAPENCODE_EXECUTORS"); v != "" {
		settings.ExecutorsPath = v
	}
	if v := os.Getenv("SWAPENCODE_STORE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			settings.StoreEnabled = b
		}
	}
	if v := os.Getenv("SWAPENCODE_STORE_PATH"); v != "" {
		settings.StorePath = v
	}
	if v := os.Getenv("SWAPENCODE_STORE_LOCK_PATH"); v != "" {
		settings.StoreLockPath = v
	}
}

func applyFlags(flags GlobalFlags, settings *Settings) {
	if flags.JSON {
		settings.OutputMode = "json"
	}
	if flags.Plain {
		settings.OutputMode = "plain"
	}
	if strings.TrimSpace(flags.Chain) != "" {
		settings.Chain = strings.ToLower(strings.TrimSpace(flags.Chain))
	}
	if strings.TrimSpace(flags.ExecutorsPath) != "" {
		settings.ExecutorsPath = flags.ExecutorsPath
	}
	if flags.NoStore {
		settings.StoreEnabled = false
	}
}
