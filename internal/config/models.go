// Package config manages wmgrd's persisted configuration: which
// control-plane transport to run, where it listens, and log verbosity.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config is the daemon's runtime configuration.
type Config struct {
	Transport  string `json:"transport" mapstructure:"transport"`     // "stdio" or "http"
	ListenAddr string `json:"listen_addr" mapstructure:"listen_addr"` // httpapi bind address
	LogLevel   string `json:"log_level" mapstructure:"log_level"`
	LogPretty  bool   `json:"log_pretty" mapstructure:"log_pretty"`
}

func defaultConfig() Config {
	return Config{
		Transport:  "stdio",
		ListenAddr: "127.0.0.1:7890",
		LogLevel:   "info",
		LogPretty:  false,
	}
}

// Manager loads, persists, and live-reloads the daemon configuration via
// viper, the same library the teacher CLI binds its flags through.
type Manager struct {
	v          *viper.Viper
	configPath string
	onChange   func(Config)
}

// NewManager loads configuration from configPath (or the default
// $HOME/.config/wmgrd/config.yaml when empty), creating it with defaults
// if it does not yet exist.
func NewManager(configPath string) (*Manager, error) {
	v := viper.New()
	def := defaultConfig()
	v.SetDefault("transport", def.Transport)
	v.SetDefault("listen_addr", def.ListenAddr)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("log_pretty", def.LogPretty)

	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		dir := filepath.Join(home, ".config", "wmgrd")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}
		configPath = filepath.Join(dir, "config.yaml")
	}

	v.SetConfigFile(configPath)
	m := &Manager{v: v, configPath: configPath}

	if _, err := os.Stat(configPath); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else {
		if err := m.Save(def); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Get returns the currently loaded configuration.
func (m *Manager) Get() Config {
	var c Config
	c.Transport = m.v.GetString("transport")
	c.ListenAddr = m.v.GetString("listen_addr")
	c.LogLevel = m.v.GetString("log_level")
	c.LogPretty = m.v.GetBool("log_pretty")
	return c
}

// Save writes cfg to disk as the new persisted configuration.
func (m *Manager) Save(cfg Config) error {
	m.v.Set("transport", cfg.Transport)
	m.v.Set("listen_addr", cfg.ListenAddr)
	m.v.Set("log_level", cfg.LogLevel)
	m.v.Set("log_pretty", cfg.LogPretty)
	return m.v.WriteConfigAs(m.configPath)
}

// ConfigPath returns the file this manager persists to.
func (m *Manager) ConfigPath() string { return m.configPath }

// WatchLogLevel live-reloads the log level whenever the config file changes
// on disk, without requiring a daemon restart. onChange is invoked with the
// freshly-reloaded configuration.
func (m *Manager) WatchLogLevel(onChange func(Config)) {
	m.onChange = onChange
	m.v.OnConfigChange(func(_ fsnotify.Event) {
		if m.onChange != nil {
			m.onChange(m.Get())
		}
	})
	m.v.WatchConfig()
}
