package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

type Config struct {
	Watchlist []string `yaml:"watchlist"`
	Scraper   Scraper  `yaml:"scraper"`
	Scoring   Scoring  `yaml:"scoring"`
	Backtest  Backtest `yaml:"backtest"`
	Output    Output   `yaml:"output"`
	Server    Server   `yaml:"server"`
	Logging   Logging  `yaml:"logging"`
}

type Scraper struct {
	PauseSeconds int    `yaml:"pause_seconds"`
	FeedURL      string `yaml:"feed_url"` // optional RSS fallback, %s for ticker
}

type Scoring struct {
	Endpoint string `yaml:"endpoint"`
}

type Backtest struct {
	BuyThreshold   float64 `yaml:"buy_threshold"`
	SellThreshold  float64 `yaml:"sell_threshold"`
	InitialCapital float64 `yaml:"initial_capital"`
}

type Output struct {
	DataDir string `yaml:"data_dir"`
}

type Server struct {
	Port int `yaml:"port"`
}

type Logging struct {
	Level string `yaml:"level"`
}

// ConfigDir returns the XDG config directory for finlens.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "finlens")
}

// DataDir returns the XDG data directory for finlens.
func DataDir() string {
	return filepath.Join(homeDir(), ".local", "share", "finlens")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/finlens/config.yaml > ./config.yaml
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", fmt.Errorf(
		"no config file found; searched:\n  %s\n  ./config.yaml\n\nRun 'finlens init' to create a default config",
		xdgConfig,
	)
}

// Load reads and parses a config YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

// parse parses YAML bytes into a Config, applying defaults.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		Scraper: Scraper{
			PauseSeconds: 2,
		},
		Scoring: Scoring{
			Endpoint: "http://localhost:8500",
		},
		Backtest: Backtest{
			BuyThreshold:   0.2,
			SellThreshold:  -0.2,
			InitialCapital: 10000,
		},
		Server:  Server{Port: 8000},
		Logging: Logging{Level: "INFO"},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// GetDataDir returns the effective data directory from config or XDG default.
func (c *Config) GetDataDir() string {
	if c.Output.DataDir != "" {
		return c.Output.DataDir
	}
	return DataDir()
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
