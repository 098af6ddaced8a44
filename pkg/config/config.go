// Package config loads the server configuration from a YAML file with
// environment overrides for secrets.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"maiscore/pkg/logger"
)

// Duration is a time.Duration that unmarshals from "30s" style YAML values.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std converts back to a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config holds all server configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Sources SourcesConfig `yaml:"sources"`
	Catalog CatalogConfig `yaml:"catalog"`
	Assets  AssetsConfig  `yaml:"assets"`
	Logging logger.Config `yaml:"logging"`
}

// ServerConfig contains HTTP listener settings
type ServerConfig struct {
	Host            string   `yaml:"host"`
	Port            int      `yaml:"port"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
}

// SourcesConfig contains upstream score-service settings
type SourcesConfig struct {
	DivingFish DivingFishConfig `yaml:"divingfish"`
	Lxns       LxnsConfig       `yaml:"lxns"`
}

// DivingFishConfig for the public-username prober
type DivingFishConfig struct {
	BaseURL string   `yaml:"base_url"`
	Timeout Duration `yaml:"timeout"`
}

// LxnsConfig for the linked-account prober
type LxnsConfig struct {
	BaseURL string   `yaml:"base_url"`
	Secret  string   `yaml:"secret"` // overridden by LXNS_API_SECRET
	Timeout Duration `yaml:"timeout"`
}

// CatalogConfig for the song-list cache
type CatalogConfig struct {
	URL    string   `yaml:"url"`
	Path   string   `yaml:"path"`
	Expiry Duration `yaml:"expiry"`
}

// AssetsConfig for the local asset cache
type AssetsConfig struct {
	BaseURL     string  `yaml:"base_url"`
	Dir         string  `yaml:"dir"`
	DownloadRPS float64 `yaml:"download_rps"`
}

// Load reads configuration from path and applies defaults and env overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if secret := os.Getenv("LXNS_API_SECRET"); secret != "" {
		cfg.Sources.Lxns.Secret = secret
	}

	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ShutdownTimeout: Duration(10 * time.Second),
		},
		Sources: SourcesConfig{
			DivingFish: DivingFishConfig{
				BaseURL: "https://www.diving-fish.com/api/maimaidxprober",
				Timeout: Duration(30 * time.Second),
			},
			Lxns: LxnsConfig{
				BaseURL: "https://maimai.lxns.net/api/v0/maimai",
				Timeout: Duration(30 * time.Second),
			},
		},
		Catalog: CatalogConfig{
			URL:    "https://maimai.lxns.net/api/v0/maimai/song/list?notes=true",
			Path:   "static/song_list.json",
			Expiry: Duration(24 * time.Hour),
		},
		Assets: AssetsConfig{
			BaseURL:     "https://assets2.lxns.net/maimai",
			Dir:         "static",
			DownloadRPS: 4,
		},
		Logging: logger.Config{
			Level:  "info",
			Format: "text",
			Output: "stdout",
		},
	}
}
