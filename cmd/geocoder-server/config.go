package main

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the server's YAML configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Geocoder  GeocoderConfig  `yaml:"geocoder"`
	RateLimit RateLimitConfig `yaml:"rateLimit"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port            int      `yaml:"port"`
	ReadTimeout     duration `yaml:"readTimeout"`
	WriteTimeout    duration `yaml:"writeTimeout"`
	ShutdownTimeout duration `yaml:"shutdownTimeout"`
}

// GeocoderConfig points at the hierarchy data and bounds the one-time load.
type GeocoderConfig struct {
	HierarchyPath string `yaml:"hierarchyPath"`
	LoadWorkers   int    `yaml:"loadWorkers"`
}

// RateLimitConfig bounds the query rate across all clients.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// LoggingConfig selects log verbosity and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// duration wraps time.Duration so configs can say "5s" or "250ms".
type duration time.Duration

func (d *duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = duration(v)
	return nil
}

func (d duration) std() time.Duration { return time.Duration(d) }

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     duration(5 * time.Second),
			WriteTimeout:    duration(15 * time.Second),
			ShutdownTimeout: duration(10 * time.Second),
		},
		Geocoder: GeocoderConfig{
			LoadWorkers: runtime.NumCPU(),
		},
		RateLimit: RateLimitConfig{
			RPS:   50,
			Burst: 100,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// loadConfig reads a YAML config file over the defaults and validates it.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Geocoder.HierarchyPath == "" {
		return Config{}, fmt.Errorf("geocoder.hierarchyPath must be set")
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return Config{}, fmt.Errorf("server.port %d out of range", cfg.Server.Port)
	}
	if cfg.RateLimit.RPS <= 0 {
		return Config{}, fmt.Errorf("rateLimit.rps must be positive")
	}
	if cfg.RateLimit.Burst <= 0 {
		return Config{}, fmt.Errorf("rateLimit.burst must be positive")
	}
	return cfg, nil
}
