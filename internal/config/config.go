package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Pipeline  PipelineConfig  `mapstructure:"pipeline"`
	Providers ProvidersConfig `mapstructure:"providers"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Batch     BatchConfig     `mapstructure:"batch"`
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, text
}

// PipelineConfig holds extraction and rendering parameters
type PipelineConfig struct {
	Padding        float64 `mapstructure:"padding"`
	GridRows       int     `mapstructure:"gridRows"`
	GridCols       int     `mapstructure:"gridCols"`
	ImageWidth     int     `mapstructure:"imageWidth"`
	ImageHeight    int     `mapstructure:"imageHeight"`
	MinorInterval  float64 `mapstructure:"minorInterval"`
	MajorInterval  float64 `mapstructure:"majorInterval"`
	SmoothingSigma float64 `mapstructure:"smoothingSigma"`
}

// ProvidersConfig holds upstream endpoints and timeouts
type ProvidersConfig struct {
	Nominatim NominatimConfig `mapstructure:"nominatim"`
	Overpass  OverpassConfig  `mapstructure:"overpass"`
	Elevation ElevationConfig `mapstructure:"elevation"`
}

type NominatimConfig struct {
	URL       string        `mapstructure:"url"`
	UserAgent string        `mapstructure:"userAgent"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type OverpassConfig struct {
	URL          string        `mapstructure:"url"`
	AlternateURL string        `mapstructure:"alternateUrl"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

type ElevationConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// StorageConfig holds record store and artifact locations
type StorageConfig struct {
	DBPath        string `mapstructure:"dbPath"`
	MapsDir       string `mapstructure:"mapsDir"`
	MapsURLPrefix string `mapstructure:"mapsURLPrefix"`
}

// BatchConfig holds batch job settings
type BatchConfig struct {
	ResortsFile string `mapstructure:"resortsFile"`
	Concurrency int    `mapstructure:"concurrency"`
}

// Load reads configuration from file and environment variables
func Load() (*Config, error) {
	v := viper.New()

	// Set config file name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("$HOME/.medi-skimap")

	setDefaults(v)

	// Read from environment variables
	v.SetEnvPrefix("MEDI_SKIMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		// It's okay if config file doesn't exist, we have defaults
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Unmarshal into config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("pipeline.padding", 0.2)
	v.SetDefault("pipeline.gridRows", 100)
	v.SetDefault("pipeline.gridCols", 100)
	v.SetDefault("pipeline.imageWidth", 1600)
	v.SetDefault("pipeline.imageHeight", 1200)
	v.SetDefault("pipeline.minorInterval", 20.0)
	v.SetDefault("pipeline.majorInterval", 100.0)
	v.SetDefault("pipeline.smoothingSigma", 1.0)

	v.SetDefault("providers.nominatim.url", "https://nominatim.openstreetmap.org/search")
	v.SetDefault("providers.nominatim.userAgent", "SkiLiftMapper/1.0")
	v.SetDefault("providers.nominatim.timeout", 30*time.Second)
	v.SetDefault("providers.overpass.url", "https://overpass-api.de/api/interpreter")
	v.SetDefault("providers.overpass.alternateUrl", "https://overpass.kumi.systems/api/interpreter")
	v.SetDefault("providers.overpass.timeout", 60*time.Second)
	v.SetDefault("providers.elevation.url", "https://api.open-elevation.com/api/v1/lookup")
	v.SetDefault("providers.elevation.timeout", 60*time.Second)

	v.SetDefault("storage.dbPath", "data/ski_lifts.db")
	v.SetDefault("storage.mapsDir", "data/maps")
	v.SetDefault("storage.mapsURLPrefix", "/maps")

	v.SetDefault("batch.resortsFile", "data/ski_resorts.json")
	v.SetDefault("batch.concurrency", 4)
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	p := c.Pipeline

	if p.Padding < 0 {
		errs = append(errs, fmt.Errorf("pipeline.padding must be >= 0, got %v", p.Padding))
	}
	if p.GridRows < 2 || p.GridCols < 2 {
		errs = append(errs, fmt.Errorf("pipeline grid must be at least 2x2, got %dx%d", p.GridRows, p.GridCols))
	}
	if p.ImageWidth <= 0 || p.ImageHeight <= 0 {
		errs = append(errs, fmt.Errorf("pipeline image size must be positive, got %dx%d", p.ImageWidth, p.ImageHeight))
	}
	if p.MinorInterval <= 0 || p.MajorInterval <= 0 {
		errs = append(errs, fmt.Errorf("pipeline contour intervals must be positive, got %v/%v", p.MinorInterval, p.MajorInterval))
	}
	if c.Providers.Nominatim.URL == "" {
		errs = append(errs, errors.New("providers.nominatim.url is required"))
	}
	if c.Providers.Overpass.URL == "" {
		errs = append(errs, errors.New("providers.overpass.url is required"))
	}
	if c.Providers.Elevation.URL == "" {
		errs = append(errs, errors.New("providers.elevation.url is required"))
	}
	if c.Batch.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("batch.concurrency must be >= 1, got %d", c.Batch.Concurrency))
	}

	return errors.Join(errs...)
}

// GetServerAddr returns the server address in the format ":port"
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// NewLogger creates a new slog.Logger based on the configuration
func (c *Config) NewLogger() *slog.Logger {
	// Parse log level
	var level slog.Level
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	// Create handler options
	opts := &slog.HandlerOptions{
		Level: level,
	}

	// Choose handler based on format
	var handler slog.Handler
	switch strings.ToLower(c.Log.Format) {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, opts)
	default: // "text" or anything else
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
