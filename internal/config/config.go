package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Viewer  ViewerConfig  `yaml:"viewer" envconfig:"VIEWER"`
	Export  ExportConfig  `yaml:"export" envconfig:"EXPORT"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Paths   PathsConfig   `yaml:"paths" envconfig:"PATHS"`
}

// ViewerConfig contains the local chart server configuration
type ViewerConfig struct {
	Host            string          `yaml:"host" envconfig:"HOST" default:"127.0.0.1"`
	Port            int             `yaml:"port" envconfig:"PORT" default:"8765"`
	ReadTimeout     time.Duration   `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration   `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration   `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	OpenBrowser     bool            `yaml:"open_browser" envconfig:"OPEN_BROWSER" default:"true"`
	RateLimit       RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration for the viewer API
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"50"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"25"`
}

// ExportConfig contains static image export configuration
type ExportConfig struct {
	PNGWidth      int           `yaml:"png_width" envconfig:"PNG_WIDTH" default:"1200"`
	PNGHeight     int           `yaml:"png_height" envconfig:"PNG_HEIGHT" default:"800"`
	PNGScale      float64       `yaml:"png_scale" envconfig:"PNG_SCALE" default:"2"`
	PDFWidthInch  float64       `yaml:"pdf_width_inch" envconfig:"PDF_WIDTH_INCH" default:"12"`
	PDFHeightInch float64       `yaml:"pdf_height_inch" envconfig:"PDF_HEIGHT_INCH" default:"8"`
	ChromeTimeout time.Duration `yaml:"chrome_timeout" envconfig:"CHROME_TIMEOUT" default:"60s"`
	DisableStatic bool          `yaml:"disable_static" envconfig:"DISABLE_STATIC" default:"false"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format      string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output      string `yaml:"output" envconfig:"OUTPUT" default:"both"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/eegviz.log"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT" default:"false"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	ExecutableDir string `yaml:"executable_dir" envconfig:"EXECUTABLE_DIR"`
	DataDir       string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data"`
	RecordingsDir string `yaml:"recordings_dir" envconfig:"RECORDINGS_DIR" default:"data/recordings"`
	CacheDir      string `yaml:"cache_dir" envconfig:"CACHE_DIR" default:"data/cache"`
	LogsDir       string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	var cfg Config

	// Load from environment variables first
	if err := envconfig.Process("EEGVIZ", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// Load from config file if exists
	configFile := getConfigFilePath()
	if _, err := os.Stat(configFile); err == nil {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	// Resolve relative paths
	if err := cfg.resolvePaths(); err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config (env takes precedence)
func mergeConfigs(fileConfig, envConfig Config) Config {
	if envConfig.Viewer.Host == "" {
		envConfig.Viewer.Host = fileConfig.Viewer.Host
	}
	if envConfig.Viewer.Port == 0 {
		envConfig.Viewer.Port = fileConfig.Viewer.Port
	}
	if envConfig.Viewer.ReadTimeout == 0 {
		envConfig.Viewer.ReadTimeout = fileConfig.Viewer.ReadTimeout
	}
	if envConfig.Viewer.WriteTimeout == 0 {
		envConfig.Viewer.WriteTimeout = fileConfig.Viewer.WriteTimeout
	}
	if envConfig.Viewer.IdleTimeout == 0 {
		envConfig.Viewer.IdleTimeout = fileConfig.Viewer.IdleTimeout
	}
	if envConfig.Viewer.ShutdownTimeout == 0 {
		envConfig.Viewer.ShutdownTimeout = fileConfig.Viewer.ShutdownTimeout
	}
	if envConfig.Viewer.RateLimit.RPS == 0 {
		envConfig.Viewer.RateLimit.RPS = fileConfig.Viewer.RateLimit.RPS
	}
	if envConfig.Viewer.RateLimit.Burst == 0 {
		envConfig.Viewer.RateLimit.Burst = fileConfig.Viewer.RateLimit.Burst
	}
	if envConfig.Export.PNGWidth == 0 {
		envConfig.Export.PNGWidth = fileConfig.Export.PNGWidth
	}
	if envConfig.Export.PNGHeight == 0 {
		envConfig.Export.PNGHeight = fileConfig.Export.PNGHeight
	}
	if envConfig.Export.PNGScale == 0 {
		envConfig.Export.PNGScale = fileConfig.Export.PNGScale
	}
	if envConfig.Export.PDFWidthInch == 0 {
		envConfig.Export.PDFWidthInch = fileConfig.Export.PDFWidthInch
	}
	if envConfig.Export.PDFHeightInch == 0 {
		envConfig.Export.PDFHeightInch = fileConfig.Export.PDFHeightInch
	}
	if envConfig.Export.ChromeTimeout == 0 {
		envConfig.Export.ChromeTimeout = fileConfig.Export.ChromeTimeout
	}
	if envConfig.Logging.Level == "" {
		envConfig.Logging.Level = fileConfig.Logging.Level
	}
	if envConfig.Logging.Format == "" {
		envConfig.Logging.Format = fileConfig.Logging.Format
	}
	if envConfig.Logging.Output == "" {
		envConfig.Logging.Output = fileConfig.Logging.Output
	}
	if envConfig.Logging.FilePath == "" {
		envConfig.Logging.FilePath = fileConfig.Logging.FilePath
	}
	if envConfig.Paths.ExecutableDir == "" {
		envConfig.Paths.ExecutableDir = fileConfig.Paths.ExecutableDir
	}
	if envConfig.Paths.DataDir == "" {
		envConfig.Paths.DataDir = fileConfig.Paths.DataDir
	}
	if envConfig.Paths.RecordingsDir == "" {
		envConfig.Paths.RecordingsDir = fileConfig.Paths.RecordingsDir
	}
	if envConfig.Paths.CacheDir == "" {
		envConfig.Paths.CacheDir = fileConfig.Paths.CacheDir
	}
	if envConfig.Paths.LogsDir == "" {
		envConfig.Paths.LogsDir = fileConfig.Paths.LogsDir
	}

	return envConfig
}

// resolvePaths sets up the executable directory
func (c *Config) resolvePaths() error {
	// Use centralized paths system to get all paths
	paths, err := GetPaths()
	if err != nil {
		return fmt.Errorf("failed to get paths: %w", err)
	}

	// Update config with resolved paths from centralized system
	c.Paths.ExecutableDir = paths.ExecutableDir

	return nil
}

// ValidatePaths validates that critical paths exist or can be created
func (c *Config) ValidatePaths() error {
	paths, err := GetPaths()
	if err != nil {
		return fmt.Errorf("failed to get paths: %w", err)
	}

	// Ensure all required directories exist
	if err := paths.EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to ensure directories: %w", err)
	}

	// Log path resolution for debugging
	paths.LogPathResolution()

	return nil
}

// GetRecordingsDir returns the resolved recordings directory path
func (c *Config) GetRecordingsDir() string {
	// Use centralized paths system as the single source of truth
	paths, err := GetPaths()
	if err != nil {
		// Fallback to config-based resolution if paths system fails
		if filepath.IsAbs(c.Paths.RecordingsDir) {
			return c.Paths.RecordingsDir
		}
		return filepath.Join(c.Paths.ExecutableDir, c.Paths.RecordingsDir)
	}
	return paths.RecordingsDir
}

// GetCacheDir returns the resolved cache directory path
func (c *Config) GetCacheDir() string {
	// Use centralized paths system as the single source of truth
	paths, err := GetPaths()
	if err != nil {
		// Fallback to config-based resolution if paths system fails
		if filepath.IsAbs(c.Paths.CacheDir) {
			return c.Paths.CacheDir
		}
		return filepath.Join(c.Paths.ExecutableDir, c.Paths.CacheDir)
	}
	return paths.CacheDir
}

// GetLogsDir returns the resolved logs directory path
func (c *Config) GetLogsDir() string {
	// Use centralized paths system as the single source of truth
	paths, err := GetPaths()
	if err != nil {
		// Fallback to config-based resolution if paths system fails
		if filepath.IsAbs(c.Paths.LogsDir) {
			return c.Paths.LogsDir
		}
		return filepath.Join(c.Paths.ExecutableDir, c.Paths.LogsDir)
	}
	return paths.LogsDir
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Viewer.Port <= 0 || c.Viewer.Port > 65535 {
		return fmt.Errorf("invalid viewer port: %d", c.Viewer.Port)
	}

	if c.Viewer.ReadTimeout <= 0 {
		return fmt.Errorf("viewer read timeout must be positive")
	}

	if c.Viewer.WriteTimeout <= 0 {
		return fmt.Errorf("viewer write timeout must be positive")
	}

	if c.Export.PNGWidth <= 0 || c.Export.PNGHeight <= 0 {
		return fmt.Errorf("invalid PNG dimensions: %dx%d", c.Export.PNGWidth, c.Export.PNGHeight)
	}

	if c.Export.PNGScale <= 0 {
		return fmt.Errorf("PNG scale must be positive")
	}

	if c.Export.PDFWidthInch <= 0 || c.Export.PDFHeightInch <= 0 {
		return fmt.Errorf("invalid PDF page size: %gx%g", c.Export.PDFWidthInch, c.Export.PDFHeightInch)
	}

	// Logging is always structured JSON
	if c.Logging.Format != "json" {
		c.Logging.Format = "json"
	}

	if c.Logging.Output != "both" && c.Logging.Output != "file" && c.Logging.Output != "console" {
		c.Logging.Output = "both"
	}

	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/eegviz.log"
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	// Check for config file in common locations
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Viewer: ViewerConfig{
			Host:            "127.0.0.1",
			Port:            8765,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			OpenBrowser:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     50,
				Burst:   25,
			},
		},
		Export: ExportConfig{
			PNGWidth:      1200,
			PNGHeight:     800,
			PNGScale:      2,
			PDFWidthInch:  12,
			PDFHeightInch: 8,
			ChromeTimeout: 60 * time.Second,
		},
		Logging: LoggingConfig{
			Level:       "info",
			Format:      "json",
			Output:      "both",
			FilePath:    "logs/eegviz.log",
			Development: false,
		},
		Paths: PathsConfig{
			DataDir:       "data",
			RecordingsDir: "data/recordings",
			CacheDir:      "data/cache",
			LogsDir:       "logs",
		},
	}
}
