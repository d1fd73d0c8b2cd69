package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	Pipeline PipelineConfig `yaml:"pipeline" envconfig:"PIPELINE"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int             `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration   `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration   `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"30s"`
	IdleTimeout     time.Duration   `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	RateLimit       RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration.
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"100"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"50"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
}

// PathsConfig contains the file system layout of the pipeline artifacts.
type PathsConfig struct {
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data"`
	RawFile    string `yaml:"raw_file" envconfig:"RAW_FILE" default:"raw/SGJobData.csv"`
	BronzeFile string `yaml:"bronze_file" envconfig:"BRONZE_FILE" default:"bronze/sg_jobs_bronze.parquet"`
	SilverFile string `yaml:"silver_file" envconfig:"SILVER_FILE" default:"silver/sg_jobs_silver.parquet"`
	GoldDir    string `yaml:"gold_dir" envconfig:"GOLD_DIR" default:"gold"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// Raw returns the resolved path of the raw input file.
func (p PathsConfig) Raw() string { return p.resolve(p.RawFile) }

// Bronze returns the resolved path of the bronze parquet artifact.
func (p PathsConfig) Bronze() string { return p.resolve(p.BronzeFile) }

// Silver returns the resolved path of the silver parquet artifact.
func (p PathsConfig) Silver() string { return p.resolve(p.SilverFile) }

// Gold returns the resolved path of the named gold table.
func (p PathsConfig) Gold(table string) string {
	return p.resolve(filepath.Join(p.GoldDir, table+".parquet"))
}

// Summary returns the resolved path of the pipeline summary artifact.
func (p PathsConfig) Summary() string {
	return p.resolve(filepath.Join(p.GoldDir, "summary.json"))
}

func (p PathsConfig) resolve(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(p.DataDir, rel)
}

// EnsureDirectories creates every directory an artifact will be written to.
func (p PathsConfig) EnsureDirectories() error {
	dirs := []string{
		filepath.Dir(p.Raw()),
		filepath.Dir(p.Bronze()),
		filepath.Dir(p.Silver()),
		p.resolve(p.GoldDir),
		p.LogsDir,
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// Load loads configuration from environment variables and an optional YAML
// config file. Environment variables take precedence over the file.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("SGJOBS", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if configFile := findConfigFile(); configFile != "" {
		if err := cfg.mergeFile(configFile); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	cfg.Pipeline.ApplyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// mergeFile overlays values from a YAML file onto cfg. The structured
// transform tables (seniority map, role keywords, experience bands) can
// only come from the file; scalar env values win over file scalars.
func (c *Config) mergeFile(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return err
	}

	if len(fileCfg.Pipeline.SeniorityMap) > 0 {
		c.Pipeline.SeniorityMap = fileCfg.Pipeline.SeniorityMap
	}
	if len(fileCfg.Pipeline.RoleKeywords) > 0 {
		c.Pipeline.RoleKeywords = fileCfg.Pipeline.RoleKeywords
	}
	if len(fileCfg.Pipeline.ExperienceBands) > 0 {
		c.Pipeline.ExperienceBands = fileCfg.Pipeline.ExperienceBands
	}
	if fileCfg.Paths.DataDir != "" && os.Getenv("SGJOBS_PATHS_DATA_DIR") == "" {
		c.Paths.DataDir = fileCfg.Paths.DataDir
	}

	return nil
}

// findConfigFile returns the path of the first config file found in the
// common locations, or an empty string when running on env vars alone.
func findConfigFile() string {
	if path := os.Getenv("SGJOBS_CONFIG_FILE"); path != "" {
		return path
	}
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
	return ""
}

// validate checks cross-field constraints that tag defaults cannot express.
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}
	if c.Logging.Format != "json" {
		c.Logging.Format = "json"
	}
	if c.Logging.Output != "both" && c.Logging.Output != "file" && c.Logging.Output != "stdout" {
		c.Logging.Output = "both"
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/app.log"
	}
	return c.Pipeline.Validate()
}

// Default returns the default configuration without reading the
// environment. Used by tests and as a fallback in the CLI entry points.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     100,
				Burst:   50,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "both",
			FilePath: "logs/app.log",
		},
		Paths: PathsConfig{
			DataDir:    "data",
			RawFile:    "raw/SGJobData.csv",
			BronzeFile: "bronze/sg_jobs_bronze.parquet",
			SilverFile: "silver/sg_jobs_silver.parquet",
			GoldDir:    "gold",
			LogsDir:    "logs",
		},
		Pipeline: DefaultPipeline(),
	}
}
