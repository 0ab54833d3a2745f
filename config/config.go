package config

import (
	"fmt"
	"os"
	"strconv"

	"go.uber.org/fx"
	"gopkg.in/yaml.v3"
)

const ConfigPathEnv = "QUICKZIP_CONFIG"

type Config struct {
	AccessToken         string `yaml:"access_token"`
	Port                string `yaml:"port"`
	WorkspaceRoot       string `yaml:"workspace_root"`
	LogLevel            string `yaml:"log_level"`
	Encoding            string `yaml:"encoding"`
	Compression         string `yaml:"compression"`
	Encryption          string `yaml:"encryption"`
	RootPath            string `yaml:"root_path"`
	AutoCreateDirectory bool   `yaml:"auto_create_directory"`
}

func defaults() *Config {
	return &Config{
		Port:        "8080",
		LogLevel:    "info",
		Encoding:    "UTF-8",
		Compression: "deflate_normal_high",
		Encryption:  "none",
	}
}

// Load builds a Config from defaults, then the YAML file at path (skipped when
// path is empty), then QUICKZIP_* environment variables.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.AccessToken = getEnv("QUICKZIP_ACCESS_TOKEN", cfg.AccessToken)
	cfg.Port = getEnv("QUICKZIP_PORT", cfg.Port)
	cfg.WorkspaceRoot = getEnv("QUICKZIP_WORKSPACE_ROOT", cfg.WorkspaceRoot)
	cfg.LogLevel = getEnv("QUICKZIP_LOG_LEVEL", cfg.LogLevel)
	cfg.Encoding = getEnv("QUICKZIP_ENCODING", cfg.Encoding)
	cfg.Compression = getEnv("QUICKZIP_COMPRESSION", cfg.Compression)
	cfg.Encryption = getEnv("QUICKZIP_ENCRYPTION", cfg.Encryption)
	cfg.RootPath = getEnv("QUICKZIP_ROOT_PATH", cfg.RootPath)
	cfg.AutoCreateDirectory = getEnvBool("QUICKZIP_AUTO_CREATE_DIRECTORY", cfg.AutoCreateDirectory)

	return cfg, nil
}

// NewConfig loads the file named by QUICKZIP_CONFIG, if any.
func NewConfig() (*Config, error) {
	return Load(os.Getenv(ConfigPathEnv))
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

var Module = fx.Options(
	fx.Provide(NewConfig),
)
