// Package config provides centralized configuration management
// for the VPS comparison application. It supports loading from
// YAML files, environment variables, and AWS Secrets Manager (for Lambda).
package config

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Cache     CacheConfig     `yaml:"cache"`
	Data      DataConfig      `yaml:"data"`
	Query     QueryConfig     `yaml:"query"`
	Providers ProvidersConfig `yaml:"providers"`
	Logging   LoggingConfig   `yaml:"logging"`
	Site      SiteConfig      `yaml:"site"`
}

// ServerConfig holds server-related settings
type ServerConfig struct {
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// CacheConfig holds cache-related settings
type CacheConfig struct {
	TTL             time.Duration `yaml:"ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
	LambdaPath      string        `yaml:"lambda_path"`
}

// DataConfig holds plan source settings
type DataConfig struct {
	Source       string        `yaml:"source"` // mock or real
	PollInterval time.Duration `yaml:"poll_interval"`
	HTTPTimeout  time.Duration `yaml:"http_timeout"`
}

// QueryConfig holds listing defaults
type QueryConfig struct {
	DefaultPageSize int `yaml:"default_page_size"`
	MaxPageSize     int `yaml:"max_page_size"`
}

// ProvidersConfig holds upstream provider API credentials. These are only
// needed by the real data source; the mock source ignores them.
type ProvidersConfig struct {
	HostingerAPIKey    string `yaml:"hostinger_api_key"`
	DigitalOceanAPIKey string `yaml:"digitalocean_api_key"`
	VultrAPIKey        string `yaml:"vultr_api_key"`
	LinodeAPIKey       string `yaml:"linode_api_key"`
}

// LoggingConfig holds logging-related settings
type LoggingConfig struct {
	Level       string `yaml:"level"`
	EnableFile  bool   `yaml:"enable_file"`
	EnableJSON  bool   `yaml:"enable_json"`
	EnableColor bool   `yaml:"enable_color"`
	LogDir      string `yaml:"log_dir"`
	MaxSizeMB   int    `yaml:"max_size_mb"`
	MaxBackups  int    `yaml:"max_backups"`
	MaxAgeDays  int    `yaml:"max_age_days"`
	Compress    bool   `yaml:"compress"`
}

// SiteConfig holds public site settings used by the feed and sitemap
type SiteConfig struct {
	BaseURL string `yaml:"base_url"`
	Title   string `yaml:"title"`
}

var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         8000,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
		Cache: CacheConfig{
			TTL:             2 * time.Hour,
			CleanupInterval: 10 * time.Minute,
			LambdaPath:      "/tmp/vps-compare-cache",
		},
		Data: DataConfig{
			Source:       "mock",
			PollInterval: 30 * time.Second,
			HTTPTimeout:  30 * time.Second,
		},
		Query: QueryConfig{
			DefaultPageSize: 25,
			MaxPageSize:     100,
		},
		Logging: LoggingConfig{
			Level:       "info",
			EnableFile:  true,
			EnableJSON:  true,
			EnableColor: true,
			LogDir:      "logs",
			MaxSizeMB:   100,
			MaxBackups:  3,
			MaxAgeDays:  7,
			Compress:    true,
		},
		Site: SiteConfig{
			BaseURL: "https://vps-compare.example.com",
			Title:   "VPS Compare",
		},
	}
}

// Get returns the global configuration (singleton)
func Get() *Config {
	configOnce.Do(func() {
		globalConfig = DefaultConfig()
		loadConfigFile()
		loadEnvOverrides()
	})
	return globalConfig
}

// Reload reloads the configuration from file
func Reload() error {
	configMu.Lock()
	defer configMu.Unlock()

	globalConfig = DefaultConfig()
	loadConfigFile()
	loadEnvOverrides()
	return nil
}

// loadConfigFile loads configuration from config.yaml
func loadConfigFile() {
	// Try multiple paths for config file
	paths := []string{
		"config.yaml",
		"config.yml",
		filepath.Join(getExecutableDir(), "config.yaml"),
		filepath.Join(getExecutableDir(), "config.yml"),
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		if err := yaml.Unmarshal(data, globalConfig); err != nil {
			continue
		}
		break
	}
}

// loadEnvOverrides applies environment variable overrides
func loadEnvOverrides() {
	if port := os.Getenv("VPS_COMPARE_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			globalConfig.Server.Port = p
		}
	}

	if ttl := os.Getenv("VPS_COMPARE_CACHE_TTL"); ttl != "" {
		if d, err := time.ParseDuration(ttl); err == nil {
			globalConfig.Cache.TTL = d
		}
	}

	if src := os.Getenv("VPS_COMPARE_DATA_SOURCE"); src != "" {
		globalConfig.Data.Source = src
	}

	if poll := os.Getenv("VPS_COMPARE_POLL_INTERVAL"); poll != "" {
		if d, err := time.ParseDuration(poll); err == nil {
			globalConfig.Data.PollInterval = d
		}
	}

	if base := os.Getenv("VPS_COMPARE_BASE_URL"); base != "" {
		globalConfig.Site.BaseURL = base
	}

	// Lambda detection - adjust settings for Lambda environment
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		globalConfig.Logging.EnableFile = false
		globalConfig.Logging.EnableColor = false
		globalConfig.Cache.LambdaPath = "/tmp/vps-compare-cache"

		// Load provider API keys from AWS Secrets Manager in Lambda
		loadProviderKeysFromSecretsManager()
	}

	// Environment variables override (for both local and Lambda)
	// These take precedence over Secrets Manager
	if key := os.Getenv("HOSTINGER_API_KEY"); key != "" {
		globalConfig.Providers.HostingerAPIKey = key
	}
	if key := os.Getenv("DIGITALOCEAN_API_KEY"); key != "" {
		globalConfig.Providers.DigitalOceanAPIKey = key
	}
	if key := os.Getenv("VULTR_API_KEY"); key != "" {
		globalConfig.Providers.VultrAPIKey = key
	}
	if key := os.Getenv("LINODE_API_KEY"); key != "" {
		globalConfig.Providers.LinodeAPIKey = key
	}
}

// ProviderSecretsPayload represents the secret structure in AWS Secrets Manager
type ProviderSecretsPayload struct {
	HostingerAPIKey    string `json:"HOSTINGER_API_KEY"`
	DigitalOceanAPIKey string `json:"DIGITALOCEAN_API_KEY"`
	VultrAPIKey        string `json:"VULTR_API_KEY"`
	LinodeAPIKey       string `json:"LINODE_API_KEY"`
}

// loadProviderKeysFromSecretsManager loads provider API keys from AWS
// Secrets Manager. This is only called when running in Lambda.
func loadProviderKeysFromSecretsManager() {
	secretName := os.Getenv("PROVIDER_SECRET_NAME")
	if secretName == "" {
		secretName = "vps-compare/provider-credentials" // Default secret name
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Load AWS config (uses Lambda's IAM role automatically)
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		// Silently fail - the real source will be disabled
		return
	}

	client := secretsmanager.NewFromConfig(cfg)

	result, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: &secretName,
	})
	if err != nil {
		// Silently fail - the real source will be disabled
		return
	}

	if result.SecretString == nil {
		return
	}

	var payload ProviderSecretsPayload
	if err := json.Unmarshal([]byte(*result.SecretString), &payload); err != nil {
		return
	}

	if payload.HostingerAPIKey != "" {
		globalConfig.Providers.HostingerAPIKey = payload.HostingerAPIKey
	}
	if payload.DigitalOceanAPIKey != "" {
		globalConfig.Providers.DigitalOceanAPIKey = payload.DigitalOceanAPIKey
	}
	if payload.VultrAPIKey != "" {
		globalConfig.Providers.VultrAPIKey = payload.VultrAPIKey
	}
	if payload.LinodeAPIKey != "" {
		globalConfig.Providers.LinodeAPIKey = payload.LinodeAPIKey
	}
}

// getExecutableDir returns the directory containing the executable
func getExecutableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// IsLambda returns true if running in AWS Lambda
func IsLambda() bool {
	return os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""
}

// GetCachePath returns the appropriate cache path
func GetCachePath() string {
	if IsLambda() {
		return Get().Cache.LambdaPath
	}
	return ""
}
