package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// Crawler configuration
	Crawler CrawlerConfig `mapstructure:"crawler"`

	// Research (language-model) configuration
	Research ResearchConfig `mapstructure:"research"`

	// WHOIS configuration
	Whois WhoisConfig `mapstructure:"whois"`

	// Export configuration
	Export ExportConfig `mapstructure:"export"`

	// Logging configuration
	Logging LoggingConfig `mapstructure:"logging"`
}

// CrawlerConfig holds crawl traversal and politeness settings
type CrawlerConfig struct {
	MaxDepth        int           `mapstructure:"max_depth"`
	LinksPerPage    int           `mapstructure:"links_per_page"`
	MaxPages        int           `mapstructure:"max_pages"`
	Budget          time.Duration `mapstructure:"budget"`
	MinDelay        time.Duration `mapstructure:"min_delay"`
	MaxDelay        time.Duration `mapstructure:"max_delay"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	MaxWorkers      int           `mapstructure:"max_workers"`
	RequestsPerSec  int           `mapstructure:"requests_per_second"`
	UserAgent       string        `mapstructure:"user_agent"`
	FollowRobotsTxt bool          `mapstructure:"follow_robots_txt"`
}

// ResearchConfig holds language-model research settings
type ResearchConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// WhoisConfig holds domain-registration lookup settings
type WhoisConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// ExportConfig holds result export settings
type ExportConfig struct {
	Format string `mapstructure:"format"` // "csv" or "json"
	Path   string `mapstructure:"path"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

var (
	defaultConfig *Config
	configLoaded  bool
)

// Load loads configuration from file and environment
func Load(configPath string) (*Config, error) {
	if configLoaded && defaultConfig != nil {
		return defaultConfig, nil
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
		viper.AddConfigPath("$HOME/.contactsmith")
	}

	// Set defaults
	setDefaults()

	// Bind environment variables
	bindEnvVars()

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		// Config file not found is not an error, we'll use defaults and env
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Override with environment variables
	loadFromEnv(&config)

	defaultConfig = &config
	configLoaded = true

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Crawler defaults
	viper.SetDefault("crawler.max_depth", 2)
	viper.SetDefault("crawler.links_per_page", 10)
	viper.SetDefault("crawler.max_pages", 40)
	viper.SetDefault("crawler.budget", "60s")
	viper.SetDefault("crawler.min_delay", "500ms")
	viper.SetDefault("crawler.max_delay", "1500ms")
	viper.SetDefault("crawler.request_timeout", "15s")
	viper.SetDefault("crawler.max_workers", 4)
	viper.SetDefault("crawler.requests_per_second", 5)
	viper.SetDefault("crawler.user_agent", "ContactSmith/1.0")
	viper.SetDefault("crawler.follow_robots_txt", true)

	// Research defaults
	viper.SetDefault("research.model", "claude-sonnet-4-20250514")
	viper.SetDefault("research.max_tokens", 3000)
	viper.SetDefault("research.temperature", 0.1)
	viper.SetDefault("research.timeout", "90s")

	// WHOIS defaults
	viper.SetDefault("whois.timeout", "10s")

	// Export defaults
	viper.SetDefault("export.format", "csv")
	viper.SetDefault("export.path", "./results")

	// Logging defaults
	viper.SetDefault("logging.level", "info")
}

// bindEnvVars binds environment variables
func bindEnvVars() {
	viper.SetEnvPrefix("CONTACTSMITH")
	viper.AutomaticEnv()

	viper.BindEnv("research.api_key", "ANTHROPIC_API_KEY")
}

// loadFromEnv loads configuration from environment variables
func loadFromEnv(config *Config) {
	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		config.Research.APIKey = apiKey
	}
}

// Get returns the current configuration
func Get() *Config {
	if !configLoaded || defaultConfig == nil {
		// Load with defaults if not already loaded
		config, _ := Load("")
		return config
	}
	return defaultConfig
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Crawler.MaxDepth <= 0 {
		return fmt.Errorf("crawler.max_depth must be positive")
	}
	if c.Crawler.LinksPerPage <= 0 {
		return fmt.Errorf("crawler.links_per_page must be positive")
	}
	if c.Crawler.MaxPages <= 0 {
		return fmt.Errorf("crawler.max_pages must be positive")
	}
	if c.Crawler.Budget <= 0 {
		return fmt.Errorf("crawler.budget must be positive")
	}
	if c.Crawler.MaxWorkers <= 0 {
		return fmt.Errorf("crawler.max_workers must be positive")
	}
	if c.Crawler.MinDelay > c.Crawler.MaxDelay {
		return fmt.Errorf("crawler.min_delay must not exceed crawler.max_delay")
	}

	if c.Research.APIKey == "" {
		// Not an error, just means research won't be available
		fmt.Println("Warning: Anthropic API key not set. AI research will be disabled.")
	}

	return nil
}
