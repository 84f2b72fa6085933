package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const ENV_FILE = ".env"
const CONFIG_FILE = "config.yaml"

type AppConfig struct {
	Logging     LoggingConfig  `yaml:"logging"`
	MongoURI    string         `yaml:"mongo_uri"`
	MongoDBName string         `yaml:"mongo_db_name"`
	LLM         LLMConfig      `yaml:"llm"`
	Pipeline    PipelineConfig `yaml:"pipeline"`
	Feeds       []FeedSource   `yaml:"feeds"`
	API         APIConfig      `yaml:"api"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type LLMConfig struct {
	Provider  string `yaml:"provider"`
	ModelName string `yaml:"model_name"`

	// RequestTimeoutSeconds bounds a single completion call so a hung
	// request cannot pin a concurrency slot. 0 falls back to 60.
	RequestTimeoutSeconds int `yaml:"request_timeout_seconds"`
}

func (c LLMConfig) RequestTimeout() time.Duration {
	if c.RequestTimeoutSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// PipelineConfig tunes the background AI-processing drain loop.
// Zero values fall back to the defaults returned by the accessor methods.
type PipelineConfig struct {
	BatchSize              int `yaml:"batch_size"`
	MaxConcurrency         int `yaml:"max_concurrency"`
	RateLimitTrip          int `yaml:"rate_limit_trip"`
	CooldownSeconds        int `yaml:"cooldown_seconds"`
	TickMinutes            int `yaml:"tick_minutes"`
	StartupDelaySeconds    int `yaml:"startup_delay_seconds"`
	StaleProcessingMinutes int `yaml:"stale_processing_minutes"`
	FeedSyncMinutes        int `yaml:"feed_sync_minutes"`
	DepthLevel             int `yaml:"depth_level"`
}

func (c PipelineConfig) GetBatchSize() int {
	if c.BatchSize <= 0 {
		return 5
	}
	return c.BatchSize
}

func (c PipelineConfig) GetMaxConcurrency() int {
	if c.MaxConcurrency <= 0 {
		return 3
	}
	return c.MaxConcurrency
}

func (c PipelineConfig) GetRateLimitTrip() int {
	if c.RateLimitTrip <= 0 {
		return 2
	}
	return c.RateLimitTrip
}

func (c PipelineConfig) Cooldown() time.Duration {
	if c.CooldownSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.CooldownSeconds) * time.Second
}

func (c PipelineConfig) Tick() time.Duration {
	if c.TickMinutes <= 0 {
		return 15 * time.Minute
	}
	return time.Duration(c.TickMinutes) * time.Minute
}

func (c PipelineConfig) StartupDelay() time.Duration {
	if c.StartupDelaySeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.StartupDelaySeconds) * time.Second
}

func (c PipelineConfig) StaleProcessingAge() time.Duration {
	if c.StaleProcessingMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(c.StaleProcessingMinutes) * time.Minute
}

func (c PipelineConfig) FeedSyncInterval() time.Duration {
	if c.FeedSyncMinutes <= 0 {
		return 60 * time.Minute
	}
	return time.Duration(c.FeedSyncMinutes) * time.Minute
}

func (c PipelineConfig) GetDepthLevel() int {
	if c.DepthLevel < 1 || c.DepthLevel > 3 {
		return 1
	}
	return c.DepthLevel
}

// FeedSource is a single external feed to import bookmarks from.
type FeedSource struct {
	Name    string `yaml:"name"`
	FeedURL string `yaml:"feed_url"`
	UserID  string `yaml:"user_id"`
	Limit   int    `yaml:"limit"`
}

type APIConfig struct {
	ListenAddr     string   `yaml:"listen_addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

func (c APIConfig) GetListenAddr() string {
	if c.ListenAddr == "" {
		return ":8080"
	}
	return c.ListenAddr
}

var config *AppConfig

func InitApp() {
	// load environment variables
	godotenv.Load(filepath.Join(GetBasePath(), ENV_FILE))

	// load configuration file
	data, err := os.ReadFile(filepath.Join(GetBasePath(), CONFIG_FILE))
	if err != nil {
		panic(err)
	}

	var c AppConfig
	err = yaml.Unmarshal(data, &c)
	if err != nil {
		panic(err)
	}
	config = &c
}

func GetConfig() AppConfig {
	if config == nil {
		InitApp()
	}

	return *config
}

// GetBasePath walks up from the working directory until it finds config.yaml.
func GetBasePath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		cfgPath := filepath.Join(dir, CONFIG_FILE)
		if info, err := os.Stat(cfgPath); err == nil && !info.IsDir() {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}
