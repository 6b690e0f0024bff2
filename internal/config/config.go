// ABOUTME: Centralized configuration for the course recommender
// ABOUTME: Layers defaults, an optional TOML file, and environment variables
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultConfigFile is read from the working directory when COURSEREC_CONFIG is unset
const DefaultConfigFile = "courserec.toml"

// Cache backends
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config holds all configuration for the course recommender
type Config struct {
	// OpenAI settings
	OpenAIKey        string        `toml:"openai_api_key"`
	OpenAIBaseURL    string        `toml:"openai_base_url"`
	ChatModel        string        `toml:"chat_model"`
	EmbeddingModel   string        `toml:"embedding_model"`
	TranslationModel string        `toml:"translation_model"`
	Timeout          time.Duration `toml:"timeout"`
	MaxRetries       int           `toml:"max_retries"`
	RetryDelay       time.Duration `toml:"retry_delay"`

	// Storage
	DBPath string `toml:"db_path"`

	// Retrieval and evaluation
	TopN           int `toml:"top_n"`
	EvalK          int `toml:"eval_k"`
	SplitMaxLength int `toml:"split_max_length"`
	Workers        int `toml:"workers"`

	// Embedding cache
	CacheBackend  string        `toml:"cache_backend"`
	CacheTTL      time.Duration `toml:"cache_ttl"`
	RedisAddr     string        `toml:"redis_addr"`
	RedisPassword string        `toml:"redis_password"`
	RedisDB       int           `toml:"redis_db"`

	// Local ONNX embedding model
	ONNXLibraryPath   string `toml:"onnx_library_path"`
	ONNXModelPath     string `toml:"onnx_model_path"`
	ONNXTokenizerPath string `toml:"onnx_tokenizer_path"`
	ONNXModelID       string `toml:"onnx_model_id"`
	ONNXMaxSeqLen     int    `toml:"onnx_max_seq_len"`
	ONNXHiddenSize    int    `toml:"onnx_hidden_size"`

	// Charm snapshot sync
	CharmHost   string `toml:"charm_host"`
	CharmDBName string `toml:"charm_db"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		ChatModel:        "gpt-3.5-turbo-0125",
		EmbeddingModel:   "text-embedding-3-small",
		TranslationModel: "gpt-4o-mini",
		Timeout:          30 * time.Second,
		MaxRetries:       3,
		RetryDelay:       2 * time.Second,
		DBPath:           DefaultDBPath(),
		TopN:             5,
		EvalK:            5,
		SplitMaxLength:   512,
		Workers:          4,
		CacheBackend:     CacheMemory,
		CacheTTL:         10 * time.Minute,
		ONNXModelID:      "all-distilroberta-v1",
		ONNXMaxSeqLen:    256,
		ONNXHiddenSize:   768,
		CharmHost:        "charm.2389.dev",
		CharmDBName:      "courserec",
	}
}

// DefaultDBPath returns the XDG-compliant database location
func DefaultDBPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".local", "share", "courserec", "courserec.db")
		}
		dataHome = filepath.Join(homeDir, ".local", "share")
	}
	return filepath.Join(dataHome, "courserec", "courserec.db")
}

// Load reads the config file named by COURSEREC_CONFIG (or ./courserec.toml
// when present), then applies environment overrides and validates.
func Load() (*Config, error) {
	path := os.Getenv("COURSEREC_CONFIG")
	if path == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			path = DefaultConfigFile
		}
	}
	return LoadFrom(path)
}

// LoadFrom is Load with an explicit config file path; "" skips the file layer
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.OpenAIKey = getEnv("OPENAI_API_KEY", c.OpenAIKey)
	c.OpenAIBaseURL = getEnv("OPENAI_BASE_URL", c.OpenAIBaseURL)
	c.ChatModel = getEnv("COURSEREC_CHAT_MODEL", c.ChatModel)
	c.EmbeddingModel = getEnv("COURSEREC_EMBEDDING_MODEL", c.EmbeddingModel)
	c.TranslationModel = getEnv("COURSEREC_TRANSLATION_MODEL", c.TranslationModel)
	c.Timeout = getEnvDuration("OPENAI_TIMEOUT", c.Timeout)
	c.MaxRetries = getEnvInt("OPENAI_MAX_RETRIES", c.MaxRetries)
	c.RetryDelay = getEnvDuration("OPENAI_RETRY_DELAY", c.RetryDelay)

	c.DBPath = getEnv("COURSEREC_DB", c.DBPath)

	c.TopN = getEnvInt("COURSEREC_TOP_N", c.TopN)
	c.EvalK = getEnvInt("COURSEREC_EVAL_K", c.EvalK)
	c.SplitMaxLength = getEnvInt("COURSEREC_SPLIT_MAX_LENGTH", c.SplitMaxLength)
	c.Workers = getEnvInt("COURSEREC_WORKERS", c.Workers)

	c.CacheBackend = getEnv("COURSEREC_CACHE", c.CacheBackend)
	c.CacheTTL = getEnvDuration("COURSEREC_CACHE_TTL", c.CacheTTL)
	c.RedisAddr = getEnv("REDIS_ADDR", c.RedisAddr)
	c.RedisPassword = getEnv("REDIS_PASSWORD", c.RedisPassword)
	c.RedisDB = getEnvInt("REDIS_DB", c.RedisDB)

	c.ONNXLibraryPath = getEnv("ONNXRUNTIME_LIB", c.ONNXLibraryPath)
	c.ONNXModelPath = getEnv("COURSEREC_ONNX_MODEL", c.ONNXModelPath)
	c.ONNXTokenizerPath = getEnv("COURSEREC_ONNX_TOKENIZER", c.ONNXTokenizerPath)
	c.ONNXModelID = getEnv("COURSEREC_ONNX_MODEL_ID", c.ONNXModelID)
	c.ONNXMaxSeqLen = getEnvInt("COURSEREC_ONNX_MAX_SEQ_LEN", c.ONNXMaxSeqLen)
	c.ONNXHiddenSize = getEnvInt("COURSEREC_ONNX_HIDDEN_SIZE", c.ONNXHiddenSize)

	c.CharmHost = getEnv("CHARM_HOST", c.CharmHost)
	c.CharmDBName = getEnv("CHARM_DB", c.CharmDBName)
}

// Validate checks ranges and cross-field requirements
func (c *Config) Validate() error {
	var errs []error

	if c.TopN <= 0 {
		errs = append(errs, fmt.Errorf("COURSEREC_TOP_N must be positive, got %d", c.TopN))
	}
	if c.EvalK <= 0 {
		errs = append(errs, fmt.Errorf("COURSEREC_EVAL_K must be positive, got %d", c.EvalK))
	}
	if c.SplitMaxLength <= 0 {
		errs = append(errs, fmt.Errorf("COURSEREC_SPLIT_MAX_LENGTH must be positive, got %d", c.SplitMaxLength))
	}
	if c.Workers <= 0 {
		errs = append(errs, fmt.Errorf("COURSEREC_WORKERS must be positive, got %d", c.Workers))
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		errs = append(errs, fmt.Errorf("OPENAI_MAX_RETRIES must be 0-10, got %d", c.MaxRetries))
	}
	switch c.CacheBackend {
	case CacheNone, CacheMemory:
	case CacheRedis:
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("REDIS_ADDR is required when COURSEREC_CACHE=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("COURSEREC_CACHE must be none, memory or redis, got %q", c.CacheBackend))
	}

	return errors.Join(errs...)
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
