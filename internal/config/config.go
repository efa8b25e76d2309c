package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Mode string

const (
	ModeLocal Mode = "local"
	ModeGCP   Mode = "gcp"
)

const (
	StorageMemory    = "memory"
	StorageFirestore = "firestore"
	StorageRedis     = "redis"
)

type Config struct {
	Mode Mode `yaml:"mode"`

	Port     string `yaml:"port"`
	LogLevel string `yaml:"logLevel"`

	GCPProjectID string  `yaml:"gcpProject"`
	GCPLocation  string  `yaml:"gcpLocation"`
	GeminiAPIKey string  `yaml:"geminiApiKey"`
	ModelName    string  `yaml:"modelName"`
	Temperature  float32 `yaml:"temperature"`

	StorageBackend string `yaml:"storageBackend"` // "memory", "firestore" or "redis"
	RedisAddr      string `yaml:"redisAddr"`
	UseMockLLM     bool   `yaml:"useMockLlm"` // true = use mock even with credentials
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if v == "1" || v == "true" || v == "TRUE" {
		return true
	}
	return false
}

func getFloatEnv(key string, def float32) float32 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 32)
	if err != nil {
		return def
	}
	return float32(f)
}

// Defaults returns the configuration used when nothing is set.
func Defaults() *Config {
	return &Config{
		Mode:           ModeLocal,
		Port:           "8080",
		LogLevel:       "info",
		GCPLocation:    "us-central1",
		ModelName:      "gemini-2.5-flash",
		Temperature:    0.7,
		StorageBackend: StorageMemory,
		RedisAddr:      "localhost:6379",
	}
}

// Load builds the config from, in increasing priority: defaults, the YAML
// file named by MANDALART_CONFIG_FILE (if any), and MANDALART_* env vars.
func Load() (*Config, error) {
	return LoadFrom(os.Getenv("MANDALART_CONFIG_FILE"))
}

// LoadFrom is Load with an explicit config file path; "" means no file.
func LoadFrom(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	switch getEnv("MANDALART_MODE", string(c.Mode)) {
	case "gcp":
		c.Mode = ModeGCP
	default:
		c.Mode = ModeLocal
	}

	c.Port = getEnv("MANDALART_PORT", getEnv("PORT", c.Port))
	c.LogLevel = getEnv("MANDALART_LOG_LEVEL", c.LogLevel)

	c.GCPProjectID = getEnv("MANDALART_GCP_PROJECT", c.GCPProjectID)
	c.GCPLocation = getEnv("MANDALART_GCP_LOCATION", c.GCPLocation)
	c.GeminiAPIKey = getEnv("MANDALART_GEMINI_API_KEY", getEnv("GEMINI_API_KEY", c.GeminiAPIKey))
	c.ModelName = getEnv("MANDALART_MODEL_NAME", c.ModelName)
	c.Temperature = getFloatEnv("MANDALART_TEMPERATURE", c.Temperature)

	c.StorageBackend = getEnv("MANDALART_STORAGE_BACKEND", c.StorageBackend)
	c.RedisAddr = getEnv("MANDALART_REDIS_ADDR", c.RedisAddr)

	// without credentials the only thing that can answer is the mock
	noCredentials := c.GCPProjectID == "" && c.GeminiAPIKey == ""
	c.UseMockLLM = getBoolEnv("MANDALART_USE_MOCK_LLM", c.UseMockLLM || (c.Mode == ModeLocal && noCredentials))
}

// Validate reports inconsistent settings.
func (c *Config) Validate() error {
	var errs []error

	if c.Mode == ModeGCP && c.GCPProjectID == "" {
		errs = append(errs, errors.New("MANDALART_GCP_PROJECT must be set in gcp mode"))
	}
	if !c.UseMockLLM && c.GCPProjectID == "" && c.GeminiAPIKey == "" {
		errs = append(errs, errors.New("a GCP project or a Gemini API key is required unless the mock LLM is used"))
	}

	switch c.StorageBackend {
	case StorageMemory:
	case StorageFirestore:
		if c.GCPProjectID == "" {
			errs = append(errs, errors.New("MANDALART_GCP_PROJECT is required for the firestore storage backend"))
		}
	case StorageRedis:
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("MANDALART_REDIS_ADDR is required for the redis storage backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage backend %q", c.StorageBackend))
	}

	return errors.Join(errs...)
}
