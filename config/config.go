package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ProviderGroq      = "groq"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"

	DefaultConfigPath  = "config/config.yaml"
	DefaultDatabaseURL = "sqlite:///data/trips.db"
)

type Config struct {
	Port string

	ModelProvider  string
	GroqModel      string
	OpenAIModel    string
	AnthropicModel string

	GroqAPIKey           string
	OpenAIAPIKey         string
	AnthropicAPIKey      string
	TavilyAPIKey         string
	ExchangeRateAPIKey   string
	OpenWeatherMapAPIKey string

	DatabaseURL         string
	DatabasePoolSize    int
	DatabaseMaxOverflow int
	DatabasePoolTimeout time.Duration
	DatabasePoolRecycle time.Duration
	DatabaseSSLMode     string
	DatabaseSSLRootCert string

	AgentMaxRounds   int
	MaxParallelTools int
	ModelTimeout     time.Duration
	ToolTimeout      time.Duration
	RequestTimeout   time.Duration
}

// fileConfig mirrors config/config.yaml.
type fileConfig struct {
	LLM map[string]struct {
		ModelName string `yaml:"model_name"`
	} `yaml:"llm"`
	Agent struct {
		MaxRounds        int    `yaml:"max_rounds"`
		MaxParallelTools int    `yaml:"max_parallel_tools"`
		ModelTimeout     string `yaml:"model_timeout"`
		ToolTimeout      string `yaml:"tool_timeout"`
	} `yaml:"agent"`
}

func defaults() *Config {
	return &Config{
		Port:                "8000",
		ModelProvider:       ProviderGroq,
		GroqModel:           "llama-3.3-70b-versatile",
		OpenAIModel:         "gpt-4o-mini",
		AnthropicModel:      "claude-sonnet-4-20250514",
		DatabaseURL:         DefaultDatabaseURL,
		DatabasePoolSize:    5,
		DatabaseMaxOverflow: 10,
		DatabasePoolTimeout: 30 * time.Second,
		DatabasePoolRecycle: 1800 * time.Second,
		AgentMaxRounds:      8,
		MaxParallelTools:    4,
		ModelTimeout:        60 * time.Second,
		ToolTimeout:         20 * time.Second,
		RequestTimeout:      120 * time.Second,
	}
}

// Load reads .env, then the YAML file at CONFIG_PATH, then environment
// overrides. A missing .env or YAML file is not an error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[WARN] Failed to load .env file: %v", err)
	}

	cfg := defaults()

	path := getEnv("CONFIG_PATH", DefaultConfigPath)
	if err := cfg.applyFile(path); err != nil {
		return nil, err
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("[INFO] No config file at %s, using defaults", path)
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if m := fc.LLM[ProviderGroq].ModelName; m != "" {
		c.GroqModel = m
	}
	if m := fc.LLM[ProviderOpenAI].ModelName; m != "" {
		c.OpenAIModel = m
	}
	if m := fc.LLM[ProviderAnthropic].ModelName; m != "" {
		c.AnthropicModel = m
	}
	if fc.Agent.MaxRounds > 0 {
		c.AgentMaxRounds = fc.Agent.MaxRounds
	}
	if fc.Agent.MaxParallelTools > 0 {
		c.MaxParallelTools = fc.Agent.MaxParallelTools
	}
	if d, ok := parseDuration("agent.model_timeout", fc.Agent.ModelTimeout); ok {
		c.ModelTimeout = d
	}
	if d, ok := parseDuration("agent.tool_timeout", fc.Agent.ToolTimeout); ok {
		c.ToolTimeout = d
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Port = getEnv("PORT", c.Port)

	c.ModelProvider = strings.ToLower(strings.TrimSpace(getEnv("MODEL_PROVIDER", c.ModelProvider)))
	c.GroqModel = getEnv("GROQ_MODEL", c.GroqModel)
	c.OpenAIModel = getEnv("OPENAI_MODEL", c.OpenAIModel)
	c.AnthropicModel = getEnv("ANTHROPIC_MODEL", c.AnthropicModel)

	c.GroqAPIKey = os.Getenv("GROQ_API_KEY")
	c.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	c.AnthropicAPIKey = os.Getenv("ANTHROPIC_API_KEY")
	c.TavilyAPIKey = os.Getenv("TAVILY_API_KEY")
	c.ExchangeRateAPIKey = os.Getenv("EXCHANGE_RATE_API_KEY")
	c.OpenWeatherMapAPIKey = os.Getenv("OPENWEATHERMAP_API_KEY")

	c.DatabaseURL = getEnv("DATABASE_URL", c.DatabaseURL)
	c.DatabasePoolSize = getEnvInt("DATABASE_POOL_SIZE", c.DatabasePoolSize)
	c.DatabaseMaxOverflow = getEnvInt("DATABASE_MAX_OVERFLOW", c.DatabaseMaxOverflow)
	c.DatabasePoolTimeout = getEnvSeconds("DATABASE_POOL_TIMEOUT", c.DatabasePoolTimeout)
	c.DatabasePoolRecycle = getEnvSeconds("DATABASE_POOL_RECYCLE", c.DatabasePoolRecycle)
	c.DatabaseSSLMode = os.Getenv("DATABASE_SSL_MODE")
	c.DatabaseSSLRootCert = os.Getenv("DATABASE_SSL_ROOT_CERT")

	c.AgentMaxRounds = getEnvInt("AGENT_MAX_ROUNDS", c.AgentMaxRounds)
	c.MaxParallelTools = getEnvInt("AGENT_MAX_PARALLEL_TOOLS", c.MaxParallelTools)
	c.ModelTimeout = getEnvDuration("MODEL_TIMEOUT", c.ModelTimeout)
	c.ToolTimeout = getEnvDuration("TOOL_TIMEOUT", c.ToolTimeout)
	c.RequestTimeout = getEnvDuration("REQUEST_TIMEOUT", c.RequestTimeout)
}

func (c *Config) Validate() error {
	switch c.ModelProvider {
	case ProviderGroq, ProviderOpenAI, ProviderAnthropic:
	default:
		return fmt.Errorf("unsupported MODEL_PROVIDER %q (expected groq, openai or anthropic)", c.ModelProvider)
	}
	if c.AgentMaxRounds < 1 {
		return fmt.Errorf("agent max rounds must be at least 1, got %d", c.AgentMaxRounds)
	}
	if c.MaxParallelTools < 1 {
		return fmt.Errorf("agent max parallel tools must be at least 1, got %d", c.MaxParallelTools)
	}
	return nil
}

// ModelName returns the configured model for the active provider.
func (c *Config) ModelName() string {
	switch c.ModelProvider {
	case ProviderOpenAI:
		return c.OpenAIModel
	case ProviderAnthropic:
		return c.AnthropicModel
	default:
		return c.GroqModel
	}
}

// ModelAPIKey returns the credential for the active provider.
func (c *Config) ModelAPIKey() string {
	switch c.ModelProvider {
	case ProviderOpenAI:
		return c.OpenAIAPIKey
	case ProviderAnthropic:
		return c.AnthropicAPIKey
	default:
		return c.GroqAPIKey
	}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("[WARN] Invalid integer for %s=%q, using %d", key, raw, fallback)
		return fallback
	}
	return v
}

// getEnvSeconds reads a whole number of seconds.
func getEnvSeconds(key string, fallback time.Duration) time.Duration {
	secs := getEnvInt(key, int(fallback/time.Second))
	return time.Duration(secs) * time.Second
}

// getEnvDuration accepts Go durations ("90s") or bare seconds ("90").
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	if d, ok := parseDuration(key, raw); ok {
		return d
	}
	return fallback
}

func parseDuration(key, raw string) (time.Duration, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second, true
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("[WARN] Invalid duration for %s=%q, keeping default", key, raw)
		return 0, false
	}
	return d, true
}
