package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"
)

// Config represents the application configuration
type Config struct {
	Environment string           `toml:"environment"` // "development" or "production"
	Server      ServerConfig     `toml:"server"`
	Storage     StorageConfig    `toml:"storage"`
	Logging     LoggingConfig    `toml:"logging"`
	LLM         LLMConfig        `toml:"llm"`
	Gemini      GeminiConfig     `toml:"gemini"`
	Claude      ClaudeConfig     `toml:"claude"`
	Retrieval   RetrievalConfig  `toml:"retrieval"`
	WebSearch   WebSearchConfig  `toml:"web_search"`
	Weather     WeatherConfig    `toml:"weather"`
	Processing  ProcessingConfig `toml:"processing"`
	WebSocket   WebSocketConfig  `toml:"websocket"`
}

type ServerConfig struct {
	Port int    `toml:"port" validate:"gt=0,lte=65535"`
	Host string `toml:"host" validate:"required"`
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path" validate:"required"` // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"`         // Delete database on startup for clean test runs
}

type LoggingConfig struct {
	Level  string   `toml:"level" validate:"oneof=debug info warn error"` // "debug", "info", "warn", "error"
	Format string   `toml:"format"`                                      // "json" or "text"
	Output []string `toml:"output"`                                      // "stdout", "file"
}

// LLMConfig selects the default content-generation provider and bounds
// every LLM call the workflow makes.
type LLMConfig struct {
	DefaultProvider string   `toml:"default_provider" validate:"oneof=gemini claude"`
	RequestTimeout  Duration `toml:"request_timeout"` // Duration string, e.g. "30s"
}

type GeminiConfig struct {
	APIKey         string  `toml:"api_key"`
	Model          string  `toml:"model"`
	Temperature    float32 `toml:"temperature"`
	MaxTokens      int     `toml:"max_tokens"`
	EmbedModelName string  `toml:"embed_model"`
	EmbedDimension int     `toml:"embed_dimension" validate:"gt=0"`
}

type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	Temperature float32 `toml:"temperature"`
	MaxTokens   int     `toml:"max_tokens"`
}

// RetrievalConfig bounds knowledge-base retrieval for the agent.
type RetrievalConfig struct {
	MaxPassages    int      `toml:"max_passages" validate:"gt=0"` // Top-K passages per query
	MinSimilarity  float64  `toml:"min_similarity"`               // Drop passages scoring below this
	RequestTimeout Duration `toml:"request_timeout"`
}

// WebSearchConfig contains the Tavily web search settings.
type WebSearchConfig struct {
	APIKey         string   `toml:"api_key"`
	Depth          string   `toml:"depth"` // "basic" or "advanced"
	MaxResults     int      `toml:"max_results" validate:"gt=0"`
	FetchContent   bool     `toml:"fetch_content"` // Fetch and convert top result pages to markdown
	FetchTopN      int      `toml:"fetch_top_n"`
	RequestTimeout Duration `toml:"request_timeout"`
	RateLimit      Duration `toml:"rate_limit"` // Minimum interval between API calls
}

// WeatherConfig contains the OpenWeatherMap settings.
type WeatherConfig struct {
	APIKey          string   `toml:"api_key"`
	DefaultLocation string   `toml:"default_location" validate:"required"` // Used when no location is extracted
	RequestTimeout  Duration `toml:"request_timeout"`
	RateLimit       Duration `toml:"rate_limit"`
}

// ProcessingConfig drives the embedding coordinator.
type ProcessingConfig struct {
	Enabled  bool   `toml:"enabled"`
	Schedule string `toml:"schedule"` // Cron schedule format
	Limit    int    `toml:"limit"`    // Max chunks to embed per run
}

// WebSocketConfig contains configuration for WebSocket event streaming
type WebSocketConfig struct {
	// Whitelist of event types to broadcast. Empty list allows all events.
	AllowedEvents []string `toml:"allowed_events"`
}

// NewDefaultConfig returns a config populated with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path:           "./data/oraculum",
				ResetOnStartup: false,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: []string{"stdout"},
		},
		LLM: LLMConfig{
			DefaultProvider: "gemini",
			RequestTimeout:  Duration(30 * time.Second),
		},
		Gemini: GeminiConfig{
			Model:          "gemini-2.5-flash",
			Temperature:    0.2,
			MaxTokens:      2048,
			EmbedModelName: "gemini-embedding-001",
			EmbedDimension: 768,
		},
		Claude: ClaudeConfig{
			Model:       "claude-sonnet-4-20250514",
			Temperature: 0.2,
			MaxTokens:   2048,
		},
		Retrieval: RetrievalConfig{
			MaxPassages:    5,
			MinSimilarity:  0.0,
			RequestTimeout: Duration(10 * time.Second),
		},
		WebSearch: WebSearchConfig{
			Depth:          "basic",
			MaxResults:     5,
			FetchContent:   false,
			FetchTopN:      2,
			RequestTimeout: Duration(15 * time.Second),
			RateLimit:      Duration(time.Second),
		},
		Weather: WeatherConfig{
			DefaultLocation: "London",
			RequestTimeout:  Duration(8 * time.Second),
			RateLimit:       Duration(time.Second),
		},
		Processing: ProcessingConfig{
			Enabled:  true,
			Schedule: "*/5 * * * *",
			Limit:    50,
		},
		WebSocket: WebSocketConfig{},
	}
}

// LoadFromFile loads configuration with priority: default -> file -> env
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files. Later files
// override earlier files; environment variables override all files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the loaded configuration for structural problems
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.Processing.Enabled && c.Processing.Schedule != "" {
		parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
		if _, err := parser.Parse(c.Processing.Schedule); err != nil {
			return fmt.Errorf("invalid processing schedule %q: %w", c.Processing.Schedule, err)
		}
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	// Environment configuration (highest priority: ORACULUM_ENV, fallback: GO_ENV)
	if env := os.Getenv("ORACULUM_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("ORACULUM_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("ORACULUM_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Storage configuration
	if badgerPath := os.Getenv("ORACULUM_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}

	// Logging configuration
	if level := os.Getenv("ORACULUM_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("ORACULUM_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// LLM provider configuration
	if provider := os.Getenv("ORACULUM_LLM_PROVIDER"); provider != "" {
		config.LLM.DefaultProvider = provider
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		config.Gemini.APIKey = key
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		config.Claude.APIKey = key
	}

	// Retrieval configuration
	if maxPassages := os.Getenv("ORACULUM_RETRIEVAL_MAX_PASSAGES"); maxPassages != "" {
		if mp, err := strconv.Atoi(maxPassages); err == nil {
			config.Retrieval.MaxPassages = mp
		}
	}

	// Web search configuration
	if key := os.Getenv("TAVILY_API_KEY"); key != "" {
		config.WebSearch.APIKey = key
	}
	if depth := os.Getenv("ORACULUM_WEB_SEARCH_DEPTH"); depth != "" {
		config.WebSearch.Depth = depth
	}

	// Weather configuration
	if key := os.Getenv("OPENWEATHER_API_KEY"); key != "" {
		config.Weather.APIKey = key
	}
	if location := os.Getenv("ORACULUM_WEATHER_DEFAULT_LOCATION"); location != "" {
		config.Weather.DefaultLocation = location
	}

	// Processing configuration
	if enabled := os.Getenv("ORACULUM_PROCESSING_ENABLED"); enabled != "" {
		if e, err := strconv.ParseBool(enabled); err == nil {
			config.Processing.Enabled = e
		}
	}
	if schedule := os.Getenv("ORACULUM_PROCESSING_SCHEDULE"); schedule != "" {
		config.Processing.Schedule = schedule
	}
}
