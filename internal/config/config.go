package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// App holds core runtime configuration shared across services.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"hire-ai"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`

	Postgres   Postgres
	Redis      Redis
	Security   Security
	LLM        LLM
	Generation Generation
	Upload     Upload
	RoleSkills RoleSkills
	CORS       CORS
}

// Postgres captures connection info for the SQL database.
type Postgres struct {
	Host     string `env:"PG_HOST,notEmpty"`
	Port     int    `env:"PG_PORT" envDefault:"5432"`
	User     string `env:"PG_USER,notEmpty"`
	Password string `env:"PG_PASSWORD,notEmpty"`
	Database string `env:"PG_DATABASE,notEmpty"`
	SSLMode  string `env:"PG_SSL_MODE" envDefault:"disable"`
	MaxConns int    `env:"PG_MAX_CONNS" envDefault:"10"`
}

// DSN renders a keyword/value connection string accepted by pgx.
func (p Postgres) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode)
}

// Redis holds cache configuration.
type Redis struct {
	Addr     string `env:"REDIS_ADDR,notEmpty"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"20"`
}

// Security stores secrets for signing and auth. An empty JWTSecret disables
// bearer checks on the API.
type Security struct {
	JWTSecret string        `env:"JWT_SECRET" envDefault:""`
	TokenTTL  time.Duration `env:"JWT_TOKEN_TTL" envDefault:"24h"`
}

// LLM selects and configures the language model provider.
type LLM struct {
	Provider        string        `env:"LLM_PROVIDER" envDefault:"gemini"`
	Temperature     float64       `env:"LLM_TEMPERATURE" envDefault:"0.7"`
	MaxOutputTokens int           `env:"LLM_MAX_OUTPUT_TOKENS" envDefault:"2048"`
	RequestsPerSec  float64       `env:"LLM_REQUESTS_PER_SECOND" envDefault:"2"`
	Burst           int           `env:"LLM_BURST" envDefault:"4"`
	HealthTimeout   time.Duration `env:"LLM_HEALTH_TIMEOUT" envDefault:"5s"`

	GeminiAPIKey string `env:"GEMINI_API_KEY" envDefault:""`
	GeminiModel  string `env:"GEMINI_MODEL" envDefault:"gemini-2.0-flash"`

	OpenAIAPIKey  string `env:"OPENAI_API_KEY" envDefault:""`
	OpenAIModel   string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL" envDefault:""`

	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY" envDefault:""`
	AnthropicModel  string `env:"ANTHROPIC_MODEL" envDefault:"claude-haiku"`

	ProxyURL    string        `env:"LLM_PROXY_URL" envDefault:""`
	ProxyAPIKey string        `env:"LLM_PROXY_API_KEY" envDefault:""`
	ProxyModel  string        `env:"LLM_PROXY_MODEL" envDefault:"proxy"`
	HTTPTimeout time.Duration `env:"LLM_PROXY_HTTP_TIMEOUT" envDefault:"45s"`
}

// Validate checks that the selected provider has the credentials it needs.
func (c LLM) Validate() error {
	switch strings.ToLower(c.Provider) {
	case "gemini":
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for provider gemini")
		}
	case "openai":
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for provider openai")
		}
	case "anthropic":
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for provider anthropic")
		}
	case "proxy":
		if c.ProxyURL == "" {
			return fmt.Errorf("LLM_PROXY_URL is required for provider proxy")
		}
	case "mock":
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", c.Provider)
	}
	if c.RequestsPerSec < 0 {
		return fmt.Errorf("LLM_REQUESTS_PER_SECOND must not be negative")
	}
	return nil
}

// Generation tunes the question-generation pipeline.
type Generation struct {
	MaxQuestions         int           `env:"GENERATION_MAX_QUESTIONS" envDefault:"20"`
	DefaultQuestionCount int           `env:"GENERATION_DEFAULT_QUESTION_COUNT" envDefault:"5"`
	DefaultComplexity    int           `env:"GENERATION_DEFAULT_COMPLEXITY" envDefault:"50"`
	DocumentCharBudget   int           `env:"GENERATION_DOCUMENT_CHAR_BUDGET" envDefault:"20000"`
	ExcerptChars         int           `env:"GENERATION_PROMPT_EXCERPT_CHARS" envDefault:"8000"`
	AttemptTimeout       time.Duration `env:"GENERATION_ATTEMPT_TIMEOUT" envDefault:"30s"`
	MaxAttempts          int           `env:"GENERATION_MAX_ATTEMPTS" envDefault:"3"`
	BackoffBase          time.Duration `env:"GENERATION_BACKOFF_BASE" envDefault:"500ms"`
	BackoffMax           time.Duration `env:"GENERATION_BACKOFF_MAX" envDefault:"4s"`
}

// Upload bounds multipart request bodies at the HTTP boundary.
type Upload struct {
	MaxBytes int64 `env:"UPLOAD_MAX_BYTES" envDefault:"10485760"`
}

// RoleSkills configures the role/skill catalog.
type RoleSkills struct {
	CatalogCacheTTL time.Duration `env:"ROLE_SKILLS_CACHE_TTL" envDefault:"10m"`
}

// CORS holds Cross-Origin Resource Sharing configuration.
type CORS struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://127.0.0.1:3000"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS" envSeparator:"," envDefault:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS" envSeparator:"," envDefault:"Content-Type,Authorization,X-Request-ID"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS" envDefault:"true"`
	MaxAge           int      `env:"CORS_MAX_AGE" envDefault:"3600"`
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := LoadInto(cfg); err != nil {
		return nil, err
	}
	if err := cfg.LLM.Validate(); err != nil {
		return nil, fmt.Errorf("llm config: %w", err)
	}
	return cfg, nil
}

// LoadInto parses environment variables into any config section, so tools
// that only need part of the configuration do not require the rest.
func LoadInto(v any) error {
	if err := env.ParseWithOptions(v, env.Options{RequiredIfNoDef: true}); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}
