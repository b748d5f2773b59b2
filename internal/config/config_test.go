package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("PG_HOST", "localhost")
	t.Setenv("PG_USER", "hire")
	t.Setenv("PG_PASSWORD", "secret")
	t.Setenv("PG_DATABASE", "hire")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("GEMINI_API_KEY", "test-key")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, 20, cfg.Generation.MaxQuestions)
	assert.Equal(t, 20000, cfg.Generation.DocumentCharBudget)
	assert.Equal(t, 30*time.Second, cfg.Generation.AttemptTimeout)
	assert.Equal(t, 3, cfg.Generation.MaxAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.Generation.BackoffBase)
	assert.Equal(t, 4*time.Second, cfg.Generation.BackoffMax)
	assert.Equal(t, "", cfg.Security.JWTSecret)
	assert.Equal(t, int64(10<<20), cfg.Upload.MaxBytes)
}

func TestLoadMissingPostgres(t *testing.T) {
	setRequired(t)
	t.Setenv("PG_HOST", "")

	_, err := Load(context.Background())
	assert.Error(t, err)
}

func TestLoadRejectsProviderWithoutKey(t *testing.T) {
	setRequired(t)
	t.Setenv("LLM_PROVIDER", "openai")

	_, err := Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestLLMValidate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     LLM
		wantErr bool
	}{
		{name: "mock needs nothing", cfg: LLM{Provider: "mock"}},
		{name: "proxy needs url", cfg: LLM{Provider: "proxy"}, wantErr: true},
		{name: "proxy ok", cfg: LLM{Provider: "proxy", ProxyURL: "http://gen"}},
		{name: "anthropic ok", cfg: LLM{Provider: "Anthropic", AnthropicAPIKey: "k"}},
		{name: "unknown", cfg: LLM{Provider: "llama"}, wantErr: true},
		{name: "negative rate", cfg: LLM{Provider: "mock", RequestsPerSec: -1}, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadIntoSection(t *testing.T) {
	t.Setenv("GENERATION_MAX_QUESTIONS", "7")

	var gen Generation
	require.NoError(t, LoadInto(&gen))
	assert.Equal(t, 7, gen.MaxQuestions)
	assert.Equal(t, 5, gen.DefaultQuestionCount)
}

func TestPostgresDSN(t *testing.T) {
	p := Postgres{Host: "db", Port: 5433, User: "u", Password: "p", Database: "d", SSLMode: "require"}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=d sslmode=require", p.DSN())
}
