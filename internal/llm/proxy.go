package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ProxyConfig holds connection details for a self-hosted generator service.
type ProxyConfig struct {
	URL     string
	APIKey  string
	Model   string
	Timeout time.Duration
	Options Options
}

// ProxyClient implements Client by forwarding prompts to an HTTP generator
// service that owns the model credentials.
type ProxyClient struct {
	httpClient  *http.Client
	config      ProxyConfig
	logger      zerolog.Logger
	generateURL string
}

var _ Client = (*ProxyClient)(nil)

func NewProxyClient(cfg ProxyConfig, logger zerolog.Logger) *ProxyClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	if cfg.Model == "" {
		cfg.Model = "proxy"
	}
	base := strings.TrimSuffix(cfg.URL, "/")

	return &ProxyClient{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		config:      cfg,
		logger:      logger.With().Str("component", "llm_proxy").Logger(),
		generateURL: base + "/generate",
	}
}

func (c *ProxyClient) Chat(ctx context.Context, message, systemPrompt string) (string, error) {
	if c.config.URL == "" {
		return "", &ErrConfig{Err: fmt.Errorf("generator endpoint not configured")}
	}

	body, err := json.Marshal(proxyRequest{
		Prompt:          message,
		System:          systemPrompt,
		Temperature:     c.config.Options.Temperature,
		MaxOutputTokens: c.config.Options.maxTokens(),
	})
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.generateURL, bytes.NewReader(body))
	if err != nil {
		return "", &ErrConfig{Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fromTransport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn().Int("status", resp.StatusCode).Msg("generator returned error status")
		return "", fromStatus(resp.StatusCode, parseRetryAfter(resp.Header),
			fmt.Errorf("generator returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet))))
	}

	var genResp proxyResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", &ErrUnavailable{Err: fmt.Errorf("decode generator payload: %w", err)}
	}
	return genResp.Text, nil
}

func (c *ProxyClient) Generate(ctx context.Context, prompt string) (string, error) {
	return c.Chat(ctx, prompt, "")
}

func (c *ProxyClient) Model() string {
	return c.config.Model
}

type proxyRequest struct {
	Prompt          string  `json:"prompt"`
	System          string  `json:"system,omitempty"`
	Temperature     float64 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"max_output_tokens,omitempty"`
}

type proxyResponse struct {
	Text string `json:"text"`
}
