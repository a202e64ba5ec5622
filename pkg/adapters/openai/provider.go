// Package openai provides a ModelProvider for OpenAI-compatible
// chat-completions APIs, including self-hosted gateways that speak the same
// wire format.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
)

// DefaultBaseURL targets the public OpenAI API.
const DefaultBaseURL = "https://api.openai.com/v1"

const defaultTimeout = 60 * time.Second

// Provider implements ports.ModelProvider over the chat completions
// endpoint.
type Provider struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures the Provider.
type Option func(*Provider)

// WithBaseURL points the provider at a compatible gateway.
func WithBaseURL(baseURL string) Option {
	return func(p *Provider) {
		p.baseURL = baseURL
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(p *Provider) {
		p.httpClient = client
	}
}

// WithTimeout sets the request timeout on the default client.
func WithTimeout(timeout time.Duration) Option {
	return func(p *Provider) {
		p.httpClient.Timeout = timeout
	}
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Provider) {
		p.logger = logger
	}
}

// New creates a provider authenticating with the given API key.
func New(apiKey string, opts ...Option) *Provider {
	p := &Provider{
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name identifies the provider for logging and metrics.
func (p *Provider) Name() string { return "openai" }

// Chat performs one request/response exchange. Transport failures wrap
// domain.ErrBackendUnavailable; non-2xx replies surface as
// *domain.BackendError.
func (p *Provider) Chat(ctx context.Context, req ports.ChatRequest) (*ports.ChatResponse, error) {
	wr := wireRequest{
		Model:              req.Model,
		Messages:           encodeMessages(req.Items),
		Tools:              encodeTools(req.Tools),
		PreviousResponseID: req.PreviousResponseID,
	}
	// 1.0 is the server default; sending it explicitly trips models that
	// reject temperature overrides.
	if req.Temperature != 1.0 {
		temp := req.Temperature
		wr.Temperature = &temp
	}

	body, err := json.Marshal(wr)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(resp.Body)
		return nil, &domain.BackendError{StatusCode: resp.StatusCode, Body: string(b)}
	}

	var decoded wireResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	out := decodeResponse(&decoded)
	p.logger.Debug("chat round complete",
		"model", req.Model,
		"items_in", len(req.Items),
		"items_out", len(out.Items),
	)
	return out, nil
}
