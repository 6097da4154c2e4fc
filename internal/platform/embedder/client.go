// Package embedder talks to an OpenAI-compatible embeddings endpoint. The
// pipeline only needs text-in, vector-out; everything else the API offers is
// out of scope here.
package embedder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/elena2notti/theatreNet/internal/platform/envutil"
	"github.com/elena2notti/theatreNet/internal/platform/logger"
)

// Client embeds batches of texts into fixed-length vectors.
type Client interface {
	Embed(ctx context.Context, inputs []string) ([][]float32, error)
}

type client struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	maxRetries int
}

// NewFromEnv builds a client from the environment. EMBED_API_KEY is
// required; EMBED_BASE_URL defaults to the OpenAI endpoint and may point at
// any compatible server.
func NewFromEnv(log *logger.Logger) (Client, error) {
	apiKey := envutil.String("EMBED_API_KEY", "")
	if apiKey == "" {
		return nil, fmt.Errorf("embedder: missing EMBED_API_KEY")
	}
	baseURL := strings.TrimRight(envutil.String("EMBED_BASE_URL", "https://api.openai.com"), "/")
	model := envutil.String("EMBED_MODEL", "text-embedding-3-small")
	timeout := time.Duration(envutil.Int("EMBED_TIMEOUT_SECONDS", 120)) * time.Second

	return &client{
		log:        log,
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: envutil.Int("EMBED_MAX_RETRIES", 3),
	}, nil
}

type embeddingsRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingsResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

func (c *client) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	if len(inputs) == 0 {
		return [][]float32{}, nil
	}

	clean := make([]string, len(inputs))
	for i := range inputs {
		s := strings.TrimSpace(inputs[i])
		if s == "" {
			s = " "
		}
		clean[i] = s
	}

	req := embeddingsRequest{Model: c.model, Input: clean}
	var resp embeddingsResponse
	if err := c.do(ctx, "/v1/embeddings", req, &resp); err != nil {
		return nil, err
	}

	out := make([][]float32, len(clean))
	for _, d := range resp.Data {
		vec := make([]float32, len(d.Embedding))
		for i, f := range d.Embedding {
			vec[i] = float32(f)
		}
		if d.Index >= 0 && d.Index < len(out) {
			out[d.Index] = vec
		}
	}
	for i, v := range out {
		if v == nil {
			return nil, fmt.Errorf("embedder: response missing embedding for input %d", i)
		}
	}
	return out, nil
}

func (c *client) do(ctx context.Context, path string, body any, out any) error {
	backoff := 1 * time.Second

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		raw, status, err := c.doOnce(ctx, path, body)
		if err == nil && status < 400 {
			if uErr := json.Unmarshal(raw, out); uErr != nil {
				return fmt.Errorf("embedder: decode response: %w", uErr)
			}
			return nil
		}

		retryable := err != nil || status == http.StatusTooManyRequests || status >= 500
		if !retryable || attempt == c.maxRetries {
			if err != nil {
				return fmt.Errorf("embedder: %s: %w", path, err)
			}
			return fmt.Errorf("embedder: %s: status %d: %s", path, status, strings.TrimSpace(string(raw)))
		}

		c.log.Warn("Embedding request retrying",
			"path", path,
			"attempt", attempt+1,
			"max_retries", c.maxRetries,
			"sleep", backoff.String(),
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return fmt.Errorf("embedder: %s: retries exhausted", path)
}

func (c *client) doOnce(ctx context.Context, path string, body any) ([]byte, int, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, 0, fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return raw, resp.StatusCode, nil
}
