package genimage

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"pipeline/internal/domain"
	"pipeline/internal/infra"
)

const (
	defaultBaseURL     = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel       = "gemini-2.5-flash-image"
	defaultHTTPTimeout = 60 * time.Second
	// One request every interval with a burst of two, so a fresh batch can
	// start two styles immediately without tripping provider rate limits.
	defaultInterval = 6 * time.Second
	defaultBurst    = 2
	maxTransient    = 3
)

// GeminiOptions configures the Gemini image client.
type GeminiOptions struct {
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
	Logger     *infra.Logger
	// Interval paces outgoing calls; zero keeps the default.
	Interval time.Duration
}

// GeminiClient generates one image per call through the generateContent
// endpoint. Transient 429/5xx responses are retried a bounded number of
// times inside the call; everything the orchestrator sees is still a single
// attempt.
type GeminiClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *infra.Logger
	limiter    *rate.Limiter
}

// NewGeminiClient validates the options and builds a client.
func NewGeminiClient(opts GeminiOptions) (*GeminiClient, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("genimage: gemini api key is required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := opts.Model
	if model == "" {
		model = defaultModel
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	return &GeminiClient{
		apiKey:     opts.APIKey,
		baseURL:    baseURL,
		model:      model,
		httpClient: client,
		logger:     opts.Logger,
		limiter:    rate.NewLimiter(rate.Every(interval), defaultBurst),
	}, nil
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts,omitempty"`
}

type geminiGenerateRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiGenerationConfig struct {
	CandidateCount     int      `json:"candidateCount,omitempty"`
	ResponseModalities []string `json:"responseModalities,omitempty"`
}

type geminiGenerateResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code,omitempty"`
		Message string `json:"message,omitempty"`
		Status  string `json:"status,omitempty"`
	} `json:"error,omitempty"`
}

// Generate renders a single image for the instruction pair. The negative
// half travels inside the prompt text because the endpoint has no separate
// negative field.
func (c *GeminiClient) Generate(ctx context.Context, req Request) (*Image, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}

	prompt := req.Instructions.Positive
	if neg := strings.TrimSpace(req.Instructions.Negative); neg != "" {
		prompt += "\n\nStrictly avoid: " + neg + "."
	}
	payload := geminiGenerateRequest{
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{{Text: prompt}},
		}},
		GenerationConfig: &geminiGenerationConfig{
			CandidateCount:     1,
			ResponseModalities: []string{"IMAGE"},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %v", domain.ErrGenerationFailed, err)
	}

	var img *Image
	operation := func() error {
		img, err = c.doGenerate(ctx, body, req)
		return err
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxTransient), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		if errors.Is(err, domain.ErrGenerationFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}
	return img, nil
}

func (c *GeminiClient) doGenerate(ctx context.Context, body []byte, req Request) (*Image, error) {
	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("%w: build request: %v", domain.ErrGenerationFailed, err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// Network errors are permanent within the call: the per-call timeout
		// budget belongs to the orchestrator's attempt accounting.
		return nil, backoff.Permanent(fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("%w: read response: %v", domain.ErrGenerationFailed, err))
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		if c.logger != nil {
			c.logger.Warn().Int("status", resp.StatusCode).Str("style", string(req.StyleID)).Msg("genimage: transient response, retrying")
		}
		return nil, fmt.Errorf("%w: status %d", domain.ErrGenerationFailed, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, backoff.Permanent(fmt.Errorf("%w: status %d: %s", domain.ErrGenerationFailed, resp.StatusCode, truncate(raw, 200)))
	}

	var parsed geminiGenerateResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("%w: decode response: %v", domain.ErrGenerationFailed, err))
	}
	if parsed.Error != nil {
		return nil, backoff.Permanent(fmt.Errorf("%w: %s", domain.ErrGenerationFailed, parsed.Error.Message))
	}

	for _, cand := range parsed.Candidates {
		for _, part := range cand.Content.Parts {
			if part.InlineData == nil || part.InlineData.Data == "" {
				continue
			}
			data, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
			if err != nil {
				return nil, backoff.Permanent(fmt.Errorf("%w: decode image data: %v", domain.ErrGenerationFailed, err))
			}
			format := "png"
			if mt := part.InlineData.MimeType; strings.HasPrefix(mt, "image/") {
				format = strings.TrimPrefix(mt, "image/")
			}
			return &Image{
				Ref:    fmt.Sprintf("gemini/%s/%s", req.BatchID, uuid.NewString()),
				Format: format,
				Data:   data,
			}, nil
		}
	}
	return nil, backoff.Permanent(fmt.Errorf("%w: response carried no image", domain.ErrGenerationFailed))
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

var _ Generator = (*GeminiClient)(nil)
