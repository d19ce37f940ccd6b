package completion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/go-resty/resty/v2"
)

const (
	// ContentPath locates the generated text in a chat completion response.
	ContentPath = "$.choices[0].message.content"

	defaultTimeout = 20 * time.Second
)

var (
	// ErrNetworkFailure wraps transport level failures.
	ErrNetworkFailure = errors.New("completion network failure")
	// ErrUnexpectedStatus is returned for non-2xx responses.
	ErrUnexpectedStatus = errors.New("completion unexpected status")
	// ErrInvalidResponseShape is returned when no generated text sits at ContentPath.
	ErrInvalidResponseShape = errors.New("completion invalid response shape")
)

// Client generates text from a list of chat messages.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Message is one chat message sent to the endpoint.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request holds the generation parameters of a single call.
type Request struct {
	Messages    []Message
	Temperature float64
	MaxTokens   int
}

// Options configures an APIClient.
type Options struct {
	URL     string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// APIClient is a resty-backed implementation of Client for OpenAI compatible
// chat completion endpoints.
type APIClient struct {
	httpClient *resty.Client
	url        string
	model      string
}

// NewClient builds a completion client from opts.
func NewClient(opts Options) *APIClient {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	restyClient := resty.New().
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)
	if opts.APIKey != "" {
		restyClient.SetAuthToken(opts.APIKey)
	}

	return &APIClient{
		httpClient: restyClient,
		url:        opts.URL,
		model:      opts.Model,
	}
}

type chatRequest struct {
	Model       string    `json:"model,omitempty"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

// Complete issues exactly one POST and returns the generated text.
func (c *APIClient) Complete(ctx context.Context, req Request) (string, error) {
	body := chatRequest{
		Model:       c.model,
		Messages:    req.Messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(body).
		Post(c.url)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNetworkFailure, err)
	}
	if !resp.IsSuccess() {
		return "", fmt.Errorf("%w: status %d", ErrUnexpectedStatus, resp.StatusCode())
	}

	return ExtractContent(resp.Body())
}

// ExtractContent reads the generated text at ContentPath from a raw response body.
func ExtractContent(raw []byte) (string, error) {
	var document any
	if err := json.Unmarshal(raw, &document); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidResponseShape, err)
	}

	value, err := jsonpath.Get(ContentPath, document)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidResponseShape, err)
	}

	text, ok := value.(string)
	if !ok || strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: no text at %s", ErrInvalidResponseShape, ContentPath)
	}
	return text, nil
}
