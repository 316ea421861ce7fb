// Package backend implements the outbound client for the POSTECH GenAI
// agent API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/tidwall/gjson"

	"aibridge/internal/core"
	"aibridge/internal/pkg/httpclient"
)

// routes maps public model names to backend route segments.
var routes = map[string]string{
	"postech-gpt":    "a1/gpt",
	"postech-gemini": "a2/gemini",
	"postech-claude": "a3/claude",
}

// DefaultModel is applied when a request omits the model field.
const DefaultModel = "postech-gpt"

// Client calls the backend in fully buffered, non-streaming mode. It keeps
// no per-request state and is safe for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a backend client. The timeout bounds the whole request; zero
// selects the 120s default.
func New(baseURL, apiKey string, timeout time.Duration) *Client {
	cfg := httpclient.DefaultConfig()
	if timeout > 0 {
		cfg.Timeout = timeout
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: httpclient.NewHTTPClient(&cfg),
	}
}

// NewWithHTTPClient creates a backend client with a custom HTTP client.
// If client is nil, http.DefaultClient is used.
func NewWithHTTPClient(baseURL, apiKey string, client *http.Client) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{baseURL: baseURL, apiKey: apiKey, httpClient: client}
}

// Supports reports whether the model maps to a backend route.
func (c *Client) Supports(model string) bool {
	_, ok := routes[model]
	return ok
}

// Models returns the public model names in sorted order.
func (c *Client) Models() []string {
	names := make([]string, 0, len(routes))
	for name := range routes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// generateRequest is the JSON body sent to the backend. Stream is always
// false; streaming toward the caller is synthesized locally.
type generateRequest struct {
	Message string               `json:"message"`
	Stream  bool                 `json:"stream"`
	Files   []core.FileReference `json:"files"`
}

// Generate posts the prompt to the route for model and extracts the reply
// text. Transport failures, timeouts and non-2xx responses all surface as
// backend errors. A response without a replies field yields "".
func (c *Client) Generate(ctx context.Context, model, prompt string, files []core.FileReference) (string, error) {
	route, ok := routes[model]
	if !ok {
		// The boundary validates first; this guards direct callers.
		return "", core.NewInvalidRequestError("unsupported model: "+model, nil)
	}
	if files == nil {
		files = []core.FileReference{}
	}

	body, err := json.Marshal(generateRequest{Message: prompt, Stream: false, Files: files})
	if err != nil {
		return "", core.NewInvalidRequestError("failed to marshal backend request", err)
	}

	url := c.baseURL + "/" + route
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", core.NewBackendError("failed to create backend request: "+err.Error(), err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", core.NewBackendError("backend request failed: "+err.Error(), err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", core.NewBackendError("failed to read backend response: "+err.Error(), err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := fmt.Sprintf("backend returned status %d: %s", resp.StatusCode, string(respBody))
		return "", core.NewBackendError(msg, nil)
	}

	return gjson.GetBytes(respBody, "replies").String(), nil
}
