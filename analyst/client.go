package analyst

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/dataagent/pkg/metricskey"
	"github.com/effective-security/x/values"
	"github.com/effective-security/xdb/pkg/flake"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/dataagent", "analyst")

//go:generate mockgen -source=client.go -destination=../mocks/mockanalyst/analyst_mock.gen.go -package mockanalyst

const (
	// DefaultBaseURL is the base URL of the data analyst API
	DefaultBaseURL = "https://app.inconvo.ai/api/v1"

	// EnvAPIKey specifies the environment variable with the API key
	EnvAPIKey = "DATA_ANALYST_API_KEY"
	// EnvBaseURL specifies the environment variable to override the base URL
	EnvBaseURL = "DATA_ANALYST_BASE_URL"

	// HeaderRequestID is sent with each request for correlation
	HeaderRequestID = "X-Request-ID"
)

// Operation names used in logs and metrics
const (
	OpRetrieveDataSummary = "retrieve_data_summary"
	OpCreateConversation  = "create_conversation"
	OpCreateResponse      = "create_response"
)

// Client is the data analyst service
type Client interface {
	// RetrieveDataSummary returns the summary of the data connected to the agent
	RetrieveDataSummary(ctx context.Context, agentID string) (*DataSummary, error)
	// CreateConversation starts a new conversation with the agent
	CreateConversation(ctx context.Context, agentID string, req *CreateConversationRequest) (*Conversation, error)
	// CreateResponse sends a message to the conversation and returns the stream of events.
	// The caller must Close the stream.
	CreateResponse(ctx context.Context, conversationID string, req *ResponseRequest) (Stream, error)
}

// Doer performs a HTTP request.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPClient is the HTTP implementation of the Client
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient Doer
	userAgent  string
	timeout    time.Duration
}

// ensure HTTPClient implements the Client interface
var _ Client = (*HTTPClient)(nil)

// Option is an option for the HTTPClient
type Option func(*HTTPClient)

// WithBaseURL sets the base URL of the API
func WithBaseURL(baseURL string) Option {
	return func(c *HTTPClient) {
		c.baseURL = baseURL
	}
}

// WithAPIKey sets the API key
func WithAPIKey(apiKey string) Option {
	return func(c *HTTPClient) {
		c.apiKey = apiKey
	}
}

// WithHTTPClient sets the HTTP client.
// Timeouts and retries are the responsibility of the HTTP client.
func WithHTTPClient(client Doer) Option {
	return func(c *HTTPClient) {
		c.httpClient = client
	}
}

// WithTimeout sets the timeout of the default HTTP client,
// it has no effect when WithHTTPClient provides a custom Doer.
func WithTimeout(timeout time.Duration) Option {
	return func(c *HTTPClient) {
		c.timeout = timeout
	}
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *HTTPClient) {
		c.userAgent = ua
	}
}

// New returns a new HTTP client for the data analyst API.
// The API key and base URL fall back to the environment.
func New(opts ...Option) (*HTTPClient, error) {
	c := &HTTPClient{
		httpClient: http.DefaultClient,
		userAgent:  "dataagent-go",
	}
	for _, opt := range opts {
		opt(c)
	}
	if hc, ok := c.httpClient.(*http.Client); ok && hc == http.DefaultClient && c.timeout > 0 {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}

	c.apiKey = values.StringsCoalesce(c.apiKey, os.Getenv(EnvAPIKey))
	if c.apiKey == "" {
		return nil, errors.WithStack(ErrMissingAPIKey)
	}
	c.baseURL = strings.TrimSuffix(values.StringsCoalesce(c.baseURL, os.Getenv(EnvBaseURL), DefaultBaseURL), "/")
	if _, err := url.Parse(c.baseURL); err != nil {
		return nil, errors.Wrapf(err, "invalid base URL")
	}

	return c, nil
}

// BaseURL returns the base URL used by the client
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

func (c *HTTPClient) RetrieveDataSummary(ctx context.Context, agentID string) (*DataSummary, error) {
	u := c.buildURL("agents", agentID, "data-summary")

	var res DataSummary
	if err := c.doJSON(ctx, OpRetrieveDataSummary, http.MethodGet, u, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) CreateConversation(ctx context.Context, agentID string, req *CreateConversationRequest) (*Conversation, error) {
	u := c.buildURL("agents", agentID, "conversations")

	var res Conversation
	if err := c.doJSON(ctx, OpCreateConversation, http.MethodPost, u, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) CreateResponse(ctx context.Context, conversationID string, req *ResponseRequest) (Stream, error) {
	u := c.buildURL("agents", req.AgentID, "conversations", conversationID, "response")

	r, err := c.do(ctx, OpCreateResponse, http.MethodPost, u, req, "text/event-stream")
	if err != nil {
		return nil, err
	}
	return NewSSEStream(r.Body), nil
}

func (c *HTTPClient) doJSON(ctx context.Context, op, method, u string, body any, res any) error {
	r, err := c.do(ctx, op, method, u, body, "application/json")
	if err != nil {
		return err
	}
	defer func() { _ = r.Body.Close() }()

	if err = json.NewDecoder(r.Body).Decode(res); err != nil && !errors.Is(err, io.EOF) {
		metricskey.StatsAnalystAPIErrors.IncrCounter(1, op)
		return errors.Wrap(err, "decode response")
	}
	return nil
}

// do sends the request and returns the response with 2xx status,
// the caller must close the body.
func (c *HTTPClient) do(ctx context.Context, op, method, u string, body any, accept string) (*http.Response, error) {
	started := time.Now()
	defer metricskey.PerfAnalystRequest.MeasureSince(started, op)

	var reader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "marshal payload")
		}
		reader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	reqID := strconv.FormatUint(flake.DefaultIDGenerator.NextID(), 10)
	c.setHeaders(req, accept, reqID)

	logger.ContextKV(ctx, xlog.DEBUG,
		"op", op,
		"method", method,
		"url", u,
		"request_id", reqID,
	)

	r, err := c.httpClient.Do(req)
	if err != nil {
		metricskey.StatsAnalystAPIErrors.IncrCounter(1, op)
		return nil, errors.Wrap(err, "send request")
	}

	if r.StatusCode < 200 || r.StatusCode > 299 {
		defer func() { _ = r.Body.Close() }()
		metricskey.StatsAnalystAPIErrors.IncrCounter(1, op)

		apiErr := parseAPIError(r.Body, r.StatusCode, u)

		logger.ContextKV(ctx, xlog.ERROR,
			"op", op,
			"request_id", reqID,
			"status", r.StatusCode,
			"err", apiErr.Error(),
		)
		return nil, apiErr
	}
	return r, nil
}

// parseAPIError supports both `{"error": {"message": ""}}`
// and `{"error": "", "message": ""}` forms
func parseAPIError(body io.Reader, status int, u string) *APIError {
	apiErr := &APIError{StatusCode: status, URL: u}

	var errResp struct {
		Error   json.RawMessage `json:"error"`
		Type    string          `json:"type"`
		Message string          `json:"message"`
	}
	if json.NewDecoder(body).Decode(&errResp) != nil {
		return apiErr
	}
	apiErr.Type = errResp.Type
	apiErr.Message = errResp.Message

	var nested APIError
	var text string
	switch {
	case len(errResp.Error) == 0:
	case json.Unmarshal(errResp.Error, &text) == nil:
		apiErr.Message = values.StringsCoalesce(apiErr.Message, text)
	case json.Unmarshal(errResp.Error, &nested) == nil:
		apiErr.Type = values.StringsCoalesce(nested.Type, apiErr.Type)
		apiErr.Message = values.StringsCoalesce(nested.Message, apiErr.Message)
	}
	return apiErr
}

func (c *HTTPClient) setHeaders(req *http.Request, accept, reqID string) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", accept)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set(HeaderRequestID, reqID)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
}

func (c *HTTPClient) buildURL(parts ...string) string {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = url.PathEscape(p)
	}
	return c.baseURL + "/" + strings.Join(escaped, "/")
}
