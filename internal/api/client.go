package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"immo-client/internal/model"
	"immo-client/pkg/apierror"
)

const (
	requestIDHeader  = "X-Request-ID"
	maxResponseBytes = 10 << 20
)

// Paths of the external API.
const (
	PathRegister         = "/register"
	PathLogin            = "/users/login"
	PathRefresh          = "/refresh"
	PathVerifyEmail      = "/users/verify-email"
	PathResendActivation = "/users/resend-activation"
	PathAddAnnonce       = "/annonces/add-annonce"
	PathAnnonces         = "/annonces"
)

// anonymousPaths never carry the bearer token.
var anonymousPaths = []string{PathLogin, PathRegister}

type Client struct {
	baseURL     *url.URL
	httpClient  *http.Client
	limiter     *rate.Limiter
	tokenSource func() string
	logger      *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			// Copy so a caller's client, http.DefaultClient included, keeps its own timeout.
			hc := *c.httpClient
			hc.Timeout = timeout
			c.httpClient = &hc
		}
	}
}

// WithRateLimit caps outbound requests per minute; rpm <= 0 disables it.
func WithRateLimit(rpm int) Option {
	return func(c *Client) {
		if rpm <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), rpm)
	}
}

// WithTokenSource supplies the access token attached to outgoing requests.
func WithTokenSource(source func() string) Option {
	return func(c *Client) {
		c.tokenSource = source
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	parsed, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("base URL %q must be absolute", baseURL)
	}

	c := &Client{
		baseURL:    parsed,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// SetTokenSource replaces the token source after construction, which lets
// the session manager and the client reference each other.
func (c *Client) SetTokenSource(source func() string) {
	c.tokenSource = source
}

func (c *Client) postJSON(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", path, err)
	}

	return c.do(ctx, http.MethodPost, path, nil, bytes.NewReader(body), "application/json", out)
}

func (c *Client) do(ctx context.Context, method string, path string, query url.Values, body io.Reader, contentType string, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%s %s: rate limit wait: %w", method, path, err)
		}
	}

	target := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		target.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, requestID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	c.authorize(req, path)

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("api request failed", "request_id", requestID, "method", method, "path", path, "error", err)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%s %s: read response: %w", method, path, err)
	}

	attrs := []any{
		"request_id", requestID,
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(started).Milliseconds(),
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := decodeError(resp.StatusCode, raw)
		c.logger.Warn("api request rejected", append(attrs, "code", apiErr.Code, "error_code", apiErr.ErrorCode)...)
		return apiErr
	}
	c.logger.Debug("api request", attrs...)

	if err := rejectUnsuccessful(resp.StatusCode, raw); err != nil {
		return err
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return apierror.New("INVALID_RESPONSE", "", fmt.Sprintf("%s %s: %v", method, path, err), resp.StatusCode)
	}

	return nil
}

func (c *Client) authorize(req *http.Request, path string) {
	for _, anonymous := range anonymousPaths {
		if strings.HasSuffix(path, anonymous) {
			return
		}
	}

	if c.tokenSource == nil {
		return
	}

	if token := c.tokenSource(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// rejectUnsuccessful turns a 2xx body with "success": false into an error.
func rejectUnsuccessful(status int, raw []byte) error {
	var envelope struct {
		Success *bool  `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil
	}

	if envelope.Success != nil && !*envelope.Success {
		return apierror.New("REQUEST_FAILED", envelope.Message, "", status)
	}

	return nil
}

func decodeError(status int, raw []byte) *apierror.APIError {
	apiErr := apierror.New(fmt.Sprintf("HTTP_%d", status), "", http.StatusText(status), status)

	var body model.ErrorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return apiErr
	}

	// Status text only describes bodies that are not JSON.
	apiErr.Details = ""
	apiErr.Message = strings.TrimSpace(body.Message)
	if body.Error != nil {
		mergeDetail(apiErr, *body.Error)
	}

	if len(body.Errors) > 0 {
		var detail model.ErrorDetail
		var list []string
		switch {
		case json.Unmarshal(body.Errors, &detail) == nil:
			mergeDetail(apiErr, detail)
		case json.Unmarshal(body.Errors, &list) == nil && len(list) > 0:
			apiErr.Details = strings.Join(list, "; ")
		}
	}

	return apiErr
}

func mergeDetail(apiErr *apierror.APIError, detail model.ErrorDetail) {
	if detail.Code != "" {
		apiErr.Code = detail.Code
	}
	if detail.ErrorCode != "" {
		apiErr.ErrorCode = detail.ErrorCode
	}
	if msg := strings.TrimSpace(detail.Message); msg != "" {
		apiErr.Message = msg
	}
	if detail.Email != "" {
		apiErr.Email = detail.Email
	}
	if detail.Details != "" {
		apiErr.Details = detail.Details
	}
}

// IsUnauthorized reports whether err is a 401 from the API.
func IsUnauthorized(err error) bool {
	var apiErr *apierror.APIError
	return errors.As(err, &apiErr) && apiErr.HTTPStatus == http.StatusUnauthorized
}
