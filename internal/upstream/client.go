package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	pkgerrors "github.com/santelink/provider-portal/pkg/errors"
	"github.com/santelink/provider-portal/pkg/logger"
	"github.com/santelink/provider-portal/pkg/metrics"
)

// TokenSource supplies and persists the platform tokens for one portal session.
// The client is the only writer on refresh; login/logout stay with the session
// manager.
type TokenSource interface {
	Tokens(ctx context.Context) (TokenPair, error)
	StoreAccess(ctx context.Context, accessToken string) error
	Invalidate(ctx context.Context) error
}

// Options configures the supply-platform client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *logger.Logger
	Metrics    *metrics.UpstreamMetrics
}

// Client is the single point of contact with the supply platform. It injects
// bearer tokens, normalizes errors, and recovers from an expired access token
// exactly once per request.
type Client struct {
	baseURL  *url.URL
	http     *http.Client
	timeout  time.Duration
	logg     *logger.Logger
	metrics  *metrics.UpstreamMetrics
	validate *validator.Validate
}

// New builds a client for the given platform base URL.
func New(opts Options) (*Client, error) {
	parsed, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing upstream base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("upstream base url must be http or https, got %q", opts.BaseURL)
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:  parsed,
		http:     httpClient,
		timeout:  timeout,
		logg:     opts.Logger,
		metrics:  opts.Metrics,
		validate: validator.New(),
	}, nil
}

type call struct {
	endpoint string
	method   string
	path     string
	query    url.Values
	headers  map[string]string
	body     any
	out      any
}

// do runs one platform call with the per-request timeout, the bearer header
// when a token source is present, and the single 401 refresh-retry.
func (c *Client) do(ctx context.Context, ts TokenSource, req call) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var payload []byte
	if req.body != nil {
		encoded, err := json.Marshal(req.body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode request body")
		}
		payload = encoded
	}

	access := ""
	if ts != nil {
		tokens, err := ts.Tokens(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "load session tokens")
		}
		access = tokens.AccessToken
	}

	status, err := c.attempt(ctx, req, payload, access)
	if status != http.StatusUnauthorized || ts == nil {
		return err
	}

	// Expired access token: refresh once, retry once, then give up.
	if !c.refresh(ctx, ts) {
		if invErr := ts.Invalidate(ctx); invErr != nil && c.logg != nil {
			c.logg.Warn(c.logg.WithField(ctx, "endpoint", req.endpoint), "failed to invalidate session tokens")
		}
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication failed")
	}

	tokens, tokErr := ts.Tokens(ctx)
	if tokErr != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUnauthorized, tokErr, "reload session tokens")
	}
	_, err = c.attempt(ctx, req, payload, tokens.AccessToken)
	return err
}

// attempt issues a single HTTP round trip and decodes the success payload.
// The returned status is zero for transport failures.
func (c *Client) attempt(ctx context.Context, req call, payload []byte, access string) (int, error) {
	target := *c.baseURL
	target.Path = strings.TrimRight(target.Path, "/") + req.path
	if len(req.query) > 0 {
		target.RawQuery = req.query.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method, target.String(), body)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build request")
	}
	httpReq.Header.Set("Accept", "application/json")
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if access != "" {
		httpReq.Header.Set("Authorization", "Bearer "+access)
	}
	for key, value := range req.headers {
		httpReq.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.metrics.ObserveRequestError(req.endpoint, time.Since(start))
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, req.endpoint+" request failed")
	}
	defer resp.Body.Close()
	c.metrics.ObserveRequest(req.endpoint, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, c.errorFromResponse(req.endpoint, resp)
	}

	if req.out == nil {
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(req.out); err != nil {
		return resp.StatusCode, pkgerrors.Wrap(pkgerrors.CodeDependency, err, req.endpoint+" returned malformed JSON")
	}
	if err := c.validatePayload(req.out); err != nil {
		return resp.StatusCode, pkgerrors.Wrap(pkgerrors.CodeDependency, err, req.endpoint+" returned an invalid payload")
	}
	return resp.StatusCode, nil
}

// refresh exchanges the stored refresh token for a new access token. It never
// returns an error; any failure reports false so the caller can bail out.
func (c *Client) refresh(ctx context.Context, ts TokenSource) bool {
	tokens, err := ts.Tokens(ctx)
	if err != nil || tokens.RefreshToken == "" {
		c.metrics.IncRefresh("failure")
		return false
	}

	var refreshed struct {
		AccessToken string `json:"access_token"`
	}
	_, err = c.attempt(ctx, call{
		endpoint: "auth.refresh",
		method:   http.MethodPost,
		path:     "/auth/refresh",
		out:      &refreshed,
	}, mustMarshal(map[string]string{"refreshToken": tokens.RefreshToken}), "")
	if err != nil || refreshed.AccessToken == "" {
		c.metrics.IncRefresh("failure")
		return false
	}

	if err := ts.StoreAccess(ctx, refreshed.AccessToken); err != nil {
		c.metrics.IncRefresh("failure")
		return false
	}
	c.metrics.IncRefresh("success")
	return true
}

// errorFromResponse extracts a human-readable message from a JSON error body,
// falling back to the raw status code.
func (c *Client) errorFromResponse(endpoint string, resp *http.Response) error {
	message := ""
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err == nil && len(raw) > 0 {
		var envelope struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &envelope) == nil {
			if envelope.Error.Message != "" {
				message = envelope.Error.Message
			} else if envelope.Message != "" {
				message = envelope.Message
			}
		}
	}
	if message == "" {
		message = fmt.Sprintf("%s returned status %d", endpoint, resp.StatusCode)
	}
	return pkgerrors.New(codeForStatus(resp.StatusCode), message)
}

func codeForStatus(status int) pkgerrors.Code {
	switch status {
	case http.StatusBadRequest:
		return pkgerrors.CodeValidation
	case http.StatusUnauthorized:
		return pkgerrors.CodeUnauthorized
	case http.StatusForbidden:
		return pkgerrors.CodeForbidden
	case http.StatusNotFound:
		return pkgerrors.CodeNotFound
	case http.StatusUnprocessableEntity:
		return pkgerrors.CodeStateConflict
	default:
		return pkgerrors.CodeDependency
	}
}

// validatePayload rejects malformed platform responses instead of letting
// half-empty records flow into the portal.
func (c *Client) validatePayload(out any) error {
	value := reflect.ValueOf(out)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return nil
		}
		value = value.Elem()
	}
	switch value.Kind() {
	case reflect.Struct:
		return c.validate.Struct(value.Interface())
	case reflect.Slice:
		for i := 0; i < value.Len(); i++ {
			if value.Index(i).Kind() != reflect.Struct {
				return nil
			}
			if err := c.validate.Struct(value.Index(i).Interface()); err != nil {
				return err
			}
		}
	}
	return nil
}

func mustMarshal(body any) []byte {
	encoded, err := json.Marshal(body)
	if err != nil {
		panic(err)
	}
	return encoded
}
