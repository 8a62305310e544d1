package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"heartlink/internal/apierr"
	"heartlink/internal/metrics"
)

var validate = validator.New()

// TokenSource supplies the bearer credential for authenticated calls.
type TokenSource interface {
	Token() (string, error)
}

// Client talks to the HeartLink HTTP/JSON API.
type Client struct {
	baseURL string
	client  *http.Client
	tokens  TokenSource
	logger  zerolog.Logger
}

// Options configures Client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zerolog.Logger
}

// New builds a Client. tokens is consulted before every authenticated call.
func New(tokens TokenSource, opts Options) *Client {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = opts.Logger.With().Str("component", "gateway").Logger()
	}

	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		client:  httpClient,
		tokens:  tokens,
		logger:  logger,
	}
}

type call struct {
	op      string
	method  string
	path    string
	auth    bool
	body    interface{}
	failMsg string
}

type errorBody struct {
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, req call, out interface{}) (err error) {
	start := time.Now()
	defer func() {
		result := metrics.ResultOK
		if err != nil {
			result = metrics.ResultError
		}
		metrics.GatewayRequests.WithLabelValues(req.op, result).Inc()
		metrics.GatewayDuration.WithLabelValues(req.op).Observe(time.Since(start).Seconds())
	}()

	var token string
	if req.auth {
		if c.tokens == nil {
			return apierr.ErrAuthenticationRequired
		}
		token, err = c.tokens.Token()
		if err != nil {
			return err
		}
	}

	var payload io.Reader
	if req.body != nil {
		if err := validate.Struct(req.body); err != nil {
			return fmt.Errorf("%s: invalid request: %w", req.op, err)
		}
		body, err := json.Marshal(req.body)
		if err != nil {
			return err
		}
		payload = bytes.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, payload)
	if err != nil {
		return err
	}
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		c.logger.Debug().Err(err).Str("operation", req.op).Msg("request failed")
		return &apierr.APIError{Message: apierr.NetworkErrorMessage, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg := req.failMsg
		var body errorBody
		if decodeErr := json.NewDecoder(resp.Body).Decode(&body); decodeErr == nil && body.Message != "" {
			msg = body.Message
		}
		return &apierr.APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return &apierr.APIError{StatusCode: resp.StatusCode, Message: apierr.NetworkErrorMessage, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
