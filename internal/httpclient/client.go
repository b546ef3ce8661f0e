package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Client sends JSON requests to one API host. Every HTTP response, whatever
// its status, comes back as a *Response; only transport failures are errors.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *logrus.Logger
}

// Config holds configuration for the client
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration

	// RateLimit is requests per second. Zero disables throttling.
	RateLimit float64
	Burst     int

	Logger *logrus.Logger
}

func New(cfg Config) *Client {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		apiKey:  strings.TrimSpace(cfg.APIKey),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: limiter,
		logger:  cfg.Logger,
	}
}

// BaseURL returns the host every path is resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get issues a GET request for path with the given query.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return c.do(ctx, http.MethodGet, u, nil)
}

// Post sends body as JSON. A []byte or json.RawMessage body is sent as is,
// which lets callers post payloads no struct can express.
func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	var data []byte
	switch b := body.(type) {
	case nil:
	case []byte:
		data = b
	case json.RawMessage:
		data = b
	default:
		var err error
		data, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
	}
	return c.do(ctx, http.MethodPost, c.baseURL+path, data)
}

func (c *Client) do(ctx context.Context, method, u string, data []byte) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	var body io.Reader
	if data != nil {
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	log := c.logger.WithFields(logrus.Fields{
		"method": method,
		"url":    u,
	})
	if data != nil {
		log.WithField("body", string(data)).Debug("http request")
	} else {
		log.Debug("http request")
	}

	start := time.Now()
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, u, err)
	}
	defer res.Body.Close()

	payload, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	log.WithFields(logrus.Fields{
		"status":   res.StatusCode,
		"duration": time.Since(start),
		"bytes":    len(payload),
	}).Debug("http response")
	c.logger.WithField("data", truncate(payload, 2048)).Trace("http response body")

	return &Response{
		Status:  res.StatusCode,
		Header:  res.Header,
		Body:    payload,
		Method:  method,
		URL:     u,
		Elapsed: time.Since(start),
	}, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
