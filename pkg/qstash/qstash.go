package qstash

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Config configures the Upstash QStash publisher. Token is optional: with no
// token the client is disabled and Publish calls become no-ops, so local
// setups run without a QStash account.
type Config struct {
	URL     string        `split_words:"true" default:"https://qstash.upstash.io"`
	Token   string        `split_words:"true"`
	Timeout time.Duration `split_words:"true" default:"10s"`
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.URL)
	if baseURL == "" {
		return nil, errors.New("qstash url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   strings.TrimSpace(cfg.Token),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

func MustNew(cfg Config) *Client {
	client, err := NewClient(cfg)
	if err != nil {
		panic(err)
	}
	return client
}

// Enabled reports whether the client holds a token and will actually
// publish.
func (c *Client) Enabled() bool {
	return c != nil && c.token != ""
}

type publishResponse struct {
	MessageID string `json:"messageId"`
}

// PublishJSON enqueues a JSON message for delivery to destination after the
// given delay. It returns the QStash message id, or "" when the client is
// disabled.
func (c *Client) PublishJSON(ctx context.Context, destination string, body any, delay time.Duration) (string, error) {
	if !c.Enabled() {
		return "", nil
	}
	destination = strings.TrimSpace(destination)
	if destination == "" {
		return "", errors.New("qstash destination is required")
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal qstash payload: %w", err)
	}

	endpoint := c.baseURL + "/v2/publish/" + destination
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build qstash request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	if delay > 0 {
		req.Header.Set("Upstash-Delay", strconv.Itoa(int(delay.Seconds()))+"s")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("qstash publish: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read qstash response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("qstash publish status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var out publishResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("decode qstash response: %w", err)
	}
	return out.MessageID, nil
}
