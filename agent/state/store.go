package state

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

var (
	ErrThreadNotFound  = errors.New("conversation thread not found")
	ErrNilConversation = errors.New("conversation is nil")
	ErrInvalidThread   = errors.New("thread id is empty")
)

const (
	defaultKeyPrefix     = "leadpilot:thread:"
	defaultTTL           = 24 * time.Hour
	maxResponseSizeBytes = 2 << 20
)

// Store persists per-thread conversation memory.
type Store interface {
	Load(ctx context.Context, threadID string) (*Conversation, error)
	Save(ctx context.Context, c *Conversation) error
	Delete(ctx context.Context, threadID string) error
}

// MemoryStore keeps conversations in process memory. This is the default:
// thread memory is best-effort and a restart simply starts threads fresh.
type MemoryStore struct {
	mu      sync.Mutex
	threads map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{threads: make(map[string]string)}
}

func (s *MemoryStore) Load(ctx context.Context, threadID string) (*Conversation, error) {
	if strings.TrimSpace(threadID) == "" {
		return nil, ErrInvalidThread
	}
	s.mu.Lock()
	raw, ok := s.threads[threadID]
	s.mu.Unlock()
	if !ok {
		return nil, ErrThreadNotFound
	}

	var c Conversation
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return nil, fmt.Errorf("unmarshal conversation: %w", err)
	}
	return &c, nil
}

func (s *MemoryStore) Save(ctx context.Context, c *Conversation) error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.UpdatedAt = time.Now().UTC()

	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal conversation: %w", err)
	}
	s.mu.Lock()
	s.threads[c.ThreadID] = string(raw)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, threadID string) error {
	if strings.TrimSpace(threadID) == "" {
		return ErrInvalidThread
	}
	s.mu.Lock()
	delete(s.threads, threadID)
	s.mu.Unlock()
	return nil
}

// StoreOption customizes RedisStore.
type StoreOption func(*RedisStore)

func WithKeyPrefix(prefix string) StoreOption {
	return func(s *RedisStore) {
		trimmed := strings.TrimSpace(prefix)
		if trimmed != "" {
			s.keyPrefix = trimmed
		}
	}
}

func WithTTL(ttl time.Duration) StoreOption {
	return func(s *RedisStore) {
		s.ttl = ttl
	}
}

func WithHTTPClient(client *http.Client) StoreOption {
	return func(s *RedisStore) {
		if client != nil {
			s.httpClient = client
		}
	}
}

// RedisStore persists conversations in Upstash Redis over its REST protocol,
// so thread memory survives restarts and is shared across replicas.
type RedisStore struct {
	baseURL    string
	token      string
	httpClient *http.Client
	keyPrefix  string
	ttl        time.Duration
}

type redisRESTResponse struct {
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error"`
}

type RedisConfig struct {
	URL     string        `envconfig:"URL" split_words:"true"`
	Token   string        `envconfig:"TOKEN" split_words:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"10s"`
}

func NewRedisStore(cfg RedisConfig, opts ...StoreOption) (*RedisStore, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if baseURL == "" {
		return nil, errors.New("redis rest url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid redis rest url: %w", err)
	}

	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, errors.New("redis rest token is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	store := &RedisStore{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		keyPrefix:  defaultKeyPrefix,
		ttl:        defaultTTL,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(store)
		}
	}
	if store.ttl < 0 {
		return nil, errors.New("ttl must be >= 0")
	}
	return store, nil
}

func (s *RedisStore) Load(ctx context.Context, threadID string) (*Conversation, error) {
	key, err := s.redisKey(threadID)
	if err != nil {
		return nil, err
	}

	resp, err := s.exec(ctx, []any{"GET", key})
	if err != nil {
		return nil, err
	}

	result := bytes.TrimSpace(resp.Result)
	if len(result) == 0 || bytes.Equal(result, []byte("null")) {
		return nil, ErrThreadNotFound
	}

	var encoded string
	if err := json.Unmarshal(result, &encoded); err != nil {
		return nil, fmt.Errorf("decode conversation payload: %w", err)
	}

	var c Conversation
	if err := json.Unmarshal([]byte(encoded), &c); err != nil {
		return nil, fmt.Errorf("unmarshal conversation: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid conversation loaded from store: %w", err)
	}
	return &c, nil
}

func (s *RedisStore) Save(ctx context.Context, c *Conversation) error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.UpdatedAt = time.Now().UTC()

	key, err := s.redisKey(c.ThreadID)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal conversation: %w", err)
	}

	cmd := []any{"SET", key, string(payload)}
	if s.ttl > 0 {
		cmd = append(cmd, "EX", ttlSeconds(s.ttl))
	}

	_, err = s.exec(ctx, cmd)
	return err
}

func (s *RedisStore) Delete(ctx context.Context, threadID string) error {
	key, err := s.redisKey(threadID)
	if err != nil {
		return err
	}
	_, err = s.exec(ctx, []any{"DEL", key})
	return err
}

func (s *RedisStore) redisKey(threadID string) (string, error) {
	if strings.TrimSpace(threadID) == "" {
		return "", ErrInvalidThread
	}
	return strings.TrimSpace(s.keyPrefix) + threadID, nil
}

func (s *RedisStore) exec(ctx context.Context, command []any) (*redisRESTResponse, error) {
	if s == nil {
		return nil, errors.New("nil store")
	}
	if len(command) == 0 {
		return nil, errors.New("empty redis command")
	}

	body, err := json.Marshal(command)
	if err != nil {
		return nil, fmt.Errorf("marshal redis command: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build redis request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute redis request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return nil, fmt.Errorf("read redis response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("redis http status=%d body=%s", resp.StatusCode, string(raw))
	}

	var parsed redisRESTResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode redis response: %w", err)
	}
	if parsed.Error != "" {
		return nil, errors.New(parsed.Error)
	}
	return &parsed, nil
}

func ttlSeconds(ttl time.Duration) int64 {
	seconds := ttl / time.Second
	if seconds <= 0 {
		return 1
	}
	if ttl%time.Second != 0 {
		seconds++
	}
	return int64(seconds)
}
