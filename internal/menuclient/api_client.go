package menuclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"menu-portal/internal/menu/domain/model"
	"menu-portal/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/sony/gobreaker"
)

const (
	// CollectionPath is the endpoint serving the menu collection
	CollectionPath = "/api/menu-items"

	defaultTimeout          = 10 * time.Second
	defaultFailureThreshold = 5
	defaultOpenTimeout      = 30 * time.Second
)

// StatusError is returned when the endpoint answers with a non-2xx status
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("menu endpoint returned status %d", e.Code)
	}
	return fmt.Sprintf("menu endpoint returned status %d: %s", e.Code, e.Message)
}

// APIClient calls the collection endpoint over HTTP. Transport failures and 5xx responses
// count towards a circuit breaker; once it opens, calls fail fast with gobreaker.ErrOpenState.
type APIClient struct {
	baseURL string
	timeout time.Duration
	breaker *gobreaker.CircuitBreaker
	logger  logger.Logger
}

// APIClientOption configures an APIClient
type APIClientOption func(*apiClientOptions)

type apiClientOptions struct {
	timeout          time.Duration
	failureThreshold uint32
	openTimeout      time.Duration
	logger           logger.Logger
}

// WithTimeout sets the per-request timeout
func WithTimeout(timeout time.Duration) APIClientOption {
	return func(o *apiClientOptions) {
		o.timeout = timeout
	}
}

// WithBreaker sets how many consecutive failures open the breaker and how long it stays open
func WithBreaker(failureThreshold uint32, openTimeout time.Duration) APIClientOption {
	return func(o *apiClientOptions) {
		o.failureThreshold = failureThreshold
		o.openTimeout = openTimeout
	}
}

// WithClientLogger sets the logger
func WithClientLogger(log logger.Logger) APIClientOption {
	return func(o *apiClientOptions) {
		o.logger = log
	}
}

// NewAPIClient creates a client for the endpoint at baseURL
func NewAPIClient(baseURL string, opts ...APIClientOption) *APIClient {
	options := apiClientOptions{
		timeout:          defaultTimeout,
		failureThreshold: defaultFailureThreshold,
		openTimeout:      defaultOpenTimeout,
		logger:           logger.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	log := options.logger.WithComponent("menu_api_client")

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "menu-api",
		Timeout: options.openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= options.failureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warnf("Circuit breaker %s changed from %s to %s", name, from, to)
		},
	})

	return &APIClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		timeout: options.timeout,
		breaker: breaker,
		logger:  log,
	}
}

type listResponse struct {
	Items   []model.MenuItem `json:"items"`
	Warning string           `json:"warning"`
}

type saveRequest struct {
	Items []model.MenuItem `json:"items"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type response struct {
	code int
	body []byte
}

// FetchMenuItems reads the collection. A missing items field decodes as an empty collection.
func (c *APIClient) FetchMenuItems(ctx context.Context) ([]model.MenuItem, error) {
	body, err := c.do(ctx, fiber.Get(c.baseURL+CollectionPath))
	if err != nil {
		return nil, err
	}

	var decoded listResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decode menu items: %w", err)
	}
	if decoded.Warning != "" {
		c.logger.WithContext(ctx).Warnf("Menu endpoint degraded: %s", decoded.Warning)
	}
	if decoded.Items == nil {
		return []model.MenuItem{}, nil
	}
	return decoded.Items, nil
}

// SaveMenuItems overwrites the remote collection
func (c *APIClient) SaveMenuItems(ctx context.Context, items []model.MenuItem) error {
	if items == nil {
		items = []model.MenuItem{}
	}
	_, err := c.do(ctx, fiber.Post(c.baseURL+CollectionPath).JSON(saveRequest{Items: items}))
	return err
}

// State reports the breaker state
func (c *APIClient) State() gobreaker.State {
	return c.breaker.State()
}

func (c *APIClient) do(ctx context.Context, agent *fiber.Agent) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	agent.Timeout(timeout)

	if err := agent.Parse(); err != nil {
		return nil, fmt.Errorf("prepare menu request: %w", err)
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		code, body, errs := agent.Bytes()
		if len(errs) > 0 {
			return nil, errors.Join(errs...)
		}
		if code >= fiber.StatusInternalServerError {
			return nil, newStatusError(code, body)
		}
		return response{code: code, body: body}, nil
	})
	if err != nil {
		c.logger.WithContext(ctx).Debugf("Menu request failed: %v", err)
		return nil, err
	}

	resp := result.(response)
	if resp.code < fiber.StatusOK || resp.code >= fiber.StatusMultipleChoices {
		return nil, newStatusError(resp.code, resp.body)
	}
	return resp.body, nil
}

func newStatusError(code int, body []byte) *StatusError {
	var decoded errorResponse
	_ = json.Unmarshal(body, &decoded)
	return &StatusError{Code: code, Message: decoded.Error}
}
