// Package fplapi reads league data from the public Fantasy Premier League API.
package fplapi

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	"github.com/riskibarqy/fpl-mcp/internal/domain/fixture"
	"github.com/riskibarqy/fpl-mcp/internal/domain/snapshot"
	"github.com/riskibarqy/fpl-mcp/internal/domain/squad"
	"github.com/riskibarqy/fpl-mcp/internal/platform/logging"
	"github.com/riskibarqy/fpl-mcp/internal/platform/resilience"
	"github.com/riskibarqy/fpl-mcp/internal/usecase"
)

const (
	defaultBaseURL   = "https://fantasy.premierleague.com/api"
	defaultUserAgent = "fpl-mcp/1.0"
	authHeader       = "X-API-Authorization"
	maxBodyBytes     = 16 << 20
)

var errTransient = crerr.New("fpl api transient failure")

// RequestObserver is told about every finished upstream request.
type RequestObserver func(endpoint string, status string, elapsed time.Duration)

type ClientConfig struct {
	HTTPClient        *http.Client
	BaseURL           string
	Token             string
	UserAgent         string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	Logger            *logging.Logger
	CircuitBreaker    resilience.CircuitBreakerConfig
	Observer          RequestObserver
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	userAgent      string
	logger         *logging.Logger
	limiter        *rate.Limiter
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	observe        RequestObserver
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 15 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	observe := cfg.Observer
	if observe == nil {
		observe = func(string, string, time.Duration) {}
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		token:          strings.TrimSpace(cfg.Token),
		userAgent:      userAgent,
		logger:         logger,
		limiter:        rate.NewLimiter(limit, burst),
		breaker:        resilience.NewCircuitBreaker(breakerCfg),
		circuitEnabled: breakerCfg.Enabled,
		observe:        observe,
	}
}

// HasToken reports whether authenticated endpoints can be called.
func (c *Client) HasToken() bool {
	return c.token != ""
}

func (c *Client) FetchBootstrap(ctx context.Context) (*snapshot.Bootstrap, error) {
	var payload bootstrapPayload
	if err := c.getJSON(ctx, "bootstrap", "/bootstrap-static/", false, &payload); err != nil {
		return nil, err
	}
	b, skipped, err := mapBootstrap(payload)
	if err != nil {
		return nil, err
	}
	if len(skipped) > 0 {
		c.logger.WarnContext(ctx, "fpl api bootstrap skipped non-player elements", "count", len(skipped), "element_ids", skipped)
	}
	return b, nil
}

// FetchFixtures returns the season's fixtures, or one gameweek's when
// gameweek is set.
func (c *Client) FetchFixtures(ctx context.Context, gameweek *int) ([]fixture.Fixture, error) {
	path := "/fixtures/"
	if gameweek != nil {
		path = fmt.Sprintf("/fixtures/?event=%d", *gameweek)
	}

	var payload []fixturePayload
	if err := c.getJSON(ctx, "fixtures", path, false, &payload); err != nil {
		return nil, err
	}
	return mapFixtures(payload)
}

// FetchManagerPicks reads the public picks of a manager for one gameweek.
func (c *Client) FetchManagerPicks(ctx context.Context, managerID, gameweek int) (squad.Squad, error) {
	if managerID <= 0 || gameweek <= 0 {
		return squad.Squad{}, fmt.Errorf("%w: manager id and gameweek must be > 0", usecase.ErrInvalidInput)
	}

	var payload picksPayload
	path := fmt.Sprintf("/entry/%d/event/%d/picks/", managerID, gameweek)
	if err := c.getJSON(ctx, "entry_picks", path, false, &payload); err != nil {
		return squad.Squad{}, err
	}
	return mapPublicSquad(managerID, gameweek, payload)
}

// FetchMyTeam reads the authenticated view of a manager's squad, including
// selling prices, chips and transfer state.
func (c *Client) FetchMyTeam(ctx context.Context, managerID int) (squad.Squad, error) {
	if managerID <= 0 {
		return squad.Squad{}, fmt.Errorf("%w: manager id must be > 0", usecase.ErrInvalidInput)
	}

	var payload myTeamPayload
	if err := c.getJSON(ctx, "my_team", fmt.Sprintf("/my-team/%d/", managerID), true, &payload); err != nil {
		return squad.Squad{}, err
	}
	return mapMyTeam(managerID, payload)
}

// FetchMe resolves the manager id that owns the configured token.
func (c *Client) FetchMe(ctx context.Context) (int, error) {
	var payload mePayload
	if err := c.getJSON(ctx, "me", "/me/", true, &payload); err != nil {
		return 0, err
	}
	if payload.Player == nil || payload.Player.Entry == nil || *payload.Player.Entry <= 0 {
		return 0, markKind(usecase.ErrNotFound, crerr.New("token owner has no fantasy entry"))
	}
	return *payload.Player.Entry, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint, path string, authenticated bool, target any) error {
	if authenticated && c.token == "" {
		return markKind(usecase.ErrUnauthorized, crerr.Newf("%s requires an api token", endpoint))
	}
	var raw []byte
	request := func() error {
		var err error
		raw, err = c.execute(ctx, endpoint, path, authenticated)
		return err
	}
	if !c.circuitEnabled {
		if err := request(); err != nil {
			return err
		}
	} else if err := c.breaker.Execute(request, isCircuitFailure); err != nil {
		if stderrors.Is(err, resilience.ErrCircuitOpen) {
			c.logger.WarnContext(ctx, "fpl api circuit breaker rejected request", "endpoint", endpoint, "state", c.breaker.State())
			return markKind(usecase.ErrUpstreamUnavailable, crerr.Wrap(err, "fpl api is temporarily unavailable"))
		}
		return err
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return malformed(err, "decode %s payload", endpoint)
	}
	return nil
}

func (c *Client) execute(ctx context.Context, endpoint, path string, authenticated bool) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, markKind(usecase.ErrUpstreamUnavailable, crerr.Wrap(err, "wait for rate limiter"))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, crerr.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if authenticated {
		req.Header.Set(authHeader, c.token)
	}

	startedAt := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(endpoint, "error", time.Since(startedAt))
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, markKind(usecase.ErrUpstreamUnavailable, ctxErr)
		}
		c.logger.WarnContext(ctx, "fpl api request failed", "endpoint", endpoint, "error", sanitizeSensitiveText(err.Error(), c.token))
		return nil, markKind(
			usecase.ErrUpstreamUnavailable,
			crerr.Wrapf(errTransient, "send %s request: %s", endpoint, sanitizeSensitiveText(err.Error(), c.token)),
		)
	}
	defer resp.Body.Close()

	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	c.observe(endpoint, fmt.Sprintf("%d", resp.StatusCode), time.Since(startedAt))
	if readErr != nil {
		return nil, markKind(usecase.ErrUpstreamUnavailable, crerr.Wrapf(errTransient, "read %s body: %v", endpoint, readErr))
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return raw, nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, markKind(usecase.ErrUnauthorized, crerr.Newf("%s rejected credentials: status=%d", endpoint, resp.StatusCode))
	case resp.StatusCode == http.StatusNotFound:
		return nil, markKind(usecase.ErrNotFound, crerr.Newf("%s not found: path=%s", endpoint, path))
	case isRetryableStatus(resp.StatusCode):
		c.logger.WarnContext(ctx, "fpl api returned retryable status", "endpoint", endpoint, "status", resp.StatusCode)
		return nil, markKind(
			usecase.ErrUpstreamUnavailable,
			crerr.Wrapf(errTransient, "%s status=%d body=%s", endpoint, resp.StatusCode, abbreviateBody(raw)),
		)
	default:
		return nil, markKind(
			usecase.ErrUpstreamUnavailable,
			crerr.Newf("%s status=%d body=%s", endpoint, resp.StatusCode, abbreviateBody(raw)),
		)
	}
}

// isCircuitFailure counts only failures that say something about upstream
// health; credential and lookup errors do not trip the breaker.
func isCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	if stderrors.Is(err, context.Canceled) {
		return false
	}
	return stderrors.Is(err, errTransient)
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func abbreviateBody(raw []byte) string {
	const limit = 256
	body := strings.TrimSpace(string(raw))
	if len(body) > limit {
		return body[:limit] + "..."
	}
	return body
}

func sanitizeSensitiveText(value, token string) string {
	value = strings.TrimSpace(value)
	if value == "" || token == "" {
		return value
	}
	return strings.ReplaceAll(value, token, "REDACTED")
}
