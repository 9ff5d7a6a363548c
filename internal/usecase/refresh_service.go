package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/cenkalti/backoff/v5"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/fpl-mcp/internal/domain/fixture"
	"github.com/riskibarqy/fpl-mcp/internal/domain/snapshot"
	"github.com/riskibarqy/fpl-mcp/internal/domain/squad"
	"github.com/riskibarqy/fpl-mcp/internal/platform/cache"
	"github.com/riskibarqy/fpl-mcp/internal/platform/logging"
	"github.com/riskibarqy/fpl-mcp/internal/platform/resilience"
)

// Freshness describes the cache entry a query was answered from.
type Freshness struct {
	FetchedAt time.Time
	Age       time.Duration
	Stale     bool
}

// CacheObserver receives cache and refresh events, typically for metrics.
type CacheObserver interface {
	CacheLookup(category string, hit bool)
	Refresh(category string, outcome string, elapsed time.Duration)
}

type nopCacheObserver struct{}

func (nopCacheObserver) CacheLookup(string, bool) {}

func (nopCacheObserver) Refresh(string, string, time.Duration) {}

const (
	RefreshOutcomeSuccess = "success"
	RefreshOutcomeStale   = "stale_fallback"
	RefreshOutcomeFailure = "failure"
)

type RefreshConfig struct {
	// RetryInitialInterval is the wait before the single retry of a failed fetch.
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration
	Logger               *logging.Logger
	Observer             CacheObserver
	// Repository persists snapshots across restarts; nil disables persistence.
	Repository snapshot.Repository
}

// RefreshService keeps the cache fresh. It is the only component that talks
// to the upstream source.
type RefreshService struct {
	source     snapshot.Source
	store      *cache.Store
	repository snapshot.Repository
	logger     *logging.Logger
	observer   CacheObserver
	flight     resilience.Group[cache.Entry]
	newBackOff func() backoff.BackOff
}

func NewRefreshService(source snapshot.Source, store *cache.Store, cfg RefreshConfig) *RefreshService {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	observer := cfg.Observer
	if observer == nil {
		observer = nopCacheObserver{}
	}
	initial := cfg.RetryInitialInterval
	if initial <= 0 {
		initial = 500 * time.Millisecond
	}
	maxInterval := cfg.RetryMaxInterval
	if maxInterval < initial {
		maxInterval = 4 * initial
	}

	return &RefreshService{
		source:     source,
		store:      store,
		repository: cfg.Repository,
		logger:     logger,
		observer:   observer,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = initial
			b.MaxInterval = maxInterval
			return b
		},
	}
}

// Bootstrap returns the current players/teams/gameweeks generation.
func (s *RefreshService) Bootstrap(ctx context.Context) (*snapshot.Bootstrap, Freshness, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RefreshService.Bootstrap")
	defer span.End()

	entry, err := s.ensure(ctx, cache.LeagueKey(cache.CategoryBootstrap), false, s.loadBootstrap)
	if err != nil {
		return nil, Freshness{}, err
	}
	return entry.Value.(*snapshot.Bootstrap), freshnessOf(entry), nil
}

// Fixtures returns the current fixtures generation together with the
// bootstrap it was validated against.
func (s *RefreshService) Fixtures(ctx context.Context) (*snapshot.Fixtures, Freshness, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RefreshService.Fixtures")
	defer span.End()

	entry, err := s.ensure(ctx, cache.LeagueKey(cache.CategoryFixtures), false, s.loadFixtures)
	if err != nil {
		return nil, Freshness{}, err
	}
	return entry.Value.(*snapshot.Fixtures), freshnessOf(entry), nil
}

// ManagerSquad returns a manager's squad. The authenticated view and the
// public picks for gameweek are cached separately.
func (s *RefreshService) ManagerSquad(ctx context.Context, managerID int, authenticated bool, gameweek int) (squad.Squad, Freshness, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RefreshService.ManagerSquad",
		attribute.Int("fpl.manager_id", managerID),
		attribute.Bool("fpl.authenticated", authenticated),
		attribute.Int("fpl.gameweek", gameweek),
	)
	defer span.End()

	key := squadKey(managerID, authenticated, gameweek)
	entry, err := s.ensure(ctx, key, false, func(ctx context.Context) (any, error) {
		if authenticated {
			out, err := s.source.FetchMyTeam(ctx, managerID)
			if err != nil {
				return nil, err
			}
			out.Gameweek = gameweek
			return out, nil
		}
		return s.source.FetchManagerPicks(ctx, managerID, gameweek)
	})
	if err != nil {
		return squad.Squad{}, Freshness{}, err
	}
	return entry.Value.(squad.Squad), freshnessOf(entry), nil
}

// ResolveManagerID asks the upstream which manager owns the configured token.
func (s *RefreshService) ResolveManagerID(ctx context.Context) (int, error) {
	id, err := s.source.FetchMe(ctx)
	if err != nil {
		if isPermanentFetchError(err) {
			return 0, err
		}
		return 0, fmt.Errorf("%w: resolve manager id: %w", ErrUpstreamUnavailable, err)
	}
	return id, nil
}

func (s *RefreshService) HasToken() bool {
	return s.source.HasToken()
}

// CategoryResult is the outcome of refreshing one category.
type CategoryResult struct {
	Category  string
	FetchedAt time.Time
	Err       error
}

// ForceRefresh refetches one league-wide category regardless of freshness.
// On failure the previous snapshot is kept.
func (s *RefreshService) ForceRefresh(ctx context.Context, category cache.Category) (CategoryResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RefreshService.ForceRefresh", attribute.String("fpl.category", string(category)))
	defer span.End()

	var load func(context.Context) (any, error)
	switch category {
	case cache.CategoryBootstrap:
		load = s.loadBootstrap
	case cache.CategoryFixtures:
		load = s.loadFixtures
	case cache.CategoryManagerSquad:
		s.store.Invalidate(category)
		return CategoryResult{Category: string(category)}, nil
	default:
		return CategoryResult{}, fmt.Errorf("%w: unknown cache category %q", ErrInvalidInput, category)
	}

	entry, err := s.ensure(ctx, cache.LeagueKey(category), true, load)
	if err != nil {
		recordSpanError(span, err)
		return CategoryResult{Category: string(category), Err: err}, err
	}
	return CategoryResult{Category: string(category), FetchedAt: entry.FetchedAt}, nil
}

// RefreshAll refetches bootstrap then fixtures, so fixtures are validated
// against the new generation, and marks every cached squad stale.
func (s *RefreshService) RefreshAll(ctx context.Context) ([]CategoryResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RefreshService.RefreshAll")
	defer span.End()

	results := make([]CategoryResult, 0, 3)
	var errs []error
	for _, category := range []cache.Category{cache.CategoryBootstrap, cache.CategoryFixtures, cache.CategoryManagerSquad} {
		result, err := s.ForceRefresh(ctx, category)
		results = append(results, result)
		if err != nil {
			errs = append(errs, fmt.Errorf("refresh %s: %w", category, err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		recordSpanError(span, err)
		s.logger.WarnContext(ctx, "cache refresh finished with failures", "error", err)
		return results, err
	}
	s.logger.InfoContext(ctx, "cache refreshed", "categories", len(results))
	return results, nil
}

// EntryStatus describes one cache entry for status reporting.
type EntryStatus struct {
	Category  string
	Scope     string
	FetchedAt time.Time
	Age       time.Duration
	TTL       time.Duration
	Fresh     bool
	Items     int
}

func (s *RefreshService) Status() []EntryStatus {
	entries := s.store.Entries()
	out := make([]EntryStatus, 0, len(entries))
	for _, entry := range entries {
		out = append(out, EntryStatus{
			Category:  string(entry.Key.Category),
			Scope:     entry.Key.Scope,
			FetchedAt: entry.FetchedAt,
			Age:       entry.Age,
			TTL:       s.store.TTL(entry.Key.Category),
			Fresh:     entry.Fresh,
			Items:     itemCount(entry.Value),
		})
	}
	return out
}

func (s *RefreshService) ensure(ctx context.Context, key cache.Key, force bool, load func(context.Context) (any, error)) (cache.Entry, error) {
	category := string(key.Category)
	if !force {
		if entry, ok := s.store.Get(key); ok && entry.Fresh {
			s.observer.CacheLookup(category, true)
			return entry, nil
		}
		s.observer.CacheLookup(category, false)
	}

	// Forced and regular refreshes share one flight per key. A forced caller
	// that joins an in-flight fetch gets that fetch's result.
	entry, shared, err := s.flight.Do(ctx, key.String(), func(ctx context.Context) (cache.Entry, error) {
		if !force {
			if entry, ok := s.store.Get(key); ok && entry.Fresh {
				return entry, nil
			}
		}

		startedAt := time.Now()
		value, err := s.fetchWithRetry(ctx, key, load)
		if err != nil {
			s.observer.Refresh(category, RefreshOutcomeFailure, time.Since(startedAt))
			return cache.Entry{}, err
		}
		s.observer.Refresh(category, RefreshOutcomeSuccess, time.Since(startedAt))
		return s.store.Put(key, value), nil
	})
	if err == nil {
		if shared {
			s.logger.DebugContext(ctx, "joined in-flight cache refresh", "key", key.String())
		}
		return entry, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return cache.Entry{}, err
	}
	if isPermanentFetchError(err) {
		return cache.Entry{}, err
	}
	if !force {
		if stale, ok := s.store.Get(key); ok {
			s.observer.Refresh(category, RefreshOutcomeStale, 0)
			s.logger.WarnContext(ctx, "upstream refresh failed, serving stale snapshot",
				"key", key.String(),
				"age", stale.Age.String(),
				"error", err,
			)
			stale.Fresh = false
			return stale, nil
		}
	}

	return cache.Entry{}, fmt.Errorf("%w: refresh %s: %w", ErrUpstreamUnavailable, key.String(), err)
}

// fetchWithRetry runs load and retries once with backoff. Credential, lookup
// and open-circuit errors are not retried.
func (s *RefreshService) fetchWithRetry(ctx context.Context, key cache.Key, load func(context.Context) (any, error)) (any, error) {
	attempt := 0
	return backoff.Retry(ctx, func() (any, error) {
		attempt++
		value, err := load(ctx)
		if err == nil {
			return value, nil
		}
		if isPermanentFetchError(err) || errors.Is(err, resilience.ErrCircuitOpen) {
			return nil, backoff.Permanent(err)
		}
		s.logger.WarnContext(ctx, "upstream fetch failed", "key", key.String(), "attempt", attempt, "error", err)
		return nil, err
	},
		backoff.WithBackOff(s.newBackOff()),
		backoff.WithMaxTries(2),
	)
}

func (s *RefreshService) loadBootstrap(ctx context.Context) (any, error) {
	return s.source.FetchBootstrap(ctx)
}

// loadFixtures validates the fetched fixtures against the bootstrap in hand,
// stale or not, so every fixture's teams resolve within its generation.
func (s *RefreshService) loadFixtures(ctx context.Context) (any, error) {
	bootstrap, _, err := s.Bootstrap(ctx)
	if err != nil {
		return nil, err
	}
	items, err := s.source.FetchFixtures(ctx, nil)
	if err != nil {
		return nil, err
	}
	out, err := snapshot.NewFixtures(items, bootstrap)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}
	return out, nil
}

// Init restores persisted snapshots. Restored entries keep their original
// fetch time, so expired ones are refetched on first use.
func (s *RefreshService) Init(ctx context.Context) error {
	if s.repository == nil {
		return nil
	}

	blobs, err := s.repository.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("load persisted snapshots: %w", err)
	}

	var bootstrap *snapshot.Bootstrap
	restored := 0
	// bootstrap first, fixtures are validated against it
	for _, blob := range orderBlobs(blobs) {
		value, err := decodeBlob(blob, bootstrap)
		if err != nil {
			s.logger.WarnContext(ctx, "skip unreadable persisted snapshot", "category", blob.Category, "scope", blob.Scope, "error", err)
			continue
		}
		if b, ok := value.(*snapshot.Bootstrap); ok {
			bootstrap = b
		}
		key := cache.ScopedKey(cache.Category(blob.Category), blob.Scope)
		if s.store.Restore(key, value, blob.FetchedAt) {
			restored++
		}
	}

	s.logger.InfoContext(ctx, "restored persisted snapshots", "count", restored)
	return nil
}

// Teardown flushes every cached snapshot to the repository.
func (s *RefreshService) Teardown(ctx context.Context) error {
	if s.repository == nil {
		return nil
	}

	entries := s.store.Entries()
	p := pool.NewWithResults[snapshot.Blob]().WithErrors().WithMaxGoroutines(4)
	for _, entry := range entries {
		p.Go(func() (snapshot.Blob, error) {
			return encodeBlob(entry)
		})
	}
	blobs, err := p.Wait()
	if err != nil {
		return fmt.Errorf("encode snapshots: %w", err)
	}

	if err := s.repository.SaveAll(ctx, blobs); err != nil {
		return fmt.Errorf("persist snapshots: %w", err)
	}
	s.logger.InfoContext(ctx, "persisted snapshots", "count", len(blobs))
	return nil
}

type fixturesBlob struct {
	Fixtures []fixture.Fixture `json:"fixtures"`
}

func encodeBlob(entry cache.Entry) (snapshot.Blob, error) {
	var (
		payload []byte
		err     error
	)
	switch v := entry.Value.(type) {
	case *snapshot.Bootstrap:
		payload, err = sonic.Marshal(v.Data())
	case *snapshot.Fixtures:
		payload, err = sonic.Marshal(fixturesBlob{Fixtures: v.All()})
	case squad.Squad:
		payload, err = sonic.Marshal(v)
	default:
		return snapshot.Blob{}, fmt.Errorf("unsupported snapshot type %T for %s", entry.Value, entry.Key.String())
	}
	if err != nil {
		return snapshot.Blob{}, fmt.Errorf("marshal %s: %w", entry.Key.String(), err)
	}

	return snapshot.Blob{
		Category:  string(entry.Key.Category),
		Scope:     entry.Key.Scope,
		FetchedAt: entry.FetchedAt,
		Payload:   payload,
	}, nil
}

func decodeBlob(blob snapshot.Blob, bootstrap *snapshot.Bootstrap) (any, error) {
	switch cache.Category(blob.Category) {
	case cache.CategoryBootstrap:
		var data snapshot.BootstrapData
		if err := sonic.Unmarshal(blob.Payload, &data); err != nil {
			return nil, err
		}
		return snapshot.NewBootstrapFromData(data)
	case cache.CategoryFixtures:
		if bootstrap == nil {
			return nil, errors.New("no restored bootstrap to validate fixtures against")
		}
		var data fixturesBlob
		if err := sonic.Unmarshal(blob.Payload, &data); err != nil {
			return nil, err
		}
		return snapshot.NewFixtures(data.Fixtures, bootstrap)
	case cache.CategoryManagerSquad:
		var out squad.Squad
		if err := sonic.Unmarshal(blob.Payload, &out); err != nil {
			return nil, err
		}
		return out, out.Validate()
	default:
		return nil, fmt.Errorf("unknown category %q", blob.Category)
	}
}

func orderBlobs(blobs []snapshot.Blob) []snapshot.Blob {
	rank := func(category string) int {
		switch cache.Category(category) {
		case cache.CategoryBootstrap:
			return 0
		case cache.CategoryFixtures:
			return 1
		default:
			return 2
		}
	}
	out := append([]snapshot.Blob(nil), blobs...)
	sort.SliceStable(out, func(i, j int) bool { return rank(out[i].Category) < rank(out[j].Category) })
	return out
}

func squadKey(managerID int, authenticated bool, gameweek int) cache.Key {
	scope := strconv.Itoa(managerID)
	if authenticated {
		scope += ":auth"
	} else {
		scope += ":gw" + strconv.Itoa(gameweek)
	}
	return cache.ScopedKey(cache.CategoryManagerSquad, scope)
}

func freshnessOf(entry cache.Entry) Freshness {
	return Freshness{FetchedAt: entry.FetchedAt, Age: entry.Age, Stale: !entry.Fresh}
}

func itemCount(value any) int {
	switch v := value.(type) {
	case *snapshot.Bootstrap:
		return v.PlayerCount()
	case *snapshot.Fixtures:
		return v.Len()
	case squad.Squad:
		return len(v.Picks)
	default:
		return 0
	}
}

// isPermanentFetchError reports errors that another attempt cannot fix and
// that must not be masked by stale data.
func isPermanentFetchError(err error) bool {
	return errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, context.Canceled)
}
