// Package cache holds the latest snapshot per data category together with
// the time it was fetched. Values are published by pointer swap and never
// mutated afterwards, so readers need no locks once they hold an Entry.
package cache

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type Category string

const (
	CategoryBootstrap    Category = "bootstrap"
	CategoryFixtures     Category = "fixtures"
	CategoryManagerSquad Category = "manager_squad"
)

// Key addresses one snapshot. League-wide data has an empty Scope; manager
// squads are scoped by manager id.
type Key struct {
	Category Category
	Scope    string
}

func LeagueKey(category Category) Key {
	return Key{Category: category}
}

func ScopedKey(category Category, scope string) Key {
	return Key{Category: category, Scope: scope}
}

func (k Key) String() string {
	if k.Scope == "" {
		return string(k.Category)
	}
	return string(k.Category) + ":" + k.Scope
}

// Entry is a point-in-time view of a cached snapshot.
type Entry struct {
	Key       Key
	Value     any
	FetchedAt time.Time
	Age       time.Duration
	Fresh     bool
}

type record struct {
	value       any
	fetchedAt   time.Time
	invalidated bool
}

type Config struct {
	TTLs       map[Category]time.Duration
	DefaultTTL time.Duration
	// MaxScoped bounds the number of scoped entries (manager squads).
	MaxScoped int
}

type Store struct {
	ttls       map[Category]time.Duration
	defaultTTL time.Duration
	slots      map[Category]*atomic.Pointer[record]

	scopedMu sync.Mutex
	scoped   *lru.Cache[Key, *record]

	now func() time.Time
}

func NewStore(cfg Config) *Store {
	defaultTTL := cfg.DefaultTTL
	if defaultTTL <= 0 {
		defaultTTL = 5 * time.Minute
	}
	maxScoped := cfg.MaxScoped
	if maxScoped <= 0 {
		maxScoped = 64
	}

	ttls := make(map[Category]time.Duration, len(cfg.TTLs))
	for category, ttl := range cfg.TTLs {
		ttls[category] = ttl
	}

	slots := make(map[Category]*atomic.Pointer[record], 2)
	for _, category := range []Category{CategoryBootstrap, CategoryFixtures} {
		slots[category] = &atomic.Pointer[record]{}
	}

	// lru.New only fails on a non-positive size.
	scoped, _ := lru.New[Key, *record](maxScoped)

	return &Store{
		ttls:       ttls,
		defaultTTL: defaultTTL,
		slots:      slots,
		scoped:     scoped,
		now:        time.Now,
	}
}

func (s *Store) TTL(category Category) time.Duration {
	if ttl, ok := s.ttls[category]; ok && ttl > 0 {
		return ttl
	}
	return s.defaultTTL
}

// Get returns the current snapshot for key. ok is false only when nothing has
// ever been stored; a stale or invalidated snapshot is still returned.
func (s *Store) Get(key Key) (Entry, bool) {
	rec := s.load(key)
	if rec == nil {
		return Entry{}, false
	}
	return s.entry(key, rec), true
}

// Put publishes value as the newest snapshot for key and resets its age.
func (s *Store) Put(key Key, value any) Entry {
	rec := &record{value: value, fetchedAt: s.now()}
	s.store(key, rec)
	return s.entry(key, rec)
}

// Restore seeds key with a previously persisted snapshot, keeping its original
// fetch time so freshness is judged against when the data was really fetched.
// A snapshot already present wins over the restored one.
func (s *Store) Restore(key Key, value any, fetchedAt time.Time) bool {
	rec := &record{value: value, fetchedAt: fetchedAt}
	if slot, ok := s.slot(key); ok {
		return slot.CompareAndSwap(nil, rec)
	}

	s.scopedMu.Lock()
	defer s.scopedMu.Unlock()
	if s.scoped.Contains(key) {
		return false
	}
	s.scoped.Add(key, rec)
	return true
}

// Invalidate marks every snapshot of category stale without dropping it.
func (s *Store) Invalidate(category Category) {
	if slot, ok := s.slots[category]; ok {
		invalidateSlot(slot)
		return
	}

	s.scopedMu.Lock()
	defer s.scopedMu.Unlock()
	for _, key := range s.scoped.Keys() {
		if key.Category != category {
			continue
		}
		if rec, ok := s.scoped.Peek(key); ok && !rec.invalidated {
			s.scoped.Add(key, invalidated(rec))
		}
	}
}

func (s *Store) InvalidateAll() {
	for category := range s.slots {
		s.Invalidate(category)
	}

	s.scopedMu.Lock()
	defer s.scopedMu.Unlock()
	for _, key := range s.scoped.Keys() {
		if rec, ok := s.scoped.Peek(key); ok && !rec.invalidated {
			s.scoped.Add(key, invalidated(rec))
		}
	}
}

// Entries lists every stored snapshot ordered by key.
func (s *Store) Entries() []Entry {
	out := make([]Entry, 0, len(s.slots)+s.scoped.Len())
	for category, slot := range s.slots {
		if rec := slot.Load(); rec != nil {
			out = append(out, s.entry(LeagueKey(category), rec))
		}
	}
	for _, key := range s.scoped.Keys() {
		if rec, ok := s.scoped.Peek(key); ok {
			out = append(out, s.entry(key, rec))
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Key.String() < out[j].Key.String() })
	return out
}

func (s *Store) entry(key Key, rec *record) Entry {
	age := s.now().Sub(rec.fetchedAt)
	if age < 0 {
		age = 0
	}
	return Entry{
		Key:       key,
		Value:     rec.value,
		FetchedAt: rec.fetchedAt,
		Age:       age,
		Fresh:     !rec.invalidated && age < s.TTL(key.Category),
	}
}

func (s *Store) slot(key Key) (*atomic.Pointer[record], bool) {
	if key.Scope != "" {
		return nil, false
	}
	slot, ok := s.slots[key.Category]
	return slot, ok
}

func (s *Store) load(key Key) *record {
	if slot, ok := s.slot(key); ok {
		return slot.Load()
	}
	rec, _ := s.scoped.Get(key)
	return rec
}

func (s *Store) store(key Key, rec *record) {
	if slot, ok := s.slot(key); ok {
		slot.Store(rec)
		return
	}
	s.scopedMu.Lock()
	s.scoped.Add(key, rec)
	s.scopedMu.Unlock()
}

func invalidateSlot(slot *atomic.Pointer[record]) {
	invalidateLoaded(slot, slot.Load())
}

// invalidateLoaded marks loaded stale only while it is still the published
// record. A record published after the load is newer data and stays fresh.
func invalidateLoaded(slot *atomic.Pointer[record], loaded *record) bool {
	if loaded == nil || loaded.invalidated {
		return false
	}
	return slot.CompareAndSwap(loaded, invalidated(loaded))
}

func invalidated(rec *record) *record {
	clone := *rec
	clone.invalidated = true
	return &clone
}
