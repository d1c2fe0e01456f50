package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/panjf2000/ants/v2"

	"github.com/grovestore/grove/internal/bias"
	"github.com/grovestore/grove/internal/catalog"
)

// ErrNoTerms is returned synchronously when Query is called with no
// terms. This is a contract violation by the caller, never a runtime
// condition, and is never produced after shard work has started.
var ErrNoTerms = errors.New("query requires at least one term")

// Engine is the query façade. It holds the current collection and bias
// source references and owns the worker pool shard tasks run on. Queries
// capture a snapshot of the collection and the compiled bias table once
// at the start, so swapping either mid-flight never affects a running
// query; the next query observes the new references.
type Engine struct {
	mu          sync.RWMutex
	model       *catalog.Collection
	modelCancel func()
	biasSource  *bias.Source
	unsubscribe func()

	table atomic.Pointer[bias.Table]

	pool     *ants.Pool
	poolSize int
	logger   *slog.Logger

	cache     *lru.Cache[string, *Result]
	cacheSize int
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets the logger used for bias-rule diagnostics.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// WithPoolSize sets the shard worker pool size.
// Default is runtime.GOMAXPROCS(0), with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(e *Engine) error {
		if size < 1 {
			size = 1
		}
		e.poolSize = size
		return nil
	}
}

// WithResultCache enables an LRU cache of size entries keyed by the
// joined query string. The cache is purged whenever the collection
// changes structurally or the bias table is rebuilt; field mutations
// inside individual groups raise no notification, so cached rankings can
// lag them until the next structural change. Leave the cache off when
// group fields churn without the collection changing.
func WithResultCache(size int) Option {
	return func(e *Engine) error {
		if size < 1 {
			return fmt.Errorf("result cache size must be positive, got %d", size)
		}
		e.cacheSize = size
		return nil
	}
}

// NewEngine creates an engine with no collection and an empty bias table.
func NewEngine(opts ...Option) (*Engine, error) {
	e := &Engine{
		logger:   slog.Default(),
		poolSize: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	if e.poolSize < 1 {
		e.poolSize = 1
	}

	pool, err := ants.NewPool(e.poolSize)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	e.pool = pool

	if e.cacheSize > 0 {
		cache, err := lru.New[string, *Result](e.cacheSize)
		if err != nil {
			pool.Release()
			return nil, fmt.Errorf("create result cache: %w", err)
		}
		e.cache = cache
	}

	e.table.Store(bias.Compile(nil, e.logger))
	return e, nil
}

// SetModel swaps the collection new queries run against. In-flight
// queries finish against their captured snapshot.
func (e *Engine) SetModel(model *catalog.Collection) {
	e.mu.Lock()
	if e.modelCancel != nil {
		e.modelCancel()
		e.modelCancel = nil
	}
	e.model = model
	if model != nil && e.cache != nil {
		e.modelCancel = model.Subscribe(func(position, removed, added int) {
			e.purgeCache()
		})
	}
	e.mu.Unlock()

	e.purgeCache()
}

// SetBiases swaps the bias source. The rule table is recompiled in full
// immediately and again on every change the source reports; queries read
// the table through an atomic pointer, so rebuilds never block them.
func (e *Engine) SetBiases(source *bias.Source) {
	e.mu.Lock()
	if e.unsubscribe != nil {
		e.unsubscribe()
		e.unsubscribe = nil
	}
	e.biasSource = source
	if source != nil {
		e.unsubscribe = source.Subscribe(func(position, removed, added int) {
			e.rebuildTable()
		})
	}
	e.mu.Unlock()

	e.rebuildTable()
}

// Model returns the current collection reference.
func (e *Engine) Model() *catalog.Collection {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.model
}

// Query scores the current collection against terms and returns the
// ranked result. terms must be non-empty; an empty collection or a
// whitespace-only joined query yields an identity result listing every
// candidate unscored in original order, never an error.
//
// Query blocks until the ranking is complete or a shard fails; callers
// wanting asynchrony run it in their own goroutine, and callers wanting a
// timeout race ctx at the call site. ctx is only observed between
// candidates, so a shard never holds a group lock across a cancellation
// check.
func (e *Engine) Query(ctx context.Context, terms []string) (*Result, error) {
	if len(terms) == 0 {
		return nil, ErrNoTerms
	}

	e.mu.RLock()
	model := e.model
	e.mu.RUnlock()

	joined := strings.Join(terms, " ")
	if model == nil || model.Len() == 0 || strings.TrimSpace(joined) == "" {
		return identityResult(model), nil
	}

	if e.cache != nil {
		if cached, ok := e.cache.Get(joined); ok {
			return cached, nil
		}
	}

	snapshot := model.Snapshot()
	table := e.table.Load()

	result, err := runQuery(ctx, terms, snapshot, table, e.pool)
	if err != nil {
		return nil, err
	}

	if e.cache != nil {
		e.cache.Add(joined, result)
	}
	return result, nil
}

// Close releases the worker pool and detaches from the bias source and
// collection. The engine must not be used afterwards.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.unsubscribe != nil {
		e.unsubscribe()
		e.unsubscribe = nil
	}
	if e.modelCancel != nil {
		e.modelCancel()
		e.modelCancel = nil
	}
	e.mu.Unlock()

	e.pool.Release()
}

func (e *Engine) rebuildTable() {
	e.mu.RLock()
	source := e.biasSource
	e.mu.RUnlock()

	var specs []bias.Spec
	if source != nil {
		specs = source.Specs()
	}
	e.table.Store(bias.Compile(specs, e.logger))
	e.purgeCache()
}

func (e *Engine) purgeCache() {
	if e.cache != nil {
		e.cache.Purge()
	}
}

// identityResult lists every candidate in original order with no score.
func identityResult(model *catalog.Collection) *Result {
	var snapshot []*catalog.Group
	if model != nil {
		snapshot = model.Snapshot()
	}
	entries := make([]Entry, len(snapshot))
	for i, g := range snapshot {
		entries[i] = Entry{Group: g, OriginalIndex: i}
	}
	return &Result{InterpretedQuery: "", Entries: entries}
}
