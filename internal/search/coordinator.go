package search

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/grovestore/grove/internal/bias"
	"github.com/grovestore/grove/internal/catalog"
)

// interpretQuery walks the bias table in declaration order against the
// evolving query string: every matching rule is collected as active, and
// rules carrying a rewrite replace the query before later rules are
// tried. It returns the final interpreted query and the active rules.
func interpretQuery(query string, table *bias.Table) (string, []*bias.Rule) {
	var active []*bias.Rule
	for _, rule := range table.Rules() {
		if !rule.Matches(query) {
			continue
		}
		query = rule.Rewrite(query)
		active = append(active, rule)
	}
	return query, active
}

// shardCount returns the number of shard workers for n candidates:
// one worker per 512 candidates, capped at the available parallelism,
// never less than one.
func shardCount(n int) int {
	count := n / groupsPerShard
	if procs := runtime.GOMAXPROCS(0); count > procs {
		count = procs
	}
	if count < 1 {
		count = 1
	}
	return count
}

// runQuery orchestrates one query end-to-end over an immutable snapshot
// and a captured bias table: interpret, shard, fan out onto pool, join,
// merge and sort. It fails fast: any shard error (including a recovered
// panic) fails the whole query with no partial ranking.
func runQuery(
	ctx context.Context,
	terms []string,
	snapshot []*catalog.Group,
	table *bias.Table,
	pool *ants.Pool,
) (*Result, error) {
	query := strings.Join(terms, " ")
	query, active := interpretQuery(query, table)

	entries, err := runSharded(ctx, query, snapshot, active, shardCount(len(snapshot)), pool)
	if err != nil {
		return nil, err
	}

	results := make([]Entry, len(entries))
	for i, e := range entries {
		results[i] = Entry{
			Group:         snapshot[e.index],
			OriginalIndex: e.index,
			Score:         e.value,
		}
	}
	return &Result{InterpretedQuery: query, Entries: results}, nil
}

// runSharded partitions the snapshot into shards contiguous, near-equal
// slices (the remainder goes to the last shard), scores them in parallel
// on pool, and returns the merged entries sorted descending by score.
// Shard results are concatenated in shard order before a stable sort, so
// ties break by original snapshot index and the result is identical for
// any shard count.
func runSharded(
	ctx context.Context,
	query string,
	snapshot []*catalog.Group,
	active []*bias.Rule,
	shards int,
	pool *ants.Pool,
) ([]scoreEntry, error) {
	if shards < 1 {
		shards = 1
	}
	perShard := len(snapshot) / shards

	results := make([][]scoreEntry, shards)
	errs := make([]error, shards)

	var wg sync.WaitGroup
	for i := 0; i < shards; i++ {
		job := &shardJob{
			query:     query,
			snapshot:  snapshot,
			offset:    i * perShard,
			length:    perShard,
			threshold: defaultThreshold,
			active:    active,
		}
		if i == shards-1 {
			job.length += len(snapshot) % shards
		}

		shard := i
		wg.Add(1)
		task := func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					errs[shard] = fmt.Errorf("shard %d panicked: %v", shard, r)
				}
			}()
			results[shard], errs[shard] = job.run(ctx)
		}
		if err := pool.Submit(task); err != nil {
			wg.Done()
			errs[shard] = fmt.Errorf("dispatch shard %d: %w", shard, err)
			break
		}
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	var merged []scoreEntry
	for _, r := range results {
		merged = append(merged, r...)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].value > merged[j].value
	})
	return merged, nil
}
