// Package search implements the catalog's concurrent fuzzy search engine.
// A query snapshots the live entry-group collection, fans shard workers
// out over a fixed-size pool, scores every candidate with a token-level
// fuzzy matcher plus regex-driven bias rules, and merges the shards into
// one deterministic descending ranking.
package search

import "github.com/grovestore/grove/internal/catalog"

// Entry is one ranked candidate in a query result.
type Entry struct {
	// Group is the matched entry group. The engine holds a non-owning
	// reference; fields read later may differ from those scored.
	Group *catalog.Group

	// OriginalIndex is the candidate's position in the query's snapshot.
	OriginalIndex int

	// Score is the candidate's final score after bias application. It is
	// zero for every entry of an identity result (empty query or empty
	// collection).
	Score float64
}

// Result is the outcome of one query.
type Result struct {
	// InterpretedQuery is the final query string after bias rewrites. It
	// is empty for identity results.
	InterpretedQuery string

	// Entries is the ranking, descending by score with ties broken by
	// original snapshot order. Identity results list every candidate in
	// snapshot order instead.
	Entries []Entry
}
