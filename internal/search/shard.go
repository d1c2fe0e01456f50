package search

import (
	"context"
	"math"
	"strings"

	"github.com/grovestore/grove/internal/bias"
	"github.com/grovestore/grove/internal/catalog"
)

const (
	// defaultThreshold is the score a candidate must exceed to be ranked.
	defaultThreshold = 1.0

	// groupsPerShard is the snapshot size one shard is expected to carry
	// before another worker is worth dispatching.
	groupsPerShard = 512
)

// exactMatchScore is assigned when the query equals a candidate's id or
// title outright, guaranteeing top rank ahead of any weighted sum.
var exactMatchScore = float64(math.MaxInt32)

// Field weights and minimum accepted field-token lengths for the weighted
// sum. Title hits count double, search tokens one and a half; description
// tokens shorter than 3 runes are too noisy to match against.
const (
	titleWeight       = 2.0
	developerWeight   = 1.0
	descriptionWeight = 1.0
	tokensWeight      = 1.5

	titleMinTokenLen       = 2
	developerMinTokenLen   = 2
	descriptionMinTokenLen = 3
)

// scoreEntry is one ranked candidate: its index into the query's snapshot
// and its final score.
type scoreEntry struct {
	index int
	value float64
}

// shardJob scores the contiguous snapshot slice [offset, offset+length)
// against one prepared query string and the active bias rules.
type shardJob struct {
	query     string
	snapshot  []*catalog.Group
	offset    int
	length    int
	threshold float64
	active    []*bias.Rule
}

// run scores the shard's candidates. Each candidate's fields are read in a
// single scoped lock acquisition; the lock is never held across another
// candidate or a context check, so shard workers can never deadlock with
// mutators locking individual groups.
func (j *shardJob) run(ctx context.Context) ([]scoreEntry, error) {
	var out []scoreEntry

	for i := 0; i < j.length; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		idx := j.offset + i
		fields := j.snapshot[idx].Fields()
		if !fields.Searchable {
			continue
		}

		score := j.scoreFields(fields)

		for _, rule := range j.active {
			if !rule.Boosts(fields.ID) {
				continue
			}
			// Each bias fully replaces the running score, in table order.
			score = rule.Transform(score)
		}

		if score > j.threshold {
			out = append(out, scoreEntry{index: idx, value: score})
		}
	}
	return out, nil
}

func (j *shardJob) scoreFields(fields catalog.Fields) float64 {
	if (fields.ID != "" && j.query == fields.ID) ||
		(fields.Title != "" && strings.EqualFold(j.query, fields.Title)) {
		return exactMatchScore
	}

	var score float64
	score += matchScore(j.query, fields.Title, titleMinTokenLen) * titleWeight
	score += matchScore(j.query, fields.Developer, developerMinTokenLen) * developerWeight
	score += matchScore(j.query, fields.Description, descriptionMinTokenLen) * descriptionWeight
	score += matchScore(j.query, fields.SearchTokens, 0) * tokensWeight
	return score
}
