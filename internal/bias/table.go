package bias

import (
	"log/slog"
	"math"
	"regexp"
)

type transformKind int

const (
	transformNone transformKind = iota
	transformLinear
	transformExponential
)

// Rule is one compiled bias. An invalid spec compiles to an inert rule
// that never matches, so positional indices stay aligned with the source
// spec list.
type Rule struct {
	invalid bool

	re        *regexp.Regexp
	rewriteTo string
	rewrite   bool

	boost     map[string]struct{}
	kind      transformKind
	slope     float64 // linear
	factor    float64 // exponential
	intercept float64
}

// Matches reports whether the rule is usable and its pattern matches the
// query string.
func (r *Rule) Matches(query string) bool {
	return !r.invalid && r.re.MatchString(query)
}

// Rewrite applies the rule's rewrite to the query string. Rules without a
// rewrite return the query unchanged.
func (r *Rule) Rewrite(query string) string {
	if r.invalid || !r.rewrite {
		return query
	}
	return r.re.ReplaceAllString(query, r.rewriteTo)
}

// Boosts reports whether the rule's boost set contains id.
func (r *Rule) Boosts(id string) bool {
	if r.invalid || r.boost == nil {
		return false
	}
	_, ok := r.boost[id]
	return ok
}

// Transform applies the rule's score transform. Each application fully
// replaces the running score. Exponential transforms saturate: an
// overflowing result clamps to MaxFloat64 and NaN collapses to zero, so a
// misconfigured rule can demote a candidate but never poison the sort.
func (r *Rule) Transform(score float64) float64 {
	switch r.kind {
	case transformLinear:
		return r.slope*score + r.intercept
	case transformExponential:
		out := math.Pow(r.factor, score) + r.intercept
		if math.IsNaN(out) {
			return 0
		}
		if math.IsInf(out, 1) {
			return math.MaxFloat64
		}
		if math.IsInf(out, -1) {
			return -math.MaxFloat64
		}
		return out
	default:
		return score
	}
}

// Table is an immutable set of compiled rules in declaration order. It is
// built whole and replaced whole; a query captures one table reference up
// front and is unaffected by concurrent rebuilds.
type Table struct {
	rules []*Rule
}

// Compile builds a table from specs. Invalid specs (no pattern, neither a
// rewrite nor a usable boost definition, both transforms declared, or an
// uncompilable pattern) are diagnosed through logger and kept as inert
// placeholders at their original position.
func Compile(specs []Spec, logger *slog.Logger) *Table {
	if logger == nil {
		logger = slog.Default()
	}

	rules := make([]*Rule, len(specs))
	for i, spec := range specs {
		rules[i] = compileSpec(i, spec, logger)
	}
	return &Table{rules: rules}
}

func compileSpec(i int, spec Spec, logger *slog.Logger) *Rule {
	inert := &Rule{invalid: true}

	hasBoost := len(spec.BoostIDs) > 0 && (spec.Linear != nil || spec.Exponential != nil)
	if spec.Pattern == "" || (spec.RewriteTo == "" && !hasBoost) {
		logger.Warn("bias rule is incomplete, skipping",
			slog.Int("index", i),
			slog.String("pattern", spec.Pattern))
		return inert
	}
	if spec.Linear != nil && spec.Exponential != nil {
		logger.Warn("bias rule declares both linear and exponential transforms, skipping",
			slog.Int("index", i),
			slog.String("pattern", spec.Pattern))
		return inert
	}

	re, err := regexp.Compile(spec.Pattern)
	if err != nil {
		logger.Warn("bias rule pattern is invalid, skipping",
			slog.Int("index", i),
			slog.String("pattern", spec.Pattern),
			slog.String("error", err.Error()))
		return inert
	}

	rule := &Rule{
		re:        re,
		rewriteTo: spec.RewriteTo,
		rewrite:   spec.RewriteTo != "",
	}
	if len(spec.BoostIDs) > 0 {
		rule.boost = make(map[string]struct{}, len(spec.BoostIDs))
		for _, id := range spec.BoostIDs {
			rule.boost[id] = struct{}{}
		}
	}
	switch {
	case spec.Linear != nil:
		rule.kind = transformLinear
		rule.slope = spec.Linear.Slope
		rule.intercept = spec.Linear.Intercept
	case spec.Exponential != nil:
		rule.kind = transformExponential
		rule.factor = spec.Exponential.Factor
		rule.intercept = spec.Exponential.Intercept
	}
	return rule
}

// Len returns the number of rule positions, inert placeholders included.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rules)
}

// Rules returns the compiled rules in declaration order. The returned
// slice is shared; callers must not mutate it.
func (t *Table) Rules() []*Rule {
	if t == nil {
		return nil
	}
	return t.rules
}

// Active returns, in declaration order, the usable rules whose pattern
// matches query.
func (t *Table) Active(query string) []*Rule {
	if t == nil {
		return nil
	}
	var active []*Rule
	for _, r := range t.rules {
		if r.Matches(query) {
			active = append(active, r)
		}
	}
	return active
}
