// Package bias translates externally authored search-bias rules into an
// immutable, fast-to-evaluate table. A rule is triggered when its pattern
// matches the working query string; it may rewrite the query, boost the
// scores of a fixed set of application ids, or both.
package bias

// LinearFunc describes a linear score transform: slope*score + intercept.
type LinearFunc struct {
	Slope     float64 `yaml:"slope"`
	Intercept float64 `yaml:"intercept"`
}

// ExponentialFunc describes an exponential score transform:
// factor^score + intercept.
type ExponentialFunc struct {
	Factor    float64 `yaml:"factor"`
	Intercept float64 `yaml:"intercept"`
}

// Spec is one externally authored bias rule, typically loaded from a
// configuration file. A spec must carry a pattern plus either a rewrite,
// or a boost id list with exactly one transform; anything else is dropped
// at compile time with a diagnostic.
type Spec struct {
	// Pattern is a regular expression matched against the whole working
	// query string. An unanchored pattern matches anywhere; authors anchor
	// with ^$ to require a full-string match.
	Pattern string `yaml:"pattern"`

	// RewriteTo, when non-empty, replaces every pattern match in the
	// query string. Capture references ($1, ${name}) are expanded.
	RewriteTo string `yaml:"rewrite_to,omitempty"`

	// BoostIDs lists the application ids whose scores the transform
	// applies to.
	BoostIDs []string `yaml:"boost_ids,omitempty"`

	// Linear and Exponential are mutually exclusive; a spec declaring
	// both is invalid.
	Linear      *LinearFunc      `yaml:"linear,omitempty"`
	Exponential *ExponentialFunc `yaml:"exponential,omitempty"`
}
