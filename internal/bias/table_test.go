package bias

import (
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCompile_ValidRewriteRule(t *testing.T) {
	table := Compile([]Spec{
		{Pattern: `(?i)^image editor$`, RewriteTo: "gimp"},
	}, discard())

	require.Equal(t, 1, table.Len())
	rule := table.Rules()[0]
	assert.True(t, rule.Matches("Image Editor"))
	assert.Equal(t, "gimp", rule.Rewrite("image editor"))
}

func TestCompile_RewriteWithCaptureReference(t *testing.T) {
	table := Compile([]Spec{
		{Pattern: `^editor for (\w+)$`, RewriteTo: "$1 editor"},
	}, discard())

	rule := table.Rules()[0]
	require.True(t, rule.Matches("editor for photos"))
	assert.Equal(t, "photos editor", rule.Rewrite("editor for photos"))
}

func TestCompile_BoostRule(t *testing.T) {
	table := Compile([]Spec{
		{
			Pattern:  `photo`,
			BoostIDs: []string{"org.gimp.GIMP", "org.darktable.Darktable"},
			Linear:   &LinearFunc{Slope: 2, Intercept: 1},
		},
	}, discard())

	rule := table.Rules()[0]
	assert.True(t, rule.Boosts("org.gimp.GIMP"))
	assert.False(t, rule.Boosts("org.inkscape.Inkscape"))
	assert.InDelta(t, 2*3.5+1, rule.Transform(3.5), 1e-9)
}

func TestCompile_InvalidSpecsBecomeInertPlaceholders(t *testing.T) {
	specs := []Spec{
		{Pattern: `^ok$`, RewriteTo: "fine"},                                     // valid
		{Pattern: ""},                                                            // no pattern
		{Pattern: `^x$`},                                                         // neither rewrite nor boost
		{Pattern: `^x$`, BoostIDs: []string{"a"}},                                // boost ids without a transform
		{Pattern: `^x$`, RewriteTo: "y", Linear: &LinearFunc{Slope: 1}, Exponential: &ExponentialFunc{Factor: 2}}, // both transforms
		{Pattern: `([`, RewriteTo: "y"},                                          // uncompilable
		{Pattern: `^also ok$`, BoostIDs: []string{"b"}, Exponential: &ExponentialFunc{Factor: 2}},
	}

	table := Compile(specs, discard())

	// Positional indices stay stable: the table never shrinks.
	require.Equal(t, len(specs), table.Len())

	assert.True(t, table.Rules()[0].Matches("ok"))
	for _, i := range []int{1, 2, 3, 4, 5} {
		assert.False(t, table.Rules()[i].Matches("x"), "rule %d should be inert", i)
		assert.False(t, table.Rules()[i].Boosts("a"), "rule %d should be inert", i)
	}
	assert.True(t, table.Rules()[6].Matches("also ok"))
}

func TestRule_InertRewriteIsIdentity(t *testing.T) {
	table := Compile([]Spec{{Pattern: ""}}, discard())
	assert.Equal(t, "query", table.Rules()[0].Rewrite("query"))
}

func TestRule_ExponentialTransform(t *testing.T) {
	table := Compile([]Spec{
		{Pattern: `.`, BoostIDs: []string{"a"}, Exponential: &ExponentialFunc{Factor: 2, Intercept: 1}},
	}, discard())

	rule := table.Rules()[0]
	assert.InDelta(t, math.Pow(2, 3)+1, rule.Transform(3), 1e-9)
}

func TestRule_ExponentialTransformSaturates(t *testing.T) {
	table := Compile([]Spec{
		{Pattern: `.`, BoostIDs: []string{"a"}, Exponential: &ExponentialFunc{Factor: 10}},
	}, discard())

	rule := table.Rules()[0]

	// Applying an exponential boost to the exact-match score must clamp,
	// not overflow to +Inf.
	got := rule.Transform(float64(math.MaxInt32))
	assert.False(t, math.IsInf(got, 0))
	assert.Equal(t, math.MaxFloat64, got)
}

func TestTable_ActivePreservesDeclarationOrder(t *testing.T) {
	table := Compile([]Spec{
		{Pattern: `a`, RewriteTo: "first"},
		{Pattern: `z`, RewriteTo: "never"},
		{Pattern: `b`, RewriteTo: "second"},
	}, discard())

	active := table.Active("ab")
	require.Len(t, active, 2)
	assert.Equal(t, "first", active[0].Rewrite("a"))
	assert.Equal(t, "second", active[1].Rewrite("b"))
}

func TestTable_NilIsEmpty(t *testing.T) {
	var table *Table
	assert.Zero(t, table.Len())
	assert.Nil(t, table.Rules())
	assert.Nil(t, table.Active("anything"))
}
