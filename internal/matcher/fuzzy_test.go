package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimilarity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{name: "identical", a: "portal", b: "portal", want: 1},
		{name: "identical single rune", a: "x", b: "x", want: 1},
		{name: "both empty", a: "", b: "", want: 0},
		{name: "one rune", a: "a", b: "ab", want: 0},
		{name: "disjoint", a: "abc", b: "xyz", want: 0},
		{name: "night nacht", a: "night", b: "nacht", want: 0.25},
		{name: "sequel numbers", a: "tropico 3", b: "tropico 4", want: 0.875},
		{name: "repeated bigrams use min count", a: "aaaa", b: "aa", want: 0.5},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, Similarity(tt.a, tt.b), 1e-9)
			assert.InDelta(t, tt.want, Similarity(tt.b, tt.a), 1e-9)
		})
	}
}

func TestIsFuzzyMatch_SharedPrefixGuardAlone(t *testing.T) {
	t.Parallel()

	a, b := "the elder scrolls online x", "the elder scrolls online y"
	require.GreaterOrEqual(t, Similarity(a, b), FuzzyThreshold)
	require.False(t, numericDivergence(a, b))
	require.False(t, shortSuffix(a, b))
	require.True(t, sharedPrefixDivergence(a, b))
	assert.False(t, IsFuzzyMatch(a, b))
}

func TestIsFuzzyMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{name: "missing hyphen", a: "counter strike global offensive", b: "counterstrike global offensive", want: true},
		{name: "missing apostrophe", a: "assassins creed", b: "assassin's creed", want: true},
		{name: "numbered sequels", a: "tropico 3", b: "tropico 4", want: false},
		{name: "identical strings are left to equality checks", a: "portal 2", b: "portal 2", want: false},
		{name: "below threshold", a: "railroad tycoon 3", b: "railroad tycoon world", want: false},
		{name: "unrelated", a: "doom", b: "quake", want: false},
		{name: "diverging last word", a: "the elder scrolls online x", b: "the elder scrolls online y", want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsFuzzyMatch(tt.a, tt.b))
			assert.Equal(t, tt.want, IsFuzzyMatch(tt.b, tt.a))
		})
	}
}

func TestNumericDivergence(t *testing.T) {
	t.Parallel()

	assert.True(t, numericDivergence("game 2", "game 3"))
	assert.True(t, numericDivergence("game", "game 2"))
	assert.True(t, numericDivergence("2 game 1", "1 game 2"))
	assert.False(t, numericDivergence("game 2", "game 2"))
	assert.False(t, numericDivergence("game 2", "other 3"))
}

func TestShortSuffix(t *testing.T) {
	t.Parallel()

	assert.True(t, shortSuffix("portal", "portal 2"))
	assert.True(t, shortSuffix("halo infinite", "halo"))
	assert.True(t, shortSuffix("doom", "doom64"))
	assert.True(t, shortSuffix("same", "same"))
	assert.False(t, shortSuffix("doom", "doomsday"))
	assert.False(t, shortSuffix("assassins creed", "assassin's creed"))
}

func TestSharedPrefixDivergence(t *testing.T) {
	t.Parallel()

	assert.True(t, sharedPrefixDivergence("railroad tycoon 3", "railroad tycoon world"))
	assert.False(t, sharedPrefixDivergence("x tycoon 3", "x tycoon world"), "shared part is under 60% of the longer title")
	assert.False(t, sharedPrefixDivergence("portal", "portal 2"), "one word sequence is a prefix of the other")
	assert.False(t, sharedPrefixDivergence("alpha beta", "gamma beta"))
	assert.False(t, sharedPrefixDivergence("", ""))
}

func TestExtractBaseName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input  string
		want   string
		wantOK bool
	}{
		{input: "just cause 3 dlc sky fortress", want: "just cause 3", wantOK: true},
		{input: "a dlc", want: "a", wantOK: true},
		{input: "foo dlc bar dlc baz", want: "foo", wantOK: true},
		{input: "dlc quest", wantOK: false},
		{input: "foo dlcs", wantOK: false},
		{input: "just cause 4 neon racer pack", wantOK: false},
		{input: "", wantOK: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got, ok := ExtractBaseName(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
