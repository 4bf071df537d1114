package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "colon and hyphen fold", input: "Half-Life 2: Episode One", want: "half life 2 episode one"},
		{name: "trademark symbols", input: "DOOM™ Eternal®", want: "doom eternal"},
		{name: "copyright", input: "Foo © Bar", want: "foo bar"},
		{name: "curly apostrophe", input: "Assassin’s Creed", want: "assassin's creed"},
		{name: "straight apostrophe kept", input: "Tom Clancy's Rainbow Six Siege", want: "tom clancy's rainbow six siege"},
		{name: "spaced hyphen", input: "  Foo -  Bar  ", want: "foo bar"},
		{name: "punctuation removed", input: "Hello, World! (2024)", want: "hello world 2024"},
		{name: "non-breaking space", input: "Non Breaking", want: "non breaking"},
		{name: "tabs and newlines", input: "a\t\tb\nc", want: "a b c"},
		{name: "diacritics dropped", input: "Pokémon", want: "pokmon"},
		{name: "non latin dropped", input: "ゼルダ Zelda", want: "zelda"},
		{name: "pure punctuation", input: "!!! ---", want: ""},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestStripEdition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "deluxe edition", input: "game x deluxe edition", want: "game x"},
		{name: "goty phrase", input: "the witcher 3 wild hunt game of the year edition", want: "the witcher 3 wild hunt"},
		{name: "directors cut", input: "deus ex human revolution directors cut", want: "deus ex human revolution"},
		{name: "marker in the middle", input: "borderlands gold pack collection", want: "borderlands"},
		{name: "not a whole word", input: "goldeneye packman", want: "goldeneye packman"},
		{name: "joined phrase after removal", input: "castle directors edition cut", want: "castle"},
		{name: "suffix-only markers untouched", input: "skyrim hd remaster", want: "skyrim hd remaster"},
		{name: "nothing to strip", input: "portal 2", want: "portal 2"},
		{name: "only markers", input: "deluxe edition", want: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, StripEdition(tt.input))
		})
	}
}

func TestVocabularyWith_ExtendsStripping(t *testing.T) {
	t.Parallel()

	m := New(DefaultVocabulary().With("Season Pass", "", "deluxe"))

	assert.Equal(t, "borderlands 2", m.StripEdition("borderlands 2 season pass"))
	assert.Equal(t, "borderlands 2 season pass", StripEdition("borderlands 2 season pass"),
		"default matcher must not see extra markers")
	assert.True(t, m.isEditionSuffix("season pass"))

	// With 只追加原始值，原词表不变。
	base := DefaultVocabulary()
	ext := base.With("Season Pass", "")
	assert.Equal(t, len(base.Editions)+2, len(ext.Editions))
	assert.Equal(t, []string{"Season Pass", ""}, ext.Editions[len(base.Editions):])
	assert.Len(t, base.Editions, len(DefaultVocabulary().Editions))
}

func TestDefaultVocabulary_ReturnsCopy(t *testing.T) {
	t.Parallel()

	v := DefaultVocabulary()
	v.Editions[0] = "mutated"

	assert.Equal(t, "edition", DefaultVocabulary().Editions[0])
}
