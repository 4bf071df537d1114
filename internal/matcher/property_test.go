package matcher

import (
	"regexp"
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/John-Robertt/bundlecheck/internal/domain"
)

var normalizedShape = regexp.MustCompile(`^(?:[a-z0-9']+(?: [a-z0-9']+)*)?$`)

// titleWords 混入版本标记、数字与标点，尽量覆盖各条守卫规则。
var titleWords = []string{
	"Just", "Cause", "Tropico", "Portal", "Half-Life", "Episode", "One", "Tycoon",
	"World", "Railroad", "Deluxe", "Edition", "Game", "of", "the", "Year", "GOTY",
	"Directors", "Cut", "Remastered", "HD", "DLC", "Pack", "Neon", "Racer",
	"2", "3", "4", "II", "Assassin’s", "Creed™", ":", "-", "&", "Pokémon",
}

func titleGen() *rapid.Generator[string] {
	return rapid.Custom(func(t *rapid.T) string {
		n := rapid.IntRange(1, 6).Draw(t, "words")
		parts := make([]string, n)
		for i := range parts {
			parts[i] = rapid.SampledFrom(titleWords).Draw(t, "word")
		}
		return strings.Join(parts, " ")
	})
}

func anyTitleGen() *rapid.Generator[string] {
	return rapid.OneOf(titleGen(), rapid.String())
}

func libraryGen() *rapid.Generator[[]domain.LibraryEntry] {
	return rapid.SliceOfN(rapid.Custom(func(t *rapid.T) domain.LibraryEntry {
		return domain.LibraryEntry{
			Title: titleGen().Draw(t, "title"),
			AppID: domain.AppID(rapid.Uint32Range(0, 20).Draw(t, "appid")),
		}
	}), 0, 8)
}

func TestPropertyNormalizeIdempotent(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		s := anyTitleGen().Draw(t, "title")
		once := Normalize(s)
		if twice := Normalize(once); twice != once {
			t.Fatalf("Normalize not idempotent: %q -> %q -> %q", s, once, twice)
		}
	})
}

func TestPropertyNormalizeShape(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		s := anyTitleGen().Draw(t, "title")
		if got := Normalize(s); !normalizedShape.MatchString(got) {
			t.Fatalf("Normalize(%q) = %q has unexpected characters or spacing", s, got)
		}
	})
}

func TestPropertyStripEditionIdempotent(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		n := Normalize(titleGen().Draw(t, "title"))
		once := StripEdition(n)
		if twice := StripEdition(once); twice != once {
			t.Fatalf("StripEdition not idempotent: %q -> %q -> %q", n, once, twice)
		}
	})
}

func TestPropertySimilaritySymmetricAndBounded(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		a := Normalize(anyTitleGen().Draw(t, "a"))
		b := Normalize(anyTitleGen().Draw(t, "b"))
		ab, ba := Similarity(a, b), Similarity(b, a)
		if ab != ba {
			t.Fatalf("Similarity(%q,%q)=%v but reversed=%v", a, b, ab, ba)
		}
		if ab < 0 || ab > 1 {
			t.Fatalf("Similarity(%q,%q)=%v out of [0,1]", a, b, ab)
		}
	})
}

func TestPropertySimilarityIdentity(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.StringN(1, 40, -1).Draw(t, "a")
		if got := Similarity(a, a); got != 1 {
			t.Fatalf("Similarity(%q,%q)=%v, want 1", a, a, got)
		}
	})
}

func TestPropertySimilarityShortInputIsZero(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.StringN(0, 1, -1).Draw(t, "a")
		b := rapid.String().Filter(func(s string) bool { return s != a }).Draw(t, "b")
		if got := Similarity(a, b); got != 0 {
			t.Fatalf("Similarity(%q,%q)=%v, want 0", a, b, got)
		}
		if got := Similarity(b, a); got != 0 {
			t.Fatalf("Similarity(%q,%q)=%v, want 0", b, a, got)
		}
	})
}

func TestPropertyFuzzyMatchSymmetric(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		a := Normalize(titleGen().Draw(t, "a"))
		b := Normalize(titleGen().Draw(t, "b"))
		if IsFuzzyMatch(a, b) != IsFuzzyMatch(b, a) {
			t.Fatalf("IsFuzzyMatch not symmetric for %q / %q", a, b)
		}
	})
}

func TestPropertyResolveDeterministic(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		c := domain.CatalogEntry{
			Title: titleGen().Draw(t, "candidate"),
			AppID: domain.AppID(rapid.Uint32Range(0, 20).Draw(t, "appid")),
		}
		owned := libraryGen().Draw(t, "owned")
		wish := libraryGen().Draw(t, "wishlisted")

		first := Resolve(c, owned, wish)
		if second := Resolve(c, owned, wish); second != first {
			t.Fatalf("Resolve not deterministic: %+v vs %+v", first, second)
		}
		if viaIndex := Default().NewIndex(owned, wish).Resolve(c); viaIndex != first {
			t.Fatalf("Index.Resolve=%+v differs from Resolve=%+v", viaIndex, first)
		}
	})
}

func TestPropertyResolveMatchComesFromInputs(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		c := domain.CatalogEntry{Title: titleGen().Draw(t, "candidate")}
		owned := libraryGen().Draw(t, "owned")
		wish := libraryGen().Draw(t, "wishlisted")

		v := Resolve(c, owned, wish)
		var pool []domain.LibraryEntry
		switch v.Status {
		case domain.StatusOwned, domain.StatusBaseOwned:
			pool = owned
		case domain.StatusWishlisted:
			pool = wish
		case domain.StatusNotOwned:
			if v.Match != (domain.LibraryEntry{}) {
				t.Fatalf("not_owned carries a match: %+v", v.Match)
			}
			return
		}
		for _, e := range pool {
			if e == v.Match {
				return
			}
		}
		t.Fatalf("verdict %s carries %+v which is not in its source list", v.Status, v.Match)
	})
}
