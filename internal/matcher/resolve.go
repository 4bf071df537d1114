package matcher

import (
	"strings"

	"github.com/John-Robertt/bundlecheck/internal/domain"
)

// Resolve 用内置词表判定 candidate 的归属，见 (*Matcher).Resolve。
func Resolve(candidate domain.CatalogEntry, owned, wishlisted []domain.LibraryEntry) domain.Verdict {
	return defaultMatcher.Resolve(candidate, owned, wishlisted)
}

// Resolve 判定一个商品相对已拥有列表与愿望单的归属。
// 多个条目都能命中时，按列表顺序取第一个。
func (m *Matcher) Resolve(candidate domain.CatalogEntry, owned, wishlisted []domain.LibraryEntry) domain.Verdict {
	return m.NewIndex(owned, wishlisted).Resolve(candidate)
}

type indexedEntry struct {
	entry      domain.LibraryEntry
	normalized string
	stripped   string
}

// Index 预先计算好库条目的规范化形式，用于同一份库快照上的批量判定。
// 构造后只读；Index.Resolve 与 Matcher.Resolve 的结论完全一致。
type Index struct {
	m          *Matcher
	owned      []indexedEntry
	wishlisted []indexedEntry
}

// NewIndex 为 owned/wishlisted 建立索引；两个切片不会被修改或持有。
func (m *Matcher) NewIndex(owned, wishlisted []domain.LibraryEntry) *Index {
	return &Index{
		m:          m,
		owned:      m.index(owned),
		wishlisted: m.index(wishlisted),
	}
}

func (m *Matcher) index(entries []domain.LibraryEntry) []indexedEntry {
	out := make([]indexedEntry, 0, len(entries))
	for _, e := range entries {
		n := Normalize(e.Title)
		out = append(out, indexedEntry{entry: e, normalized: n, stripped: m.StripEdition(n)})
	}
	return out
}

type candidate struct {
	entry      domain.CatalogEntry
	normalized string
	stripped   string
}

// strategy 要么给出结论（ok=true），要么放行给下一个策略。
type strategy func(ix *Index, c *candidate) (domain.Verdict, bool)

// strategies 的顺序就是优先级。
var strategies = []strategy{
	matchAppID,
	matchOwnedName,
	matchWishlistedName,
	matchBaseGame,
}

// Resolve 判定 entry 的归属。
func (ix *Index) Resolve(entry domain.CatalogEntry) domain.Verdict {
	n := Normalize(entry.Title)
	c := candidate{entry: entry, normalized: n, stripped: ix.m.StripEdition(n)}
	for _, s := range strategies {
		if v, ok := s(ix, &c); ok {
			return v
		}
	}
	return domain.NotOwned()
}

func matchAppID(ix *Index, c *candidate) (domain.Verdict, bool) {
	if !c.entry.AppID.Known() {
		return domain.Verdict{}, false
	}
	for _, o := range ix.owned {
		if o.entry.AppID == c.entry.AppID {
			return domain.Owned(o.entry), true
		}
	}
	for _, w := range ix.wishlisted {
		if w.entry.AppID == c.entry.AppID {
			return domain.Wishlisted(w.entry), true
		}
	}
	return domain.Verdict{}, false
}

func matchOwnedName(ix *Index, c *candidate) (domain.Verdict, bool) {
	if e, ok := firstNameMatch(ix.owned, c); ok {
		return domain.Owned(e), true
	}
	return domain.Verdict{}, false
}

func matchWishlistedName(ix *Index, c *candidate) (domain.Verdict, bool) {
	if e, ok := firstNameMatch(ix.wishlisted, c); ok {
		return domain.Wishlisted(e), true
	}
	return domain.Verdict{}, false
}

func firstNameMatch(entries []indexedEntry, c *candidate) (domain.LibraryEntry, bool) {
	for _, e := range entries {
		switch {
		case c.normalized == e.normalized,
			c.stripped == e.stripped,
			IsFuzzyMatch(c.normalized, e.normalized),
			IsFuzzyMatch(c.stripped, e.stripped):
			return e.entry, true
		}
	}
	return domain.LibraryEntry{}, false
}

// matchBaseGame 推断 DLC/扩展包的本体是否已拥有。
//
// "just cause 4 neon racer pack" 以 "just cause 4 " 开头 => 拥有本体；
// 但 "x remastered" 以 "x " 开头时剩余部分是纯版本后缀，那是另一个商品，跳过该条目。
func matchBaseGame(ix *Index, c *candidate) (domain.Verdict, bool) {
	base, hasBase := ExtractBaseName(c.normalized)
	for _, o := range ix.owned {
		if strings.HasPrefix(c.normalized, o.normalized+" ") {
			if ix.m.isEditionSuffix(c.normalized[len(o.normalized)+1:]) {
				continue
			}
			return domain.BaseOwned(o.entry), true
		}
		if hasBase && (base == o.normalized || IsFuzzyMatch(base, o.normalized)) {
			return domain.BaseOwned(o.entry), true
		}
	}
	return domain.Verdict{}, false
}
