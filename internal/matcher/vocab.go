package matcher

import (
	"regexp"
	"strings"
)

// Vocabulary 是版本/变体标记词表（短语按规范化后的形式比较）。
type Vocabulary struct {
	// Editions 在 StripEdition 中被整词删除，同时也算作本体推断时的“纯版本后缀”。
	Editions []string
	// SuffixOnly 只用于本体推断：带这些后缀的标题视为另一个商品（重制版等），不推断为 DLC。
	SuffixOnly []string
}

// DefaultVocabulary 返回内置词表的副本（调用方可自由追加）。
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Editions: []string{
			"edition", "deluxe", "goty", "game of the year", "complete", "definitive",
			"remastered", "enhanced", "reloaded", "ultimate", "gold", "premium",
			"platinum", "standard", "special", "directors cut", "collection",
			"anthology", "bundle", "pack",
		},
		SuffixOnly: []string{"remaster", "classic", "hd", "4k"},
	}
}

// With 返回追加了额外版本标记的新词表（原词表不变）。
// 标记原样追加；规范化与去重在 New 构造 Matcher 时完成。
func (v Vocabulary) With(extra ...string) Vocabulary {
	out := Vocabulary{
		Editions:   append([]string(nil), v.Editions...),
		SuffixOnly: append([]string(nil), v.SuffixOnly...),
	}
	out.Editions = append(out.Editions, extra...)
	return out
}

// markers 规范化并去重，保持首次出现的顺序。
func markers(lists ...[]string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, 32)
	for _, l := range lists {
		for _, m := range l {
			m = Normalize(m)
			if m == "" {
				continue
			}
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			out = append(out, m)
		}
	}
	return out
}

func alternation(ms []string) string {
	quoted := make([]string, 0, len(ms))
	for _, m := range ms {
		quoted = append(quoted, regexp.QuoteMeta(m))
	}
	return "(?:" + strings.Join(quoted, "|") + ")"
}

// compileEdition 构造“整词出现”的正则；词表为空时返回 nil。
func compileEdition(ms []string) *regexp.Regexp {
	if len(ms) == 0 {
		return nil
	}
	return regexp.MustCompile(`(?i)\b` + alternation(ms) + `\b`)
}

// compileSuffix 构造“以标记开头，且后面是空白或结尾”的正则。
func compileSuffix(ms []string) *regexp.Regexp {
	if len(ms) == 0 {
		return nil
	}
	return regexp.MustCompile(`(?i)^` + alternation(ms) + `(?:\s|$)`)
}
