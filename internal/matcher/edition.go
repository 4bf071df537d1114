package matcher

import "regexp"

// Matcher 持有编译好的词表；构造后只读，可并发使用。
type Matcher struct {
	edition *regexp.Regexp
	suffix  *regexp.Regexp
}

// New 按词表构造 Matcher。
func New(v Vocabulary) *Matcher {
	editions := markers(v.Editions)
	return &Matcher{
		edition: compileEdition(editions),
		suffix:  compileSuffix(markers(editions, v.SuffixOnly)),
	}
}

var defaultMatcher = New(DefaultVocabulary())

// Default 返回使用内置词表的 Matcher。
func Default() *Matcher { return defaultMatcher }

// StripEdition 用内置词表去掉版本标记，见 (*Matcher).StripEdition。
func StripEdition(normalized string) string { return defaultMatcher.StripEdition(normalized) }

// StripEdition 整词删除版本/变体标记（"deluxe"、"game of the year" 等）并折叠空白。
//
// 删除会重复到不再变化为止：删掉一个词可能让两侧拼成新的标记短语，
// 只删一遍就不满足幂等。
func (m *Matcher) StripEdition(normalized string) string {
	s := normalized
	for {
		out := s
		if m.edition != nil {
			out = m.edition.ReplaceAllString(out, "")
		}
		out = collapseSpace(out)
		if out == s {
			return out
		}
		s = out
	}
}

// isEditionSuffix 报告 suffix 是否以纯版本标记开头（用于本体推断的否决）。
func (m *Matcher) isEditionSuffix(suffix string) bool {
	return m.suffix != nil && m.suffix.MatchString(suffix)
}
