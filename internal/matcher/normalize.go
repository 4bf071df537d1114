package matcher

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	symbolStripper = strings.NewReplacer("™", "", "®", "", "©", "")
	apostropheFold = strings.NewReplacer("‘", "'", "’", "'")

	colonRE      = regexp.MustCompile(`:\s*`)
	hyphenRE     = regexp.MustCompile(`\s*-\s*`)
	disallowedRE = regexp.MustCompile(`[^a-z0-9\s']`)
)

// Normalize 把原始标题规范化为可比较形式：只含小写 ASCII 字母、数字、单个空格与 '。
//
// 步骤有先后依赖：冒号与连字符必须在删除标点之前折叠成空格，
// 否则 "Half-Life" 会变成 "halflife" 而不是 "half life"。
// 非拉丁文字符最终会被删除；纯标点输入得到空串。
func Normalize(title string) string {
	s := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		return unicode.ToLower(r)
	}, title)
	s = symbolStripper.Replace(s)
	s = colonRE.ReplaceAllString(s, " ")
	s = hyphenRE.ReplaceAllString(s, " ")
	s = apostropheFold.Replace(s)
	s = disallowedRE.ReplaceAllString(s, "")
	return collapseSpace(s)
}

func collapseSpace(s string) string { return strings.Join(strings.Fields(s), " ") }
