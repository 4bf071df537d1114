package matcher

import (
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"
)

var digitsRE = regexp.MustCompile(`\d+`)

// sharedPrefixRatio 是“共同词前缀占两边长度的比例”上限；超过即视为不同商品。
const sharedPrefixRatio = 0.6

// IsFuzzyMatch 判断两个已规范化的标题是否指同一商品。
//
// 相似度达到 FuzzyThreshold 仍可能被以下任一规则否决（各自独立）：
//   - 数字分歧："tropico 3" 与 "tropico 4"
//   - 短后缀："x" 与 "x 2"、"x" 与 "xyz"（同样会否决完全相同的输入，相等性由调用方先判）
//   - 共同前缀分歧："x tycoon 3" 与 "x tycoon world"
func IsFuzzyMatch(a, b string) bool {
	if Similarity(a, b) < FuzzyThreshold {
		return false
	}
	if numericDivergence(a, b) || shortSuffix(a, b) || sharedPrefixDivergence(a, b) {
		return false
	}
	return true
}

func numericDivergence(a, b string) bool {
	aWithout := strings.TrimSpace(digitsRE.ReplaceAllString(a, ""))
	bWithout := strings.TrimSpace(digitsRE.ReplaceAllString(b, ""))
	if aWithout != bWithout {
		return false
	}
	return !slices.Equal(digitsRE.FindAllString(a, -1), digitsRE.FindAllString(b, -1))
}

func shortSuffix(a, b string) bool {
	shorter, longer := a, b
	if utf8.RuneCountInString(a) > utf8.RuneCountInString(b) {
		shorter, longer = b, a
	}
	if strings.HasPrefix(longer, shorter+" ") {
		return true
	}
	return strings.HasPrefix(longer, shorter) &&
		utf8.RuneCountInString(longer)-utf8.RuneCountInString(shorter) <= 3
}

func sharedPrefixDivergence(a, b string) bool {
	aw := strings.Split(a, " ")
	bw := strings.Split(b, " ")
	common := 0
	for common < len(aw) && common < len(bw) && aw[common] == bw[common] {
		common++
	}
	if common == 0 || common >= len(aw) || common >= len(bw) {
		return false
	}

	la := utf8.RuneCountInString(a)
	lb := utf8.RuneCountInString(b)
	if la == 0 || lb == 0 {
		return false
	}
	shared := float64(utf8.RuneCountInString(strings.Join(aw[:common], " ")))
	return shared/float64(la) > sharedPrefixRatio && shared/float64(lb) > sharedPrefixRatio
}
