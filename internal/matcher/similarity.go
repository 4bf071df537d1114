package matcher

// FuzzyThreshold 是模糊匹配的最低相似度。
const FuzzyThreshold = 0.85

// Similarity 计算两个字符串在字符 bigram 上的 Dice 系数（按出现次数计重），结果在 [0,1]。
//
// 完全相同的非空字符串得 1；否则任一方不足 2 个字符（没有 bigram）时得 0。
func Similarity(a, b string) float64 {
	if a == b && a != "" {
		return 1
	}
	ra, rb := []rune(a), []rune(b)
	if len(ra) < 2 || len(rb) < 2 {
		return 0
	}

	counts := make(map[[2]rune]int, len(ra)-1)
	for i := 0; i+1 < len(ra); i++ {
		counts[[2]rune{ra[i], ra[i+1]}]++
	}

	// 逐个消耗 a 的计数，等价于对每个 bigram 取 min(countA, countB) 求和。
	inter := 0
	for i := 0; i+1 < len(rb); i++ {
		k := [2]rune{rb[i], rb[i+1]}
		if counts[k] > 0 {
			counts[k]--
			inter++
		}
	}
	return 2 * float64(inter) / float64(len(ra)-1+len(rb)-1)
}
