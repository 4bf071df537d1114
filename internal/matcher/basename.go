package matcher

import (
	"regexp"
	"strings"
)

var dlcRE = regexp.MustCompile(`^(.+?)\s+dlc\b`)

// ExtractBaseName 从 "just cause 3 dlc sky fortress" 这类标题里取出本体名 "just cause 3"。
//
// 只识别独立的 "dlc" 单词；"just cause 4 neon racer pack" 这种没有标记的情况
// 由 Resolve 用已拥有标题做前缀匹配处理。
func ExtractBaseName(normalized string) (string, bool) {
	m := dlcRE.FindStringSubmatch(normalized)
	if m == nil {
		return "", false
	}
	base := strings.TrimSpace(m[1])
	return base, base != ""
}
