package domain

import "strconv"

// AppID 是 Steam 的数字商品 ID。
//
// 零值表示“未知”：Steam 不会分配 0 号 app，页面上解析不到 ID 的条目也统一落到 0。
type AppID uint32

// Known 报告该 ID 是否可作为精确匹配键使用。
func (id AppID) Known() bool { return id != 0 }

func (id AppID) String() string {
	if id == 0 {
		return ""
	}
	return strconv.FormatUint(uint64(id), 10)
}

// ParseAppID 解析十进制 app id；非法或为 0 时返回 ok=false。
func ParseAppID(s string) (AppID, bool) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil || n == 0 {
		return 0, false
	}
	return AppID(n), true
}

// CatalogEntry 是从商店页面抓到的一条待匹配商品。
// Title 保留页面原文（用于展示），匹配时再做规范化。
type CatalogEntry struct {
	Title string `json:"title"`
	AppID AppID  `json:"appid,omitempty"`
}

// LibraryEntry 是用户 Steam 库（已拥有或愿望单）里的一条记录。
//
// 约束：列表只读；AppID 理论上唯一，重复时按列表顺序取第一条。
type LibraryEntry struct {
	AppID AppID  `json:"appid"`
	Title string `json:"name"`
}
