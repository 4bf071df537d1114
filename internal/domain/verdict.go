package domain

// Status 是一次匹配的结论。
type Status string

const (
	StatusOwned      Status = "owned"
	StatusWishlisted Status = "wishlisted"
	StatusBaseOwned  Status = "base_owned"
	StatusNotOwned   Status = "not_owned"
)

// Verdict 是匹配结果：Status 之外，命中时携带被匹配到的库条目（用于展示）。
// StatusNotOwned 时 Match 为零值。
type Verdict struct {
	Status Status
	Match  LibraryEntry
}

func Owned(e LibraryEntry) Verdict      { return Verdict{Status: StatusOwned, Match: e} }
func Wishlisted(e LibraryEntry) Verdict { return Verdict{Status: StatusWishlisted, Match: e} }
func BaseOwned(e LibraryEntry) Verdict  { return Verdict{Status: StatusBaseOwned, Match: e} }
func NotOwned() Verdict                 { return Verdict{Status: StatusNotOwned} }

// Matched 报告该结论是否携带库条目。
func (v Verdict) Matched() bool {
	switch v.Status {
	case StatusOwned, StatusWishlisted, StatusBaseOwned:
		return true
	default:
		return false
	}
}

// Label 返回终端展示用的短标签。
func (s Status) Label() string {
	switch s {
	case StatusOwned:
		return "✓ 已拥有"
	case StatusWishlisted:
		return "★ 愿望单"
	case StatusBaseOwned:
		return "⊕ 拥有本体"
	case StatusNotOwned:
		return "✗ 未拥有"
	default:
		return string(s)
	}
}

// Hint 返回对结论的一句话说明（对应页面徽章的 tooltip）。
func (v Verdict) Hint() string {
	name := v.Match.Title
	switch v.Status {
	case StatusOwned:
		if name == "" {
			return "已在 Steam 库中"
		}
		return "已在 Steam 库中：“" + name + "”"
	case StatusWishlisted:
		if name == "" {
			return "在 Steam 愿望单中"
		}
		return "在 Steam 愿望单中：“" + name + "”"
	case StatusBaseOwned:
		if name == "" {
			return "已拥有本体游戏，无法确认是否已有该 DLC"
		}
		return "已拥有本体游戏“" + name + "”，无法确认是否已有该 DLC"
	default:
		return "Steam 库中未找到"
	}
}
