package domain

import (
	"sort"
	"time"
)

// CheckReport 是一次 check 的对外稳定输出（stdout JSON）。
type CheckReport struct {
	Source string `json:"source"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Library LibraryInfo  `json:"library"`
	Summary CheckSummary `json:"summary"`
	Items   []CheckItem  `json:"items"`
}

// LibraryInfo 描述本次判定所用的库快照。
type LibraryInfo struct {
	Owned      int       `json:"owned"`
	Wishlisted int       `json:"wishlisted"`
	FetchedAt  time.Time `json:"fetched_at"`
	FromCache  bool      `json:"from_cache"`
}

type CheckSummary struct {
	Owned      int `json:"owned"`
	Wishlisted int `json:"wishlisted"`
	BaseOwned  int `json:"base_owned"`
	NotOwned   int `json:"not_owned"`
}

// Matched 是命中（含 base_owned）的条目数。
func (s CheckSummary) Matched() int { return s.Owned + s.Wishlisted + s.BaseOwned }

type CheckItem struct {
	// Index 是条目在页面上的发现顺序，Finalize 按它排序。
	Index int `json:"index"`

	Title      string `json:"title"`
	AppID      AppID  `json:"appid,omitempty"`
	Normalized string `json:"normalized"`

	Status     Status `json:"status"`
	MatchTitle string `json:"match_title,omitempty"`
	MatchAppID AppID  `json:"match_appid,omitempty"`
}

// NewCheckItem 把一次判定结论整理为报告条目。
func NewCheckItem(idx int, e CatalogEntry, normalized string, v Verdict) CheckItem {
	it := CheckItem{
		Index:      idx,
		Title:      e.Title,
		AppID:      e.AppID,
		Normalized: normalized,
		Status:     v.Status,
	}
	if v.Matched() {
		it.MatchTitle = v.Match.Title
		it.MatchAppID = v.Match.AppID
	}
	return it
}

// Verdict 还原条目对应的判定结论（用于展示）。
func (it CheckItem) Verdict() Verdict {
	if it.Status == StatusNotOwned {
		return NotOwned()
	}
	return Verdict{Status: it.Status, Match: LibraryEntry{Title: it.MatchTitle, AppID: it.MatchAppID}}
}

// Finalize 做三件事：
// 1) 时间统一为 UTC
// 2) items 按页面发现顺序稳定排序（worker 完成顺序不确定）
// 3) summary 由 items 计算得出
func (r *CheckReport) Finalize() {
	r.StartedAt = r.StartedAt.UTC()
	r.FinishedAt = r.FinishedAt.UTC()
	r.Library.FetchedAt = r.Library.FetchedAt.UTC()
	if r.Items == nil {
		r.Items = []CheckItem{}
	}

	sort.SliceStable(r.Items, func(i, j int) bool { return r.Items[i].Index < r.Items[j].Index })

	var s CheckSummary
	for _, it := range r.Items {
		switch it.Status {
		case StatusOwned:
			s.Owned++
		case StatusWishlisted:
			s.Wishlisted++
		case StatusBaseOwned:
			s.BaseOwned++
		case StatusNotOwned:
			s.NotOwned++
		}
	}
	r.Summary = s
}
