package check

import (
	"time"

	"github.com/John-Robertt/bundlecheck/internal/domain"
)

// Observer 用于把“进度/条目结果”从判定流程中解耦出来。
//
// 约束：
// - check 包只负责发事件，不做任何输出（避免污染 stdout 的 JSON 契约）。
// - Observer 的实现必须并发安全：OnItemDone 可能来自多个 goroutine。
type Observer interface {
	// OnStart 在 Execute 开始时调用。
	OnStart(source string, total int, lib domain.LibraryInfo)
	// OnItemDone 在某个标题判定完成时调用；done 为已完成数（从 1 开始）。
	OnItemDone(done, total int, item domain.CheckItem, dur time.Duration)
}
