package main

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/John-Robertt/bundlecheck/internal/app/check"
	"github.com/John-Robertt/bundlecheck/internal/domain"
)

var _ check.Observer = (*progressUI)(nil)

// progressUI 是交互终端下的进度输出（写 stderr，不污染 stdout 的 JSON）。
//
// 判定是纯内存计算，通常瞬间完成；只在开始打印概况，
// 其余按固定间隔原地刷新一行计数，避免大页面刷屏。
type progressUI struct {
	w io.Writer

	mu          sync.Mutex
	startedAt   time.Time
	lastPrinted time.Time
	interval    time.Duration

	total   int
	done    int
	matched int
}

func newProgressUI(w io.Writer) *progressUI {
	return &progressUI{w: w, interval: 100 * time.Millisecond}
}

func (p *progressUI) OnStart(source string, total int, lib domain.LibraryInfo) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	p.startedAt = now
	p.total = total

	fmt.Fprintf(p.w, "[%s] bundlecheck check\n", now.Format("15:04:05"))
	fmt.Fprintf(p.w, "  页面: %s\n", truncate(source, 120))
	fmt.Fprintf(p.w, "  标题: %d\n", total)
	fmt.Fprintf(p.w, "  %s\n\n", libraryLine(lib, now))
	p.lastPrinted = now
}

func (p *progressUI) OnItemDone(done, total int, item domain.CheckItem, dur time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if done > p.done {
		p.done = done
	}
	if item.Status != domain.StatusNotOwned {
		p.matched++
	}

	last := p.done >= total
	if !last && time.Since(p.lastPrinted) < p.interval {
		return
	}
	fmt.Fprintf(p.w, "\r判定中: %d/%d matched=%d", p.done, total, p.matched)
	if last {
		fmt.Fprintf(p.w, " (%s)\n", formatShortDuration(time.Since(p.startedAt)))
	}
	p.lastPrinted = time.Now()
}

func truncate(s string, max int) string {
	r := []rune(s)
	if max <= 0 || len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

func formatShortDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
