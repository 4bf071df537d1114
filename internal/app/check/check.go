// Package check 把一页捆绑包标题批量对照 Steam 库快照，生成 CheckReport。
package check

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/John-Robertt/bundlecheck/internal/domain"
	"github.com/John-Robertt/bundlecheck/internal/library"
	"github.com/John-Robertt/bundlecheck/internal/matcher"
)

type Input struct {
	Source   string
	Entries  []domain.CatalogEntry
	Snapshot library.Snapshot
	// Matcher 为 nil 时使用默认词表。
	Matcher     *matcher.Matcher
	Concurrency int
}

// Execute 并发判定所有标题，返回按页面顺序排列的报告。
//
// 判定本身不会失败；ctx 取消时停止派发，返回已完成部分与 ctx.Err()。
func Execute(ctx context.Context, in Input, obs Observer) (domain.CheckReport, error) {
	started := time.Now().UTC()

	m := in.Matcher
	if m == nil {
		m = matcher.Default()
	}
	lib := in.Snapshot.Info()
	total := len(in.Entries)

	if obs != nil {
		obs.OnStart(in.Source, total, lib)
	}

	rr := domain.CheckReport{
		Source:    in.Source,
		StartedAt: started,
		Library:   lib,
		Items:     make([]domain.CheckItem, 0, total),
	}

	// 所有 worker 共享同一份预计算索引（只读）。
	ix := m.NewIndex(in.Snapshot.Owned, in.Snapshot.Wishlist)

	workers := in.Concurrency
	if workers < 1 {
		workers = 1
	}
	if workers > total && total > 0 {
		workers = total
	}

	type job struct {
		idx   int
		entry domain.CatalogEntry
	}

	jobs := make(chan job)
	results := make(chan domain.CheckItem, total)

	var (
		wg   sync.WaitGroup
		done atomic.Int32
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				oneStarted := time.Now()
				v := ix.Resolve(j.entry)
				it := domain.NewCheckItem(j.idx, j.entry, matcher.Normalize(j.entry.Title), v)
				logItem(it)
				results <- it
				if obs != nil {
					obs.OnItemDone(int(done.Add(1)), total, it, time.Since(oneStarted))
				}
			}
		}()
	}

	go func() {
		defer func() {
			close(jobs)
			wg.Wait()
			close(results)
		}()
		for i, e := range in.Entries {
			select {
			case <-ctx.Done():
				return
			case jobs <- job{idx: i, entry: e}:
			}
		}
	}()

	for it := range results {
		rr.Items = append(rr.Items, it)
	}

	rr.FinishedAt = time.Now().UTC()
	rr.Finalize()

	log.Info().
		Int("total", total).
		Int("owned", rr.Summary.Owned).
		Int("wishlisted", rr.Summary.Wishlisted).
		Int("base_owned", rr.Summary.BaseOwned).
		Int("not_owned", rr.Summary.NotOwned).
		Dur("elapsed", rr.FinishedAt.Sub(rr.StartedAt)).
		Msg("判定完成")

	if err := ctx.Err(); err != nil && len(rr.Items) < total {
		return rr, err
	}
	return rr, nil
}

func logItem(it domain.CheckItem) {
	if it.Status == domain.StatusNotOwned {
		log.Debug().Str("title", it.Title).Str("normalized", it.Normalized).Msg("未命中")
		return
	}
	log.Debug().
		Str("title", it.Title).
		Str("status", string(it.Status)).
		Str("match", it.MatchTitle).
		Msg("命中")
}
