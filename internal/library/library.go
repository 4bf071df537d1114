// Package library 提供带 TTL 缓存的 Steam 库快照（已拥有 + 愿望单）。
package library

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/John-Robertt/bundlecheck/internal/domain"
	"github.com/John-Robertt/bundlecheck/internal/infra/cache"
)

// ErrNotConfigured 表示缺少 API key 或 Steam id。
var ErrNotConfigured = errors.New("library: steam api key / steam id not configured")

// Fetcher 是 Steam 数据源（*steam.Client 实现）。
type Fetcher interface {
	FetchOwned(ctx context.Context, apiKey, steamID string) ([]domain.LibraryEntry, error)
	FetchWishlist(ctx context.Context, steamID string) ([]domain.LibraryEntry, error)
}

// Store 是快照缓存（cache.Store 实现）。
type Store interface {
	ReadLibrary() (cache.Library, bool, error)
	WriteLibrary(ctx context.Context, l cache.Library) error
	ClearLibrary(ctx context.Context) error
}

type Loader struct {
	Store  Store
	Client Fetcher
	// Clock 为 nil 时使用真实时钟。
	Clock clockwork.Clock
	TTL   time.Duration

	APIKey  string
	SteamID string
}

// Snapshot 是一次判定所用的库数据。
type Snapshot struct {
	Owned     []domain.LibraryEntry
	Wishlist  []domain.LibraryEntry
	FetchedAt time.Time
	FromCache bool
}

func (s Snapshot) Info() domain.LibraryInfo {
	return domain.LibraryInfo{
		Owned:      len(s.Owned),
		Wishlisted: len(s.Wishlist),
		FetchedAt:  s.FetchedAt,
		FromCache:  s.FromCache,
	}
}

func (l *Loader) now() time.Time {
	if l.Clock == nil {
		return time.Now()
	}
	return l.Clock.Now()
}

func (l *Loader) configured() bool { return l.APIKey != "" && l.SteamID != "" }

// Load 返回库快照：缓存仍新鲜则直接使用，否则并发拉取已拥有与愿望单并写回缓存。
//
// 已拥有拉取失败即整体失败；愿望单失败降级为空（记 warning）；写缓存失败只记日志。
func (l *Loader) Load(ctx context.Context) (Snapshot, error) {
	if !l.configured() {
		return Snapshot{}, ErrNotConfigured
	}

	now := l.now()
	if cached, ok := l.readCache(); ok && cached.FreshAt(now, l.TTL) {
		log.Debug().Time("fetched_at", cached.FetchedAt).Msg("使用缓存的库快照")
		return Snapshot{
			Owned:     cached.Owned,
			Wishlist:  cached.Wishlist,
			FetchedAt: cached.FetchedAt,
			FromCache: true,
		}, nil
	}

	var owned, wishlist []domain.LibraryEntry
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		owned, err = l.Client.FetchOwned(gctx, l.APIKey, l.SteamID)
		if err != nil {
			return fmt.Errorf("拉取已拥有游戏失败：%w", err)
		}
		return nil
	})
	g.Go(func() error {
		w, err := l.Client.FetchWishlist(gctx, l.SteamID)
		if err != nil {
			if gctx.Err() == nil {
				log.Warn().Err(err).Msg("拉取愿望单失败，按空愿望单处理")
			}
			return nil
		}
		wishlist = w
		return nil
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	if wishlist == nil {
		wishlist = []domain.LibraryEntry{}
	}

	snap := Snapshot{Owned: owned, Wishlist: wishlist, FetchedAt: now.UTC()}
	if err := l.Store.WriteLibrary(ctx, cache.Library{Owned: owned, Wishlist: wishlist, FetchedAt: snap.FetchedAt}); err != nil {
		log.Warn().Err(err).Msg("写入库缓存失败")
	}
	log.Info().Int("owned", len(owned)).Int("wishlist", len(wishlist)).Msg("已同步 Steam 库")
	return snap, nil
}

// Refresh 丢弃缓存后重新拉取。
func (l *Loader) Refresh(ctx context.Context) (Snapshot, error) {
	if !l.configured() {
		return Snapshot{}, ErrNotConfigured
	}
	if err := l.Store.ClearLibrary(ctx); err != nil {
		return Snapshot{}, fmt.Errorf("清除库缓存失败：%w", err)
	}
	return l.Load(ctx)
}

// Status 描述本地缓存状态（不访问网络）。
type Status struct {
	Configured bool
	Cached     bool
	Fresh      bool

	Owned      int
	Wishlisted int
	FetchedAt  time.Time
	Age        time.Duration
}

func (l *Loader) Status() Status {
	st := Status{Configured: l.configured()}
	cached, ok := l.readCache()
	if !ok {
		return st
	}
	now := l.now()
	st.Cached = true
	st.Fresh = cached.FreshAt(now, l.TTL)
	st.Owned = len(cached.Owned)
	st.Wishlisted = len(cached.Wishlist)
	st.FetchedAt = cached.FetchedAt
	st.Age = now.Sub(cached.FetchedAt)
	return st
}

func (l *Loader) readCache() (cache.Library, bool) {
	if l.Store == nil {
		return cache.Library{}, false
	}
	c, ok, err := l.Store.ReadLibrary()
	if err != nil {
		log.Warn().Err(err).Msg("读取库缓存失败，按未命中处理")
		return cache.Library{}, false
	}
	return c, ok
}
