package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/rs/zerolog/log"

	"github.com/John-Robertt/bundlecheck/internal/domain"
	"github.com/John-Robertt/bundlecheck/internal/infra/fsx"
)

const (
	libraryFile = "library.json"
	lockFile    = "library.json.lock"

	lockTimeout    = 2 * time.Second
	lockRetryDelay = 50 * time.Millisecond
)

var (
	ErrReadOnly = errors.New("cache: read-only")
	// ErrLocked 表示另一个进程正在写缓存，且在超时内没有释放锁。
	ErrLocked = errors.New("cache: locked by another process")
)

// Store 提供 cache_dir 下 Steam 库快照的读写。
//
// 约束：
// - 读不加锁（写入是原子 rename，读到的要么是旧文件要么是新文件）
// - 写/清除持有 library.json.lock，避免并发进程交错写
type Store struct {
	Dir      string
	ReadOnly bool
}

func New(dir string, readOnly bool) Store {
	return Store{
		Dir:      filepath.Clean(strings.TrimSpace(dir)),
		ReadOnly: readOnly,
	}
}

// Library 是缓存文件 library.json 的结构。
type Library struct {
	Owned     []domain.LibraryEntry `json:"owned"`
	Wishlist  []domain.LibraryEntry `json:"wishlist"`
	FetchedAt time.Time             `json:"fetched_at"`
}

// FreshAt 报告快照在 now 时刻是否仍在 ttl 内（ttl<=0 表示总是过期）。
func (l Library) FreshAt(now time.Time, ttl time.Duration) bool {
	if l.FetchedAt.IsZero() || ttl <= 0 {
		return false
	}
	age := now.Sub(l.FetchedAt)
	return age >= 0 && age < ttl
}

// LibraryPath 返回库快照缓存的绝对路径。
func (s Store) LibraryPath() string {
	return filepath.Join(s.Dir, libraryFile)
}

// ReadLibrary 读取库快照。
//
// 文件不存在或内容损坏都视为未命中（ok=false, err=nil）；只有 IO 错误才返回 err。
func (s Store) ReadLibrary() (Library, bool, error) {
	b, err := os.ReadFile(s.LibraryPath())
	if err != nil {
		if os.IsNotExist(err) {
			return Library{}, false, nil
		}
		return Library{}, false, err
	}

	var l Library
	if err := json.Unmarshal(b, &l); err != nil {
		log.Warn().Err(err).Str("path", s.LibraryPath()).Msg("缓存文件损坏，按未命中处理")
		return Library{}, false, nil
	}
	if l.FetchedAt.IsZero() {
		return Library{}, false, nil
	}
	return l, true, nil
}

// WriteLibrary 在文件锁保护下原子写入库快照。
func (s Store) WriteLibrary(ctx context.Context, l Library) error {
	if s.ReadOnly {
		return ErrReadOnly
	}
	if l.Owned == nil {
		l.Owned = []domain.LibraryEntry{}
	}
	if l.Wishlist == nil {
		l.Wishlist = []domain.LibraryEntry{}
	}
	l.FetchedAt = l.FetchedAt.UTC()

	b, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return err
	}
	return s.withLock(ctx, func() error {
		return fsx.WriteFile(s.LibraryPath(), b, fsx.ModePublic)
	})
}

// ClearLibrary 删除库快照（不存在不算错误）。
func (s Store) ClearLibrary(ctx context.Context) error {
	if s.ReadOnly {
		return ErrReadOnly
	}
	return s.withLock(ctx, func() error { return fsx.Remove(s.LibraryPath()) })
}

func (s Store) withLock(ctx context.Context, fn func() error) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()

	lk := flock.New(filepath.Join(s.Dir, lockFile))
	ok, err := lk.TryLockContext(ctx, lockRetryDelay)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("获取缓存锁失败：%w", err)
	}
	if !ok {
		return ErrLocked
	}
	defer func() { _ = lk.Unlock() }()

	return fn()
}
