// Package catalog 从捆绑包页面（URL 或本地保存的 HTML）提取游戏标题。
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/John-Robertt/bundlecheck/internal/domain"
)

// ErrNoTitles 表示页面解析成功，但没有找到任何标题。
var ErrNoTitles = errors.New("页面上未找到任何游戏标题")

// Source 把“站点结构变化”限制在实现内部；上层只依赖统一的 CatalogEntry。
//
// 约束：
// - Fetch 不做缓存、不做重试（重试由 httpx 统一实现）
// - Parse 必须是纯函数：相同输入 => 相同输出，且保持页面上的发现顺序
type Source interface {
	Name() string
	Fetch(ctx context.Context, pageURL string, c *http.Client) (html []byte, err error)
	Parse(html []byte, pageURL string) ([]domain.CatalogEntry, error)
}

// Page 是一次加载的结果。
type Page struct {
	Source  string
	URL     string
	Entries []domain.CatalogEntry
}

// Error 是 catalog 阶段的可追溯错误，上层据此区分抓取失败与解析失败。
type Error struct {
	Source string
	Stage  string // "fetch" 或 "parse"
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("source=%s stage=%s: %v", e.Source, e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// HTTPStatusError 表示站点返回了非 2xx 的 HTTP 状态码。
type HTTPStatusError struct {
	URL        string
	StatusCode int
	Location   string
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "HTTP status error"
	}
	loc := strings.TrimSpace(e.Location)
	if loc == "" {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d location=%s", e.StatusCode, loc)
}

// Load 使用 Humble 解析器加载 target（http/https URL 或本地 HTML 文件路径）。
func Load(ctx context.Context, target string, c *http.Client) (Page, error) {
	return LoadFrom(ctx, Humble{}, target, c)
}

// LoadFrom 与 Load 相同，但允许指定 Source。
func LoadFrom(ctx context.Context, src Source, target string, c *http.Client) (Page, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return Page{}, &Error{Source: src.Name(), Stage: "fetch", Err: errors.New("target 不能为空")}
	}

	var (
		html    []byte
		pageURL string
		err     error
	)
	if IsURL(target) {
		pageURL = target
		html, err = src.Fetch(ctx, target, c)
	} else {
		pageURL, html, err = readLocal(target)
	}
	if err != nil {
		return Page{}, &Error{Source: src.Name(), Stage: "fetch", Err: err}
	}

	entries, err := src.Parse(html, pageURL)
	if err != nil {
		return Page{}, &Error{Source: src.Name(), Stage: "parse", Err: err}
	}
	if len(entries) == 0 {
		return Page{}, &Error{Source: src.Name(), Stage: "parse", Err: ErrNoTitles}
	}
	return Page{Source: src.Name(), URL: pageURL, Entries: entries}, nil
}

// IsURL 报告 s 是否为 http/https URL（否则按本地文件处理）。
func IsURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func readLocal(path string) (string, []byte, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", nil, err
	}
	b, err := os.ReadFile(abs)
	if err != nil {
		return "", nil, err
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String(), b, nil
}

const maxPageBytes = 32 << 20

func fetchURL(ctx context.Context, c *http.Client, u string) ([]byte, error) {
	if c == nil {
		return nil, errors.New("http client 不能为空")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPStatusError{URL: u, StatusCode: resp.StatusCode, Location: resp.Header.Get("Location")}
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
}
