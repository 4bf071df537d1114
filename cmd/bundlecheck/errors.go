package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/John-Robertt/bundlecheck/internal/catalog"
	"github.com/John-Robertt/bundlecheck/internal/config"
	"github.com/John-Robertt/bundlecheck/internal/infra/cache"
	"github.com/John-Robertt/bundlecheck/internal/library"
	"github.com/John-Robertt/bundlecheck/internal/steam"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// usageError 标记参数错误（退出码 2）。
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func isUsageError(err error) bool {
	var ue usageError
	if errors.As(err, &ue) {
		return true
	}
	// cobra 对未知子命令返回普通 error。
	return strings.HasPrefix(err.Error(), "unknown command")
}

func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return exitOK
	case isUsageError(err):
		return exitUsage
	case config.Code(err) != "":
		return exitUsage
	case errors.Is(err, library.ErrNotConfigured):
		return exitUsage
	default:
		return exitFailure
	}
}

// humanizeError 把内部错误翻译为可操作的提示。
func humanizeError(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.Canceled) {
		return "已取消"
	}
	if config.Code(err) != "" || isUsageError(err) {
		return err.Error()
	}
	if errors.Is(err, library.ErrNotConfigured) {
		return (&config.Error{Code: config.ErrCodeNotConfigured}).Error()
	}

	var ce *catalog.Error
	if errors.As(err, &ce) {
		switch ce.Stage {
		case "fetch":
			return humanizeFetchError("页面", ce.Err)
		default:
			if errors.Is(ce.Err, catalog.ErrNoTitles) {
				return "页面上未找到任何游戏标题（页面可能需要登录，或由 JS 动态渲染；可在浏览器里“另存为”HTML 后传入本地文件）。"
			}
			return fmt.Sprintf("页面解析失败（站点结构可能变化）：%v", ce.Err)
		}
	}

	var se *steam.HTTPStatusError
	if errors.As(err, &se) {
		if se.Unauthorized() {
			return fmt.Sprintf("Steam API 返回 HTTP %d：API key 无效，或资料/游戏详情未公开。", se.StatusCode)
		}
		return humanizeFetchError("Steam", err)
	}

	if errors.Is(err, cache.ErrLocked) {
		return "缓存正被另一个 bundlecheck 进程写入，请稍后重试。"
	}

	return humanizeFetchError("", err)
}

func humanizeFetchError(what string, err error) string {
	prefix := what
	if prefix != "" {
		prefix += " "
	}

	var hs *catalog.HTTPStatusError
	if errors.As(err, &hs) {
		loc := strings.TrimSpace(hs.Location)
		switch {
		case hs.StatusCode >= 300 && hs.StatusCode < 400 && loc != "":
			return fmt.Sprintf("%s返回 HTTP %d（重定向）：%s", prefix, hs.StatusCode, loc)
		case hs.StatusCode == 403 || hs.StatusCode == 429:
			return fmt.Sprintf("%s返回 HTTP %d（可能触发限流）。建议稍后重试或配置 proxy.url。", prefix, hs.StatusCode)
		case hs.StatusCode == 404:
			return fmt.Sprintf("%s返回 HTTP 404（地址错误或已下架）。", prefix)
		default:
			return fmt.Sprintf("%s返回 HTTP %d。", prefix, hs.StatusCode)
		}
	}

	var se *steam.HTTPStatusError
	if errors.As(err, &se) {
		return fmt.Sprintf("%s返回 HTTP %d。", prefix, se.StatusCode)
	}

	low := strings.ToLower(err.Error())
	if errors.Is(err, context.DeadlineExceeded) || strings.Contains(low, "timeout") {
		return fmt.Sprintf("%s请求超时。建议检查网络/代理后重试。", prefix)
	}
	if strings.Contains(low, "tls") || strings.Contains(low, "handshake") {
		return fmt.Sprintf("%s连接失败（TLS/SSL）。建议配置 proxy.url 或稍后重试。", prefix)
	}
	if what == "" {
		return err.Error()
	}
	return fmt.Sprintf("%s抓取失败：%v", prefix, err)
}
