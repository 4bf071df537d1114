// Package steam 从 Steam Web API 与商店读取用户的已拥有游戏与愿望单。
package steam

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/John-Robertt/bundlecheck/internal/domain"
)

const (
	DefaultAPIBaseURL   = "https://api.steampowered.com"
	DefaultStoreBaseURL = "https://store.steampowered.com"

	// DefaultMaxWishlistPages 是愿望单翻页上限（每页约 50 条）。
	DefaultMaxWishlistPages = 100

	maxBodyBytes = 16 << 20
)

// HTTPStatusError 表示 Steam 返回了非 2xx。
type HTTPStatusError struct {
	URL        string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("steam http status=%d url=%s", e.StatusCode, e.URL)
}

// Unauthorized 通常意味着 API key 无效，或资料未公开。
func (e *HTTPStatusError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

type Client struct {
	APIBaseURL   string
	StoreBaseURL string
	HTTP         *http.Client

	// PageLimiter 控制愿望单翻页节奏；nil 表示不限速。
	PageLimiter *rate.Limiter
	// MaxWishlistPages<=0 时使用 DefaultMaxWishlistPages。
	MaxWishlistPages int
}

// NewClient 返回带默认翻页节奏（每 300ms 一页）的客户端；空 base url 取官方地址。
func NewClient(apiBase, storeBase string, hc *http.Client) *Client {
	if strings.TrimSpace(apiBase) == "" {
		apiBase = DefaultAPIBaseURL
	}
	if strings.TrimSpace(storeBase) == "" {
		storeBase = DefaultStoreBaseURL
	}
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{
		APIBaseURL:       strings.TrimRight(apiBase, "/"),
		StoreBaseURL:     strings.TrimRight(storeBase, "/"),
		HTTP:             hc,
		PageLimiter:      rate.NewLimiter(rate.Every(300*time.Millisecond), 1),
		MaxWishlistPages: DefaultMaxWishlistPages,
	}
}

type ownedGamesResponse struct {
	Response struct {
		Games []struct {
			AppID uint32 `json:"appid"`
			Name  string `json:"name"`
		} `json:"games"`
	} `json:"response"`
}

// FetchOwned 调用 IPlayerService/GetOwnedGames，按接口返回顺序给出已拥有游戏。
//
// 非 2xx 返回 *HTTPStatusError；资料私密时接口返回空 response，此时结果为空切片。
func (c *Client) FetchOwned(ctx context.Context, apiKey, steamID string) ([]domain.LibraryEntry, error) {
	q := url.Values{}
	q.Set("key", apiKey)
	q.Set("steamid", steamID)
	q.Set("include_appinfo", "1")
	q.Set("include_played_free_games", "1")
	q.Set("format", "json")
	endpoint := c.APIBaseURL + "/IPlayerService/GetOwnedGames/v1/"

	// 请求 URL 里带 key；返回的错误一律只带不含查询串的 endpoint。
	status, body, err := c.get(ctx, endpoint+"?"+q.Encode())
	if err != nil {
		return nil, redactURL(err, endpoint)
	}
	if status < 200 || status >= 300 {
		return nil, &HTTPStatusError{URL: endpoint, StatusCode: status}
	}

	var r ownedGamesResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("解析 GetOwnedGames 响应失败：%w", err)
	}

	out := make([]domain.LibraryEntry, 0, len(r.Response.Games))
	for _, g := range r.Response.Games {
		if g.AppID == 0 {
			continue
		}
		out = append(out, domain.LibraryEntry{AppID: domain.AppID(g.AppID), Title: g.Name})
	}
	return out, nil
}

// redactURL 把 *url.Error 里的完整请求地址换成 endpoint。
func redactURL(err error, endpoint string) error {
	var ue *url.Error
	if !errors.As(err, &ue) {
		return err
	}
	return &url.Error{Op: ue.Op, URL: endpoint, Err: ue.Err}
}

type wishlistItem struct {
	Name string `json:"name"`
}

// FetchWishlist 逐页读取愿望单，遇到以下任一情况停止翻页并返回已收集部分：
// 非 2xx、空响应、HTML 响应、以 [] 开头、空对象、无法解析（记 warning：愿望单可能未公开）。
//
// 只有 ctx 被取消时才返回错误。结果按 app id 升序（JSON 对象本身无序）。
func (c *Client) FetchWishlist(ctx context.Context, steamID string) ([]domain.LibraryEntry, error) {
	maxPages := c.MaxWishlistPages
	if maxPages <= 0 {
		maxPages = DefaultMaxWishlistPages
	}

	seen := make(map[domain.AppID]string)
	for page := 0; page < maxPages; page++ {
		if c.PageLimiter != nil {
			if err := c.PageLimiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		u := fmt.Sprintf("%s/wishlist/profiles/%s/wishlistdata/?p=%d", c.StoreBaseURL, url.PathEscape(steamID), page)
		status, body, err := c.get(ctx, u)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Warn().Err(err).Int("page", page).Msg("读取愿望单失败（可能未公开）")
			break
		}
		if status < 200 || status >= 300 {
			log.Debug().Int("status", status).Int("page", page).Msg("愿望单翻页结束")
			break
		}

		items, ok := decodeWishlistPage(body)
		if !ok {
			if len(bytes.TrimSpace(body)) > 0 && !stopMarker(body) {
				log.Warn().Int("page", page).Msg("愿望单响应无法解析（可能未公开）")
			}
			break
		}
		for k, v := range items {
			id, ok := domain.ParseAppID(k)
			if !ok {
				continue
			}
			seen[id] = v.Name
		}
		log.Debug().Int("page", page).Int("items", len(items)).Msg("愿望单翻页")
	}

	out := make([]domain.LibraryEntry, 0, len(seen))
	for id, name := range seen {
		out = append(out, domain.LibraryEntry{AppID: id, Title: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AppID < out[j].AppID })
	return out, nil
}

// stopMarker：Steam 对私密/空愿望单返回 HTML 或 []。
func stopMarker(body []byte) bool {
	b := bytes.TrimLeft(body, " \t\r\n")
	return bytes.HasPrefix(b, []byte("<")) || bytes.HasPrefix(b, []byte("[]"))
}

// decodeWishlistPage 返回 ok=false 表示应停止翻页。
func decodeWishlistPage(body []byte) (map[string]wishlistItem, bool) {
	if len(bytes.TrimSpace(body)) == 0 || stopMarker(body) {
		return nil, false
	}
	var items map[string]wishlistItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, false
	}
	if len(items) == 0 {
		return nil, false
	}
	return items, true
}

func (c *Client) get(ctx context.Context, u string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Accept", "application/json")

	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}
