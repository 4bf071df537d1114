package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/unicode/norm"

	"github.com/John-Robertt/bundlecheck/internal/domain"
)

// titleSelectors 覆盖 Humble 的捆绑包、Choice、商店卡片等布局，按顺序扫描。
var titleSelectors = []string{
	".item-title",
	".content-choice-title .entity-title",
	".dd-image-box-caption .dd-image-box-text",
	".entity-title",
	"[class*='content-choice'] [class*='title']",
	".game-name h4",
	".game-name",
}

// embeddedDataScripts 是 Humble 页面内嵌的页面数据（服务端渲染，不依赖 JS 执行）。
var embeddedDataScripts = []string{
	"script#webpack-bundle-page-data",
	"script#webpack-monthly-product-data",
	"script#webpack-choice-marketing-data",
}

const (
	appIDHolder   = "a, [data-app-id], [data-steam-app-id]"
	storeAppLink  = "a[href*='store.steampowered.com/app/']"
	storeAppHref  = "[href*='store.steampowered.com/app/']"
	minTitleRunes = 2
)

var storeAppIDRE = regexp.MustCompile(`/app/(\d+)`)

// Humble 实现 humblebundle.com 页面的抓取与解析。
type Humble struct{}

func (Humble) Name() string { return "humble" }

func (Humble) Fetch(ctx context.Context, pageURL string, c *http.Client) ([]byte, error) {
	return fetchURL(ctx, c, pageURL)
}

// Parse 按 titleSelectors 顺序收集标题；DOM 中一个都没有时回退到内嵌页面数据。
//
// 规则：
// - 标题文本折叠空白并做 NFC 规范化；少于 2 个字符的跳过
// - 同名标题只保留第一次出现
// - app id 取最近的 a / [data-app-id] / [data-steam-app-id] 祖先（含自身）的 data 属性，
//   没有则取该祖先内、或包住标题的 Steam 商店链接
func (Humble) Parse(html []byte, pageURL string) ([]domain.CatalogEntry, error) {
	if len(html) == 0 {
		return nil, errors.New("html 为空")
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var out []domain.CatalogEntry
	add := func(title string, id domain.AppID) {
		title = cleanTitle(title)
		if utf8.RuneCountInString(title) < minTitleRunes {
			return
		}
		if _, ok := seen[title]; ok {
			return
		}
		seen[title] = struct{}{}
		out = append(out, domain.CatalogEntry{Title: title, AppID: id})
	}

	for _, sel := range titleSelectors {
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			add(s.Text(), appIDFor(s))
		})
	}
	if len(out) > 0 {
		return out, nil
	}

	for _, sel := range embeddedDataScripts {
		raw := strings.TrimSpace(doc.Find(sel).First().Text())
		if raw == "" {
			continue
		}
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			continue
		}
		for _, t := range embeddedTitles(v) {
			add(t, 0)
		}
	}
	return out, nil
}

func appIDFor(s *goquery.Selection) domain.AppID {
	holder := s.Closest(appIDHolder)
	if holder.Length() == 0 {
		return 0
	}
	for _, attr := range []string{"data-app-id", "data-steam-app-id"} {
		if v, ok := holder.Attr(attr); ok {
			if id, ok := domain.ParseAppID(strings.TrimSpace(v)); ok {
				return id
			}
		}
	}

	link := holder.Find(storeAppLink).First()
	if link.Length() == 0 {
		link = s.Closest(storeAppHref)
	}
	href, ok := link.Attr("href")
	if !ok {
		return 0
	}
	m := storeAppIDRE.FindStringSubmatch(href)
	if m == nil {
		return 0
	}
	id, _ := domain.ParseAppID(m[1])
	return id
}

// embeddedTitles 在页面数据里找 tier_item_data.*.human_name 与 game_data.*.title。
// JSON 对象无序，按 key 排序保证输出稳定。
func embeddedTitles(v any) []string {
	var out []string
	var walk func(v any)
	walk = func(v any) {
		switch x := v.(type) {
		case map[string]any:
			for _, k := range sortedKeys(x) {
				switch k {
				case "tier_item_data":
					out = append(out, fieldOfEach(x[k], "human_name")...)
				case "game_data":
					out = append(out, fieldOfEach(x[k], "title")...)
				default:
					walk(x[k])
				}
			}
		case []any:
			for _, e := range x {
				walk(e)
			}
		}
	}
	walk(v)
	return out
}

func fieldOfEach(v any, field string) []string {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	var out []string
	for _, k := range sortedKeys(m) {
		item, ok := m[k].(map[string]any)
		if !ok {
			continue
		}
		if s, ok := item[field].(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func cleanTitle(s string) string {
	return norm.NFC.String(strings.Join(strings.Fields(s), " "))
}
