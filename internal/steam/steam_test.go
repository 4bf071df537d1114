package steam

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/John-Robertt/bundlecheck/internal/domain"
)

const testSteamID = "76561198000000000"

func newTestClient(srv *httptest.Server) *Client {
	c := NewClient(srv.URL, srv.URL, srv.Client())
	c.PageLimiter = nil
	return c
}

func TestFetchOwned(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/IPlayerService/GetOwnedGames/v1/", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "KEY", q.Get("key"))
		assert.Equal(t, testSteamID, q.Get("steamid"))
		assert.Equal(t, "1", q.Get("include_appinfo"))
		assert.Equal(t, "1", q.Get("include_played_free_games"))
		_, _ = fmt.Fprint(w, `{"response":{"game_count":3,"games":[
			{"appid":620,"name":"Portal 2","playtime_forever":10},
			{"appid":0,"name":"bogus"},
			{"appid":400,"name":"Portal"}]}}`)
	}))
	defer srv.Close()

	got, err := newTestClient(srv).FetchOwned(context.Background(), "KEY", testSteamID)
	require.NoError(t, err)
	assert.Equal(t, []domain.LibraryEntry{
		{AppID: 620, Title: "Portal 2"},
		{AppID: 400, Title: "Portal"},
	}, got)
}

func TestFetchOwned_PrivateProfileIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `{"response":{}}`)
	}))
	defer srv.Close()

	got, err := newTestClient(srv).FetchOwned(context.Background(), "KEY", testSteamID)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFetchOwned_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := newTestClient(srv).FetchOwned(context.Background(), "SECRET", testSteamID)
	var se *HTTPStatusError
	require.True(t, errors.As(err, &se), "期望 HTTPStatusError，实际 %v", err)
	assert.Equal(t, http.StatusForbidden, se.StatusCode)
	assert.True(t, se.Unauthorized())
	assert.NotContains(t, err.Error(), "SECRET")
}

func TestFetchOwned_TransportErrorHidesKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hj, ok := w.(http.Hijacker)
		if !assert.True(t, ok) {
			return
		}
		conn, _, err := hj.Hijack()
		if !assert.NoError(t, err) {
			return
		}
		_ = conn.Close()
	}))
	defer srv.Close()

	_, err := newTestClient(srv).FetchOwned(context.Background(), "SECRETKEY123", testSteamID)
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "SECRETKEY123")
	assert.Contains(t, err.Error(), "/IPlayerService/GetOwnedGames/v1/")

	var ue *url.Error
	require.True(t, errors.As(err, &ue), "期望 *url.Error，实际 %T", err)
	assert.NotContains(t, ue.URL, "?")
}

func TestFetchOwned_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `<html>`)
	}))
	defer srv.Close()

	_, err := newTestClient(srv).FetchOwned(context.Background(), "KEY", testSteamID)
	require.Error(t, err)
}

// wishlistServer 按页返回 pages[p]；越界页返回 last。
func wishlistServer(t *testing.T, hits *atomic.Int32, last string, pages ...string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "/wishlist/profiles/"+testSteamID+"/wishlistdata/", r.URL.Path)
		p, err := strconv.Atoi(r.URL.Query().Get("p"))
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if p < len(pages) {
			_, _ = fmt.Fprint(w, pages[p])
			return
		}
		_, _ = fmt.Fprint(w, last)
	}))
}

func TestFetchWishlist_PagingStops(t *testing.T) {
	cases := map[string]string{
		"empty object": `{}`,
		"empty body":   ``,
		"html":         `  <!DOCTYPE html><html></html>`,
		"empty array":  `[]`,
		"garbage":      `{"oops"`,
	}
	for name, last := range cases {
		t.Run(name, func(t *testing.T) {
			var hits atomic.Int32
			srv := wishlistServer(t, &hits, last,
				`{"1091500":{"name":"Cyberpunk 2077"},"292030":{"name":"The Witcher 3"}}`,
				`{"570":{"name":"Dota 2"},"not-an-id":{"name":"x"}}`,
			)
			defer srv.Close()

			got, err := newTestClient(srv).FetchWishlist(context.Background(), testSteamID)
			require.NoError(t, err)
			assert.Equal(t, []domain.LibraryEntry{
				{AppID: 570, Title: "Dota 2"},
				{AppID: 292030, Title: "The Witcher 3"},
				{AppID: 1091500, Title: "Cyberpunk 2077"},
			}, got)
			assert.EqualValues(t, 3, hits.Load())
		})
	}
}

func TestFetchWishlist_NonOKStopsImmediately(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	got, err := newTestClient(srv).FetchWishlist(context.Background(), testSteamID)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.EqualValues(t, 1, hits.Load())
}

func TestFetchWishlist_MaxPages(t *testing.T) {
	var hits atomic.Int32
	srv := wishlistServer(t, &hits, `{"10":{"name":"Counter-Strike"}}`)
	defer srv.Close()

	c := newTestClient(srv)
	c.MaxWishlistPages = 3
	got, err := c.FetchWishlist(context.Background(), testSteamID)
	require.NoError(t, err)
	assert.Len(t, got, 1, "重复 app id 应去重")
	assert.EqualValues(t, 3, hits.Load())
}

func TestFetchWishlist_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `{"10":{"name":"Counter-Strike"}}`)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(srv.URL, srv.URL, srv.Client()).FetchWishlist(ctx, testSteamID)
	assert.ErrorIs(t, err, context.Canceled)
}
