package ghapi

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2017, 1, 12, 12, 3, 23, 686, time.UTC)

func newTestAPI(t *testing.T, cacheTTL time.Duration, handler http.HandlerFunc) *GhAPI {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	api := NewGhAPI("some_github_token", time.Second, cacheTTL)
	require.NoError(t, api.SetBaseURL(srv.URL+"/"))
	api.now = func() time.Time { return fixedNow }

	return api
}

const twoRepos = `{"total_count":2,"items":[
	{"name":"first","description":"the <first> one","html_url":"https://github.com/a/first","language":"Go","stargazers_count":120},
	{"name":"second","description":null,"html_url":"https://github.com/b/second","language":null,"stargazers_count":7}
]}`

func TestFindTrending(t *testing.T) {
	var gotQuery map[string]string
	var gotAuth string
	api := newTestAPI(t, 0, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search/repositories", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		gotQuery = map[string]string{
			"q":        r.URL.Query().Get("q"),
			"sort":     r.URL.Query().Get("sort"),
			"order":    r.URL.Query().Get("order"),
			"per_page": r.URL.Query().Get("per_page"),
		}
		_, _ = io.WriteString(w, twoRepos)
	})

	repos, err := api.FindTrending(context.Background(), 7, 10)
	require.NoError(t, err)

	assert.Equal(t, "Bearer some_github_token", gotAuth)
	assert.Equal(t, map[string]string{
		"q":        "created:>2017-01-05T12:03:23Z",
		"sort":     "stars",
		"order":    "desc",
		"per_page": "10",
	}, gotQuery)

	require.Len(t, repos, 2)
	assert.Equal(t, "first", repos[0].Name)
	assert.Equal(t, "the <first> one", repos[0].Description)
	assert.Equal(t, "https://github.com/a/first", repos[0].URL)
	require.NotNil(t, repos[0].Language)
	assert.Equal(t, "Go", *repos[0].Language)
	assert.Equal(t, 120, repos[0].StarCount)

	assert.Equal(t, "second", repos[1].Name)
	assert.Empty(t, repos[1].Description)
	assert.Nil(t, repos[1].Language)
	assert.Equal(t, 7, repos[1].StarCount)
}

func TestFindTrendingEmpty(t *testing.T) {
	api := newTestAPI(t, 0, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"total_count":0,"items":[]}`)
	})

	repos, err := api.FindTrending(context.Background(), 3, 10)
	require.NoError(t, err)
	assert.Empty(t, repos)
}

func TestFindTrendingLargeAge(t *testing.T) {
	var gotQuery string
	api := newTestAPI(t, 0, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		_, _ = io.WriteString(w, `{"total_count":0,"items":[]}`)
	})

	_, err := api.FindTrending(context.Background(), 200000, 10)
	require.NoError(t, err)

	// Far beyond what a time.Duration can hold.
	assert.Equal(t, "created:>1469-06-14T12:03:23Z", gotQuery)
}

func TestFindTrendingErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "bad status",
			status:     http.StatusUnauthorized,
			body:       `{"message":"Bad credentials"}`,
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Bad credentials",
		},
		{
			name:    "not json",
			status:  http.StatusOK,
			body:    `this is not json`,
			wantMsg: "invalid character",
		},
		{
			name:    "missing items",
			status:  http.StatusOK,
			body:    `{"total_count":0}`,
			wantMsg: `"items"`,
		},
		{
			name:    "item missing name",
			status:  http.StatusOK,
			body:    `{"items":[{"description":"d","html_url":"u","stargazers_count":1}]}`,
			wantMsg: `items[0]: key "name": missing`,
		},
		{
			name:    "item with null url",
			status:  http.StatusOK,
			body:    `{"items":[{"name":"n","description":"d","html_url":null,"stargazers_count":1}]}`,
			wantMsg: `key "html_url": null`,
		},
		{
			name:    "item with mistyped stars",
			status:  http.StatusOK,
			body:    `{"items":[{"name":"n","description":"d","html_url":"u","stargazers_count":"many"}]}`,
			wantMsg: `key "stargazers_count": wrong type`,
		},
		{
			name:    "item is not an object",
			status:  http.StatusOK,
			body:    `{"items":["repo"]}`,
			wantMsg: "items[0]: item is not an object",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t, 0, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			repos, err := api.FindTrending(context.Background(), 7, 10)
			assert.Nil(t, repos)

			var searchErr *SearchAPIError
			require.ErrorAs(t, err, &searchErr)
			assert.Equal(t, tt.wantStatus, searchErr.StatusCode())
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestFindTrendingTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL + "/"
	srv.Close()

	api := NewGhAPI("token", time.Second, 0)
	require.NoError(t, api.SetBaseURL(base))

	_, err := api.FindTrending(context.Background(), 7, 10)

	var searchErr *SearchAPIError
	require.ErrorAs(t, err, &searchErr)
	assert.Zero(t, searchErr.StatusCode())
}

func TestFindTrendingCache(t *testing.T) {
	var calls int32
	api := newTestAPI(t, time.Minute, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = io.WriteString(w, twoRepos)
	})
	ctx := context.Background()

	first, err := api.FindTrending(ctx, 7, 10)
	require.NoError(t, err)

	// Callers own the returned slice.
	first[0].Name = "changed"

	second, err := api.FindTrending(ctx, 7, 10)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, "first", second[0].Name)

	_, err = api.FindTrending(ctx, 3, 10)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestFindTrendingErrorsAreNotCached(t *testing.T) {
	var calls int32
	api := newTestAPI(t, time.Minute, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, `{"message":"boom"}`)
			return
		}
		_, _ = io.WriteString(w, twoRepos)
	})
	ctx := context.Background()

	_, err := api.FindTrending(ctx, 7, 10)
	require.Error(t, err)

	repos, err := api.FindTrending(ctx, 7, 10)
	require.NoError(t, err)
	assert.Len(t, repos, 2)
}
