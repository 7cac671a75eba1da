package ghapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/go-github/v80/github"
	"github.com/patrickmn/go-cache"
	"golang.org/x/oauth2"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 10 * time.Second

	// DefaultCacheTTL is how long a search result is reused.
	DefaultCacheTTL = 10 * time.Minute

	createdLayout = "2006-01-02T15:04:05Z"
)

// GhAPI searches GitHub repositories on behalf of a single token.
type GhAPI struct {
	client *github.Client
	cache  *cache.Cache

	now func() time.Time
}

// NewGhAPI returns a GitHub search client authenticated with token.
//
// Results are memoized for cacheTTL; a zero cacheTTL disables memoization.
func NewGhAPI(token string, timeout, cacheTTL time.Duration) *GhAPI {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(context.Background(), ts)
	tc.Timeout = timeout

	api := &GhAPI{
		client: github.NewClient(tc),
		now:    time.Now,
	}

	if cacheTTL > 0 {
		api.cache = cache.New(cacheTTL, 2*cacheTTL)
	}

	return api
}

// SetBaseURL points the client at another GitHub API root, e.g. an
// enterprise server. The URL must end with a slash.
func (api *GhAPI) SetBaseURL(rawurl string) error {
	u, err := url.Parse(rawurl)
	if err != nil {
		return err
	}

	api.client.BaseURL = u
	return nil
}

// FindTrending returns at most limit repositories created within the last
// ageInDays days, most starred first, in the order GitHub returned them.
func (api *GhAPI) FindTrending(ctx context.Context, ageInDays, limit int) ([]Repo, error) {
	key := fmt.Sprintf("%d/%d", ageInDays, limit)

	if api.cache != nil {
		if v, found := api.cache.Get(key); found {
			return append([]Repo(nil), v.([]Repo)...), nil
		}
	}

	repos, err := api.searchRepositories(ctx, ageInDays, limit)
	if err != nil {
		return nil, err
	}

	if api.cache != nil {
		api.cache.SetDefault(key, append([]Repo(nil), repos...))
	}

	return repos, nil
}

func (api *GhAPI) searchRepositories(ctx context.Context, ageInDays, limit int) ([]Repo, error) {
	const op = "search repositories"

	cutoff := api.now().UTC().AddDate(0, 0, -ageInDays)

	q := url.Values{}
	q.Set("q", "created:>"+cutoff.Format(createdLayout))
	q.Set("sort", "stars")
	q.Set("order", "desc")
	q.Set("per_page", strconv.Itoa(limit))

	req, err := api.client.NewRequest(http.MethodGet, "search/repositories?"+q.Encode(), nil)
	if err != nil {
		return nil, &SearchAPIError{Op: op, Err: err}
	}

	var result searchResult
	if _, err := api.client.Do(ctx, req, &result); err != nil {
		return nil, &SearchAPIError{Op: op, Err: err}
	}

	repos, err := result.repos()
	if err != nil {
		return nil, &SearchAPIError{Op: op, Err: err}
	}

	return repos, nil
}
