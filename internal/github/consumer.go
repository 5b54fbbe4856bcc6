package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v66/github"
	"github.com/rs/zerolog"
	"gopkg.in/retry.v1"
)

const (
	// DefaultResultsPerPage is the page size used when a Repo does not set one.
	DefaultResultsPerPage = 10
	// DefaultMaxPages bounds how far back the release history is scanned.
	DefaultMaxPages = 5
)

var defaultRetryStrategy = retry.LimitCount(4, retry.LimitTime(30*time.Second,
	retry.Exponential{
		Initial: 500 * time.Millisecond,
		Factor:  2,
	},
))

// Consumer finds releases through the GitHub REST API.
type Consumer struct {
	client   *gh.Client
	maxPages int
	strategy retry.Strategy
	log      zerolog.Logger
}

// NewConsumer creates a Consumer using httpClient (nil for a default
// client with a 30s timeout).
func NewConsumer(httpClient *http.Client) *Consumer {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Consumer{
		client:   gh.NewClient(httpClient),
		maxPages: DefaultMaxPages,
		strategy: defaultRetryStrategy,
		log:      zerolog.Nop(),
	}
}

// WithToken sets an optional GitHub token for authentication
func (c *Consumer) WithToken(token string) *Consumer {
	if token != "" {
		c.client = c.client.WithAuthToken(token)
	}
	return c
}

// WithBaseURL points the consumer at another API root (GitHub Enterprise, tests).
func (c *Consumer) WithBaseURL(rawURL string) (*Consumer, error) {
	if !strings.HasSuffix(rawURL, "/") {
		rawURL += "/"
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid api url %q: %w", rawURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid api url %q: scheme and host are required", rawURL)
	}
	c.client.BaseURL = u
	return c, nil
}

// WithMaxPages limits how many pages of releases are scanned.
func (c *Consumer) WithMaxPages(n int) *Consumer {
	if n > 0 {
		c.maxPages = n
	}
	return c
}

// WithLogger sets the logger used for request tracing.
func (c *Consumer) WithLogger(log zerolog.Logger) *Consumer {
	c.log = log
	return c
}

// FindLatestRelease scans the repository's releases newest first and
// returns the first one accepted by q.IsValidRelease that carries exactly
// one asset accepted by q.IsSuitableAsset. Drafts are never considered.
func (c *Consumer) FindLatestRelease(ctx context.Context, q Query) (*Result, error) {
	repo := q.Repo.String()
	log := c.log.With().Str("repo", repo).Logger()

	if q.Repo.ResultsPerPage == 0 {
		release, err := c.latestRelease(ctx, q.Repo)
		switch {
		case err == nil:
			result, err := q.match(release)
			if err != nil {
				return nil, &NetworkError{Op: "find latest release", Repo: repo, Err: err}
			}
			if result != nil {
				log.Debug().Str("tag", release.TagName).Msg("latest release matches")
				return result, nil
			}
			log.Debug().Str("tag", release.TagName).Msg("latest release does not match, scanning history")
		case isNotFound(err):
			log.Debug().Msg("repository has no latest release, scanning history")
		default:
			return nil, &NetworkError{Op: "get latest release", Repo: repo, Err: err}
		}
	}

	perPage := q.Repo.ResultsPerPage
	if perPage <= 0 {
		perPage = DefaultResultsPerPage
	}

	for page := 1; page <= c.maxPages; page++ {
		releases, nextPage, err := c.listReleases(ctx, q.Repo, page, perPage)
		if err != nil {
			return nil, &NetworkError{Op: "list releases", Repo: repo, Err: err}
		}
		log.Debug().Int("page", page).Int("releases", len(releases)).Msg("scanning releases")

		for _, release := range releases {
			result, err := q.match(release)
			if err != nil {
				return nil, &NetworkError{Op: "find latest release", Repo: repo, Err: err}
			}
			if result != nil {
				return result, nil
			}
		}

		if nextPage == 0 {
			break
		}
	}

	return nil, &NetworkError{
		Op:   "find latest release",
		Repo: repo,
		Err:  fmt.Errorf("%w within %d pages", ErrNoMatchingRelease, c.maxPages),
	}
}

// match returns the result for release, nil when the release is not a
// candidate, or ErrAmbiguousAsset.
func (q Query) match(release *Release) (*Result, error) {
	if release.Draft {
		return nil, nil
	}
	if q.IsValidRelease != nil && !q.IsValidRelease(release) {
		return nil, nil
	}
	if q.RequireReleaseDescription && strings.TrimSpace(release.Body) == "" {
		return nil, nil
	}

	var found *Asset
	for i := range release.Assets {
		asset := &release.Assets[i]
		if q.IsSuitableAsset != nil && !q.IsSuitableAsset(asset) {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("%w in release %s: %s, %s", ErrAmbiguousAsset, release.TagName, found.Name, asset.Name)
		}
		found = asset
	}
	if found == nil {
		return nil, nil
	}

	return &Result{
		TagName:       release.TagName,
		URL:           found.DownloadURL,
		FileSizeBytes: found.Size,
		ReleaseDate:   release.PublishedAt,
	}, nil
}

func (c *Consumer) latestRelease(ctx context.Context, repo Repo) (*Release, error) {
	var release *gh.RepositoryRelease
	err := c.withRetry(ctx, "get latest release", func() error {
		var err error
		release, _, err = c.client.Repositories.GetLatestRelease(ctx, repo.Owner, repo.Name)
		return err
	})
	if err != nil {
		return nil, err
	}
	return convertRelease(release), nil
}

func (c *Consumer) listReleases(ctx context.Context, repo Repo, page, perPage int) ([]*Release, int, error) {
	var (
		releases []*gh.RepositoryRelease
		resp     *gh.Response
	)
	err := c.withRetry(ctx, "list releases", func() error {
		var err error
		releases, resp, err = c.client.Repositories.ListReleases(ctx, repo.Owner, repo.Name, &gh.ListOptions{
			Page:    page,
			PerPage: perPage,
		})
		return err
	})
	if err != nil {
		return nil, 0, err
	}

	converted := make([]*Release, len(releases))
	for i, r := range releases {
		converted[i] = convertRelease(r)
	}
	nextPage := 0
	if resp != nil {
		nextPage = resp.NextPage
	}
	return converted, nextPage, nil
}

// withRetry runs fn until it succeeds, fails permanently, or the retry
// strategy gives up.
func (c *Consumer) withRetry(ctx context.Context, op string, fn func() error) error {
	var err error
	for attempt := retry.StartWithCancel(c.strategy, nil, ctx.Done()); attempt.Next(); {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		err = fn()
		if err == nil {
			return nil
		}
		if !shouldRetry(ctx, err) || !attempt.More() {
			break
		}
		c.log.Debug().Err(err).Str("op", op).Int("attempt", attempt.Count()).Msg("retrying request")
	}
	// cancelled while waiting for the next attempt
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}

func shouldRetry(ctx context.Context, err error) bool {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var rateErr *gh.RateLimitError
	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &rateErr) || errors.As(err, &abuseErr) {
		return false
	}

	var respErr *gh.ErrorResponse
	if errors.As(err, &respErr) {
		return respErr.Response != nil && respErr.Response.StatusCode >= http.StatusInternalServerError
	}

	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

func isNotFound(err error) bool {
	var respErr *gh.ErrorResponse
	return errors.As(err, &respErr) && respErr.Response != nil && respErr.Response.StatusCode == http.StatusNotFound
}

func convertRelease(r *gh.RepositoryRelease) *Release {
	release := &Release{
		TagName:     r.GetTagName(),
		Name:        r.GetName(),
		Body:        r.GetBody(),
		Prerelease:  r.GetPrerelease(),
		Draft:       r.GetDraft(),
		PublishedAt: r.GetPublishedAt().Time,
		Assets:      make([]Asset, 0, len(r.Assets)),
	}
	for _, a := range r.Assets {
		release.Assets = append(release.Assets, Asset{
			Name:        a.GetName(),
			DownloadURL: a.GetBrowserDownloadURL(),
			Size:        int64(a.GetSize()),
		})
	}
	return release
}
