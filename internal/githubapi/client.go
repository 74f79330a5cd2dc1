// Package githubapi provides a minimal client for the GitHub REST API,
// used to estimate file churn from commit history without a local clone.
package githubapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// defaultBaseURL is the GitHub REST API root.
const defaultBaseURL = "https://api.github.com"

// perPage is the maximum page size the commits endpoint allows.
const perPage = 100

// Client talks to the GitHub commits API for a single repository.
// Requests are throttled with a client-side rate limiter so that bulk
// churn queries stay well under the API quota.
type Client struct {
	baseURL    string
	owner      string
	repo       string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// commitEntry is the subset of the commit list response we care about.
// Only the SHA is read; the rest of the payload is discarded.
type commitEntry struct {
	SHA string `json:"sha"`
}

// NewClient creates a client for the repository behind repoURL.
// Accepted forms: https://github.com/owner/repo, with or without a
// trailing .git. The token may be empty for public repositories.
func NewClient(repoURL, token string) (*Client, error) {
	owner, repo, err := parseRepoURL(repoURL)
	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL: defaultBaseURL,
		owner:   owner,
		repo:    repo,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		// 5 req/s steady state with small bursts keeps a 20-file churn
		// pass under the unauthenticated quota
		limiter: rate.NewLimiter(rate.Limit(5), 10),
	}, nil
}

// parseRepoURL extracts owner and repo from a GitHub repository URL.
func parseRepoURL(repoURL string) (string, string, error) {
	u, err := url.Parse(repoURL)
	if err != nil {
		return "", "", fmt.Errorf("invalid repository URL %q: %w", repoURL, err)
	}
	if u.Host != "github.com" && u.Host != "www.github.com" {
		return "", "", fmt.Errorf("unsupported repository host %q: only github.com is supported", u.Host)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("repository URL %q must be of the form https://github.com/owner/repo", repoURL)
	}
	repo := strings.TrimSuffix(parts[1], ".git")
	return parts[0], repo, nil
}

// CountCommitsForPath returns the number of commits touching path since
// the given time, following pagination as needed.
func (c *Client) CountCommitsForPath(ctx context.Context, path string, since time.Time) (int, error) {
	query := url.Values{}
	query.Set("path", path)
	query.Set("since", since.UTC().Format(time.RFC3339))
	query.Set("per_page", fmt.Sprintf("%d", perPage))

	next := fmt.Sprintf("%s/repos/%s/%s/commits?%s", c.baseURL, c.owner, c.repo, query.Encode())

	total := 0
	for next != "" {
		count, nextURL, err := c.fetchCommitPage(ctx, next)
		if err != nil {
			return 0, err
		}
		total += count
		next = nextURL
	}
	return total, nil
}

// fetchCommitPage fetches one page of the commit list and returns the
// commit count plus the URL of the next page, if any.
func (c *Client) fetchCommitPage(ctx context.Context, pageURL string) (int, string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return 0, "", fmt.Errorf("failed to build commits request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, "", fmt.Errorf("commits request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, "", fmt.Errorf("commits request for %s/%s returned %s: %s", c.owner, c.repo, resp.Status, strings.TrimSpace(string(body)))
	}

	var commits []commitEntry
	if err := json.NewDecoder(resp.Body).Decode(&commits); err != nil {
		return 0, "", fmt.Errorf("failed to decode commits response: %w", err)
	}

	return len(commits), nextPageURL(resp.Header.Get("Link")), nil
}

// nextPageURL extracts the rel="next" target from a Link header.
// Returns an empty string when there is no next page.
func nextPageURL(linkHeader string) string {
	for _, part := range strings.Split(linkHeader, ",") {
		section := strings.Split(part, ";")
		if len(section) < 2 {
			continue
		}
		if strings.TrimSpace(section[1]) != `rel="next"` {
			continue
		}
		target := strings.TrimSpace(section[0])
		target = strings.TrimPrefix(target, "<")
		target = strings.TrimSuffix(target, ">")
		return target
	}
	return ""
}
