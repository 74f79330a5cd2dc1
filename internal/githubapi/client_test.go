package githubapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient returns a client pointed at the given test server.
func newTestClient(t *testing.T, server *httptest.Server, token string) *Client {
	t.Helper()
	client, err := NewClient("https://github.com/revflo/revaudit", token)
	require.NoError(t, err)
	client.baseURL = server.URL
	client.httpClient = server.Client()
	return client
}

func TestParseRepoURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		owner   string
		repo    string
		wantErr bool
	}{
		{"plain", "https://github.com/revflo/revaudit", "revflo", "revaudit", false},
		{"dot git suffix", "https://github.com/revflo/revaudit.git", "revflo", "revaudit", false},
		{"trailing slash", "https://github.com/revflo/revaudit/", "revflo", "revaudit", false},
		{"www host", "https://www.github.com/revflo/revaudit", "revflo", "revaudit", false},
		{"missing repo", "https://github.com/revflo", "", "", true},
		{"wrong host", "https://gitlab.com/revflo/revaudit", "", "", true},
		{"garbage", "://not-a-url", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, repo, err := parseRepoURL(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.owner, owner)
			assert.Equal(t, tt.repo, repo)
		})
	}
}

func TestCountCommitsForPath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/revflo/revaudit/commits", r.URL.Path)
		assert.Equal(t, "internal/server/server.go", r.URL.Query().Get("path"))
		assert.NotEmpty(t, r.URL.Query().Get("since"))
		assert.Equal(t, "Bearer tok123", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[{"sha":"aaa"},{"sha":"bbb"},{"sha":"ccc"}]`)
	}))
	defer server.Close()

	client := newTestClient(t, server, "tok123")

	count, err := client.CountCommitsForPath(context.Background(), "internal/server/server.go", time.Now().Add(-90*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestCountCommitsForPathPagination(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("page") == "2" {
			fmt.Fprint(w, `[{"sha":"ddd"}]`)
			return
		}
		w.Header().Set("Link", fmt.Sprintf(`<%s/repos/revflo/revaudit/commits?page=2>; rel="next", <%s/repos/revflo/revaudit/commits?page=2>; rel="last"`, server.URL, server.URL))
		fmt.Fprint(w, `[{"sha":"aaa"},{"sha":"bbb"},{"sha":"ccc"}]`)
	}))
	defer server.Close()

	client := newTestClient(t, server, "")

	count, err := client.CountCommitsForPath(context.Background(), "a.go", time.Now())
	require.NoError(t, err)
	assert.Equal(t, 4, count, "should sum commits across pages")
}

func TestCountCommitsForPathHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(t, server, "")

	_, err := client.CountCommitsForPath(context.Background(), "a.go", time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestCountCommitsForPathContextCancel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	}))
	defer server.Close()

	client := newTestClient(t, server, "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.CountCommitsForPath(ctx, "a.go", time.Now())
	require.Error(t, err)
}

func TestNextPageURL(t *testing.T) {
	link := `<https://api.github.com/repos/o/r/commits?page=2>; rel="next", <https://api.github.com/repos/o/r/commits?page=5>; rel="last"`
	assert.Equal(t, "https://api.github.com/repos/o/r/commits?page=2", nextPageURL(link))
	assert.Empty(t, nextPageURL(`<https://api.github.com/x>; rel="last"`))
	assert.Empty(t, nextPageURL(""))
}
