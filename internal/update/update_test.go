package update

import (
	"HelpdeskAdmin/internal/config"
	"HelpdeskAdmin/internal/testutils"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		v1       string
		v2       string
		expected int
	}{
		// Equal
		{"1.0.0", "1.0.0", 0},
		{"v1.0.0", "1.0.0", 0},
		{"1.0.0", "v1.0.0", 0},
		{"2024.01.01", "2024.01.01", 0},

		// Standard Numeric
		{"1.0.1", "1.0.0", 1},
		{"1.0.0", "1.0.1", -1},
		{"2.0.0", "1.9.9", 1},
		{"1.10.0", "1.9.0", 1},

		// Suffixes (Stable > Pre-release)
		{"1.0.0", "1.0.0-beta", 1},
		{"1.0.0-beta", "1.0.0", -1},
		{"1.0.0-rc", "1.0.0-beta", 1},

		// Four-part tags
		{"2024.01.20.1", "2024.01.20", 1},
		{"2024.01.20", "2024.01.20.1", -1},
		{"2024.01.20.2", "2024.01.20.1", 1},
		{"2024.01.20.1-feat", "2024.01.20.1", -1},
	}

	var cases []testutils.TestCase
	for _, tt := range tests {
		actual := CompareVersions(tt.v1, tt.v2)
		cases = append(cases, testutils.TestCase{
			Input:    fmt.Sprintf("%s vs %s", tt.v1, tt.v2),
			Expected: fmt.Sprintf("%d", tt.expected),
			Actual:   fmt.Sprintf("%d", actual),
			Pass:     actual == tt.expected,
		})
	}

	testutils.PrintTestTable(t, cases)
}

type fakeGitHub struct {
	tag        string
	noRelease  bool
	compared   string
	authHeader string
}

func (f *fakeGitHub) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/helpdesk/releases/latest", func(w http.ResponseWriter, r *http.Request) {
		f.authHeader = r.Header.Get("Authorization")
		if f.noRelease {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"message":"Not Found"}`)
			return
		}
		fmt.Fprintf(w, `{"tag_name":%q}`, f.tag)
	})
	mux.HandleFunc("/repos/acme/helpdesk/compare/", func(w http.ResponseWriter, r *http.Request) {
		f.compared = r.URL.Path
		fmt.Fprint(w, `{"files":[
			{"filename":"app/Http/Kernel.php","status":"modified","additions":3,"deletions":1,"changes":4},
			{"filename":"public/js/app.js","status":"added","additions":10,"deletions":0,"changes":10}
		]}`)
	})
	return mux
}

func newTestChecker(t *testing.T, f *fakeGitHub, token string) *Checker {
	t.Helper()
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)

	c, err := NewChecker(config.UpdateConfig{Repository: "acme/helpdesk", APIBaseURL: srv.URL}, token, srv.Client())
	require.NoError(t, err)
	return c
}

func TestCheck_NewerRelease(t *testing.T) {
	f := &fakeGitHub{tag: "1.2.0"}
	c := newTestChecker(t, f, "secret")

	res, err := c.Check(context.Background(), "1.0.0")
	require.NoError(t, err)
	assert.Equal(t, "1.2.0", res.Version)
	require.Len(t, res.Files, 2)
	assert.Equal(t, File{Filename: "app/Http/Kernel.php", Status: "modified", Additions: 3, Deletions: 1, Changes: 4}, res.Files[0])
	assert.Equal(t, "/repos/acme/helpdesk/compare/1.0.0...1.2.0", f.compared)
	assert.Equal(t, "Bearer secret", f.authHeader)
}

func TestCheck_UpToDate(t *testing.T) {
	f := &fakeGitHub{tag: "1.0.0"}
	c := newTestChecker(t, f, "")

	res, err := c.Check(context.Background(), "1.0.0")
	require.NoError(t, err)
	assert.Empty(t, res.Version)
	assert.NotNil(t, res.Files)
	assert.Empty(t, res.Files)
	assert.Empty(t, f.compared)
	assert.Empty(t, f.authHeader)
}

func TestLatest_NoReleases(t *testing.T) {
	c := newTestChecker(t, &fakeGitHub{noRelease: true}, "")

	tag, err := c.Latest(context.Background(), "1.0.0")
	require.NoError(t, err)
	assert.Empty(t, tag)
}

func TestNewChecker_InvalidRepository(t *testing.T) {
	_, err := NewChecker(config.UpdateConfig{Repository: "helpdesk"}, "", nil)
	assert.Error(t, err)
}
