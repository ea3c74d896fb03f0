package maven

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/legalscan/pkg/cache"
	"github.com/matzehuels/legalscan/pkg/coordinate"
	"github.com/matzehuels/legalscan/pkg/integrations"
)

func testClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { c.Close() })
	return NewClient(integrations.NewClient(integrations.NewPool(integrations.PoolOptions{}), c, time.Hour, nil), serverURL, nil)
}

func TestClient_Search(t *testing.T) {
	var gotQuery, gotCore string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotCore = r.URL.Query().Get("core")
		resp := searchResponse{}
		resp.Response.NumFound = 2
		resp.Response.Docs = []searchDoc{
			{GroupID: "org.example", ArtifactID: "widget", Version: "2.0"},
			{GroupID: "com.acme", ArtifactID: "widget", Version: "2.0"},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	c := testClient(t, server.URL)
	got, err := c.Search(context.Background(), "widget", "2.0", "sources")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if want := `a:"widget" AND v:"2.0" AND l:"sources"`; gotQuery != want {
		t.Errorf("query = %q, want %q", gotQuery, want)
	}
	if gotCore != "gav" {
		t.Errorf("core = %q, want gav", gotCore)
	}
	want := []coordinate.Coordinate{
		coordinate.New("com.acme", "widget", "2.0").WithClassifier("sources"),
		coordinate.New("org.example", "widget", "2.0").WithClassifier("sources"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Search mismatch (-want +got):\n%s", diff)
	}
}

func TestClient_SearchCached(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		resp := searchResponse{}
		resp.Response.Docs = []searchDoc{{GroupID: "g", ArtifactID: "a", Version: "1"}}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	c := testClient(t, server.URL)
	for range 2 {
		if _, err := c.Search(context.Background(), "a", "1", ""); err != nil {
			t.Fatalf("Search failed: %v", err)
		}
	}
	if calls != 1 {
		t.Errorf("server calls = %d, want 1", calls)
	}
}

func TestClient_SearchNoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(searchResponse{})
	}))
	defer server.Close()

	c := testClient(t, server.URL)
	got, err := c.Search(context.Background(), "missing", "1.0", "")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if _, err := Unique(got); !errors.Is(err, integrations.ErrNotFound) {
		t.Errorf("Unique() error = %v, want ErrNotFound", err)
	}
}

func TestClient_SearchRequiresVersion(t *testing.T) {
	c := testClient(t, "http://127.0.0.1:0")
	if _, err := c.Search(context.Background(), "widget", "", ""); err == nil {
		t.Error("Search without version should fail")
	}
}

func TestClient_FindPackage(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		resp := searchResponse{}
		resp.Response.Docs = []searchDoc{
			{GroupID: "commons-io", ArtifactID: "commons-io", Version: "2.4"},
			{GroupID: "commons-io", ArtifactID: "commons-io", Version: "2.4"},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	c := testClient(t, server.URL)
	got, err := c.FindPackage(context.Background(), "org.apache.commons.io")
	if err != nil {
		t.Fatalf("FindPackage failed: %v", err)
	}
	if gotQuery != `fc:"org.apache.commons.io"` {
		t.Errorf("query = %q", gotQuery)
	}
	if len(got) != 1 {
		t.Errorf("duplicates not collapsed: %v", got)
	}
}

func TestUnique(t *testing.T) {
	one := []coordinate.Coordinate{coordinate.New("g", "a", "1")}
	if c, err := Unique(one); err != nil || c != one[0] {
		t.Errorf("Unique(one) = %v, %v", c, err)
	}
	two := append(one, coordinate.New("h", "a", "1"))
	if _, err := Unique(two); !errors.Is(err, ErrAmbiguous) {
		t.Errorf("Unique(two) error = %v, want ErrAmbiguous", err)
	}
}

func TestClient_SearchServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	c := testClient(t, server.URL)
	if _, err := c.Search(context.Background(), "widget", "1.0", ""); !errors.Is(err, integrations.ErrNetwork) {
		t.Errorf("Search error = %v, want ErrNetwork", err)
	}
}
