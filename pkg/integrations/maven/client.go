package maven

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/matzehuels/legalscan/pkg/cache"
	"github.com/matzehuels/legalscan/pkg/coordinate"
	"github.com/matzehuels/legalscan/pkg/integrations"
)

// DefaultSearchURL is the Maven Central search endpoint.
const DefaultSearchURL = "https://search.maven.org/solrsearch/select"

// maxRows bounds the candidates one search returns.
const maxRows = 20

// ErrAmbiguous is returned by [Unique] when a search yields several candidates.
var ErrAmbiguous = errors.New("ambiguous search result")

// Client queries the Maven Central search index.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
	keyer   cache.Keyer
}

// NewClient creates a search client on top of an HTTP client.
// An empty baseURL selects [DefaultSearchURL]; a nil keyer the default
// key scheme.
func NewClient(client *integrations.Client, baseURL string, keyer cache.Keyer) *Client {
	if baseURL == "" {
		baseURL = DefaultSearchURL
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &Client{Client: client, baseURL: baseURL, keyer: keyer}
}

// Search finds artifacts with exactly the given artifact id and version,
// optionally restricted to a classifier. Results are sorted by
// coordinate and carry the requested classifier.
//
// Returns an empty slice, not an error, when nothing matches.
func (c *Client) Search(ctx context.Context, name, version, classifier string) ([]coordinate.Coordinate, error) {
	if name == "" || version == "" {
		return nil, fmt.Errorf("search needs a name and a version, got %q %q", name, version)
	}
	query := fmt.Sprintf("a:%q AND v:%q", name, version)
	if classifier != "" {
		query += fmt.Sprintf(" AND l:%q", classifier)
	}
	url := fmt.Sprintf("%s?q=%s&core=gav&rows=%d&wt=json", c.baseURL, integrations.URLEncode(query), maxRows)

	docs, err := c.search(ctx, c.keyer.SearchKey(name, version, classifier), url)
	if err != nil {
		return nil, err
	}
	out := make([]coordinate.Coordinate, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.coordinate(classifier))
	}
	return sortUnique(out), nil
}

// FindPackage finds artifacts containing the fully qualified class or
// package name fqn.
func (c *Client) FindPackage(ctx context.Context, fqn string) ([]coordinate.Coordinate, error) {
	if fqn == "" {
		return nil, errors.New("find package needs a name")
	}
	query := fmt.Sprintf("fc:%q", fqn)
	url := fmt.Sprintf("%s?q=%s&core=gav&rows=%d&wt=json", c.baseURL, integrations.URLEncode(query), maxRows)

	docs, err := c.search(ctx, c.keyer.HTTPKey("maven-fc", fqn), url)
	if err != nil {
		return nil, err
	}
	out := make([]coordinate.Coordinate, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.coordinate(""))
	}
	return sortUnique(out), nil
}

// Unique returns the single candidate of a search, or an error wrapping
// [integrations.ErrNotFound] or [ErrAmbiguous].
func Unique(results []coordinate.Coordinate) (coordinate.Coordinate, error) {
	switch len(results) {
	case 0:
		return coordinate.Coordinate{}, integrations.ErrNotFound
	case 1:
		return results[0], nil
	default:
		return coordinate.Coordinate{}, fmt.Errorf("%w: %d candidates", ErrAmbiguous, len(results))
	}
}

func (c *Client) search(ctx context.Context, key, url string) ([]searchDoc, error) {
	var resp searchResponse
	err := c.Cached(ctx, key, false, &resp, func() error {
		return c.Get(ctx, url, &resp)
	})
	if err != nil {
		return nil, err
	}
	return resp.Response.Docs, nil
}

func sortUnique(cs []coordinate.Coordinate) []coordinate.Coordinate {
	sort.Slice(cs, func(i, j int) bool { return cs[i].String() < cs[j].String() })
	return slices.Compact(cs)
}

type searchResponse struct {
	Response struct {
		NumFound int         `json:"numFound"`
		Docs     []searchDoc `json:"docs"`
	} `json:"response"`
}

type searchDoc struct {
	ID            string `json:"id"`
	GroupID       string `json:"g"`
	ArtifactID    string `json:"a"`
	Version       string `json:"v"`
	LatestVersion string `json:"latestVersion"`
	Packaging     string `json:"p"`
}

func (d searchDoc) coordinate(classifier string) coordinate.Coordinate {
	v := d.Version
	if v == "" {
		v = d.LatestVersion
	}
	c := coordinate.New(d.GroupID, d.ArtifactID, v)
	if classifier != "" {
		c = c.WithClassifier(classifier)
	}
	return c
}
