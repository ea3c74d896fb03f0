package integrations

import (
	"context"

	"github.com/matzehuels/legalscan/pkg/cache"
)

// TextFetcher fetches license texts named by descriptors, caching them
// by URL.
type TextFetcher struct {
	client *Client
	keyer  cache.Keyer
}

// NewTextFetcher returns a fetcher using client. A nil keyer selects the
// default key scheme.
func NewTextFetcher(client *Client, keyer cache.Keyer) *TextFetcher {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &TextFetcher{client: client, keyer: keyer}
}

// FetchText returns the body of url.
func (f *TextFetcher) FetchText(ctx context.Context, url string) (string, error) {
	var text string
	err := f.client.Cached(ctx, f.keyer.TextKey(url), false, &text, func() error {
		var err error
		text, err = f.client.GetText(ctx, url)
		return err
	})
	return text, err
}
