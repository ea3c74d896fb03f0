package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/legalscan/pkg/coordinate"
	"github.com/matzehuels/legalscan/pkg/integrations"
)

// Downloader fetches a URL into a file. [integrations.Client] implements it.
type Downloader interface {
	Download(ctx context.Context, url, dest string) error
}

// Remote downloads artifacts from mirrors into a local repository and
// serves them from there afterwards.
type Remote struct {
	local   *Local
	mirrors []string
	client  Downloader
	logger  *log.Logger
}

// NewRemote returns a resolver storing downloads under local. Mirrors
// are tried in order; none selects [DefaultRemoteURL].
func NewRemote(local *Local, client Downloader, logger *log.Logger, mirrors ...string) *Remote {
	if len(mirrors) == 0 {
		mirrors = []string{DefaultRemoteURL}
	}
	for i, m := range mirrors {
		mirrors[i] = strings.TrimSuffix(m, "/")
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Remote{local: local, mirrors: mirrors, client: client, logger: logger}
}

func (r *Remote) Resolve(ctx context.Context, c coordinate.Coordinate) (string, error) {
	if p, err := r.local.Resolve(ctx, c); err == nil {
		return p, nil
	}
	rel, err := Layout(c)
	if err != nil {
		return "", err
	}
	dest, err := r.local.Path(c)
	if err != nil {
		return "", err
	}

	var errs []error
	for _, m := range r.mirrors {
		url := m + "/" + rel
		r.logger.Debug("downloading", "url", url)
		err := r.client.Download(ctx, url, dest)
		if err == nil {
			return dest, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if errors.Is(err, integrations.ErrNotFound) {
			continue
		}
		r.logger.Debug("download failed", "url", url, "err", err)
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return "", fmt.Errorf("download %s: %w", c, errors.Join(errs...))
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, c)
}
