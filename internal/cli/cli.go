package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/legalscan/pkg/buildinfo"
	"github.com/matzehuels/legalscan/pkg/cache"
	"github.com/matzehuels/legalscan/pkg/errors"
	"github.com/matzehuels/legalscan/pkg/integrations"
	"github.com/matzehuels/legalscan/pkg/integrations/maven"
	"github.com/matzehuels/legalscan/pkg/licenses"
	"github.com/matzehuels/legalscan/pkg/repository"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "legalscan"

	// redisPrefix namespaces keys in a shared Redis instance.
	redisPrefix = appName + ":"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configFile is the --config value.
	configFile string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// =============================================================================
// Services
// =============================================================================

// services bundles the network collaborators of one run. The pool and
// cache are owned here and released by close.
type services struct {
	pool   *integrations.Pool
	cache  cache.Cache
	client *integrations.Client
}

// newServices builds the HTTP pool, response cache and shared client
// described by cfg.
func (c *CLI) newServices(ctx context.Context, cfg *Config) (*services, error) {
	ch, err := c.newCache(ctx, cfg)
	if err != nil {
		return nil, err
	}
	pool := integrations.NewPool(integrations.PoolOptions{
		ConnectTimeout: cfg.HTTP.ConnectTimeout,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		InsecureTLS:    cfg.HTTP.InsecureTLS,
	})
	headers := map[string]string{"User-Agent": buildinfo.UserAgent()}
	return &services{
		pool:   pool,
		cache:  ch,
		client: integrations.NewClient(pool, ch, cfg.Cache.TTL, headers),
	}, nil
}

func (s *services) close() {
	s.pool.Close()
	_ = s.cache.Close()
}

// index returns the package index client, or nil when offline.
func (s *services) index(cfg *Config) *maven.Client {
	if cfg.Offline {
		return nil
	}
	return maven.NewClient(s.client, cfg.IndexURL, nil)
}

// resolver returns the artifact resolver: the local repository, backed
// by the remote mirrors unless offline.
func (s *services) resolver(cfg *Config, logger *log.Logger) repository.Resolver {
	local := repository.NewLocal(cfg.LocalRepository)
	if cfg.Offline {
		return local
	}
	remote := repository.NewRemote(local, s.client, logger, cfg.RemoteRepositories...)
	return repository.Chain{local, remote}
}

// newCache selects the response cache: none when disabled, Redis when a
// URL is configured, otherwise files under the user cache directory.
func (c *CLI) newCache(ctx context.Context, cfg *Config) (cache.Cache, error) {
	if cfg.Cache.Disabled {
		return cache.NewNullCache(), nil
	}
	if cfg.Cache.RedisURL != "" {
		rc, err := cache.NewRedisCache(ctx, cfg.Cache.RedisURL, redisPrefix)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to redis cache")
		}
		return rc, nil
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Warn("cache directory unavailable, caching disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// loadRegistry reads the registry file at path, or the bundled defaults
// when path is empty.
func loadRegistry(path string) (*licenses.Registry, error) {
	if path == "" {
		return licenses.LoadDefaults()
	}
	return licenses.LoadFile(path)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/legalscan/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
