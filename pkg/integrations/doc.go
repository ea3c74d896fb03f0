// Package integrations provides the HTTP plumbing for remote lookups.
//
// # Overview
//
// legalscan reaches out to three kinds of servers: the Maven Central
// search index (see [maven]), artifact repositories (see [repository])
// and arbitrary hosts serving license texts named by descriptors.
// All of them go through a [Client] backed by a [Pool].
//
// # Pool
//
// A [Pool] hands out one *http.Client per host with short dial and
// response-header timeouts, so one slow mirror fails a single lookup
// rather than stalling the scan. The pool is owned by whoever creates
// it and closed at the end of the run:
//
//	pool := integrations.NewPool(integrations.PoolOptions{InsecureTLS: true})
//	defer pool.Close()
//	client := integrations.NewClient(pool, cache.NewNullCache(), 24*time.Hour, nil)
//
// # Errors
//
// 404 responses map to [ErrNotFound]. Network failures and 5xx/429
// responses map to [ErrNetwork] wrapped as retryable, and [Client.Cached]
// and [Client.Download] retry them with backoff.
//
// [maven]: github.com/matzehuels/legalscan/pkg/integrations/maven
// [repository]: github.com/matzehuels/legalscan/pkg/repository
package integrations
