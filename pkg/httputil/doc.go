// Package httputil holds the retry policy shared by the index,
// repository and license-text clients.
//
// Transient failures (network errors, timeouts, 5xx and 429 responses)
// are wrapped with [Retryable]; [Retry] repeats only those, doubling the
// delay between attempts:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return httputil.Retryable(err)
//	    }
//	    ...
//	})
//
// Permanent failures such as 404 are returned on the first attempt.
package httputil
