package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	s := NoopScanHooks{}
	s.OnArchiveStart(ctx, "lib/a.jar", 0)
	s.OnArchiveComplete(ctx, "lib/a.jar", time.Second, nil)
	s.OnResolve(ctx, "org.example:a:jar:1.0", nil)
	s.OnClassify(ctx, "lib/a.jar", []string{"apache-2.0"})

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "search")
	c.OnCacheMiss(ctx, "text")
	c.OnCacheSet(ctx, "search", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "search.maven.org", "/solrsearch/select")
	h.OnResponse(ctx, "GET", "search.maven.org", "/solrsearch/select", 200, time.Second)
	h.OnError(ctx, "GET", "search.maven.org", "/solrsearch/select", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Scan().(NoopScanHooks); !ok {
		t.Error("Scan() should return NoopScanHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customScan := &testScanHooks{}
	SetScanHooks(customScan)
	if Scan() != customScan {
		t.Error("SetScanHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Scan().(NoopScanHooks); !ok {
		t.Error("Reset() should restore NoopScanHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testScanHooks{}
	SetScanHooks(custom)
	SetScanHooks(nil)
	if Scan() != custom {
		t.Error("SetScanHooks(nil) should be ignored")
	}
}

type testScanHooks struct{ NoopScanHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
