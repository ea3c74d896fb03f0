package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/legalscan/pkg/coordinate"
	"github.com/matzehuels/legalscan/pkg/integrations"
)

func TestLayout(t *testing.T) {
	tests := []struct {
		name    string
		c       coordinate.Coordinate
		want    string
		wantErr bool
	}{
		{"jar", coordinate.New("org.apache.commons", "commons-lang3", "3.12.0"),
			"org/apache/commons/commons-lang3/3.12.0/commons-lang3-3.12.0.jar", false},
		{"sources", coordinate.New("commons-io", "commons-io", "2.4").WithClassifier("sources"),
			"commons-io/commons-io/2.4/commons-io-2.4-sources.jar", false},
		{"pom", coordinate.New("org.example", "parent", "1").WithType(coordinate.TypePOM),
			"org/example/parent/1/parent-1.pom", false},
		{"no version", coordinate.New("g", "a", ""), "", true},
		{"traversal", coordinate.New("..", "a", "1"), "", true},
		{"separator", coordinate.New("g", "a/b", "1"), "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Layout(tt.c)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Layout() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Layout() = %q, want %q", got, tt.want)
			}
		})
	}
}

func writeArtifact(t *testing.T, root string, c coordinate.Coordinate) string {
	t.Helper()
	p, err := NewLocal(root).Path(c)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte("jar"), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLocal(t *testing.T) {
	root := t.TempDir()
	have := coordinate.New("org.example", "widget", "1.0")
	want := writeArtifact(t, root, have)

	l := NewLocal(root)
	got, err := l.Resolve(context.Background(), have)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if got != want {
		t.Errorf("Resolve() = %q, want %q", got, want)
	}

	_, err = l.Resolve(context.Background(), have.WithClassifier("sources"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Resolve(missing) error = %v, want ErrNotFound", err)
	}
}

type fakeDownloader struct {
	files map[string]string // url -> content
	calls []string
	err   error
}

func (f *fakeDownloader) Download(_ context.Context, url, dest string) error {
	f.calls = append(f.calls, url)
	if f.err != nil {
		return f.err
	}
	content, ok := f.files[url]
	if !ok {
		return integrations.ErrNotFound
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dest, []byte(content), 0o644)
}

func TestRemote(t *testing.T) {
	c := coordinate.New("org.example", "widget", "1.0").WithClassifier("sources")
	dl := &fakeDownloader{files: map[string]string{
		"https://mirror-b/org/example/widget/1.0/widget-1.0-sources.jar": "sources",
	}}
	local := NewLocal(t.TempDir())
	r := NewRemote(local, dl, nil, "https://mirror-a/", "https://mirror-b")

	p, err := r.Resolve(context.Background(), c)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	data, err := os.ReadFile(p)
	if err != nil || string(data) != "sources" {
		t.Fatalf("downloaded file = %q, %v", data, err)
	}
	if len(dl.calls) != 2 {
		t.Errorf("download calls = %v, want both mirrors", dl.calls)
	}

	// A second resolve is served from the local repository.
	if _, err := r.Resolve(context.Background(), c); err != nil {
		t.Fatalf("second Resolve() error: %v", err)
	}
	if len(dl.calls) != 2 {
		t.Errorf("second resolve downloaded again: %v", dl.calls)
	}
}

func TestRemoteNotFound(t *testing.T) {
	r := NewRemote(NewLocal(t.TempDir()), &fakeDownloader{}, nil)
	_, err := r.Resolve(context.Background(), coordinate.New("g", "a", "1"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Resolve() error = %v, want ErrNotFound", err)
	}
}

func TestRemoteNetworkError(t *testing.T) {
	r := NewRemote(NewLocal(t.TempDir()), &fakeDownloader{err: integrations.ErrNetwork}, nil)
	_, err := r.Resolve(context.Background(), coordinate.New("g", "a", "1"))
	if !errors.Is(err, integrations.ErrNetwork) {
		t.Errorf("Resolve() error = %v, want ErrNetwork", err)
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("network failures must not look like a missing artifact")
	}
}

func TestChain(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	c := coordinate.New("org.example", "widget", "1.0")
	want := writeArtifact(t, second, c)

	ch := Chain{NewLocal(first), NewLocal(second)}
	got, err := ch.Resolve(context.Background(), c)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if got != want {
		t.Errorf("Resolve() = %q, want %q", got, want)
	}

	_, err = ch.Resolve(context.Background(), coordinate.New("org.example", "other", "1.0"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Resolve(missing) error = %v, want ErrNotFound", err)
	}
}
