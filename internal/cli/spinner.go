package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/legalscan/pkg/observability"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// scanSpinner animates a status line while a scan runs. Installed as the
// scan hooks, it counts the archives opened and shows the current one.
type scanSpinner struct {
	observability.NoopScanHooks

	out      io.Writer
	label    string
	interval time.Duration

	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	once    sync.Once

	mu       sync.Mutex
	archives int
	current  string
	width    int
}

// newScanSpinner returns a spinner writing to out that stops with ctx.
func newScanSpinner(ctx context.Context, out io.Writer, label string) *scanSpinner {
	ctx, cancel := context.WithCancel(ctx)
	return &scanSpinner{
		out:      out,
		label:    label,
		interval: 80 * time.Millisecond,
		ctx:      ctx,
		cancel:   cancel,
		stopped:  make(chan struct{}),
	}
}

// OnArchiveStart records an archive the scan opened.
func (s *scanSpinner) OnArchiveStart(_ context.Context, path string, _ int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.archives++
	s.current = path
}

// message renders the status text.
func (s *scanSpinner) message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.archives == 0 {
		return s.label
	}
	noun := "archives"
	if s.archives == 1 {
		noun = "archive"
	}
	return fmt.Sprintf("%s: %d %s, %s", s.label, s.archives, noun, s.current)
}

// Start begins the animation.
func (s *scanSpinner) Start() {
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.draw(spinnerFrames[i%len(spinnerFrames)])
			}
		}
	}()
}

func (s *scanSpinner) draw(frame string) {
	line := s.message()
	s.mu.Lock()
	defer s.mu.Unlock()
	// Pad so a shorter line fully covers the previous one.
	pad := max(s.width-len(line), 0)
	s.width = max(s.width, len(line))
	fmt.Fprintf(s.out, "\r%s %s%s", styleIconSpinner.Render(frame), StyleDim.Render(line), strings.Repeat(" ", pad))
}

// Stop ends the animation and clears the line. It is safe to call more
// than once.
func (s *scanSpinner) Stop() {
	s.once.Do(func() {
		s.cancel()
		<-s.stopped
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.width > 0 {
			fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", s.width+2))
		}
	})
}

var _ observability.ScanHooks = (*scanSpinner)(nil)
