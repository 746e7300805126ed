package app

import (
	"context"
	"errors"
	"image"
	"sync"
	"sync/atomic"
	"time"

	"vision-classifier/internal/domain/entity"
	"vision-classifier/internal/domain/port"
)

type fakeFrame struct {
	released atomic.Int32
}

func (f *fakeFrame) Bounds() image.Rectangle { return image.Rect(0, 0, 152, 200) }

func (f *fakeFrame) Release() { f.released.Add(1) }

type fakeStream struct {
	mu      sync.Mutex
	empty   bool
	nexts   int
	frames  []*fakeFrame
	closed  bool
	preview []byte
}

func (s *fakeStream) Next() (port.Frame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nexts++
	if s.empty {
		return nil, false
	}
	f := &fakeFrame{}
	s.frames = append(s.frames, f)
	return f, true
}

func (s *fakeStream) Preview(ctx context.Context) ([]byte, error) {
	if s.preview == nil {
		return nil, errors.New("no preview")
	}
	return s.preview, nil
}

func (s *fakeStream) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

func (s *fakeStream) nextCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nexts
}

func (s *fakeStream) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *fakeStream) allReleased() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.frames {
		if f.released.Load() != 1 {
			return false
		}
	}
	return true
}

type fakeClassifier struct {
	mu     sync.Mutex
	calls  int
	preds  []entity.Prediction
	err    error
	block  chan struct{}
	closed bool
}

func (c *fakeClassifier) Classify(ctx context.Context, frame port.Frame) ([]entity.Prediction, error) {
	c.mu.Lock()
	c.calls++
	block, preds, err := c.block, c.preds, c.err
	c.mu.Unlock()

	if block != nil {
		<-block
	}
	return preds, err
}

func (c *fakeClassifier) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	return nil
}

func (c *fakeClassifier) set(preds []entity.Prediction, err error) {
	c.mu.Lock()
	c.preds, c.err = preds, err
	c.mu.Unlock()
}

func (c *fakeClassifier) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func (c *fakeClassifier) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

type recordingSink struct {
	mu    sync.Mutex
	shown [][]string
}

func (s *recordingSink) ShowLabels(ctx context.Context, labels []string) error {
	s.mu.Lock()
	s.shown = append(s.shown, labels)
	s.mu.Unlock()
	return nil
}

func (s *recordingSink) last() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.shown) == 0 {
		return nil
	}
	return s.shown[len(s.shown)-1]
}

type fakeCamera struct {
	mu      sync.Mutex
	perm    entity.PermissionState
	permErr error
	stream  *fakeStream
	opened  bool
}

func (c *fakeCamera) RequestPermission(ctx context.Context) (entity.PermissionState, error) {
	return c.perm, c.permErr
}

func (c *fakeCamera) Open(ctx context.Context, opts entity.StreamOptions) (port.FrameStream, error) {
	c.mu.Lock()
	c.opened = true
	c.mu.Unlock()
	return c.stream, nil
}

func (c *fakeCamera) wasOpened() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opened
}

type fakeLoader struct {
	classifier *fakeClassifier
	err        error
	loads      atomic.Int32
}

func (l *fakeLoader) Load(ctx context.Context, cfg entity.ModelConfig) (port.Classifier, error) {
	l.loads.Add(1)
	if l.err != nil {
		return nil, l.err
	}
	return l.classifier, nil
}

type manualClock struct {
	ch chan time.Time
}

func newManualClock() *manualClock {
	return &manualClock{ch: make(chan time.Time)}
}

func (c *manualClock) Ticks(ctx context.Context) <-chan time.Time { return c.ch }

// tick отправляет тик, если цикл готов его принять
func (c *manualClock) tick() {
	select {
	case c.ch <- time.Now():
	default:
	}
}

type fakeOverlay struct{}

func (fakeOverlay) Render(preview []byte, labels []string) ([]byte, error) {
	out := append([]byte(nil), preview...)
	for _, l := range labels {
		out = append(out, []byte("|"+l)...)
	}
	return out, nil
}

func syncLoop(stream port.FrameStream, sink port.LabelSink, interval int) *SamplingLoop {
	l := NewSamplingLoop(stream, sink, interval)
	l.dispatch = func(f func()) { f() }
	return l
}
