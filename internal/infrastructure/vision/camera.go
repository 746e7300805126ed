//go:build gocv
// +build gocv

package vision

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"vision-classifier/internal/domain/entity"
	"vision-classifier/internal/domain/port"
)

// GoCVCamera камера через OpenCV VideoCapture.
type GoCVCamera struct {
	Device string
	// Policy принудительный ответ на запрос доступа; unknown — проверить устройство
	Policy entity.PermissionState
}

// NewGoCVCamera создаёт камеру для устройства (номер или URL потока).
func NewGoCVCamera(device string, policy entity.PermissionState) *GoCVCamera {
	return &GoCVCamera{Device: device, Policy: policy}
}

// RequestPermission проверяет, что устройство можно открыть.
func (c *GoCVCamera) RequestPermission(ctx context.Context) (entity.PermissionState, error) {
	if c.Policy != entity.PermissionUnknown {
		return c.Policy, nil
	}

	capture, err := gocv.OpenVideoCapture(c.Device)
	if err != nil {
		return entity.PermissionDenied, nil
	}
	defer capture.Close()

	if !capture.IsOpened() {
		return entity.PermissionDenied, nil
	}
	return entity.PermissionGranted, nil
}

// Open запускает чтение кадров в фоне.
func (c *GoCVCamera) Open(ctx context.Context, opts entity.StreamOptions) (port.FrameStream, error) {
	capture, err := gocv.OpenVideoCapture(c.Device)
	if err != nil {
		return nil, fmt.Errorf("open video capture %s: %w", c.Device, err)
	}
	if opts.Texture.Width > 0 && opts.Texture.Height > 0 {
		capture.Set(gocv.VideoCaptureFrameWidth, float64(opts.Texture.Width))
		capture.Set(gocv.VideoCaptureFrameHeight, float64(opts.Texture.Height))
	}

	s := &captureStream{
		capture: capture,
		resize:  image.Pt(opts.Resize.Width, opts.Resize.Height),
		latest:  gocv.NewMat(),
		done:    make(chan struct{}),
	}
	s.wg.Add(1)
	go s.run()

	return s, nil
}

// captureStream держит последний кадр для превью и отдаёт его уменьшенную копию классификатору.
type captureStream struct {
	capture *gocv.VideoCapture
	resize  image.Point

	mu     sync.Mutex
	latest gocv.Mat
	fresh  bool
	closed bool // latest уже освобождён

	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

func (s *captureStream) run() {
	defer s.wg.Done()

	img := gocv.NewMat()
	defer img.Close()

	for {
		select {
		case <-s.done:
			return
		default:
		}

		if ok := s.capture.Read(&img); !ok || img.Empty() {
			time.Sleep(10 * time.Millisecond)
			continue
		}

		s.mu.Lock()
		if !s.closed {
			img.CopyTo(&s.latest)
			s.fresh = true
		}
		s.mu.Unlock()
	}
}

// Next отдаёт новый кадр, уменьшенный до размера входа классификатора.
func (s *captureStream) Next() (port.Frame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || !s.fresh || s.latest.Empty() {
		return nil, false
	}
	s.fresh = false

	resized := gocv.NewMat()
	if s.resize.X > 0 && s.resize.Y > 0 {
		gocv.Resize(s.latest, &resized, s.resize, 0, 0, gocv.InterpolationArea)
	} else {
		s.latest.CopyTo(&resized)
	}
	return &matFrame{mat: resized}, true
}

// Preview кодирует последний полный кадр в JPEG.
func (s *captureStream) Preview(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.latest.Empty() {
		return nil, entity.ErrNoPreview
	}
	buf, err := gocv.IMEncode(gocv.JPEGFileExt, s.latest)
	if err != nil {
		return nil, fmt.Errorf("encode preview: %w", err)
	}
	defer buf.Close()

	return bytes.Clone(buf.GetBytes()), nil
}

func (s *captureStream) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		s.wg.Wait()
		if s.capture != nil {
			err = s.capture.Close()
		}

		// Превью из другой горутины может прийти после закрытия
		s.mu.Lock()
		s.closed = true
		s.fresh = false
		s.latest.Close()
		s.mu.Unlock()
	})
	return err
}

// matFrame кадр поверх gocv.Mat
type matFrame struct {
	mat  gocv.Mat
	once sync.Once
}

func (f *matFrame) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.mat.Cols(), f.mat.Rows())
}

func (f *matFrame) Release() {
	f.once.Do(func() {
		f.mat.Close()
	})
}

var (
	_ port.Camera      = (*GoCVCamera)(nil)
	_ port.FrameStream = (*captureStream)(nil)
	_ port.Frame       = (*matFrame)(nil)
)
