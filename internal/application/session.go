package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"vision-classifier/internal/domain/entity"
	"vision-classifier/internal/domain/port"
	"vision-classifier/internal/log"
)

// SessionConfig параметры сессии классификации
type SessionConfig struct {
	Model            entity.ModelConfig
	Stream           entity.StreamOptions
	SamplingInterval int
}

// SessionService ведёт экран от запроса доступа до работающего цикла классификации.
type SessionService struct {
	screens *ScreenService
	camera  port.Camera
	loader  port.ClassifierLoader
	clock   port.DisplayClock
	overlay port.OverlayRenderer
	cfg     SessionConfig

	mu      sync.RWMutex
	streams map[string]port.FrameStream
}

// NewSessionService создаёт сервис сессий. overlay может быть nil.
func NewSessionService(
	screens *ScreenService,
	camera port.Camera,
	loader port.ClassifierLoader,
	clock port.DisplayClock,
	overlay port.OverlayRenderer,
	cfg SessionConfig,
) *SessionService {
	return &SessionService{
		screens: screens,
		camera:  camera,
		loader:  loader,
		clock:   clock,
		overlay: overlay,
		cfg:     cfg,
		streams: make(map[string]port.FrameStream),
	}
}

// Run запрашивает доступ, открывает камеру, загружает модель и крутит цикл
// до отмены контекста. При отказе в доступе сразу возвращает ErrPermissionDenied.
func (s *SessionService) Run(ctx context.Context, screenID string) error {
	perm, err := s.camera.RequestPermission(ctx)
	if err != nil {
		perm = entity.PermissionDenied
		err = fmt.Errorf("request camera permission: %w", err)
	}
	if _, serr := s.screens.SetPermission(ctx, screenID, perm); serr != nil {
		return serr
	}
	if err != nil {
		return err
	}
	if perm != entity.PermissionGranted {
		log.Warn("camera permission denied", "screen", screenID)
		return entity.ErrPermissionDenied
	}

	stream, err := s.camera.Open(ctx, s.cfg.Stream)
	if err != nil {
		return fmt.Errorf("open camera stream: %w", err)
	}
	s.setStream(screenID, stream)
	defer func() {
		s.setStream(screenID, nil)
		if err := stream.Close(); err != nil {
			log.Warn("failed to close camera stream", "error", err)
		}
	}()

	ready := make(chan port.Classifier)
	go s.loadModel(ctx, screenID, ready)

	loop := NewSamplingLoop(stream, s.screens.LabelSink(screenID), s.cfg.SamplingInterval)
	err = loop.Run(ctx, s.clock.Ticks(ctx), ready)

	if c := loop.Classifier(); c != nil {
		if cerr := c.Close(); cerr != nil {
			log.Warn("failed to close classifier", "error", cerr)
		}
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

func (s *SessionService) loadModel(ctx context.Context, screenID string, ready chan<- port.Classifier) {
	log.Info("loading model", "model", s.cfg.Model.Name())

	if err := s.cfg.Model.Validate(); err != nil {
		log.Error("model config rejected", "error", err)
		return
	}

	c, err := s.loader.Load(ctx, s.cfg.Model)
	if err != nil {
		// Экран остаётся в состоянии "Model not loaded"
		log.Error("failed to load model", "model", s.cfg.Model.Name(), "error", err)
		return
	}

	if _, err := s.screens.MarkModelLoaded(ctx, screenID); err != nil {
		log.Warn("failed to mark model loaded", "screen", screenID, "error", err)
	}

	select {
	case ready <- c:
		log.Info("model loaded", "model", s.cfg.Model.Name())
	case <-ctx.Done():
		c.Close()
	}
}

// Snapshot возвращает превью экрана в JPEG с наложенными метками.
func (s *SessionService) Snapshot(ctx context.Context, screenID string) ([]byte, error) {
	view, err := s.screens.View(ctx, screenID)
	if err != nil {
		return nil, err
	}
	if !view.ShowPreview {
		return nil, entity.ErrNoPreview
	}

	s.mu.RLock()
	stream := s.streams[screenID]
	s.mu.RUnlock()
	if stream == nil {
		return nil, entity.ErrNoPreview
	}

	preview, err := stream.Preview(ctx)
	if err != nil {
		return nil, fmt.Errorf("capture preview: %w", err)
	}

	if s.overlay == nil || len(view.Labels) == 0 {
		return preview, nil
	}

	rendered, err := s.overlay.Render(preview, view.Labels)
	if err != nil {
		log.Debug("overlay failed, sending raw preview", "error", err)
		return preview, nil
	}
	return rendered, nil
}

func (s *SessionService) setStream(screenID string, stream port.FrameStream) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if stream == nil {
		delete(s.streams, screenID)
		return
	}
	s.streams[screenID] = stream
}
