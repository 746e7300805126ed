package app

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"vision-classifier/internal/domain/entity"
	"vision-classifier/internal/domain/port"
)

// ScreenService управляет состоянием экранов и рассылает изменения подписчикам.
type ScreenService struct {
	repo port.ScreenRepository

	mu   sync.Mutex
	subs map[string]map[chan entity.ScreenView]struct{}
}

func NewScreenService(repo port.ScreenRepository) *ScreenService {
	return &ScreenService{
		repo: repo,
		subs: make(map[string]map[chan entity.ScreenView]struct{}),
	}
}

// Open создаёт новый экран со случайным ID.
func (s *ScreenService) Open(ctx context.Context) (*entity.Screen, error) {
	screen := entity.NewScreen(uuid.NewString())
	if err := s.repo.Save(ctx, screen); err != nil {
		return nil, err
	}
	return screen, nil
}

func (s *ScreenService) Get(ctx context.Context, id string) (*entity.Screen, error) {
	return s.repo.Get(ctx, id)
}

func (s *ScreenService) View(ctx context.Context, id string) (entity.ScreenView, error) {
	screen, err := s.repo.Get(ctx, id)
	if err != nil {
		return entity.ScreenView{}, err
	}
	return screen.View(), nil
}

func (s *ScreenService) SetPermission(ctx context.Context, id string, p entity.PermissionState) (*entity.Screen, error) {
	return s.update(ctx, id, func(screen *entity.Screen) bool {
		before := screen.Permission
		screen.SetPermission(p)
		return before != screen.Permission
	})
}

func (s *ScreenService) MarkModelLoaded(ctx context.Context, id string) (*entity.Screen, error) {
	return s.update(ctx, id, func(screen *entity.Screen) bool {
		before := screen.ModelLoaded
		screen.MarkModelLoaded()
		return !before
	})
}

// ShowLabels заменяет метки экрана. Пустой список оставляет прежние метки.
func (s *ScreenService) ShowLabels(ctx context.Context, id string, labels []string) (*entity.Screen, error) {
	return s.update(ctx, id, func(screen *entity.Screen) bool {
		return screen.ReplaceLabels(labels)
	})
}

// LabelSink возвращает приёмник меток для конкретного экрана
func (s *ScreenService) LabelSink(id string) port.LabelSink {
	return screenLabels{svc: s, id: id}
}

// Subscribe подписывает на изменения представления экрана.
// Канал хранит только последнее представление.
func (s *ScreenService) Subscribe(id string) (<-chan entity.ScreenView, func()) {
	ch := make(chan entity.ScreenView, 1)

	s.mu.Lock()
	if s.subs[id] == nil {
		s.subs[id] = make(map[chan entity.ScreenView]struct{})
	}
	s.subs[id][ch] = struct{}{}
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs[id], ch)
			if len(s.subs[id]) == 0 {
				delete(s.subs, id)
			}
			s.mu.Unlock()
		})
	}
	return ch, cancel
}

func (s *ScreenService) update(ctx context.Context, id string, fn func(*entity.Screen) bool) (*entity.Screen, error) {
	changed := false
	screen, err := s.repo.Update(ctx, id, func(screen *entity.Screen) {
		changed = fn(screen)
	})
	if err != nil {
		return nil, err
	}
	if changed {
		s.publish(id, screen.View())
	}
	return screen, nil
}

func (s *ScreenService) publish(id string, view entity.ScreenView) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for ch := range s.subs[id] {
		// Вытесняем устаревшее представление
		select {
		case <-ch:
		default:
		}
		ch <- view
	}
}

type screenLabels struct {
	svc *ScreenService
	id  string
}

func (l screenLabels) ShowLabels(ctx context.Context, labels []string) error {
	_, err := l.svc.ShowLabels(ctx, l.id, labels)
	return err
}
