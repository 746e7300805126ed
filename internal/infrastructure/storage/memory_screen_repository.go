package storage

import (
	"context"
	"sync"

	"vision-classifier/internal/domain/entity"
	"vision-classifier/internal/domain/port"
)

// MemoryScreenRepository in-memory хранилище экранов
type MemoryScreenRepository struct {
	mu      sync.RWMutex
	screens map[string]*entity.Screen
}

// NewMemoryScreenRepository создаёт новое in-memory хранилище
func NewMemoryScreenRepository() *MemoryScreenRepository {
	return &MemoryScreenRepository{
		screens: make(map[string]*entity.Screen),
	}
}

// Get возвращает копию экрана по ID
func (r *MemoryScreenRepository) Get(ctx context.Context, id string) (*entity.Screen, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	screen, exists := r.screens[id]
	if !exists {
		return nil, entity.ErrScreenNotFound
	}

	return cloneScreen(screen), nil
}

// Save сохраняет состояние экрана
func (r *MemoryScreenRepository) Save(ctx context.Context, screen *entity.Screen) error {
	r.mu.Lock()
	r.screens[screen.ID] = cloneScreen(screen)
	r.mu.Unlock()

	return nil
}

// Update применяет fn к экрану под блокировкой
func (r *MemoryScreenRepository) Update(ctx context.Context, id string, fn func(*entity.Screen)) (*entity.Screen, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	screen, exists := r.screens[id]
	if !exists {
		return nil, entity.ErrScreenNotFound
	}
	fn(screen)

	return cloneScreen(screen), nil
}

func cloneScreen(s *entity.Screen) *entity.Screen {
	c := *s
	c.Labels = append([]string(nil), s.Labels...)
	return &c
}

// Проверка реализации интерфейса
var _ port.ScreenRepository = (*MemoryScreenRepository)(nil)
