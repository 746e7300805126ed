package port

import (
	"context"

	"vision-classifier/internal/domain/entity"
)

// ScreenRepository интерфейс хранилища экранов
type ScreenRepository interface {
	// Get возвращает экран по ID
	Get(ctx context.Context, id string) (*entity.Screen, error)

	// Save сохраняет состояние экрана
	Save(ctx context.Context, screen *entity.Screen) error

	// Update изменяет экран под блокировкой хранилища и возвращает копию
	Update(ctx context.Context, id string, fn func(*entity.Screen)) (*entity.Screen, error)
}
