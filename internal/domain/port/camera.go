package port

import (
	"context"
	"image"

	"vision-classifier/internal/domain/entity"
)

// Frame — кадр камеры. Владелец обязан вызвать Release после использования.
type Frame interface {
	// Bounds возвращает размер кадра
	Bounds() image.Rectangle

	// Release освобождает буфер кадра; повторный вызов безопасен
	Release()
}

// FrameStream поток кадров живой камеры
type FrameStream interface {
	// Next возвращает следующий готовый кадр или false, если кадра нет
	Next() (Frame, bool)

	// Preview возвращает последний кадр превью в JPEG
	Preview(ctx context.Context) ([]byte, error)

	// Close останавливает поток
	Close() error
}

// Camera интерфейс камеры
type Camera interface {
	// RequestPermission запрашивает доступ к камере
	RequestPermission(ctx context.Context) (entity.PermissionState, error)

	// Open открывает поток кадров
	Open(ctx context.Context, opts entity.StreamOptions) (FrameStream, error)
}
