package port

import (
	"context"
	"time"
)

// DisplayClock источник тиков обновления экрана
type DisplayClock interface {
	// Ticks отдаёт тики до отмены контекста
	Ticks(ctx context.Context) <-chan time.Time
}

// LabelSink принимает новые метки для отображения
type LabelSink interface {
	ShowLabels(ctx context.Context, labels []string) error
}

// OverlayRenderer рисует метки поверх превью
type OverlayRenderer interface {
	Render(preview []byte, labels []string) ([]byte, error)
}
