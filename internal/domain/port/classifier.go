package port

import (
	"context"

	"vision-classifier/internal/domain/entity"
)

// Classifier интерфейс загруженного классификатора изображений
type Classifier interface {
	// Classify возвращает гипотезы для кадра; кадр не освобождает
	Classify(ctx context.Context, frame Frame) ([]entity.Prediction, error)

	// Close освобождает модель
	Close() error
}

// ClassifierLoader загружает предобученную модель
type ClassifierLoader interface {
	Load(ctx context.Context, cfg entity.ModelConfig) (Classifier, error)
}
