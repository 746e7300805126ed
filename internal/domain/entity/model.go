package entity

import "fmt"

// ModelConfig задаёт вариант предобученной модели MobileNet.
type ModelConfig struct {
	Version int     // Версия MobileNet (1 или 2)
	Alpha   float64 // Множитель ширины сети
}

// DefaultModelConfig — самая лёгкая модель первой версии
func DefaultModelConfig() ModelConfig {
	return ModelConfig{Version: 1, Alpha: 0.25}
}

var validAlphas = map[int][]float64{
	1: {0.25, 0.50, 0.75, 1.0},
	2: {0.50, 0.75, 1.0},
}

// Validate проверяет, что такая комбинация версии и alpha существует.
func (c ModelConfig) Validate() error {
	alphas, ok := validAlphas[c.Version]
	if !ok {
		return fmt.Errorf("%w: unsupported version %d", ErrInvalidModelConfig, c.Version)
	}
	for _, a := range alphas {
		if a == c.Alpha {
			return nil
		}
	}
	return fmt.Errorf("%w: alpha %.2f is not available for version %d", ErrInvalidModelConfig, c.Alpha, c.Version)
}

// Name возвращает каноническое имя варианта, например mobilenet_v1_0.25.
func (c ModelConfig) Name() string {
	return fmt.Sprintf("mobilenet_v%d_%.2f", c.Version, c.Alpha)
}
