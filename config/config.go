package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"vision-classifier/internal/domain/entity"
)

type Config struct {
	TelegramToken    string
	HTTPAddr         string
	CameraDevice     string
	CameraPermission string // prompt, granted или denied
	Platform         string
	PlatformsFile    string
	ModelDir         string
	LabelsPath       string
	Model            entity.ModelConfig
	TopK             int
	RefreshRate      int
	SamplingInterval int
	LogLevel         string
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken:    os.Getenv("TELEGRAM_TOKEN"),
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		CameraDevice:     getEnv("CAMERA_DEVICE", "0"),
		CameraPermission: getEnv("CAMERA_PERMISSION", "prompt"),
		Platform:         getEnv("PLATFORM", PlatformAndroid),
		PlatformsFile:    os.Getenv("PLATFORMS_FILE"),
		ModelDir:         getEnv("MODEL_DIR", "models"),
		LabelsPath:       getEnv("LABELS_PATH", "models/imagenet_labels.txt"),
		Model:            entity.DefaultModelConfig(),
		TopK:             3,
		RefreshRate:      60,
		SamplingInterval: entity.DefaultSamplingInterval,
		LogLevel:         getEnv("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.Model.Version, err = getInt("MODEL_VERSION", cfg.Model.Version); err != nil {
		return nil, err
	}
	if cfg.Model.Alpha, err = getFloat("MODEL_ALPHA", cfg.Model.Alpha); err != nil {
		return nil, err
	}
	if cfg.TopK, err = getInt("TOP_K", cfg.TopK); err != nil {
		return nil, err
	}
	if cfg.RefreshRate, err = getInt("REFRESH_RATE", cfg.RefreshRate); err != nil {
		return nil, err
	}

	switch cfg.CameraPermission {
	case "prompt", "granted", "denied":
	default:
		return nil, fmt.Errorf("CAMERA_PERMISSION must be prompt, granted or denied, got %q", cfg.CameraPermission)
	}
	if cfg.TopK <= 0 {
		return nil, fmt.Errorf("TOP_K must be positive, got %d", cfg.TopK)
	}
	if cfg.RefreshRate <= 0 {
		return nil, fmt.Errorf("REFRESH_RATE must be positive, got %d", cfg.RefreshRate)
	}

	return cfg, nil
}

// StreamOptions разрешает размеры текстуры для платформы один раз при старте.
func (c *Config) StreamOptions() (entity.StreamOptions, error) {
	table := DefaultPlatformTable()
	if c.PlatformsFile != "" {
		loaded, err := LoadPlatformTable(c.PlatformsFile)
		if err != nil {
			return entity.StreamOptions{}, err
		}
		table = loaded
	}

	dims, err := table.Lookup(c.Platform)
	if err != nil {
		return entity.StreamOptions{}, err
	}

	return entity.StreamOptions{
		Texture: dims,
		Resize:  entity.DefaultResizeTarget(),
	}, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}

func getFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return f, nil
}
