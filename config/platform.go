package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"vision-classifier/internal/domain/entity"
)

const (
	PlatformIOS     = "ios"
	PlatformAndroid = "android"
)

// PlatformTable размеры текстуры камеры по платформам
type PlatformTable map[string]entity.TextureDims

// DefaultPlatformTable — портрет 1080x1920 на iOS, 1600x1200 на остальных.
func DefaultPlatformTable() PlatformTable {
	return PlatformTable{
		PlatformIOS:     {Width: 1080, Height: 1920},
		PlatformAndroid: {Width: 1600, Height: 1200},
	}
}

// Lookup возвращает размеры для платформы
func (t PlatformTable) Lookup(platform string) (entity.TextureDims, error) {
	dims, ok := t[platform]
	if !ok {
		return entity.TextureDims{}, fmt.Errorf("unknown platform %q", platform)
	}
	if dims.Width <= 0 || dims.Height <= 0 {
		return entity.TextureDims{}, fmt.Errorf("invalid texture size for %q: %dx%d", platform, dims.Width, dims.Height)
	}
	return dims, nil
}

// LoadPlatformTable читает таблицу из YAML:
//
//	ios:
//	  width: 1080
//	  height: 1920
func LoadPlatformTable(path string) (PlatformTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read platforms file: %w", err)
	}

	var table PlatformTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parse platforms file: %w", err)
	}
	if len(table) == 0 {
		return nil, fmt.Errorf("platforms file %s is empty", path)
	}
	return table, nil
}
