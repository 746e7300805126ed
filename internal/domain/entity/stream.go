package entity

// DefaultSamplingInterval — число тиков между попытками классификации
const DefaultSamplingInterval = 60

// TextureDims размер входной текстуры камеры
type TextureDims struct {
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
}

// ResizeTarget размер тензора, который получает классификатор
type ResizeTarget struct {
	Width  int
	Height int
	Depth  int
}

// DefaultResizeTarget — 152x200x3
func DefaultResizeTarget() ResizeTarget {
	return ResizeTarget{Width: 152, Height: 200, Depth: 3}
}

// StreamOptions параметры потока кадров
type StreamOptions struct {
	Texture TextureDims
	Resize  ResizeTarget
}
