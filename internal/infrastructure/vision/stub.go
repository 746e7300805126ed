//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"errors"

	"vision-classifier/internal/domain/entity"
	"vision-classifier/internal/domain/port"
)

var errNoGoCV = errors.New("gocv build tag is not enabled")

type GoCVCamera struct {
	Device string
	Policy entity.PermissionState
}

// NewGoCVCamera создаёт камеру-заглушку (без OpenCV).
func NewGoCVCamera(device string, policy entity.PermissionState) *GoCVCamera {
	return &GoCVCamera{Device: device, Policy: policy}
}

// RequestPermission возвращает ошибку, если сборка без тега gocv.
func (c *GoCVCamera) RequestPermission(ctx context.Context) (entity.PermissionState, error) {
	return entity.PermissionDenied, errNoGoCV
}

// Open возвращает ошибку, если сборка без тега gocv.
func (c *GoCVCamera) Open(ctx context.Context, opts entity.StreamOptions) (port.FrameStream, error) {
	return nil, errNoGoCV
}

type GoCVLoader struct {
	ModelDir   string
	LabelsPath string
	TopK       int
	InputSize  int
}

// NewGoCVLoader создаёт загрузчик-заглушку (без OpenCV).
func NewGoCVLoader(modelDir, labelsPath string, topK int) *GoCVLoader {
	return &GoCVLoader{
		ModelDir:   modelDir,
		LabelsPath: labelsPath,
		TopK:       topK,
		InputSize:  224,
	}
}

// Load возвращает ошибку, если сборка без тега gocv.
func (l *GoCVLoader) Load(ctx context.Context, cfg entity.ModelConfig) (port.Classifier, error) {
	return nil, errNoGoCV
}

type GoCVOverlay struct {
	FontScale float64
	Thickness int
	LineStep  int
}

func NewGoCVOverlay() *GoCVOverlay {
	return &GoCVOverlay{FontScale: 1.0, Thickness: 2, LineStep: 32}
}

// Render возвращает ошибку, если сборка без тега gocv.
func (o *GoCVOverlay) Render(preview []byte, labels []string) ([]byte, error) {
	return nil, errNoGoCV
}
