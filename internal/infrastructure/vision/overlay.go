//go:build gocv
// +build gocv

package vision

import (
	"bytes"
	"errors"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"vision-classifier/internal/domain/port"
)

// GoCVOverlay рисует метки поверх JPEG превью.
type GoCVOverlay struct {
	FontScale float64
	Thickness int
	LineStep  int
}

func NewGoCVOverlay() *GoCVOverlay {
	return &GoCVOverlay{
		FontScale: 1.0,
		Thickness: 2,
		LineStep:  32,
	}
}

// Render пишет по одной строке на метку в левом верхнем углу.
func (o *GoCVOverlay) Render(preview []byte, labels []string) ([]byte, error) {
	mat, err := decodeToMat(preview)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	black := color.RGBA{A: 255}
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	for i, label := range labels {
		pt := image.Pt(10, o.LineStep*(i+1))
		// Обводка для читаемости на светлом фоне
		gocv.PutText(&mat, label, pt, gocv.FontHersheySimplex, o.FontScale, black, o.Thickness+2)
		gocv.PutText(&mat, label, pt, gocv.FontHersheySimplex, o.FontScale, white, o.Thickness)
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, mat)
	if err != nil {
		return nil, err
	}
	defer buf.Close()

	return bytes.Clone(buf.GetBytes()), nil
}

// decodeToMat превращает байты изображения в gocv.Mat.
func decodeToMat(imageData []byte) (gocv.Mat, error) {
	mat, err := gocv.IMDecode(imageData, gocv.IMReadColor)
	if err == nil && !mat.Empty() {
		return mat, nil
	}
	if !mat.Empty() {
		mat.Close()
	}
	return gocv.NewMat(), errors.New("failed to decode image")
}

var _ port.OverlayRenderer = (*GoCVOverlay)(nil)
