//go:build gocv
// +build gocv

package vision

import (
	"context"
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"vision-classifier/internal/domain/entity"
)

func testMat(t *testing.T, w, h int) gocv.Mat {
	t.Helper()
	mat := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8UC3)
	gocv.Rectangle(&mat, image.Rect(w/4, h/4, w/2, h/2), color.RGBA{R: 200, A: 255}, -1)
	return mat
}

func TestCamera_PolicyOverridesProbe(t *testing.T) {
	perm, err := NewGoCVCamera("does-not-exist", entity.PermissionDenied).RequestPermission(context.Background())
	require.NoError(t, err)
	require.Equal(t, entity.PermissionDenied, perm)
}

func TestCaptureStream_NextResizesOnce(t *testing.T) {
	s := &captureStream{resize: image.Pt(152, 200), latest: testMat(t, 640, 480)}
	defer s.latest.Close()
	s.fresh = true

	frame, ok := s.Next()
	require.True(t, ok)
	require.Equal(t, image.Rect(0, 0, 152, 200), frame.Bounds())
	frame.Release()
	frame.Release()

	_, ok = s.Next()
	require.False(t, ok)
}

func TestCaptureStream_Preview(t *testing.T) {
	s := &captureStream{latest: gocv.NewMat()}
	_, err := s.Preview(context.Background())
	require.ErrorIs(t, err, entity.ErrNoPreview)
	s.latest.Close()

	s.latest = testMat(t, 320, 240)
	defer s.latest.Close()
	jpeg, err := s.Preview(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, jpeg)
}

func TestOverlay_Render(t *testing.T) {
	mat := testMat(t, 320, 240)
	defer mat.Close()
	buf, err := gocv.IMEncode(gocv.JPEGFileExt, mat)
	require.NoError(t, err)
	defer buf.Close()

	out, err := NewGoCVOverlay().Render(buf.GetBytes(), []string{"cat", "dog"})
	require.NoError(t, err)
	require.NotEmpty(t, out)

	_, err = NewGoCVOverlay().Render([]byte("not an image"), []string{"cat"})
	require.Error(t, err)
}

func TestLoader_MissingModel(t *testing.T) {
	l := NewGoCVLoader(t.TempDir(), filepath.Join(t.TempDir(), "labels.txt"), 3)
	_, err := l.Load(context.Background(), entity.DefaultModelConfig())
	require.Error(t, err)
}

func TestCaptureStream_UseAfterClose(t *testing.T) {
	s := &captureStream{
		resize: image.Pt(152, 200),
		latest: testMat(t, 320, 240),
		fresh:  true,
		done:   make(chan struct{}),
	}
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, err := s.Preview(context.Background())
	require.ErrorIs(t, err, entity.ErrNoPreview)

	_, ok := s.Next()
	require.False(t, ok)
}
