//go:build gocv
// +build gocv

package vision

import (
	"context"
	"fmt"
	"image"
	"os"
	"sync"

	"gocv.io/x/gocv"

	"vision-classifier/internal/domain/entity"
	"vision-classifier/internal/domain/port"
)

// GoCVLoader загружает MobileNet в формате ONNX через OpenCV DNN.
type GoCVLoader struct {
	ModelDir   string
	LabelsPath string
	TopK       int
	InputSize  int
}

// NewGoCVLoader создаёт загрузчик со входом сети 224x224.
func NewGoCVLoader(modelDir, labelsPath string, topK int) *GoCVLoader {
	return &GoCVLoader{
		ModelDir:   modelDir,
		LabelsPath: labelsPath,
		TopK:       topK,
		InputSize:  224,
	}
}

// Load читает модель и метки классов.
func (l *GoCVLoader) Load(ctx context.Context, cfg entity.ModelConfig) (port.Classifier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	path := ModelPath(l.ModelDir, cfg)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("model file not found: %s", path)
	}

	labels, err := ReadLabels(l.LabelsPath)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	net := gocv.ReadNetFromONNX(path)
	if net.Empty() {
		return nil, fmt.Errorf("failed to load model from %s", path)
	}
	net.SetPreferableBackend(gocv.NetBackendDefault)
	net.SetPreferableTarget(gocv.NetTargetCPU)

	return &GoCVClassifier{
		net:       net,
		labels:    labels,
		inputSize: image.Pt(l.InputSize, l.InputSize),
		topK:      l.TopK,
	}, nil
}

// GoCVClassifier классификатор поверх gocv.Net
type GoCVClassifier struct {
	net       gocv.Net
	labels    []string
	inputSize image.Point
	topK      int
	mu        sync.Mutex // сеть не потокобезопасна
}

// Classify прогоняет кадр через сеть и возвращает topK классов.
func (c *GoCVClassifier) Classify(ctx context.Context, frame port.Frame) ([]entity.Prediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mat, err := frameToMat(frame)
	if err != nil {
		return nil, err
	}

	if mat.Empty() {
		return nil, fmt.Errorf("empty frame")
	}

	// MobileNet ждёт вход в диапазоне [-1, 1]
	blob := gocv.BlobFromImage(mat, 1.0/127.5, c.inputSize, gocv.NewScalar(127.5, 127.5, 127.5, 0), true, false)
	defer blob.Close()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.net.SetInput(blob, "")
	output := c.net.Forward("")
	defer output.Close()

	scores, err := output.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("read output: %w", err)
	}

	return TopK(Probabilities(scores), c.labels, c.topK), nil
}

func (c *GoCVClassifier) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.net.Close()
}

// frameToMat достаёт Mat из кадра камеры. Кадр при этом не освобождается.
func frameToMat(frame port.Frame) (gocv.Mat, error) {
	f, ok := frame.(*matFrame)
	if !ok {
		return gocv.Mat{}, fmt.Errorf("unsupported frame type %T", frame)
	}
	return f.mat, nil
}

var (
	_ port.ClassifierLoader = (*GoCVLoader)(nil)
	_ port.Classifier       = (*GoCVClassifier)(nil)
)
