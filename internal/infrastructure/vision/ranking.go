package vision

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"vision-classifier/internal/domain/entity"
)

// ModelPath возвращает путь к ONNX файлу варианта модели
func ModelPath(dir string, cfg entity.ModelConfig) string {
	return filepath.Join(dir, cfg.Name()+".onnx")
}

// ReadLabels читает имена классов, по одному на строку.
func ReadLabels(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open labels: %w", err)
	}
	defer f.Close()

	var labels []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		labels = append(labels, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read labels: %w", err)
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("labels file %s is empty", path)
	}
	return labels, nil
}

// Probabilities переводит выход сети в распределение.
// Если выход уже похож на распределение, он только копируется.
func Probabilities(scores []float32) []float64 {
	out := make([]float64, len(scores))
	if len(scores) == 0 {
		return out
	}

	sum := 0.0
	isDist := true
	for i, s := range scores {
		out[i] = float64(s)
		if s < 0 {
			isDist = false
		}
		sum += float64(s)
	}
	if isDist && math.Abs(sum-1) < 1e-3 {
		return out
	}

	maxScore := out[0]
	for _, v := range out {
		if v > maxScore {
			maxScore = v
		}
	}
	sum = 0
	for i, v := range out {
		out[i] = math.Exp(v - maxScore)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

// TopK возвращает k самых вероятных классов по убыванию вероятности.
// Лишний нулевой выход (класс background) отбрасывается.
func TopK(probs []float64, labels []string, k int) []entity.Prediction {
	if len(probs) == len(labels)+1 {
		probs = probs[1:]
	}

	idx := make([]int, len(probs))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return probs[idx[a]] > probs[idx[b]]
	})

	if k < 0 {
		k = 0
	}
	if k > len(idx) {
		k = len(idx)
	}
	preds := make([]entity.Prediction, 0, k)
	for _, i := range idx[:k] {
		name := fmt.Sprintf("class_%d", i)
		if i < len(labels) {
			name = labels[i]
		}
		preds = append(preds, entity.Prediction{ClassName: name, Probability: probs[i]})
	}
	return preds
}
