package app

import (
	"context"
	"log/slog"
	"time"

	"vision-classifier/internal/domain/entity"
	"vision-classifier/internal/domain/port"
	"vision-classifier/internal/log"
)

type classifyResult struct {
	preds []entity.Prediction
	err   error
}

// SamplingLoop решает на каждом тике, запускать ли классификацию.
// Всё состояние цикла меняется только из горутины Run (или из вызывающего Tick).
type SamplingLoop struct {
	frames   port.FrameStream
	sink     port.LabelSink
	interval uint
	counter  uint

	classifier port.Classifier
	inFlight   bool
	results    chan classifyResult
	dispatch   func(func())
	logger     *slog.Logger
}

// NewSamplingLoop создаёт цикл с интервалом interval тиков.
func NewSamplingLoop(frames port.FrameStream, sink port.LabelSink, interval int) *SamplingLoop {
	if interval <= 0 {
		interval = entity.DefaultSamplingInterval
	}
	return &SamplingLoop{
		frames:   frames,
		sink:     sink,
		interval: uint(interval),
		results:  make(chan classifyResult, 1),
		dispatch: func(f func()) { go f() },
		logger:   log.With("sampler"),
	}
}

// SetClassifier подключает загруженный классификатор; до этого цикл бездействует.
func (l *SamplingLoop) SetClassifier(c port.Classifier) {
	l.classifier = c
}

func (l *SamplingLoop) Classifier() port.Classifier {
	return l.classifier
}

// Counter возвращает текущее значение счётчика, всегда в [0, interval).
func (l *SamplingLoop) Counter() uint {
	return l.counter
}

// InFlight сообщает, идёт ли сейчас классификация.
func (l *SamplingLoop) InFlight() bool {
	return l.inFlight
}

// Tick обрабатывает один тик экрана. Возвращает true, если кадр отправлен в классификатор.
func (l *SamplingLoop) Tick(ctx context.Context) bool {
	l.collect(ctx)

	if l.classifier == nil {
		return false
	}

	dispatched := false
	if l.counter == 0 {
		dispatched = l.attempt(ctx)
	}
	l.counter = (l.counter + 1) % l.interval

	return dispatched
}

// Run крутит цикл до отмены контекста или закрытия канала тиков.
// Классификатор приходит через ready, когда модель загружена.
func (l *SamplingLoop) Run(ctx context.Context, ticks <-chan time.Time, ready <-chan port.Classifier) error {
	defer l.drain()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case c, ok := <-ready:
			if ok && c != nil {
				l.SetClassifier(c)
			}
			ready = nil

		case res := <-l.results:
			l.apply(ctx, res)

		case _, ok := <-ticks:
			if !ok {
				return nil
			}
			l.Tick(ctx)
		}
	}
}

func (l *SamplingLoop) attempt(ctx context.Context) bool {
	if l.inFlight {
		l.logger.Debug("classification still running, sampling tick skipped")
		return false
	}

	frame, ok := l.frames.Next()
	if !ok || frame == nil {
		return false
	}

	l.inFlight = true
	classifier := l.classifier
	l.dispatch(func() {
		preds, err := classify(ctx, classifier, frame)
		l.results <- classifyResult{preds: preds, err: err}
	})

	return true
}

// classify освобождает кадр при любом исходе.
func classify(ctx context.Context, c port.Classifier, frame port.Frame) ([]entity.Prediction, error) {
	defer frame.Release()
	return c.Classify(ctx, frame)
}

func (l *SamplingLoop) collect(ctx context.Context) {
	select {
	case res := <-l.results:
		l.apply(ctx, res)
	default:
	}
}

func (l *SamplingLoop) apply(ctx context.Context, res classifyResult) {
	l.inFlight = false

	if res.err != nil {
		l.logger.Debug("classification failed", "error", res.err)
		return
	}
	if len(res.preds) == 0 {
		return
	}

	if err := l.sink.ShowLabels(ctx, entity.ClassNames(res.preds)); err != nil {
		l.logger.Warn("failed to show labels", "error", err)
	}
}

// drain дожидается незавершённой классификации, чтобы кадр и модель не пережили цикл.
func (l *SamplingLoop) drain() {
	if !l.inFlight {
		return
	}
	<-l.results
	l.inFlight = false
}
