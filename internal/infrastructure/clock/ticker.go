// Package clock выдаёт тики обновления экрана.
package clock

import (
	"context"
	"time"

	"vision-classifier/internal/domain/port"
)

// RefreshClock тикает с частотой обновления экрана
type RefreshClock struct {
	period time.Duration
}

// NewRefreshClock создаёт часы на rate тиков в секунду.
func NewRefreshClock(rate int) *RefreshClock {
	if rate <= 0 {
		rate = 60
	}
	return &RefreshClock{period: time.Second / time.Duration(rate)}
}

// Period возвращает интервал между тиками
func (c *RefreshClock) Period() time.Duration {
	return c.period
}

// Ticks отдаёт тики, пока не отменён контекст. Медленный читатель теряет тики.
func (c *RefreshClock) Ticks(ctx context.Context) <-chan time.Time {
	out := make(chan time.Time, 1)
	go func() {
		defer close(out)
		t := time.NewTicker(c.period)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-t.C:
				select {
				case out <- now:
				default:
				}
			}
		}
	}()
	return out
}

var _ port.DisplayClock = (*RefreshClock)(nil)
