package stravauploader

import (
	"context"
	"math/rand/v2"
	"time"
)

const (
	MinPause = 500 * time.Millisecond
	MaxPause = 1000 * time.Millisecond
)

// Pacer spaces out successful uploads.
type Pacer interface {
	Pause(ctx context.Context) error
}

// RandomPacer sleeps for a uniformly random duration in [Min, Max).
type RandomPacer struct {
	Min time.Duration
	Max time.Duration
}

func NewRandomPacer() *RandomPacer {
	return &RandomPacer{Min: MinPause, Max: MaxPause}
}

// Delay picks the next pause length.
func (p *RandomPacer) Delay() time.Duration {
	if p.Max <= p.Min {
		return p.Min
	}
	return p.Min + rand.N(p.Max-p.Min)
}

func (p *RandomPacer) Pause(ctx context.Context) error {
	timer := time.NewTimer(p.Delay())
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
