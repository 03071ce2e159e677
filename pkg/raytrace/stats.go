package raytrace

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// counter is an atomic integer padded to its own cache line so the three
// statistics never contend with each other.
type counter struct {
	atomic.Int64
	_ [56]byte
}

// Statistics collects the counters of one raytrace run. The counters are
// updated concurrently by all workers; only the values read after Raytrace
// returns are meaningful.
type Statistics struct {
	RunID   uuid.UUID
	Mode    Mode
	Workers int
	Elapsed time.Duration

	rays          counter
	tests         counter
	intersections counter
}

// Snapshot is a plain copy of the counters.
type Snapshot struct {
	Rays          int64
	Tests         int64
	Intersections int64
}

func newStatistics(mode Mode) *Statistics {
	return &Statistics{RunID: uuid.New(), Mode: mode}
}

// Rays returns the number of primary rays cast.
func (s *Statistics) Rays() int64 { return s.rays.Load() }

// Tests returns the number of ray-triangle tests performed.
func (s *Statistics) Tests() int64 { return s.tests.Load() }

// Intersections returns the number of pixels that hit the model.
func (s *Statistics) Intersections() int64 { return s.intersections.Load() }

// Snapshot reads all three counters.
func (s *Statistics) Snapshot() Snapshot {
	return Snapshot{
		Rays:          s.rays.Load(),
		Tests:         s.tests.Load(),
		Intersections: s.intersections.Load(),
	}
}

// TestsPerRay is the mean number of triangle tests per cast ray.
func (s Snapshot) TestsPerRay() float64 {
	if s.Rays == 0 {
		return 0
	}
	return float64(s.Tests) / float64(s.Rays)
}

// HitRatio is the fraction of rays that hit the model.
func (s Snapshot) HitRatio() float64 {
	if s.Rays == 0 {
		return 0
	}
	return float64(s.Intersections) / float64(s.Rays)
}
