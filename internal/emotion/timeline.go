// Package emotion bounds the high-frequency affect stream from the camera
// collaborator into a fixed-size, time-ordered timeline. Two independent
// load-shedding mechanisms apply: a minimum spacing between accepted points
// and a hard cap with FIFO eviction.
package emotion

import (
	"time"

	"github.com/NAVNEET-PRATAP-BYTE/NeuroScreenAI/internal/models"
)

const (
	// DefaultSampleInterval is the minimum spacing between accepted points.
	DefaultSampleInterval = 500 * time.Millisecond
	// DefaultMaxPoints caps the retained timeline.
	DefaultMaxPoints = 100
)

// Timeline accumulates accepted affect samples. Not goroutine-safe; the
// session manager serializes access.
type Timeline struct {
	interval time.Duration
	max      int
	points   []models.EmotionDataPoint
}

func NewTimeline(interval time.Duration, max int) *Timeline {
	if interval <= 0 {
		interval = DefaultSampleInterval
	}
	if max <= 0 {
		max = DefaultMaxPoints
	}
	return &Timeline{interval: interval, max: max}
}

// Ingest offers a sample taken at elapsed time since session start. It
// reports whether the sample was accepted. A sample closer than the
// configured interval to the last accepted point is dropped; once the cap is
// reached the oldest points are evicted first.
func (t *Timeline) Ingest(sample models.EmotionSample, elapsed time.Duration) bool {
	ts := elapsed.Milliseconds()
	if n := len(t.points); n > 0 && ts-t.points[n-1].TimestampMs < t.interval.Milliseconds() {
		return false
	}

	t.points = append(t.points, models.EmotionDataPoint{
		TimestampMs: ts,
		Stress:      sample.Stress,
		Anxiety:     sample.Anxiety,
		Neutral:     sample.Neutral,
	})
	if len(t.points) > t.max {
		t.points = t.points[len(t.points)-t.max:]
	}
	return true
}

// Points returns a copy of the accepted timeline, oldest first.
func (t *Timeline) Points() []models.EmotionDataPoint {
	out := make([]models.EmotionDataPoint, len(t.points))
	copy(out, t.points)
	return out
}

// Len returns the number of retained points.
func (t *Timeline) Len() int {
	return len(t.points)
}

// Reset discards all points.
func (t *Timeline) Reset() {
	t.points = nil
}
