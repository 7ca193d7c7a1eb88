package emotion

import (
	"testing"
	"time"

	"github.com/NAVNEET-PRATAP-BYTE/NeuroScreenAI/internal/models"
)

func sample(stress float64) models.EmotionSample {
	return models.EmotionSample{Label: "Stressed", Stress: stress, Anxiety: 0.2, Neutral: 0.3}
}

func TestTimelineDebounce(t *testing.T) {
	tl := NewTimeline(DefaultSampleInterval, DefaultMaxPoints)

	if !tl.Ingest(sample(0.1), 0) {
		t.Fatal("first sample must be accepted")
	}
	if tl.Ingest(sample(0.2), 300*time.Millisecond) {
		t.Error("sample 300ms after the last must be dropped")
	}
	if tl.Len() != 1 {
		t.Fatalf("timeline length = %d, want 1", tl.Len())
	}
	if !tl.Ingest(sample(0.3), 600*time.Millisecond) {
		t.Error("sample 600ms after the last must be accepted")
	}
	if tl.Len() != 2 {
		t.Fatalf("timeline length = %d, want 2", tl.Len())
	}
}

func TestTimelineExactIntervalAccepted(t *testing.T) {
	tl := NewTimeline(DefaultSampleInterval, DefaultMaxPoints)
	tl.Ingest(sample(0.1), 0)
	if !tl.Ingest(sample(0.2), 500*time.Millisecond) {
		t.Error("sample exactly 500ms after the last must be accepted")
	}
}

func TestTimelineCapEvictsOldest(t *testing.T) {
	tl := NewTimeline(DefaultSampleInterval, DefaultMaxPoints)

	for i := 0; i < 150; i++ {
		elapsed := time.Duration(i) * DefaultSampleInterval
		if !tl.Ingest(sample(float64(i)/150), elapsed) {
			t.Fatalf("sample %d unexpectedly dropped", i)
		}
	}

	if tl.Len() != 100 {
		t.Fatalf("timeline length = %d, want 100", tl.Len())
	}
	points := tl.Points()
	// Oldest 50 evicted; retained points are samples 50..149 in order.
	if got, want := points[0].TimestampMs, int64(50*500); got != want {
		t.Errorf("first retained timestamp = %d, want %d", got, want)
	}
	if got, want := points[99].TimestampMs, int64(149*500); got != want {
		t.Errorf("last retained timestamp = %d, want %d", got, want)
	}
	for i := 1; i < len(points); i++ {
		if points[i].TimestampMs <= points[i-1].TimestampMs {
			t.Fatalf("timeline not time-ordered at %d", i)
		}
	}
}

func TestTimelinePointsIsACopy(t *testing.T) {
	tl := NewTimeline(DefaultSampleInterval, DefaultMaxPoints)
	tl.Ingest(sample(0.5), 0)

	points := tl.Points()
	points[0].Stress = 0.99

	if tl.Points()[0].Stress != 0.5 {
		t.Error("mutating the returned slice must not affect the timeline")
	}
}
