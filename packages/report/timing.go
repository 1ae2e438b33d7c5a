package report

import (
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

const (
	// Test durations are recorded in microseconds, up to one hour.
	minTrackable = 1
	maxTrackable = int64(time.Hour / time.Microsecond)
	sigFigs      = 3
)

// Timing summarizes how long the tests of a run took.
type Timing struct {
	P50Ms float64 `json:"p50Ms"`
	P95Ms float64 `json:"p95Ms"`
	P99Ms float64 `json:"p99Ms"`
	MaxMs float64 `json:"maxMs"`
}

func computeTiming(durations []time.Duration) Timing {
	if len(durations) == 0 {
		return Timing{}
	}

	h := hdrhistogram.New(minTrackable, maxTrackable, sigFigs)
	for _, d := range durations {
		us := d.Microseconds()
		if us < minTrackable {
			us = minTrackable
		}
		if us > maxTrackable {
			us = maxTrackable
		}
		_ = h.RecordValue(us)
	}

	return Timing{
		P50Ms: float64(h.ValueAtQuantile(50)) / 1000,
		P95Ms: float64(h.ValueAtQuantile(95)) / 1000,
		P99Ms: float64(h.ValueAtQuantile(99)) / 1000,
		MaxMs: float64(h.Max()) / 1000,
	}
}
