package arena

import "time"

// Meter keeps a running average of episode durations
type Meter struct {
	sum   time.Duration
	count int
}

// Update adds one sample
func (m *Meter) Update(d time.Duration) {
	m.sum += d
	m.count++
}

// Avg returns the mean of all samples, zero before the first one
func (m *Meter) Avg() time.Duration {
	if m.count == 0 {
		return 0
	}
	return m.sum / time.Duration(m.count)
}

// ETA estimates the time needed for the remaining episodes
func (m *Meter) ETA(remaining int) time.Duration {
	if remaining <= 0 {
		return 0
	}
	return m.Avg() * time.Duration(remaining)
}
