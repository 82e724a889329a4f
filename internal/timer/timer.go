// Package timer tracks elapsed and remaining session time.
// Every method is a pure function of the clock and the session value.
package timer

import (
	"fmt"
	"math"
	"time"

	"value-added-framework/internal/model"
)

// Timer reads the wall clock through an injectable function.
type Timer struct {
	now func() time.Time
}

// New returns a Timer backed by time.Now.
func New() *Timer {
	return &Timer{now: time.Now}
}

// NewWithClock returns a Timer backed by the given clock.
func NewWithClock(now func() time.Time) *Timer {
	if now == nil {
		now = time.Now
	}
	return &Timer{now: now}
}

// Now exposes the timer clock.
func (t *Timer) Now() time.Time {
	return t.now()
}

// Elapsed returns the time since the session started. Ended sessions stop the clock.
func (t *Timer) Elapsed(s model.Session) time.Duration {
	end := t.now()
	if s.EndedAt != nil {
		end = *s.EndedAt
	}
	elapsed := end.Sub(s.StartedAt)
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// TimeUp reports whether the configured duration has been used up.
func (t *Timer) TimeUp(s model.Session) bool {
	return t.Elapsed(s) >= s.Duration
}

// Remaining returns the configured duration minus elapsed, floored at zero.
func (t *Timer) Remaining(s model.Session) time.Duration {
	elapsed := t.Elapsed(s)
	if elapsed >= s.Duration {
		return 0
	}
	return s.Duration - elapsed
}

// IsActive reports whether the session is running and has time left.
func (t *Timer) IsActive(s model.Session) bool {
	return !s.Ended() && !t.TimeUp(s)
}

// RenderRemaining renders the remaining time of s.
func (t *Timer) RenderRemaining(s model.Session) string {
	if t.TimeUp(s) {
		return TimeUpText
	}
	return Render(t.Remaining(s))
}

// Render formats d as "M minutes and S seconds". A partial second counts as a
// whole one, so only a used-up clock renders as zero.
func Render(d time.Duration) string {
	if d <= 0 {
		return TimeUpText
	}
	total := ceilSeconds(d)
	return fmt.Sprintf(RenderTemplate, total/60, total%60)
}

func ceilSeconds(d time.Duration) int {
	return int((d + time.Second - 1) / time.Second)
}

// Metrics is a point-in-time snapshot of a session's clock.
type Metrics struct {
	Active               bool    `json:"session_active" yaml:"session_active"`
	ElapsedMinutes       int     `json:"elapsed_minutes" yaml:"elapsed_minutes"`
	ElapsedSeconds       int     `json:"elapsed_seconds" yaml:"elapsed_seconds"`
	RemainingMinutes     int     `json:"remaining_minutes" yaml:"remaining_minutes"`
	RemainingSeconds     int     `json:"remaining_seconds" yaml:"remaining_seconds"`
	TotalDurationMinutes int     `json:"total_duration_minutes" yaml:"total_duration_minutes"`
	CompletionPercentage float64 `json:"completion_percentage" yaml:"completion_percentage"`
}

// Metrics computes the clock snapshot of s.
func (t *Timer) Metrics(s model.Session) Metrics {
	elapsed := int(t.Elapsed(s) / time.Second)
	remaining := ceilSeconds(t.Remaining(s))
	total := int(s.Duration / time.Second)

	var pct float64
	if total > 0 {
		pct = math.Min(100, math.Round(float64(elapsed)/float64(total)*100*100)/100)
	}

	return Metrics{
		Active:               t.IsActive(s),
		ElapsedMinutes:       elapsed / 60,
		ElapsedSeconds:       elapsed % 60,
		RemainingMinutes:     remaining / 60,
		RemainingSeconds:     remaining % 60,
		TotalDurationMinutes: total / 60,
		CompletionPercentage: pct,
	}
}
