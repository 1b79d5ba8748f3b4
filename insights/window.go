// Package insights computes derived business metrics from raw store rows:
// growth, velocity, churn, ROI, and a prioritized list of action items. All
// computations are read-only and parameterized by a Window.
package insights

import "time"

// Window is a pair of adjacent, equal-length periods used for every growth
// comparison: PrevStart..Start immediately precedes Start..End and has the
// same duration. Timestamps are unix seconds.
type Window struct {
	Start     int64 `json:"start"`
	End       int64 `json:"end"`
	PrevStart int64 `json:"prevStart"`
}

// LastNDays returns the window covering the n days up to now, with the
// preceding n days as the comparison period.
func LastNDays(n int, now time.Time) Window {
	end := now.Unix()
	start := now.AddDate(0, 0, -n).Unix()
	return Window{
		Start:     start,
		End:       end,
		PrevStart: start - (end - start),
	}
}

// Days returns the window length in whole days, at least 1.
func (w Window) Days() int {
	days := int((w.End - w.Start) / 86400)
	if days < 1 {
		return 1
	}
	return days
}
