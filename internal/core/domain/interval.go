package domain

import "time"

// Interval is an inclusive range of calendar days. A nil To means the range has no upper bound.
type Interval struct {
	From time.Time
	To   *time.Time
}

// NewInterval builds an interval with both ends truncated to calendar days.
func NewInterval(from time.Time, to *time.Time) Interval {
	iv := Interval{From: DateOf(from)}
	if to != nil {
		end := DateOf(*to)
		iv.To = &end
	}
	return iv
}

// IsOpenEnded reports whether the interval has no upper bound.
func (iv Interval) IsOpenEnded() bool {
	return iv.To == nil
}

// Contains reports whether day falls inside the interval.
func (iv Interval) Contains(day time.Time) bool {
	d := DateOf(day)
	if d.Before(iv.From) {
		return false
	}
	return iv.To == nil || !d.After(*iv.To)
}

// Overlaps reports whether two intervals share at least one day.
// Adjacent intervals, where one ends the day before the other starts, do not overlap.
func (iv Interval) Overlaps(other Interval) bool {
	// a.From <= b.To && b.From <= a.To, with a nil To treated as +inf.
	if other.To != nil && iv.From.After(*other.To) {
		return false
	}
	if iv.To != nil && other.From.After(*iv.To) {
		return false
	}
	return true
}
