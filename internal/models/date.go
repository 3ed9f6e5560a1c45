package models

import (
	"errors"
	"sort"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

var ErrInvalidInterval = errors.New("interval end is before start")

// DateOf truncates t to its calendar day at midnight UTC.
// The day is taken in t's own location, so a local midnight keeps its date.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return DateOf(t), nil
}

const secondsPerDay = 24 * 60 * 60

// DaysBetween returns the number of whole calendar days from a to b.
// Both are midnight UTC after DateOf, so the Unix difference is an exact
// multiple of a day for any year time.Time can hold.
func DaysBetween(a, b time.Time) int {
	return int((DateOf(b).Unix() - DateOf(a).Unix()) / secondsPerDay)
}

type DateInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func NewDateInterval(start, end time.Time) (DateInterval, error) {
	start, end = DateOf(start), DateOf(end)
	if end.Before(start) {
		return DateInterval{}, ErrInvalidInterval
	}
	return DateInterval{Start: start, End: end}, nil
}

// Contains reports whether date falls within the interval, both ends inclusive.
func (i DateInterval) Contains(date time.Time) bool {
	d := DateOf(date)
	return !d.Before(DateOf(i.Start)) && !d.After(DateOf(i.End))
}

// BlackoutSet is an immutable, start-ordered snapshot of unbookable intervals.
type BlackoutSet []DateInterval

// NewBlackoutSet copies and orders the intervals by start date.
func NewBlackoutSet(intervals ...DateInterval) BlackoutSet {
	set := make(BlackoutSet, len(intervals))
	copy(set, intervals)
	sort.SliceStable(set, func(i, j int) bool {
		return set[i].Start.Before(set[j].Start)
	})
	return set
}

func (s BlackoutSet) Contains(date time.Time) bool {
	for _, interval := range s {
		if interval.Contains(date) {
			return true
		}
	}
	return false
}
