package models

import "time"

type SelectionState string

const (
	SelectionEmpty    SelectionState = "empty"
	SelectionFromSet  SelectionState = "from_set"
	SelectionRangeSet SelectionState = "range_set"
)

// DateRangeSelection is the check-in/check-out pair picked on a calendar.
type DateRangeSelection struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

func (s DateRangeSelection) State() SelectionState {
	switch {
	case s.From == nil:
		return SelectionEmpty
	case s.To == nil:
		return SelectionFromSet
	default:
		return SelectionRangeSet
	}
}

// Complete reports whether both endpoints are set.
func (s DateRangeSelection) Complete() bool {
	return s.From != nil && s.To != nil
}

// SelectionFrom builds a selection with only a check-in date.
func SelectionFrom(from time.Time) DateRangeSelection {
	f := DateOf(from)
	return DateRangeSelection{From: &f}
}

// SelectionRange builds a selection with both endpoints.
func SelectionRange(from, to time.Time) DateRangeSelection {
	f, t := DateOf(from), DateOf(to)
	return DateRangeSelection{From: &f, To: &t}
}

// ViewSelection is a selection owned by one property view of one session.
type ViewSelection struct {
	SessionID  string             `json:"session_id"`
	PropertyID int64              `json:"property_id"`
	Selection  DateRangeSelection `json:"selection"`
	UpdatedAt  time.Time          `json:"updated_at"`
}
