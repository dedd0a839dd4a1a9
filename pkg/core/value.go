package core

import "time"

// Date is a calendar date read from a DATE column. Sessions return it
// instead of a time.Time so that a DATETIME at midnight keeps its time of day.
type Date struct {
	time.Time
}
