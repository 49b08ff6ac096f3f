package tasks

import (
	"time"

	"github.com/evergreenlabs/plantcare-backend/pkg/enums"
)

// RecurrencePattern is a (frequency, unit) pair describing how often a task
// repeats.
type RecurrencePattern struct {
	Frequency int                  `json:"frequency"`
	Unit      enums.RecurrenceUnit `json:"unit"`
}

// Valid reports whether the pattern has a positive frequency and a known unit.
func (p RecurrencePattern) Valid() bool {
	return p.Frequency > 0 && p.Unit.IsValid()
}

// NextDueDate applies the recurrence pattern to the given base date. Month
// arithmetic is calendar-aware: overflow normalizes into the following month
// (Jan 31 + 1 month = Mar 2/3) rather than clamping to month end.
func NextDueDate(from time.Time, pattern RecurrencePattern) time.Time {
	switch pattern.Unit {
	case enums.RecurrenceUnitWeeks:
		return from.AddDate(0, 0, pattern.Frequency*7)
	case enums.RecurrenceUnitMonths:
		return from.AddDate(0, pattern.Frequency, 0)
	default:
		return from.AddDate(0, 0, pattern.Frequency)
	}
}
