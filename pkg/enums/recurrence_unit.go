package enums

import "fmt"

// RecurrenceUnit maps to the recurrence_unit enum in Postgres.
type RecurrenceUnit string

const (
	RecurrenceUnitDays   RecurrenceUnit = "days"
	RecurrenceUnitWeeks  RecurrenceUnit = "weeks"
	RecurrenceUnitMonths RecurrenceUnit = "months"
)

var validRecurrenceUnits = []RecurrenceUnit{
	RecurrenceUnitDays,
	RecurrenceUnitWeeks,
	RecurrenceUnitMonths,
}

// IsValid checks whether the given unit matches the canonical enum.
func (u RecurrenceUnit) IsValid() bool {
	for _, candidate := range validRecurrenceUnits {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseRecurrenceUnit converts raw strings into RecurrenceUnit.
func ParseRecurrenceUnit(value string) (RecurrenceUnit, error) {
	for _, candidate := range validRecurrenceUnits {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid recurrence unit %q", value)
}
