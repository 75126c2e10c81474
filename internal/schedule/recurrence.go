// Package schedule holds the recurrence rules of preventive maintenance and
// the scheduling state derived from a task's dates.
package schedule

import "github.com/propmaint/backend/internal/models"

// DefaultFrequency applies to tasks without a recurrence rule.
const DefaultFrequency = models.FrequencyQuarterly

// NextDueDate adds the calendar offset of freq to from. Month and year
// offsets clamp to the end of the target month, so Jan 31 plus one month is
// the last day of February. An unset or unknown frequency uses the
// quarterly offset.
func NextDueDate(from models.Date, freq models.Frequency) models.Date {
	switch freq {
	case models.FrequencyWeekly:
		return from.AddDays(7)
	case models.FrequencyMonthly:
		return from.AddMonths(1)
	case models.FrequencyQuarterly:
		return from.AddMonths(3)
	case models.FrequencySemiannual:
		return from.AddMonths(6)
	case models.FrequencyAnnual:
		return from.AddYears(1)
	case models.FrequencyEvery5Yrs:
		return from.AddYears(5)
	default:
		return from.AddMonths(3)
	}
}
