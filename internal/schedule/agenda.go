package schedule

import (
	"sort"

	"github.com/propmaint/backend/internal/models"
)

// DueSoonDays is the look-ahead window of IsDueSoon.
const DueSoonDays = 7

// IsOverdue reports an open task whose scheduled date is before today.
func IsOverdue(t models.MaintenanceTask, today models.Date) bool {
	if t.Status == models.TaskCompleted || t.ScheduledDate == nil || t.ScheduledDate.IsZero() {
		return false
	}
	return t.ScheduledDate.Before(today)
}

// IsDueSoon reports an open task scheduled between today and a week ahead,
// both ends included.
func IsDueSoon(t models.MaintenanceTask, today models.Date) bool {
	if t.Status == models.TaskCompleted || t.ScheduledDate == nil || t.ScheduledDate.IsZero() {
		return false
	}
	days := today.DaysUntil(*t.ScheduledDate)
	return days >= 0 && days <= DueSoonDays
}

type Stats struct {
	Overdue     int `json:"vencidas"`
	DueThisWeek int `json:"proximaSemana"`
	Open        int `json:"pendientes"`
}

func Summarize(tasks []models.MaintenanceTask, today models.Date) Stats {
	var s Stats
	for _, t := range tasks {
		if IsOverdue(t, today) {
			s.Overdue++
		}
		if IsDueSoon(t, today) {
			s.DueThisWeek++
		}
		if t.IsOpen() {
			s.Open++
		}
	}
	return s
}

// Filter narrows an agenda. Zero fields match everything.
type Filter struct {
	Status      models.TaskStatus
	Type        string
	OverdueOnly bool
}

func (f Filter) matches(t models.MaintenanceTask, today models.Date) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	if f.OverdueOnly && !IsOverdue(t, today) {
		return false
	}
	return true
}

// Agenda filters tasks and orders them overdue first, then by scheduled date,
// with undated tasks last. The input slice is not modified.
func Agenda(tasks []models.MaintenanceTask, f Filter, today models.Date) []models.MaintenanceTask {
	out := make([]models.MaintenanceTask, 0, len(tasks))
	for _, t := range tasks {
		if f.matches(t, today) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		ao, bo := IsOverdue(a, today), IsOverdue(b, today)
		if ao != bo {
			return ao
		}
		ad := a.ScheduledDate != nil && !a.ScheduledDate.IsZero()
		bd := b.ScheduledDate != nil && !b.ScheduledDate.IsZero()
		switch {
		case ad && bd:
			return a.ScheduledDate.Before(*b.ScheduledDate)
		case ad != bd:
			return ad
		}
		return false
	})
	return out
}
