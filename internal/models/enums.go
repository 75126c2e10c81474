package models

import "fmt"

type Category string
type Urgency string
type IncidentStatus string
type Specialty string
type TaskStatus string
type Frequency string
type Role string

const (
	CategoryTourist   Category = "Turístico"
	CategoryCorporate Category = "Corporativo"
	CategoryVitarooms Category = "Vitarooms"
)

const (
	UrgencyLow    Urgency = "Baja"
	UrgencyMedium Urgency = "Media"
	UrgencyHigh   Urgency = "Alta"
	UrgencyUrgent Urgency = "Urgente"
)

const (
	StatusPending           IncidentStatus = "Pendiente"
	StatusInProgress        IncidentStatus = "En proceso"
	StatusReferToSpecialist IncidentStatus = "Derivar a especialista"
	StatusCompleted         IncidentStatus = "Completada"
	StatusCancelled         IncidentStatus = "Cancelada"
)

const (
	SpecialtyPlumbing   Specialty = "Fontanería"
	SpecialtyElectrical Specialty = "Electricidad"
	SpecialtyLocksmith  Specialty = "Cerrajería"
	SpecialtyHVAC       Specialty = "Climatización"
	SpecialtyPainting   Specialty = "Pintura"
	SpecialtyMasonry    Specialty = "Albañilería"
	SpecialtyOther      Specialty = "Otro"
)

const (
	TaskAwaitingScheduling TaskStatus = "Pendiente de programación"
	TaskScheduled          TaskStatus = "Programado"
	TaskInProgress         TaskStatus = "En curso"
	TaskCompleted          TaskStatus = "Completado"
)

// FrequencyUnset marks a task without a recurrence rule.
const (
	FrequencyUnset      Frequency = ""
	FrequencyWeekly     Frequency = "Semanal"
	FrequencyMonthly    Frequency = "Mensual"
	FrequencyQuarterly  Frequency = "Trimestral"
	FrequencySemiannual Frequency = "Semestral"
	FrequencyAnnual     Frequency = "Anual"
	FrequencyEvery5Yrs  Frequency = "cada 5 años"
)

const (
	RoleTechnician Role = "tecnico"
	RoleManager    Role = "gestion"
)

// Categories lists the business lines in display order.
var Categories = []Category{CategoryTourist, CategoryCorporate, CategoryVitarooms}

var Urgencies = []Urgency{UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyUrgent}

var IncidentStatuses = []IncidentStatus{
	StatusPending,
	StatusInProgress,
	StatusReferToSpecialist,
	StatusCompleted,
	StatusCancelled,
}

var Specialties = []Specialty{
	SpecialtyPlumbing,
	SpecialtyElectrical,
	SpecialtyLocksmith,
	SpecialtyHVAC,
	SpecialtyPainting,
	SpecialtyMasonry,
	SpecialtyOther,
}

var TaskStatuses = []TaskStatus{TaskAwaitingScheduling, TaskScheduled, TaskInProgress, TaskCompleted}

var Frequencies = []Frequency{
	FrequencyWeekly,
	FrequencyMonthly,
	FrequencyQuarterly,
	FrequencySemiannual,
	FrequencyAnnual,
	FrequencyEvery5Yrs,
}

func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

func ParseUrgency(s string) (Urgency, error) {
	for _, u := range Urgencies {
		if string(u) == s {
			return u, nil
		}
	}
	return "", fmt.Errorf("unknown urgency %q", s)
}

func ParseIncidentStatus(s string) (IncidentStatus, error) {
	for _, st := range IncidentStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown incident status %q", s)
}

func ParseSpecialty(s string) (Specialty, error) {
	for _, sp := range Specialties {
		if string(sp) == s {
			return sp, nil
		}
	}
	return "", fmt.Errorf("unknown specialty %q", s)
}

func ParseTaskStatus(s string) (TaskStatus, error) {
	for _, st := range TaskStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown maintenance status %q", s)
}

// ParseFrequency accepts the empty string as FrequencyUnset.
func ParseFrequency(s string) (Frequency, error) {
	if s == "" {
		return FrequencyUnset, nil
	}
	for _, f := range Frequencies {
		if string(f) == s {
			return f, nil
		}
	}
	return FrequencyUnset, fmt.Errorf("unknown frequency %q", s)
}

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleTechnician, RoleManager:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// UnmarshalText implementations reject unknown labels when decoding request
// bodies. An empty label decodes to the zero value so that required-field
// validation can report it by name.

func (c *Category) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*c = ""
		return nil
	}
	v, err := ParseCategory(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

func (u *Urgency) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*u = ""
		return nil
	}
	v, err := ParseUrgency(string(b))
	if err != nil {
		return err
	}
	*u = v
	return nil
}

func (s *IncidentStatus) UnmarshalText(b []byte) error {
	v, err := ParseIncidentStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// An empty specialty is accepted: it clears the referral specialty.
func (s *Specialty) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*s = ""
		return nil
	}
	v, err := ParseSpecialty(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func (s *TaskStatus) UnmarshalText(b []byte) error {
	v, err := ParseTaskStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func (f *Frequency) UnmarshalText(b []byte) error {
	v, err := ParseFrequency(string(b))
	if err != nil {
		return err
	}
	*f = v
	return nil
}
