package models

type MaintenanceTask struct {
	ID                  string     `json:"id"`
	Task                string     `json:"tarea"`
	Status              TaskStatus `json:"estado"`
	LastInspection      *Date      `json:"fechaUltimaInspeccion,omitempty"`
	ScheduledDate       *Date      `json:"fechaProgramada,omitempty"`
	Frequency           Frequency  `json:"frecuenciaRevision,omitempty"`
	Type                string     `json:"tipo,omitempty"`
	Technician          string     `json:"tecnico,omitempty"`
	Contact             string     `json:"contacto,omitempty"`
	Building            string     `json:"edificio,omitempty"`
	Apartment           string     `json:"apartamento,omitempty"`
	ExecutionNotes      string     `json:"notasEjecucion,omitempty"`
	Photos              []string   `json:"fotos"`
	CompletedApartments string     `json:"apartamentosCompletados,omitempty"`
}

// MaintenanceUpdate is a partial update with the same nil/empty semantics
// as IncidentUpdate.
type MaintenanceUpdate struct {
	Status              *TaskStatus `json:"estado,omitempty"`
	LastInspection      *Date       `json:"fechaUltimaInspeccion,omitempty"`
	ScheduledDate       *Date       `json:"fechaProgramada,omitempty"`
	Technician          *string     `json:"tecnico,omitempty"`
	Contact             *string     `json:"contacto,omitempty"`
	ExecutionNotes      *string     `json:"notasEjecucion,omitempty"`
	Photos              []string    `json:"fotos,omitempty"`
	CompletedApartments *string     `json:"apartamentosCompletados,omitempty"`
}

// IsOpen reports whether the task still needs work in the current cycle.
func (t MaintenanceTask) IsOpen() bool {
	return t.Status != TaskCompleted
}

// Clone returns a copy that shares no slices or pointers with t.
func (t MaintenanceTask) Clone() MaintenanceTask {
	out := t
	out.LastInspection = clonePtr(t.LastInspection)
	out.ScheduledDate = clonePtr(t.ScheduledDate)
	out.Photos = cloneStrings(t.Photos)
	return out
}
