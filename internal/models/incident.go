package models

import (
	"encoding/json"
	"strings"
)

type Incident struct {
	ID                string         `json:"id"`
	Title             string         `json:"titulo"`
	Building          string         `json:"edificio"`
	Apartment         string         `json:"apartamento"`
	Description       string         `json:"descripcion"`
	Urgency           Urgency        `json:"urgencia"`
	Status            IncidentStatus `json:"estado"`
	Category          Category       `json:"categoria"`
	Photos            []string       `json:"fotos"`
	ReportDate        *Date          `json:"fechaReporte,omitempty"`
	RepairDate        *Date          `json:"fechaReparacion,omitempty"`
	ScheduledDate     *Date          `json:"fechaProgramada,omitempty"`
	ScheduledTime     *string        `json:"horaProgramada,omitempty"`
	Technician        *string        `json:"tecnicoResponsable,omitempty"`
	RepairDuration    *string        `json:"tiempoReparacion,omitempty"`
	RepairCost        *float64       `json:"costoReparacion,omitempty"`
	Suggestions       *string        `json:"sugerencias,omitempty"`
	TechnicianContact *string        `json:"contactoTecnico,omitempty"`
	Invoices          []string       `json:"facturas"`
	RequiredSpecialty *Specialty     `json:"especialidadRequerida,omitempty"`
	ManagerNotes      *string        `json:"notasGestion,omitempty"`
	ExternalCompany   *string        `json:"empresaExterna,omitempty"`
	ExternalContact   *string        `json:"contactoExterno,omitempty"`
	ExternalBudget    *float64       `json:"presupuestoExterno,omitempty"`
	BudgetApproved    bool           `json:"presupuestoAprobado"`
}

// IncidentInput is what the public report form submits.
type IncidentInput struct {
	Building           string   `json:"edificio"`
	Apartment          string   `json:"apartamento"`
	Description        string   `json:"descripcion"`
	Urgency            Urgency  `json:"urgencia"`
	Category           Category `json:"categoria"`
	Photos             []string `json:"fotos,omitempty"`
	AssignedTechnician string   `json:"tecnicoAsignado,omitempty"`
}

// Validate reports every missing required field at once.
func (in IncidentInput) Validate() error {
	var missing []string
	if strings.TrimSpace(in.Building) == "" {
		missing = append(missing, "edificio")
	}
	if strings.TrimSpace(in.Apartment) == "" {
		missing = append(missing, "apartamento")
	}
	if strings.TrimSpace(in.Description) == "" {
		missing = append(missing, "descripcion")
	}
	if in.Urgency == "" {
		missing = append(missing, "urgencia")
	}
	if in.Category == "" {
		missing = append(missing, "categoria")
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

// IncidentUpdate is a partial update. A nil field is left untouched; a
// non-nil field holding an empty value clears it in the store. Numbers and
// the approval flag have no empty value, so an explicit JSON null on those
// keys sets the matching Clear flag instead.
type IncidentUpdate struct {
	Status            *IncidentStatus `json:"estado,omitempty"`
	RepairDate        *Date           `json:"fechaReparacion,omitempty"`
	ScheduledDate     *Date           `json:"fechaProgramada,omitempty"`
	ScheduledTime     *string         `json:"horaProgramada,omitempty"`
	Technician        *string         `json:"tecnicoResponsable,omitempty"`
	RepairDuration    *string         `json:"tiempoReparacion,omitempty"`
	RepairCost        *float64        `json:"costoReparacion,omitempty"`
	Suggestions       *string         `json:"sugerencias,omitempty"`
	TechnicianContact *string         `json:"contactoTecnico,omitempty"`
	Invoices          []string        `json:"facturas,omitempty"`
	RequiredSpecialty *Specialty      `json:"especialidadRequerida,omitempty"`
	ManagerNotes      *string         `json:"notasGestion,omitempty"`
	ExternalCompany   *string         `json:"empresaExterna,omitempty"`
	ExternalContact   *string         `json:"contactoExterno,omitempty"`
	ExternalBudget    *float64        `json:"presupuestoExterno,omitempty"`
	BudgetApproved    *bool           `json:"presupuestoAprobado,omitempty"`

	ClearRepairCost     bool `json:"-"`
	ClearExternalBudget bool `json:"-"`
	ClearBudgetApproved bool `json:"-"`
}

const (
	keyRepairCost     = "costoReparacion"
	keyExternalBudget = "presupuestoExterno"
	keyBudgetApproved = "presupuestoAprobado"
)

// incidentUpdateFields has the fields of IncidentUpdate without its methods.
type incidentUpdateFields IncidentUpdate

func (u *IncidentUpdate) UnmarshalJSON(data []byte) error {
	var fields incidentUpdateFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*u = IncidentUpdate(fields)
	u.ClearRepairCost = isJSONNull(raw, keyRepairCost)
	u.ClearExternalBudget = isJSONNull(raw, keyExternalBudget)
	u.ClearBudgetApproved = isJSONNull(raw, keyBudgetApproved)
	return nil
}

// MarshalJSON writes the Clear flags back as explicit nulls.
func (u IncidentUpdate) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(incidentUpdateFields(u))
	if err != nil || !(u.ClearRepairCost || u.ClearExternalBudget || u.ClearBudgetApproved) {
		return data, err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	null := json.RawMessage("null")
	if u.ClearRepairCost && u.RepairCost == nil {
		raw[keyRepairCost] = null
	}
	if u.ClearExternalBudget && u.ExternalBudget == nil {
		raw[keyExternalBudget] = null
	}
	if u.ClearBudgetApproved && u.BudgetApproved == nil {
		raw[keyBudgetApproved] = null
	}
	return json.Marshal(raw)
}

func isJSONNull(raw map[string]json.RawMessage, key string) bool {
	v, ok := raw[key]
	return ok && string(v) == "null"
}

// RestrictTo drops the fields the given role may not edit. Scheduling,
// technician assignment and external-contractor fields belong to managers.
func (u IncidentUpdate) RestrictTo(role Role) IncidentUpdate {
	if role == RoleManager {
		return u
	}
	u.ScheduledDate = nil
	u.ScheduledTime = nil
	u.Technician = nil
	u.ExternalCompany = nil
	u.ExternalContact = nil
	u.BudgetApproved = nil
	u.ClearBudgetApproved = false
	return u
}

// Clone returns a copy that shares no slices or pointers with i.
func (i Incident) Clone() Incident {
	out := i
	out.Photos = cloneStrings(i.Photos)
	out.Invoices = cloneStrings(i.Invoices)
	out.ReportDate = clonePtr(i.ReportDate)
	out.RepairDate = clonePtr(i.RepairDate)
	out.ScheduledDate = clonePtr(i.ScheduledDate)
	out.ScheduledTime = clonePtr(i.ScheduledTime)
	out.Technician = clonePtr(i.Technician)
	out.RepairDuration = clonePtr(i.RepairDuration)
	out.RepairCost = clonePtr(i.RepairCost)
	out.Suggestions = clonePtr(i.Suggestions)
	out.TechnicianContact = clonePtr(i.TechnicianContact)
	out.RequiredSpecialty = clonePtr(i.RequiredSpecialty)
	out.ManagerNotes = clonePtr(i.ManagerNotes)
	out.ExternalCompany = clonePtr(i.ExternalCompany)
	out.ExternalContact = clonePtr(i.ExternalContact)
	out.ExternalBudget = clonePtr(i.ExternalBudget)
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// cloneStrings keeps nil and empty distinct so JSON output is unchanged.
func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append(make([]string, 0, len(s)), s...)
}
