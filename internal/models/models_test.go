package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddMonthsClampsToMonthEnd(t *testing.T) {
	tests := []struct {
		from   Date
		months int
		want   string
	}{
		{NewDate(2024, time.January, 31), 1, "2024-02-29"},
		{NewDate(2023, time.January, 31), 1, "2023-02-28"},
		{NewDate(2024, time.August, 31), 3, "2024-11-30"},
		{NewDate(2024, time.February, 29), 12, "2025-02-28"},
		{NewDate(2024, time.March, 15), 6, "2024-09-15"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.from.AddMonths(tt.months).String(), "%s + %d", tt.from, tt.months)
	}
}

func TestParseDateKeepsDayOnly(t *testing.T) {
	d, err := ParseDate("2024-06-15T10:30:00.000+02:00")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-15", d.String())

	d, err = ParseDate("  ")
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	_, err = ParseDate("15/06/2024")
	assert.Error(t, err)
}

func TestDateJSON(t *testing.T) {
	var task MaintenanceTask
	require.NoError(t, json.Unmarshal([]byte(`{"tarea":"x","estado":"En curso","fechaProgramada":"2024-06-15"}`), &task))
	assert.Equal(t, TaskInProgress, task.Status)
	require.NotNil(t, task.ScheduledDate)
	assert.Equal(t, 92, NewDate(2024, time.March, 15).DaysUntil(*task.ScheduledDate))

	out, err := json.Marshal(Date{})
	require.NoError(t, err)
	assert.Equal(t, `""`, string(out))
}

func TestEnumDecodingRejectsUnknownLabels(t *testing.T) {
	var in IncidentInput
	err := json.Unmarshal([]byte(`{"urgencia":"Crítica"}`), &in)
	assert.Error(t, err)

	require.NoError(t, json.Unmarshal([]byte(`{"urgencia":"","categoria":"Vitarooms"}`), &in))
	assert.Equal(t, CategoryVitarooms, in.Category)
	assert.Equal(t, Urgency(""), in.Urgency)
}

func TestIncidentInputValidateListsEveryField(t *testing.T) {
	err := IncidentInput{Building: "Juan Bravo", Description: "  "}.Validate()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"apartamento", "descripcion", "urgencia", "categoria"}, verr.Fields)

	ok := IncidentInput{Building: "JB", Apartment: "1A", Description: "Fuga", Urgency: UrgencyHigh, Category: CategoryTourist}
	assert.NoError(t, ok.Validate())
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("gestion")
	require.NoError(t, err)
	assert.Equal(t, RoleManager, r)
	_, err = ParseRole("admin")
	assert.Error(t, err)
}

func TestIncidentUpdateTracksExplicitNull(t *testing.T) {
	var u IncidentUpdate
	require.NoError(t, json.Unmarshal([]byte(`{"costoReparacion":null,"presupuestoExterno":80.5,"presupuestoAprobado":null}`), &u))
	assert.Nil(t, u.RepairCost)
	assert.True(t, u.ClearRepairCost)
	require.NotNil(t, u.ExternalBudget)
	assert.Equal(t, 80.5, *u.ExternalBudget)
	assert.False(t, u.ClearExternalBudget)
	assert.True(t, u.ClearBudgetApproved)

	var absent IncidentUpdate
	require.NoError(t, json.Unmarshal([]byte(`{"sugerencias":"revisar"}`), &absent))
	assert.False(t, absent.ClearRepairCost || absent.ClearExternalBudget || absent.ClearBudgetApproved)

	out, err := json.Marshal(u)
	require.NoError(t, err)
	assert.JSONEq(t, `{"costoReparacion":null,"presupuestoExterno":80.5,"presupuestoAprobado":null}`, string(out))

	out, err = json.Marshal(absent)
	require.NoError(t, err)
	assert.JSONEq(t, `{"sugerencias":"revisar"}`, string(out))

	assert.False(t, u.RestrictTo(RoleTechnician).ClearBudgetApproved)
	assert.True(t, u.RestrictTo(RoleTechnician).ClearRepairCost)
}

func TestCloneSharesNothing(t *testing.T) {
	cost := 120.0
	notes := "llamar antes"
	day := NewDate(2024, time.May, 2)
	in := Incident{
		Photos:       []string{"https://x/a.jpg"},
		Invoices:     []string{},
		RepairCost:   &cost,
		ManagerNotes: &notes,
		RepairDate:   &day,
	}

	c := in.Clone()
	c.Photos[0] = "changed"
	*c.RepairCost = 1
	*c.ManagerNotes = "changed"
	*c.RepairDate = NewDate(2030, time.January, 1)

	assert.Equal(t, "https://x/a.jpg", in.Photos[0])
	assert.Equal(t, 120.0, cost)
	assert.Equal(t, "llamar antes", notes)
	assert.Equal(t, "2024-05-02", in.RepairDate.String())
	assert.NotNil(t, c.Invoices)
	assert.Nil(t, Incident{}.Clone().Photos)

	task := MaintenanceTask{Photos: []string{"p"}, ScheduledDate: &day}
	tc := task.Clone()
	tc.Photos[0] = "q"
	*tc.ScheduledDate = NewDate(2031, time.March, 3)
	assert.Equal(t, []string{"p"}, task.Photos)
	assert.Equal(t, "2024-05-02", task.ScheduledDate.String())
}
