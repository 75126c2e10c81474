package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/propmaint/backend/internal/buildings"
	"github.com/propmaint/backend/internal/models"
	"github.com/propmaint/backend/internal/schedule"
)

func renderTasks(w io.Writer, tasks []models.MaintenanceTask, today models.Date) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"ID", "Tarea", "Edificio", "Estado", "Programada", "Frecuencia", "Progreso", ""})
	for _, t := range tasks {
		due := ""
		if t.ScheduledDate != nil {
			due = t.ScheduledDate.String()
		}
		flag := ""
		switch {
		case schedule.IsOverdue(t, today):
			flag = "VENCIDA"
		case schedule.IsDueSoon(t, today):
			flag = "esta semana"
		}
		tw.AppendRow(table.Row{t.ID, t.Task, t.Building, t.Status, due, t.Frequency, progress(t), flag})
	}
	tw.Render()
}

// progress renders the apartment checklist of a task, or "-" when its
// building is not on the roster.
func progress(t models.MaintenanceTask) string {
	entry, ok := buildings.Resolve(t.Building)
	if !ok || len(entry.Apartments) == 0 {
		return "-"
	}
	done, total := buildings.Progress(entry, buildings.ParseCompleted(t.CompletedApartments))
	return fmt.Sprintf("%d/%d", done, total)
}

func renderIncidents(w io.Writer, incidents []models.Incident) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"ID", "Fecha", "Categoría", "Edificio", "Apto", "Urgencia", "Estado", "Técnico"})
	for _, inc := range incidents {
		reported := ""
		if inc.ReportDate != nil {
			reported = inc.ReportDate.String()
		}
		technician := ""
		if inc.Technician != nil {
			technician = *inc.Technician
		}
		tw.AppendRow(table.Row{inc.ID, reported, inc.Category, inc.Building, inc.Apartment, inc.Urgency, inc.Status, technician})
	}
	tw.Render()
}

func renderBuildings(w io.Writer, categories []models.Category) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Categoría", "Edificio", "Apartamentos"})
	for _, cat := range categories {
		for _, b := range buildings.Buildings(cat) {
			tw.AppendRow(table.Row{cat, b.Name, strings.Join(b.Apartments, " ")})
		}
	}
	tw.Render()
}

func renderEntry(w io.Writer, query string, e buildings.Entry) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Consulta", "Edificio", "Categoría", "Apartamentos"})
	tw.AppendRow(table.Row{query, e.Name, e.Category, len(e.Apartments)})
	tw.Render()
}

func renderStats(w io.Writer, s schedule.Stats) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Vencidas", "Próxima semana", "Pendientes"})
	tw.AppendRow(table.Row{s.Overdue, s.DueThisWeek, s.Open})
	tw.Render()
}
