package records

import (
	"github.com/propmaint/backend/internal/docstore"
	"github.com/propmaint/backend/internal/models"
)

// TaskFromPage maps a page of the maintenance collection.
func TaskFromPage(page *docstore.Page) models.MaintenanceTask {
	p := page.Properties
	task := models.MaintenanceTask{
		ID:                  page.ID,
		Task:                untitled,
		Status:              models.TaskAwaitingScheduling,
		Type:                selectOrTextOr(p, PropTaskType, ""),
		Contact:             textOr(p, PropContact, ""),
		Building:            selectOrTextOr(p, PropBuilding, ""),
		Apartment:           textOr(p, PropApartment, ""),
		ExecutionNotes:      textOr(p, PropExecutionNotes, ""),
		Photos:              p.FileURLs(PropPhotos),
		CompletedApartments: textOr(p, PropCompletedApartments, ""),
	}
	if v, ok := p.TitleText(); ok {
		task.Task = v
	}
	// Some collections keep the technician as text, older ones as a select.
	if v, ok := p.Text(PropTaskTechnician); ok {
		task.Technician = v
	} else if v, ok := p.SelectName(PropTaskTechnician); ok {
		task.Technician = v
	}

	if v, ok := p.SelectName(PropStatus); ok {
		if st, err := models.ParseTaskStatus(v); err == nil {
			task.Status = st
		} else {
			warnUnknown(page.ID, PropStatus, v)
		}
	}
	if v, ok := p.SelectName(PropFrequency); ok {
		if f, err := models.ParseFrequency(v); err == nil {
			task.Frequency = f
		} else {
			warnUnknown(page.ID, PropFrequency, v)
		}
	}

	task.LastInspection = dateProp(page.ID, p, PropLastInspection)
	task.ScheduledDate = dateProp(page.ID, p, PropTaskScheduled)
	return task
}

// TaskPatch translates only the fields present in u, with the same clear
// semantics as IncidentPatch.
func TaskPatch(u models.MaintenanceUpdate) docstore.Properties {
	props := docstore.Properties{}
	if u.Status != nil {
		props[PropStatus] = docstore.Status(string(*u.Status))
	}
	if u.LastInspection != nil {
		props[PropLastInspection] = docstore.Date(u.LastInspection.String())
	}
	if u.ScheduledDate != nil {
		props[PropTaskScheduled] = docstore.Date(u.ScheduledDate.String())
	}
	setText(props, PropTaskTechnician, u.Technician)
	setText(props, PropContact, u.Contact)
	setText(props, PropExecutionNotes, u.ExecutionNotes)
	setText(props, PropCompletedApartments, u.CompletedApartments)
	if photos := FilterHostedFiles(u.Photos); len(photos) > 0 {
		props[PropPhotos] = docstore.ExternalFiles(photoFileName, photos)
	}
	return props
}

// CompletionPatch is the single patch that closes a cycle: status, last
// inspection and next scheduled date always travel together. Notes and
// photos are added only when given.
func CompletionPatch(today, next models.Date, notes string, photos []string) docstore.Properties {
	completed := models.TaskCompleted
	u := models.MaintenanceUpdate{
		Status:         &completed,
		LastInspection: &today,
		ScheduledDate:  &next,
		Photos:         photos,
	}
	if notes != "" {
		u.ExecutionNotes = &notes
	}
	return TaskPatch(u)
}

// TaskCreateProperties builds the full property set of a task. Only the
// seeding path creates tasks; the panels never do.
func TaskCreateProperties(t models.MaintenanceTask) docstore.Properties {
	title := t.Task
	if title == "" {
		title = untitled
	}
	status := t.Status
	if status == "" {
		status = models.TaskAwaitingScheduling
	}
	props := docstore.Properties{
		PropTaskTitle: docstore.Title(title),
		PropStatus:    docstore.Status(string(status)),
	}
	if t.Frequency != models.FrequencyUnset {
		props[PropFrequency] = docstore.Select(string(t.Frequency))
	}
	if t.Type != "" {
		props[PropTaskType] = docstore.Select(t.Type)
	}
	if t.Building != "" {
		props[PropBuilding] = docstore.Select(t.Building)
	}
	if t.Apartment != "" {
		props[PropApartment] = docstore.Text(t.Apartment)
	}
	if t.ScheduledDate != nil && !t.ScheduledDate.IsZero() {
		props[PropTaskScheduled] = docstore.Date(t.ScheduledDate.String())
	}
	if t.LastInspection != nil && !t.LastInspection.IsZero() {
		props[PropLastInspection] = docstore.Date(t.LastInspection.String())
	}
	if t.Technician != "" {
		props[PropTaskTechnician] = docstore.Text(t.Technician)
	}
	if t.Contact != "" {
		props[PropContact] = docstore.Text(t.Contact)
	}
	return props
}
