package records

import (
	"fmt"
	"time"

	"github.com/propmaint/backend/internal/docstore"
	"github.com/propmaint/backend/internal/logger"
	"github.com/propmaint/backend/internal/models"
)

// IncidentFromPage maps a page to an Incident. The category is not a page
// property: it comes from the collection the page was read from.
func IncidentFromPage(page *docstore.Page, category models.Category) models.Incident {
	p := page.Properties
	inc := models.Incident{
		ID:          page.ID,
		Title:       textOr(p, PropIncidentTitle, untitled),
		Building:    selectOrTextOr(p, PropBuilding, ""),
		Apartment:   textOr(p, PropApartment, ""),
		Description: textOr(p, PropDescription, ""),
		Urgency:     models.UrgencyMedium,
		Status:      models.StatusPending,
		Category:    category,
		Photos:      p.FileURLs(PropPhotos),
		Invoices:    p.FileURLs(PropInvoices),
	}

	if v, ok := p.FirstOption(PropUrgency); ok {
		if u, err := models.ParseUrgency(v); err == nil {
			inc.Urgency = u
		} else {
			warnUnknown(page.ID, PropUrgency, v)
		}
	}
	if v, ok := p.SelectName(PropStatus); ok {
		if st, err := models.ParseIncidentStatus(v); err == nil {
			inc.Status = st
		} else {
			warnUnknown(page.ID, PropStatus, v)
		}
	}
	if v, ok := p.SelectName(PropSpecialty); ok {
		if sp, err := models.ParseSpecialty(v); err == nil {
			inc.RequiredSpecialty = &sp
		} else {
			warnUnknown(page.ID, PropSpecialty, v)
		}
	}

	inc.ReportDate = dateProp(page.ID, p, PropReportDate)
	inc.RepairDate = dateProp(page.ID, p, PropRepairDate)
	inc.ScheduledDate = dateProp(page.ID, p, PropRepairScheduled)
	inc.ScheduledTime = textPtr(p, PropScheduledTime)
	inc.Technician = selectOrTextPtr(p, PropResponsible)
	inc.RepairDuration = textPtr(p, PropRepairDuration)
	inc.RepairCost = numberPtr(p, PropRepairCost)
	inc.Suggestions = textPtr(p, PropSuggestions)
	inc.TechnicianContact = textPtr(p, PropTechnicianContact)
	inc.ManagerNotes = textPtr(p, PropManagerNotes)
	inc.ExternalCompany = textPtr(p, PropExternalCompany)
	inc.ExternalContact = textPtr(p, PropExternalContact)
	inc.ExternalBudget = numberPtr(p, PropExternalBudget)
	if v, ok := p.Checkbox(PropBudgetApproved); ok {
		inc.BudgetApproved = v
	}
	return inc
}

// IncidentTitle derives the title of a new incident from its location and
// the report day.
func IncidentTitle(building, apartment string, reported time.Time) string {
	return fmt.Sprintf("%s - %s - %s", building, apartment, reported.Format(titleDateLayout))
}

// IncidentCreateProperties builds the full property set of a new incident.
// Status always starts Pending and the report date is the day of now.
func IncidentCreateProperties(in models.IncidentInput, now time.Time) docstore.Properties {
	props := docstore.Properties{
		PropIncidentTitle: docstore.Title(IncidentTitle(in.Building, in.Apartment, now)),
		PropApartment:     docstore.Text(in.Apartment),
		PropDescription:   docstore.Text(in.Description),
		PropUrgency:       docstore.MultiSelect(string(in.Urgency)),
		PropStatus:        docstore.Status(string(models.StatusPending)),
		PropReportDate:    docstore.Date(models.DateOf(now).String()),
	}
	// Tourist collections model the building as a select, the others as text.
	if in.Category == models.CategoryTourist {
		props[PropBuilding] = docstore.Select(in.Building)
	} else {
		props[PropBuilding] = docstore.Text(in.Building)
	}
	if in.AssignedTechnician != "" {
		props[PropResponsible] = docstore.Text(in.AssignedTechnician)
	}
	if photos := FilterHostedFiles(in.Photos); len(photos) > 0 {
		props[PropPhotos] = docstore.ExternalFiles(photoFileName, photos)
	}
	return props
}

// IncidentPatch translates only the fields present in u. Text fields set to
// the empty string and zero dates become clears; numbers and booleans are
// written whenever present, including an explicit null.
func IncidentPatch(u models.IncidentUpdate) docstore.Properties {
	props := docstore.Properties{}
	if u.Status != nil {
		props[PropStatus] = docstore.Status(string(*u.Status))
	}
	if u.RepairDate != nil {
		props[PropRepairDate] = docstore.Date(u.RepairDate.String())
	}
	if u.ScheduledDate != nil {
		props[PropRepairScheduled] = docstore.Date(u.ScheduledDate.String())
	}
	setText(props, PropScheduledTime, u.ScheduledTime)
	setText(props, PropResponsible, u.Technician)
	setText(props, PropRepairDuration, u.RepairDuration)
	setText(props, PropSuggestions, u.Suggestions)
	setText(props, PropTechnicianContact, u.TechnicianContact)
	setText(props, PropManagerNotes, u.ManagerNotes)
	setText(props, PropExternalCompany, u.ExternalCompany)
	setText(props, PropExternalContact, u.ExternalContact)
	setNumber(props, PropRepairCost, u.RepairCost, u.ClearRepairCost)
	setNumber(props, PropExternalBudget, u.ExternalBudget, u.ClearExternalBudget)
	if u.BudgetApproved != nil {
		props[PropBudgetApproved] = docstore.Checkbox(*u.BudgetApproved)
	} else if u.ClearBudgetApproved {
		props[PropBudgetApproved] = docstore.Property{Type: docstore.TypeCheckbox}
	}
	if u.RequiredSpecialty != nil {
		props[PropSpecialty] = docstore.Select(string(*u.RequiredSpecialty))
	}
	if invoices := FilterHostedFiles(u.Invoices); len(invoices) > 0 {
		props[PropInvoices] = docstore.ExternalFiles(invoiceFileName, invoices)
	}
	return props
}

func setText(props docstore.Properties, key string, v *string) {
	if v != nil {
		props[key] = docstore.Text(*v)
	}
}

func setNumber(props docstore.Properties, key string, v *float64, null bool) {
	switch {
	case v != nil:
		props[key] = docstore.Number(*v)
	case null:
		props[key] = docstore.Property{Type: docstore.TypeNumber}
	}
}

func textOr(p docstore.Properties, key, def string) string {
	if v, ok := p.Text(key); ok {
		return v
	}
	return def
}

func selectOrTextOr(p docstore.Properties, key, def string) string {
	if v, ok := p.SelectOrText(key); ok {
		return v
	}
	return def
}

func textPtr(p docstore.Properties, key string) *string {
	if v, ok := p.Text(key); ok {
		return &v
	}
	return nil
}

func selectOrTextPtr(p docstore.Properties, key string) *string {
	if v, ok := p.SelectOrText(key); ok {
		return &v
	}
	return nil
}

func numberPtr(p docstore.Properties, key string) *float64 {
	if v, ok := p.Number(key); ok {
		return &v
	}
	return nil
}

func dateProp(id string, p docstore.Properties, key string) *models.Date {
	raw, ok := p.DateStart(key)
	if !ok {
		return nil
	}
	d, err := models.ParseDate(raw)
	if err != nil || d.IsZero() {
		warnUnknown(id, key, raw)
		return nil
	}
	return &d
}

func warnUnknown(id, property, value string) {
	logger.Warn("Unrecognised store value, using default", map[string]interface{}{
		"page_id":  id,
		"property": property,
		"value":    value,
	})
}
