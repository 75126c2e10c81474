// Package records translates between document store pages and the domain
// entities. Reads never fail on missing or malformed optional data; writes
// produce partial patches that touch only the fields present in an update.
package records

// Incident property names.
const (
	PropIncidentTitle     = "Incidencia"
	PropBuilding          = "Edificio"
	PropApartment         = "Apartamento"
	PropDescription       = "Descripción"
	PropUrgency           = "Urgencia de reparación"
	PropStatus            = "Estado"
	PropPhotos            = "Fotos"
	PropReportDate        = "Fecha de Reporte"
	PropRepairDate        = "Fecha de Reparación"
	PropRepairScheduled   = "Fecha programada de reparacion"
	PropScheduledTime     = "Hora programada"
	PropResponsible       = "Técnico Responsable"
	PropRepairDuration    = "Tiempo de Reparación"
	PropRepairCost        = "Costo de Reparación"
	PropSuggestions       = "Sugerencias"
	PropTechnicianContact = "Contacto técnico"
	PropInvoices          = "Factura correspondiente"
	PropSpecialty         = "Especialidad requerida"
	PropManagerNotes      = "Notas de Javier"
	PropExternalCompany   = "Empresa/Tecnico externo"
	PropExternalContact   = "Contacto externo"
	PropExternalBudget    = "Presupuesto externo"
	PropBudgetApproved    = "Presupuesto aprobado"
)

// Maintenance task property names. The task title lives in whichever
// property the collection declares as its title; PropTaskTitle is the one
// used when this system creates the collection's pages itself.
const (
	PropTaskTitle           = "Tarea"
	PropLastInspection      = "Fecha de ultima inspeccion"
	PropTaskScheduled       = "Fecha programada"
	PropFrequency           = "Frecuencia revision"
	PropTaskType            = "Tipo"
	PropTaskTechnician      = "Tecnico"
	PropContact             = "Contacto"
	PropExecutionNotes      = "Notas de ejecucion"
	PropCompletedApartments = "Nro Apartamento"
)

const (
	untitled        = "Sin título"
	photoFileName   = "Foto"
	invoiceFileName = "Factura"
	titleDateLayout = "2/1/2006"
)
