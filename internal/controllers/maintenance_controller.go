package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/propmaint/backend/internal/docstore"
	"github.com/propmaint/backend/internal/logger"
	"github.com/propmaint/backend/internal/models"
	"github.com/propmaint/backend/internal/schedule"
	"github.com/propmaint/backend/internal/services"
)

// ActionComplete is the PATCH action that closes a maintenance cycle.
const ActionComplete = "completar"

type MaintenanceController struct {
	maintenance *services.MaintenanceService
	incidents   *services.IncidentService
}

func NewMaintenanceController(maintenance *services.MaintenanceService, incidents *services.IncidentService) *MaintenanceController {
	return &MaintenanceController{maintenance: maintenance, incidents: incidents}
}

// GetTasks lists tasks in creation order. Any of the estado, tipo or
// vencidas query parameters switches to the filtered agenda ordering.
func (mc *MaintenanceController) GetTasks(c *gin.Context) {
	filter := schedule.Filter{
		Status: models.TaskStatus(c.Query("estado")),
		Type:   c.Query("tipo"),
	}
	if v := c.Query("vencidas"); v != "" {
		overdue, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "vencidas debe ser true o false"})
			return
		}
		filter.OverdueOnly = overdue
	}
	if filter.Status != "" {
		if _, err := models.ParseTaskStatus(string(filter.Status)); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	var tasks []models.MaintenanceTask
	var err error
	if filter == (schedule.Filter{}) {
		tasks, err = mc.maintenance.List(c.Request.Context())
	} else {
		tasks, err = mc.maintenance.Agenda(c.Request.Context(), filter)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener mantenimientos"})
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (mc *MaintenanceController) GetStats(c *gin.Context) {
	stats, err := mc.maintenance.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener estadísticas"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (mc *MaintenanceController) GetTask(c *gin.Context) {
	task, err := mc.maintenance.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		logger.WithError(err, "maintenance_controller").Error("Failed to fetch maintenance task")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener mantenimiento"})
		return
	}
	if task == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Mantenimiento no encontrado"})
		return
	}
	c.JSON(http.StatusOK, task)
}

// CompleteRequest is the PATCH body that completes a task.
type CompleteRequest struct {
	Action string   `json:"action"`
	Notes  string   `json:"notasEjecucion"`
	Photos []string `json:"fotos"`
}

// UpdateTask applies a partial update, or completes the task when the body
// carries action "completar".
func (mc *MaintenanceController) UpdateTask(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Solicitud no válida"})
		return
	}
	var probe CompleteRequest
	if err := json.Unmarshal(body, &probe); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Solicitud no válida: " + err.Error()})
		return
	}

	var task *models.MaintenanceTask
	if probe.Action == ActionComplete {
		task, err = mc.maintenance.Complete(c.Request.Context(), c.Param("id"), probe.Notes, probe.Photos)
	} else {
		var u models.MaintenanceUpdate
		if err := json.Unmarshal(body, &u); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Solicitud no válida: " + err.Error()})
			return
		}
		task, err = mc.maintenance.Update(c.Request.Context(), c.Param("id"), u)
	}
	if errors.Is(err, docstore.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Mantenimiento no encontrado"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al actualizar mantenimiento"})
		return
	}
	c.JSON(http.StatusOK, task)
}

// TaskIncidentRequest reports a defect found while working a task.
type TaskIncidentRequest struct {
	Apartment   string         `json:"apartamento" binding:"required"`
	Description string         `json:"descripcion" binding:"required"`
	Urgency     models.Urgency `json:"urgencia"`
	Photos      []string       `json:"fotos"`
}

// CreateTaskIncident files an incident against one apartment of the
// building a task covers.
func (mc *MaintenanceController) CreateTaskIncident(c *gin.Context) {
	var req TaskIncidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Solicitud no válida: " + err.Error()})
		return
	}

	task, err := mc.maintenance.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener mantenimiento"})
		return
	}
	if task == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Mantenimiento no encontrado"})
		return
	}

	in, err := services.IncidentForTask(*task, req.Apartment, req.Description, req.Urgency)
	if errors.Is(err, services.ErrUnresolvedBuilding) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Edificio desconocido: " + task.Building})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al crear incidencia"})
		return
	}
	in.Photos = req.Photos
	in.AssignedTechnician = task.Technician

	inc, err := mc.incidents.Create(c.Request.Context(), in)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al crear incidencia"})
		return
	}
	logger.WithTask(task.ID).WithField("incident_id", inc.ID).Info("Incident reported from maintenance task")
	c.JSON(http.StatusCreated, inc)
}
