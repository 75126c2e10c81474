package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/propmaint/backend/internal/docstore"
	"github.com/propmaint/backend/internal/logger"
	"github.com/propmaint/backend/internal/middleware"
	"github.com/propmaint/backend/internal/models"
	"github.com/propmaint/backend/internal/services"
)

type IncidentController struct {
	incidents *services.IncidentService
}

func NewIncidentController(incidents *services.IncidentService) *IncidentController {
	return &IncidentController{incidents: incidents}
}

func (ic *IncidentController) GetIncidents(c *gin.Context) {
	incidents, err := ic.incidents.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener incidencias"})
		return
	}
	c.JSON(http.StatusOK, incidents)
}

func (ic *IncidentController) GetIncident(c *gin.Context) {
	inc, err := ic.incidents.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		logger.WithError(err, "incident_controller").Error("Failed to fetch incident")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener incidencia"})
		return
	}
	if inc == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Incidencia no encontrada"})
		return
	}
	c.JSON(http.StatusOK, inc)
}

// CreateIncident handles the public report form.
func (ic *IncidentController) CreateIncident(c *gin.Context) {
	var in models.IncidentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Solicitud no válida: " + err.Error()})
		return
	}

	inc, err := ic.incidents.Create(c.Request.Context(), in)
	if err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":  "Faltan campos requeridos",
				"fields": verr.Fields,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al crear incidencia"})
		return
	}
	c.JSON(http.StatusCreated, inc)
}

func (ic *IncidentController) UpdateIncident(c *gin.Context) {
	var u models.IncidentUpdate
	if err := c.ShouldBindJSON(&u); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Solicitud no válida: " + err.Error()})
		return
	}

	inc, err := ic.incidents.Update(c.Request.Context(), c.Param("id"), u, middleware.CurrentRole(c))
	if errors.Is(err, docstore.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Incidencia no encontrada"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al actualizar incidencia"})
		return
	}
	c.JSON(http.StatusOK, inc)
}
