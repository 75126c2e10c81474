package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/propmaint/backend/internal/buildings"
	"github.com/propmaint/backend/internal/models"
)

type BuildingController struct {
	roster *buildings.Roster
}

func NewBuildingController(roster *buildings.Roster) *BuildingController {
	if roster == nil {
		roster = buildings.Default
	}
	return &BuildingController{roster: roster}
}

type categoryListing struct {
	Category  models.Category      `json:"categoria"`
	Buildings []buildings.Building `json:"edificios"`
}

// GetBuildings returns the roster grouped by category, plus the short codes.
func (bc *BuildingController) GetBuildings(c *gin.Context) {
	cats := bc.roster.Categories()
	out := make([]categoryListing, 0, len(cats))
	for _, cat := range cats {
		out = append(out, categoryListing{Category: cat, Buildings: bc.roster.Buildings(cat)})
	}
	c.JSON(http.StatusOK, gin.H{
		"categorias": out,
		"alias":      bc.roster.Aliases(),
	})
}

// ResolveBuilding maps ?nombre= to its canonical building.
func (bc *BuildingController) ResolveBuilding(c *gin.Context) {
	name := c.Query("nombre")
	if strings.TrimSpace(name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Falta el parámetro nombre"})
		return
	}
	entry, ok := bc.roster.Resolve(name)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Edificio no encontrado"})
		return
	}
	c.JSON(http.StatusOK, entry)
}
