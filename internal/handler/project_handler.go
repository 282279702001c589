package handler

import (
	"net/http"
	"time"

	"timetrack-service/internal/middleware"
	"timetrack-service/internal/model"
	"timetrack-service/pkg/logger"
	"timetrack-service/prometheus"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Lists are bounded fetches, not pagination: rows past the cap are
// silently dropped.
const projectListLimit = 100

// ProjectHandler implements tenant-scoped project CRUD.
type ProjectHandler struct {
	db *gorm.DB
}

func NewProjectHandler(db *gorm.DB) *ProjectHandler {
	return &ProjectHandler{db: db}
}

// ProjectUpdateRequest is a patch: nil fields are left untouched.
type ProjectUpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
	IsActive    *bool   `json:"isActive"`
}

// Create creates a project for the caller's company.
func (h *ProjectHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("project", "create")
	user := middleware.CurrentUser(c)

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Color       string `json:"color"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse project creation request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "Solicitud inválida"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "El nombre es obligatorio"})
	}
	if req.Color == "" {
		req.Color = model.DefaultColor
	}

	project := model.Project{
		ProjectID:   uuid.New().String(),
		CompanyID:   *user.CompanyID,
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		IsActive:    true,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := h.db.Create(&project); result.Error != nil {
		log.Error("Failed to create project", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "No se pudo crear el proyecto"})
	}

	log.Info("Project created",
		zap.String("project_id", project.ProjectID),
		zap.String("company_id", project.CompanyID))
	return c.JSON(http.StatusOK, project)
}

// List returns the company's projects, bounded.
func (h *ProjectHandler) List(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("project", "list")
	user := middleware.CurrentUser(c)

	defer prometheus.TrackDBOperation("query")(time.Now())
	projects := make([]model.Project, 0)
	result := h.db.Where("company_id = ?", *user.CompanyID).
		Limit(projectListLimit).
		Find(&projects)
	if result.Error != nil {
		log.Error("Failed to list projects", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "No se pudieron obtener los proyectos"})
	}

	return c.JSON(http.StatusOK, projects)
}

// Get returns one project by id, scoped to the caller's company.
func (h *ProjectHandler) Get(c echo.Context) error {
	prometheus.RecordEntityOperation("project", "get")
	user := middleware.CurrentUser(c)

	defer prometheus.TrackDBOperation("query")(time.Now())
	var project model.Project
	result := h.db.Where("project_id = ? AND company_id = ?", c.Param("id"), *user.CompanyID).
		First(&project)
	if result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"detail": "Proyecto no encontrado"})
	}

	return c.JSON(http.StatusOK, project)
}

// Update merges the non-nil patch fields into an owned project.
func (h *ProjectHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("project", "update")
	user := middleware.CurrentUser(c)

	var req ProjectUpdateRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse project update request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "Solicitud inválida"})
	}

	var project model.Project
	result := h.db.Where("project_id = ? AND company_id = ?", c.Param("id"), *user.CompanyID).
		First(&project)
	if result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"detail": "Proyecto no encontrado"})
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Color != nil {
		updates["color"] = *req.Color
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		defer prometheus.TrackDBOperation("update")(time.Now())
		if err := h.db.Model(&project).Updates(updates).Error; err != nil {
			log.Error("Failed to update project", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "No se pudo actualizar el proyecto"})
		}
	}

	return c.JSON(http.StatusOK, project)
}

// Delete removes an owned project. Activities and time entries keep
// their ids; there is no cascade.
func (h *ProjectHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("project", "delete")
	user := middleware.CurrentUser(c)

	defer prometheus.TrackDBOperation("delete")(time.Now())
	result := h.db.Where("project_id = ? AND company_id = ?", c.Param("id"), *user.CompanyID).
		Delete(&model.Project{})
	if result.Error != nil {
		log.Error("Failed to delete project", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "No se pudo eliminar el proyecto"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"detail": "Proyecto no encontrado"})
	}

	log.Info("Project deleted", zap.String("project_id", c.Param("id")))
	return c.JSON(http.StatusOK, echo.Map{"message": "Proyecto eliminado"})
}
