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

const activityListLimit = 100

// ActivityHandler implements tenant-scoped activity create/list/delete.
type ActivityHandler struct {
	db *gorm.DB
}

func NewActivityHandler(db *gorm.DB) *ActivityHandler {
	return &ActivityHandler{db: db}
}

// Create creates an activity under a project of the caller's company.
// A projectId pointing outside the company is indistinguishable from a
// missing one.
func (h *ActivityHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("activity", "create")
	user := middleware.CurrentUser(c)

	var req struct {
		ProjectID   string `json:"projectId"`
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse activity creation request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "Solicitud inválida"})
	}
	if req.ProjectID == "" || req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "Proyecto y nombre son obligatorios"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var project model.Project
	result := h.db.Where("project_id = ? AND company_id = ?", req.ProjectID, *user.CompanyID).
		First(&project)
	if result.Error != nil {
		log.Warn("Referenced project not found",
			zap.String("project_id", req.ProjectID),
			zap.String("company_id", *user.CompanyID))
		return c.JSON(http.StatusNotFound, echo.Map{"detail": "Proyecto no encontrado"})
	}

	activity := model.Activity{
		ActivityID:  uuid.New().String(),
		ProjectID:   req.ProjectID,
		CompanyID:   *user.CompanyID,
		Name:        req.Name,
		Description: req.Description,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := h.db.Create(&activity); result.Error != nil {
		log.Error("Failed to create activity", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "No se pudo crear la actividad"})
	}

	log.Info("Activity created",
		zap.String("activity_id", activity.ActivityID),
		zap.String("project_id", activity.ProjectID))
	return c.JSON(http.StatusOK, activity)
}

// List returns the company's activities, optionally filtered by
// projectId, bounded.
func (h *ActivityHandler) List(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("activity", "list")
	user := middleware.CurrentUser(c)

	query := h.db.Where("company_id = ?", *user.CompanyID)
	if projectID := c.QueryParam("projectId"); projectID != "" {
		query = query.Where("project_id = ?", projectID)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	activities := make([]model.Activity, 0)
	if result := query.Limit(activityListLimit).Find(&activities); result.Error != nil {
		log.Error("Failed to list activities", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "No se pudieron obtener las actividades"})
	}

	return c.JSON(http.StatusOK, activities)
}

// Delete removes an owned activity.
func (h *ActivityHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("activity", "delete")
	user := middleware.CurrentUser(c)

	defer prometheus.TrackDBOperation("delete")(time.Now())
	result := h.db.Where("activity_id = ? AND company_id = ?", c.Param("id"), *user.CompanyID).
		Delete(&model.Activity{})
	if result.Error != nil {
		log.Error("Failed to delete activity", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "No se pudo eliminar la actividad"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"detail": "Actividad no encontrada"})
	}

	log.Info("Activity deleted", zap.String("activity_id", c.Param("id")))
	return c.JSON(http.StatusOK, echo.Map{"message": "Actividad eliminada"})
}
