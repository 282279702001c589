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

const entryListLimit = 500

// TimeEntryHandler implements time entry CRUD. Entries are personal:
// every filter carries both the company and the creating user, so an
// entry is invisible to anyone else, same company or not.
type TimeEntryHandler struct {
	db *gorm.DB
}

func NewTimeEntryHandler(db *gorm.DB) *TimeEntryHandler {
	return &TimeEntryHandler{db: db}
}

// TimeEntryUpdateRequest is a patch: nil fields are left untouched.
// Ownership fields (user, company, project) are not patchable.
type TimeEntryUpdateRequest struct {
	Duration *int    `json:"duration"`
	Type     *string `json:"type"`
	Notes    *string `json:"notes"`
}

// Create logs a time entry against a project (and optionally an
// activity) of the caller's company.
func (h *TimeEntryHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("time_entry", "create")
	user := middleware.CurrentUser(c)

	var req struct {
		ProjectID  string  `json:"projectId"`
		ActivityID *string `json:"activityId"`
		Duration   int     `json:"duration"`
		Type       string  `json:"type"`
		Notes      string  `json:"notes"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse time entry creation request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "Solicitud inválida"})
	}
	if req.ProjectID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "El proyecto es obligatorio"})
	}
	if req.Duration < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "La duración no puede ser negativa"})
	}
	if req.Type == "" {
		req.Type = model.EntryTypePomodoro
	}
	if !model.ValidEntryType(req.Type) {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "Tipo de registro inválido"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var project model.Project
	result := h.db.Where("project_id = ? AND company_id = ?", req.ProjectID, *user.CompanyID).
		First(&project)
	if result.Error != nil {
		log.Warn("Referenced project not found", zap.String("project_id", req.ProjectID))
		return c.JSON(http.StatusNotFound, echo.Map{"detail": "Proyecto no encontrado"})
	}

	if req.ActivityID != nil && *req.ActivityID != "" {
		var activity model.Activity
		result := h.db.Where("activity_id = ? AND company_id = ?", *req.ActivityID, *user.CompanyID).
			First(&activity)
		if result.Error != nil {
			log.Warn("Referenced activity not found", zap.String("activity_id", *req.ActivityID))
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Actividad no encontrada"})
		}
	} else {
		req.ActivityID = nil
	}

	now := time.Now().UTC()
	entry := model.TimeEntry{
		EntryID:    uuid.New().String(),
		UserID:     user.UID,
		CompanyID:  *user.CompanyID,
		ProjectID:  req.ProjectID,
		ActivityID: req.ActivityID,
		Duration:   req.Duration,
		Type:       req.Type,
		Notes:      req.Notes,
		Date:       now.Format("2006-01-02"),
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := h.db.Create(&entry); result.Error != nil {
		log.Error("Failed to create time entry", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "No se pudo crear el registro"})
	}

	log.Info("Time entry created",
		zap.String("entry_id", entry.EntryID),
		zap.String("project_id", entry.ProjectID),
		zap.Int("duration", entry.Duration),
		zap.String("type", entry.Type))
	return c.JSON(http.StatusOK, entry)
}

// List returns the caller's entries newest first, optionally filtered by
// projectId and activityId, bounded.
func (h *TimeEntryHandler) List(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("time_entry", "list")
	user := middleware.CurrentUser(c)

	query := h.db.Where("company_id = ? AND user_id = ?", *user.CompanyID, user.UID)
	if projectID := c.QueryParam("projectId"); projectID != "" {
		query = query.Where("project_id = ?", projectID)
	}
	if activityID := c.QueryParam("activityId"); activityID != "" {
		query = query.Where("activity_id = ?", activityID)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	entries := make([]model.TimeEntry, 0)
	result := query.Order("created_at DESC").Limit(entryListLimit).Find(&entries)
	if result.Error != nil {
		log.Error("Failed to list time entries", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "No se pudieron obtener los registros"})
	}

	return c.JSON(http.StatusOK, entries)
}

// Get returns one of the caller's entries by id.
func (h *TimeEntryHandler) Get(c echo.Context) error {
	prometheus.RecordEntityOperation("time_entry", "get")
	user := middleware.CurrentUser(c)

	defer prometheus.TrackDBOperation("query")(time.Now())
	var entry model.TimeEntry
	result := h.db.Where("entry_id = ? AND company_id = ? AND user_id = ?",
		c.Param("id"), *user.CompanyID, user.UID).First(&entry)
	if result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"detail": "Registro no encontrado"})
	}

	return c.JSON(http.StatusOK, entry)
}

// Update merges the non-nil patch fields into one of the caller's
// entries.
func (h *TimeEntryHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("time_entry", "update")
	user := middleware.CurrentUser(c)

	var req TimeEntryUpdateRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse time entry update request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "Solicitud inválida"})
	}
	if req.Duration != nil && *req.Duration < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "La duración no puede ser negativa"})
	}
	if req.Type != nil && !model.ValidEntryType(*req.Type) {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "Tipo de registro inválido"})
	}

	var entry model.TimeEntry
	result := h.db.Where("entry_id = ? AND company_id = ? AND user_id = ?",
		c.Param("id"), *user.CompanyID, user.UID).First(&entry)
	if result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"detail": "Registro no encontrado"})
	}

	updates := map[string]interface{}{}
	if req.Duration != nil {
		updates["duration"] = *req.Duration
	}
	if req.Type != nil {
		updates["type"] = *req.Type
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}

	if len(updates) > 0 {
		defer prometheus.TrackDBOperation("update")(time.Now())
		if err := h.db.Model(&entry).Updates(updates).Error; err != nil {
			log.Error("Failed to update time entry", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "No se pudo actualizar el registro"})
		}
	}

	return c.JSON(http.StatusOK, entry)
}

// Delete removes one of the caller's entries.
func (h *TimeEntryHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("time_entry", "delete")
	user := middleware.CurrentUser(c)

	defer prometheus.TrackDBOperation("delete")(time.Now())
	result := h.db.Where("entry_id = ? AND company_id = ? AND user_id = ?",
		c.Param("id"), *user.CompanyID, user.UID).Delete(&model.TimeEntry{})
	if result.Error != nil {
		log.Error("Failed to delete time entry", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "No se pudo eliminar el registro"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"detail": "Registro no encontrado"})
	}

	log.Info("Time entry deleted", zap.String("entry_id", c.Param("id")))
	return c.JSON(http.StatusOK, echo.Map{"message": "Registro eliminado"})
}
