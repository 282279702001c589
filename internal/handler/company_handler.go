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

// CompanyHandler covers the reduced company surface: create once for a
// user without one, and read the caller's current company.
type CompanyHandler struct {
	db *gorm.DB
}

func NewCompanyHandler(db *gorm.DB) *CompanyHandler {
	return &CompanyHandler{db: db}
}

// Create creates a company and promotes the caller to owner. A user may
// belong to at most one company.
func (h *CompanyHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("company", "create")
	user := middleware.CurrentUser(c)

	if user.CompanyID != nil && *user.CompanyID != "" {
		log.Warn("User already belongs to a company", zap.String("uid", user.UID))
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "Ya perteneces a una empresa"})
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse company creation request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "Solicitud inválida"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "El nombre es obligatorio"})
	}

	company := model.Company{
		CompanyID:          uuid.New().String(),
		Name:               req.Name,
		SubscriptionStatus: "active",
		OwnerID:            user.UID,
	}

	// Creating the company and linking the user must not come apart.
	defer prometheus.TrackDBOperation("insert")(time.Now())
	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&company).Error; err != nil {
			return err
		}
		return tx.Model(user).Updates(map[string]interface{}{
			"company_id": company.CompanyID,
			"role":       model.RoleOwner,
		}).Error
	})
	if err != nil {
		log.Error("Failed to create company", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "No se pudo crear la empresa"})
	}

	log.Info("Company created",
		zap.String("company_id", company.CompanyID),
		zap.String("owner_id", user.UID))
	return c.JSON(http.StatusOK, company)
}

// Current returns the caller's company.
func (h *CompanyHandler) Current(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("company", "get")
	user := middleware.CurrentUser(c)

	if user.CompanyID == nil || *user.CompanyID == "" {
		return c.JSON(http.StatusNotFound, echo.Map{"detail": "No perteneces a ninguna empresa"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var company model.Company
	if err := h.db.Where("company_id = ?", *user.CompanyID).First(&company).Error; err != nil {
		log.Warn("Company not found", zap.String("company_id", *user.CompanyID))
		return c.JSON(http.StatusNotFound, echo.Map{"detail": "Empresa no encontrada"})
	}

	return c.JSON(http.StatusOK, company)
}
