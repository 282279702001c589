package handler

import (
	"net/http"
	"time"

	"timetrack-service/internal/middleware"
	"timetrack-service/internal/model"
	"timetrack-service/pkg/logger"
	"timetrack-service/pkg/token"
	"timetrack-service/prometheus"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthHandler implements registration, login and session management.
type AuthHandler struct {
	db *gorm.DB
}

func NewAuthHandler(db *gorm.DB) *AuthHandler {
	return &AuthHandler{db: db}
}

// Register creates a new user and, when companyName is present, their
// company in the same transaction with the user promoted to owner.
func (h *AuthHandler) Register(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RegisterCounter.Inc()

	var req struct {
		Email       string `json:"email"`
		Password    string `json:"password"`
		DisplayName string `json:"displayName"`
		CompanyName string `json:"companyName"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse registration request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "Solicitud inválida"})
	}

	if req.Email == "" || req.Password == "" || req.DisplayName == "" {
		log.Error("Invalid registration data",
			zap.String("email", req.Email),
			zap.Bool("password_provided", req.Password != ""))
		prometheus.RecordAuthError("incomplete_registration")
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "Correo, contraseña y nombre son obligatorios"})
	}

	// Check if user already exists - track DB query
	defer prometheus.TrackDBOperation("query")(time.Now())
	var existingUser model.User
	result := h.db.Where("email = ?", req.Email).First(&existingUser)
	if result.Error == nil {
		log.Warn("User already exists", zap.String("email", req.Email))
		prometheus.RecordAuthError("email_already_exists")
		return c.JSON(http.StatusConflict, echo.Map{"detail": "El correo ya está registrado"})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		prometheus.RecordAuthError("password_hash_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "No se pudo completar el registro"})
	}

	sessionToken, err := token.New()
	if err != nil {
		log.Error("Failed to generate session token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "No se pudo completar el registro"})
	}

	user := model.User{
		UID:         uuid.New().String(),
		Email:       req.Email,
		Password:    string(hashedPassword),
		DisplayName: req.DisplayName,
		Role:        model.RoleUser,
		Token:       &sessionToken,
	}

	var company *model.Company
	if req.CompanyName != "" {
		company = &model.Company{
			CompanyID:          uuid.New().String(),
			Name:               req.CompanyName,
			SubscriptionStatus: "active",
			OwnerID:            user.UID,
		}
		user.CompanyID = &company.CompanyID
		user.Role = model.RoleOwner
	}

	// Company and user are created together or not at all.
	defer prometheus.TrackDBOperation("insert")(time.Now())
	err = h.db.Transaction(func(tx *gorm.DB) error {
		if company != nil {
			if err := tx.Create(company).Error; err != nil {
				return err
			}
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		log.Error("Failed to create user", zap.Error(err))
		prometheus.RecordAuthError("user_creation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "No se pudo completar el registro"})
	}

	prometheus.IncreaseActiveSessions()
	log.Info("User registered",
		zap.String("email", user.Email),
		zap.Bool("with_company", company != nil))

	response := echo.Map{
		"token":   sessionToken,
		"user":    user,
		"company": company,
	}
	return c.JSON(http.StatusOK, response)
}

// Login verifies the credentials and issues a fresh token, invalidating
// any previous session for the user.
func (h *AuthHandler) Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.LoginCounter.Inc()

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "Solicitud inválida"})
	}

	// Find user in database - track DB operation duration
	defer prometheus.TrackDBOperation("query")(time.Now())
	var user model.User
	result := h.db.Where("email = ?", req.Email).First(&user)
	if result.Error != nil {
		log.Warn("User not found", zap.String("email", req.Email))
		prometheus.RecordAuthError("user_not_found")
		return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "Credenciales inválidas"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		log.Warn("Invalid password", zap.String("email", req.Email))
		prometheus.RecordAuthError("invalid_password")
		return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "Credenciales inválidas"})
	}

	sessionToken, err := token.New()
	if err != nil {
		log.Error("Failed to generate session token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "No se pudo iniciar sesión"})
	}

	// Overwriting the stored token invalidates the previous session.
	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := h.db.Model(&user).Update("token", sessionToken).Error; err != nil {
		log.Error("Failed to store session token", zap.Error(err))
		prometheus.RecordAuthError("token_store_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "No se pudo iniciar sesión"})
	}

	company := h.companyOf(&user)

	prometheus.IncreaseActiveSessions()
	log.Info("User logged in", zap.String("email", user.Email))

	return c.JSON(http.StatusOK, echo.Map{
		"token":   sessionToken,
		"user":    user,
		"company": company,
	})
}

// Me returns the caller's profile and company.
func (h *AuthHandler) Me(c echo.Context) error {
	user := middleware.CurrentUser(c)
	company := h.companyOf(user)

	return c.JSON(http.StatusOK, echo.Map{
		"user":    user,
		"company": company,
	})
}

// Logout nulls the stored token, invalidating the session immediately.
func (h *AuthHandler) Logout(c echo.Context) error {
	log := logger.FromContext(c)
	user := middleware.CurrentUser(c)

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := h.db.Model(user).Update("token", nil).Error; err != nil {
		log.Error("Failed to clear session token", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "No se pudo cerrar sesión"})
	}

	prometheus.DecreaseActiveSessions()
	log.Info("User logged out", zap.String("email", user.Email))
	return c.JSON(http.StatusOK, echo.Map{"message": "Sesión cerrada"})
}

// companyOf loads the user's company, or nil when they have none.
func (h *AuthHandler) companyOf(user *model.User) *model.Company {
	if user == nil || user.CompanyID == nil {
		return nil
	}
	var company model.Company
	if err := h.db.Where("company_id = ?", *user.CompanyID).First(&company).Error; err != nil {
		return nil
	}
	return &company
}
