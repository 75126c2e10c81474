package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/propmaint/backend/internal/logger"
	"github.com/propmaint/backend/internal/middleware"
	"github.com/propmaint/backend/internal/models"
)

// Panel names accepted by Login.
const (
	PanelTechnician = "admin"
	PanelManager    = "gestion"
)

// AuthSettings configures the two panel passwords and the session cookie.
// A password beginning with "$2" is taken as a bcrypt hash, anything else
// is hashed once at startup. An empty password disables that panel.
type AuthSettings struct {
	TechnicianPassword string
	ManagerPassword    string
	SessionSecret      []byte
	SessionTTL         time.Duration
	CookieSecure       bool
}

type AuthController struct {
	technicianHash []byte
	managerHash    []byte
	secret         []byte
	ttl            time.Duration
	secure         bool

	Now func() time.Time
}

func NewAuthController(s AuthSettings) (*AuthController, error) {
	if len(s.SessionSecret) == 0 {
		return nil, errors.New("session secret required")
	}
	tech, err := passwordHash(s.TechnicianPassword)
	if err != nil {
		return nil, err
	}
	mgr, err := passwordHash(s.ManagerPassword)
	if err != nil {
		return nil, err
	}
	ttl := s.SessionTTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &AuthController{
		technicianHash: tech,
		managerHash:    mgr,
		secret:         s.SessionSecret,
		ttl:            ttl,
		secure:         s.CookieSecure,
		Now:            time.Now,
	}, nil
}

func passwordHash(password string) ([]byte, error) {
	if password == "" {
		return nil, nil
	}
	if strings.HasPrefix(password, "$2") {
		if _, err := bcrypt.Cost([]byte(password)); err != nil {
			return nil, err
		}
		return []byte(password), nil
	}
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

type LoginRequest struct {
	Password string `json:"password" binding:"required"`
	Panel    string `json:"panel"`
}

type AuthResponse struct {
	Success   bool        `json:"success"`
	Role      models.Role `json:"role"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var role models.Role
	var hash []byte
	switch req.Panel {
	case PanelManager:
		role, hash = models.RoleManager, ac.managerHash
	case PanelTechnician, "":
		role, hash = models.RoleTechnician, ac.technicianHash
	}
	if hash == nil || bcrypt.CompareHashAndPassword(hash, []byte(req.Password)) != nil {
		logger.Warn("Rejected panel login", map[string]interface{}{
			"panel":     req.Panel,
			"client_ip": c.ClientIP(),
		})
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Contraseña incorrecta"})
		return
	}

	token, expiresAt, err := middleware.SignSession(ac.secret, role, ac.ttl, ac.now())
	if err != nil {
		logger.WithError(err, "auth_controller").Error("Failed to sign session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error de autenticación"})
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.SessionCookie, token, int(ac.ttl.Seconds()), "/", "", ac.secure, true)
	logger.Info("Panel login", map[string]interface{}{"role": role})

	c.JSON(http.StatusOK, AuthResponse{
		Success:   true,
		Role:      role,
		ExpiresAt: expiresAt,
	})
}

func (ac *AuthController) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", ac.secure, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (ac *AuthController) now() time.Time {
	if ac.Now != nil {
		return ac.Now()
	}
	return time.Now()
}
