package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/NKDMMadhusankha/HarmoniX-sub001/internal/audit"
	"github.com/NKDMMadhusankha/HarmoniX-sub001/internal/auth"
	"github.com/NKDMMadhusankha/HarmoniX-sub001/internal/config"
	"github.com/NKDMMadhusankha/HarmoniX-sub001/internal/httperr"
	"github.com/NKDMMadhusankha/HarmoniX-sub001/internal/models"
	"github.com/NKDMMadhusankha/HarmoniX-sub001/internal/validators"
)

// AuthHandler covers general-user accounts (clients browsing the
// marketplace, no role-specific profile).
type AuthHandler struct {
	db     *gorm.DB
	config *config.Config
	audit  *audit.Dispatcher
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config, auditor *audit.Dispatcher) *AuthHandler {
	return &AuthHandler{db: db, config: cfg, audit: auditor}
}

// --------- Requests ---------

type RegisterRequest struct {
	FullName        string `json:"fullName" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Missing or invalid registration fields.")
		return
	}

	if req.Password != req.ConfirmPassword {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Passwords do not match"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validators.IsEmailDomainValid(email) {
		httperr.BadRequest(c, "invalid_email_domain", "The email domain does not appear to be valid.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Internal server error. Please try again.")
		return
	}

	user := models.User{
		FullName:     req.FullName,
		Email:        email,
		PasswordHash: string(hashed),
	}

	if err := h.db.Create(&user).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			httperr.BadRequest(c, "user_exists", "Email already registered!")
			return
		}
		httperr.Internal(c, "failed_to_create_user", "Internal server error. Please try again.")
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorRole: auth.RoleUser,
		ActorID:   &user.ID,
		Action:    audit.ActionRegistered,
		Entity:    "user",
		EntityID:  &user.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User registered successfully",
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Email and password are required.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "invalid_credentials", "Invalid credentials")
			return
		}
		httperr.Internal(c, "internal_error", "Internal server error. Please try again.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "Invalid credentials")
		return
	}

	token, err := auth.Issue(user.ID, auth.RoleUser, h.config.JWTSecret, auth.SessionTokenTTL)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Internal server error. Please try again.")
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorRole: auth.RoleUser,
		ActorID:   &user.ID,
		Action:    audit.ActionLoggedIn,
		Entity:    "user",
		EntityID:  &user.ID,
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
		"user": gin.H{
			"id":       user.ID,
			"fullName": user.FullName,
			"email":    user.Email,
		},
	})
}
