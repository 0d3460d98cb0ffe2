package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/NKDMMadhusankha/HarmoniX-sub001/internal/audit"
	"github.com/NKDMMadhusankha/HarmoniX-sub001/internal/auth"
	"github.com/NKDMMadhusankha/HarmoniX-sub001/internal/config"
	"github.com/NKDMMadhusankha/HarmoniX-sub001/internal/httperr"
	"github.com/NKDMMadhusankha/HarmoniX-sub001/internal/models"
	"github.com/NKDMMadhusankha/HarmoniX-sub001/internal/validators"
)

type MusicianAuthHandler struct {
	db     *gorm.DB
	config *config.Config
	audit  *audit.Dispatcher
}

func NewMusicianAuthHandler(db *gorm.DB, cfg *config.Config, auditor *audit.Dispatcher) *MusicianAuthHandler {
	return &MusicianAuthHandler{db: db, config: cfg, audit: auditor}
}

// --------- Requests ---------

type MusicianRegisterRequest struct {
	FullName        string   `json:"fullName" binding:"required"`
	Email           string   `json:"email" binding:"required,email"`
	Password        string   `json:"password" binding:"required,min=8"`
	ConfirmPassword string   `json:"confirmPassword" binding:"required"`
	PhoneNumber     string   `json:"phoneNumber" binding:"required"`
	Country         string   `json:"country" binding:"required"`
	Role            string   `json:"role" binding:"required"`
	Genres          []string `json:"genres"`
	Experience      string   `json:"experience" binding:"required"`

	Portfolio models.PortfolioLinks `json:"portfolioLinks"`
	Social    models.MusicianSocial `json:"socialMedia"`

	TermsAgreed bool `json:"termsAgreed"`
}

var validExperience = map[string]bool{
	"1-2 years": true,
	"3-5 years": true,
	"6+ years":  true,
}

// --------- Handlers ---------

func (h *MusicianAuthHandler) Register(c *gin.Context) {
	var req MusicianRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Missing or invalid registration fields.")
		return
	}

	if req.Password != req.ConfirmPassword {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Passwords do not match"})
		return
	}

	if !models.IsValidMusicianRole(req.Role) {
		httperr.BadRequest(c, "invalid_role", "Unknown musician role.")
		return
	}

	if req.Role == models.RoleMusicProducer && len(req.Genres) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Music Producers must select at least 2 genres",
		})
		return
	}

	if !validExperience[req.Experience] {
		httperr.BadRequest(c, "invalid_experience", "Experience must be one of: 1-2 years, 3-5 years, 6+ years.")
		return
	}

	if !req.TermsAgreed {
		httperr.BadRequest(c, "terms_not_agreed", "You must agree to the terms and conditions.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validators.IsEmailDomainValid(email) {
		httperr.BadRequest(c, "invalid_email_domain", "The email domain does not appear to be valid.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Server error")
		return
	}

	musician := models.Musician{
		UserID:       uuid.NewString(),
		FullName:     req.FullName,
		Email:        email,
		PasswordHash: string(hashed),
		PhoneNumber:  req.PhoneNumber,
		Country:      req.Country,
		Role:         req.Role,
		Genres:       req.Genres,
		Experience:   req.Experience,
		Portfolio:    req.Portfolio,
		Social:       req.Social,
		TermsAgreed:  req.TermsAgreed,
	}

	if err := h.db.Create(&musician).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Musician already exists"})
			return
		}
		httperr.Internal(c, "failed_to_create_musician", "Server error")
		return
	}

	token, err := auth.Issue(musician.ID, auth.RoleMusician, h.config.JWTSecret, auth.SessionTokenTTL)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Server error")
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorRole: auth.RoleMusician,
		ActorID:   &musician.ID,
		Action:    audit.ActionRegistered,
		Entity:    "musician",
		EntityID:  &musician.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Musician registration successful!",
		"token":   token,
		"musician": gin.H{
			"userId":     musician.UserID,
			"id":         musician.ID,
			"fullName":   musician.FullName,
			"email":      musician.Email,
			"role":       musician.Role,
			"genres":     musician.Genres,
			"experience": musician.Experience,
		},
	})
}

func (h *MusicianAuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Email and password are required.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var musician models.Musician
	if err := h.db.Where("email = ?", email).First(&musician).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "invalid_credentials", "Invalid credentials")
			return
		}
		httperr.Internal(c, "internal_error", "Server error")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(musician.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "Invalid credentials")
		return
	}

	token, err := auth.Issue(musician.ID, auth.RoleMusician, h.config.JWTSecret, auth.SessionTokenTTL)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Server error")
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorRole: auth.RoleMusician,
		ActorID:   &musician.ID,
		Action:    audit.ActionLoggedIn,
		Entity:    "musician",
		EntityID:  &musician.ID,
	})

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"musician": gin.H{
			"id":       musician.ID,
			"userId":   musician.UserID,
			"fullName": musician.FullName,
			"email":    musician.Email,
			"role":     musician.Role,
		},
	})
}
