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
	availabilitydom "github.com/NKDMMadhusankha/HarmoniX-sub001/internal/domain/availability"
	"github.com/NKDMMadhusankha/HarmoniX-sub001/internal/httperr"
	"github.com/NKDMMadhusankha/HarmoniX-sub001/internal/httpresp"
	"github.com/NKDMMadhusankha/HarmoniX-sub001/internal/middleware"
	"github.com/NKDMMadhusankha/HarmoniX-sub001/internal/models"
	"github.com/NKDMMadhusankha/HarmoniX-sub001/internal/validators"
)

type StudioHandler struct {
	db     *gorm.DB
	config *config.Config
	audit  *audit.Dispatcher
}

func NewStudioHandler(db *gorm.DB, cfg *config.Config, auditor *audit.Dispatcher) *StudioHandler {
	return &StudioHandler{db: db, config: cfg, audit: auditor}
}

// --------- Requests ---------

type StudioRegisterRequest struct {
	StudioName      string  `json:"studioName" binding:"required"`
	Email           string  `json:"email" binding:"required,email"`
	Password        string  `json:"password" binding:"required,min=8"`
	ConfirmPassword string  `json:"confirmPassword" binding:"required"`
	PhoneNumber     string  `json:"phoneNumber" binding:"required"`
	Country         string  `json:"country" binding:"required"`
	Address         string  `json:"address" binding:"required"`
	City            string  `json:"city" binding:"required"`
	PostalCode      string  `json:"postalCode" binding:"required"`
	HourlyRate      float64 `json:"hourlyRate" binding:"required"`

	StudioDescription string              `json:"studioDescription"`
	Social            models.StudioSocial `json:"socialMedia"`
	Services          []string            `json:"services"`
	Features          []string            `json:"features"`

	TermsAgreed bool `json:"termsAgreed"`
}

type StudioUpdateRequest struct {
	StudioName        *string              `json:"studioName"`
	PhoneNumber       *string              `json:"phoneNumber"`
	Country           *string              `json:"country"`
	Address           *string              `json:"address"`
	City              *string              `json:"city"`
	PostalCode        *string              `json:"postalCode"`
	HourlyRate        *float64             `json:"hourlyRate"`
	StudioDescription *string              `json:"studioDescription"`
	Social            *models.StudioSocial `json:"socialMedia"`
	Services          *[]string            `json:"services"`
	Features          *[]string            `json:"features"`
	BookingSettings   *models.BookingSettings `json:"bookingSettings"`

	Version *uint `json:"version"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// --------- Auth ---------

func (h *StudioHandler) Register(c *gin.Context) {
	var req StudioRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Missing or invalid registration fields.")
		return
	}

	if req.Password != req.ConfirmPassword {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Passwords do not match"})
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
		httperr.Internal(c, "failed_to_hash_password", "Server error during registration")
		return
	}

	studio := models.Studio{
		StudioName:        req.StudioName,
		Email:             email,
		PasswordHash:      string(hashed),
		PhoneNumber:       req.PhoneNumber,
		Country:           req.Country,
		Address:           req.Address,
		City:              req.City,
		PostalCode:        req.PostalCode,
		HourlyRate:        req.HourlyRate,
		StudioDescription: req.StudioDescription,
		Social:            req.Social,
		Services:          req.Services,
		Features:          req.Features,
		TermsAgreed:       req.TermsAgreed,
		BookingSettings: models.BookingSettings{
			HourlyRate: req.HourlyRate,
		},
	}

	if err := h.db.Create(&studio).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Studio already exists"})
			return
		}
		httperr.Internal(c, "failed_to_create_studio", "Server error during registration")
		return
	}

	accessToken, err := auth.Issue(studio.ID, auth.RoleStudio, h.config.JWTSecret, auth.AccessTokenTTL)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Server error during registration")
		return
	}

	refreshToken, err := auth.Issue(studio.ID, auth.RoleStudio, h.config.JWTRefreshSecret, auth.RefreshTokenTTL)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Server error during registration")
		return
	}

	studio.RefreshToken = refreshToken
	if err := h.db.Model(&studio).Update("refresh_token", refreshToken).Error; err != nil {
		httperr.Internal(c, "failed_to_store_refresh_token", "Server error during registration")
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorRole: auth.RoleStudio,
		ActorID:   &studio.ID,
		Action:    audit.ActionRegistered,
		Entity:    "studio",
		EntityID:  &studio.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"success":      true,
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
		"studio": gin.H{
			"id":         studio.ID,
			"studioName": studio.StudioName,
			"email":      studio.Email,
		},
	})
}

func (h *StudioHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Email and password are required.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var studio models.Studio
	if err := h.db.Where("email = ?", email).First(&studio).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "invalid_credentials", "Invalid credentials")
			return
		}
		httperr.Internal(c, "internal_error", "Server error")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(studio.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "Invalid credentials")
		return
	}

	token, err := auth.Issue(studio.ID, auth.RoleStudio, h.config.JWTSecret, auth.AccessTokenTTL)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Server error")
		return
	}

	refreshToken, err := auth.Issue(studio.ID, auth.RoleStudio, h.config.JWTRefreshSecret, auth.RefreshTokenTTL)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Server error")
		return
	}

	if err := h.db.Model(&studio).Update("refresh_token", refreshToken).Error; err != nil {
		httperr.Internal(c, "failed_to_store_refresh_token", "Server error")
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorRole: auth.RoleStudio,
		ActorID:   &studio.ID,
		Action:    audit.ActionLoggedIn,
		Entity:    "studio",
		EntityID:  &studio.ID,
	})

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"token":        token,
		"refreshToken": refreshToken,
		"studio": gin.H{
			"id":         studio.ID,
			"studioName": studio.StudioName,
			"email":      studio.Email,
		},
	})
}

// Refresh exchanges a stored refresh token for a fresh access token. Only
// the studio flow carries refresh tokens.
func (h *StudioHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Refresh token is required.")
		return
	}

	claims, err := auth.Parse(req.RefreshToken, h.config.JWTRefreshSecret)
	if err != nil {
		httperr.Unauthorized(c, "invalid_refresh_token", "Invalid refresh token")
		return
	}

	var studio models.Studio
	if err := h.db.First(&studio, claims.ID).Error; err != nil {
		httperr.Unauthorized(c, "invalid_refresh_token", "Invalid refresh token")
		return
	}

	if studio.RefreshToken != req.RefreshToken {
		httperr.Unauthorized(c, "invalid_refresh_token", "Invalid refresh token")
		return
	}

	token, err := auth.Issue(studio.ID, auth.RoleStudio, h.config.JWTSecret, auth.AccessTokenTTL)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "token": token})
}

// --------- Profile ---------

func (h *StudioHandler) current(c *gin.Context) (*models.Studio, bool) {
	id := c.MustGet(middleware.ContextUserID).(uint)

	var studio models.Studio
	if err := h.db.First(&studio, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "studio_not_found", "Studio not found")
			return nil, false
		}
		httperr.Internal(c, "internal_error", "Server error")
		return nil, false
	}
	return &studio, true
}

func (h *StudioHandler) GetMe(c *gin.Context) {
	studio, ok := h.current(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "studio": studio})
}

func (h *StudioHandler) Update(c *gin.Context) {
	studio, ok := h.current(c)
	if !ok {
		return
	}

	var req StudioUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid update payload.")
		return
	}

	if req.Version != nil && *req.Version != studio.Version {
		httperr.Conflict(c, "version_conflict", "Profile was changed by another session. Reload and try again.")
		return
	}

	if req.StudioName != nil {
		studio.StudioName = *req.StudioName
	}
	if req.PhoneNumber != nil {
		studio.PhoneNumber = *req.PhoneNumber
	}
	if req.Country != nil {
		studio.Country = *req.Country
	}
	if req.Address != nil {
		studio.Address = *req.Address
	}
	if req.City != nil {
		studio.City = *req.City
	}
	if req.PostalCode != nil {
		studio.PostalCode = *req.PostalCode
	}
	if req.HourlyRate != nil {
		if *req.HourlyRate < 0 {
			httperr.BadRequest(c, "invalid_hourly_rate", "Hourly rate must be zero or positive.")
			return
		}
		studio.HourlyRate = *req.HourlyRate
	}
	if req.StudioDescription != nil {
		studio.StudioDescription = *req.StudioDescription
	}
	if req.Social != nil {
		studio.Social = *req.Social
	}
	if req.Services != nil {
		studio.Services = *req.Services
	}
	if req.Features != nil {
		studio.Features = *req.Features
	}
	if req.BookingSettings != nil {
		studio.BookingSettings = *req.BookingSettings
	}

	if err := saveStudio(h.db, studio); err != nil {
		writeStudioSaveError(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorRole: auth.RoleStudio,
		ActorID:   &studio.ID,
		Action:    audit.ActionProfileUpdated,
		Entity:    "studio",
		EntityID:  &studio.ID,
	})

	c.JSON(http.StatusOK, gin.H{"success": true, "studio": studio})
}

type UpdateGearRequest struct {
	StudioGear []models.GearCategory `json:"studioGear" binding:"required"`
}

func (h *StudioHandler) UpdateGear(c *gin.Context) {
	studio, ok := h.current(c)
	if !ok {
		return
	}

	var req UpdateGearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid gear payload.")
		return
	}

	studio.StudioGear = req.StudioGear
	if err := saveStudio(h.db, studio); err != nil {
		writeStudioSaveError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "studioGear": studio.StudioGear})
}

type UpdateAvailabilityRequest struct {
	Availability []models.AvailabilityDay `json:"availability" binding:"required"`
}

// UpdateAvailability upserts day entries: a payload day for an already
// stored date replaces that date's entry.
func (h *StudioHandler) UpdateAvailability(c *gin.Context) {
	studio, ok := h.current(c)
	if !ok {
		return
	}

	var req UpdateAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid availability payload.")
		return
	}

	days := studio.Availability
	for _, day := range req.Availability {
		normalized, err := availabilitydom.Normalize(day)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Availability dates must be ISO format (YYYY-MM-DD).")
			return
		}
		days = availabilitydom.Upsert(days, normalized)
	}

	studio.Availability = days
	if err := saveStudio(h.db, studio); err != nil {
		writeStudioSaveError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "availability": studio.Availability})
}

// --------- Public ---------

func (h *StudioHandler) ListAll(c *gin.Context) {
	var studios []models.Studio
	if err := h.db.Order("created_at DESC").Find(&studios).Error; err != nil {
		httperr.Internal(c, "internal_error", "Server error")
		return
	}
	httpresp.List(c, studios)
}

func (h *StudioHandler) GetByID(c *gin.Context) {
	id, ok := routeID(c)
	if !ok {
		httperr.NotFound(c, "studio_not_found", "Studio not found")
		return
	}

	var studio models.Studio
	if err := h.db.First(&studio, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "studio_not_found", "Studio not found")
			return
		}
		httperr.Internal(c, "internal_error", "Server error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "studio": studio})
}

func (h *StudioHandler) GetAvailability(c *gin.Context) {
	id, ok := routeID(c)
	if !ok {
		httperr.NotFound(c, "studio_not_found", "Studio not found")
		return
	}

	var studio models.Studio
	if err := h.db.First(&studio, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "studio_not_found", "Studio not found")
			return
		}
		httperr.Internal(c, "internal_error", "Server error")
		return
	}

	if date := c.Query("date"); date != "" {
		day, found := availabilitydom.Find(studio.Availability, date)
		if !found {
			day = models.AvailabilityDay{Date: date}
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "availability": day})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "availability": studio.Availability})
}
