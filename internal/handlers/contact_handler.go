package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/NKDMMadhusankha/HarmoniX-sub001/internal/httperr"
	"github.com/NKDMMadhusankha/HarmoniX-sub001/internal/mailer"
	"github.com/NKDMMadhusankha/HarmoniX-sub001/internal/models"
)

type ContactHandler struct {
	db     *gorm.DB
	mailer *mailer.Mailer
}

func NewContactHandler(db *gorm.DB, m *mailer.Mailer) *ContactHandler {
	return &ContactHandler{db: db, mailer: m}
}

type SiteContactRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Message   string `json:"message" binding:"required"`
}

func (h *ContactHandler) SiteContact(c *gin.Context) {
	var req SiteContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "All fields are required.")
		return
	}

	if err := h.mailer.SendSiteContact(req.FirstName, req.LastName, req.Email, req.Message); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to send message."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Message sent successfully!"})
}

type MusicianContactRequest struct {
	MusicianID uint   `json:"musicianId" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Message    string `json:"message" binding:"required"`
}

// MusicianContact relays a message to a musician's own inbox. Only roles
// without a booking flow (Lyricist, Mixing Engineer) are reachable here.
func (h *ContactHandler) MusicianContact(c *gin.Context) {
	var req MusicianContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "All fields are required."})
		return
	}

	var musician models.Musician
	if err := h.db.First(&musician, req.MusicianID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Musician not found."})
			return
		}
		httperr.Internal(c, "internal_error", "Server error")
		return
	}

	if musician.Role != models.RoleLyricist && musician.Role != models.RoleMixingEngineer {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Musician not found."})
		return
	}

	if err := h.mailer.SendMusicianContact(musician.Email, req.Name, req.Email, req.Message); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to send message."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Message sent successfully!"})
}
