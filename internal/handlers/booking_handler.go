package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/NKDMMadhusankha/HarmoniX-sub001/internal/audit"
	availabilitydom "github.com/NKDMMadhusankha/HarmoniX-sub001/internal/domain/availability"
	"github.com/NKDMMadhusankha/HarmoniX-sub001/internal/httperr"
	"github.com/NKDMMadhusankha/HarmoniX-sub001/internal/mailer"
	"github.com/NKDMMadhusankha/HarmoniX-sub001/internal/models"
)

// BookingHandler relays booking requests to the studio's inbox. Nothing is
// persisted; slot bookkeeping stays with the studio's availability entries.
type BookingHandler struct {
	db     *gorm.DB
	mailer *mailer.Mailer
	audit  *audit.Dispatcher
}

func NewBookingHandler(db *gorm.DB, m *mailer.Mailer, auditor *audit.Dispatcher) *BookingHandler {
	return &BookingHandler{db: db, mailer: m, audit: auditor}
}

type BookingRequestBody struct {
	StudioID  uint   `json:"studioId" binding:"required"`
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"startTime" binding:"required"`
	EndTime   string `json:"endTime" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Message   string `json:"message"`
}

func (h *BookingHandler) Book(c *gin.Context) {
	var req BookingRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "All booking fields are required.")
		return
	}

	if !availabilitydom.ValidDate(req.Date) {
		httperr.BadRequest(c, "invalid_date", "Booking date must be ISO format (YYYY-MM-DD).")
		return
	}

	var studio models.Studio
	if err := h.db.First(&studio, req.StudioID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Studio not found"})
			return
		}
		httperr.Internal(c, "internal_error", "Server error")
		return
	}

	if day, found := availabilitydom.Find(studio.Availability, req.Date); found {
		if !availabilitydom.IsSlotOpen(day, req.StartTime) {
			httperr.BadRequest(c, "slot_unavailable", "The requested time slot is not available.")
			return
		}
	}

	err := h.mailer.SendBookingRequest(studio.Email, studio.StudioName, mailer.BookingRequest{
		Name:      req.Name,
		Email:     req.Email,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Message:   req.Message,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to send booking request."})
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorRole: "public",
		Action:    audit.ActionBookingMailed,
		Entity:    "studio",
		EntityID:  &studio.ID,
		Metadata:  map[string]any{"date": req.Date, "start": req.StartTime, "end": req.EndTime},
	})

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Booking request sent to studio."})
}
