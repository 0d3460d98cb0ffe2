package audit

import (
	"encoding/json"

	"gorm.io/gorm"

	"github.com/NKDMMadhusankha/HarmoniX-sub001/internal/models"
)

const (
	ActionRegistered     = "registered"
	ActionLoggedIn       = "logged_in"
	ActionProfileUpdated = "profile_updated"
	ActionImageUploaded  = "image_uploaded"
	ActionImageDeleted   = "image_deleted"
	ActionTrackUploaded  = "track_uploaded"
	ActionTrackDeleted   = "track_deleted"
	ActionBookingMailed  = "booking_requested"
)

type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

func (l *Logger) Log(
	actorRole string,
	actorID *uint,
	action string,
	entity string,
	entityID *uint,
	metadata any,
) error {

	var metaJSON string
	if metadata != nil {
		if b, err := json.Marshal(metadata); err == nil {
			metaJSON = string(b)
		}
	}

	entry := models.AuditLog{
		ActorRole: actorRole,
		ActorID:   actorID,
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Metadata:  metaJSON,
	}

	return l.db.Create(&entry).Error
}
