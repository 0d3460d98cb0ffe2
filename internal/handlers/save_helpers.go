package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/NKDMMadhusankha/HarmoniX-sub001/internal/httperr"
	"github.com/NKDMMadhusankha/HarmoniX-sub001/internal/models"
)

// saveStudio persists every studio field with a compare-and-swap on the
// version column. The version is bumped in place; when a concurrent writer
// got there first the update matches no row and the stale write is rejected.
func saveStudio(db *gorm.DB, studio *models.Studio) error {
	expected := studio.Version
	studio.Version = expected + 1

	res := db.Model(&models.Studio{}).
		Where("id = ? AND version = ?", studio.ID, expected).
		Select("*").
		Omit("id", "created_at").
		Updates(studio)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrBusiness("version_conflict")
	}
	return nil
}

func saveMusician(db *gorm.DB, musician *models.Musician) error {
	expected := musician.Version
	musician.Version = expected + 1

	res := db.Model(&models.Musician{}).
		Where("id = ? AND version = ?", musician.ID, expected).
		Select("*").
		Omit("id", "created_at").
		Updates(musician)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrBusiness("version_conflict")
	}
	return nil
}

func writeStudioSaveError(c *gin.Context, err error) {
	switch {
	case httperr.IsBusiness(err, "version_conflict"):
		httperr.Conflict(c, "version_conflict", "Profile was changed by another session. Reload and try again.")
	case httperr.IsUniqueViolation(err):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Studio already exists"})
	default:
		httperr.Internal(c, "failed_to_update_studio", "Server error")
	}
}

func writeMusicianSaveError(c *gin.Context, err error) {
	switch {
	case httperr.IsBusiness(err, "version_conflict"):
		httperr.Conflict(c, "version_conflict", "Profile was changed by another session. Reload and try again.")
	default:
		httperr.Internal(c, "failed_to_update_profile", "Server error")
	}
}

// routeID parses a numeric :id route parameter. Malformed ids read as not
// found rather than surfacing a database cast error.
func routeID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return id, err == nil
}
