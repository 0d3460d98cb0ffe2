package handlers

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/NKDMMadhusankha/HarmoniX-sub001/internal/audit"
	"github.com/NKDMMadhusankha/HarmoniX-sub001/internal/auth"
	"github.com/NKDMMadhusankha/HarmoniX-sub001/internal/httperr"
	"github.com/NKDMMadhusankha/HarmoniX-sub001/internal/httpresp"
	"github.com/NKDMMadhusankha/HarmoniX-sub001/internal/imaging"
	"github.com/NKDMMadhusankha/HarmoniX-sub001/internal/middleware"
	"github.com/NKDMMadhusankha/HarmoniX-sub001/internal/models"
	"github.com/NKDMMadhusankha/HarmoniX-sub001/internal/storage"
)

type MusicianProfileHandler struct {
	db    *gorm.DB
	store ObjectStore
	audit *audit.Dispatcher
}

func NewMusicianProfileHandler(db *gorm.DB, store ObjectStore, auditor *audit.Dispatcher) *MusicianProfileHandler {
	return &MusicianProfileHandler{db: db, store: store, audit: auditor}
}

func (h *MusicianProfileHandler) current(c *gin.Context) (*models.Musician, bool) {
	id := c.MustGet(middleware.ContextUserID).(uint)

	var musician models.Musician
	if err := h.db.First(&musician, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "musician_not_found", "Musician not found")
			return nil, false
		}
		httperr.Internal(c, "internal_error", "Server error")
		return nil, false
	}
	return &musician, true
}

// ======================================================
// PROFILE
// ======================================================

func (h *MusicianProfileHandler) GetProfile(c *gin.Context) {
	musician, ok := h.current(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "musician": musician})
}

// UpdateProfile accepts multipart form data: plain text fields, nested
// fields as JSON strings, and optional avatar/cover/gallery/track files, all
// persisted in one save. The optional version field rejects stale drafts.
func (h *MusicianProfileHandler) UpdateProfile(c *gin.Context) {
	musician, ok := h.current(c)
	if !ok {
		return
	}

	if v := c.PostForm("version"); v != "" {
		version, err := strconv.ParseUint(v, 10, 32)
		if err != nil || uint(version) != musician.Version {
			httperr.Conflict(c, "version_conflict", "Profile was changed by another session. Reload and try again.")
			return
		}
	}

	if v := c.PostForm("name"); v != "" {
		musician.FullName = v
	}
	if v := c.PostForm("country"); v != "" {
		musician.Country = v
	}
	if v := c.PostForm("about"); v != "" {
		musician.About = v
	}

	if !parseJSONField(c, "tags", &musician.Tags) ||
		!parseJSONField(c, "links", &musician.Links) ||
		!parseJSONField(c, "genres", &musician.Genres) ||
		!parseJSONField(c, "skills", &musician.Skills) ||
		!parseJSONField(c, "tools", &musician.Tools) ||
		!parseJSONField(c, "tracks", &musician.FeaturedTracks) {
		return
	}

	if musician.Role == models.RoleMusicProducer && len(musician.Genres) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Music Producers must select at least 2 genres",
		})
		return
	}

	form, _ := c.MultipartForm()
	if form != nil {
		if files := form.File["avatar"]; len(files) > 0 {
			ref, ok := h.uploadImage(c, musician, files[0], "profile/avatar", maxAvatarSize, true)
			if !ok {
				return
			}
			musician.ProfileImage = ref
		}
		if files := form.File["coverImage"]; len(files) > 0 {
			ref, ok := h.uploadImage(c, musician, files[0], "profile/cover", maxAvatarSize, true)
			if !ok {
				return
			}
			musician.CoverImage = ref
		}
		if files := form.File["gallery"]; len(files) > 0 {
			for _, fh := range files {
				ref, ok := h.uploadImage(c, musician, fh, "gallery", maxStudioImageSize, false)
				if !ok {
					return
				}
				musician.GalleryImages = append(musician.GalleryImages, ref)
			}
		}
	}

	if err := saveMusician(h.db, musician); err != nil {
		writeMusicianSaveError(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorRole: auth.RoleMusician,
		ActorID:   &musician.ID,
		Action:    audit.ActionProfileUpdated,
		Entity:    "musician",
		EntityID:  &musician.ID,
	})

	c.JSON(http.StatusOK, gin.H{"success": true, "musician": musician})
}

func parseJSONField[T any](c *gin.Context, field string, dest *T) bool {
	raw := c.PostForm(field)
	if raw == "" {
		return true
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		httperr.BadRequest(c, "invalid_"+field, "Field "+field+" must be valid JSON.")
		return false
	}
	return true
}

func (h *MusicianProfileHandler) uploadImage(
	c *gin.Context,
	musician *models.Musician,
	fh *multipart.FileHeader,
	folder string,
	maxSize int64,
	withThumb bool,
) (models.MediaRef, bool) {

	data, contentType, err := readFormFile(fh, maxSize, imageMIMEs)
	if err != nil {
		writeUploadError(c, err)
		return models.MediaRef{}, false
	}

	if _, _, _, err := imaging.Sniff(data); err != nil {
		httperr.BadRequest(c, "invalid_image", "The uploaded file is not a valid image.")
		return models.MediaRef{}, false
	}

	key := storage.MusicianMediaKey(musician.UserID, folder, fh.Filename)
	obj, err := h.store.Upload(c.Request.Context(), key, data, contentType)
	if err != nil {
		httperr.Internal(c, "upload_failed", "Failed to store the uploaded file.")
		return models.MediaRef{}, false
	}

	ref := models.MediaRef{Key: obj.Key, URL: obj.URL}

	if withThumb {
		if thumb, err := imaging.Thumbnail(data, thumbnailEdge); err == nil {
			thumbObj, err := h.store.Upload(c.Request.Context(), key+"_thumb.webp", thumb, "image/webp")
			if err == nil {
				ref.ThumbKey = thumbObj.Key
				ref.ThumbURL = thumbObj.URL
			}
		}
	}

	return ref, true
}

// ======================================================
// MEDIA
// ======================================================

func (h *MusicianProfileHandler) UploadProfileImage(c *gin.Context) {
	h.uploadSingleImage(c, "image", "profile/avatar", maxAvatarSize, func(m *models.Musician, ref models.MediaRef) {
		m.ProfileImage = ref
	})
}

func (h *MusicianProfileHandler) UploadCoverImage(c *gin.Context) {
	h.uploadSingleImage(c, "cover", "profile/cover", maxAvatarSize, func(m *models.Musician, ref models.MediaRef) {
		m.CoverImage = ref
	})
}

func (h *MusicianProfileHandler) uploadSingleImage(
	c *gin.Context,
	field string,
	folder string,
	maxSize int64,
	apply func(*models.Musician, models.MediaRef),
) {
	musician, ok := h.current(c)
	if !ok {
		return
	}

	fh, err := c.FormFile(field)
	if err != nil {
		httperr.BadRequest(c, "missing_file", "No file uploaded.")
		return
	}

	ref, ok := h.uploadImage(c, musician, fh, folder, maxSize, true)
	if !ok {
		return
	}

	apply(musician, ref)
	if err := saveMusician(h.db, musician); err != nil {
		writeMusicianSaveError(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorRole: auth.RoleMusician,
		ActorID:   &musician.ID,
		Action:    audit.ActionImageUploaded,
		Entity:    "musician",
		EntityID:  &musician.ID,
		Metadata:  map[string]any{"key": ref.Key},
	})

	c.JSON(http.StatusOK, gin.H{"success": true, "image": ref})
}

func (h *MusicianProfileHandler) UploadGalleryImages(c *gin.Context) {
	musician, ok := h.current(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil || len(form.File["gallery"]) == 0 {
		httperr.BadRequest(c, "missing_files", "No gallery images uploaded.")
		return
	}

	var added []models.MediaRef
	for _, fh := range form.File["gallery"] {
		ref, ok := h.uploadImage(c, musician, fh, "gallery", maxStudioImageSize, false)
		if !ok {
			return
		}
		added = append(added, ref)
	}

	musician.GalleryImages = append(musician.GalleryImages, added...)
	if err := saveMusician(h.db, musician); err != nil {
		writeMusicianSaveError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "images": added, "galleryImages": musician.GalleryImages})
}

// UploadTracks stores audio files; per-track metadata arrives as a JSON
// array in the tracks form field, matched to files by index.
func (h *MusicianProfileHandler) UploadTracks(c *gin.Context) {
	musician, ok := h.current(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil || len(form.File["track"]) == 0 {
		httperr.BadRequest(c, "missing_files", "No audio files uploaded.")
		return
	}

	var meta []models.Track
	if !parseJSONField(c, "tracks", &meta) {
		return
	}

	var added []models.Track
	for i, fh := range form.File["track"] {
		data, contentType, err := readFormFile(fh, maxMediaSize, audioMIMEs)
		if err != nil {
			writeUploadError(c, err)
			return
		}

		key := storage.MusicianMediaKey(musician.UserID, "tracks", fh.Filename)
		obj, err := h.store.Upload(c.Request.Context(), key, data, contentType)
		if err != nil {
			httperr.Internal(c, "upload_failed", "Failed to store the uploaded file.")
			return
		}

		track := models.Track{
			Title:      fh.Filename,
			AudioURL:   obj.URL,
			Key:        obj.Key,
			UploadDate: time.Now().UTC().Format(time.RFC3339),
		}
		if i < len(meta) {
			if meta[i].Title != "" {
				track.Title = meta[i].Title
			}
			track.Duration = meta[i].Duration
		}
		added = append(added, track)
	}

	musician.FeaturedTracks = append(musician.FeaturedTracks, added...)
	if err := saveMusician(h.db, musician); err != nil {
		writeMusicianSaveError(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorRole: auth.RoleMusician,
		ActorID:   &musician.ID,
		Action:    audit.ActionTrackUploaded,
		Entity:    "musician",
		EntityID:  &musician.ID,
		Metadata:  map[string]any{"count": len(added)},
	})

	c.JSON(http.StatusOK, gin.H{"success": true, "tracks": musician.FeaturedTracks})
}

func (h *MusicianProfileHandler) DeleteGalleryImage(c *gin.Context) {
	musician, ok := h.current(c)
	if !ok {
		return
	}

	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" {
		httperr.BadRequest(c, "missing_key", "Image key is required.")
		return
	}

	idx := -1
	for i, ref := range musician.GalleryImages {
		if ref.Key == key {
			idx = i
			break
		}
	}
	if idx < 0 {
		httperr.NotFound(c, "image_not_found", "Gallery image not found")
		return
	}

	if err := h.store.Delete(c.Request.Context(), key); err != nil {
		httperr.Internal(c, "delete_failed", "Failed to delete the image.")
		return
	}

	musician.GalleryImages = append(musician.GalleryImages[:idx], musician.GalleryImages[idx+1:]...)
	if err := saveMusician(h.db, musician); err != nil {
		writeMusicianSaveError(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorRole: auth.RoleMusician,
		ActorID:   &musician.ID,
		Action:    audit.ActionImageDeleted,
		Entity:    "musician",
		EntityID:  &musician.ID,
		Metadata:  map[string]any{"key": key},
	})

	c.JSON(http.StatusOK, gin.H{"success": true, "galleryImages": musician.GalleryImages})
}

func (h *MusicianProfileHandler) DeleteTrack(c *gin.Context) {
	musician, ok := h.current(c)
	if !ok {
		return
	}

	idx, err := strconv.Atoi(c.Param("index"))
	if err != nil || idx < 0 || idx >= len(musician.FeaturedTracks) {
		httperr.NotFound(c, "track_not_found", "Track not found")
		return
	}

	track := musician.FeaturedTracks[idx]
	if track.Key != "" {
		if err := h.store.Delete(c.Request.Context(), track.Key); err != nil {
			httperr.Internal(c, "delete_failed", "Failed to delete the track.")
			return
		}
	}

	musician.FeaturedTracks = append(musician.FeaturedTracks[:idx], musician.FeaturedTracks[idx+1:]...)
	if err := saveMusician(h.db, musician); err != nil {
		writeMusicianSaveError(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorRole: auth.RoleMusician,
		ActorID:   &musician.ID,
		Action:    audit.ActionTrackDeleted,
		Entity:    "musician",
		EntityID:  &musician.ID,
	})

	c.JSON(http.StatusOK, gin.H{"success": true, "tracks": musician.FeaturedTracks})
}

// ======================================================
// PUBLIC LISTINGS
// ======================================================

func (h *MusicianProfileHandler) ListProducers(c *gin.Context) {
	h.listByRole(c, models.RoleMusicProducer)
}

func (h *MusicianProfileHandler) ListMixingEngineers(c *gin.Context) {
	h.listByRole(c, models.RoleMixingEngineer)
}

func (h *MusicianProfileHandler) listByRole(c *gin.Context, role string) {
	var musicians []models.Musician
	if err := h.db.Where("role = ?", role).Order("created_at DESC").Find(&musicians).Error; err != nil {
		httperr.Internal(c, "internal_error", "Server error")
		return
	}
	httpresp.List(c, musicians)
}

func (h *MusicianProfileHandler) GetProducerByID(c *gin.Context) {
	h.getByRole(c, models.RoleMusicProducer)
}

func (h *MusicianProfileHandler) GetMixingEngineerByID(c *gin.Context) {
	h.getByRole(c, models.RoleMixingEngineer)
}

func (h *MusicianProfileHandler) getByRole(c *gin.Context, role string) {
	id, ok := routeID(c)
	if !ok {
		httperr.NotFound(c, "musician_not_found", "Musician not found")
		return
	}

	var musician models.Musician
	if err := h.db.Where("id = ? AND role = ?", id, role).First(&musician).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "musician_not_found", "Musician not found")
			return
		}
		httperr.Internal(c, "internal_error", "Server error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "musician": musician})
}

func writeUploadError(c *gin.Context, err error) {
	switch {
	case httperr.IsBusiness(err, "file_too_large"):
		httperr.BadRequest(c, "file_too_large", "The uploaded file exceeds the size limit.")
	case httperr.IsBusiness(err, "unsupported_file_type"):
		httperr.BadRequest(c, "unsupported_file_type", "The uploaded file type is not allowed.")
	default:
		httperr.Internal(c, "upload_failed", "Failed to read the uploaded file.")
	}
}
