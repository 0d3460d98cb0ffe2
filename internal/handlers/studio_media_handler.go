package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/NKDMMadhusankha/HarmoniX-sub001/internal/audit"
	"github.com/NKDMMadhusankha/HarmoniX-sub001/internal/auth"
	"github.com/NKDMMadhusankha/HarmoniX-sub001/internal/httperr"
	"github.com/NKDMMadhusankha/HarmoniX-sub001/internal/imaging"
	"github.com/NKDMMadhusankha/HarmoniX-sub001/internal/middleware"
	"github.com/NKDMMadhusankha/HarmoniX-sub001/internal/models"
	"github.com/NKDMMadhusankha/HarmoniX-sub001/internal/storage"
)

const minBulkImages = 6

const signedURLExpiry = time.Hour

type StudioMediaHandler struct {
	db    *gorm.DB
	store ObjectStore
	audit *audit.Dispatcher
}

func NewStudioMediaHandler(db *gorm.DB, store ObjectStore, auditor *audit.Dispatcher) *StudioMediaHandler {
	return &StudioMediaHandler{db: db, store: store, audit: auditor}
}

func (h *StudioMediaHandler) current(c *gin.Context) (*models.Studio, bool) {
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

// UploadImage stores a single studio image plus its webp thumbnail.
func (h *StudioMediaHandler) UploadImage(c *gin.Context) {
	studio, ok := h.current(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("image")
	if err != nil {
		httperr.BadRequest(c, "missing_file", "No file uploaded.")
		return
	}

	data, contentType, err := readFormFile(fh, maxStudioImageSize, imageMIMEs)
	if err != nil {
		writeUploadError(c, err)
		return
	}

	if _, _, _, err := imaging.Sniff(data); err != nil {
		httperr.BadRequest(c, "invalid_image", "The uploaded file is not a valid image.")
		return
	}

	key := storage.StudioImageKey(studio.ID, fh.Filename)
	obj, err := h.store.Upload(c.Request.Context(), key, data, contentType)
	if err != nil {
		httperr.Internal(c, "upload_failed", "Failed to store the uploaded file.")
		return
	}

	ref := models.MediaRef{Key: obj.Key, URL: obj.URL}
	if thumb, err := imaging.Thumbnail(data, thumbnailEdge); err == nil {
		if thumbObj, err := h.store.Upload(c.Request.Context(), key+"_thumb.webp", thumb, "image/webp"); err == nil {
			ref.ThumbKey = thumbObj.Key
			ref.ThumbURL = thumbObj.URL
		}
	}

	studio.StudioImages = append(studio.StudioImages, ref)
	if err := saveStudio(h.db, studio); err != nil {
		writeStudioSaveError(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorRole: auth.RoleStudio,
		ActorID:   &studio.ID,
		Action:    audit.ActionImageUploaded,
		Entity:    "studio",
		EntityID:  &studio.ID,
		Metadata:  map[string]any{"key": ref.Key},
	})

	c.JSON(http.StatusOK, gin.H{"success": true, "image": ref})
}

// UploadImages handles the bulk onboarding upload: at least six images in
// the studioImages field. All files are validated before any byte reaches
// the bucket, and the batch either fully succeeds or leaves nothing stored.
func (h *StudioMediaHandler) UploadImages(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "Multipart form data expected.")
		return
	}

	files := form.File["studioImages"]
	if len(files) < minBulkImages {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "At least 6 studio images are required",
		})
		return
	}

	studio, ok := h.current(c)
	if !ok {
		return
	}

	items := make([]storage.BatchItem, 0, len(files))
	for _, fh := range files {
		data, contentType, err := readFormFile(fh, maxStudioImageSize, imageMIMEs)
		if err != nil {
			writeUploadError(c, err)
			return
		}
		if _, _, _, err := imaging.Sniff(data); err != nil {
			httperr.BadRequest(c, "invalid_image", "One of the uploaded files is not a valid image.")
			return
		}
		items = append(items, storage.BatchItem{
			Key:         storage.StudioImageKey(studio.ID, fh.Filename),
			Body:        data,
			ContentType: contentType,
		})
	}

	objects, err := h.store.UploadBatch(c.Request.Context(), items)
	if err != nil {
		httperr.Internal(c, "upload_failed", "Failed to store the uploaded images.")
		return
	}

	refs := make([]models.MediaRef, 0, len(objects))
	for _, obj := range objects {
		refs = append(refs, models.MediaRef{Key: obj.Key, URL: obj.URL})
	}

	studio.StudioImages = append(studio.StudioImages, refs...)
	studio.HasUploadedImages = true
	if err := saveStudio(h.db, studio); err != nil {
		writeStudioSaveError(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorRole: auth.RoleStudio,
		ActorID:   &studio.ID,
		Action:    audit.ActionImageUploaded,
		Entity:    "studio",
		EntityID:  &studio.ID,
		Metadata:  map[string]any{"count": len(refs)},
	})

	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"images":            refs,
		"hasUploadedImages": studio.HasUploadedImages,
	})
}

type UpdateImagesRequest struct {
	Keys []string `json:"keys" binding:"required"`
}

// UpdateImages reorders the stored image list. Every key must already
// belong to the studio; this endpoint never uploads or deletes objects.
func (h *StudioMediaHandler) UpdateImages(c *gin.Context) {
	studio, ok := h.current(c)
	if !ok {
		return
	}

	var req UpdateImagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Image keys are required.")
		return
	}

	byKey := make(map[string]models.MediaRef, len(studio.StudioImages))
	for _, ref := range studio.StudioImages {
		byKey[ref.Key] = ref
	}

	if len(req.Keys) != len(studio.StudioImages) {
		httperr.BadRequest(c, "key_mismatch", "The key list must contain every stored image exactly once.")
		return
	}

	reordered := make([]models.MediaRef, 0, len(req.Keys))
	seen := make(map[string]bool, len(req.Keys))
	for _, key := range req.Keys {
		ref, found := byKey[key]
		if !found || seen[key] {
			httperr.BadRequest(c, "unknown_image_key", "Unknown or duplicate image key: "+key)
			return
		}
		seen[key] = true
		reordered = append(reordered, ref)
	}

	studio.StudioImages = reordered
	if err := saveStudio(h.db, studio); err != nil {
		writeStudioSaveError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "studioImages": studio.StudioImages})
}

func (h *StudioMediaHandler) DeleteImage(c *gin.Context) {
	studio, ok := h.current(c)
	if !ok {
		return
	}

	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" {
		httperr.BadRequest(c, "missing_key", "Image key is required.")
		return
	}

	idx := -1
	for i, ref := range studio.StudioImages {
		if ref.Key == key {
			idx = i
			break
		}
	}
	if idx < 0 {
		httperr.NotFound(c, "image_not_found", "Studio image not found")
		return
	}

	ref := studio.StudioImages[idx]
	if err := h.store.Delete(c.Request.Context(), ref.Key); err != nil {
		httperr.Internal(c, "delete_failed", "Failed to delete the image.")
		return
	}
	if ref.ThumbKey != "" {
		// thumbnail removal is best effort
		_ = h.store.Delete(c.Request.Context(), ref.ThumbKey)
	}

	studio.StudioImages = append(studio.StudioImages[:idx], studio.StudioImages[idx+1:]...)
	if err := saveStudio(h.db, studio); err != nil {
		writeStudioSaveError(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorRole: auth.RoleStudio,
		ActorID:   &studio.ID,
		Action:    audit.ActionImageDeleted,
		Entity:    "studio",
		EntityID:  &studio.ID,
		Metadata:  map[string]any{"key": key},
	})

	c.JSON(http.StatusOK, gin.H{"success": true, "studioImages": studio.StudioImages})
}

// GetImages serves a studio's gallery with time-limited signed URLs so the
// bucket itself can stay private.
func (h *StudioMediaHandler) GetImages(c *gin.Context) {
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

	images := make([]gin.H, 0, len(studio.StudioImages))
	for _, ref := range studio.StudioImages {
		signed, err := h.store.SignedURL(c.Request.Context(), ref.Key, signedURLExpiry)
		if err != nil {
			httperr.Internal(c, "signing_failed", "Failed to generate image URLs.")
			return
		}
		img := gin.H{"key": ref.Key, "url": signed}
		if ref.ThumbKey != "" {
			if thumbSigned, err := h.store.SignedURL(c.Request.Context(), ref.ThumbKey, signedURLExpiry); err == nil {
				img["thumbUrl"] = thumbSigned
			}
		}
		images = append(images, img)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "images": images})
}
