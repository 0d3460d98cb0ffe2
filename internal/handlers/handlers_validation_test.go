package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The handlers below are constructed without a database: every case in this
// file must be rejected before the first query runs.

func postJSON(t *testing.T, handler gin.HandlerFunc, body any) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.POST("/t", handler)

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/t", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

// --------- User registration ---------

func TestRegister_PasswordMismatch(t *testing.T) {
	h := NewAuthHandler(nil, nil, nil)

	rr := postJSON(t, h.Register, gin.H{
		"fullName":        "Asha Perera",
		"email":           "asha@example.com",
		"password":        "supersecret",
		"confirmPassword": "different1",
	})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Passwords do not match", body["message"])
}

func TestRegister_MissingFields(t *testing.T) {
	h := NewAuthHandler(nil, nil, nil)

	rr := postJSON(t, h.Register, gin.H{"email": "asha@example.com"})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "invalid_request", decodeBody(t, rr)["code"])
}

func TestRegister_ShortPassword(t *testing.T) {
	h := NewAuthHandler(nil, nil, nil)

	rr := postJSON(t, h.Register, gin.H{
		"fullName":        "Asha Perera",
		"email":           "asha@example.com",
		"password":        "short",
		"confirmPassword": "short",
	})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

// --------- Musician registration ---------

func musicianBody() gin.H {
	return gin.H{
		"fullName":        "Nimal Silva",
		"email":           "nimal@example.com",
		"password":        "supersecret",
		"confirmPassword": "supersecret",
		"phoneNumber":     "+94771234567",
		"country":         "Sri Lanka",
		"role":            "Lyricist",
		"experience":      "3-5 years",
		"termsAgreed":     true,
	}
}

func TestMusicianRegister_PasswordMismatch(t *testing.T) {
	h := NewMusicianAuthHandler(nil, nil, nil)

	body := musicianBody()
	body["confirmPassword"] = "different1"
	rr := postJSON(t, h.Register, body)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Passwords do not match", decodeBody(t, rr)["message"])
}

func TestMusicianRegister_UnknownRole(t *testing.T) {
	h := NewMusicianAuthHandler(nil, nil, nil)

	body := musicianBody()
	body["role"] = "DJ"
	rr := postJSON(t, h.Register, body)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "invalid_role", decodeBody(t, rr)["code"])
}

func TestMusicianRegister_ProducerNeedsTwoGenres(t *testing.T) {
	h := NewMusicianAuthHandler(nil, nil, nil)

	body := musicianBody()
	body["role"] = "Music Producer"
	body["genres"] = []string{"House"}
	rr := postJSON(t, h.Register, body)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Music Producers must select at least 2 genres", decodeBody(t, rr)["message"])
}

func TestMusicianRegister_InvalidExperience(t *testing.T) {
	h := NewMusicianAuthHandler(nil, nil, nil)

	body := musicianBody()
	body["experience"] = "a decade"
	rr := postJSON(t, h.Register, body)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "invalid_experience", decodeBody(t, rr)["code"])
}

func TestMusicianRegister_InvalidEmailDomain(t *testing.T) {
	h := NewMusicianAuthHandler(nil, nil, nil)

	body := musicianBody()
	// .invalid is reserved and never resolves
	body["email"] = "nimal@nxdomain.invalid"
	rr := postJSON(t, h.Register, body)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "invalid_email_domain", decodeBody(t, rr)["code"])
}

func TestMusicianRegister_TermsNotAgreed(t *testing.T) {
	h := NewMusicianAuthHandler(nil, nil, nil)

	body := musicianBody()
	body["termsAgreed"] = false
	rr := postJSON(t, h.Register, body)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "terms_not_agreed", decodeBody(t, rr)["code"])
}

// --------- Studio registration ---------

func studioBody() gin.H {
	return gin.H{
		"studioName":      "Echo Chamber",
		"email":           "echo@example.com",
		"password":        "supersecret",
		"confirmPassword": "supersecret",
		"phoneNumber":     "+94112223344",
		"country":         "Sri Lanka",
		"address":         "12 Galle Rd",
		"city":            "Colombo",
		"postalCode":      "00300",
		"hourlyRate":      45.0,
		"termsAgreed":     true,
	}
}

func TestStudioRegister_PasswordMismatch(t *testing.T) {
	h := NewStudioHandler(nil, nil, nil)

	body := studioBody()
	body["confirmPassword"] = "different1"
	rr := postJSON(t, h.Register, body)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Passwords do not match", decodeBody(t, rr)["message"])
}

func TestStudioRegister_TermsNotAgreed(t *testing.T) {
	h := NewStudioHandler(nil, nil, nil)

	body := studioBody()
	body["termsAgreed"] = false
	rr := postJSON(t, h.Register, body)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "terms_not_agreed", decodeBody(t, rr)["code"])
}

func TestStudioRegister_InvalidEmailDomain(t *testing.T) {
	h := NewStudioHandler(nil, nil, nil)

	body := studioBody()
	body["email"] = "echo@nxdomain.invalid"
	rr := postJSON(t, h.Register, body)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "invalid_email_domain", decodeBody(t, rr)["code"])
}

func TestStudioRegister_MissingFields(t *testing.T) {
	h := NewStudioHandler(nil, nil, nil)

	rr := postJSON(t, h.Register, gin.H{"studioName": "Echo Chamber"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

// --------- Route id parsing ---------

func getPath(r *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestStudioGetByID_MalformedID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewStudioHandler(nil, nil, nil)

	r := gin.New()
	r.GET("/studio/:id", h.GetByID)
	r.GET("/studio/:id/availability", h.GetAvailability)

	rr := getPath(r, "/studio/not-a-number")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Studio not found", decodeBody(t, rr)["message"])

	rr = getPath(r, "/studio/not-a-number/availability")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestStudioGetImages_MalformedID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewStudioMediaHandler(nil, nil, nil)

	r := gin.New()
	r.GET("/studio/:id/images", h.GetImages)

	rr := getPath(r, "/studio/abc/images")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestMusicianGetProducer_MalformedID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewMusicianProfileHandler(nil, nil, nil)

	r := gin.New()
	r.GET("/producers/:id", h.GetProducerByID)

	rr := getPath(r, "/producers/abc")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Musician not found", decodeBody(t, rr)["message"])
}

// --------- Bulk image upload ---------

func TestStudioUploadImages_TooFewFiles(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewStudioMediaHandler(nil, nil, nil)

	r := gin.New()
	r.POST("/upload-images", h.UploadImages)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for i := 0; i < 5; i++ {
		part, err := mw.CreateFormFile("studioImages", "img.jpg")
		require.NoError(t, err)
		_, err = part.Write([]byte("fake image bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload-images", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "At least 6 studio images are required", body["message"])
}

// --------- Booking ---------

func TestBook_InvalidDate(t *testing.T) {
	h := NewBookingHandler(nil, nil, nil)

	rr := postJSON(t, h.Book, gin.H{
		"studioId":  1,
		"date":      "10/01/2026",
		"startTime": "09:00",
		"endTime":   "11:00",
		"name":      "Asha Perera",
		"email":     "asha@example.com",
	})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "invalid_date", decodeBody(t, rr)["code"])
}

func TestBook_MissingFields(t *testing.T) {
	h := NewBookingHandler(nil, nil, nil)

	rr := postJSON(t, h.Book, gin.H{"studioId": 1})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
