package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NKDMMadhusankha/HarmoniX-sub001/internal/config"
)

type fakeQueryCache struct {
	data map[string][]byte
}

func newFakeQueryCache() *fakeQueryCache {
	return &fakeQueryCache{data: make(map[string][]byte)}
}

func (f *fakeQueryCache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	raw, ok := f.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (f *fakeQueryCache) SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error {
	raw, err := json.Marshal(val)
	if err != nil {
		return err
	}
	f.data[key] = raw
	return nil
}

func recommendRouter(h *RecommendHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/recommend", h.SearchProducers)
	return r
}

func postRecommend(r *gin.Engine, query string) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(gin.H{"query": query})
	req := httptest.NewRequest(http.MethodPost, "/recommend", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestSearchProducers_ServesCachedWithoutRequery(t *testing.T) {
	hits := 0
	responseBody := `{"producers":[{"id":1,"name":"Nimal Silva"}]}`
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(responseBody))
	}))
	defer upstream.Close()

	cfg := &config.Config{RecommendAPIURL: upstream.URL}
	h := NewRecommendHandler(cfg, newFakeQueryCache())
	r := recommendRouter(h)

	first := postRecommend(r, "Lo-Fi Beats")
	require.Equal(t, http.StatusOK, first.Code)
	assert.JSONEq(t, responseBody, first.Body.String())
	assert.Equal(t, 1, hits)

	second := postRecommend(r, "Lo-Fi Beats")
	require.Equal(t, http.StatusOK, second.Code)
	assert.JSONEq(t, responseBody, second.Body.String())
	assert.Equal(t, 1, hits)
}

func TestSearchProducers_CacheKeyNormalizesQuery(t *testing.T) {
	hits := 0
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		_, _ = w.Write([]byte(`{"producers":[]}`))
	}))
	defer upstream.Close()

	cfg := &config.Config{RecommendAPIURL: upstream.URL}
	h := NewRecommendHandler(cfg, newFakeQueryCache())
	r := recommendRouter(h)

	require.Equal(t, http.StatusOK, postRecommend(r, "Lo-Fi Beats").Code)
	require.Equal(t, http.StatusOK, postRecommend(r, "  lo-fi beats ").Code)
	assert.Equal(t, 1, hits)
}

func TestSearchProducers_Unconfigured(t *testing.T) {
	h := NewRecommendHandler(&config.Config{}, newFakeQueryCache())
	rr := postRecommend(recommendRouter(h), "anything")

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "recommendation_unavailable", decodeBody(t, rr)["code"])
}

func TestSearchProducers_MissingQuery(t *testing.T) {
	h := NewRecommendHandler(&config.Config{}, newFakeQueryCache())
	rr := postRecommend(recommendRouter(h), "")

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
