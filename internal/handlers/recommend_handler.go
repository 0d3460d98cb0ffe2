package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/NKDMMadhusankha/HarmoniX-sub001/internal/config"
	"github.com/NKDMMadhusankha/HarmoniX-sub001/internal/httperr"
)

const recommendCacheTTL = 10 * time.Minute

// QueryCache is the slice of the cache client the recommendation proxy needs.
type QueryCache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
}

// RecommendHandler proxies producer searches to the external recommendation
// service. Ranking is entirely the remote service's concern; this side only
// forwards the query and caches the last responses.
type RecommendHandler struct {
	config *config.Config
	cache  QueryCache
	client *http.Client
}

func NewRecommendHandler(cfg *config.Config, cacheClient QueryCache) *RecommendHandler {
	return &RecommendHandler{
		config: cfg,
		cache:  cacheClient,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type RecommendRequest struct {
	Query string `json:"query" binding:"required"`
}

func (h *RecommendHandler) SearchProducers(c *gin.Context) {
	var req RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Query is required.")
		return
	}

	if h.config.RecommendAPIURL == "" {
		httperr.Internal(c, "recommendation_unavailable", "Recommendation service is not configured.")
		return
	}

	cacheKey := "recommend:producers:" + strings.ToLower(strings.TrimSpace(req.Query))

	var cached json.RawMessage
	if hit, err := h.cache.GetJSON(c.Request.Context(), cacheKey, &cached); err == nil && hit {
		c.Data(http.StatusOK, "application/json", cached)
		return
	}

	body, err := json.Marshal(map[string]string{"query": req.Query})
	if err != nil {
		httperr.Internal(c, "internal_error", "Server error")
		return
	}

	upstream, err := http.NewRequestWithContext(
		c.Request.Context(),
		http.MethodPost,
		h.config.RecommendAPIURL,
		bytes.NewReader(body),
	)
	if err != nil {
		httperr.Internal(c, "internal_error", "Server error")
		return
	}
	upstream.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(upstream)
	if err != nil {
		httperr.Internal(c, "recommendation_unavailable", "Recommendation service did not respond.")
		return
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		httperr.Internal(c, "recommendation_unavailable", "Recommendation service returned an unreadable response.")
		return
	}

	if resp.StatusCode != http.StatusOK {
		httperr.Internal(c, "recommendation_unavailable",
			fmt.Sprintf("Recommendation service returned status %d.", resp.StatusCode))
		return
	}

	if err := h.cache.SetJSON(c.Request.Context(), cacheKey, json.RawMessage(payload), recommendCacheTTL); err != nil {
		log.Printf("recommend cache write failed: %v", err)
	}

	c.Data(http.StatusOK, "application/json", payload)
}
