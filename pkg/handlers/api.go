package handlers

import (
	"crypto/subtle"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"secretlocale/pkg/services"
)

// API serves the listing, tag, and city endpoints plus the rebuild trigger.
type API struct {
	Index      *services.Index
	Sitemap    *services.Sitemap
	CronSecret string
}

func intQuery(c *gin.Context, key string, fallback int) int {
	if v := c.Query(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

// ListPosts handles GET /api/blog-posts with cursor pagination and optional
// tag/category filters.
func (h *API) ListPosts(c *gin.Context) {
	cursor := c.Query("cursor")
	tag := c.Query("tag")
	category := c.Query("category")
	limit := intQuery(c, "limit", 0)

	posts, nextCursor := h.Index.List(cursor, limit, tag, category)

	resp := gin.H{
		"posts":      posts,
		"totalPages": h.Index.TotalPages(tag, category),
	}
	if nextCursor != "" {
		resp["nextCursor"] = nextCursor
	} else {
		resp["nextCursor"] = nil
	}
	c.JSON(http.StatusOK, resp)
}

// TopTags handles GET /api/tags.
func (h *API) TopTags(c *gin.Context) {
	c.JSON(http.StatusOK, h.Index.TopTags(intQuery(c, "limit", 10)))
}

// Cities handles GET /api/cities.
func (h *API) Cities(c *gin.Context) {
	c.JSON(http.StatusOK, h.Index.CitiesWithArticles(intQuery(c, "limit", 6)))
}

// GenerateCache handles POST /api/cron/generate-cache: rebuild the index and
// regenerate the sitemap. Guarded by the shared cron secret when configured.
// A failed rebuild leaves the previous snapshot serving.
func (h *API) GenerateCache(c *gin.Context) {
	if h.CronSecret != "" {
		auth := c.GetHeader("Authorization")
		expected := "Bearer " + h.CronSecret
		if subtle.ConstantTimeCompare([]byte(auth), []byte(expected)) != 1 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
	}

	count, err := h.Index.Rebuild()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cache generation failed"})
		return
	}

	if err := h.Sitemap.Write(h.Index.Posts()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Sitemap generation failed", "posts": count})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "posts": count})
}
