package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"secretlocale/pkg/models"
	"secretlocale/pkg/services"
)

// Content serves article and listing views resolved from arbitrary URL paths.
type Content struct {
	Resolver *services.Resolver
	Index    *services.Index
	SiteURL  string
}

func splitSegments(path string) []string {
	segments := []string{}
	for _, segment := range strings.Split(path, "/") {
		if segment != "" {
			segments = append(segments, segment)
		}
	}
	return segments
}

// Page is the catch-all content route: it runs the resolution engine on the
// request path and renders an article, folder index, listing, or 404 view.
func (h *Content) Page(c *gin.Context) {
	segments := splitSegments(c.Request.URL.Path)
	res := h.Resolver.Resolve(segments)

	switch res.Kind {
	case models.ResolvedArticle, models.ResolvedFolderIndex:
		c.JSON(http.StatusOK, gin.H{
			"kind":        res.Kind.String(),
			"collection":  res.Collection,
			"post":        res.Post,
			"breadcrumbs": res.Breadcrumbs,
			"backLink":    res.BackLink,
			"url":         h.SiteURL + "/" + strings.Join(res.PathSegments, "/"),
		})
	case models.ResolvedListing:
		// Blog posts carry an empty folder in the snapshot.
		folder := res.Collection
		if folder == services.BlogCollection {
			folder = ""
		}
		posts := []models.PostMeta{}
		for _, post := range h.Index.Posts() {
			if post.Folder == folder {
				posts = append(posts, post)
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"kind":        res.Kind.String(),
			"collection":  res.Collection,
			"breadcrumbs": res.Breadcrumbs,
			"posts":       posts,
		})
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	}
}
