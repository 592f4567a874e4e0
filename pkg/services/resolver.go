package services

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"secretlocale/pkg/models"
)

// Resolver maps URL path segments to content files. It consults the
// filesystem directly so that a freshly published file is reachable before
// the next index rebuild.
type Resolver struct {
	ContentDir string
	MaxDepth   int
	Now        func() time.Time
}

func NewResolver(contentDir string) *Resolver {
	return &Resolver{
		ContentDir: contentDir,
		MaxDepth:   defaultScanMaxDepth,
		Now:        time.Now,
	}
}

func humanize(segment string) string {
	return strings.ReplaceAll(segment, "-", " ")
}

// segmentsSafe rejects anything that could escape the content root once
// joined into a filesystem path.
func segmentsSafe(segments []string) bool {
	for _, s := range segments {
		if s == "" || s == "." || s == ".." {
			return false
		}
		if strings.ContainsAny(s, `/\`) {
			return false
		}
	}
	return true
}

// Resolve is total: every segment list terminates in exactly one outcome and
// filesystem failures degrade to NotFound rather than propagating.
func (r *Resolver) Resolve(segments []string) models.Resolution {
	n := len(segments)
	if n == 0 || !segmentsSafe(segments) {
		return models.Resolution{Kind: models.ResolvedNotFound}
	}

	if n == 1 {
		return r.resolveSingle(segments[0])
	}

	last := segments[n-1]
	prev := segments[n-2]

	// A trailing duplicate is always a folder index, never an article that
	// happens to share its folder's name.
	if last == prev {
		if post, ok := r.loadPost(segments); ok {
			return r.folderIndexResolution(segments[:n-1], post)
		}
		return models.Resolution{Kind: models.ResolvedNotFound}
	}

	// Exact leaf file below the collection.
	if post, ok := r.loadPost(segments); ok {
		return r.articleResolution(segments, post)
	}

	// A folder named after the last segment holding its own index file.
	nested := append(append([]string{}, segments...), last)
	if post, ok := r.loadPost(nested); ok {
		return r.folderIndexResolution(segments, post)
	}

	return models.Resolution{Kind: models.ResolvedNotFound}
}

// resolveSingle handles one-segment URLs: blog posts first, then content
// folders with or without an index file.
func (r *Resolver) resolveSingle(slug string) models.Resolution {
	// Blog-collection membership wins over a content folder of the same name.
	if post, ok := r.loadBlogPost(slug); ok {
		return models.Resolution{
			Kind:         models.ResolvedArticle,
			Collection:   BlogCollection,
			PathSegments: []string{slug},
			Post:         post,
			Breadcrumbs: []models.Breadcrumb{
				{Name: "Home", Path: "/"},
				{Name: post.Title, Path: "/" + slug},
			},
			BackLink: &models.BackLink{Text: "Back to Home", Path: "/"},
		}
	}

	dir := filepath.Join(r.ContentDir, slug)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return models.Resolution{Kind: models.ResolvedNotFound}
	}

	if post, ok := r.loadPost([]string{slug, slug}); ok {
		return r.folderIndexResolution([]string{slug}, post)
	}

	// No index at this depth: descend looking for the first nested folder
	// that carries its own index file.
	visited := map[string]bool{}
	if chain := r.descend(dir, []string{slug}, visited); chain != nil {
		if post, ok := r.loadPost(append(append([]string{}, chain...), chain[len(chain)-1])); ok {
			return r.folderIndexResolution(chain, post)
		}
	}

	return models.Resolution{
		Kind:         models.ResolvedListing,
		Collection:   slug,
		PathSegments: []string{slug},
		Breadcrumbs: []models.Breadcrumb{
			{Name: "Home", Path: "/"},
			{Name: humanize(slug), Path: "/" + slug},
		},
	}
}

// descend walks the subtree under dir depth-first in directory-listing order
// and returns the segment chain of the first folder containing an index file
// named after itself. Depth and visited real paths bound the walk.
func (r *Resolver) descend(dir string, segments []string, visited map[string]bool) []string {
	if len(segments) > r.MaxDepth {
		slog.Warn("max descent depth exceeded, pruning", "dir", dir)
		return nil
	}
	real, err := filepath.EvalSymlinks(dir)
	if err != nil {
		slog.Warn("skipping unreadable directory during descent", "dir", dir, "error", err)
		return nil
	}
	if visited[real] {
		slog.Warn("directory cycle detected during descent", "dir", dir)
		return nil
	}
	visited[real] = true

	entries, err := os.ReadDir(dir)
	if err != nil {
		slog.Warn("skipping unreadable directory during descent", "dir", dir, "error", err)
		return nil
	}

	for _, entry := range entries {
		if !isDirEntry(dir, entry) {
			continue
		}
		chain := append(append([]string{}, segments...), entry.Name())
		if r.findFile(append(append([]string{}, chain...), entry.Name())) != "" {
			return chain
		}
		if found := r.descend(filepath.Join(dir, entry.Name()), chain, visited); found != nil {
			return found
		}
	}
	return nil
}

// findFile probes for a content file whose directory chain is all but the
// last element of fileSegments. Returns the full path or "".
func (r *Resolver) findFile(fileSegments []string) string {
	n := len(fileSegments)
	base := filepath.Join(append([]string{r.ContentDir}, fileSegments[:n-1]...)...)
	for _, ext := range contentExtensions {
		path := filepath.Join(base, fileSegments[n-1]+ext)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

func (r *Resolver) loadBlogPost(slug string) (*models.Post, bool) {
	path := r.findFile([]string{BlogCollection, slug})
	if path == "" {
		return nil, false
	}
	return r.readPost(path, slug, nil)
}

// loadPost loads the content file addressed by fileSegments, where the last
// element is the slug and everything before it the directory chain.
func (r *Resolver) loadPost(fileSegments []string) (*models.Post, bool) {
	path := r.findFile(fileSegments)
	if path == "" {
		return nil, false
	}
	n := len(fileSegments)
	return r.readPost(path, fileSegments[n-1], fileSegments[:n-1])
}

// readPost parses a content file, applying the same exclusions the index
// applies: malformed front matter and future dates both read as absent.
func (r *Resolver) readPost(path, slug string, dirChain []string) (*models.Post, bool) {
	content, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("content file unreadable, treating as not found", "path", path, "error", err)
		return nil, false
	}

	var folder string
	var subfolders []string
	if len(dirChain) > 0 {
		folder = dirChain[0]
	}
	if len(dirChain) > 1 {
		subfolders = dirChain
	}

	post, err := PostFromContent(content, slug, folder, subfolders)
	if err != nil {
		slog.Warn("content file malformed, treating as not found", "path", path, "error", err)
		return nil, false
	}

	if !post.Date.IsZero() && post.Date.After(r.Now()) {
		slog.Info("future-dated content, treating as not found", "path", path, "date", post.Date)
		return nil, false
	}

	return post, true
}

// articleResolution builds the outcome for a leaf article addressed by its
// full segment chain.
func (r *Resolver) articleResolution(segments []string, post *models.Post) models.Resolution {
	n := len(segments)
	url := "/" + strings.Join(segments, "/")

	crumbs := []models.Breadcrumb{{Name: "Home", Path: "/"}}
	current := ""
	for _, segment := range segments[:n-1] {
		current += "/" + segment
		crumbs = append(crumbs, models.Breadcrumb{Name: humanize(segment), Path: current})
	}
	crumbs = append(crumbs, models.Breadcrumb{Name: post.Title, Path: url})

	var back models.BackLink
	if n > 2 {
		back = models.BackLink{
			Text: "Back to " + humanize(segments[n-2]),
			Path: "/" + strings.Join(segments[:n-1], "/"),
		}
	} else {
		back = models.BackLink{
			Text: "Back to " + humanize(segments[0]),
			Path: "/" + segments[0],
		}
	}

	return models.Resolution{
		Kind:         models.ResolvedArticle,
		Collection:   segments[0],
		PathSegments: segments,
		Post:         post,
		Breadcrumbs:  crumbs,
		BackLink:     &back,
	}
}

// folderIndexResolution builds the outcome for a folder index. canonical is
// the de-duplicated chain; the trailing repeat never appears in the URL or
// the breadcrumbs.
func (r *Resolver) folderIndexResolution(canonical []string, post *models.Post) models.Resolution {
	crumbs := []models.Breadcrumb{{Name: "Home", Path: "/"}}
	current := ""
	for _, segment := range canonical {
		current += "/" + segment
		crumbs = append(crumbs, models.Breadcrumb{Name: humanize(segment), Path: current})
	}

	var back *models.BackLink
	if len(canonical) > 1 {
		back = &models.BackLink{
			Text: "Back to " + humanize(canonical[len(canonical)-2]),
			Path: "/" + strings.Join(canonical[:len(canonical)-1], "/"),
		}
	}

	return models.Resolution{
		Kind:         models.ResolvedFolderIndex,
		Collection:   canonical[0],
		PathSegments: canonical,
		Post:         post,
		Breadcrumbs:  crumbs,
		BackLink:     back,
	}
}
