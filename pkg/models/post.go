package models

import (
	"strings"
	"time"
)

// PostMeta is one entry of the blog cache snapshot. Folder and Subfolders are
// empty for posts that live in the flat blog collection; Subfolders carries the
// full directory-segment chain for nested content posts.
type PostMeta struct {
	Slug            string    `json:"slug"`
	Title           string    `json:"title"`
	Date            time.Time `json:"date"`
	Excerpt         string    `json:"excerpt"`
	FeaturedImage   string    `json:"featuredImage"`
	Author          string    `json:"author"`
	Tags            []string  `json:"tags"`
	MetaDescription string    `json:"metaDescription"`
	Folder          string    `json:"folder,omitempty"`
	Subfolders      []string  `json:"subfolders,omitempty"`
}

// Post is a fully loaded content file, including its body.
type Post struct {
	PostMeta
	Body string `json:"body,omitempty"`
}

// PathSegments reconstructs the root-to-leaf segment chain of the file on
// disk, slug included.
func (p *PostMeta) PathSegments() []string {
	if len(p.Subfolders) > 0 {
		segments := make([]string, 0, len(p.Subfolders)+1)
		segments = append(segments, p.Subfolders...)
		return append(segments, p.Slug)
	}
	if p.Folder != "" {
		return []string{p.Folder, p.Slug}
	}
	return []string{p.Slug}
}

// IsFolderIndex reports whether the file is named after its enclosing folder.
func (p *PostMeta) IsFolderIndex() bool {
	if len(p.Subfolders) > 0 {
		return p.Slug == p.Subfolders[len(p.Subfolders)-1]
	}
	return p.Folder != "" && p.Slug == p.Folder
}

// URLPath returns the site-relative URL of the post. Folder-index posts drop
// the duplicated trailing segment.
func (p *PostMeta) URLPath() string {
	if len(p.Subfolders) > 0 {
		if p.Slug == p.Subfolders[len(p.Subfolders)-1] {
			return "/" + strings.Join(p.Subfolders, "/")
		}
		return "/" + strings.Join(p.Subfolders, "/") + "/" + p.Slug
	}
	if p.Folder != "" {
		if p.Slug == p.Folder {
			return "/" + p.Folder
		}
		return "/" + p.Folder + "/" + p.Slug
	}
	return "/" + p.Slug
}

// TagCount is one entry of the top-tags ranking.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// CitySection groups a city's pillar article with its supporting articles.
type CitySection struct {
	City               string     `json:"city"`
	CitySlug           string     `json:"citySlug"`
	PillarArticle      *PostMeta  `json:"pillarArticle"`
	SupportingArticles []PostMeta `json:"supportingArticles"`
	TotalArticles      int        `json:"totalArticles"`
}
