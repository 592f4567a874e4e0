package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"secretlocale/pkg/models"
)

var xmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func escapeXML(s string) string {
	return xmlReplacer.Replace(s)
}

func escapePath(segments []string) string {
	escaped := make([]string, len(segments))
	for i, segment := range segments {
		escaped[i] = escapeXML(segment)
	}
	return strings.Join(escaped, "/")
}

// Sitemap renders sitemap.xml from an index snapshot and writes it into the
// public directory.
type Sitemap struct {
	SiteURL   string
	PublicDir string
}

func NewSitemap(siteURL, publicDir string) *Sitemap {
	return &Sitemap{SiteURL: siteURL, PublicDir: publicDir}
}

type sitemapEntry struct {
	loc        string
	lastmod    string
	changefreq string
	priority   string
}

func (s *Sitemap) staticEntries() []sitemapEntry {
	return []sitemapEntry{
		{loc: s.SiteURL, changefreq: "daily", priority: "1.0"},
		{loc: s.SiteURL + "/blog", changefreq: "daily", priority: "0.8"},
		{loc: s.SiteURL + "/about", changefreq: "monthly", priority: "0.7"},
		{loc: s.SiteURL + "/trust", changefreq: "monthly", priority: "0.7"},
	}
}

// Generate emits one entry per static page, per distinct first-level
// collection folder, per distinct nested folder path, and per post. Folder
// index posts appear under their de-duplicated URL.
func (s *Sitemap) Generate(posts []models.PostMeta) string {
	entries := s.staticEntries()

	seenFolders := map[string]bool{}
	for _, post := range posts {
		if post.Folder == "" || post.Folder == BlogCollection || seenFolders[post.Folder] {
			continue
		}
		seenFolders[post.Folder] = true
		entries = append(entries, sitemapEntry{
			loc:        s.SiteURL + "/" + escapeXML(post.Folder),
			changefreq: "weekly",
			priority:   "0.8",
		})
	}

	seenNested := map[string]bool{}
	for _, post := range posts {
		if len(post.Subfolders) < 2 {
			continue
		}
		nested := post.Subfolders
		if post.Slug == post.Subfolders[len(post.Subfolders)-1] {
			nested = post.Subfolders[:len(post.Subfolders)-1]
		}
		key := strings.Join(nested, "/")
		if seenNested[key] {
			continue
		}
		seenNested[key] = true
		entries = append(entries, sitemapEntry{
			loc:        s.SiteURL + "/" + escapePath(nested),
			changefreq: "weekly",
			priority:   "0.7",
		})
	}

	for _, post := range posts {
		entries = append(entries, sitemapEntry{
			loc:        s.SiteURL + escapePath(strings.Split(post.URLPath(), "/")),
			lastmod:    post.Date.UTC().Format(time.RFC3339),
			changefreq: "weekly",
			priority:   "0.7",
		})
	}

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">` + "\n")
	for _, entry := range entries {
		b.WriteString("  <url>\n")
		fmt.Fprintf(&b, "    <loc>%s</loc>\n", entry.loc)
		if entry.lastmod != "" {
			fmt.Fprintf(&b, "    <lastmod>%s</lastmod>\n", entry.lastmod)
		}
		fmt.Fprintf(&b, "    <changefreq>%s</changefreq>\n", entry.changefreq)
		fmt.Fprintf(&b, "    <priority>%s</priority>\n", entry.priority)
		b.WriteString("  </url>\n")
	}
	b.WriteString("</urlset>\n")
	return b.String()
}

// Write renders the sitemap and writes it atomically to public/sitemap.xml.
func (s *Sitemap) Write(posts []models.PostMeta) error {
	if err := os.MkdirAll(s.PublicDir, 0755); err != nil {
		return fmt.Errorf("sitemap: create public dir: %w", err)
	}

	target := filepath.Join(s.PublicDir, "sitemap.xml")
	tmp, err := os.CreateTemp(s.PublicDir, ".sitemap-*")
	if err != nil {
		return fmt.Errorf("sitemap: create temp file: %w", err)
	}
	if _, err := tmp.WriteString(s.Generate(posts)); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("sitemap: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("sitemap: close: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("sitemap: publish: %w", err)
	}
	return nil
}
