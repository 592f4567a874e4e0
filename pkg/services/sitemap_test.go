package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"secretlocale/pkg/models"
)

func sitemapPosts() []models.PostMeta {
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	return []models.PostMeta{
		{Slug: "first-trail", Title: "First Trail", Date: date},
		{Slug: "bodie", Title: "Bodie", Date: date, Folder: "ghost-towns"},
		{Slug: "ghost-towns", Title: "Ghost Towns", Date: date, Folder: "ghost-towns"},
		{Slug: "rome", Title: "Rome", Date: date, Folder: "hidden-gem-towns",
			Subfolders: []string{"hidden-gem-towns", "italy", "rome"}},
		{Slug: "colosseum", Title: "Colosseum", Date: date, Folder: "hidden-gem-towns",
			Subfolders: []string{"hidden-gem-towns", "italy", "rome"}},
	}
}

func TestSitemapGenerate(t *testing.T) {
	s := NewSitemap("https://secretlocale.com", t.TempDir())
	xml := s.Generate(sitemapPosts())

	wantLocs := []string{
		"<loc>https://secretlocale.com</loc>",
		"<loc>https://secretlocale.com/blog</loc>",
		"<loc>https://secretlocale.com/about</loc>",
		"<loc>https://secretlocale.com/trust</loc>",
		// Distinct first-level collection folders.
		"<loc>https://secretlocale.com/ghost-towns</loc>",
		"<loc>https://secretlocale.com/hidden-gem-towns</loc>",
		// Nested folder path, index duplicate dropped.
		"<loc>https://secretlocale.com/hidden-gem-towns/italy/rome</loc>",
		// Blog post, plain slug.
		"<loc>https://secretlocale.com/first-trail</loc>",
		// Subfolder post.
		"<loc>https://secretlocale.com/ghost-towns/bodie</loc>",
		// Nested leaf.
		"<loc>https://secretlocale.com/hidden-gem-towns/italy/rome/colosseum</loc>",
	}
	for _, want := range wantLocs {
		if !strings.Contains(xml, want) {
			t.Errorf("sitemap missing %s", want)
		}
	}

	// The folder index never appears with its duplicated segment.
	if strings.Contains(xml, "/ghost-towns/ghost-towns") {
		t.Error("folder index URL not de-duplicated")
	}
	if strings.Contains(xml, "/hidden-gem-towns/italy/rome/rome") {
		t.Error("nested folder index URL not de-duplicated")
	}

	if !strings.Contains(xml, "<lastmod>2024-01-15T00:00:00Z</lastmod>") {
		t.Error("lastmod missing or misformatted")
	}
}

func TestSitemapEscapesXML(t *testing.T) {
	s := NewSitemap("https://secretlocale.com", t.TempDir())
	xml := s.Generate([]models.PostMeta{
		{Slug: "fish&chips", Title: "Fish", Date: time.Now(), Folder: "food&drink"},
	})
	if !strings.Contains(xml, "food&amp;drink/fish&amp;chips") {
		t.Errorf("unescaped ampersand in sitemap:\n%s", xml)
	}
	if strings.Contains(xml, "food&drink/fish&chips") {
		t.Error("raw ampersand leaked into sitemap")
	}
}

func TestSitemapWrite(t *testing.T) {
	publicDir := t.TempDir()
	s := NewSitemap("https://secretlocale.com", publicDir)
	if err := s.Write(sitemapPosts()); err != nil {
		t.Fatalf("Write: %v", err)
	}

	content, err := os.ReadFile(filepath.Join(publicDir, "sitemap.xml"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.HasPrefix(string(content), `<?xml version="1.0" encoding="UTF-8"?>`) {
		t.Error("sitemap missing XML declaration")
	}

	// Empty snapshots still produce the static entries.
	if err := s.Write(nil); err != nil {
		t.Fatalf("Write(nil): %v", err)
	}
	content, _ = os.ReadFile(filepath.Join(publicDir, "sitemap.xml"))
	if !strings.Contains(string(content), "<loc>https://secretlocale.com/blog</loc>") {
		t.Error("minimal sitemap missing static entries")
	}
}
