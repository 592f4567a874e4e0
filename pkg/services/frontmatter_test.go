package services

import (
	"testing"
	"time"
)

func TestParseFrontMatter(t *testing.T) {
	t.Run("yaml", func(t *testing.T) {
		content := []byte("---\ntitle: Hidden Rome\ntags:\n  - italy\n  - rome\n---\n<p>Body here</p>")
		fm, body, format, err := ParseFrontMatter(content)
		if err != nil {
			t.Fatalf("ParseFrontMatter: %v", err)
		}
		if format != "yaml" {
			t.Errorf("format = %q, want yaml", format)
		}
		if fm["title"] != "Hidden Rome" {
			t.Errorf("title = %v", fm["title"])
		}
		if body != "<p>Body here</p>" {
			t.Errorf("body = %q", body)
		}
	})

	t.Run("toml", func(t *testing.T) {
		content := []byte("+++\ntitle = \"Hidden Rome\"\n+++\nBody")
		fm, body, format, err := ParseFrontMatter(content)
		if err != nil {
			t.Fatalf("ParseFrontMatter: %v", err)
		}
		if format != "toml" {
			t.Errorf("format = %q, want toml", format)
		}
		if fm["title"] != "Hidden Rome" {
			t.Errorf("title = %v", fm["title"])
		}
		if body != "Body" {
			t.Errorf("body = %q", body)
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		if _, _, _, err := ParseFrontMatter([]byte("just text")); err == nil {
			t.Fatal("expected error for content without front matter")
		}
	})
}

func TestDecodeHTMLEntities(t *testing.T) {
	got := DecodeHTMLEntities("Rome &amp; Florence &#39;24 &lt;guide&gt;")
	want := "Rome & Florence '24 <guide>"
	if got != want {
		t.Errorf("DecodeHTMLEntities = %q, want %q", got, want)
	}
}

func TestPostMetaFromFrontMatter(t *testing.T) {
	t.Run("defaults applied", func(t *testing.T) {
		fm := map[string]interface{}{
			"title":   "Ghost Towns",
			"date":    "2024-01-02",
			"excerpt": "Dusty streets &amp; silence",
		}
		meta, err := PostMetaFromFrontMatter(fm, "ghost-towns", "", nil)
		if err != nil {
			t.Fatalf("PostMetaFromFrontMatter: %v", err)
		}
		if meta.Author != DefaultAuthor {
			t.Errorf("author = %q, want %q", meta.Author, DefaultAuthor)
		}
		if meta.FeaturedImage != DefaultFeaturedImage {
			t.Errorf("featuredImage = %q", meta.FeaturedImage)
		}
		if meta.MetaDescription != "Dusty streets & silence" {
			t.Errorf("metaDescription = %q, want excerpt fallback", meta.MetaDescription)
		}
		if len(meta.Tags) != 0 {
			t.Errorf("tags = %v, want empty", meta.Tags)
		}
		want := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
		if !meta.Date.Equal(want) {
			t.Errorf("date = %v, want %v", meta.Date, want)
		}
	})

	t.Run("missing title is an error", func(t *testing.T) {
		fm := map[string]interface{}{"date": "2024-01-02"}
		if _, err := PostMetaFromFrontMatter(fm, "untitled", "", nil); err == nil {
			t.Fatal("expected error for missing title")
		}
	})

	t.Run("yaml timestamp date", func(t *testing.T) {
		fm := map[string]interface{}{
			"title": "Trail",
			"date":  time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		}
		meta, err := PostMetaFromFrontMatter(fm, "trail", "", nil)
		if err != nil {
			t.Fatalf("PostMetaFromFrontMatter: %v", err)
		}
		if meta.Date.Day() != 1 || meta.Date.Month() != 6 {
			t.Errorf("date = %v", meta.Date)
		}
	})

	t.Run("tags from yaml list", func(t *testing.T) {
		fm := map[string]interface{}{
			"title": "Trail",
			"tags":  []interface{}{"hiking", "italy"},
		}
		meta, err := PostMetaFromFrontMatter(fm, "trail", "", nil)
		if err != nil {
			t.Fatalf("PostMetaFromFrontMatter: %v", err)
		}
		if len(meta.Tags) != 2 || meta.Tags[0] != "hiking" || meta.Tags[1] != "italy" {
			t.Errorf("tags = %v", meta.Tags)
		}
	})
}
