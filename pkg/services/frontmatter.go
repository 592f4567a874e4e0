package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"secretlocale/pkg/models"
)

// DefaultAuthor is used when a content file carries no author field.
const DefaultAuthor = "Editor"

// DefaultFeaturedImage is used when a content file carries no featuredImage field.
const DefaultFeaturedImage = "/placeholder.svg?height=400&width=800"

// ParseFrontMatter splits a content file into its front matter and body.
// YAML (---) and TOML (+++) fences are supported, plus whole-file JSON.
func ParseFrontMatter(content []byte) (map[string]interface{}, string, string, error) {
	str := string(content)
	// Check for YAML (---)
	if strings.HasPrefix(str, "---\n") || strings.HasPrefix(str, "---\r\n") {
		parts := strings.SplitN(str, "---", 3) // "", FM, Body
		if len(parts) == 3 {
			var fm map[string]interface{}
			if err := yaml.Unmarshal([]byte(parts[1]), &fm); err == nil {
				return fm, strings.TrimSpace(parts[2]), "yaml", nil
			}
		}
	}
	// Check for TOML (+++)
	if strings.HasPrefix(str, "+++\n") || strings.HasPrefix(str, "+++\r\n") {
		parts := strings.SplitN(str, "+++", 3)
		if len(parts) == 3 {
			var fm map[string]interface{}
			if err := toml.Unmarshal([]byte(parts[1]), &fm); err == nil {
				return fm, strings.TrimSpace(parts[2]), "toml", nil
			}
		}
	}
	// Check for JSON ({)
	if strings.HasPrefix(strings.TrimSpace(str), "{") {
		var fm map[string]interface{}
		if err := json.Unmarshal(content, &fm); err == nil {
			return fm, "", "json", nil
		}
	}

	return nil, "", "", fmt.Errorf("unknown format")
}

var entityReplacer = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
	"&nbsp;", " ",
)

// DecodeHTMLEntities undoes the entity escaping editorial tooling applies to
// title and excerpt fields.
func DecodeHTMLEntities(text string) string {
	if text == "" {
		return text
	}
	return entityReplacer.Replace(text)
}

func stringField(fm map[string]interface{}, key string) string {
	if v, ok := fm[key].(string); ok {
		return v
	}
	return ""
}

func tagsField(fm map[string]interface{}) []string {
	tags := []string{}
	switch v := fm["tags"].(type) {
	case []interface{}:
		for _, t := range v {
			if s, ok := t.(string); ok {
				tags = append(tags, s)
			}
		}
	case []string:
		tags = append(tags, v...)
	}
	return tags
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func dateField(fm map[string]interface{}) time.Time {
	switch v := fm["date"].(type) {
	case time.Time:
		return v
	case string:
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, v); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}

// PostMetaFromFrontMatter maps parsed front matter onto PostMeta, applying the
// editorial defaults. A missing title is an error; the caller decides whether
// that drops the file or fails the request.
func PostMetaFromFrontMatter(fm map[string]interface{}, slug, folder string, subfolders []string) (*models.PostMeta, error) {
	title := stringField(fm, "title")
	if title == "" {
		return nil, fmt.Errorf("missing required title field")
	}

	excerpt := DecodeHTMLEntities(stringField(fm, "excerpt"))
	metaDescription := DecodeHTMLEntities(stringField(fm, "metaDescription"))
	if metaDescription == "" {
		metaDescription = excerpt
	}

	author := stringField(fm, "author")
	if author == "" {
		author = DefaultAuthor
	}

	featuredImage := stringField(fm, "featuredImage")
	if featuredImage == "" {
		featuredImage = DefaultFeaturedImage
	}

	return &models.PostMeta{
		Slug:            slug,
		Title:           DecodeHTMLEntities(title),
		Date:            dateField(fm),
		Excerpt:         excerpt,
		FeaturedImage:   featuredImage,
		Author:          author,
		Tags:            tagsField(fm),
		MetaDescription: metaDescription,
		Folder:          folder,
		Subfolders:      subfolders,
	}, nil
}

// PostFromContent builds a full Post (metadata plus body) from raw file content.
func PostFromContent(content []byte, slug, folder string, subfolders []string) (*models.Post, error) {
	fm, body, _, err := ParseFrontMatter(content)
	if err != nil {
		return nil, err
	}
	meta, err := PostMetaFromFrontMatter(fm, slug, folder, subfolders)
	if err != nil {
		return nil, err
	}
	return &models.Post{PostMeta: *meta, Body: body}, nil
}
