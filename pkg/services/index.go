package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"secretlocale/pkg/models"
)

// Index holds the published snapshot of all post metadata. Readers always see
// a complete snapshot; Rebuild replaces it atomically and is single-flight.
type Index struct {
	scanner   *Scanner
	cacheFile string
	perPage   int

	snapshot atomic.Pointer[[]models.PostMeta]
	group    singleflight.Group
}

func NewIndex(scanner *Scanner, cacheFile string, perPage int) *Index {
	idx := &Index{
		scanner:   scanner,
		cacheFile: cacheFile,
		perPage:   perPage,
	}
	empty := []models.PostMeta{}
	idx.snapshot.Store(&empty)
	return idx
}

// Load reads the persisted snapshot from disk. A missing or corrupt cache
// file leaves the index empty; the caller typically follows up with Rebuild.
func (i *Index) Load() error {
	content, err := os.ReadFile(i.cacheFile)
	if err != nil {
		return fmt.Errorf("index: read cache file: %w", err)
	}
	var posts []models.PostMeta
	if err := json.Unmarshal(content, &posts); err != nil {
		return fmt.Errorf("index: parse cache file: %w", err)
	}
	if posts == nil {
		posts = []models.PostMeta{}
	}
	i.snapshot.Store(&posts)
	return nil
}

// Rebuild re-scans the content tree and publishes a new snapshot. Concurrent
// calls collapse into one scan. On persistence failure the previous snapshot
// keeps serving and the error surfaces only to the caller.
func (i *Index) Rebuild() (int, error) {
	count, err, _ := i.group.Do("rebuild", func() (interface{}, error) {
		posts := i.scanner.Scan()

		// Date descending; scan order breaks ties so repeated rebuilds of an
		// unchanged tree publish identical snapshots.
		sort.SliceStable(posts, func(a, b int) bool {
			return posts[a].Date.After(posts[b].Date)
		})

		if err := i.persist(posts); err != nil {
			return 0, err
		}

		i.snapshot.Store(&posts)
		slog.Info("index rebuilt", "posts", len(posts), "cache", i.cacheFile)
		return len(posts), nil
	})
	if err != nil {
		return 0, err
	}
	return count.(int), nil
}

// persist writes the snapshot next to the content tree via temp-file-and-
// rename so a crash mid-write never leaves a torn cache file.
func (i *Index) persist(posts []models.PostMeta) error {
	data, err := json.MarshalIndent(posts, "", "  ")
	if err != nil {
		return fmt.Errorf("index: marshal snapshot: %w", err)
	}

	dir := filepath.Dir(i.cacheFile)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("index: create cache dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".blog-cache-*")
	if err != nil {
		return fmt.Errorf("index: create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("index: write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("index: close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), i.cacheFile); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("index: publish snapshot: %w", err)
	}
	return nil
}

// Posts returns the current snapshot. Callers must not mutate it.
func (i *Index) Posts() []models.PostMeta {
	return *i.snapshot.Load()
}

func matchesFilters(post *models.PostMeta, tag, category string) bool {
	if tag != "" {
		found := false
		for _, t := range post.Tags {
			if t == tag {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if category != "" && strings.ReplaceAll(post.Slug, "_", "-") != category {
		return false
	}
	return true
}

func (i *Index) filtered(tag, category string) []models.PostMeta {
	all := i.Posts()
	out := []models.PostMeta{}
	for idx := range all {
		if matchesFilters(&all[idx], tag, category) {
			out = append(out, all[idx])
		}
	}
	return out
}

// List returns one page of posts. The cursor is the slug of the last post of
// the previous page; an unknown cursor starts from the beginning.
func (i *Index) List(cursor string, limit int, tag, category string) ([]models.PostMeta, string) {
	if limit <= 0 {
		limit = i.perPage
	}
	filtered := i.filtered(tag, category)

	start := 0
	if cursor != "" {
		for idx := range filtered {
			if filtered[idx].Slug == cursor {
				start = idx + 1
				break
			}
		}
	}

	end := start + limit
	if end > len(filtered) {
		end = len(filtered)
	}
	page := filtered[start:end]

	nextCursor := ""
	if start+limit < len(filtered) {
		nextCursor = filtered[start+limit].Slug
	}
	return page, nextCursor
}

// TotalPages reports the page count for the given filters at the configured
// page size.
func (i *Index) TotalPages(tag, category string) int {
	filtered := i.filtered(tag, category)
	return (len(filtered) + i.perPage - 1) / i.perPage
}

// TopTags ranks tags by frequency across the whole snapshot.
func (i *Index) TopTags(limit int) []models.TagCount {
	counts := map[string]int{}
	for _, post := range i.Posts() {
		for _, tag := range post.Tags {
			counts[tag]++
		}
	}

	tags := make([]models.TagCount, 0, len(counts))
	for tag, count := range counts {
		tags = append(tags, models.TagCount{Tag: tag, Count: count})
	}
	sort.Slice(tags, func(a, b int) bool {
		if tags[a].Count != tags[b].Count {
			return tags[a].Count > tags[b].Count
		}
		return tags[a].Tag < tags[b].Tag
	})

	if limit > 0 && limit < len(tags) {
		tags = tags[:limit]
	}
	return tags
}
