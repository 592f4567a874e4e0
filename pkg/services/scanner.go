package services

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"secretlocale/pkg/models"
)

// BlogCollection is the distinguished flat collection whose posts are
// addressed without a path prefix.
const BlogCollection = "blog"

const defaultScanMaxDepth = 16

var contentExtensions = []string{".html", ".md"}

func isContentFile(name string) bool {
	for _, ext := range contentExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

func slugFromFilename(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// isDirEntry reports whether entry is a directory, following symlinks so that
// linked directories are walked. The visited map in the walkers keeps a cycle
// of links from looping.
func isDirEntry(dir string, entry os.DirEntry) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(dir, entry.Name()))
	return err == nil && info.IsDir()
}

// Scanner walks the content root and produces the metadata of every content
// file. It is the only component that touches the filesystem during an index
// rebuild.
type Scanner struct {
	Root     string
	MaxDepth int
	Now      func() time.Time
}

func NewScanner(root string) *Scanner {
	return &Scanner{
		Root:     root,
		MaxDepth: defaultScanMaxDepth,
		Now:      time.Now,
	}
}

// Scan enumerates the blog collection (flat) and every other collection
// (recursive). A missing content root yields an empty set, not an error.
// Repeated scans of an unchanged tree return an identical slice.
func (s *Scanner) Scan() []models.PostMeta {
	posts := []models.PostMeta{}

	entries, err := os.ReadDir(s.Root)
	if err != nil {
		slog.Warn("content root unreadable, treating as empty", "root", s.Root, "error", err)
		return posts
	}

	blogDir := filepath.Join(s.Root, BlogCollection)
	if blogEntries, err := os.ReadDir(blogDir); err == nil {
		for _, entry := range blogEntries {
			if entry.IsDir() || !isContentFile(entry.Name()) {
				continue
			}
			path := filepath.Join(blogDir, entry.Name())
			if meta := s.readMeta(path, slugFromFilename(entry.Name())); meta != nil {
				posts = append(posts, *meta)
			}
		}
	}

	for _, entry := range entries {
		if !isDirEntry(s.Root, entry) || entry.Name() == BlogCollection {
			continue
		}
		visited := map[string]bool{}
		posts = append(posts, s.scanDir(filepath.Join(s.Root, entry.Name()), []string{entry.Name()}, visited)...)
	}

	return posts
}

func (s *Scanner) scanDir(dir string, segments []string, visited map[string]bool) []models.PostMeta {
	posts := []models.PostMeta{}

	if len(segments) > s.MaxDepth {
		slog.Warn("max scan depth exceeded, pruning", "dir", dir)
		return posts
	}
	real, err := filepath.EvalSymlinks(dir)
	if err != nil {
		slog.Warn("skipping unreadable directory", "dir", dir, "error", err)
		return posts
	}
	if visited[real] {
		slog.Warn("directory cycle detected, pruning", "dir", dir)
		return posts
	}
	visited[real] = true

	entries, err := os.ReadDir(dir)
	if err != nil {
		slog.Warn("skipping unreadable directory", "dir", dir, "error", err)
		return posts
	}

	folder := segments[0]
	var subfolders []string
	if len(segments) > 1 {
		subfolders = segments
	}

	for _, entry := range entries {
		if entry.IsDir() || !isContentFile(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if meta := s.readMeta(path, slugFromFilename(entry.Name())); meta != nil {
			meta.Folder = folder
			meta.Subfolders = subfolders
			posts = append(posts, *meta)
		}
	}

	for _, entry := range entries {
		if !isDirEntry(dir, entry) {
			continue
		}
		sub := append(append([]string{}, segments...), entry.Name())
		posts = append(posts, s.scanDir(filepath.Join(dir, entry.Name()), sub, visited)...)
	}

	return posts
}

// readMeta parses one content file. Files missing a title are dropped with a
// warning; future-dated files are dropped silently until their date arrives.
func (s *Scanner) readMeta(path, slug string) *models.PostMeta {
	content, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("skipping unreadable file", "path", path, "error", err)
		return nil
	}

	fm, _, _, err := ParseFrontMatter(content)
	if err != nil {
		slog.Warn("skipping file with unparseable front matter", "path", path, "error", err)
		return nil
	}

	meta, err := PostMetaFromFrontMatter(fm, slug, "", nil)
	if err != nil {
		slog.Warn("skipping file", "path", path, "error", err)
		return nil
	}

	if !meta.Date.IsZero() && meta.Date.After(s.Now()) {
		slog.Info("skipping future-dated file", "path", path, "date", meta.Date)
		return nil
	}

	return meta
}
