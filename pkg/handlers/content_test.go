package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"secretlocale/pkg/services"
)

func fixedNow() time.Time {
	return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
}

func writeContent(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile(%s): %v", rel, err)
	}
}

func article(title, date string) string {
	return fmt.Sprintf("---\ntitle: %q\ndate: %q\ntags:\n  - travel\n---\n<p>Body</p>\n", title, date)
}

func contentRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeContent(t, root, "blog/first-trail.html", article("First Trail", "2024-03-01"))
	writeContent(t, root, "blog/second-trail.html", article("Second Trail", "2024-02-01"))
	writeContent(t, root, "ghost-towns/ghost-towns.html", article("Ghost Towns", "2024-01-01"))
	writeContent(t, root, "ghost-towns/bodie.html", article("Bodie", "2024-01-02"))
	writeContent(t, root, "wild-coasts/cove.html", article("Hidden Cove", "2024-01-03"))
	return root
}

func newContentRouter(t *testing.T, root string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	scanner := services.NewScanner(root)
	scanner.Now = fixedNow
	idx := services.NewIndex(scanner, filepath.Join(t.TempDir(), "blog-cache.json"), 12)
	if _, err := idx.Rebuild(); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	resolver := services.NewResolver(root)
	resolver.Now = fixedNow

	content := &Content{Resolver: resolver, Index: idx, SiteURL: "https://secretlocale.com"}
	r := gin.New()
	r.NoRoute(content.Page)
	return r
}

func performRequest(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func performRaw(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func TestPageArticle(t *testing.T) {
	r := newContentRouter(t, contentRoot(t))

	w := performRequest(r, http.MethodGet, "/first-trail", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["kind"] != "article" {
		t.Errorf("kind = %v", body["kind"])
	}
	if body["collection"] != "blog" {
		t.Errorf("collection = %v", body["collection"])
	}
	post := body["post"].(map[string]any)
	if post["title"] != "First Trail" {
		t.Errorf("title = %v", post["title"])
	}
	if body["url"] != "https://secretlocale.com/first-trail" {
		t.Errorf("url = %v", body["url"])
	}
}

func TestPageFolderIndex(t *testing.T) {
	r := newContentRouter(t, contentRoot(t))

	for _, path := range []string{"/ghost-towns", "/ghost-towns/ghost-towns"} {
		w := performRequest(r, http.MethodGet, path, "")
		if w.Code != http.StatusOK {
			t.Fatalf("GET %s status = %d", path, w.Code)
		}
		body := decodeBody(t, w)
		if body["kind"] != "folder-index" {
			t.Errorf("GET %s kind = %v", path, body["kind"])
		}
		// Both spellings publish the same canonical URL.
		if body["url"] != "https://secretlocale.com/ghost-towns" {
			t.Errorf("GET %s url = %v", path, body["url"])
		}
	}
}

func TestPageListing(t *testing.T) {
	r := newContentRouter(t, contentRoot(t))

	w := performRequest(r, http.MethodGet, "/wild-coasts", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["kind"] != "listing" {
		t.Errorf("kind = %v", body["kind"])
	}
	posts := body["posts"].([]any)
	if len(posts) != 1 {
		t.Fatalf("listing posts = %d, want 1", len(posts))
	}
	if posts[0].(map[string]any)["slug"] != "cove" {
		t.Errorf("listing post = %v", posts[0])
	}
}

func TestPageBlogListing(t *testing.T) {
	r := newContentRouter(t, contentRoot(t))

	w := performRequest(r, http.MethodGet, "/blog", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["kind"] != "listing" {
		t.Fatalf("kind = %v", body["kind"])
	}
	posts := body["posts"].([]any)
	if len(posts) != 2 {
		t.Fatalf("blog listing posts = %d, want 2", len(posts))
	}
	slugs := map[string]bool{}
	for _, p := range posts {
		slugs[p.(map[string]any)["slug"].(string)] = true
	}
	if !slugs["first-trail"] || !slugs["second-trail"] {
		t.Errorf("blog listing slugs = %v", slugs)
	}
}

func TestPageNotFound(t *testing.T) {
	r := newContentRouter(t, contentRoot(t))

	for _, path := range []string{"/no-such-page", "/ghost-towns/nope", "/%2e%2e/etc"} {
		w := performRequest(r, http.MethodGet, path, "")
		if w.Code != http.StatusNotFound {
			t.Errorf("GET %s status = %d, want 404", path, w.Code)
		}
	}
}
