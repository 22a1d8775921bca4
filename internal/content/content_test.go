package content

import (
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/vps-compare/internal/domain"
)

func TestPostsNewestFirst(t *testing.T) {
	posts := Posts()
	if len(posts) == 0 {
		t.Fatal("blog catalog is empty")
	}
	for i := 1; i < len(posts); i++ {
		if posts[i].Published.After(posts[i-1].Published) {
			t.Errorf("posts not in newest-first order at index %d", i)
		}
	}
}

func TestPostBySlug(t *testing.T) {
	first := Posts()[0]
	p, ok := PostBySlug(first.Slug)
	if !ok || p.Title != first.Title {
		t.Errorf("expected to find %s, got %+v ok=%v", first.Slug, p, ok)
	}
	if _, ok := PostBySlug("missing"); ok {
		t.Error("expected miss for unknown slug")
	}
}

func TestBuildFeed(t *testing.T) {
	out, err := BuildFeed("https://example.com", "Test Feed", Posts())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	feed := string(out)
	if !strings.HasPrefix(feed, xml.Header) {
		t.Error("feed missing XML header")
	}
	if !strings.Contains(feed, `<rss version="2.0">`) {
		t.Error("feed missing rss 2.0 root")
	}
	if !strings.Contains(feed, "https://example.com/blog/"+Posts()[0].Slug) {
		t.Error("feed missing post link")
	}
}

func TestBuildSitemap(t *testing.T) {
	plans := []domain.Plan{
		{ID: "plan-1", LastUpdated: time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)},
	}

	out, err := BuildSitemap("https://example.com", plans, Posts())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sm := string(out)
	if !strings.Contains(sm, "http://www.sitemaps.org/schemas/sitemap/0.9") {
		t.Error("sitemap missing namespace")
	}
	if !strings.Contains(sm, "https://example.com/plans/plan-1") {
		t.Error("sitemap missing plan URL")
	}
	if !strings.Contains(sm, "<lastmod>2026-08-15</lastmod>") {
		t.Error("sitemap missing plan lastmod")
	}
}
