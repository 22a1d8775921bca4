// Package content generates the public site artifacts: the blog listing,
// the RSS feed, and the XML sitemap.
package content

import (
	"encoding/xml"
	"fmt"
	"sort"
	"time"

	"github.com/vps-compare/internal/domain"
)

// Post is a blog entry. The catalog is editorial content shipped with the
// binary, not user data.
type Post struct {
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	Body      string    `json:"body,omitempty"`
	Published time.Time `json:"published"`
}

// Posts returns the blog catalog, newest first
func Posts() []Post {
	posts := []Post{
		{
			Slug:      "cheapest-kvm-vps-2026",
			Title:     "The Cheapest KVM VPS Plans in 2026",
			Summary:   "A rundown of sub-$5 KVM plans that still come with dedicated IPv4 and fair bandwidth allowances.",
			Published: time.Date(2026, 8, 5, 0, 0, 0, 0, time.UTC),
		},
		{
			Slug:      "nvme-vs-ssd-hosting",
			Title:     "NVMe vs SSD: Does It Matter for Your VPS?",
			Summary:   "What the disk type field in our listings actually means for database and web workloads.",
			Published: time.Date(2026, 7, 18, 0, 0, 0, 0, time.UTC),
		},
		{
			Slug:      "understanding-unmetered-bandwidth",
			Title:     "Unmetered Bandwidth Is Not Unlimited Speed",
			Summary:   "Why a 200 Mbps unmetered plan can move less data than a metered gigabit one.",
			Published: time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC),
		},
		{
			Slug:      "managed-vs-unmanaged-vps",
			Title:     "Managed vs Unmanaged VPS: Picking a Side",
			Summary:   "The real cost difference between managed platforms and bare root servers.",
			Published: time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC),
		},
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Published.After(posts[j].Published)
	})
	return posts
}

// PostBySlug looks up a single post
func PostBySlug(slug string) (Post, bool) {
	for _, p := range Posts() {
		if p.Slug == slug {
			return p, true
		}
	}
	return Post{}, false
}

// rss is the RSS 2.0 document root
type rss struct {
	XMLName xml.Name `xml:"rss"`
	Version string   `xml:"version,attr"`
	Channel channel  `xml:"channel"`
}

type channel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	GUID        string `xml:"guid"`
	PubDate     string `xml:"pubDate"`
}

// BuildFeed renders the blog catalog as an RSS 2.0 feed
func BuildFeed(baseURL, title string, posts []Post) ([]byte, error) {
	items := make([]rssItem, 0, len(posts))
	for _, p := range posts {
		link := fmt.Sprintf("%s/blog/%s", baseURL, p.Slug)
		items = append(items, rssItem{
			Title:       p.Title,
			Link:        link,
			Description: p.Summary,
			GUID:        link,
			PubDate:     p.Published.Format(time.RFC1123Z),
		})
	}

	doc := rss{
		Version: "2.0",
		Channel: channel{
			Title:       title,
			Link:        baseURL,
			Description: "VPS and hosting plan price comparisons",
			Items:       items,
		},
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to render feed: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}

// urlSet is the sitemap document root
type urlSet struct {
	XMLName xml.Name `xml:"urlset"`
	XMLNS   string   `xml:"xmlns,attr"`
	URLs    []siteURL
}

type siteURL struct {
	XMLName xml.Name `xml:"url"`
	Loc     string   `xml:"loc"`
	LastMod string   `xml:"lastmod,omitempty"`
}

// BuildSitemap renders the sitemap covering the landing pages, every plan
// detail page, and every blog post.
func BuildSitemap(baseURL string, plans []domain.Plan, posts []Post) ([]byte, error) {
	urls := []siteURL{
		{Loc: baseURL},
		{Loc: baseURL + "/providers"},
		{Loc: baseURL + "/blog"},
	}

	for _, p := range plans {
		u := siteURL{Loc: fmt.Sprintf("%s/plans/%s", baseURL, p.ID)}
		if !p.LastUpdated.IsZero() {
			u.LastMod = p.LastUpdated.Format("2006-01-02")
		}
		urls = append(urls, u)
	}

	for _, p := range posts {
		urls = append(urls, siteURL{
			Loc:     fmt.Sprintf("%s/blog/%s", baseURL, p.Slug),
			LastMod: p.Published.Format("2006-01-02"),
		})
	}

	doc := urlSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to render sitemap: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}
