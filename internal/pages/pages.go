// Package pages renders the server-side HTML pages. Interactive behavior
// (write mode, contacts, home timeline) runs in the browser against the JSON API.
package pages

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/moldandyeast/tinyfeed/internal/model"
	"github.com/moldandyeast/tinyfeed/internal/urlutil"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const (
	PageLanding  = "landing"
	PageFeed     = "feed"
	PageHome     = "home"
	PageContacts = "contacts"
	PageImport   = "import"
	PageNotFound = "notfound"

	defaultDescription = "a feed is a url"
	ogSnippetLength    = 150
)

var pageScripts = map[string]string{
	PageLanding:  "landing.js",
	PageFeed:     "feed.js",
	PageHome:     "home.js",
	PageContacts: "contacts.js",
	PageImport:   "import.js",
}

// Static returns the embedded asset tree rooted at the static directory.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, name := range []string{PageLanding, PageFeed, PageHome, PageContacts, PageImport, PageNotFound} {
		tmpl, err := template.ParseFS(templateFS, "templates/base.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		r.pages[name] = tmpl
	}
	return r, nil
}

// OpenGraph holds link-preview metadata.
type OpenGraph struct {
	Title       string
	Description string
	URL         string
}

// View is the data every page template receives.
type View struct {
	BaseURL       string
	OG            *OpenGraph
	AlternateRSS  string
	AlternateJSON string
	Script        string
	Feed          *FeedView
}

type FeedView struct {
	ID          string
	Name        string
	About       string
	DisplayName string
	Title       string
	URL         string
	MaxContent  int
	Posts       []PostView
}

type PostView struct {
	ID      string
	Content string
	URL     string
	Host    string
	Date    string
	ISO     string
}

// Render writes the named page. Rendering goes through a buffer so a
// template failure never leaves a half-written response.
func (r *Renderer) Render(w io.Writer, name string, view View) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	if view.Script == "" {
		view.Script = pageScripts[name]
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", view); err != nil {
		return fmt.Errorf("render page %s: %w", name, err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// NewFeedView builds the page view of a feed. now decides whether dates include the year.
func NewFeedView(feed model.PublicFeed, baseURL string, now time.Time) View {
	feedURL := urlutil.FeedURL(baseURL, feed.ID)
	title := feed.DisplayName() + " — tinyfeed"

	return View{
		BaseURL:       baseURL,
		OG:            &OpenGraph{Title: title, Description: ogDescription(feed), URL: feedURL},
		AlternateRSS:  feedURL + ".rss",
		AlternateJSON: feedURL + ".json",
		Feed: &FeedView{
			ID:          feed.ID,
			Name:        feed.Name,
			About:       feed.About,
			DisplayName: feed.DisplayName(),
			Title:       title,
			URL:         feedURL,
			MaxContent:  model.MaxContentLength,
			Posts: lo.Map(feed.Posts, func(p model.Post, _ int) PostView {
				view := PostView{
					ID:      p.ID,
					Content: p.Content,
					Date:    FormatDate(p.Timestamp, now),
					ISO:     p.Timestamp.UTC().Format(time.RFC3339),
				}
				if p.URL != nil {
					view.URL = *p.URL
					view.Host = urlutil.DisplayHost(*p.URL)
				}
				return view
			}),
		},
	}
}

func ogDescription(feed model.PublicFeed) string {
	if feed.About != "" {
		return feed.About
	}
	if len(feed.Posts) > 0 && feed.Posts[0].Content != "" {
		snippet, _ := model.TruncateRunes(feed.Posts[0].Content, ogSnippetLength)
		return snippet
	}
	return defaultDescription
}

// FormatDate renders "jan 2, 3:04pm" within the current year and "jan 2, 2006" otherwise, in UTC.
func FormatDate(ts, now time.Time) string {
	ts = ts.UTC()
	month := strings.ToLower(ts.Format("Jan"))
	if ts.Year() != now.UTC().Year() {
		return fmt.Sprintf("%s %d, %d", month, ts.Day(), ts.Year())
	}
	return fmt.Sprintf("%s %d, %s", month, ts.Day(), ts.Format("3:04pm"))
}
