package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"time"

	"github.com/samber/lo"

	"github.com/moldandyeast/tinyfeed/internal/model"
)

type rssDocument struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	AtomNS  string     `xml:"xmlns:atom,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	LastBuildDate string    `xml:"lastBuildDate"`
	AtomLink      rssSelf   `xml:"atom:link"`
	Items         []rssItem `xml:"item"`
}

type rssSelf struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Description rssCDATA `xml:"description"`
	Link        string   `xml:"link"`
	GUID        rssGUID  `xml:"guid"`
	PubDate     string   `xml:"pubDate"`
}

type rssCDATA struct {
	Text string `xml:",cdata"`
}

type rssGUID struct {
	IsPermaLink string `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

// RSS renders an RSS 2.0 document. now is used for lastBuildDate only when the feed has no posts.
func RSS(feed model.PublicFeed, feedURL string, now time.Time) ([]byte, error) {
	name := XMLText(feed.DisplayName())
	description := XMLText(feed.About)
	if description == "" {
		description = "Posts from " + name
	}

	lastBuild := now
	if len(feed.Posts) > 0 {
		lastBuild = feed.Posts[0].Timestamp
	}

	doc := rssDocument{
		Version: "2.0",
		AtomNS:  "http://www.w3.org/2005/Atom",
		Channel: rssChannel{
			Title:         name,
			Link:          feedURL,
			Description:   description,
			LastBuildDate: lastBuild.UTC().Format(rfc822GMT),
			AtomLink:      rssSelf{Href: feedURL + ".rss", Rel: "self", Type: "application/rss+xml"},
			Items: lo.Map(feed.Posts, func(post model.Post, _ int) rssItem {
				return newRSSItem(post, feedURL)
			}),
		},
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode rss: %w", err)
	}
	return buf.Bytes(), nil
}

func newRSSItem(post model.Post, feedURL string) rssItem {
	content := XMLText(post.Content)
	title, cut := model.TruncateRunes(content, rssTitleLength)
	if cut {
		title += "..."
	}

	body := EscapeHTML(content)
	link := feedURL
	if post.URL != nil {
		link = XMLText(*post.URL)
		body += "\n\n→ " + EscapeHTML(link)
	}

	return rssItem{
		Title:       title,
		Description: rssCDATA{Text: body},
		Link:        link,
		GUID:        rssGUID{IsPermaLink: "false", Value: feedURL + "#" + post.ID},
		PubDate:     post.Timestamp.UTC().Format(rfc822GMT),
	}
}
