// Package opml writes subscription lists that feed readers can import.
package opml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"time"

	"github.com/samber/lo"
)

const version = "2.0"

type Document struct {
	XMLName xml.Name `xml:"opml"`
	Version string   `xml:"version,attr"`
	Head    Head     `xml:"head"`
	Body    Body     `xml:"body"`
}

type Head struct {
	Title       string `xml:"title,omitempty"`
	DateCreated string `xml:"dateCreated,omitempty"`
}

type Body struct {
	Outlines []Outline `xml:"outline"`
}

type Outline struct {
	Text    string `xml:"text,attr"`
	Title   string `xml:"title,attr,omitempty"`
	Type    string `xml:"type,attr,omitempty"`
	XMLURL  string `xml:"xmlUrl,attr,omitempty"`
	HTMLURL string `xml:"htmlUrl,attr,omitempty"`
}

// Subscription is one feed to list: its display title, page and RSS address.
type Subscription struct {
	Title   string
	PageURL string
	RSSURL  string
}

// Subscriptions renders an OPML 2.0 list with one rss outline per subscription.
func Subscriptions(title string, created time.Time, subs []Subscription) ([]byte, error) {
	doc := Document{
		Version: version,
		Head:    Head{Title: title, DateCreated: created.UTC().Format(time.RFC1123Z)},
		Body: Body{Outlines: lo.Map(subs, func(s Subscription, _ int) Outline {
			return Outline{Text: s.Title, Title: s.Title, Type: "rss", XMLURL: s.RSSURL, HTMLURL: s.PageURL}
		})},
	}

	buf := &bytes.Buffer{}
	buf.WriteString(xml.Header)
	encoder := xml.NewEncoder(buf)
	encoder.Indent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode opml: %w", err)
	}
	if err := encoder.Flush(); err != nil {
		return nil, fmt.Errorf("encode opml: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Parse reads an OPML document.
func Parse(r io.Reader) (Document, error) {
	var doc Document
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("decode opml: %w", err)
	}
	return doc, nil
}
