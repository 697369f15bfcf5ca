package render

import (
	"fmt"
	"time"

	"github.com/gorilla/feeds"
	"github.com/samber/lo"

	"github.com/moldandyeast/tinyfeed/internal/model"
)

// Atom renders an Atom 1.0 document.
func Atom(feed model.PublicFeed, feedURL string, now time.Time) ([]byte, error) {
	updated := now
	if len(feed.Posts) > 0 {
		updated = feed.Posts[0].Timestamp
	}

	out := &feeds.Feed{
		Id:          feedURL,
		Title:       XMLText(feed.DisplayName()),
		Link:        &feeds.Link{Href: feedURL},
		Description: XMLText(feed.About),
		Author:      &feeds.Author{Name: XMLText(feed.DisplayName())},
		Created:     feed.CreatedAt,
		Updated:     updated,
		Items: lo.Map(feed.Posts, func(post model.Post, _ int) *feeds.Item {
			content := XMLText(post.Content)
			title, cut := model.TruncateRunes(content, rssTitleLength)
			if cut {
				title += "..."
			}
			link := feedURL
			if post.URL != nil {
				link = XMLText(*post.URL)
			}
			return &feeds.Item{
				Id:          feedURL + "#" + post.ID,
				Title:       title,
				Link:        &feeds.Link{Href: link},
				Description: EscapeHTML(content),
				Created:     post.Timestamp,
				Updated:     post.Timestamp,
			}
		}),
	}

	doc, err := out.ToAtom()
	if err != nil {
		return nil, fmt.Errorf("encode atom: %w", err)
	}
	return []byte(doc), nil
}
