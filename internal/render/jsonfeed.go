package render

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/samber/lo"

	"github.com/moldandyeast/tinyfeed/internal/model"
)

const JSONFeedVersion = "https://jsonfeed.org/version/1.1"

type jsonFeed struct {
	Version     string         `json:"version"`
	Title       string         `json:"title"`
	HomePageURL string         `json:"home_page_url"`
	FeedURL     string         `json:"feed_url"`
	Description string         `json:"description,omitempty"`
	Items       []jsonFeedItem `json:"items"`
}

type jsonFeedItem struct {
	ID            string `json:"id"`
	ContentText   string `json:"content_text"`
	URL           string `json:"url"`
	ExternalURL   string `json:"external_url,omitempty"`
	DatePublished string `json:"date_published"`
}

// JSONFeed renders a JSON Feed 1.1 document.
func JSONFeed(feed model.PublicFeed, feedURL string) ([]byte, error) {
	doc := jsonFeed{
		Version:     JSONFeedVersion,
		Title:       feed.DisplayName(),
		HomePageURL: feedURL,
		FeedURL:     feedURL + ".json",
		Description: feed.About,
		Items: lo.Map(feed.Posts, func(post model.Post, _ int) jsonFeedItem {
			item := jsonFeedItem{
				ID:            post.ID,
				ContentText:   post.Content,
				URL:           feedURL + "#" + post.ID,
				DatePublished: post.Timestamp.UTC().Format(isoMillis),
			}
			if post.URL != nil {
				item.ExternalURL = *post.URL
			}
			return item
		}),
	}
	return marshalIndent(doc, "json feed")
}

func marshalIndent(v any, what string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode %s: %w", what, err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
