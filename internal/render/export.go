package render

import (
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/moldandyeast/tinyfeed/internal/model"
)

// ExportPost is the post shape shared by the JSON export and the public API.
type ExportPost struct {
	ID        string  `json:"id"`
	Content   string  `json:"content"`
	URL       *string `json:"url"`
	Timestamp int64   `json:"timestamp"`
}

type exportDocument struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	About      string       `json:"about"`
	CreatedAt  int64        `json:"createdAt"`
	ExportedAt int64        `json:"exportedAt"`
	Posts      []ExportPost `json:"posts"`
}

func NewExportPosts(posts []model.Post) []ExportPost {
	return lo.Map(posts, func(p model.Post, _ int) ExportPost {
		return ExportPost{ID: p.ID, Content: p.Content, URL: p.URL, Timestamp: p.Timestamp.UnixMilli()}
	})
}

// ExportJSON renders the full backup document with exportedAt set to now.
func ExportJSON(feed model.PublicFeed, now time.Time) ([]byte, error) {
	return marshalIndent(exportDocument{
		ID:         feed.ID,
		Name:       feed.Name,
		About:      feed.About,
		CreatedAt:  feed.CreatedAt.UnixMilli(),
		ExportedAt: now.UnixMilli(),
		Posts:      NewExportPosts(feed.Posts),
	}, "export")
}

// Markdown renders the human-readable export.
func Markdown(feed model.PublicFeed) []byte {
	lines := []string{"# " + feed.DisplayName(), ""}
	if feed.About != "" {
		lines = append(lines, "*"+feed.About+"*", "")
	}
	lines = append(lines, "---", "")

	for _, post := range feed.Posts {
		lines = append(lines, post.Content)
		if post.URL != nil {
			lines = append(lines, "→ "+*post.URL)
		}
		lines = append(lines, "— "+post.Timestamp.UTC().Format(time.DateOnly), "")
	}
	return []byte(strings.Join(lines, "\n"))
}
