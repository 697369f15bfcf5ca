package model

import "time"

const (
	MaxNameLength    = 30
	MaxAboutLength   = 160
	MaxContentLength = 500
	MaxURLLength     = 2000
	MaxPosts         = 1000
)

// Feed is the full durable record of one feed. WriteKeyHash never leaves the service layer.
type Feed struct {
	ID           string
	Name         string
	About        string
	WriteKeyHash string
	CreatedAt    time.Time
	LastPostAt   time.Time
	Posts        []Post
}

// Post is a single entry owned by a Feed. URL is nil when the post carries no link.
type Post struct {
	ID        string
	Content   string
	URL       *string
	Timestamp time.Time
}

// PublicFeed is the readable projection of a Feed.
type PublicFeed struct {
	ID        string
	Name      string
	About     string
	CreatedAt time.Time
	Posts     []Post
}

// Public strips the credential hash and rate-limit bookkeeping.
func (f Feed) Public() PublicFeed {
	posts := make([]Post, len(f.Posts))
	copy(posts, f.Posts)
	return PublicFeed{
		ID:        f.ID,
		Name:      f.Name,
		About:     f.About,
		CreatedAt: f.CreatedAt,
		Posts:     posts,
	}
}

// DisplayName is the name, or the id when no name was set.
func (f PublicFeed) DisplayName() string {
	if f.Name != "" {
		return f.Name
	}
	return f.ID
}

type ProfileUpdate struct {
	Name  *string
	About *string
}

type PostInput struct {
	Content string
	URL     *string
}

// FeedSummary is a listing row; it is read without decoding the posts.
type FeedSummary struct {
	ID        string
	Name      string
	PostCount int
	CreatedAt time.Time
	UpdatedAt time.Time
}
