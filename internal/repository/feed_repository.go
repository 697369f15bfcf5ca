//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/moldandyeast/tinyfeed/internal/model"
	"github.com/moldandyeast/tinyfeed/pkg/snowflake"
)

// ErrFeedExists is returned by Create when the public id is already taken.
var ErrFeedExists = errors.New("feed already exists")

// FeedRepository persists whole feed records keyed by public id.
// Get and Save return sql.ErrNoRows when the feed does not exist.
type FeedRepository interface {
	Create(ctx context.Context, feed model.Feed) error
	Get(ctx context.Context, publicID string) (model.Feed, error)
	Save(ctx context.Context, feed model.Feed) error
	List(ctx context.Context, limit int) ([]model.FeedSummary, error)
}

type feedRepository struct {
	db *sql.DB
}

func NewFeedRepository(db *sql.DB) FeedRepository {
	return &feedRepository{db: db}
}

type feedRecord struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	About        string       `json:"about"`
	WriteKeyHash string       `json:"writeKeyHash"`
	CreatedAt    int64        `json:"createdAt"`
	LastPostAt   int64        `json:"lastPostAt"`
	Posts        []postRecord `json:"posts"`
}

type postRecord struct {
	ID        string  `json:"id"`
	Content   string  `json:"content"`
	URL       *string `json:"url"`
	Timestamp int64   `json:"timestamp"`
}

func (r *feedRepository) Create(ctx context.Context, feed model.Feed) error {
	data, err := encodeFeed(feed)
	if err != nil {
		return err
	}
	now := formatTime(time.Now())
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO feeds (id, public_id, data, post_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(public_id) DO NOTHING
	`, snowflake.NextID(), feed.ID, data, len(feed.Posts), formatTime(feed.CreatedAt), now)
	if err != nil {
		return fmt.Errorf("insert feed: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert feed: %w", err)
	}
	if rows == 0 {
		return ErrFeedExists
	}
	return nil
}

func (r *feedRepository) Get(ctx context.Context, publicID string) (model.Feed, error) {
	var data string
	err := r.db.QueryRowContext(ctx, `SELECT data FROM feeds WHERE public_id = ?`, publicID).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Feed{}, sql.ErrNoRows
		}
		return model.Feed{}, fmt.Errorf("select feed: %w", err)
	}
	return decodeFeed(data)
}

func (r *feedRepository) Save(ctx context.Context, feed model.Feed) error {
	data, err := encodeFeed(feed)
	if err != nil {
		return err
	}
	result, err := r.db.ExecContext(ctx, `
		UPDATE feeds SET data = ?, post_count = ?, updated_at = ? WHERE public_id = ?
	`, data, len(feed.Posts), formatTime(time.Now()), feed.ID)
	if err != nil {
		return fmt.Errorf("update feed: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update feed: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *feedRepository) List(ctx context.Context, limit int) ([]model.FeedSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT public_id, COALESCE(json_extract(data, '$.name'), ''), post_count, created_at, updated_at
		FROM feeds ORDER BY updated_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list feeds: %w", err)
	}
	defer rows.Close()

	var summaries []model.FeedSummary
	for rows.Next() {
		var s model.FeedSummary
		var createdAt, updatedAt string
		if err := rows.Scan(&s.ID, &s.Name, &s.PostCount, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan feed summary: %w", err)
		}
		s.CreatedAt, _ = parseTime(createdAt)
		s.UpdatedAt, _ = parseTime(updatedAt)
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

func encodeFeed(feed model.Feed) (string, error) {
	record := feedRecord{
		ID:           feed.ID,
		Name:         feed.Name,
		About:        feed.About,
		WriteKeyHash: feed.WriteKeyHash,
		CreatedAt:    toMillis(feed.CreatedAt),
		LastPostAt:   toMillis(feed.LastPostAt),
		Posts:        make([]postRecord, 0, len(feed.Posts)),
	}
	for _, p := range feed.Posts {
		record.Posts = append(record.Posts, postRecord{
			ID:        p.ID,
			Content:   p.Content,
			URL:       p.URL,
			Timestamp: toMillis(p.Timestamp),
		})
	}
	data, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("encode feed %s: %w", feed.ID, err)
	}
	return string(data), nil
}

func decodeFeed(data string) (model.Feed, error) {
	var record feedRecord
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		return model.Feed{}, fmt.Errorf("decode feed: %w", err)
	}
	feed := model.Feed{
		ID:           record.ID,
		Name:         record.Name,
		About:        record.About,
		WriteKeyHash: record.WriteKeyHash,
		CreatedAt:    fromMillis(record.CreatedAt),
		LastPostAt:   fromMillis(record.LastPostAt),
		Posts:        make([]model.Post, 0, len(record.Posts)),
	}
	for _, p := range record.Posts {
		feed.Posts = append(feed.Posts, model.Post{
			ID:        p.ID,
			Content:   p.Content,
			URL:       p.URL,
			Timestamp: fromMillis(p.Timestamp),
		})
	}
	return feed, nil
}
