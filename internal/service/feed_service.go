//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/moldandyeast/tinyfeed/internal/keygen"
	"github.com/moldandyeast/tinyfeed/internal/metrics"
	"github.com/moldandyeast/tinyfeed/internal/model"
	"github.com/moldandyeast/tinyfeed/internal/render"
	"github.com/moldandyeast/tinyfeed/internal/repository"
	"github.com/moldandyeast/tinyfeed/pkg/logger"
)

const (
	// PostInterval is the minimum gap between two accepted posts on one feed.
	PostInterval = 60 * time.Second

	createAttempts = 3
	postIDAttempts = 10
)

// FeedCredentials is returned once, when a feed is created.
type FeedCredentials struct {
	ID       string
	WriteKey string
}

// FeedService is the per-feed state machine. Mutations on one feed id are
// serialized; different ids never contend.
type FeedService interface {
	Create(ctx context.Context) (FeedCredentials, error)
	Initialize(ctx context.Context, id, writeKey string) error
	ReadPublic(ctx context.Context, id string) (model.PublicFeed, error)
	UpdateProfile(ctx context.Context, id, credential string, source ProfileSource) error
	CreatePost(ctx context.Context, id, credential string, source PostSource) (model.Post, error)
	DeletePost(ctx context.Context, id, credential, postID string) error
	Export(ctx context.Context, id, credential, format string) (model.ExportDocument, error)
	List(ctx context.Context, limit int) ([]model.FeedSummary, error)
}

type feedService struct {
	feeds  repository.FeedRepository
	hasher keyHasher
	locks  *keyedMutex
	now    func() time.Time
}

// NewFeedService builds the store. keyCost is the bcrypt cost for write keys;
// now may be nil to use the wall clock.
func NewFeedService(feeds repository.FeedRepository, keyCost int, now func() time.Time) FeedService {
	if now == nil {
		now = time.Now
	}
	return &feedService{
		feeds:  feeds,
		hasher: newBcryptHasher(keyCost),
		locks:  newKeyedMutex(),
		now:    now,
	}
}

func (s *feedService) clock() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

func (s *feedService) Create(ctx context.Context) (FeedCredentials, error) {
	start := time.Now()
	for attempt := 0; attempt < createAttempts; attempt++ {
		id, err := keygen.FeedID()
		if err != nil {
			return FeedCredentials{}, s.internal("create", "", start, err)
		}
		writeKey, err := keygen.WriteKey()
		if err != nil {
			return FeedCredentials{}, s.internal("create", id, start, err)
		}

		err = s.Initialize(ctx, id, writeKey)
		if errors.Is(err, ErrAlreadyInitialized) {
			logger.Warn("feed id collision", "module", "service", "action", "create", "resource", "feed", "result", "retry", "feed_id", id, "attempt", attempt+1)
			continue
		}
		if err != nil {
			return FeedCredentials{}, err
		}
		return FeedCredentials{ID: id, WriteKey: writeKey}, nil
	}
	metrics.RecordStoreOperation("create", "collision", time.Since(start).Seconds())
	return FeedCredentials{}, fmt.Errorf("%w: could not allocate a feed id", ErrInternal)
}

func (s *feedService) Initialize(ctx context.Context, id, writeKey string) error {
	start := time.Now()
	if id == "" || writeKey == "" || len(writeKey) > 72 {
		return ErrInvalid
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	hash, err := s.hasher.Hash(writeKey)
	if err != nil {
		return s.internal("initialize", id, start, err)
	}

	feed := model.Feed{
		ID:           id,
		WriteKeyHash: hash,
		CreatedAt:    s.clock(),
		Posts:        []model.Post{},
	}
	if err := s.feeds.Create(ctx, feed); err != nil {
		if errors.Is(err, repository.ErrFeedExists) {
			metrics.RecordStoreOperation("initialize", "conflict", time.Since(start).Seconds())
			return ErrAlreadyInitialized
		}
		return s.internal("initialize", id, start, err)
	}

	logger.Info("feed initialized", "module", "service", "action", "create", "resource", "feed", "result", "ok", "feed_id", id)
	metrics.RecordStoreOperation("initialize", "ok", time.Since(start).Seconds())
	return nil
}

func (s *feedService) ReadPublic(ctx context.Context, id string) (model.PublicFeed, error) {
	start := time.Now()
	feed, err := s.load(ctx, "read", id, start)
	if err != nil {
		return model.PublicFeed{}, err
	}
	metrics.RecordStoreOperation("read", "ok", time.Since(start).Seconds())
	return feed.Public(), nil
}

func (s *feedService) UpdateProfile(ctx context.Context, id, credential string, source ProfileSource) error {
	start := time.Now()
	unlock := s.locks.Lock(id)
	defer unlock()

	feed, err := s.authorize(ctx, "update_profile", id, credential, start)
	if err != nil {
		return err
	}

	update, err := source()
	if err != nil {
		metrics.RecordStoreOperation("update_profile", "invalid", time.Since(start).Seconds())
		return invalidInput(err)
	}

	if update.Name != nil {
		feed.Name, _ = model.TruncateRunes(*update.Name, model.MaxNameLength)
	}
	if update.About != nil {
		feed.About, _ = model.TruncateRunes(*update.About, model.MaxAboutLength)
	}

	if err := s.save(ctx, "update_profile", feed, start); err != nil {
		return err
	}
	logger.Debug("profile updated", "module", "service", "action", "update", "resource", "feed", "result", "ok", "feed_id", id)
	metrics.RecordStoreOperation("update_profile", "ok", time.Since(start).Seconds())
	return nil
}

func (s *feedService) CreatePost(ctx context.Context, id, credential string, source PostSource) (model.Post, error) {
	start := time.Now()
	unlock := s.locks.Lock(id)
	defer unlock()

	feed, err := s.authorize(ctx, "create_post", id, credential, start)
	if err != nil {
		return model.Post{}, err
	}

	now := s.clock()
	if !feed.LastPostAt.IsZero() {
		if elapsed := now.Sub(feed.LastPostAt); elapsed < PostInterval {
			metrics.RecordStoreOperation("create_post", "rate_limited", time.Since(start).Seconds())
			return model.Post{}, &RateLimitError{RetryAfter: retryAfterSeconds(elapsed)}
		}
	}

	input, err := source()
	if err != nil {
		metrics.RecordStoreOperation("create_post", "invalid", time.Since(start).Seconds())
		return model.Post{}, invalidInput(err)
	}
	if strings.TrimSpace(input.Content) == "" {
		metrics.RecordStoreOperation("create_post", "invalid", time.Since(start).Seconds())
		return model.Post{}, ErrContentRequired
	}

	postID, err := newPostID(feed.Posts)
	if err != nil {
		return model.Post{}, s.internal("create_post", id, start, err)
	}

	content, _ := model.TruncateRunes(input.Content, model.MaxContentLength)
	post := model.Post{
		ID:        postID,
		Content:   content,
		URL:       normalizePostURL(input.URL),
		Timestamp: now,
	}

	feed.Posts = append([]model.Post{post}, feed.Posts...)
	if len(feed.Posts) > model.MaxPosts {
		feed.Posts = feed.Posts[:model.MaxPosts]
	}
	feed.LastPostAt = now

	if err := s.save(ctx, "create_post", feed, start); err != nil {
		return model.Post{}, err
	}
	logger.Debug("post created", "module", "service", "action", "create", "resource", "post", "result", "ok", "feed_id", id, "post_id", post.ID)
	metrics.RecordStoreOperation("create_post", "ok", time.Since(start).Seconds())
	return post, nil
}

func (s *feedService) DeletePost(ctx context.Context, id, credential, postID string) error {
	start := time.Now()
	unlock := s.locks.Lock(id)
	defer unlock()

	feed, err := s.authorize(ctx, "delete_post", id, credential, start)
	if err != nil {
		return err
	}

	_, index, found := lo.FindIndexOf(feed.Posts, func(p model.Post) bool { return p.ID == postID })
	if !found {
		metrics.RecordStoreOperation("delete_post", "not_found", time.Since(start).Seconds())
		return ErrPostNotFound
	}
	feed.Posts = append(feed.Posts[:index], feed.Posts[index+1:]...)

	if err := s.save(ctx, "delete_post", feed, start); err != nil {
		return err
	}
	logger.Debug("post deleted", "module", "service", "action", "delete", "resource", "post", "result", "ok", "feed_id", id, "post_id", postID)
	metrics.RecordStoreOperation("delete_post", "ok", time.Since(start).Seconds())
	return nil
}

func (s *feedService) Export(ctx context.Context, id, credential, format string) (model.ExportDocument, error) {
	start := time.Now()
	feed, err := s.authorize(ctx, "export", id, credential, start)
	if err != nil {
		return model.ExportDocument{}, err
	}
	public := feed.Public()

	if format == model.ExportFormatMarkdown {
		metrics.RecordStoreOperation("export", "ok", time.Since(start).Seconds())
		return model.ExportDocument{
			Filename:    id + ".md",
			ContentType: "text/markdown",
			Body:        render.Markdown(public),
		}, nil
	}

	body, err := render.ExportJSON(public, s.clock())
	if err != nil {
		return model.ExportDocument{}, s.internal("export", id, start, err)
	}
	metrics.RecordStoreOperation("export", "ok", time.Since(start).Seconds())
	return model.ExportDocument{
		Filename:    id + ".json",
		ContentType: "application/json",
		Body:        body,
	}, nil
}

func (s *feedService) List(ctx context.Context, limit int) ([]model.FeedSummary, error) {
	summaries, err := s.feeds.List(ctx, limit)
	if err != nil {
		return nil, s.internal("list", "", time.Now(), err)
	}
	return summaries, nil
}

func (s *feedService) load(ctx context.Context, action, id string, start time.Time) (model.Feed, error) {
	feed, err := s.feeds.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			metrics.RecordStoreOperation(action, "not_found", time.Since(start).Seconds())
			return model.Feed{}, ErrFeedNotFound
		}
		return model.Feed{}, s.internal(action, id, start, err)
	}
	return feed, nil
}

func (s *feedService) authorize(ctx context.Context, action, id, credential string, start time.Time) (model.Feed, error) {
	feed, err := s.load(ctx, action, id, start)
	if err != nil {
		return model.Feed{}, err
	}
	if !s.hasher.Verify(feed.WriteKeyHash, credential) {
		logger.Warn("write key rejected", "module", "service", "action", action, "resource", "feed", "result", "unauthorized", "feed_id", id)
		metrics.RecordStoreOperation(action, "unauthorized", time.Since(start).Seconds())
		return model.Feed{}, ErrUnauthorized
	}
	return feed, nil
}

func (s *feedService) save(ctx context.Context, action string, feed model.Feed, start time.Time) error {
	if err := s.feeds.Save(ctx, feed); err != nil {
		return s.internal(action, feed.ID, start, err)
	}
	return nil
}

// internal logs the underlying failure and hides it from callers.
func (s *feedService) internal(action, id string, start time.Time, err error) error {
	logger.Error("feed store failure", "module", "service", "action", action, "resource", "feed", "result", "failed", "feed_id", id, "error", err)
	metrics.RecordStoreOperation(action, "internal", time.Since(start).Seconds())
	return ErrInternal
}

// retryAfterSeconds rounds the remaining wait up to whole seconds.
func retryAfterSeconds(elapsed time.Duration) int {
	remaining := (PostInterval - elapsed).Milliseconds()
	return int((remaining + 999) / 1000)
}

func normalizePostURL(raw *string) *string {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil
	}
	url, _ := model.TruncateRunes(*raw, model.MaxURLLength)
	return &url
}

func newPostID(existing []model.Post) (string, error) {
	taken := make(map[string]struct{}, len(existing))
	for _, p := range existing {
		taken[p.ID] = struct{}{}
	}
	for i := 0; i < postIDAttempts; i++ {
		id, err := keygen.PostID()
		if err != nil {
			return "", err
		}
		if _, dup := taken[id]; !dup {
			return id, nil
		}
	}
	return "", errors.New("no unique post id available")
}
