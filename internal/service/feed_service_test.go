package service_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/moldandyeast/tinyfeed/internal/model"
	"github.com/moldandyeast/tinyfeed/internal/repository"
	"github.com/moldandyeast/tinyfeed/internal/repository/mock"
	"github.com/moldandyeast/tinyfeed/internal/repository/testutil"
	"github.com/moldandyeast/tinyfeed/internal/service"
)

const (
	testFeedID = "abcd2345"
	testKey    = "writekey2345"
)

func strPtr(s string) *string { return &s }

type fixture struct {
	svc   service.FeedService
	repo  repository.FeedRepository
	clock *service.FakeClock
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db := testutil.NewTestDB(t)
	repo := repository.NewFeedRepository(db)
	clock := &service.FakeClock{Current: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	return fixture{
		svc:   service.NewFeedService(repo, bcrypt.MinCost, clock.Now),
		repo:  repo,
		clock: clock,
	}
}

func (f fixture) init(t *testing.T) {
	t.Helper()
	require.NoError(t, f.svc.Initialize(context.Background(), testFeedID, testKey))
}

func TestFeedService_Initialize(t *testing.T) {
	f := newFixture(t)
	f.init(t)

	stored, err := f.repo.Get(context.Background(), testFeedID)
	require.NoError(t, err)
	require.Equal(t, testFeedID, stored.ID)
	require.Empty(t, stored.Name)
	require.Empty(t, stored.About)
	require.Empty(t, stored.Posts)
	require.True(t, stored.LastPostAt.IsZero())
	require.Equal(t, f.clock.Current, stored.CreatedAt)
	require.NotEqual(t, testKey, stored.WriteKeyHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.WriteKeyHash), []byte(testKey)))
}

func TestFeedService_Initialize_RejectsSecondInit(t *testing.T) {
	f := newFixture(t)
	f.init(t)

	err := f.svc.Initialize(context.Background(), testFeedID, "anotherkey23")
	require.ErrorIs(t, err, service.ErrAlreadyInitialized)
	require.ErrorIs(t, err, service.ErrConflict)

	// the original key still works
	require.NoError(t, f.svc.UpdateProfile(context.Background(), testFeedID, testKey, service.ProfileFields(model.ProfileUpdate{Name: strPtr("x")})))
}

func TestFeedService_Initialize_Invalid(t *testing.T) {
	f := newFixture(t)
	require.ErrorIs(t, f.svc.Initialize(context.Background(), "", testKey), service.ErrInvalid)
	require.ErrorIs(t, f.svc.Initialize(context.Background(), testFeedID, ""), service.ErrInvalid)
}

func TestFeedService_Create(t *testing.T) {
	f := newFixture(t)
	creds, err := f.svc.Create(context.Background())
	require.NoError(t, err)
	require.Len(t, creds.ID, 8)
	require.Len(t, creds.WriteKey, 12)

	feed, err := f.svc.ReadPublic(context.Background(), creds.ID)
	require.NoError(t, err)
	require.Equal(t, creds.ID, feed.ID)

	_, err = f.svc.CreatePost(context.Background(), creds.ID, creds.WriteKey, service.PostFields(model.PostInput{Content: "hello"}))
	require.NoError(t, err)
}

func TestFeedService_ReadPublic_NotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.ReadPublic(context.Background(), "missing0")
	require.ErrorIs(t, err, service.ErrNotFound)
}

func TestFeedService_UpdateProfile(t *testing.T) {
	f := newFixture(t)
	f.init(t)
	ctx := context.Background()

	t.Run("applies and truncates fields", func(t *testing.T) {
		err := f.svc.UpdateProfile(ctx, testFeedID, testKey, service.ProfileFields(model.ProfileUpdate{
			Name:  strPtr(strings.Repeat("n", 40)),
			About: strPtr(strings.Repeat("é", 200)),
		}))
		require.NoError(t, err)

		feed, err := f.svc.ReadPublic(ctx, testFeedID)
		require.NoError(t, err)
		require.Equal(t, strings.Repeat("n", 30), feed.Name)
		require.Equal(t, strings.Repeat("é", 160), feed.About)
	})

	t.Run("fields are independently optional", func(t *testing.T) {
		require.NoError(t, f.svc.UpdateProfile(ctx, testFeedID, testKey, service.ProfileFields(model.ProfileUpdate{Name: strPtr("river")})))

		feed, err := f.svc.ReadPublic(ctx, testFeedID)
		require.NoError(t, err)
		require.Equal(t, "river", feed.Name)
		require.Equal(t, strings.Repeat("é", 160), feed.About)
	})

	t.Run("empty string clears a field", func(t *testing.T) {
		require.NoError(t, f.svc.UpdateProfile(ctx, testFeedID, testKey, service.ProfileFields(model.ProfileUpdate{About: strPtr("")})))

		feed, err := f.svc.ReadPublic(ctx, testFeedID)
		require.NoError(t, err)
		require.Equal(t, "river", feed.Name)
		require.Empty(t, feed.About)
	})

	t.Run("missing feed", func(t *testing.T) {
		err := f.svc.UpdateProfile(ctx, "missing0", testKey, service.ProfileFields(model.ProfileUpdate{}))
		require.ErrorIs(t, err, service.ErrNotFound)
	})
}

func TestFeedService_Unauthorized(t *testing.T) {
	f := newFixture(t)
	f.init(t)
	ctx := context.Background()

	for _, credential := range []string{"", "wrongkey2345", testKey + "x"} {
		t.Run(fmt.Sprintf("credential %q", credential), func(t *testing.T) {
			err := f.svc.UpdateProfile(ctx, testFeedID, credential, service.ProfileFields(model.ProfileUpdate{Name: strPtr("x")}))
			require.ErrorIs(t, err, service.ErrUnauthorized)

			_, err = f.svc.CreatePost(ctx, testFeedID, credential, service.PostFields(model.PostInput{Content: "x"}))
			require.ErrorIs(t, err, service.ErrUnauthorized)

			err = f.svc.DeletePost(ctx, testFeedID, credential, "aaaaaa")
			require.ErrorIs(t, err, service.ErrUnauthorized)

			_, err = f.svc.Export(ctx, testFeedID, credential, "json")
			require.ErrorIs(t, err, service.ErrUnauthorized)
		})
	}

	feed, err := f.svc.ReadPublic(ctx, testFeedID)
	require.NoError(t, err)
	require.Empty(t, feed.Name)
	require.Empty(t, feed.Posts)
}

func TestFeedService_CreatePost(t *testing.T) {
	f := newFixture(t)
	f.init(t)
	ctx := context.Background()

	post, err := f.svc.CreatePost(ctx, testFeedID, testKey, service.PostFields(model.PostInput{
		Content: strings.Repeat("c", 600),
		URL:     strPtr("https://example.com/" + strings.Repeat("u", 2100)),
	}))
	require.NoError(t, err)
	require.Len(t, post.ID, 6)
	require.Len(t, post.Content, 500)
	require.NotNil(t, post.URL)
	require.Len(t, *post.URL, 2000)
	require.True(t, strings.HasPrefix(*post.URL, "https://example.com/u"))
	require.Equal(t, f.clock.Current, post.Timestamp)

	stored, err := f.repo.Get(ctx, testFeedID)
	require.NoError(t, err)
	require.Equal(t, f.clock.Current, stored.LastPostAt)
	require.Equal(t, []model.Post{post}, stored.Posts)
}

func TestFeedService_CreatePost_URLHandling(t *testing.T) {
	tests := []struct {
		name string
		url  *string
		want *string
	}{
		{"absent", nil, nil},
		{"empty", strPtr(""), nil},
		{"whitespace", strPtr("   "), nil},
		{"present", strPtr("https://example.com"), strPtr("https://example.com")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.init(t)
			post, err := f.svc.CreatePost(context.Background(), testFeedID, testKey, service.PostFields(model.PostInput{Content: "hi", URL: tt.url}))
			require.NoError(t, err)
			require.Equal(t, tt.want, post.URL)
		})
	}
}

func TestFeedService_CreatePost_EmptyContent(t *testing.T) {
	f := newFixture(t)
	f.init(t)

	for _, content := range []string{"", "   ", "\n\t"} {
		_, err := f.svc.CreatePost(context.Background(), testFeedID, testKey, service.PostFields(model.PostInput{Content: content}))
		require.ErrorIs(t, err, service.ErrInvalid)
	}

	stored, err := f.repo.Get(context.Background(), testFeedID)
	require.NoError(t, err)
	require.Empty(t, stored.Posts)
	require.True(t, stored.LastPostAt.IsZero())
}

func TestFeedService_SourceDecodedAfterChecks(t *testing.T) {
	f := newFixture(t)
	f.init(t)
	ctx := context.Background()

	calls := 0
	badPost := func() (model.PostInput, error) {
		calls++
		return model.PostInput{}, errors.New("unexpected EOF")
	}
	badProfile := func() (model.ProfileUpdate, error) {
		calls++
		return model.ProfileUpdate{}, errors.New("unexpected EOF")
	}

	_, err := f.svc.CreatePost(ctx, "missing0", testKey, badPost)
	require.ErrorIs(t, err, service.ErrNotFound)
	_, err = f.svc.CreatePost(ctx, testFeedID, "wrongkey2345", badPost)
	require.ErrorIs(t, err, service.ErrUnauthorized)
	err = f.svc.UpdateProfile(ctx, testFeedID, "wrongkey2345", badProfile)
	require.ErrorIs(t, err, service.ErrUnauthorized)
	require.Zero(t, calls)

	_, err = f.svc.CreatePost(ctx, testFeedID, testKey, service.PostFields(model.PostInput{Content: "first"}))
	require.NoError(t, err)
	_, err = f.svc.CreatePost(ctx, testFeedID, testKey, badPost)
	require.ErrorIs(t, err, service.ErrRateLimited)
	require.Zero(t, calls)

	f.clock.Advance(service.PostInterval)
	_, err = f.svc.CreatePost(ctx, testFeedID, testKey, badPost)
	require.ErrorIs(t, err, service.ErrInvalid)
	err = f.svc.UpdateProfile(ctx, testFeedID, testKey, badProfile)
	require.ErrorIs(t, err, service.ErrInvalid)
	require.Equal(t, 2, calls)

	stored, err := f.repo.Get(ctx, testFeedID)
	require.NoError(t, err)
	require.Len(t, stored.Posts, 1)
	require.Empty(t, stored.Name)
}

func TestFeedService_CreatePost_NotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.CreatePost(context.Background(), "missing0", testKey, service.PostFields(model.PostInput{Content: "x"}))
	require.ErrorIs(t, err, service.ErrNotFound)
}

func TestFeedService_CreatePost_RateLimited(t *testing.T) {
	tests := []struct {
		name      string
		elapsed   time.Duration
		wantRetry int
	}{
		{"immediately", 0, 60},
		{"after 1ms", time.Millisecond, 60},
		{"after 999ms", 999 * time.Millisecond, 60},
		{"after 1s", time.Second, 59},
		{"after 30.5s", 30500 * time.Millisecond, 30},
		{"after 59.001s", 59001 * time.Millisecond, 1},
		{"after 59.999s", 59999 * time.Millisecond, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.init(t)
			ctx := context.Background()

			_, err := f.svc.CreatePost(ctx, testFeedID, testKey, service.PostFields(model.PostInput{Content: "first"}))
			require.NoError(t, err)

			f.clock.Advance(tt.elapsed)
			_, err = f.svc.CreatePost(ctx, testFeedID, testKey, service.PostFields(model.PostInput{Content: "second"}))
			require.ErrorIs(t, err, service.ErrRateLimited)

			var rl *service.RateLimitError
			require.True(t, errors.As(err, &rl))
			require.Equal(t, tt.wantRetry, rl.RetryAfter)
		})
	}
}

func TestFeedService_CreatePost_RateLimitWindowExpires(t *testing.T) {
	f := newFixture(t)
	f.init(t)
	ctx := context.Background()

	_, err := f.svc.CreatePost(ctx, testFeedID, testKey, service.PostFields(model.PostInput{Content: "first"}))
	require.NoError(t, err)

	f.clock.Advance(60 * time.Second)
	second, err := f.svc.CreatePost(ctx, testFeedID, testKey, service.PostFields(model.PostInput{Content: "second"}))
	require.NoError(t, err)

	feed, err := f.svc.ReadPublic(ctx, testFeedID)
	require.NoError(t, err)
	require.Len(t, feed.Posts, 2)
	require.Equal(t, second.ID, feed.Posts[0].ID)
	require.Equal(t, "first", feed.Posts[1].Content)
}

func TestFeedService_CreatePost_RateLimitCheckedBeforeContent(t *testing.T) {
	f := newFixture(t)
	f.init(t)
	ctx := context.Background()

	_, err := f.svc.CreatePost(ctx, testFeedID, testKey, service.PostFields(model.PostInput{Content: "first"}))
	require.NoError(t, err)

	_, err = f.svc.CreatePost(ctx, testFeedID, testKey, service.PostFields(model.PostInput{Content: " "}))
	require.ErrorIs(t, err, service.ErrRateLimited)
}

func TestFeedService_CreatePost_RetainsNewestThousand(t *testing.T) {
	f := newFixture(t)
	f.init(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < model.MaxPosts+1; i++ {
		post, err := f.svc.CreatePost(ctx, testFeedID, testKey, service.PostFields(model.PostInput{Content: fmt.Sprintf("post %d", i)}))
		require.NoError(t, err)
		ids = append(ids, post.ID)
		f.clock.Advance(61 * time.Second)
	}

	feed, err := f.svc.ReadPublic(ctx, testFeedID)
	require.NoError(t, err)
	require.Len(t, feed.Posts, model.MaxPosts)
	require.Equal(t, fmt.Sprintf("post %d", model.MaxPosts), feed.Posts[0].Content)
	require.Equal(t, "post 1", feed.Posts[model.MaxPosts-1].Content)
	for i, post := range feed.Posts {
		require.Equal(t, ids[len(ids)-1-i], post.ID)
	}

	seen := make(map[string]struct{}, len(feed.Posts))
	for _, post := range feed.Posts {
		_, dup := seen[post.ID]
		require.False(t, dup, "duplicate post id %s", post.ID)
		seen[post.ID] = struct{}{}
	}
}

func TestFeedService_DeletePost(t *testing.T) {
	f := newFixture(t)
	f.init(t)
	ctx := context.Background()

	first, err := f.svc.CreatePost(ctx, testFeedID, testKey, service.PostFields(model.PostInput{Content: "first"}))
	require.NoError(t, err)
	f.clock.Advance(time.Minute)
	second, err := f.svc.CreatePost(ctx, testFeedID, testKey, service.PostFields(model.PostInput{Content: "second"}))
	require.NoError(t, err)

	require.NoError(t, f.svc.DeletePost(ctx, testFeedID, testKey, first.ID))

	feed, err := f.svc.ReadPublic(ctx, testFeedID)
	require.NoError(t, err)
	require.Equal(t, []model.Post{second}, feed.Posts)

	t.Run("unknown post", func(t *testing.T) {
		err := f.svc.DeletePost(ctx, testFeedID, testKey, first.ID)
		require.ErrorIs(t, err, service.ErrNotFound)
	})

	t.Run("unknown feed", func(t *testing.T) {
		err := f.svc.DeletePost(ctx, "missing0", testKey, second.ID)
		require.ErrorIs(t, err, service.ErrNotFound)
	})
}

func TestFeedService_DeletePost_DoesNotResetRateLimit(t *testing.T) {
	f := newFixture(t)
	f.init(t)
	ctx := context.Background()

	post, err := f.svc.CreatePost(ctx, testFeedID, testKey, service.PostFields(model.PostInput{Content: "oops"}))
	require.NoError(t, err)
	require.NoError(t, f.svc.DeletePost(ctx, testFeedID, testKey, post.ID))

	_, err = f.svc.CreatePost(ctx, testFeedID, testKey, service.PostFields(model.PostInput{Content: "again"}))
	require.ErrorIs(t, err, service.ErrRateLimited)
}

func TestFeedService_Export_MarkdownEmpty(t *testing.T) {
	f := newFixture(t)
	f.init(t)

	doc, err := f.svc.Export(context.Background(), testFeedID, testKey, "md")
	require.NoError(t, err)
	require.Equal(t, testFeedID+".md", doc.Filename)
	require.Equal(t, "text/markdown", doc.ContentType)
	require.Equal(t, "# "+testFeedID+"\n\n---\n", string(doc.Body))
}

func TestFeedService_Export_JSONEmpty(t *testing.T) {
	f := newFixture(t)
	f.init(t)

	doc, err := f.svc.Export(context.Background(), testFeedID, testKey, "json")
	require.NoError(t, err)
	require.Equal(t, testFeedID+".json", doc.Filename)
	require.Equal(t, "application/json", doc.ContentType)

	var body map[string]any
	require.NoError(t, json.Unmarshal(doc.Body, &body))
	require.Equal(t, []any{}, body["posts"])
	require.Equal(t, float64(f.clock.Current.UnixMilli()), body["exportedAt"])
	require.Equal(t, testFeedID, body["id"])
}

func TestFeedService_Export_UnknownFormatFallsBackToJSON(t *testing.T) {
	f := newFixture(t)
	f.init(t)

	for _, format := range []string{"", "xml", "MD"} {
		doc, err := f.svc.Export(context.Background(), testFeedID, testKey, format)
		require.NoError(t, err)
		require.Equal(t, "application/json", doc.ContentType)
		require.True(t, json.Valid(doc.Body))
	}
}

func TestFeedService_Export_MarkdownWithPosts(t *testing.T) {
	f := newFixture(t)
	f.init(t)
	ctx := context.Background()

	require.NoError(t, f.svc.UpdateProfile(ctx, testFeedID, testKey, service.ProfileFields(model.ProfileUpdate{Name: strPtr("river"), About: strPtr("notes")})))
	_, err := f.svc.CreatePost(ctx, testFeedID, testKey, service.PostFields(model.PostInput{Content: "hello", URL: strPtr("https://example.com")}))
	require.NoError(t, err)

	doc, err := f.svc.Export(ctx, testFeedID, testKey, "md")
	require.NoError(t, err)
	require.Equal(t, "# river\n\n*notes*\n\n---\n\nhello\n→ https://example.com\n— 2024-05-01\n", string(doc.Body))
}

func TestFeedService_ConcurrentPostsOnOneFeed(t *testing.T) {
	f := newFixture(t)
	f.init(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	results := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.svc.CreatePost(ctx, testFeedID, testKey, service.PostFields(model.PostInput{Content: fmt.Sprintf("post %d", i)}))
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	var ok, limited int
	for err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, service.ErrRateLimited):
			limited++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	require.Equal(t, 1, ok)
	require.Equal(t, 9, limited)
}

func TestFeedService_StorageFailuresAreInternal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock.NewMockFeedRepository(ctrl)
	svc := service.NewFeedService(repo, bcrypt.MinCost, nil)
	ctx := context.Background()
	boom := errors.New("disk on fire")

	repo.EXPECT().Get(gomock.Any(), testFeedID).Return(model.Feed{}, boom)
	_, err := svc.ReadPublic(ctx, testFeedID)
	require.ErrorIs(t, err, service.ErrInternal)
	require.NotContains(t, err.Error(), "disk on fire")

	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(boom)
	err = svc.Initialize(ctx, testFeedID, testKey)
	require.ErrorIs(t, err, service.ErrInternal)

	repo.EXPECT().List(gomock.Any(), 10).Return(nil, boom)
	_, err = svc.List(ctx, 10)
	require.ErrorIs(t, err, service.ErrInternal)
}

func TestFeedService_SaveFailureIsInternal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	hash, err := bcrypt.GenerateFromPassword([]byte(testKey), bcrypt.MinCost)
	require.NoError(t, err)

	repo := mock.NewMockFeedRepository(ctrl)
	svc := service.NewFeedService(repo, bcrypt.MinCost, nil)

	repo.EXPECT().Get(gomock.Any(), testFeedID).Return(model.Feed{ID: testFeedID, WriteKeyHash: string(hash)}, nil)
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("locked"))

	_, err = svc.CreatePost(context.Background(), testFeedID, testKey, service.PostFields(model.PostInput{Content: "hi"}))
	require.ErrorIs(t, err, service.ErrInternal)
}

func TestFeedService_Create_RetriesOnCollision(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock.NewMockFeedRepository(ctrl)
	svc := service.NewFeedService(repo, bcrypt.MinCost, nil)

	gomock.InOrder(
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(repository.ErrFeedExists),
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil),
	)

	creds, err := svc.Create(context.Background())
	require.NoError(t, err)
	require.Len(t, creds.ID, 8)
}

func TestFeedService_Create_GivesUpAfterThreeCollisions(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock.NewMockFeedRepository(ctrl)
	svc := service.NewFeedService(repo, bcrypt.MinCost, nil)

	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(repository.ErrFeedExists).Times(3)

	_, err := svc.Create(context.Background())
	require.ErrorIs(t, err, service.ErrInternal)
}

func TestFeedService_NotFoundFromRepository(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock.NewMockFeedRepository(ctrl)
	svc := service.NewFeedService(repo, bcrypt.MinCost, nil)

	repo.EXPECT().Get(gomock.Any(), "missing0").Return(model.Feed{}, sql.ErrNoRows)
	_, err := svc.Export(context.Background(), "missing0", testKey, "md")
	require.ErrorIs(t, err, service.ErrNotFound)
}

func TestRetryAfterSeconds(t *testing.T) {
	require.Equal(t, 60, service.RetryAfterSeconds(0))
	require.Equal(t, 1, service.RetryAfterSeconds(59999*time.Millisecond))
	require.Equal(t, 30, service.RetryAfterSeconds(30*time.Second))
}

func TestNewPostID_AvoidsExisting(t *testing.T) {
	existing := make([]model.Post, 0, 100)
	for i := 0; i < 100; i++ {
		id, err := service.NewPostID(existing)
		require.NoError(t, err)
		for _, p := range existing {
			require.NotEqual(t, p.ID, id)
		}
		existing = append(existing, model.Post{ID: id})
	}
}
