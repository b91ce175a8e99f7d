package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhuumii/Medium/internal/domain"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func insertAccount(t *testing.T, repo *Repository, name, email string) *domain.Account {
	t.Helper()
	account := &domain.Account{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.CreateAccount(context.Background(), account))
	return account
}

func insertPost(t *testing.T, repo *Repository, authorID, slug string, published bool) *domain.Post {
	t.Helper()
	now := time.Now().UTC()
	post := &domain.Post{
		ID:        uuid.NewString(),
		Slug:      slug,
		Title:     slug,
		Content:   "<p>" + slug + "</p>",
		Published: published,
		CreatedAt: now,
		AuthorID:  authorID,
	}
	if published {
		post.PublishedAt = &now
	}
	require.NoError(t, repo.CreatePost(context.Background(), post))
	return post
}

func TestAccountEmailUnique(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	insertAccount(t, repo, "Alice", "alice@x.com")

	dup := &domain.Account{ID: uuid.NewString(), Name: "Other", Email: "alice@x.com", CreatedAt: time.Now().UTC()}
	err := repo.CreateAccount(ctx, dup)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestAccountLookupAndUpdate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	alice := insertAccount(t, repo, "Alice", "alice@x.com")

	got, err := repo.GetAccount(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", got.Email)

	got, err = repo.GetAccountByEmail(ctx, "alice@x.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)

	_, err = repo.GetAccount(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = repo.GetAccountByEmail(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got.Name = "Alice G"
	got.ShortBio = "bio"
	require.NoError(t, repo.UpdateAccount(ctx, got))
	got, err = repo.GetAccount(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice G", got.Name)
	assert.Equal(t, "bio", got.ShortBio)

	err = repo.UpdateAccount(ctx, &domain.Account{ID: "missing", Name: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPostSlugUnique(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	alice := insertAccount(t, repo, "Alice", "alice@x.com")
	insertPost(t, repo, alice.ID, "hello-world", true)

	dup := &domain.Post{ID: uuid.NewString(), Slug: "hello-world", Title: "x", CreatedAt: time.Now().UTC(), AuthorID: alice.ID}
	err := repo.CreatePost(ctx, dup)
	assert.ErrorIs(t, err, domain.ErrConflict)

	exists, err := repo.SlugExists(ctx, "hello-world")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = repo.SlugExists(ctx, "elsewhere")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUpdatePostNeverTouchesSlug(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	alice := insertAccount(t, repo, "Alice", "alice@x.com")
	post := insertPost(t, repo, alice.ID, "stable-slug", false)

	post.Title = "New Title"
	post.Slug = "attempted-rename"
	require.NoError(t, repo.UpdatePost(ctx, post))

	got, err := repo.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "New Title", got.Title)
	assert.Equal(t, "stable-slug", got.Slug)

	_, err = repo.GetPostBySlug(ctx, "attempted-rename")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeletePostCascades(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	alice := insertAccount(t, repo, "Alice", "alice@x.com")
	bob := insertAccount(t, repo, "Bob", "bob@x.com")
	post := insertPost(t, repo, alice.ID, "doomed", true)

	require.NoError(t, repo.CreateLike(ctx, bob.ID, post.ID))
	require.NoError(t, repo.CreateBookmark(ctx, bob.ID, post.ID))

	require.NoError(t, repo.DeletePost(ctx, post.ID))
	assert.ErrorIs(t, repo.DeletePost(ctx, post.ID), domain.ErrNotFound)

	count, err := repo.CountLikes(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	saved, err := repo.HasBookmark(ctx, bob.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, saved)
}

func TestLikePairUnique(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	alice := insertAccount(t, repo, "Alice", "alice@x.com")
	bob := insertAccount(t, repo, "Bob", "bob@x.com")
	post := insertPost(t, repo, alice.ID, "likeable", true)

	require.NoError(t, repo.CreateLike(ctx, bob.ID, post.ID))
	assert.ErrorIs(t, repo.CreateLike(ctx, bob.ID, post.ID), domain.ErrConflict)

	require.NoError(t, repo.CreateLike(ctx, alice.ID, post.ID))
	count, err := repo.CountLikes(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, repo.DeleteLike(ctx, bob.ID, post.ID))
	require.NoError(t, repo.DeleteLike(ctx, bob.ID, post.ID), "absent like is not an error")
	count, err = repo.CountLikes(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRecentPublishedDecoration(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	alice := insertAccount(t, repo, "Alice", "alice@x.com")
	bob := insertAccount(t, repo, "Bob", "bob@x.com")
	post := insertPost(t, repo, alice.ID, "decorated", true)
	insertPost(t, repo, alice.ID, "hidden-draft", false)

	require.NoError(t, repo.CreateLike(ctx, bob.ID, post.ID))
	require.NoError(t, repo.CreateBookmark(ctx, bob.ID, post.ID))

	// Anonymous viewer sees counts but no personal flags.
	views, err := repo.RecentPublished(ctx, "", 20)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Alice", views[0].AuthorName)
	assert.Equal(t, 1, views[0].LikeCount)
	assert.False(t, views[0].Liked)
	assert.False(t, views[0].Saved)

	views, err = repo.RecentPublished(ctx, bob.ID, 20)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.True(t, views[0].Liked)
	assert.True(t, views[0].Saved)
}

func TestRecentPublishedOrderAndLimit(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	alice := insertAccount(t, repo, "Alice", "alice@x.com")
	now := time.Now().UTC()
	for i, slug := range []string{"oldest", "middle", "newest"} {
		post := &domain.Post{
			ID:          uuid.NewString(),
			Slug:        slug,
			Title:       slug,
			Published:   true,
			PublishedAt: &now,
			CreatedAt:   now.Add(time.Duration(i) * time.Second),
			AuthorID:    alice.ID,
		}
		require.NoError(t, repo.CreatePost(ctx, post))
	}

	views, err := repo.RecentPublished(ctx, "", 2)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "newest", views[0].Slug)
	assert.Equal(t, "middle", views[1].Slug)
}

func TestPostsByAuthorFiltersDrafts(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	alice := insertAccount(t, repo, "Alice", "alice@x.com")
	insertPost(t, repo, alice.ID, "out-there", true)
	insertPost(t, repo, alice.ID, "in-progress", false)

	views, err := repo.PostsByAuthor(ctx, "", alice.ID, true)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "out-there", views[0].Slug)

	views, err = repo.PostsByAuthor(ctx, alice.ID, alice.ID, false)
	require.NoError(t, err)
	assert.Len(t, views, 2)
}

func TestSearchPublished(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	alice := insertAccount(t, repo, "Alice", "alice@x.com")
	now := time.Now().UTC()
	match := &domain.Post{
		ID:          uuid.NewString(),
		Slug:        "go-channels",
		Title:       "Understanding Go Channels",
		Content:     "<p>buffered and unbuffered</p>",
		Published:   true,
		PublishedAt: &now,
		CreatedAt:   now,
		AuthorID:    alice.ID,
	}
	require.NoError(t, repo.CreatePost(ctx, match))
	insertPost(t, repo, alice.ID, "unrelated", true)

	views, err := repo.SearchPublished(ctx, "", "Channels")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "go-channels", views[0].Slug)

	// Content matches too.
	views, err = repo.SearchPublished(ctx, "", "unbuffered")
	require.NoError(t, err)
	assert.Len(t, views, 1)

	views, err = repo.SearchPublished(ctx, "", "nomatch")
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestBookmarkedPostsOrderedBySaveTime(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	alice := insertAccount(t, repo, "Alice", "alice@x.com")
	bob := insertAccount(t, repo, "Bob", "bob@x.com")
	first := insertPost(t, repo, alice.ID, "saved-first", true)
	second := insertPost(t, repo, alice.ID, "saved-second", true)

	require.NoError(t, repo.CreateBookmark(ctx, bob.ID, first.ID))
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, repo.CreateBookmark(ctx, bob.ID, second.ID))
	assert.ErrorIs(t, repo.CreateBookmark(ctx, bob.ID, second.ID), domain.ErrConflict)

	views, err := repo.BookmarkedPosts(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "saved-second", views[0].Slug)
	assert.True(t, views[0].Saved)
	assert.Equal(t, "saved-first", views[1].Slug)
}
