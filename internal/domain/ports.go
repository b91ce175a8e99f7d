package domain

import "context"

// AccountRepository defines persistence operations for accounts.
type AccountRepository interface {
	// CreateAccount inserts a new account. Returns ErrConflict when the
	// email is already registered.
	CreateAccount(ctx context.Context, account *Account) error

	// GetAccount retrieves an account by ID. Returns ErrNotFound when absent.
	GetAccount(ctx context.Context, id string) (*Account, error)

	// GetAccountByEmail retrieves an account by exact email match. Returns
	// ErrNotFound when absent.
	GetAccountByEmail(ctx context.Context, email string) (*Account, error)

	// UpdateAccount persists the account's mutable fields (name, bio, about,
	// password hash). Returns ErrNotFound when absent.
	UpdateAccount(ctx context.Context, account *Account) error
}

// PostRepository defines persistence operations for posts. The slug column
// carries a unique constraint which is the final arbiter for concurrent slug
// allocation; CreatePost surfaces a violation as ErrConflict.
type PostRepository interface {
	// CreatePost inserts a new post. Returns ErrConflict when the slug is
	// already taken.
	CreatePost(ctx context.Context, post *Post) error

	// GetPost retrieves a post by ID. Returns ErrNotFound when absent.
	GetPost(ctx context.Context, id string) (*Post, error)

	// GetPostBySlug retrieves a post by slug. Returns ErrNotFound when absent.
	GetPostBySlug(ctx context.Context, slug string) (*Post, error)

	// SlugExists reports whether any post already holds the slug.
	SlugExists(ctx context.Context, slug string) (bool, error)

	// UpdatePost persists the post's mutable fields. The slug is never
	// updated. Returns ErrNotFound when absent.
	UpdatePost(ctx context.Context, post *Post) error

	// DeletePost removes a post and, via cascade, its likes and bookmarks.
	// Returns ErrNotFound when absent.
	DeletePost(ctx context.Context, id string) error

	// RecentPublished retrieves published posts ordered by creation time
	// descending, decorated for the given viewer ("" for anonymous).
	RecentPublished(ctx context.Context, viewerID string, limit int) ([]PostView, error)

	// PostsByAuthor retrieves an author's posts, newest first, decorated for
	// the given viewer. When publishedOnly is set, drafts are excluded.
	PostsByAuthor(ctx context.Context, viewerID, authorID string, publishedOnly bool) ([]PostView, error)

	// SearchPublished retrieves published posts whose title or content
	// contains the query, newest first.
	SearchPublished(ctx context.Context, viewerID, query string) ([]PostView, error)

	// ViewPost decorates a single post for the given viewer.
	ViewPost(ctx context.Context, viewerID string, post *Post) (*PostView, error)
}

// LikeRepository defines persistence for the (account, post) like relation,
// unique per pair.
type LikeRepository interface {
	// CreateLike inserts a like. Returns ErrConflict when the pair already
	// exists; the unique constraint is the guard against concurrent toggles.
	CreateLike(ctx context.Context, accountID, postID string) error

	// DeleteLike removes a like if present. Deleting an absent like is not
	// an error.
	DeleteLike(ctx context.Context, accountID, postID string) error

	// CountLikes returns the number of likes on a post.
	CountLikes(ctx context.Context, postID string) (int, error)
}

// BookmarkRepository defines persistence for the (account, post) bookmark
// relation, unique per pair.
type BookmarkRepository interface {
	// HasBookmark reports whether the account has saved the post.
	HasBookmark(ctx context.Context, accountID, postID string) (bool, error)

	// CreateBookmark inserts a bookmark. Returns ErrConflict when the pair
	// already exists.
	CreateBookmark(ctx context.Context, accountID, postID string) error

	// DeleteBookmark removes a bookmark if present.
	DeleteBookmark(ctx context.Context, accountID, postID string) error

	// BookmarkedPosts retrieves the account's saved posts, most recently
	// saved first.
	BookmarkedPosts(ctx context.Context, accountID string) ([]PostView, error)
}

// EventPublisher receives post lifecycle events. Implementations must be
// safe for concurrent use; failures are logged by the service, never
// surfaced to clients.
type EventPublisher interface {
	PostPublished(ctx context.Context, event PostEvent) error
	PostLiked(ctx context.Context, event PostEvent) error
}

// FeedCache caches the home feed. Implementations return ErrNotFound (or any
// error) on miss; the service falls through to the repository.
type FeedCache interface {
	GetRecent(ctx context.Context) ([]PostView, error)
	SetRecent(ctx context.Context, posts []PostView) error
	Invalidate(ctx context.Context) error
}
