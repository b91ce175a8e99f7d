package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// maxSlugAttempts bounds the collision-resolution loop during slug
// allocation. The unique constraint on the slug column is the final arbiter
// under concurrent creation; a constraint violation bumps the suffix and
// retries.
const maxSlugAttempts = 100

// PasswordHasher abstracts the slow, salted password hash used for
// credential storage and verification.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Compare returns a non-nil error when plaintext does not match hash.
	Compare(hash, plaintext string) error
}

// BlogService is the core domain service. It owns credential verification,
// ownership enforcement, slug allocation, and the feed queries. All durable
// state lives in the injected repositories; the service itself holds no
// mutable state and is safe for concurrent use.
type BlogService struct {
	accounts  AccountRepository
	posts     PostRepository
	likes     LikeRepository
	bookmarks BookmarkRepository
	hasher    PasswordHasher
	events    EventPublisher
	cache     FeedCache
	logger    *slog.Logger
}

// NewBlogService creates a BlogService. events and cache may be nil when the
// corresponding collaborator is not configured.
func NewBlogService(
	accounts AccountRepository,
	posts PostRepository,
	likes LikeRepository,
	bookmarks BookmarkRepository,
	hasher PasswordHasher,
	events EventPublisher,
	cache FeedCache,
	logger *slog.Logger,
) *BlogService {
	return &BlogService{
		accounts:  accounts,
		posts:     posts,
		likes:     likes,
		bookmarks: bookmarks,
		hasher:    hasher,
		events:    events,
		cache:     cache,
		logger:    logger,
	}
}

// Register creates a password-capable account. The email must not already be
// registered.
func (s *BlogService) Register(ctx context.Context, name, email, password string) (*Account, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" {
		return nil, validationf("Name is required")
	}
	if email == "" {
		return nil, validationf("Email is required")
	}
	if len(password) < 6 {
		return nil, validationf("Password must be at least 6 characters")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := &Account{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.accounts.CreateAccount(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// VerifyCredentials checks an email/password pair. Every failure mode
// (unknown email, wrong password, federated-only account) returns
// ErrInvalidCredentials so the response never reveals which condition failed.
func (s *BlogService) VerifyCredentials(ctx context.Context, email, password string) (*Account, error) {
	account, err := s.accounts.GetAccountByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("look up account: %w", err)
	}
	if !account.HasPassword() {
		return nil, ErrInvalidCredentials
	}
	if err := s.hasher.Compare(account.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return account, nil
}

// FederatedSignIn resolves a federated identity callback to an account,
// keyed by email. An unknown email creates a federated-only account with no
// password hash; a known email updates the display name and signs in to the
// existing account, password-registered or not. The provider is trusted to
// have verified email ownership.
func (s *BlogService) FederatedSignIn(ctx context.Context, email, name string) (*Account, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, validationf("Email is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Unnamed"
	}

	account, err := s.accounts.GetAccountByEmail(ctx, email)
	if err == nil {
		account.Name = name
		if err := s.accounts.UpdateAccount(ctx, account); err != nil {
			return nil, fmt.Errorf("update federated account: %w", err)
		}
		return account, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("look up account: %w", err)
	}

	account = &Account{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.accounts.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, ErrConflict) {
			// Concurrent first sign-in for the same email; the stored row wins.
			return s.accounts.GetAccountByEmail(ctx, email)
		}
		return nil, err
	}
	return account, nil
}

// ChangePassword rotates the caller's password after verifying the current
// one. Accounts without a password hash (federated-only) cannot use this
// operation.
func (s *BlogService) ChangePassword(ctx context.Context, accountID, current, updated string) error {
	if accountID == "" {
		return ErrUnauthenticated
	}
	if current == "" || updated == "" {
		return validationf("Missing fields")
	}
	if len(updated) < 6 {
		return validationf("Password must be at least 6 characters")
	}

	account, err := s.accounts.GetAccount(ctx, accountID)
	if err != nil {
		return err
	}
	if !account.HasPassword() {
		return validationf("Password login not configured for this account")
	}
	if err := s.hasher.Compare(account.PasswordHash, current); err != nil {
		return validationf("Current password is incorrect")
	}

	hash, err := s.hasher.Hash(updated)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	account.PasswordHash = hash
	return s.accounts.UpdateAccount(ctx, account)
}

// GetProfile returns the caller's own profile.
func (s *BlogService) GetProfile(ctx context.Context, accountID string) (Profile, error) {
	if accountID == "" {
		return Profile{}, ErrUnauthenticated
	}
	account, err := s.accounts.GetAccount(ctx, accountID)
	if err != nil {
		return Profile{}, err
	}
	return ProfileOf(account), nil
}

// UpdateProfile applies a partial edit to the caller's own account. The
// session identity is the only target; there is no way to address another
// account.
func (s *BlogService) UpdateProfile(ctx context.Context, accountID string, update ProfileUpdate) (Profile, error) {
	if accountID == "" {
		return Profile{}, ErrUnauthenticated
	}
	account, err := s.accounts.GetAccount(ctx, accountID)
	if err != nil {
		return Profile{}, err
	}

	if update.Name != nil {
		if strings.TrimSpace(*update.Name) == "" {
			return Profile{}, validationf("Name is required")
		}
		account.Name = strings.TrimSpace(*update.Name)
	}
	if update.ShortBio != nil {
		account.ShortBio = *update.ShortBio
	}
	if update.About != nil {
		account.About = *update.About
	}

	if err := s.accounts.UpdateAccount(ctx, account); err != nil {
		return Profile{}, err
	}
	return ProfileOf(account), nil
}

// CreatePost creates a post for the calling account, allocating a unique
// slug from the title. On a slug collision, detected either by the
// existence check or by the unique constraint when two requests race, the
// suffix counter is bumped and the insert retried.
func (s *BlogService) CreatePost(ctx context.Context, authorID string, input NewPost) (*Post, error) {
	if authorID == "" {
		return nil, ErrUnauthenticated
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, validationf("Title is required")
	}

	publish := true
	if input.Publish != nil {
		publish = *input.Publish
	}

	now := time.Now().UTC()
	post := &Post{
		ID:        uuid.NewString(),
		Title:     input.Title,
		Excerpt:   input.Excerpt,
		Content:   input.Content,
		Published: publish,
		CreatedAt: now,
		AuthorID:  authorID,
	}
	if publish {
		post.PublishedAt = &now
	}

	base := Slugify(input.Title)
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		slug := candidateSlug(base, attempt)

		exists, err := s.posts.SlugExists(ctx, slug)
		if err != nil {
			return nil, fmt.Errorf("check slug: %w", err)
		}
		if exists {
			continue
		}

		post.Slug = slug
		err = s.posts.CreatePost(ctx, post)
		if errors.Is(err, ErrConflict) {
			// Lost a concurrent race for this slug; try the next suffix.
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("create post: %w", err)
		}

		if post.Published {
			s.emitPublished(ctx, post)
		}
		s.invalidateFeed(ctx)
		return post, nil
	}
	return nil, fmt.Errorf("allocate slug for %q: no free slug after %d attempts", base, maxSlugAttempts)
}

// GetPostView retrieves a post by slug, decorated for the viewer. Drafts are
// visible only to their author.
func (s *BlogService) GetPostView(ctx context.Context, viewerID, slug string) (*PostView, error) {
	post, err := s.posts.GetPostBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !post.Published && post.AuthorID != viewerID {
		return nil, ErrNotFound
	}
	return s.posts.ViewPost(ctx, viewerID, post)
}

// UpdatePost applies a partial edit to a post. Only the owning account may
// edit; a non-owner gets ErrForbidden, distinct from ErrUnauthenticated.
// The slug never changes, and PublishedAt is set only on the first
// transition to published.
func (s *BlogService) UpdatePost(ctx context.Context, callerID, postID string, update PostUpdate) (*Post, error) {
	post, err := s.authorizeOwner(ctx, callerID, postID)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		if strings.TrimSpace(*update.Title) == "" {
			return nil, validationf("Title is required")
		}
		post.Title = *update.Title
	}
	if update.Excerpt != nil {
		post.Excerpt = *update.Excerpt
	}
	if update.Content != nil {
		post.Content = *update.Content
	}

	firstPublish := false
	if update.Publish != nil {
		if *update.Publish && !post.Published {
			firstPublish = post.PublishedAt == nil
			if firstPublish {
				now := time.Now().UTC()
				post.PublishedAt = &now
			}
		}
		post.Published = *update.Publish
	}

	if err := s.posts.UpdatePost(ctx, post); err != nil {
		return nil, err
	}

	if firstPublish {
		s.emitPublished(ctx, post)
	}
	s.invalidateFeed(ctx)
	return post, nil
}

// DeletePost removes a post and its dependent likes and bookmarks. Owner
// only.
func (s *BlogService) DeletePost(ctx context.Context, callerID, postID string) error {
	if _, err := s.authorizeOwner(ctx, callerID, postID); err != nil {
		return err
	}
	if err := s.posts.DeletePost(ctx, postID); err != nil {
		return err
	}
	s.invalidateFeed(ctx)
	return nil
}

// LikePost records a like on a published post and returns the updated like
// count. Liking an already-liked post is a conflict, surfaced by the unique
// constraint on the (account, post) pair.
func (s *BlogService) LikePost(ctx context.Context, callerID, postID string) (int, error) {
	if callerID == "" {
		return 0, ErrUnauthenticated
	}
	post, err := s.posts.GetPost(ctx, postID)
	if err != nil {
		return 0, err
	}
	if !post.Published {
		return 0, ErrNotFound
	}

	if err := s.likes.CreateLike(ctx, callerID, postID); err != nil {
		return 0, err
	}

	count, err := s.likes.CountLikes(ctx, postID)
	if err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}
	s.emitLiked(ctx, post, count)
	return count, nil
}

// UnlikePost removes the caller's like and returns the updated like count.
// Removing an absent like is a no-op, so retried unlikes are safe.
func (s *BlogService) UnlikePost(ctx context.Context, callerID, postID string) (int, error) {
	if callerID == "" {
		return 0, ErrUnauthenticated
	}
	if _, err := s.posts.GetPost(ctx, postID); err != nil {
		return 0, err
	}
	if err := s.likes.DeleteLike(ctx, callerID, postID); err != nil {
		return 0, err
	}
	count, err := s.likes.CountLikes(ctx, postID)
	if err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}
	return count, nil
}

// ToggleBookmark flips the caller's saved state for a post and returns the
// new state. A concurrent duplicate create is absorbed: the pair's unique
// constraint rejects the second insert and the post simply stays saved.
func (s *BlogService) ToggleBookmark(ctx context.Context, callerID, postID string) (bool, error) {
	if callerID == "" {
		return false, ErrUnauthenticated
	}
	if postID == "" {
		return false, validationf("Missing postId")
	}
	if _, err := s.posts.GetPost(ctx, postID); err != nil {
		return false, err
	}

	saved, err := s.bookmarks.HasBookmark(ctx, callerID, postID)
	if err != nil {
		return false, fmt.Errorf("check bookmark: %w", err)
	}
	if saved {
		if err := s.bookmarks.DeleteBookmark(ctx, callerID, postID); err != nil {
			return false, err
		}
		return false, nil
	}
	if err := s.bookmarks.CreateBookmark(ctx, callerID, postID); err != nil {
		if errors.Is(err, ErrConflict) {
			return true, nil
		}
		return false, err
	}
	return true, nil
}

// HomeFeed returns the most recent published posts. The anonymous feed is
// served from the cache when one is configured; viewer-decorated feeds skip
// the cache because liked/saved flags are per-account.
func (s *BlogService) HomeFeed(ctx context.Context, viewerID string) ([]PostView, error) {
	if viewerID == "" && s.cache != nil {
		if posts, err := s.cache.GetRecent(ctx); err == nil {
			return posts, nil
		}
	}

	posts, err := s.posts.RecentPublished(ctx, viewerID, HomeFeedLimit)
	if err != nil {
		return nil, fmt.Errorf("recent posts: %w", err)
	}

	if viewerID == "" && s.cache != nil {
		if err := s.cache.SetRecent(ctx, posts); err != nil {
			s.logger.Warn("feed cache write failed", "error", err)
		}
	}
	return posts, nil
}

// Stories returns the caller's own posts split into drafts and published.
func (s *BlogService) Stories(ctx context.Context, accountID string) (Stories, error) {
	if accountID == "" {
		return Stories{}, ErrUnauthenticated
	}
	posts, err := s.posts.PostsByAuthor(ctx, accountID, accountID, false)
	if err != nil {
		return Stories{}, fmt.Errorf("author posts: %w", err)
	}

	stories := Stories{Drafts: []PostView{}, Published: []PostView{}}
	for _, p := range posts {
		if p.Published {
			stories.Published = append(stories.Published, p)
		} else {
			stories.Drafts = append(stories.Drafts, p)
		}
	}
	return stories, nil
}

// AuthorPosts returns an author's posts for their public page: published
// only, unless the viewer is the author.
func (s *BlogService) AuthorPosts(ctx context.Context, viewerID, authorID string) ([]PostView, error) {
	if _, err := s.accounts.GetAccount(ctx, authorID); err != nil {
		return nil, err
	}
	return s.posts.PostsByAuthor(ctx, viewerID, authorID, viewerID != authorID)
}

// Library returns the caller's bookmarked posts, most recently saved first.
func (s *BlogService) Library(ctx context.Context, accountID string) ([]PostView, error) {
	if accountID == "" {
		return nil, ErrUnauthenticated
	}
	return s.bookmarks.BookmarkedPosts(ctx, accountID)
}

// Search returns published posts matching the query in title or content.
// An empty query returns an empty result rather than the whole corpus.
func (s *BlogService) Search(ctx context.Context, viewerID, query string) ([]PostView, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []PostView{}, nil
	}
	return s.posts.SearchPublished(ctx, viewerID, query)
}

// authorizeOwner loads a post and enforces the cross-cutting ownership rule:
// anonymous callers are unauthenticated, authenticated non-owners are
// forbidden.
func (s *BlogService) authorizeOwner(ctx context.Context, callerID, postID string) (*Post, error) {
	if callerID == "" {
		return nil, ErrUnauthenticated
	}
	post, err := s.posts.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != callerID {
		return nil, ErrForbidden
	}
	return post, nil
}

func eventFor(post *Post, likeCount int) PostEvent {
	return PostEvent{
		PostID:    post.ID,
		Slug:      post.Slug,
		Title:     post.Title,
		AuthorID:  post.AuthorID,
		LikeCount: likeCount,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// Events are best-effort; failures are logged and never surfaced to the
// caller.

func (s *BlogService) emitPublished(ctx context.Context, post *Post) {
	if s.events == nil {
		return
	}
	if err := s.events.PostPublished(ctx, eventFor(post, 0)); err != nil {
		s.logger.Warn("event publish failed", "post_id", post.ID, "error", err)
	}
}

func (s *BlogService) emitLiked(ctx context.Context, post *Post, likeCount int) {
	if s.events == nil {
		return
	}
	if err := s.events.PostLiked(ctx, eventFor(post, likeCount)); err != nil {
		s.logger.Warn("event publish failed", "post_id", post.ID, "error", err)
	}
}

// invalidateFeed drops the cached home feed after any post mutation.
func (s *BlogService) invalidateFeed(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("feed cache invalidation failed", "error", err)
	}
}
