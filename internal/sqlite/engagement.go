package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/bhuumii/Medium/internal/domain"
)

// CreateLike inserts a like. The UNIQUE (account_id, post_id) constraint
// rejects a duplicate, which is surfaced as domain.ErrConflict; under
// concurrent toggles the constraint, not the preceding read, is the arbiter.
func (r *Repository) CreateLike(ctx context.Context, accountID, postID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO likes (account_id, post_id, created_at) VALUES (?, ?, ?)`,
		accountID, postID, time.Now().UTC(),
	)
	if isUniqueViolation(err) {
		return domain.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("insert like: %w", err)
	}
	return nil
}

// DeleteLike removes a like if present.
func (r *Repository) DeleteLike(ctx context.Context, accountID, postID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM likes WHERE account_id = ? AND post_id = ?`,
		accountID, postID,
	)
	if err != nil {
		return fmt.Errorf("delete like: %w", err)
	}
	return nil
}

// CountLikes returns the number of likes on a post.
func (r *Repository) CountLikes(ctx context.Context, postID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM likes WHERE post_id = ?`, postID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}
	return count, nil
}

// HasBookmark reports whether the account has saved the post.
func (r *Repository) HasBookmark(ctx context.Context, accountID, postID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM bookmarks WHERE account_id = ? AND post_id = ?)`,
		accountID, postID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check bookmark: %w", err)
	}
	return exists, nil
}

// CreateBookmark inserts a bookmark; a duplicate pair is domain.ErrConflict.
func (r *Repository) CreateBookmark(ctx context.Context, accountID, postID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO bookmarks (account_id, post_id, created_at) VALUES (?, ?, ?)`,
		accountID, postID, time.Now().UTC(),
	)
	if isUniqueViolation(err) {
		return domain.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("insert bookmark: %w", err)
	}
	return nil
}

// DeleteBookmark removes a bookmark if present.
func (r *Repository) DeleteBookmark(ctx context.Context, accountID, postID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM bookmarks WHERE account_id = ? AND post_id = ?`,
		accountID, postID,
	)
	if err != nil {
		return fmt.Errorf("delete bookmark: %w", err)
	}
	return nil
}

// BookmarkedPosts retrieves the account's saved posts, most recently saved
// first.
func (r *Repository) BookmarkedPosts(ctx context.Context, accountID string) ([]domain.PostView, error) {
	rows, err := r.db.QueryContext(ctx, postViewQuery+`
		JOIN bookmarks bm ON bm.post_id = p.id
		WHERE bm.account_id = ?
		ORDER BY bm.created_at DESC`,
		accountID, accountID, accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("query bookmarked posts: %w", err)
	}
	return scanPostViews(rows)
}
