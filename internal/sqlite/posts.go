package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bhuumii/Medium/internal/domain"
)

const postColumns = `p.id, p.slug, p.title, p.excerpt, p.content, p.published, p.published_at, p.created_at, p.author_id`

// postViewQuery selects posts decorated with the author name, the like
// count read at query time, and the viewer's liked/saved flags. The first
// two bind parameters are the viewer's account ID ("" for anonymous, which
// matches no rows).
const postViewQuery = `
	SELECT ` + postColumns + `,
	       a.name,
	       (SELECT COUNT(*) FROM likes l WHERE l.post_id = p.id) AS like_count,
	       EXISTS(SELECT 1 FROM likes l WHERE l.post_id = p.id AND l.account_id = ?) AS liked,
	       EXISTS(SELECT 1 FROM bookmarks b WHERE b.post_id = p.id AND b.account_id = ?) AS saved
	FROM posts p
	JOIN accounts a ON a.id = p.author_id`

// CreatePost inserts a new post. A slug collision is reported as
// domain.ErrConflict so the allocator can bump the suffix and retry.
func (r *Repository) CreatePost(ctx context.Context, post *domain.Post) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO posts (id, slug, title, excerpt, content, published, published_at, created_at, author_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		post.ID,
		post.Slug,
		post.Title,
		post.Excerpt,
		post.Content,
		post.Published,
		post.PublishedAt,
		post.CreatedAt,
		post.AuthorID,
	)
	if isUniqueViolation(err) {
		return domain.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

// GetPost retrieves a post by ID.
func (r *Repository) GetPost(ctx context.Context, id string) (*domain.Post, error) {
	return scanPost(r.db.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM posts p WHERE p.id = ?`, id))
}

// GetPostBySlug retrieves a post by slug.
func (r *Repository) GetPostBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	return scanPost(r.db.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM posts p WHERE p.slug = ?`, slug))
}

// SlugExists reports whether any post already holds the slug.
func (r *Repository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM posts WHERE slug = ?)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	return exists, nil
}

// UpdatePost persists the post's mutable fields. The slug is immutable and
// deliberately absent from the SET list.
func (r *Repository) UpdatePost(ctx context.Context, post *domain.Post) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE posts
		SET title = ?, excerpt = ?, content = ?, published = ?, published_at = ?
		WHERE id = ?`,
		post.Title,
		post.Excerpt,
		post.Content,
		post.Published,
		post.PublishedAt,
		post.ID,
	)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeletePost removes a post; likes and bookmarks cascade.
func (r *Repository) DeletePost(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// RecentPublished retrieves published posts, newest first.
func (r *Repository) RecentPublished(ctx context.Context, viewerID string, limit int) ([]domain.PostView, error) {
	rows, err := r.db.QueryContext(ctx, postViewQuery+`
		WHERE p.published = 1
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT ?`,
		viewerID, viewerID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query recent posts: %w", err)
	}
	return scanPostViews(rows)
}

// PostsByAuthor retrieves an author's posts, newest first, decorated for the
// viewer.
func (r *Repository) PostsByAuthor(ctx context.Context, viewerID, authorID string, publishedOnly bool) ([]domain.PostView, error) {
	query := postViewQuery + ` WHERE p.author_id = ?`
	if publishedOnly {
		query += ` AND p.published = 1`
	}
	query += ` ORDER BY p.created_at DESC, p.id DESC`

	rows, err := r.db.QueryContext(ctx, query, viewerID, viewerID, authorID)
	if err != nil {
		return nil, fmt.Errorf("query author posts: %w", err)
	}
	return scanPostViews(rows)
}

// SearchPublished retrieves published posts whose title or content contains
// the query, newest first.
func (r *Repository) SearchPublished(ctx context.Context, viewerID, query string) ([]domain.PostView, error) {
	pattern := "%" + query + "%"
	rows, err := r.db.QueryContext(ctx, postViewQuery+`
		WHERE p.published = 1 AND (p.title LIKE ? OR p.content LIKE ?)
		ORDER BY p.created_at DESC, p.id DESC`,
		viewerID, viewerID, pattern, pattern,
	)
	if err != nil {
		return nil, fmt.Errorf("search posts: %w", err)
	}
	return scanPostViews(rows)
}

// ViewPost decorates a single post for the given viewer.
func (r *Repository) ViewPost(ctx context.Context, viewerID string, post *domain.Post) (*domain.PostView, error) {
	row := r.db.QueryRowContext(ctx, postViewQuery+` WHERE p.id = ?`,
		viewerID, viewerID, post.ID)
	view, err := scanPostView(row)
	if err != nil {
		return nil, err
	}
	return view, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row *sql.Row) (*domain.Post, error) {
	var p domain.Post
	var publishedAt sql.NullTime
	err := row.Scan(
		&p.ID,
		&p.Slug,
		&p.Title,
		&p.Excerpt,
		&p.Content,
		&p.Published,
		&publishedAt,
		&p.CreatedAt,
		&p.AuthorID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan post: %w", err)
	}
	if publishedAt.Valid {
		p.PublishedAt = &publishedAt.Time
	}
	return &p, nil
}

func scanPostView(row rowScanner) (*domain.PostView, error) {
	var v domain.PostView
	var publishedAt sql.NullTime
	err := row.Scan(
		&v.ID,
		&v.Slug,
		&v.Title,
		&v.Excerpt,
		&v.Content,
		&v.Published,
		&publishedAt,
		&v.CreatedAt,
		&v.AuthorID,
		&v.AuthorName,
		&v.LikeCount,
		&v.Liked,
		&v.Saved,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan post view: %w", err)
	}
	if publishedAt.Valid {
		v.PublishedAt = &publishedAt.Time
	}
	return &v, nil
}

func scanPostViews(rows *sql.Rows) ([]domain.PostView, error) {
	defer rows.Close()

	views := []domain.PostView{}
	for rows.Next() {
		v, err := scanPostView(rows)
		if err != nil {
			return nil, err
		}
		views = append(views, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}
	return views, nil
}
