package blog

import (
	"context"

	"github.com/jmoiron/sqlx"
)

func Fetch(ctx context.Context, db sqlx.ExtContext, id string) (Post, error) {
	const q = `SELECT * FROM blog_posts WHERE post_id = $1`

	var p Post
	if err := sqlx.GetContext(ctx, db, &p, q, id); err != nil {
		return Post{}, err
	}

	return p, nil
}

func FetchPublishedBySlug(ctx context.Context, db sqlx.ExtContext, slug string) (Post, error) {
	const q = `SELECT * FROM blog_posts WHERE slug = $1 AND is_published`

	var p Post
	if err := sqlx.GetContext(ctx, db, &p, q, slug); err != nil {
		return Post{}, err
	}

	return p, nil
}

func ListPublished(ctx context.Context, db sqlx.ExtContext) ([]Post, error) {
	const q = `SELECT * FROM blog_posts WHERE is_published ORDER BY published_at DESC`

	ps := []Post{}
	if err := sqlx.SelectContext(ctx, db, &ps, q); err != nil {
		return nil, err
	}

	return ps, nil
}

func List(ctx context.Context, db sqlx.ExtContext) ([]Post, error) {
	const q = `SELECT * FROM blog_posts ORDER BY created_at DESC`

	ps := []Post{}
	if err := sqlx.SelectContext(ctx, db, &ps, q); err != nil {
		return nil, err
	}

	return ps, nil
}

func Create(ctx context.Context, db sqlx.ExtContext, p Post) error {
	const q = `
	INSERT INTO blog_posts (post_id, title, slug, content, excerpt, image_url, is_published, author_id, published_at, created_at, updated_at)
	VALUES (:post_id, :title, :slug, :content, :excerpt, :image_url, :is_published, :author_id, :published_at, :created_at, :updated_at)`

	if _, err := sqlx.NamedExecContext(ctx, db, q, p); err != nil {
		return err
	}

	return nil
}

func Update(ctx context.Context, db sqlx.ExtContext, p Post) error {
	const q = `
	UPDATE blog_posts SET
		title = :title,
		slug = :slug,
		content = :content,
		excerpt = :excerpt,
		image_url = :image_url,
		is_published = :is_published,
		published_at = :published_at,
		updated_at = :updated_at
	WHERE post_id = :post_id`

	if _, err := sqlx.NamedExecContext(ctx, db, q, p); err != nil {
		return err
	}

	return nil
}

func Delete(ctx context.Context, db sqlx.ExtContext, id string) error {
	const q = `DELETE FROM blog_posts WHERE post_id = $1`

	if _, err := db.ExecContext(ctx, q, id); err != nil {
		return err
	}

	return nil
}
