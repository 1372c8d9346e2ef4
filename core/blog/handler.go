package blog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mvindas/salon-store/api/web"
	"github.com/mvindas/salon-store/api/weberr"
	"github.com/mvindas/salon-store/core/claims"
	"github.com/mvindas/salon-store/database"
	"github.com/mvindas/salon-store/validate"
)

func HandleList(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		ps, err := ListPublished(ctx, db)
		if err != nil {
			return fmt.Errorf("listing published posts: %w", err)
		}

		return web.Respond(ctx, w, ps, http.StatusOK)
	}
}

func HandleShowBySlug(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		slug := web.Param(r, "slug")

		p, err := FetchPublishedBySlug(ctx, db, slug)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return weberr.NotFound(err)
			}
			return fmt.Errorf("fetching post[%s]: %w", slug, err)
		}

		return web.Respond(ctx, w, p, http.StatusOK)
	}
}

func HandleAdminList(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		ps, err := List(ctx, db)
		if err != nil {
			return fmt.Errorf("listing all posts: %w", err)
		}

		return web.Respond(ctx, w, ps, http.StatusOK)
	}
}

func HandleAdminShow(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		p, err := Fetch(ctx, db, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return weberr.NotFound(err)
			}
			return fmt.Errorf("fetching post[%s]: %w", id, err)
		}

		return web.Respond(ctx, w, p, http.StatusOK)
	}
}

func HandleCreate(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		var pn PostNew
		if err := web.Decode(w, r, &pn); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		if err := validate.Check(pn); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		now := time.Now().UTC()
		p := Post{
			ID:          validate.GenerateID(),
			Title:       pn.Title,
			Slug:        pn.Slug,
			Content:     pn.Content,
			Excerpt:     pn.Excerpt,
			ImageURL:    pn.ImageURL,
			IsPublished: pn.IsPublished,
			AuthorID:    clm.UserID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if pn.IsPublished {
			p.PublishedAt = &now
		}

		if err := Create(ctx, db, p); err != nil {
			if database.IsUniqueViolation(err) {
				err := fmt.Errorf("slug[%s] is already in use", pn.Slug)
				return weberr.NewError(err, err.Error(), http.StatusConflict)
			}
			return fmt.Errorf("creating post: %w", err)
		}

		return web.Respond(ctx, w, p, http.StatusCreated)
	}
}

func HandleUpdate(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		var up PostUp
		if err := web.Decode(w, r, &up); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		if err := validate.Check(up); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		p, err := Fetch(ctx, db, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return weberr.NotFound(err)
			}
			return fmt.Errorf("fetching post[%s]: %w", id, err)
		}

		if up.Title != nil {
			p.Title = *up.Title
		}
		if up.Slug != nil {
			p.Slug = *up.Slug
		}
		if up.Content != nil {
			p.Content = *up.Content
		}
		if up.Excerpt != nil {
			p.Excerpt = *up.Excerpt
		}
		if up.ImageURL != nil {
			p.ImageURL = *up.ImageURL
		}

		now := time.Now().UTC()
		if up.IsPublished != nil {
			p.IsPublished = *up.IsPublished

			// Stamped the first time the post goes live, never reset.
			if p.IsPublished && p.PublishedAt == nil {
				p.PublishedAt = &now
			}
		}
		p.UpdatedAt = now

		if err := Update(ctx, db, p); err != nil {
			if database.IsUniqueViolation(err) {
				err := fmt.Errorf("slug[%s] is already in use", p.Slug)
				return weberr.NewError(err, err.Error(), http.StatusConflict)
			}
			return fmt.Errorf("updating post[%s]: %w", id, err)
		}

		return web.Respond(ctx, w, p, http.StatusOK)
	}
}

func HandleDelete(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		if err := Delete(ctx, db, id); err != nil {
			return fmt.Errorf("deleting post[%s]: %w", id, err)
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}
