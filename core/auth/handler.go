package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/jmoiron/sqlx"
	"github.com/mvindas/salon-store/api/web"
	"github.com/mvindas/salon-store/api/weberr"
	"github.com/mvindas/salon-store/core/claims"
	"github.com/mvindas/salon-store/core/user"
	"github.com/mvindas/salon-store/rate"
	"github.com/mvindas/salon-store/validate"
	"golang.org/x/crypto/bcrypt"
)

type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func HandleLogin(db *sqlx.DB, session *scs.SessionManager, limiter *rate.Limiter) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}

		if !limiter.Check(host) {
			err := errors.New("too many login attempts")
			return weberr.NewError(err, err.Error(), http.StatusTooManyRequests)
		}

		var creds Credentials
		if err := web.Decode(w, r, &creds); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		if err := validate.Check(creds); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		unauthorized := func() error {
			err := errors.New("invalid username or password")
			return weberr.NewError(err, err.Error(), http.StatusUnauthorized)
		}

		usr, err := user.FetchByUsername(ctx, db, creds.Username)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return unauthorized()
			}
			return fmt.Errorf("fetching user[%s]: %w", creds.Username, err)
		}

		if err := bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(creds.Password)); err != nil {
			return unauthorized()
		}

		if err := session.RenewToken(ctx); err != nil {
			return fmt.Errorf("renewing session token: %w", err)
		}

		session.Put(ctx, userIDKey, usr.ID)
		session.Put(ctx, roleKey, usr.Role)

		info := user.Info{ID: usr.ID, Name: usr.Name, Role: usr.Role}
		return web.Respond(ctx, w, info, http.StatusOK)
	}
}

func HandleLogout(session *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		if err := session.Destroy(ctx); err != nil {
			return fmt.Errorf("destroying session: %w", err)
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}

func HandleShowCurrent(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		usr, err := user.Fetch(ctx, db, clm.UserID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return weberr.NotFound(err)
			}
			return fmt.Errorf("fetching user[%s]: %w", clm.UserID, err)
		}

		info := user.Info{ID: usr.ID, Name: usr.Name, Role: usr.Role}
		return web.Respond(ctx, w, info, http.StatusOK)
	}
}
