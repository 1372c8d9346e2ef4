package api

import (
	"context"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/mvindas/salon-store/api/middleware"
	"github.com/mvindas/salon-store/api/web"
	"github.com/mvindas/salon-store/core/auth"
	"github.com/mvindas/salon-store/core/blog"
	"github.com/mvindas/salon-store/core/cart"
	"github.com/mvindas/salon-store/core/order"
	"github.com/mvindas/salon-store/core/product"
	"github.com/mvindas/salon-store/rate"
	"github.com/sirupsen/logrus"
)

type APIConfig struct {
	CorsOrigin   string
	Log          logrus.FieldLogger
	DB           *sqlx.DB
	Session      *scs.SessionManager
	LoginLimiter *rate.Limiter
}

type api struct {
	*mux.Router
	mw  []web.Middleware
	log logrus.FieldLogger
}

func APIMux(cfg APIConfig) http.Handler {
	a := &api{
		Router: mux.NewRouter(),
		log:    cfg.Log,
	}

	a.mw = append(a.mw, auth.LoadAndSave(cfg.Session))
	a.mw = append(a.mw, middleware.RequestID())
	a.mw = append(a.mw, middleware.Logger(cfg.Log))
	a.mw = append(a.mw, middleware.Errors(cfg.Log))
	a.mw = append(a.mw, middleware.Panics())

	if cfg.CorsOrigin != "" {
		a.mw = append(a.mw, middleware.Cors(cfg.CorsOrigin))

		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			w.WriteHeader(http.StatusNoContent)
			return nil
		}

		a.Handle(http.MethodOptions, "/{path:.*}", h)
	}

	authen := auth.Authenticate()
	admin := auth.Admin()

	a.Handle(http.MethodPost, "/auth/login", auth.HandleLogin(cfg.DB, cfg.Session, cfg.LoginLimiter))
	a.Handle(http.MethodPost, "/auth/logout", auth.HandleLogout(cfg.Session))
	a.Handle(http.MethodGet, "/auth/me", auth.HandleShowCurrent(cfg.DB), authen)

	a.Handle(http.MethodGet, "/products/{id}", product.HandleShow(cfg.DB))
	a.Handle(http.MethodGet, "/products", product.HandleList(cfg.DB))

	a.Handle(http.MethodGet, "/posts/{slug}", blog.HandleShowBySlug(cfg.DB))
	a.Handle(http.MethodGet, "/posts", blog.HandleList(cfg.DB))

	a.Handle(http.MethodGet, "/cart", cart.HandleShow(cfg.Session))
	a.Handle(http.MethodDelete, "/cart", cart.HandleDelete(cfg.Session))
	a.Handle(http.MethodPut, "/cart/items", cart.HandleAddItem(cfg.DB, cfg.Session))
	a.Handle(http.MethodPut, "/cart/items/{product_id}", cart.HandleUpdateItem(cfg.Session))
	a.Handle(http.MethodDelete, "/cart/items/{product_id}", cart.HandleDeleteItem(cfg.Session))

	a.Handle(http.MethodPost, "/orders", order.HandleCreate(cfg.DB, cfg.Session))

	a.Handle(http.MethodGet, "/admin/products", product.HandleAdminList(cfg.DB), authen, admin)
	a.Handle(http.MethodPost, "/admin/products", product.HandleCreate(cfg.DB), authen, admin)
	a.Handle(http.MethodPut, "/admin/products/{id}", product.HandleUpdate(cfg.DB), authen, admin)
	a.Handle(http.MethodDelete, "/admin/products/{id}", product.HandleDelete(cfg.DB), authen, admin)

	a.Handle(http.MethodGet, "/admin/posts", blog.HandleAdminList(cfg.DB), authen, admin)
	a.Handle(http.MethodPost, "/admin/posts", blog.HandleCreate(cfg.DB), authen, admin)
	a.Handle(http.MethodGet, "/admin/posts/{id}", blog.HandleAdminShow(cfg.DB), authen, admin)
	a.Handle(http.MethodPut, "/admin/posts/{id}", blog.HandleUpdate(cfg.DB), authen, admin)
	a.Handle(http.MethodDelete, "/admin/posts/{id}", blog.HandleDelete(cfg.DB), authen, admin)

	a.Handle(http.MethodGet, "/admin/orders", order.HandleAdminList(cfg.DB), authen, admin)
	a.Handle(http.MethodGet, "/admin/orders/{id}", order.HandleAdminShow(cfg.DB), authen, admin)
	a.Handle(http.MethodPut, "/admin/orders/{id}/status", order.HandleUpdateStatus(cfg.DB), authen, admin)

	return a.Router
}

func (a *api) Handle(method string, path string, handler web.Handler, mw ...web.Middleware) {

	handler = web.WrapMiddleware(mw, handler)

	handler = web.WrapMiddleware(a.mw, handler)

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()

		if err := handler(ctx, w, r); err != nil {

			a.log.WithFields(logrus.Fields{
				"req_id":  middleware.ContextRequestID(ctx),
				"message": err,
			}).Error("ERROR")
		}
	})

	a.Router.Handle(path, h).Methods(method)
}
