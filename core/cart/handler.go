package cart

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/jmoiron/sqlx"
	"github.com/mvindas/salon-store/api/web"
	"github.com/mvindas/salon-store/api/weberr"
	"github.com/mvindas/salon-store/core/product"
	"github.com/mvindas/salon-store/validate"
)

type ItemNew struct {
	ProductID string `json:"productId" validate:"required"`
}

type QuantityUp struct {
	Quantity int `json:"quantity"`
}

// view is what the browser renders: the lines plus the derived numbers.
type view struct {
	Items     []Item `json:"items"`
	ItemCount int    `json:"itemCount"`
	Total     int    `json:"total"`
}

func respond(ctx context.Context, w http.ResponseWriter, c Cart, status int) error {
	v := view{
		Items:     c.Items,
		ItemCount: c.ItemCount(),
		Total:     c.Total(),
	}
	if v.Items == nil {
		v.Items = []Item{}
	}

	return web.Respond(ctx, w, v, status)
}

func HandleShow(session *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return respond(ctx, w, FromSession(ctx, session), http.StatusOK)
	}
}

// HandleAddItem looks the product up so the cart line carries the catalog
// name and price, not whatever the client claims.
func HandleAddItem(db *sqlx.DB, session *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var in ItemNew
		if err := web.Decode(w, r, &in); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		if err := validate.CheckID(in.ProductID); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		p, err := product.FetchActive(ctx, db, in.ProductID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				err := errors.New("product is not available")
				return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
			}
			return fmt.Errorf("fetching product[%s]: %w", in.ProductID, err)
		}

		c := FromSession(ctx, session)
		c.AddItem(Item{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			ImageURL:  p.ImageURL,
		})
		SaveSession(ctx, session, c)

		return respond(ctx, w, c, http.StatusOK)
	}
}

func HandleUpdateItem(session *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id := web.Param(r, "product_id")
		if err := validate.CheckID(id); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		var up QuantityUp
		if err := web.Decode(w, r, &up); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		c := FromSession(ctx, session)
		c.UpdateQuantity(id, up.Quantity)
		SaveSession(ctx, session, c)

		return respond(ctx, w, c, http.StatusOK)
	}
}

func HandleDeleteItem(session *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id := web.Param(r, "product_id")
		if err := validate.CheckID(id); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		c := FromSession(ctx, session)
		c.RemoveItem(id)
		SaveSession(ctx, session, c)

		return respond(ctx, w, c, http.StatusOK)
	}
}

func HandleDelete(session *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		ClearSession(ctx, session)

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}
