package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/jmoiron/sqlx"
	"github.com/mvindas/salon-store/api/web"
	"github.com/mvindas/salon-store/api/weberr"
	"github.com/mvindas/salon-store/core/cart"
	"github.com/mvindas/salon-store/database"
	"github.com/mvindas/salon-store/validate"
)

// createAttempts bounds the order-number regeneration loop on a duplicate
// key race.
const createAttempts = 3

// create persists the order header and its items in one transaction, so a
// reader never sees a header without its lines. On an order-number unique
// violation the whole write is retried with a fresh number.
func create(ctx context.Context, db *sqlx.DB, no OrderNew, total int) (Order, error) {
	for attempt := 0; attempt < createAttempts; attempt++ {
		now := time.Now().UTC()
		ord := Order{
			ID:              validate.GenerateID(),
			OrderNumber:     Number(),
			CustomerName:    no.CustomerName,
			CustomerEmail:   no.CustomerEmail,
			CustomerPhone:   no.CustomerPhone,
			CustomerAddress: no.CustomerAddress,
			Total:           total,
			Status:          Pending,
			PaymentMethod:   PaymentBankTransfer,
			Notes:           no.Notes,
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		err := database.Transaction(db, func(tx sqlx.ExtContext) error {
			if err := Create(ctx, tx, ord); err != nil {
				return fmt.Errorf("creating order: %w", err)
			}

			for _, in := range no.Items {
				it := Item{
					OrderID:     ord.ID,
					ProductID:   in.ProductID,
					ProductName: in.ProductName,
					Quantity:    in.Quantity,
					Price:       in.Price,
					CreatedAt:   now,
				}

				if err := CreateItem(ctx, tx, it); err != nil {
					return fmt.Errorf("creating order item: %w", err)
				}
			}

			return nil
		})

		if err == nil {
			return ord, nil
		}
		if !database.IsUniqueViolation(err) {
			return Order{}, err
		}
	}

	return Order{}, fmt.Errorf("order number collided %d times in a row", createAttempts)
}

func HandleCreate(db *sqlx.DB, session *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var no OrderNew
		if err := web.Decode(w, r, &no); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		if err := validate.Check(no); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		// The stored total is recomputed from the lines; a client-sent
		// total that disagrees is rejected, not trusted.
		var total int
		for _, it := range no.Items {
			total += it.Price * it.Quantity
		}
		if total != no.Total {
			err := errors.New("total does not match the sum of the items")
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		ord, err := create(ctx, db, no, total)
		if err != nil {
			return fmt.Errorf("creating order for[%s]: %w", no.CustomerEmail, err)
		}

		cart.ClearSession(ctx, session)

		resp := struct {
			Success     bool   `json:"success"`
			OrderNumber string `json:"orderNumber"`
			OrderID     string `json:"orderId"`
		}{
			Success:     true,
			OrderNumber: ord.OrderNumber,
			OrderID:     ord.ID,
		}
		return web.Respond(ctx, w, resp, http.StatusCreated)
	}
}

func HandleAdminList(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		ords, err := List(ctx, db)
		if err != nil {
			return fmt.Errorf("listing orders: %w", err)
		}

		return web.Respond(ctx, w, ords, http.StatusOK)
	}
}

func HandleAdminShow(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		ord, err := Fetch(ctx, db, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return weberr.NotFound(err)
			}
			return fmt.Errorf("fetching order[%s]: %w", id, err)
		}

		its, err := FetchItems(ctx, db, ord.ID)
		if err != nil {
			return fmt.Errorf("fetching items of order[%s]: %w", id, err)
		}

		resp := struct {
			Order
			Items []Item `json:"items"`
		}{
			Order: ord,
			Items: its,
		}
		return web.Respond(ctx, w, resp, http.StatusOK)
	}
}

func HandleUpdateStatus(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		var in struct {
			Status Status `json:"status"`
		}
		if err := web.Decode(w, r, &in); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		ord, err := Fetch(ctx, db, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return weberr.NotFound(err)
			}
			return fmt.Errorf("fetching order[%s]: %w", id, err)
		}

		if !CanTransition(ord.Status, in.Status) {
			err := fmt.Errorf("cannot change status from %q to %q", ord.Status, in.Status)
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		up := StatusUp{
			ID:        ord.ID,
			Status:    in.Status,
			UpdatedAt: time.Now().UTC(),
		}
		if err := UpdateStatus(ctx, db, up); err != nil {
			return fmt.Errorf("updating status of order[%s]: %w", id, err)
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}
