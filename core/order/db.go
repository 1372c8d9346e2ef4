package order

import (
	"context"

	"github.com/jmoiron/sqlx"
)

func Create(ctx context.Context, db sqlx.ExtContext, ord Order) error {
	const q = `
	INSERT INTO orders (order_id, order_number, customer_name, customer_email, customer_phone, customer_address, total, status, payment_method, notes, created_at, updated_at)
	VALUES (:order_id, :order_number, :customer_name, :customer_email, :customer_phone, :customer_address, :total, :status, :payment_method, :notes, :created_at, :updated_at)`

	if _, err := sqlx.NamedExecContext(ctx, db, q, ord); err != nil {
		return err
	}

	return nil
}

func CreateItem(ctx context.Context, db sqlx.ExtContext, it Item) error {
	const q = `
	INSERT INTO order_items (order_id, product_id, product_name, quantity, price, created_at)
	VALUES (:order_id, :product_id, :product_name, :quantity, :price, :created_at)`

	if _, err := sqlx.NamedExecContext(ctx, db, q, it); err != nil {
		return err
	}

	return nil
}

func Fetch(ctx context.Context, db sqlx.ExtContext, id string) (Order, error) {
	const q = `SELECT * FROM orders WHERE order_id = $1`

	var ord Order
	if err := sqlx.GetContext(ctx, db, &ord, q, id); err != nil {
		return Order{}, err
	}

	return ord, nil
}

func List(ctx context.Context, db sqlx.ExtContext) ([]Order, error) {
	const q = `SELECT * FROM orders ORDER BY created_at DESC`

	ords := []Order{}
	if err := sqlx.SelectContext(ctx, db, &ords, q); err != nil {
		return nil, err
	}

	return ords, nil
}

func FetchItems(ctx context.Context, db sqlx.ExtContext, orderID string) ([]Item, error) {
	const q = `SELECT * FROM order_items WHERE order_id = $1`

	its := []Item{}
	if err := sqlx.SelectContext(ctx, db, &its, q, orderID); err != nil {
		return nil, err
	}

	return its, nil
}

func UpdateStatus(ctx context.Context, db sqlx.ExtContext, up StatusUp) error {
	const q = `UPDATE orders SET status = :status, updated_at = :updated_at WHERE order_id = :order_id`

	if _, err := sqlx.NamedExecContext(ctx, db, q, up); err != nil {
		return err
	}

	return nil
}
