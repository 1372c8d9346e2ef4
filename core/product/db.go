package product

import (
	"context"

	"github.com/jmoiron/sqlx"
)

func Fetch(ctx context.Context, db sqlx.ExtContext, id string) (Product, error) {
	const q = `SELECT * FROM products WHERE product_id = $1`

	var p Product
	if err := sqlx.GetContext(ctx, db, &p, q, id); err != nil {
		return Product{}, err
	}

	return p, nil
}

func FetchActive(ctx context.Context, db sqlx.ExtContext, id string) (Product, error) {
	const q = `SELECT * FROM products WHERE product_id = $1 AND is_active`

	var p Product
	if err := sqlx.GetContext(ctx, db, &p, q, id); err != nil {
		return Product{}, err
	}

	return p, nil
}

func ListActive(ctx context.Context, db sqlx.ExtContext) ([]Product, error) {
	const q = `SELECT * FROM products WHERE is_active ORDER BY created_at DESC`

	ps := []Product{}
	if err := sqlx.SelectContext(ctx, db, &ps, q); err != nil {
		return nil, err
	}

	return ps, nil
}

func ListActiveByCategory(ctx context.Context, db sqlx.ExtContext, category string) ([]Product, error) {
	const q = `SELECT * FROM products WHERE is_active AND category = $1 ORDER BY created_at DESC`

	ps := []Product{}
	if err := sqlx.SelectContext(ctx, db, &ps, q, category); err != nil {
		return nil, err
	}

	return ps, nil
}

// List returns every product regardless of the active flag, for the admin
// surface.
func List(ctx context.Context, db sqlx.ExtContext) ([]Product, error) {
	const q = `SELECT * FROM products ORDER BY created_at DESC`

	ps := []Product{}
	if err := sqlx.SelectContext(ctx, db, &ps, q); err != nil {
		return nil, err
	}

	return ps, nil
}

func Create(ctx context.Context, db sqlx.ExtContext, p Product) error {
	const q = `
	INSERT INTO products (product_id, name, description, price, category, stock, image_url, is_active, created_at, updated_at)
	VALUES (:product_id, :name, :description, :price, :category, :stock, :image_url, :is_active, :created_at, :updated_at)`

	if _, err := sqlx.NamedExecContext(ctx, db, q, p); err != nil {
		return err
	}

	return nil
}

func Update(ctx context.Context, db sqlx.ExtContext, p Product) error {
	const q = `
	UPDATE products SET
		name = :name,
		description = :description,
		price = :price,
		category = :category,
		stock = :stock,
		image_url = :image_url,
		is_active = :is_active,
		updated_at = :updated_at
	WHERE product_id = :product_id`

	if _, err := sqlx.NamedExecContext(ctx, db, q, p); err != nil {
		return err
	}

	return nil
}
