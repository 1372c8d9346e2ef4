package user

import (
	"context"

	"github.com/jmoiron/sqlx"
)

func Fetch(ctx context.Context, db sqlx.ExtContext, id string) (User, error) {
	const q = `SELECT * FROM users WHERE user_id = $1`

	var usr User
	if err := sqlx.GetContext(ctx, db, &usr, q, id); err != nil {
		return User{}, err
	}

	return usr, nil
}

func FetchByUsername(ctx context.Context, db sqlx.ExtContext, username string) (User, error) {
	const q = `SELECT * FROM users WHERE username = $1`

	var usr User
	if err := sqlx.GetContext(ctx, db, &usr, q, username); err != nil {
		return User{}, err
	}

	return usr, nil
}

func Create(ctx context.Context, db sqlx.ExtContext, usr User) error {
	const q = `
	INSERT INTO users (user_id, username, name, password_hash, role, created_at, updated_at)
	VALUES (:user_id, :username, :name, :password_hash, :role, :created_at, :updated_at)`

	if _, err := sqlx.NamedExecContext(ctx, db, q, usr); err != nil {
		return err
	}

	return nil
}
