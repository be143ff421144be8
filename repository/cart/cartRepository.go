package cartrepo

import (
	"context"
	"database/sql"

	"gearrental/model"
)

// Repo persists cart snapshots per owner. Save replaces the whole snapshot in
// one transaction so a reload always sees a consistent cart.
type Repo interface {
	Load(ctx context.Context, owner string) ([]model.CartItem, error)
	Save(ctx context.Context, owner string, items []model.CartItem) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) Load(ctx context.Context, owner string) ([]model.CartItem, error) {
	const q = `
SELECT item_id, product_id, title, price, image_url, start_date, end_date, quantity
FROM cart_items
WHERE owner_id=$1
ORDER BY added_at, item_id`
	rows, err := r.db.QueryContext(ctx, q, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.CartItem
	for rows.Next() {
		var it model.CartItem
		if err := rows.Scan(&it.ID, &it.ProductID, &it.Title, &it.Price, &it.ImageURL,
			&it.StartDate, &it.EndDate, &it.Quantity); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *repo) Save(ctx context.Context, owner string, items []model.CartItem) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const del = `DELETE FROM cart_items WHERE owner_id=$1`
	if _, err = tx.ExecContext(ctx, del, owner); err != nil {
		return err
	}

	const ins = `
INSERT INTO cart_items (owner_id, item_id, product_id, title, price, image_url, start_date, end_date, quantity)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`
	for _, it := range items {
		if _, err = tx.ExecContext(ctx, ins,
			owner, it.ID, it.ProductID, it.Title, it.Price, it.ImageURL,
			it.StartDate, it.EndDate, it.Quantity); err != nil {
			return err
		}
	}
	return tx.Commit()
}
