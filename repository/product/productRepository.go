package productrepo

import (
	"context"
	"database/sql"

	"gearrental/model"
)

type Repo interface {
	Create(ctx context.Context, p *model.Product) (int64, error)
	Update(ctx context.Context, p *model.Product) error
	SetAvailability(ctx context.Context, id int64, available bool) error
	List(ctx context.Context) ([]model.Product, error)
	Detail(ctx context.Context, id int64) (*model.Product, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) Create(ctx context.Context, p *model.Product) (int64, error) {
	const q = `
INSERT INTO products (title, description, price, quantity, available, category_id, image_url)
VALUES ($1,$2,$3,$4,$5,$6,$7)
RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, q,
		p.Title, p.Description, p.Price, p.Quantity, p.Available, p.CategoryID, p.ImageURL,
	).Scan(&p.ID, &p.CreatedAt)
	return p.ID, err
}

func (r *repo) Update(ctx context.Context, p *model.Product) error {
	const q = `
UPDATE products
SET title=$2, description=$3, price=$4, quantity=$5, available=$6, category_id=$7, image_url=$8
WHERE id=$1`
	res, err := r.db.ExecContext(ctx, q,
		p.ID, p.Title, p.Description, p.Price, p.Quantity, p.Available, p.CategoryID, p.ImageURL)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) SetAvailability(ctx context.Context, id int64, available bool) error {
	const q = `UPDATE products SET available=$2 WHERE id=$1`
	res, err := r.db.ExecContext(ctx, q, id, available)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) List(ctx context.Context) ([]model.Product, error) {
	const q = `
SELECT id, title, description, price, quantity, available, category_id, image_url, created_at
FROM products
ORDER BY id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.Price, &p.Quantity,
			&p.Available, &p.CategoryID, &p.ImageURL, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *repo) Detail(ctx context.Context, id int64) (*model.Product, error) {
	const q = `
SELECT id, title, description, price, quantity, available, category_id, image_url, created_at
FROM products
WHERE id=$1`
	var p model.Product
	err := r.db.QueryRowContext(ctx, q, id).Scan(&p.ID, &p.Title, &p.Description, &p.Price,
		&p.Quantity, &p.Available, &p.CategoryID, &p.ImageURL, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
