package bookingrepo

import (
	"context"
	"database/sql"

	"gearrental/model"
)

const bookingCols = `id, product_id, customer_name, customer_email, customer_phone,
start_date, end_date, status, quantity, total_price, notes, order_id, created_at`

type Repo interface {
	List(ctx context.Context) ([]model.Booking, error)
	ListByProduct(ctx context.Context, productID int64) ([]model.Booking, error)
	ListByOrder(ctx context.Context, orderID string) ([]model.Booking, error)
	GetByID(ctx context.Context, id int64) (*model.Booking, error)
	Insert(ctx context.Context, b *model.Booking) (int64, error)
	UpdateStatus(ctx context.Context, id int64, status model.BookingStatus) error
	Delete(ctx context.Context, id int64) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) List(ctx context.Context) ([]model.Booking, error) {
	const q = `
SELECT ` + bookingCols + `
FROM bookings
ORDER BY created_at DESC, id DESC`
	return r.query(ctx, q)
}

func (r *repo) ListByProduct(ctx context.Context, productID int64) ([]model.Booking, error) {
	const q = `
SELECT ` + bookingCols + `
FROM bookings
WHERE product_id=$1
ORDER BY start_date, id`
	return r.query(ctx, q, productID)
}

func (r *repo) ListByOrder(ctx context.Context, orderID string) ([]model.Booking, error) {
	const q = `
SELECT ` + bookingCols + `
FROM bookings
WHERE order_id=$1
ORDER BY created_at, id`
	return r.query(ctx, q, orderID)
}

func (r *repo) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	const q = `
SELECT ` + bookingCols + `
FROM bookings
WHERE id=$1`
	var b model.Booking
	if err := scanBooking(r.db.QueryRowContext(ctx, q, id), &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repo) Insert(ctx context.Context, b *model.Booking) (int64, error) {
	const q = `
INSERT INTO bookings (product_id, customer_name, customer_email, customer_phone,
	start_date, end_date, status, quantity, total_price, notes, order_id)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, q,
		b.ProductID, b.CustomerName, b.CustomerEmail, b.CustomerPhone,
		b.StartDate, b.EndDate, b.Status, b.Quantity, b.TotalPrice, b.Notes, b.OrderID,
	).Scan(&b.ID, &b.CreatedAt)
	return b.ID, err
}

func (r *repo) UpdateStatus(ctx context.Context, id int64, status model.BookingStatus) error {
	const q = `UPDATE bookings SET status=$2 WHERE id=$1`
	res, err := r.db.ExecContext(ctx, q, id, status)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM bookings WHERE id=$1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}

type rowScanner interface{ Scan(dest ...any) error }

func scanBooking(row rowScanner, b *model.Booking) error {
	return row.Scan(&b.ID, &b.ProductID, &b.CustomerName, &b.CustomerEmail, &b.CustomerPhone,
		&b.StartDate, &b.EndDate, &b.Status, &b.Quantity, &b.TotalPrice, &b.Notes, &b.OrderID, &b.CreatedAt)
}

func (r *repo) query(ctx context.Context, q string, args ...any) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Booking
	for rows.Next() {
		var b model.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
