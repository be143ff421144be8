package bookingsvc

import (
	"context"
	"database/sql"
	"errors"

	"gearrental/model"
)

// errors used by controllers

type ErrCode string

const (
	ErrNotFound          ErrCode = "NOT_FOUND"
	ErrIllegalTransition ErrCode = "ILLEGAL_TRANSITION"
	ErrEmptyGroup        ErrCode = "EMPTY_GROUP"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts the error code, or "" for uncoded errors.
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

type Repo interface {
	List(ctx context.Context) ([]model.Booking, error)
	GetByID(ctx context.Context, id int64) (*model.Booking, error)
	ListByOrder(ctx context.Context, orderID string) ([]model.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status model.BookingStatus) error
	Delete(ctx context.Context, id int64) error
}

type Service interface {
	// List returns all bookings, newest first.
	List(ctx context.Context) ([]model.Booking, error)

	// UpdateStatus moves one booking to next after state-machine validation.
	UpdateStatus(ctx context.Context, id int64, next model.BookingStatus) error

	// Delete removes a booking unconditionally.
	Delete(ctx context.Context, id int64) error

	// Orders returns the grouped-order view derived from order-group ids.
	Orders(ctx context.Context) ([]model.Order, error)

	// PlanGroupStatusChange validates moving every booking in a group to next
	// and returns the affected booking ids. No state changes; the caller is
	// expected to confirm before calling ApplyGroupStatusChange.
	PlanGroupStatusChange(ctx context.Context, orderID string, next model.BookingStatus) ([]int64, error)

	// ApplyGroupStatusChange re-validates each booking against its current
	// status and persists the change.
	ApplyGroupStatusChange(ctx context.Context, ids []int64, next model.BookingStatus) error
}

type service struct{ r Repo }

func New(r Repo) Service { return &service{r: r} }

func (s *service) List(ctx context.Context) ([]model.Booking, error) {
	return s.r.List(ctx)
}

func (s *service) UpdateStatus(ctx context.Context, id int64, next model.BookingStatus) error {
	b, err := s.r.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrNotFound)
		}
		return err
	}
	if err := ValidateTransition(b.Status, next); err != nil {
		return err
	}
	return s.r.UpdateStatus(ctx, id, next)
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.r.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrNotFound)
		}
		return err
	}
	return nil
}

// Orders clusters bookings sharing an order-group id into one logical checkout.
// Bookings created outside a grouped checkout are surfaced as single-line
// orders. Group members are expected to share one status; divergence is
// flagged on the view and never repaired here.
func (s *service) Orders(ctx context.Context) ([]model.Order, error) {
	all, err := s.r.List(ctx)
	if err != nil {
		return nil, err
	}

	byGroup := make(map[string][]model.Booking)
	var keys []string
	for _, b := range all {
		key := ""
		if b.OrderID != nil {
			key = *b.OrderID
		}
		if _, seen := byGroup[key]; !seen && key != "" {
			keys = append(keys, key)
		}
		byGroup[key] = append(byGroup[key], b)
	}

	var out []model.Order
	for _, key := range keys {
		out = append(out, orderFrom(key, byGroup[key]))
	}
	for _, b := range byGroup[""] {
		out = append(out, orderFrom("", []model.Booking{b}))
	}
	return out, nil
}

func orderFrom(orderID string, bookings []model.Booking) model.Order {
	oldest := bookings[0]
	var total float64
	divergent := false
	for _, b := range bookings {
		total += b.TotalPrice
		if b.CreatedAt.Before(oldest.CreatedAt) {
			oldest = b
		}
		if b.Status != bookings[0].Status {
			divergent = true
		}
	}
	return model.Order{
		OrderID:         orderID,
		CustomerName:    oldest.CustomerName,
		CustomerEmail:   oldest.CustomerEmail,
		CustomerPhone:   oldest.CustomerPhone,
		Bookings:        bookings,
		TotalPrice:      total,
		Status:          oldest.Status,
		StatusDivergent: divergent,
		CreatedAt:       oldest.CreatedAt,
	}
}

func (s *service) PlanGroupStatusChange(ctx context.Context, orderID string, next model.BookingStatus) ([]int64, error) {
	group, err := s.r.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if len(group) == 0 {
		return nil, makeErr(ErrEmptyGroup)
	}
	ids := make([]int64, 0, len(group))
	for _, b := range group {
		if err := ValidateTransition(b.Status, next); err != nil {
			return nil, err
		}
		ids = append(ids, b.ID)
	}
	return ids, nil
}

func (s *service) ApplyGroupStatusChange(ctx context.Context, ids []int64, next model.BookingStatus) error {
	for _, id := range ids {
		if err := s.UpdateStatus(ctx, id, next); err != nil {
			return err
		}
	}
	return nil
}
