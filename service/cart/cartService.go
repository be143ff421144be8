// Package cartsvc coordinates the shopper's in-progress selection. Every
// mutating operation runs the same sequence: fetch current product and
// bookings, run the availability check, then conditionally mutate the cart
// snapshot and invalidate cached availability. No cart state may represent an
// over-booked quantity.
package cartsvc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"gearrental/model"
	"gearrental/service/availability"
	"gearrental/service/pricing"
)

// errors used by controllers

type ErrCode string

const (
	ErrDatesRequired     ErrCode = "DATES_REQUIRED"
	ErrBadQuantity       ErrCode = "BAD_QUANTITY"
	ErrBadDateRange      ErrCode = "BAD_DATE_RANGE"
	ErrItemNotFound      ErrCode = "ITEM_NOT_FOUND"
	ErrProductNotFound   ErrCode = "PRODUCT_NOT_FOUND"
	ErrEmptyCart         ErrCode = "EMPTY_CART"
	ErrInsufficientStock ErrCode = "INSUFFICIENT_STOCK"
	ErrUnavailable       ErrCode = "AVAILABILITY_UNKNOWN"
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

// InsufficientStockError always carries the actual available quantity so the
// caller can offer a corrected action instead of a bare rejection.
type InsufficientStockError struct {
	ProductID int64
	Requested int64
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("product %d: requested %d, only %d available", e.ProductID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Code() ErrCode { return ErrInsufficientStock }

// AvailabilityUnknownError wraps an upstream fetch failure. The check could
// not complete, so the product is treated as unavailable, never as available.
type AvailabilityUnknownError struct {
	ProductID int64
	Err       error
}

func (e *AvailabilityUnknownError) Error() string {
	return fmt.Sprintf("product %d: availability unknown: %v", e.ProductID, e.Err)
}

func (e *AvailabilityUnknownError) Unwrap() error { return e.Err }
func (e *AvailabilityUnknownError) Code() ErrCode { return ErrUnavailable }

// ports

type ProductSource interface {
	Product(ctx context.Context, id int64) (*model.Product, error)
}

type BookingSource interface {
	BookingsForProduct(ctx context.Context, productID int64) ([]model.Booking, error)
	Insert(ctx context.Context, b *model.Booking) (int64, error)
}

// Store persists cart snapshots per owner. Callers depend on this port, not
// on a concrete storage mechanism.
type Store interface {
	Load(ctx context.Context, owner string) ([]model.CartItem, error)
	Save(ctx context.Context, owner string, items []model.CartItem) error
}

type Notifier interface {
	OrderCreated(ctx context.Context, order model.Order) error
}

// UpdateOutcome distinguishes a plain quantity update from a clamped one and
// from removal via a non-positive quantity.
type UpdateOutcome struct {
	Removed  bool  `json:"removed"`
	Clamped  bool  `json:"clamped"`
	Quantity int64 `json:"quantity"`
}

type Customer struct {
	Name  string
	Email string
	Phone string
	Notes string
}

type Service interface {
	Items(ctx context.Context, owner string) ([]model.CartItem, error)

	// Add puts quantity units of a product for [start, end] into the cart.
	// A line with the same product and identical date range is merged by
	// incrementing its quantity; the availability check runs against the
	// combined quantity and rejects (never partially adds) on insufficiency.
	Add(ctx context.Context, owner string, productID int64, start, end *time.Time, quantity int64) (*model.CartItem, error)

	// UpdateQuantity re-checks availability at the new quantity for the
	// item's existing dates. On insufficiency the quantity is clamped down to
	// the maximum available (at least 1) rather than rejected.
	UpdateQuantity(ctx context.Context, owner, itemID string, quantity int64) (*UpdateOutcome, error)

	Remove(ctx context.Context, owner, itemID string) error

	// RedateAll moves every cart line to the same new window. It
	// short-circuits without saving or notifying when every line already has
	// exactly these dates. Availability is not re-checked per line; the next
	// mutation or checkout re-validates.
	RedateAll(ctx context.Context, owner string, start, end time.Time) (changed bool, err error)

	Clear(ctx context.Context, owner string) error

	// Total sums each line's unrounded price times quantity and rounds the
	// grand total once.
	Total(ctx context.Context, owner string) (float64, error)

	// Availability answers read-side per-product availability queries through
	// a cache that every cart mutation invalidates. Mutations never consult it.
	Availability(ctx context.Context, productID int64, start, end *time.Time) (int64, error)

	// Checkout re-fetches and re-checks every line, then commits one pending
	// booking per line under a shared order-group id and clears the cart. A
	// concurrent shopper taking the last unit makes this fail with an
	// insufficient-stock error; it never silently succeeds.
	Checkout(ctx context.Context, owner string, customer Customer) (*model.Order, error)
}

type service struct {
	products ProductSource
	bookings BookingSource
	store    Store
	notifier Notifier
	log      *slog.Logger
	cache    *availabilityCache
}

func New(products ProductSource, bookings BookingSource, store Store, notifier Notifier, log *slog.Logger) Service {
	return &service{
		products: products,
		bookings: bookings,
		store:    store,
		notifier: notifier,
		log:      log,
		cache:    newAvailabilityCache(),
	}
}

func (s *service) Items(ctx context.Context, owner string) ([]model.CartItem, error) {
	return s.store.Load(ctx, owner)
}

// fetchFresh is step 1 of every availability-sensitive operation. Failures
// surface as AvailabilityUnknownError so callers treat the product as
// unavailable instead of seeing a raw transport error.
func (s *service) fetchFresh(ctx context.Context, productID int64) (*model.Product, []model.Booking, error) {
	p, err := s.products.Product(ctx, productID)
	if err != nil {
		return nil, nil, &AvailabilityUnknownError{ProductID: productID, Err: err}
	}
	if p == nil {
		return nil, nil, makeErr(ErrProductNotFound)
	}
	bks, err := s.bookings.BookingsForProduct(ctx, productID)
	if err != nil {
		return nil, nil, &AvailabilityUnknownError{ProductID: productID, Err: err}
	}
	return p, bks, nil
}

func (s *service) Add(ctx context.Context, owner string, productID int64, start, end *time.Time, quantity int64) (*model.CartItem, error) {
	if start == nil || end == nil {
		return nil, makeErr(ErrDatesRequired)
	}
	if quantity <= 0 {
		return nil, makeErr(ErrBadQuantity)
	}
	if !end.After(*start) {
		return nil, makeErr(ErrBadDateRange)
	}

	items, err := s.store.Load(ctx, owner)
	if err != nil {
		return nil, err
	}

	// Lines for the same product with a different window are independent;
	// only an exact date-range match merges.
	existing := -1
	for i, it := range items {
		if it.ProductID == productID && it.StartDate.Equal(*start) && it.EndDate.Equal(*end) {
			existing = i
			break
		}
	}
	totalRequested := quantity
	if existing >= 0 {
		totalRequested += items[existing].Quantity
	}

	p, bks, err := s.fetchFresh(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !availability.IsQuantityAvailable(*p, bks, totalRequested, start, end) {
		return nil, &InsufficientStockError{
			ProductID: productID,
			Requested: totalRequested,
			Available: availableFor(*p, bks, start, end),
		}
	}

	var line *model.CartItem
	if existing >= 0 {
		items[existing].Quantity = totalRequested
		line = &items[existing]
	} else {
		items = append(items, model.CartItem{
			ID:        uuid.NewString(),
			ProductID: p.ID,
			Title:     p.Title,
			Price:     p.Price,
			ImageURL:  p.ImageURL,
			StartDate: *start,
			EndDate:   *end,
			Quantity:  quantity,
		})
		line = &items[len(items)-1]
	}

	if err := s.store.Save(ctx, owner, items); err != nil {
		return nil, err
	}
	s.cache.invalidate(productID)
	out := *line
	return &out, nil
}

func (s *service) UpdateQuantity(ctx context.Context, owner, itemID string, quantity int64) (*UpdateOutcome, error) {
	if quantity <= 0 {
		if err := s.Remove(ctx, owner, itemID); err != nil {
			return nil, err
		}
		return &UpdateOutcome{Removed: true}, nil
	}

	items, err := s.store.Load(ctx, owner)
	if err != nil {
		return nil, err
	}
	idx := indexOf(items, itemID)
	if idx < 0 {
		return nil, makeErr(ErrItemNotFound)
	}
	it := items[idx]

	p, bks, err := s.fetchFresh(ctx, it.ProductID)
	if err != nil {
		return nil, err
	}

	applied := quantity
	clamped := false
	if !availability.IsQuantityAvailable(*p, bks, quantity, &it.StartDate, &it.EndDate) {
		applied = availableFor(*p, bks, &it.StartDate, &it.EndDate)
		if applied < 1 {
			applied = 1
		}
		clamped = true
	}

	items[idx].Quantity = applied
	if err := s.store.Save(ctx, owner, items); err != nil {
		return nil, err
	}
	s.cache.invalidate(it.ProductID)
	return &UpdateOutcome{Clamped: clamped, Quantity: applied}, nil
}

func (s *service) Remove(ctx context.Context, owner, itemID string) error {
	items, err := s.store.Load(ctx, owner)
	if err != nil {
		return err
	}
	idx := indexOf(items, itemID)
	if idx < 0 {
		return makeErr(ErrItemNotFound)
	}
	productID := items[idx].ProductID
	items = append(items[:idx], items[idx+1:]...)
	if err := s.store.Save(ctx, owner, items); err != nil {
		return err
	}
	s.cache.invalidate(productID)
	return nil
}

func (s *service) RedateAll(ctx context.Context, owner string, start, end time.Time) (bool, error) {
	if !end.After(start) {
		return false, makeErr(ErrBadDateRange)
	}
	items, err := s.store.Load(ctx, owner)
	if err != nil {
		return false, err
	}

	// This operation is also triggered reactively from unrelated state
	// changes; the no-op check keeps it from thrashing storage and
	// notifications.
	noop := true
	for _, it := range items {
		if !it.StartDate.Equal(start) || !it.EndDate.Equal(end) {
			noop = false
			break
		}
	}
	if noop {
		return false, nil
	}

	for i := range items {
		items[i].StartDate = start
		items[i].EndDate = end
	}
	if err := s.store.Save(ctx, owner, items); err != nil {
		return false, err
	}
	for _, it := range items {
		s.cache.invalidate(it.ProductID)
	}
	return true, nil
}

func (s *service) Clear(ctx context.Context, owner string) error {
	items, err := s.store.Load(ctx, owner)
	if err != nil {
		return err
	}
	if err := s.store.Save(ctx, owner, nil); err != nil {
		return err
	}
	for _, it := range items {
		s.cache.invalidate(it.ProductID)
	}
	return nil
}

func (s *service) Total(ctx context.Context, owner string) (float64, error) {
	items, err := s.store.Load(ctx, owner)
	if err != nil {
		return 0, err
	}
	var sum float64
	for _, it := range items {
		sum += pricing.CostForRange(it.Price, it.StartDate, it.EndDate) * float64(it.Quantity)
	}
	// Rounded once here, not per line.
	return math.Round(sum), nil
}

func (s *service) Availability(ctx context.Context, productID int64, start, end *time.Time) (int64, error) {
	if p, bks, ok := s.cache.get(productID); ok {
		return availability.AvailableQuantity(p, bks, start, end), nil
	}
	p, bks, err := s.fetchFresh(ctx, productID)
	if err != nil {
		return 0, err
	}
	s.cache.put(productID, *p, bks)
	return availability.AvailableQuantity(*p, bks, start, end), nil
}

func (s *service) Checkout(ctx context.Context, owner string, customer Customer) (*model.Order, error) {
	items, err := s.store.Load(ctx, owner)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, makeErr(ErrEmptyCart)
	}

	// Final re-check against fresh data, line by line. No holds exist, so
	// this is the last chance to catch a concurrent shopper's commit.
	for _, it := range items {
		p, bks, err := s.fetchFresh(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		if !availability.IsQuantityAvailable(*p, bks, it.Quantity, &it.StartDate, &it.EndDate) {
			return nil, &InsufficientStockError{
				ProductID: it.ProductID,
				Requested: it.Quantity,
				Available: availableFor(*p, bks, &it.StartDate, &it.EndDate),
			}
		}
	}

	orderID := uuid.NewString()
	now := time.Now().UTC()
	var notes *string
	if customer.Notes != "" {
		notes = &customer.Notes
	}

	order := model.Order{
		OrderID:       orderID,
		CustomerName:  customer.Name,
		CustomerEmail: customer.Email,
		CustomerPhone: customer.Phone,
		Status:        model.BookingPending,
		CreatedAt:     now,
	}
	for _, it := range items {
		b := model.Booking{
			ProductID:     it.ProductID,
			CustomerName:  customer.Name,
			CustomerEmail: customer.Email,
			CustomerPhone: customer.Phone,
			StartDate:     it.StartDate,
			EndDate:       it.EndDate,
			Status:        model.BookingPending,
			Quantity:      it.Quantity,
			TotalPrice:    math.Round(pricing.CostForRange(it.Price, it.StartDate, it.EndDate) * float64(it.Quantity)),
			Notes:         notes,
			OrderID:       &orderID,
			CreatedAt:     now,
		}
		id, err := s.bookings.Insert(ctx, &b)
		if err != nil {
			return nil, err
		}
		b.ID = id
		order.Bookings = append(order.Bookings, b)
		order.TotalPrice += b.TotalPrice
	}

	if err := s.store.Save(ctx, owner, nil); err != nil {
		return nil, err
	}
	for _, it := range items {
		s.cache.invalidate(it.ProductID)
	}

	if s.notifier != nil {
		if err := s.notifier.OrderCreated(ctx, order); err != nil && s.log != nil {
			s.log.Warn("order notification failed", "order_id", orderID, "err", err)
		}
	}
	return &order, nil
}

func availableFor(p model.Product, bks []model.Booking, start, end *time.Time) int64 {
	if !p.Available {
		return 0
	}
	return availability.AvailableQuantity(p, bks, start, end)
}

func indexOf(items []model.CartItem, itemID string) int {
	for i, it := range items {
		if it.ID == itemID {
			return i
		}
	}
	return -1
}
