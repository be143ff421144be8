package cartsvc_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gearrental/model"
	cartsvc "gearrental/service/cart"
)

const owner = "42"

func day(d int) time.Time {
	return time.Date(2025, 6, d, 10, 0, 0, 0, time.UTC)
}

func dptr(d int) *time.Time {
	t := day(d)
	return &t
}

// mocks

type productSrc struct {
	fn func(ctx context.Context, id int64) (*model.Product, error)
}

func (m *productSrc) Product(ctx context.Context, id int64) (*model.Product, error) {
	return m.fn(ctx, id)
}

type bookingSrc struct {
	listFn   func(ctx context.Context, productID int64) ([]model.Booking, error)
	insertFn func(ctx context.Context, b *model.Booking) (int64, error)
	inserted []model.Booking
}

func (m *bookingSrc) BookingsForProduct(ctx context.Context, productID int64) ([]model.Booking, error) {
	if m.listFn == nil {
		return nil, nil
	}
	return m.listFn(ctx, productID)
}

func (m *bookingSrc) Insert(ctx context.Context, b *model.Booking) (int64, error) {
	if m.insertFn != nil {
		return m.insertFn(ctx, b)
	}
	m.inserted = append(m.inserted, *b)
	return int64(len(m.inserted)), nil
}

type memStore struct {
	items map[string][]model.CartItem
	saves int
}

func newMemStore() *memStore { return &memStore{items: make(map[string][]model.CartItem)} }

func (m *memStore) Load(ctx context.Context, owner string) ([]model.CartItem, error) {
	out := make([]model.CartItem, len(m.items[owner]))
	copy(out, m.items[owner])
	return out, nil
}

func (m *memStore) Save(ctx context.Context, owner string, items []model.CartItem) error {
	m.saves++
	cp := make([]model.CartItem, len(items))
	copy(cp, items)
	m.items[owner] = cp
	return nil
}

func fixedProduct(p model.Product) *productSrc {
	return &productSrc{fn: func(ctx context.Context, id int64) (*model.Product, error) {
		cp := p
		cp.ID = id
		return &cp, nil
	}}
}

func newService(p *productSrc, b *bookingSrc, st *memStore) cartsvc.Service {
	return cartsvc.New(p, b, st, nil, nil)
}

// tests

func TestAdd_RequiresDates(t *testing.T) {
	s := newService(fixedProduct(model.Product{Quantity: 5, Available: true}), &bookingSrc{}, newMemStore())

	_, err := s.Add(context.Background(), owner, 1, nil, dptr(3), 1)
	require.Equal(t, cartsvc.ErrDatesRequired, cartsvc.Code(err))
	_, err = s.Add(context.Background(), owner, 1, dptr(1), nil, 1)
	require.Equal(t, cartsvc.ErrDatesRequired, cartsvc.Code(err))
}

func TestAdd_MergesExactDateRange(t *testing.T) {
	ctx := context.Background()
	st := newMemStore()
	s := newService(fixedProduct(model.Product{Quantity: 10, Available: true, Title: "Camera"}), &bookingSrc{}, st)

	_, err := s.Add(ctx, owner, 1, dptr(1), dptr(3), 2)
	require.NoError(t, err)
	line, err := s.Add(ctx, owner, 1, dptr(1), dptr(3), 3)
	require.NoError(t, err)

	items, _ := s.Items(ctx, owner)
	require.Len(t, items, 1)
	require.Equal(t, int64(5), items[0].Quantity)
	require.Equal(t, int64(5), line.Quantity)
}

func TestAdd_RejectsInsteadOfCapping(t *testing.T) {
	ctx := context.Background()
	st := newMemStore()
	s := newService(fixedProduct(model.Product{Quantity: 4, Available: true}), &bookingSrc{}, st)

	_, err := s.Add(ctx, owner, 1, dptr(1), dptr(3), 2)
	require.NoError(t, err)

	_, err = s.Add(ctx, owner, 1, dptr(1), dptr(3), 3)
	var ins *cartsvc.InsufficientStockError
	require.ErrorAs(t, err, &ins)
	require.Equal(t, int64(5), ins.Requested)
	require.Equal(t, int64(4), ins.Available)

	// existing line untouched
	items, _ := s.Items(ctx, owner)
	require.Len(t, items, 1)
	require.Equal(t, int64(2), items[0].Quantity)
}

func TestAdd_DifferentDatesAreIndependentLines(t *testing.T) {
	ctx := context.Background()
	s := newService(fixedProduct(model.Product{Quantity: 10, Available: true}), &bookingSrc{}, newMemStore())

	_, err := s.Add(ctx, owner, 1, dptr(1), dptr(3), 2)
	require.NoError(t, err)
	_, err = s.Add(ctx, owner, 1, dptr(5), dptr(7), 2)
	require.NoError(t, err)

	items, _ := s.Items(ctx, owner)
	require.Len(t, items, 2)
}

func TestAdd_SnapshotsProductFields(t *testing.T) {
	ctx := context.Background()
	s := newService(fixedProduct(model.Product{Quantity: 3, Available: true, Title: "Tripod", Price: 500}), &bookingSrc{}, newMemStore())

	line, err := s.Add(ctx, owner, 7, dptr(1), dptr(2), 1)
	require.NoError(t, err)
	require.Equal(t, "Tripod", line.Title)
	require.Equal(t, 500.0, line.Price)
	require.NotEmpty(t, line.ID)
}

func TestUpdateQuantity_ClampsToMaxAvailable(t *testing.T) {
	ctx := context.Background()
	s := newService(fixedProduct(model.Product{Quantity: 3, Available: true}), &bookingSrc{}, newMemStore())

	line, err := s.Add(ctx, owner, 1, dptr(1), dptr(3), 2)
	require.NoError(t, err)

	out, err := s.UpdateQuantity(ctx, owner, line.ID, 5)
	require.NoError(t, err)
	require.True(t, out.Clamped)
	require.Equal(t, int64(3), out.Quantity)

	items, _ := s.Items(ctx, owner)
	require.Equal(t, int64(3), items[0].Quantity)
}

func TestUpdateQuantity_PlainUpdate(t *testing.T) {
	ctx := context.Background()
	s := newService(fixedProduct(model.Product{Quantity: 5, Available: true}), &bookingSrc{}, newMemStore())

	line, _ := s.Add(ctx, owner, 1, dptr(1), dptr(3), 2)
	out, err := s.UpdateQuantity(ctx, owner, line.ID, 4)
	require.NoError(t, err)
	require.False(t, out.Clamped)
	require.Equal(t, int64(4), out.Quantity)
}

func TestUpdateQuantity_NonPositiveRemoves(t *testing.T) {
	ctx := context.Background()
	s := newService(fixedProduct(model.Product{Quantity: 5, Available: true}), &bookingSrc{}, newMemStore())

	line, _ := s.Add(ctx, owner, 1, dptr(1), dptr(3), 2)
	out, err := s.UpdateQuantity(ctx, owner, line.ID, 0)
	require.NoError(t, err)
	require.True(t, out.Removed)

	items, _ := s.Items(ctx, owner)
	require.Empty(t, items)
}

func TestRedateAll_NoopShortCircuits(t *testing.T) {
	ctx := context.Background()
	st := newMemStore()
	s := newService(fixedProduct(model.Product{Quantity: 5, Available: true}), &bookingSrc{}, st)

	_, err := s.Add(ctx, owner, 1, dptr(1), dptr(3), 1)
	require.NoError(t, err)
	savesBefore := st.saves

	changed, err := s.RedateAll(ctx, owner, day(1), day(3))
	require.NoError(t, err)
	require.False(t, changed)
	require.Equal(t, savesBefore, st.saves, "no-op must not touch storage")
}

func TestRedateAll_AppliesToEveryLine(t *testing.T) {
	ctx := context.Background()
	s := newService(fixedProduct(model.Product{Quantity: 5, Available: true}), &bookingSrc{}, newMemStore())

	_, _ = s.Add(ctx, owner, 1, dptr(1), dptr(3), 1)
	_, _ = s.Add(ctx, owner, 2, dptr(5), dptr(7), 1)

	changed, err := s.RedateAll(ctx, owner, day(10), day(12))
	require.NoError(t, err)
	require.True(t, changed)

	items, _ := s.Items(ctx, owner)
	for _, it := range items {
		require.True(t, it.StartDate.Equal(day(10)))
		require.True(t, it.EndDate.Equal(day(12)))
	}
}

func TestTotal_RoundsGrandTotalOnce(t *testing.T) {
	ctx := context.Background()
	// base 1 over 5 days costs 1*5*0.7 = 3.5 per line. Per-line rounding
	// would give 4+4=8; a single grand rounding gives 7.
	s := newService(fixedProduct(model.Product{Quantity: 5, Available: true, Price: 1}), &bookingSrc{}, newMemStore())

	_, err := s.Add(ctx, owner, 1, dptr(1), dptr(6), 1)
	require.NoError(t, err)
	_, err = s.Add(ctx, owner, 2, dptr(1), dptr(6), 1)
	require.NoError(t, err)

	total, err := s.Total(ctx, owner)
	require.NoError(t, err)
	require.Equal(t, 7.0, total)
}

func TestFetchFailureMeansUnavailable(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("store down")
	p := &productSrc{fn: func(ctx context.Context, id int64) (*model.Product, error) { return nil, boom }}
	s := newService(p, &bookingSrc{}, newMemStore())

	_, err := s.Add(ctx, owner, 1, dptr(1), dptr(3), 1)
	require.Equal(t, cartsvc.ErrUnavailable, cartsvc.Code(err))
	require.ErrorIs(t, err, boom)

	items, _ := s.Items(ctx, owner)
	require.Empty(t, items, "failed check must not mutate the cart")
}

func TestAdd_ChecksExistingBookings(t *testing.T) {
	ctx := context.Background()
	b := &bookingSrc{listFn: func(ctx context.Context, productID int64) ([]model.Booking, error) {
		return []model.Booking{{
			ProductID: productID, Status: model.BookingConfirmed, Quantity: 2,
			StartDate: day(1), EndDate: day(4),
		}}, nil
	}}
	s := newService(fixedProduct(model.Product{Quantity: 3, Available: true}), b, newMemStore())

	_, err := s.Add(ctx, owner, 1, dptr(2), dptr(3), 2)
	var ins *cartsvc.InsufficientStockError
	require.ErrorAs(t, err, &ins)
	require.Equal(t, int64(1), ins.Available)
}

func TestCheckout_CommitsOneOrderGroup(t *testing.T) {
	ctx := context.Background()
	st := newMemStore()
	b := &bookingSrc{}
	s := newService(fixedProduct(model.Product{Quantity: 5, Available: true, Price: 1000}), b, st)

	_, err := s.Add(ctx, owner, 1, dptr(1), dptr(4), 2) // 3 days
	require.NoError(t, err)
	_, err = s.Add(ctx, owner, 2, dptr(1), dptr(2), 1) // 1 day
	require.NoError(t, err)

	order, err := s.Checkout(ctx, owner, cartsvc.Customer{Name: "Ann", Email: "ann@example.com", Phone: "123"})
	require.NoError(t, err)
	require.Len(t, b.inserted, 2)
	require.NotEmpty(t, order.OrderID)

	for _, ins := range b.inserted {
		require.Equal(t, model.BookingPending, ins.Status)
		require.NotNil(t, ins.OrderID)
		require.Equal(t, order.OrderID, *ins.OrderID)
		require.Equal(t, "Ann", ins.CustomerName)
	}
	// stored totals are computed at creation time: 2*2700 and 1*1000
	require.Equal(t, 5400.0, b.inserted[0].TotalPrice)
	require.Equal(t, 1000.0, b.inserted[1].TotalPrice)
	require.Equal(t, 6400.0, order.TotalPrice)

	// cart cleared after commit
	items, _ := s.Items(ctx, owner)
	require.Empty(t, items)
}

func TestCheckout_LoserOfRaceFailsExplicitly(t *testing.T) {
	ctx := context.Background()
	st := newMemStore()

	// nothing booked while the item sat in the cart...
	conflicts := []model.Booking(nil)
	b := &bookingSrc{listFn: func(ctx context.Context, productID int64) ([]model.Booking, error) {
		return conflicts, nil
	}}
	s := newService(fixedProduct(model.Product{Quantity: 1, Available: true}), b, st)

	_, err := s.Add(ctx, owner, 1, dptr(1), dptr(3), 1)
	require.NoError(t, err)

	// ...until another shopper commits the last unit first
	conflicts = []model.Booking{{
		ProductID: 1, Status: model.BookingPending, Quantity: 1,
		StartDate: day(1), EndDate: day(3),
	}}

	_, err = s.Checkout(ctx, owner, cartsvc.Customer{Name: "Ann", Email: "a@b.c", Phone: "1"})
	var ins *cartsvc.InsufficientStockError
	require.ErrorAs(t, err, &ins)
	require.Equal(t, int64(0), ins.Available)
	require.Empty(t, b.inserted, "losing checkout must not write bookings")

	// cart survives the failed checkout
	items, _ := s.Items(ctx, owner)
	require.Len(t, items, 1)
}

func TestCheckout_EmptyCart(t *testing.T) {
	s := newService(fixedProduct(model.Product{Quantity: 1, Available: true}), &bookingSrc{}, newMemStore())
	_, err := s.Checkout(context.Background(), owner, cartsvc.Customer{Name: "A", Email: "a@b.c", Phone: "1"})
	require.Equal(t, cartsvc.ErrEmptyCart, cartsvc.Code(err))
}

func TestClearEmptiesAllLines(t *testing.T) {
	ctx := context.Background()
	s := newService(fixedProduct(model.Product{Quantity: 5, Available: true}), &bookingSrc{}, newMemStore())

	_, _ = s.Add(ctx, owner, 1, dptr(1), dptr(3), 1)
	_, _ = s.Add(ctx, owner, 2, dptr(1), dptr(3), 1)
	require.NoError(t, s.Clear(ctx, owner))

	items, _ := s.Items(ctx, owner)
	require.Empty(t, items)
}

func TestAvailabilityQueryUsesManualOverride(t *testing.T) {
	ctx := context.Background()
	s := newService(fixedProduct(model.Product{Quantity: 5, Available: false}), &bookingSrc{}, newMemStore())

	avail, err := s.Availability(ctx, 1, dptr(1), dptr(3))
	require.NoError(t, err)
	// quantity math still answers the "how many" question; the override is
	// enforced by the yes/no check on mutation paths
	require.Equal(t, int64(5), avail)

	_, err = s.Add(ctx, owner, 1, dptr(1), dptr(3), 1)
	var ins *cartsvc.InsufficientStockError
	require.ErrorAs(t, err, &ins)
	require.Equal(t, int64(0), ins.Available)
}
