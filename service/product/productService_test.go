// service/product/product_service_test.go
package productsvc_test

import (
	"context"
	"errors"
	"testing"

	"gearrental/model"
	productsvc "gearrental/service/product"
)

type repoMock struct {
	createFn   func(ctx context.Context, p *model.Product) (int64, error)
	updateFn   func(ctx context.Context, p *model.Product) error
	setAvailFn func(ctx context.Context, id int64, available bool) error
	listFn     func(ctx context.Context) ([]model.Product, error)
	detailFn   func(ctx context.Context, id int64) (*model.Product, error)
}

func (m *repoMock) Create(ctx context.Context, p *model.Product) (int64, error) {
	return m.createFn(ctx, p)
}
func (m *repoMock) Update(ctx context.Context, p *model.Product) error { return m.updateFn(ctx, p) }
func (m *repoMock) SetAvailability(ctx context.Context, id int64, available bool) error {
	return m.setAvailFn(ctx, id, available)
}
func (m *repoMock) List(ctx context.Context) ([]model.Product, error) { return m.listFn(ctx) }
func (m *repoMock) Detail(ctx context.Context, id int64) (*model.Product, error) {
	return m.detailFn(ctx, id)
}

func TestCreate_Validation(t *testing.T) {
	s := productsvc.New(&repoMock{})
	ctx := context.Background()

	if _, err := s.Create(ctx, &model.Product{Title: "", Price: 10, Quantity: 1}); err == nil {
		t.Fatal("expected error for empty title")
	}
	if _, err := s.Create(ctx, &model.Product{Title: "Drill", Price: -1, Quantity: 1}); err == nil {
		t.Fatal("expected error for negative price")
	}
	if _, err := s.Create(ctx, &model.Product{Title: "Drill", Price: 10, Quantity: -1}); err == nil {
		t.Fatal("expected error for negative quantity")
	}
}

func TestCreate_Success(t *testing.T) {
	m := &repoMock{
		createFn: func(ctx context.Context, p *model.Product) (int64, error) {
			if p.Title != "Generator 5kW" || p.Price != 2500 {
				return 0, errors.New("bad args")
			}
			return 42, nil
		},
	}
	s := productsvc.New(m)
	id, err := s.Create(context.Background(), &model.Product{Title: "Generator 5kW", Price: 2500, Quantity: 3, Available: true})
	if err != nil || id != 42 {
		t.Fatalf("got id=%v err=%v; want 42 nil", id, err)
	}
}

func TestUpdate_RequiresID(t *testing.T) {
	s := productsvc.New(&repoMock{})
	err := s.Update(context.Background(), &model.Product{Title: "Drill", Price: 10, Quantity: 1})
	if err == nil {
		t.Fatal("expected error for missing id")
	}
}

func TestPassThroughs(t *testing.T) {
	m := &repoMock{
		setAvailFn: func(ctx context.Context, id int64, available bool) error { return nil },
		listFn:     func(ctx context.Context) ([]model.Product, error) { return nil, nil },
		detailFn:   func(ctx context.Context, id int64) (*model.Product, error) { return &model.Product{}, nil },
	}
	s := productsvc.New(m)

	if err := s.SetAvailability(context.Background(), 7, false); err != nil {
		t.Fatalf("SetAvailability error: %v", err)
	}
	if _, err := s.List(context.Background()); err != nil {
		t.Fatalf("List error: %v", err)
	}
	if _, err := s.Detail(context.Background(), 99); err != nil {
		t.Fatalf("Detail error: %v", err)
	}
}
