package productsvc

import (
	"context"
	"errors"

	"gearrental/model"
)

var ErrBadInput = errors.New("invalid payload")

type Repo interface {
	Create(ctx context.Context, p *model.Product) (int64, error)
	Update(ctx context.Context, p *model.Product) error
	SetAvailability(ctx context.Context, id int64, available bool) error
	List(ctx context.Context) ([]model.Product, error)
	Detail(ctx context.Context, id int64) (*model.Product, error)
}

type Service interface {
	Create(ctx context.Context, p *model.Product) (int64, error)
	Update(ctx context.Context, p *model.Product) error
	SetAvailability(ctx context.Context, id int64, available bool) error
	List(ctx context.Context) ([]model.Product, error)
	Detail(ctx context.Context, id int64) (*model.Product, error)
}

type service struct{ r Repo }

func New(r Repo) Service { return &service{r: r} }

func (s *service) Create(ctx context.Context, p *model.Product) (int64, error) {
	if p.Title == "" || p.Price < 0 || p.Quantity < 0 {
		return 0, ErrBadInput
	}
	return s.r.Create(ctx, p)
}

func (s *service) Update(ctx context.Context, p *model.Product) error {
	if p.ID <= 0 || p.Title == "" || p.Price < 0 || p.Quantity < 0 {
		return ErrBadInput
	}
	return s.r.Update(ctx, p)
}

func (s *service) SetAvailability(ctx context.Context, id int64, available bool) error {
	return s.r.SetAvailability(ctx, id, available)
}

func (s *service) List(ctx context.Context) ([]model.Product, error)            { return s.r.List(ctx) }
func (s *service) Detail(ctx context.Context, id int64) (*model.Product, error) { return s.r.Detail(ctx, id) }
