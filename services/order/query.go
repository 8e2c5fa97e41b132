package order

import (
	"context"
	"time"

	"github.com/ClaudioDevv/e-commerce/apperror"
	"github.com/ClaudioDevv/e-commerce/models"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type Filter struct {
	Status models.OrderStatus `form:"status"`
	From   *time.Time         `form:"date_from" time_format:"2006-01-02"`
	To     *time.Time         `form:"date_to" time_format:"2006-01-02"`
	Page   int                `form:"page"`
	Limit  int                `form:"limit"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

type Page struct {
	Orders     []models.Order `json:"orders"`
	Pagination Pagination     `json:"pagination"`
}

// Get returns an order the actor may see: admins see all, customers their own,
// and guests only guest orders.
func (s *Service) Get(ctx context.Context, orderID string, actor models.Actor) (*models.Order, error) {
	order, err := s.repo.OrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !Visible(order, actor) {
		return nil, apperror.NotFound("order not found")
	}
	return order, nil
}

func Visible(order *models.Order, actor models.Actor) bool {
	switch {
	case actor.IsAdmin():
		return true
	case actor.IsGuest():
		return order.IsGuest
	default:
		return order.OwnedBy(actor.UserID)
	}
}

// List pages through orders, newest first. Customers only see their own.
func (s *Service) List(ctx context.Context, actor models.Actor, f Filter) (*Page, error) {
	if actor.IsGuest() {
		return nil, apperror.Validation("sign in to list orders")
	}
	if f.Status != "" && f.Status != models.OrderStatusPending && f.Status != models.OrderStatusPaid && f.Status != models.OrderStatusCancelled {
		return nil, apperror.Validation("invalid status %q", f.Status)
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return nil, apperror.Validation("date_to is before date_from")
	}

	page, limit := f.Page, f.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	query := models.OrderFilter{
		Status: f.Status,
		From:   f.From,
		To:     f.To,
		Offset: (page - 1) * limit,
		Limit:  limit,
	}
	if !actor.IsAdmin() {
		query.UserID = actor.UserID
	}

	orders, total, err := s.repo.ListOrders(ctx, query)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []models.Order{}
	}

	return &Page{
		Orders: orders,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: (total + int64(limit) - 1) / int64(limit),
		},
	}, nil
}
