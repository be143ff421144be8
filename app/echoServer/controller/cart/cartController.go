package cart

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	cartsvc "gearrental/service/cart"
)

type Controller struct {
	Svc cartsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

func owner(c echo.Context) string {
	uid, _ := c.Get("user_id").(int64)
	return strconv.FormatInt(uid, 10)
}

// GET /v1/cart
func (h *Controller) Get(c echo.Context) error {
	ctx := c.Request().Context()
	own := owner(c)

	items, err := h.Svc.Items(ctx, own)
	if err != nil {
		h.Log.Error("cart load", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	total, err := h.Svc.Total(ctx, own)
	if err != nil {
		h.Log.Error("cart total", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	var count int64
	for _, it := range items {
		count += it.Quantity
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items": items,
		"count": count,
		"total": total,
	})
}

// POST /v1/cart/items
func (h *Controller) AddItem(c echo.Context) error {
	var req AddItemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	qty := req.Quantity
	if qty == 0 {
		qty = 1
	}

	line, err := h.Svc.Add(c.Request().Context(), owner(c), req.ProductID, req.StartDate, req.EndDate, qty)
	if err != nil {
		return h.cartError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": line})
}

// PATCH /v1/cart/items/:id
func (h *Controller) UpdateQuantity(c echo.Context) error {
	var req UpdateQuantityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	out, err := h.Svc.UpdateQuantity(c.Request().Context(), owner(c), c.Param("id"), req.Quantity)
	if err != nil {
		return h.cartError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"result": out})
}

// DELETE /v1/cart/items/:id
func (h *Controller) RemoveItem(c echo.Context) error {
	if err := h.Svc.Remove(c.Request().Context(), owner(c), c.Param("id")); err != nil {
		return h.cartError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "removed"})
}

// PUT /v1/cart/dates
func (h *Controller) Redate(c echo.Context) error {
	var req RedateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	changed, err := h.Svc.RedateAll(c.Request().Context(), owner(c), req.StartDate, req.EndDate)
	if err != nil {
		return h.cartError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"changed": changed})
}

// DELETE /v1/cart
func (h *Controller) Clear(c echo.Context) error {
	if err := h.Svc.Clear(c.Request().Context(), owner(c)); err != nil {
		h.Log.Error("cart clear", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "cleared"})
}

// POST /v1/checkout
func (h *Controller) Checkout(c echo.Context) error {
	var req CheckoutReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	order, err := h.Svc.Checkout(c.Request().Context(), owner(c), cartsvc.Customer{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Notes: req.Notes,
	})
	if err != nil {
		return h.cartError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"order": order})
}

// GET /v1/products/:id/availability?start=...&end=...
func (h *Controller) Availability(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	start, err := parseDateParam(c.QueryParam("start"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid start date"})
	}
	end, err := parseDateParam(c.QueryParam("end"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid end date"})
	}

	avail, err := h.Svc.Availability(c.Request().Context(), id, start, end)
	if err != nil {
		return h.cartError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"available": avail})
}

func parseDateParam(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (h *Controller) cartError(c echo.Context, err error) error {
	var ins *cartsvc.InsufficientStockError
	if errors.As(err, &ins) {
		// always report the corrected bound
		return c.JSON(http.StatusConflict, echo.Map{
			"message":   "insufficient stock",
			"requested": ins.Requested,
			"available": ins.Available,
		})
	}

	switch cartsvc.Code(err) {
	case cartsvc.ErrDatesRequired:
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "dates required"})
	case cartsvc.ErrBadQuantity:
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "quantity must be positive"})
	case cartsvc.ErrBadDateRange:
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "end date must be after start date"})
	case cartsvc.ErrItemNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"message": "cart item not found"})
	case cartsvc.ErrProductNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"message": "product not found"})
	case cartsvc.ErrEmptyCart:
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "cart is empty"})
	case cartsvc.ErrUnavailable:
		// check could not complete; never report available
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"message": "availability unknown, try again"})
	default:
		h.Log.Error("cart operation", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
}
