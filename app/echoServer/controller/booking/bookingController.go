package booking

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"gearrental/model"
	bookingsvc "gearrental/service/booking"
)

type Controller struct {
	Svc bookingsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

func isAdmin(c echo.Context) bool {
	role, _ := c.Get("role").(string)
	return role == "admin"
}

// GET /v1/bookings  (admin)
func (h *Controller) List(c echo.Context) error {
	if !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	out, err := h.Svc.List(c.Request().Context())
	if err != nil {
		h.Log.Error("booking list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": out})
}

// GET /v1/orders  (admin)
func (h *Controller) Orders(c echo.Context) error {
	if !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	out, err := h.Svc.Orders(c.Request().Context())
	if err != nil {
		h.Log.Error("order list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": out})
}

// GET /v1/bookings/:id/status-options  (admin)
// Returns the legal next statuses so the admin UI renders only valid choices.
func (h *Controller) StatusOptions(c echo.Context) error {
	if !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	status := model.BookingStatus(c.QueryParam("current"))
	return c.JSON(http.StatusOK, echo.Map{"options": bookingsvc.AllowedNext(status)})
}

// PATCH /v1/bookings/:id/status  (admin)
func (h *Controller) UpdateStatus(c echo.Context) error {
	if !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req UpdateStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	if err := h.Svc.UpdateStatus(c.Request().Context(), id, model.BookingStatus(req.Status)); err != nil {
		return h.bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "updated"})
}

// DELETE /v1/bookings/:id  (admin)
func (h *Controller) Delete(c echo.Context) error {
	if !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
		return h.bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}

// POST /v1/orders/:id/status/plan  (admin)
// Step one of a group status change: returns the booking ids that would be
// affected so the caller can confirm before applying.
func (h *Controller) PlanGroupStatus(c echo.Context) error {
	if !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	var req UpdateStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	ids, err := h.Svc.PlanGroupStatusChange(c.Request().Context(), c.Param("id"), model.BookingStatus(req.Status))
	if err != nil {
		return h.bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"booking_ids": ids})
}

// POST /v1/orders/status/apply  (admin)
func (h *Controller) ApplyGroupStatus(c echo.Context) error {
	if !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	var req ApplyGroupStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	if err := h.Svc.ApplyGroupStatusChange(c.Request().Context(), req.BookingIDs, model.BookingStatus(req.Status)); err != nil {
		return h.bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "applied"})
}

func (h *Controller) bookingError(c echo.Context, err error) error {
	var tr *bookingsvc.TransitionError
	if errors.As(err, &tr) {
		return c.JSON(http.StatusConflict, echo.Map{"message": tr.Error()})
	}
	switch bookingsvc.Code(err) {
	case bookingsvc.ErrNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"message": "booking not found"})
	case bookingsvc.ErrEmptyGroup:
		return c.JSON(http.StatusNotFound, echo.Map{"message": "order not found"})
	default:
		h.Log.Error("booking operation", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
}
