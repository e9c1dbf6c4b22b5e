package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/burgergo/loyalty-service/internal/repository"
	"github.com/burgergo/loyalty-service/internal/service"
)

// StaffHandler serves the employee panel: customer search, the three stamp
// transactions and the activity log. All methods assume JWT authentication
// and the STAFF role check have been applied by middleware.
type StaffHandler struct {
	Lookup   *service.Lookup
	Ledger   *service.Ledger
	Activity *repository.ActivityRepo
}

func NewStaffHandler(lookup *service.Lookup, ledger *service.Ledger, activity *repository.ActivityRepo) *StaffHandler {
	if lookup == nil || ledger == nil || activity == nil {
		panic("nil dependency passed to NewStaffHandler")
	}
	return &StaffHandler{Lookup: lookup, Ledger: ledger, Activity: activity}
}

// Search handles GET /v1/staff/search?q=... Free text of length >= 2; a
// four-digit query also matches phone suffixes. Always returns a candidate
// list: staff confirm identity explicitly even when only one customer
// matched.
func (h *StaffHandler) Search(c echo.Context) error {
	results, err := h.Lookup.StaffSearch(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		if errors.Is(err, service.ErrQueryTooShort) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": results})
}

// AddStamp handles POST /v1/staff/customers/:id/stamps.
func (h *StaffHandler) AddStamp(c echo.Context) error {
	return h.mutate(c, h.Ledger.AddStamp)
}

// Redeem handles POST /v1/staff/customers/:id/redeem. Customers below ten
// stamps are rejected with 409.
func (h *StaffHandler) Redeem(c echo.Context) error {
	return h.mutate(c, h.Ledger.RedeemFreeItem)
}

// Purchase handles POST /v1/staff/customers/:id/purchase, recording a paid
// visit by a customer who kept their free item for later.
func (h *StaffHandler) Purchase(c echo.Context) error {
	return h.mutate(c, h.Ledger.PurchaseWhileEligible)
}

// ListActivity handles GET /v1/staff/customers/:id/activity?limit=N.
func (h *StaffHandler) ListActivity(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid customer id"})
	}
	limit := 20
	if raw := c.QueryParam("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	entries, err := h.Activity.ListByCustomer(c.Request().Context(), id, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": entries})
}

// mutate runs one ledger operation against the customer in the path and
// maps the outcome to HTTP. A failed best-effort activity append shows up
// as a warning field, never as a failed request.
func (h *StaffHandler) mutate(c echo.Context, op func(context.Context, uint64) (service.LedgerResult, error)) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid customer id"})
	}
	res, err := op(c.Request().Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrCustomerNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		case errors.Is(err, service.ErrNotEnoughStamps):
			return c.JSON(http.StatusConflict, echo.Map{"error": "not enough stamps to redeem"})
		case errors.Is(err, repository.ErrStaleUpdate):
			// The bounded CAS retry inside the ledger was exhausted.
			return c.JSON(http.StatusConflict, echo.Map{"error": "customer was updated concurrently, retry"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
	}
	body := echo.Map{"customer": res.Customer}
	if res.Warning != "" {
		body["warning"] = res.Warning
	}
	return c.JSON(http.StatusOK, body)
}
