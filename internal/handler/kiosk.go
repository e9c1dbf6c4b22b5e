package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/burgergo/loyalty-service/internal/cache"
	"github.com/burgergo/loyalty-service/internal/repository"
	"github.com/burgergo/loyalty-service/internal/service"
)

// KioskHandler serves the customer-facing stamp card flow: suffix lookup,
// registration and card display. No authentication is applied; customers
// identify themselves by the last four digits of their phone number.
type KioskHandler struct {
	Lookup     *service.Lookup
	Customers  *repository.CustomerRepo
	Selections *cache.SelectionCache
	Sequences  *cache.SequenceGuard
}

func NewKioskHandler(lookup *service.Lookup, customers *repository.CustomerRepo, selections *cache.SelectionCache, sequences *cache.SequenceGuard) *KioskHandler {
	if lookup == nil || customers == nil || selections == nil || sequences == nil {
		panic("nil dependency passed to NewKioskHandler")
	}
	return &KioskHandler{Lookup: lookup, Customers: customers, Selections: selections, Sequences: sequences}
}

type registerReq struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// ResolveSuffix handles GET /v1/lookup?last4=NNNN&session=S&seq=N.
// The optional session/seq pair enforces latest-request-wins: a completion
// carrying a sequence lower than the highest already observed for the
// session returns 409 so the kiosk drops the stale result.
func (h *KioskHandler) ResolveSuffix(c echo.Context) error {
	ctx := c.Request().Context()
	session := c.QueryParam("session")
	seq := uint64(0)
	if raw := c.QueryParam("seq"); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seq"})
		}
		seq = n
	}
	if !h.Sequences.Observe(ctx, session, seq) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "stale", "seq": seq})
	}

	res, err := h.Lookup.ResolveSuffix(ctx, c.QueryParam("last4"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidSuffix) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if res.State == service.StateAutoSelected {
		h.Selections.Remember(ctx, session, res.Customer.ID)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"state":      res.State,
		"customer":   res.Customer,
		"candidates": res.Candidates,
		"seq":        seq,
	})
}

// Register handles POST /v1/register. 201 when a new customer was created,
// 200 when the duplicate-phone secondary resolution bound an existing one,
// 409 on a true conflict, 400 on validation failures.
func (h *KioskHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx := c.Request().Context()

	res, created, err := h.Lookup.Register(ctx, req.Name, req.Phone)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidName), errors.Is(err, service.ErrInvalidPhone):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		case errors.Is(err, repository.ErrPhoneExists):
			return c.JSON(http.StatusConflict, echo.Map{"error": "phone already registered"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
	}
	h.Selections.Remember(ctx, c.QueryParam("session"), res.Customer.ID)

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return c.JSON(status, echo.Map{
		"state":    res.State,
		"customer": res.Customer,
	})
}

// Card handles GET /v1/customers/:id/card. The kiosk refreshes a selected
// customer's card through this endpoint; the selection is remembered for
// the session when one is supplied.
func (h *KioskHandler) Card(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid customer id"})
	}
	ctx := c.Request().Context()
	cust, err := h.Customers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	h.Selections.Remember(ctx, c.QueryParam("session"), cust.ID)
	return c.JSON(http.StatusOK, echo.Map{"customer": cust})
}

// Recent handles GET /v1/recent?session=S. It returns the customer the
// session last selected, if the cache still remembers one; 204 otherwise.
func (h *KioskHandler) Recent(c echo.Context) error {
	ctx := c.Request().Context()
	id, ok := h.Selections.Recall(ctx, c.QueryParam("session"))
	if !ok {
		return c.NoContent(http.StatusNoContent)
	}
	cust, err := h.Customers.GetByID(ctx, id)
	if err != nil {
		// A vanished customer just means there is nothing recent to show.
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, echo.Map{"customer": cust})
}
