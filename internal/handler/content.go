package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/burgergo/loyalty-service/internal/menu"
)

// Menu handles GET /v1/menu, returning the popular menu items rendered on
// the landing page. The content is compiled in; the response-cache
// middleware keeps repeated hits off the handler anyway.
func Menu(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"items": menu.PopularItems})
}

// StoreInfo handles GET /v1/store, returning the address/hours/social
// block shown in the info bar and footer.
func StoreInfo(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"store": menu.Info})
}
