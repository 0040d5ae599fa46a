package server

import (
	"net/http"

	"app/internal/handler"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// New はechoを組み立てて全ルートを登録する。
func New(
	productH *handler.ProductHandler,
	ledgerH *handler.LedgerHandler,
	stockH *handler.StockHandler,
	adjustmentH *handler.AdjustmentHandler,
	eventH *handler.EventHandler,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Recover())
	e.Use(middleware.Logger())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]bool{"ok": true})
	})

	productH.RegisterRoutes(e)
	ledgerH.RegisterRoutes(e)
	stockH.RegisterRoutes(e)
	adjustmentH.RegisterRoutes(e)
	eventH.RegisterRoutes(e)

	return e
}
