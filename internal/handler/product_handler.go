package handler

import (
	"net/http"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// /products のカタログAPIとSales_System同期
type ProductHandler struct {
	uc *usecase.ProductUsecase
}

// DI
func NewProductHandler(uc *usecase.ProductUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

func (h *ProductHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/products", h.list)
	e.POST("/products", h.create)
	e.GET("/products/sync", h.pullFromSales)
	e.POST("/products/sync-from-sales", h.syncFromSales)
	e.GET("/products/:sku", h.detail)
}

func (h *ProductHandler) list(c echo.Context) error {
	products, err := h.uc.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, products)
}

type productCreateRequest struct {
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Unit        string          `json:"unit"`
	ListPrice   decimal.Decimal `json:"listPrice"`
	UseQtyCache bool            `json:"useQtyCache"`
}

func (h *ProductHandler) create(c echo.Context) error {
	var req productCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body", Code: "VALIDATION_ERROR"})
	}

	p, err := h.uc.Create(c.Request().Context(), usecase.CreateProductInput{
		SKU:         req.SKU,
		Name:        req.Name,
		Description: req.Description,
		Unit:        req.Unit,
		ListPrice:   req.ListPrice,
		UseQtyCache: req.UseQtyCache,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *ProductHandler) detail(c echo.Context) error {
	p, err := h.uc.GetBySKU(c.Request().Context(), c.Param("sku"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

type syncResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// Sales_Systemからのpush受け口。bodyは商品の配列
func (h *ProductHandler) syncFromSales(c echo.Context) error {
	var items []usecase.SalesProduct
	if err := c.Bind(&items); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid payload format", Code: "VALIDATION_ERROR"})
	}

	count, err := h.uc.SyncFromSales(c.Request().Context(), items)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, syncResponse{
		Message: "Products received successfully from Sales_System",
		Count:   count,
	})
}

// Sales_SystemのAPIから取得してupsert
func (h *ProductHandler) pullFromSales(c echo.Context) error {
	count, err := h.uc.PullFromSales(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, syncResponse{
		Message: "Products synced successfully from Sales_System",
		Count:   count,
	})
}
