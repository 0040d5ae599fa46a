package handler

import (
	"net/http"

	"app/internal/domain/model"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /stock の残高照会と旧式の減算API
type StockHandler struct {
	stockUC  *usecase.StockUsecase
	ledgerUC *usecase.LedgerUsecase
}

func NewStockHandler(stockUC *usecase.StockUsecase, ledgerUC *usecase.LedgerUsecase) *StockHandler {
	return &StockHandler{stockUC: stockUC, ledgerUC: ledgerUC}
}

func (h *StockHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/stock/:sku", h.onHand)
	e.POST("/stock/update", h.update)
}

func (h *StockHandler) onHand(c echo.Context) error {
	out, err := h.stockUC.OnHand(c.Request().Context(), c.Param("sku"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type stockUpdateRequest struct {
	SKU string `json:"sku"`
	Qty int64  `json:"qty"`
}

type stockUpdateResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	SKU       string `json:"sku"`
	Remaining int64  `json:"remaining"`
}

// 販売後の減算。台帳を通さない直接更新はしない（キャッシュの一貫性が壊れる）
func (h *StockHandler) update(c echo.Context) error {
	var req stockUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid input", Code: "VALIDATION_ERROR"})
	}
	if req.SKU == "" || req.Qty <= 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid input", Code: "VALIDATION_ERROR"})
	}

	out, err := h.ledgerUC.Apply(c.Request().Context(), usecase.ApplyInput{
		SKU:       req.SKU,
		TxnType:   model.TxnSale,
		QtyChange: req.Qty,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, stockUpdateResponse{
		Success:   true,
		Message:   "Stock updated",
		SKU:       out.Entry.SKU,
		Remaining: out.OnHand,
	})
}
