package handler

import (
	"net/http"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /events 販売確定イベントの受け口（HTTP webhook）
type EventHandler struct {
	uc *usecase.LedgerUsecase
}

func NewEventHandler(uc *usecase.LedgerUsecase) *EventHandler {
	return &EventHandler{uc: uc}
}

func (h *EventHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/events/sale-committed", h.saleCommitted)
}

type saleCommittedRequest struct {
	SaleID string            `json:"saleId"`
	Items  []saleItemRequest `json:"items"`
}

type saleItemRequest struct {
	SKU string `json:"sku"`
	Qty int64  `json:"qty"`
}

type saleCommittedResponse struct {
	OK    bool `json:"ok"`
	Count int  `json:"count"`
}

type saleCommittedErrorResponse struct {
	ErrorResponse
	Applied int `json:"applied"`
}

func (h *EventHandler) saleCommitted(c echo.Context) error {
	var req saleCommittedRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid payload", Code: "VALIDATION_ERROR"})
	}

	items := make([]usecase.SaleItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, usecase.SaleItem{SKU: it.SKU, Qty: it.Qty})
	}

	applied, err := h.uc.ApplySaleCommitted(c.Request().Context(), req.SaleID, items)
	if err != nil {
		// バッチはアトミックではない。失敗しても適用済み件数は返す
		status, body := errorStatus(err)
		return c.JSON(status, saleCommittedErrorResponse{ErrorResponse: body, Applied: applied})
	}

	return c.JSON(http.StatusOK, saleCommittedResponse{OK: true, Count: applied})
}
