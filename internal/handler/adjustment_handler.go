package handler

import (
	"net/http"

	"app/internal/domain/model"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /stock-adjustments のidempotentな在庫調整API
type AdjustmentHandler struct {
	uc *usecase.LedgerUsecase
}

func NewAdjustmentHandler(uc *usecase.LedgerUsecase) *AdjustmentHandler {
	return &AdjustmentHandler{uc: uc}
}

func (h *AdjustmentHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/stock-adjustments", h.adjust)
}

type stockAdjustmentRequest struct {
	IdempotencyKey string `json:"idempotencyKey"`
	SKU            string `json:"sku"`
	Delta          *int64 `json:"delta"`
	Reason         string `json:"reason"`
	Reference      string `json:"reference"`
}

type stockAdjustmentResponse struct {
	SKU string `json:"sku"`
	Qty int64  `json:"qty"`
}

func (h *AdjustmentHandler) adjust(c echo.Context) error {
	var req stockAdjustmentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid payload", Code: "VALIDATION_ERROR"})
	}
	if req.IdempotencyKey == "" || req.SKU == "" || req.Delta == nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid payload", Code: "VALIDATION_ERROR"})
	}

	// 種別はdeltaの符号から決める。理由の自由記述はnoteへ
	txnType := model.TxnAdjPlus
	if *req.Delta < 0 {
		txnType = model.TxnAdjMinus
	}

	out, err := h.uc.Apply(c.Request().Context(), usecase.ApplyInput{
		SKU:            req.SKU,
		TxnType:        txnType,
		QtyChange:      *req.Delta,
		IdempotencyKey: req.IdempotencyKey,
		RefType:        "ADJ",
		RefID:          req.Reference,
		Note:           req.Reason,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, stockAdjustmentResponse{SKU: out.Entry.SKU, Qty: out.OnHand})
}
