package handler

import (
	"net/http"

	"app/internal/domain/model"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /ledger の台帳追加API
type LedgerHandler struct {
	uc *usecase.LedgerUsecase
}

// DI
func NewLedgerHandler(uc *usecase.LedgerUsecase) *LedgerHandler {
	return &LedgerHandler{uc: uc}
}

func (h *LedgerHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/ledger", h.append)
}

type ledgerAppendRequest struct {
	SKU       string `json:"sku"`
	TxnType   string `json:"txnType"`
	QtyChange int64  `json:"qtyChange"`
	RefType   string `json:"refType"`
	RefID     string `json:"refId"`
	Note      string `json:"note"`
}

func (h *LedgerHandler) append(c echo.Context) error {
	var req ledgerAppendRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body", Code: "VALIDATION_ERROR"})
	}

	out, err := h.uc.Apply(c.Request().Context(), usecase.ApplyInput{
		SKU:       req.SKU,
		TxnType:   model.TxnType(req.TxnType),
		QtyChange: req.QtyChange,
		RefType:   req.RefType,
		RefID:     req.RefID,
		Note:      req.Note,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out.Entry)
}
