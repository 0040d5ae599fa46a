package handler

import (
	"errors"
	"net/http"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// usecaseの型付きエラー → HTTPコード。変換はここだけが知っている
func errorStatus(err error) (int, ErrorResponse) {
	var ve *usecase.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, ErrorResponse{Error: ve.Message, Code: "VALIDATION_ERROR"}
	}
	if errors.Is(err, usecase.ErrSkuNotFound) {
		return http.StatusNotFound, ErrorResponse{Error: "sku not found", Code: "SKU_NOT_FOUND"}
	}
	if errors.Is(err, usecase.ErrSkuExists) {
		return http.StatusConflict, ErrorResponse{Error: "sku already exists", Code: "SKU_EXISTS"}
	}
	var ise *usecase.InsufficientStockError
	if errors.As(err, &ise) {
		return http.StatusUnprocessableEntity, ErrorResponse{Error: "insufficient stock", Code: "INSUFFICIENT_STOCK"}
	}
	var dup *usecase.DuplicateSubmissionError
	if errors.As(err, &dup) {
		return http.StatusConflict, ErrorResponse{Error: "duplicate idempotency key", Code: "DUPLICATE"}
	}

	//500
	return http.StatusInternalServerError, ErrorResponse{Error: "server error", Code: "SERVER_ERROR"}
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	status, body := errorStatus(err)
	return c.JSON(status, body)
}
