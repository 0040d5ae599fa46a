package usecase

import (
	"errors"
	"fmt"

	"app/internal/domain/model"
)

// usecaseは型付きの失敗だけを返す。HTTPコードへの変換はhandler側の仕事。

var ErrSkuNotFound = errors.New("sku not found")

var ErrSkuExists = errors.New("sku already exists")

// 同期先が設定されていない
var ErrSalesAPIDisabled = errors.New("sales api not configured")

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// 残高不足。試みた変動と現在残高を持ち帰る
type InsufficientStockError struct {
	SKU       string
	OnHand    int64
	Requested int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: sku=%s on_hand=%d requested=%d", e.SKU, e.OnHand, e.Requested)
}

// idempotency keyが使用済み。失敗ではなく「初回の結果」を運ぶ
type DuplicateSubmissionError struct {
	Key   string
	Entry model.LedgerEntry
}

func (e *DuplicateSubmissionError) Error() string {
	return fmt.Sprintf("duplicate idempotency key: %s", e.Key)
}
