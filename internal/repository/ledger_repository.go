package repository

import (
	"context"

	"app/internal/domain/model"
)

// 台帳はappend-only。UpdateもDeleteも約束しない。
type LedgerRepository interface {
	// 追加。idempotency keyが衝突したらErrDuplicateKey
	Append(ctx context.Context, e model.LedgerEntry) (model.LedgerEntry, error)

	// 同じキーなら同じ結果を返すための検索
	FindByIdempotencyKey(ctx context.Context, key string) (model.LedgerEntry, bool, error)

	// キャッシュ無効SKUの残高計算。エントリが無ければ0
	SumBySKU(ctx context.Context, sku string) (int64, error)

	ListBySKU(ctx context.Context, sku string) ([]model.LedgerEntry, error)
}
