package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// unique制約違反。idempotency keyとSKUの二重登録検知に使う
var ErrDuplicateKey = errors.New("duplicate key")

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	List(ctx context.Context) ([]model.Product, error)
	FindBySKU(ctx context.Context, sku string) (model.Product, error)

	// 行ロック付き取得。applyの「読んで→判定して→書く」を同一SKUで直列化する
	FindBySKUForUpdate(ctx context.Context, sku string) (model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)

	// sales側からの同期用。あれば更新、なければ作成
	Upsert(ctx context.Context, p model.Product, setCache bool) error
}

// currentQtyキャッシュの書き込み。呼び出しはLedgerUsecaseのトランザクション内のみ。
type InventoryRepository interface {
	SetCachedQty(ctx context.Context, sku string, qty int64) error
}
