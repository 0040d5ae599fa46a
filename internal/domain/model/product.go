package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 商品カタログ。数量の真実はledger_entriesの合計で、CurrentQtyは任意キャッシュ。
type Product struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	SKU         string          `gorm:"column:sku;type:varchar(64);not null;uniqueIndex" json:"sku"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Unit        string          `gorm:"type:varchar(32);not null" json:"unit"`
	ListPrice   decimal.Decimal `gorm:"type:numeric(12,2)" json:"list_price"`

	// NULL＝キャッシュなし（読むたびにledgerを合計する）
	CurrentQty *int64 `gorm:"column:current_qty" json:"current_qty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// CachedQty はキャッシュ値を返す。okがfalseならキャッシュ無効。
// nilチェックを呼び出し側に散らさない。
func (p Product) CachedQty() (int64, bool) {
	if p.CurrentQty == nil {
		return 0, false
	}
	return *p.CurrentQty, true
}
