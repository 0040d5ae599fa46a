package model

import "time"

// 在庫変動の台帳。append-onlyで、更新・削除はしない。
// 訂正は逆符号のエントリを追加して行う。
type LedgerEntry struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	// 任意。指定された場合はDBのunique制約で二重登録を防ぐ
	IdempotencyKey *string `gorm:"type:varchar(255);uniqueIndex" json:"idempotency_key,omitempty"`

	SKU       string  `gorm:"column:sku;type:varchar(64);not null;index" json:"sku"`
	TxnType   TxnType `gorm:"type:varchar(16);not null" json:"txn_type"`
	QtyChange int64   `gorm:"not null" json:"qty_change"`

	// 由来の相関情報（どの販売が原因か等）
	RefType string `gorm:"type:varchar(32)" json:"ref_type,omitempty"`
	RefID   string `gorm:"type:varchar(64)" json:"ref_id,omitempty"`
	Note    string `gorm:"type:varchar(255)" json:"note,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (LedgerEntry) TableName() string {
	return "ledger_entries"
}
