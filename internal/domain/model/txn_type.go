package model

// 在庫変動の理由コード。固定の列挙で、追加はマイグレーション扱い。
type TxnType string

const (
	TxnPurchase    TxnType = "PUR"
	TxnSale        TxnType = "SALE"
	TxnAdjPlus     TxnType = "ADJ+"
	TxnAdjMinus    TxnType = "ADJ-"
	TxnReturnIn    TxnType = "RTN_IN"
	TxnReturnOut   TxnType = "RTN_OUT"
	TxnTransferIn  TxnType = "XFER_IN"
	TxnTransferOut TxnType = "XFER_OUT"
)

func (t TxnType) Valid() bool {
	switch t {
	case TxnPurchase, TxnSale, TxnAdjPlus, TxnAdjMinus,
		TxnReturnIn, TxnReturnOut, TxnTransferIn, TxnTransferOut:
		return true
	}
	return false
}

// Outbound は在庫を減らす種別かどうか。
func (t TxnType) Outbound() bool {
	switch t {
	case TxnSale, TxnAdjMinus, TxnReturnOut, TxnTransferOut:
		return true
	}
	return false
}

// Normalize は種別に応じた符号に揃える。符号違いは訂正であってエラーにしない。
// qty=0はここでは扱わない（事前バリデーションで弾く）。
func (t TxnType) Normalize(qty int64) int64 {
	abs := qty
	if abs < 0 {
		abs = -abs
	}
	if t.Outbound() {
		return -abs
	}
	return abs
}
