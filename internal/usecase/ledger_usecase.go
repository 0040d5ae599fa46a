package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// 台帳への追加を一手に引き受ける。current_qtyを書くのはここだけ。
type LedgerUsecase struct {
	tx repo.TransactionManager
}

func NewLedgerUsecase(tx repo.TransactionManager) *LedgerUsecase {
	return &LedgerUsecase{tx: tx}
}

type ApplyInput struct {
	SKU            string
	TxnType        model.TxnType
	QtyChange      int64
	IdempotencyKey string
	RefType        string
	RefID          string
	Note           string
}

type ApplyOutput struct {
	Entry  model.LedgerEntry
	OnHand int64 // 適用後の残高
}

// Apply は1件の在庫変動を1トランザクションで確定する。
//
//	重複チェック → 商品を行ロックで取得 → 残高解決 → 残高不足チェック
//	→ 台帳追加 → キャッシュ更新 → commit
//
// 途中で失敗したら全部ロールバック。台帳行もキャッシュも残らない。
func (u *LedgerUsecase) Apply(ctx context.Context, in ApplyInput) (ApplyOutput, error) {
	if strings.TrimSpace(in.SKU) == "" {
		return ApplyOutput{}, newValidationError("sku required")
	}
	if !in.TxnType.Valid() {
		return ApplyOutput{}, newValidationError("invalid txnType: %s", in.TxnType)
	}
	if in.QtyChange == 0 {
		return ApplyOutput{}, newValidationError("qtyChange must be non-zero")
	}
	key := strings.TrimSpace(in.IdempotencyKey)
	if len(key) > 255 {
		return ApplyOutput{}, newValidationError("idempotency key too long")
	}

	// 符号は種別で決まる。符号違いは訂正して通す
	qtyChange := in.TxnType.Normalize(in.QtyChange)

	var out ApplyOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// 同じキーなら同じ結果
		if key != "" {
			prior, found, err := r.Ledger().FindByIdempotencyKey(ctx, key)
			if err != nil {
				return err
			}
			if found {
				return &DuplicateSubmissionError{Key: key, Entry: prior}
			}
		}

		// 行ロック。同一SKUのapplyはここで直列化される
		p, err := r.Products().FindBySKUForUpdate(ctx, in.SKU)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrSkuNotFound
		}
		if err != nil {
			return err
		}

		onHand, err := resolveOnHand(ctx, r, p)
		if err != nil {
			return err
		}

		newBalance := onHand + qtyChange
		if newBalance < 0 {
			return &InsufficientStockError{SKU: in.SKU, OnHand: onHand, Requested: qtyChange}
		}

		entry := model.LedgerEntry{
			SKU:       in.SKU,
			TxnType:   in.TxnType,
			QtyChange: qtyChange,
			RefType:   in.RefType,
			RefID:     in.RefID,
			Note:      in.Note,
		}
		if key != "" {
			k := key
			entry.IdempotencyKey = &k
		}

		created, err := r.Ledger().Append(ctx, entry)
		if err != nil {
			return err
		}

		// キャッシュ有効な商品だけ現在値を動かす
		if _, ok := p.CachedQty(); ok {
			if err := r.Inventory().SetCachedQty(ctx, in.SKU, newBalance); err != nil {
				return err
			}
		}

		out = ApplyOutput{Entry: created, OnHand: newBalance}
		return nil
	})

	// 同時に同じキーが入った場合、負けた側はunique制約で弾かれる。
	// トランザクションは巻き戻っているので、勝った方の結果を読み直す
	if errors.Is(err, repo.ErrDuplicateKey) && key != "" {
		var prior model.LedgerEntry
		var found bool
		err2 := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
			var e error
			prior, found, e = r.Ledger().FindByIdempotencyKey(ctx, key)
			return e
		})
		if err2 == nil && found {
			return ApplyOutput{}, &DuplicateSubmissionError{Key: key, Entry: prior}
		}
	}
	if err != nil {
		return ApplyOutput{}, err
	}
	return out, nil
}

type SaleItem struct {
	SKU string
	Qty int64
}

// ApplySaleCommitted は販売確定イベントを明細ごとに1件ずつ適用する。
//
// バッチ全体はアトミックではない。途中で失敗したら先行の明細はコミット済みの
// まま残り、適用済み件数を返す。明細のキーはSALE:<saleId>:<sku>なので、
// イベントが再送されても適用済みの明細は飛ばされる（二重減算しない）。
func (u *LedgerUsecase) ApplySaleCommitted(ctx context.Context, saleID string, items []SaleItem) (int, error) {
	if strings.TrimSpace(saleID) == "" {
		return 0, newValidationError("saleId required")
	}
	if len(items) == 0 {
		return 0, newValidationError("items required")
	}
	for _, it := range items {
		if strings.TrimSpace(it.SKU) == "" {
			return 0, newValidationError("item sku required")
		}
		if it.Qty <= 0 {
			return 0, newValidationError("item qty must be positive: sku=%s", it.SKU)
		}
	}

	applied := 0
	for _, it := range items {
		_, err := u.Apply(ctx, ApplyInput{
			SKU:            it.SKU,
			TxnType:        model.TxnSale,
			QtyChange:      it.Qty,
			IdempotencyKey: fmt.Sprintf("SALE:%s:%s", saleID, it.SKU),
			RefType:        "SALE",
			RefID:          saleID,
			Note:           "Sale committed",
		})

		var dup *DuplicateSubmissionError
		if errors.As(err, &dup) {
			// 再送。適用済みの明細は数えない
			continue
		}
		if err != nil {
			return applied, err
		}
		applied++
	}
	return applied, nil
}
