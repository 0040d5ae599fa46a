package usecase

import (
	"context"
	"errors"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// 残高の読み取り専用。書き込みはLedgerUsecaseに寄せる。
type StockUsecase struct {
	tx repo.TransactionManager
}

func NewStockUsecase(tx repo.TransactionManager) *StockUsecase {
	return &StockUsecase{tx: tx}
}

type StockOutput struct {
	SKU    string `json:"sku"`
	OnHand int64  `json:"onHand"`
}

func (u *StockUsecase) OnHand(ctx context.Context, sku string) (StockOutput, error) {
	if strings.TrimSpace(sku) == "" {
		return StockOutput{}, newValidationError("sku required")
	}

	var out StockOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Products().FindBySKU(ctx, sku)
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

		out = StockOutput{SKU: p.SKU, OnHand: onHand}
		return nil
	})

	if err != nil {
		return StockOutput{}, err
	}
	return out, nil
}

// resolveOnHand が残高の唯一の解決点。キャッシュがあればO(1)、
// なければ台帳を合計する。applyと同じトランザクション内で呼ぶこと。
func resolveOnHand(ctx context.Context, r repo.TxRepos, p model.Product) (int64, error) {
	if qty, ok := p.CachedQty(); ok {
		return qty, nil
	}
	return r.Ledger().SumBySKU(ctx, p.SKU)
}
