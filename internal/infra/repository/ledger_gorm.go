package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type LedgerGormRepository struct {
	db *gorm.DB
}

func NewLedgerGormRepository(db *gorm.DB) *LedgerGormRepository {
	return &LedgerGormRepository{db: db}
}

// 台帳へ追加。idempotency_keyのunique制約違反はErrDuplicateKeyに変換する。
// 同時に同じキーが来てもDB側で片方しか通らない
func (r *LedgerGormRepository) Append(ctx context.Context, e model.LedgerEntry) (model.LedgerEntry, error) {
	if err := r.db.WithContext(ctx).Create(&e).Error; err != nil {
		if isDuplicateKey(err) {
			return model.LedgerEntry{}, repo.ErrDuplicateKey
		}
		return model.LedgerEntry{}, err
	}
	return e, nil
}

// 同じキーなら同じ結果を返すための検索
func (r *LedgerGormRepository) FindByIdempotencyKey(ctx context.Context, key string) (model.LedgerEntry, bool, error) {
	var e model.LedgerEntry
	err := r.db.WithContext(ctx).Where("idempotency_key = ?", key).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.LedgerEntry{}, false, nil
	}
	if err != nil {
		return model.LedgerEntry{}, false, err
	}
	return e, true, nil
}

// qty_changeの合計。エントリが無ければ0
func (r *LedgerGormRepository) SumBySKU(ctx context.Context, sku string) (int64, error) {
	var sum int64
	err := r.db.WithContext(ctx).
		Model(&model.LedgerEntry{}).
		Where("sku = ?", sku).
		Select("COALESCE(SUM(qty_change), 0)").
		Scan(&sum).Error
	if err != nil {
		return 0, err
	}
	return sum, nil
}

// 古い順で全件
func (r *LedgerGormRepository) ListBySKU(ctx context.Context, sku string) ([]model.LedgerEntry, error) {
	var entries []model.LedgerEntry
	err := r.db.WithContext(ctx).
		Where("sku = ?", sku).
		Order("id asc").
		Find(&entries).Error
	if err != nil {
		return []model.LedgerEntry{}, err
	}
	return entries, nil
}

// Postgresのunique_violation
func isDuplicateKey(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
