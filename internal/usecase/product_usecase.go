package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
)

// Sales_Systemから取得する商品一覧。実装はinfra/salesapi。
type SalesCatalog interface {
	FetchProducts(ctx context.Context) ([]SalesProduct, error)
}

// Sales_Systemとやり取りする商品の形。
// Django側はDecimalを文字列で返すことがあるのでdecimalで受ける
type SalesProduct struct {
	SKU         string           `json:"sku"`
	Name        string           `json:"name"`
	Description *string          `json:"description"`
	Unit        string           `json:"unit"`
	Price       *decimal.Decimal `json:"price"`
	StockQty    *decimal.Decimal `json:"stock_qty"`
}

type ProductUsecase struct {
	products repo.ProductRepository
	sales    SalesCatalog // nilなら同期無効
}

// DI
func NewProductUsecase(products repo.ProductRepository, sales SalesCatalog) *ProductUsecase {
	return &ProductUsecase{products: products, sales: sales}
}

func (u *ProductUsecase) List(ctx context.Context) ([]model.Product, error) {
	return u.products.List(ctx)
}

func (u *ProductUsecase) GetBySKU(ctx context.Context, sku string) (model.Product, error) {
	if strings.TrimSpace(sku) == "" {
		return model.Product{}, newValidationError("sku required")
	}
	p, err := u.products.FindBySKU(ctx, sku)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, ErrSkuNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

type CreateProductInput struct {
	SKU         string
	Name        string
	Description string
	Unit        string
	ListPrice   decimal.Decimal
	UseQtyCache bool
}

// Create は商品を登録する。UseQtyCacheがtrueならキャッシュを0で開始、
// falseならキャッシュなし（NULL）で始める。
func (u *ProductUsecase) Create(ctx context.Context, in CreateProductInput) (model.Product, error) {
	if strings.TrimSpace(in.SKU) == "" {
		return model.Product{}, newValidationError("sku required")
	}
	if strings.TrimSpace(in.Name) == "" {
		return model.Product{}, newValidationError("name required")
	}
	if strings.TrimSpace(in.Unit) == "" {
		return model.Product{}, newValidationError("unit required")
	}
	if in.ListPrice.IsNegative() {
		return model.Product{}, newValidationError("listPrice must be >= 0")
	}

	p := model.Product{
		SKU:         strings.TrimSpace(in.SKU),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Unit:        strings.TrimSpace(in.Unit),
		ListPrice:   in.ListPrice,
	}
	if in.UseQtyCache {
		var zero int64
		p.CurrentQty = &zero
	}

	created, err := u.products.Create(ctx, p)
	if errors.Is(err, repo.ErrDuplicateKey) {
		return model.Product{}, ErrSkuExists
	}
	if err != nil {
		return model.Product{}, err
	}
	return created, nil
}

// SyncFromSales はSales_Systemが押してきた商品をupsertする。
// この方向ではsales側が在庫の権威なのでstock_qtyでキャッシュも上書きする。
func (u *ProductUsecase) SyncFromSales(ctx context.Context, items []SalesProduct) (int, error) {
	if len(items) == 0 {
		return 0, newValidationError("empty payload")
	}
	for _, it := range items {
		if strings.TrimSpace(it.SKU) == "" || strings.TrimSpace(it.Name) == "" {
			return 0, newValidationError("sku and name required")
		}
	}

	count := 0
	for _, it := range items {
		qty := decimalToInt(it.StockQty, 0)
		p := salesProductToModel(it)
		p.CurrentQty = &qty

		if err := u.products.Upsert(ctx, p, true); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// PullFromSales はSales_SystemのAPIから商品を取得してupsertする。
// 新規作成分だけキャッシュを0で開始し、既存行のキャッシュには触らない。
func (u *ProductUsecase) PullFromSales(ctx context.Context) (int, error) {
	if u.sales == nil {
		return 0, ErrSalesAPIDisabled
	}

	items, err := u.sales.FetchProducts(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch products from sales: %w", err)
	}

	count := 0
	for _, it := range items {
		if strings.TrimSpace(it.SKU) == "" {
			continue
		}
		p := salesProductToModel(it)
		var zero int64
		p.CurrentQty = &zero

		if err := u.products.Upsert(ctx, p, false); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func salesProductToModel(it SalesProduct) model.Product {
	desc := ""
	if it.Description != nil {
		desc = *it.Description
	}
	unit := strings.TrimSpace(it.Unit)
	if unit == "" {
		unit = "pcs"
	}
	price := decimal.Zero
	if it.Price != nil {
		price = *it.Price
	}
	return model.Product{
		SKU:         strings.TrimSpace(it.SKU),
		Name:        it.Name,
		Description: desc,
		Unit:        unit,
		ListPrice:   price,
	}
}

func decimalToInt(d *decimal.Decimal, fallback int64) int64 {
	if d == nil {
		return fallback
	}
	return d.IntPart()
}
