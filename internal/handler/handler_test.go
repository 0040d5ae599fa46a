package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"app/internal/domain/model"
	"app/internal/handler"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// Mocks（衝突回避の命名）
// =====================

type HTxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *HTxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	m.Called(ctx)
	return fn(m.Repos)
}

type HTxReposMock struct {
	products  repo.ProductRepository
	ledger    repo.LedgerRepository
	inventory repo.InventoryRepository
}

func (r *HTxReposMock) Products() repo.ProductRepository    { return r.products }
func (r *HTxReposMock) Ledger() repo.LedgerRepository       { return r.ledger }
func (r *HTxReposMock) Inventory() repo.InventoryRepository { return r.inventory }

type HProductRepoMock struct{ mock.Mock }

func (m *HProductRepoMock) List(ctx context.Context) ([]model.Product, error) {
	panic("not used in handler tests")
}

func (m *HProductRepoMock) FindBySKU(ctx context.Context, sku string) (model.Product, error) {
	args := m.Called(ctx, sku)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *HProductRepoMock) FindBySKUForUpdate(ctx context.Context, sku string) (model.Product, error) {
	args := m.Called(ctx, sku)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *HProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	panic("not used in handler tests")
}

func (m *HProductRepoMock) Upsert(ctx context.Context, p model.Product, setCache bool) error {
	panic("not used in handler tests")
}

type HLedgerRepoMock struct{ mock.Mock }

func (m *HLedgerRepoMock) Append(ctx context.Context, e model.LedgerEntry) (model.LedgerEntry, error) {
	args := m.Called(ctx, e)
	created, _ := args.Get(0).(model.LedgerEntry)
	return created, args.Error(1)
}

func (m *HLedgerRepoMock) FindByIdempotencyKey(ctx context.Context, key string) (model.LedgerEntry, bool, error) {
	args := m.Called(ctx, key)
	e, _ := args.Get(0).(model.LedgerEntry)
	return e, args.Bool(1), args.Error(2)
}

func (m *HLedgerRepoMock) SumBySKU(ctx context.Context, sku string) (int64, error) {
	args := m.Called(ctx, sku)
	return args.Get(0).(int64), args.Error(1)
}

func (m *HLedgerRepoMock) ListBySKU(ctx context.Context, sku string) ([]model.LedgerEntry, error) {
	panic("not used in handler tests")
}

type HInventoryRepoMock struct{ mock.Mock }

func (m *HInventoryRepoMock) SetCachedQty(ctx context.Context, sku string, qty int64) error {
	args := m.Called(ctx, sku, qty)
	return args.Error(0)
}

// =====================
// Fixture：本物のusecase＋モックrepoでechoを組む
// =====================

type apiFixture struct {
	products  *HProductRepoMock
	ledger    *HLedgerRepoMock
	inventory *HInventoryRepoMock
	e         *echo.Echo
}

func newAPIFixture() *apiFixture {
	products := new(HProductRepoMock)
	ledger := new(HLedgerRepoMock)
	inventory := new(HInventoryRepoMock)

	tm := &HTxManagerMock{Repos: &HTxReposMock{
		products:  products,
		ledger:    ledger,
		inventory: inventory,
	}}
	tm.On("WithinTx", mock.Anything).Return()

	ledgerUC := usecase.NewLedgerUsecase(tm)
	stockUC := usecase.NewStockUsecase(tm)

	e := echo.New()
	handler.NewLedgerHandler(ledgerUC).RegisterRoutes(e)
	handler.NewStockHandler(stockUC, ledgerUC).RegisterRoutes(e)
	handler.NewAdjustmentHandler(ledgerUC).RegisterRoutes(e)
	handler.NewEventHandler(ledgerUC).RegisterRoutes(e)

	return &apiFixture{products: products, ledger: ledger, inventory: inventory, e: e}
}

func (f *apiFixture) doJSON(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func hCachedProduct(sku string, qty int64) model.Product {
	return model.Product{ID: 1, SKU: sku, Name: sku, Unit: "pcs", CurrentQty: &qty}
}

// =====================
// POST /ledger
// =====================

func TestLedgerAppend_Created(t *testing.T) {
	f := newAPIFixture()

	f.products.On("FindBySKUForUpdate", mock.Anything, "A1").Return(hCachedProduct("A1", 10), nil)
	f.ledger.On("Append", mock.Anything, mock.Anything).
		Return(model.LedgerEntry{ID: 1, SKU: "A1", TxnType: model.TxnSale, QtyChange: -3}, nil)
	f.inventory.On("SetCachedQty", mock.Anything, "A1", int64(7)).Return(nil)

	rec := f.doJSON(http.MethodPost, "/ledger", `{"sku":"A1","txnType":"SALE","qtyChange":3}`)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var entry model.LedgerEntry
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entry))
	assert.Equal(t, int64(-3), entry.QtyChange)
}

func TestLedgerAppend_UnknownSKU(t *testing.T) {
	f := newAPIFixture()

	f.products.On("FindBySKUForUpdate", mock.Anything, "NOPE").Return(model.Product{}, repo.ErrNotFound)

	rec := f.doJSON(http.MethodPost, "/ledger", `{"sku":"NOPE","txnType":"SALE","qtyChange":3}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "SKU_NOT_FOUND")
}

func TestLedgerAppend_InsufficientStock(t *testing.T) {
	f := newAPIFixture()

	f.products.On("FindBySKUForUpdate", mock.Anything, "A1").Return(hCachedProduct("A1", 4), nil)

	rec := f.doJSON(http.MethodPost, "/ledger", `{"sku":"A1","txnType":"SALE","qtyChange":10}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "INSUFFICIENT_STOCK")
}

func TestLedgerAppend_ZeroQty(t *testing.T) {
	f := newAPIFixture()

	rec := f.doJSON(http.MethodPost, "/ledger", `{"sku":"A1","txnType":"SALE","qtyChange":0}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
}

// =====================
// POST /stock-adjustments
// =====================

func TestStockAdjustment_Created(t *testing.T) {
	f := newAPIFixture()
	key := uuid.NewString()

	f.ledger.On("FindByIdempotencyKey", mock.Anything, key).Return(model.LedgerEntry{}, false, nil)
	f.products.On("FindBySKUForUpdate", mock.Anything, "A1").Return(hCachedProduct("A1", 10), nil)
	f.ledger.On("Append", mock.Anything, mock.Anything).
		Return(model.LedgerEntry{ID: 2, SKU: "A1", TxnType: model.TxnAdjMinus, QtyChange: -6}, nil)
	f.inventory.On("SetCachedQty", mock.Anything, "A1", int64(4)).Return(nil)

	body := fmt.Sprintf(`{"idempotencyKey":%q,"sku":"A1","delta":-6,"reason":"damage"}`, key)
	rec := f.doJSON(http.MethodPost, "/stock-adjustments", body)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		SKU string `json:"sku"`
		Qty int64  `json:"qty"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "A1", resp.SKU)
	assert.Equal(t, int64(4), resp.Qty)
}

func TestStockAdjustment_DuplicateKey(t *testing.T) {
	f := newAPIFixture()
	key := uuid.NewString()

	prior := model.LedgerEntry{ID: 2, SKU: "A1", QtyChange: -6, IdempotencyKey: &key}
	f.ledger.On("FindByIdempotencyKey", mock.Anything, key).Return(prior, true, nil)

	body := fmt.Sprintf(`{"idempotencyKey":%q,"sku":"A1","delta":-6}`, key)
	rec := f.doJSON(http.MethodPost, "/stock-adjustments", body)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "DUPLICATE")
	f.ledger.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestStockAdjustment_MissingKey(t *testing.T) {
	f := newAPIFixture()

	rec := f.doJSON(http.MethodPost, "/stock-adjustments", `{"sku":"A1","delta":-6}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
}

// =====================
// GET /stock/:sku
// =====================

func TestStockQuery_OK(t *testing.T) {
	f := newAPIFixture()

	qty := int64(7)
	f.products.On("FindBySKU", mock.Anything, "A1").Return(model.Product{SKU: "A1", CurrentQty: &qty}, nil)

	rec := f.doJSON(http.MethodGet, "/stock/A1", "")

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp usecase.StockOutput
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, usecase.StockOutput{SKU: "A1", OnHand: 7}, resp)
}

func TestStockQuery_NotFound(t *testing.T) {
	f := newAPIFixture()

	f.products.On("FindBySKU", mock.Anything, "NOPE").Return(model.Product{}, repo.ErrNotFound)

	rec := f.doJSON(http.MethodGet, "/stock/NOPE", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// =====================
// POST /stock/update（台帳経由の減算）
// =====================

func TestStockUpdate_DeductsThroughLedger(t *testing.T) {
	f := newAPIFixture()

	f.products.On("FindBySKUForUpdate", mock.Anything, "A1").Return(hCachedProduct("A1", 10), nil)
	f.ledger.On("Append", mock.Anything, mock.Anything).
		Return(model.LedgerEntry{ID: 3, SKU: "A1", TxnType: model.TxnSale, QtyChange: -2}, nil)
	f.inventory.On("SetCachedQty", mock.Anything, "A1", int64(8)).Return(nil)

	rec := f.doJSON(http.MethodPost, "/stock/update", `{"sku":"A1","qty":2}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"remaining":8`)
	f.ledger.AssertExpectations(t)
}

func TestStockUpdate_RejectsNonPositiveQty(t *testing.T) {
	f := newAPIFixture()

	rec := f.doJSON(http.MethodPost, "/stock/update", `{"sku":"A1","qty":0}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =====================
// POST /events/sale-committed
// =====================

func TestSaleCommitted_AllLinesApplied(t *testing.T) {
	f := newAPIFixture()

	f.ledger.On("FindByIdempotencyKey", mock.Anything, "SALE:S1:A1").Return(model.LedgerEntry{}, false, nil)
	f.products.On("FindBySKUForUpdate", mock.Anything, "A1").Return(hCachedProduct("A1", 10), nil)
	f.ledger.On("Append", mock.Anything, mock.Anything).
		Return(model.LedgerEntry{ID: 1, SKU: "A1", QtyChange: -3}, nil)
	f.inventory.On("SetCachedQty", mock.Anything, "A1", int64(7)).Return(nil)

	rec := f.doJSON(http.MethodPost, "/events/sale-committed",
		`{"saleId":"S1","items":[{"sku":"A1","qty":3}]}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":1`)
}

func TestSaleCommitted_PartialFailureReportsApplied(t *testing.T) {
	f := newAPIFixture()

	f.ledger.On("FindByIdempotencyKey", mock.Anything, "SALE:S2:A1").Return(model.LedgerEntry{}, false, nil)
	f.ledger.On("FindByIdempotencyKey", mock.Anything, "SALE:S2:B2").Return(model.LedgerEntry{}, false, nil)
	f.products.On("FindBySKUForUpdate", mock.Anything, "A1").Return(hCachedProduct("A1", 10), nil)
	f.products.On("FindBySKUForUpdate", mock.Anything, "B2").Return(hCachedProduct("B2", 1), nil)
	f.ledger.On("Append", mock.Anything, mock.Anything).
		Return(model.LedgerEntry{ID: 1, SKU: "A1", QtyChange: -3}, nil)
	f.inventory.On("SetCachedQty", mock.Anything, "A1", int64(7)).Return(nil)

	rec := f.doJSON(http.MethodPost, "/events/sale-committed",
		`{"saleId":"S2","items":[{"sku":"A1","qty":3},{"sku":"B2","qty":5}]}`)

	// 2明細目で在庫不足。1明細目は確定済みで、適用数が返る
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `"applied":1`)
}
