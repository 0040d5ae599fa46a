package listener

import (
	"context"
	"errors"
	"testing"

	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type SaleApplierMock struct{ mock.Mock }

func (m *SaleApplierMock) ApplySaleCommitted(ctx context.Context, saleID string, items []usecase.SaleItem) (int, error) {
	args := m.Called(ctx, saleID, items)
	return args.Int(0), args.Error(1)
}

func newTestListener(uc SaleApplier) *SaleListener {
	// readerはprocessでは触らないのでnilのまま
	return &SaleListener{uc: uc, logger: zap.NewNop()}
}

func TestSaleListener_Process_AppliesEvent(t *testing.T) {
	applier := new(SaleApplierMock)
	l := newTestListener(applier)

	applier.On("ApplySaleCommitted", mock.Anything, "S1", []usecase.SaleItem{
		{SKU: "A1", Qty: 3},
		{SKU: "B2", Qty: 1},
	}).Return(2, nil)

	l.process(context.Background(), []byte(`{"saleId":"S1","items":[{"sku":"A1","qty":3},{"sku":"B2","qty":1}]}`))

	applier.AssertExpectations(t)
}

func TestSaleListener_Process_BadJSONIsDropped(t *testing.T) {
	applier := new(SaleApplierMock)
	l := newTestListener(applier)

	l.process(context.Background(), []byte(`{not json`))

	applier.AssertNotCalled(t, "ApplySaleCommitted", mock.Anything, mock.Anything, mock.Anything)
}

func TestSaleListener_Process_ApplyErrorDoesNotPanic(t *testing.T) {
	applier := new(SaleApplierMock)
	l := newTestListener(applier)

	applier.On("ApplySaleCommitted", mock.Anything, "S2", mock.Anything).
		Return(1, errors.New("insufficient stock"))

	assert.NotPanics(t, func() {
		l.process(context.Background(), []byte(`{"saleId":"S2","items":[{"sku":"A1","qty":3}]}`))
	})
	applier.AssertExpectations(t)
}
