package listener

import (
	"context"
	"encoding/json"
	"time"

	"app/internal/usecase"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// 販売確定の適用だけを約束。テストではモックに差し替える
type SaleApplier interface {
	ApplySaleCommitted(ctx context.Context, saleID string, items []usecase.SaleItem) (int, error)
}

// Kafka経由の販売確定イベント受け口。HTTP webhookと同じusecaseに流す。
type SaleListener struct {
	reader *kafka.Reader
	uc     SaleApplier
	logger *zap.Logger
}

func NewSaleListener(brokers []string, topic, groupID string, uc SaleApplier, logger *zap.Logger) *SaleListener {
	return &SaleListener{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: brokers,
			GroupID: groupID,
			Topic:   topic,
		}),
		uc:     uc,
		logger: logger,
	}
}

type saleCommittedEvent struct {
	SaleID string          `json:"saleId"`
	Items  []saleItemEvent `json:"items"`
}

type saleItemEvent struct {
	SKU string `json:"sku"`
	Qty int64  `json:"qty"`
}

func (l *SaleListener) Start(ctx context.Context) {
	l.logger.Info("starting sale listener", zap.String("topic", l.reader.Config().Topic))
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("stopping sale listener")
			return
		default:
			msg, err := l.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("read kafka message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			l.process(ctx, msg.Value)
		}
	}
}

func (l *SaleListener) process(ctx context.Context, value []byte) {
	var ev saleCommittedEvent
	if err := json.Unmarshal(value, &ev); err != nil {
		l.logger.Error("decode sale event", zap.Error(err))
		return
	}

	items := make([]usecase.SaleItem, 0, len(ev.Items))
	for _, it := range ev.Items {
		items = append(items, usecase.SaleItem{SKU: it.SKU, Qty: it.Qty})
	}

	applied, err := l.uc.ApplySaleCommitted(ctx, ev.SaleID, items)
	if err != nil {
		// 明細ごとのkeyで守られているので再送で二重適用にはならない
		l.logger.Error("apply sale event",
			zap.String("sale_id", ev.SaleID),
			zap.Int("applied", applied),
			zap.Error(err))
		return
	}
	l.logger.Info("sale event applied",
		zap.String("sale_id", ev.SaleID),
		zap.Int("applied", applied))
}

func (l *SaleListener) Close() error {
	return l.reader.Close()
}
