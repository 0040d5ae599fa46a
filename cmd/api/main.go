package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/db"
	infraRepo "app/internal/infra/repository"
	"app/internal/infra/salesapi"
	"app/internal/listener"
	"app/internal/server"
	"app/internal/usecase"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	//.envは任意
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg := config.Load()

	//DB接続
	gormDB, err := db.Connect(cfg.DSN())
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	if err := gormDB.AutoMigrate(
		&model.Product{},
		&model.LedgerEntry{},
	); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	//Repository（GORM実装）生成
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//Usecase生成
	ledgerUC := usecase.NewLedgerUsecase(txManager)
	stockUC := usecase.NewStockUsecase(txManager)

	var sales usecase.SalesCatalog
	if cfg.SalesAPIBase != "" {
		sales = salesapi.NewClient(cfg.SalesAPIBase)
	}
	productUC := usecase.NewProductUsecase(productRepo, sales)

	//Handler生成
	productH := handler.NewProductHandler(productUC)
	ledgerH := handler.NewLedgerHandler(ledgerUC)
	stockH := handler.NewStockHandler(stockUC, ledgerUC)
	adjustmentH := handler.NewAdjustmentHandler(ledgerUC)
	eventH := handler.NewEventHandler(ledgerUC)

	e := server.New(productH, ledgerH, stockH, adjustmentH, eventH)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//Kafkaリスナー（ブローカー指定があるときだけ）
	if cfg.KafkaBrokers != "" {
		saleL := listener.NewSaleListener(
			strings.Split(cfg.KafkaBrokers, ","),
			cfg.KafkaSaleTopic,
			cfg.KafkaGroupID,
			ledgerUC,
			logger,
		)
		defer saleL.Close()
		go saleL.Start(ctx)
	}

	//Server起動
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server", zap.Error(err))
		}
	}()
	logger.Info("inventory service listening", zap.String("port", cfg.Port))

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}
