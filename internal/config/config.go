package config

import (
	"fmt"
	"os"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	DatabaseURL string // あれば最優先で使うDSN

	PostgresUser     string // DBユーザー
	PostgresPassword string // DBパスワード
	PostgresDB       string // DB名
	PostgresHost     string // DBホスト（localhost）
	PostgresPort     string // DBポート（5432）
	PostgresSSLMode  string

	SalesAPIBase string // Sales_SystemのベースURL。空なら同期無効

	KafkaBrokers   string // カンマ区切り。空ならリスナー無効
	KafkaSaleTopic string
	KafkaGroupID   string
}

// Loadは環境変数から読む
func Load() Config {
	return Config{
		Port: getenv("PORT", "8080"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		PostgresUser:     getenv("POSTGRES_USER", "postgres"),
		PostgresPassword: getenv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:       getenv("POSTGRES_DB", "inventory"),
		PostgresHost:     getenv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getenv("POSTGRES_PORT", "5432"),
		PostgresSSLMode:  getenv("POSTGRES_SSLMODE", "disable"),

		SalesAPIBase: os.Getenv("SALES_API_BASE"),

		KafkaBrokers:   os.Getenv("KAFKA_BROKERS"),
		KafkaSaleTopic: getenv("KAFKA_SALE_TOPIC", "sale-committed"),
		KafkaGroupID:   getenv("KAFKA_GROUP_ID", "inventory-ledger"),
	}
}

// DSN はgormに渡す接続文字列。DATABASE_URLがあればそれを返す
func (c Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresSSLMode,
	)
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
