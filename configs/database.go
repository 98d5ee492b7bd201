package configs

import (
	"fmt"
	"time"

	"celulas.app/configs/configslog"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var db *gorm.DB

// InitDB opens the Postgres connection from env vars and configures the pool.
// Fatal on failure: the application cannot run without its store.
func InitDB() {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		Env("DB_HOST", "localhost"),
		Env("DB_USER", "postgres"),
		Env("DB_PASSWORD", "postgres"),
		Env("DB_NAME", "celulas"),
		Env("DB_PORT", "5432"),
		Env("DB_SSLMODE", "disable"),
	)

	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		configslog.Log.Fatal("Falha ao conectar ao banco de dados", zap.Error(err))
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		configslog.Log.Fatal("Falha ao obter o pool de conexões", zap.Error(err))
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	db = gormDB
	configslog.SLog.Info("Conexão com o banco de dados estabelecida.")
}

// GetDB returns the shared connection.
func GetDB() *gorm.DB {
	return db
}

// SetDB overrides the shared connection. Used by tests with an in-memory DB.
func SetDB(d *gorm.DB) {
	db = d
}

// CloseDB releases the underlying pool.
func CloseDB() {
	if db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		configslog.Log.Error("Falha ao obter conexão para fechamento", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		configslog.Log.Error("Falha ao fechar conexão com o banco", zap.Error(err))
	}
}
