package migrations

import (
	"celulas.app/configs/configslog"
	"celulas.app/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigrateUsersTable(db *gorm.DB) error {
	configslog.SLog.Info("Migrando tabela users...")
	err := db.AutoMigrate(&models.User{})
	if err != nil {
		configslog.Log.Error("Falha ao migrar tabela users", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Tabela users migrada com sucesso")
	return nil
}
