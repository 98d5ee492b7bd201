package migrations

import (
	"celulas.app/configs/configslog"
	"celulas.app/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigrateChavesTable(db *gorm.DB) error {
	configslog.SLog.Info("Migrando tabela de chaves de ativação...")
	err := db.AutoMigrate(&models.ChaveAtivacao{})
	if err != nil {
		configslog.Log.Error("Falha ao migrar tabela de chaves de ativação", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Tabela de chaves de ativação migrada com sucesso")
	return nil
}
