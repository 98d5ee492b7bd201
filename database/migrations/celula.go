package migrations

import (
	"celulas.app/configs/configslog"
	"celulas.app/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigrateCelulasTables(db *gorm.DB) error {
	configslog.SLog.Info("Migrando tabelas de células, membros e visitantes...")
	err := db.AutoMigrate(
		&models.Celula{},
		&models.Membro{},
		&models.Visitante{},
	)
	if err != nil {
		configslog.Log.Error("Falha ao migrar tabelas de células", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Tabelas de células migradas com sucesso")
	return nil
}
