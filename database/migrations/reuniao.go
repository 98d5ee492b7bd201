package migrations

import (
	"celulas.app/configs/configslog"
	"celulas.app/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigrateReunioesTables(db *gorm.DB) error {
	configslog.SLog.Info("Migrando tabelas de reuniões e presenças...")
	err := db.AutoMigrate(
		&models.Reuniao{},
		&models.PresencaMembro{},
		&models.PresencaVisitante{},
	)
	if err != nil {
		configslog.Log.Error("Falha ao migrar tabelas de reuniões", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Tabelas de reuniões migradas com sucesso")
	return nil
}
