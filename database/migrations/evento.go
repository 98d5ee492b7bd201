package migrations

import (
	"celulas.app/configs/configslog"
	"celulas.app/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigrateEventosTables(db *gorm.DB) error {
	configslog.SLog.Info("Migrando tabelas de eventos, inscrições e convites...")
	err := db.AutoMigrate(
		&models.EventoFaceAFace{},
		&models.Inscricao{},
		&models.ConviteInscricao{},
	)
	if err != nil {
		configslog.Log.Error("Falha ao migrar tabelas de eventos", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Tabelas de eventos migradas com sucesso")
	return nil
}
