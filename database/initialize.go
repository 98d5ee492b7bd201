package database

import (
	"celulas.app/configs/configslog"
	"celulas.app/database/migrations"
	"celulas.app/database/seeders"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func Initialize(db *gorm.DB, migrate bool, seed bool) {
	if !migrate && !seed {
		configslog.SLog.Info("Nenhuma flag de migrate ou seed informada, nada a fazer.")
		return
	}

	tx := db.Begin()
	if tx.Error != nil {
		configslog.Log.Fatal("Não foi possível iniciar a transação do banco", zap.Error(tx.Error))
		return
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			configslog.Log.Fatal("Inicialização do banco falhou (panic)", zap.Any("panic_info", r))
		} else if err := tx.Error; err != nil && err != gorm.ErrInvalidTransaction {
			configslog.SLog.Warn("Erro durante a inicialização, revertendo transação.", zap.Error(err))
			rbErr := tx.Rollback().Error
			if rbErr != nil && rbErr != gorm.ErrInvalidTransaction {
				configslog.Log.Error("Erro adicional durante o rollback", zap.Error(rbErr))
			}
		}
	}()

	configslog.SLog.Info("Iniciando inicialização do banco de dados...")

	if migrate {
		configslog.SLog.Info("Executando migrações...")
		if err := RunMigrationsInOrder(tx); err != nil {
			configslog.Log.Error("Migração falhou", zap.Error(err))
			return
		}
		configslog.SLog.Info("Migrações concluídas.")
	} else {
		configslog.SLog.Info("Flag migrate não informada, etapa de migração ignorada.")
	}

	if seed {
		configslog.SLog.Info("Executando seeders...")
		if err := CheckAndRunSeeders(tx); err != nil {
			configslog.Log.Error("Seeding falhou", zap.Error(err))
			return
		}
		configslog.SLog.Info("Seeders concluídos.")
	} else {
		configslog.SLog.Info("Flag seed não informada, etapa de seeding ignorada.")
	}

	configslog.SLog.Info("Commit da transação...")
	if err := tx.Commit().Error; err != nil {
		tx.Error = err
		configslog.Log.Error("Commit falhou", zap.Error(err))
		return
	}

	configslog.SLog.Info("Inicialização do banco de dados concluída com sucesso")
}

func RunMigrationsInOrder(db *gorm.DB) error {
	configslog.SLog.Info("Executando migrações em ordem...")

	configslog.SLog.Info(" -> Migrações de users...")
	if err := migrations.MigrateUsersTable(db); err != nil {
		configslog.Log.Error("Migração da tabela users falhou", zap.Error(err))
		return err
	}
	configslog.SLog.Info(" -> Migrações de users concluídas.")

	configslog.SLog.Info(" -> Migrações de células...")
	if err := migrations.MigrateCelulasTables(db); err != nil {
		configslog.Log.Error("Migração das tabelas de células falhou", zap.Error(err))
		return err
	}
	configslog.SLog.Info(" -> Migrações de células concluídas.")

	configslog.SLog.Info(" -> Migrações de chaves de ativação...")
	if err := migrations.MigrateChavesTable(db); err != nil {
		configslog.Log.Error("Migração da tabela de chaves falhou", zap.Error(err))
		return err
	}
	configslog.SLog.Info(" -> Migrações de chaves de ativação concluídas.")

	configslog.SLog.Info(" -> Migrações de reuniões...")
	if err := migrations.MigrateReunioesTables(db); err != nil {
		configslog.Log.Error("Migração das tabelas de reuniões falhou", zap.Error(err))
		return err
	}
	configslog.SLog.Info(" -> Migrações de reuniões concluídas.")

	configslog.SLog.Info(" -> Migrações de eventos...")
	if err := migrations.MigrateEventosTables(db); err != nil {
		configslog.Log.Error("Migração das tabelas de eventos falhou", zap.Error(err))
		return err
	}
	configslog.SLog.Info(" -> Migrações de eventos concluídas.")

	configslog.SLog.Info("Todas as migrações executadas com sucesso.")
	return nil
}

func CheckAndRunSeeders(db *gorm.DB) error {
	configslog.SLog.Info(" -> Seeder do administrador...")
	if err := seeders.SeedAdminUser(db); err != nil {
		configslog.Log.Error("Seed do administrador falhou", zap.Error(err))
		return err
	}
	configslog.SLog.Info(" -> Seeder do administrador concluído.")

	configslog.SLog.Info("Todos os seeders verificados/executados com sucesso.")
	return nil
}
