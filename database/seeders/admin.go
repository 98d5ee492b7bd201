package seeders

import (
	"errors"

	"celulas.app/configs"
	"celulas.app/configs/configslog"
	"celulas.app/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedAdminUser garante que exista ao menos um perfil administrador. E-mail e
// senha vêm do ambiente; rodar de novo com o mesmo e-mail não altera nada.
func SeedAdminUser(db *gorm.DB) error {
	email := configs.Env("ADMIN_EMAIL", "admin@celulas.local")
	senha := configs.Env("ADMIN_SENHA", "")

	var existente models.User
	result := db.Where("email = ?", email).First(&existente)
	if result.Error == nil {
		configslog.SLog.Infof("Administrador '%s' já existe, seed ignorado.", email)
		return nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		configslog.Log.Error("Erro ao verificar administrador existente", zap.Error(result.Error))
		return result.Error
	}

	if senha == "" {
		configslog.SLog.Warn("ADMIN_SENHA não definida, seed do administrador ignorado.")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(senha), bcrypt.DefaultCost)
	if err != nil {
		configslog.Log.Error("Falha ao gerar hash da senha do administrador", zap.Error(err))
		return err
	}

	admin := models.User{
		Email:        email,
		SenhaHash:    string(hash),
		NomeCompleto: configs.Env("ADMIN_NOME", "Administrador"),
		Role:         models.RoleAdmin,
		Ativo:        true,
	}
	if err := db.Create(&admin).Error; err != nil {
		configslog.Log.Error("Falha ao criar administrador",
			zap.String("email", email),
			zap.Error(err),
		)
		return err
	}

	configslog.SLog.Infof("Administrador '%s' criado com sucesso (ID: %d).", email, admin.ID)
	return nil
}
