package services

import (
	"context"

	"celulas.app/models"

	"github.com/go-playground/validator/v10"
)

// Ator é quem executa a operação. O middleware de sessão resolve o perfil uma
// única vez e os handlers repassam o ator explicitamente; os serviços nunca
// confiam em papel vindo de formulário.
type Ator struct {
	PerfilID uint
	Role     models.Role
	CelulaID *uint
}

// Admin reporta se o ator tem escopo global.
func (a Ator) Admin() bool { return a.Role == models.RoleAdmin }

// TemCelula reporta se o ator está vinculado a uma célula.
func (a Ator) TemCelula() bool { return a.CelulaID != nil && *a.CelulaID != 0 }

// validate é compartilhado pelos serviços; as structs de formulário carregam
// as tags de validação.
var validate = validator.New()

// contextWithUserID propaga o id do ator para os hooks de auditoria do GORM.
func contextWithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, models.CtxUserIDKey, userID)
}
