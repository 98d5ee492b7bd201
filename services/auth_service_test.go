package services

import (
	"context"
	"testing"

	"celulas.app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrarELogar(t *testing.T) {
	cen := novoCenario(t)
	svc := NewAuthService()
	ctx := context.Background()

	form := RegistroForm{
		Email:        "novo@igreja.local",
		Senha:        "senha-forte-123",
		NomeCompleto: "Novo Líder",
	}
	user, err := svc.Registrar(ctx, form)
	require.NoError(t, err)
	assert.Equal(t, models.RoleLider, user.Role)
	assert.Nil(t, user.CelulaID, "perfil novo nasce sem célula")
	assert.True(t, user.Ativo)
	assert.NotEqual(t, form.Senha, user.SenhaHash)

	t.Run("email duplicado recusa", func(t *testing.T) {
		_, err := svc.Registrar(ctx, form)
		assert.ErrorIs(t, err, ErrEmailJaCadastrado)
	})

	t.Run("senha curta recusa", func(t *testing.T) {
		curto := form
		curto.Email = "outro@igreja.local"
		curto.Senha = "1234567"
		_, err := svc.Registrar(ctx, curto)
		assert.ErrorIs(t, err, ErrRegistroFalhou)
	})

	t.Run("login com a senha certa", func(t *testing.T) {
		logado, err := svc.Login(ctx, form.Email, form.Senha)
		require.NoError(t, err)
		assert.Equal(t, user.ID, logado.ID)
		assert.NotNil(t, logado.LastSignInAt)
	})

	t.Run("senha errada e email desconhecido têm a mesma resposta", func(t *testing.T) {
		_, errSenha := svc.Login(ctx, form.Email, "senha-errada-123")
		_, errEmail := svc.Login(ctx, "ninguem@igreja.local", form.Senha)
		assert.ErrorIs(t, errSenha, ErrCredenciaisInvalidas)
		assert.ErrorIs(t, errEmail, ErrCredenciaisInvalidas)
	})

	t.Run("conta desativada não entra", func(t *testing.T) {
		require.NoError(t, cen.db.Model(&models.User{}).Where("id = ?", user.ID).Update("ativo", false).Error)
		_, err := svc.Login(ctx, form.Email, form.Senha)
		assert.ErrorIs(t, err, ErrContaDesativada)
	})
}
