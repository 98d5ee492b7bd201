package services

import (
	"context"
	"testing"

	"celulas.app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func criarPerfilSemCelula(t *testing.T, cen *cenario, email string) *models.User {
	t.Helper()
	user := &models.User{
		Email:        email,
		SenhaHash:    "irrelevante",
		NomeCompleto: "Líder Novo",
		Role:         models.RoleLider,
		Ativo:        true,
	}
	require.NoError(t, cen.db.Create(user).Error)
	return user
}

func TestGerarChave(t *testing.T) {
	cen := novoCenario(t)
	svc := NewChaveService()
	ctx := context.Background()

	chave, err := svc.GerarChave(ctx, cen.admin, cen.celula.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, chave.Chave)
	assert.Equal(t, cen.celula.ID, chave.CelulaID)
	assert.False(t, chave.Usada)

	t.Run("líder não gera chave", func(t *testing.T) {
		_, err := svc.GerarChave(ctx, cen.lider, cen.celula.ID)
		assert.ErrorIs(t, err, ErrChaveNaoAutorizada)
	})

	t.Run("célula inexistente", func(t *testing.T) {
		_, err := svc.GerarChave(ctx, cen.admin, 9999)
		assert.ErrorIs(t, err, ErrCelulaNaoEncontrada)
	})
}

func TestResgatarChave(t *testing.T) {
	cen := novoCenario(t)
	svc := NewChaveService()
	ctx := context.Background()

	chave, err := svc.GerarChave(ctx, cen.admin, cen.celula.ID)
	require.NoError(t, err)
	novato := criarPerfilSemCelula(t, cen, "novato@igreja.local")

	user, err := svc.ResgatarChave(ctx, novato.ID, chave.Chave)
	require.NoError(t, err)
	require.NotNil(t, user.CelulaID)
	assert.Equal(t, cen.celula.ID, *user.CelulaID)

	var registro models.ChaveAtivacao
	require.NoError(t, cen.db.First(&registro, chave.ID).Error)
	assert.True(t, registro.Usada)
	require.NotNil(t, registro.UsadaPorID)
	assert.Equal(t, novato.ID, *registro.UsadaPorID)
	assert.NotNil(t, registro.DataUso)

	t.Run("segundo resgate falha sem alterar o perfil", func(t *testing.T) {
		segundo := criarPerfilSemCelula(t, cen, "segundo@igreja.local")
		_, err := svc.ResgatarChave(ctx, segundo.ID, chave.Chave)
		assert.ErrorIs(t, err, ErrChaveJaUsada)

		var intacto models.User
		require.NoError(t, cen.db.First(&intacto, segundo.ID).Error)
		assert.Nil(t, intacto.CelulaID)
	})

	t.Run("perfil já vinculado não resgata outra", func(t *testing.T) {
		outra, err := svc.GerarChave(ctx, cen.admin, cen.celula.ID)
		require.NoError(t, err)
		_, err = svc.ResgatarChave(ctx, novato.ID, outra.Chave)
		assert.ErrorIs(t, err, ErrPerfilJaVinculado)

		// A chave continua disponível para outro perfil.
		var disponivel models.ChaveAtivacao
		require.NoError(t, cen.db.First(&disponivel, outra.ID).Error)
		assert.False(t, disponivel.Usada)
	})

	t.Run("chave desconhecida", func(t *testing.T) {
		segundo := criarPerfilSemCelula(t, cen, "terceiro@igreja.local")
		_, err := svc.ResgatarChave(ctx, segundo.ID, "nao-existe")
		assert.ErrorIs(t, err, ErrChaveNaoEncontrada)
	})
}

func TestListChaves(t *testing.T) {
	cen := novoCenario(t)
	svc := NewChaveService()
	ctx := context.Background()

	_, err := svc.GerarChave(ctx, cen.admin, cen.celula.ID)
	require.NoError(t, err)

	chaves, err := svc.ListChaves(ctx, cen.admin)
	require.NoError(t, err)
	assert.Len(t, chaves, 1)

	_, err = svc.ListChaves(ctx, cen.lider)
	assert.ErrorIs(t, err, ErrChaveNaoAutorizada)
}
