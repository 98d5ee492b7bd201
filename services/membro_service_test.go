package services

import (
	"context"
	"testing"
	"time"

	"celulas.app/models"
	"celulas.app/pkg/queryparams"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func formMembroValido(nome string) MembroForm {
	return MembroForm{
		Nome:         nome,
		Telefone:     "(11) 97777-6666",
		DataIngresso: time.Now().AddDate(-1, 0, 0),
		Status:       models.MembroAtivo,
	}
}

func TestCreateMembro(t *testing.T) {
	cen := novoCenario(t)
	svc := NewMembroService()
	ctx := context.Background()

	membro, err := svc.CreateMembro(ctx, cen.lider, 0, formMembroValido("Ana Lima"))
	require.NoError(t, err)
	assert.Equal(t, cen.celula.ID, membro.CelulaID)
	assert.Equal(t, "11977776666", membro.Telefone)

	t.Run("status fora da lista recusa", func(t *testing.T) {
		form := formMembroValido("Beto Lima")
		form.Status = "Visitante"
		_, err := svc.CreateMembro(ctx, cen.lider, 0, form)
		assert.ErrorIs(t, err, ErrMembroDadosInvalidos)
	})

	t.Run("status com espaço é aceito", func(t *testing.T) {
		form := formMembroValido("Beto Lima")
		form.Status = models.MembroEmTransicao
		criado, err := svc.CreateMembro(ctx, cen.lider, 0, form)
		require.NoError(t, err)
		assert.Equal(t, models.MembroEmTransicao, criado.Status)
	})

	t.Run("líder não cria em célula alheia", func(t *testing.T) {
		outro := cen.outroLider(t)
		_, err := svc.CreateMembro(ctx, outro, cen.celula.ID, formMembroValido("Intruso"))
		assert.ErrorIs(t, err, ErrMembroNaoAutorizado)
	})
}

func TestListMembrosPaginated(t *testing.T) {
	cen := novoCenario(t)
	svc := NewMembroService()
	ctx := context.Background()

	for _, nome := range []string{"Ana Lima", "Beto Souza", "Caio Dias"} {
		_, err := svc.CreateMembro(ctx, cen.lider, 0, formMembroValido(nome))
		require.NoError(t, err)
	}
	outro := cen.outroLider(t)
	_, err := svc.CreateMembro(ctx, outro, 0, formMembroValido("Duda Alves"))
	require.NoError(t, err)

	t.Run("líder vê só a própria célula", func(t *testing.T) {
		params := queryparams.DefaultListParams("nome")
		params.OrderBy = "asc"
		resultado, err := svc.ListMembrosPaginated(ctx, cen.lider, params)
		require.NoError(t, err)
		assert.EqualValues(t, 3, resultado.Meta.TotalItems)
	})

	t.Run("admin filtra por célula", func(t *testing.T) {
		params := queryparams.DefaultListParams("nome")
		params.Celula = *outro.CelulaID
		resultado, err := svc.ListMembrosPaginated(ctx, cen.admin, params)
		require.NoError(t, err)
		assert.EqualValues(t, 1, resultado.Meta.TotalItems)
	})

	t.Run("admin sem filtro vê tudo", func(t *testing.T) {
		resultado, err := svc.ListMembrosPaginated(ctx, cen.admin, queryparams.DefaultListParams("nome"))
		require.NoError(t, err)
		assert.EqualValues(t, 4, resultado.Meta.TotalItems)
	})
}

func TestUpdateEDeleteMembro(t *testing.T) {
	cen := novoCenario(t)
	svc := NewMembroService()
	ctx := context.Background()

	membro, err := svc.CreateMembro(ctx, cen.lider, 0, formMembroValido("Ana Lima"))
	require.NoError(t, err)

	form := formMembroValido("Ana Lima Santos")
	form.Status = models.MembroInativo
	require.NoError(t, svc.UpdateMembro(ctx, cen.lider, membro.ID, form))

	atual, err := svc.GetMembroByID(ctx, cen.lider, membro.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana Lima Santos", atual.Nome)
	assert.Equal(t, models.MembroInativo, atual.Status)

	t.Run("líder de outra célula não mexe", func(t *testing.T) {
		outro := cen.outroLider(t)
		assert.ErrorIs(t, svc.UpdateMembro(ctx, outro, membro.ID, form), ErrMembroNaoAutorizado)
		assert.ErrorIs(t, svc.DeleteMembro(ctx, outro, membro.ID), ErrMembroNaoAutorizado)
	})

	require.NoError(t, svc.DeleteMembro(ctx, cen.lider, membro.ID))
	_, err = svc.GetMembroByID(ctx, cen.lider, membro.ID)
	assert.ErrorIs(t, err, ErrMembroNaoEncontrado)
}
