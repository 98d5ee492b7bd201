package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"celulas.app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func formEventoValido() EventoForm {
	return EventoForm{
		Nome:              "Face a Face Homens",
		Tipo:              models.EventoHomens,
		DataInicio:        time.Now().AddDate(0, 2, 0),
		DataFim:           time.Now().AddDate(0, 2, 2),
		Local:             "Sítio Betel",
		ValorTotal:        250,
		ValorEntrada:      80,
		DataLimiteEntrada: time.Now().AddDate(0, 1, 0),
	}
}

func TestCreateEvento(t *testing.T) {
	cen := novoCenario(t)
	svc := NewEventoService()
	ctx := context.Background()

	evento, err := svc.CreateEvento(ctx, cen.admin, formEventoValido())
	require.NoError(t, err)
	assert.False(t, evento.AtivaParaInscricao, "evento nasce fechado para inscrições")
	assert.Equal(t, cen.admin.PerfilID, evento.CriadoPorPerfilID)

	t.Run("líder não cria evento", func(t *testing.T) {
		_, err := svc.CreateEvento(ctx, cen.lider, formEventoValido())
		assert.ErrorIs(t, err, ErrEventoNaoAutorizado)
	})

	t.Run("entrada maior que o total recusa", func(t *testing.T) {
		form := formEventoValido()
		form.ValorEntrada = 400
		_, err := svc.CreateEvento(ctx, cen.admin, form)
		assert.ErrorIs(t, err, ErrEventoDadosInvalidos)
	})

	t.Run("data final antes da inicial recusa", func(t *testing.T) {
		form := formEventoValido()
		form.DataFim = form.DataInicio.AddDate(0, 0, -1)
		_, err := svc.CreateEvento(ctx, cen.admin, form)
		assert.ErrorIs(t, err, ErrEventoDadosInvalidos)
	})
}

func TestAlternarAtivacao(t *testing.T) {
	cen := novoCenario(t)
	svc := NewEventoService()
	ctx := context.Background()

	evento, err := svc.CreateEvento(ctx, cen.admin, formEventoValido())
	require.NoError(t, err)

	require.NoError(t, svc.AlternarAtivacao(ctx, cen.admin, evento.ID, true))
	atual, err := svc.GetEventoByID(ctx, evento.ID)
	require.NoError(t, err)
	assert.True(t, atual.AtivaParaInscricao)

	ativos, err := svc.ListEventosAtivos(ctx)
	require.NoError(t, err)
	require.Len(t, ativos, 1)
	assert.Equal(t, evento.ID, ativos[0].ID)

	require.NoError(t, svc.AlternarAtivacao(ctx, cen.admin, evento.ID, false))
	ativos, err = svc.ListEventosAtivos(ctx)
	require.NoError(t, err)
	assert.Empty(t, ativos)

	t.Run("líder não alterna", func(t *testing.T) {
		assert.ErrorIs(t, svc.AlternarAtivacao(ctx, cen.lider, evento.ID, true), ErrEventoNaoAutorizado)
	})
}

func TestDeleteEventoRemoveInscricoesEConvites(t *testing.T) {
	cen := novoCenario(t)
	evento := cen.criarEventoAberto(t)
	svc := NewEventoService()
	inscricaoSvc := NewInscricaoService()
	conviteSvc := NewConviteService()
	ctx := context.Background()

	inscricao, err := inscricaoSvc.CriarInscricao(ctx, cen.lider, evento.ID, formInscricaoValida("Maria Silva"))
	require.NoError(t, err)
	convite, _, err := conviteSvc.GerarConvite(ctx, cen.lider, evento.ID, "")
	require.NoError(t, err)

	t.Run("líder não exclui", func(t *testing.T) {
		assert.ErrorIs(t, svc.DeleteEvento(ctx, cen.lider, evento.ID), ErrEventoNaoAutorizado)
	})

	require.NoError(t, svc.DeleteEvento(ctx, cen.admin, evento.ID))

	var sobra models.EventoFaceAFace
	assert.True(t, errors.Is(cen.db.First(&sobra, evento.ID).Error, gorm.ErrRecordNotFound))
	var inscricaoSobra models.Inscricao
	assert.True(t, errors.Is(cen.db.First(&inscricaoSobra, inscricao.ID).Error, gorm.ErrRecordNotFound))
	var conviteSobra models.ConviteInscricao
	assert.True(t, errors.Is(cen.db.First(&conviteSobra, convite.ID).Error, gorm.ErrRecordNotFound))

	t.Run("excluir de novo reporta não encontrado", func(t *testing.T) {
		assert.ErrorIs(t, svc.DeleteEvento(ctx, cen.admin, evento.ID), ErrEventoNaoEncontrado)
	})
}

func TestUpdateEvento(t *testing.T) {
	cen := novoCenario(t)
	svc := NewEventoService()
	ctx := context.Background()

	evento, err := svc.CreateEvento(ctx, cen.admin, formEventoValido())
	require.NoError(t, err)

	form := formEventoValido()
	form.Nome = "Face a Face Homens - 2ª Edição"
	form.ValorTotal = 280
	require.NoError(t, svc.UpdateEvento(ctx, cen.admin, evento.ID, form))

	atual, err := svc.GetEventoByID(ctx, evento.ID)
	require.NoError(t, err)
	assert.Equal(t, "Face a Face Homens - 2ª Edição", atual.Nome)
	assert.Equal(t, 280.0, atual.ValorTotal)

	assert.ErrorIs(t, svc.UpdateEvento(ctx, cen.admin, 9999, form), ErrEventoNaoEncontrado)
}
