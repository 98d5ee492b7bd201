package services

import (
	"context"
	"testing"
	"time"

	"celulas.app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGerarConvite(t *testing.T) {
	cen := novoCenario(t)
	evento := cen.criarEventoAberto(t)
	svc := NewConviteService()
	ctx := context.Background()

	convite, url, err := svc.GerarConvite(ctx, cen.lider, evento.ID, "Joana Candidata")
	require.NoError(t, err)
	assert.NotEmpty(t, convite.Token)
	assert.Contains(t, url, "/convite/"+convite.Token)
	assert.Equal(t, cen.celula.ID, convite.CelulaID)
	assert.Equal(t, cen.lider.PerfilID, convite.GeradoPorPerfilID)
	assert.False(t, convite.Usado)
	assert.WithinDuration(t, time.Now().Add(ValidadeConvite), convite.ExpiraEm, time.Minute)

	t.Run("ator sem célula não gera", func(t *testing.T) {
		semCelula := Ator{PerfilID: 99, Role: models.RoleLider}
		_, _, err := svc.GerarConvite(ctx, semCelula, evento.ID, "")
		assert.ErrorIs(t, err, ErrConviteNaoAutorizado)
	})

	t.Run("evento fechado não gera", func(t *testing.T) {
		require.NoError(t, cen.db.Model(evento).Update("ativa_para_inscricao", false).Error)
		_, _, err := svc.GerarConvite(ctx, cen.lider, evento.ID, "")
		assert.ErrorIs(t, err, ErrEventoEncerrado)
	})

	t.Run("evento inexistente", func(t *testing.T) {
		_, _, err := svc.GerarConvite(ctx, cen.lider, 9999, "")
		assert.ErrorIs(t, err, ErrEventoNaoEncontrado)
	})
}

func TestResolverConvite(t *testing.T) {
	cen := novoCenario(t)
	evento := cen.criarEventoAberto(t)
	svc := NewConviteService()
	ctx := context.Background()

	convite, _, err := svc.GerarConvite(ctx, cen.lider, evento.ID, "Joana Candidata")
	require.NoError(t, err)

	resolvido, err := svc.ResolverConvite(ctx, convite.Token)
	require.NoError(t, err)
	assert.Equal(t, evento.ID, resolvido.Evento.ID)
	assert.Equal(t, cen.celula.ID, resolvido.Celula.ID)
	assert.Equal(t, "Joana Candidata", resolvido.Convite.NomeCandidatoSugerido)

	t.Run("token desconhecido", func(t *testing.T) {
		_, err := svc.ResolverConvite(ctx, "nao-existe")
		assert.ErrorIs(t, err, ErrConviteInvalido)
	})

	t.Run("já usado", func(t *testing.T) {
		require.NoError(t, cen.db.Model(convite).Update("usado", true).Error)
		_, err := svc.ResolverConvite(ctx, convite.Token)
		assert.ErrorIs(t, err, ErrConviteInvalido)
		require.NoError(t, cen.db.Model(convite).Update("usado", false).Error)
	})

	t.Run("expirado", func(t *testing.T) {
		require.NoError(t, cen.db.Model(convite).Update("expira_em", time.Now().Add(-time.Second)).Error)
		_, err := svc.ResolverConvite(ctx, convite.Token)
		assert.ErrorIs(t, err, ErrConviteInvalido)
		require.NoError(t, cen.db.Model(convite).Update("expira_em", time.Now().Add(time.Hour)).Error)
	})

	t.Run("evento deixou de aceitar inscrições", func(t *testing.T) {
		require.NoError(t, cen.db.Model(evento).Update("ativa_para_inscricao", false).Error)
		_, err := svc.ResolverConvite(ctx, convite.Token)
		assert.ErrorIs(t, err, ErrConviteInvalido)
	})
}

func TestListConvitesDoLider(t *testing.T) {
	cen := novoCenario(t)
	evento := cen.criarEventoAberto(t)
	svc := NewConviteService()
	ctx := context.Background()

	_, _, err := svc.GerarConvite(ctx, cen.lider, evento.ID, "")
	require.NoError(t, err)
	outro := cen.outroLider(t)
	_, _, err = svc.GerarConvite(ctx, outro, evento.ID, "")
	require.NoError(t, err)

	convites, err := svc.ListConvitesDoLider(ctx, cen.lider)
	require.NoError(t, err)
	require.Len(t, convites, 1)
	assert.Equal(t, cen.lider.PerfilID, convites[0].GeradoPorPerfilID)
}
