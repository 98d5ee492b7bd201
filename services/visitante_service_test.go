package services

import (
	"context"
	"testing"
	"time"

	"celulas.app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func formVisitanteValido(nome string) VisitanteForm {
	return VisitanteForm{
		Nome:               nome,
		Telefone:           "(11) 98888-7777",
		DataPrimeiraVisita: time.Now().AddDate(0, 0, -7),
		Endereco:           "Rua do Campo, 45",
	}
}

func TestCreateVisitante(t *testing.T) {
	cen := novoCenario(t)
	svc := NewVisitanteService()
	ctx := context.Background()

	visitante, err := svc.CreateVisitante(ctx, cen.lider, 0, formVisitanteValido("Carla Nova"))
	require.NoError(t, err)
	assert.Equal(t, cen.celula.ID, visitante.CelulaID)
	assert.Equal(t, "11988887777", visitante.Telefone, "telefone deve ser normalizado")
	assert.Nil(t, visitante.ConvertidoEm)

	t.Run("líder não cria em célula alheia", func(t *testing.T) {
		outro := cen.outroLider(t)
		_, err := svc.CreateVisitante(ctx, outro, cen.celula.ID, formVisitanteValido("Intruso"))
		assert.ErrorIs(t, err, ErrVisitanteNaoAutorizado)
	})

	t.Run("telefone inválido recusa", func(t *testing.T) {
		form := formVisitanteValido("Carla Nova")
		form.Telefone = "12"
		_, err := svc.CreateVisitante(ctx, cen.lider, 0, form)
		assert.ErrorIs(t, err, ErrVisitanteDadosInvalidos)
	})
}

func TestRegistrarContato(t *testing.T) {
	cen := novoCenario(t)
	svc := NewVisitanteService()
	ctx := context.Background()

	visitante, err := svc.CreateVisitante(ctx, cen.lider, 0, formVisitanteValido("Carla Nova"))
	require.NoError(t, err)

	data := time.Now().Truncate(24 * time.Hour)
	require.NoError(t, svc.RegistrarContato(ctx, cen.lider, visitante.ID, data))

	atual, err := svc.GetVisitanteByID(ctx, cen.lider, visitante.ID)
	require.NoError(t, err)
	require.NotNil(t, atual.DataUltimoContato)
	assert.WithinDuration(t, data, *atual.DataUltimoContato, time.Second)
}

func TestConverterEmMembro(t *testing.T) {
	cen := novoCenario(t)
	svc := NewVisitanteService()
	ctx := context.Background()

	visitante, err := svc.CreateVisitante(ctx, cen.lider, 0, formVisitanteValido("Carla Nova"))
	require.NoError(t, err)

	membro, err := svc.ConverterEmMembro(ctx, cen.lider, visitante.ID)
	require.NoError(t, err)
	assert.Equal(t, visitante.CelulaID, membro.CelulaID)
	assert.Equal(t, visitante.Nome, membro.Nome)
	assert.Equal(t, visitante.Telefone, membro.Telefone)
	assert.Equal(t, models.MembroAtivo, membro.Status)
	assert.WithinDuration(t, time.Now(), membro.DataIngresso, time.Minute)

	// O registro do visitante permanece, marcado com a data da conversão.
	atual, err := svc.GetVisitanteByID(ctx, cen.lider, visitante.ID)
	require.NoError(t, err)
	require.NotNil(t, atual.ConvertidoEm)

	t.Run("conversão é de mão única", func(t *testing.T) {
		_, err := svc.ConverterEmMembro(ctx, cen.lider, visitante.ID)
		assert.ErrorIs(t, err, ErrVisitanteJaConvertido)

		var membros []models.Membro
		require.NoError(t, cen.db.Where("celula_id = ?", cen.celula.ID).Find(&membros).Error)
		assert.Len(t, membros, 1, "segunda conversão não pode duplicar o membro")
	})
}

func TestEscopoDeVisitantes(t *testing.T) {
	cen := novoCenario(t)
	svc := NewVisitanteService()
	ctx := context.Background()

	visitante, err := svc.CreateVisitante(ctx, cen.lider, 0, formVisitanteValido("Carla Nova"))
	require.NoError(t, err)
	outro := cen.outroLider(t)
	_, err = svc.CreateVisitante(ctx, outro, 0, formVisitanteValido("Bruno Visita"))
	require.NoError(t, err)

	t.Run("líder só enxerga a própria célula", func(t *testing.T) {
		lista, err := svc.ListVisitantes(ctx, cen.lider, 0)
		require.NoError(t, err)
		require.Len(t, lista, 1)
		assert.Equal(t, visitante.ID, lista[0].ID)

		_, err = svc.GetVisitanteByID(ctx, outro, visitante.ID)
		assert.ErrorIs(t, err, ErrVisitanteNaoAutorizado)
	})

	t.Run("admin enxerga tudo", func(t *testing.T) {
		lista, err := svc.ListVisitantes(ctx, cen.admin, 0)
		require.NoError(t, err)
		assert.Len(t, lista, 2)

		lista, err = svc.ListVisitantes(ctx, cen.admin, cen.celula.ID)
		require.NoError(t, err)
		assert.Len(t, lista, 1)
	})
}
