package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateReuniaoDetectaDuplicada(t *testing.T) {
	cen := novoCenario(t)
	svc := NewReuniaoService()
	ctx := context.Background()

	form := ReuniaoForm{DataReuniao: time.Now(), Tema: "Comunhão", NumCriancas: 1}
	_, err := svc.CreateReuniao(ctx, cen.lider, 0, form)
	require.NoError(t, err)

	_, err = svc.CreateReuniao(ctx, cen.lider, 0, form)
	assert.ErrorIs(t, err, ErrReuniaoDuplicada)

	t.Run("tema diferente na mesma data passa", func(t *testing.T) {
		outra := form
		outra.Tema = "Oração"
		_, err := svc.CreateReuniao(ctx, cen.lider, 0, outra)
		assert.NoError(t, err)
	})
}

func TestReuniaoEscopoEPDF(t *testing.T) {
	cen := novoCenario(t)
	svc := NewReuniaoService()
	ctx := context.Background()

	reuniao, err := svc.CreateReuniao(ctx, cen.lider, 0, ReuniaoForm{DataReuniao: time.Now(), Tema: "Comunhão"})
	require.NoError(t, err)

	t.Run("líder de outra célula não acessa", func(t *testing.T) {
		outro := cen.outroLider(t)
		_, err := svc.GetReuniaoByID(ctx, outro, reuniao.ID)
		assert.ErrorIs(t, err, ErrReuniaoNaoAutorizada)
	})

	require.NoError(t, svc.RegistrarPDF(ctx, cen.lider, reuniao.ID, "uploads/relatorios/reuniao-1.pdf"))
	atual, err := svc.GetReuniaoByID(ctx, cen.lider, reuniao.ID)
	require.NoError(t, err)
	assert.Equal(t, "uploads/relatorios/reuniao-1.pdf", atual.CaminhoPDF)
}

func TestMarcarPresencasSobrescreve(t *testing.T) {
	cen := novoCenario(t)
	svc := NewReuniaoService()
	ctx := context.Background()

	membro, err := NewMembroService().CreateMembro(ctx, cen.lider, 0, formMembroValido("Ana Lima"))
	require.NoError(t, err)
	reuniao, err := svc.CreateReuniao(ctx, cen.lider, 0, ReuniaoForm{DataReuniao: time.Now(), Tema: "Comunhão"})
	require.NoError(t, err)

	marcar := func(presente bool) {
		require.NoError(t, svc.MarcarPresencas(ctx, cen.lider, reuniao.ID, Presencas{
			Membros: map[uint]bool{membro.ID: presente},
		}))
	}
	marcar(true)
	marcar(false)

	completa, err := svc.GetReuniaoComPresencas(ctx, cen.lider, reuniao.ID)
	require.NoError(t, err)
	require.Len(t, completa.PresencasMembros, 1, "remarcar não duplica o registro")
	assert.False(t, completa.PresencasMembros[0].Presente)
}
