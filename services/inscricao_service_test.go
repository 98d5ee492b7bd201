package services

import (
	"context"
	"testing"
	"time"

	"celulas.app/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCriarInscricao(t *testing.T) {
	cen := novoCenario(t)
	evento := cen.criarEventoAberto(t)
	svc := NewInscricaoService()
	ctx := context.Background()

	inscricao, err := svc.CriarInscricao(ctx, cen.lider, evento.ID, formInscricaoValida("Maria Silva"))
	require.NoError(t, err)
	assert.Equal(t, models.StatusPendente, inscricao.StatusPagamento)
	assert.Equal(t, *cen.lider.CelulaID, inscricao.CelulaInscricaoID)
	assert.Equal(t, cen.lider.PerfilID, inscricao.InscritoPorPerfilID)
	assert.Equal(t, "11999998888", inscricao.ContatoPessoal, "contato deve ser normalizado")

	t.Run("ator sem célula não inscreve", func(t *testing.T) {
		semCelula := Ator{PerfilID: 99, Role: models.RoleLider}
		_, err := svc.CriarInscricao(ctx, semCelula, evento.ID, formInscricaoValida("Fulano"))
		assert.ErrorIs(t, err, ErrInscricaoNaoAutorizada)
	})

	t.Run("evento fechado recusa", func(t *testing.T) {
		require.NoError(t, cen.db.Model(evento).Update("ativa_para_inscricao", false).Error)
		_, err := svc.CriarInscricao(ctx, cen.lider, evento.ID, formInscricaoValida("Fulano"))
		assert.ErrorIs(t, err, ErrEventoEncerrado)
		require.NoError(t, cen.db.Model(evento).Update("ativa_para_inscricao", true).Error)
	})

	t.Run("contato inválido recusa", func(t *testing.T) {
		form := formInscricaoValida("Fulano de Tal")
		form.ContatoPessoal = "123"
		_, err := svc.CriarInscricao(ctx, cen.lider, evento.ID, form)
		assert.ErrorIs(t, err, ErrInscricaoDadosInvalidos)
	})
}

func TestCicloDePagamentoCompleto(t *testing.T) {
	cen := novoCenario(t)
	evento := cen.criarEventoAberto(t)
	svc := NewInscricaoService()
	ctx := context.Background()

	inscricao, err := svc.CriarInscricao(ctx, cen.lider, evento.ID, formInscricaoValida("Maria Silva"))
	require.NoError(t, err)

	require.NoError(t, svc.AnexarComprovante(ctx, cen.lider, inscricao.ID, models.ParcelaEntrada, "uploads/comprovantes/entrada.png"))
	require.NoError(t, svc.ConfirmarPagamento(ctx, cen.admin, inscricao.ID, models.ParcelaEntrada))
	require.NoError(t, svc.AnexarComprovante(ctx, cen.lider, inscricao.ID, models.ParcelaRestante, "uploads/comprovantes/restante.png"))
	require.NoError(t, svc.ConfirmarPagamento(ctx, cen.admin, inscricao.ID, models.ParcelaRestante))

	atual, err := svc.GetInscricaoByID(ctx, cen.admin, inscricao.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPagoTotal, atual.StatusPagamento)
	assert.True(t, atual.AdminConfirmouEntrada)
	assert.True(t, atual.AdminConfirmouRestante)
	require.NotNil(t, atual.DataUploadEntrada)
	require.NotNil(t, atual.DataUploadRestante)
}

func TestTransicoesForaDeOrdem(t *testing.T) {
	cen := novoCenario(t)
	evento := cen.criarEventoAberto(t)
	svc := NewInscricaoService()
	ctx := context.Background()

	inscricao, err := svc.CriarInscricao(ctx, cen.lider, evento.ID, formInscricaoValida("Maria Silva"))
	require.NoError(t, err)

	t.Run("restante não entra antes da entrada confirmada", func(t *testing.T) {
		err := svc.AnexarComprovante(ctx, cen.lider, inscricao.ID, models.ParcelaRestante, "uploads/x.png")
		assert.ErrorIs(t, err, models.ErrTransicaoInvalida)
	})

	t.Run("admin não confirma sem comprovante", func(t *testing.T) {
		err := svc.ConfirmarPagamento(ctx, cen.admin, inscricao.ID, models.ParcelaEntrada)
		assert.ErrorIs(t, err, models.ErrTransicaoInvalida)
	})

	t.Run("líder não confirma pagamento", func(t *testing.T) {
		require.NoError(t, svc.AnexarComprovante(ctx, cen.lider, inscricao.ID, models.ParcelaEntrada, "uploads/x.png"))
		err := svc.ConfirmarPagamento(ctx, cen.lider, inscricao.ID, models.ParcelaEntrada)
		assert.ErrorIs(t, err, ErrInscricaoNaoAutorizada)
	})

	t.Run("líder de outra célula não anexa", func(t *testing.T) {
		outro := cen.outroLider(t)
		err := svc.AnexarComprovante(ctx, outro, inscricao.ID, models.ParcelaEntrada, "uploads/x.png")
		assert.ErrorIs(t, err, ErrInscricaoNaoAutorizada)
	})
}

func TestCancelarInscricao(t *testing.T) {
	cen := novoCenario(t)
	evento := cen.criarEventoAberto(t)
	svc := NewInscricaoService()
	ctx := context.Background()

	inscricao, err := svc.CriarInscricao(ctx, cen.lider, evento.ID, formInscricaoValida("Maria Silva"))
	require.NoError(t, err)

	t.Run("líder não cancela", func(t *testing.T) {
		assert.ErrorIs(t, svc.CancelarInscricao(ctx, cen.lider, inscricao.ID), ErrInscricaoNaoAutorizada)
	})

	require.NoError(t, svc.CancelarInscricao(ctx, cen.admin, inscricao.ID))

	t.Run("cancelada congela", func(t *testing.T) {
		err := svc.AnexarComprovante(ctx, cen.lider, inscricao.ID, models.ParcelaEntrada, "uploads/x.png")
		assert.ErrorIs(t, err, models.ErrTransicaoInvalida)

		assert.ErrorIs(t, svc.CancelarInscricao(ctx, cen.admin, inscricao.ID), models.ErrTransicaoInvalida)
	})
}

func TestCriarInscricaoPublica(t *testing.T) {
	cen := novoCenario(t)
	evento := cen.criarEventoAberto(t)
	svc := NewInscricaoService()
	ctx := context.Background()

	novoConvite := func(t *testing.T) *models.ConviteInscricao {
		convite := &models.ConviteInscricao{
			Token:             uuid.NewString(),
			EventoID:          evento.ID,
			CelulaID:          cen.celula.ID,
			GeradoPorPerfilID: cen.lider.PerfilID,
			ExpiraEm:          time.Now().Add(ValidadeConvite),
		}
		require.NoError(t, cen.db.Create(convite).Error)
		return convite
	}

	t.Run("nasce pendente e queima o convite", func(t *testing.T) {
		convite := novoConvite(t)
		inscricao, err := svc.CriarInscricaoPublica(ctx, convite.Token, formInscricaoValida("Joana Candidata"), "")
		require.NoError(t, err)
		assert.Equal(t, models.StatusPendente, inscricao.StatusPagamento)
		assert.Equal(t, cen.celula.ID, inscricao.CelulaInscricaoID)
		assert.Equal(t, cen.lider.PerfilID, inscricao.InscritoPorPerfilID)
		assert.Empty(t, inscricao.CaminhoComprovanteEntrada)
		assert.Nil(t, inscricao.DataUploadEntrada)

		var queimado models.ConviteInscricao
		require.NoError(t, cen.db.First(&queimado, convite.ID).Error)
		assert.True(t, queimado.Usado)
		require.NotNil(t, queimado.UsadoPorInscricaoID)
		assert.Equal(t, inscricao.ID, *queimado.UsadoPorInscricaoID)

		// Uso único: o mesmo token não serve duas vezes.
		_, err = svc.CriarInscricaoPublica(ctx, convite.Token, formInscricaoValida("Outra Pessoa"), "")
		assert.ErrorIs(t, err, ErrConviteInvalido)

		// O líder dono anexa a entrada depois, pelo fluxo normal.
		require.NoError(t, svc.AnexarComprovante(ctx, cen.lider, inscricao.ID, models.ParcelaEntrada, "uploads/comprovantes/pix.png"))
		atual, err := svc.GetInscricaoByID(ctx, cen.lider, inscricao.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusAguardandoConfEntrada, atual.StatusPagamento)
	})

	t.Run("comprovante junto do formulário avança a entrada", func(t *testing.T) {
		convite := novoConvite(t)
		inscricao, err := svc.CriarInscricaoPublica(ctx, convite.Token, formInscricaoValida("Lia Candidata"), "uploads/comprovantes/pix.png")
		require.NoError(t, err)
		assert.Equal(t, models.StatusAguardandoConfEntrada, inscricao.StatusPagamento)
		assert.Equal(t, "uploads/comprovantes/pix.png", inscricao.CaminhoComprovanteEntrada)
		require.NotNil(t, inscricao.DataUploadEntrada)
	})

	t.Run("convite expirado recusa", func(t *testing.T) {
		convite := novoConvite(t)
		require.NoError(t, cen.db.Model(convite).Update("expira_em", time.Now().Add(-time.Minute)).Error)
		_, err := svc.CriarInscricaoPublica(ctx, convite.Token, formInscricaoValida("Joana Candidata"), "")
		assert.ErrorIs(t, err, ErrConviteInvalido)
	})

	t.Run("token desconhecido recusa", func(t *testing.T) {
		_, err := svc.CriarInscricaoPublica(ctx, uuid.NewString(), formInscricaoValida("Joana Candidata"), "")
		assert.ErrorIs(t, err, ErrConviteInvalido)
	})
}

func TestInscricaoNoDiaLimiteDaEntrada(t *testing.T) {
	cen := novoCenario(t)
	svc := NewInscricaoService()
	eventoSvc := NewEventoService()
	ctx := context.Background()

	// Data limite hoje: o evento aparece na listagem de ativos e ainda aceita
	// inscrição no mesmo dia.
	evento := cen.criarEventoAberto(t)
	require.NoError(t, cen.db.Model(evento).Update("data_limite_entrada", time.Now()).Error)

	ativos, err := eventoSvc.ListEventosAtivos(ctx)
	require.NoError(t, err)
	require.Len(t, ativos, 1)

	inscricao, err := svc.CriarInscricao(ctx, cen.lider, evento.ID, formInscricaoValida("Maria Silva"))
	require.NoError(t, err)
	assert.Equal(t, models.StatusPendente, inscricao.StatusPagamento)

	t.Run("no dia seguinte ao limite recusa", func(t *testing.T) {
		require.NoError(t, cen.db.Model(evento).Update("data_limite_entrada", time.Now().AddDate(0, 0, -1)).Error)
		_, err := svc.CriarInscricao(ctx, cen.lider, evento.ID, formInscricaoValida("Atrasada"))
		assert.ErrorIs(t, err, ErrEventoEncerrado)
	})
}

func TestAtualizarDadosPreservaStatus(t *testing.T) {
	cen := novoCenario(t)
	evento := cen.criarEventoAberto(t)
	svc := NewInscricaoService()
	ctx := context.Background()

	inscricao, err := svc.CriarInscricao(ctx, cen.lider, evento.ID, formInscricaoValida("Maria Silva"))
	require.NoError(t, err)
	require.NoError(t, svc.AnexarComprovante(ctx, cen.lider, inscricao.ID, models.ParcelaEntrada, "uploads/x.png"))

	form := InscricaoForm{
		NomeCompletoParticipante: "Maria Silva Santos",
		TipoParticipacao:         models.ParticipacaoCozinha,
		ContatoPessoal:           "(21) 98888-7777",
	}
	require.NoError(t, svc.AtualizarDados(ctx, cen.lider, inscricao.ID, form))

	atual, err := svc.GetInscricaoByID(ctx, cen.admin, inscricao.ID)
	require.NoError(t, err)
	assert.Equal(t, "Maria Silva Santos", atual.NomeCompletoParticipante)
	assert.Equal(t, models.ParticipacaoCozinha, atual.TipoParticipacao)
	assert.Equal(t, models.StatusAguardandoConfEntrada, atual.StatusPagamento,
		"edição de dados não mexe no status")
	assert.Equal(t, "uploads/x.png", atual.CaminhoComprovanteEntrada)
}

func TestListasEscopadas(t *testing.T) {
	cen := novoCenario(t)
	evento := cen.criarEventoAberto(t)
	svc := NewInscricaoService()
	ctx := context.Background()

	minha, err := svc.CriarInscricao(ctx, cen.lider, evento.ID, formInscricaoValida("Maria Silva"))
	require.NoError(t, err)
	outro := cen.outroLider(t)
	_, err = svc.CriarInscricao(ctx, outro, evento.ID, formInscricaoValida("Pedro Paulo"))
	require.NoError(t, err)

	minhas, err := svc.ListMinhasInscricoes(ctx, cen.lider, evento.ID)
	require.NoError(t, err)
	require.Len(t, minhas, 1)
	assert.Equal(t, minha.ID, minhas[0].ID)

	t.Run("líder não enxerga inscrição alheia", func(t *testing.T) {
		_, err := svc.GetInscricaoByID(ctx, outro, minha.ID)
		assert.ErrorIs(t, err, ErrInscricaoNaoAutorizada)
	})

	t.Run("fila de confirmação é do admin", func(t *testing.T) {
		_, err := svc.ListAguardandoConfirmacao(ctx, cen.lider)
		assert.ErrorIs(t, err, ErrInscricaoNaoAutorizada)

		require.NoError(t, svc.AnexarComprovante(ctx, cen.lider, minha.ID, models.ParcelaEntrada, "uploads/x.png"))
		fila, err := svc.ListAguardandoConfirmacao(ctx, cen.admin)
		require.NoError(t, err)
		require.Len(t, fila, 1)
		assert.Equal(t, minha.ID, fila[0].ID)
	})
}

func TestExportarCSV(t *testing.T) {
	cen := novoCenario(t)
	evento := cen.criarEventoAberto(t)
	svc := NewInscricaoService()
	ctx := context.Background()

	_, err := svc.CriarInscricao(ctx, cen.lider, evento.ID, formInscricaoValida("Maria Silva"))
	require.NoError(t, err)
	_, err = svc.CriarInscricao(ctx, cen.lider, evento.ID, formInscricaoValida("Joana Souza"))
	require.NoError(t, err)

	t.Run("líder não exporta", func(t *testing.T) {
		_, err := svc.ExportarCSV(ctx, cen.lider, evento.ID)
		assert.ErrorIs(t, err, ErrInscricaoNaoAutorizada)
	})

	saida, err := svc.ExportarCSV(ctx, cen.admin, evento.ID)
	require.NoError(t, err)
	csv := string(saida)
	assert.Contains(t, csv, "Participante")
	assert.Contains(t, csv, "Maria Silva")
	assert.Contains(t, csv, "Joana Souza")
	assert.Contains(t, csv, "(11) 99999-8888")
	assert.Contains(t, csv, "Pendente")
}
