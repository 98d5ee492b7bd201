package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"celulas.app/models"
	"celulas.app/pkg/pdfcliente"
	"celulas.app/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pdfClienteFake captura o payload e devolve bytes fixos.
type pdfClienteFake struct {
	payloads []pdfcliente.Payload
	err      error
}

func (f *pdfClienteFake) Gerar(payload pdfcliente.Payload) ([]byte, error) {
	f.payloads = append(f.payloads, payload)
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-fake"), nil
}

func novoRelatorioService(fake *pdfClienteFake) *RelatorioService {
	return &RelatorioService{
		reuniaoService: NewReuniaoService(),
		inscricaoRepo:  repositories.NewInscricaoRepository(),
		eventoRepo:     repositories.NewEventoRepository(),
		membroRepo:     repositories.NewMembroRepository(),
		visitanteRepo:  repositories.NewVisitanteRepository(),
		reuniaoRepo:    repositories.NewReuniaoRepository(),
		pdf:            fake,
	}
}

func TestResumoReuniao(t *testing.T) {
	cen := novoCenario(t)
	fake := &pdfClienteFake{}
	svc := novoRelatorioService(fake)
	reuniaoSvc := NewReuniaoService()
	ctx := context.Background()

	criarMembro := func(nome string) *models.Membro {
		m := &models.Membro{CelulaID: cen.celula.ID, Nome: nome, DataIngresso: time.Now(), Status: models.MembroAtivo}
		require.NoError(t, cen.db.Create(m).Error)
		return m
	}
	presente := criarMembro("Ana Presente")
	ausente := criarMembro("Bia Ausente")
	criarMembro("Caio Sem Marcação")

	visitante := &models.Visitante{CelulaID: cen.celula.ID, Nome: "Dora Visita", DataPrimeiraVisita: time.Now()}
	require.NoError(t, cen.db.Create(visitante).Error)

	reuniao, err := reuniaoSvc.CreateReuniao(ctx, cen.lider, 0, ReuniaoForm{
		DataReuniao: time.Now(),
		Tema:        "Comunhão",
		NumCriancas: 2,
	})
	require.NoError(t, err)
	require.NoError(t, reuniaoSvc.MarcarPresencas(ctx, cen.lider, reuniao.ID, Presencas{
		Membros:    map[uint]bool{presente.ID: true, ausente.ID: false},
		Visitantes: map[uint]bool{visitante.ID: true},
	}))

	resumo, err := svc.ResumoReuniao(ctx, cen.lider, reuniao.ID)
	require.NoError(t, err)
	require.Len(t, resumo.MembrosPresentes, 1)
	assert.Equal(t, "Ana Presente", resumo.MembrosPresentes[0].Nome)
	// Quem não foi marcado conta como ausente, junto com quem foi marcado ausente.
	assert.Len(t, resumo.MembrosAusentes, 2)
	require.Len(t, resumo.VisitantesPresentes, 1)
	assert.Equal(t, 2, resumo.TotalPresentes)

	t.Run("PDF leva o resumo ao renderizador", func(t *testing.T) {
		pdf, err := svc.GerarPDFReuniao(ctx, cen.lider, reuniao.ID)
		require.NoError(t, err)
		assert.NotEmpty(t, pdf)

		require.Len(t, fake.payloads, 1)
		payload := fake.payloads[0]
		assert.Equal(t, "reuniao_celula", payload.ReportType)
		conteudo, ok := payload.Content.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, cen.celula.Nome, conteudo["celula"])
		assert.Equal(t, 2, conteudo["total_presentes"])
	})

	t.Run("falha do renderizador sobe sem retry", func(t *testing.T) {
		fake.err = pdfcliente.ErrServicoPDF
		_, err := svc.GerarPDFReuniao(ctx, cen.lider, reuniao.ID)
		assert.ErrorIs(t, err, pdfcliente.ErrServicoPDF)
	})
}

func TestResumoFinanceiroEvento(t *testing.T) {
	cen := novoCenario(t)
	evento := cen.criarEventoAberto(t)
	fake := &pdfClienteFake{}
	svc := novoRelatorioService(fake)
	ctx := context.Background()

	criarInscricao := func(nome string, status models.StatusPagamento) {
		i := &models.Inscricao{
			EventoID:                 evento.ID,
			NomeCompletoParticipante: nome,
			TipoParticipacao:         models.ParticipacaoEncontrista,
			ContatoPessoal:           "11999998888",
			CelulaInscricaoID:        cen.celula.ID,
			InscritoPorPerfilID:      cen.lider.PerfilID,
			StatusPagamento:          status,
		}
		require.NoError(t, cen.db.Create(i).Error)
	}
	criarInscricao("Pendente", models.StatusPendente)
	criarInscricao("Aguardando Entrada", models.StatusAguardandoConfEntrada)
	criarInscricao("Entrada Confirmada", models.StatusEntradaConfirmada)
	criarInscricao("Pago Total", models.StatusPagoTotal)
	criarInscricao("Cancelada", models.StatusCancelado)

	resumo, err := svc.ResumoFinanceiroEvento(ctx, cen.admin, evento.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, resumo.TotalInscricoes)
	assert.Equal(t, 1, resumo.PorStatus[models.StatusCancelado])

	// Confirmado: entrada confirmada (100) + pago total (300).
	assert.InDelta(t, 400.0, resumo.ValorConfirmado, 0.001)
	// Previsto: todas menos a cancelada, no valor cheio.
	assert.InDelta(t, 1200.0, resumo.ValorPrevisto, 0.001)

	t.Run("líder não acessa o financeiro", func(t *testing.T) {
		_, err := svc.ResumoFinanceiroEvento(ctx, cen.lider, evento.ID)
		assert.ErrorIs(t, err, ErrInscricaoNaoAutorizada)
	})

	t.Run("PDF financeiro", func(t *testing.T) {
		pdf, err := svc.GerarPDFEvento(ctx, cen.admin, evento.ID)
		require.NoError(t, err)
		assert.NotEmpty(t, pdf)

		require.Len(t, fake.payloads, 1)
		assert.Equal(t, "financeiro_evento", fake.payloads[0].ReportType)
	})
}

func TestVisitantesPorPeriodo(t *testing.T) {
	cen := novoCenario(t)
	svc := novoRelatorioService(&pdfClienteFake{})
	ctx := context.Background()

	criarVisitante := func(celulaID uint, nome string, primeiraVisita time.Time) {
		v := &models.Visitante{CelulaID: celulaID, Nome: nome, DataPrimeiraVisita: primeiraVisita}
		require.NoError(t, cen.db.Create(v).Error)
	}
	hoje := time.Now()
	criarVisitante(cen.celula.ID, "Dentro Do Período", hoje.AddDate(0, 0, -5))
	criarVisitante(cen.celula.ID, "No Limite", hoje)
	criarVisitante(cen.celula.ID, "Antiga Demais", hoje.AddDate(0, -2, 0))

	outro := cen.outroLider(t)
	criarVisitante(*outro.CelulaID, "De Outra Célula", hoje.AddDate(0, 0, -3))

	de := hoje.AddDate(0, 0, -30)

	t.Run("líder vê só a própria célula", func(t *testing.T) {
		visitantes, err := svc.VisitantesPorPeriodo(ctx, cen.lider, 0, de, hoje)
		require.NoError(t, err)
		require.Len(t, visitantes, 2)
		assert.Equal(t, "Dentro Do Período", visitantes[0].Nome)
		assert.Equal(t, "No Limite", visitantes[1].Nome)
	})

	t.Run("líder não espia célula alheia", func(t *testing.T) {
		_, err := svc.VisitantesPorPeriodo(ctx, cen.lider, *outro.CelulaID, de, hoje)
		assert.ErrorIs(t, err, ErrRelatorioNaoAutorizado)
	})

	t.Run("admin sem filtro vê todas as células", func(t *testing.T) {
		visitantes, err := svc.VisitantesPorPeriodo(ctx, cen.admin, 0, de, hoje)
		require.NoError(t, err)
		assert.Len(t, visitantes, 3)
	})
}

func TestFaltososPorPeriodo(t *testing.T) {
	cen := novoCenario(t)
	svc := novoRelatorioService(&pdfClienteFake{})
	reuniaoSvc := NewReuniaoService()
	membroSvc := NewMembroService()
	ctx := context.Background()

	assiduo, err := membroSvc.CreateMembro(ctx, cen.lider, 0, formMembroValido("Ana Assídua"))
	require.NoError(t, err)
	faltoso, err := membroSvc.CreateMembro(ctx, cen.lider, 0, formMembroValido("Beto Faltoso"))
	require.NoError(t, err)

	hoje := time.Now()
	de := hoje.AddDate(0, 0, -30)

	t.Run("sem reunião no período não há faltoso", func(t *testing.T) {
		faltosos, err := svc.FaltososPorPeriodo(ctx, cen.lider, 0, de, hoje)
		require.NoError(t, err)
		assert.Empty(t, faltosos)
	})

	for i, presente := range []bool{true, false} {
		reuniao, err := reuniaoSvc.CreateReuniao(ctx, cen.lider, 0, ReuniaoForm{
			DataReuniao: hoje.AddDate(0, 0, -7*(i+1)),
			Tema:        fmt.Sprintf("Encontro %d", i+1),
		})
		require.NoError(t, err)
		require.NoError(t, reuniaoSvc.MarcarPresencas(ctx, cen.lider, reuniao.ID, Presencas{
			Membros: map[uint]bool{assiduo.ID: presente, faltoso.ID: false},
		}))
	}

	faltosos, err := svc.FaltososPorPeriodo(ctx, cen.lider, 0, de, hoje)
	require.NoError(t, err)
	require.Len(t, faltosos, 1)
	assert.Equal(t, faltoso.ID, faltosos[0].Membro.ID)
	assert.Equal(t, 2, faltosos[0].TotalReunioes)
	assert.Zero(t, faltosos[0].Presencas)

	t.Run("frequência conta as presenças de cada membro", func(t *testing.T) {
		frequencias, err := svc.FrequenciaPorPeriodo(ctx, cen.lider, 0, de, hoje)
		require.NoError(t, err)
		require.Len(t, frequencias, 2)
		assert.Equal(t, "Ana Assídua", frequencias[0].Membro.Nome)
		assert.Equal(t, 1, frequencias[0].Presencas)
		assert.Equal(t, 2, frequencias[0].TotalReunioes)
	})

	t.Run("admin precisa nomear a célula", func(t *testing.T) {
		_, err := svc.FrequenciaPorPeriodo(ctx, cen.admin, 0, de, hoje)
		assert.ErrorIs(t, err, ErrRelatorioCelulaObrigatoria)

		frequencias, err := svc.FrequenciaPorPeriodo(ctx, cen.admin, cen.celula.ID, de, hoje)
		require.NoError(t, err)
		assert.Len(t, frequencias, 2)
	})
}

func TestAniversariantes(t *testing.T) {
	cen := novoCenario(t)
	svc := novoRelatorioService(&pdfClienteFake{})
	ctx := context.Background()

	nascimento := func(mes time.Month) *time.Time {
		d := time.Date(1990, mes, 10, 0, 0, 0, 0, time.UTC)
		return &d
	}
	criarMembro := func(nome string, dataNascimento *time.Time) {
		m := &models.Membro{
			CelulaID:       cen.celula.ID,
			Nome:           nome,
			DataIngresso:   time.Now().AddDate(-1, 0, 0),
			DataNascimento: dataNascimento,
			Status:         models.MembroAtivo,
		}
		require.NoError(t, cen.db.Create(m).Error)
	}
	criarMembro("Ana De Março", nascimento(time.March))
	criarMembro("Beto De Julho", nascimento(time.July))
	criarMembro("Caio Sem Data", nil)

	visitante := &models.Visitante{
		CelulaID:           cen.celula.ID,
		Nome:               "Dora De Março",
		DataPrimeiraVisita: time.Now(),
		DataNascimento:     nascimento(time.March),
	}
	require.NoError(t, cen.db.Create(visitante).Error)

	relatorio, err := svc.Aniversariantes(ctx, cen.lider, 0, time.March)
	require.NoError(t, err)
	require.Len(t, relatorio.Membros, 1)
	assert.Equal(t, "Ana De Março", relatorio.Membros[0].Nome)
	require.Len(t, relatorio.Visitantes, 1)
	assert.Equal(t, "Dora De Março", relatorio.Visitantes[0].Nome)

	t.Run("admin sem filtro varre todas as células", func(t *testing.T) {
		relatorio, err := svc.Aniversariantes(ctx, cen.admin, 0, time.July)
		require.NoError(t, err)
		require.Len(t, relatorio.Membros, 1)
		assert.Equal(t, "Beto De Julho", relatorio.Membros[0].Nome)
		assert.Empty(t, relatorio.Visitantes)
	})
}
