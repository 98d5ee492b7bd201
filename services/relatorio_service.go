package services

import (
	"context"
	"fmt"
	"time"

	"celulas.app/configs"
	"celulas.app/configs/configslog"
	"celulas.app/models"
	"celulas.app/pkg/pdfcliente"
	"celulas.app/pkg/queryparams"
	"celulas.app/repositories"

	"go.uber.org/zap"
)

// RelatorioServiceError erros de negócio dos relatórios.
type RelatorioServiceError string

func (e RelatorioServiceError) Error() string { return string(e) }

const (
	ErrRelatorioNaoAutorizado     RelatorioServiceError = "você não tem permissão para este relatório"
	ErrRelatorioCelulaObrigatoria RelatorioServiceError = "informe a célula do relatório"
)

// ResumoReuniao particiona a chamada de uma reunião para exibição e para o
// relatório em PDF.
type ResumoReuniao struct {
	Reuniao             *models.Reuniao
	MembrosPresentes    []models.Membro
	MembrosAusentes     []models.Membro
	VisitantesPresentes []models.Visitante
	TotalPresentes      int
}

// ResumoFinanceiroEvento agrega as inscrições de um evento por situação de
// pagamento.
type ResumoFinanceiroEvento struct {
	Evento          *models.EventoFaceAFace
	TotalInscricoes int
	PorStatus       map[models.StatusPagamento]int
	ValorConfirmado float64
	ValorPrevisto   float64
}

// FrequenciaMembro é a presença de um membro nas reuniões de um período.
type FrequenciaMembro struct {
	Membro        models.Membro
	TotalReunioes int
	Presencas     int
}

// RelatorioAniversariantes junta membros e visitantes que fazem aniversário
// no mês.
type RelatorioAniversariantes struct {
	Mes        time.Month
	Membros    []models.Membro
	Visitantes []models.Visitante
}

// IRelatorioService monta resumos e delega a renderização de PDF ao serviço
// externo.
type IRelatorioService interface {
	ResumoReuniao(ctx context.Context, ator Ator, reuniaoID uint) (*ResumoReuniao, error)
	GerarPDFReuniao(ctx context.Context, ator Ator, reuniaoID uint) ([]byte, error)
	ResumoFinanceiroEvento(ctx context.Context, ator Ator, eventoID uint) (*ResumoFinanceiroEvento, error)
	GerarPDFEvento(ctx context.Context, ator Ator, eventoID uint) ([]byte, error)
	VisitantesPorPeriodo(ctx context.Context, ator Ator, celulaID uint, de, ate time.Time) ([]models.Visitante, error)
	FrequenciaPorPeriodo(ctx context.Context, ator Ator, celulaID uint, de, ate time.Time) ([]FrequenciaMembro, error)
	FaltososPorPeriodo(ctx context.Context, ator Ator, celulaID uint, de, ate time.Time) ([]FrequenciaMembro, error)
	Aniversariantes(ctx context.Context, ator Ator, celulaID uint, mes time.Month) (*RelatorioAniversariantes, error)
}

// RelatorioService implementa IRelatorioService.
type RelatorioService struct {
	reuniaoService IReuniaoService
	inscricaoRepo  repositories.IInscricaoRepository
	eventoRepo     repositories.IEventoRepository
	membroRepo     repositories.IMembroRepository
	visitanteRepo  repositories.IVisitanteRepository
	reuniaoRepo    repositories.IReuniaoRepository
	pdf            pdfcliente.IPDFCliente
}

// NewRelatorioService cria o serviço apontando para o renderizador configurado.
func NewRelatorioService() IRelatorioService {
	return &RelatorioService{
		reuniaoService: NewReuniaoService(),
		inscricaoRepo:  repositories.NewInscricaoRepository(),
		eventoRepo:     repositories.NewEventoRepository(),
		membroRepo:     repositories.NewMembroRepository(),
		visitanteRepo:  repositories.NewVisitanteRepository(),
		reuniaoRepo:    repositories.NewReuniaoRepository(),
		pdf:            pdfcliente.NewPDFCliente(configs.PDFServiceURL()),
	}
}

// escopoCelula resolve a célula efetiva do relatório: o líder só enxerga a
// própria; o admin filtra por qualquer uma (zero = todas).
func (s *RelatorioService) escopoCelula(ator Ator, pedida uint) (uint, error) {
	if ator.Admin() {
		return pedida, nil
	}
	if !ator.TemCelula() {
		return 0, ErrRelatorioNaoAutorizado
	}
	if pedida != 0 && pedida != *ator.CelulaID {
		return 0, ErrRelatorioNaoAutorizado
	}
	return *ator.CelulaID, nil
}

// ResumoReuniao separa presentes e ausentes entre os membros da célula. Quem
// não foi marcado na chamada conta como ausente.
func (s *RelatorioService) ResumoReuniao(ctx context.Context, ator Ator, reuniaoID uint) (*ResumoReuniao, error) {
	reuniao, err := s.reuniaoService.GetReuniaoComPresencas(ctx, ator, reuniaoID)
	if err != nil {
		return nil, err
	}
	membros, err := s.membroRepo.FindByCelula(ctx, reuniao.CelulaID)
	if err != nil {
		return nil, err
	}

	presentes := make(map[uint]bool, len(reuniao.PresencasMembros))
	for _, p := range reuniao.PresencasMembros {
		presentes[p.MembroID] = p.Presente
	}

	resumo := &ResumoReuniao{Reuniao: reuniao}
	for _, m := range membros {
		if presentes[m.ID] {
			resumo.MembrosPresentes = append(resumo.MembrosPresentes, m)
		} else {
			resumo.MembrosAusentes = append(resumo.MembrosAusentes, m)
		}
	}
	for _, p := range reuniao.PresencasVisitantes {
		if p.Presente {
			resumo.VisitantesPresentes = append(resumo.VisitantesPresentes, p.Visitante)
		}
	}
	resumo.TotalPresentes = len(resumo.MembrosPresentes) + len(resumo.VisitantesPresentes)
	return resumo, nil
}

// GerarPDFReuniao monta o payload do relatório de reunião e chama o
// renderizador. Falha externa sobe como ErrServicoPDF, sem retry.
func (s *RelatorioService) GerarPDFReuniao(ctx context.Context, ator Ator, reuniaoID uint) ([]byte, error) {
	resumo, err := s.ResumoReuniao(ctx, ator, reuniaoID)
	if err != nil {
		return nil, err
	}

	nomes := func(ms []models.Membro) []string {
		out := make([]string, 0, len(ms))
		for _, m := range ms {
			out = append(out, m.Nome)
		}
		return out
	}
	visitantes := make([]string, 0, len(resumo.VisitantesPresentes))
	for _, v := range resumo.VisitantesPresentes {
		visitantes = append(visitantes, v.Nome)
	}

	payload := pdfcliente.Payload{
		ReportType: "reuniao_celula",
		Title:      fmt.Sprintf("Relatório da Reunião - %s", resumo.Reuniao.DataReuniao.Format("02/01/2006")),
		Content: map[string]any{
			"celula":               resumo.Reuniao.Celula.Nome,
			"data":                 resumo.Reuniao.DataReuniao.Format("02/01/2006"),
			"tema":                 resumo.Reuniao.Tema,
			"num_criancas":         resumo.Reuniao.NumCriancas,
			"membros_presentes":    nomes(resumo.MembrosPresentes),
			"membros_ausentes":     nomes(resumo.MembrosAusentes),
			"visitantes_presentes": visitantes,
			"total_presentes":      resumo.TotalPresentes,
		},
	}
	pdf, err := s.pdf.Gerar(payload)
	if err != nil {
		configslog.Log.Error("GerarPDFReuniao: renderização falhou", zap.Uint("reuniaoID", reuniaoID), zap.Error(err))
		return nil, err
	}
	configslog.Log.Info("PDF de reunião gerado", zap.Uint("reuniaoID", reuniaoID), zap.Int("bytes", len(pdf)))
	return pdf, nil
}

// ResumoFinanceiroEvento conta inscrições por status e projeta os valores do
// evento. Canceladas ficam de fora das somas.
func (s *RelatorioService) ResumoFinanceiroEvento(ctx context.Context, ator Ator, eventoID uint) (*ResumoFinanceiroEvento, error) {
	if !ator.Admin() {
		return nil, ErrInscricaoNaoAutorizada
	}
	evento, err := s.eventoRepo.FindByID(ctx, eventoID)
	if err != nil {
		return nil, ErrEventoNaoEncontrado
	}

	params := queryparams.DefaultListParams("created_at")
	params.OrderBy = "asc"
	params.PerPage = queryparams.MaxPerPage
	resumo := &ResumoFinanceiroEvento{
		Evento:    evento,
		PorStatus: make(map[models.StatusPagamento]int),
	}
	for {
		pagina, total, err := s.inscricaoRepo.FindByEventoPaginated(ctx, eventoID, repositories.InscricaoFiltros{}, params)
		if err != nil {
			return nil, err
		}
		for _, i := range pagina {
			resumo.TotalInscricoes++
			resumo.PorStatus[i.StatusPagamento]++
			switch i.StatusPagamento {
			case models.StatusEntradaConfirmada, models.StatusAguardandoConfRestante:
				resumo.ValorConfirmado += evento.ValorEntrada
				resumo.ValorPrevisto += evento.ValorTotal
			case models.StatusPagoTotal:
				resumo.ValorConfirmado += evento.ValorTotal
				resumo.ValorPrevisto += evento.ValorTotal
			case models.StatusPendente, models.StatusAguardandoConfEntrada:
				resumo.ValorPrevisto += evento.ValorTotal
			}
		}
		if int64(resumo.TotalInscricoes) >= total || len(pagina) == 0 {
			break
		}
		params.Page++
	}
	return resumo, nil
}

// GerarPDFEvento renderiza o resumo financeiro do evento.
func (s *RelatorioService) GerarPDFEvento(ctx context.Context, ator Ator, eventoID uint) ([]byte, error) {
	resumo, err := s.ResumoFinanceiroEvento(ctx, ator, eventoID)
	if err != nil {
		return nil, err
	}

	porStatus := make(map[string]int, len(resumo.PorStatus))
	for status, qtd := range resumo.PorStatus {
		porStatus[status.Texto()] = qtd
	}
	payload := pdfcliente.Payload{
		ReportType: "financeiro_evento",
		Title:      fmt.Sprintf("Resumo Financeiro - %s", resumo.Evento.Nome),
		Content: map[string]any{
			"evento":           resumo.Evento.Nome,
			"tipo":             string(resumo.Evento.Tipo),
			"valor_total":      resumo.Evento.ValorTotal,
			"valor_entrada":    resumo.Evento.ValorEntrada,
			"total_inscricoes": resumo.TotalInscricoes,
			"por_status":       porStatus,
			"valor_confirmado": resumo.ValorConfirmado,
			"valor_previsto":   resumo.ValorPrevisto,
		},
	}
	pdf, err := s.pdf.Gerar(payload)
	if err != nil {
		configslog.Log.Error("GerarPDFEvento: renderização falhou", zap.Uint("eventoID", eventoID), zap.Error(err))
		return nil, err
	}
	return pdf, nil
}

// VisitantesPorPeriodo lista os visitantes com primeira visita no período,
// no escopo do ator.
func (s *RelatorioService) VisitantesPorPeriodo(ctx context.Context, ator Ator, celulaID uint, de, ate time.Time) ([]models.Visitante, error) {
	escopo, err := s.escopoCelula(ator, celulaID)
	if err != nil {
		return nil, err
	}
	return s.visitanteRepo.FindPorPrimeiraVisita(ctx, escopo, de, ate)
}

// FrequenciaPorPeriodo conta, por membro da célula, as presenças nas reuniões
// do período.
func (s *RelatorioService) FrequenciaPorPeriodo(ctx context.Context, ator Ator, celulaID uint, de, ate time.Time) ([]FrequenciaMembro, error) {
	escopo, err := s.escopoCelula(ator, celulaID)
	if err != nil {
		return nil, err
	}
	if escopo == 0 {
		return nil, ErrRelatorioCelulaObrigatoria
	}

	reunioes, err := s.reuniaoRepo.FindByCelulaNoPeriodo(ctx, escopo, de, ate)
	if err != nil {
		return nil, err
	}
	membros, err := s.membroRepo.FindByCelula(ctx, escopo)
	if err != nil {
		return nil, err
	}

	presencas := make(map[uint]int)
	for _, r := range reunioes {
		for _, p := range r.PresencasMembros {
			if p.Presente {
				presencas[p.MembroID]++
			}
		}
	}
	frequencias := make([]FrequenciaMembro, 0, len(membros))
	for _, m := range membros {
		frequencias = append(frequencias, FrequenciaMembro{
			Membro:        m,
			TotalReunioes: len(reunioes),
			Presencas:     presencas[m.ID],
		})
	}
	return frequencias, nil
}

// FaltososPorPeriodo filtra da frequência os membros que não apareceram em
// nenhuma reunião do período. Período sem reunião não tem faltoso.
func (s *RelatorioService) FaltososPorPeriodo(ctx context.Context, ator Ator, celulaID uint, de, ate time.Time) ([]FrequenciaMembro, error) {
	frequencias, err := s.FrequenciaPorPeriodo(ctx, ator, celulaID, de, ate)
	if err != nil {
		return nil, err
	}
	faltosos := make([]FrequenciaMembro, 0)
	for _, f := range frequencias {
		if f.TotalReunioes > 0 && f.Presencas == 0 {
			faltosos = append(faltosos, f)
		}
	}
	return faltosos, nil
}

// Aniversariantes lista membros e visitantes que fazem aniversário no mês,
// no escopo do ator. Quem não tem data de nascimento cadastrada fica de fora.
func (s *RelatorioService) Aniversariantes(ctx context.Context, ator Ator, celulaID uint, mes time.Month) (*RelatorioAniversariantes, error) {
	escopo, err := s.escopoCelula(ator, celulaID)
	if err != nil {
		return nil, err
	}

	var membros []models.Membro
	var visitantes []models.Visitante
	if escopo == 0 {
		membros, err = s.membroRepo.FindAll(ctx)
		if err != nil {
			return nil, err
		}
		visitantes, err = s.visitanteRepo.FindAll(ctx)
	} else {
		membros, err = s.membroRepo.FindByCelula(ctx, escopo)
		if err != nil {
			return nil, err
		}
		visitantes, err = s.visitanteRepo.FindByCelula(ctx, escopo)
	}
	if err != nil {
		return nil, err
	}

	relatorio := &RelatorioAniversariantes{Mes: mes}
	for _, m := range membros {
		if m.DataNascimento != nil && m.DataNascimento.Month() == mes {
			relatorio.Membros = append(relatorio.Membros, m)
		}
	}
	for _, v := range visitantes {
		if v.DataNascimento != nil && v.DataNascimento.Month() == mes {
			relatorio.Visitantes = append(relatorio.Visitantes, v)
		}
	}
	return relatorio, nil
}

var _ IRelatorioService = (*RelatorioService)(nil)
