package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"time"

	"celulas.app/configs"
	"celulas.app/configs/configslog"
	"celulas.app/models"
	"celulas.app/pkg/queryparams"
	"celulas.app/pkg/telefone"
	"celulas.app/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// InscricaoServiceError erros de negócio do fluxo de inscrições.
type InscricaoServiceError string

func (e InscricaoServiceError) Error() string { return string(e) }

const (
	ErrInscricaoNaoEncontrada     InscricaoServiceError = "inscrição não encontrada"
	ErrInscricaoDadosInvalidos    InscricaoServiceError = "dados da inscrição inválidos"
	ErrInscricaoNaoAutorizada     InscricaoServiceError = "você não tem permissão para esta operação"
	ErrInscricaoCriacaoFalhou     InscricaoServiceError = "não foi possível criar a inscrição"
	ErrInscricaoAtualizacaoFalhou InscricaoServiceError = "não foi possível atualizar a inscrição"
	ErrInscricaoExclusaoFalhou    InscricaoServiceError = "não foi possível excluir a inscrição"
	ErrEventoEncerrado            InscricaoServiceError = "este evento não está aceitando inscrições"
	ErrComprovanteObrigatorio     InscricaoServiceError = "o comprovante de pagamento é obrigatório"
)

// InscricaoForm são os dados pessoais editáveis de uma inscrição. O status de
// pagamento nunca entra por aqui.
type InscricaoForm struct {
	NomeCompletoParticipante string                  `validate:"required,min=3,max=150"`
	TipoParticipacao         models.TipoParticipacao `validate:"required,oneof=Encontrista Encontreiro Cozinha"`
	ContatoPessoal           string                  `validate:"required"`
}

// IInscricaoService é o fluxo completo de inscrição do Face a Face.
type IInscricaoService interface {
	CriarInscricao(ctx context.Context, ator Ator, eventoID uint, form InscricaoForm) (*models.Inscricao, error)
	CriarInscricaoPublica(ctx context.Context, token string, form InscricaoForm, caminhoComprovante string) (*models.Inscricao, error)
	AnexarComprovante(ctx context.Context, ator Ator, inscricaoID uint, parcela models.Parcela, caminho string) error
	ConfirmarPagamento(ctx context.Context, ator Ator, inscricaoID uint, parcela models.Parcela) error
	CancelarInscricao(ctx context.Context, ator Ator, inscricaoID uint) error
	AtualizarDados(ctx context.Context, ator Ator, inscricaoID uint, form InscricaoForm) error
	ExcluirInscricao(ctx context.Context, ator Ator, inscricaoID uint) error
	GetInscricaoByID(ctx context.Context, ator Ator, inscricaoID uint) (*models.Inscricao, error)
	ListInscricoesDoEvento(ctx context.Context, ator Ator, eventoID uint, filtros repositories.InscricaoFiltros, params queryparams.ListParams) (*queryparams.PaginatedResult, error)
	ListMinhasInscricoes(ctx context.Context, ator Ator, eventoID uint) ([]models.Inscricao, error)
	ListAguardandoConfirmacao(ctx context.Context, ator Ator) ([]models.Inscricao, error)
	ExportarCSV(ctx context.Context, ator Ator, eventoID uint) ([]byte, error)
}

// InscricaoService implementa IInscricaoService.
type InscricaoService struct {
	repo       repositories.IInscricaoRepository
	eventoRepo repositories.IEventoRepository
	db         *gorm.DB
}

// NewInscricaoService cria o serviço com os repositórios padrão.
func NewInscricaoService() IInscricaoService {
	return &InscricaoService{
		repo:       repositories.NewInscricaoRepository(),
		eventoRepo: repositories.NewEventoRepository(),
		db:         configs.GetDB(),
	}
}

func validarFormInscricao(form *InscricaoForm) error {
	if err := validate.Struct(form); err != nil {
		return fmt.Errorf("%w: %v", ErrInscricaoDadosInvalidos, err)
	}
	contato, err := telefone.Normalizar(form.ContatoPessoal)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInscricaoDadosInvalidos, err)
	}
	form.ContatoPessoal = contato
	return nil
}

// CriarInscricao registra um participante em nome do líder logado. A inscrição
// nasce em PENDENTE e pertence à célula do líder.
func (s *InscricaoService) CriarInscricao(ctx context.Context, ator Ator, eventoID uint, form InscricaoForm) (*models.Inscricao, error) {
	if !ator.TemCelula() {
		return nil, ErrInscricaoNaoAutorizada
	}
	if err := validarFormInscricao(&form); err != nil {
		return nil, err
	}

	evento, err := s.eventoRepo.FindByID(ctx, eventoID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEventoNaoEncontrado
		}
		return nil, ErrInscricaoCriacaoFalhou
	}
	if !evento.AceitaInscricoes(time.Now()) {
		return nil, ErrEventoEncerrado
	}

	inscricao := &models.Inscricao{
		EventoID:                 evento.ID,
		NomeCompletoParticipante: form.NomeCompletoParticipante,
		TipoParticipacao:         form.TipoParticipacao,
		ContatoPessoal:           form.ContatoPessoal,
		CelulaInscricaoID:        *ator.CelulaID,
		InscritoPorPerfilID:      ator.PerfilID,
		StatusPagamento:          models.StatusPendente,
	}
	ctx = contextWithUserID(ctx, ator.PerfilID)
	if err := s.repo.Create(ctx, inscricao); err != nil {
		configslog.Log.Error("CriarInscricao: create falhou", zap.Uint("eventoID", eventoID), zap.Error(err))
		return nil, ErrInscricaoCriacaoFalhou
	}
	configslog.Log.Info("Inscrição criada",
		zap.Uint("inscricaoID", inscricao.ID),
		zap.Uint("eventoID", evento.ID),
		zap.Uint("perfilID", ator.PerfilID))
	return inscricao, nil
}

// CriarInscricaoPublica registra um candidato vindo do link de convite. A
// inscrição pertence ao líder que gerou o convite e nasce em PENDENTE; se o
// candidato já anexar o comprovante da entrada, a máquina de estados avança
// na mesma transação. O convite é queimado junto, mas uma falha só na queima
// não derruba a inscrição já criada.
func (s *InscricaoService) CriarInscricaoPublica(ctx context.Context, token string, form InscricaoForm, caminhoComprovante string) (*models.Inscricao, error) {
	if err := validarFormInscricao(&form); err != nil {
		return nil, err
	}

	var inscricao *models.Inscricao
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := ctx
		conviteRepo := repositories.NewConviteRepositoryTx(tx)
		inscricaoRepo := repositories.NewInscricaoRepositoryTx(tx)
		eventoRepo := repositories.NewEventoRepositoryTx(tx)

		convite, err := conviteRepo.FindByTokenForUpdate(txCtx, token)
		if err != nil {
			return ErrConviteInvalido
		}
		if convite.Usado || convite.Expirado(time.Now()) {
			return ErrConviteInvalido
		}
		evento, err := eventoRepo.FindByID(txCtx, convite.EventoID)
		if err != nil {
			return ErrConviteInvalido
		}
		if !evento.AceitaInscricoes(time.Now()) {
			return ErrEventoEncerrado
		}

		inscricao = &models.Inscricao{
			EventoID:                 evento.ID,
			NomeCompletoParticipante: form.NomeCompletoParticipante,
			TipoParticipacao:         form.TipoParticipacao,
			ContatoPessoal:           form.ContatoPessoal,
			CelulaInscricaoID:        convite.CelulaID,
			InscritoPorPerfilID:      convite.GeradoPorPerfilID,
			StatusPagamento:          models.StatusPendente,
		}
		if caminhoComprovante != "" {
			proximo, err := models.ProximoAposComprovante(inscricao.StatusPagamento, models.ParcelaEntrada)
			if err != nil {
				return err
			}
			agora := time.Now()
			inscricao.StatusPagamento = proximo
			inscricao.CaminhoComprovanteEntrada = caminhoComprovante
			inscricao.DataUploadEntrada = &agora
		}
		if err := inscricaoRepo.Create(txCtx, inscricao); err != nil {
			configslog.Log.Error("CriarInscricaoPublica: create falhou", zap.Error(err))
			return ErrInscricaoCriacaoFalhou
		}

		if err := conviteRepo.MarcarUsado(txCtx, convite.ID, inscricao.ID); err != nil {
			// A inscrição vale mesmo sem a queima; fica o alerta para limpeza manual.
			configslog.Log.Warn("CriarInscricaoPublica: queima do convite falhou",
				zap.Uint("conviteID", convite.ID), zap.Uint("inscricaoID", inscricao.ID), zap.Error(err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	configslog.Log.Info("Inscrição pública criada",
		zap.Uint("inscricaoID", inscricao.ID), zap.Uint("eventoID", inscricao.EventoID))
	return inscricao, nil
}

// AnexarComprovante grava o comprovante de uma parcela e avança o status. Só o
// líder dono (ou o admin) anexa; a ordem das parcelas é imposta pela máquina
// de estados, nunca pela tela.
func (s *InscricaoService) AnexarComprovante(ctx context.Context, ator Ator, inscricaoID uint, parcela models.Parcela, caminho string) error {
	if caminho == "" {
		return ErrComprovanteObrigatorio
	}
	ctx = contextWithUserID(ctx, ator.PerfilID)
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repositories.NewInscricaoRepositoryTx(tx)
		inscricao, err := repo.FindByIDForUpdate(ctx, inscricaoID)
		if err != nil {
			return ErrInscricaoNaoEncontrada
		}
		if !ator.Admin() && !inscricao.PertenceA(ator.PerfilID, ator.CelulaID) {
			return ErrInscricaoNaoAutorizada
		}

		proximo, err := models.ProximoAposComprovante(inscricao.StatusPagamento, parcela)
		if err != nil {
			return err
		}
		agora := time.Now()
		inscricao.StatusPagamento = proximo
		switch parcela {
		case models.ParcelaEntrada:
			inscricao.CaminhoComprovanteEntrada = caminho
			inscricao.DataUploadEntrada = &agora
		case models.ParcelaRestante:
			inscricao.CaminhoComprovanteRestante = caminho
			inscricao.DataUploadRestante = &agora
		}
		if err := repo.Update(ctx, inscricao); err != nil {
			configslog.Log.Error("AnexarComprovante: update falhou", zap.Uint("id", inscricaoID), zap.Error(err))
			return ErrInscricaoAtualizacaoFalhou
		}
		configslog.Log.Info("Comprovante anexado",
			zap.Uint("inscricaoID", inscricaoID),
			zap.String("parcela", string(parcela)),
			zap.String("status", string(proximo)))
		return nil
	})
}

// ConfirmarPagamento é a confirmação financeira do admin sobre uma parcela já
// comprovada.
func (s *InscricaoService) ConfirmarPagamento(ctx context.Context, ator Ator, inscricaoID uint, parcela models.Parcela) error {
	if !ator.Admin() {
		return ErrInscricaoNaoAutorizada
	}
	ctx = contextWithUserID(ctx, ator.PerfilID)
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repositories.NewInscricaoRepositoryTx(tx)
		inscricao, err := repo.FindByIDForUpdate(ctx, inscricaoID)
		if err != nil {
			return ErrInscricaoNaoEncontrada
		}

		proximo, err := models.ProximoAposConfirmacao(inscricao.StatusPagamento, parcela)
		if err != nil {
			return err
		}
		inscricao.StatusPagamento = proximo
		switch parcela {
		case models.ParcelaEntrada:
			inscricao.AdminConfirmouEntrada = true
		case models.ParcelaRestante:
			inscricao.AdminConfirmouRestante = true
		}
		if err := repo.Update(ctx, inscricao); err != nil {
			configslog.Log.Error("ConfirmarPagamento: update falhou", zap.Uint("id", inscricaoID), zap.Error(err))
			return ErrInscricaoAtualizacaoFalhou
		}
		configslog.Log.Info("Pagamento confirmado",
			zap.Uint("inscricaoID", inscricaoID),
			zap.String("parcela", string(parcela)),
			zap.String("status", string(proximo)))
		return nil
	})
}

// CancelarInscricao leva a inscrição a CANCELADO. Estados terminais não saem
// do lugar.
func (s *InscricaoService) CancelarInscricao(ctx context.Context, ator Ator, inscricaoID uint) error {
	if !ator.Admin() {
		return ErrInscricaoNaoAutorizada
	}
	ctx = contextWithUserID(ctx, ator.PerfilID)
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repositories.NewInscricaoRepositoryTx(tx)
		inscricao, err := repo.FindByIDForUpdate(ctx, inscricaoID)
		if err != nil {
			return ErrInscricaoNaoEncontrada
		}
		if !models.PodeCancelar(inscricao.StatusPagamento) {
			return models.ErrTransicaoInvalida
		}
		inscricao.StatusPagamento = models.StatusCancelado
		if err := repo.Update(ctx, inscricao); err != nil {
			configslog.Log.Error("CancelarInscricao: update falhou", zap.Uint("id", inscricaoID), zap.Error(err))
			return ErrInscricaoAtualizacaoFalhou
		}
		configslog.Log.Info("Inscrição cancelada", zap.Uint("inscricaoID", inscricaoID))
		return nil
	})
}

// AtualizarDados edita os campos pessoais da inscrição. Admin edita qualquer
// uma; o líder só as da própria célula. Status e comprovantes ficam intocados.
func (s *InscricaoService) AtualizarDados(ctx context.Context, ator Ator, inscricaoID uint, form InscricaoForm) error {
	if err := validarFormInscricao(&form); err != nil {
		return err
	}
	inscricao, err := s.repo.FindByID(ctx, inscricaoID)
	if err != nil {
		return ErrInscricaoNaoEncontrada
	}
	if !ator.Admin() && !inscricao.PertenceA(ator.PerfilID, ator.CelulaID) {
		return ErrInscricaoNaoAutorizada
	}

	ctx = contextWithUserID(ctx, ator.PerfilID)
	campos := map[string]any{
		"nome_completo_participante": form.NomeCompletoParticipante,
		"tipo_participacao":          form.TipoParticipacao,
		"contato_pessoal":            form.ContatoPessoal,
	}
	if err := s.repo.UpdateCampos(ctx, inscricaoID, campos); err != nil {
		configslog.Log.Error("AtualizarDados: update falhou", zap.Uint("id", inscricaoID), zap.Error(err))
		return ErrInscricaoAtualizacaoFalhou
	}
	return nil
}

// ExcluirInscricao remove a inscrição em definitivo (soft delete). Só admin.
func (s *InscricaoService) ExcluirInscricao(ctx context.Context, ator Ator, inscricaoID uint) error {
	if !ator.Admin() {
		return ErrInscricaoNaoAutorizada
	}
	ctx = contextWithUserID(ctx, ator.PerfilID)
	if err := s.repo.Delete(ctx, inscricaoID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrInscricaoNaoEncontrada
		}
		configslog.Log.Error("ExcluirInscricao: delete falhou", zap.Uint("id", inscricaoID), zap.Error(err))
		return ErrInscricaoExclusaoFalhou
	}
	configslog.Log.Info("Inscrição excluída", zap.Uint("inscricaoID", inscricaoID), zap.Uint("perfilID", ator.PerfilID))
	return nil
}

// GetInscricaoByID carrega uma inscrição respeitando o escopo do ator.
func (s *InscricaoService) GetInscricaoByID(ctx context.Context, ator Ator, inscricaoID uint) (*models.Inscricao, error) {
	inscricao, err := s.repo.FindByID(ctx, inscricaoID)
	if err != nil {
		return nil, ErrInscricaoNaoEncontrada
	}
	if !ator.Admin() && !inscricao.PertenceA(ator.PerfilID, ator.CelulaID) {
		return nil, ErrInscricaoNaoAutorizada
	}
	return inscricao, nil
}

// ListInscricoesDoEvento lista paginado para o admin.
func (s *InscricaoService) ListInscricoesDoEvento(ctx context.Context, ator Ator, eventoID uint, filtros repositories.InscricaoFiltros, params queryparams.ListParams) (*queryparams.PaginatedResult, error) {
	if !ator.Admin() {
		return nil, ErrInscricaoNaoAutorizada
	}
	params.Validate()
	inscricoes, total, err := s.repo.FindByEventoPaginated(ctx, eventoID, filtros, params)
	if err != nil {
		return nil, err
	}
	return &queryparams.PaginatedResult{
		Data: inscricoes,
		Meta: queryparams.PaginationMeta{
			CurrentPage: params.Page,
			PerPage:     params.PerPage,
			TotalItems:  total,
			TotalPages:  queryparams.CalculateTotalPages(total, params.PerPage),
		},
	}, nil
}

// ListMinhasInscricoes lista as inscrições do líder logado no evento.
func (s *InscricaoService) ListMinhasInscricoes(ctx context.Context, ator Ator, eventoID uint) ([]models.Inscricao, error) {
	return s.repo.FindByEventoELider(ctx, eventoID, ator.PerfilID)
}

// ListAguardandoConfirmacao é a fila financeira do admin: tudo que espera uma
// confirmação de parcela.
func (s *InscricaoService) ListAguardandoConfirmacao(ctx context.Context, ator Ator) ([]models.Inscricao, error) {
	if !ator.Admin() {
		return nil, ErrInscricaoNaoAutorizada
	}
	return s.repo.FindAguardandoConfirmacao(ctx)
}

// ExportarCSV exporta todas as inscrições do evento para planilha.
func (s *InscricaoService) ExportarCSV(ctx context.Context, ator Ator, eventoID uint) ([]byte, error) {
	if !ator.Admin() {
		return nil, ErrInscricaoNaoAutorizada
	}
	params := queryparams.DefaultListParams("created_at")
	params.OrderBy = "asc"
	params.PerPage = queryparams.MaxPerPage

	var inscricoes []models.Inscricao
	for {
		pagina, total, err := s.repo.FindByEventoPaginated(ctx, eventoID, repositories.InscricaoFiltros{}, params)
		if err != nil {
			return nil, err
		}
		inscricoes = append(inscricoes, pagina...)
		if int64(len(inscricoes)) >= total || len(pagina) == 0 {
			break
		}
		params.Page++
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"ID", "Participante", "Tipo", "Contato", "Célula", "Status", "Entrada Confirmada", "Restante Confirmado", "Criada em"})
	for _, i := range inscricoes {
		_ = w.Write([]string{
			strconv.FormatUint(uint64(i.ID), 10),
			i.NomeCompletoParticipante,
			string(i.TipoParticipacao),
			telefone.Formatar(i.ContatoPessoal),
			i.CelulaInscricao.Nome,
			i.StatusPagamento.Texto(),
			simNao(i.AdminConfirmouEntrada),
			simNao(i.AdminConfirmouRestante),
			i.CreatedAt.Format("02/01/2006 15:04"),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		configslog.Log.Error("ExportarCSV: escrita falhou", zap.Uint("eventoID", eventoID), zap.Error(err))
		return nil, err
	}
	return buf.Bytes(), nil
}

func simNao(b bool) string {
	if b {
		return "Sim"
	}
	return "Não"
}

var _ IInscricaoService = (*InscricaoService)(nil)
