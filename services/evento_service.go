package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"celulas.app/configs"
	"celulas.app/configs/configslog"
	"celulas.app/models"
	"celulas.app/pkg/queryparams"
	"celulas.app/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EventoServiceError erros de negócio de eventos Face a Face.
type EventoServiceError string

func (e EventoServiceError) Error() string { return string(e) }

const (
	ErrEventoNaoEncontrado     EventoServiceError = "evento não encontrado"
	ErrEventoDadosInvalidos    EventoServiceError = "dados do evento inválidos"
	ErrEventoNaoAutorizado     EventoServiceError = "somente administradores gerenciam eventos"
	ErrEventoCriacaoFalhou     EventoServiceError = "não foi possível criar o evento"
	ErrEventoAtualizacaoFalhou EventoServiceError = "não foi possível atualizar o evento"
	ErrEventoExclusaoFalhou    EventoServiceError = "não foi possível excluir o evento"
)

// EventoForm são os campos editáveis de um evento.
type EventoForm struct {
	Nome              string            `validate:"required,min=3,max=255"`
	Tipo              models.EventoTipo `validate:"required,oneof=Mulheres Homens"`
	DataInicio        time.Time         `validate:"required"`
	DataFim           time.Time         `validate:"required"`
	Local             string            `validate:"max=255"`
	ValorTotal        float64           `validate:"gte=0"`
	ValorEntrada      float64           `validate:"gte=0"`
	DataLimiteEntrada time.Time         `validate:"required"`
	Observacoes       string
}

// IEventoService gerencia o ciclo de vida dos eventos.
type IEventoService interface {
	CreateEvento(ctx context.Context, ator Ator, form EventoForm) (*models.EventoFaceAFace, error)
	GetEventoByID(ctx context.Context, id uint) (*models.EventoFaceAFace, error)
	ListEventosPaginated(ctx context.Context, ator Ator, params queryparams.ListParams) (*queryparams.PaginatedResult, error)
	ListEventosAtivos(ctx context.Context) ([]models.EventoFaceAFace, error)
	UpdateEvento(ctx context.Context, ator Ator, id uint, form EventoForm) error
	AlternarAtivacao(ctx context.Context, ator Ator, id uint, ativa bool) error
	DeleteEvento(ctx context.Context, ator Ator, id uint) error
}

// EventoService implementa IEventoService.
type EventoService struct {
	repo repositories.IEventoRepository
	db   *gorm.DB
}

// NewEventoService cria o serviço com o repositório padrão.
func NewEventoService() IEventoService {
	return &EventoService{
		repo: repositories.NewEventoRepository(),
		db:   configs.GetDB(),
	}
}

func validarFormEvento(form EventoForm) error {
	if err := validate.Struct(form); err != nil {
		return fmt.Errorf("%w: %v", ErrEventoDadosInvalidos, err)
	}
	if form.DataFim.Before(form.DataInicio) {
		return fmt.Errorf("%w: a data final não pode ser anterior à inicial", ErrEventoDadosInvalidos)
	}
	evento := models.EventoFaceAFace{ValorTotal: form.ValorTotal, ValorEntrada: form.ValorEntrada}
	if err := evento.ValidarValores(); err != nil {
		return fmt.Errorf("%w: %v", ErrEventoDadosInvalidos, err)
	}
	return nil
}

// CreateEvento cria um evento desativado para inscrições; o admin liga a flag
// quando o período de inscrição abre.
func (s *EventoService) CreateEvento(ctx context.Context, ator Ator, form EventoForm) (*models.EventoFaceAFace, error) {
	if !ator.Admin() {
		return nil, ErrEventoNaoAutorizado
	}
	if err := validarFormEvento(form); err != nil {
		return nil, err
	}

	evento := &models.EventoFaceAFace{
		Nome:              form.Nome,
		Tipo:              form.Tipo,
		DataInicio:        form.DataInicio,
		DataFim:           form.DataFim,
		Local:             form.Local,
		ValorTotal:        form.ValorTotal,
		ValorEntrada:      form.ValorEntrada,
		DataLimiteEntrada: form.DataLimiteEntrada,
		Observacoes:       form.Observacoes,
		CriadoPorPerfilID: ator.PerfilID,
	}
	ctx = contextWithUserID(ctx, ator.PerfilID)
	if err := s.repo.Create(ctx, evento); err != nil {
		configslog.Log.Error("CreateEvento: create falhou", zap.Error(err))
		return nil, ErrEventoCriacaoFalhou
	}
	configslog.Log.Info("Evento criado", zap.Uint("eventoID", evento.ID), zap.String("nome", evento.Nome))
	return evento, nil
}

func (s *EventoService) GetEventoByID(ctx context.Context, id uint) (*models.EventoFaceAFace, error) {
	evento, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrEventoNaoEncontrado
	}
	return evento, nil
}

func (s *EventoService) ListEventosPaginated(ctx context.Context, ator Ator, params queryparams.ListParams) (*queryparams.PaginatedResult, error) {
	if !ator.Admin() {
		return nil, ErrEventoNaoAutorizado
	}
	params.Validate()
	eventos, total, err := s.repo.FindAllPaginated(ctx, params)
	if err != nil {
		return nil, err
	}
	return &queryparams.PaginatedResult{
		Data: eventos,
		Meta: queryparams.PaginationMeta{
			CurrentPage: params.Page,
			PerPage:     params.PerPage,
			TotalItems:  total,
			TotalPages:  queryparams.CalculateTotalPages(total, params.PerPage),
		},
	}, nil
}

// ListEventosAtivos lista os eventos abertos a inscrições; é o que o painel
// do líder enxerga.
func (s *EventoService) ListEventosAtivos(ctx context.Context) ([]models.EventoFaceAFace, error) {
	return s.repo.FindAtivos(ctx, time.Now())
}

func (s *EventoService) UpdateEvento(ctx context.Context, ator Ator, id uint, form EventoForm) error {
	if !ator.Admin() {
		return ErrEventoNaoAutorizado
	}
	if err := validarFormEvento(form); err != nil {
		return err
	}
	evento, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ErrEventoNaoEncontrado
	}

	evento.Nome = form.Nome
	evento.Tipo = form.Tipo
	evento.DataInicio = form.DataInicio
	evento.DataFim = form.DataFim
	evento.Local = form.Local
	evento.ValorTotal = form.ValorTotal
	evento.ValorEntrada = form.ValorEntrada
	evento.DataLimiteEntrada = form.DataLimiteEntrada
	evento.Observacoes = form.Observacoes

	ctx = contextWithUserID(ctx, ator.PerfilID)
	if err := s.repo.Update(ctx, evento); err != nil {
		configslog.Log.Error("UpdateEvento: update falhou", zap.Uint("id", id), zap.Error(err))
		return ErrEventoAtualizacaoFalhou
	}
	return nil
}

// AlternarAtivacao liga/desliga a aceitação de novas inscrições. Inscrições
// existentes não são afetadas.
func (s *EventoService) AlternarAtivacao(ctx context.Context, ator Ator, id uint, ativa bool) error {
	if !ator.Admin() {
		return ErrEventoNaoAutorizado
	}
	ctx = contextWithUserID(ctx, ator.PerfilID)
	if err := s.repo.UpdateAtivacao(ctx, id, ativa); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrEventoNaoEncontrado
		}
		configslog.Log.Error("AlternarAtivacao: update falhou", zap.Uint("id", id), zap.Error(err))
		return ErrEventoAtualizacaoFalhou
	}
	configslog.Log.Info("Ativação de evento alterada", zap.Uint("eventoID", id), zap.Bool("ativa", ativa))
	return nil
}

// DeleteEvento remove o evento e, na mesma transação, as inscrições e os
// convites pendentes. A cascata é explícita aqui, não delegada ao banco.
func (s *EventoService) DeleteEvento(ctx context.Context, ator Ator, id uint) error {
	if !ator.Admin() {
		return ErrEventoNaoAutorizado
	}
	ctx = contextWithUserID(ctx, ator.PerfilID)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repositories.NewEventoRepositoryTx(tx)
		if _, err := repo.FindByID(ctx, id); err != nil {
			return ErrEventoNaoEncontrado
		}
		if err := repo.DeleteInscricoesDoEvento(ctx, id); err != nil {
			return err
		}
		if err := repo.DeleteConvitesDoEvento(ctx, id); err != nil {
			return err
		}
		return repo.Delete(ctx, id)
	})
	if err != nil {
		if errors.Is(err, ErrEventoNaoEncontrado) {
			return err
		}
		configslog.Log.Error("DeleteEvento: transação falhou", zap.Uint("id", id), zap.Error(err))
		return ErrEventoExclusaoFalhou
	}
	configslog.Log.Info("Evento excluído com inscrições e convites", zap.Uint("eventoID", id), zap.Uint("perfilID", ator.PerfilID))
	return nil
}

var _ IEventoService = (*EventoService)(nil)
