package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"celulas.app/configs/configslog"
	"celulas.app/models"
	"celulas.app/pkg/queryparams"
	"celulas.app/pkg/telefone"
	"celulas.app/repositories"

	"go.uber.org/zap"
)

// MembroServiceError erros de negócio de membros.
type MembroServiceError string

func (e MembroServiceError) Error() string { return string(e) }

const (
	ErrMembroNaoEncontrado     MembroServiceError = "membro não encontrado"
	ErrMembroDadosInvalidos    MembroServiceError = "dados do membro inválidos"
	ErrMembroNaoAutorizado     MembroServiceError = "você não tem acesso a este membro"
	ErrMembroCriacaoFalhou     MembroServiceError = "não foi possível cadastrar o membro"
	ErrMembroAtualizacaoFalhou MembroServiceError = "não foi possível atualizar o membro"
	ErrMembroExclusaoFalhou    MembroServiceError = "não foi possível remover o membro"
)

// MembroForm são os campos editáveis de um membro.
type MembroForm struct {
	Nome           string              `validate:"required,min=3,max=150"`
	Telefone       string
	DataIngresso   time.Time           `validate:"required"`
	DataNascimento *time.Time
	Endereco       string              `validate:"max=255"`
	Status         models.MembroStatus `validate:"required,oneof=Ativo Inativo 'Em transição'"`
}

// IMembroService gerencia o plantel de uma célula.
type IMembroService interface {
	CreateMembro(ctx context.Context, ator Ator, celulaID uint, form MembroForm) (*models.Membro, error)
	GetMembroByID(ctx context.Context, ator Ator, id uint) (*models.Membro, error)
	ListMembrosPaginated(ctx context.Context, ator Ator, params queryparams.ListParams) (*queryparams.PaginatedResult, error)
	ListMembrosDaCelula(ctx context.Context, ator Ator, celulaID uint) ([]models.Membro, error)
	UpdateMembro(ctx context.Context, ator Ator, id uint, form MembroForm) error
	DeleteMembro(ctx context.Context, ator Ator, id uint) error
}

// MembroService implementa IMembroService.
type MembroService struct {
	repo repositories.IMembroRepository
}

// NewMembroService cria o serviço com o repositório padrão.
func NewMembroService() IMembroService {
	return &MembroService{repo: repositories.NewMembroRepository()}
}

// celulaDoAtor resolve o escopo: admin usa a célula pedida, líder fica preso
// à própria.
func celulaDoAtor(ator Ator, pedida uint) (uint, error) {
	if ator.Admin() {
		return pedida, nil
	}
	if !ator.TemCelula() {
		return 0, ErrMembroNaoAutorizado
	}
	if pedida != 0 && pedida != *ator.CelulaID {
		return 0, ErrMembroNaoAutorizado
	}
	return *ator.CelulaID, nil
}

func validarFormMembro(form *MembroForm) error {
	if err := validate.Struct(form); err != nil {
		return fmt.Errorf("%w: %v", ErrMembroDadosInvalidos, err)
	}
	if form.Telefone != "" {
		tel, err := telefone.Normalizar(form.Telefone)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMembroDadosInvalidos, err)
		}
		form.Telefone = tel
	}
	return nil
}

func (s *MembroService) CreateMembro(ctx context.Context, ator Ator, celulaID uint, form MembroForm) (*models.Membro, error) {
	escopo, err := celulaDoAtor(ator, celulaID)
	if err != nil {
		return nil, err
	}
	if escopo == 0 {
		return nil, fmt.Errorf("%w: célula é obrigatória", ErrMembroDadosInvalidos)
	}
	if err := validarFormMembro(&form); err != nil {
		return nil, err
	}

	membro := &models.Membro{
		CelulaID:       escopo,
		Nome:           form.Nome,
		Telefone:       form.Telefone,
		DataIngresso:   form.DataIngresso,
		DataNascimento: form.DataNascimento,
		Endereco:       form.Endereco,
		Status:         form.Status,
	}
	ctx = contextWithUserID(ctx, ator.PerfilID)
	if err := s.repo.Create(ctx, membro); err != nil {
		configslog.Log.Error("CreateMembro: create falhou", zap.Uint("celulaID", escopo), zap.Error(err))
		return nil, ErrMembroCriacaoFalhou
	}
	return membro, nil
}

func (s *MembroService) GetMembroByID(ctx context.Context, ator Ator, id uint) (*models.Membro, error) {
	membro, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrMembroNaoEncontrado
	}
	if !ator.Admin() && (!ator.TemCelula() || membro.CelulaID != *ator.CelulaID) {
		return nil, ErrMembroNaoAutorizado
	}
	return membro, nil
}

// ListMembrosPaginated lista com filtros; o líder enxerga só a própria célula,
// o admin filtra por qualquer uma via params.Celula.
func (s *MembroService) ListMembrosPaginated(ctx context.Context, ator Ator, params queryparams.ListParams) (*queryparams.PaginatedResult, error) {
	escopo, err := celulaDoAtor(ator, params.Celula)
	if err != nil {
		return nil, err
	}
	params.Validate()
	membros, total, err := s.repo.FindPaginated(ctx, escopo, params)
	if err != nil {
		return nil, err
	}
	return &queryparams.PaginatedResult{
		Data: membros,
		Meta: queryparams.PaginationMeta{
			CurrentPage: params.Page,
			PerPage:     params.PerPage,
			TotalItems:  total,
			TotalPages:  queryparams.CalculateTotalPages(total, params.PerPage),
		},
	}, nil
}

func (s *MembroService) ListMembrosDaCelula(ctx context.Context, ator Ator, celulaID uint) ([]models.Membro, error) {
	escopo, err := celulaDoAtor(ator, celulaID)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByCelula(ctx, escopo)
}

func (s *MembroService) UpdateMembro(ctx context.Context, ator Ator, id uint, form MembroForm) error {
	membro, err := s.GetMembroByID(ctx, ator, id)
	if err != nil {
		return err
	}
	if err := validarFormMembro(&form); err != nil {
		return err
	}

	membro.Nome = form.Nome
	membro.Telefone = form.Telefone
	membro.DataIngresso = form.DataIngresso
	membro.DataNascimento = form.DataNascimento
	membro.Endereco = form.Endereco
	membro.Status = form.Status

	ctx = contextWithUserID(ctx, ator.PerfilID)
	if err := s.repo.Save(ctx, membro); err != nil {
		configslog.Log.Error("UpdateMembro: save falhou", zap.Uint("id", id), zap.Error(err))
		return ErrMembroAtualizacaoFalhou
	}
	return nil
}

func (s *MembroService) DeleteMembro(ctx context.Context, ator Ator, id uint) error {
	if _, err := s.GetMembroByID(ctx, ator, id); err != nil {
		return err
	}
	ctx = contextWithUserID(ctx, ator.PerfilID)
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrMembroNaoEncontrado
		}
		configslog.Log.Error("DeleteMembro: delete falhou", zap.Uint("id", id), zap.Error(err))
		return ErrMembroExclusaoFalhou
	}
	return nil
}

var _ IMembroService = (*MembroService)(nil)
